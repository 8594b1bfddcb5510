package model

import "time"

// DateLayout формат ключа даты во всех источниках расписания.
const DateLayout = "2006-01-02"

type HijriDate struct {
	Formatted string `json:"formatted"` // "12/رجب/1447"
	Day       string `json:"day"`
	Month     string `json:"month"`
	Year      string `json:"year"`
}

// DailyPrayerTimes одна строка расписания.
type DailyPrayerTimes struct {
	Date      time.Time               `json:"date"`
	Times     map[PrayerKey]ClockTime `json:"-"`
	Sunrise   ClockTime               `json:"-"`
	Imsak     ClockTime               `json:"-"`
	Midnight  ClockTime               `json:"-"`
	Hijri     HijriDate               `json:"hijri"`
	ArabicDay string                  `json:"arabic_day"`
	Place     string                  `json:"place"`
}

// NewDailyPrayerTimes возвращает пустую строку на date, все времена не заданы.
func NewDailyPrayerTimes(date time.Time) *DailyPrayerTimes {
	return &DailyPrayerTimes{
		Date:  date,
		Times: make(map[PrayerKey]ClockTime, len(Prayers)),
	}
}

// Key возвращает ключ даты строки.
func (d *DailyPrayerTimes) Key() string {
	return d.Date.Format(DateLayout)
}

// Time возвращает время намаза p; не задано, если в строке его нет.
func (d *DailyPrayerTimes) Time(p PrayerKey) ClockTime {
	if d == nil || d.Times == nil {
		return ClockTime{}
	}
	return d.Times[p]
}

// At возвращает момент намаза p в дату строки в поясе loc.
func (d *DailyPrayerTimes) At(p PrayerKey, loc *time.Location) (time.Time, bool) {
	if d == nil {
		return time.Time{}, false
	}
	y, m, day := d.Date.Date()
	return d.Time(p).On(time.Date(y, m, day, 0, 0, 0, 0, loc))
}

// Shift сдвигает все времена строки на offset. Нужен, когда источник публикует время в другом поясе.
func (d *DailyPrayerTimes) Shift(offset time.Duration) {
	for k, t := range d.Times {
		d.Times[k] = t.Shift(offset)
	}
	d.Sunrise = d.Sunrise.Shift(offset)
	d.Imsak = d.Imsak.Shift(offset)
	d.Midnight = d.Midnight.Shift(offset)
}

// LastPrayer возвращает последний намаз строки, наступивший не позже now.
func (d *DailyPrayerTimes) LastPrayer(now time.Time) (PrayerKey, bool) {
	var (
		last  PrayerKey
		found bool
	)
	for _, p := range Prayers {
		if at, ok := d.At(p, now.Location()); ok && !at.After(now) {
			last, found = p, true
		}
	}
	return last, found
}

// DateKey форматирует t как ключ расписания по календарному дню самого t.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}
