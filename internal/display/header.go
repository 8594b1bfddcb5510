package display

import (
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
)

var arabicWeekdays = [...]string{
	time.Sunday:    "الأحد",
	time.Monday:    "الإثنين",
	time.Tuesday:   "الثلاثاء",
	time.Wednesday: "الأربعاء",
	time.Thursday:  "الخميس",
	time.Friday:    "الجمعة",
	time.Saturday:  "السبت",
}

// Info постоянный текст вокруг расписания.
type Info struct {
	MosqueName string
	PlaceName  string
	Names      model.DisplayNames
}

// WeekdayName предпочитает название дня недели из таблицы.
func WeekdayName(day *model.DailyPrayerTimes, now time.Time) string {
	if day != nil && day.ArabicDay != "" {
		return day.ArabicDay
	}
	return arabicWeekdays[now.Weekday()]
}

// Place предпочитает место из таблицы месту из конфига.
func (i Info) Place(day *model.DailyPrayerTimes) string {
	if day != nil && day.Place != "" {
		return day.Place
	}
	return i.PlaceName
}

// DateLine выводит "<день недели> 2025-01-09 | <хиджра>".
func DateLine(day *model.DailyPrayerTimes, now time.Time) string {
	line := WeekdayName(day, now) + " " + now.Format(model.DateLayout)
	if day != nil && day.Hijri.Formatted != "" {
		line += " | " + day.Hijri.Formatted
	}
	return line
}
