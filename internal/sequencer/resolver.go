package sequencer

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/timetable"
)

// Occurrence намаз, привязанный к конкретному моменту.
type Occurrence struct {
	Prayer model.PrayerKey
	At     time.Time
}

// NextPrayer возвращает первый намаз строго после now, глядя в сегодняшнюю
// строку, затем в завтрашнюю. Незаданные времена пропускаются. ok равен false, если
// ни одна строка не дала намаза.
func NextPrayer(table *timetable.Table, now time.Time) (Occurrence, bool) {
	for offset := 0; offset <= 1; offset++ {
		day := now.AddDate(0, 0, offset)
		row, found := table.Day(day)
		if !found {
			continue
		}
		for _, p := range model.Prayers {
			at, set := row.At(p, now.Location())
			if !set {
				continue
			}
			if at.After(now) {
				return Occurrence{Prayer: p, At: at}, true
			}
		}
	}
	return Occurrence{}, false
}

// Remaining возвращает время до at, не меньше нуля и с точностью до секунды.
func Remaining(now, at time.Time) time.Duration {
	d := at.Sub(now)
	if d <= 0 {
		return 0
	}
	return d.Truncate(time.Second)
}

// FormatCountdown выводит hh:mm:ss, если остался час и больше, иначе mm:ss.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
