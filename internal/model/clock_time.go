package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UnsetClock заглушка для отсутствующего или некорректного времени.
const UnsetClock = "--:--"

// ClockTime время часы:минуты, которое может быть не задано.
// Нулевое значение не задано, поэтому пустая колонка никогда не читается как полночь.
type ClockTime struct {
	hour   int
	minute int
	set    bool
}

// NewClockTime возвращает заданное время или незаданное, если значения вне диапазона.
func NewClockTime(hour, minute int) ClockTime {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ClockTime{}
	}
	return ClockTime{hour: hour, minute: minute, set: true}
}

// ParseClockTime разбирает "H:MM" или "HH:MM". Всё остальное, включая заглушку, не задано.
func ParseClockTime(s string) ClockTime {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[1]) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 {
		return ClockTime{}
	}
	if !digits(parts[0]) || !digits(parts[1]) {
		return ClockTime{}
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return ClockTime{}
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return ClockTime{}
	}
	return NewClockTime(h, m)
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (c ClockTime) IsSet() bool { return c.set }

func (c ClockTime) Hour() int { return c.hour }

func (c ClockTime) Minute() int { return c.minute }

// String выводит HH:MM с ведущими нулями или заглушку, если время не задано.
func (c ClockTime) String() string {
	if !c.set {
		return UnsetClock
	}
	return fmt.Sprintf("%02d:%02d", c.hour, c.minute)
}

// On ставит время на календарный день date в его часовом поясе.
func (c ClockTime) On(date time.Time) (time.Time, bool) {
	if !c.set {
		return time.Time{}, false
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, c.hour, c.minute, 0, 0, date.Location()), true
}

// Shift сдвигает время на d с переходом через полночь. Незаданное остаётся незаданным.
func (c ClockTime) Shift(d time.Duration) ClockTime {
	if !c.set {
		return c
	}
	total := (c.hour*60 + c.minute + int(d/time.Minute)) % (24 * 60)
	if total < 0 {
		total += 24 * 60
	}
	return NewClockTime(total/60, total%60)
}
