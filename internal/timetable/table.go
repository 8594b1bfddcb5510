package timetable

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
)

// ErrNoData возвращают источники, в которых нет ни одной строки.
var ErrNoData = errors.New("time table has no rows")

// Source загружает всё расписание. Реализации: CSV файл, Postgres, SQLite.
type Source interface {
	Load(ctx context.Context) (*Table, error)
}

// Table неизменяемая таблица дата -> строка. Строится один раз, дальше только читается.
type Table struct {
	rows map[string]*model.DailyPrayerTimes
	keys []string
}

// NewTable строит таблицу из строк. Более поздняя строка на ту же дату заменяет раннюю.
func NewTable(rows []*model.DailyPrayerTimes) *Table {
	t := &Table{rows: make(map[string]*model.DailyPrayerTimes, len(rows))}
	for _, r := range rows {
		if r == nil {
			continue
		}
		t.rows[r.Key()] = r
	}
	t.keys = make([]string, 0, len(t.rows))
	for k := range t.rows {
		t.keys = append(t.keys, k)
	}
	sort.Strings(t.keys)
	return t
}

// Day возвращает строку на календарный день date. У nil таблицы строк нет.
func (t *Table) Day(date time.Time) (*model.DailyPrayerTimes, bool) {
	if t == nil {
		return nil, false
	}
	r, ok := t.rows[model.DateKey(date)]
	return r, ok
}

// Range возвращает строки на count дней подряд начиная с from, пропуская отсутствующие.
func (t *Table) Range(from time.Time, count int) []*model.DailyPrayerTimes {
	out := make([]*model.DailyPrayerTimes, 0, count)
	for i := 0; i < count; i++ {
		if r, ok := t.Day(from.AddDate(0, 0, i)); ok {
			out = append(out, r)
		}
	}
	return out
}

// Rows возвращает все строки по порядку дат.
func (t *Table) Rows() []*model.DailyPrayerTimes {
	if t == nil {
		return nil
	}
	out := make([]*model.DailyPrayerTimes, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, t.rows[k])
	}
	return out
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Bounds возвращает первый и последний ключ даты или пустые строки для пустой таблицы.
func (t *Table) Bounds() (string, string) {
	if t.Len() == 0 {
		return "", ""
	}
	return t.keys[0], t.keys[len(t.keys)-1]
}
