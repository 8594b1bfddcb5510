package timetable

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"go.uber.org/zap"
)

type column string

const (
	colDate       column = "date"
	colSunrise    column = "sunrise"
	colImsak      column = "imsak"
	colMidnight   column = "midnight"
	colHijriDate  column = "hijri_date"
	colHijriDay   column = "hijri_day"
	colHijriMonth column = "hijri_month"
	colHijriYear  column = "hijri_year"
	colArabicDay  column = "arabic_day"
	colPlace      column = "place"
)

// header порядок колонок, который пишет WriteCSV.
var header = []column{
	colDate,
	column(model.PrayerFajr), column(model.PrayerDhuhr), column(model.PrayerAsr),
	column(model.PrayerMaghrib), column(model.PrayerIsha),
	colSunrise, colImsak, colMidnight,
	colHijriDate, colHijriDay, colHijriMonth, colHijriYear,
	colArabicDay, colPlace,
}

// aliases сопоставляет арабские заголовки ручных таблиц каноническим колонкам.
var aliases = map[string]column{
	"تاريخ":          colDate,
	"التاريخ":        colDate,
	"الفجر":          column(model.PrayerFajr),
	"الظهر":          column(model.PrayerDhuhr),
	"العصر":          column(model.PrayerAsr),
	"المغرب":         column(model.PrayerMaghrib),
	"العشاء":         column(model.PrayerIsha),
	"الشروق":         colSunrise,
	"الإمساك":        colImsak,
	"منتصف الليل":    colMidnight,
	"التاريخ الهجري": colHijriDate,
	"اليوم الهجري":   colHijriDay,
	"الشهر الهجري":   colHijriMonth,
	"السنة الهجرية":  colHijriYear,
	"اليوم العربي":   colArabicDay,
	"المكان":         colPlace,
}

var dateLayouts = []string{model.DateLayout, "02-01-2006", "2006/01/02"}

func canonical(name string) column {
	name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	if c, ok := aliases[name]; ok {
		return c
	}
	return column(strings.ToLower(strings.ReplaceAll(name, " ", "_")))
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ReadCSV разбирает расписание с английскими или арабскими заголовками.
// Битые строки и строки с плохой датой пропускаются; плохое время становится незаданным.
func ReadCSV(r io.Reader, logger *zap.Logger) ([]*model.DailyPrayerTimes, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	names, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[column]int, len(names))
	for i, n := range names {
		index[canonical(n)] = i
	}
	if _, ok := index[colDate]; !ok {
		return nil, fmt.Errorf("time table has no date column (header %v)", names)
	}

	var rows []*model.DailyPrayerTimes
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				logger.Warn("⚠️ Skipping malformed time table line", zap.Int("line", perr.StartLine), zap.Error(err))
				continue
			}
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		get := func(c column) string {
			i, ok := index[c]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		date, err := parseDate(get(colDate))
		if err != nil {
			logger.Warn("⚠️ Skipping time table row", zap.Int("line", line), zap.Error(err))
			continue
		}

		row := model.NewDailyPrayerTimes(date)
		for _, p := range model.Prayers {
			row.Times[p] = model.ParseClockTime(get(column(p)))
		}
		row.Sunrise = model.ParseClockTime(get(colSunrise))
		row.Imsak = model.ParseClockTime(get(colImsak))
		row.Midnight = model.ParseClockTime(get(colMidnight))
		row.Hijri = model.HijriDate{
			Formatted: get(colHijriDate),
			Day:       get(colHijriDay),
			Month:     get(colHijriMonth),
			Year:      get(colHijriYear),
		}
		row.ArabicDay = get(colArabicDay)
		row.Place = get(colPlace)
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrNoData
	}
	return rows, nil
}

// WriteCSV пишет строки с английскими заголовками. Незаданное время пишется заглушкой.
func WriteCSV(w io.Writer, rows []*model.DailyPrayerTimes) error {
	writer := csv.NewWriter(w)

	names := make([]string, len(header))
	for i, c := range header {
		names[i] = string(c)
	}
	if err := writer.Write(names); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range rows {
		record := []string{r.Key()}
		for _, p := range model.Prayers {
			record = append(record, r.Time(p).String())
		}
		record = append(record,
			r.Sunrise.String(), r.Imsak.String(), r.Midnight.String(),
			r.Hijri.Formatted, r.Hijri.Day, r.Hijri.Month, r.Hijri.Year,
			r.ArabicDay, r.Place,
		)
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", r.Key(), err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVSource загружает расписание из файла.
type CSVSource struct {
	path   string
	logger *zap.Logger
}

func NewCSVSource(path string, logger *zap.Logger) *CSVSource {
	return &CSVSource{path: path, logger: logger}
}

func (s *CSVSource) Load(_ context.Context) (*Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open time table %s: %w", s.path, err)
	}
	defer f.Close()

	rows, err := ReadCSV(f, s.logger)
	if err != nil {
		return nil, fmt.Errorf("load time table %s: %w", s.path, err)
	}
	return NewTable(rows), nil
}
