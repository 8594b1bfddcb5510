package timetable

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS prayer_days (
	day         TEXT PRIMARY KEY,
	fajr        TEXT NOT NULL DEFAULT '--:--',
	dhuhr       TEXT NOT NULL DEFAULT '--:--',
	asr         TEXT NOT NULL DEFAULT '--:--',
	maghrib     TEXT NOT NULL DEFAULT '--:--',
	isha        TEXT NOT NULL DEFAULT '--:--',
	sunrise     TEXT NOT NULL DEFAULT '--:--',
	imsak       TEXT NOT NULL DEFAULT '--:--',
	midnight    TEXT NOT NULL DEFAULT '--:--',
	hijri_date  TEXT NOT NULL DEFAULT '',
	hijri_day   TEXT NOT NULL DEFAULT '',
	hijri_month TEXT NOT NULL DEFAULT '',
	hijri_year  TEXT NOT NULL DEFAULT '',
	arabic_day  TEXT NOT NULL DEFAULT '',
	place       TEXT NOT NULL DEFAULT ''
)`

// SQLiteStore хранит расписание в одном файле SQLite, для экранов без сервера БД.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenSQLite открывает (и при необходимости создаёт) хранилище по пути path.
func OpenSQLite(ctx context.Context, path string, readOnly bool, logger *zap.Logger) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", path)
	if readOnly {
		dsn = fmt.Sprintf("file:%s?mode=ro", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if !readOnly {
		if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load читает все строки в Table.
func (s *SQLiteStore) Load(ctx context.Context) (*Table, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day, fajr, dhuhr, asr, maghrib, isha, sunrise, imsak, midnight,
		       hijri_date, hijri_day, hijri_month, hijri_year, arabic_day, place
		FROM prayer_days
		ORDER BY day
	`)
	if err != nil {
		return nil, fmt.Errorf("query prayer days: %w", err)
	}
	defer rows.Close()

	var days []*model.DailyPrayerTimes
	for rows.Next() {
		var (
			day                        string
			times                      [5]string
			sunrise, imsak, midnight   string
			hDate, hDay, hMonth, hYear string
			arabicDay, place           string
		)
		if err := rows.Scan(&day, &times[0], &times[1], &times[2], &times[3], &times[4],
			&sunrise, &imsak, &midnight, &hDate, &hDay, &hMonth, &hYear, &arabicDay, &place); err != nil {
			return nil, fmt.Errorf("scan prayer day: %w", err)
		}

		date, err := parseDate(day)
		if err != nil {
			s.logger.Warn("⚠️ Skipping stored day", zap.String("day", day), zap.Error(err))
			continue
		}
		row := model.NewDailyPrayerTimes(date)
		for i, p := range model.Prayers {
			row.Times[p] = model.ParseClockTime(times[i])
		}
		row.Sunrise = model.ParseClockTime(sunrise)
		row.Imsak = model.ParseClockTime(imsak)
		row.Midnight = model.ParseClockTime(midnight)
		row.Hijri = model.HijriDate{Formatted: hDate, Day: hDay, Month: hMonth, Year: hYear}
		row.ArabicDay = arabicDay
		row.Place = place
		days = append(days, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prayer days: %w", err)
	}

	if len(days) == 0 {
		return nil, ErrNoData
	}
	return NewTable(days), nil
}

// Upsert записывает строки одной транзакцией, заменяя существующие дни.
func (s *SQLiteStore) Upsert(ctx context.Context, days []*model.DailyPrayerTimes) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO prayer_days (day, fajr, dhuhr, asr, maghrib, isha, sunrise, imsak, midnight,
		                         hijri_date, hijri_day, hijri_month, hijri_year, arabic_day, place)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			fajr = excluded.fajr, dhuhr = excluded.dhuhr, asr = excluded.asr,
			maghrib = excluded.maghrib, isha = excluded.isha,
			sunrise = excluded.sunrise, imsak = excluded.imsak, midnight = excluded.midnight,
			hijri_date = excluded.hijri_date, hijri_day = excluded.hijri_day,
			hijri_month = excluded.hijri_month, hijri_year = excluded.hijri_year,
			arabic_day = excluded.arabic_day, place = excluded.place
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, d := range days {
		_, err := stmt.ExecContext(ctx, d.Key(),
			d.Time(model.PrayerFajr).String(), d.Time(model.PrayerDhuhr).String(),
			d.Time(model.PrayerAsr).String(), d.Time(model.PrayerMaghrib).String(),
			d.Time(model.PrayerIsha).String(),
			d.Sunrise.String(), d.Imsak.String(), d.Midnight.String(),
			d.Hijri.Formatted, d.Hijri.Day, d.Hijri.Month, d.Hijri.Year,
			d.ArabicDay, d.Place,
		)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", d.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
