package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/repository/base"
	"github.com/Freeeeeet/mosque_display/internal/timetable"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const prayerDayColumns = `day, fajr, dhuhr, asr, maghrib, isha, sunrise, imsak, midnight,
	hijri_date, hijri_day, hijri_month, hijri_year, arabic_day, place`

// PrayerDayRepository хранит расписание в Postgres
type PrayerDayRepository struct {
	*base.Repository
}

func NewPrayerDayRepository(pool *pgxpool.Pool) *PrayerDayRepository {
	return &PrayerDayRepository{Repository: base.NewRepository(pool)}
}

// Load читает всю таблицу; так репозиторий становится timetable.Source
func (r *PrayerDayRepository) Load(ctx context.Context) (*timetable.Table, error) {
	rows, err := r.Query(ctx, `SELECT `+prayerDayColumns+` FROM prayer_days ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("load prayer days: %w", err)
	}
	days, err := collectDays(rows)
	if err != nil {
		return nil, fmt.Errorf("load prayer days: %w", err)
	}
	if len(days) == 0 {
		return nil, timetable.ErrNoData
	}
	return timetable.NewTable(days), nil
}

// GetByDate возвращает строку на date или nil, если её нет
func (r *PrayerDayRepository) GetByDate(ctx context.Context, date time.Time) (*model.DailyPrayerTimes, error) {
	row := r.QueryRow(ctx, `SELECT `+prayerDayColumns+` FROM prayer_days WHERE day = $1`, date.Format(model.DateLayout))

	day, err := scanDay(row)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get prayer day: %w", err)
	}
	return day, nil
}

// Upsert вставляет или заменяет дни одним батчем; сохраняются либо все дни, либо ни одного
func (r *PrayerDayRepository) Upsert(ctx context.Context, days []*model.DailyPrayerTimes, source string) (int64, error) {
	query := `
		INSERT INTO prayer_days (` + prayerDayColumns + `, source, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())
		ON CONFLICT (day) DO UPDATE SET
			fajr = EXCLUDED.fajr, dhuhr = EXCLUDED.dhuhr, asr = EXCLUDED.asr,
			maghrib = EXCLUDED.maghrib, isha = EXCLUDED.isha,
			sunrise = EXCLUDED.sunrise, imsak = EXCLUDED.imsak, midnight = EXCLUDED.midnight,
			hijri_date = EXCLUDED.hijri_date, hijri_day = EXCLUDED.hijri_day,
			hijri_month = EXCLUDED.hijri_month, hijri_year = EXCLUDED.hijri_year,
			arabic_day = EXCLUDED.arabic_day, place = EXCLUDED.place,
			source = EXCLUDED.source, updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, d := range days {
		batch.Queue(query,
			d.Key(),
			d.Time(model.PrayerFajr).String(), d.Time(model.PrayerDhuhr).String(),
			d.Time(model.PrayerAsr).String(), d.Time(model.PrayerMaghrib).String(),
			d.Time(model.PrayerIsha).String(),
			d.Sunrise.String(), d.Imsak.String(), d.Midnight.String(),
			d.Hijri.Formatted, d.Hijri.Day, d.Hijri.Month, d.Hijri.Year,
			d.ArabicDay, d.Place, source,
		)
	}

	var affected int64
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		results := tx.SendBatch(ctx, batch)
		for _, d := range days {
			tag, err := results.Exec()
			if err != nil {
				results.Close()
				return fmt.Errorf("upsert prayer day %s: %w", d.Key(), err)
			}
			affected += tag.RowsAffected()
		}
		return results.Close()
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// DeleteBefore удаляет дни старше date
func (r *PrayerDayRepository) DeleteBefore(ctx context.Context, date time.Time) (int64, error) {
	n, err := r.ExecAffected(ctx, `DELETE FROM prayer_days WHERE day < $1`, date.Format(model.DateLayout))
	if err != nil {
		return 0, fmt.Errorf("delete old prayer days: %w", err)
	}
	return n, nil
}

func collectDays(rows pgx.Rows) ([]*model.DailyPrayerTimes, error) {
	defer rows.Close()

	var days []*model.DailyPrayerTimes
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prayer day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return days, nil
}

func scanDay(row pgx.Row) (*model.DailyPrayerTimes, error) {
	var (
		date                     time.Time
		times                    [5]string
		sunrise, imsak, midnight string
		hijri                    model.HijriDate
		arabicDay, place         string
	)
	err := row.Scan(
		&date,
		&times[0], &times[1], &times[2], &times[3], &times[4],
		&sunrise, &imsak, &midnight,
		&hijri.Formatted, &hijri.Day, &hijri.Month, &hijri.Year,
		&arabicDay, &place,
	)
	if err != nil {
		return nil, err
	}

	day := model.NewDailyPrayerTimes(date)
	for i, p := range model.Prayers {
		day.Times[p] = model.ParseClockTime(times[i])
	}
	day.Sunrise = model.ParseClockTime(sunrise)
	day.Imsak = model.ParseClockTime(imsak)
	day.Midnight = model.ParseClockTime(midnight)
	day.Hijri = hijri
	day.ArabicDay = arabicDay
	day.Place = place
	return day, nil
}
