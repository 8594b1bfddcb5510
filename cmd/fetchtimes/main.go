package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/aladhan"
	"github.com/Freeeeeet/mosque_display/internal/app"
	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/repository"
	"github.com/Freeeeeet/mosque_display/internal/timetable"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type options struct {
	city       string
	country    string
	method     int
	place      string
	from       string
	months     int
	shift      time.Duration
	delay      time.Duration
	out        string
	dsn        string
	migrations string
	sqlitePath string
	keepDays   int
	env        string
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.city, "city", "Meknes", "city passed to the calendar service")
	flag.StringVar(&o.country, "country", "Morocco", "country passed to the calendar service")
	flag.IntVar(&o.method, "method", aladhan.DefaultMethod, "calculation method id")
	flag.StringVar(&o.place, "place", "مدينة مكناس - المغرب", "place label stored with every row")
	flag.StringVar(&o.from, "from", time.Now().Format("2006-01"), "first month to fetch, YYYY-MM")
	flag.IntVar(&o.months, "months", 12, "number of months to fetch")
	flag.DurationVar(&o.shift, "shift", 0, "move every time by this offset, e.g. -1h")
	flag.DurationVar(&o.delay, "delay", time.Second, "pause between months")
	flag.StringVar(&o.out, "out", "prayer_times.csv", "CSV output path, empty to skip")
	flag.StringVar(&o.dsn, "db", os.Getenv("DB_DSN"), "Postgres DSN to upsert into, empty to skip")
	flag.StringVar(&o.migrations, "migrations", "./migrations", "goose migrations directory")
	flag.StringVar(&o.sqlitePath, "sqlite", "", "SQLite file to upsert into, empty to skip")
	flag.IntVar(&o.keepDays, "keep-days", 0, "delete Postgres rows older than this many days, 0 keeps everything")
	flag.StringVar(&o.env, "env", os.Getenv("ENV"), "logger environment")
	flag.Parse()
	return o
}

func main() {
	opts := parseFlags()

	start, err := time.Parse("2006-01", opts.from)
	if err != nil {
		log.Fatalf("Bad -from %q: %v", opts.from, err)
	}
	if opts.months < 1 {
		log.Fatalf("-months must be at least 1")
	}

	logger := app.NewLogger(opts.env, "")
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	days, err := fetch(ctx, opts, start, logger)
	if err != nil {
		logger.Fatal("Fetch failed", zap.Error(err))
	}

	if opts.out != "" {
		if err := writeCSV(opts.out, days); err != nil {
			logger.Fatal("Failed to write CSV", zap.Error(err))
		}
		logger.Info("✅ CSV written", zap.String("path", opts.out), zap.Int("days", len(days)))
	}

	if opts.sqlitePath != "" {
		if err := writeSQLite(ctx, opts.sqlitePath, days, logger); err != nil {
			logger.Fatal("Failed to write SQLite", zap.Error(err))
		}
		logger.Info("✅ SQLite updated", zap.String("path", opts.sqlitePath), zap.Int("days", len(days)))
	}

	if opts.dsn != "" {
		n, err := writePostgres(ctx, opts, days, logger)
		if err != nil {
			logger.Fatal("Failed to write Postgres", zap.Error(err))
		}
		logger.Info("✅ Postgres updated", zap.Int64("rows", n))
	}
}

func fetch(ctx context.Context, opts options, start time.Time, logger *zap.Logger) ([]*model.DailyPrayerTimes, error) {
	client := aladhan.NewClient("", nil, logger)
	query := aladhan.Query{City: opts.city, Country: opts.country, Method: opts.method}

	byDate := make(map[string]*model.DailyPrayerTimes)
	for i := 0; i < opts.months; i++ {
		month := start.AddDate(0, i, 0)
		if i > 0 && opts.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(opts.delay):
			}
		}

		logger.Info("Fetching month", zap.String("month", month.Format("2006-01")))
		days, err := client.Month(ctx, query, month.Year(), month.Month())
		if err != nil {
			return nil, fmt.Errorf("month %s: %w", month.Format("2006-01"), err)
		}
		for _, d := range days {
			if opts.shift != 0 {
				d.Shift(opts.shift)
			}
			d.Place = opts.place
			byDate[d.Key()] = d
		}
	}

	keys := make([]string, 0, len(byDate))
	for k := range byDate {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*model.DailyPrayerTimes, 0, len(keys))
	for _, k := range keys {
		out = append(out, byDate[k])
	}
	return out, nil
}

func writeCSV(path string, days []*model.DailyPrayerTimes) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := timetable.WriteCSV(f, days); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeSQLite(ctx context.Context, path string, days []*model.DailyPrayerTimes, logger *zap.Logger) error {
	store, err := timetable.OpenSQLite(ctx, path, false, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Upsert(ctx, days)
}

func writePostgres(ctx context.Context, opts options, days []*model.DailyPrayerTimes, logger *zap.Logger) (int64, error) {
	pool, err := pgxpool.New(ctx, opts.dsn)
	if err != nil {
		return 0, fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, opts.migrations, logger)
	if err != nil {
		return 0, err
	}
	defer migrator.Close()
	if err := migrator.Run(ctx); err != nil {
		return 0, err
	}

	repo := repository.NewPrayerDayRepository(pool)
	n, err := repo.Upsert(ctx, days, "aladhan:"+opts.city)
	if err != nil {
		return 0, err
	}

	if len(days) > 0 {
		stored, err := repo.GetByDate(ctx, days[0].Date)
		if err != nil {
			return n, err
		}
		if stored == nil {
			logger.Warn("⚠️ First fetched day not found after upsert", zap.String("day", days[0].Key()))
		}
	}

	if opts.keepDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -opts.keepDays)
		removed, err := repo.DeleteBefore(ctx, cutoff)
		if err != nil {
			return n, err
		}
		logger.Info("🧹 Old days removed", zap.Int64("rows", removed), zap.String("before", model.DateKey(cutoff)))
	}
	return n, nil
}
