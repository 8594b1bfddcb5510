package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/app"
	"github.com/Freeeeeet/mosque_display/internal/audio"
	"github.com/Freeeeeet/mosque_display/internal/broadcast"
	"github.com/Freeeeeet/mosque_display/internal/config"
	"github.com/Freeeeeet/mosque_display/internal/controller"
	"github.com/Freeeeeet/mosque_display/internal/controller/handlers"
	"github.com/Freeeeeet/mosque_display/internal/display"
	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/repository"
	"github.com/Freeeeeet/mosque_display/internal/sequencer"
	"github.com/Freeeeeet/mosque_display/internal/service"
	"github.com/Freeeeeet/mosque_display/internal/timetable"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// announceDrain ограничивает ожидание анонсов в Telegram при остановке.
const announceDrain = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	profile, err := config.LoadProfile(cfg.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}
	if profile.Screen.MosqueName != "" {
		cfg.MosqueName = profile.Screen.MosqueName
	}
	if profile.Screen.PlaceName != "" {
		cfg.PlaceName = profile.Screen.PlaceName
	}

	logFile := cfg.LogFile
	if !cfg.Headless && logFile == "" {
		// терминал занят экраном
		logFile = "mosque_display.log"
	}
	logger := app.NewLogger(cfg.Environment, logFile)
	defer logger.Sync()

	logger.Info("Starting mosque display",
		zap.String("environment", cfg.Environment),
		zap.String("source", cfg.TimetableSource),
		zap.String("timezone", cfg.Location.String()),
		zap.Bool("headless", cfg.Headless),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	table, closeSource, err := loadTable(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load time table", zap.Error(err))
	}
	defer closeSource()

	seq := sequencer.New(profile.Timings, profile.Catalog, profile.Names)
	fanout := display.NewFanout(logger, display.NewLogPresenter(logger.Named("screen")))

	var player audio.Player = audio.NewNopPlayer(logger)
	if cfg.AdhanFile != "" || cfg.IqamaFile != "" {
		player = audio.NewBeepPlayer(map[model.ClipKind]string{
			model.ClipAdhan: cfg.AdhanFile,
			model.ClipIqama: cfg.IqamaFile,
		}, logger.Named("audio"))
	}

	scheduler := app.NewScheduler(seq, table, player, fanout, app.SystemClock(cfg.Location), cfg.Tick, logger)
	info := display.Info{MosqueName: cfg.MosqueName, PlaceName: cfg.PlaceName, Names: profile.Names}

	if cfg.MQTTEnabled() {
		client, err := broadcast.NewClient(cfg.MQTTBroker, cfg.MQTTClientID, logger)
		if err != nil {
			logger.Error("❌ MQTT disabled", zap.Error(err))
		} else {
			defer client.Disconnect(250)
			fanout.Add(broadcast.NewMQTTPresenter(client, cfg.MQTTTopic, logger.Named("mqtt")))
		}
	}

	var announcer *controller.Announcer
	if cfg.TelegramEnabled() {
		prayers := service.NewPrayerService(table, profile.Timings, profile.Names, logger)
		a, err := startBot(ctx, cfg, prayers, info, scheduler, logger.Named("bot"))
		if err != nil {
			logger.Error("❌ Telegram bot disabled", zap.Error(err))
		} else if a != nil {
			announcer = a
			fanout.Add(announcer)
		}
	}

	shutdown := func() {
		scheduler.Stop()
		if announcer != nil && !announcer.Wait(announceDrain) {
			logger.Warn("⚠️ Announcements still in flight at shutdown")
		}
		logger.Info("👋 Mosque display stopped")
	}

	if cfg.Headless {
		scheduler.Start(ctx)
		<-ctx.Done()
		shutdown()
		return
	}

	tui := display.NewTUI(info, scheduler)
	fanout.Add(tui)
	scheduler.Start(ctx)

	go func() {
		<-ctx.Done()
		tui.Quit()
	}()

	if err := tui.Run(); err != nil {
		logger.Error("❌ Screen stopped with error", zap.Error(err))
	}
	shutdown()
}

// loadTable открывает настроенный источник. Пустой источник не фатален:
// экран работает с заглушками, пока таблицу не заполнят.
func loadTable(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*timetable.Table, func(), error) {
	var (
		source  timetable.Source
		closeFn = func() {}
	)

	switch cfg.TimetableSource {
	case config.SourceCSV:
		source = timetable.NewCSVSource(cfg.TimetableCSV, logger)

	case config.SourceSQLite:
		store, err := timetable.OpenSQLite(ctx, cfg.SQLitePath, true, logger)
		if err != nil {
			return nil, closeFn, err
		}
		closeFn = func() { store.Close() }
		source = store

	case config.SourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			return nil, closeFn, fmt.Errorf("connect to database: %w", err)
		}
		closeFn = pool.Close
		if err := pool.Ping(ctx); err != nil {
			return nil, closeFn, fmt.Errorf("ping database: %w", err)
		}

		migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
		if err != nil {
			return nil, closeFn, err
		}
		defer migrator.Close()
		if err := migrator.Run(ctx); err != nil {
			return nil, closeFn, err
		}
		source = repository.NewPrayerDayRepository(pool)

	default:
		return nil, closeFn, fmt.Errorf("unknown time table source %q", cfg.TimetableSource)
	}

	table, err := source.Load(ctx)
	if errors.Is(err, timetable.ErrNoData) {
		logger.Warn("⚠️ Time table is empty, showing placeholders", zap.Error(err))
		return timetable.NewTable(nil), closeFn, nil
	}
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			logger.Warn("⚠️ Time table file missing, showing placeholders", zap.Error(err))
			return timetable.NewTable(nil), closeFn, nil
		}
		return nil, closeFn, err
	}

	first, last := table.Bounds()
	logger.Info("✅ Time table loaded",
		zap.Int("days", table.Len()),
		zap.String("from", first),
		zap.String("to", last),
	)
	if _, ok := table.Day(time.Now().In(cfg.Location)); !ok {
		logger.Warn("⚠️ Time table has no row for today")
	}
	return table, closeFn, nil
}

// startBot запускает Telegram бота в фоне и возвращает анонсер,
// если настроен чат для анонсов.
func startBot(
	ctx context.Context,
	cfg *config.Config,
	prayers *service.PrayerService,
	info display.Info,
	controls display.Controls,
	logger *zap.Logger,
) (*controller.Announcer, error) {
	b, err := bot.New(cfg.TelegramToken, bot.WithMiddlewares(handlers.LogUpdates(logger)))
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	now := func() time.Time { return time.Now().In(cfg.Location) }
	cmdHandlers := handlers.NewHandlers(prayers, info, controls, cfg.TelegramChatID, now, logger)
	botController := controller.NewBotController(b, cmdHandlers, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("⚠️ Bot menu not set", zap.Error(err))
	}

	go func() {
		if err := botController.Start(ctx); err != nil {
			logger.Error("❌ Bot stopped", zap.Error(err))
		}
	}()

	if cfg.TelegramChatID == 0 {
		return nil, nil
	}
	return controller.NewAnnouncer(b, cfg.TelegramChatID, info.MosqueName, prayers, info.Names, logger), nil
}
