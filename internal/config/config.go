package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

type Config struct {
	Environment string
	Location    *time.Location
	Tick        time.Duration

	TimetableSource string
	TimetableCSV    string
	DBDSN           string
	SQLitePath      string
	MigrationsPath  string

	MosqueName string
	PlaceName  string

	AdhanFile string
	IqamaFile string

	TelegramToken  string
	TelegramChatID int64

	MQTTBroker   string
	MQTTClientID string
	MQTTTopic    string

	Headless   bool
	LogFile    string
	ConfigFile string
}

func Load() (*Config, error) {
	// .env необязателен, настоящие переменные окружения важнее
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}
	return FromEnv()
}

// FromEnv собирает конфиг только из окружения процесса.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Environment:     getenv("ENV", "development"),
		TimetableSource: strings.ToLower(getenv("TIMETABLE_SOURCE", SourceCSV)),
		TimetableCSV:    getenv("TIMETABLE_CSV", "prayer_times.csv"),
		DBDSN:           os.Getenv("DB_DSN"),
		SQLitePath:      getenv("SQLITE_PATH", "prayer_times.db"),
		MigrationsPath:  getenv("MIGRATIONS_PATH", "./migrations"),
		MosqueName:      getenv("MOSQUE_NAME", "مسجد موساوة كبير"),
		PlaceName:       getenv("PLACE_NAME", "مدينة مكناس - المغرب"),
		AdhanFile:       os.Getenv("ADHAN_FILE"),
		IqamaFile:       os.Getenv("IQAMA_FILE"),
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		MQTTBroker:      os.Getenv("MQTT_BROKER"),
		MQTTClientID:    getenv("MQTT_CLIENT_ID", "mosque-display"),
		MQTTTopic:       getenv("MQTT_TOPIC", "mosque/display"),
		LogFile:         os.Getenv("LOG_FILE"),
		ConfigFile:      os.Getenv("CONFIG_FILE"),
	}

	loc, err := time.LoadLocation(getenv("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Location = loc

	cfg.Tick, err = time.ParseDuration(getenv("TICK_INTERVAL", "1s"))
	if err != nil {
		return nil, fmt.Errorf("TICK_INTERVAL: %w", err)
	}

	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.TelegramChatID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
	}

	if v := os.Getenv("HEADLESS"); v != "" {
		cfg.Headless, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("HEADLESS: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Tick <= 0 {
		return fmt.Errorf("TICK_INTERVAL must be positive, got %s", c.Tick)
	}
	switch c.TimetableSource {
	case SourceCSV:
		if c.TimetableCSV == "" {
			return fmt.Errorf("TIMETABLE_CSV is required for the csv source")
		}
	case SourcePostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required but not set")
		}
	case SourceSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite source")
		}
	default:
		return fmt.Errorf("unknown TIMETABLE_SOURCE %q (want csv, postgres or sqlite)", c.TimetableSource)
	}
	return nil
}

func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

func (c *Config) MQTTEnabled() bool {
	return c.MQTTBroker != ""
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
