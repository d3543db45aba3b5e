package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Хранилища сессий
const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

type Config struct {
	TelegramToken string
	APIBaseURL    string
	Environment   string

	SessionStore string
	DBDSN        string
	RedisAddr    string

	HTTPTimeout time.Duration
	Location    *time.Location

	SlotIntervalMinutes int
	DayStartHour        int
	DayEndHour          int

	SessionCheckInterval     time.Duration
	ActivityCheckInterval    time.Duration
	IdleTimeout              time.Duration
	MeetingPollInterval      time.Duration
	NotificationPollInterval time.Duration
	UnauthorizedDebounce     time.Duration
	RefreshSkew              time.Duration

	ReminderCron string
	MetricsAddr  string
}

func Load() (*Config, error) {
	// .env опционален, в проде переменные приходят из окружения
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфиг из произвольного источника переменных
func FromEnv(getenv func(string) string) (*Config, error) {
	p := parser{getenv: getenv}

	cfg := &Config{
		TelegramToken: getenv("TELEGRAM_TOKEN"),
		APIBaseURL:    strings.TrimRight(getenv("API_BASE_URL"), "/"),
		Environment:   p.str("ENV", "development"),

		SessionStore: strings.ToLower(p.str("SESSION_STORE", StorePostgres)),
		DBDSN:        getenv("DB_DSN"),
		RedisAddr:    p.str("REDIS_ADDR", "localhost:6379"),

		HTTPTimeout: p.duration("HTTP_TIMEOUT", 10*time.Second),

		SlotIntervalMinutes: p.integer("SLOT_INTERVAL_MINUTES", 30),
		DayStartHour:        p.integer("DAY_START_HOUR", 6),
		DayEndHour:          p.integer("DAY_END_HOUR", 23),

		SessionCheckInterval:     p.duration("SESSION_CHECK_INTERVAL", 30*time.Second),
		ActivityCheckInterval:    p.duration("ACTIVITY_CHECK_INTERVAL", 2*time.Minute),
		IdleTimeout:              p.duration("IDLE_TIMEOUT", 2*time.Hour),
		MeetingPollInterval:      p.duration("MEETING_POLL_INTERVAL", 500*time.Millisecond),
		NotificationPollInterval: p.duration("NOTIFICATION_POLL_INTERVAL", time.Second),
		UnauthorizedDebounce:     p.duration("UNAUTHORIZED_DEBOUNCE", 200*time.Millisecond),
		RefreshSkew:              p.duration("REFRESH_SKEW", time.Minute),

		ReminderCron: p.str("REMINDER_CRON", "0 8 * * *"),
		MetricsAddr:  getenv("METRICS_ADDR"),
	}

	tz := p.str("TIMEZONE", "America/Sao_Paulo")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc

	if p.err != nil {
		return nil, p.err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required but not set")
	}

	switch c.SessionStore {
	case StorePostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required when SESSION_STORE=%s", StorePostgres)
		}
	case StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("SESSION_STORE must be one of %s, %s, %s; got %q",
			StorePostgres, StoreRedis, StoreMemory, c.SessionStore)
	}

	if c.SlotIntervalMinutes <= 0 || 60%c.SlotIntervalMinutes != 0 {
		return fmt.Errorf("SLOT_INTERVAL_MINUTES must divide 60, got %d", c.SlotIntervalMinutes)
	}
	if c.DayStartHour < 0 || c.DayEndHour > 23 || c.DayStartHour >= c.DayEndHour {
		return fmt.Errorf("invalid day window %d..%d", c.DayStartHour, c.DayEndHour)
	}

	return nil
}

// IsProduction проверяет окружение
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// parser запоминает первую ошибку разбора
type parser struct {
	getenv func(string) string
	err    error
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(fmt.Errorf("%s: %w", key, err))
		return def
	}
	if d <= 0 {
		p.fail(fmt.Errorf("%s must be positive, got %s", key, v))
		return def
	}
	return d
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}
