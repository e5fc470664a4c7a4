package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the API server and the notification scheduler.
type Config struct {
	HTTPAddr       string `toml:"http_addr"`
	AllowedOrigins string `toml:"allowed_origins"`

	DatabaseURL    string `toml:"database_url"`
	DBMaxIdleConns int    `toml:"db_max_idle_conns"`
	DBMaxOpenConns int    `toml:"db_max_open_conns"`

	JWTSecret          string `toml:"jwt_secret"`
	JWTExpirationHours int    `toml:"jwt_expiration_hours"`

	Timezone        string        `toml:"timezone"`
	NotifyTimes     []string      `toml:"notify_times"`
	NotifyTitle     string        `toml:"notify_title"`
	NotifyBody      string        `toml:"notify_body"`
	DispatchTimeout time.Duration `toml:"-"`

	PushTransport string `toml:"push_transport"`
	TelegramToken string `toml:"telegram_token"`
	NATSURL       string `toml:"nats_url"`
	NATSSubject   string `toml:"nats_subject"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// Location is resolved from Timezone by Load.
	Location *time.Location `toml:"-"`
}

const (
	TransportLog      = "log"
	TransportTelegram = "telegram"
	TransportNATS     = "nats"
)

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		HTTPAddr:           ":4000",
		AllowedOrigins:     "*",
		DatabaseURL:        "task_planner.db",
		DBMaxIdleConns:     10,
		DBMaxOpenConns:     100,
		JWTExpirationHours: 24 * 7,
		Timezone:           "Local",
		NotifyTimes:        []string{"08:00", "12:00", "18:00"},
		NotifyTitle:        "Task reminder",
		NotifyBody:         "Tap to see the tasks you need to finish.",
		DispatchTimeout:    30 * time.Second,
		PushTransport:      TransportLog,
		NATSURL:            "nats://127.0.0.1:4222",
		NATSSubject:        "push.notifications",
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// Load reads configuration from defaults, an optional TOML file named by
// CONFIG_FILE, an optional .env file and the process environment, in that order.
func Load() (Config, error) {
	cfg := Defaults()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.finalize(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.AllowedOrigins, "ALLOWED_ORIGINS")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setInt(&cfg.DBMaxIdleConns, "DB_MAX_IDLE_CONNS")
	setInt(&cfg.DBMaxOpenConns, "DB_MAX_OPEN_CONNS")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setInt(&cfg.JWTExpirationHours, "JWT_EXPIRATION_HOURS")
	setString(&cfg.Timezone, "TIMEZONE")
	setString(&cfg.NotifyTitle, "NOTIFY_TITLE")
	setString(&cfg.NotifyBody, "NOTIFY_BODY")
	setString(&cfg.PushTransport, "PUSH_TRANSPORT")
	setString(&cfg.TelegramToken, "TELEGRAM_TOKEN")
	setString(&cfg.NATSURL, "NATS_URL")
	setString(&cfg.NATSSubject, "NATS_SUBJECT")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")

	if raw := strings.TrimSpace(os.Getenv("NOTIFY_TIMES")); raw != "" {
		cfg.NotifyTimes = splitList(raw)
	}
	if raw := strings.TrimSpace(os.Getenv("DISPATCH_TIMEOUT")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.DispatchTimeout = d
		}
	}
}

func (c *Config) finalize() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWTExpirationHours <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be positive, got %d", c.JWTExpirationHours)
	}

	loc, err := loadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	c.Location = loc

	c.PushTransport = strings.ToLower(strings.TrimSpace(c.PushTransport))
	switch c.PushTransport {
	case TransportLog, TransportNATS:
	case TransportTelegram:
		if c.TelegramToken == "" {
			return fmt.Errorf("TELEGRAM_TOKEN is required for the telegram push transport")
		}
	default:
		return fmt.Errorf("unknown PUSH_TRANSPORT %q", c.PushTransport)
	}

	if len(c.NotifyTimes) == 0 {
		return fmt.Errorf("NOTIFY_TIMES must list at least one HH:MM slot")
	}
	return nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

func setString(dst *string, key string) {
	if value, ok := os.LookupEnv(key); ok {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			*dst = trimmed
		}
	}
}

func setInt(dst *int, key string) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return
	}
	*dst = n
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
