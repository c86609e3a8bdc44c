package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnv             = "development"
	defaultDBDriver        = "sqlite"
	defaultDatabaseURL     = "./dev.db"
	defaultPort            = "8080"
	defaultPricingCacheTTL = 30 * time.Second
	defaultLogFormat       = "text"
	defaultLogLevel        = "info"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env         string
	Port        string
	DBDriver    string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PricingCacheTTL time.Duration

	AdminToken         string
	CORSAllowedOrigins []string

	LogFormat string
	LogLevel  string
}

// IsDev reports whether startup migrations and seeding should run.
func (c Config) IsDev() bool {
	return c.Env == defaultEnv || c.Env == "dev" || c.Env == "test"
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Missing .env is fine; production injects real environment variables.
	if err := loadDotEnv(".env"); err != nil {
		slog.Warn("could not load .env", "error", err)
	}

	cfg := Config{
		Env:                getenv("APP_ENV", defaultEnv),
		Port:               strings.TrimPrefix(getenv("PORT", defaultPort), ":"),
		DBDriver:           getenv("DB_DRIVER", defaultDBDriver),
		DatabaseURL:        getenv("DATABASE_URL", defaultDatabaseURL),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getenvInt("REDIS_DB", 0),
		PricingCacheTTL:    getenvDuration("PRICING_CACHE_TTL", defaultPricingCacheTTL),
		AdminToken:         os.Getenv("ADMIN_TOKEN"),
		CORSAllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS", "*")),
		LogFormat:          getenv("LOG_FORMAT", defaultLogFormat),
		LogLevel:           getenv("LOG_LEVEL", defaultLogLevel),
	}

	if cfg.AdminToken == "" {
		slog.Warn("ADMIN_TOKEN is not set, admin routes are disabled")
	}

	return cfg
}

// Logger builds the process logger from LOG_FORMAT and LOG_LEVEL.
func (c Config) Logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", raw)
		return fallback
	}
	return v
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", raw)
		return fallback
	}
	return v
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
