// Package config reads the service settings from the environment, with
// optional .env support for local development.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	DefaultTimezone = "America/Mexico_City"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	AppEnv   string
	LogFile  string
	LogLevel string
	Port     string
	Storage  string
	Timezone *time.Location

	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig

	StatsWindowDays    int
	StatsQueueSize     int
	RateLimitPerMinute int
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled is false when no host is configured; the service then runs
// without the snapshot cache and falls back to the in-process limiter.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Duration time.Duration
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function. Unset values take defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		AppEnv:   get("APP_ENV", "development"),
		LogFile:  get("LOG_FILE", ""),
		LogLevel: get("LOG_LEVEL", "info"),
		Port:     get("PORT", "8080"),
		Storage:  strings.ToLower(get("STORAGE", StoragePostgres)),
		DB: DBConfig{
			Host:     get("DB_HOST", "localhost"),
			Port:     get("DB_PORT", "5432"),
			User:     get("DB_USER", "postgres"),
			Password: get("DB_PASSWORD", "postgres"),
			Name:     get("DB_NAME", "kanso_kcal"),
			SSLMode:  get("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     get("REDIS_HOST", ""),
			Port:     get("REDIS_PORT", "6379"),
			Password: get("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret: get("JWT_SECRET", ""),
			Issuer: get("JWT_ISSUER", "kanso-kcal"),
		},
	}

	if cfg.Storage != StorageMemory && cfg.Storage != StoragePostgres {
		return nil, fmt.Errorf("%w: STORAGE must be %q or %q, got %q", ErrInvalidConfig, StorageMemory, StoragePostgres, cfg.Storage)
	}

	loc, err := time.LoadLocation(get("REPORT_TIMEZONE", DefaultTimezone))
	if err != nil {
		return nil, fmt.Errorf("%w: REPORT_TIMEZONE: %v", ErrInvalidConfig, err)
	}
	cfg.Timezone = loc

	ints := []struct {
		key      string
		def      int
		min, max int
		dst      *int
	}{
		{key: "REDIS_DB", def: 0, min: 0, max: 15, dst: &cfg.Redis.DB},
		{key: "STATS_WINDOW_DAYS", def: 7, min: 1, max: 366, dst: &cfg.StatsWindowDays},
		{key: "STATS_QUEUE_SIZE", def: 100, min: 1, max: 100000, dst: &cfg.StatsQueueSize},
		{key: "RATE_LIMIT_PER_MINUTE", def: 100, min: 1, max: 100000, dst: &cfg.RateLimitPerMinute},
	}
	for _, it := range ints {
		raw := get(it.key, strconv.Itoa(it.def))
		n, err := strconv.Atoi(raw)
		if err != nil || n < it.min || n > it.max {
			return nil, fmt.Errorf("%w: %s must be an integer in [%d, %d], got %q", ErrInvalidConfig, it.key, it.min, it.max, raw)
		}
		*it.dst = n
	}

	duration, err := time.ParseDuration(get("JWT_DURATION", "72h"))
	if err != nil || duration <= 0 {
		return nil, fmt.Errorf("%w: JWT_DURATION must be a positive duration", ErrInvalidConfig)
	}
	cfg.JWT.Duration = duration

	if cfg.JWT.Secret == "" {
		if cfg.AppEnv == "production" {
			return nil, fmt.Errorf("%w: JWT_SECRET is required in production", ErrInvalidConfig)
		}
		cfg.JWT.Secret = "dev-secret-change-me"
	}

	return cfg, nil
}
