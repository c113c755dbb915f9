// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/event-listing/internal/database"
	"github.com/Shivanand-hulikatti/event-listing/internal/uniqueness"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	Database database.Config

	// RedisURL enables the event cache when set.
	RedisURL string
	CacheTTL time.Duration

	SlugMaxAttempts int

	// Location is used to read date inputs that carry a time of day and to
	// anchor exported calendar entries.
	Location *time.Location

	CORSOrigins   []string
	PublicBaseURL string
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables. Outside production a
// .env file in the working directory is loaded first; a missing file is
// not an error.
func Load() (*Config, error) {
	env := getEnv("APP_ENV", "development")

	if env != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := &Config{
		Env:           env,
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		RedisURL:      os.Getenv("REDIS_URL"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),
		Database: database.Config{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "eventlisting"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
	}

	var err error
	if cfg.Database.ConnectTimeout, err = durationEnv("DB_CONNECT_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = durationEnv("CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SlugMaxAttempts, err = intEnv("SLUG_MAX_ATTEMPTS", uniqueness.DefaultMaxAttempts); err != nil {
		return nil, err
	}
	if cfg.SlugMaxAttempts <= 0 {
		return nil, fmt.Errorf("SLUG_MAX_ATTEMPTS must be positive, got %d", cfg.SlugMaxAttempts)
	}

	tz := getEnv("TIMEZONE", "UTC")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", tz, err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
