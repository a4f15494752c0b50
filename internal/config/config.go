// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/johndosdos/board/internal/store"
)

type Config struct {
	Port         string `envconfig:"PORT" default:"8080"`
	StoreDriver  string `envconfig:"STORE_DRIVER" default:"postgres"`
	DBURL        string `envconfig:"DB_URL"`
	MaxBodyBytes int64  `envconfig:"MAX_BODY_BYTES" default:"65536"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`

	// RateLimitRequests of 0 disables write rate limiting.
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"0"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// RateLimitTrustProxy keys clients by X-Forwarded-For instead of the
	// peer address.
	RateLimitTrustProxy bool `envconfig:"RATE_LIMIT_TRUST_PROXY" default:"false"`
}

var drivers = []string{store.DriverPostgres, store.DriverMySQL, store.DriverMemory}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if !slices.Contains(drivers, c.StoreDriver) {
		return fmt.Errorf("STORE_DRIVER must be one of %v, got %q", drivers, c.StoreDriver)
	}
	if c.StoreDriver != store.DriverMemory && c.DBURL == "" {
		return errors.New("DB_URL environment variable is not set")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	if c.RateLimitRequests < 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must not be negative, got %d", c.RateLimitRequests)
	}
	if c.RateLimitRequests > 0 && c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}
