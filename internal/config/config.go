package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config is the server configuration, read from CLASSGOLD_* environment variables
type Config struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StorageType       string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL          string `env:"REDIS_URL"`
	RedisPoolSize     int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RedisMaxTxRetries int    `env:"REDIS_MAX_TX_RETRIES" envDefault:"8"`

	SessionDuration        time.Duration `env:"SESSION_DURATION" envDefault:"24h"`
	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"10m"`

	GameSessionTTL      time.Duration `env:"GAME_SESSION_TTL" envDefault:"2h"`
	MaxCreditPerMessage int           `env:"MAX_CREDIT_PER_MESSAGE" envDefault:"1000"`
}

// Load reads an optional dotenv file and then parses the environment.
// Variables already set in the environment take precedence over the file.
func Load(dotenvPath string) (Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}
	return Parse()
}

// Parse reads the configuration from the environment
func Parse() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "CLASSGOLD_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for inconsistent settings
func (c Config) Validate() error {
	switch c.StorageType {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return errors.New("CLASSGOLD_REDIS_URL required when CLASSGOLD_STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("invalid CLASSGOLD_STORAGE_TYPE %q: must be 'memory' or 'redis'", c.StorageType)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid CLASSGOLD_PORT %d", c.Port)
	}
	if c.MaxCreditPerMessage <= 0 {
		return errors.New("CLASSGOLD_MAX_CREDIT_PER_MESSAGE must be positive")
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
