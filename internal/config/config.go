// Package config reads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
	StorageMySQL  = "mysql"
)

// Config is the full server configuration
type Config struct {
	HTTPPort int    `env:"RCON_HTTP_PORT" envDefault:"8080"`
	HTTPHost string `env:"RCON_HTTP_HOST"`

	Storage    string `env:"RCON_STORAGE" envDefault:"memory"`
	SQLitePath string `env:"RCON_SQLITE_PATH" envDefault:"rcon.db"`
	MySQL      MySQL

	RedisURL     string        `env:"RCON_REDIS_URL"`
	LockTTL      time.Duration `env:"RCON_LOCK_TTL" envDefault:"10s"`
	AMQPURL      string        `env:"RCON_AMQP_URL"`
	AMQPQueue    string        `env:"RCON_AMQP_QUEUE" envDefault:"rcon.player.events"`
	JWTSecret    string        `env:"RCON_JWT_SECRET"`
	TokenTTL     time.Duration `env:"RCON_TOKEN_TTL" envDefault:"12h"`
	Operators    string        `env:"RCON_OPERATORS"`
	SessionLimit int           `env:"RCON_SESSION_LIMIT" envDefault:"5"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
}

// MySQL holds either a full DSN or its parts
type MySQL struct {
	DSN      string `env:"RCON_MYSQL_DSN"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASS"`
	Host     string `env:"DB_HOST" envDefault:"127.0.0.1"`
	Port     int    `env:"DB_PORT" envDefault:"3306"`
	Name     string `env:"DB_NAME"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return Parse()
}

// Parse reads the process environment only
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks combinations env tags cannot express
func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageSQLite:
	case StorageMySQL:
		if c.MySQL.DSN == "" && c.MySQL.Name == "" {
			return errors.New("mysql storage needs RCON_MYSQL_DSN or DB_NAME")
		}
	default:
		return fmt.Errorf("unknown RCON_STORAGE %q", c.Storage)
	}
	if c.SessionLimit <= 0 {
		return fmt.Errorf("RCON_SESSION_LIMIT must be positive, got %d", c.SessionLimit)
	}
	if c.Operators != "" && c.JWTSecret == "" {
		return errors.New("RCON_JWT_SECRET is required when operators are configured")
	}
	return nil
}

// Level maps LOG_LEVEL to a slog level, defaulting to info
func (c Config) Level() slog.Level {
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
