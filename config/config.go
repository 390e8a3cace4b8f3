// Package config loads process configuration from the environment and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvLocal       = "local"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env             string        `yaml:"env" env:"APP_ENV" env-default:"development" env-description:"development, production or local"`
	LogLevel        string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info" env-description:"trace, debug, info, warn or error"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"30s" env-description:"time allowed for a graceful shutdown"`
	ServiceTimeout  time.Duration `yaml:"service_timeout" env:"SERVICE_TIMEOUT" env-default:"5s" env-description:"timeout of a single cross-module call"`
	HTTP            HTTPConfig    `yaml:"http"`
	Store           StoreConfig   `yaml:"store"`
	Cache           CacheConfig   `yaml:"cache"`
}

type HTTPConfig struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080" env-description:"HTTP listen address"`
	Prefix         string        `yaml:"prefix" env:"API_PREFIX" env-default:"/api" env-description:"path prefix the API is also mounted under"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	AllowedOrigins string        `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*" env-description:"comma separated list of allowed origins"`
}

type StoreConfig struct {
	Driver      string `yaml:"driver" env:"STORE_DRIVER" env-default:"sqlite" env-description:"sqlite or postgres"`
	SQLitePath  string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"tasks.db" env-description:"SQLite database file, :memory: for a throwaway store"`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL" env-description:"PostgreSQL connection string, required for postgres"`
	Debug       bool   `yaml:"debug" env:"DB_DEBUG" env-default:"false"`
}

type CacheConfig struct {
	RedisAddr     string        `yaml:"redis_addr" env:"REDIS_ADDR" env-description:"Redis address, empty disables the user cache"`
	RedisPassword string        `yaml:"redis_password" env:"REDIS_PASSWORD"`
	TTL           time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"5m" env-description:"lifetime of cached users"`
}

// Enabled reports whether a Redis address was configured.
func (c CacheConfig) Enabled() bool {
	return c.RedisAddr != ""
}

// Load reads the configuration. When path is empty or the file does not
// exist only the environment is used.
func Load(path string) (*Config, error) {
	cfg := new(Config)

	if path != "" {
		err := cleanenv.ReadConfig(path, cfg)
		if err == nil {
			return cfg, cfg.Validate()
		}
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects combinations the process cannot start with.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %s", c.Env)
	}

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store driver: %s", c.Store.Driver)
	}

	if c.ServiceTimeout <= 0 {
		return errors.New("SERVICE_TIMEOUT must be positive")
	}
	return nil
}

// Usage returns the environment variable help text.
func Usage() string {
	text, err := cleanenv.GetDescription(new(Config), nil)
	if err != nil {
		return err.Error()
	}
	return text
}
