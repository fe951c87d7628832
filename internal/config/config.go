package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds all runtime settings, loaded from the environment and an
// optional .env file.
type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	Host        string `env:"HOST" envDefault:"127.0.0.1"`
	Port        int    `env:"PORT" envDefault:"8000"`
	DatabaseURL string `env:"DATABASE_URL"`

	PaginationDefaultLimit int `env:"PAGINATION_DEFAULT_LIMIT" envDefault:"50"`
	PaginationMaxLimit     int `env:"PAGINATION_MAX_LIMIT" envDefault:"200"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5173"`
}

// Load reads .env files (if present) then parses and validates the
// environment. Existing environment variables win over .env entries.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	// godotenv fails on missing files; only load the ones that exist.
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if fileExists(f) {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants that struct tags cannot express.
func (c *Config) Validate() error {
	c.AppEnv = strings.ToLower(strings.TrimSpace(c.AppEnv))
	switch c.AppEnv {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("APP_ENV must be one of %s, %s, %s; got %q", EnvDevelopment, EnvProduction, EnvTest, c.AppEnv)
	}

	c.Host = strings.TrimSpace(c.Host)
	if c.Host == "" {
		return fmt.Errorf("HOST must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535; got %d", c.Port)
	}

	if !strings.HasPrefix(c.DatabaseURL, "postgres://") && !strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return fmt.Errorf("DATABASE_URL must be a postgres:// or postgresql:// URL")
	}

	if c.PaginationDefaultLimit <= 0 {
		return fmt.Errorf("PAGINATION_DEFAULT_LIMIT must be > 0; got %d", c.PaginationDefaultLimit)
	}
	if c.PaginationMaxLimit < c.PaginationDefaultLimit {
		return fmt.Errorf("PAGINATION_MAX_LIMIT must be >= PAGINATION_DEFAULT_LIMIT; got %d < %d",
			c.PaginationMaxLimit, c.PaginationDefaultLimit)
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
