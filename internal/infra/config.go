package infra

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	PGHost      string `env:"PGHOST" envDefault:"localhost"`
	PGPort      int    `env:"PGPORT" envDefault:"5432"`
	PGUser      string `env:"PGUSER" envDefault:"tour0001"`
	PGPassword  string `env:"PGPASSWORD" envDefault:"tour0001"`
	PGDatabase  string `env:"PGDATABASE" envDefault:"tour0001_game"`

	// Server
	APIPort int    `env:"API_PORT" envDefault:"3001"`
	AppEnv  string `env:"APP_ENV" envDefault:"development"`

	// CORS allow-list; "*" allows any origin.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Rate limiting. The general limiter covers every route; the strict
	// limiter additionally covers the mutating player routes.
	RateLimitWindow       time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	RateLimitMax          int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
	StrictRateLimitWindow time.Duration `env:"STRICT_RATE_LIMIT_WINDOW" envDefault:"1m"`
	StrictRateLimitMax    int           `env:"STRICT_RATE_LIMIT_MAX" envDefault:"10"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Production reports whether the service runs in production mode.
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL if set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}
