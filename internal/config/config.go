// Package config provides configuration for the dialogue service.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds the service configuration. All values are read once at
// startup and treated as read-only afterwards.
type Config struct {
	HTTPPort int    `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Store settings
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"file:dialogue.db?cache=shared&mode=rwc"`

	// Dialogue tuning
	MaxMessageLength  int `env:"MAX_MESSAGE_LENGTH" envDefault:"1000"`
	ContextWindowSize int `env:"CONTEXT_WINDOW_SIZE" envDefault:"6"`
	HistoryLimit      int `env:"HISTORY_LIMIT" envDefault:"50"`
	ExportLimit       int `env:"EXPORT_LIMIT" envDefault:"1000"`
}

// Load reads a .env file if present, then parses the environment.
func Load() (*Config, error) {
	// Missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
