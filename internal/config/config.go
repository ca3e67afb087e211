// Package config loads process configuration from the environment.
//
// Command-line flags take precedence: cmd/raffledraw uses the values returned
// here as flag defaults.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings needed to start the server
type Config struct {
	Port         int    `env:"RAFFLEDRAW_PORT"`
	DBPath       string `env:"RAFFLEDRAW_DB_PATH"`
	HostPassword string `env:"RAFFLEDRAW_HOST_PASSWORD"`
	LogLevel     string `env:"RAFFLEDRAW_LOG_LEVEL"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Port:     8082,
		DBPath:   "raffles.db",
		LogLevel: "info",
	}
}

// Load returns the defaults overlaid with any RAFFLEDRAW_* environment variables
func Load() (Config, error) {
	return load(env.Options{})
}

// LoadFrom is Load with an explicit environment, for tests
func LoadFrom(environ map[string]string) (Config, error) {
	return load(env.Options{Environment: environ})
}

func load(opts env.Options) (Config, error) {
	cfg := Default()
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}
