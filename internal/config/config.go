// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

// Package config loads layered application configuration: struct defaults,
// then an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/frightclub/gorehound/internal/database"
	"github.com/frightclub/gorehound/internal/logging"
	"github.com/frightclub/gorehound/internal/recommend"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig          `koanf:"server"`
	Logging    LoggingConfig         `koanf:"logging"`
	Database   database.Config       `koanf:"database"`
	Import     database.ImportConfig `koanf:"import"`
	ModelStore ModelStoreConfig      `koanf:"model_store"`
	Security   SecurityConfig        `koanf:"security"`
	Recommend  recommend.Config      `koanf:"recommend"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig mirrors logging.Config minus the output writer, which is not
// configurable from files.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ToLogging converts to the logging package's config.
func (lc LoggingConfig) ToLogging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = lc.Level
	cfg.Format = lc.Format
	cfg.Caller = lc.Caller
	return cfg
}

// ModelStoreConfig controls the persistent trained-model store.
type ModelStoreConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// SecurityConfig controls rate limiting and CORS.
type SecurityConfig struct {
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// defaultConfig returns the base layer every other source overrides.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Database: database.DefaultConfig(),
		ModelStore: ModelStoreConfig{
			Enabled: true,
			Path:    "data/models",
		},
		Security: SecurityConfig{
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			CORSOrigins:       []string{"*"},
		},
		Recommend: *recommend.DefaultConfig(),
	}
}

// Validate checks cross-field consistency of the loaded configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d outside [1, 65535]", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q not one of json, console", c.Logging.Format)
	}
	if c.Security.RateLimitRequests <= 0 {
		return fmt.Errorf("security.rate_limit_requests must be positive")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("security.rate_limit_window must be positive")
	}
	if c.ModelStore.Enabled && c.ModelStore.Path == "" {
		return fmt.Errorf("model_store.path required when model store is enabled")
	}
	if err := c.Recommend.Validate(); err != nil {
		return err
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
