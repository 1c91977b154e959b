// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"family-secret-key",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath          string        `env:"KEEPSAKE_DB_PATH" envDefault:"./data/keepsake.db"`
	SessionSecret   string        `env:"KEEPSAKE_SESSION_SECRET,required"`
	SessionLifetime time.Duration `env:"KEEPSAKE_SESSION_LIFETIME" envDefault:"24h"`
	ServerHost      string        `env:"KEEPSAKE_SERVER_HOST" envDefault:"localhost"`
	ServerPort      int           `env:"KEEPSAKE_SERVER_PORT" envDefault:"8080"`
	Env             string        `env:"KEEPSAKE_ENV" envDefault:"development"`
	LogLevel        string        `env:"KEEPSAKE_LOG_LEVEL" envDefault:"info"`
	UploadsDir      string        `env:"KEEPSAKE_UPLOADS_DIR" envDefault:"./uploads"`

	// Seeding configuration
	DoSeed bool `env:"KEEPSAKE_DO_SEED" envDefault:"false"` // Enable database seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("KEEPSAKE_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("KEEPSAKE_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if cfg.SessionLifetime <= 0 {
		return nil, fmt.Errorf("KEEPSAKE_SESSION_LIFETIME must be a positive duration, got %s", cfg.SessionLifetime)
	}

	if !isValidLogLevel(cfg.LogLevel) {
		return nil, fmt.Errorf("KEEPSAKE_LOG_LEVEL must be one of debug|info|warn|error, got %q", cfg.LogLevel)
	}

	return cfg, nil
}

// isValidLogLevel reports whether level is a recognized log level name.
func isValidLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
