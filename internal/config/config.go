// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath      string `env:"FOLIO_DB_PATH" envDefault:"./data/folio.db"`
	TokenSecret string `env:"FOLIO_TOKEN_SECRET,required"`
	ServerHost  string `env:"FOLIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort  int    `env:"FOLIO_SERVER_PORT" envDefault:"8080"`
	Env         string `env:"FOLIO_ENV" envDefault:"development"`
	LogLevel    string `env:"FOLIO_LOG_LEVEL" envDefault:"info"`
	UploadsDir  string `env:"FOLIO_UPLOADS_DIR" envDefault:"./uploads"`

	// Identity provider configuration. When a verify URL is set, bearer
	// tokens are checked against the remote provider; otherwise the
	// built-in token service signs and verifies tokens locally.
	IdentityVerifyURL string `env:"FOLIO_IDP_VERIFY_URL"`
	IdentitySecret    string `env:"FOLIO_IDP_SECRET"`                  // Service credential for the remote provider
	TokenTTL          int    `env:"FOLIO_TOKEN_TTL" envDefault:"3600"` // Issued token lifetime in seconds

	// GeoIP configuration
	GeoIPDBPath string `env:"FOLIO_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// AI excerpt generation (optional)
	OpenAIAPIKey string `env:"FOLIO_OPENAI_API_KEY"`
	OpenAIModel  string `env:"FOLIO_OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// Scheduler configuration
	StaleJobDays         int `env:"FOLIO_STALE_JOB_DAYS" envDefault:"45"`          // Days before an "applied" entry is marked no_response
	ContactRetentionDays int `env:"FOLIO_CONTACT_RETENTION_DAYS" envDefault:"365"` // 0 disables contact message purging

	// Seeding configuration
	DoSeed bool `env:"FOLIO_DO_SEED" envDefault:"false"` // Enable database seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRemoteIdentity returns true if a remote identity provider is configured.
func (c Config) UseRemoteIdentity() bool {
	return c.IdentityVerifyURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// AIEnabled returns true if AI excerpt generation is configured.
func (c Config) AIEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// MinTokenSecretLength is the minimum required length for the token signing secret.
const MinTokenSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate token secret length
	if len(cfg.TokenSecret) < MinTokenSecretLength {
		return nil, fmt.Errorf("FOLIO_TOKEN_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinTokenSecretLength, len(cfg.TokenSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.TokenSecret == weak {
			return nil, fmt.Errorf("FOLIO_TOKEN_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.TokenSecret) {
		slog.Warn("FOLIO_TOKEN_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
