// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// OIDC holds the optional single sign-on settings. SSO is enabled when
// Issuer is set.
type OIDC struct {
	Issuer       string `env:"OIDC_ISSUER"`
	ClientID     string `env:"OIDC_CLIENT_ID"`
	ClientSecret string `env:"OIDC_CLIENT_SECRET"`
	RedirectURL  string `env:"OIDC_REDIRECT_URL"`
}

// Enabled reports whether SSO is configured.
func (o OIDC) Enabled() bool {
	return o.Issuer != ""
}

// Config is the process configuration.
type Config struct {
	Addr        string `env:"ADDR,default=:8080"`
	WebDir      string `env:"WEB_DIR,default=web"`
	Storage     string `env:"STORAGE,default=postgres"`
	DatabaseURL string `env:"DATABASE_URL"`

	SessionTTL             time.Duration `env:"SESSION_TTL,default=24h"`
	SessionCleanupSchedule string        `env:"SESSION_CLEANUP_SCHEDULE,default=@every 1h"`

	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS,default=100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW,default=15m"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	SeedCatalog bool   `env:"SEED_CATALOG,default=true"`
	SeedFile    string `env:"SEED_FILE"`

	OIDC OIDC
}

// Load decodes the environment into a Config and validates it.
func Load() (*Config, error) {
	var c Config
	if err := envdecode.Decode(&c); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required when STORAGE=postgres")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("config: unknown STORAGE %q", c.Storage)
	}
	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return errors.New("config: RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("config: LOG_FORMAT must be \"text\" or \"json\", got %q", c.LogFormat)
	}
	if c.OIDC.Enabled() && (c.OIDC.ClientID == "" || c.OIDC.RedirectURL == "") {
		return errors.New("config: OIDC_CLIENT_ID and OIDC_REDIRECT_URL are required with OIDC_ISSUER")
	}
	return nil
}
