package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

// Credential modes for portal login.
const (
	CredentialModePermissive = "permissive"
	CredentialModeBcrypt     = "bcrypt"
)

type Config struct {
	Port                   int    `env:"PORT" envDefault:"8080"`
	DatabaseURL            string `env:"DATABASE_URL,required"`
	RedisURL               string `env:"REDIS_URL,required"`
	LogLevel               string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty              bool   `env:"LOG_PRETTY" envDefault:"false"`
	CredentialMode         string `env:"PORTAL_CREDENTIAL_MODE" envDefault:"permissive"`
	MagicLinkReturnToken   bool   `env:"MAGIC_LINK_RETURN_TOKEN" envDefault:"true"`
	MagicLinkBaseURL       string `env:"MAGIC_LINK_BASE_URL"`
	NotifierURL            string `env:"NOTIFIER_URL"`
	NotifierAPIKey         string `env:"NOTIFIER_API_KEY"`
	LoginRateLimitPerMin   int    `env:"LOGIN_RATE_LIMIT_PER_MIN" envDefault:"10"`
	AccountRateLimitPerMin int    `env:"ACCOUNT_RATE_LIMIT_PER_MIN" envDefault:"120"`
	AllowInsecurePortal    bool   `env:"ALLOW_INSECURE_PORTAL" envDefault:"false"`
	SessionPurgeEnabled    bool   `env:"SESSION_PURGE_ENABLED" envDefault:"false"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate(isProduction bool) error {
	switch c.CredentialMode {
	case CredentialModePermissive, CredentialModeBcrypt:
	default:
		return fmt.Errorf("PORTAL_CREDENTIAL_MODE must be %q or %q, got %q",
			CredentialModePermissive, CredentialModeBcrypt, c.CredentialMode)
	}

	if c.LoginRateLimitPerMin <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT_PER_MIN must be positive")
	}
	if c.AccountRateLimitPerMin <= 0 {
		return fmt.Errorf("ACCOUNT_RATE_LIMIT_PER_MIN must be positive")
	}

	if c.NotifierURL != "" && c.MagicLinkBaseURL == "" {
		return fmt.Errorf("MAGIC_LINK_BASE_URL is required when NOTIFIER_URL is set")
	}

	if isProduction {
		if c.CredentialMode == CredentialModePermissive {
			if !c.AllowInsecurePortal {
				return fmt.Errorf("PORTAL_CREDENTIAL_MODE=permissive is not allowed in production (set ALLOW_INSECURE_PORTAL=true to override)")
			}
			log.Warn().Msg("portal login accepts any password in production")
		}
		if c.MagicLinkReturnToken {
			if !c.AllowInsecurePortal {
				return fmt.Errorf("MAGIC_LINK_RETURN_TOKEN=true is not allowed in production (set ALLOW_INSECURE_PORTAL=true to override)")
			}
			log.Warn().Msg("magic link tokens are returned in API responses in production")
		}
		if c.NotifierURL == "" {
			log.Warn().Msg("NOTIFIER_URL is empty in production: magic links are only logged")
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
