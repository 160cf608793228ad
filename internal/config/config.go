package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	apperrors "github.com/guncad/market-server-go/internal/errors"
)

var knownWeakSecrets = []string{
	"change-me", "changeme", "secret", "password", "pepper", "beta",
}

type Config struct {
	Port                int    `env:"PORT" envDefault:"8080"`
	DatabaseURL         string `env:"DATABASE_URL,required"`
	RedisURL            string `env:"REDIS_URL"`
	AccountNumberPepper string `env:"ACCOUNT_NUMBER_PEPPER"`
	BetaAccessPassword  string `env:"BETA_ACCESS_PASSWORD"`
	AutoApproveAccounts bool   `env:"AUTO_APPROVE_ACCOUNTS" envDefault:"false"`
	CookieSecure        bool   `env:"COOKIE_SECURE" envDefault:"true"`
	VPNAPIKey           string `env:"VPNAPI_API_KEY"`
	StaticDir           string `env:"STATIC_DIR" envDefault:"static"`
	MigrateOnStart      bool   `env:"MIGRATE_ON_START" envDefault:"false"`
	LogLevel            string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate fails when a secret the auth core depends on is absent. There is
// no default for either one.
func (c *Config) Validate(isProduction bool) error {
	if c.AccountNumberPepper == "" {
		return apperrors.Configuration("ACCOUNT_NUMBER_PEPPER")
	}
	if c.BetaAccessPassword == "" {
		return apperrors.Configuration("BETA_ACCESS_PASSWORD")
	}

	if isProduction {
		if err := validateSecret("ACCOUNT_NUMBER_PEPPER", c.AccountNumberPepper, MinPepperLength); err != nil {
			return err
		}
		if err := validateSecret("BETA_ACCESS_PASSWORD", c.BetaAccessPassword, MinBetaPasswordLength); err != nil {
			return err
		}
		if !c.CookieSecure {
			log.Warn().Msg("COOKIE_SECURE is false in production: session cookies will be sent over plain HTTP")
		}
	}

	return nil
}

func validateSecret(name, value string, minLength int) error {
	if len(value) < minLength {
		return fmt.Errorf("%s must be at least %d characters in production", name, minLength)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

// IsProduction reports whether the process runs on the hosting platform.
func IsProduction() bool {
	return os.Getenv("FLY_APP_NAME") != ""
}

func Load() (*Config, error) {
	if os.Getenv("ENV") == "dev" {
		if err := godotenv.Load(); err != nil {
			log.Debug().Err(err).Msg("no .env file loaded")
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
