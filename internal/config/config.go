package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the account-api service configuration, parsed from the
// environment once at startup.
type Config struct {
	ServerAddress string `env:"SERVER_ADDRESS" envDefault:":8080"`
	ClientURL     string `env:"CLIENT_URL"     envDefault:"http://localhost:3000"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"account"`

	Token TokenConfig `envPrefix:"TOKEN_"`
}

// TokenConfig holds session and one-time token settings. The signing secret
// has process lifetime; a missing secret is fatal at startup, never later.
type TokenConfig struct {
	Secret               string        `env:"SECRET"`
	Issuer               string        `env:"ISSUER"                  envDefault:"account-api"`
	Audience             string        `env:"AUDIENCE"                envDefault:"account-api"`
	SessionTTL           time.Duration `env:"SESSION_TTL"             envDefault:"24h"`
	VerificationTTLDays  int           `env:"VERIFICATION_TTL_DAYS"   envDefault:"7"`
	PasswordResetTTLDays int           `env:"PASSWORD_RESET_TTL_DAYS" envDefault:"1"`
}

// New creates a Config instance from environment variables.
func New(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate service configuration")
	}

	return &cfg
}

// VerificationTTL returns the verification token lifetime.
func (c *TokenConfig) VerificationTTL() time.Duration {
	return time.Duration(c.VerificationTTLDays) * 24 * time.Hour
}

// PasswordResetTTL returns the password reset token lifetime.
func (c *TokenConfig) PasswordResetTTL() time.Duration {
	return time.Duration(c.PasswordResetTTLDays) * 24 * time.Hour
}

// validate checks if the service configuration is valid.
func (c *Config) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.Token.Secret == "" {
		return fmt.Errorf("missing TOKEN_SECRET environment variable")
	}
	if c.Token.SessionTTL <= 0 {
		return fmt.Errorf("TOKEN_SESSION_TTL must be positive")
	}

	return nil
}
