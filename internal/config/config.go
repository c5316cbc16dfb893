package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// Config contains web application configuration parameters.
type Config struct {
	Addr       string `env:"ADDR" envDefault:":5000"`
	Database   string `env:"DATABASE" envDefault:"/tmp/minitweet.db"`
	SecretKey  string `env:"SECRET_KEY" envDefault:"development key"`
	LogLevel   int    `env:"LOG_LEVEL" envDefault:"0"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate ensures that required values are present.
func (c *Config) Validate() error {
	if c.Database == "" {
		return errors.New("DATABASE is required")
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}
