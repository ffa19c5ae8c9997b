// Package config loads the bot configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

type Config struct {
	BotToken string `env:"TELEGRAM_BOT_TOKEN,required,notEmpty"`

	FirebaseServiceAccountKeyPath string `env:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseDatabaseURL           string `env:"FIREBASE_DATABASE_URL,required,notEmpty"`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY"`

	// Per-user update throttling. A non-positive rate disables it.
	RateLimitPerSecond float64 `env:"RATE_LIMIT_PER_SECOND" envDefault:"1"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST"      envDefault:"5"`

	// Users idle for SessionIdleTimeout are forgotten; an open wizard is
	// kept until WizardAbandonTimeout.
	SessionIdleTimeout   time.Duration `env:"SESSION_IDLE_TIMEOUT"   envDefault:"10m"`
	WizardAbandonTimeout time.Duration `env:"WIZARD_ABANDON_TIMEOUT" envDefault:"24h"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level returns the configured zerolog level.
func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
