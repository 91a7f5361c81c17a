// Package config loads simulation settings from WE_* environment variables.
package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/bobbiec/white-elephant/assignment"
	"github.com/bobbiec/white-elephant/store"
)

var ErrInvalidConfig = eris.New("invalid config")

// Rule variant selectors
const (
	RulesBoth      = "both"
	RulesLastSteal = "laststeal"
	RulesStandard  = "standard"
)

// Config drives the batch simulator. Command-line flags override it.
type Config struct {
	MinPlayers int    `env:"WE_MIN_PLAYERS" envDefault:"2"`
	MaxPlayers int    `env:"WE_MAX_PLAYERS" envDefault:"9"`
	Games      int    `env:"WE_GAMES" envDefault:"10000"`
	StartSeed  int64  `env:"WE_START_SEED" envDefault:"0"`
	Workers    int    `env:"WE_WORKERS" envDefault:"0"` // 0 = one per CPU
	OutputDir  string `env:"WE_OUTPUT_DIR" envDefault:"."`
	Format     string `env:"WE_FORMAT" envDefault:"csv"`
	Rules      string `env:"WE_RULES" envDefault:"both"`
	LogLevel   string `env:"WE_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config. It does not validate.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "parse env")
	}
	return cfg, nil
}

// Validate checks ranges, including the enumeration bound on player count
func (c Config) Validate() error {
	if c.MinPlayers < 2 {
		return eris.Wrapf(ErrInvalidConfig, "min players %d is below 2", c.MinPlayers)
	}
	if c.MaxPlayers > assignment.MaxPlayers {
		return eris.Wrapf(ErrInvalidConfig, "max players %d exceeds %d", c.MaxPlayers, assignment.MaxPlayers)
	}
	if c.MinPlayers > c.MaxPlayers {
		return eris.Wrapf(ErrInvalidConfig, "min players %d > max players %d", c.MinPlayers, c.MaxPlayers)
	}
	if c.Games < 1 {
		return eris.Wrapf(ErrInvalidConfig, "games must be positive, got %d", c.Games)
	}
	if c.Workers < 0 {
		return eris.Wrapf(ErrInvalidConfig, "workers must not be negative, got %d", c.Workers)
	}
	if c.OutputDir == "" {
		return eris.Wrap(ErrInvalidConfig, "output dir is required")
	}
	if _, err := store.ParseFormat(c.Format); err != nil {
		return eris.Wrap(ErrInvalidConfig, err.Error())
	}
	if _, err := c.Variants(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Variants lists the last-steal settings to simulate, last-steal first
func (c Config) Variants() ([]bool, error) {
	switch c.Rules {
	case RulesBoth:
		return []bool{true, false}, nil
	case RulesLastSteal:
		return []bool{true}, nil
	case RulesStandard:
		return []bool{false}, nil
	}
	return nil, eris.Wrapf(ErrInvalidConfig, "rules %q, want %s, %s or %s", c.Rules, RulesBoth, RulesLastSteal, RulesStandard)
}

// Level parses LogLevel
func (c Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, eris.Wrapf(ErrInvalidConfig, "log level %q", c.LogLevel)
	}
	return level, nil
}

// OutputFormat parses Format
func (c Config) OutputFormat() (store.Format, error) {
	return store.ParseFormat(c.Format)
}
