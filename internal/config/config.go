// Package config loads process settings for the folio command from the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// EnvPrefix is shared by every variable the command reads.
const EnvPrefix = "FOLIO_"

// ErrInvalid is returned for settings that parse but make no sense.
var ErrInvalid = errors.New("config: invalid setting")

// Config holds the process settings. Flags and config files layered on top
// by the command start from these values.
type Config struct {
	DBPath           string        `env:"DB_PATH"           envDefault:"folio.db"`
	LogLevel         string        `env:"LOG_LEVEL"         envDefault:"info"`
	LogJSON          bool          `env:"LOG_JSON"          envDefault:"false"`
	EvalTimeout      time.Duration `env:"EVAL_TIMEOUT"      envDefault:"250ms"`
	EvalMaxCallStack int           `env:"EVAL_MAX_STACK"    envDefault:"256"`
	AutosaveDebounce time.Duration `env:"AUTOSAVE_DEBOUNCE" envDefault:"1500ms"`
	CatalogPath      string        `env:"CATALOG_PATH"`
	Activity         Activity      `envPrefix:"ACTIVITY_"`
}

// Activity controls lifecycle event emission.
type Activity struct {
	Enabled bool     `env:"ENABLED" envDefault:"true"`
	Channel string   `env:"CHANNEL" envDefault:"portfolio"`
	Verbs   []string `env:"VERBS"   envSeparator:","`
}

// Load parses FOLIO_* variables over the defaults.
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom parses settings from environ instead of the process
// environment. A nil map reads the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, fmt.Errorf("%w: db path is empty", ErrInvalid))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.EvalTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: eval timeout must be positive", ErrInvalid))
	}
	if c.EvalMaxCallStack <= 0 {
		errs = append(errs, fmt.Errorf("%w: eval max stack must be positive", ErrInvalid))
	}
	if c.AutosaveDebounce < 0 {
		errs = append(errs, fmt.Errorf("%w: autosave debounce must not be negative", ErrInvalid))
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.LogLevel)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	return level, nil
}
