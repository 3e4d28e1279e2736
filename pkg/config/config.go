// Package config reads bylight settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
)

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogFormatText    LogFormat = "text"
	LogFormatJSON    LogFormat = "json"
	LogFormatDev     LogFormat = "dev"
	LogFormatDiscard LogFormat = "discard"
)

type Config struct {
	LogFormat LogFormat  `env:"BYLIGHT_LOG_FORMAT" envDefault:"text"`
	LogLevel  slog.Level `env:"BYLIGHT_LOG_LEVEL" envDefault:"info"`

	// Colors overrides the highlight color scheme. Empty keeps the default.
	Colors []string `env:"BYLIGHT_COLORS" envSeparator:","`

	RegexTimeout time.Duration `env:"BYLIGHT_REGEX_TIMEOUT" envDefault:"0s"`
}

// Load parses a Config from the environment.
func Load() (*Config, error) {
	c := &Config{}
	if err := c.Init(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Init() error {
	err := env.Parse(c)
	if err != nil {
		return fmt.Errorf("%w: failed to parse config: %w", ErrInvalidConfig, err)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON, LogFormatDev, LogFormatDiscard:
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}

	if c.RegexTimeout < 0 {
		return fmt.Errorf("%w: negative regex timeout %s", ErrInvalidConfig, c.RegexTimeout)
	}

	return nil
}
