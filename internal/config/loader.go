package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env
// vars. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if GEMBA_CONFIG is set
//  3. env (prefix GEMBA_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("GEMBA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: GEMBA_ADDR, GEMBA_COOLDOWN_HOURS, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("GEMBA_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "gemba_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.CooldownHours < 1:
		return fmt.Errorf("%w: cooldown_hours must be positive", ErrInvalidConfig)
	case c.RecentWindowHours < c.CooldownHours:
		return fmt.Errorf("%w: recent_window_hours must cover cooldown_hours", ErrInvalidConfig)
	case c.DefaultWindowHours < 1 || c.DefaultWindowHours > 8:
		return fmt.Errorf("%w: default_window_hours outside [1,8]", ErrInvalidConfig)
	}
	return nil
}
