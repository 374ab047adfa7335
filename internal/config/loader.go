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

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if DJBOARD_CONFIG is set
//  3. env (prefix DJBOARD_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("DJBOARD_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: DJBOARD_ADDR, DJBOARD_DEFAULT_TOP_N, ...
	// Map env keys like DJBOARD_DEFAULT_TOP_N -> default_top_n (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("DJBOARD_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "djboard_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.DefaultTopN < 1 {
		return fmt.Errorf("%w: default_top_n must be at least 1", ErrInvalidConfig)
	}
	if c.MaxTopN < c.DefaultTopN {
		return fmt.Errorf("%w: max_top_n must be >= default_top_n", ErrInvalidConfig)
	}
	if c.ReadTimeoutS <= 0 || c.WriteTimeoutS <= 0 {
		return fmt.Errorf("%w: http timeouts must be positive", ErrInvalidConfig)
	}
	if c.ShutdownTimeoutS <= 0 {
		return fmt.Errorf("%w: shutdown_timeout_s must be positive", ErrInvalidConfig)
	}
	if c.AuditEnabled && strings.TrimSpace(c.AuditSchedule) == "" {
		return fmt.Errorf("%w: audit_schedule must be set when audit is enabled", ErrInvalidConfig)
	}
	return nil
}
