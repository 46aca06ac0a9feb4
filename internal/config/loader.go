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
//  2. file (YAML) if EMBER_CONFIG is set
//  3. env (prefix EMBER_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("EMBER_CONFIG"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoad, err)
		}
	}

	// Environment variables: EMBER_ADDR, EMBER_DATABASE_URL, ...
	// Map env keys like EMBER_MAX_PAGE_LIMIT -> max_page_limit (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("EMBER_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "ember_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalid)
	}
	if cfg.MaxPageLimit < 1 {
		return nil, fmt.Errorf("%w: max_page_limit must be positive", ErrInvalid)
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaAlertTopic == "" {
		return nil, fmt.Errorf("%w: kafka_alert_topic is required when brokers are set", ErrInvalid)
	}
	return &cfg, nil
}
