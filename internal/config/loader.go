package config

import (
	"context"
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
//  2. file (YAML) if HEATED_CONFIG is set
//  3. env (prefix HEATED_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("HEATED_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: HEATED_BACKEND_URL, HEATED_POLL_INTERVAL_MS, ...
	// Map env keys like HEATED_BACKEND_URL -> backend_url (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("HEATED_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "heated_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	// Basic validation
	if cfg.BackendURL == "" {
		return nil, ErrMissingBackendURL
	}
	if cfg.LeaderboardLimit < 1 {
		return nil, ErrInvalidLimit
	}
	return &cfg, nil
}
