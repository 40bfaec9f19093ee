// Package config loads the sync tool's configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Common errors returned by configuration validation.
var (
	ErrInvalidCacheSize = errors.New("cache_size must be >= 0")
	ErrInvalidDebounce  = errors.New("debounce_ms must be >= 0")
	ErrInvalidPrefer    = errors.New(`prefer must be "text" or "structured"`)
)

// Config holds the sync tool's settings.
type Config struct {
	// CacheSize is the parse cache capacity. 0 disables the cache.
	CacheSize int `toml:"cache_size"`

	// NormalizeCRLF folds CRLF line endings to LF before comparison.
	NormalizeCRLF bool `toml:"normalize_crlf"`

	// Prefer decides which persisted side wins at bootstrap when both
	// have content that disagrees: "text" or "structured".
	Prefer string `toml:"prefer"`

	// MatcherScript is an optional path to a Lua leaf-matcher script.
	MatcherScript string `toml:"matcher_script"`

	// DebounceMS coalesces file events arriving within the window.
	DebounceMS int `toml:"debounce_ms"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		CacheSize:     8,
		NormalizeCRLF: true,
		Prefer:        "text",
		DebounceMS:    100,
	}
}

// Load reads a TOML config file, layering it over the defaults. A
// missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.CacheSize < 0 {
		return ErrInvalidCacheSize
	}
	if c.DebounceMS < 0 {
		return ErrInvalidDebounce
	}
	if c.Prefer != "text" && c.Prefer != "structured" {
		return ErrInvalidPrefer
	}
	return nil
}
