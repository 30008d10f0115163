// Package config provides configuration loading and validation for the
// screening service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults for optional configuration values.
const (
	DefaultPort              = 8080
	DefaultFetchTimeout      = 30 * time.Second
	DefaultFetchMaxBytes     = int64(15 << 20) // 15 MB
	DefaultCompletionTimeout = 30 * time.Second
)

// Config holds the service configuration. The completion-service credential
// is the only required value; everything else has defaults.
type Config struct {
	Port              int
	APIKey            string
	FetchTimeout      time.Duration
	FetchMaxBytes     int64
	CompletionTimeout time.Duration

	// Optional per-tier model name overrides. Empty means use the
	// built-in default for that tier.
	ModelLite     string
	ModelStandard string
	ModelAdvanced string
}

// FromEnv loads configuration from environment variables:
// GEMINI_API_KEY (required), PORT, FETCH_TIMEOUT, FETCH_MAX_BYTES,
// COMPLETION_TIMEOUT, GEMINI_MODEL_LITE, GEMINI_MODEL_STANDARD,
// GEMINI_MODEL_ADVANCED. Timeouts use Go duration syntax (e.g. "30s").
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:              DefaultPort,
		APIKey:            os.Getenv("GEMINI_API_KEY"),
		FetchTimeout:      DefaultFetchTimeout,
		FetchMaxBytes:     DefaultFetchMaxBytes,
		CompletionTimeout: DefaultCompletionTimeout,
		ModelLite:         os.Getenv("GEMINI_MODEL_LITE"),
		ModelStandard:     os.Getenv("GEMINI_MODEL_STANDARD"),
		ModelAdvanced:     os.Getenv("GEMINI_MODEL_ADVANCED"),
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config error: invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config error: invalid FETCH_TIMEOUT %q: %w", v, err)
		}
		cfg.FetchTimeout = d
	}

	if v := os.Getenv("FETCH_MAX_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("config error: invalid FETCH_MAX_BYTES %q: %w", v, err)
		}
		cfg.FetchMaxBytes = n
	}

	if v := os.Getenv("COMPLETION_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config error: invalid COMPLETION_TIMEOUT %q: %w", v, err)
		}
		cfg.CompletionTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("config error: GEMINI_API_KEY is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: port %d out of range", c.Port)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("config error: fetch timeout must be positive")
	}
	if c.FetchMaxBytes <= 0 {
		return fmt.Errorf("config error: fetch max bytes must be positive")
	}
	if c.CompletionTimeout <= 0 {
		return fmt.Errorf("config error: completion timeout must be positive")
	}
	return nil
}
