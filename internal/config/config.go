// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading for sceneforge.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete sceneforge configuration.
type Config struct {
	Version string `toml:"version"`

	// Client configuration (endpoint fallback client)
	Client ClientConfig `toml:"client"`

	// Model configuration (OpenRouter, used by the service)
	Model ModelConfig `toml:"model"`

	// Service configuration (sceneforged HTTP API)
	Service ServiceConfig `toml:"service"`

	// Cache configuration (service-side generation cache)
	Cache CacheConfig `toml:"cache"`
}

// ClientConfig configures the client's endpoint fallback behavior.
type ClientConfig struct {
	// PrimaryURL is the generation service endpoint tried first.
	PrimaryURL string `toml:"primary_url"`
	// FallbackURL is tried once after any primary failure, then becomes
	// the endpoint of record for the rest of the session.
	FallbackURL string `toml:"fallback_url"`
	// TimeoutSecs is the per-request timeout. Generation can legitimately
	// take minutes; the default matches the model-call budget.
	TimeoutSecs int `toml:"timeout_secs"`
}

// ModelConfig configures the underlying language-model call.
// These values are read once at service start and never change afterwards.
type ModelConfig struct {
	// OpenRouterKey is the OpenRouter API key.
	OpenRouterKey string `toml:"openrouter_key"`
	// APIBase is the OpenRouter-compatible API base URL.
	APIBase string `toml:"api_base"`
	// Model is the model identifier used for both pipelines.
	Model string `toml:"model"`
	// TimeoutSecs is the model invocation timeout.
	TimeoutSecs int `toml:"timeout_secs"`
}

// ServiceConfig configures the sceneforged HTTP server.
type ServiceConfig struct {
	// Port is the listen port.
	Port int `toml:"port"`
	// AllowedOrigins is the CORS origin allowlist. Entries may contain a
	// single wildcard subdomain, e.g. "https://*.vercel.app".
	AllowedOrigins []string `toml:"allowed_origins"`
	// RateLimitPerMinute is the per-IP request budget.
	RateLimitPerMinute int `toml:"rate_limit_per_minute"`
}

// CacheConfig configures the service-side generation cache.
type CacheConfig struct {
	// Enabled controls whether prompt/code caching is active.
	Enabled bool `toml:"enabled"`
	// TTLHours is the time-to-live for cache entries in hours.
	TTLHours int `toml:"ttl_hours"`
	// MaxSize is the maximum number of cache entries held in memory.
	MaxSize int `toml:"max_size"`
	// Path is the sqlite file backing the cache. Empty disables
	// persistence and keeps the cache memory-only.
	Path string `toml:"path"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Version is the current configuration schema version.
const Version = "1"

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Version: Version,
		Client: ClientConfig{
			PrimaryURL:  "http://localhost:5000",
			FallbackURL: "http://localhost:5050",
			TimeoutSecs: 180,
		},
		Model: ModelConfig{
			APIBase:     "https://openrouter.ai/api/v1",
			Model:       "openrouter/auto",
			TimeoutSecs: 180,
		},
		Service: ServiceConfig{
			Port: 5000,
			AllowedOrigins: []string{
				"http://localhost:3000",
				"https://*.vercel.app",
			},
			RateLimitPerMinute: 100,
		},
		Cache: CacheConfig{
			Enabled:  true,
			TTLHours: 24,
			MaxSize:  512,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the sceneforge configuration directory (~/.sceneforge).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".sceneforge"), nil
}

// ConfigPath returns the path to the TOML configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir creates the configuration directory if needed.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration: defaults, then the config file if present,
// then environment overrides. The result is validated before return.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if loadErr := loadTOML(cfg, path); loadErr != nil {
				return nil, loadErr
			}
		}
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath reads configuration from an explicit file path, applies
// environment overrides, and validates.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := loadTOML(cfg, path); err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadTOML merges a TOML file over cfg.
func loadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration to the default config path.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open config for writing: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
// Supported variables:
//   - SCENEFORGE_OPENROUTER_KEY: overrides model.openrouter_key
//   - SCENEFORGE_API_BASE:       overrides model.api_base
//   - SCENEFORGE_MODEL:          overrides model.model
//   - SCENEFORGE_PRIMARY_URL:    overrides client.primary_url
//   - SCENEFORGE_FALLBACK_URL:   overrides client.fallback_url
//   - SCENEFORGE_PORT:           overrides service.port
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("SCENEFORGE_OPENROUTER_KEY"); key != "" {
		c.Model.OpenRouterKey = key
	}
	if base := os.Getenv("SCENEFORGE_API_BASE"); base != "" {
		c.Model.APIBase = base
	}
	if model := os.Getenv("SCENEFORGE_MODEL"); model != "" {
		c.Model.Model = model
	}
	if primary := os.Getenv("SCENEFORGE_PRIMARY_URL"); primary != "" {
		c.Client.PrimaryURL = primary
	}
	if fallback := os.Getenv("SCENEFORGE_FALLBACK_URL"); fallback != "" {
		c.Client.FallbackURL = fallback
	}
	if port := os.Getenv("SCENEFORGE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 && p < 65536 {
			c.Service.Port = p
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := validateURL("client.primary_url", c.Client.PrimaryURL); err != nil {
		return err
	}
	if err := validateURL("client.fallback_url", c.Client.FallbackURL); err != nil {
		return err
	}
	if c.Client.TimeoutSecs <= 0 {
		return ValidationError{"client.timeout_secs", "must be positive"}
	}
	if err := validateURL("model.api_base", c.Model.APIBase); err != nil {
		return err
	}
	if strings.TrimSpace(c.Model.Model) == "" {
		return ValidationError{"model.model", "must not be empty"}
	}
	if c.Model.TimeoutSecs <= 0 {
		return ValidationError{"model.timeout_secs", "must be positive"}
	}
	if c.Service.Port <= 0 || c.Service.Port > 65535 {
		return ValidationError{"service.port", "must be in 1..65535"}
	}
	if c.Service.RateLimitPerMinute <= 0 {
		return ValidationError{"service.rate_limit_per_minute", "must be positive"}
	}
	if c.Cache.Enabled {
		if c.Cache.TTLHours <= 0 {
			return ValidationError{"cache.ttl_hours", "must be positive when cache is enabled"}
		}
		if c.Cache.MaxSize <= 0 {
			return ValidationError{"cache.max_size", "must be positive when cache is enabled"}
		}
	}
	return nil
}

// validateURL checks that a value parses as an absolute http(s) URL.
func validateURL(field, value string) error {
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ValidationError{field, fmt.Sprintf("invalid URL %q", value)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ValidationError{field, fmt.Sprintf("unsupported scheme %q", u.Scheme)}
	}
	return nil
}
