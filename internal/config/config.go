// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via
// CLI flags or environment variables.
type Config struct {
	// Connections
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL for the cache store
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key

	// Pipeline behavior
	TimeoutSeconds int   `json:"timeout_seconds,omitempty"` // End-to-end deadline per request
	MaxConcurrent  int64 `json:"max_concurrent,omitempty"`  // Bound on concurrently generating requests

	// Layout
	SurfaceWidth float64 `json:"surface_width,omitempty"` // Layout surface width in abstract units

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed stage information
	Port    int  `json:"port,omitempty"`    // HTTP server port
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are enforced by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("config error: 'max_concurrent' must be non-negative")
	}
	if c.SurfaceWidth < 0 {
		return fmt.Errorf("config error: 'surface_width' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be a valid port number")
	}
	return nil
}

// Timeout returns the configured per-request deadline, or zero when unset so
// the pipeline default applies.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
