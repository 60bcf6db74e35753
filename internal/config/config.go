// Package config provides unified configuration loading for homesense.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/homesense/homesense/internal/store"
)

// Config contains all homesense configuration settings.
type Config struct {
	// Store selects where player progress is persisted.
	Store StoreConfig `json:"store" yaml:"store"`

	// Logging contains settings for operational and event logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Hints configures hint selection.
	Hints HintsConfig `json:"hints" yaml:"hints"`

	// Server configures the live hint feed.
	Server ServerConfig `json:"server" yaml:"server"`
}

// StoreConfig configures the progress store.
type StoreConfig struct {
	// Backend is "file" (default), "sqlite" or "memory".
	Backend string `json:"backend" yaml:"backend"`

	// Path is the store file. Empty means a file under ~/.homesense
	// chosen by backend. Supports ${VAR} expansion.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables event logging to ~/.homesense/events.jsonl.
	Level string `json:"level" yaml:"level"`
}

// HintsConfig configures the hint engine.
type HintsConfig struct {
	// Seed fixes the random source used to vary hints. Zero picks a
	// time-based seed.
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// ServerConfig configures the websocket hint feed.
type ServerConfig struct {
	// Addr is the listen address for `homesense serve`.
	Addr string `json:"addr" yaml:"addr"`

	// TickInterval is how often a connected editor receives a fresh hint.
	TickInterval time.Duration `json:"tick_interval" yaml:"tick_interval"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: store.BackendFile,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr:         "localhost:8642",
			TickInterval: 5 * time.Second,
		},
	}
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.homesense/config.yaml -> environment variables
func Load() (*Config, error) {
	config := Default()

	dir, err := store.GlobalDir()
	if err == nil {
		configPath := filepath.Join(dir, "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadPath loads configuration from path when it is set, otherwise from the
// default locations. Environment variables override either.
func LoadPath(path string) (*Config, error) {
	if path == "" {
		return Load()
	}
	config, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(config)
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config.Store.Path = expandEnvVars(config.Store.Path)

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Store.Backend != "" && !slices.Contains(store.Backends(), c.Store.Backend) {
		return fmt.Errorf("invalid store backend: %s (valid: %s)", c.Store.Backend, strings.Join(store.Backends(), ", "))
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	if c.Server.TickInterval < 0 {
		return fmt.Errorf("tick_interval must be non-negative, got %v", c.Server.TickInterval)
	}

	return nil
}

// StorePath resolves the effective store file, falling back to the
// per-user directory when none is configured.
func (c *Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dir, err := store.GlobalDir()
	if err != nil {
		return "", err
	}
	return store.DefaultPath(dir, c.Store.Backend), nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("HOMESENSE_STORE_BACKEND"); v != "" {
		config.Store.Backend = v
	}

	if v := os.Getenv("HOMESENSE_STORE_PATH"); v != "" {
		config.Store.Path = expandEnvVars(v)
	}

	if v := os.Getenv("HOMESENSE_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("HOMESENSE_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Hints.Seed = n
		}
	}

	if v := os.Getenv("HOMESENSE_ADDR"); v != "" {
		config.Server.Addr = v
	}

	if v := os.Getenv("HOMESENSE_TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Server.TickInterval = d
		}
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
