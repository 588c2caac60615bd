// Package config loads service configuration from an optional YAML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all mortality-engine configuration.
type Config struct {
	// Server settings
	Port string `yaml:"port"`

	// Bootstrap settings
	Bootstrap BootstrapConfig `yaml:"bootstrap"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// BootstrapConfig tunes the uncertainty engine.
type BootstrapConfig struct {
	Replicates int `yaml:"replicates"`
	Workers    int `yaml:"workers"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`       // debug, info, warn, error
	Development bool   `yaml:"development"` // console encoding, stacktraces on warn
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port: "8080",
		Bootstrap: BootstrapConfig{
			Replicates: 200,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the config file at path (when it exists), then applies
// environment overrides. An empty path checks MORTALITY_CONFIG before
// falling back to defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("MORTALITY_CONFIG")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Port = port
	}
	if reps := os.Getenv("MORTALITY_REPLICATES"); reps != "" {
		if n, err := strconv.Atoi(reps); err == nil && n > 0 {
			c.Bootstrap.Replicates = n
		}
	}
	if level := os.Getenv("MORTALITY_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}
