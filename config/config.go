// Package config holds the scriptdom configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"go.uber.org/zap/zapcore"
)

// Config is the configuration file structure. Fields missing from the
// file keep their defaults.
type Config struct {
	// Title of the display window.
	Title string `yaml:"title"`

	// Width and Height of the display window in pixels.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Headless renders to standard output instead of opening a window.
	Headless bool `yaml:"headless"`

	// LogLevel is a zap level name: debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Title:    "scriptdom",
		Width:    800,
		Height:   600,
		LogLevel: "info",
	}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: window size must be positive, got %dx%d", c.Width, c.Height)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("config: log_level: %w", err)
	}
	return lvl, nil
}
