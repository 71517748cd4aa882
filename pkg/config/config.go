// Package config provides configuration loading and management for the
// picardgas commands. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Resampling parameters
	Resample struct {
		// Workers specifies how many x-planes are interpolated concurrently
		Workers int `yaml:"workers"`

		// FillValue is the density of target cells outside the source volume
		FillValue float64 `yaml:"fillValue"`

		// Progress enables the progress bar on standard output
		Progress bool `yaml:"progress"`
	} `yaml:"resample"`

	// Plot parameters
	Plot struct {
		// Width and Height of the rendered image in centimeters
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`

		// Colors is the number of palette entries of the heat map
		Colors int `yaml:"colors"`

		// Logarithmic selects a logarithmic color scale by default
		Logarithmic bool `yaml:"logarithmic"`
	} `yaml:"plot"`

	// Output parameters
	Output struct {
		// Title is stored in the global attributes of written volume files
		Title string `yaml:"title"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Resample.Workers = runtime.NumCPU() // Use all available cores by default
	cfg.Resample.FillValue = 0
	cfg.Resample.Progress = true

	cfg.Plot.Width = 16
	cfg.Plot.Height = 16
	cfg.Plot.Colors = 256
	cfg.Plot.Logarithmic = false

	cfg.Output.Title = "gas density"
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Values missing from the file keep their defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// Validate checks that the values can be used by the commands
func (c *Config) Validate() error {
	if c.Resample.Workers < 0 {
		return fmt.Errorf("resample.workers must not be negative, got %d", c.Resample.Workers)
	}
	if c.Plot.Width <= 0 || c.Plot.Height <= 0 {
		return fmt.Errorf("plot size must be positive, got %gx%g", c.Plot.Width, c.Plot.Height)
	}
	if c.Plot.Colors < 2 {
		return fmt.Errorf("plot.colors must be at least 2, got %d", c.Plot.Colors)
	}
	return nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
