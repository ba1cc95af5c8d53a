// Package config provides configuration loading and management for landsatlst.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"landsatlst/pkg/bands"
	"landsatlst/pkg/metadata"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Input describes how scene files are recognised
	Input struct {
		// MetadataSuffix identifies the single metadata file of a scene
		MetadataSuffix string `yaml:"metadataSuffix"`

		// ImageSuffix identifies single-band raster files
		ImageSuffix string `yaml:"imageSuffix"`
	} `yaml:"input"`

	// Processing parameters
	Processing struct {
		// StrictBands rejects scenes where two files map to the same band
		// instead of keeping the last one
		StrictBands bool `yaml:"strictBands"`

		// Memoize caches rasters and intermediate products within one run
		Memoize bool `yaml:"memoize"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// PreviewDir receives a quicklook TIFF per product when not empty
		PreviewDir string `yaml:"previewDir"`

		// LogLevel is a logrus level name
		LogLevel string `yaml:"logLevel"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Input.MetadataSuffix = metadata.DefaultSuffix
	cfg.Input.ImageSuffix = bands.DefaultImageSuffix

	cfg.Processing.StrictBands = false
	cfg.Processing.Memoize = false

	cfg.Output.PreviewDir = ""
	cfg.Output.LogLevel = "info"

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// Validate checks that the suffixes used for file discovery are usable.
func (c *Config) Validate() error {
	if c.Input.MetadataSuffix == "" {
		return fmt.Errorf("input.metadataSuffix must not be empty")
	}
	if c.Input.ImageSuffix == "" {
		return fmt.Errorf("input.imageSuffix must not be empty")
	}
	return nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
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
