// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tamperscan/internal/analyzer"
)

// Config represents the application configuration.
type Config struct {
	// Default output settings
	Defaults struct {
		Format  string `yaml:"format"`
		Verbose bool   `yaml:"verbose"`
		NoColor bool   `yaml:"no_color"`
		Summary bool   `yaml:"summary"`
	} `yaml:"defaults"`

	// Analysis rule configuration
	Analysis struct {
		DateGapThresholdDays int                        `yaml:"date_gap_threshold_days"`
		ExpectedFields       []string                   `yaml:"expected_fields"`
		SuspiciousSoftware   []analyzer.SoftwarePattern `yaml:"suspicious_software"`
		TrustedSoftware      []string                   `yaml:"trusted_software"`
	} `yaml:"analysis"`

	// Web server settings
	Web struct {
		Port           string `yaml:"port"`
		MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	} `yaml:"web"`
}

// LoadConfig loads configuration from the specified file path. An empty
// path returns the built-in defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := defaultConfig()

	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func defaultConfig() *Config {
	config := &Config{}

	config.Defaults.Format = "text"

	rules := analyzer.DefaultConfig()
	config.Analysis.DateGapThresholdDays = rules.DateGapThresholdDays
	config.Analysis.ExpectedFields = rules.ExpectedFields
	config.Analysis.SuspiciousSoftware = rules.SuspiciousSoftware
	config.Analysis.TrustedSoftware = rules.TrustedSoftware

	config.Web.Port = "8080"
	config.Web.MaxUploadBytes = 16 << 20 // 16MB, matches the upload form limit

	return config
}

// ValidateConfig validates the configuration values.
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if config.Analysis.DateGapThresholdDays < 0 {
		return fmt.Errorf("date_gap_threshold_days cannot be negative (got %d)", config.Analysis.DateGapThresholdDays)
	}
	if config.Web.MaxUploadBytes < 0 {
		return fmt.Errorf("max_upload_bytes cannot be negative (got %d)", config.Web.MaxUploadBytes)
	}
	for _, pattern := range config.Analysis.SuspiciousSoftware {
		if pattern.Pattern == "" {
			return fmt.Errorf("suspicious_software entries must have a non-empty pattern")
		}
	}
	return nil
}

// AnalyzerConfig builds the rule configuration the analyzer consumes.
func (c *Config) AnalyzerConfig() analyzer.Config {
	return analyzer.Config{
		DateGapThresholdDays: c.Analysis.DateGapThresholdDays,
		ExpectedFields:       c.Analysis.ExpectedFields,
		SuspiciousSoftware:   c.Analysis.SuspiciousSoftware,
		TrustedSoftware:      c.Analysis.TrustedSoftware,
	}
}

// FindConfigFile looks for a configuration file in standard locations.
func FindConfigFile() string {
	candidates := []string{
		"tamperscan.yaml",
		"tamperscan.yml",
		".tamperscan.yaml",
		".tamperscan.yml",
	}
	for _, candidate := range candidates {
		if fileExists(candidate) {
			return candidate
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		candidate := filepath.Join(xdgConfig, "tamperscan", name)
		if fileExists(candidate) {
			return candidate
		}
	}

	return ""
}

// LoadConfigOrDefault loads configuration from configFile (or searches
// standard locations when configFile is empty). If loading fails, it
// returns the built-in defaults. Shared by the CLI and the web server.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg, _ = LoadConfig("")
	}
	return cfg
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
