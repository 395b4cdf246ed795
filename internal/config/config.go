// =============================================================================
// HelloAsso to Brevo Converter - Configuration Module
// =============================================================================
//
// This module loads the optional YAML defaults file. The file only provides
// default values for the command-line options; any flag given explicitly on
// the command line takes precedence.
//
// EXAMPLE (brevo.yaml):
//   output: exports/brevo_{date}.csv
//   remove_expired: true
//   sheet: Adhérents
//   log_level: info
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultOutput is the output file used when neither a flag nor the
// configuration file names one.
const DefaultOutput = "output_for_brevo.csv"

// DefaultLogLevel keeps a normal run down to its single status line.
const DefaultLogLevel = "warn"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the converter defaults.
type Config struct {
	// Output is the Brevo file to write.
	// Placeholders {date}, {timestamp} and {uuid} are expanded at run time.
	// Default: "output_for_brevo.csv"
	Output string `yaml:"output"`

	// RemoveExpired drops members whose adhesion date is more than
	// 365 days old.
	// Default: false
	RemoveExpired bool `yaml:"remove_expired"`

	// Sheet is the worksheet read from .xlsx exports.
	// Empty means the first sheet of the workbook.
	Sheet string `yaml:"sheet"`

	// LogLevel controls diagnostics on stderr.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "warn"
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadConfig loads the configuration from a YAML file.
// An empty path returns the defaults.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset option.
func applyDefaults(cfg *Config) {
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
}

// validateConfig rejects values the converter cannot use.
func validateConfig(cfg *Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}

	if strings.TrimSpace(cfg.Output) == "" {
		return fmt.Errorf("output must not be blank")
	}

	return nil
}
