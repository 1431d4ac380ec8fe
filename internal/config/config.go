package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/snaptile/internal/runtimepath"
)

const (
	DefaultThreshold     = 40
	DefaultSettleDelayMS = 250
	DefaultDPIAwareness  = "system"
	DefaultNotify        = "auto"

	DefaultLogLevel     = "info"
	DefaultLogMaxSizeMB = 5
	DefaultLogMaxFiles  = 3

	MaxThreshold     = 500
	MinSettleDelayMS = 10
	MaxSettleDelayMS = 5000
)

// DPIAwarenessModes lists the accepted dpi_awareness values.
var DPIAwarenessModes = []string{"none", "unaware", "system", "per-monitor", "per-monitor-v2", "unaware-gdi-scaled"}

// NotifyModes lists the accepted notify values.
var NotifyModes = []string{"auto", "console", "dialog"}

// LogLevels lists the accepted logging.level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Config represents the effective snaptile configuration
type Config struct {
	Threshold       int           `yaml:"threshold"`
	IgnoreMinimized bool          `yaml:"ignore_minimized"`
	IgnoreMaximized bool          `yaml:"ignore_maximized"`
	DPIAwareness    string        `yaml:"dpi_awareness"`
	Notify          string        `yaml:"notify"`
	SettleDelayMS   int           `yaml:"settle_delay_ms"`
	Logging         LoggingConfig `yaml:"logging"`
}

// LoggingConfig controls the rotating log file.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	File      string `yaml:"file,omitempty"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
	Compress  bool   `yaml:"compress"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Threshold:       DefaultThreshold,
		IgnoreMinimized: true,
		IgnoreMaximized: true,
		DPIAwareness:    DefaultDPIAwareness,
		Notify:          DefaultNotify,
		SettleDelayMS:   DefaultSettleDelayMS,
		Logging: LoggingConfig{
			Level:     DefaultLogLevel,
			MaxSizeMB: DefaultLogMaxSizeMB,
			MaxFiles:  DefaultLogMaxFiles,
			Compress:  true,
		},
	}
}

// GetLoggingConfig returns the logging configuration with the log file
// resolved to the state directory when unset.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return DefaultConfig().Logging
	}
	cfg := c.Logging
	if cfg.File == "" {
		path, err := runtimepath.LogPath()
		if err != nil {
			// Last resort fallback - use current directory
			path = "snaptile.log"
		}
		cfg.File = path
	}
	return cfg
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Threshold < 1 || c.Threshold > MaxThreshold {
		return &ValidationError{Path: "threshold", Err: fmt.Errorf("threshold must be between 1 and %d", MaxThreshold)}
	}
	if !slices.Contains(DPIAwarenessModes, c.DPIAwareness) {
		return &ValidationError{Path: "dpi_awareness", Err: fmt.Errorf("dpi_awareness must be one of: %s", strings.Join(DPIAwarenessModes, ", "))}
	}
	if !slices.Contains(NotifyModes, c.Notify) {
		return &ValidationError{Path: "notify", Err: fmt.Errorf("notify must be one of: %s", strings.Join(NotifyModes, ", "))}
	}
	if c.SettleDelayMS < MinSettleDelayMS || c.SettleDelayMS > MaxSettleDelayMS {
		return &ValidationError{Path: "settle_delay_ms", Err: fmt.Errorf("settle_delay_ms must be between %d and %d", MinSettleDelayMS, MaxSettleDelayMS)}
	}
	if !slices.Contains(LogLevels, c.Logging.Level) {
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: %s", strings.Join(LogLevels, ", "))}
	}
	if c.Logging.MaxSizeMB < 1 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 1")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	return nil
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments
// from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
