package config

import (
	"fmt"

	"liuyao/internal/logging"
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`      // debug, info, warn, error
	Format     string          `yaml:"format"`     // console, json
	DebugMode  bool            `yaml:"debug_mode"` // Master toggle - false = no file logging
	Dir        string          `yaml:"dir"`        // Per-category log files land here
	Categories map[string]bool `yaml:"categories"` // Per-category toggles
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Returns false if debug_mode is false.
// Returns true if debug_mode is true and category is enabled (or not specified).
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if c.Categories == nil {
		return true // All enabled by default in debug mode
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}

// Validate checks level and format.
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Level)
	}
	switch c.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("invalid log format: %s (valid: console, json)", c.Format)
	}
	return nil
}

// Options converts the section into logging.Options with the directory expanded.
func (c *LoggingConfig) Options() logging.Options {
	return logging.Options{
		Level:      c.Level,
		JSONFormat: c.Format == "json",
		DebugMode:  c.DebugMode,
		Dir:        expandHome(c.Dir),
		Categories: c.Categories,
	}
}
