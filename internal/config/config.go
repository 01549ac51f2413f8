package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"liuyao/internal/logging"
)

// Config holds all liuyao configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	Calendar   CalendarConfig   `yaml:"calendar"`
	Divination DivinationConfig `yaml:"divination"`
	Output     OutputConfig     `yaml:"output"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// CalendarConfig configures date handling.
type CalendarConfig struct {
	// IANA zone used for "now" and for dates given without a zone.
	Timezone string `yaml:"timezone"`
}

// DivinationConfig configures casting defaults.
type DivinationConfig struct {
	DefaultMethod string `yaml:"default_method"` // time, number, coin, manual
}

// OutputConfig configures how the CLI prints results.
type OutputConfig struct {
	Format string `yaml:"format"` // text, yaml, json, markdown
	Color  bool   `yaml:"color"`
}

// Valid enumerations.
var (
	ValidMethods = []string{"time", "number", "coin", "manual"}
	ValidFormats = []string{"text", "yaml", "json", "markdown"}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "liuyao",
		Version: "0.3.0",

		Calendar: CalendarConfig{
			Timezone: "Asia/Shanghai",
		},

		Divination: DivinationConfig{
			DefaultMethod: "time",
		},

		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Dir:    "~/.liuyao/logs",
		},
	}
}

// DefaultPath returns ~/.liuyao/config.yaml, or a relative path if the home
// directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".liuyao", "config.yaml")
	}
	return filepath.Join(home, ".liuyao", "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Return defaults if config file doesn't exist
		logging.ConfigDebug("no config at %s, using defaults", path)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if tz := os.Getenv("LIUYAO_TIMEZONE"); tz != "" {
		c.Calendar.Timezone = tz
	}
	if format := os.Getenv("LIUYAO_FORMAT"); format != "" {
		c.Output.Format = strings.ToLower(format)
	}
	if level := os.Getenv("LIUYAO_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
	if v := os.Getenv("LIUYAO_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			logging.ConfigWarn("ignoring LIUYAO_DEBUG=%q: %v", v, err)
		} else {
			c.Logging.DebugMode = debug
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !contains(ValidMethods, c.Divination.DefaultMethod) {
		return fmt.Errorf("invalid divination method: %s (valid: %v)", c.Divination.DefaultMethod, ValidMethods)
	}
	if !contains(ValidFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (valid: %v)", c.Output.Format, ValidFormats)
	}
	if c.Calendar.Timezone != "" {
		if _, err := time.LoadLocation(c.Calendar.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", c.Calendar.Timezone, err)
		}
	}
	return c.Logging.Validate()
}

// Location returns the configured time zone, falling back to UTC when it is
// empty or unknown to the system tz database.
func (c *Config) Location() *time.Location {
	if c.Calendar.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		logging.ConfigWarn("unknown timezone %q, falling back to UTC: %v", c.Calendar.Timezone, err)
		return time.UTC
	}
	return loc
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
