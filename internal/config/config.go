// Package config loads and validates the watcher configuration.
//
// DESIGN: One immutable Config value is constructed at process start and
// passed by reference into the stream processor; no ambient globals.
//
// The primary surface is environment variables (the watcher runs as a
// sidecar container). A YAML file can seed the same fields, with
// ${VAR:-default} expansion, and the environment always overrides it.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for the alerting core.
const (
	DefaultErrorRateThresholdPercent = 2.0
	DefaultWindowSize                = 200
	DefaultCooldownSeconds           = 300
	DefaultAccessLogPath             = "/var/log/nginx/access.log"
)

// Environment keys, read once at startup.
const (
	EnvErrorRateThreshold = "ERROR_RATE_THRESHOLD_PERCENT"
	EnvWindowSize         = "WINDOW_SIZE"
	EnvCooldownSeconds    = "COOLDOWN_SECONDS"
	EnvMaintenanceMode    = "MAINTENANCE_MODE"
	EnvWebhookURL         = "SLACK_WEBHOOK_URL"
	EnvAccessLogPath      = "ACCESS_LOG_PATH"
	EnvLogLevel           = "LOG_LEVEL"
	EnvJournalPath        = "ALERT_JOURNAL_PATH"
)

// Config is the immutable watcher configuration.
type Config struct {
	ErrorRateThresholdPercent float64 `yaml:"error_rate_threshold_percent"`
	WindowSize                int     `yaml:"window_size"`
	CooldownSeconds           int     `yaml:"cooldown_seconds"`
	MaintenanceMode           bool    `yaml:"maintenance_mode"`
	WebhookURL                string  `yaml:"webhook_url"`  // empty = alerting disabled
	AccessLogPath             string  `yaml:"access_log"`
	LogLevel                  string  `yaml:"log_level"`    // debug, info, warn, error
	JournalPath               string  `yaml:"journal_path"` // empty = no alert journal
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ErrorRateThresholdPercent: DefaultErrorRateThresholdPercent,
		WindowSize:                DefaultWindowSize,
		CooldownSeconds:           DefaultCooldownSeconds,
		AccessLogPath:             DefaultAccessLogPath,
		LogLevel:                  "info",
	}
}

// Cooldown returns the per-alert-type cooldown as a duration.
func (c Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

// NotifierConfigured reports whether an outbound endpoint is usable.
// A URL still carrying a "placeholder" token from templated deploy configs
// counts as not configured.
func (c Config) NotifierConfigured() bool {
	return c.WebhookURL != "" && !strings.Contains(c.WebhookURL, "placeholder")
}

// FromEnv builds the configuration from defaults plus environment
// overrides. It is the normal startup path.
func FromEnv() (Config, error) {
	cfg := Default()
	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Load reads configuration from a YAML file, then applies environment
// overrides on top.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses configuration from raw YAML bytes.
// Supports ${VAR:-default} env var expansion, env overrides, and validation.
func LoadFromBytes(data []byte) (Config, error) {
	expanded := expandEnvWithDefaults(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// expandEnvWithDefaults expands environment variables with support for
// default values. Supports both ${VAR} and ${VAR:-default} syntax.
func expandEnvWithDefaults(s string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultValue := ""
		if len(parts) > 2 {
			defaultValue = parts[2]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// applyEnvOverrides applies the environment surface on top of whatever the
// config currently holds. Malformed values are startup errors, not silent
// fallbacks.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvErrorRateThreshold); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value '%s': %w", EnvErrorRateThreshold, v, err)
		}
		c.ErrorRateThresholdPercent = f
	}
	if v := os.Getenv(EnvWindowSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value '%s': %w", EnvWindowSize, v, err)
		}
		c.WindowSize = n
	}
	if v := os.Getenv(EnvCooldownSeconds); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value '%s': %w", EnvCooldownSeconds, v, err)
		}
		c.CooldownSeconds = n
	}
	if v := os.Getenv(EnvMaintenanceMode); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value '%s': %w", EnvMaintenanceMode, v, err)
		}
		c.MaintenanceMode = b
	}
	if v := os.Getenv(EnvWebhookURL); v != "" {
		c.WebhookURL = v
	}
	if v := os.Getenv(EnvAccessLogPath); v != "" {
		c.AccessLogPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvJournalPath); v != "" {
		c.JournalPath = v
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.WindowSize < 1 {
		return fmt.Errorf("window_size must be positive, got %d", c.WindowSize)
	}
	if c.CooldownSeconds < 0 {
		return fmt.Errorf("cooldown_seconds must be non-negative, got %d", c.CooldownSeconds)
	}
	if c.ErrorRateThresholdPercent < 0 {
		return fmt.Errorf("error_rate_threshold_percent must be non-negative, got %g", c.ErrorRateThresholdPercent)
	}
	if c.AccessLogPath == "" {
		return fmt.Errorf("access_log is required")
	}
	return nil
}
