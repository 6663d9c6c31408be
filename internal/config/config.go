package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Default values for the overlay settings.
const (
	DefaultIconSize  = 128
	DefaultFadeInMs  = 150
	DefaultHoldMs    = 300
	DefaultFadeOutMs = 400
)

// ErrInvalidConfig indicates a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// NotificationConfig holds settings for desktop notifications.
type NotificationConfig struct {
	// Enabled enables desktop notifications.
	Enabled bool `yaml:"enabled,omitempty"`
	// OnStart sends a notification once the daemon attached to the compositor.
	OnStart bool `yaml:"on_start,omitempty"`
	// OnFailure sends a notification when activation fails.
	OnFailure bool `yaml:"on_failure,omitempty"`
	// OnOverlay sends a notification for every overlay shown.
	OnOverlay bool `yaml:"on_overlay,omitempty"`
}

// DaemonConfig holds settings for the background daemon.
type DaemonConfig struct {
	// LogFile is the path to the daemon log file.
	LogFile string `yaml:"log_file,omitempty"`
	// PIDFile is the path to the daemon PID file.
	PIDFile string `yaml:"pid_file,omitempty"`
	// LogLevel is the logging level (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`
	// LogJSON enables JSON-formatted logging.
	LogJSON bool `yaml:"log_json,omitempty"`
	// LogMaxSize is the maximum log file size in MB before rotation.
	LogMaxSize int `yaml:"log_max_size,omitempty"`
	// HealthEndpoint is the address for the health HTTP endpoint (e.g., localhost:9090).
	HealthEndpoint string `yaml:"health_endpoint,omitempty"`
	// FramesDir, when set, receives every rendered frame as a PNG file.
	FramesDir string `yaml:"frames_dir,omitempty"`
	// Notifications holds notification settings.
	Notifications NotificationConfig `yaml:"notifications,omitempty"`
}

// Config represents the hypricons configuration.
type Config struct {
	// Enabled is the master switch, evaluated on every window-open event.
	Enabled bool `yaml:"enabled"`
	// IconSize is the square render dimension of the overlay icon in pixels.
	IconSize int `yaml:"icon_size,omitempty"`
	// FadeInMs is the fade-in duration in milliseconds.
	FadeInMs int `yaml:"fade_in_ms,omitempty"`
	// HoldMs is the hold duration in milliseconds.
	HoldMs int `yaml:"hold_ms,omitempty"`
	// FadeOutMs is the fade-out duration in milliseconds.
	FadeOutMs int `yaml:"fade_out_ms,omitempty"`
	// IgnoreClasses lists glob patterns of window classes that never get an overlay.
	IgnoreClasses []string `yaml:"ignore_classes,omitempty"`
	// Daemon holds daemon-specific configuration.
	Daemon DaemonConfig `yaml:"daemon,omitempty"`

	// filePath is the path where this config was loaded from.
	filePath string `yaml:"-"`
}

// Default returns a new Config with default values.
func Default() *Config {
	paths := GetPaths()
	return &Config{
		Enabled:   true,
		IconSize:  DefaultIconSize,
		FadeInMs:  DefaultFadeInMs,
		HoldMs:    DefaultHoldMs,
		FadeOutMs: DefaultFadeOutMs,
		Daemon: DaemonConfig{
			LogLevel: "info",
			Notifications: NotificationConfig{
				Enabled:   false,
				OnStart:   true,
				OnFailure: true,
			},
		},
		filePath: paths.ConfigFile,
	}
}

// Load loads the configuration from the default path.
func Load() (*Config, error) {
	paths := GetPaths()
	return LoadFrom(paths.ConfigFile)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	cfg.filePath = path

	// #nosec G304 - path is the config file path (controlled, from user config directory)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults replaces a non-positive icon size and negative durations with
// their defaults. A zero duration skips its phase.
func (c *Config) applyDefaults() {
	if c.IconSize <= 0 {
		c.IconSize = DefaultIconSize
	}
	if c.FadeInMs < 0 {
		c.FadeInMs = DefaultFadeInMs
	}
	if c.HoldMs < 0 {
		c.HoldMs = DefaultHoldMs
	}
	if c.FadeOutMs < 0 {
		c.FadeOutMs = DefaultFadeOutMs
	}
	if c.Daemon.LogLevel == "" {
		c.Daemon.LogLevel = "info"
	}
}

// Save writes the configuration to its file path.
func (c *Config) Save() error {
	if c.filePath == "" {
		return errors.New("config file path not set")
	}

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the raw values of the configuration.
// LoadFrom already repairs out-of-range values, so Validate is meant for
// files parsed without defaults applied (see ValidateFile).
func (c *Config) Validate() error {
	if c.IconSize <= 0 {
		return fmt.Errorf("%w: icon_size must be positive, got %d", ErrInvalidConfig, c.IconSize)
	}
	if c.IconSize > 1024 {
		return fmt.Errorf("%w: icon_size must not exceed 1024, got %d", ErrInvalidConfig, c.IconSize)
	}
	for name, v := range map[string]int{
		"fade_in_ms":  c.FadeInMs,
		"hold_ms":     c.HoldMs,
		"fade_out_ms": c.FadeOutMs,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidConfig, name, v)
		}
	}
	for _, pattern := range c.IgnoreClasses {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("%w: ignore_classes pattern %q: %v", ErrInvalidConfig, pattern, err)
		}
	}
	return nil
}

// ValidateFile parses the file at path without repairing values and validates it.
func ValidateFile(path string) error {
	// #nosec G304 - path is the config file path (controlled, from user config directory)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg.Validate()
}

// FadeIn returns the fade-in duration.
func (c *Config) FadeIn() time.Duration {
	return time.Duration(c.FadeInMs) * time.Millisecond
}

// Hold returns the hold duration.
func (c *Config) Hold() time.Duration {
	return time.Duration(c.HoldMs) * time.Millisecond
}

// FadeOut returns the fade-out duration.
func (c *Config) FadeOut() time.Duration {
	return time.Duration(c.FadeOutMs) * time.Millisecond
}

// FilePath returns the path where this config was loaded from.
func (c *Config) FilePath() string {
	return c.filePath
}

// SetFilePath changes where Save writes the configuration.
func (c *Config) SetFilePath(path string) {
	c.filePath = path
}
