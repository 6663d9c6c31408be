// Package config provides configuration management for hypricons.
package config

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the application name used for directories.
	AppName = "hypricons"
	// ConfigFileName is the default configuration file name.
	ConfigFileName = "config.yaml"
	// ConfigDirEnv overrides the configuration directory.
	ConfigDirEnv = "HYPRICONS_CONFIG_DIR"
)

// Paths holds the per-user locations hypricons reads and writes.
type Paths struct {
	ConfigDir  string
	ConfigFile string
	DataDir    string
	CacheDir   string
	// RuntimeDir holds the PID file. It is removed with the login session,
	// so a stale lock cannot outlive a crashed compositor.
	RuntimeDir string
}

// GetPaths resolves the XDG base directories for hypricons.
func GetPaths() Paths {
	home := os.Getenv("HOME")
	p := Paths{
		ConfigDir: xdgDir("XDG_CONFIG_HOME", home, ".config"),
		DataDir:   xdgDir("XDG_DATA_HOME", home, ".local", "share"),
		CacheDir:  xdgDir("XDG_CACHE_HOME", home, ".cache"),
	}
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		p.ConfigDir = dir
	}
	p.ConfigFile = filepath.Join(p.ConfigDir, ConfigFileName)

	p.RuntimeDir = p.CacheDir
	if dir := os.Getenv("XDG_RUNTIME_DIR"); filepath.IsAbs(dir) {
		p.RuntimeDir = filepath.Join(dir, AppName)
	}
	return p
}

// xdgDir returns $env/hypricons, or home/fallback.../hypricons when the
// variable is unset. Relative values are invalid for XDG variables and are
// ignored.
func xdgDir(env, home string, fallback ...string) string {
	if dir := os.Getenv(env); filepath.IsAbs(dir) {
		return filepath.Join(dir, AppName)
	}
	if home == "" {
		home = "."
	}
	return filepath.Join(append(append([]string{home}, fallback...), AppName)...)
}
