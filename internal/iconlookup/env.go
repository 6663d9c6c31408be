// Package iconlookup resolves application identifiers to icon files the way
// freedesktop icon themes and desktop entries describe them.
package iconlookup

import (
	"os"
	"strings"
)

const (
	// DefaultPixmapsDir is the flat fallback icon directory.
	DefaultPixmapsDir = "/usr/share/pixmaps"
	// DefaultFlatpakExportDir is the system-wide Flatpak export root.
	DefaultFlatpakExportDir = "/var/lib/flatpak/exports/share"
	// FallbackTheme is used when no icon theme is configured anywhere.
	FallbackTheme = "hicolor"
	// IconThemeEnv overrides the active icon theme.
	IconThemeEnv = "GTK_ICON_THEME"
)

// defaultDataDirs is used when XDG_DATA_DIRS is unset.
var defaultDataDirs = []string{"/usr/local/share", "/usr/share"}

// Environment holds every process-level input the resolver reads.
type Environment struct {
	// Home is the user's home directory. Empty means unknown.
	Home string
	// DataDirs is the parsed XDG_DATA_DIRS list. Nil means unset.
	DataDirs []string
	// IconThemeOverride is the value of GTK_ICON_THEME, if set.
	IconThemeOverride string
	// PixmapsDir is the flat fallback directory, usually /usr/share/pixmaps.
	PixmapsDir string
	// FlatpakExportDir is the system Flatpak export root.
	FlatpakExportDir string
}

// EnvironmentFromOS builds an Environment from the current process.
func EnvironmentFromOS() Environment {
	env := Environment{
		Home:             os.Getenv("HOME"),
		PixmapsDir:       DefaultPixmapsDir,
		FlatpakExportDir: DefaultFlatpakExportDir,
	}
	if v, ok := os.LookupEnv("XDG_DATA_DIRS"); ok {
		env.DataDirs = SplitDataDirs(v)
	}
	env.IconThemeOverride = strings.TrimSpace(os.Getenv(IconThemeEnv))
	return env
}

// SplitDataDirs splits a colon separated directory list, dropping empty elements.
// The result is never nil, so an explicitly empty variable stays distinguishable
// from an unset one.
func SplitDataDirs(v string) []string {
	dirs := []string{}
	for _, d := range strings.Split(v, ":") {
		if d == "" {
			continue
		}
		dirs = append(dirs, strings.TrimRight(d, "/"))
	}
	return dirs
}

// dataDirs returns the configured data dirs or the system defaults when unset.
func (e Environment) dataDirs() []string {
	if e.DataDirs == nil {
		return defaultDataDirs
	}
	return e.DataDirs
}

func (e Environment) pixmapsDir() string {
	if e.PixmapsDir == "" {
		return DefaultPixmapsDir
	}
	return e.PixmapsDir
}

func (e Environment) flatpakExportDir() string {
	if e.FlatpakExportDir == "" {
		return DefaultFlatpakExportDir
	}
	return e.FlatpakExportDir
}
