package iconlookup

import (
	"context"
	"path/filepath"
	"strings"
)

// Resolver maps application identifiers to icon files.
// It is not safe for concurrent use; callers own it from a single goroutine.
type Resolver struct {
	env      Environment
	settings SettingsSource

	searchPaths []string
	theme       string
	themeSource ThemeSource
	index       IconIndex
	lastScan    *ScanReport
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSettingsSource sets the desktop settings source used for the icon theme.
// A nil source skips the desktop setting step.
func WithSettingsSource(src SettingsSource) Option {
	return func(r *Resolver) {
		r.settings = src
	}
}

// New builds a Resolver: search paths, active theme, then the desktop-entry index.
// It never fails; unreadable inputs only shrink the index.
func New(ctx context.Context, env Environment, opts ...Option) *Resolver {
	r := &Resolver{
		env:      env,
		settings: NewPortalSettings(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.searchPaths = ThemeSearchPaths(env)
	r.load(ctx)
	return r
}

// load resolves the theme and rebuilds the index from scratch.
func (r *Resolver) load(ctx context.Context) {
	r.theme, r.themeSource = ActiveTheme(ctx, r.settings, r.env)
	r.lastScan = ScanDesktopDirs(DesktopEntryDirs(r.env))
	r.index = BuildIndex(r.lastScan)
}

// RefreshCache discards the index, re-resolves the active theme and rescans
// desktop entries. The new index replaces the old one entirely.
func (r *Resolver) RefreshCache(ctx context.Context) {
	r.index = nil
	r.searchPaths = ThemeSearchPaths(r.env)
	r.load(ctx)
}

// FindIconPath returns the icon file for an application class or title.
// The boolean is false when no icon could be found; that is not an error.
func (r *Resolver) FindIconPath(appClass string, size int) (string, bool) {
	lowerClass := strings.ToLower(appClass)

	iconName := lowerClass
	if name, ok := r.index[lowerClass]; ok {
		iconName = name
	}

	if filepath.IsAbs(iconName) && fileExists(iconName) {
		return iconName, true
	}

	if p, ok := r.search(iconName, size); ok {
		return p, true
	}

	if iconName != lowerClass {
		return r.search(lowerClass, size)
	}

	return "", false
}

// search runs the theme, hicolor and pixmaps lookups for one icon name.
func (r *Resolver) search(name string, size int) (string, bool) {
	if p, ok := (themeSearch{paths: r.searchPaths, theme: r.theme, flat: true}).find(name, size); ok {
		return p, true
	}
	if p, ok := (themeSearch{paths: r.searchPaths, theme: FallbackTheme}).find(name, size); ok {
		return p, true
	}
	return findPixmap(r.env.pixmapsDir(), name)
}

// Theme returns the active icon theme name.
func (r *Resolver) Theme() string {
	return r.theme
}

// ThemeSource returns where the active theme was read from.
func (r *Resolver) ThemeSource() ThemeSource {
	return r.themeSource
}

// SearchPaths returns a copy of the theme search paths.
func (r *Resolver) SearchPaths() []string {
	return append([]string(nil), r.searchPaths...)
}

// IndexSize returns the number of keys in the index.
func (r *Resolver) IndexSize() int {
	return len(r.index)
}

// Lookup returns the raw icon name indexed for an identifier.
func (r *Resolver) Lookup(key string) (string, bool) {
	return r.index.Lookup(key)
}

// Entries returns the index sorted by key.
func (r *Resolver) Entries() []IndexEntry {
	return r.index.Entries()
}

// LastScan returns the report of the most recent desktop-entry scan.
func (r *Resolver) LastScan() *ScanReport {
	return r.lastScan
}
