package iconlookup

import (
	"bufio"
	"context"
	"os"
	"strings"
)

// SettingsSource reads the desktop environment's icon theme setting.
type SettingsSource interface {
	// IconTheme returns the configured theme name, or an error when the
	// setting cannot be obtained.
	IconTheme(ctx context.Context) (string, error)
}

// ThemeSource describes where the active theme came from.
type ThemeSource string

// Theme sources, in priority order.
const (
	ThemeFromDesktop  ThemeSource = "desktop"
	ThemeFromEnv      ThemeSource = "env"
	ThemeFromGTK      ThemeSource = "gtk"
	ThemeFromFallback ThemeSource = "fallback"
)

// ActiveTheme determines the icon theme, first match wins: desktop setting,
// GTK_ICON_THEME, GTK settings files, then hicolor.
func ActiveTheme(ctx context.Context, settings SettingsSource, env Environment) (string, ThemeSource) {
	if settings != nil {
		if theme, err := settings.IconTheme(ctx); err == nil && theme != "" {
			return theme, ThemeFromDesktop
		}
	}

	if env.IconThemeOverride != "" {
		return env.IconThemeOverride, ThemeFromEnv
	}

	for _, path := range gtkSettingsFiles(env.Home) {
		if theme := readGTKIconTheme(path); theme != "" {
			return theme, ThemeFromGTK
		}
	}

	return FallbackTheme, ThemeFromFallback
}

// readGTKIconTheme returns the first non-empty gtk-icon-theme-name value in path.
func readGTKIconTheme(path string) string {
	// #nosec G304 - path is one of the fixed GTK settings locations
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if theme := parseGTKThemeLine(scanner.Text()); theme != "" {
			return theme
		}
	}
	return ""
}

// parseGTKThemeLine extracts the theme from lines such as
// `gtk-icon-theme-name=Papirus` or `gtk-icon-theme-name = "Adwaita"`.
func parseGTKThemeLine(line string) string {
	if !strings.Contains(line, "gtk-icon-theme-name") {
		return ""
	}
	_, value, ok := strings.Cut(line, "=")
	if !ok {
		return ""
	}
	value = strings.NewReplacer(`"`, "", "'", "").Replace(value)
	return strings.TrimSpace(value)
}
