package iconlookup

import "path/filepath"

// ThemeSearchPaths returns the ordered base directories that hold icon themes.
// Earlier entries win when the same file exists in several of them.
func ThemeSearchPaths(env Environment) []string {
	var paths []string

	if env.Home != "" {
		paths = append(paths,
			filepath.Join(env.Home, ".local", "share", "icons"),
			filepath.Join(env.Home, ".icons"),
		)
	}

	for _, dir := range env.dataDirs() {
		paths = append(paths, filepath.Join(dir, "icons"))
	}

	return append(paths, env.pixmapsDir())
}

// DesktopEntryDirs returns the directories scanned for .desktop files, in scan order.
// Later directories overwrite index entries of earlier ones.
func DesktopEntryDirs(env Environment) []string {
	var dirs []string

	if env.Home != "" {
		dirs = append(dirs, filepath.Join(env.Home, ".local", "share", "applications"))
	}

	for _, dir := range env.dataDirs() {
		dirs = append(dirs, filepath.Join(dir, "applications"))
	}

	dirs = append(dirs, filepath.Join(env.flatpakExportDir(), "applications"))
	if env.Home != "" {
		dirs = append(dirs, filepath.Join(env.Home, ".local", "share", "flatpak", "exports", "share", "applications"))
	}

	return dirs
}

// gtkSettingsFiles returns the GTK configuration files consulted for the icon theme.
func gtkSettingsFiles(home string) []string {
	if home == "" {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", "gtk-3.0", "settings.ini"),
		filepath.Join(home, ".config", "gtk-4.0", "settings.ini"),
		filepath.Join(home, ".gtkrc-2.0"),
	}
}
