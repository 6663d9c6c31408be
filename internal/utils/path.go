package utils

import (
	"path/filepath"
	"strings"
)

// ShortenHome replaces a leading home directory in path with "~".
func ShortenHome(path, home string) string {
	if home == "" || home == "/" {
		return path
	}
	home = filepath.Clean(home)
	if path == home {
		return "~"
	}
	if rest, ok := strings.CutPrefix(path, home+string(filepath.Separator)); ok {
		return filepath.Join("~", rest)
	}
	return path
}
