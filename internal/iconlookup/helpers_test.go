package iconlookup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// stubSettings is a SettingsSource returning a fixed theme or error.
type stubSettings struct {
	theme string
	err   error
	calls int
}

func (s *stubSettings) IconTheme(ctx context.Context) (string, error) {
	s.calls++
	return s.theme, s.err
}

var errNoBus = errors.New("no session bus")

// testEnv returns an Environment rooted entirely under a temp dir.
func testEnv(t *testing.T) Environment {
	t.Helper()
	root := t.TempDir()
	return Environment{
		Home:             filepath.Join(root, "home"),
		DataDirs:         []string{filepath.Join(root, "share")},
		PixmapsDir:       filepath.Join(root, "pixmaps"),
		FlatpakExportDir: filepath.Join(root, "flatpak"),
	}
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func writeDesktop(t *testing.T, dir, name, content string) string {
	t.Helper()
	return writeFile(t, filepath.Join(dir, name), content)
}

// systemIcons returns <datadir>/icons for the first data dir of env.
func systemIcons(env Environment) string {
	return filepath.Join(env.DataDirs[0], "icons")
}

func systemApps(env Environment) string {
	return filepath.Join(env.DataDirs[0], "applications")
}
