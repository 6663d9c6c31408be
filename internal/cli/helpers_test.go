package cli

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"

	"github.com/purple-lines/hypricons/internal/config"
	"github.com/purple-lines/hypricons/internal/iconlookup"
)

// testCLI is a CLI rooted in a temp dir with its output captured.
type testCLI struct {
	*CLI
	out  *bytes.Buffer
	home string
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(home, "run"))
	t.Setenv(config.ConfigDirEnv, filepath.Join(home, ".config", "hypricons"))
	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "")

	out := &bytes.Buffer{}
	c := New()
	c.env = iconlookup.Environment{
		Home:             home,
		DataDirs:         []string{},
		PixmapsDir:       filepath.Join(home, "pixmaps"),
		FlatpakExportDir: filepath.Join(home, "flatpak"),
	}
	c.settings = nil
	c.out = out
	return &testCLI{CLI: c, out: out, home: home}
}

func (tc *testCLI) run(args ...string) error {
	tc.rootCmd.SetArgs(args)
	tc.rootCmd.SetOut(tc.out)
	tc.rootCmd.SetErr(tc.out)
	return tc.Execute(context.Background())
}

// writeIcon draws a filled square PNG at path.
func writeIcon(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	dc := gg.NewContext(size, size)
	dc.SetColor(color.RGBA{R: 0x20, G: 0x80, B: 0xe0, A: 0xff})
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()
	if err := dc.SavePNG(path); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

// installApp writes a hicolor icon and a desktop entry mapping class to it.
func (tc *testCLI) installApp(t *testing.T, basename, class, icon string) string {
	t.Helper()
	iconPath := filepath.Join(tc.home, ".local", "share", "icons", "hicolor", "48x48", "apps", icon+".png")
	writeIcon(t, iconPath, 48)
	writeFile(t, filepath.Join(tc.home, ".local", "share", "applications", basename+".desktop"),
		"[Desktop Entry]\nType=Application\nName="+basename+"\nIcon="+icon+"\nStartupWMClass="+class+"\n")
	return iconPath
}
