package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckResultJSON(t *testing.T) {
	data, err := json.Marshal(CheckResult{Name: "Icon theme", Status: CheckWarning, Message: "hicolor fallback"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"name":"Icon theme","status":"warn","message":"hicolor fallback"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	for _, s := range []CheckStatus{CheckOK, CheckWarning, CheckError, CheckSkipped} {
		if checkMarks[s] == "" {
			t.Errorf("no mark for %q", s)
		}
	}
}

func TestCheckConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    CheckStatus
	}{
		{name: "missing uses defaults", want: CheckOK},
		{name: "valid", content: "icon_size: 64\n", want: CheckOK},
		{name: "invalid", content: "icon_size: 0\n", want: CheckError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestCLI(t)
			path := filepath.Join(tc.home, "hypricons.yaml")
			if tt.content != "" {
				writeFile(t, path, tt.content)
			}
			if err := tc.run("--config", path, "config", "path"); err != nil {
				t.Fatalf("initialize error = %v", err)
			}

			if got := tc.checkConfigFile(); got.Status != tt.want {
				t.Errorf("checkConfigFile() = %+v, want %s", got, tt.want)
			}
		})
	}
}

func TestCheckCompositor_NoSession(t *testing.T) {
	tc := newTestCLI(t)

	results := tc.checkCompositor(context.Background())
	if len(results) != 2 {
		t.Fatalf("checkCompositor() returned %d results, want 2", len(results))
	}
	if results[0].Status != CheckError || results[1].Status != CheckSkipped {
		t.Errorf("statuses = %s/%s, want ERROR/SKIP", results[0].Status, results[1].Status)
	}
}

func TestCheckIconThemeAndEntries(t *testing.T) {
	tc := newTestCLI(t)
	r := tc.newResolver(context.Background())

	if got := tc.checkIconTheme(r); got.Status != CheckWarning {
		t.Errorf("checkIconTheme() without theme = %s, want WARN", got.Status)
	}
	if got := tc.checkDesktopEntries(r); got.Status != CheckWarning {
		t.Errorf("checkDesktopEntries() without entries = %s, want WARN", got.Status)
	}

	tc.installApp(t, "org.example.Viewer", "ViewerWindow", "viewer-icon")
	writeFile(t, filepath.Join(tc.home, ".gtkrc-2.0"), "gtk-icon-theme-name = \"Adwaita\"\n")
	r = tc.newResolver(context.Background())

	got := tc.checkIconTheme(r)
	if got.Status != CheckOK || !strings.Contains(got.Message, "Adwaita") {
		t.Errorf("checkIconTheme() = %+v, want Adwaita OK", got)
	}
	got = tc.checkDesktopEntries(r)
	if got.Status != CheckOK || !strings.HasPrefix(got.Message, "1 indexed") {
		t.Errorf("checkDesktopEntries() = %+v, want one indexed entry", got)
	}
}

func TestDoctorCmd(t *testing.T) {
	tc := newTestCLI(t)

	err := tc.run("-o", "json", "doctor")
	if err == nil || err.Error() != "diagnostics failed" {
		t.Fatalf("doctor error = %v, want diagnostics failed without a compositor", err)
	}

	var got DoctorOutput
	if err := json.Unmarshal(tc.out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if got.Errors == 0 || got.Warnings == 0 {
		t.Errorf("errors/warnings = %d/%d, want both non-zero", got.Errors, got.Warnings)
	}

	names := make([]string, 0, len(got.Checks))
	for _, c := range got.Checks {
		names = append(names, c.Name)
	}
	want := "Configuration file,Hyprland socket,Hyprland version,Icon theme,Desktop entries,Daemon,User service"
	if strings.Join(names, ",") != want {
		t.Errorf("checks = %v, want %s", names, want)
	}
}

func TestDoctorCmdText(t *testing.T) {
	tc := newTestCLI(t)

	_ = tc.run("doctor", "--fix")
	out := tc.out.String()
	for _, want := range []string{"[XX] Hyprland socket", "[--] User service", "error(s)", "-> "} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckUserServiceNotInstalled(t *testing.T) {
	tc := newTestCLI(t)
	if err := tc.run("config", "path"); err != nil {
		t.Fatalf("initialize error = %v", err)
	}

	got := tc.checkUserService()
	if got.Status != CheckSkipped {
		t.Errorf("checkUserService() = %+v, want skip", got)
	}
}
