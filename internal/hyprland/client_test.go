package hyprland

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSocketDir(t *testing.T) {
	runtime := t.TempDir()
	if err := os.MkdirAll(filepath.Join(runtime, "hypr", "sig1"), 0700); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		runtime   string
		signature string
		want      string
		wantErr   error
	}{
		{"runtime dir", runtime, "sig1", filepath.Join(runtime, "hypr", "sig1"), nil},
		{"legacy fallback", runtime, "sig2", "/tmp/hypr/sig2", nil},
		{"no runtime dir", "", "sig1", "/tmp/hypr/sig1", nil},
		{"no signature", runtime, "", "", ErrNotRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SocketDir(tt.runtime, tt.signature)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SocketDir() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SocketDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewClientFromEnvNotRunning(t *testing.T) {
	t.Setenv(SignatureEnv, "")
	if _, err := NewClientFromEnv(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("NewClientFromEnv() error = %v, want ErrNotRunning", err)
	}
}

func TestClientMonitors(t *testing.T) {
	f := newFakeHyprland(t, defaultReplies())

	monitors, err := f.client().Monitors(context.Background())
	if err != nil {
		t.Fatalf("Monitors() error = %v", err)
	}
	if len(monitors) != 2 {
		t.Fatalf("Monitors() = %d, want 2", len(monitors))
	}

	dp := monitors[0]
	if dp.ID() != "DP-1" || dp.RefreshRate() != 143.99 || dp.Focused {
		t.Errorf("monitor[0] = %+v", dp)
	}
	if w, h := dp.Size(); w != 2048 || h != 1152 {
		t.Errorf("DP-1 Size() = %vx%v, want 2048x1152", w, h)
	}

	hdmi := monitors[1]
	if w, h := hdmi.Size(); w != 1080 || h != 1920 {
		t.Errorf("rotated Size() = %vx%v, want 1080x1920", w, h)
	}
	if !hdmi.Focused {
		t.Error("HDMI-A-1 should be focused")
	}
}

func TestClientWindow(t *testing.T) {
	f := newFakeHyprland(t, defaultReplies())
	c := f.client()

	w, ok, err := c.Window(context.Background(), "55d0a1b2c3e0")
	if err != nil {
		t.Fatalf("Window() error = %v", err)
	}
	if !ok {
		t.Fatal("Window() not found")
	}
	if w.InitialClass != "steam_app_1" || w.Title != "Game, The" || w.MonitorID != 1 {
		t.Errorf("Window() = %+v", w)
	}

	if _, ok, err := c.Window(context.Background(), "0xdeadbeef"); err != nil || ok {
		t.Errorf("Window(unknown) = %v, %v", ok, err)
	}
}

func TestClientVersion(t *testing.T) {
	f := newFakeHyprland(t, defaultReplies())

	v, err := f.client().Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if v.Tag != "v0.45.2" || v.Commit != "abc123" || v.Branch != "main" {
		t.Errorf("Version() = %+v", v)
	}
}

func TestClientInvalidReply(t *testing.T) {
	f := newFakeHyprland(t, map[string]string{})

	if _, err := f.client().Monitors(context.Background()); err == nil {
		t.Error("Monitors() should fail on a non-JSON reply")
	}
}

func TestClientNotRunning(t *testing.T) {
	c := NewClient(shortTempDir(t))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := c.Request(ctx, "j/version"); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Request() error = %v, want ErrNotRunning", err)
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		tag     string
		wantErr bool
	}{
		{"v0.45.2", false},
		{"0.40.0", false},
		{"v0.41.0-12-gabcdef0", false},
		{"v0.39.1", true},
		{"", true},
		{"garbage", true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			err := CheckVersion(tt.tag, MinimumVersion)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckVersion(%q) error = %v, wantErr %v", tt.tag, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrVersionMismatch) {
				t.Errorf("CheckVersion(%q) error = %v, want ErrVersionMismatch", tt.tag, err)
			}
		})
	}
}
