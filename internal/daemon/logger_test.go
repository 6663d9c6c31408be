package daemon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func bufferLogger(buf *bytes.Buffer, level slog.Level, jsonMode bool) *Logger {
	return newLogger(buf, level, jsonMode)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "", want: slog.LevelInfo},
		{input: "debug", want: slog.LevelDebug},
		{input: "DEBUG", want: slog.LevelDebug},
		{input: " info ", want: slog.LevelInfo},
		{input: "Warning", want: slog.LevelWarn},
		{input: "warn", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "trace", want: slog.LevelInfo, wantErr: true},
		{input: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoggerFormats(t *testing.T) {
	var text bytes.Buffer
	bufferLogger(&text, slog.LevelDebug, false).Info("overlay spawned", "class", "kitty")
	if out := text.String(); !strings.Contains(out, "INF") || !strings.Contains(out, "overlay spawned") ||
		!strings.Contains(out, "class=kitty") || strings.Contains(out, "\x1b[") {
		t.Errorf("text output = %q, want uncolored tint line", out)
	}

	var js bytes.Buffer
	bufferLogger(&js, slog.LevelDebug, true).Warn("icon not found", "class", "ghost")
	var entry struct {
		Level string `json:"level"`
		Msg   string `json:"msg"`
		Class string `json:"class"`
	}
	if err := json.Unmarshal(js.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", js.String(), err)
	}
	if entry.Level != "WARN" || entry.Msg != "icon not found" || entry.Class != "ghost" {
		t.Errorf("JSON entry = %+v", entry)
	}
}

func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf, slog.LevelWarn, false)
	child := logger.With("component", "resolver")

	child.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info logged at WARN level: %q", buf.String())
	}

	logger.SetLevel(slog.LevelDebug)
	if logger.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v, want DEBUG", logger.Level())
	}
	child.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("derived loggers should follow SetLevel")
	}
}

func TestLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "daemon.log")

	logger, err := NewLogger(LoggerConfig{Level: slog.LevelInfo, FilePath: path})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Info("index rebuilt", "entries", 12)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "index rebuilt") {
		t.Errorf("log file = %q", data)
	}
	info, _ := os.Stat(path)
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("log file mode = %o, want 600", perm)
	}
	logger.Info("after close")
}

func TestLogFileRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.log")
	lf, err := openLogFile(path, 100)
	if err != nil {
		t.Fatalf("openLogFile() error = %v", err)
	}
	defer lf.Close()

	line := strings.Repeat("x", 39) + "\n"
	for i := 0; i < 30; i++ {
		if _, err := lf.Write([]byte(line)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size() > 100 {
		t.Errorf("current log size = %d, want <= 100", info.Size())
	}
	for n := 1; n <= maxRotatedLogs; n++ {
		if _, err := os.Stat(fmt.Sprintf("%s.%d", path, n)); err != nil {
			t.Errorf("backup %d missing: %v", n, err)
		}
	}
	if _, err := os.Stat(fmt.Sprintf("%s.%d", path, maxRotatedLogs+1)); !os.IsNotExist(err) {
		t.Errorf("backup %d should not exist", maxRotatedLogs+1)
	}
}

func TestLogFileWriteAfterClose(t *testing.T) {
	lf, err := openLogFile(filepath.Join(t.TempDir(), "daemon.log"), 0)
	if err != nil {
		t.Fatalf("openLogFile() error = %v", err)
	}
	_ = lf.Close()
	if _, err := lf.Write([]byte("late\n")); err == nil {
		t.Error("Write() after Close should fail")
	}
}

func TestIsTerminal(t *testing.T) {
	if isTerminal(&bytes.Buffer{}) {
		t.Error("buffers are not terminals")
	}
	f, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatalf("CreateTemp() error = %v", err)
	}
	defer f.Close()
	if isTerminal(f) {
		t.Error("regular files are not terminals")
	}
}
