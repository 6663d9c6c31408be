package daemon

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// maxRotatedLogs is how many numbered backups (daemon.log.1 ...) are kept.
const maxRotatedLogs = 5

// ParseLogLevel parses debug, info, warn (or warning) and error in any case.
// An empty string means info.
func ParseLogLevel(s string) (slog.Level, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return slog.LevelInfo, nil
	case strings.EqualFold(s, "warning"):
		return slog.LevelWarn, nil
	}

	var lv slog.Level
	if err := lv.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: want debug, info, warn or error", s)
	}
	return lv, nil
}

// Logger is the daemon's slog logger with an adjustable level.
type Logger struct {
	*slog.Logger

	level *slog.LevelVar
	file  *logFile
}

// LoggerConfig configures the logger.
type LoggerConfig struct {
	Level    slog.Level
	FilePath string
	JSONMode bool
	// MaxSize rotates the log file once it would grow past this many bytes.
	// Zero disables rotation.
	MaxSize int64
}

// NewLogger creates a Logger writing to FilePath, or stderr when empty.
// Text output is colored only when stderr is a terminal.
func NewLogger(cfg LoggerConfig) (*Logger, error) {
	if cfg.FilePath == "" {
		return newLogger(os.Stderr, cfg.Level, cfg.JSONMode), nil
	}

	f, err := openLogFile(cfg.FilePath, cfg.MaxSize)
	if err != nil {
		return nil, err
	}
	l := newLogger(f, cfg.Level, cfg.JSONMode)
	l.file = f
	return l, nil
}

func newLogger(w io.Writer, level slog.Level, jsonMode bool) *Logger {
	lv := new(slog.LevelVar)
	lv.Set(level)

	var h slog.Handler
	if jsonMode {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lv})
	} else {
		h = tint.NewHandler(w, &tint.Options{
			Level:      lv,
			TimeFormat: time.DateTime,
			NoColor:    !isTerminal(w),
		})
	}
	return &Logger{Logger: slog.New(h), level: lv}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Level returns the current minimum level.
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// SetLevel changes the minimum level of l and every logger derived from it.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// logFile appends to path. Once a write would take it past maxSize the file
// is shifted to path.1, older backups move up one number and the oldest
// beyond maxRotatedLogs is overwritten.
type logFile struct {
	mu      sync.Mutex
	path    string
	maxSize int64
	f       *os.File
	size    int64
}

func openLogFile(path string, maxSize int64) (*logFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	lf := &logFile{path: path, maxSize: maxSize}
	if err := lf.open(); err != nil {
		return nil, err
	}
	return lf, nil
}

func (lf *logFile) open() error {
	f, err := os.OpenFile(lf.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	lf.f, lf.size = f, info.Size()
	return nil
}

func (lf *logFile) Write(p []byte) (int, error) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.f == nil {
		return 0, os.ErrClosed
	}
	if lf.maxSize > 0 && lf.size > 0 && lf.size+int64(len(p)) > lf.maxSize {
		if err := lf.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := lf.f.Write(p)
	lf.size += int64(n)
	return n, err
}

func (lf *logFile) rotate() error {
	err := lf.f.Close()
	lf.f = nil
	if err != nil {
		return err
	}

	for i := maxRotatedLogs - 1; i >= 1; i-- {
		_ = os.Rename(backupName(lf.path, i), backupName(lf.path, i+1))
	}
	_ = os.Rename(lf.path, backupName(lf.path, 1))
	return lf.open()
}

func backupName(path string, n int) string {
	return fmt.Sprintf("%s.%d", path, n)
}

func (lf *logFile) Close() error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.f == nil {
		return nil
	}
	err := lf.f.Close()
	lf.f = nil
	return err
}
