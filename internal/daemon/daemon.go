// Package daemon provides the background overlay service.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/purple-lines/hypricons/internal/config"
	"github.com/purple-lines/hypricons/internal/hyprland"
	"github.com/purple-lines/hypricons/internal/iconlookup"
	"github.com/purple-lines/hypricons/internal/notify"
	"github.com/purple-lines/hypricons/internal/overlay"
	"github.com/purple-lines/hypricons/internal/render"
)

// pidFileName is the PID file name inside the runtime directory.
const pidFileName = "hypricons.pid"

// Host is the compositor connection the daemon is driven by.
// *hyprland.Client implements it.
type Host interface {
	Version(ctx context.Context) (hyprland.VersionInfo, error)
	Monitors(ctx context.Context) ([]hyprland.Monitor, error)
	Window(ctx context.Context, address string) (hyprland.Window, bool, error)
	Events(ctx context.Context, out chan<- hyprland.Event) error
}

// Daemon shows an icon overlay for every window the compositor opens.
type Daemon struct {
	config       *config.Config
	configPath   string // Path to the config file for reloading
	host         Host
	logger       *Logger
	healthServer *HealthServer
	notifier     notify.Notifier

	env      iconlookup.Environment
	settings iconlookup.SettingsSource
	decoder  overlay.Decoder
	sink     render.FrameSink
	now      func() time.Time

	// state is owned by the Run goroutine.
	state *State

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
}

// New creates a new Daemon instance.
func New(cfg *config.Config, host Host) *Daemon {
	logger, _ := NewLogger(LoggerConfig{Level: slog.LevelInfo})

	configPath := cfg.FilePath()
	if configPath == "" {
		configPath = config.GetPaths().ConfigFile
	}

	return &Daemon{
		config:     cfg,
		configPath: configPath,
		host:       host,
		logger:     logger,
		notifier:   notify.New(cfg.Daemon.Notifications),
		env:        iconlookup.EnvironmentFromOS(),
		settings:   iconlookup.NewPortalSettings(),
		decoder:    overlay.FileDecoder{},
		now:        time.Now,
	}
}

// SetLogger sets a custom logger for the daemon.
func (d *Daemon) SetLogger(logger *Logger) {
	d.logger = logger
}

// SetHealthServer sets a health server for the daemon.
func (d *Daemon) SetHealthServer(server *HealthServer) {
	d.healthServer = server
	server.SetLogger(d.logger)
}

// SetNotifier replaces the notifier built from the config.
func (d *Daemon) SetNotifier(n notify.Notifier) {
	d.notifier = n
}

// SetFrameSink sets where rendered frames go. Without one, frames are
// written to the configured frames directory or discarded.
func (d *Daemon) SetFrameSink(sink render.FrameSink) {
	d.sink = sink
}

// SetEnvironment overrides the process environment used for icon lookup.
func (d *Daemon) SetEnvironment(env iconlookup.Environment) {
	d.env = env
}

// SetSettingsSource overrides the desktop settings source. Nil disables it.
func (d *Daemon) SetSettingsSource(src iconlookup.SettingsSource) {
	d.settings = src
}

// Run activates against the compositor and blocks until it's stopped.
func (d *Daemon) Run(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return errors.New("daemon is already running")
	}
	d.running = true
	d.stopChan = make(chan struct{})
	stop := d.stopChan
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.running = false
		d.mu.Unlock()
	}()

	// Check if another instance is already running
	if IsRunningFromPID(d.config) {
		return fmt.Errorf("daemon is already running (another instance detected)")
	}

	// Write PID file for daemon tracking (with file locking to prevent race conditions)
	if err := d.writePIDFile(); err != nil {
		return fmt.Errorf("failed to acquire daemon lock (another instance may be starting): %w", err)
	}
	defer d.removePIDFile()

	defer func() {
		if err := d.logger.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close logger: %v\n", err)
		}
	}()

	if err := d.activate(ctx); err != nil {
		d.logger.Error("activation failed", "error", err)
		return err
	}
	defer d.deactivate()

	if d.healthServer != nil {
		if err := d.healthServer.Start(); err != nil {
			d.logger.Warn("failed to start health server", "error", err)
		} else {
			d.logger.Info("health server started", "addr", d.healthServer.Addr())
			defer func() {
				if err := d.healthServer.Stop(); err != nil {
					d.logger.Warn("failed to stop health server", "error", err)
				}
			}()
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	return d.loop(ctx, stop, sigChan)
}

// loop is the single goroutine that touches the engine, resolver and compositor.
func (d *Daemon) loop(ctx context.Context, stop <-chan struct{}, sigChan <-chan os.Signal) error {
	eventCtx, cancelEvents := context.WithCancel(ctx)
	defer cancelEvents()

	events := make(chan hyprland.Event, 16)
	eventErr := make(chan error, 1)
	go func() {
		eventErr <- d.host.Events(eventCtx, events)
	}()

	timer := d.state.timer
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("context canceled, shutting down")
			return ctx.Err()
		case <-stop:
			d.logger.Info("stop signal received, shutting down")
			return nil
		case sig := <-sigChan:
			if sig == syscall.SIGHUP {
				d.logger.Info("received SIGHUP, reloading")
				d.reload(ctx)
				continue
			}
			d.logger.Info("received signal, shutting down", "signal", sig.String())
			return nil
		case err := <-eventErr:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.healthServer != nil {
				d.healthServer.RecordError()
			}
			return fmt.Errorf("lost compositor event stream: %w", err)
		case ev := <-events:
			d.handleEvent(ctx, ev)
		case <-timer.C:
			d.tick()
		}
	}
}

// handleEvent dispatches one compositor event.
func (d *Daemon) handleEvent(ctx context.Context, ev hyprland.Event) {
	switch ev.Name {
	case hyprland.EventOpenWindow:
		d.openWindow(ctx, ev.Data)
	case hyprland.EventConfigReloaded:
		d.logger.Debug("compositor config reloaded")
		d.reload(ctx)
	}
}

// Stop signals the daemon to stop.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running || d.stopChan == nil {
		return
	}
	select {
	case <-d.stopChan:
	default:
		close(d.stopChan)
	}
}

// IsRunning returns whether the daemon is running.
func (d *Daemon) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// reloadConfig reloads the configuration from disk.
// Returns the loaded config or the previous config if reload fails.
func (d *Daemon) reloadConfig() *config.Config {
	newCfg, err := config.LoadFrom(d.configPath)
	if err != nil {
		d.logger.Warn("failed to reload config, using previous config", "path", d.configPath, "error", err)
		return d.config
	}

	if newCfg.Daemon.Notifications != d.config.Daemon.Notifications {
		d.notifier = notify.New(newCfg.Daemon.Notifications)
		d.logger.Debug("notification settings updated")
	}
	if newCfg.Daemon.LogLevel != d.config.Daemon.LogLevel {
		if level, err := ParseLogLevel(newCfg.Daemon.LogLevel); err == nil {
			d.logger.SetLevel(level)
			d.logger.Info("log level changed", "level", level)
		}
	}
	if newCfg.Enabled != d.config.Enabled {
		d.logger.Info("overlays toggled", "enabled", newCfg.Enabled)
	}

	d.config = newCfg
	return newCfg
}

// reload re-reads the config, applies it to the engine and rescans icons.
func (d *Daemon) reload(ctx context.Context) {
	cfg := d.reloadConfig()
	if err := d.state.engine.SetSettings(OverlaySettings(cfg)); err != nil {
		d.logger.Warn("keeping previous overlay settings", "error", err)
	}
	d.state.cfg = cfg
	d.refreshIcons(ctx)
}

// refreshIcons rebuilds the resolver cache and reports the result.
func (d *Daemon) refreshIcons(ctx context.Context) {
	r := d.state.resolver
	r.RefreshCache(ctx)

	report := r.LastScan()
	d.logger.Info("icon index rebuilt",
		"theme", r.Theme(),
		"theme_source", string(r.ThemeSource()),
		"entries", r.IndexSize(),
		"skipped", report.Skipped())
	if err := report.Err(); err != nil {
		d.logger.Debug("desktop entries skipped", "error", err)
	}
	if d.healthServer != nil {
		d.healthServer.RecordIndex(r.IndexSize(), r.Theme())
	}
}

// OverlaySettings converts the config into engine settings.
func OverlaySettings(cfg *config.Config) overlay.Settings {
	return overlay.Settings{
		IconSize: cfg.IconSize,
		Timing: overlay.Timing{
			FadeIn:  cfg.FadeIn(),
			Hold:    cfg.Hold(),
			FadeOut: cfg.FadeOut(),
		},
		IgnoreClasses: cfg.IgnoreClasses,
	}
}

// pidFilePath returns the configured PID file or the default one.
func pidFilePath(cfg *config.Config) string {
	if cfg.Daemon.PIDFile != "" {
		return cfg.Daemon.PIDFile
	}
	return filepath.Join(config.GetPaths().RuntimeDir, pidFileName)
}

// writePIDFile writes the current process ID to the configured PID file.
// It uses exclusive file creation to prevent multiple instances from starting simultaneously.
func (d *Daemon) writePIDFile() error {
	pidFile := pidFilePath(d.config)

	if err := os.MkdirAll(filepath.Dir(pidFile), 0700); err != nil {
		return err
	}

	// Retry logic: try up to 3 times to handle race conditions
	const maxRetries = 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		// #nosec G304 - pidFile is from config paths (controlled)
		file, err := os.OpenFile(pidFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err != nil {
			if !os.IsExist(err) {
				return fmt.Errorf("failed to create PID file: %w", err)
			}

			existingPID, readErr := GetPID(d.config)
			if readErr != nil {
				// PID file exists but can't read it - remove and retry
				_ = os.Remove(pidFile)
				continue
			}

			if IsRunningFromPID(d.config) {
				return fmt.Errorf("daemon is already running (PID: %d)", existingPID)
			}

			// Process is not running - remove stale PID file and retry
			_ = os.Remove(pidFile)
			continue
		}

		defer file.Close()

		if _, err := file.WriteString(strconv.Itoa(os.Getpid())); err != nil {
			_ = os.Remove(pidFile)
			return fmt.Errorf("failed to write PID: %w", err)
		}
		if err := file.Sync(); err != nil {
			_ = os.Remove(pidFile)
			return fmt.Errorf("failed to sync PID file: %w", err)
		}
		return nil
	}

	return fmt.Errorf("failed to acquire daemon lock after %d attempts", maxRetries)
}

// removePIDFile removes the PID file.
func (d *Daemon) removePIDFile() {
	_ = os.Remove(pidFilePath(d.config))
}

// GetPID reads the PID from the PID file, if it exists.
func GetPID(cfg *config.Config) (int, error) {
	// #nosec G304 - pidFile is from config paths (controlled)
	data, err := os.ReadFile(pidFilePath(cfg))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// IsRunningFromPID checks if a daemon is running based on the PID file.
func IsRunningFromPID(cfg *config.Config) bool {
	pid, err := GetPID(cfg)
	if err != nil {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix, FindProcess always succeeds. Send signal 0 to check if process exists.
	return process.Signal(syscall.Signal(0)) == nil
}
