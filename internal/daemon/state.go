package daemon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/purple-lines/hypricons/internal/config"
	"github.com/purple-lines/hypricons/internal/hyprland"
	"github.com/purple-lines/hypricons/internal/iconlookup"
	"github.com/purple-lines/hypricons/internal/overlay"
	"github.com/purple-lines/hypricons/internal/render"
)

// State is everything the daemon holds while attached to a compositor.
// It is created by activation and torn down on exit.
type State struct {
	cfg        *config.Config
	resolver   *iconlookup.Resolver
	engine     *overlay.Engine
	compositor *render.Compositor
	sink       render.FrameSink

	// monitors is the last monitor list the compositor reported.
	monitors []hyprland.Monitor
	timer    *time.Timer
}

// surfaces returns the cached monitors as overlay surfaces.
func (s *State) surfaces() []overlay.Surface {
	out := make([]overlay.Surface, len(s.monitors))
	for i, m := range s.monitors {
		out[i] = m
	}
	return out
}

// activate checks the compositor version and builds the State.
func (d *Daemon) activate(ctx context.Context) error {
	info, err := d.host.Version(ctx)
	if err == nil {
		err = hyprland.CheckVersion(info.Tag, hyprland.MinimumVersion)
	}
	if err != nil {
		if notifyErr := d.notifier.NotifyFailure(err); notifyErr != nil {
			d.logger.Debug("failed to send notification", "error", notifyErr)
		}
		return fmt.Errorf("failed to initialize: %w", err)
	}
	d.logger.Info("attached to compositor", "version", info.Tag, "commit", info.Commit)

	sink := d.sink
	if sink == nil {
		sink = render.DiscardSink{}
		if dir := d.config.Daemon.FramesDir; dir != "" {
			dirSink, err := render.NewDirSink(dir)
			if err != nil {
				return err
			}
			sink = dirSink
			d.logger.Info("writing frames", "dir", dir)
		}
	}

	resolver := iconlookup.New(ctx, d.env, iconlookup.WithSettingsSource(d.settings))
	compositor := render.NewCompositor()
	engine := overlay.NewEngine(resolver, d.decoder, compositor)
	if err := engine.SetSettings(OverlaySettings(d.config)); err != nil {
		return fmt.Errorf("invalid overlay settings: %w", err)
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()

	d.state = &State{
		cfg:        d.config,
		resolver:   resolver,
		engine:     engine,
		compositor: compositor,
		sink:       sink,
		timer:      timer,
	}
	d.updateMonitors(ctx)

	report := resolver.LastScan()
	d.logger.Info("icon index built",
		"theme", resolver.Theme(),
		"theme_source", string(resolver.ThemeSource()),
		"entries", resolver.IndexSize(),
		"skipped", report.Skipped())
	if d.healthServer != nil {
		d.healthServer.RecordIndex(resolver.IndexSize(), resolver.Theme())
	}

	if err := d.notifier.NotifyStarted(resolver.Theme(), resolver.IndexSize()); err != nil {
		d.logger.Debug("failed to send notification", "error", err)
	}
	return nil
}

// deactivate stops the timer and releases every overlay.
func (d *Daemon) deactivate() {
	if d.state == nil {
		return
	}
	d.state.timer.Stop()
	d.state.engine.Close()
	d.state = nil
}

// updateMonitors refreshes the monitor cache. On failure the previous list is kept.
func (d *Daemon) updateMonitors(ctx context.Context) []hyprland.Monitor {
	monitors, err := d.host.Monitors(ctx)
	if err != nil {
		d.logger.Warn("failed to query monitors", "error", err)
		return d.state.monitors
	}
	d.state.monitors = monitors
	return monitors
}

// openWindow spawns an overlay for a newly opened window.
func (d *Daemon) openWindow(ctx context.Context, data string) {
	if !d.state.cfg.Enabled {
		return
	}

	ow, err := hyprland.ParseOpenWindow(data)
	if err != nil {
		d.logger.Debug("ignoring event", "error", err)
		return
	}

	w, found, err := d.host.Window(ctx, ow.Address)
	if err != nil {
		d.logger.Debug("window lookup failed", "address", ow.Address, "error", err)
		found = false
	}

	id := hyprland.Identifier(ow, w)
	if id == "" {
		d.logger.Debug("window has neither class nor title", "address", ow.Address)
		return
	}

	monitor, ok := hyprland.PickMonitor(d.updateMonitors(ctx), w, found)
	if !ok {
		d.logger.Debug("no monitor for window", "class", id)
		return
	}

	h, err := d.state.engine.Spawn(id, monitor, d.now())
	switch {
	case err == nil:
	case errors.Is(err, overlay.ErrIgnored):
		d.logger.Debug("class ignored", "class", id)
		return
	case errors.Is(err, overlay.ErrIconNotFound):
		d.logger.Debug("no icon for window", "class", id)
		if d.healthServer != nil {
			d.healthServer.RecordMiss()
		}
		return
	default:
		d.logger.Warn("failed to create overlay", "class", id, "error", err)
		if d.healthServer != nil {
			d.healthServer.RecordDecodeFailure()
		}
		return
	}

	o, _ := d.state.engine.Overlay(h)
	d.logger.Debug("overlay shown", "class", id, "icon", o.IconPath, "monitor", monitor.Name)
	if d.healthServer != nil {
		d.healthServer.RecordOverlay()
	}
	if err := d.notifier.NotifyOverlay(id, o.IconPath); err != nil {
		d.logger.Debug("failed to send notification", "error", err)
	}

	d.state.timer.Reset(overlay.FirstTickDelay)
}

// tick advances the animations, redraws while any overlay is active and
// re-arms the timer only in that case.
func (d *Daemon) tick() {
	res := d.state.engine.Tick(d.now())
	if d.healthServer != nil {
		d.healthServer.RecordActive(res.Active)
	}
	if res.Pruned > 0 {
		d.logger.Debug("overlays finished", "count", res.Pruned, "active", res.Active)
	}
	if !res.Redraw() {
		return
	}

	d.redraw()
	d.state.timer.Reset(overlay.TickInterval(d.state.surfaces()))
}

// redraw renders every monitor and hands the frames to the sink.
func (d *Daemon) redraw() {
	for _, m := range d.state.monitors {
		frame, err := d.state.compositor.RenderFrame(m, d.state.engine)
		if err != nil {
			d.logger.Warn("failed to render frame", "monitor", m.Name, "error", err)
			if d.healthServer != nil {
				d.healthServer.RecordError()
			}
			continue
		}
		if err := d.state.sink.Present(m.ID(), frame); err != nil {
			d.logger.Warn("failed to present frame", "monitor", m.Name, "error", err)
			if d.healthServer != nil {
				d.healthServer.RecordError()
			}
		}
	}
}
