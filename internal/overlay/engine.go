package overlay

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
)

const (
	// DefaultIconSize is the side of the square icons are fit into.
	DefaultIconSize = 128
	// FirstTickDelay is how soon the first tick follows a spawn.
	FirstTickDelay = time.Millisecond
	// FallbackTickInterval is used when no surface reports a refresh rate.
	FallbackTickInterval = 16 * time.Millisecond
)

var (
	// ErrIconNotFound is returned when the resolver has no icon for a class.
	ErrIconNotFound = errors.New("no icon found")
	// ErrIgnored is returned for classes matching an ignore pattern.
	ErrIgnored = errors.New("application class ignored")
	// ErrNoSurface is returned when spawning without a target surface.
	ErrNoSurface = errors.New("no target surface")
)

// Settings configures new overlays. Changes apply to the next spawn.
type Settings struct {
	IconSize int
	Timing   Timing
	// IgnoreClasses are glob patterns matched against lowercased classes.
	IgnoreClasses []string
}

// DefaultSettings returns the stock overlay settings.
func DefaultSettings() Settings {
	return Settings{
		IconSize: DefaultIconSize,
		Timing: Timing{
			FadeIn:  150 * time.Millisecond,
			Hold:    300 * time.Millisecond,
			FadeOut: 400 * time.Millisecond,
		},
	}
}

// Engine creates, animates and draws overlays. It is not safe for
// concurrent use; the host drives it from one goroutine.
type Engine struct {
	resolver Resolver
	decoder  Decoder
	uploader TextureUploader

	settings Settings
	ignore   []glob.Glob
	overlays *Collection
}

// NewEngine returns an engine with default settings.
func NewEngine(resolver Resolver, decoder Decoder, uploader TextureUploader) *Engine {
	return &Engine{
		resolver: resolver,
		decoder:  decoder,
		uploader: uploader,
		settings: DefaultSettings(),
		overlays: NewCollection(uploader),
	}
}

// SetSettings replaces the settings used for future overlays.
// Active overlays keep the timing they were created with.
func (e *Engine) SetSettings(s Settings) error {
	if s.IconSize <= 0 {
		return fmt.Errorf("invalid icon size %d", s.IconSize)
	}

	ignore := make([]glob.Glob, 0, len(s.IgnoreClasses))
	for _, pattern := range s.IgnoreClasses {
		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		ignore = append(ignore, g)
	}

	e.settings = s
	e.ignore = ignore
	return nil
}

// Settings returns the current settings.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Ignored reports whether appClass matches an ignore pattern.
func (e *Engine) Ignored(appClass string) bool {
	lower := strings.ToLower(appClass)
	for _, g := range e.ignore {
		if g.Match(lower) {
			return true
		}
	}
	return false
}

// Spawn resolves, decodes and uploads the icon for appClass and starts its
// animation on surface. On any error nothing is added to the engine.
func (e *Engine) Spawn(appClass string, surface Surface, now time.Time) (Handle, error) {
	if surface == nil {
		return Handle{}, ErrNoSurface
	}
	if e.Ignored(appClass) {
		return Handle{}, ErrIgnored
	}

	size := e.settings.IconSize
	path, ok := e.resolver.FindIconPath(appClass, size)
	if !ok {
		return Handle{}, fmt.Errorf("%w for %q", ErrIconNotFound, appClass)
	}

	buf, err := e.decoder.Decode(path, size)
	if err != nil {
		return Handle{}, fmt.Errorf("failed to decode icon: %w", err)
	}
	if buf.Empty() {
		return Handle{}, fmt.Errorf("failed to decode icon: %s: empty image", path)
	}
	if buf.Format == FormatBGRA {
		SwapRedBlue(&buf)
	}

	tex, err := e.uploader.Upload(buf)
	if err != nil {
		return Handle{}, fmt.Errorf("failed to upload icon: %w", err)
	}

	o := newOverlay(appClass, path, surface, tex, buf.Width, buf.Height, e.settings.Timing, now)
	h, err := e.overlays.Add(o)
	if err != nil {
		o.release(e.uploader)
		return Handle{}, err
	}
	return h, nil
}

// Overlay returns the overlay behind h while it is active.
func (e *Engine) Overlay(h Handle) (*Overlay, bool) {
	return e.overlays.Get(h)
}

// Active returns the number of active overlays.
func (e *Engine) Active() int {
	return e.overlays.Len()
}

// Tick advances all overlays and prunes finished ones. The host keeps
// redrawing and re-arming its timer only while the result asks for it.
func (e *Engine) Tick(now time.Time) TickResult {
	return e.overlays.Tick(now)
}

// Draw emits the overlays that target surface.
func (e *Engine) Draw(surface Surface, d QuadDrawer) error {
	var errs *multierror.Error
	e.overlays.Each(func(_ Handle, o *Overlay) {
		if o.surface.ID() != surface.ID() {
			return
		}
		if err := o.Draw(d); err != nil {
			errs = multierror.Append(errs, err)
		}
	})
	return errs.ErrorOrNil()
}

// Close releases every overlay and its texture.
func (e *Engine) Close() {
	e.overlays.Clear()
}

// TickInterval approximates one frame of the fastest surface.
func TickInterval(surfaces []Surface) time.Duration {
	var maxHz float64
	for _, s := range surfaces {
		if hz := s.RefreshRate(); hz > maxHz {
			maxHz = hz
		}
	}
	if maxHz <= 0 {
		return FallbackTickInterval
	}

	ms := int(1000 / maxHz)
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}
