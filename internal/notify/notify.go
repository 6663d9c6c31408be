// Package notify provides desktop notification support for hypricons.
package notify

import (
	"fmt"

	"github.com/purple-lines/hypricons/internal/config"
)

// Notifier defines the interface for sending desktop notifications.
type Notifier interface {
	// NotifyStarted reports that the daemon attached to the compositor.
	NotifyStarted(theme string, indexed int) error
	// NotifyFailure reports that initialization failed.
	NotifyFailure(err error) error
	// NotifyOverlay mirrors an overlay as a notification carrying the icon.
	NotifyOverlay(appClass, iconPath string) error
}

// Option configures a Notifier.
type Option func(*notifier)

// WithBackend sets a custom notification backend (for testing).
func WithBackend(backend Backend) Option {
	return func(n *notifier) {
		n.backend = backend
	}
}

// notifier sends desktop notifications using the system notification service.
type notifier struct {
	onStart   bool
	onFailure bool
	onOverlay bool
	backend   Backend
}

// NotifyStarted sends a notification after successful initialization.
func (n *notifier) NotifyStarted(theme string, indexed int) error {
	if !n.onStart {
		return nil
	}

	return n.backend.Send(Message{
		Title: "hypricons: Initialized",
		Body:  fmt.Sprintf("Icon theme '%s', %d application identifiers indexed.", theme, indexed),
	})
}

// NotifyFailure sends an alert about an initialization failure.
func (n *notifier) NotifyFailure(err error) error {
	if !n.onFailure {
		return nil
	}

	return n.backend.Send(Message{
		Title:  "hypricons: Failure in initialization",
		Body:   fmt.Sprintf("Error: %v", err),
		Urgent: true,
	})
}

// NotifyOverlay sends a notification for a window that got an overlay.
func (n *notifier) NotifyOverlay(appClass, iconPath string) error {
	if !n.onOverlay {
		return nil
	}

	return n.backend.Send(Message{
		Title: appClass,
		Body:  "Window opened",
		Icon:  iconPath,
	})
}

// New creates a new Notifier based on the configuration.
func New(cfg config.NotificationConfig, opts ...Option) Notifier {
	n := &notifier{
		onStart:   cfg.Enabled && cfg.OnStart,
		onFailure: cfg.Enabled && cfg.OnFailure,
		onOverlay: cfg.Enabled && cfg.OnOverlay,
		backend:   desktopBackend{},
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}
