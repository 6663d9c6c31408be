package notify

import "github.com/gen2brain/beeep"

// appName is reported to the notification server as the sender.
const appName = "hypricons"

// fallbackIcon is a freedesktop icon name used when a message has no icon file.
const fallbackIcon = "application-x-executable"

// Message is a single desktop notification.
type Message struct {
	Title string
	Body  string
	// Icon is an icon file path or a themed icon name.
	Icon string
	// Urgent messages are sent as alerts with critical urgency.
	Urgent bool
}

// icon returns the icon handed to the notification server.
func (m Message) icon() string {
	if m.Icon == "" {
		return fallbackIcon
	}
	return m.Icon
}

// Backend delivers messages to the notification server.
type Backend interface {
	Send(m Message) error
}

// desktopBackend sends messages through beeep (notify-send or the
// org.freedesktop.Notifications bus service).
type desktopBackend struct{}

func (desktopBackend) Send(m Message) error {
	beeep.AppName = appName
	if m.Urgent {
		return beeep.Alert(m.Title, m.Body, m.icon())
	}
	return beeep.Notify(m.Title, m.Body, m.icon())
}
