package iconlookup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	portalDest      = "org.freedesktop.portal.Desktop"
	portalPath      = "/org/freedesktop/portal/desktop"
	portalReadOne   = "org.freedesktop.portal.Settings.ReadOne"
	portalRead      = "org.freedesktop.portal.Settings.Read"
	interfaceSchema = "org.gnome.desktop.interface"
	iconThemeKey    = "icon-theme"
)

// ErrSettingUnavailable is returned when the desktop setting cannot be read.
var ErrSettingUnavailable = errors.New("desktop setting unavailable")

// PortalSettings reads org.gnome.desktop.interface icon-theme through the
// XDG desktop portal on the session bus.
type PortalSettings struct {
	// Timeout bounds each bus call.
	Timeout time.Duration
}

// NewPortalSettings returns a portal-backed SettingsSource.
func NewPortalSettings() *PortalSettings {
	return &PortalSettings{Timeout: 500 * time.Millisecond}
}

// dialSessionBus opens a private connection to an already running session
// bus. Unlike dbus.SessionBus it never falls back to dbus-launch, so running
// the CLI outside a desktop session cannot leave a stray bus daemon behind.
func dialSessionBus() (*dbus.Conn, error) {
	conn, err := dbus.SessionBusPrivateNoAutoStartup()
	if err != nil {
		return nil, err
	}
	if err := conn.Auth(nil); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := conn.Hello(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// IconTheme implements SettingsSource.
func (p *PortalSettings) IconTheme(ctx context.Context) (string, error) {
	conn, err := dialSessionBus()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSettingUnavailable, err)
	}
	defer conn.Close()

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	obj := conn.Object(portalDest, dbus.ObjectPath(portalPath))

	var value dbus.Variant
	call := obj.CallWithContext(ctx, portalReadOne, 0, interfaceSchema, iconThemeKey)
	if call.Err != nil {
		// Portal versions before 2 only implement the deprecated Read,
		// which wraps the value in an extra variant.
		call = obj.CallWithContext(ctx, portalRead, 0, interfaceSchema, iconThemeKey)
		if call.Err != nil {
			return "", fmt.Errorf("%w: %v", ErrSettingUnavailable, call.Err)
		}
	}
	if err := call.Store(&value); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSettingUnavailable, err)
	}

	theme, ok := variantString(value)
	if !ok {
		return "", fmt.Errorf("%w: unexpected value %s", ErrSettingUnavailable, value.String())
	}
	return theme, nil
}

// variantString unwraps nested variants down to a string.
func variantString(v dbus.Variant) (string, bool) {
	for i := 0; i < 3; i++ {
		switch val := v.Value().(type) {
		case string:
			return val, true
		case dbus.Variant:
			v = val
		default:
			return "", false
		}
	}
	return "", false
}
