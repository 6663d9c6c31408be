package hyprland

import (
	"github.com/tidwall/gjson"

	"github.com/purple-lines/hypricons/internal/overlay"
)

// Monitor is a connected output.
type Monitor struct {
	MonitorID int     `json:"id"`
	Name      string  `json:"name"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Scale     float64 `json:"scale"`
	Refresh   float64 `json:"refreshRate"`
	Transform int     `json:"transform"`
	Focused   bool    `json:"focused"`
}

func parseMonitor(m gjson.Result) Monitor {
	return Monitor{
		MonitorID: int(m.Get("id").Int()),
		Name:      m.Get("name").String(),
		Width:     int(m.Get("width").Int()),
		Height:    int(m.Get("height").Int()),
		Scale:     m.Get("scale").Float(),
		Refresh:   m.Get("refreshRate").Float(),
		Transform: int(m.Get("transform").Int()),
		Focused:   m.Get("focused").Bool(),
	}
}

// ID implements overlay.Surface. Monitor names are unique per session.
func (m Monitor) ID() string {
	return m.Name
}

// Size returns the logical size: pixels divided by scale, swapped for
// 90 and 270 degree transforms.
func (m Monitor) Size() (float64, float64) {
	scale := m.Scale
	if scale <= 0 {
		scale = 1
	}
	w, h := float64(m.Width)/scale, float64(m.Height)/scale
	if m.Transform%2 == 1 {
		w, h = h, w
	}
	return w, h
}

// RefreshRate implements overlay.Surface.
func (m Monitor) RefreshRate() float64 {
	return m.Refresh
}

var _ overlay.Surface = Monitor{}

// Window is a mapped client window.
type Window struct {
	Address      string `json:"address"`
	Class        string `json:"class"`
	InitialClass string `json:"initialClass"`
	Title        string `json:"title"`
	MonitorID    int    `json:"monitor"`
}

func parseWindow(w gjson.Result) Window {
	monitor := w.Get("monitor")
	id := -1
	if monitor.Exists() {
		id = int(monitor.Int())
	}
	return Window{
		Address:      w.Get("address").String(),
		Class:        w.Get("class").String(),
		InitialClass: w.Get("initialClass").String(),
		Title:        w.Get("title").String(),
		MonitorID:    id,
	}
}

// VersionInfo describes the running compositor build.
type VersionInfo struct {
	Tag    string `json:"tag"`
	Commit string `json:"commit"`
	Branch string `json:"branch"`
}

// Identifier picks the name an overlay is resolved from: class, then initial
// class, then title. An empty result means the window is skipped.
func Identifier(ow OpenWindow, w Window) string {
	for _, s := range []string{ow.Class, w.Class, w.InitialClass, ow.Title, w.Title} {
		if s != "" {
			return s
		}
	}
	return ""
}

// PickMonitor returns the window's monitor, else the focused one.
func PickMonitor(monitors []Monitor, w Window, haveWindow bool) (Monitor, bool) {
	if haveWindow {
		for _, m := range monitors {
			if m.MonitorID == w.MonitorID {
				return m, true
			}
		}
	}
	for _, m := range monitors {
		if m.Focused {
			return m, true
		}
	}
	return Monitor{}, false
}
