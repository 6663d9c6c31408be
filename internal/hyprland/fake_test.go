package hyprland

import (
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// fakeHyprland serves canned replies on the request socket and pushes
// lines on the event socket.
type fakeHyprland struct {
	dir     string
	replies map[string]string

	mu       sync.Mutex
	requests []string

	events chan string
}

func shortTempDir(t *testing.T) string {
	t.Helper()
	// Unix socket paths are limited to about 100 bytes.
	dir, err := os.MkdirTemp("", "hypr")
	if err != nil {
		t.Fatalf("MkdirTemp() error = %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func newFakeHyprland(t *testing.T, replies map[string]string) *fakeHyprland {
	t.Helper()
	f := &fakeHyprland{
		dir:     shortTempDir(t),
		replies: replies,
		events:  make(chan string, 16),
	}

	req, err := net.Listen("unix", filepath.Join(f.dir, requestSocket))
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	ev, err := net.Listen("unix", filepath.Join(f.dir, eventSocket))
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	t.Cleanup(func() {
		req.Close()
		ev.Close()
	})

	go f.serveRequests(req)
	go f.serveEvents(ev)
	return f
}

func (f *fakeHyprland) serveRequests(l net.Listener) {
	for {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		buf := make([]byte, 1024)
		n, _ := conn.Read(buf)
		cmd := string(buf[:n])

		f.mu.Lock()
		f.requests = append(f.requests, cmd)
		f.mu.Unlock()

		reply, ok := f.replies[cmd]
		if !ok {
			reply = "unknown request"
		}
		conn.Write([]byte(reply))
		conn.Close()
	}
}

func (f *fakeHyprland) serveEvents(l net.Listener) {
	conn, err := l.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	for line := range f.events {
		if _, err := conn.Write([]byte(line + "\n")); err != nil {
			return
		}
	}
}

func (f *fakeHyprland) client() *Client {
	return NewClient(f.dir)
}

const monitorsJSON = `[
  {"id": 0, "name": "DP-1", "width": 2560, "height": 1440, "refreshRate": 143.99, "scale": 1.25, "transform": 0, "focused": false},
  {"id": 1, "name": "HDMI-A-1", "width": 1920, "height": 1080, "refreshRate": 60.0, "scale": 1.0, "transform": 1, "focused": true}
]`

const clientsJSON = `[
  {"address": "0x55d0a1b2c3d0", "class": "kitty", "initialClass": "kitty", "title": "~", "monitor": 0},
  {"address": "0x55d0a1b2c3e0", "class": "", "initialClass": "steam_app_1", "title": "Game, The", "monitor": 1}
]`

const versionJSON = `{"branch": "main", "commit": "abc123", "tag": "v0.45.2"}`

func defaultReplies() map[string]string {
	return map[string]string{
		"j/monitors": monitorsJSON,
		"j/clients":  clientsJSON,
		"j/version":  versionJSON,
	}
}
