package hyprland

import (
	"context"
	"fmt"
	"io"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultTimeout bounds a request when the context has no deadline.
const DefaultTimeout = 2 * time.Second

// Client issues requests to one compositor instance.
type Client struct {
	dir    string
	dialer net.Dialer
}

// NewClient returns a client for the sockets in dir.
func NewClient(dir string) *Client {
	return &Client{dir: dir}
}

// NewClientFromEnv locates the running instance through the environment.
func NewClientFromEnv() (*Client, error) {
	dir, err := SocketDirFromEnv()
	if err != nil {
		return nil, err
	}
	return NewClient(dir), nil
}

// Dir returns the socket directory.
func (c *Client) Dir() string {
	return c.dir
}

// Request sends one command on the request socket and returns the reply.
// Each request uses its own connection.
func (c *Client) Request(ctx context.Context, cmd string) ([]byte, error) {
	conn, err := c.dialer.DialContext(ctx, "unix", filepath.Join(c.dir, requestSocket))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotRunning, err)
	}
	defer conn.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(DefaultTimeout)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("failed to set deadline: %w", err)
	}

	if _, err := io.WriteString(conn, cmd); err != nil {
		return nil, fmt.Errorf("failed to send %q: %w", cmd, err)
	}

	reply, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to read reply to %q: %w", cmd, err)
	}
	return reply, nil
}

// requestJSON sends a JSON request (j/<cmd>) and validates the reply.
func (c *Client) requestJSON(ctx context.Context, cmd string) (gjson.Result, error) {
	reply, err := c.Request(ctx, "j/"+cmd)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(reply) {
		return gjson.Result{}, fmt.Errorf("invalid reply to %s: %s", cmd, strings.TrimSpace(string(reply)))
	}
	return gjson.ParseBytes(reply), nil
}

// Monitors returns the connected monitors.
func (c *Client) Monitors(ctx context.Context) ([]Monitor, error) {
	res, err := c.requestJSON(ctx, "monitors")
	if err != nil {
		return nil, err
	}

	var monitors []Monitor
	for _, m := range res.Array() {
		monitors = append(monitors, parseMonitor(m))
	}
	return monitors, nil
}

// Clients returns every mapped window.
func (c *Client) Clients(ctx context.Context) ([]Window, error) {
	res, err := c.requestJSON(ctx, "clients")
	if err != nil {
		return nil, err
	}

	var windows []Window
	for _, w := range res.Array() {
		windows = append(windows, parseWindow(w))
	}
	return windows, nil
}

// Window returns the window with the given address. Addresses are compared
// without their 0x prefix.
func (c *Client) Window(ctx context.Context, address string) (Window, bool, error) {
	windows, err := c.Clients(ctx)
	if err != nil {
		return Window{}, false, err
	}
	want := trimAddress(address)
	for _, w := range windows {
		if trimAddress(w.Address) == want {
			return w, true, nil
		}
	}
	return Window{}, false, nil
}

// Version returns the compositor build information.
func (c *Client) Version(ctx context.Context) (VersionInfo, error) {
	res, err := c.requestJSON(ctx, "version")
	if err != nil {
		return VersionInfo{}, err
	}
	return VersionInfo{
		Tag:    res.Get("tag").String(),
		Commit: res.Get("commit").String(),
		Branch: res.Get("branch").String(),
	}, nil
}

func trimAddress(addr string) string {
	return strings.TrimPrefix(strings.ToLower(addr), "0x")
}
