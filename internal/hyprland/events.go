package hyprland

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"
)

// Event names handled by the daemon.
const (
	EventOpenWindow     = "openwindow"
	EventConfigReloaded = "configreloaded"
)

const eventSeparator = ">>"

// Event is one line of the event socket.
type Event struct {
	Name string
	Data string
}

// ParseEvent splits an EVENT>>DATA line.
func ParseEvent(line string) (Event, bool) {
	name, data, ok := strings.Cut(strings.TrimRight(line, "\r\n"), eventSeparator)
	if !ok || name == "" {
		return Event{}, false
	}
	return Event{Name: name, Data: data}, true
}

// OpenWindow is the payload of an openwindow event.
type OpenWindow struct {
	Address   string
	Workspace string
	Class     string
	Title     string
}

// ParseOpenWindow parses ADDRESS,WORKSPACE,CLASS,TITLE. The title may contain commas.
func ParseOpenWindow(data string) (OpenWindow, error) {
	parts := strings.SplitN(data, ",", 4)
	if len(parts) < 3 {
		return OpenWindow{}, fmt.Errorf("malformed openwindow payload %q", data)
	}
	ow := OpenWindow{
		Address:   parts[0],
		Workspace: parts[1],
		Class:     parts[2],
	}
	if len(parts) == 4 {
		ow.Title = parts[3]
	}
	return ow, nil
}

// Events streams events from the event socket into out until ctx is done or
// the connection fails. It returns ctx.Err() after cancellation.
func (c *Client) Events(ctx context.Context, out chan<- Event) error {
	conn, err := c.dialer.DialContext(ctx, "unix", filepath.Join(c.dir, eventSocket))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotRunning, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		ev, ok := ParseEvent(scanner.Text())
		if !ok {
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("event socket: %w", err)
	}
	return errors.New("event socket closed")
}
