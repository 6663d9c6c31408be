// Package hyprland talks to a running Hyprland compositor over its IPC sockets.
package hyprland

import (
	"errors"
	"os"
	"path/filepath"
)

const (
	// SignatureEnv names the running compositor instance.
	SignatureEnv = "HYPRLAND_INSTANCE_SIGNATURE"

	requestSocket = ".socket.sock"
	eventSocket   = ".socket2.sock"
	legacyRoot    = "/tmp/hypr"
)

// ErrNotRunning is returned when no Hyprland instance can be located.
var ErrNotRunning = errors.New("hyprland is not running")

// SocketDir returns the directory holding the instance sockets. It prefers
// $XDG_RUNTIME_DIR/hypr/<sig> and falls back to /tmp/hypr/<sig>.
func SocketDir(runtimeDir, signature string) (string, error) {
	if signature == "" {
		return "", ErrNotRunning
	}
	if runtimeDir != "" {
		dir := filepath.Join(runtimeDir, "hypr", signature)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return filepath.Join(legacyRoot, signature), nil
}

// SocketDirFromEnv resolves the socket directory from the process environment.
func SocketDirFromEnv() (string, error) {
	return SocketDir(os.Getenv("XDG_RUNTIME_DIR"), os.Getenv(SignatureEnv))
}
