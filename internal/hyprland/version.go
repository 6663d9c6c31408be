package hyprland

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-version"
)

// MinimumVersion is the oldest compositor release whose IPC replies carry
// every field the daemon reads.
const MinimumVersion = "0.40.0"

// ErrVersionMismatch is returned when the running compositor is unsupported.
var ErrVersionMismatch = errors.New("version mismatch")

// CheckVersion compares a compositor tag such as "v0.45.2" with minimum.
func CheckVersion(tag, minimum string) error {
	if tag == "" {
		return fmt.Errorf("%w: compositor reported no version", ErrVersionMismatch)
	}
	running, err := version.NewVersion(tag)
	if err != nil {
		return fmt.Errorf("%w: cannot parse compositor version %q", ErrVersionMismatch, tag)
	}
	required, err := version.NewVersion(minimum)
	if err != nil {
		return fmt.Errorf("invalid minimum version %q: %w", minimum, err)
	}

	// Git builds tag as v0.45.2-12-gabcdef; compare the release core only.
	if running.Core().LessThan(required) {
		return fmt.Errorf("%w: running %s, need %s or newer", ErrVersionMismatch, running.Core(), required)
	}
	return nil
}
