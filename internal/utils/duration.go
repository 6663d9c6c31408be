// Package utils holds small formatting helpers shared by the CLI and daemon.
package utils

import (
	"fmt"
	"strings"
	"time"
)

var uptimeUnits = []struct {
	size   time.Duration
	suffix string
}{
	{24 * time.Hour, "d"},
	{time.Hour, "h"},
	{time.Minute, "m"},
	{time.Second, "s"},
}

// FormatUptime renders d in whole seconds as days, hours, minutes and
// seconds, skipping zero units, e.g. "2d 6h 15s". Anything below one second,
// including negative values from clock steps, renders as "0s".
func FormatUptime(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}

	d = d.Truncate(time.Second)
	parts := make([]string, 0, len(uptimeUnits))
	for _, u := range uptimeUnits {
		if n := d / u.size; n > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", n, u.suffix))
			d -= n * u.size
		}
	}
	return strings.Join(parts, " ")
}
