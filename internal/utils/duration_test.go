package utils

import (
	"testing"
	"time"
)

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{-3 * time.Second, "0s"},
		{999 * time.Millisecond, "0s"},
		{1500 * time.Millisecond, "1s"},
		{90 * time.Second, "1m 30s"},
		{time.Hour + 5*time.Second, "1h 5s"},
		{24 * time.Hour, "1d"},
		{54*time.Hour + 15*time.Second, "2d 6h 15s"},
		{8*24*time.Hour + 23*time.Hour + 59*time.Minute + 59*time.Second, "8d 23h 59m 59s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatUptime(tt.d); got != tt.want {
				t.Errorf("FormatUptime(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}
