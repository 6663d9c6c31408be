package render

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
)

// FrameSink receives composed frames.
type FrameSink interface {
	Present(surfaceID string, frame *image.RGBA) error
}

// DiscardSink drops every frame.
type DiscardSink struct{}

// Present implements FrameSink.
func (DiscardSink) Present(string, *image.RGBA) error {
	return nil
}

// DirSink writes frames as numbered PNG files, one subdirectory per surface.
type DirSink struct {
	dir    string
	counts map[string]int
}

// NewDirSink creates dir if needed and returns a sink writing into it.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create frames directory: %w", err)
	}
	return &DirSink{dir: dir, counts: make(map[string]int)}, nil
}

// Dir returns the output directory.
func (s *DirSink) Dir() string {
	return s.dir
}

// Present writes frame to <dir>/<surface>/frame-NNNNN.png.
func (s *DirSink) Present(surfaceID string, frame *image.RGBA) error {
	sub := filepath.Join(s.dir, sanitizeName(surfaceID))
	if err := os.MkdirAll(sub, 0755); err != nil {
		return fmt.Errorf("failed to create surface directory: %w", err)
	}

	n := s.counts[surfaceID]
	path := filepath.Join(sub, fmt.Sprintf("frame-%05d.png", n))
	if err := gg.SavePNG(path, frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	s.counts[surfaceID] = n + 1
	return nil
}

// Frames returns how many frames were written for a surface.
func (s *DirSink) Frames(surfaceID string) int {
	return s.counts[surfaceID]
}

func sanitizeName(name string) string {
	if name == "" {
		return "surface"
	}
	return strings.Map(func(r rune) rune {
		if r == '/' || r == filepath.Separator || r == 0 {
			return '_'
		}
		return r
	}, name)
}

var (
	_ FrameSink = DiscardSink{}
	_ FrameSink = (*DirSink)(nil)
)
