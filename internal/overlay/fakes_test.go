package overlay

import (
	"errors"
	"time"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

type fakeSurface struct {
	id   string
	w, h float64
	hz   float64
}

func (s *fakeSurface) ID() string               { return s.id }
func (s *fakeSurface) Size() (float64, float64) { return s.w, s.h }
func (s *fakeSurface) RefreshRate() float64     { return s.hz }

type fakeResolver map[string]string

func (r fakeResolver) FindIconPath(appClass string, size int) (string, bool) {
	p, ok := r[appClass]
	return p, ok
}

// fakeDecoder returns a w x h BGRA buffer whose first pixel is (B=1, G=2, R=3, A=4).
type fakeDecoder struct {
	w, h int
	err  error
}

func (d *fakeDecoder) Decode(path string, size int) (PixelBuffer, error) {
	if d.err != nil {
		return PixelBuffer{}, d.err
	}
	buf := PixelBuffer{Width: d.w, Height: d.h, Stride: d.w * 4, Format: FormatBGRA}
	buf.Pix = make([]byte, buf.Stride*buf.Height)
	copy(buf.Pix, []byte{1, 2, 3, 4})
	return buf, nil
}

type fakeUploader struct {
	next     Texture
	uploads  []PixelBuffer
	released map[Texture]int
	err      error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{released: make(map[Texture]int)}
}

func (u *fakeUploader) Upload(buf PixelBuffer) (Texture, error) {
	if u.err != nil {
		return NoTexture, u.err
	}
	u.next++
	u.uploads = append(u.uploads, buf)
	return u.next, nil
}

func (u *fakeUploader) Release(tex Texture) {
	u.released[tex]++
}

func (u *fakeUploader) totalReleased() int {
	n := 0
	for _, c := range u.released {
		n += c
	}
	return n
}

type quad struct {
	tex   Texture
	box   Rect
	alpha float64
}

type fakeDrawer struct {
	quads []quad
	err   error
}

func (d *fakeDrawer) DrawTexture(tex Texture, box Rect, alpha float64) error {
	if d.err != nil {
		return d.err
	}
	d.quads = append(d.quads, quad{tex, box, alpha})
	return nil
}

var errBoom = errors.New("boom")

var testTiming = Timing{
	FadeIn:  150 * time.Millisecond,
	Hold:    300 * time.Millisecond,
	FadeOut: 400 * time.Millisecond,
}
