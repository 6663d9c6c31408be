package render

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/purple-lines/hypricons/internal/overlay"
)

type testSurface struct {
	id   string
	w, h float64
}

func (s testSurface) ID() string               { return s.id }
func (s testSurface) Size() (float64, float64) { return s.w, s.h }
func (s testSurface) RefreshRate() float64     { return 60 }

func solidBuffer(w, h int, c color.RGBA) overlay.PixelBuffer {
	buf := overlay.PixelBuffer{Width: w, Height: h, Stride: w * 4, Format: overlay.FormatRGBA}
	buf.Pix = make([]byte, buf.Stride*h)
	for i := 0; i < len(buf.Pix); i += 4 {
		buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return buf
}

func TestCompositorUploadRelease(t *testing.T) {
	c := NewCompositor()

	tex, err := c.Upload(solidBuffer(4, 4, color.RGBA{R: 255, A: 255}))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if tex == overlay.NoTexture {
		t.Fatal("Upload() returned NoTexture")
	}
	if c.Textures() != 1 {
		t.Errorf("Textures() = %d, want 1", c.Textures())
	}

	c.Release(tex)
	c.Release(tex)
	if c.Textures() != 0 {
		t.Errorf("Textures() = %d, want 0", c.Textures())
	}

	bgra := solidBuffer(1, 1, color.RGBA{})
	bgra.Format = overlay.FormatBGRA
	if _, err := c.Upload(bgra); err == nil {
		t.Error("Upload(BGRA) should fail")
	}
	if _, err := c.Upload(overlay.PixelBuffer{Format: overlay.FormatRGBA}); err == nil {
		t.Error("Upload(empty) should fail")
	}
}

func TestCompositorDrawTexture(t *testing.T) {
	c := NewCompositor()
	tex, _ := c.Upload(solidBuffer(2, 2, color.RGBA{R: 255, A: 255}))
	s := testSurface{id: "DP-1", w: 10, h: 10}

	c.BeginFrame(s)
	if err := c.DrawTexture(tex, overlay.Rect{X: 4, Y: 4, W: 2, H: 2}, 1); err != nil {
		t.Fatalf("DrawTexture() error = %v", err)
	}
	frame := c.EndFrame()

	if frame.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Errorf("frame bounds = %v", frame.Bounds())
	}
	if got := frame.RGBAAt(4, 4); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel inside quad = %v", got)
	}
	if got := frame.RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Errorf("pixel outside quad = %v, want transparent", got)
	}
}

func TestCompositorDrawTextureAlpha(t *testing.T) {
	c := NewCompositor()
	tex, _ := c.Upload(solidBuffer(2, 2, color.RGBA{R: 255, A: 255}))

	c.BeginFrame(testSurface{w: 2, h: 2})
	if err := c.DrawTexture(tex, overlay.Rect{W: 2, H: 2}, 0.5); err != nil {
		t.Fatalf("DrawTexture() error = %v", err)
	}
	got := c.EndFrame().RGBAAt(0, 0)

	if got.A < 126 || got.A > 129 || got.R != got.A {
		t.Errorf("half alpha pixel = %v, want premultiplied ~128", got)
	}
}

func TestCompositorDrawTextureScales(t *testing.T) {
	c := NewCompositor()
	tex, _ := c.Upload(solidBuffer(2, 2, color.RGBA{G: 255, A: 255}))

	c.BeginFrame(testSurface{w: 8, h: 8})
	if err := c.DrawTexture(tex, overlay.Rect{W: 8, H: 8}, 1); err != nil {
		t.Fatalf("DrawTexture() error = %v", err)
	}
	if got := c.EndFrame().RGBAAt(4, 4); got.G < 250 || got.A < 250 {
		t.Errorf("scaled pixel = %v, want opaque green", got)
	}
}

func TestCompositorDrawErrors(t *testing.T) {
	c := NewCompositor()

	if err := c.DrawTexture(1, overlay.Rect{W: 1, H: 1}, 1); !errors.Is(err, ErrNoFrame) {
		t.Errorf("DrawTexture() without frame error = %v, want ErrNoFrame", err)
	}

	c.BeginFrame(testSurface{w: 1, h: 1})
	if err := c.DrawTexture(42, overlay.Rect{W: 1, H: 1}, 1); !errors.Is(err, ErrUnknownTexture) {
		t.Errorf("DrawTexture(unknown) error = %v, want ErrUnknownTexture", err)
	}
}

type staticResolver string

func (r staticResolver) FindIconPath(string, int) (string, bool) { return string(r), true }

type solidDecoder struct{}

// Decode returns opaque red in BGRA byte order.
func (solidDecoder) Decode(string, int) (overlay.PixelBuffer, error) {
	buf := solidBuffer(4, 4, color.RGBA{B: 255, A: 255})
	buf.Format = overlay.FormatBGRA
	return buf, nil
}

func TestRenderFrameWithEngine(t *testing.T) {
	c := NewCompositor()
	e := overlay.NewEngine(staticResolver("/icon.png"), solidDecoder{}, c)
	s := testSurface{id: "DP-1", w: 20, h: 10}

	start := time.Unix(0, 0)
	if _, err := e.Spawn("app", s, start); err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	e.Tick(start.Add(150 * time.Millisecond))

	frame, err := c.RenderFrame(s, e)
	if err != nil {
		t.Fatalf("RenderFrame() error = %v", err)
	}
	if got := frame.RGBAAt(10, 5); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("center pixel = %v, want opaque red", got)
	}
	if got := frame.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("corner pixel = %v, want transparent", got)
	}

	e.Close()
	if c.Textures() != 0 {
		t.Errorf("Textures() after Close = %d", c.Textures())
	}
}
