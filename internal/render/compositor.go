// Package render is a CPU render backend for overlays: it stores textures as
// images and composes per-surface frames from textured quads.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/purple-lines/hypricons/internal/overlay"
)

var (
	// ErrUnknownTexture is returned when drawing a texture that was never
	// uploaded or was already released.
	ErrUnknownTexture = errors.New("unknown texture")
	// ErrNoFrame is returned when drawing before a frame was started.
	ErrNoFrame = errors.New("no frame in progress")
)

// Compositor implements overlay.TextureUploader and overlay.QuadDrawer.
// It is not safe for concurrent use.
type Compositor struct {
	next     overlay.Texture
	textures map[overlay.Texture]*image.RGBA
	frame    *image.RGBA
}

// NewCompositor returns an empty compositor.
func NewCompositor() *Compositor {
	return &Compositor{textures: make(map[overlay.Texture]*image.RGBA)}
}

// Upload copies an RGBA buffer into a new texture.
func (c *Compositor) Upload(buf overlay.PixelBuffer) (overlay.Texture, error) {
	if buf.Format != overlay.FormatRGBA {
		return overlay.NoTexture, fmt.Errorf("upload expects RGBA pixels, got %s", buf.Format)
	}
	src := buf.Image()
	if src == nil {
		return overlay.NoTexture, errors.New("upload of empty pixel buffer")
	}

	img := image.NewRGBA(src.Rect)
	draw.Copy(img, image.Point{}, src, src.Rect, draw.Src, nil)

	c.next++
	c.textures[c.next] = img
	return c.next, nil
}

// Release frees a texture. Unknown handles are ignored.
func (c *Compositor) Release(tex overlay.Texture) {
	delete(c.textures, tex)
}

// Textures returns the number of live textures.
func (c *Compositor) Textures() int {
	return len(c.textures)
}

// BeginFrame starts a transparent frame sized to the surface's logical area.
func (c *Compositor) BeginFrame(surface overlay.Surface) *image.RGBA {
	w, h := surface.Size()
	c.frame = image.NewRGBA(image.Rect(0, 0, int(math.Ceil(w)), int(math.Ceil(h))))
	return c.frame
}

// EndFrame returns the finished frame and clears it from the compositor.
func (c *Compositor) EndFrame() *image.RGBA {
	f := c.frame
	c.frame = nil
	return f
}

// DrawTexture composites tex over the current frame, scaled into box and
// blended with a uniform alpha.
func (c *Compositor) DrawTexture(tex overlay.Texture, box overlay.Rect, alpha float64) error {
	if c.frame == nil {
		return ErrNoFrame
	}
	src, ok := c.textures[tex]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTexture, tex)
	}
	if alpha <= 0 {
		return nil
	}
	if alpha > 1 {
		alpha = 1
	}

	dst := image.Rect(
		int(math.Round(box.X)),
		int(math.Round(box.Y)),
		int(math.Round(box.X+box.W)),
		int(math.Round(box.Y+box.H)),
	)
	mask := image.NewUniform(colorAlpha(alpha))
	opts := &draw.Options{SrcMask: mask, SrcMaskP: image.Point{}}

	if dst.Size() == src.Rect.Size() {
		draw.Copy(c.frame, dst.Min, src, src.Rect, draw.Over, opts)
		return nil
	}
	draw.CatmullRom.Scale(c.frame, dst, src, src.Rect, draw.Over, opts)
	return nil
}

func colorAlpha(a float64) color.Alpha16 {
	return color.Alpha16{A: uint16(a*0xffff + 0.5)}
}

// Scene draws everything that targets a surface.
type Scene interface {
	Draw(surface overlay.Surface, d overlay.QuadDrawer) error
}

// RenderFrame composes one frame of scene for surface.
func (c *Compositor) RenderFrame(surface overlay.Surface, scene Scene) (*image.RGBA, error) {
	c.BeginFrame(surface)
	err := scene.Draw(surface, c)
	return c.EndFrame(), err
}

var (
	_ overlay.TextureUploader = (*Compositor)(nil)
	_ overlay.QuadDrawer      = (*Compositor)(nil)
)
