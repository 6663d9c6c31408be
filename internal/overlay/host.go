// Package overlay runs the icon overlay animations: it decodes resolved icons
// into textures, fades them in, holds and fades them out, and draws the active
// ones onto their target surface.
package overlay

// Surface is a display output an overlay is shown on.
type Surface interface {
	// ID identifies the surface across events and frames.
	ID() string
	// Size returns the logical drawing area.
	Size() (width, height float64)
	// RefreshRate returns the refresh rate in Hz, or 0 when unknown.
	RefreshRate() float64
}

// Texture is a handle to uploaded pixel data owned by a TextureUploader.
type Texture uint64

// NoTexture is the zero handle; it never refers to uploaded data.
const NoTexture Texture = 0

// TextureUploader moves pixel buffers to the render backend.
type TextureUploader interface {
	// Upload copies buf and returns its handle. buf must be in RGBA order.
	Upload(buf PixelBuffer) (Texture, error)
	// Release frees a texture. It is called exactly once per uploaded texture.
	Release(tex Texture)
}

// Rect is an axis-aligned box in surface logical coordinates.
type Rect struct {
	X, Y, W, H float64
}

// QuadDrawer draws textured quads into the frame being rendered.
type QuadDrawer interface {
	DrawTexture(tex Texture, box Rect, alpha float64) error
}

// Drawable is anything that occupies a region and can draw itself.
type Drawable interface {
	Bounds() Rect
	Draw(d QuadDrawer) error
}

// Resolver maps an application identifier to an icon file.
type Resolver interface {
	FindIconPath(appClass string, size int) (string, bool)
}

// Decoder turns an icon file into a pixel buffer that fits in size x size.
type Decoder interface {
	Decode(path string, size int) (PixelBuffer, error)
}
