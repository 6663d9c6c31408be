package overlay

import "image"

// PixelFormat is the byte order of a four-channel pixel buffer.
type PixelFormat uint8

const (
	// FormatBGRA stores blue first. Decoders emit this order.
	FormatBGRA PixelFormat = iota
	// FormatRGBA stores red first. Texture uploads expect this order.
	FormatRGBA
)

func (f PixelFormat) String() string {
	switch f {
	case FormatBGRA:
		return "BGRA"
	case FormatRGBA:
		return "RGBA"
	default:
		return "unknown"
	}
}

// PixelBuffer is premultiplied 8-bit four-channel pixel data.
type PixelBuffer struct {
	Width  int
	Height int
	// Stride is the byte distance between rows.
	Stride int
	Format PixelFormat
	Pix    []byte
}

// Empty reports whether the buffer holds no pixels.
func (b PixelBuffer) Empty() bool {
	return b.Width <= 0 || b.Height <= 0 || len(b.Pix) == 0
}

// SwapRedBlue exchanges the red and blue channel of every pixel in place,
// converting between BGRA and RGBA. Alpha is untouched.
func SwapRedBlue(b *PixelBuffer) {
	for y := 0; y < b.Height; y++ {
		row := b.Pix[y*b.Stride : y*b.Stride+b.Width*4]
		for i := 0; i < len(row); i += 4 {
			row[i], row[i+2] = row[i+2], row[i]
		}
	}
	if b.Format == FormatBGRA {
		b.Format = FormatRGBA
	} else {
		b.Format = FormatBGRA
	}
}

// bgraFromImage copies img into a new buffer in BGRA order.
func bgraFromImage(img *image.RGBA) PixelBuffer {
	bounds := img.Bounds()
	buf := PixelBuffer{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Stride: bounds.Dx() * 4,
		Format: FormatBGRA,
	}
	buf.Pix = make([]byte, buf.Stride*buf.Height)

	for y := 0; y < buf.Height; y++ {
		src := img.Pix[img.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		dst := buf.Pix[y*buf.Stride:]
		for x := 0; x < buf.Width*4; x += 4 {
			dst[x+0] = src[x+2]
			dst[x+1] = src[x+1]
			dst[x+2] = src[x+0]
			dst[x+3] = src[x+3]
		}
	}
	return buf
}

// Image wraps an RGBA buffer as an image without copying.
// It returns nil for buffers in any other order.
func (b PixelBuffer) Image() *image.RGBA {
	if b.Format != FormatRGBA || b.Empty() {
		return nil
	}
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Stride,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}
