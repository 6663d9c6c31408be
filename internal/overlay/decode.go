package overlay

import (
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

// ErrUnsupportedFormat is returned for icon files that are neither SVG nor PNG.
var ErrUnsupportedFormat = errors.New("unsupported icon format")

// FileDecoder decodes SVG and PNG icon files.
type FileDecoder struct{}

// Decode rasterizes the icon at path so that it fits in size x size while
// keeping its aspect ratio. The result is in BGRA order.
func (FileDecoder) Decode(path string, size int) (PixelBuffer, error) {
	if size <= 0 {
		return PixelBuffer{}, fmt.Errorf("invalid icon size %d", size)
	}

	var (
		img *image.RGBA
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		img, err = decodeSVG(path, size)
	case ".png":
		img, err = decodePNG(path, size)
	default:
		return PixelBuffer{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return PixelBuffer{}, err
	}

	return bgraFromImage(img), nil
}

// fitScale returns the uniform scale that fits w x h in size x size.
func fitScale(w, h float64, size int) float64 {
	return math.Min(float64(size)/w, float64(size)/h)
}

func scaledDim(v, scale float64) int {
	n := int(v * scale)
	if n < 1 {
		return 1
	}
	return n
}

func decodeSVG(path string, size int) (*image.RGBA, error) {
	// #nosec G304 - path comes from the icon resolver
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open svg: %w", err)
	}
	defer f.Close()

	icon, err := oksvg.ReadIconStream(f, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse svg %s: %w", path, err)
	}

	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		w, h = float64(size), float64(size)
	}
	scale := fitScale(w, h, size)
	rw, rh := scaledDim(w, scale), scaledDim(h, scale)

	img := image.NewRGBA(image.Rect(0, 0, rw, rh))
	icon.SetTarget(0, 0, float64(rw), float64(rh))
	scanner := rasterx.NewScannerGV(rw, rh, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(rw, rh, scanner), 1.0)

	return img, nil
}

func decodePNG(path string, size int) (*image.RGBA, error) {
	src, err := gg.LoadPNG(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode png %s: %w", path, err)
	}

	b := src.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return toRGBA(src), nil
	}
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("empty png %s", path)
	}

	w, h := float64(b.Dx()), float64(b.Dy())
	scale := fitScale(w, h, size)

	dc := gg.NewContext(scaledDim(w, scale), scaledDim(h, scale))
	dc.Scale(scale, scale)
	dc.DrawImage(src, -b.Min.X, -b.Min.Y)

	return toRGBA(dc.Image()), nil
}

// toRGBA returns src as a zero-origin RGBA image, copying only when needed.
func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
