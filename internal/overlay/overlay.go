package overlay

import "time"

// Overlay is one icon being shown on a surface.
type Overlay struct {
	// AppClass is the identifier the overlay was spawned for.
	AppClass string
	// IconPath is the resolved icon file.
	IconPath string

	surface Surface
	texture Texture
	width   int
	height  int
	anim    *Animation
}

// newOverlay wraps an uploaded texture. The overlay owns tex from here on.
func newOverlay(appClass, iconPath string, surface Surface, tex Texture, w, h int, timing Timing, now time.Time) *Overlay {
	return &Overlay{
		AppClass: appClass,
		IconPath: iconPath,
		surface:  surface,
		texture:  tex,
		width:    w,
		height:   h,
		anim:     NewAnimation(timing, now),
	}
}

// Surface returns the surface the overlay is shown on.
func (o *Overlay) Surface() Surface {
	return o.surface
}

// Texture returns the overlay's texture, or NoTexture after release.
func (o *Overlay) Texture() Texture {
	return o.texture
}

// State returns the animation phase.
func (o *Overlay) State() State {
	return o.anim.State()
}

// Opacity returns the current opacity.
func (o *Overlay) Opacity() float64 {
	return o.anim.Opacity()
}

// Bounds returns the texture-sized box centered on the surface.
func (o *Overlay) Bounds() Rect {
	sw, sh := o.surface.Size()
	w, h := float64(o.width), float64(o.height)
	return Rect{
		X: (sw - w) / 2,
		Y: (sh - h) / 2,
		W: w,
		H: h,
	}
}

// Draw emits the overlay quad. Released or fully transparent overlays draw nothing.
func (o *Overlay) Draw(d QuadDrawer) error {
	if o.texture == NoTexture || o.anim.Opacity() <= 0 {
		return nil
	}
	return d.DrawTexture(o.texture, o.Bounds(), o.anim.Opacity())
}

// release hands the texture back to up. Later calls are no-ops.
func (o *Overlay) release(up TextureUploader) {
	if o.texture == NoTexture {
		return
	}
	up.Release(o.texture)
	o.texture = NoTexture
}

var _ Drawable = (*Overlay)(nil)
