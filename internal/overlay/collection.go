package overlay

import (
	"errors"
	"time"
)

// ErrNoTexture is returned when adding an overlay that holds no texture.
var ErrNoTexture = errors.New("overlay has no texture")

// Handle refers to an overlay in a Collection. It stops resolving once the
// overlay is pruned, even if its slot is reused. The zero Handle is never valid.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

type slot struct {
	// gen is odd while the slot is occupied.
	gen     uint32
	overlay *Overlay
}

func (s *slot) occupied() bool {
	return s.gen%2 == 1
}

// TickResult summarizes one collection tick.
type TickResult struct {
	// Active is the number of overlays left after pruning.
	Active int
	// Pruned is the number of overlays removed.
	Pruned int
}

// Redraw reports whether the host should keep redrawing and ticking.
func (r TickResult) Redraw() bool {
	return r.Active > 0
}

// Collection owns the active overlays and their textures.
type Collection struct {
	uploader TextureUploader
	slots    []slot
	free     []uint32
	count    int
}

// NewCollection returns an empty collection releasing textures through up.
func NewCollection(up TextureUploader) *Collection {
	return &Collection{uploader: up}
}

// Add takes ownership of o. Overlays without a texture are rejected.
func (c *Collection) Add(o *Overlay) (Handle, error) {
	if o == nil || o.texture == NoTexture {
		return Handle{}, ErrNoTexture
	}

	var idx uint32
	if n := len(c.free); n > 0 {
		idx = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		c.slots = append(c.slots, slot{})
		idx = uint32(len(c.slots) - 1)
	}

	s := &c.slots[idx]
	s.gen++
	s.overlay = o
	c.count++

	return Handle{index: idx, gen: s.gen}, nil
}

// Get returns the overlay for h if it is still in the collection.
func (c *Collection) Get(h Handle) (*Overlay, bool) {
	if h.IsZero() || int(h.index) >= len(c.slots) {
		return nil, false
	}
	s := &c.slots[h.index]
	if s.gen != h.gen || !s.occupied() {
		return nil, false
	}
	return s.overlay, true
}

// Len returns the number of active overlays.
func (c *Collection) Len() int {
	return c.count
}

// Each calls fn for every active overlay in slot order.
// fn must not add or remove overlays.
func (c *Collection) Each(fn func(Handle, *Overlay)) {
	for i := range c.slots {
		s := &c.slots[i]
		if !s.occupied() {
			continue
		}
		fn(Handle{index: uint32(i), gen: s.gen}, s.overlay)
	}
}

// Tick advances every overlay to now and prunes the finished ones.
func (c *Collection) Tick(now time.Time) TickResult {
	var res TickResult
	for i := range c.slots {
		s := &c.slots[i]
		if !s.occupied() {
			continue
		}
		if s.overlay.anim.Advance(now) {
			continue
		}
		c.remove(uint32(i))
		res.Pruned++
	}
	res.Active = c.count
	return res
}

// Clear releases and removes every overlay.
func (c *Collection) Clear() {
	for i := range c.slots {
		if c.slots[i].occupied() {
			c.remove(uint32(i))
		}
	}
}

func (c *Collection) remove(idx uint32) {
	s := &c.slots[idx]
	s.overlay.release(c.uploader)
	s.overlay = nil
	s.gen++
	c.free = append(c.free, idx)
	c.count--
}
