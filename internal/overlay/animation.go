package overlay

import (
	"fmt"
	"time"
)

// State is a phase of the overlay animation.
type State int

const (
	StateFadeIn State = iota
	StateHold
	StateFadeOut
	StateDone
)

func (s State) String() string {
	switch s {
	case StateFadeIn:
		return "fade-in"
	case StateHold:
		return "hold"
	case StateFadeOut:
		return "fade-out"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Timing holds the duration of each phase.
type Timing struct {
	FadeIn  time.Duration
	Hold    time.Duration
	FadeOut time.Duration
}

// Total returns the full animation length.
func (t Timing) Total() time.Duration {
	return t.FadeIn + t.Hold + t.FadeOut
}

// Animation is the fade in, hold, fade out state machine of one overlay.
// It moves at most one phase per Advance call.
type Animation struct {
	timing     Timing
	state      State
	opacity    float64
	stateStart time.Time
}

// NewAnimation starts an animation in the fade-in phase at now.
func NewAnimation(timing Timing, now time.Time) *Animation {
	return &Animation{
		timing:     timing,
		state:      StateFadeIn,
		stateStart: now,
	}
}

// Advance updates the animation to now and reports whether it is still active.
// Once done, it returns false and leaves the state untouched.
func (a *Animation) Advance(now time.Time) bool {
	if a.state == StateDone {
		return false
	}

	elapsed := now.Sub(a.stateStart).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}

	switch a.state {
	case StateFadeIn:
		d := a.timing.FadeIn.Milliseconds()
		if elapsed >= d {
			a.opacity = 1
			a.enter(StateHold, now)
			break
		}
		a.opacity = easeOutCubic(float64(elapsed) / float64(d))

	case StateHold:
		a.opacity = 1
		if elapsed >= a.timing.Hold.Milliseconds() {
			a.enter(StateFadeOut, now)
		}

	case StateFadeOut:
		d := a.timing.FadeOut.Milliseconds()
		if elapsed >= d {
			a.opacity = 0
			a.enter(StateDone, now)
			break
		}
		a.opacity = 1 - easeInCubic(float64(elapsed)/float64(d))
	}

	return a.state != StateDone
}

func (a *Animation) enter(s State, now time.Time) {
	a.state = s
	a.stateStart = now
}

// State returns the current phase.
func (a *Animation) State() State {
	return a.state
}

// Opacity returns the current opacity in [0, 1].
func (a *Animation) Opacity() float64 {
	return a.opacity
}

func easeOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

func easeInCubic(t float64) float64 {
	return t * t * t
}
