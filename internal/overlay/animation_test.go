package overlay

import (
	"math"
	"testing"
	"time"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnimationFullCycle(t *testing.T) {
	a := NewAnimation(testTiming, at(0))

	if !a.Advance(at(0)) {
		t.Fatal("Advance(0) = false, want active")
	}
	if a.State() != StateFadeIn || a.Opacity() != 0 {
		t.Errorf("at 0: state=%s opacity=%v, want fade-in 0", a.State(), a.Opacity())
	}

	a.Advance(at(75))
	if want := 1 - math.Pow(0.5, 3); !approx(a.Opacity(), want) {
		t.Errorf("at 75: opacity=%v, want %v", a.Opacity(), want)
	}

	a.Advance(at(150))
	if a.State() != StateHold || a.Opacity() != 1 {
		t.Errorf("at 150: state=%s opacity=%v, want hold 1", a.State(), a.Opacity())
	}

	for _, ms := range []int{151, 300, 449} {
		a.Advance(at(ms))
		if a.State() != StateHold || a.Opacity() != 1 {
			t.Errorf("at %d: state=%s opacity=%v, want hold 1", ms, a.State(), a.Opacity())
		}
	}

	a.Advance(at(450))
	if a.State() != StateFadeOut {
		t.Fatalf("at 450: state=%s, want fade-out", a.State())
	}

	a.Advance(at(650))
	if want := 1 - math.Pow(0.5, 3); !approx(a.Opacity(), want) {
		t.Errorf("at 650: opacity=%v, want %v", a.Opacity(), want)
	}

	if a.Advance(at(850)) {
		t.Error("Advance(850) = true, want inactive")
	}
	if a.State() != StateDone || a.Opacity() != 0 {
		t.Errorf("at 850: state=%s opacity=%v, want done 0", a.State(), a.Opacity())
	}

	if a.Advance(at(5000)) {
		t.Error("Advance after done = true")
	}
	if a.State() != StateDone || a.Opacity() != 0 {
		t.Errorf("after done: state=%s opacity=%v", a.State(), a.Opacity())
	}
}

func TestAnimationOnePhasePerAdvance(t *testing.T) {
	a := NewAnimation(testTiming, at(0))

	// A late first tick only finishes the fade-in; the hold starts from there.
	a.Advance(at(10000))
	if a.State() != StateHold {
		t.Fatalf("state=%s, want hold", a.State())
	}
	a.Advance(at(10299))
	if a.State() != StateHold {
		t.Errorf("state=%s, want hold before hold duration", a.State())
	}
}

func TestAnimationWholeMilliseconds(t *testing.T) {
	a := NewAnimation(testTiming, at(0))

	a.Advance(t0.Add(149*time.Millisecond + 999*time.Microsecond))
	if a.State() != StateFadeIn {
		t.Errorf("state=%s, want fade-in below a whole millisecond", a.State())
	}
}

func TestAnimationZeroDurations(t *testing.T) {
	a := NewAnimation(Timing{}, at(0))

	steps := []State{StateHold, StateFadeOut, StateDone}
	for i, want := range steps {
		a.Advance(at(0))
		if a.State() != want {
			t.Errorf("step %d: state=%s, want %s", i, a.State(), want)
		}
	}
}

func TestAnimationClockBeforeStart(t *testing.T) {
	a := NewAnimation(testTiming, at(100))

	if !a.Advance(at(0)) {
		t.Fatal("Advance() = false")
	}
	if a.State() != StateFadeIn || a.Opacity() != 0 {
		t.Errorf("state=%s opacity=%v, want fade-in 0", a.State(), a.Opacity())
	}
}

func TestEasing(t *testing.T) {
	tests := []struct {
		t       float64
		out, in float64
	}{
		{0, 0, 0},
		{1, 1, 1},
		{0.5, 0.875, 0.125},
	}
	for _, tt := range tests {
		if got := easeOutCubic(tt.t); !approx(got, tt.out) {
			t.Errorf("easeOutCubic(%v) = %v, want %v", tt.t, got, tt.out)
		}
		if got := easeInCubic(tt.t); !approx(got, tt.in) {
			t.Errorf("easeInCubic(%v) = %v, want %v", tt.t, got, tt.in)
		}
	}
}

func TestStateString(t *testing.T) {
	if StateFadeOut.String() != "fade-out" {
		t.Errorf("String() = %q", StateFadeOut.String())
	}
	if State(9).String() != "State(9)" {
		t.Errorf("String() = %q", State(9).String())
	}
}
