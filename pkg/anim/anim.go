// Package anim drives time-based transitions of the fold value.
//
// An Animator is not safe for concurrent use; the scene host serialises
// access to it.
package anim

import (
	"time"
)

// DefaultDuration is the length of a fold or unfold transition.
const DefaultDuration = 2000 * time.Millisecond

// Animator tracks the current fold value and at most one transition.
// Every Set, Reset and AnimateTo starts a new generation; ticks carrying
// an older generation are ignored.
type Animator struct {
	value    float64
	start    float64
	target   float64
	began    time.Time
	duration time.Duration
	active   bool
	gen      uint64
}

// New returns an animator at fold 0.
func New() *Animator {
	return &Animator{}
}

func clamp(v float64) float64 {
	switch {
	case v != v, v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Value returns the current fold value.
func (a *Animator) Value() float64 {
	return a.value
}

// Target returns the destination of the active transition, or the
// current value when idle.
func (a *Animator) Target() float64 {
	if !a.active {
		return a.value
	}
	return a.target
}

// Active reports whether a transition is running.
func (a *Animator) Active() bool {
	return a.active
}

// Generation returns the current generation.
func (a *Animator) Generation() uint64 {
	return a.gen
}

// Set jumps to v, cancelling any transition.
func (a *Animator) Set(v float64) uint64 {
	a.value = clamp(v)
	a.active = false
	a.gen++
	return a.gen
}

// Reset returns to fold 0 and cancels any transition.
func (a *Animator) Reset() uint64 {
	return a.Set(0)
}

// AnimateTo starts a transition from the current value to target over d.
// A non-positive d completes on the first tick.
func (a *Animator) AnimateTo(target float64, d time.Duration, now time.Time) uint64 {
	a.start = a.value
	a.target = clamp(target)
	a.began = now
	a.duration = d
	a.active = true
	a.gen++
	return a.gen
}

// Sample returns the transition's value at now without changing state.
// Interpolation is linear; at or past the duration it returns exactly the
// target.
func (a *Animator) Sample(now time.Time) float64 {
	if !a.active {
		return a.value
	}
	elapsed := now.Sub(a.began)
	if a.duration <= 0 || elapsed >= a.duration {
		return a.target
	}
	if elapsed <= 0 {
		return a.start
	}
	p := float64(elapsed) / float64(a.duration)
	return a.start + (a.target-a.start)*p
}

// Tick advances the transition of generation gen to now. It returns the
// new value and true, or the current value and false when gen is stale
// or no transition is running. The transition ends once the target is
// reached.
func (a *Animator) Tick(gen uint64, now time.Time) (float64, bool) {
	if gen != a.gen || !a.active {
		return a.value, false
	}
	a.value = a.Sample(now)
	if a.duration <= 0 || now.Sub(a.began) >= a.duration {
		a.active = false
	}
	return a.value, true
}
