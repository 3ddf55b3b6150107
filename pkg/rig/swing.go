package rig

import "fmt"

// Easing selects how a hinge interpolates between its closed and flat
// angles.
type Easing string

const (
	Linear       Easing = "linear"
	EaseOutCubic Easing = "ease-out"
)

// Swing maps a fold value to a hinge angle. Fold 0 yields Closed and
// fold 1 yields Flat. An empty Easing is linear.
type Swing struct {
	Closed float64 `json:"closed" yaml:"closed"`
	Flat   float64 `json:"flat" yaml:"flat"`
	Easing Easing  `json:"easing,omitempty" yaml:"easing,omitempty"`
	// SnapBelow pins the hinge to Closed while the fold value is below
	// this threshold.
	SnapBelow float64 `json:"snapBelow,omitempty" yaml:"snapBelow,omitempty"`
}

// EaseOut is the cubic ease-out curve 1 - (1-v)^3.
func EaseOut(v float64) float64 {
	u := 1 - v
	return 1 - u*u*u
}

// At returns the hinge angle for fold value v.
func (s Swing) At(v float64) float64 {
	if v < s.SnapBelow {
		return s.Closed
	}
	e := v
	if s.Easing == EaseOutCubic {
		e = EaseOut(v)
	}
	return s.Closed + (s.Flat-s.Closed)*e
}

func (s Swing) validate() error {
	switch s.Easing {
	case "", Linear, EaseOutCubic:
		return nil
	default:
		return fmt.Errorf("unknown easing %q", s.Easing)
	}
}
