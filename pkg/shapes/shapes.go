// Package shapes rigs the six solids as folding nets. Each rigger turns
// validated parameters into a rig.Spec; Build compiles the spec into a
// live rig posed at fold 0 (closed).
package shapes

import (
	"fmt"

	"github.com/chazu/jaring/pkg/rig"
	"github.com/chazu/jaring/pkg/solid"
)

// Display colours.
const (
	ColorCube       = "#8D6E63"
	ColorBox        = "#A1887F"
	ColorCylinder   = "#42A5F5"
	ColorPyramid    = "#FFCA28"
	ColorCone       = "#FF7043"
	ColorPrism      = "#66BB6A"
	ColorEdge       = "#1A237E"
	ColorBackground = "#F0F2F5"
)

// Color returns the display colour of t.
func Color(t solid.Type) string {
	switch t {
	case solid.Cube:
		return ColorCube
	case solid.Box:
		return ColorBox
	case solid.Cylinder:
		return ColorCylinder
	case solid.Pyramid:
		return ColorPyramid
	case solid.Cone:
		return ColorCone
	case solid.Prism:
		return ColorPrism
	}
	return ColorEdge
}

// Rigged is a solid ready to fold.
type Rigged struct {
	Type   solid.Type
	Params solid.Params
	Spec   rig.Spec
	Rig    *rig.Rig
}

// UpdateFold poses every hinge and morph surface for fold value v.
// 0 is the closed solid and 1 the flat net.
func (r *Rigged) UpdateFold(v float64) {
	r.Rig.Apply(v)
}

// Fold returns the current fold value.
func (r *Rigged) Fold() float64 {
	return r.Rig.Fold()
}

// Color returns the solid's display colour.
func (r *Rigged) Color() string {
	return Color(r.Type)
}

// SpecFor returns the rig spec for t. Params are clamped first.
func SpecFor(t solid.Type, p solid.Params) (rig.Spec, error) {
	if err := solid.CheckSchema(t, p); err != nil {
		return rig.Spec{}, fmt.Errorf("shapes: %w", err)
	}
	p = p.Clone().Sanitize()
	switch t {
	case solid.Cube:
		return cubeSpec(p), nil
	case solid.Box:
		return boxSpec(p), nil
	case solid.Cylinder:
		return cylinderSpec(p), nil
	case solid.Pyramid:
		return pyramidSpec(p), nil
	case solid.Cone:
		return coneSpec(p), nil
	case solid.Prism:
		return prismSpec(p), nil
	}
	return rig.Spec{}, fmt.Errorf("shapes: %s: %w", t, solid.ErrUnknownShape)
}

// Build rigs t with params p.
func Build(t solid.Type, p solid.Params) (*Rigged, error) {
	spec, err := SpecFor(t, p)
	if err != nil {
		return nil, err
	}
	r, err := rig.Build(spec)
	if err != nil {
		return nil, fmt.Errorf("shapes: %w", err)
	}
	return &Rigged{
		Type:   t,
		Params: p.Clone().Sanitize(),
		Spec:   spec,
		Rig:    r,
	}, nil
}
