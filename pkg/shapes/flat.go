package shapes

import (
	"fmt"
	"math"

	"github.com/chazu/jaring/pkg/kernel"
	"github.com/chazu/jaring/pkg/rig"
	"github.com/chazu/jaring/pkg/solid"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	axisX = v3.Vec{X: 1}
	axisZ = v3.Vec{Z: 1}
)

func eased(closed, flat float64) *rig.Swing {
	return &rig.Swing{Closed: closed, Flat: flat, Easing: rig.EaseOutCubic}
}

func surface(m *kernel.Mesh, outline, color string) *rig.SurfaceSpec {
	return &rig.SurfaceSpec{Mesh: m, Outline: outline, Color: color}
}

func cubeSpec(p solid.Params) rig.Spec {
	s := p.Must("s")
	return boxNet("cube", s, s, s, ColorCube)
}

func boxSpec(p solid.Params) rig.Spec {
	return boxNet("box", p.Must("p"), p.Must("l"), p.Must("t"), ColorBox)
}

// boxNet rigs a cross-shaped net: a w×d base, four walls of height h and
// a lid hinged to the top of the north wall.
func boxNet(name string, w, d, h float64, color string) rig.Spec {
	rect := func(a, b float64) string { return fmt.Sprintf("rectangle %gx%g", a, b) }
	return rig.Spec{
		Name: name,
		Pieces: []rig.Piece{
			{Name: "base", Surface: surface(kernel.FlatRectangle(w, d), rect(w, d), color)},
			{
				Name: "north", Parent: "base",
				Position: v3.Vec{Z: -d / 2}, Axis: axisX,
				Swing:   eased(0, -math.Pi/2),
				Surface: surface(kernel.Rectangle(w, h), rect(w, h), color),
			},
			{
				Name: "lid", Parent: "north",
				Position: v3.Vec{Y: h}, Axis: axisX,
				Swing:   eased(math.Pi/2, 0),
				Surface: surface(kernel.Rectangle(w, d), rect(w, d), color),
			},
			{
				Name: "south", Parent: "base",
				Position: v3.Vec{Z: d / 2}, Axis: axisX,
				Swing:   eased(0, math.Pi/2),
				Surface: surface(kernel.Rectangle(w, h), rect(w, h), color),
			},
			{
				Name: "east", Parent: "base",
				Position: v3.Vec{X: w / 2}, Axis: axisZ,
				Orient:  v3.Vec{Y: -math.Pi / 2},
				Swing:   eased(0, -math.Pi/2),
				Surface: surface(kernel.Rectangle(d, h), rect(d, h), color),
			},
			{
				Name: "west", Parent: "base",
				Position: v3.Vec{X: -w / 2}, Axis: axisZ,
				Orient:  v3.Vec{Y: math.Pi / 2},
				Swing:   eased(0, math.Pi/2),
				Surface: surface(kernel.Rectangle(d, h), rect(d, h), color),
			},
		},
	}
}

// prismSpec rigs a triangular prism lying on one rectangular face. The
// two end triangles stand on the short edges of the base; the slanted
// wings meet along the ridge.
func prismSpec(p solid.Params) rig.Spec {
	a, ta, tp := p.Must("a"), p.Must("t_alas"), p.Must("t_prisma")
	halfA, halfLen := a/2, tp/2
	slope := math.Hypot(halfA, ta)
	wing := math.Pi - math.Atan2(ta, halfA)
	tri := fmt.Sprintf("triangle %gx%g", a, ta)
	rect := fmt.Sprintf("rectangle %gx%g", slope, tp)
	return rig.Spec{
		Name: "prism",
		Pieces: []rig.Piece{
			{Name: "base", Surface: surface(kernel.FlatRectangle(a, tp), fmt.Sprintf("rectangle %gx%g", a, tp), ColorPrism)},
			{
				Name: "front", Parent: "base",
				Position: v3.Vec{Z: -halfLen}, Axis: axisX,
				Swing:   eased(0, -math.Pi/2),
				Surface: surface(kernel.Triangle(a, ta), tri, ColorPrism),
			},
			{
				Name: "back", Parent: "base",
				Position: v3.Vec{Z: halfLen}, Axis: axisX,
				Orient:  v3.Vec{Y: math.Pi},
				Swing:   eased(0, math.Pi/2),
				Surface: surface(kernel.Triangle(a, ta), tri, ColorPrism),
			},
			{
				Name: "right", Parent: "base",
				Position: v3.Vec{X: halfA}, Axis: axisZ,
				Swing:   eased(wing, 0),
				Surface: surface(kernel.Quad(0, slope, -halfLen, halfLen), rect, ColorPrism),
			},
			{
				Name: "left", Parent: "base",
				Position: v3.Vec{X: -halfA}, Axis: axisZ,
				Swing:   eased(-wing, 0),
				Surface: surface(kernel.Quad(-slope, 0, -halfLen, halfLen), rect, ColorPrism),
			},
		},
	}
}

// pyramidSpec rigs a square pyramid. Each triangular face leans inward
// by π/2 minus the face's base angle when closed.
func pyramidSpec(p solid.Params) rig.Spec {
	s, t := p.Must("s"), p.Must("t")
	half := s / 2
	slant := math.Hypot(half, t)
	tilt := math.Pi/2 - math.Atan2(t, half)
	tri := fmt.Sprintf("triangle %gx%g", s, slant)
	face := func(name string, pos, axis v3.Vec, orientY, dir float64) rig.Piece {
		return rig.Piece{
			Name: name, Parent: "base",
			Position: pos, Axis: axis,
			Orient:  v3.Vec{Y: orientY},
			Swing:   eased(-dir*tilt, dir*math.Pi/2),
			Surface: surface(kernel.Triangle(s, slant), tri, ColorPyramid),
		}
	}
	return rig.Spec{
		Name: "pyramid",
		Pieces: []rig.Piece{
			{Name: "base", Surface: surface(kernel.FlatRectangle(s, s), fmt.Sprintf("rectangle %gx%g", s, s), ColorPyramid)},
			face("north", v3.Vec{Z: -half}, axisX, 0, -1),
			face("south", v3.Vec{Z: half}, axisX, math.Pi, 1),
			face("east", v3.Vec{X: half}, axisZ, -math.Pi/2, -1),
			face("west", v3.Vec{X: -half}, axisZ, math.Pi/2, 1),
		},
	}
}
