package shapes

import (
	"fmt"
	"math"

	"github.com/chazu/jaring/pkg/kernel"
	"github.com/chazu/jaring/pkg/rig"
	"github.com/chazu/jaring/pkg/solid"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const (
	cylinderColumns = 64
	diskSegments    = 64
	coneColumns     = 128
	coneRows        = 32
	// minCurl keeps the curl radius finite when the strip is flat.
	minCurl = 1e-5
	// capSnap pins the caps shut just above fold 0.
	capSnap = 0.01
)

// curl rolls the flat body strip into a tube. At fold 0 the strip bends
// through a full turn, at fold 1 it lies flat. The strip's centre line
// (x = 0) never moves.
type curl struct {
	circumference float64
}

func (c curl) Apply(fold float64, rest, dst *kernel.Mesh) {
	angle := math.Max((1-fold)*2*math.Pi, minCurl)
	effR := c.circumference / angle
	for i := 0; i < rest.VertexCount(); i++ {
		p := rest.Vertex(i)
		theta := p.X / effR
		dst.SetVertex(i, v3.Vec{
			X: effR * math.Sin(theta),
			Y: effR * (1 - math.Cos(theta)),
			Z: p.Z,
		})
	}
	dst.ComputeNormals()
}

// cylinderSpec rigs the body strip on a hinge that stands it upright as
// it curls. The caps hang off the strip's centre line at either end.
func cylinderSpec(p solid.Params) rig.Spec {
	r, t := p.Must("r"), p.Must("t")
	circ := 2 * math.Pi * r
	disk := fmt.Sprintf("disk r=%g", r)
	return rig.Spec{
		Name: "cylinder",
		Pieces: []rig.Piece{
			{Name: "frame"},
			{
				Name: "body", Parent: "frame",
				Axis:  axisX,
				Swing: &rig.Swing{Closed: math.Pi / 2, Flat: 0, Easing: rig.Linear},
				Surface: &rig.SurfaceSpec{
					Mesh:    kernel.Strip(circ, t, cylinderColumns),
					Outline: fmt.Sprintf("strip %gx%g", circ, t),
					Color:   ColorCylinder,
					Morph:   curl{circumference: circ},
				},
			},
			{
				Name: "top", Parent: "body",
				Position: v3.Vec{Z: -t}, Axis: axisX,
				Swing:   &rig.Swing{Closed: math.Pi / 2, Flat: 0, Easing: rig.Linear, SnapBelow: capSnap},
				Surface: surface(kernel.Disk(r, diskSegments, -r), disk, ColorCylinder),
			},
			{
				Name: "bottom", Parent: "body",
				Axis:    axisX,
				Swing:   &rig.Swing{Closed: -math.Pi / 2, Flat: 0, Easing: rig.Linear, SnapBelow: capSnap},
				Surface: surface(kernel.Disk(r, diskSegments, r), disk, ColorCylinder),
			},
		},
	}
}

// coneMorph blends each lattice vertex between its place on the closed
// lateral surface and its place on the flat sector. Lattice column u runs
// around the cone and row w runs from apex to rim.
type coneMorph struct {
	r, t, slant, sector float64
}

func newConeMorph(r, t float64) coneMorph {
	s := math.Hypot(r, t)
	return coneMorph{r: r, t: t, slant: s, sector: 2 * math.Pi * r / s}
}

// net returns the flat-sector position. The sector's apex sits at
// (0, 0, r+s) so its arc midpoint touches the base disk rim at (0, 0, r).
func (c coneMorph) net(u, w float64) v3.Vec {
	beta := (u - 0.5) * c.sector
	d := w * c.slant
	return v3.Vec{X: d * math.Sin(beta), Z: c.r + c.slant - d*math.Cos(beta)}
}

// closed returns the position on the cone with apex (0, t, 0).
func (c coneMorph) closed(u, w float64) v3.Vec {
	alpha := (u - 0.5) * 2 * math.Pi
	rc := w * c.r
	return v3.Vec{X: rc * math.Sin(alpha), Y: (1 - w) * c.t, Z: rc * math.Cos(alpha)}
}

func (c coneMorph) Apply(fold float64, _, dst *kernel.Mesh) {
	stride := coneColumns + 1
	for i := 0; i < dst.VertexCount(); i++ {
		u := float64(i%stride) / coneColumns
		w := float64(i/stride) / coneRows
		a, b := c.closed(u, w), c.net(u, w)
		dst.SetVertex(i, a.Add(b.Sub(a).MulScalar(fold)))
	}
	dst.ComputeNormals()
}

// coneSpec rigs the cone as a fixed base disk plus a lattice that morphs
// between the lateral surface and its developed sector.
func coneSpec(p solid.Params) rig.Spec {
	r, t := p.Must("r"), p.Must("t")
	m := newConeMorph(r, t)
	lattice := kernel.Grid(coneColumns, coneRows)
	m.Apply(1, nil, lattice)
	return rig.Spec{
		Name: "cone",
		Pieces: []rig.Piece{
			{Name: "base", Surface: surface(kernel.Disk(r, diskSegments, 0), fmt.Sprintf("disk r=%g", r), ColorCone)},
			{
				Name: "body", Parent: "base",
				Surface: &rig.SurfaceSpec{
					Mesh:    lattice,
					Outline: fmt.Sprintf("sector r=%g angle=%g", m.slant, m.sector),
					Color:   ColorCone,
					Morph:   m,
				},
			},
		},
	}
}
