package shapes

import (
	"fmt"
	"math"

	"github.com/chazu/jaring/pkg/kernel"
	"github.com/chazu/jaring/pkg/solid"
	"github.com/chazu/jaring/pkg/tessellate"
)

// Reference builds the closed solid the rig must reproduce at fold 0.
func Reference(t solid.Type, p solid.Params, k kernel.Kernel) (kernel.Solid, error) {
	if err := solid.CheckSchema(t, p); err != nil {
		return nil, fmt.Errorf("shapes: %w", err)
	}
	p = p.Clone().Sanitize()
	switch t {
	case solid.Cube:
		s := p.Must("s")
		return k.Translate(k.Box(s, s, s), -s/2, 0, -s/2), nil
	case solid.Box:
		w, d, h := p.Must("p"), p.Must("l"), p.Must("t")
		return k.Translate(k.Box(w, h, d), -w/2, 0, -d/2), nil
	case solid.Prism:
		return k.TriangularPrism(p.Must("a"), p.Must("t_alas"), p.Must("t_prisma")), nil
	case solid.Pyramid:
		s, h := p.Must("s"), p.Must("t")
		ridge := k.TriangularPrism(s, h, 2*s)
		return k.Intersection(ridge, k.Rotate(ridge, 0, 90, 0)), nil
	case solid.Cylinder:
		r, h := p.Must("r"), p.Must("t")
		upright := k.Rotate(k.Cylinder(h, r, diskSegments), -90, 0, 0)
		return k.Translate(upright, 0, h/2, r), nil
	case solid.Cone:
		r, h := p.Must("r"), p.Must("t")
		upright := k.Rotate(k.Cone(h, r), -90, 0, 0)
		return k.Translate(upright, 0, h/2, 0), nil
	}
	return nil, fmt.Errorf("shapes: %s: %w", t, solid.ErrUnknownShape)
}

// ReferenceMesh tessellates the reference solid of t, for export next to
// the folded net.
func ReferenceMesh(t solid.Type, p solid.Params, k kernel.Kernel) (*kernel.Mesh, error) {
	ref, err := Reference(t, p, k)
	if err != nil {
		return nil, err
	}
	m, err := k.ToMesh(ref)
	if err != nil {
		return nil, fmt.Errorf("shapes: %s reference: %w", t, err)
	}
	return m, nil
}

// CheckClosed poses r at fold 0 and verifies that every surface vertex
// lies on the reference solid within tol times the largest dimension.
// The rig's previous fold value is restored afterwards.
func CheckClosed(r *Rigged, k kernel.Kernel, tol float64) error {
	return CheckClosedAt(r, k, tol, 0)
}

// CheckClosedAt is CheckClosed for an arbitrary fold value.
func CheckClosedAt(r *Rigged, k kernel.Kernel, tol, fold float64) error {
	ref, err := Reference(r.Type, r.Params, k)
	if err != nil {
		return err
	}
	prev := r.Fold()
	r.UpdateFold(fold)
	defer r.UpdateFold(prev)

	meshes, err := tessellate.Tessellate(r.Rig)
	if err != nil {
		return fmt.Errorf("shapes: %w", err)
	}
	scale := 1.0
	for _, v := range r.Params {
		scale = math.Max(scale, v)
	}
	limit := tol * scale
	for _, m := range meshes {
		for i := 0; i < m.VertexCount(); i++ {
			p := m.Vertex(i)
			d := ref.Distance([3]float64{p.X, p.Y, p.Z})
			if math.Abs(d) > limit {
				return fmt.Errorf("shapes: %s surface %q vertex %d at (%.4f, %.4f, %.4f) is %.5f off the closed solid",
					r.Type, m.PartName, i, p.X, p.Y, p.Z, d)
			}
		}
	}
	return nil
}
