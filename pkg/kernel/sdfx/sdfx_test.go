package sdfx

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/chazu/jaring/pkg/kernel"
)

func TestBox(t *testing.T) {
	k := New()
	box := k.Box(10, 5, 2.5)
	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != mesh.TriangleCount()*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), mesh.TriangleCount()*3)
	}
}

func TestBoxMinCorner(t *testing.T) {
	k := New()
	min, max := k.Box(10, 5, 2).BoundingBox()

	const tol = 0.01
	expectMax := [3]float64{10, 5, 2}
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]) > tol {
			t.Errorf("min[%d] = %f, expected 0", i, min[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)
	translated := k.Translate(box, 100, 200, 300)

	min, max := translated.BoundingBox()

	const tol = 0.5
	expectMin := [3]float64{100, 200, 300}
	expectMax := [3]float64{110, 210, 310}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestRotate(t *testing.T) {
	k := New()
	box := k.Box(100, 10, 10)

	// A long box along X rotated 90 degrees around Z should extend along Y instead.
	rotated := k.Rotate(box, 0, 0, 90)
	min, max := rotated.BoundingBox()

	xExtent := max[0] - min[0]
	yExtent := max[1] - min[1]

	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
}

func TestDistanceOnSurface(t *testing.T) {
	k := New()
	tests := []struct {
		name  string
		solid kernel.Solid
		on    [3]float64
		in    [3]float64
	}{
		{"box", k.Box(2, 2, 2), [3]float64{2, 1, 1}, [3]float64{1, 1, 1}},
		{"cylinder", k.Cylinder(4, 1, 0), [3]float64{1, 0, 0}, [3]float64{0, 0, 0}},
		{"cone", k.Cone(4, 2), [3]float64{0, 0, 2}, [3]float64{0, 0, -1}},
		{"prism", k.TriangularPrism(4, 3, 6), [3]float64{0, 3, 0}, [3]float64{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := tt.solid.Distance(tt.on); math.Abs(d) > 1e-6 {
				t.Errorf("Distance(%v) = %g, want 0", tt.on, d)
			}
			if d := tt.solid.Distance(tt.in); d >= 0 {
				t.Errorf("Distance(%v) = %g, want negative", tt.in, d)
			}
		})
	}
}

func TestPyramidByIntersection(t *testing.T) {
	k := New()
	p := k.TriangularPrism(4, 5, 8)
	pyr := k.Intersection(p, k.Rotate(p, 0, 90, 0))
	if d := pyr.Distance([3]float64{0, 5, 0}); math.Abs(d) > 1e-6 {
		t.Errorf("apex distance = %g", d)
	}
	if d := pyr.Distance([3]float64{2, 0, 2}); math.Abs(d) > 1e-6 {
		t.Errorf("base corner distance = %g", d)
	}
	// Halfway up, the cross-section is a 2x2 square.
	if d := pyr.Distance([3]float64{1, 2.5, 1}); math.Abs(d) > 1e-6 {
		t.Errorf("mid edge distance = %g", d)
	}
}

func TestSaveSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.stl")
	m := kernel.Rectangle(2, 2)
	if err := SaveSTL(path, []*kernel.Mesh{m}); err != nil {
		t.Fatalf("SaveSTL: %v", err)
	}
	if got := len(Triangles([]*kernel.Mesh{m})); got != 2 {
		t.Errorf("Triangles() = %d, want 2", got)
	}
}

func TestSaveSTLEmpty(t *testing.T) {
	if err := SaveSTL(filepath.Join(t.TempDir(), "x.stl"), nil); err == nil {
		t.Fatal("expected error for empty export")
	}
}
