package sdfx

import (
	"fmt"

	"github.com/chazu/jaring/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
)

// Triangles flattens meshes into sdfx triangles.
func Triangles(meshes []*kernel.Mesh) []*sdf.Triangle3 {
	var out []*sdf.Triangle3
	for _, m := range meshes {
		for i := 0; i < m.TriangleCount(); i++ {
			c := m.Triangle(i)
			tri := sdf.Triangle3{c[0], c[1], c[2]}
			out = append(out, &tri)
		}
	}
	return out
}

// SaveSTL writes meshes to path as a binary STL file.
func SaveSTL(path string, meshes []*kernel.Mesh) error {
	tris := Triangles(meshes)
	if len(tris) == 0 {
		return fmt.Errorf("sdfx: nothing to export")
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("sdfx: save %s: %w", path, err)
	}
	return nil
}
