// Package tessellate walks a posed rig and produces world-space triangle
// meshes. One mesh is produced per surface.
package tessellate

import (
	"fmt"

	"github.com/chazu/jaring/pkg/kernel"
	"github.com/chazu/jaring/pkg/rig"
	"github.com/deadsy/sdfx/sdf"
)

// Tessellate produces one world-space mesh per surface of r in its
// current pose, parents before children. Every mesh carries its face
// outline. The rig is never mutated.
func Tessellate(r *rig.Rig) ([]*kernel.Mesh, error) {
	if r == nil || r.NodeCount() == 0 {
		return nil, nil
	}
	var meshes []*kernel.Mesh
	err := r.Walk(func(n *rig.Node, world sdf.M44) error {
		if n.Surface == nil {
			return nil
		}
		m, err := handleSurface(n, world)
		if err != nil {
			return err
		}
		meshes = append(meshes, m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tessellate: rig %s: %w", r.Name, err)
	}
	return meshes, nil
}

func handleSurface(n *rig.Node, world sdf.M44) (*kernel.Mesh, error) {
	src := n.Surface.Current
	if src == nil || src.IsEmpty() {
		return nil, fmt.Errorf("node %q: empty surface", n.Name)
	}
	m := src.Transform(world)
	m.PartName = n.Name
	m.Color = n.Surface.Color
	m.Outline = m.BoundaryEdges()
	return m, nil
}

// Merge concatenates meshes into one, rebasing indices.
func Merge(meshes []*kernel.Mesh) *kernel.Mesh {
	out := &kernel.Mesh{}
	for _, m := range meshes {
		base := uint32(m.VertexCount())
		offset := uint32(out.VertexCount())
		out.Vertices = append(out.Vertices, m.Vertices...)
		out.Normals = append(out.Normals, m.Normals...)
		for _, idx := range m.Indices {
			if idx < base {
				out.Indices = append(out.Indices, idx+offset)
			}
		}
	}
	return out
}
