package kernel

import (
	"github.com/chewxy/math32"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // rig node the surface belongs to
	Color    string    `json:"color,omitempty"`
	Outline  []uint32  `json:"outline,omitempty"` // [a0,b0, a1,b1, ...] face edges
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns vertex i.
func (m *Mesh) Vertex(i int) v3.Vec {
	return v3.Vec{
		X: float64(m.Vertices[i*3]),
		Y: float64(m.Vertices[i*3+1]),
		Z: float64(m.Vertices[i*3+2]),
	}
}

// SetVertex overwrites vertex i.
func (m *Mesh) SetVertex(i int, p v3.Vec) {
	m.Vertices[i*3] = float32(p.X)
	m.Vertices[i*3+1] = float32(p.Y)
	m.Vertices[i*3+2] = float32(p.Z)
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{PartName: m.PartName, Color: m.Color}
	c.Vertices = append([]float32(nil), m.Vertices...)
	c.Normals = append([]float32(nil), m.Normals...)
	c.Indices = append([]uint32(nil), m.Indices...)
	c.Outline = append([]uint32(nil), m.Outline...)
	return c
}

// Transform returns a copy of the mesh with every vertex mapped through m44.
// Normals are recomputed from the transformed positions.
func (m *Mesh) Transform(m44 sdf.M44) *Mesh {
	out := m.Clone()
	for i := 0; i < m.VertexCount(); i++ {
		out.SetVertex(i, m44.MulPosition(m.Vertex(i)))
	}
	out.ComputeNormals()
	return out
}

// Triangle returns the three corners of triangle i.
func (m *Mesh) Triangle(i int) [3]v3.Vec {
	return [3]v3.Vec{
		m.Vertex(int(m.Indices[i*3])),
		m.Vertex(int(m.Indices[i*3+1])),
		m.Vertex(int(m.Indices[i*3+2])),
	}
}

// Bounds returns the axis-aligned bounds of the vertices.
func (m *Mesh) Bounds() (min, max v3.Vec) {
	if m.IsEmpty() {
		return min, max
	}
	min, max = m.Vertex(0), m.Vertex(0)
	for i := 1; i < m.VertexCount(); i++ {
		p := m.Vertex(i)
		min = v3.Vec{X: minf(min.X, p.X), Y: minf(min.Y, p.Y), Z: minf(min.Z, p.Z)}
		max = v3.Vec{X: maxf(max.X, p.X), Y: maxf(max.Y, p.Y), Z: maxf(max.Z, p.Z)}
	}
	return min, max
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// ComputeNormals rebuilds smooth per-vertex normals by accumulating
// area-weighted face normals.
func (m *Mesh) ComputeNormals() {
	n := len(m.Vertices)
	if cap(m.Normals) >= n {
		m.Normals = m.Normals[:n]
		for i := range m.Normals {
			m.Normals[i] = 0
		}
	} else {
		m.Normals = make([]float32, n)
	}
	v := m.Vertices
	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, c := m.Indices[t]*3, m.Indices[t+1]*3, m.Indices[t+2]*3
		ux, uy, uz := v[b]-v[a], v[b+1]-v[a+1], v[b+2]-v[a+2]
		wx, wy, wz := v[c]-v[a], v[c+1]-v[a+1], v[c+2]-v[a+2]
		nx := uy*wz - uz*wy
		ny := uz*wx - ux*wz
		nz := ux*wy - uy*wx
		for _, k := range [3]uint32{a, b, c} {
			m.Normals[k] += nx
			m.Normals[k+1] += ny
			m.Normals[k+2] += nz
		}
	}
	for i := 0; i+2 < n; i += 3 {
		x, y, z := m.Normals[i], m.Normals[i+1], m.Normals[i+2]
		l := math32.Sqrt(x*x + y*y + z*z)
		if l == 0 {
			continue
		}
		m.Normals[i], m.Normals[i+1], m.Normals[i+2] = x/l, y/l, z/l
	}
}

// BoundaryEdges returns the edges used by exactly one triangle as flat
// index pairs, lower index first, in first-seen order. For a flat face
// this is its outline; diagonals shared by two triangles are left out.
func (m *Mesh) BoundaryEdges() []uint32 {
	type edge struct{ a, b uint32 }
	count := make(map[edge]int, len(m.Indices))
	var order []edge
	for i := 0; i+2 < len(m.Indices); i += 3 {
		tri := [3]uint32{m.Indices[i], m.Indices[i+1], m.Indices[i+2]}
		for j := 0; j < 3; j++ {
			e := edge{tri[j], tri[(j+1)%3]}
			if e.a > e.b {
				e.a, e.b = e.b, e.a
			}
			if count[e] == 0 {
				order = append(order, e)
			}
			count[e]++
		}
	}
	out := make([]uint32, 0, 2*len(order))
	for _, e := range order {
		if count[e] == 1 {
			out = append(out, e.a, e.b)
		}
	}
	return out
}
