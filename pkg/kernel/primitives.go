package kernel

import "math"

// Rectangle returns a w×h quad standing in the XY plane. Its bottom edge
// lies on the X axis centred at the origin, so y spans [0, h]. Walls built
// from it hinge about their bottom edge.
func Rectangle(w, h float64) *Mesh {
	hw := w / 2
	m := &Mesh{
		Vertices: f32(-hw, 0, 0, hw, 0, 0, hw, h, 0, -hw, h, 0),
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
	}
	m.ComputeNormals()
	return m
}

// Triangle returns an isosceles triangle in the XY plane with its base on
// the X axis centred at the origin and its apex at (0, height, 0).
func Triangle(base, height float64) *Mesh {
	hb := base / 2
	m := &Mesh{
		Vertices: f32(-hb, 0, 0, hb, 0, 0, 0, height, 0),
		Indices:  []uint32{0, 1, 2},
	}
	m.ComputeNormals()
	return m
}

// Quad returns an axis-aligned rectangle lying flat in the XZ plane
// covering [x0, x1] × [z0, z1], facing +Y.
func Quad(x0, x1, z0, z1 float64) *Mesh {
	m := &Mesh{
		Vertices: f32(x0, 0, z0, x1, 0, z0, x1, 0, z1, x0, 0, z1),
		Indices:  []uint32{0, 2, 1, 0, 3, 2},
	}
	m.ComputeNormals()
	return m
}

// FlatRectangle returns a w×d rectangle lying flat in the XZ plane,
// centred on the origin.
func FlatRectangle(w, d float64) *Mesh {
	return Quad(-w/2, w/2, -d/2, d/2)
}

// Disk returns a filled circle of radius r in the XZ plane centred at
// (0, 0, offsetZ). Vertex 0 is the centre; rim vertex k sits at angle
// 2πk/segments measured from +X towards -Z.
func Disk(r float64, segments int, offsetZ float64) *Mesh {
	if segments < 3 {
		segments = 3
	}
	m := &Mesh{Vertices: f32(0, 0, offsetZ)}
	for k := 0; k < segments; k++ {
		a := 2 * math.Pi * float64(k) / float64(segments)
		m.Vertices = append(m.Vertices, float32(r*math.Cos(a)), 0, float32(offsetZ-r*math.Sin(a)))
	}
	for k := 0; k < segments; k++ {
		next := (k+1)%segments + 1
		m.Indices = append(m.Indices, 0, uint32(next), uint32(k+1))
	}
	m.ComputeNormals()
	return m
}

// Grid returns a (cols+1)×(rows+1) lattice of vertices, all at the origin,
// with two triangles per cell. Vertex (ix, iy) has index iy*(cols+1)+ix.
// Morphing surfaces fill in the positions.
func Grid(cols, rows int) *Mesh {
	stride := cols + 1
	m := &Mesh{Vertices: make([]float32, stride*(rows+1)*3)}
	for iy := 0; iy < rows; iy++ {
		for ix := 0; ix < cols; ix++ {
			a := uint32(iy*stride + ix)
			b := a + 1
			c := a + uint32(stride)
			d := c + 1
			m.Indices = append(m.Indices, a, c, b, b, c, d)
		}
	}
	m.Normals = make([]float32, len(m.Vertices))
	return m
}

// Strip returns a Grid of cols×1 cells laid flat in the XZ plane with
// x in [-w/2, w/2] and z in [-l, 0]. Row 0 sits at z = -l.
func Strip(w, l float64, cols int) *Mesh {
	m := Grid(cols, 1)
	stride := cols + 1
	for iy := 0; iy <= 1; iy++ {
		for ix := 0; ix <= cols; ix++ {
			i := iy*stride + ix
			x := -w/2 + w*float64(ix)/float64(cols)
			z := -l + l*float64(iy)
			m.Vertices[i*3] = float32(x)
			m.Vertices[i*3+2] = float32(z)
		}
	}
	m.ComputeNormals()
	return m
}

func f32(vals ...float64) []float32 {
	out := make([]float32, len(vals))
	for i, v := range vals {
		out[i] = float32(v)
	}
	return out
}
