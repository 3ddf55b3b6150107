// Package kernel holds the triangle mesh type shared by every stage of the
// fold pipeline and the abstract solid kernel used to build reference
// solids. Reference solids are the closed shapes a net must reproduce when
// fully folded; the sdfx subpackage implements them as signed distance
// fields.
package kernel

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
	// Distance returns the signed distance from p to the surface.
	// Negative inside, zero on the surface.
	Distance(p [3]float64) float64
}

// Kernel builds reference solids.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid
	Cone(height, radius float64) Solid
	TriangularPrism(base, height, length float64) Solid

	// Boolean operations
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
