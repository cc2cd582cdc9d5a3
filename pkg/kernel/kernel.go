// Package kernel defines the abstract geometry kernel interface.
// Scenes are built and detected shapes are rebuilt through this
// interface, so the sdfx backend can be swapped without touching the
// detection or tessellation code.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
// All primitives are centered on the origin; cylinders run along Z.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) (Solid, error)
	RoundedBox(x, y, z, radius float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error)
	Sphere(radius float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees, X then Y then Z

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
