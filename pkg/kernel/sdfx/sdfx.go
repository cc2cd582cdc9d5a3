// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/primfit/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 100

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a new SdfxKernel with the default mesh resolution.
func New() *SdfxKernel {
	return &SdfxKernel{cells: DefaultMeshCells}
}

// NewWithResolution returns a kernel whose ToMesh uses the given number of
// marching cubes cells along the longest bounding box axis.
func NewWithResolution(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

// Resolution returns the marching cubes cell count.
func (k *SdfxKernel) Resolution() int {
	return k.cells
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box with the given full extents, centered on the origin.
func (k *SdfxKernel) Box(x, y, z float64) (kernel.Solid, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, fmt.Errorf("sdfx: box dimensions must be positive, got %gx%gx%g", x, y, z)
	}
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: box: %w", err)
	}
	return wrap(s), nil
}

// RoundedBox creates a centered box whose edges and corners are rounded
// with the given radius. The outer extents stay x, y, z.
func (k *SdfxKernel) RoundedBox(x, y, z, radius float64) (kernel.Solid, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, fmt.Errorf("sdfx: rounded box dimensions must be positive, got %gx%gx%g", x, y, z)
	}
	if radius < 0 || 2*radius > math.Min(x, math.Min(y, z)) {
		return nil, fmt.Errorf("sdfx: corner radius %g does not fit a %gx%gx%g box", radius, x, y, z)
	}
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx: rounded box: %w", err)
	}
	return wrap(s), nil
}

// Cylinder creates a cylinder along Z, centered on the origin.
func (k *SdfxKernel) Cylinder(height, radius float64) (kernel.Solid, error) {
	if height <= 0 || radius <= 0 {
		return nil, fmt.Errorf("sdfx: cylinder height and radius must be positive, got h=%g r=%g", height, radius)
	}
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: cylinder: %w", err)
	}
	return wrap(s), nil
}

// Sphere creates a sphere centered on the origin.
func (k *SdfxKernel) Sphere(radius float64) (kernel.Solid, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("sdfx: sphere radius must be positive, got %g", radius)
	}
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx: sphere: %w", err)
	}
	return wrap(s), nil
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes,
// applied in that order.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to an indexed triangle mesh using marching cubes.
// Coincident vertices produced by neighbouring cells are welded so the
// result shares vertices between faces.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(sdf3, renderer)
	if len(triangles) == 0 {
		return &kernel.Mesh{}, nil
	}

	vertices := make([]float32, 0, len(triangles)*3)
	indices := make([]uint32, 0, len(triangles)*3)
	welded := make(map[[3]float32]uint32, len(triangles))

	for _, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			key := [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
			idx, ok := welded[key]
			if !ok {
				idx = uint32(len(vertices) / 3)
				welded[key] = idx
				vertices = append(vertices, key[0], key[1], key[2])
			}
			indices = append(indices, idx)
		}
	}

	mesh := &kernel.Mesh{
		Vertices: vertices,
		Indices:  indices,
	}
	mesh.Normals = vertexNormals(mesh)
	return mesh, nil
}

// vertexNormals generates per-vertex normals by averaging the face normals
// of all triangles incident on each vertex.
func vertexNormals(m *kernel.Mesh) []float32 {
	normals := make([]float32, len(m.Vertices))

	for t := 0; t < m.TriangleCount(); t++ {
		tri := m.Triangle(t)
		a := m.Vertex(int(tri[0]))
		b := m.Vertex(int(tri[1]))
		c := m.Vertex(int(tri[2]))

		e1 := v3.Vec{X: b[0] - a[0], Y: b[1] - a[1], Z: b[2] - a[2]}
		e2 := v3.Vec{X: c[0] - a[0], Y: c[1] - a[1], Z: c[2] - a[2]}
		n := e1.Cross(e2)

		for _, idx := range tri {
			normals[idx*3+0] += float32(n.X)
			normals[idx*3+1] += float32(n.Y)
			normals[idx*3+2] += float32(n.Z)
		}
	}

	for i := 0; i < len(normals); i += 3 {
		n := v3.Vec{X: float64(normals[i]), Y: float64(normals[i+1]), Z: float64(normals[i+2])}
		if length := n.Length(); length > 1e-12 {
			normals[i] = float32(n.X / length)
			normals[i+1] = float32(n.Y / length)
			normals[i+2] = float32(n.Z / length)
		}
	}
	return normals
}
