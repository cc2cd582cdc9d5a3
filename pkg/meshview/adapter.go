package meshview

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/primfit/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrUnsupportedMesh is wrapped by every CapabilityError.
var ErrUnsupportedMesh = errors.New("meshview: unsupported mesh")

// CapabilityError reports which required read operations a mesh value
// lacks.
type CapabilityError struct {
	Type    string
	Missing []string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("meshview: %s does not provide %s", e.Type, strings.Join(e.Missing, ", "))
}

func (e *CapabilityError) Unwrap() error {
	return ErrUnsupportedMesh
}

// VertexAccessor exposes vertices through an accessor method.
type VertexAccessor interface {
	Vertices() []v3.Vec
}

// FlatVertexAccessor exposes vertices as a flat [x0,y0,z0, x1,...] array.
type FlatVertexAccessor interface {
	FlatVertices() []float32
}

// Bounder reports precomputed axis-aligned bounds.
type Bounder interface {
	Bounds() Bounds
}

// NearestQuerier finds the closest point on the mesh surface.
type NearestQuerier interface {
	ClosestPoint(p v3.Vec) (v3.Vec, error)
}

// Source is the full capability set of an external mesh provider.
type Source interface {
	VertexAccessor
	Bounder
	NearestQuerier
}

// Adapter is the normalized view handed to the detectors. It satisfies
// Source itself.
type Adapter struct {
	points  []v3.Vec
	faces   [][3]uint32
	bounds  Bounds
	nearest NearestQuerier
}

var _ Source = (*Adapter)(nil)

// New adapts a mesh value. Supported inputs are *kernel.Mesh, and any value
// that provides vertices (VertexAccessor or FlatVertexAccessor), Bounder,
// and NearestQuerier.
func New(src any) (*Adapter, error) {
	if src == nil {
		return nil, &CapabilityError{Type: "<nil>", Missing: []string{"vertices", "bounds", "closest point"}}
	}
	if m, ok := src.(*kernel.Mesh); ok {
		if m == nil {
			return nil, &CapabilityError{Type: "*kernel.Mesh", Missing: []string{"vertices", "bounds", "closest point"}}
		}
		return FromMesh(m), nil
	}

	var points []v3.Vec
	var missing []string
	switch v := src.(type) {
	case VertexAccessor:
		points = append([]v3.Vec(nil), v.Vertices()...)
	case FlatVertexAccessor:
		points = unflatten(v.FlatVertices())
	default:
		missing = append(missing, "vertices")
	}
	b, hasBounds := src.(Bounder)
	if !hasBounds {
		missing = append(missing, "bounds")
	}
	q, hasNearest := src.(NearestQuerier)
	if !hasNearest {
		missing = append(missing, "closest point")
	}
	if len(missing) > 0 {
		return nil, &CapabilityError{Type: fmt.Sprintf("%T", src), Missing: missing}
	}

	return &Adapter{
		points:  points,
		bounds:  b.Bounds(),
		nearest: q,
	}, nil
}

// FromMesh adapts a kernel mesh. Bounds are computed from the vertices and
// nearest-point queries scan the mesh triangles.
func FromMesh(m *kernel.Mesh) *Adapter {
	points := unflatten(m.Vertices)
	faces := make([][3]uint32, 0, m.TriangleCount())
	for t := 0; t < m.TriangleCount(); t++ {
		tri := m.Triangle(t)
		if int(tri[0]) >= len(points) || int(tri[1]) >= len(points) || int(tri[2]) >= len(points) {
			continue
		}
		faces = append(faces, tri)
	}
	return &Adapter{
		points:  points,
		faces:   faces,
		bounds:  BoundsOf(points),
		nearest: &triangleSurface{points: points, faces: faces},
	}
}

func unflatten(flat []float32) []v3.Vec {
	points := make([]v3.Vec, len(flat)/3)
	for i := range points {
		points[i] = v3.Vec{
			X: float64(flat[i*3]),
			Y: float64(flat[i*3+1]),
			Z: float64(flat[i*3+2]),
		}
	}
	return points
}

// Vertices returns the normalized vertex list. Callers must not modify it.
func (a *Adapter) Vertices() []v3.Vec {
	return a.points
}

// Bounds returns the axis-aligned bounds.
func (a *Adapter) Bounds() Bounds {
	return a.bounds
}

// ClosestPoint returns the nearest point on the mesh surface to p.
func (a *Adapter) ClosestPoint(p v3.Vec) (v3.Vec, error) {
	return a.nearest.ClosestPoint(p)
}

// Len returns the number of vertices.
func (a *Adapter) Len() int {
	return len(a.points)
}
