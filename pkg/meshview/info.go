package meshview

import (
	"github.com/chazu/primfit/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Info summarizes a mesh.
type Info struct {
	Name         string     `json:"name,omitempty" yaml:"name,omitempty"`
	Vertices     int        `json:"vertices" yaml:"vertices"`
	Faces        int        `json:"faces" yaml:"faces"`
	Volume       float64    `json:"volume" yaml:"volume"`
	CenterOfMass [3]float64 `json:"center_of_mass" yaml:"center_of_mass"`
	Bounds       Bounds     `json:"bounds" yaml:"bounds"`
	Diagonal     float64    `json:"diagonal_length" yaml:"diagonal_length"`
}

// Describe computes vertex and face counts, enclosed volume, vertex
// centroid, bounds, and diagonal length. Volume is the sum of signed
// tetrahedra against the origin, so it is only meaningful for closed,
// consistently wound meshes.
func Describe(m *kernel.Mesh) Info {
	a := FromMesh(m)
	info := Info{
		Name:     m.Name,
		Vertices: m.VertexCount(),
		Faces:    m.TriangleCount(),
		Bounds:   a.Bounds(),
	}
	info.Diagonal = info.Bounds.Diagonal()
	if len(a.points) > 0 {
		c := Centroid(a.points)
		info.CenterOfMass = [3]float64{c.X, c.Y, c.Z}
	}

	var volume float64
	for _, f := range a.faces {
		p0, p1, p2 := a.points[f[0]], a.points[f[1]], a.points[f[2]]
		volume += p0.Dot(p1.Cross(p2)) / 6
	}
	info.Volume = volume
	return info
}

// Centroid returns the mean of the points. It returns the zero vector for
// an empty slice.
func Centroid(points []v3.Vec) v3.Vec {
	if len(points) == 0 {
		return v3.Vec{}
	}
	var sum v3.Vec
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.DivScalar(float64(len(points)))
}
