package meshview

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Bounds is an axis-aligned bounding box laid out as
// [xmin, xmax, ymin, ymax, zmin, zmax].
type Bounds [6]float64

// BoundsOf computes the bounds of a vertex list. The zero Bounds is
// returned for an empty list.
func BoundsOf(points []v3.Vec) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{
		math.Inf(1), math.Inf(-1),
		math.Inf(1), math.Inf(-1),
		math.Inf(1), math.Inf(-1),
	}
	for _, p := range points {
		b[0] = math.Min(b[0], p.X)
		b[1] = math.Max(b[1], p.X)
		b[2] = math.Min(b[2], p.Y)
		b[3] = math.Max(b[3], p.Y)
		b[4] = math.Min(b[4], p.Z)
		b[5] = math.Max(b[5], p.Z)
	}
	return b
}

// Min returns the minimum corner.
func (b Bounds) Min() v3.Vec {
	return v3.Vec{X: b[0], Y: b[2], Z: b[4]}
}

// Max returns the maximum corner.
func (b Bounds) Max() v3.Vec {
	return v3.Vec{X: b[1], Y: b[3], Z: b[5]}
}

// Center returns the midpoint of the box.
func (b Bounds) Center() v3.Vec {
	return v3.Vec{
		X: (b[0] + b[1]) / 2,
		Y: (b[2] + b[3]) / 2,
		Z: (b[4] + b[5]) / 2,
	}
}

// Size returns the extents along each axis.
func (b Bounds) Size() v3.Vec {
	return v3.Vec{X: b[1] - b[0], Y: b[3] - b[2], Z: b[5] - b[4]}
}

// Diagonal returns the length of the box diagonal.
func (b Bounds) Diagonal() float64 {
	return b.Size().Length()
}

// Corners returns the eight box corners. X varies fastest, then Y, then Z.
func (b Bounds) Corners() [8]v3.Vec {
	var c [8]v3.Vec
	for i := 0; i < 8; i++ {
		c[i] = v3.Vec{
			X: b[i&1],
			Y: b[2+((i>>1)&1)],
			Z: b[4+((i>>2)&1)],
		}
	}
	return c
}
