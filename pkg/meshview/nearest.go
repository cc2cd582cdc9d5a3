package meshview

import (
	"errors"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrNoSurface is returned by a nearest-point query on a mesh without
// triangles.
var ErrNoSurface = errors.New("meshview: mesh has no triangles")

// triangleSurface answers nearest-surface-point queries by scanning every
// triangle. Queries are O(triangles); detection issues at most three.
type triangleSurface struct {
	points []v3.Vec
	faces  [][3]uint32
}

func (s *triangleSurface) ClosestPoint(p v3.Vec) (v3.Vec, error) {
	if len(s.faces) == 0 {
		return v3.Vec{}, ErrNoSurface
	}
	best := v3.Vec{}
	bestDist := math.Inf(1)
	for _, f := range s.faces {
		q := closestOnTriangle(p, s.points[f[0]], s.points[f[1]], s.points[f[2]])
		if d := q.Sub(p).Length2(); d < bestDist {
			best, bestDist = q, d
		}
	}
	return best, nil
}

// closestOnTriangle returns the point of triangle abc nearest to p, by
// Voronoi-region classification of p against the triangle's vertices and
// edges.
func closestOnTriangle(p, a, b, c v3.Vec) v3.Vec {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		return a.Add(ab.MulScalar(d1 / (d1 - d3)))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		return a.Add(ac.MulScalar(d2 / (d2 - d6)))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).MulScalar(w))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.MulScalar(v)).Add(ac.MulScalar(w))
}
