package detect

import (
	"fmt"
	"math"

	"github.com/chazu/primfit/pkg/meshview"
	"github.com/chazu/primfit/pkg/shape"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const (
	// minCylinderVertices is the smallest sample a cylinder axis is tested on.
	minCylinderVertices = 10
	// minCylinderRadius rejects near-degenerate radii as noise.
	minCylinderRadius = 0.1
	// holeRadiusFraction is how far, as a fraction of the radius, the
	// cylinder center must be from the surface to count as a hole.
	holeRadiusFraction = 0.5
)

// axis is a principal axis index: 0 = X, 1 = Y, 2 = Z.
type axis int

var axisNames = [3]string{"X", "Y", "Z"}

func (a axis) String() string {
	return axisNames[a]
}

func (a axis) unit() v3.Vec {
	var u [3]float64
	u[a] = 1
	return v3.Vec{X: u[0], Y: u[1], Z: u[2]}
}

// component returns the coordinate of p along a.
func (a axis) component(p v3.Vec) float64 {
	switch a {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// project drops the a coordinate of p, keeping the other two in order.
func (a axis) project(p v3.Vec) (u, v float64) {
	switch a {
	case 0:
		return p.Y, p.Z
	case 1:
		return p.X, p.Z
	default:
		return p.X, p.Y
	}
}

// DetectCylinders tests each principal axis in X, Y, Z order and returns a
// cylinder for every axis whose projected vertices lie on a near-uniform
// radius. Axes are independent; a mesh may yield up to three cylinders.
func (d *Detector) DetectCylinders() []shape.Cylinder {
	points := d.mesh.Vertices()
	var cylinders []shape.Cylinder

	for a := axis(0); a < 3; a++ {
		if len(points) < minCylinderVertices {
			continue
		}

		var cu, cv float64
		for _, p := range points {
			u, v := a.project(p)
			cu += u
			cv += v
		}
		cu /= float64(len(points))
		cv /= float64(len(points))

		distances := make([]float64, len(points))
		for i, p := range points {
			u, v := a.project(p)
			distances[i] = math.Hypot(u-cu, v-cv)
		}
		mean, std := meanStd(distances)

		accepted := uniform(mean, std, d.tolerance) && mean > minCylinderRadius
		d.log.Debug("cylinder axis", "axis", a, "mean", mean, "std", std, "accepted", accepted)
		if !accepted {
			continue
		}

		lo, hi := math.Inf(1), math.Inf(-1)
		for _, p := range points {
			c := a.component(p)
			lo = math.Min(lo, c)
			hi = math.Max(hi, c)
		}

		// The center is the centroid of all vertices, not the projected
		// centroid of this axis.
		center := meshview.Centroid(points)
		cylinders = append(cylinders, shape.Cylinder{
			Center:     center,
			Radius:     mean,
			Height:     hi - lo,
			Axis:       a.unit(),
			IsNegative: d.isHole(center, mean),
		})
	}
	return cylinders
}

// isHole reports whether a cylinder centered at center is empty space: its
// center lies more than half a radius from the surface. Any failure of the
// surface query classifies the cylinder as solid.
func (d *Detector) isHole(center v3.Vec, radius float64) (hole bool) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Warn("closest point query panicked", "err", fmt.Sprint(r))
			hole = false
		}
	}()

	nearest, err := d.mesh.ClosestPoint(center)
	if err != nil {
		d.log.Debug("closest point query failed", "err", err)
		return false
	}
	return center.Sub(nearest).Length() > radius*holeRadiusFraction
}
