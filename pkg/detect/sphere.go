package detect

import (
	"github.com/chazu/primfit/pkg/meshview"
	"github.com/chazu/primfit/pkg/shape"
)

// DetectSpheres reports the whole mesh as one sphere when every vertex is
// nearly the same distance from the centroid. Unlike cylinders there is no
// minimum radius.
func (d *Detector) DetectSpheres() []shape.Sphere {
	points := d.mesh.Vertices()
	if len(points) == 0 {
		return nil
	}

	center := meshview.Centroid(points)
	distances := make([]float64, len(points))
	for i, p := range points {
		distances[i] = p.Sub(center).Length()
	}
	mean, std := meanStd(distances)

	accepted := uniform(mean, std, d.tolerance)
	d.log.Debug("sphere test", "mean", mean, "std", std, "accepted", accepted)
	if !accepted {
		return nil
	}
	return []shape.Sphere{{Center: center, Radius: mean}}
}
