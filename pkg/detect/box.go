package detect

import (
	"math"

	"github.com/chazu/primfit/pkg/shape"
)

// boxCornerFraction is the share of vertices that must sit near a
// bounding-box corner for the mesh to count as a box.
const boxCornerFraction = 0.3

// DetectBoxes reports the whole mesh as one axis-aligned box when it is
// box-shaped. No orientation is estimated.
func (d *Detector) DetectBoxes() []shape.Box {
	if !d.isBoxShaped() {
		return nil
	}
	b := d.mesh.Bounds()
	return []shape.Box{{
		Center:     b.Center(),
		Dimensions: b.Size(),
	}}
}

// isBoxShaped counts vertices closer than the tolerance (an absolute
// distance here) to their nearest bounding-box corner.
func (d *Detector) isBoxShaped() bool {
	points := d.mesh.Vertices()
	if len(points) == 0 {
		return false
	}
	corners := d.mesh.Bounds().Corners()

	near := 0
	for _, p := range points {
		best := math.Inf(1)
		for _, c := range corners {
			best = math.Min(best, p.Sub(c).Length())
		}
		if best < d.tolerance {
			near++
		}
	}

	fraction := float64(near) / float64(len(points))
	d.log.Debug("box test", "near_corner", near, "vertices", len(points), "fraction", fraction)
	return fraction > boxCornerFraction
}
