package detect

import (
	"slices"

	"github.com/charmbracelet/log"
	"github.com/chazu/primfit/pkg/logging"
	"github.com/chazu/primfit/pkg/meshview"
	"github.com/chazu/primfit/pkg/scad"
	"github.com/chazu/primfit/pkg/shape"
)

// DefaultTolerance is the acceptance threshold used when none is given.
const DefaultTolerance = 0.1

// Mesh is the read-only view the detectors consume. *meshview.Adapter
// implements it.
type Mesh = meshview.Source

// Option configures a Detector.
type Option func(*Detector)

// WithTolerance sets the acceptance threshold shared by all passes.
func WithTolerance(tolerance float64) Option {
	return func(d *Detector) {
		d.tolerance = tolerance
	}
}

// WithLogger sets the logger that receives per-pass debug output.
func WithLogger(l *log.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.log = l
		}
	}
}

// Detector runs the primitive passes over one mesh. It keeps the shapes
// found by the last DetectAll and is not safe for concurrent use; use one
// Detector per mesh.
type Detector struct {
	mesh      Mesh
	tolerance float64
	log       *log.Logger
	shapes    Result
}

// New returns a Detector for mesh.
func New(mesh Mesh, opts ...Option) *Detector {
	d := &Detector{
		mesh:      mesh,
		tolerance: DefaultTolerance,
		log:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Tolerance returns the acceptance threshold.
func (d *Detector) Tolerance() float64 {
	return d.tolerance
}

// DetectAll runs the cylinder, box, and sphere passes in that order and
// returns every shape found. Previous results are discarded.
func (d *Detector) DetectAll() Result {
	var found Result
	for _, c := range d.DetectCylinders() {
		found = append(found, c)
	}
	for _, b := range d.DetectBoxes() {
		found = append(found, b)
	}
	for _, s := range d.DetectSpheres() {
		found = append(found, s)
	}
	d.shapes = found
	d.log.Debug("detection finished", "shapes", len(found), "tolerance", d.tolerance)
	return found
}

// Shapes returns a copy of the result of the last DetectAll.
func (d *Detector) Shapes() Result {
	return slices.Clone(d.shapes)
}

// Script renders the shapes of the last DetectAll as a CSG script.
func (d *Detector) Script() string {
	return scad.Generate(d.shapes)
}

// Result is an ordered list of detected shapes: cylinders, then boxes,
// then spheres.
type Result []shape.Shape

// Counts returns the number of shapes of each kind.
func (r Result) Counts() map[shape.Kind]int {
	counts := make(map[shape.Kind]int, len(shape.Kinds))
	for _, k := range shape.Kinds {
		counts[k] = 0
	}
	for _, s := range r {
		counts[s.Kind()]++
	}
	return counts
}

// Positive returns the additive shapes in order.
func (r Result) Positive() []shape.Shape {
	pos, _ := shape.Partition(r)
	return pos
}

// Negative returns the subtractive shapes in order.
func (r Result) Negative() []shape.Shape {
	_, neg := shape.Partition(r)
	return neg
}
