// Package shape defines the parametric primitives produced by detection.
// Shape is a closed sum type: only Box, RoundedBox, Cylinder, and Sphere
// implement it. Values are immutable once constructed.
package shape

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultConfidence is reported by every shape. It is a placeholder and is
// not derived from fit quality.
const DefaultConfidence = 1.0

// Kind discriminates the shape variants. The string values are the
// serialized type tags.
type Kind string

const (
	KindBox        Kind = "box"
	KindRoundedBox Kind = "rounded_box"
	KindCylinder   Kind = "cylinder"
	KindSphere     Kind = "sphere"
)

// Kinds lists every variant in a stable order.
var Kinds = []Kind{KindBox, KindRoundedBox, KindCylinder, KindSphere}

// Shape is implemented by Box, RoundedBox, Cylinder, and Sphere.
type Shape interface {
	Kind() Kind
	// Position is the geometric center.
	Position() v3.Vec
	// Negative reports subtractive material (a hole).
	Negative() bool
	Confidence() float64

	shape() // marker method restricting implementations to this package
}

// Box is an axis-aligned (or Euler-rotated) cuboid.
type Box struct {
	Center     v3.Vec
	Dimensions v3.Vec // full extents along the local axes
	Rotation   v3.Vec // Euler angles in degrees
	IsNegative bool
}

// RoundedBox is a cuboid whose edges and corners are rounded by
// CornerRadius. Dimensions are the outer extents.
type RoundedBox struct {
	Center       v3.Vec
	Dimensions   v3.Vec
	Rotation     v3.Vec
	CornerRadius float64
	IsNegative   bool
}

// Cylinder is a right circular cylinder centered on Center and running
// along the unit vector Axis.
type Cylinder struct {
	Center     v3.Vec
	Radius     float64
	Height     float64
	Axis       v3.Vec
	IsNegative bool
}

// Sphere is a sphere centered on Center.
type Sphere struct {
	Center     v3.Vec
	Radius     float64
	IsNegative bool
}

func (Box) Kind() Kind        { return KindBox }
func (RoundedBox) Kind() Kind { return KindRoundedBox }
func (Cylinder) Kind() Kind   { return KindCylinder }
func (Sphere) Kind() Kind     { return KindSphere }

func (s Box) Position() v3.Vec        { return s.Center }
func (s RoundedBox) Position() v3.Vec { return s.Center }
func (s Cylinder) Position() v3.Vec   { return s.Center }
func (s Sphere) Position() v3.Vec     { return s.Center }

func (s Box) Negative() bool        { return s.IsNegative }
func (s RoundedBox) Negative() bool { return s.IsNegative }
func (s Cylinder) Negative() bool   { return s.IsNegative }
func (s Sphere) Negative() bool     { return s.IsNegative }

func (Box) Confidence() float64        { return DefaultConfidence }
func (RoundedBox) Confidence() float64 { return DefaultConfidence }
func (Cylinder) Confidence() float64   { return DefaultConfidence }
func (Sphere) Confidence() float64     { return DefaultConfidence }

func (Box) shape()        {}
func (RoundedBox) shape() {}
func (Cylinder) shape()   {}
func (Sphere) shape()     {}

// Partition splits shapes into additive and subtractive groups, keeping
// the relative order within each group.
func Partition(shapes []Shape) (positive, negative []Shape) {
	for _, s := range shapes {
		if s.Negative() {
			negative = append(negative, s)
		} else {
			positive = append(positive, s)
		}
	}
	return positive, negative
}
