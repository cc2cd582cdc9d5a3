package scene

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// NodeKind enumerates the types of nodes in the scene tree.
type NodeKind int

const (
	NodePrimitive NodeKind = iota // box, rounded box, cylinder, sphere
	NodeTransform                 // translate or rotate of one child
	NodeBoolean                   // union, difference, intersection
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeTransform:
		return "transform"
	case NodeBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Node is one element of the scene tree.
type Node struct {
	Kind     NodeKind `json:"kind"`
	Children []*Node  `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

// BoxData is a centered cuboid.
type BoxData struct {
	Size v3.Vec `json:"size"`
}

// RoundedBoxData is a centered cuboid with rounded edges. Size is the
// outer extent.
type RoundedBoxData struct {
	Size   v3.Vec  `json:"size"`
	Radius float64 `json:"radius"`
}

// Axis is a principal axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "z"
	}
}

// CylinderData is a cylinder centered on the origin running along Axis.
type CylinderData struct {
	Radius float64 `json:"radius"`
	Height float64 `json:"height"`
	Axis   Axis    `json:"axis"`
}

// SphereData is a sphere centered on the origin.
type SphereData struct {
	Radius float64 `json:"radius"`
}

// TransformOp selects the transform a TransformData applies.
type TransformOp int

const (
	OpTranslate TransformOp = iota
	OpRotate
)

func (o TransformOp) String() string {
	if o == OpRotate {
		return "rotate"
	}
	return "translate"
}

// TransformData moves its single child. For OpRotate, Vec holds Euler
// angles in degrees applied X, then Y, then Z.
type TransformData struct {
	Op  TransformOp `json:"op"`
	Vec v3.Vec      `json:"vec"`
}

// BooleanOp selects a CSG combination.
type BooleanOp int

const (
	OpUnion BooleanOp = iota
	OpDifference
	OpIntersection
)

func (o BooleanOp) String() string {
	switch o {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpIntersection:
		return "intersection"
	default:
		return fmt.Sprintf("BooleanOp(%d)", int(o))
	}
}

// BooleanData combines the node's children in order. Difference subtracts
// every later child from the first.
type BooleanData struct {
	Op BooleanOp `json:"op"`
}

func (BoxData) nodeData()        {}
func (RoundedBoxData) nodeData() {}
func (CylinderData) nodeData()   {}
func (SphereData) nodeData()     {}
func (TransformData) nodeData()  {}
func (BooleanData) nodeData()    {}
