// Package tessellate turns scenes into triangle meshes, and detected
// shapes back into solids, through a geometry kernel.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/primfit/pkg/kernel"
	"github.com/chazu/primfit/pkg/scad"
	"github.com/chazu/primfit/pkg/scene"
	"github.com/chazu/primfit/pkg/shape"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrNoShapes is returned by Rebuild for an empty shape list.
var ErrNoShapes = errors.New("tessellate: no shapes to rebuild")

// Tessellate builds the union of the scene roots and meshes it. A nil or
// empty scene yields an empty mesh. The scene is never mutated.
func Tessellate(s *scene.Scene, k kernel.Kernel) (*kernel.Mesh, error) {
	if s.IsEmpty() {
		return &kernel.Mesh{}, nil
	}

	solid, err := Solid(s, k)
	if err != nil {
		return nil, err
	}
	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed: %w", err)
	}
	return mesh, nil
}

// Solid builds the union of the scene roots without meshing it.
func Solid(s *scene.Scene, k kernel.Kernel) (kernel.Solid, error) {
	if s.IsEmpty() {
		return nil, errors.New("tessellate: empty scene")
	}
	var out kernel.Solid
	for i, root := range s.Roots {
		solid, err := walkNode(k, root)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %d: %w", i, err)
		}
		out = union(k, out, solid)
	}
	return out, nil
}

func union(k kernel.Kernel, acc, s kernel.Solid) kernel.Solid {
	if acc == nil {
		return s
	}
	return k.Union(acc, s)
}

// walkNode recursively builds the solid for a node.
func walkNode(k kernel.Kernel, n *scene.Node) (kernel.Solid, error) {
	switch n.Kind {
	case scene.NodePrimitive:
		return handlePrimitive(k, n)
	case scene.NodeTransform:
		return handleTransform(k, n)
	case scene.NodeBoolean:
		return handleBoolean(k, n)
	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// handlePrimitive creates geometry for a primitive node.
func handlePrimitive(k kernel.Kernel, n *scene.Node) (kernel.Solid, error) {
	switch data := n.Data.(type) {
	case scene.BoxData:
		return k.Box(data.Size.X, data.Size.Y, data.Size.Z)
	case scene.RoundedBoxData:
		return k.RoundedBox(data.Size.X, data.Size.Y, data.Size.Z, data.Radius)
	case scene.CylinderData:
		solid, err := k.Cylinder(data.Height, data.Radius)
		if err != nil {
			return nil, err
		}
		switch data.Axis {
		case scene.AxisX:
			solid = k.Rotate(solid, 0, 90, 0)
		case scene.AxisY:
			solid = k.Rotate(solid, -90, 0, 0)
		}
		return solid, nil
	case scene.SphereData:
		return k.Sphere(data.Radius)
	default:
		return nil, fmt.Errorf("primitive node has unsupported data type %T", n.Data)
	}
}

// handleTransform unions the children and moves the result.
func handleTransform(k kernel.Kernel, n *scene.Node) (kernel.Solid, error) {
	td, ok := n.Data.(scene.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node has unexpected data type %T", n.Data)
	}
	var solid kernel.Solid
	for _, child := range n.Children {
		s, err := walkNode(k, child)
		if err != nil {
			return nil, err
		}
		solid = union(k, solid, s)
	}
	if solid == nil {
		return nil, fmt.Errorf("%s has no children", td.Op)
	}

	v := td.Vec
	if td.Op == scene.OpRotate {
		return k.Rotate(solid, v.X, v.Y, v.Z), nil
	}
	return k.Translate(solid, v.X, v.Y, v.Z), nil
}

// handleBoolean folds the children left to right.
func handleBoolean(k kernel.Kernel, n *scene.Node) (kernel.Solid, error) {
	bd, ok := n.Data.(scene.BooleanData)
	if !ok {
		return nil, fmt.Errorf("boolean node has unexpected data type %T", n.Data)
	}
	if len(n.Children) == 0 {
		return nil, fmt.Errorf("%s has no children", bd.Op)
	}

	acc, err := walkNode(k, n.Children[0])
	if err != nil {
		return nil, err
	}
	for _, child := range n.Children[1:] {
		s, err := walkNode(k, child)
		if err != nil {
			return nil, err
		}
		switch bd.Op {
		case scene.OpUnion:
			acc = k.Union(acc, s)
		case scene.OpDifference:
			acc = k.Difference(acc, s)
		case scene.OpIntersection:
			acc = k.Intersection(acc, s)
		default:
			return nil, fmt.Errorf("unknown boolean op %v", bd.Op)
		}
	}
	return acc, nil
}

// Rebuild reconstructs the solid an emitted script describes: the union of
// the positive shapes minus each negative shape. With no positive shapes
// the negatives are unioned, as the script renders them bare.
func Rebuild(shapes []shape.Shape, k kernel.Kernel) (kernel.Solid, error) {
	if len(shapes) == 0 {
		return nil, ErrNoShapes
	}
	positive, negative := shape.Partition(shapes)
	if len(positive) == 0 {
		positive, negative = negative, nil
	}

	var acc kernel.Solid
	for _, s := range positive {
		solid, err := shapeSolid(k, s)
		if err != nil {
			return nil, err
		}
		acc = union(k, acc, solid)
	}
	for _, s := range negative {
		solid, err := shapeSolid(k, s)
		if err != nil {
			return nil, err
		}
		acc = k.Difference(acc, solid)
	}
	return acc, nil
}

// shapeSolid builds one shape centered, rotates it, then moves it to its
// position.
func shapeSolid(k kernel.Kernel, s shape.Shape) (kernel.Solid, error) {
	var (
		solid    kernel.Solid
		rotation v3.Vec
		err      error
	)
	switch s := s.(type) {
	case shape.Box:
		solid, err = k.Box(s.Dimensions.X, s.Dimensions.Y, s.Dimensions.Z)
		rotation = s.Rotation
	case shape.RoundedBox:
		solid, err = k.RoundedBox(s.Dimensions.X, s.Dimensions.Y, s.Dimensions.Z, s.CornerRadius)
		rotation = s.Rotation
	case shape.Cylinder:
		solid, err = k.Cylinder(s.Height, s.Radius)
		rotation = scad.CylinderRotation(s.Axis)
	case shape.Sphere:
		solid, err = k.Sphere(s.Radius)
	default:
		return nil, fmt.Errorf("tessellate: unknown shape %T", s)
	}
	if err != nil {
		return nil, fmt.Errorf("tessellate: rebuild %s: %w", s.Kind(), err)
	}

	if rotation != (v3.Vec{}) {
		solid = k.Rotate(solid, rotation.X, rotation.Y, rotation.Z)
	}
	if c := s.Position(); c != (v3.Vec{}) {
		solid = k.Translate(solid, c.X, c.Y, c.Z)
	}
	return solid, nil
}
