// Package scad renders detected shapes as an OpenSCAD script.
//
// Positive shapes are unioned. When negative shapes are present as well
// they are unioned separately and subtracted from the positives.
package scad

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/primfit/pkg/shape"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const (
	// EmptyScript is the whole output for an empty shape list.
	EmptyScript = "// No shapes detected"
	// Header starts every non-empty script.
	Header = "// Generated by primfit\n\n"
)

var up = v3.Vec{Z: 1}

// Generate renders shapes in order as a complete script.
func Generate(shapes []shape.Shape) string {
	if len(shapes) == 0 {
		return EmptyScript
	}

	positive, negative := shape.Partition(shapes)

	var sb strings.Builder
	sb.WriteString(Header)
	switch {
	case len(positive) > 0 && len(negative) > 0:
		sb.WriteString("difference() {\n")
		writeGroup(&sb, "  ", positive)
		writeGroup(&sb, "  ", negative)
		sb.WriteString("}\n")
	case len(positive) > 0:
		sb.WriteString("union() {\n")
		writeBodies(&sb, "  ", positive)
		sb.WriteString("}\n")
	default:
		writeBodies(&sb, "", negative)
	}
	return sb.String()
}

// writeGroup writes a union block at indent whose bodies are indented one
// level deeper.
func writeGroup(sb *strings.Builder, indent string, shapes []shape.Shape) {
	sb.WriteString(indent + "union() {\n")
	writeBodies(sb, indent+"  ", shapes)
	sb.WriteString(indent + "}\n")
}

func writeBodies(sb *strings.Builder, indent string, shapes []shape.Shape) {
	for _, s := range shapes {
		sb.WriteString(indent)
		sb.WriteString(strings.ReplaceAll(Body(s), "\n", "\n"+indent))
		sb.WriteByte('\n')
	}
}

// Body renders a single shape without a trailing newline.
func Body(s shape.Shape) string {
	switch s := s.(type) {
	case shape.Box:
		return transform(s.Center, s.Rotation) +
			fmt.Sprintf("  cube(%s, center=true);", vec(s.Dimensions))
	case shape.RoundedBox:
		r := s.CornerRadius
		core := s.Dimensions.Sub(v3.Vec{X: 2 * r, Y: 2 * r, Z: 2 * r})
		return transform(s.Center, s.Rotation) +
			"  minkowski() {\n" +
			fmt.Sprintf("    cube(%s, center=true);\n", vec(core)) +
			fmt.Sprintf("    sphere(r=%.3f);\n", r) +
			"  }"
	case shape.Cylinder:
		out := translate(s.Center)
		if !allClose(s.Axis, up) {
			out += fmt.Sprintf("  rotate(%s)\n", vec(CylinderRotation(s.Axis)))
		}
		return out + fmt.Sprintf("  cylinder(r=%.3f, h=%.3f, center=true);", s.Radius, s.Height)
	case shape.Sphere:
		return translate(s.Center) + fmt.Sprintf("  sphere(r=%.3f);", s.Radius)
	default:
		panic(fmt.Sprintf("scad: unknown shape %T", s))
	}
}

func translate(p v3.Vec) string {
	return fmt.Sprintf("translate(%s)\n", vec(p))
}

// transform is translate plus rotate, dropping rotate for a zero rotation.
func transform(center, rotation v3.Vec) string {
	out := translate(center)
	if !allClose(rotation, v3.Vec{}) {
		out += fmt.Sprintf("  rotate(%s)\n", vec(rotation))
	}
	return out
}

func vec(v v3.Vec) string {
	return fmt.Sprintf("[%.3f, %.3f, %.3f]", v.X, v.Y, v.Z)
}

// CylinderRotation returns the rotation vector, in degrees, that turns +Z
// onto axis: the unit rotation axis scaled by the angle. Parallel and
// antiparallel axes give the zero vector.
func CylinderRotation(axis v3.Vec) v3.Vec {
	axis = axis.Normalize()
	cross := up.Cross(axis)
	if cross.Length() < 1e-6 {
		return v3.Vec{}
	}
	angle := math.Acos(math.Max(-1, math.Min(1, up.Dot(axis))))
	return cross.Normalize().MulScalar(angle * 180 / math.Pi)
}

// allClose compares componentwise with absolute tolerance 1e-8 plus
// relative tolerance 1e-5 of b.
func allClose(a, b v3.Vec) bool {
	near := func(x, y float64) bool {
		return math.Abs(x-y) <= 1e-8+1e-5*math.Abs(y)
	}
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}
