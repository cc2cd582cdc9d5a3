package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/primfit/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a vector built by `vec3`.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpNode wraps a scene node so it can be passed between builtins.
type sexpNode struct {
	node *scene.Node
}

func (n *sexpNode) SexpString(ps *zygo.PrintState) string {
	switch d := n.node.Data.(type) {
	case scene.BooleanData:
		return fmt.Sprintf("(%s ...%d)", d.Op, len(n.node.Children))
	case scene.TransformData:
		return fmt.Sprintf("(%s ...)", d.Op)
	default:
		return fmt.Sprintf("(%s %T)", n.node.Kind, d)
	}
}
func (n *sexpNode) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			// Trailing keyword with no value.
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// requireKW returns the value of a mandatory keyword argument.
func (a kwArgs) requireKW(fn, key string) (zygo.Sexp, error) {
	v, ok := a.kw[key]
	if !ok {
		return nil, fmt.Errorf("%s: missing :%s", fn, key)
	}
	return v, nil
}

// positiveKW reads a mandatory keyword argument that must be a number
// greater than zero.
func (a kwArgs) positiveKW(fn, key string) (float64, error) {
	v, err := a.requireKW(fn, key)
	if err != nil {
		return 0, err
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	if !(f > 0) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s: %s must be positive, got %g", fn, key, f)
	}
	return f, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toAxis converts :x, :y, or :z to an axis index.
func toAxis(s zygo.Sexp) (scene.Axis, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected axis keyword (:x, :y, :z): %w", err)
	}
	switch strings.ToLower(name) {
	case "x":
		return scene.AxisX, nil
	case "y":
		return scene.AxisY, nil
	case "z":
		return scene.AxisZ, nil
	}
	return 0, fmt.Errorf("invalid axis %q, expected x, y, or z", name)
}

// toVec3 accepts a `vec3` value or a three-element list or array of
// numbers.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil || len(items) != 3 {
		return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
	}
	return vecFromItems(items)
}

func vecFromItems(items []zygo.Sexp) (v3.Vec, error) {
	var xyz [3]float64
	for i, item := range items {
		f, err := toFloat64(item)
		if err != nil {
			return v3.Vec{}, fmt.Errorf("vec3 component %d: %w", i, err)
		}
		xyz[i] = f
	}
	return v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// toNode extracts the scene node from a sexpNode.
func toNode(s zygo.Sexp) (*scene.Node, error) {
	if n, ok := s.(*sexpNode); ok {
		return n.node, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// toNodes extracts scene nodes from every argument.
func toNodes(fn string, args []zygo.Sexp) ([]*scene.Node, error) {
	nodes := make([]*scene.Node, 0, len(args))
	for i, a := range args {
		n, err := toNode(a)
		if err != nil {
			return nil, fmt.Errorf("%s: child %d: %w", fn, i+1, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

func primitive(data scene.NodeData) zygo.Sexp {
	return &sexpNode{node: &scene.Node{Kind: scene.NodePrimitive, Data: data}}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene builtins into a zygomys environment.
// `model` adds roots to s.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene) {

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires 3 numbers, got %d arguments", len(args))
		}
		v, err := vecFromItems(args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{vec: v}, nil
	})

	// (box :size (vec3 10 20 5))
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		size, err := sizeArg("box", parseArgs(args))
		if err != nil {
			return zygo.SexpNull, err
		}
		return primitive(scene.BoxData{Size: size}), nil
	})

	// (rounded-box :size (vec3 10 20 5) :radius 1)
	env.AddFunction("rounded_box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		size, err := sizeArg("rounded-box", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		v, err := pa.requireKW("rounded-box", "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		r, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rounded-box: radius: %w", err)
		}
		smallest := math.Min(size.X, math.Min(size.Y, size.Z))
		if r < 0 || 2*r > smallest {
			return zygo.SexpNull, fmt.Errorf("rounded-box: radius %g must be between 0 and half the smallest side (%g)", r, smallest/2)
		}
		return primitive(scene.RoundedBoxData{Size: size, Radius: r}), nil
	})

	// (cylinder :radius 2 :height 10 :axis :x)
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		r, err := pa.positiveKW("cylinder", "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		h, err := pa.positiveKW("cylinder", "height")
		if err != nil {
			return zygo.SexpNull, err
		}
		cd := scene.CylinderData{Radius: r, Height: h, Axis: scene.AxisZ}
		if v, ok := pa.kw["axis"]; ok {
			if cd.Axis, err = toAxis(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: axis: %w", err)
			}
		}
		return primitive(cd), nil
	})

	// (sphere :radius 5)
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		r, err := parseArgs(args).positiveKW("sphere", "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		return primitive(scene.SphereData{Radius: r}), nil
	})

	// (translate (vec3 1 0 0) child...) and (rotate (vec3 0 90 0) child...)
	for _, op := range []scene.TransformOp{scene.OpTranslate, scene.OpRotate} {
		env.AddFunction(op.String(), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires a vector and at least one shape", op)
			}
			vec, err := toVec3(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
			}
			children, err := toNodes(op.String(), args[1:])
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpNode{node: &scene.Node{
				Kind:     scene.NodeTransform,
				Children: children,
				Data:     scene.TransformData{Op: op, Vec: vec},
			}}, nil
		})
	}

	// (union a b ...), (difference a b ...), (intersection a b ...)
	for _, op := range []scene.BooleanOp{scene.OpUnion, scene.OpDifference, scene.OpIntersection} {
		env.AddFunction(op.String(), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) < 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires at least one shape", op)
			}
			children, err := toNodes(op.String(), args)
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpNode{node: &scene.Node{
				Kind:     scene.NodeBoolean,
				Children: children,
				Data:     scene.BooleanData{Op: op},
			}}, nil
		})
	}

	// (model shape...)
	env.AddFunction("model", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		roots, err := toNodes("model", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		for _, r := range roots {
			s.AddRoot(r)
		}
		if len(args) == 1 {
			return args[0], nil
		}
		return zygo.SexpNull, nil
	})
}

// sizeArg reads a mandatory :size vector with positive components.
func sizeArg(fn string, pa kwArgs) (v3.Vec, error) {
	v, err := pa.requireKW(fn, "size")
	if err != nil {
		return v3.Vec{}, err
	}
	size, err := toVec3(v)
	if err != nil {
		return v3.Vec{}, fmt.Errorf("%s: size: %w", fn, err)
	}
	if !(size.X > 0 && size.Y > 0 && size.Z > 0) {
		return v3.Vec{}, fmt.Errorf("%s: size must be positive, got (%g %g %g)", fn, size.X, size.Y, size.Z)
	}
	return size, nil
}
