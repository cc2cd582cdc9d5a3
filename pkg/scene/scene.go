package scene

// Scene is the top-level tree produced by evaluation. The rendered solid
// is the union of Roots.
type Scene struct {
	Roots []*Node `json:"roots"`
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{}
}

// AddRoot registers a node as a root of the scene.
func (s *Scene) AddRoot(n *Node) {
	s.Roots = append(s.Roots, n)
}

// IsEmpty reports whether the scene has no roots.
func (s *Scene) IsEmpty() bool {
	return s == nil || len(s.Roots) == 0
}

// Walk visits every node depth-first, parents before children. Returning
// false from fn skips the node's children.
func (s *Scene) Walk(fn func(n *Node) bool) {
	if s == nil {
		return
	}
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil || !fn(n) {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range s.Roots {
		walk(r)
	}
}

// NodeCount returns the total number of nodes reachable from the roots.
func (s *Scene) NodeCount() int {
	n := 0
	s.Walk(func(*Node) bool {
		n++
		return true
	})
	return n
}

// Primitives returns every primitive node in walk order.
func (s *Scene) Primitives() []*Node {
	var prims []*Node
	s.Walk(func(n *Node) bool {
		if n.Kind == NodePrimitive {
			prims = append(prims, n)
		}
		return true
	})
	return prims
}
