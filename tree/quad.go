package tree

import (
	"github.com/golang/geo/r2"

	"github.com/lodvec/lodvec/sample"
)

// Quadrant indexes a quadtree child.
type Quadrant int

// The quadrants in child order.
const (
	TopLeft Quadrant = iota
	TopRight
	BottomLeft
	BottomRight
)

// maxQuadDepth bounds subdivision. Distinct integer positions separate long
// before this; points that still collide here are kept on the node.
const maxQuadDepth = 48

// QuadNode is a node of a quadtree. Its box is a quarter of its parent's.
type QuadNode struct {
	nodeData
	tree *QuadTree

	box      r2.Rect
	children [4]int
	depth    int
}

func (n *QuadNode) isNode() {}

// Box is the area the node covers, in image coordinates (y grows downwards).
func (n *QuadNode) Box() r2.Rect {
	return n.box
}

// Child returns the child in quadrant q, or nil.
func (n *QuadNode) Child(q Quadrant) *QuadNode {
	return n.tree.node(n.children[q])
}

// Children returns the existing children in quadrant order.
func (n *QuadNode) Children() []Node {
	var out []Node
	for _, c := range n.children {
		if c != none {
			out = append(out, &n.tree.nodes[c])
		}
	}
	return out
}

// quadrantBox returns the quarter of box for q.
func quadrantBox(box r2.Rect, q Quadrant) r2.Rect {
	lo, hi, mid := box.Lo(), box.Hi(), box.Center()
	switch q {
	case TopLeft:
		return r2.RectFromPoints(lo, mid)
	case TopRight:
		return r2.RectFromPoints(r2.Point{X: mid.X, Y: lo.Y}, r2.Point{X: hi.X, Y: mid.Y})
	case BottomLeft:
		return r2.RectFromPoints(r2.Point{X: lo.X, Y: mid.Y}, r2.Point{X: mid.X, Y: hi.Y})
	default:
		return r2.RectFromPoints(mid, hi)
	}
}

// quadrantOf places p in one of box's quadrants. Points on a split line go to the
// top or left side.
func quadrantOf(box r2.Rect, p r2.Point) Quadrant {
	mid := box.Center()
	q := TopLeft
	if p.X > mid.X {
		q++
	}
	if p.Y > mid.Y {
		q += 2
	}
	return q
}

// QuadTree recursively subdivides the canvas into quadrants.
type QuadTree struct {
	mode          ColorMode
	nodes         []QuadNode
	root          int
	built         bool
	width, height int
}

// NewQuadTree returns an empty, unbuilt quadtree.
func NewQuadTree(mode ColorMode) *QuadTree {
	return &QuadTree{mode: mode, root: none}
}

// Shape returns ShapeQuad.
func (t *QuadTree) Shape() Shape {
	return ShapeQuad
}

// ColorMode returns the color aggregation mode.
func (t *QuadTree) ColorMode() ColorMode {
	return t.mode
}

func (t *QuadTree) node(idx int) *QuadNode {
	if idx == none {
		return nil
	}
	return &t.nodes[idx]
}

// Root returns the root node or nil.
func (t *QuadTree) Root() Node {
	if t.root == none {
		return nil
	}
	return &t.nodes[t.root]
}

// Build inserts points in order. A node keeps the first point that reaches it;
// later points descend into the quadrant that contains them, creating nodes as
// needed. The root covers (0,0)-(width,height). No random draws are made.
func (t *QuadTree) Build(points []*sample.Point, width, height int, src Source) error {
	t.nodes = t.nodes[:0]
	t.root = none
	t.width, t.height = width, height
	t.built = true

	if len(points) == 0 {
		return nil
	}

	t.root = t.newNode(r2.RectFromPoints(r2.Point{}, r2.Point{X: float64(width), Y: float64(height)}), 0)
	for _, p := range points {
		t.insert(p)
	}

	for i := range t.nodes {
		t.nodes[i].tree = t
	}
	aggregate(t.root, t.mode,
		func(i int) *nodeData { return &t.nodes[i].nodeData },
		t.childIndices,
	)
	return nil
}

func (t *QuadTree) newNode(box r2.Rect, depth int) int {
	t.nodes = append(t.nodes, QuadNode{
		nodeData: newNodeData(nil),
		box:      box,
		children: [4]int{none, none, none, none},
		depth:    depth,
	})
	return len(t.nodes) - 1
}

func (t *QuadTree) insert(p *sample.Point) {
	cur := t.root
	for {
		n := &t.nodes[cur]
		if n.point == nil {
			n.point = p
			return
		}
		if n.depth >= maxQuadDepth {
			n.extra = append(n.extra, p)
			return
		}
		q := quadrantOf(n.box, p.Vec())
		next := n.children[q]
		if next == none {
			box, depth := quadrantBox(n.box, q), n.depth+1
			next = t.newNode(box, depth)
			// newNode may have moved the arena
			t.nodes[cur].children[q] = next
		}
		cur = next
	}
}

func (t *QuadTree) childIndices(idx int, buf []int) []int {
	for _, c := range t.nodes[idx].children {
		if c != none {
			buf = append(buf, c)
		}
	}
	return buf
}

// Traverse returns, in pre-order, the nodes that emitted a region during the
// last carve.
func (t *QuadTree) Traverse() []Node {
	var out []Node
	preOrder(t.root, t.childIndices, func(idx int) {
		if t.nodes[idx].hasRegion {
			out = append(out, &t.nodes[idx])
		}
	})
	return out
}

// Walk visits every node in pre-order.
func (t *QuadTree) Walk(fn func(Node)) {
	preOrder(t.root, t.childIndices, func(idx int) { fn(&t.nodes[idx]) })
}
