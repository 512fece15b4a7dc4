package tree

import (
	"github.com/lodvec/lodvec/sample"
	"github.com/lodvec/lodvec/utils"
)

// VPNode is a node of a vantage-point tree. Points closer to the vantage point
// than Threshold live in the left subtree, the rest in the right one.
type VPNode struct {
	nodeData
	tree *VPTree

	threshold           float64
	left, right, parent int
	isLeftChild         bool
}

func (n *VPNode) isNode() {}

// Threshold is the median distance from the vantage point to the points below it.
func (n *VPNode) Threshold() float64 {
	return n.threshold
}

// Left returns the inside child or nil.
func (n *VPNode) Left() *VPNode {
	return n.tree.node(n.left)
}

// Right returns the outside child or nil.
func (n *VPNode) Right() *VPNode {
	return n.tree.node(n.right)
}

// Parent returns the parent node or nil for the root.
func (n *VPNode) Parent() *VPNode {
	return n.tree.node(n.parent)
}

// IsLeftChild reports whether the node hangs on its parent's left side.
func (n *VPNode) IsLeftChild() bool {
	return n.isLeftChild
}

// Children returns the existing children, left first.
func (n *VPNode) Children() []Node {
	var out []Node
	if l := n.Left(); l != nil {
		out = append(out, l)
	}
	if r := n.Right(); r != nil {
		out = append(out, r)
	}
	return out
}

// VPTree is a vantage-point tree over sample positions.
type VPTree struct {
	mode          ColorMode
	nodes         []VPNode
	root          int
	built         bool
	width, height int
}

// NewVPTree returns an empty, unbuilt vantage-point tree.
func NewVPTree(mode ColorMode) *VPTree {
	return &VPTree{mode: mode, root: none}
}

// Shape returns ShapeVP.
func (t *VPTree) Shape() Shape {
	return ShapeVP
}

// ColorMode returns the color aggregation mode.
func (t *VPTree) ColorMode() ColorMode {
	return t.mode
}

func (t *VPTree) node(idx int) *VPNode {
	if idx == none {
		return nil
	}
	return &t.nodes[idx]
}

// Root returns the root node or nil.
func (t *VPTree) Root() Node {
	if t.root == none {
		return nil
	}
	return &t.nodes[t.root]
}

// VPRoot is Root with the concrete node type.
func (t *VPTree) VPRoot() *VPNode {
	return t.node(t.root)
}

// Build picks a random vantage point from the current subset, splits the rest at
// their median distance and repeats on both halves. The left half is always
// finished before the right one, so random draws happen in pre-order.
func (t *VPTree) Build(points []*sample.Point, width, height int, src Source) error {
	t.nodes = t.nodes[:0]
	t.root = none
	t.width, t.height = width, height
	t.built = true

	type task struct {
		points []*sample.Point
		parent int
		isLeft bool
	}
	stack := []task{{points: append([]*sample.Point(nil), points...), parent: none}}
	for len(stack) > 0 {
		tk := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(tk.points) == 0 {
			continue
		}

		i := int(src.Float64() * float64(len(tk.points)))
		vp := tk.points[i]
		rest := append(tk.points[:i:i], tk.points[i+1:]...)

		dists := make([]float64, len(rest))
		for j, p := range rest {
			dists[j] = vp.Dist(p)
		}
		mu := 0.0
		if len(rest) > 0 {
			mu = utils.SelectKth(append([]float64(nil), dists...), len(rest)/2)
		}

		var inside, outside []*sample.Point
		for j, p := range rest {
			if dists[j] < mu {
				inside = append(inside, p)
			} else {
				outside = append(outside, p)
			}
		}

		idx := len(t.nodes)
		t.nodes = append(t.nodes, VPNode{
			nodeData:    newNodeData(vp),
			threshold:   mu,
			left:        none,
			right:       none,
			parent:      tk.parent,
			isLeftChild: tk.isLeft,
		})
		switch {
		case tk.parent == none:
			t.root = idx
		case tk.isLeft:
			t.nodes[tk.parent].left = idx
		default:
			t.nodes[tk.parent].right = idx
		}

		stack = append(stack,
			task{points: outside, parent: idx},
			task{points: inside, parent: idx, isLeft: true},
		)
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

func (t *VPTree) childIndices(idx int, buf []int) []int {
	n := &t.nodes[idx]
	if n.left != none {
		buf = append(buf, n.left)
	}
	if n.right != none {
		buf = append(buf, n.right)
	}
	return buf
}

func (t *VPTree) preOrder(fn func(idx int)) {
	preOrder(t.root, t.childIndices, fn)
}

// Traverse returns every node in pre-order.
func (t *VPTree) Traverse() []Node {
	out := make([]Node, 0, len(t.nodes))
	t.preOrder(func(idx int) { out = append(out, &t.nodes[idx]) })
	return out
}

// Walk visits every node in pre-order.
func (t *VPTree) Walk(fn func(Node)) {
	t.preOrder(func(idx int) { fn(&t.nodes[idx]) })
}
