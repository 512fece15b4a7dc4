package tree

import (
	"github.com/lodvec/lodvec/sample"
)

// KDNode is a node of a k-d tree. Even levels split on x, odd levels on y.
type KDNode struct {
	nodeData
	tree *KDTree

	left, right int
	depth       int
}

func (n *KDNode) isNode() {}

// Left returns the child holding points at or before the split, or nil.
func (n *KDNode) Left() *KDNode {
	return n.tree.node(n.left)
}

// Right returns the child holding points after the split, or nil.
func (n *KDNode) Right() *KDNode {
	return n.tree.node(n.right)
}

// Depth is the node's distance from the root. It decides the split axis.
func (n *KDNode) Depth() int {
	return n.depth
}

// Children returns the existing children, left first.
func (n *KDNode) Children() []Node {
	var out []Node
	if l := n.Left(); l != nil {
		out = append(out, l)
	}
	if r := n.Right(); r != nil {
		out = append(out, r)
	}
	return out
}

// KDTree is a randomized insertion k-d tree. It is never rebalanced; its shape
// depends only on the shuffled insertion order.
type KDTree struct {
	mode          ColorMode
	nodes         []KDNode
	root          int
	built         bool
	width, height int
}

// NewKDTree returns an empty, unbuilt k-d tree.
func NewKDTree(mode ColorMode) *KDTree {
	return &KDTree{mode: mode, root: none}
}

// Shape returns ShapeKD.
func (t *KDTree) Shape() Shape {
	return ShapeKD
}

// ColorMode returns the color aggregation mode.
func (t *KDTree) ColorMode() ColorMode {
	return t.mode
}

func (t *KDTree) node(idx int) *KDNode {
	if idx == none {
		return nil
	}
	return &t.nodes[idx]
}

// Root returns the root node or nil.
func (t *KDTree) Root() Node {
	if t.root == none {
		return nil
	}
	return &t.nodes[t.root]
}

// Build shuffles a copy of points, roots the tree at the middle element of the
// shuffled order and inserts the others in shuffled order.
func (t *KDTree) Build(points []*sample.Point, width, height int, src Source) error {
	t.nodes = t.nodes[:0]
	t.root = none
	t.width, t.height = width, height
	t.built = true

	if len(points) == 0 {
		return nil
	}

	shuffled := append([]*sample.Point(nil), points...)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := int(src.Float64() * float64(i+1))
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	mid := len(shuffled) / 2
	t.insert(shuffled[mid])
	for i, p := range shuffled {
		if i != mid {
			t.insert(p)
		}
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

func (t *KDTree) insert(p *sample.Point) {
	idx := len(t.nodes)
	if t.root == none {
		t.nodes = append(t.nodes, KDNode{nodeData: newNodeData(p), left: none, right: none})
		t.root = idx
		return
	}

	cur, depth := t.root, 0
	for {
		n := &t.nodes[cur]
		goLeft := p.Y <= n.point.Y
		if depth%2 == 0 {
			goLeft = p.X <= n.point.X
		}
		next := n.right
		if goLeft {
			next = n.left
		}
		if next != none {
			cur = next
			depth++
			continue
		}
		if goLeft {
			n.left = idx
		} else {
			n.right = idx
		}
		t.nodes = append(t.nodes, KDNode{nodeData: newNodeData(p), left: none, right: none, depth: depth + 1})
		return
	}
}

func (t *KDTree) childIndices(idx int, buf []int) []int {
	n := &t.nodes[idx]
	if n.left != none {
		buf = append(buf, n.left)
	}
	if n.right != none {
		buf = append(buf, n.right)
	}
	return buf
}

func (t *KDTree) preOrder(fn func(idx int)) {
	preOrder(t.root, t.childIndices, fn)
}

// Traverse returns every node in pre-order.
func (t *KDTree) Traverse() []Node {
	out := make([]Node, 0, len(t.nodes))
	t.preOrder(func(idx int) { out = append(out, &t.nodes[idx]) })
	return out
}

// Walk visits every node in pre-order.
func (t *KDTree) Walk(fn func(Node)) {
	t.preOrder(func(idx int) { fn(&t.nodes[idx]) })
}
