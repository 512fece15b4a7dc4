package tree

import (
	"github.com/golang/geo/r2"

	"github.com/lodvec/lodvec/geometry"
)

// Carve subdivides the canvas into quadrants. Every quadrant of a node whose
// child fails the gate, or that has no child, is flattened into the node's own
// region and painted with the node's color.
func (t *QuadTree) Carve(opts CarveOptions) (*Result, error) {
	c, err := newCarver(t.built, opts)
	if err != nil {
		return nil, err
	}
	for i := range t.nodes {
		t.nodes[i].resetCarve()
	}
	if t.root == none {
		return c.result, nil
	}

	t.carve(c, t.root, 0)
	return c.result, nil
}

func (t *QuadTree) carve(c *carver, idx int, level int) {
	n := &t.nodes[idx]
	n.level = level

	var carved []int
	var terminal []geometry.Region
	for q, child := range n.children {
		if child != none && c.gate(&t.nodes[child].nodeData, level) && splittable(t.nodes[child].box) {
			carved = append(carved, child)
			continue
		}
		terminal = append(terminal, c.rect(quadrantBox(n.box, Quadrant(q))))
	}
	if len(terminal) > 0 {
		// quadrants tile the box, so joining them needs no boolean union
		c.emit(n, &n.nodeData, geometry.Join(terminal...), level)
	}

	for _, child := range carved {
		t.carve(c, child, level+1)
	}
}

// splittable reports whether the quadrants of box are still large enough to be
// emitted. Stacked duplicate points can nest nodes far below that size.
func splittable(box r2.Rect) bool {
	size := box.Size()
	return size.X*size.Y/4 > 4*geometry.AreaEpsilon
}
