package tree

import (
	"github.com/golang/geo/r2"
)

// Carve splits the canvas into axis aligned rectangles at each pivot. A side
// whose child fails the gate, or that has no child, is emitted by the node: the
// whole area when both sides terminate, otherwise the terminal half.
func (t *KDTree) Carve(opts CarveOptions) (*Result, error) {
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

	t.carve(c, t.root, canvasRect(t.width, t.height), 0)
	return c.result, nil
}

// kdHalves splits area at pivot: vertically on even levels, horizontally on odd.
func kdHalves(area r2.Rect, pivot r2.Point, level int) (left, right r2.Rect) {
	lo, hi := area.Lo(), area.Hi()
	if level%2 == 0 {
		return r2.RectFromPoints(lo, r2.Point{X: pivot.X, Y: hi.Y}),
			r2.RectFromPoints(r2.Point{X: pivot.X, Y: lo.Y}, hi)
	}
	return r2.RectFromPoints(lo, r2.Point{X: hi.X, Y: pivot.Y}),
		r2.RectFromPoints(r2.Point{X: lo.X, Y: pivot.Y}, hi)
}

func (t *KDTree) carve(c *carver, idx int, area r2.Rect, level int) {
	n := &t.nodes[idx]
	n.level = level

	left, right := kdHalves(area, n.point.Vec(), level)
	carveLeft := n.left != none && c.gate(&t.nodes[n.left].nodeData, level)
	carveRight := n.right != none && c.gate(&t.nodes[n.right].nodeData, level)

	switch {
	case !carveLeft && !carveRight:
		c.emit(n, &n.nodeData, c.rect(area), level)
	case !carveLeft:
		c.emit(n, &n.nodeData, c.rect(left), level)
	case !carveRight:
		c.emit(n, &n.nodeData, c.rect(right), level)
	}

	if carveLeft {
		t.carve(c, n.left, left, level+1)
	}
	if carveRight {
		t.carve(c, n.right, right, level+1)
	}
}
