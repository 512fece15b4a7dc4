package tree

import (
	"math"

	"github.com/lodvec/lodvec/geometry"
)

// splitTolerance is the relative area error accepted when a clip is split.
const splitTolerance = 1e-7

// Carve cuts the canvas around each vantage point. A node splits its clip into
// the part inside its threshold shape, handed to the left child, and the rest,
// handed to the right child. Whatever is not delegated to a carved child is
// emitted by the node itself, so the pieces partition the root clip.
func (t *VPTree) Carve(opts CarveOptions) (*Result, error) {
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

	clip := c.rect(canvasRect(t.width, t.height))
	t.carve(c, t.root, clip, 0)
	return c.result, nil
}

func (t *VPTree) carve(c *carver, idx int, clip geometry.Region, level int) {
	n := &t.nodes[idx]
	n.level = level
	if clip.Empty() {
		return
	}

	shape := c.port.Shape(n.point.Vec(), n.threshold, c.sides)
	inside := c.port.Intersect(clip, shape)
	// clip − shape equals clip − inside but avoids subtracting along edges
	// that inside shares with clip
	outside := c.port.Subtract(clip, shape)

	carveLeft := n.left != none && c.gate(&t.nodes[n.left].nodeData, level) && !inside.Empty()
	carveRight := n.right != none && c.gate(&t.nodes[n.right].nodeData, level) && !outside.Empty()
	if !conserves(clip, inside, outside) {
		// a split that loses or duplicates area would break the partition
		carveLeft, carveRight = false, false
	}

	switch {
	case !carveLeft && !carveRight:
		c.emit(n, &n.nodeData, clip, level)
	case carveLeft && !carveRight:
		c.emit(n, &n.nodeData, outside, level)
	case !carveLeft && carveRight:
		c.emit(n, &n.nodeData, inside, level)
	}

	if carveLeft {
		t.carve(c, n.left, inside, level+1)
	}
	if carveRight {
		t.carve(c, n.right, outside, level+1)
	}
}

// conserves reports whether inside and outside together cover clip.
func conserves(clip, inside, outside geometry.Region) bool {
	area := clip.Area()
	return math.Abs(inside.Area()+outside.Area()-area) <= splitTolerance*math.Max(1, area)
}
