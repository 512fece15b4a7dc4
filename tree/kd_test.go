package tree

import (
	"testing"

	"go.viam.com/test"
)

func TestKDTreeStructure(t *testing.T) {
	points := randomPoints("kd structure", 150)
	tr := NewKDTree(ColorAverage)
	test.That(t, tr.Build(points, testWidth, testHeight, NewRandom("kd")), test.ShouldBeNil)
	test.That(t, len(tr.Traverse()), test.ShouldEqual, len(points))

	tr.Walk(func(node Node) {
		n := node.(*KDNode)
		pivot := n.Point()
		if l := n.Left(); l != nil {
			test.That(t, l.Depth(), test.ShouldEqual, n.Depth()+1)
			for _, p := range l.Subpoints() {
				if n.Depth()%2 == 0 {
					test.That(t, p.X, test.ShouldBeLessThanOrEqualTo, pivot.X)
				} else {
					test.That(t, p.Y, test.ShouldBeLessThanOrEqualTo, pivot.Y)
				}
			}
		}
		if r := n.Right(); r != nil {
			for _, p := range r.Subpoints() {
				if n.Depth()%2 == 0 {
					test.That(t, p.X, test.ShouldBeGreaterThan, pivot.X)
				} else {
					test.That(t, p.Y, test.ShouldBeGreaterThan, pivot.Y)
				}
			}
		}
	})
}

func TestKDTreeSeedChangesShape(t *testing.T) {
	points := randomPoints("kd seeds", 50)
	a := NewKDTree(ColorAverage)
	b := NewKDTree(ColorAverage)
	test.That(t, a.Build(points, testWidth, testHeight, NewRandom("one")), test.ShouldBeNil)
	test.That(t, b.Build(points, testWidth, testHeight, NewRandom("two")), test.ShouldBeNil)

	differs := false
	ta, tb := a.Traverse(), b.Traverse()
	for i := range ta {
		if ta[i].Point() != tb[i].Point() {
			differs = true
			break
		}
	}
	test.That(t, differs, test.ShouldBeTrue)
}

func TestKDHalves(t *testing.T) {
	area := canvasRect(10, 8)
	pivot := r2Point(4, 3)

	left, right := kdHalves(area, pivot, 0)
	test.That(t, left.Hi().X, test.ShouldEqual, 4)
	test.That(t, left.Hi().Y, test.ShouldEqual, 8)
	test.That(t, right.Lo().X, test.ShouldEqual, 4)
	test.That(t, right.Lo().Y, test.ShouldEqual, 0)

	left, right = kdHalves(area, pivot, 1)
	test.That(t, left.Hi().X, test.ShouldEqual, 10)
	test.That(t, left.Hi().Y, test.ShouldEqual, 3)
	test.That(t, right.Lo().X, test.ShouldEqual, 0)
	test.That(t, right.Lo().Y, test.ShouldEqual, 3)
}
