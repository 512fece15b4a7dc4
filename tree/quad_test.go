package tree

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
	"go.viam.com/test"

	"github.com/lodvec/lodvec/sample"
)

func r2Point(x, y float64) r2.Point {
	return r2.Point{X: x, Y: y}
}

func TestQuadrantOf(t *testing.T) {
	box := canvasRect(8, 8)
	test.That(t, quadrantOf(box, r2Point(1, 1)), test.ShouldEqual, TopLeft)
	test.That(t, quadrantOf(box, r2Point(5, 1)), test.ShouldEqual, TopRight)
	test.That(t, quadrantOf(box, r2Point(1, 5)), test.ShouldEqual, BottomLeft)
	test.That(t, quadrantOf(box, r2Point(5, 5)), test.ShouldEqual, BottomRight)
	// split lines belong to the top and left quadrants
	test.That(t, quadrantOf(box, r2Point(4, 4)), test.ShouldEqual, TopLeft)
	test.That(t, quadrantOf(box, r2Point(4, 6)), test.ShouldEqual, BottomLeft)
	test.That(t, quadrantOf(box, r2Point(6, 4)), test.ShouldEqual, TopRight)

	q := quadrantBox(box, BottomRight)
	test.That(t, q.Lo(), test.ShouldResemble, r2Point(4, 4))
	test.That(t, q.Hi(), test.ShouldResemble, r2Point(8, 8))
}

func TestQuadTreeBuild(t *testing.T) {
	c := colorful.Color{}
	first := sample.NewPoint(1, 1, 10, c)
	second := sample.NewPoint(6, 6, 20, c)
	third := sample.NewPoint(7, 7, 30, c)
	tr := NewQuadTree(ColorAverage)
	test.That(t, tr.Build([]*sample.Point{first, second, third}, 8, 8, nil), test.ShouldBeNil)

	root := tr.Root().(*QuadNode)
	test.That(t, root.Point(), test.ShouldEqual, first)
	test.That(t, root.Child(TopLeft), test.ShouldBeNil)
	br := root.Child(BottomRight)
	test.That(t, br, test.ShouldNotBeNil)
	test.That(t, br.Point(), test.ShouldEqual, second)
	test.That(t, br.Box().Lo(), test.ShouldResemble, r2Point(4, 4))
	deeper := br.Child(BottomRight)
	test.That(t, deeper.Point(), test.ShouldEqual, third)
	test.That(t, deeper.Box().Lo(), test.ShouldResemble, r2Point(6, 6))
	test.That(t, root.NumberOfPoints(), test.ShouldEqual, 3)
	test.That(t, root.LOD(), test.ShouldEqual, 20)
}

func TestQuadTreeDuplicates(t *testing.T) {
	c := colorful.Color{}
	var points []*sample.Point
	for i := 0; i < maxQuadDepth+20; i++ {
		points = append(points, sample.NewPoint(3, 3, 100, c))
	}
	tr := NewQuadTree(ColorAverage)
	test.That(t, tr.Build(points, 8, 8, nil), test.ShouldBeNil)
	test.That(t, tr.Root().NumberOfPoints(), test.ShouldEqual, len(points))
	test.That(t, pointMultiset(tr.Root().Subpoints()), test.ShouldResemble, pointMultiset(points))
	test.That(t, tr.Root().LOD(), test.ShouldAlmostEqual, 100)
}

func TestQuadTraverseOnlyCarved(t *testing.T) {
	points := randomPoints("quad traverse", 60)
	tr := NewQuadTree(ColorMedian)
	test.That(t, tr.Build(points, testWidth, testHeight, nil), test.ShouldBeNil)

	// nothing is carved yet
	test.That(t, tr.Traverse(), test.ShouldBeEmpty)

	res, err := tr.Carve(CarveOptions{MaxLevel: 8})
	test.That(t, err, test.ShouldBeNil)
	nodes := tr.Traverse()
	test.That(t, len(nodes), test.ShouldEqual, len(res.Pieces))
	for _, n := range nodes {
		_, ok := n.Region()
		test.That(t, ok, test.ShouldBeTrue)
	}
	all := 0
	tr.Walk(func(Node) { all++ })
	test.That(t, all, test.ShouldBeGreaterThanOrEqualTo, len(nodes))
}
