package geometry

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func square(x0, y0, x1, y1 float64) []r2.Point {
	return []r2.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func TestRegionArea(t *testing.T) {
	t.Run("single ring", func(t *testing.T) {
		r := NewRegion(square(0, 0, 4, 3))
		test.That(t, r.Area(), test.ShouldAlmostEqual, 12)
		test.That(t, r.Empty(), test.ShouldBeFalse)
	})

	t.Run("winding does not matter", func(t *testing.T) {
		ring := square(0, 0, 4, 3)
		reversed := []r2.Point{ring[3], ring[2], ring[1], ring[0]}
		test.That(t, NewRegion(reversed).Area(), test.ShouldAlmostEqual, 12)
	})

	t.Run("hole", func(t *testing.T) {
		r := NewRegion(square(0, 0, 10, 10), square(2, 2, 4, 4))
		test.That(t, r.Area(), test.ShouldAlmostEqual, 96)
		test.That(t, r.Contains(r2.Point{X: 3, Y: 3}), test.ShouldBeFalse)
		test.That(t, r.Contains(r2.Point{X: 5, Y: 5}), test.ShouldBeTrue)
	})

	t.Run("degenerate", func(t *testing.T) {
		test.That(t, NewRegion([]r2.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}).Empty(), test.ShouldBeTrue)
		test.That(t, NewRegion([]r2.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}).Empty(), test.ShouldBeTrue)
		test.That(t, Region{}.Empty(), test.ShouldBeTrue)
		test.That(t, Region{}.Area(), test.ShouldEqual, 0)
	})

	t.Run("closing vertex", func(t *testing.T) {
		ring := append(square(0, 0, 2, 2), r2.Point{X: 0, Y: 0})
		r := NewRegion(ring)
		test.That(t, len(r.Rings()[0]), test.ShouldEqual, 4)
		test.That(t, r.Area(), test.ShouldAlmostEqual, 4)
	})
}

func TestRegionBounds(t *testing.T) {
	r := NewRegion(square(1, 2, 5, 7))
	b := r.Bounds()
	test.That(t, b.Lo(), test.ShouldResemble, r2.Point{X: 1, Y: 2})
	test.That(t, b.Hi(), test.ShouldResemble, r2.Point{X: 5, Y: 7})
	test.That(t, Region{}.Bounds().IsEmpty(), test.ShouldBeTrue)
}

func TestJoin(t *testing.T) {
	left := RectRegion(r2.Point{X: 0, Y: 0}, r2.Point{X: 2, Y: 2})
	right := RectRegion(r2.Point{X: 2, Y: 0}, r2.Point{X: 4, Y: 2})
	joined := Join(left, right, Region{})
	test.That(t, len(joined.Rings()), test.ShouldEqual, 2)
	test.That(t, joined.Area(), test.ShouldAlmostEqual, 8)
	test.That(t, joined.Contains(r2.Point{X: 1, Y: 1}), test.ShouldBeTrue)
	test.That(t, joined.Contains(r2.Point{X: 3, Y: 1}), test.ShouldBeTrue)
	test.That(t, joined.Contains(r2.Point{X: 5, Y: 1}), test.ShouldBeFalse)
}

func TestShape(t *testing.T) {
	port := NewPolygonPort()
	center := r2.Point{X: 10, Y: 10}

	circle := port.Shape(center, 5, 0)
	test.That(t, len(circle.Rings()[0]), test.ShouldEqual, CircleSegments)
	// a 64-gon is within half a percent of the true circle area
	test.That(t, circle.Area(), test.ShouldAlmostEqual, math.Pi*25, math.Pi*25*0.005)
	test.That(t, circle.Contains(center), test.ShouldBeTrue)

	decagon := port.Shape(center, 5, 10)
	test.That(t, len(decagon.Rings()[0]), test.ShouldEqual, 10)
	expected := 0.5 * 10 * 25 * math.Sin(2*math.Pi/10)
	test.That(t, decagon.Area(), test.ShouldAlmostEqual, expected)

	test.That(t, port.Shape(center, 0, 10).Empty(), test.ShouldBeTrue)
	test.That(t, port.Shape(center, -1, 0).Empty(), test.ShouldBeTrue)
}
