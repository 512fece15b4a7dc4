package geometry

import (
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestPolygonPort(t *testing.T) {
	port := NewPolygonPort()
	a := port.Rectangle(r2.Point{X: 0, Y: 0}, r2.Point{X: 10, Y: 10})
	b := port.Rectangle(r2.Point{X: 5, Y: 5}, r2.Point{X: 15, Y: 15})
	far := port.Rectangle(r2.Point{X: 100, Y: 100}, r2.Point{X: 110, Y: 110})

	t.Run("intersect", func(t *testing.T) {
		test.That(t, port.Intersect(a, b).Area(), test.ShouldAlmostEqual, 25, 1e-6)
		test.That(t, port.Intersect(a, far).Empty(), test.ShouldBeTrue)
		test.That(t, port.Intersect(a, Region{}).Empty(), test.ShouldBeTrue)
	})

	t.Run("subtract", func(t *testing.T) {
		diff := port.Subtract(a, b)
		test.That(t, diff.Area(), test.ShouldAlmostEqual, 75, 1e-6)
		test.That(t, diff.Contains(r2.Point{X: 2, Y: 2}), test.ShouldBeTrue)
		test.That(t, diff.Contains(r2.Point{X: 7, Y: 7}), test.ShouldBeFalse)
		test.That(t, port.Subtract(a, far).Area(), test.ShouldAlmostEqual, 100)
		test.That(t, port.Subtract(Region{}, a).Empty(), test.ShouldBeTrue)
	})

	t.Run("union", func(t *testing.T) {
		test.That(t, port.Union(a, b).Area(), test.ShouldAlmostEqual, 175, 1e-6)
		test.That(t, port.Union(a, Region{}).Area(), test.ShouldAlmostEqual, 100)
		test.That(t, port.Union(Region{}, b).Area(), test.ShouldAlmostEqual, 100)
	})

	t.Run("subtract then intersect partitions", func(t *testing.T) {
		circle := port.Shape(r2.Point{X: 5, Y: 5}, 3, 10)
		inside := port.Intersect(a, circle)
		outside := port.Subtract(a, inside)
		test.That(t, inside.Area()+outside.Area(), test.ShouldAlmostEqual, a.Area(), 1e-6)
	})
}

func TestPolygonPortComponents(t *testing.T) {
	port := NewPolygonPort()
	square := func(lo, hi float64) []r2.Point {
		return []r2.Point{{X: lo, Y: lo}, {X: hi, Y: lo}, {X: hi, Y: hi}, {X: lo, Y: hi}}
	}

	t.Run("disjoint rings", func(t *testing.T) {
		clip := NewRegion(square(0, 10), square(20, 30))
		test.That(t, clip.Components(), test.ShouldHaveLength, 2)

		cut := port.Shape(r2.Point{X: 5, Y: 5}, 3, 10)
		inside := port.Intersect(clip, cut)
		outside := port.Subtract(clip, cut)
		test.That(t, inside.Area(), test.ShouldAlmostEqual, cut.Area(), 1e-6)
		test.That(t, outside.Area(), test.ShouldAlmostEqual, 200-cut.Area(), 1e-6)
		test.That(t, outside.Contains(r2.Point{X: 25, Y: 25}), test.ShouldBeTrue)
		test.That(t, outside.Contains(r2.Point{X: 5, Y: 5}), test.ShouldBeFalse)
	})

	t.Run("hole with island", func(t *testing.T) {
		clip := NewRegion(square(0, 30), square(10, 20), square(13, 17))
		parts := clip.Components()
		test.That(t, parts, test.ShouldHaveLength, 2)
		test.That(t, parts[0].Area()+parts[1].Area(), test.ShouldAlmostEqual, 816, 1e-9)
		test.That(t, Join(parts...).Area(), test.ShouldAlmostEqual, clip.Area(), 1e-9)

		cut := port.Shape(r2.Point{X: 25, Y: 25}, 2, 10)
		inside := port.Intersect(clip, cut)
		outside := port.Subtract(clip, cut)
		test.That(t, inside.Area()+outside.Area(), test.ShouldAlmostEqual, 816, 1e-6)
		test.That(t, outside.Contains(r2.Point{X: 15, Y: 15}), test.ShouldBeTrue)
		test.That(t, outside.Contains(r2.Point{X: 11, Y: 11}), test.ShouldBeFalse)
		test.That(t, outside.Contains(r2.Point{X: 5, Y: 5}), test.ShouldBeTrue)
	})

	t.Run("cut inside a hole", func(t *testing.T) {
		clip := NewRegion(square(0, 30), square(10, 20))
		cut := port.Shape(r2.Point{X: 15, Y: 15}, 2, 10)
		test.That(t, port.Intersect(clip, cut).Empty(), test.ShouldBeTrue)
		test.That(t, port.Subtract(clip, cut).Area(), test.ShouldAlmostEqual, 800, 1e-9)
	})

	t.Run("empty", func(t *testing.T) {
		test.That(t, Region{}.Components(), test.ShouldBeEmpty)
	})
}
