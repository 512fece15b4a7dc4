package hull

import (
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
	"go.viam.com/test"

	"github.com/lodvec/lodvec/sample"
)

func TestConvexHullSquare(t *testing.T) {
	points := []r2.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}, {X: 2, Y: 2}}
	hull := ConvexHull(points)
	test.That(t, hull, test.ShouldResemble, []r2.Point{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4},
	})

	// input order does not matter
	shuffled := []r2.Point{{X: 2, Y: 2}, {X: 0, Y: 4}, {X: 4, Y: 4}, {X: 0, Y: 0}, {X: 4, Y: 0}}
	test.That(t, ConvexHull(shuffled), test.ShouldResemble, hull)
}

func TestConvexHullDegenerate(t *testing.T) {
	test.That(t, ConvexHull(nil), test.ShouldBeNil)
	test.That(t, ConvexHull([]r2.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}), test.ShouldBeNil)

	collinear := []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}
	test.That(t, ConvexHull(collinear), test.ShouldBeNil)

	horizontal := []r2.Point{{X: 3, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	test.That(t, ConvexHull(horizontal), test.ShouldBeNil)
}

func TestConvexHullContainsAllPoints(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	points := make([]r2.Point, 200)
	for i := range points {
		points[i] = r2.Point{X: float64(r.Intn(100)), Y: float64(r.Intn(100))}
	}
	hull := ConvexHull(points)
	test.That(t, len(hull), test.ShouldBeGreaterThanOrEqualTo, 3)

	// every consecutive triple turns the same way
	for i := range hull {
		p1, p2, p3 := hull[i], hull[(i+1)%len(hull)], hull[(i+2)%len(hull)]
		test.That(t, orientation(p1, p2, p3), test.ShouldBeLessThanOrEqualTo, 0)
	}
	// every input point lies on or inside the hull
	for _, p := range points {
		for i := range hull {
			test.That(t, orientation(hull[i], hull[(i+1)%len(hull)], p), test.ShouldBeLessThanOrEqualTo, 0)
		}
	}
}

func TestFromSamplesAndRegion(t *testing.T) {
	var points []*sample.Point
	for _, xy := range [][2]int{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {5, 5}} {
		points = append(points, sample.NewPoint(xy[0], xy[1], 0, colorful.Color{}))
	}
	hull := FromSamples(points)
	test.That(t, len(hull), test.ShouldEqual, 4)

	region := Region(hull)
	test.That(t, region.Area(), test.ShouldAlmostEqual, 100)
	test.That(t, region.Contains(r2.Point{X: 5, Y: 5}), test.ShouldBeTrue)
	test.That(t, Region(nil).Empty(), test.ShouldBeTrue)
}
