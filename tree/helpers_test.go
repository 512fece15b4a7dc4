package tree

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"go.viam.com/test"

	"github.com/lodvec/lodvec/sample"
)

const (
	testWidth  = 64
	testHeight = 48
)

// randomPoints returns n points with distinct positions on the test canvas.
func randomPoints(seed string, n int) []*sample.Point {
	rng := NewRandom(seed)
	seen := map[[2]int]bool{}
	points := make([]*sample.Point, 0, n)
	for len(points) < n {
		x, y := rng.IntN(testWidth), rng.IntN(testHeight)
		if seen[[2]int{x, y}] {
			continue
		}
		seen[[2]int{x, y}] = true
		c := colorful.Color{R: rng.Float64(), G: rng.Float64(), B: rng.Float64()}
		points = append(points, sample.NewPoint(x, y, float64(rng.IntN(256)), c))
	}
	return points
}

func allShapes() []Shape {
	return []Shape{ShapeVP, ShapeKD, ShapeQuad}
}

func buildTest(t *testing.T, shape Shape, points []*sample.Point, seed string) Tree {
	t.Helper()
	tr, err := Build(shape, ColorMedian, points, testWidth, testHeight, NewRandom(seed))
	test.That(t, err, test.ShouldBeNil)
	return tr
}

// pointMultiset counts pointers so duplicates are visible.
func pointMultiset(points []*sample.Point) map[*sample.Point]int {
	out := map[*sample.Point]int{}
	for _, p := range points {
		out[p]++
	}
	return out
}
