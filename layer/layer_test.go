package layer

import (
	"context"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
	"go.viam.com/test"

	"github.com/lodvec/lodvec/geometry"
	"github.com/lodvec/lodvec/logging"
	"github.com/lodvec/lodvec/sample"
	"github.com/lodvec/lodvec/tree"
)

func gridPoints(width, height int) []*sample.Point {
	var points []*sample.Point
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x += 2 {
			p := sample.NewPoint(x, y, float64((x*7+y*13)%256), colorful.Color{R: float64(x) / float64(width)})
			p.Depth = float64(x * 255 / width)
			p.Matting = float64(y * 255 / height)
			points = append(points, p)
		}
	}
	return points
}

func TestFilterFullRange(t *testing.T) {
	points := gridPoints(32, 32)
	for _, c := range sample.Criteria() {
		matched, remaining := Filter(points, c, 0, 255, false)
		test.That(t, matched, test.ShouldResemble, points)
		test.That(t, remaining, test.ShouldBeEmpty)
	}
}

func TestFilter(t *testing.T) {
	points := gridPoints(32, 32)

	t.Run("split", func(t *testing.T) {
		matched, remaining := Filter(points, sample.CriterionDepth, 0, 100, false)
		test.That(t, len(matched)+len(remaining), test.ShouldEqual, len(points))
		for _, p := range matched {
			test.That(t, p.Depth, test.ShouldBeLessThanOrEqualTo, 100)
		}
		for _, p := range remaining {
			test.That(t, p.Depth, test.ShouldBeGreaterThan, 100)
		}
	})

	t.Run("inclusive bounds", func(t *testing.T) {
		matched, _ := Filter(points, sample.CriterionDepth, points[1].Depth, points[1].Depth, false)
		test.That(t, matched, test.ShouldContain, points[1])
	})

	t.Run("keep", func(t *testing.T) {
		matched, remaining := Filter(points, sample.CriterionLOD, 0, 127, true)
		test.That(t, len(matched), test.ShouldBeGreaterThan, 0)
		test.That(t, remaining, test.ShouldResemble, points)
	})

	t.Run("inverted range", func(t *testing.T) {
		matched, remaining := Filter(points, sample.CriterionLOD, 200, 100, false)
		test.That(t, matched, test.ShouldBeEmpty)
		test.That(t, remaining, test.ShouldResemble, points)
	})
}

func TestLayer(t *testing.T) {
	points := gridPoints(32, 32)
	l := New(Config{Shape: tree.ShapeKD, Criterion: sample.CriterionMatting, From: 0, To: 128}, points)
	test.That(t, l.Config().MaxLevel, test.ShouldEqual, DefaultMaxLevel)
	test.That(t, len(l.Points())+len(l.Remaining()), test.ShouldEqual, len(points))

	maxLOD := 0.0
	for _, p := range l.Points() {
		if p.LOD > maxLOD {
			maxLOD = p.LOD
		}
	}
	test.That(t, l.MaxLOD(), test.ShouldEqual, maxLOD)

	_, err := l.Carve(nil, tree.ShapeCircle)
	test.That(t, err, test.ShouldEqual, tree.ErrNotBuilt)

	test.That(t, l.Build(32, 32, tree.NewRandom("layer")), test.ShouldBeNil)
	test.That(t, l.Tree().Root(), test.ShouldNotBeNil)
	res, err := l.Carve(nil, tree.ShapeCircle)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(res.Pieces), test.ShouldBeGreaterThan, 0)
	test.That(t, l.Result(), test.ShouldEqual, res)
}

func TestLayerClip(t *testing.T) {
	points := gridPoints(32, 32)
	port := geometry.NewPolygonPort()

	t.Run("hull", func(t *testing.T) {
		l := New(Config{Shape: tree.ShapeQuad, From: 0, To: 255, ClipToHull: true}, points)
		clip := l.ClipRegion(port)
		test.That(t, clip, test.ShouldNotBeNil)
		// grid points span 0..30 on both axes
		test.That(t, clip.Area(), test.ShouldAlmostEqual, 900)
	})

	t.Run("explicit and hull", func(t *testing.T) {
		explicit := geometry.RectRegion(r2.Point{X: 0, Y: 0}, r2.Point{X: 10, Y: 10})
		l := New(Config{Shape: tree.ShapeQuad, From: 0, To: 255, ClipToHull: true, Clip: &explicit}, points)
		clip := l.ClipRegion(port)
		test.That(t, clip.Area(), test.ShouldAlmostEqual, 100, 1e-6)
	})

	t.Run("degenerate hull", func(t *testing.T) {
		line := []*sample.Point{
			sample.NewPoint(0, 0, 10, colorful.Color{}),
			sample.NewPoint(5, 5, 10, colorful.Color{}),
		}
		l := New(Config{Shape: tree.ShapeVP, From: 0, To: 255, ClipToHull: true}, line)
		test.That(t, l.ClipRegion(port), test.ShouldBeNil)
	})

	t.Run("none", func(t *testing.T) {
		l := New(Config{Shape: tree.ShapeVP, From: 0, To: 255}, points)
		test.That(t, l.ClipRegion(port), test.ShouldBeNil)
	})
}

func TestPipeline(t *testing.T) {
	logger := logging.NewTestLogger(t)
	points := gridPoints(48, 32)
	configs := []Config{
		{Shape: tree.ShapeQuad, Criterion: sample.CriterionLOD, From: 0, To: 100, ColorMode: tree.ColorMedian, MaxLevel: 6},
		{Shape: tree.ShapeKD, Criterion: sample.CriterionLOD, From: 101, To: 200, ColorMode: tree.ColorAverage, MaxLevel: 6},
		{Shape: tree.ShapeVP, Criterion: sample.CriterionLOD, From: 0, To: 255, ColorMode: tree.ColorPoint, MaxLevel: 4},
	}

	run := func() *Output {
		p := NewPipeline(48, 32, "pipeline seed", configs, logger)
		p.ShapeKind = tree.ShapePolygon
		out, err := p.Run(context.Background(), points)
		test.That(t, err, test.ShouldBeNil)
		return out
	}

	out := run()
	test.That(t, len(out.Layers), test.ShouldEqual, 3)
	total := 0
	for _, l := range out.Layers {
		total += len(l.Points())
		test.That(t, l.Result(), test.ShouldNotBeNil)
	}
	test.That(t, total, test.ShouldEqual, len(points))
	test.That(t, len(out.Layers[2].Remaining()), test.ShouldEqual, 0)
	test.That(t, out.Levels.Valid, test.ShouldBeTrue)
	test.That(t, len(out.Pieces()), test.ShouldBeGreaterThan, 3)

	summary := out.String()
	test.That(t, summary, test.ShouldContainSubstring, "CRITERION")
	test.That(t, summary, test.ShouldContainSubstring, "quad")
	test.That(t, summary, test.ShouldContainSubstring, "101-200")

	again := run()
	test.That(t, len(again.Pieces()), test.ShouldEqual, len(out.Pieces()))
	for i, piece := range out.Pieces() {
		test.That(t, again.Pieces()[i].Node.Point(), test.ShouldEqual, piece.Node.Point())
	}
}

func TestPipelineErrors(t *testing.T) {
	logger := logging.NewTestLogger(t)

	p := NewPipeline(0, 10, "", nil, logger)
	test.That(t, p.Seed, test.ShouldNotBeEmpty)
	_, err := p.Run(context.Background(), nil)
	test.That(t, err, test.ShouldNotBeNil)

	p = NewPipeline(10, 10, "x", []Config{{Shape: tree.Shape(7), From: 0, To: 255}}, logger)
	_, err = p.Run(context.Background(), gridPoints(10, 10))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "layer 0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p = NewPipeline(10, 10, "x", []Config{{Shape: tree.ShapeKD, From: 0, To: 255}}, logger)
	_, err = p.Run(ctx, gridPoints(10, 10))
	test.That(t, err, test.ShouldNotBeNil)
}
