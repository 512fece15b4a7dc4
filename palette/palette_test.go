package palette

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.viam.com/test"

	"github.com/lodvec/lodvec/logging"
	"github.com/lodvec/lodvec/sample"
	"github.com/lodvec/lodvec/tree"
)

func colorPoints(colors ...colorful.Color) []*sample.Point {
	points := make([]*sample.Point, 0, len(colors))
	for i, c := range colors {
		points = append(points, sample.NewPoint(i, 0, 0, c))
	}
	return points
}

type failingReducer struct{}

func (failingReducer) Reduce([]colorful.Color, int) (Mapping, error) {
	return nil, errors.New("no palette today")
}

func TestKMeansReduce(t *testing.T) {
	var colors []colorful.Color
	// two tight groups, one reddish and one bluish
	for i := 0; i < 10; i++ {
		f := float64(i) / 100
		colors = append(colors, colorful.Color{R: 0.9 + f/2, G: 0.1 + f, B: 0.1})
		colors = append(colors, colorful.Color{R: 0.1, G: 0.1 + f, B: 0.9 + f/2})
	}

	m, err := KMeans{}.Reduce(colors, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(m), test.ShouldEqual, len(colors))

	palette := lo.Uniq(lo.Values(m))
	test.That(t, len(palette), test.ShouldBeLessThanOrEqualTo, 2)
	for _, c := range colors {
		mapped := m.Lookup(c)
		test.That(t, mapped.IsValid(), test.ShouldBeTrue)
	}
}

func TestKMeansSeeded(t *testing.T) {
	var colors []colorful.Color
	for i := 0; i < 40; i++ {
		f := float64(i) / 40
		colors = append(colors, colorful.Color{R: f, G: 1 - f, B: float64(i%7) / 7})
	}

	reduce := func(seed string) Mapping {
		m, err := KMeans{Source: tree.NewRandom(seed)}.Reduce(colors, 5)
		test.That(t, err, test.ShouldBeNil)
		return m
	}
	m := reduce("palette")
	test.That(t, len(m), test.ShouldEqual, len(colors))
	test.That(t, len(lo.Uniq(lo.Values(m))), test.ShouldBeLessThanOrEqualTo, 5)
	test.That(t, len(lo.Uniq(lo.Values(m))), test.ShouldBeGreaterThan, 1)
	for i := 0; i < 3; i++ {
		test.That(t, reduce("palette"), test.ShouldResemble, m)
	}
}

func TestKMeansSmallInput(t *testing.T) {
	colors := []colorful.Color{{R: 1}, {G: 1}, {R: 1}}
	m, err := KMeans{}.Reduce(colors, 4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m, test.ShouldResemble, Mapping{{R: 1}: {R: 1}, {G: 1}: {G: 1}})

	_, err = KMeans{}.Reduce(colors, 0)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestApply(t *testing.T) {
	logger := logging.NewTestLogger(t)
	red, green := colorful.Color{R: 1}, colorful.Color{G: 1}

	t.Run("identity when max count is zero", func(t *testing.T) {
		points := colorPoints(red, green)
		Apply(points, KMeans{}, 0, logger)
		for _, p := range points {
			q, ok := p.QuantizedColor()
			test.That(t, ok, test.ShouldBeTrue)
			test.That(t, q, test.ShouldResemble, p.Color)
		}
	})

	t.Run("identity on failure", func(t *testing.T) {
		points := colorPoints(red, green)
		Apply(points, failingReducer{}, 8, logger)
		for _, p := range points {
			test.That(t, p.DisplayColor(), test.ShouldResemble, p.Color)
		}
	})

	t.Run("reduced", func(t *testing.T) {
		points := colorPoints(red, red, green, colorful.Color{R: 0.95}, colorful.Color{G: 0.95})
		Apply(points, KMeans{}, 2, logger)
		quantized := lo.Uniq(lo.Map(points, func(p *sample.Point, _ int) colorful.Color { return p.DisplayColor() }))
		test.That(t, len(quantized), test.ShouldBeLessThanOrEqualTo, 2)
	})
}
