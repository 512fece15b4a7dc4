package tree

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/montanaflynn/stats"

	"github.com/lodvec/lodvec/sample"
)

// colorOf resolves the aggregated color of a node with the given own point and
// subpoints.
func colorOf(mode ColorMode, own *sample.Point, subpoints []*sample.Point) colorful.Color {
	switch mode {
	case ColorMedian:
		return medianColor(subpoints)
	case ColorPoint:
		if own != nil {
			return own.DisplayColor()
		}
		return averageColor(subpoints)
	case ColorAverage:
		return averageColor(subpoints)
	default:
		return averageColor(subpoints)
	}
}

func averageColor(points []*sample.Point) colorful.Color {
	var sum colorful.Color
	n := 0
	for _, p := range points {
		if p == nil {
			continue
		}
		c := p.DisplayColor()
		sum.R += c.R
		sum.G += c.G
		sum.B += c.B
		n++
	}
	if n == 0 {
		return colorful.Color{}
	}
	return colorful.Color{R: sum.R / float64(n), G: sum.G / float64(n), B: sum.B / float64(n)}
}

func medianColor(points []*sample.Point) colorful.Color {
	r := make(stats.Float64Data, 0, len(points))
	g := make(stats.Float64Data, 0, len(points))
	b := make(stats.Float64Data, 0, len(points))
	for _, p := range points {
		if p == nil {
			continue
		}
		c := p.DisplayColor()
		r = append(r, c.R)
		g = append(g, c.G)
		b = append(b, c.B)
	}
	if len(r) == 0 {
		return colorful.Color{}
	}
	// stats.Median only fails on empty input
	mr, _ := stats.Median(r)
	mg, _ := stats.Median(g)
	mb, _ := stats.Median(b)
	return colorful.Color{R: mr, G: mg, B: mb}
}
