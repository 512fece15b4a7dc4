// Package sample defines the per-pixel sample point that every tree, layer and
// exporter operates on.
package sample

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
)

// MaxChannel is the top of the 0-255 scale that the scalar channels use.
const MaxChannel = 255.0

// Point is a single sampled pixel. Points are shared by pointer between layers
// and trees and are treated as immutable once created, with the exception of the
// quantized color assigned by a palette reducer.
type Point struct {
	X, Y int

	LOD                float64
	Depth              float64
	Matting            float64
	SaliencyAttention  float64
	SaliencyObjectness float64

	Normal  r3.Vector
	Segment [3]uint8
	Color   colorful.Color

	quantized    colorful.Color
	hasQuantized bool
}

// NewPoint returns a point at (x, y) with the given color and LOD. All other
// channels are zero.
func NewPoint(x, y int, lod float64, c colorful.Color) *Point {
	return &Point{X: x, Y: y, LOD: lod, Color: c}
}

// Vec returns the position of the point as a planar vector.
func (p *Point) Vec() r2.Point {
	return r2.Point{X: float64(p.X), Y: float64(p.Y)}
}

// Dist returns the euclidean distance between two points.
func (p *Point) Dist(other *Point) float64 {
	return p.DistTo(other.Vec())
}

// DistTo returns the euclidean distance between the point and v.
func (p *Point) DistTo(v r2.Point) float64 {
	return math.Hypot(float64(p.X)-v.X, float64(p.Y)-v.Y)
}

// SetQuantizedColor records the palette color for the point.
func (p *Point) SetQuantizedColor(c colorful.Color) {
	p.quantized = c
	p.hasQuantized = true
}

// QuantizedColor returns the palette color if one was assigned.
func (p *Point) QuantizedColor() (colorful.Color, bool) {
	return p.quantized, p.hasQuantized
}

// DisplayColor is the quantized color when present, otherwise the sampled one.
func (p *Point) DisplayColor() colorful.Color {
	if p.hasQuantized {
		return p.quantized
	}
	return p.Color
}

// Attribute returns the channel selected by c.
func (p *Point) Attribute(c Criterion) float64 {
	switch c {
	case CriterionLOD:
		return p.LOD
	case CriterionDepth:
		return p.Depth
	case CriterionMatting:
		return p.Matting
	case CriterionSaliencyAttention:
		return p.SaliencyAttention
	case CriterionSaliencyObjectness:
		return p.SaliencyObjectness
	default:
		return math.NaN()
	}
}

// Vecs returns the positions of the given points.
func Vecs(points []*Point) []r2.Point {
	out := make([]r2.Point, 0, len(points))
	for _, p := range points {
		out = append(out, p.Vec())
	}
	return out
}
