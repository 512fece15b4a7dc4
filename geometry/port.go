package geometry

import (
	"math"

	"github.com/golang/geo/r2"
)

// CircleSegments is how many edges approximate a circle.
const CircleSegments = 64

// Port is the set of boolean path operations that carving depends on. All
// operations are pure and deterministic; degenerate results come back as empty
// regions rather than errors.
type Port interface {
	Intersect(a, b Region) Region
	Subtract(a, b Region) Region
	Union(a, b Region) Region
	Rectangle(topLeft, bottomRight r2.Point) Region
	// Shape returns a regular polygon with the given number of sides, or a
	// circle approximation when sides is 0.
	Shape(center r2.Point, radius float64, sides int) Region
}

// PolygonPort implements Port on top of github.com/ctessum/geom polygon clipping.
type PolygonPort struct {
	circleSegments int
}

// NewPolygonPort returns the default geometry port.
func NewPolygonPort() *PolygonPort {
	return &PolygonPort{circleSegments: CircleSegments}
}

// Intersect returns a ∩ b. Components of a and b whose bounds are apart are
// never handed to the clipper.
func (pp *PolygonPort) Intersect(a, b Region) Region {
	if a.Empty() || b.Empty() {
		return Region{}
	}
	if !a.Bounds().Intersects(b.Bounds()) {
		return Region{}
	}
	others := b.Components()
	var parts []Region
	for _, ca := range a.Components() {
		bounds := ca.Bounds()
		for _, cb := range others {
			if !bounds.Intersects(cb.Bounds()) {
				continue
			}
			parts = append(parts, FromPolygonal(ca.poly.Intersection(cb.poly)))
		}
	}
	return Join(parts...)
}

// Subtract returns a − b. Each component of a is cut by the components of b
// that overlap it; a component that nothing overlaps is passed through as is.
func (pp *PolygonPort) Subtract(a, b Region) Region {
	if a.Empty() {
		return Region{}
	}
	if b.Empty() || !a.Bounds().Intersects(b.Bounds()) {
		return a
	}
	others := b.Components()
	parts := make([]Region, 0, len(a.poly))
	for _, ca := range a.Components() {
		rest := ca
		for _, cb := range others {
			if rest.Empty() {
				break
			}
			if !rest.Bounds().Intersects(cb.Bounds()) {
				continue
			}
			if FromPolygonal(rest.poly.Intersection(cb.poly)).Empty() {
				continue
			}
			rest = FromPolygonal(rest.poly.Difference(cb.poly))
		}
		parts = append(parts, rest)
	}
	return Join(parts...)
}

// Union returns a ∪ b.
func (pp *PolygonPort) Union(a, b Region) Region {
	switch {
	case a.Empty():
		return b
	case b.Empty():
		return a
	}
	return FromPolygonal(a.poly.Union(b.poly))
}

// Rectangle returns the axis aligned rectangle between two corners.
func (pp *PolygonPort) Rectangle(topLeft, bottomRight r2.Point) Region {
	return RectRegion(topLeft, bottomRight)
}

// Shape returns a regular polygon centered on center.
func (pp *PolygonPort) Shape(center r2.Point, radius float64, sides int) Region {
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return Region{}
	}
	if sides <= 0 {
		sides = pp.circleSegments
	}
	if sides < 3 {
		return Region{}
	}
	ring := make([]r2.Point, sides)
	for i := range ring {
		theta := 2 * math.Pi * float64(i) / float64(sides)
		ring[i] = r2.Point{
			X: center.X + radius*math.Sin(theta),
			Y: center.Y - radius*math.Cos(theta),
		}
	}
	return NewRegion(ring)
}
