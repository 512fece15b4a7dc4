// Package geometry holds the closed 2-D regions produced by carving and the
// boolean operations used to cut them.
package geometry

import (
	"math"

	"github.com/ctessum/geom"
	"github.com/golang/geo/r2"
)

// AreaEpsilon is the area below which a region is considered degenerate.
const AreaEpsilon = 1e-6

// Region is a closed area described by one or more rings. Rings are combined
// with the even-odd rule, so a ring nested inside another is a hole.
type Region struct {
	poly geom.Polygon
}

// NewRegion builds a region from rings of vertices. Rings with fewer than three
// vertices are dropped. A closing vertex equal to the first one is optional.
func NewRegion(rings ...[]r2.Point) Region {
	poly := make(geom.Polygon, 0, len(rings))
	for _, ring := range rings {
		path := make(geom.Path, 0, len(ring))
		for _, v := range ring {
			path = append(path, geom.Point{X: v.X, Y: v.Y})
		}
		if p := cleanPath(path); p != nil {
			poly = append(poly, p)
		}
	}
	return Region{poly: poly}
}

// FromPolygon wraps a polygon produced by the clipping library.
func FromPolygon(poly geom.Polygon) Region {
	out := make(geom.Polygon, 0, len(poly))
	for _, path := range poly {
		if p := cleanPath(path); p != nil {
			out = append(out, p)
		}
	}
	return Region{poly: out}
}

// FromPolygonal wraps any result of the clipping library.
func FromPolygonal(p geom.Polygonal) Region {
	var poly geom.Polygon
	for _, part := range p.Polygons() {
		poly = append(poly, part...)
	}
	return FromPolygon(poly)
}

// RectRegion returns the axis aligned rectangle spanned by two corners.
func RectRegion(a, b r2.Point) Region {
	rect := r2.RectFromPoints(a, b)
	lo, hi := rect.Lo(), rect.Hi()
	return NewRegion([]r2.Point{
		{X: lo.X, Y: lo.Y},
		{X: hi.X, Y: lo.Y},
		{X: hi.X, Y: hi.Y},
		{X: lo.X, Y: hi.Y},
	})
}

func cleanPath(path geom.Path) geom.Path {
	if len(path) > 1 && path[0] == path[len(path)-1] {
		path = path[:len(path)-1]
	}
	if len(path) < 3 {
		return nil
	}
	return path
}

// Polygon exposes the region in the clipping library's representation.
func (r Region) Polygon() geom.Polygon {
	return r.poly
}

// Rings returns a copy of the region's rings.
func (r Region) Rings() [][]r2.Point {
	rings := make([][]r2.Point, 0, len(r.poly))
	for _, path := range r.poly {
		ring := make([]r2.Point, 0, len(path))
		for _, v := range path {
			ring = append(ring, r2.Point{X: v.X, Y: v.Y})
		}
		rings = append(rings, ring)
	}
	return rings
}

// Area returns the even-odd area of the region. Each ring counts positively or
// negatively depending on how many other rings enclose it.
func (r Region) Area() float64 {
	total := 0.0
	for i, path := range r.poly {
		a := math.Abs(signedArea(path))
		if a == 0 {
			continue
		}
		probe, ok := interiorProbe(path)
		if !ok {
			total += a
			continue
		}
		depth := 0
		for j, other := range r.poly {
			if i != j && ringContains(other, probe) {
				depth++
			}
		}
		if depth%2 == 0 {
			total += a
		} else {
			total -= a
		}
	}
	return math.Max(0, total)
}

// Empty reports whether the region has no meaningful area.
func (r Region) Empty() bool {
	return len(r.poly) == 0 || r.Area() < AreaEpsilon
}

// Bounds returns the bounding rectangle of all rings.
func (r Region) Bounds() r2.Rect {
	rect := r2.EmptyRect()
	for _, path := range r.poly {
		for _, v := range path {
			rect = rect.AddPoint(r2.Point{X: v.X, Y: v.Y})
		}
	}
	return rect
}

// Contains reports whether p lies inside the region under the even-odd rule.
func (r Region) Contains(p r2.Point) bool {
	inside := false
	for _, path := range r.poly {
		if ringContains(path, geom.Point{X: p.X, Y: p.Y}) {
			inside = !inside
		}
	}
	return inside
}

func signedArea(path geom.Path) float64 {
	sum := 0.0
	for i := range path {
		a, b := path[i], path[(i+1)%len(path)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// ringContains is a crossing-number test.
func ringContains(path geom.Path, p geom.Point) bool {
	inside := false
	for i, j := 0, len(path)-1; i < len(path); j, i = i, i+1 {
		a, b := path[i], path[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// interiorProbe finds a point just inside the ring, next to its longest edge.
func interiorProbe(path geom.Path) (geom.Point, bool) {
	orientation := 1.0
	if signedArea(path) < 0 {
		orientation = -1
	}
	best, bestLen := -1, 0.0
	for i := range path {
		a, b := path[i], path[(i+1)%len(path)]
		if l := math.Hypot(b.X-a.X, b.Y-a.Y); l > bestLen {
			best, bestLen = i, l
		}
	}
	if best < 0 {
		return geom.Point{}, false
	}
	a, b := path[best], path[(best+1)%len(path)]
	// left normal points inward for counter-clockwise rings
	nx, ny := -(b.Y-a.Y)/bestLen*orientation, (b.X-a.X)/bestLen*orientation
	step := math.Min(1e-4, bestLen*1e-3)
	mid := geom.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	probe := geom.Point{X: mid.X + nx*step, Y: mid.Y + ny*step}
	if !ringContains(path, probe) {
		return geom.Point{}, false
	}
	return probe, true
}

// Join concatenates the rings of regions whose interiors do not overlap. No
// boolean operation is performed.
func Join(regions ...Region) Region {
	var poly geom.Polygon
	for _, r := range regions {
		poly = append(poly, r.poly...)
	}
	return Region{poly: poly}
}

// Components splits the region into connected parts, each an outer ring with
// the holes directly inside it. The parts have disjoint interiors, so joining
// them gives back the region. A region whose nesting cannot be resolved is
// returned whole.
func (r Region) Components() []Region {
	if len(r.poly) <= 1 {
		if len(r.poly) == 0 {
			return nil
		}
		return []Region{r}
	}

	probes := make([]geom.Point, len(r.poly))
	depth := make([]int, len(r.poly))
	for i, path := range r.poly {
		probe, ok := interiorProbe(path)
		if !ok {
			depth[i] = -1
			continue
		}
		probes[i] = probe
		for j, other := range r.poly {
			if i != j && ringContains(other, probe) {
				depth[i]++
			}
		}
	}

	owner := make(map[int]int, len(r.poly))
	var outers []int
	for i, d := range depth {
		if d >= 0 && d%2 == 0 {
			owner[i] = len(outers)
			outers = append(outers, i)
		}
	}
	parts := make([]geom.Polygon, len(outers))
	for k, i := range outers {
		parts[k] = geom.Polygon{r.poly[i]}
	}
	for i, d := range depth {
		if d < 0 || d%2 == 0 {
			continue
		}
		parent := -1
		for _, j := range outers {
			if depth[j] == d-1 && ringContains(r.poly[j], probes[i]) {
				parent = j
				break
			}
		}
		if parent < 0 {
			return []Region{r}
		}
		parts[owner[parent]] = append(parts[owner[parent]], r.poly[i])
	}

	out := make([]Region, 0, len(parts))
	for _, part := range parts {
		out = append(out, Region{poly: part})
	}
	return out
}
