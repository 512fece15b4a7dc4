// Package hull computes convex hulls of sample points, used to derive clip
// boundaries for layer selections.
package hull

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"

	"github.com/lodvec/lodvec/geometry"
	"github.com/lodvec/lodvec/sample"
)

// ConvexHull returns the hull vertices of points in scan order (counter-clockwise
// in a y-up frame, starting at the pivot). Fewer than three points, or input
// that is entirely collinear, yields nil.
func ConvexHull(points []r2.Point) []r2.Point {
	if len(points) < 3 {
		return nil
	}
	pivot := pivotOf(points)

	angles := make([]float64, len(points))
	distances := make([]float64, len(points))
	order := make([]int, len(points))
	for i, p := range points {
		d := p.Sub(pivot)
		angles[i] = math.Atan2(d.Y, d.X)
		distances[i] = d.Dot(d)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if angles[i] == angles[j] {
			return distances[i] < distances[j]
		}
		return angles[i] < angles[j]
	})

	// among runs of equal angle keep only the farthest point; the pivot at the
	// head of the order is never dropped
	kept := order[:1]
	for k := 1; k < len(order); k++ {
		if k+1 < len(order) && angles[order[k]] == angles[order[k+1]] {
			continue
		}
		kept = append(kept, order[k])
	}

	hull := make([]r2.Point, 0, len(kept))
	for _, idx := range kept {
		p := points[idx]
		if len(hull) >= 3 {
			for len(hull) >= 2 && orientation(hull[len(hull)-2], hull[len(hull)-1], p) > 0 {
				hull = hull[:len(hull)-1]
			}
		}
		hull = append(hull, p)
	}
	if len(hull) < 3 {
		return nil
	}
	return hull
}

// FromSamples computes the hull of sample point positions.
func FromSamples(points []*sample.Point) []r2.Point {
	return ConvexHull(sample.Vecs(points))
}

// Region turns a hull into a clip region. An empty hull gives an empty region.
func Region(hull []r2.Point) geometry.Region {
	if len(hull) < 3 {
		return geometry.Region{}
	}
	return geometry.NewRegion(hull)
}

func pivotOf(points []r2.Point) r2.Point {
	pivot := points[0]
	for _, p := range points[1:] {
		if p.Y < pivot.Y || (p.Y == pivot.Y && p.X < pivot.X) {
			pivot = p
		}
	}
	return pivot
}

// orientation is positive when p1, p2, p3 make a clockwise turn.
func orientation(p1, p2, p3 r2.Point) float64 {
	return (p2.Y-p1.Y)*(p3.X-p2.X) - (p3.Y-p2.Y)*(p2.X-p1.X)
}
