// Package layer selects subsets of sample points by attribute range and turns
// each subset into a carved tree.
package layer

import (
	"github.com/lodvec/lodvec/sample"
)

// Filter splits points into those whose criterion value lies in [from, to] and
// the rest. With keep set, matched points are also passed on in remaining. An
// inverted range matches nothing.
func Filter(points []*sample.Point, c sample.Criterion, from, to float64, keep bool) (matched, remaining []*sample.Point) {
	for _, p := range points {
		v := p.Attribute(c)
		if from <= v && v <= to {
			matched = append(matched, p)
			if keep {
				remaining = append(remaining, p)
			}
			continue
		}
		remaining = append(remaining, p)
	}
	return matched, remaining
}
