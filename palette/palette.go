// Package palette reduces the colors of a point set to a bounded palette.
package palette

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/lodvec/lodvec/logging"
	"github.com/lodvec/lodvec/sample"
	"github.com/lodvec/lodvec/tree"
)

// Mapping maps an original color to its palette color.
type Mapping map[colorful.Color]colorful.Color

// Lookup returns the palette color for c, or c itself when unmapped.
func (m Mapping) Lookup(c colorful.Color) colorful.Color {
	if mapped, ok := m[c]; ok {
		return mapped
	}
	return c
}

// Reducer builds a palette of at most maxCount colors.
type Reducer interface {
	Reduce(colors []colorful.Color, maxCount int) (Mapping, error)
}

// maxIterations bounds the seeded Lloyd iterations, as kmeans.New does.
const maxIterations = 96

// KMeans clusters colors in CIE L*a*b* space and maps every color to the
// center of its cluster. With a Source the initial centers are drawn from it
// (k-means++), so equal sources give equal palettes. Without one, clustering
// is left to kmeans.Partition, whose seeding is random.
type KMeans struct {
	Source tree.Source
}

// labPoint is a color observation for k-means clustering.
type labPoint struct {
	c       colorful.Color
	l, a, b float64
}

func newLabPoint(c colorful.Color) labPoint {
	l, a, b := c.Lab()
	return labPoint{c: c, l: l, a: a, b: b}
}

func (p labPoint) Coordinates() clusters.Coordinates {
	return clusters.Coordinates{p.l, p.a, p.b}
}

func (p labPoint) Distance(other clusters.Coordinates) float64 {
	return p.Coordinates().Distance(other)
}

// Reduce clusters the unique colors into maxCount groups. When there are no
// more unique colors than maxCount each color maps to itself.
func (k KMeans) Reduce(colors []colorful.Color, maxCount int) (Mapping, error) {
	if maxCount <= 0 {
		return nil, errors.Errorf("palette size must be positive, got %d", maxCount)
	}
	unique := lo.Uniq(colors)
	if len(unique) <= maxCount {
		return identity(unique), nil
	}

	d := make(clusters.Observations, 0, len(unique))
	for _, c := range unique {
		d = append(d, newLabPoint(c))
	}
	var parts clusters.Clusters
	if k.Source != nil {
		parts = seededPartition(d, maxCount, k.Source)
	} else {
		var err error
		if parts, err = kmeans.New().Partition(d, maxCount); err != nil {
			return nil, errors.Wrap(err, "clustering colors")
		}
	}

	m := make(Mapping, len(unique))
	for _, part := range parts {
		if len(part.Center) < 3 {
			continue
		}
		center := colorful.Lab(part.Center[0], part.Center[1], part.Center[2]).Clamped()
		for _, o := range part.Observations {
			m[o.(labPoint).c] = center
		}
	}
	return m, nil
}

// seededPartition runs Lloyd's algorithm from k-means++ centers drawn from src.
// Observation order and src fully determine the result.
func seededPartition(d clusters.Observations, k int, src tree.Source) clusters.Clusters {
	cc := make(clusters.Clusters, 0, k)
	first := int(src.Float64() * float64(len(d)))
	cc = append(cc, clusters.Cluster{Center: d[min(first, len(d)-1)].Coordinates()})

	nearest := make([]float64, len(d))
	for len(cc) < k {
		total := 0.0
		for i, o := range d {
			// Distance is already squared
			nearest[i] = o.Distance(cc[cc.Nearest(o)].Center)
			total += nearest[i]
		}
		pick := len(d) - 1
		if total > 0 {
			target := src.Float64() * total
			for i, w := range nearest {
				if target < w {
					pick = i
					break
				}
				target -= w
			}
		}
		cc = append(cc, clusters.Cluster{Center: d[pick].Coordinates()})
	}

	assigned := make([]int, len(d))
	for i := range assigned {
		assigned[i] = -1
	}
	for iter := 0; iter < maxIterations; iter++ {
		cc.Reset()
		changes := 0
		for i, o := range d {
			ci := cc.Nearest(o)
			cc[ci].Append(o)
			if assigned[i] != ci {
				assigned[i] = ci
				changes++
			}
		}
		if changes == 0 {
			break
		}
		// an empty cluster keeps its center
		cc.Recenter()
	}
	return cc
}

func identity(colors []colorful.Color) Mapping {
	m := make(Mapping, len(colors))
	for _, c := range colors {
		m[c] = c
	}
	return m
}

// Apply assigns every point a quantized color. A maxCount of zero, a nil reducer
// or a failed reduction leaves every point with its own color.
func Apply(points []*sample.Point, reducer Reducer, maxCount int, logger logging.Logger) {
	colors := lo.Map(points, func(p *sample.Point, _ int) colorful.Color { return p.Color })

	var m Mapping
	if maxCount > 0 && reducer != nil {
		var err error
		m, err = reducer.Reduce(colors, maxCount)
		if err != nil {
			logger.Warnw("color reduction failed, keeping original colors", "error", err)
			m = nil
		}
	}

	for _, p := range points {
		p.SetQuantizedColor(m.Lookup(p.Color))
	}
	if m != nil {
		logger.Debugw("reduced palette",
			"colors", len(lo.Uniq(colors)),
			"palette", len(lo.Uniq(lo.Values(m))),
		)
	}
}
