// Package sampling decides which pixels of the canvas become sample points.
package sampling

import (
	"math"

	"github.com/golang/geo/r2"
)

// Mask marks the sampled pixels of a width x height canvas.
type Mask struct {
	width, height int
	set           []bool
	count         int
}

// NewMask returns an empty mask. Negative dimensions are treated as zero.
func NewMask(width, height int) *Mask {
	width = max(width, 0)
	height = max(height, 0)
	return &Mask{width: width, height: height, set: make([]bool, width*height)}
}

// Full returns a mask with every pixel sampled.
func Full(width, height int) *Mask {
	m := NewMask(width, height)
	for i := range m.set {
		m.set[i] = true
	}
	m.count = len(m.set)
	return m
}

// FromPoints rasterizes pts into a mask. Points outside the canvas are
// dropped.
func FromPoints(width, height int, pts []r2.Point) *Mask {
	m := NewMask(width, height)
	for _, p := range pts {
		m.Set(int(math.Floor(p.X)), int(math.Floor(p.Y)))
	}
	return m
}

// Width of the canvas.
func (m *Mask) Width() int { return m.width }

// Height of the canvas.
func (m *Mask) Height() int { return m.height }

// Count returns the number of sampled pixels.
func (m *Mask) Count() int { return m.count }

// Set marks (x, y) as sampled. Out of range coordinates are ignored.
func (m *Mask) Set(x, y int) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return
	}
	i := y*m.width + x
	if !m.set[i] {
		m.set[i] = true
		m.count++
	}
}

// Has reports whether (x, y) is sampled.
func (m *Mask) Has(x, y int) bool {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return false
	}
	return m.set[y*m.width+x]
}
