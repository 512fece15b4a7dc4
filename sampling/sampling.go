package sampling

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/lodvec/lodvec/tree"
)

// Mode selects how sample pixels are chosen.
type Mode int

const (
	// ModeSimple keeps every pixel with a fixed probability.
	ModeSimple Mode = iota
	// ModeBlueNoise keeps a Poisson-disk distributed subset of pixels.
	ModeBlueNoise
)

var modeNames = map[Mode]string{
	ModeSimple:    "simple",
	ModeBlueNoise: "blue-noise",
}

func (m Mode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return "unknown"
}

// ParseMode returns the mode with the given name.
func ParseMode(name string) (Mode, error) {
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return 0, errors.Errorf("unknown sample mode %q", name)
}

// Probability samples every pixel independently with probability p. p is
// clamped to [0, 1]. Pixels are visited row by row so equal sources give
// equal masks.
func Probability(width, height int, p float64, src tree.Source) *Mask {
	m := NewMask(width, height)
	if p <= 0 || math.IsNaN(p) {
		return m
	}
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if src.Float64() < p {
				m.Set(x, y)
			}
		}
	}
	return m
}

// PoissonDisk returns points inside viewport that are pairwise at least
// minDist apart, using Bridson's algorithm. Each active point gets at most
// maxTries candidates before it is retired.
func PoissonDisk(viewport r2.Rect, minDist float64, maxTries int, src tree.Source) ([]r2.Point, error) {
	if minDist <= 0 || math.IsNaN(minDist) || math.IsInf(minDist, 0) {
		return nil, errors.Errorf("min distance must be positive, got %v", minDist)
	}
	if maxTries < 0 {
		return nil, errors.Errorf("max tries must not be negative, got %d", maxTries)
	}
	if viewport.IsEmpty() || viewport.X.Length() <= 0 || viewport.Y.Length() <= 0 {
		return nil, nil
	}

	g := newGrid(viewport, minDist)
	first := r2.Point{
		X: viewport.X.Lo + src.Float64()*viewport.X.Length(),
		Y: viewport.Y.Lo + src.Float64()*viewport.Y.Length(),
	}
	points := []r2.Point{first}
	g.insert(first, 0)
	active := []int{0}

	minSq := minDist * minDist
	for len(active) > 0 {
		ai := int(src.Float64() * float64(len(active)))
		origin := points[active[ai]]
		found := false
		for try := 0; try < maxTries; try++ {
			// uniform over the annulus [minDist, 2*minDist)
			angle := 2 * math.Pi * src.Float64()
			radius := math.Sqrt(minSq + src.Float64()*3*minSq)
			c := r2.Point{X: origin.X + radius*math.Cos(angle), Y: origin.Y + radius*math.Sin(angle)}
			if !viewport.ContainsPoint(c) || c.X >= viewport.X.Hi || c.Y >= viewport.Y.Hi {
				continue
			}
			if g.near(c, points, minSq) {
				continue
			}
			g.insert(c, len(points))
			active = append(active, len(points))
			points = append(points, c)
			found = true
			break
		}
		if !found {
			active[ai] = active[len(active)-1]
			active = active[:len(active)-1]
		}
	}
	return points, nil
}

// BlueNoise rasterizes a Poisson-disk sampling of the whole canvas.
func BlueNoise(width, height int, minDist float64, maxTries int, src tree.Source) (*Mask, error) {
	viewport := r2.RectFromPoints(r2.Point{}, r2.Point{X: float64(width), Y: float64(height)})
	pts, err := PoissonDisk(viewport, minDist, maxTries, src)
	if err != nil {
		return nil, err
	}
	return FromPoints(width, height, pts), nil
}

// grid buckets accepted points by cells of side minDist/sqrt(2), so each cell
// holds at most one point.
type grid struct {
	origin     r2.Point
	cell       float64
	cols, rows int
	cells      []int
}

func newGrid(viewport r2.Rect, minDist float64) *grid {
	cell := minDist / math.Sqrt2
	g := &grid{
		origin: viewport.Lo(),
		cell:   cell,
		cols:   int(math.Ceil(viewport.X.Length()/cell)) + 1,
		rows:   int(math.Ceil(viewport.Y.Length()/cell)) + 1,
	}
	g.cells = make([]int, g.cols*g.rows)
	for i := range g.cells {
		g.cells[i] = -1
	}
	return g
}

func (g *grid) index(p r2.Point) (int, int) {
	return int((p.X - g.origin.X) / g.cell), int((p.Y - g.origin.Y) / g.cell)
}

func (g *grid) insert(p r2.Point, idx int) {
	cx, cy := g.index(p)
	g.cells[cy*g.cols+cx] = idx
}

func (g *grid) near(p r2.Point, points []r2.Point, minSq float64) bool {
	cx, cy := g.index(p)
	for y := max(cy-2, 0); y <= min(cy+2, g.rows-1); y++ {
		for x := max(cx-2, 0); x <= min(cx+2, g.cols-1); x++ {
			idx := g.cells[y*g.cols+x]
			if idx < 0 {
				continue
			}
			if d := p.Sub(points[idx]); d.Dot(d) < minSq {
				return true
			}
		}
	}
	return false
}
