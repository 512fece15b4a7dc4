package tree

import (
	"strings"

	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/lodvec/lodvec/geometry"
	"github.com/lodvec/lodvec/utils"
)

// ShapeKind is the primitive a vantage-point node cuts its region with.
type ShapeKind int

// The cutting primitives.
const (
	ShapeCircle ShapeKind = iota
	ShapePolygon
)

// polygonSides is the side count of the regular polygon primitive.
const polygonSides = 10

var shapeKindNames = []string{"circle", "polygon"}

func (k ShapeKind) String() string {
	if int(k) < 0 || int(k) >= len(shapeKindNames) {
		return "unknown"
	}
	return shapeKindNames[k]
}

// Sides is the side count handed to geometry.Port.Shape.
func (k ShapeKind) Sides() int {
	if k == ShapePolygon {
		return polygonSides
	}
	return 0
}

// ParseShapeKind parses "circle" or "polygon".
func ParseShapeKind(name string) (ShapeKind, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	for i, n := range shapeKindNames {
		if n == norm {
			return ShapeKind(i), nil
		}
	}
	return 0, utils.NewUnknownNameError("build mode", name, shapeKindNames)
}

// PassesGate reports whether a child with the given aggregated LOD is carved
// below a node at depth. It is the comparison lod/255 > depth/maxLevel done on
// products so that boundary cases are exact.
func PassesGate(lod float64, depth, maxLevel int) bool {
	return lod*float64(maxLevel) > float64(depth)*255
}

// CarveOptions configures a carve pass.
type CarveOptions struct {
	// MaxLevel is the depth at which even a child with LOD 255 stops being carved.
	MaxLevel int
	// ShapeKind selects circles or decagons for vantage-point cuts.
	ShapeKind ShapeKind
	// Clip, if set, restricts every emitted region.
	Clip *geometry.Region
	// Port performs boolean operations. Defaults to geometry.NewPolygonPort().
	Port geometry.Port
}

// Piece is one emitted region.
type Piece struct {
	Region geometry.Region
	Color  colorful.Color
	Level  int
	Node   Node
}

// LevelRange is the span of depths at which pieces were emitted.
type LevelRange struct {
	Min, Max int
	Valid    bool
}

// Observe extends the range to include level.
func (lr *LevelRange) Observe(level int) {
	if !lr.Valid {
		lr.Min, lr.Max, lr.Valid = level, level, true
		return
	}
	if level < lr.Min {
		lr.Min = level
	}
	if level > lr.Max {
		lr.Max = level
	}
}

// Merge extends the range to include other.
func (lr *LevelRange) Merge(other LevelRange) {
	if !other.Valid {
		return
	}
	lr.Observe(other.Min)
	lr.Observe(other.Max)
}

// Normalize maps level into [0,1] across the range. A range of a single level
// maps everything to 0.
func (lr LevelRange) Normalize(level int) float64 {
	if !lr.Valid || lr.Max == lr.Min {
		return 0
	}
	return utils.Clamp(float64(level-lr.Min)/float64(lr.Max-lr.Min), 0, 1)
}

// Result is the outcome of a carve pass.
type Result struct {
	Pieces []Piece
	Levels LevelRange
}

// carver holds the state of one carve pass.
type carver struct {
	port     geometry.Port
	maxLevel int
	sides    int
	clip     *geometry.Region
	result   *Result
}

func newCarver(built bool, opts CarveOptions) (*carver, error) {
	if !built {
		return nil, ErrNotBuilt
	}
	if opts.MaxLevel < 1 {
		return nil, errors.Errorf("max level must be at least 1, got %d", opts.MaxLevel)
	}
	port := opts.Port
	if port == nil {
		port = geometry.NewPolygonPort()
	}
	return &carver{
		port:     port,
		maxLevel: opts.MaxLevel,
		sides:    opts.ShapeKind.Sides(),
		clip:     opts.Clip,
		result:   &Result{},
	}, nil
}

func (c *carver) gate(child *nodeData, depth int) bool {
	return PassesGate(child.lod, depth, c.maxLevel)
}

// rect returns the rectangle region clipped to the carve clip.
func (c *carver) rect(r r2.Rect) geometry.Region {
	region := c.port.Rectangle(r.Lo(), r.Hi())
	if c.clip != nil {
		region = c.port.Intersect(region, *c.clip)
	}
	return region
}

// emit stores region on the node and records it unless it is degenerate.
func (c *carver) emit(node Node, d *nodeData, region geometry.Region, level int) {
	if region.Empty() {
		return
	}
	d.region = region
	d.hasRegion = true
	c.result.Pieces = append(c.result.Pieces, Piece{
		Region: region,
		Color:  d.color,
		Level:  level,
		Node:   node,
	})
	c.result.Levels.Observe(level)
}

func canvasRect(width, height int) r2.Rect {
	return r2.RectFromPoints(r2.Point{}, r2.Point{X: float64(width), Y: float64(height)})
}
