// Package tree builds spatial trees over sample points and carves them into
// non-overlapping vector regions. Three variants are provided: a vantage-point
// metric tree, a k-d tree and a quadtree. All of them share one aggregation
// pass and one LOD gate.
package tree

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/lodvec/lodvec/geometry"
	"github.com/lodvec/lodvec/sample"
	"github.com/lodvec/lodvec/utils"
)

// ErrNotBuilt is returned when carving a tree whose Build was never called.
var ErrNotBuilt = errors.New("tree has not been built")

// Shape identifies a tree variant.
type Shape int

// The tree variants.
const (
	ShapeVP Shape = iota
	ShapeQuad
	ShapeKD
)

var shapeNames = []string{"vp", "quad", "kd"}

func (s Shape) String() string {
	if int(s) < 0 || int(s) >= len(shapeNames) {
		return "unknown"
	}
	return shapeNames[s]
}

// ParseShape parses a tree shape name such as "VP", "Quad" or "kd".
func ParseShape(name string) (Shape, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	for i, n := range shapeNames {
		if n == norm {
			return Shape(i), nil
		}
	}
	return 0, utils.NewUnknownNameError("tree shape", name, shapeNames)
}

// ColorMode controls how a node's aggregated color is derived.
type ColorMode int

// The color modes.
const (
	ColorMedian ColorMode = iota
	ColorAverage
	ColorPoint
)

var colorModeNames = []string{"median", "average", "point"}

func (m ColorMode) String() string {
	if int(m) < 0 || int(m) >= len(colorModeNames) {
		return "unknown"
	}
	return colorModeNames[m]
}

// ParseColorMode parses a color mode name. "avg" is accepted for average.
func ParseColorMode(name string) (ColorMode, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	if norm == "avg" {
		return ColorAverage, nil
	}
	for i, n := range colorModeNames {
		if n == norm {
			return ColorMode(i), nil
		}
	}
	return 0, utils.NewUnknownNameError("color mode", name, colorModeNames)
}

// Node is a node of one of the three tree variants. The set of implementations
// is closed: *VPNode, *KDNode and *QuadNode.
type Node interface {
	isNode()

	// Point is the node's own point. Quadtree nodes may have none.
	Point() *sample.Point
	// Children returns the existing children in a fixed order.
	Children() []Node
	// Subpoints is every point in the subtree, the node's own first.
	Subpoints() []*sample.Point
	NumberOfPoints() int
	LOD() float64
	Color() colorful.Color
	// Level is the depth assigned by the last carve, or -1 if the node was not
	// reached.
	Level() int
	// Region is the area the node emitted during the last carve, if any.
	Region() (geometry.Region, bool)
}

// Tree is the contract shared by all tree variants.
type Tree interface {
	Shape() Shape
	ColorMode() ColorMode
	// Build replaces the tree's content with a tree over points on a canvas of
	// the given size. Random choices are drawn from src.
	Build(points []*sample.Point, width, height int, src Source) error
	// Root returns nil when the tree is empty or not built.
	Root() Node
	// Traverse returns the nodes in the variant's traversal order.
	Traverse() []Node
	// Walk visits every node in pre-order.
	Walk(fn func(Node))
	Carve(opts CarveOptions) (*Result, error)
}

// New returns an empty tree of the given shape.
func New(shape Shape, mode ColorMode) (Tree, error) {
	switch shape {
	case ShapeVP:
		return NewVPTree(mode), nil
	case ShapeKD:
		return NewKDTree(mode), nil
	case ShapeQuad:
		return NewQuadTree(mode), nil
	default:
		return nil, errors.Errorf("unknown tree shape %d", shape)
	}
}

// Build creates and builds a tree in one step.
func Build(shape Shape, mode ColorMode, points []*sample.Point, width, height int, src Source) (Tree, error) {
	t, err := New(shape, mode)
	if err != nil {
		return nil, err
	}
	if err := t.Build(points, width, height, src); err != nil {
		return nil, err
	}
	return t, nil
}

const none = -1

// nodeData is the state every variant's node carries.
type nodeData struct {
	point *sample.Point
	// extra holds points that share a position with point beyond the quadtree's
	// depth limit.
	extra []*sample.Point

	subpoints []*sample.Point
	count     int
	lod       float64
	color     colorful.Color

	level     int
	region    geometry.Region
	hasRegion bool
}

func newNodeData(p *sample.Point) nodeData {
	return nodeData{point: p, level: none}
}

func (d *nodeData) Point() *sample.Point { return d.point }
func (d *nodeData) Subpoints() []*sample.Point { return d.subpoints }
func (d *nodeData) NumberOfPoints() int { return d.count }
func (d *nodeData) LOD() float64 { return d.lod }
func (d *nodeData) Color() colorful.Color { return d.color }
func (d *nodeData) Level() int { return d.level }

func (d *nodeData) Region() (geometry.Region, bool) {
	return d.region, d.hasRegion
}

func (d *nodeData) own() []*sample.Point {
	if d.point == nil {
		return nil
	}
	if len(d.extra) == 0 {
		return []*sample.Point{d.point}
	}
	return append([]*sample.Point{d.point}, d.extra...)
}

func (d *nodeData) resetCarve() {
	d.level = none
	d.region = geometry.Region{}
	d.hasRegion = false
}
