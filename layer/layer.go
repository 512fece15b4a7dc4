package layer

import (
	"github.com/pkg/errors"

	"github.com/lodvec/lodvec/geometry"
	"github.com/lodvec/lodvec/hull"
	"github.com/lodvec/lodvec/sample"
	"github.com/lodvec/lodvec/tree"
)

// DefaultMaxLevel is the carve depth used when a layer does not set one.
const DefaultMaxLevel = 15

// Config describes one layer.
type Config struct {
	Shape     tree.Shape
	Criterion sample.Criterion
	From, To  float64
	ColorMode tree.ColorMode
	Keep      bool
	MaxLevel  int
	// Clip restricts the carved regions, if set.
	Clip *geometry.Region
	// ClipToHull restricts the carved regions to the convex hull of the layer's
	// points. It is combined with Clip when both are set and ignored when the
	// hull is degenerate.
	ClipToHull bool
}

// Layer is the set of points selected by a Config together with the tree built
// over them.
type Layer struct {
	cfg       Config
	points    []*sample.Point
	remaining []*sample.Point
	maxLOD    float64

	tree   tree.Tree
	result *tree.Result
}

// New filters pool according to cfg.
func New(cfg Config, pool []*sample.Point) *Layer {
	if cfg.MaxLevel == 0 {
		cfg.MaxLevel = DefaultMaxLevel
	}
	l := &Layer{cfg: cfg}
	l.points, l.remaining = Filter(pool, cfg.Criterion, cfg.From, cfg.To, cfg.Keep)
	for _, p := range l.points {
		if p.LOD > l.maxLOD {
			l.maxLOD = p.LOD
		}
	}
	return l
}

// Config returns the layer's configuration.
func (l *Layer) Config() Config {
	return l.cfg
}

// Points returns the points selected for this layer.
func (l *Layer) Points() []*sample.Point {
	return l.points
}

// Remaining returns the points handed on to the next layer.
func (l *Layer) Remaining() []*sample.Point {
	return l.remaining
}

// MaxLOD is the highest LOD among the layer's points.
func (l *Layer) MaxLOD() float64 {
	return l.maxLOD
}

// Tree returns the built tree, or nil before Build.
func (l *Layer) Tree() tree.Tree {
	return l.tree
}

// Result returns the last carve result, or nil.
func (l *Layer) Result() *tree.Result {
	return l.result
}

// Build builds the layer's tree on a canvas of the given size.
func (l *Layer) Build(width, height int, src tree.Source) error {
	t, err := tree.Build(l.cfg.Shape, l.cfg.ColorMode, l.points, width, height, src)
	if err != nil {
		return errors.Wrap(err, "building layer tree")
	}
	l.tree = t
	return nil
}

// ClipRegion resolves the layer's clip, or nil when carving is unrestricted.
func (l *Layer) ClipRegion(port geometry.Port) *geometry.Region {
	var clip *geometry.Region
	if l.cfg.Clip != nil {
		c := *l.cfg.Clip
		clip = &c
	}
	if l.cfg.ClipToHull {
		h := hull.Region(hull.FromSamples(l.points))
		if h.Empty() {
			// a degenerate hull does not restrict anything
			return clip
		}
		if clip != nil {
			h = port.Intersect(*clip, h)
		}
		clip = &h
	}
	return clip
}

// Carve carves the built tree. kind selects the vantage-point cut shape.
func (l *Layer) Carve(port geometry.Port, kind tree.ShapeKind) (*tree.Result, error) {
	if l.tree == nil {
		return nil, tree.ErrNotBuilt
	}
	if port == nil {
		port = geometry.NewPolygonPort()
	}
	res, err := l.tree.Carve(tree.CarveOptions{
		MaxLevel:  l.cfg.MaxLevel,
		ShapeKind: kind,
		Clip:      l.ClipRegion(port),
		Port:      port,
	})
	if err != nil {
		return nil, errors.Wrap(err, "carving layer")
	}
	l.result = res
	return res, nil
}
