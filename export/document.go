package export

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lodvec/lodvec/layer"
	"github.com/lodvec/lodvec/sample"
	"github.com/lodvec/lodvec/tree"
)

// entry is one piece together with the level range of its layer.
type entry struct {
	piece  tree.Piece
	levels tree.LevelRange
}

// point returns the node's point or an empty one.
func (e entry) point() *sample.Point {
	if e.piece.Node != nil {
		if p := e.piece.Node.Point(); p != nil {
			return p
		}
	}
	return &sample.Point{}
}

// group holds the pieces sharing one fill color.
type group struct {
	hex     string
	color   colorful.Color
	entries []entry
}

// document is the paint order shared by every writer: layers in order, pieces
// grouped by color, groups in order of first appearance.
type document struct {
	width, height int
	groups        []*group
}

func newDocument(width, height int, out *layer.Output) *document {
	doc := &document{width: width, height: height}
	if out == nil {
		return doc
	}
	byHex := map[string]*group{}
	for _, l := range out.Layers {
		res := l.Result()
		if res == nil {
			continue
		}
		for _, p := range res.Pieces {
			if p.Region.Empty() {
				continue
			}
			hex := p.Color.Clamped().Hex()
			g, ok := byHex[hex]
			if !ok {
				g = &group{hex: hex, color: p.Color.Clamped()}
				byHex[hex] = g
				doc.groups = append(doc.groups, g)
			}
			g.entries = append(g.entries, entry{piece: p, levels: res.Levels})
		}
	}
	return doc
}

func (d *document) count() int {
	n := 0
	for _, g := range d.groups {
		n += len(g.entries)
	}
	return n
}
