package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/docker/go-units"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/lodvec/lodvec/geometry"
	"github.com/lodvec/lodvec/layer"
	"github.com/lodvec/lodvec/logging"
)

// WriteSVG writes the pieces of out as an SVG document of the given canvas
// size. Pieces of one color share a <g> element; each path carries the
// attributes of the point that produced it.
func WriteSVG(w io.Writer, width, height int, out *layer.Output, s Settings) error {
	ew := &errWriter{w: w}
	doc := newDocument(width, height, out)
	canvas := svg.New(ew)
	canvas.Start(width, height)
	if s.Background != nil {
		canvas.Rect(0, 0, width, height, attr("fill", s.Background.Hex()))
	}
	for _, g := range doc.groups {
		if s.filled() {
			canvas.Group(attr("fill", s.fill(g.color).Hex()))
		} else {
			canvas.Group(attr("fill", "none"))
		}
		for _, e := range g.entries {
			canvas.Path(pathData(e.piece.Region), pathAttrs(e, g, s)...)
		}
		canvas.Gend()
	}
	canvas.End()
	return ew.err
}

// SaveSVG writes the document to path.
func SaveSVG(path string, width, height int, out *layer.Output, s Settings, logger logging.Logger) error {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating svg")
	}
	defer goutils.UncheckedErrorFunc(f.Close)
	cw := &countingWriter{w: f}
	if err := WriteSVG(cw, width, height, out, s); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	logger.Infow("wrote svg",
		"path", path,
		"pieces", newDocument(width, height, out).count(),
		"size", units.HumanSize(float64(cw.n)),
	)
	return nil
}

func pathAttrs(e entry, g *group, s Settings) []string {
	attrs := []string{attr("fill-rule", "evenodd")}
	level := e.piece.Level
	if s.stroked() {
		c, width := s.stroke(g.color, e.levels.Normalize(level))
		attrs = append(attrs, attr("stroke", c.Hex()), attr("stroke-width", formatNum(width)))
	} else {
		attrs = append(attrs, attr("stroke", "none"))
	}
	p := e.point()
	return append(attrs,
		attr("depth", formatNum(p.Depth)),
		attr("segment", fmt.Sprintf("%d,%d,%d", p.Segment[0], p.Segment[1], p.Segment[2])),
		attr("matting", formatNum(p.Matting)),
		attr("saliency-a", formatNum(p.SaliencyAttention)),
		attr("saliency-o", formatNum(p.SaliencyObjectness)),
		attr("level", strconv.Itoa(level)),
		attr("min-level", strconv.Itoa(e.levels.Min)),
		attr("max-level", strconv.Itoa(e.levels.Max)),
	)
}

// pathData renders every ring of r as a closed subpath.
func pathData(r geometry.Region) string {
	var sb strings.Builder
	for _, ring := range r.Rings() {
		for i, p := range ring {
			if i == 0 {
				if sb.Len() > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString("M")
			} else {
				sb.WriteString(" L")
			}
			sb.WriteString(formatNum(p.X))
			sb.WriteString(",")
			sb.WriteString(formatNum(p.Y))
		}
		sb.WriteString(" Z")
	}
	return sb.String()
}

func attr(name, value string) string {
	return name + `="` + value + `"`
}

// formatNum rounds to hundredths and drops trailing zeros.
func formatNum(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	v = math.Round(v*100) / 100
	if v == 0 {
		// drop the sign of -0
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// errWriter keeps the first write error, since the svg canvas drops them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return len(p), nil
	}
	n, err := ew.w.Write(p)
	if err != nil {
		ew.err = err
	}
	return n, err
}
