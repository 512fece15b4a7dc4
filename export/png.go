package export

import (
	"image"
	"io"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"github.com/lodvec/lodvec/layer"
	"github.com/lodvec/lodvec/logging"
)

// Raster paints out the way WriteSVG describes it and returns the image.
// Pieces are filled with the even-odd rule, matching the region semantics.
func Raster(width, height int, out *layer.Output, s Settings) image.Image {
	dc := gg.NewContext(width, height)
	if s.Background != nil {
		dc.SetColor(*s.Background)
		dc.Clear()
	}
	dc.SetFillRuleEvenOdd()
	dc.SetLineJoinRound()
	for _, g := range newDocument(width, height, out).groups {
		for _, e := range g.entries {
			for _, ring := range e.piece.Region.Rings() {
				dc.NewSubPath()
				for i, p := range ring {
					if i == 0 {
						dc.MoveTo(p.X, p.Y)
					} else {
						dc.LineTo(p.X, p.Y)
					}
				}
				dc.ClosePath()
			}
			if s.filled() {
				dc.SetColor(s.fill(g.color))
				dc.FillPreserve()
			}
			if s.stroked() {
				c, w := s.stroke(g.color, e.levels.Normalize(e.piece.Level))
				dc.SetColor(c)
				dc.SetLineWidth(w)
				dc.StrokePreserve()
			}
			dc.ClearPath()
		}
	}
	return dc.Image()
}

// WritePNG encodes the raster preview to w.
func WritePNG(w io.Writer, width, height int, out *layer.Output, s Settings) error {
	dc := gg.NewContextForImage(Raster(width, height, out, s))
	return errors.Wrap(dc.EncodePNG(w), "encoding png")
}

// SavePNG writes the raster preview to path.
func SavePNG(path string, width, height int, out *layer.Output, s Settings, logger logging.Logger) error {
	dc := gg.NewContextForImage(Raster(width, height, out, s))
	if err := dc.SavePNG(path); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	logger.Infow("wrote png preview", "path", path)
	return nil
}
