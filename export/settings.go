// Package export writes carved layers as SVG documents and PNG previews.
package export

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lodvec/lodvec/utils"
)

// BorderMode selects how pieces are filled and stroked.
type BorderMode int

// The border modes.
const (
	// BorderFill fills pieces and draws no outline.
	BorderFill BorderMode = iota
	// BorderFillAndBorder fills pieces and outlines them with the level color.
	BorderFillAndBorder
	// BorderOnly outlines pieces with the level color and leaves them unfilled.
	BorderOnly
	// BorderWireframe outlines pieces with their own color.
	BorderWireframe
)

var borderModeNames = []string{"fill", "fill-and-border", "border", "wireframe"}

func (m BorderMode) String() string {
	if m < 0 || int(m) >= len(borderModeNames) {
		return "unknown"
	}
	return borderModeNames[m]
}

// ParseBorderMode parses a border mode name.
func ParseBorderMode(name string) (BorderMode, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	for i, n := range borderModeNames {
		if n == norm {
			return BorderMode(i), nil
		}
	}
	return 0, utils.NewUnknownNameError("border mode", name, borderModeNames)
}

// Settings control the appearance of exported pieces. Width0/Color0 apply to
// the shallowest emitted level of a layer and Width1/Color1 to the deepest.
type Settings struct {
	Border    BorderMode
	Width0    float64
	Width1    float64
	Color0    colorful.Color
	Color1    colorful.Color
	GrayScale bool
	// Background, if set, is painted under all pieces.
	Background *colorful.Color
}

// DefaultSettings fills pieces with no border.
func DefaultSettings() Settings {
	black := colorful.Color{}
	return Settings{
		Border: BorderFill,
		Width0: 0.3,
		Width1: 0.3,
		Color0: black,
		Color1: black,
	}
}

// filled reports whether pieces are painted with their color.
func (s Settings) filled() bool {
	return s.Border == BorderFill || s.Border == BorderFillAndBorder
}

// stroked reports whether pieces get an outline.
func (s Settings) stroked() bool {
	return s.Border != BorderFill
}

// fill returns the paint of a piece of color c.
func (s Settings) fill(c colorful.Color) colorful.Color {
	if s.GrayScale {
		return grayScale(c)
	}
	return c
}

// stroke returns the outline color and width of a piece of color c at
// normalized level a.
func (s Settings) stroke(c colorful.Color, a float64) (colorful.Color, float64) {
	width := utils.Lerp(s.Width0, s.Width1, a)
	if s.Border == BorderWireframe {
		return s.fill(c), width
	}
	return s.Color0.BlendRgb(s.Color1, a).Clamped(), width
}

// grayScale keeps the lightness of c.
func grayScale(c colorful.Color) colorful.Color {
	l, _, _ := c.Lab()
	return colorful.Lab(l, 0, 0).Clamped()
}
