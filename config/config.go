// Package config reads, validates and writes the JSON description of a render:
// canvas, sampling, LOD weights, border styling and the ordered layers.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/invopop/jsonschema"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"github.com/lodvec/lodvec/export"
	"github.com/lodvec/lodvec/geometry"
	"github.com/lodvec/lodvec/imagesource"
	"github.com/lodvec/lodvec/layer"
	"github.com/lodvec/lodvec/logging"
	"github.com/lodvec/lodvec/sample"
	"github.com/lodvec/lodvec/sampling"
	"github.com/lodvec/lodvec/tree"
)

// Config is the full description of a render.
type Config struct {
	// Seed keys every random decision. Empty means a fresh seed per run.
	Seed string `json:"seed"`
	// Width and Height are the canvas size. Zero takes the color image's size.
	Width  int `json:"width"`
	Height int `json:"height"`
	// MaxColorCount bounds the palette. Zero keeps the sampled colors.
	MaxColorCount int `json:"max_color_count"`

	Sampling  SamplingConfig `json:"sampling"`
	LOD       LODConfig      `json:"lod"`
	BuildMode string         `json:"build_mode"`
	Border    BorderConfig   `json:"border"`
	Layers    []LayerConfig  `json:"layers"`

	// Log raises the level of individual component loggers, e.g.
	// {"pattern": "lodvec.palette", "level": "warn"}.
	Log []logging.LoggerPatternConfig `json:"log,omitempty"`
}

// SamplingConfig selects the pixels that become sample points.
type SamplingConfig struct {
	Mode        string  `json:"mode"`
	Probability float64 `json:"probability"`
	MinDist     float64 `json:"min_dist"`
	MaxTries    int     `json:"max_tries"`
}

// LODConfig weighs the channels of the computed LOD.
type LODConfig struct {
	Depth              float64    `json:"depth"`
	Matting            float64    `json:"matting"`
	SaliencyAttention  float64    `json:"saliency_attention"`
	SaliencyObjectness float64    `json:"saliency_objectness"`
	Normal             float64    `json:"normal"`
	NormalDirection    [3]float64 `json:"normal_direction"`
}

// BorderConfig styles the exported pieces. Colors are hex strings.
type BorderConfig struct {
	Mode       string  `json:"mode"`
	WidthMin   float64 `json:"width_min_level"`
	WidthMax   float64 `json:"width_max_level"`
	ColorMin   string  `json:"color_min_level"`
	ColorMax   string  `json:"color_max_level"`
	GrayScale  bool    `json:"gray_scale"`
	Background string  `json:"background,omitempty"`
}

// LayerConfig describes one layer.
type LayerConfig struct {
	Tree     string  `json:"tree"`
	Criteria string  `json:"criteria"`
	Color    string  `json:"color"`
	From     float64 `json:"from"`
	To       float64 `json:"to"`
	MaxLevel int     `json:"max_level"`
	Keep     bool    `json:"keep"`
	// Clip is an optional polygon as a list of [x, y] vertices.
	Clip       [][]float64 `json:"clip,omitempty"`
	ClipToHull bool        `json:"clip_to_hull,omitempty"`
}

// Default returns the configuration used when none is given.
func Default() *Config {
	return &Config{
		MaxColorCount: 64,
		Sampling: SamplingConfig{
			Mode:        sampling.ModeBlueNoise.String(),
			Probability: 0.3,
			MinDist:     4,
			MaxTries:    42,
		},
		LOD: LODConfig{
			Depth:              0.3,
			Matting:            0.3,
			SaliencyAttention:  0.5,
			SaliencyObjectness: 0.3,
			Normal:             0.3,
			NormalDirection:    [3]float64{0.5, 0.25, -0.35},
		},
		BuildMode: tree.ShapeCircle.String(),
		Border: BorderConfig{
			Mode:     export.BorderFill.String(),
			WidthMin: 0.3,
			WidthMax: 0.3,
			ColorMin: "#000000",
			ColorMax: "#000000",
		},
		Layers: []LayerConfig{{
			Tree:     tree.ShapeQuad.String(),
			Criteria: sample.CriterionLOD.String(),
			Color:    tree.ColorMedian.String(),
			From:     0,
			To:       sample.MaxChannel,
			MaxLevel: layer.DefaultMaxLevel,
		}},
	}
}

// Read parses the config at path after expanding environment variables. Keys
// missing from the file keep their default value and unknown keys are logged.
func Read(path string, logger logging.Logger) (*Config, error) {
	data, err := envsubst.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	cfg, err := FromJSON(data, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return cfg, nil
}

// FromJSON parses a config document.
func FromJSON(data []byte, logger logging.Logger) (*Config, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	cfg := Default()
	if _, ok := raw["layers"]; ok {
		cfg.Layers = nil
	}

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           cfg,
		Metadata:         &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}
	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		logger.Warnw("config contains unknown keys", "keys", md.Unused)
	}
	return cfg, nil
}

// Encode writes cfg to w as indented JSON.
func (c *Config) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// Schema returns the JSON schema of a config document.
func Schema() ([]byte, error) {
	return json.MarshalIndent(jsonschema.Reflect(&Config{}), "", "  ")
}

// Write stores cfg at path as indented JSON.
func (c *Config) Write(path string) error {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "writing config")
	}
	if err := c.Encode(f); err != nil {
		goutils.UncheckedError(f.Close())
		return errors.Wrapf(err, "encoding %s", path)
	}
	return f.Close()
}

// Validate reports every problem in the config. path prefixes the field names
// in the returned errors.
func (c *Config) Validate(path string) error {
	var errs error
	if c.Width < 0 || c.Height < 0 {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path,
			errors.Errorf("invalid canvas size %dx%d", c.Width, c.Height)))
	}
	if c.MaxColorCount < 0 {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path,
			errors.New("max_color_count cannot be negative")))
	}
	errs = multierr.Append(errs, c.Sampling.Validate(path+".sampling"))
	errs = multierr.Append(errs, c.LOD.Validate(path+".lod"))
	if _, err := tree.ParseShapeKind(c.BuildMode); err != nil {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path, err))
	}
	errs = multierr.Append(errs, c.Border.Validate(path+".border"))
	if len(c.Layers) == 0 {
		errs = multierr.Append(errs, goutils.NewConfigValidationFieldRequiredError(path, "layers"))
	}
	for i, l := range c.Layers {
		errs = multierr.Append(errs, l.Validate(fmt.Sprintf("%s.layers.%d", path, i)))
	}
	for i, lpc := range c.Log {
		errs = multierr.Append(errs, lpc.Validate(fmt.Sprintf("%s.log.%d", path, i)))
	}
	return errs
}

// Validate checks the sampling parameters of the selected mode.
func (s SamplingConfig) Validate(path string) error {
	mode, err := sampling.ParseMode(s.Mode)
	if err != nil {
		return goutils.NewConfigValidationError(path, err)
	}
	switch mode {
	case sampling.ModeSimple:
		if s.Probability < 0 || s.Probability > 1 {
			return goutils.NewConfigValidationError(path, errors.Errorf("probability %v not in [0, 1]", s.Probability))
		}
	case sampling.ModeBlueNoise:
		var errs error
		if s.MinDist <= 0 {
			errs = multierr.Append(errs, goutils.NewConfigValidationError(path, errors.New("min_dist must be positive")))
		}
		if s.MaxTries < 0 {
			errs = multierr.Append(errs, goutils.NewConfigValidationError(path, errors.New("max_tries cannot be negative")))
		}
		return errs
	}
	return nil
}

// Validate rejects negative weights.
func (l LODConfig) Validate(path string) error {
	weights := map[string]float64{
		"depth":               l.Depth,
		"matting":             l.Matting,
		"saliency_attention":  l.SaliencyAttention,
		"saliency_objectness": l.SaliencyObjectness,
		"normal":              l.Normal,
	}
	names := make([]string, 0, len(weights))
	for n := range weights {
		names = append(names, n)
	}
	sort.Strings(names)
	var errs error
	for _, n := range names {
		if weights[n] < 0 {
			errs = multierr.Append(errs, goutils.NewConfigValidationError(path, errors.Errorf("%s weight cannot be negative", n)))
		}
	}
	return errs
}

// Validate checks the border mode, widths and colors.
func (b BorderConfig) Validate(path string) error {
	var errs error
	if _, err := export.ParseBorderMode(b.Mode); err != nil {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path, err))
	}
	if b.WidthMin < 0 || b.WidthMax < 0 {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path, errors.New("border widths cannot be negative")))
	}
	for _, hex := range []string{b.ColorMin, b.ColorMax, b.Background} {
		if hex == "" {
			continue
		}
		if _, err := colorful.Hex(hex); err != nil {
			errs = multierr.Append(errs, goutils.NewConfigValidationError(path, errors.Wrapf(err, "color %q", hex)))
		}
	}
	return errs
}

// Validate checks the layer's names and clip polygon. An inverted range is
// allowed; it selects no points.
func (l LayerConfig) Validate(path string) error {
	var errs error
	if _, err := tree.ParseShape(l.Tree); err != nil {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path, err))
	}
	if _, err := sample.ParseCriterion(l.Criteria); err != nil {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path, err))
	}
	if _, err := tree.ParseColorMode(l.Color); err != nil {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path, err))
	}
	if l.MaxLevel < 0 {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path, errors.New("max_level cannot be negative")))
	}
	if _, err := l.clipRegion(); err != nil {
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path, err))
	}
	return errs
}

func (l LayerConfig) clipRegion() (*geometry.Region, error) {
	if len(l.Clip) == 0 {
		return nil, nil
	}
	if len(l.Clip) < 3 {
		return nil, errors.Errorf("clip needs at least 3 vertices, got %d", len(l.Clip))
	}
	ring := make([]r2.Point, 0, len(l.Clip))
	for i, v := range l.Clip {
		if len(v) != 2 {
			return nil, errors.Errorf("clip vertex %d has %d coordinates", i, len(v))
		}
		ring = append(ring, r2.Point{X: v[0], Y: v[1]})
	}
	region := geometry.NewRegion(ring)
	return &region, nil
}

// Layer converts the layer description.
func (l LayerConfig) Layer() (layer.Config, error) {
	shape, err := tree.ParseShape(l.Tree)
	if err != nil {
		return layer.Config{}, err
	}
	criterion, err := sample.ParseCriterion(l.Criteria)
	if err != nil {
		return layer.Config{}, err
	}
	mode, err := tree.ParseColorMode(l.Color)
	if err != nil {
		return layer.Config{}, err
	}
	clip, err := l.clipRegion()
	if err != nil {
		return layer.Config{}, err
	}
	return layer.Config{
		Shape:      shape,
		Criterion:  criterion,
		From:       l.From,
		To:         l.To,
		ColorMode:  mode,
		Keep:       l.Keep,
		MaxLevel:   l.MaxLevel,
		Clip:       clip,
		ClipToHull: l.ClipToHull,
	}, nil
}

// LayerConfigs converts every layer in order.
func (c *Config) LayerConfigs() ([]layer.Config, error) {
	out := make([]layer.Config, 0, len(c.Layers))
	for i, l := range c.Layers {
		lc, err := l.Layer()
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
		out = append(out, lc)
	}
	return out, nil
}

// ShapeKind returns the vantage-point cutting primitive.
func (c *Config) ShapeKind() (tree.ShapeKind, error) {
	return tree.ParseShapeKind(c.BuildMode)
}

// Weights returns the LOD channel weights.
func (c *Config) Weights() imagesource.Weights {
	d := c.LOD.NormalDirection
	return imagesource.Weights{
		Depth:              c.LOD.Depth,
		Matting:            c.LOD.Matting,
		SaliencyAttention:  c.LOD.SaliencyAttention,
		SaliencyObjectness: c.LOD.SaliencyObjectness,
		Normal:             c.LOD.Normal,
		NormalDirection:    r3.Vector{X: d[0], Y: d[1], Z: d[2]},
	}
}

// ExportSettings returns the border styling.
func (c *Config) ExportSettings() (export.Settings, error) {
	mode, err := export.ParseBorderMode(c.Border.Mode)
	if err != nil {
		return export.Settings{}, err
	}
	s := export.Settings{
		Border:    mode,
		Width0:    c.Border.WidthMin,
		Width1:    c.Border.WidthMax,
		GrayScale: c.Border.GrayScale,
	}
	if s.Color0, err = parseColor(c.Border.ColorMin); err != nil {
		return export.Settings{}, err
	}
	if s.Color1, err = parseColor(c.Border.ColorMax); err != nil {
		return export.Settings{}, err
	}
	if c.Border.Background != "" {
		bg, err := colorful.Hex(c.Border.Background)
		if err != nil {
			return export.Settings{}, err
		}
		s.Background = &bg
	}
	return s, nil
}

func parseColor(hex string) (colorful.Color, error) {
	if hex == "" {
		return colorful.Color{}, nil
	}
	return colorful.Hex(hex)
}

// SampleMask draws the sampled pixels for a width x height canvas.
func (c *Config) SampleMask(width, height int, src tree.Source) (*sampling.Mask, error) {
	mode, err := sampling.ParseMode(c.Sampling.Mode)
	if err != nil {
		return nil, err
	}
	if mode == sampling.ModeSimple {
		return sampling.Probability(width, height, c.Sampling.Probability, src), nil
	}
	return sampling.BlueNoise(width, height, c.Sampling.MinDist, c.Sampling.MaxTries, src)
}
