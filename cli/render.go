package cli

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/lodvec/lodvec/config"
	"github.com/lodvec/lodvec/imagesource"
	"github.com/lodvec/lodvec/layer"
	"github.com/lodvec/lodvec/logging"
	"github.com/lodvec/lodvec/palette"
	"github.com/lodvec/lodvec/sample"
	"github.com/lodvec/lodvec/tree"
)

// Source names the input channels of a render.
type Source struct {
	// Dir holds the color image and the channel subdirectories.
	Dir string
	// Image is the color image's file name inside Dir.
	Image string
	// Brush is an optional LOD override image, relative to Dir.
	Brush string
}

// Rendered is the outcome of a render.
type Rendered struct {
	Width, Height int
	Seed          string
	Points        []*sample.Point
	Output        *layer.Output
}

// session holds the seed shared by every render of one invocation, so that
// re-renders of an edited config stay comparable.
type session struct {
	override string
	seed     string
	logger   logging.Logger
}

func newSession(override string, logger logging.Logger) *session {
	return &session{override: override, logger: logger}
}

// apply sets cfg's seed: the override if given, else the config's own, else
// the session seed, generated on first use.
func (s *session) apply(cfg *config.Config) {
	switch {
	case s.override != "":
		cfg.Seed = s.override
	case cfg.Seed != "":
	default:
		if s.seed == "" {
			s.seed = tree.NewSeed()
			s.logger.Infow("generated seed", "seed", s.seed)
		}
		cfg.Seed = s.seed
	}
}

// LoadPoints loads the channels of src and samples them as cfg describes.
// It returns the points together with the canvas size and the seed used.
func LoadPoints(cfg *config.Config, src Source, logger logging.Logger) ([]*sample.Point, int, int, string, error) {
	width, height := cfg.Width, cfg.Height
	if width == 0 || height == 0 {
		w, h, err := imagesource.Size(filepath.Join(src.Dir, src.Image))
		if err != nil {
			return nil, 0, 0, "", err
		}
		if width == 0 {
			width = w
		}
		if height == 0 {
			height = h
		}
	}

	names := imagesource.DefaultNames(src.Image)
	if src.Brush != "" {
		names[imagesource.ChannelBrush] = src.Brush
	}
	ch, err := imagesource.Load(src.Dir, names, width, height, logging.Scoped(logger, "imagesource", cfg.Log))
	if err != nil {
		return nil, 0, 0, "", err
	}
	ch.ComputeLOD(cfg.Weights())

	seed := cfg.Seed
	if seed == "" {
		seed = tree.NewSeed()
		logger.Infow("generated seed", "seed", seed)
	}
	mask, err := cfg.SampleMask(width, height, tree.NewRandom(seed))
	if err != nil {
		return nil, 0, 0, "", errors.Wrap(err, "sampling")
	}
	points, err := ch.Points(mask)
	if err != nil {
		return nil, 0, 0, "", err
	}
	logger.Debugw("sampled points", "mode", cfg.Sampling.Mode, "points", len(points))

	reducer := palette.KMeans{Source: tree.NewRandom(seed + ":palette")}
	palette.Apply(points, reducer, cfg.MaxColorCount, logging.Scoped(logger, "palette", cfg.Log))
	return points, width, height, seed, nil
}

// Render samples src and carves every configured layer.
func Render(ctx context.Context, cfg *config.Config, src Source, logger logging.Logger) (*Rendered, error) {
	if err := cfg.Validate("config"); err != nil {
		return nil, err
	}
	layers, err := cfg.LayerConfigs()
	if err != nil {
		return nil, err
	}
	kind, err := cfg.ShapeKind()
	if err != nil {
		return nil, err
	}
	points, width, height, seed, err := LoadPoints(cfg, src, logger)
	if err != nil {
		return nil, err
	}

	p := layer.NewPipeline(width, height, seed, layers, logging.Scoped(logger, "pipeline", cfg.Log))
	p.ShapeKind = kind
	out, err := p.Run(ctx, points)
	if err != nil {
		return nil, err
	}
	return &Rendered{Width: width, Height: height, Seed: seed, Points: points, Output: out}, nil
}
