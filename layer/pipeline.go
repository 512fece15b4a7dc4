package layer

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"

	"github.com/lodvec/lodvec/geometry"
	"github.com/lodvec/lodvec/logging"
	"github.com/lodvec/lodvec/sample"
	"github.com/lodvec/lodvec/tree"
	"github.com/lodvec/lodvec/utils"
)

// Pipeline runs an ordered list of layers over one point pool. Each layer
// filters what the previous one left behind.
type Pipeline struct {
	Width, Height int
	// Seed keys the random source of every layer's tree.
	Seed      string
	ShapeKind tree.ShapeKind
	Port      geometry.Port
	Layers    []Config

	logger logging.Logger
}

// NewPipeline returns a pipeline with the default geometry port. An empty seed
// is replaced by a fresh one, which is then kept for the pipeline's lifetime.
func NewPipeline(width, height int, seed string, layers []Config, logger logging.Logger) *Pipeline {
	if seed == "" {
		seed = tree.NewSeed()
		logger.Debugw("generated session seed", "seed", seed)
	}
	return &Pipeline{
		Width:  width,
		Height: height,
		Seed:   seed,
		Port:   geometry.NewPolygonPort(),
		Layers: layers,
		logger: logger,
	}
}

// Output is the result of a pipeline run.
type Output struct {
	Layers []*Layer
	// Levels spans the emitted levels of all layers.
	Levels tree.LevelRange
}

// Pieces returns every layer's pieces in layer order.
func (o *Output) Pieces() []tree.Piece {
	var out []tree.Piece
	for _, l := range o.Layers {
		if res := l.Result(); res != nil {
			out = append(out, res.Pieces...)
		}
	}
	return out
}

// Run filters points through every layer, then builds and carves the layers
// concurrently. Every layer draws from its own source seeded with Seed, so
// the output does not depend on scheduling.
func (p *Pipeline) Run(ctx context.Context, points []*sample.Point) (*Output, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, errors.Errorf("invalid canvas size %dx%d", p.Width, p.Height)
	}
	port := p.Port
	if port == nil {
		port = geometry.NewPolygonPort()
	}

	out := &Output{Layers: make([]*Layer, 0, len(p.Layers))}
	pool := points
	for i, cfg := range p.Layers {
		l := New(cfg, pool)
		p.logger.Debugw("filtered layer",
			"layer", i,
			"criterion", cfg.Criterion.String(),
			"from", cfg.From,
			"to", cfg.To,
			"matched", len(l.Points()),
			"remaining", len(l.Remaining()),
		)
		out.Layers = append(out.Layers, l)
		pool = l.Remaining()
	}

	fs := make([]utils.SimpleFunc, 0, len(out.Layers))
	for i, l := range out.Layers {
		fs = append(fs, func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			if err := l.Build(p.Width, p.Height, tree.NewRandom(p.Seed)); err != nil {
				return errors.Wrapf(err, "layer %d", i)
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := l.Carve(port, p.ShapeKind)
			if err != nil {
				return errors.Wrapf(err, "layer %d", i)
			}
			p.logger.Debugw("carved layer",
				"layer", i,
				"shape", l.Config().Shape.String(),
				"pieces", len(res.Pieces),
				"elapsed", time.Since(start),
			)
			return nil
		})
	}
	elapsed, err := utils.RunLimited(ctx, runtime.GOMAXPROCS(0), fs)
	if err != nil {
		return nil, err
	}

	for _, l := range out.Layers {
		out.Levels.Merge(l.Result().Levels)
	}
	p.logger.Infow("pipeline finished",
		"layers", len(out.Layers),
		"pieces", len(out.Pieces()),
		"elapsed", elapsed,
	)
	return out, nil
}

// String prints a table with one row per layer.
func (o *Output) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Tree", "Criterion", "Range", "Points", "Pieces", "Levels"})
	for i, l := range o.Layers {
		cfg := l.Config()
		pieces, levels := 0, "-"
		if res := l.Result(); res != nil {
			pieces = len(res.Pieces)
			if res.Levels.Valid {
				levels = fmt.Sprintf("%d-%d", res.Levels.Min, res.Levels.Max)
			}
		}
		t.AppendRow(table.Row{
			i,
			cfg.Shape.String(),
			cfg.Criterion.String(),
			fmt.Sprintf("%g-%g", cfg.From, cfg.To),
			len(l.Points()),
			pieces,
			levels,
		})
	}
	return t.Render()
}
