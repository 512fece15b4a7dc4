// Package cli contains the lodvec command line application.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/lodvec/lodvec/config"
	"github.com/lodvec/lodvec/export"
	"github.com/lodvec/lodvec/hull"
	"github.com/lodvec/lodvec/logging"
)

const (
	flagConfig  = "config"
	flagDebug   = "debug"
	flagLogFile = "log-file"
	flagInput   = "input"
	flagImage   = "image"
	flagBrush   = "brush"
	flagOut     = "out"
	flagPNG     = "png"
	flagSeed    = "seed"
	flagWatch   = "watch"
	flagLayer   = "layer"
)

type app struct {
	logger logging.Logger
}

// NewApp returns the lodvec application writing its output to out.
func NewApp(out io.Writer) *cli.App {
	a := &app{logger: logging.NewBlankLogger()}
	sourceFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    flagInput,
			Aliases: []string{"i"},
			Usage:   "directory holding the image and its channel subdirectories",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:     flagImage,
			Usage:    "file name of the color image inside the input directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  flagBrush,
			Usage: "optional LOD override image, relative to the input directory",
		},
		&cli.StringFlag{
			Name:  flagSeed,
			Usage: "seed overriding the config's; without either, one is generated per session",
		},
	}
	return &cli.App{
		Name:            "lodvec",
		Usage:           "carve images into level-of-detail vector graphics",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  flagLogFile,
				Usage: "also write logs to a rotated `FILE`",
			},
		},
		Before: func(c *cli.Context) error {
			level := zapcore.InfoLevel
			if c.Bool(flagDebug) {
				level = zapcore.DebugLevel
			}
			if path := c.String(flagLogFile); path != "" {
				a.logger = logging.NewFileLogger("lodvec", path, level)
			} else {
				a.logger = logging.NewLoggerAt("lodvec", level)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "render",
				Usage: "render an image to SVG",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    flagOut,
						Aliases: []string{"o"},
						Usage:   "SVG output `FILE`",
						Value:   "out.svg",
					},
					&cli.StringFlag{
						Name:  flagPNG,
						Usage: "optional PNG preview `FILE`",
					},
					&cli.BoolFlag{
						Name:  flagWatch,
						Usage: "render again whenever the config file changes",
					},
				}, sourceFlags...),
				Action: a.renderAction,
			},
			{
				Name:   "default-config",
				Usage:  "print the default configuration",
				Flags:  []cli.Flag{&cli.StringFlag{Name: flagOut, Aliases: []string{"o"}, Usage: "write to `FILE` instead"}},
				Action: a.defaultConfigAction,
			},
			{
				Name:   "config-schema",
				Usage:  "print the JSON schema of configuration files",
				Action: a.configSchemaAction,
			},
			{
				Name:   "validate",
				Usage:  "check a configuration file",
				Action: a.validateAction,
			},
			{
				Name:  "hull",
				Usage: "print the convex hull of a layer's points",
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: flagLayer, Usage: "layer index"},
				}, sourceFlags...),
				Action: a.hullAction,
			},
		},
	}
}

func (a *app) loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = config.Read(path, a.logger); err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}
	if seed := c.String(flagSeed); seed != "" {
		cfg.Seed = seed
	}
	return cfg, nil
}

func sourceFrom(c *cli.Context) Source {
	return Source{Dir: c.String(flagInput), Image: c.String(flagImage), Brush: c.String(flagBrush)}
}

func (a *app) renderAction(c *cli.Context) error {
	cfg, err := a.loadConfig(c)
	if err != nil {
		return err
	}
	s := newSession(c.String(flagSeed), a.logger)
	s.apply(cfg)
	if err := a.renderOnce(c.Context, c, cfg); err != nil {
		return err
	}
	if !c.Bool(flagWatch) {
		return nil
	}
	path := c.String(flagConfig)
	if path == "" {
		return errors.New("--watch needs --config")
	}
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()
	return config.Watch(ctx, path, a.logger, func(cfg *config.Config) {
		s.apply(cfg)
		if err := a.renderOnce(ctx, c, cfg); err != nil {
			a.logger.Errorw("render failed", "error", err)
		}
	})
}

func (a *app) renderOnce(ctx context.Context, c *cli.Context, cfg *config.Config) error {
	settings, err := cfg.ExportSettings()
	if err != nil {
		return err
	}
	r, err := Render(ctx, cfg, sourceFrom(c), a.logger)
	if err != nil {
		return err
	}
	if err := export.SaveSVG(c.String(flagOut), r.Width, r.Height, r.Output, settings, a.logger); err != nil {
		return err
	}
	if png := c.String(flagPNG); png != "" {
		if err := export.SavePNG(png, r.Width, r.Height, r.Output, settings, a.logger); err != nil {
			return err
		}
	}
	fmt.Fprintf(c.App.Writer, "rendered %d pieces from %d points (seed %s)\n",
		len(r.Output.Pieces()), len(r.Points), r.Seed)
	fmt.Fprintln(c.App.Writer, r.Output.String())
	return nil
}

func (a *app) defaultConfigAction(c *cli.Context) error {
	cfg := config.Default()
	if path := c.String(flagOut); path != "" {
		return cfg.Write(path)
	}
	return cfg.Encode(c.App.Writer)
}

func (a *app) configSchemaAction(c *cli.Context) error {
	schema, err := config.Schema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(schema))
	return err
}

func (a *app) validateAction(c *cli.Context) error {
	path := c.String(flagConfig)
	if path == "" {
		return errors.New("validate needs --config")
	}
	cfg, err := config.Read(path, a.logger)
	if err != nil {
		return err
	}
	if err := cfg.Validate(path); err != nil {
		errs := multierr.Errors(err)
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return errors.Errorf("%d problem(s):\n%s", len(errs), strings.Join(msgs, "\n"))
	}
	fmt.Fprintf(c.App.Writer, "%s is valid\n", path)
	return nil
}

func (a *app) hullAction(c *cli.Context) error {
	cfg, err := a.loadConfig(c)
	if err != nil {
		return err
	}
	r, err := Render(c.Context, cfg, sourceFrom(c), a.logger)
	if err != nil {
		return err
	}
	idx := c.Int(flagLayer)
	if idx < 0 || idx >= len(r.Output.Layers) {
		return errors.Errorf("layer %d out of range [0, %d)", idx, len(r.Output.Layers))
	}
	vertices := hull.FromSamples(r.Output.Layers[idx].Points())
	if len(vertices) == 0 {
		fmt.Fprintln(c.App.Writer, "hull is degenerate")
		return nil
	}
	for _, v := range vertices {
		fmt.Fprintf(c.App.Writer, "%g %g\n", v.X, v.Y)
	}
	return nil
}
