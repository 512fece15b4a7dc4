// Package imagesource loads the per-pixel input channels of an image and
// turns them into sample points.
package imagesource

import (
	"image"
	"image/color"
	// register decoders for image.Decode.
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/golang/geo/r3"
	_ "github.com/lmittmann/ppm" // register ppm
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	_ "github.com/xfmoulet/qoi" // register qoi
	goutils "go.viam.com/utils"
	_ "golang.org/x/image/bmp"  // register bmp
	_ "golang.org/x/image/tiff" // register tiff
	_ "golang.org/x/image/webp" // register webp

	"github.com/lodvec/lodvec/logging"
	"github.com/lodvec/lodvec/sample"
	"github.com/lodvec/lodvec/sampling"
)

// Channel names one input raster.
type Channel int

// The known channels. Only ChannelColor is required.
const (
	ChannelColor Channel = iota
	ChannelLOD
	ChannelDepth
	ChannelMatting
	ChannelSaliencyAttention
	ChannelSaliencyObjectness
	ChannelNormal
	ChannelSegmentation
	ChannelBrush
)

var channelNames = []string{
	"color", "lod", "depth", "matting", "saliency-attention",
	"saliency-objectness", "normal", "segmentation", "brush",
}

func (c Channel) String() string {
	if c < 0 || int(c) >= len(channelNames) {
		return "unknown"
	}
	return channelNames[c]
}

// Names maps a channel to its file, relative to the directory passed to Load.
type Names map[Channel]string

// DefaultNames lays out the channels of file the way the model outputs are
// stored on disk: the color image at the top and every other channel in a
// directory named after it.
func DefaultNames(file string) Names {
	return Names{
		ChannelColor:              file,
		ChannelDepth:              filepath.Join("depth", file),
		ChannelMatting:            filepath.Join("matting", file),
		ChannelNormal:             filepath.Join("normal", file),
		ChannelSaliencyAttention:  filepath.Join("saliency", "attention", file),
		ChannelSaliencyObjectness: filepath.Join("saliency", "objectness", file),
		ChannelSegmentation:       filepath.Join("segmentation", file),
	}
}

// Channels holds the input rasters of one image at canvas size. A nil raster
// reads as zero everywhere.
type Channels struct {
	Width, Height int

	Color              image.Image
	LOD                image.Image
	Depth              image.Image
	Matting            image.Image
	SaliencyAttention  image.Image
	SaliencyObjectness image.Image
	Normal             image.Image
	Segmentation       image.Image
	// Brush is an optional LOD override; its red channel is blended into the
	// LOD by its alpha.
	Brush image.Image
}

func (ch *Channels) slot(c Channel) *image.Image {
	switch c {
	case ChannelColor:
		return &ch.Color
	case ChannelLOD:
		return &ch.LOD
	case ChannelDepth:
		return &ch.Depth
	case ChannelMatting:
		return &ch.Matting
	case ChannelSaliencyAttention:
		return &ch.SaliencyAttention
	case ChannelSaliencyObjectness:
		return &ch.SaliencyObjectness
	case ChannelNormal:
		return &ch.Normal
	case ChannelSegmentation:
		return &ch.Segmentation
	case ChannelBrush:
		return &ch.Brush
	default:
		return nil
	}
}

// Set stores img as channel c, resizing it to the canvas.
func (ch *Channels) Set(c Channel, img image.Image) error {
	s := ch.slot(c)
	if s == nil {
		return errors.Errorf("unknown channel %d", c)
	}
	if img == nil {
		*s = nil
		return nil
	}
	*s = fit(img, ch.Width, ch.Height)
	return nil
}

// Load reads every named channel from dir and cover-resizes it to
// width x height. A missing optional channel is logged and left empty.
func Load(dir string, names Names, width, height int, logger logging.Logger) (*Channels, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid canvas size %dx%d", width, height)
	}
	if _, ok := names[ChannelColor]; !ok {
		return nil, errors.New("no color channel named")
	}
	ch := &Channels{Width: width, Height: height}
	for c, name := range names {
		path := filepath.Join(dir, name)
		img, err := readImage(path)
		if err != nil {
			if c != ChannelColor && errors.Is(err, os.ErrNotExist) {
				logger.Debugw("channel not found", "channel", c.String(), "path", path)
				continue
			}
			return nil, errors.Wrapf(err, "reading %s channel", c)
		}
		if err := ch.Set(c, img); err != nil {
			return nil, err
		}
	}
	logger.Debugw("loaded channels", "dir", dir, "width", width, "height", height)
	return ch, nil
}

func readImage(path string) (image.Image, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer goutils.UncheckedErrorFunc(f.Close)

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return img, nil
}

// fit scales img to cover width x height and crops the overflow around the
// center.
func fit(img image.Image, width, height int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return imaging.Clone(img)
	}
	return imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)
}

// nrgba reads the non-premultiplied color of img at canvas position (x, y).
func nrgba(img image.Image, x, y int) color.NRGBA {
	if img == nil {
		return color.NRGBA{}
	}
	b := img.Bounds()
	x, y = x+b.Min.X, y+b.Min.Y
	switch im := img.(type) {
	case *image.NRGBA:
		return im.NRGBAAt(x, y)
	case *image.Gray:
		v := im.GrayAt(x, y).Y
		return color.NRGBA{R: v, G: v, B: v, A: 255}
	default:
		//nolint:forcetypeassert
		return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	}
}

func scalar(img image.Image, x, y int) float64 {
	return float64(nrgba(img, x, y).R)
}

// normalAt decodes a normal map pixel from [0, 255] to [-1, 1].
func normalAt(img image.Image, x, y int) r3.Vector {
	if img == nil {
		return r3.Vector{}
	}
	c := nrgba(img, x, y)
	dec := func(v uint8) float64 { return float64(v)/sample.MaxChannel*2 - 1 }
	return r3.Vector{X: dec(c.R), Y: dec(c.G), Z: dec(c.B)}
}

// Points creates one sample point for every pixel set in mask, scanning
// column by column. The brush channel, when present, is blended into the
// LOD as lod*(1-a) + brush*a.
func (ch *Channels) Points(mask *sampling.Mask) ([]*sample.Point, error) {
	if ch.Color == nil {
		return nil, errors.New("no color channel loaded")
	}
	if mask.Width() != ch.Width || mask.Height() != ch.Height {
		return nil, errors.Errorf("mask size %dx%d does not match canvas %dx%d",
			mask.Width(), mask.Height(), ch.Width, ch.Height)
	}
	points := make([]*sample.Point, 0, mask.Count())
	for x := 0; x < ch.Width; x++ {
		for y := 0; y < ch.Height; y++ {
			if !mask.Has(x, y) {
				continue
			}
			c := nrgba(ch.Color, x, y)
			lod := scalar(ch.LOD, x, y)
			if ch.Brush != nil {
				b := nrgba(ch.Brush, x, y)
				a := float64(b.A) / sample.MaxChannel
				lod = lod*(1-a) + float64(b.R)*a
			}
			seg := nrgba(ch.Segmentation, x, y)
			points = append(points, &sample.Point{
				X:                  x,
				Y:                  y,
				LOD:                lod,
				Depth:              scalar(ch.Depth, x, y),
				Matting:            scalar(ch.Matting, x, y),
				SaliencyAttention:  scalar(ch.SaliencyAttention, x, y),
				SaliencyObjectness: scalar(ch.SaliencyObjectness, x, y),
				Normal:             normalAt(ch.Normal, x, y),
				Segment:            [3]uint8{seg.R, seg.G, seg.B},
				Color: colorful.Color{
					R: float64(c.R) / sample.MaxChannel,
					G: float64(c.G) / sample.MaxChannel,
					B: float64(c.B) / sample.MaxChannel,
				},
			})
		}
	}
	return points, nil
}

// Size returns the dimensions of the image at path without decoding it fully.
func Size(path string) (int, int, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer goutils.UncheckedErrorFunc(f.Close)

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "decoding %s", path)
	}
	return cfg.Width, cfg.Height, nil
}
