package imagesource

import (
	"image"
	"math"

	"github.com/golang/geo/r3"

	"github.com/lodvec/lodvec/sample"
	"github.com/lodvec/lodvec/utils"
)

// Weights are the contributions of each channel to the computed LOD.
type Weights struct {
	Depth              float64
	Matting            float64
	SaliencyAttention  float64
	SaliencyObjectness float64
	Normal             float64
	// NormalDirection is the light direction that the normal channel is
	// compared against. Surfaces facing it get a high LOD.
	NormalDirection r3.Vector
}

func (w Weights) sum() float64 {
	return w.Depth + w.Matting + w.SaliencyAttention + w.SaliencyObjectness + w.Normal
}

// ComputeLOD fills the LOD channel with the weighted mean of the other
// channels. It is a no-op when a LOD raster was already loaded. With all
// weights zero the LOD is zero everywhere.
func (ch *Channels) ComputeLOD(w Weights) {
	if ch.LOD != nil {
		return
	}
	out := image.NewGray(image.Rect(0, 0, ch.Width, ch.Height))
	total := w.sum()
	if total <= 0 {
		ch.LOD = out
		return
	}
	dir := w.NormalDirection
	if dir.Norm() > 0 {
		dir = dir.Normalize()
	}
	for y := 0; y < ch.Height; y++ {
		for x := 0; x < ch.Width; x++ {
			v := w.Depth*scalar(ch.Depth, x, y) +
				w.Matting*scalar(ch.Matting, x, y) +
				w.SaliencyAttention*scalar(ch.SaliencyAttention, x, y) +
				w.SaliencyObjectness*scalar(ch.SaliencyObjectness, x, y)
			if ch.Normal != nil && w.Normal != 0 {
				facing := math.Max(0, normalAt(ch.Normal, x, y).Dot(dir))
				v += w.Normal * facing * sample.MaxChannel
			}
			lod := utils.Clamp(math.Round(v/total), 0, sample.MaxChannel)
			out.Pix[y*out.Stride+x] = uint8(lod)
		}
	}
	ch.LOD = out
}
