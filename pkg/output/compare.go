package output

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Difference summarizes how far two images are apart after 8-bit quantization
type Difference struct {
	MaxDelta        int     // largest per-channel difference
	RMSE            float64 // root mean squared channel difference
	DifferingPixels int     // pixels with any channel differing
	TotalPixels     int
}

// Compare quantizes both grids the way the writers do and measures their
// difference. Grids must have the same size.
func Compare(a, b *core.PixelGrid) (Difference, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return Difference{}, fmt.Errorf("size mismatch: %dx%d vs %dx%d", a.Width, a.Height, b.Width, b.Height)
	}

	var d Difference
	var sumSq float64
	for i := range a.Pixels {
		pa, pb := a.Pixels[i], b.Pixels[i]
		differs := false
		for _, pair := range [3][2]float64{{pa.X, pb.X}, {pa.Y, pb.Y}, {pa.Z, pb.Z}} {
			delta := int(ChannelByte(pair[0])) - int(ChannelByte(pair[1]))
			if delta < 0 {
				delta = -delta
			}
			if delta > 0 {
				differs = true
			}
			d.MaxDelta = max(d.MaxDelta, delta)
			sumSq += float64(delta * delta)
		}
		if differs {
			d.DifferingPixels++
		}
	}

	d.TotalPixels = len(a.Pixels)
	if n := len(a.Pixels) * 3; n > 0 {
		d.RMSE = math.Sqrt(sumSq / float64(n))
	}
	return d, nil
}
