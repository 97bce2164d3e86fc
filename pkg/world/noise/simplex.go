package noise

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// CreateSimplexNoiseData samples octaves of OpenSimplex noise over a
// width x height grid, summed the same way as FBM. Unlike the Perlin field
// it does not tile, so lookups past the tile edge show a seam.
func CreateSimplexNoiseData(seed int64, width, height int, frequency float32, octaves int) *Data {
	n := opensimplex.New32(seed)
	values := make([]float32, 0, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var val float32
			for o := 0; o < octaves; o++ {
				freq := frequency * float32(math.Pow(2, float64(o)))
				amp := float32(math.Pow(0.5, float64(o)))
				val += amp * n.Eval2(float32(x)*freq, float32(y)*freq)
			}
			values = append(values, val)
		}
	}
	return NewData(width, height, values)
}
