// Package noise synthesises tileable 2D coherent noise from a seeded
// permutation table.
package noise

import (
	"math"

	"github.com/OCharnyshevich/voxel-world/pkg/world/internal/rng"
)

// wrapSize is the number of distinct lattice hashes before the table repeats.
const wrapSize = 256

// DefaultOctaves is the octave count used for world height fields.
const DefaultOctaves = 4

// Permutation is a seeded, doubled permutation table. It is immutable after
// construction and safe to share between goroutines.
type Permutation struct {
	perm [wrapSize * 2]int
}

// NewPermutation builds a permutation table shuffled by seed.
func NewPermutation(seed int64) *Permutation {
	var p [wrapSize]int
	for i := range p {
		p[i] = i
	}

	// Fisher-Yates shuffle with seed-derived random.
	r := rng.New(seed)
	for i := wrapSize - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		p[i], p[j] = p[j], p[i]
	}

	pt := &Permutation{}
	for i := range pt.perm {
		pt.perm[i] = p[i&(wrapSize-1)]
	}
	return pt
}

// PerlinNoise returns gradient noise at (x, y) that repeats every period
// lattice cells. The result is clamped to [-1, 1].
func (pt *Permutation) PerlinNoise(x, y float32, period int) float32 {
	if period <= 0 {
		period = wrapSize
	}
	ix := int(math.Floor(float64(x)))
	iy := int(math.Floor(float64(y)))

	sum := pt.surflet(x, y, ix, iy, period) +
		pt.surflet(x, y, ix+1, iy, period) +
		pt.surflet(x, y, ix, iy+1, period) +
		pt.surflet(x, y, ix+1, iy+1, period)
	return min(max(sum, -1), 1)
}

// surflet is the contribution of a single lattice point.
func (pt *Permutation) surflet(x, y float32, gridX, gridY, period int) float32 {
	dx := x - float32(gridX)
	dy := y - float32(gridY)

	hashed := pt.perm[pt.perm[mod(gridX, period)&(wrapSize-1)]+mod(gridY, period)&(wrapSize-1)]
	cx, cy := cornerGradient(hashed)
	return fade(abs(dx)) * fade(abs(dy)) * (dx*cx + dy*cy)
}

// FBM sums octaves of PerlinNoise at doubling frequency and halving
// amplitude. The sum is not renormalised.
func (pt *Permutation) FBM(x, y float32, period, octaves int) float32 {
	var val float32
	for o := 0; o < octaves; o++ {
		freq := float32(math.Pow(2, float64(o)))
		amp := float32(math.Pow(0.5, float64(o)))
		val += amp * pt.PerlinNoise(x*freq, y*freq, int(float32(period)*freq))
	}
	return val
}

func cornerGradient(v int) (float32, float32) {
	switch v & 3 {
	case 0:
		return 1, 1
	case 1:
		return -1, 1
	case 2:
		return -1, -1
	default:
		return 1, -1
	}
}

// fade is 1 - 6d^5 + 15d^4 - 10d^3, falling from 1 at d=0 to 0 at d=1.
func fade(d float32) float32 {
	d3 := d * d * d
	return 1 - 6*d3*d*d + 15*d3*d - 10*d3
}

func mod(v, m int) int {
	return ((v % m) + m) % m
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
