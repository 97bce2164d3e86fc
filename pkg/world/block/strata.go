package block

import "github.com/OCharnyshevich/voxel-world/pkg/world/internal/rng"

// StoneBand is the default height range where dirt gives way to stone.
var StoneBand = [2]int{15, 24}

// Strata holds the height bands used to classify terrain blocks. Each band is
// an inclusive [low, high] pair with low < high.
type Strata struct {
	Sand  [2]int
	Stone [2]int
}

// DefaultStrata returns the bands for a world with the given water level.
func DefaultStrata(waterLevel int) Strata {
	return Strata{
		Sand:  [2]int{waterLevel, waterLevel + 2},
		Stone: StoneBand,
	}
}

// FromPosition classifies the block at local (x, z) and height y. Inside a
// band the choice between the two neighbouring types is made by a draw seeded
// from seed and the position, weighted by how far y is into the band.
func (s Strata) FromPosition(x, y, z int, seed int64) Type {
	switch {
	case y <= s.Sand[0]:
		return Sand
	case y <= s.Sand[1]:
		if positionDraw(x, y, z, seed)+scalar(y, s.Sand) > 1 {
			return Dirt
		}
		return Sand
	case y < s.Stone[0]:
		return Dirt
	case y <= s.Stone[1]:
		if positionDraw(x, y, z, seed)+scalar(y, s.Stone) >= 1 {
			return Stone
		}
		return Dirt
	default:
		return Stone
	}
}

func positionDraw(x, y, z int, seed int64) float32 {
	return rng.ForBlock(seed, x, y, z).Float32()
}

func scalar(y int, band [2]int) float32 {
	return float32(y-band[0]) / float32(band[1]-band[0])
}
