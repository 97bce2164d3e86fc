package coord

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkSize is the horizontal footprint of a chunk in blocks along X and Z.
const ChunkSize = 16

// ChunkPos identifies a chunk column by its X and Z chunk coordinates.
type ChunkPos struct{ X, Z int }

// Origin returns the absolute position of the chunk's (0, 0, 0) block.
func (p ChunkPos) Origin() mgl32.Vec3 {
	return mgl32.Vec3{float32(p.X * ChunkSize), 0, float32(p.Z * ChunkSize)}
}

// Add returns p offset by dx, dz chunks.
func (p ChunkPos) Add(dx, dz int) ChunkPos {
	return ChunkPos{X: p.X + dx, Z: p.Z + dz}
}

// ChunkFromAbsolute returns the chunk that owns the absolute position p.
func ChunkFromAbsolute(p mgl32.Vec3) ChunkPos {
	return ChunkPos{
		X: int(math.Floor(float64(p.X() / ChunkSize))),
		Z: int(math.Floor(float64(p.Z() / ChunkSize))),
	}
}

// RelativeFromAbsolute floors p and maps X and Z into [0, ChunkSize).
// Y is floored and clamped at 0.
func RelativeFromAbsolute(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(wrap(floor(p.X()))),
		float32(max(floor(p.Y()), 0)),
		float32(wrap(floor(p.Z()))),
	}
}

// AbsoluteFromRelative places a relative position inside chunk c back into
// world space.
func AbsoluteFromRelative(rel mgl32.Vec3, c ChunkPos) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(c.X*ChunkSize + int(rel.X())),
		rel.Y(),
		float32(c.Z*ChunkSize + int(rel.Z())),
	}
}

// ColumnIndex returns the flattened column index for local x, z.
// Callers must check the result against ColumnCount.
func ColumnIndex(localX, localZ int) int {
	return localX*ChunkSize + localZ
}

// ColumnCount is the number of vertical columns in a chunk.
const ColumnCount = ChunkSize * ChunkSize

// Floor returns the integer cell coordinates containing p.
func Floor(p mgl32.Vec3) (x, y, z int) {
	return floor(p.X()), floor(p.Y()), floor(p.Z())
}

func floor(v float32) int {
	return int(math.Floor(float64(v)))
}

func wrap(v int) int {
	return ((v % ChunkSize) + ChunkSize) % ChunkSize
}

// Vec returns integer cell coordinates as a vector.
func Vec(x, y, z int) mgl32.Vec3 {
	return mgl32.Vec3{float32(x), float32(y), float32(z)}
}
