package block

import "github.com/go-gl/mathgl/mgl32"

// Atlas layout: a square texture of TextureSize pixels split into
// CellsPerRow cells per row.
const (
	TextureSize = 256
	CellsPerRow = 8
)

const cellSize = float32(TextureSize/CellsPerRow) / TextureSize

// TexCoords returns the UV corners of the atlas cell used for face f, in the
// same order as the corners returned by Face.Quad.
func (t Type) TexCoords(f Face) [4]mgl32.Vec2 {
	cfg := configs[t]
	idx := cfg.Textures[0]
	switch f {
	case Top:
		idx = cfg.Textures[1]
	case Bottom:
		idx = cfg.Textures[2]
	}

	x := float32(idx%CellsPerRow) * cellSize
	y := float32(idx/CellsPerRow)*cellSize + cellSize
	return [4]mgl32.Vec2{
		{x, y},
		{x, y - cellSize},
		{x + cellSize, y - cellSize},
		{x + cellSize, y},
	}
}
