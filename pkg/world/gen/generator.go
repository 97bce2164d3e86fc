// Package gen populates chunks from a shared noise height field.
package gen

import (
	"math"

	"github.com/OCharnyshevich/voxel-world/pkg/world/block"
	"github.com/OCharnyshevich/voxel-world/pkg/world/chunk"
	"github.com/OCharnyshevich/voxel-world/pkg/world/coord"
	"github.com/OCharnyshevich/voxel-world/pkg/world/internal/rng"
	"github.com/OCharnyshevich/voxel-world/pkg/world/noise"
	"github.com/OCharnyshevich/voxel-world/pkg/world/structure"
)

// treeSalt separates the tree placement stream from other per-chunk draws.
const treeSalt = 600

// Config controls terrain shape and decoration.
type Config struct {
	Seed       int64
	WaterLevel int
	Strata     block.Strata

	// MaxTreesPerChunk bounds the random tree count; the actual count is
	// drawn from [0, MaxTreesPerChunk).
	MaxTreesPerChunk int
	// TreeAttempts caps the column draws spent finding tree sites.
	TreeAttempts int
}

// DefaultConfig returns the standard world settings for seed.
func DefaultConfig(seed int64) Config {
	const waterLevel = 5
	return Config{
		Seed:             seed,
		WaterLevel:       waterLevel,
		Strata:           block.DefaultStrata(waterLevel),
		MaxTreesPerChunk: 3,
		TreeAttempts:     100,
	}
}

// Generator produces chunks deterministically from its config and height
// field. It holds no mutable state and is safe for concurrent use.
type Generator struct {
	cfg   Config
	field *noise.Data
	tree  structure.Structure
}

// New creates a Generator sampling heights from field.
func New(cfg Config, field *noise.Data) *Generator {
	return &Generator{cfg: cfg, field: field, tree: structure.Tree{}}
}

// Config returns the generator settings.
func (g *Generator) Config() Config { return g.cfg }

// HeightAt returns the terrain top for the absolute column (bx, bz). Columns
// with no noise sample have height 0.
func (g *Generator) HeightAt(bx, bz int) int {
	v, ok := g.field.At(bx, bz)
	if !ok {
		return 0
	}
	h := math.Pow(100, float64((v+1)*0.5)) - 1
	return max(int(h), 0)
}

// Generate builds the chunk at pos. Terrain is filled for every column
// before any tree is placed. Tree blocks that belong to another chunk are
// left in the chunk's outside-block queue.
func (g *Generator) Generate(pos coord.ChunkPos) *chunk.Chunk {
	c := chunk.New(pos)
	for x := range coord.ChunkSize {
		for z := range coord.ChunkSize {
			g.fillColumn(c, x, z)
		}
	}
	g.placeTrees(c)
	return c
}

func (g *Generator) fillColumn(c *chunk.Chunk, x, z int) {
	pos := c.Pos()
	top := g.HeightAt(pos.X*coord.ChunkSize+x, pos.Z*coord.ChunkSize+z)

	for y := 0; y <= top; y++ {
		t := g.cfg.Strata.FromPosition(x, y, z, g.cfg.Seed)
		if y == top && t == block.Dirt {
			t = block.Grass
		}
		c.AddBlock(block.New(coord.Vec(x, y, z), pos, t), false)
	}
	for y := top + 1; y <= g.cfg.WaterLevel; y++ {
		c.AddBlock(block.New(coord.Vec(x, y, z), pos, block.Water), false)
	}
}

func (g *Generator) placeTrees(c *chunk.Chunk) {
	pos := c.Pos()
	r := rng.ForChunk(g.cfg.Seed, pos.X, pos.Z, treeSalt)
	remaining := int(r.Float32() * float32(g.cfg.MaxTreesPerChunk))

	for attempt := 0; attempt < g.cfg.TreeAttempts && remaining > 0; attempt++ {
		x := r.IntN(coord.ChunkSize)
		z := r.IntN(coord.ChunkSize)

		top := c.TopBlock(x, z)
		if top == nil || top.Type() == block.Water || top.Type() == block.Leaf {
			continue
		}
		remaining--

		for _, b := range g.tree.Blocks(top.AbsolutePosition()) {
			if b.ChunkPos() == pos {
				c.AddBlock(b, false)
			} else {
				c.AddOutsideBlock(b)
			}
		}
	}
}
