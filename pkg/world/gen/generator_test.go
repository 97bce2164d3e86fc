package gen

import (
	"testing"

	"github.com/OCharnyshevich/voxel-world/pkg/world/block"
	"github.com/OCharnyshevich/voxel-world/pkg/world/chunk"
	"github.com/OCharnyshevich/voxel-world/pkg/world/coord"
	"github.com/OCharnyshevich/voxel-world/pkg/world/noise"
)

func flatField(v float32) *noise.Data {
	values := make([]float32, 32*32)
	for i := range values {
		values[i] = v
	}
	return noise.NewData(32, 32, values)
}

func noiseField(seed int64) *noise.Data {
	return noise.CreateWorldNoiseData(noise.NewPermutation(seed), 64, 64, 0.125)
}

func TestHeightAtFormula(t *testing.T) {
	tests := []struct {
		v    float32
		want int
	}{
		{-1, 0},
		{0, 9},
		{1, 99},
		{-1.5, 0},
	}
	for _, tt := range tests {
		g := New(DefaultConfig(1), flatField(tt.v))
		if got := g.HeightAt(3, -40); got != tt.want {
			t.Errorf("HeightAt with v=%v = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestHeightAtMissingField(t *testing.T) {
	g := New(DefaultConfig(1), nil)
	if got := g.HeightAt(10, 10); got != 0 {
		t.Errorf("HeightAt = %d, want 0", got)
	}
}

func TestGenerateLowlandFillsWater(t *testing.T) {
	cfg := DefaultConfig(7)
	g := New(cfg, flatField(-1))
	c := g.Generate(coord.ChunkPos{X: -2, Z: 3})

	for x := range coord.ChunkSize {
		for z := range coord.ChunkSize {
			col := c.Column(x, z)
			if len(col) != cfg.WaterLevel+1 {
				t.Fatalf("column (%d,%d) height = %d, want %d", x, z, len(col), cfg.WaterLevel+1)
			}
			if col[0].Type() != block.Sand {
				t.Errorf("column (%d,%d) floor = %v, want sand", x, z, col[0].Type())
			}
			for y := 1; y <= cfg.WaterLevel; y++ {
				if col[y].Type() != block.Water {
					t.Errorf("block (%d,%d,%d) = %v, want water", x, y, z, col[y].Type())
				}
			}
		}
	}
	if n := len(c.OutsideBlocks()); n != 0 {
		t.Errorf("trees placed on water: %d outside blocks", n)
	}
}

func TestGenerateGrassTop(t *testing.T) {
	cfg := DefaultConfig(7)
	cfg.MaxTreesPerChunk = 0
	g := New(cfg, flatField(0))
	c := g.Generate(coord.ChunkPos{X: 4, Z: 4})

	for x := range coord.ChunkSize {
		for z := range coord.ChunkSize {
			top := c.TopBlock(x, z)
			if top == nil || top.Position().Y() != 9 {
				t.Fatalf("TopBlock(%d, %d) = %v, want y=9", x, z, top)
			}
			if top.Type() != block.Grass {
				t.Errorf("TopBlock(%d, %d) = %v, want grass", x, z, top.Type())
			}
		}
	}
	if c.Modified() {
		t.Error("freshly generated chunk is marked modified")
	}
}

func TestGenerateBlocksAgreeWithChunk(t *testing.T) {
	g := New(DefaultConfig(11), noiseField(11))
	pos := coord.ChunkPos{X: -1, Z: 2}
	c := g.Generate(pos)

	for _, b := range c.Blocks() {
		if b.ChunkPos() != pos {
			t.Fatalf("block at %v belongs to %v, want %v", b.AbsolutePosition(), b.ChunkPos(), pos)
		}
		if got := c.BlockAt(b.Position()); got != b {
			t.Fatalf("BlockAt(%v) = %v, want %v", b.Position(), got, b)
		}
	}
}

func TestWaterNeverAboveTerrain(t *testing.T) {
	cfg := DefaultConfig(3)
	g := New(cfg, noiseField(3))
	pos := coord.ChunkPos{X: 1, Z: 1}
	c := g.Generate(pos)

	for x := range coord.ChunkSize {
		for z := range coord.ChunkSize {
			h := g.HeightAt(pos.X*coord.ChunkSize+x, pos.Z*coord.ChunkSize+z)
			for y, b := range c.Column(x, z) {
				if b == nil || b.Type() != block.Water {
					continue
				}
				if y <= h || y > cfg.WaterLevel {
					t.Errorf("water at (%d,%d,%d) with terrain top %d", x, y, z, h)
				}
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	field := noiseField(42)
	pos := coord.ChunkPos{X: 5, Z: -3}
	a := New(DefaultConfig(42), field).Generate(pos)
	b := New(DefaultConfig(42), field).Generate(pos)

	assertSameChunk(t, a, b)
	if len(a.OutsideBlocks()) != len(b.OutsideBlocks()) {
		t.Errorf("outside blocks: %d vs %d", len(a.OutsideBlocks()), len(b.OutsideBlocks()))
	}
}

func TestTreesSpillIntoNeighbours(t *testing.T) {
	cfg := DefaultConfig(5)
	cfg.MaxTreesPerChunk = 40
	g := New(cfg, flatField(0))

	var spilled int
	var wood int
	for cx := range 4 {
		for cz := range 4 {
			pos := coord.ChunkPos{X: cx, Z: cz}
			c := g.Generate(pos)
			for _, b := range c.OutsideBlocks() {
				spilled++
				d := b.ChunkPos()
				if d == pos || abs(d.X-pos.X) > 1 || abs(d.Z-pos.Z) > 1 {
					t.Errorf("outside block %v routed from %v to %v", b.AbsolutePosition(), pos, d)
				}
			}
			for _, b := range c.Blocks() {
				if b.Type() == block.Wood {
					wood++
					if b.Position().Y() < 10 || b.Position().Y() > 12 {
						t.Errorf("trunk at height %v, want 10..12", b.Position().Y())
					}
				}
			}
		}
	}
	if wood == 0 {
		t.Error("no trees placed in 16 chunks")
	}
	if spilled == 0 {
		t.Error("no tree blocks spilled into neighbour chunks")
	}
}

func assertSameChunk(t *testing.T, a, b *chunk.Chunk) {
	t.Helper()
	for x := range coord.ChunkSize {
		for z := range coord.ChunkSize {
			ca, cb := a.Column(x, z), b.Column(x, z)
			if len(ca) != len(cb) {
				t.Fatalf("column (%d,%d) length %d vs %d", x, z, len(ca), len(cb))
			}
			for y := range ca {
				if (ca[y] == nil) != (cb[y] == nil) {
					t.Fatalf("block (%d,%d,%d) presence differs", x, y, z)
				}
				if ca[y] != nil && ca[y].Type() != cb[y].Type() {
					t.Fatalf("block (%d,%d,%d) = %v vs %v", x, y, z, ca[y].Type(), cb[y].Type())
				}
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
