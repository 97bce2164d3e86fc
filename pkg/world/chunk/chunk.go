// Package chunk stores the voxel columns of one chunk.
package chunk

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxel-world/pkg/world/block"
	"github.com/OCharnyshevich/voxel-world/pkg/world/coord"
)

// ErrOutsideChunk is wrapped by the panic raised when a block is placed or
// removed at a position that maps outside the column grid.
var ErrOutsideChunk = errors.New("position outside chunk")

// Chunk is a 16x16 grid of vertical columns. Each column is a slice indexed
// by height; nil entries are air. The grid is guarded by a RWMutex: any
// number of readers, or a single writer.
type Chunk struct {
	pos coord.ChunkPos

	mu      sync.RWMutex
	columns [coord.ColumnCount][]*block.Block

	outMu   sync.Mutex
	outside []*block.Block

	visible  atomic.Bool
	modified atomic.Bool
}

// New creates an empty chunk at pos.
func New(pos coord.ChunkPos) *Chunk {
	return &Chunk{pos: pos}
}

// Pos returns the chunk coordinate.
func (c *Chunk) Pos() coord.ChunkPos { return c.pos }

// IsOutsideChunk reports whether the horizontal part of a relative position
// falls outside [0, ChunkSize).
func IsOutsideChunk(p mgl32.Vec3) bool {
	return p.X() < 0 || p.X() >= coord.ChunkSize || p.Z() < 0 || p.Z() >= coord.ChunkSize
}

// IsOutsideBounds reports whether a position is below the world floor.
func IsOutsideBounds(p mgl32.Vec3) bool {
	return p.Y() < 0
}

// AddBlock stores b at its relative position, growing the column with air as
// needed. It panics with ErrOutsideChunk if the position is not inside the
// chunk.
func (c *Chunk) AddBlock(b *block.Block, markModified bool) {
	p := b.Position()
	if IsOutsideChunk(p) || IsOutsideBounds(p) {
		panic(fmt.Errorf("add block at %v: %w", p, ErrOutsideChunk))
	}
	idx := coord.ColumnIndex(int(p.X()), int(p.Z()))
	y := int(p.Y())

	c.mu.Lock()
	col := c.columns[idx]
	if y >= len(col) {
		col = append(col, make([]*block.Block, y+1-len(col))...)
	}
	col[y] = b
	c.columns[idx] = col
	c.mu.Unlock()

	if markModified {
		c.modified.Store(true)
	}
}

// RemoveBlock clears the slot at the relative position p, if any, and marks
// the chunk modified. It panics with ErrOutsideChunk if p is not inside the
// chunk.
func (c *Chunk) RemoveBlock(p mgl32.Vec3) {
	if IsOutsideChunk(p) {
		panic(fmt.Errorf("remove block at %v: %w", p, ErrOutsideChunk))
	}
	idx := coord.ColumnIndex(int(p.X()), int(p.Z()))
	y := int(p.Y())

	c.mu.Lock()
	if col := c.columns[idx]; y >= 0 && y < len(col) {
		col[y] = nil
	}
	c.mu.Unlock()

	c.modified.Store(true)
}

// BlockAt returns the block at the relative position p, or nil.
func (c *Chunk) BlockAt(p mgl32.Vec3) *block.Block {
	if IsOutsideChunk(p) || IsOutsideBounds(p) {
		return nil
	}
	idx := coord.ColumnIndex(int(p.X()), int(p.Z()))
	y := int(p.Y())

	c.mu.RLock()
	defer c.mu.RUnlock()
	col := c.columns[idx]
	if y >= len(col) {
		return nil
	}
	return col[y]
}

// ExistsBlockAt reports whether a block occupies the relative position p.
func (c *Chunk) ExistsBlockAt(p mgl32.Vec3) bool {
	return c.BlockAt(p) != nil
}

// BlockTypeAt returns the type of the block at p.
func (c *Chunk) BlockTypeAt(p mgl32.Vec3) (block.Type, bool) {
	b := c.BlockAt(p)
	if b == nil {
		return 0, false
	}
	return b.Type(), true
}

// TopBlock returns the highest block in the column at local (x, z), or nil
// if the column is empty or out of range.
func (c *Chunk) TopBlock(x, z int) *block.Block {
	if x < 0 || x >= coord.ChunkSize || z < 0 || z >= coord.ChunkSize {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	col := c.columns[coord.ColumnIndex(x, z)]
	for y := len(col) - 1; y >= 0; y-- {
		if col[y] != nil {
			return col[y]
		}
	}
	return nil
}

// Column returns a copy of the column at local (x, z).
func (c *Chunk) Column(x, z int) []*block.Block {
	if x < 0 || x >= coord.ChunkSize || z < 0 || z >= coord.ChunkSize {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	col := c.columns[coord.ColumnIndex(x, z)]
	out := make([]*block.Block, len(col))
	copy(out, col)
	return out
}

// Blocks returns every stored block. The slice is a snapshot; the lock is
// released before it is returned.
func (c *Chunk) Blocks() []*block.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*block.Block
	for _, col := range c.columns {
		for _, b := range col {
			if b != nil {
				out = append(out, b)
			}
		}
	}
	return out
}

// AddOutsideBlock queues a block generated here that belongs to another
// chunk.
func (c *Chunk) AddOutsideBlock(b *block.Block) {
	c.outMu.Lock()
	c.outside = append(c.outside, b)
	c.outMu.Unlock()
}

// TakeOutsideBlocksFor removes and returns the queued blocks that belong to
// the chunk at target. Taking any block marks the chunk modified so the
// shorter queue is what gets saved.
func (c *Chunk) TakeOutsideBlocksFor(target coord.ChunkPos) []*block.Block {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	var taken []*block.Block
	kept := c.outside[:0]
	for _, b := range c.outside {
		if b.ChunkPos() == target {
			taken = append(taken, b)
			continue
		}
		kept = append(kept, b)
	}
	clear(c.outside[len(kept):])
	c.outside = kept
	if len(taken) > 0 {
		c.modified.Store(true)
	}
	return taken
}

// OutsideBlocks returns a copy of the pending outside blocks.
func (c *Chunk) OutsideBlocks() []*block.Block {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	out := make([]*block.Block, len(c.outside))
	copy(out, c.outside)
	return out
}

// Visible reports whether the last visibility pass kept this chunk.
func (c *Chunk) Visible() bool { return c.visible.Load() }

// SetVisible records the visibility pass result.
func (c *Chunk) SetVisible(v bool) { c.visible.Store(v) }

// Modified reports whether the chunk changed since it was generated or last
// saved.
func (c *Chunk) Modified() bool { return c.modified.Load() }

// ClearModified resets the modified flag after a save.
func (c *Chunk) ClearModified() { c.modified.Store(false) }
