package block

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxel-world/pkg/world/collision"
	"github.com/OCharnyshevich/voxel-world/pkg/world/coord"
)

// Block is a single voxel. It is immutable once created, so one *Block can be
// held by its chunk and by callers at the same time.
type Block struct {
	position mgl32.Vec3
	absolute mgl32.Vec3
	box      collision.Box
	typ      Type
}

// New creates a block at the relative position rel inside chunk c.
func New(rel mgl32.Vec3, c coord.ChunkPos, t Type) *Block {
	abs := coord.AbsoluteFromRelative(rel, c)
	return &Block{
		position: rel,
		absolute: abs,
		box:      collision.FromBlockPosition(abs.X(), abs.Y(), abs.Z()),
		typ:      t,
	}
}

// NewAbsolute creates a block at the absolute position p, placed in the chunk
// that owns it.
func NewAbsolute(p mgl32.Vec3, t Type) *Block {
	return New(coord.RelativeFromAbsolute(p), coord.ChunkFromAbsolute(p), t)
}

// Position returns the position relative to the owning chunk.
func (b *Block) Position() mgl32.Vec3 { return b.position }

// AbsolutePosition returns the world-space position.
func (b *Block) AbsolutePosition() mgl32.Vec3 { return b.absolute }

// CollisionBox returns the unit cube occupied by the block.
func (b *Block) CollisionBox() collision.Box { return b.box }

// Type returns the block type.
func (b *Block) Type() Type { return b.typ }

// ChunkPos returns the chunk that owns the block.
func (b *Block) ChunkPos() coord.ChunkPos {
	return coord.ChunkFromAbsolute(b.absolute)
}

// IsOnChunkBorder reports whether the block touches a horizontal chunk edge.
func (b *Block) IsOnChunkBorder() bool {
	x, z := int(b.position.X()), int(b.position.Z())
	return x == 0 || x == coord.ChunkSize-1 || z == 0 || z == coord.ChunkSize-1
}

// NeighbourChunks returns the chunks whose meshes depend on this block
// because it lies on their shared edge.
func (b *Block) NeighbourChunks() []coord.ChunkPos {
	c := b.ChunkPos()
	x, z := int(b.position.X()), int(b.position.Z())

	var out []coord.ChunkPos
	if x == coord.ChunkSize-1 {
		out = append(out, c.Add(1, 0))
	}
	if x == 0 {
		out = append(out, c.Add(-1, 0))
	}
	if z == coord.ChunkSize-1 {
		out = append(out, c.Add(0, 1))
	}
	if z == 0 {
		out = append(out, c.Add(0, -1))
	}
	return out
}
