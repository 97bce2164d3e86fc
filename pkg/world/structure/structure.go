// Package structure builds multi-block features rooted at an absolute
// position. Structures do not clip at chunk edges; each returned block
// carries its own owning chunk.
package structure

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxel-world/pkg/world/block"
)

// Structure produces the blocks of a feature anchored at an absolute position.
type Structure interface {
	Blocks(anchor mgl32.Vec3) []*block.Block
}

// Tree is a three-block trunk topped by a small leaf canopy.
type Tree struct{}

var trunkOffsets = []mgl32.Vec3{
	{0, 1, 0},
	{0, 2, 0},
	{0, 3, 0},
}

var leafOffsets = []mgl32.Vec3{
	{0, 3, 1}, {0, 4, 1},
	{1, 3, 1}, {1, 4, 1},
	{-1, 3, 1}, {-1, 4, 1},

	{0, 3, -1}, {0, 4, -1},
	{1, 3, -1}, {1, 4, -1},
	{-1, 3, -1}, {-1, 4, -1},

	{1, 3, 0}, {1, 4, 0},
	{-1, 3, 0}, {-1, 4, 0},

	{0, 5, 0},
}

// Blocks returns the trunk followed by the leaves. anchor is the block the
// tree stands on.
func (Tree) Blocks(anchor mgl32.Vec3) []*block.Block {
	out := make([]*block.Block, 0, len(trunkOffsets)+len(leafOffsets))
	for _, off := range trunkOffsets {
		out = append(out, block.NewAbsolute(anchor.Add(off), block.Wood))
	}
	for _, off := range leafOffsets {
		out = append(out, block.NewAbsolute(anchor.Add(off), block.Leaf))
	}
	return out
}
