package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxel-world/pkg/world/block"
	"github.com/OCharnyshevich/voxel-world/pkg/world/collision"
	"github.com/OCharnyshevich/voxel-world/pkg/world/coord"
)

// Pick walks the cells crossed by ray, nearest first, up to maxDist and
// returns the first loaded block the ray enters. Water is passed through and
// unloaded chunks count as empty.
func (w *World) Pick(ray collision.Ray, maxDist float32) (*block.Block, collision.RayResult, bool) {
	if ray.Direction.Len() == 0 {
		return nil, collision.RayResult{}, false
	}
	r := collision.Ray{Origin: ray.Origin, Direction: ray.Direction.Normalize()}

	x, y, z := coord.Floor(r.Origin)
	cell := [3]int{x, y, z}
	var step [3]int
	var tMax, tDelta [3]float32
	for i := 0; i < 3; i++ {
		o, d := r.Origin[i], r.Direction[i]
		switch {
		case d > 0:
			step[i] = 1
			tMax[i] = (float32(cell[i]+1) - o) / d
			tDelta[i] = 1 / d
		case d < 0:
			step[i] = -1
			tMax[i] = (o - float32(cell[i])) / -d
			tDelta[i] = -1 / d
		default:
			tMax[i] = math.MaxFloat32
			tDelta[i] = math.MaxFloat32
		}
	}

	for t := float32(0); t <= maxDist; {
		if b := w.loadedBlockAt(cell); b != nil && b.Type() != block.Water {
			if entry, exit, ok := r.IntersectsBox(b.CollisionBox()); ok {
				return b, collision.RayResult{Entry: entry, Exit: exit, Box: b.CollisionBox()}, true
			}
		}

		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		t = tMax[axis]
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]
	}
	return nil, collision.RayResult{}, false
}

func (w *World) loadedBlockAt(cell [3]int) *block.Block {
	if cell[1] < 0 {
		return nil
	}
	p := mgl32.Vec3{float32(cell[0]), float32(cell[1]), float32(cell[2])}
	c, ok := w.Chunk(coord.ChunkFromAbsolute(p))
	if !ok {
		return nil
	}
	return c.BlockAt(coord.RelativeFromAbsolute(p))
}
