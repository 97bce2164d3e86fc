package visibility

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxel-world/pkg/world/coord"
)

// lookingNorth places the camera above the origin facing -Z.
func lookingNorth() Camera {
	return Camera{
		Eye:     mgl32.Vec3{8, 20, 8},
		Forward: mgl32.Vec3{0, 0, -1},
		Right:   mgl32.Vec3{1, 0, 0},
		FovY:    float32(math.Pi / 4),
		Aspect:  16.0 / 9.0,
		ZNear:   0.1,
		ZFar:    100,
	}
}

func TestChunkAheadVisible(t *testing.T) {
	f := NewFrustum(lookingNorth())
	for _, pos := range []coord.ChunkPos{{X: 0, Z: -1}, {X: 0, Z: -3}, {X: 1, Z: -2}} {
		if !f.ChunkVisible(pos) {
			t.Errorf("ChunkVisible(%v) = false, want true", pos)
		}
	}
}

func TestChunkBehindCulled(t *testing.T) {
	f := NewFrustum(lookingNorth())
	for _, pos := range []coord.ChunkPos{{X: 0, Z: 2}, {X: -1, Z: 5}} {
		if f.ChunkVisible(pos) {
			t.Errorf("ChunkVisible(%v) = true, want false", pos)
		}
	}
}

func TestChunkBeyondFarCulled(t *testing.T) {
	f := NewFrustum(lookingNorth())
	// Every corner is more than ZFar in front of the eye.
	pos := coord.ChunkPos{X: 0, Z: -8}
	for _, c := range ChunkCorners(pos) {
		if d := f.Far.SignedDistance(c); d >= 0 {
			t.Fatalf("corner %v far distance = %v, want negative", c, d)
		}
	}
	if f.ChunkVisible(pos) {
		t.Errorf("ChunkVisible(%v) = true, want false", pos)
	}
}

func TestChunkStraddlingFarVisible(t *testing.T) {
	f := NewFrustum(lookingNorth())
	// Spans z in [-96, -80]: the far plane at z = -92 cuts through it.
	pos := coord.ChunkPos{X: 0, Z: -6}
	if !f.ChunkVisible(pos) {
		t.Errorf("ChunkVisible(%v) = false, want true", pos)
	}
}

func TestChunkOutsideSidesCulled(t *testing.T) {
	f := NewFrustum(lookingNorth())
	for _, pos := range []coord.ChunkPos{{X: 5, Z: -1}, {X: -5, Z: -1}} {
		if f.ChunkVisible(pos) {
			t.Errorf("ChunkVisible(%v) = true, want false", pos)
		}
	}
}

func TestContainingChunkVisible(t *testing.T) {
	f := NewFrustum(lookingNorth())
	if !f.ChunkVisible(coord.ChunkPos{}) {
		t.Error("chunk under the camera culled")
	}
}

func TestSidePlanesFaceInward(t *testing.T) {
	f := NewFrustum(lookingNorth())
	ahead := mgl32.Vec3{8, 0, -40}
	for i, p := range f.Planes() {
		if d := p.SignedDistance(ahead); d < 0 {
			t.Errorf("plane %d distance to point ahead = %v, want >= 0", i, d)
		}
	}
}
