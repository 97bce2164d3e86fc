package coord

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestChunkFromAbsolute(t *testing.T) {
	tests := []struct {
		pos  mgl32.Vec3
		want ChunkPos
	}{
		{mgl32.Vec3{17, 0, 20}, ChunkPos{1, 1}},
		{mgl32.Vec3{32, 0, 20}, ChunkPos{2, 1}},
		{mgl32.Vec3{-5, 0, -20}, ChunkPos{-1, -2}},
		{mgl32.Vec3{-1, 0, -1}, ChunkPos{-1, -1}},
		{mgl32.Vec3{0, 0, 0}, ChunkPos{0, 0}},
		{mgl32.Vec3{15.9, 3, -0.1}, ChunkPos{0, -1}},
	}

	for _, tt := range tests {
		if got := ChunkFromAbsolute(tt.pos); got != tt.want {
			t.Errorf("ChunkFromAbsolute(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestRelativeFromAbsolute(t *testing.T) {
	tests := []struct {
		pos  mgl32.Vec3
		want mgl32.Vec3
	}{
		{mgl32.Vec3{17, 0, 20}, mgl32.Vec3{1, 0, 4}},
		{mgl32.Vec3{-1, 0, -1}, mgl32.Vec3{15, 0, 15}},
		{mgl32.Vec3{-16, 5, 16}, mgl32.Vec3{0, 5, 0}},
		{mgl32.Vec3{3.7, -2, -17.5}, mgl32.Vec3{3, 0, 14}},
	}

	for _, tt := range tests {
		if got := RelativeFromAbsolute(tt.pos); got != tt.want {
			t.Errorf("RelativeFromAbsolute(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestCoordinateRoundTrip(t *testing.T) {
	for x := -40; x <= 40; x += 3 {
		for z := -40; z <= 40; z += 7 {
			for _, frac := range []float32{0, 0.25, 0.99} {
				p := mgl32.Vec3{float32(x) + frac, 12 + frac, float32(z) + frac}
				got := AbsoluteFromRelative(RelativeFromAbsolute(p), ChunkFromAbsolute(p))
				want := mgl32.Vec3{
					float32(math.Floor(float64(p.X()))),
					float32(math.Floor(float64(p.Y()))),
					float32(math.Floor(float64(p.Z()))),
				}
				if got != want {
					t.Fatalf("round trip of %v = %v, want %v", p, got, want)
				}
			}
		}
	}
}

func TestPlaneSignedDistance(t *testing.T) {
	pl := Plane{Point: mgl32.Vec3{0, 0, -5}, Normal: mgl32.Vec3{0, 0, -1}}

	if d := pl.SignedDistance(mgl32.Vec3{0, 0, -8}); d != 3 {
		t.Errorf("distance in front = %v, want 3", d)
	}
	if d := pl.SignedDistance(mgl32.Vec3{4, 1, 0}); d != -5 {
		t.Errorf("distance behind = %v, want -5", d)
	}
}
