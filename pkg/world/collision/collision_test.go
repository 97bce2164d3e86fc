package collision

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRayHitsCubeFromFront(t *testing.T) {
	box := FromBlockPosition(0, 0, 0)
	ray := Ray{Origin: mgl32.Vec3{0.5, 0.5, 5}, Direction: mgl32.Vec3{0, 0, -1}}

	entry, exit, ok := ray.IntersectsBox(box)
	if !ok {
		t.Fatal("ray aimed at cube center should hit")
	}
	if entry.Z() <= exit.Z() {
		t.Errorf("entry z = %v, exit z = %v, want entry to have larger z", entry.Z(), exit.Z())
	}
	if mid := entry.Add(exit).Mul(0.5); !box.ContainsPoint(mid) {
		t.Errorf("midpoint %v not inside %v", mid, box)
	}
	if want := (mgl32.Vec3{0.5, 0.5, 1}); entry != want {
		t.Errorf("entry = %v, want %v", entry, want)
	}
	if want := (mgl32.Vec3{0.5, 0.5, 0}); exit != want {
		t.Errorf("exit = %v, want %v", exit, want)
	}
}

func TestRayMisses(t *testing.T) {
	box := FromBlockPosition(0, 0, 0)

	tests := []struct {
		name string
		ray  Ray
	}{
		{"pointing away", Ray{Origin: mgl32.Vec3{0.5, 0.5, 5}, Direction: mgl32.Vec3{0, 0, 1}}},
		{"passing beside", Ray{Origin: mgl32.Vec3{3, 0.5, 5}, Direction: mgl32.Vec3{0, 0, -1}}},
		{"passing above", Ray{Origin: mgl32.Vec3{0.5, 4, 5}, Direction: mgl32.Vec3{0, 0.1, -1}}},
	}
	for _, tt := range tests {
		if _, _, ok := tt.ray.IntersectsBox(box); ok {
			t.Errorf("%s: expected miss", tt.name)
		}
	}
}

func TestRayAlongZAxis(t *testing.T) {
	box := FromBlockPosition(8, 12, 4)

	tests := []struct {
		name   string
		ray    Ray
		entryZ float32
		exitZ  float32
	}{
		{"towards -z", Ray{Origin: mgl32.Vec3{8.5, 12.5, 10.5}, Direction: mgl32.Vec3{0, 0, -1}}, 5, 4},
		{"towards +z", Ray{Origin: mgl32.Vec3{8.5, 12.5, -3}, Direction: mgl32.Vec3{0, 0, 1}}, 4, 5},
	}
	for _, tt := range tests {
		entry, exit, ok := tt.ray.IntersectsBox(box)
		if !ok {
			t.Errorf("%s: expected hit", tt.name)
			continue
		}
		if entry != (mgl32.Vec3{8.5, 12.5, tt.entryZ}) {
			t.Errorf("%s: entry = %v, want z %v", tt.name, entry, tt.entryZ)
		}
		if exit != (mgl32.Vec3{8.5, 12.5, tt.exitZ}) {
			t.Errorf("%s: exit = %v, want z %v", tt.name, exit, tt.exitZ)
		}
	}
}

func TestRayFromInsideBox(t *testing.T) {
	box := FromBlockPosition(0, 0, 0)
	origin := mgl32.Vec3{0.25, 0.5, 0.5}
	ray := Ray{Origin: origin, Direction: mgl32.Vec3{1, 0, 0}}

	entry, exit, ok := ray.IntersectsBox(box)
	if !ok {
		t.Fatal("ray starting inside the box should hit")
	}
	if entry != origin {
		t.Errorf("entry = %v, want origin %v", entry, origin)
	}
	if want := (mgl32.Vec3{1, 0.5, 0.5}); exit != want {
		t.Errorf("exit = %v, want %v", exit, want)
	}
}

func TestRayBoxBehindOriginOnZ(t *testing.T) {
	box := FromBlockPosition(0, 0, 0)
	ray := Ray{Origin: mgl32.Vec3{0.5, 0.5, 3}, Direction: mgl32.Vec3{0, 0, 1}}
	if _, _, ok := ray.IntersectsBox(box); ok {
		t.Error("box behind the origin should not be hit")
	}
}

func TestRayDiagonalHit(t *testing.T) {
	box := FromBlockPosition(2, 0, 2)
	ray := Ray{Origin: mgl32.Vec3{0, 0.5, 0}, Direction: mgl32.Vec3{1, 0, 1}.Normalize()}

	entry, exit, ok := ray.IntersectsBox(box)
	if !ok {
		t.Fatal("diagonal ray should hit the box")
	}
	if !entry.ApproxEqualThreshold(mgl32.Vec3{2, 0.5, 2}, 1e-4) {
		t.Errorf("entry = %v, want (2, 0.5, 2)", entry)
	}
	if !exit.ApproxEqualThreshold(mgl32.Vec3{3, 0.5, 3}, 1e-4) {
		t.Errorf("exit = %v, want (3, 0.5, 3)", exit)
	}
}

func TestBoxHelpers(t *testing.T) {
	b := FromBlockPosition(1, 2, 3)

	if c := b.Center(); c != (mgl32.Vec3{1.5, 2.5, 3.5}) {
		t.Errorf("Center() = %v, want (1.5, 2.5, 3.5)", c)
	}
	if p := b.ToBlockPosition(); p != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("ToBlockPosition() = %v, want (1, 2, 3)", p)
	}
	moved := b.Translate(mgl32.Vec3{1, 0, 0})
	if moved.Min != (mgl32.Vec3{2, 2, 3}) || moved.Max != (mgl32.Vec3{3, 3, 4}) {
		t.Errorf("Translate = %v, want min (2,2,3) max (3,3,4)", moved)
	}
	if !b.Intersects(moved) {
		t.Error("touching boxes should intersect")
	}
	if b.Intersects(FromBlockPosition(5, 5, 5)) {
		t.Error("distant boxes should not intersect")
	}
	if !b.ContainsPoint(mgl32.Vec3{1, 2.5, 4}) {
		t.Error("point on the face should be contained")
	}
}
