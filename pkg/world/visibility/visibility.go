// Package visibility culls chunks against the horizontal view frustum.
package visibility

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxel-world/pkg/world/coord"
)

var worldUp = mgl32.Vec3{0, 1, 0}

// Camera holds the view parameters used for culling. FovY is in radians.
type Camera struct {
	Eye     mgl32.Vec3
	Forward mgl32.Vec3
	Right   mgl32.Vec3
	FovY    float32
	Aspect  float32
	ZNear   float32
	ZFar    float32
}

// Frustum is the near, far, left and right planes of a camera. Top and
// bottom are not tested. Normals point into the frustum.
type Frustum struct {
	Near  coord.Plane
	Far   coord.Plane
	Left  coord.Plane
	Right coord.Plane
}

// NewFrustum builds the culling planes for cam.
func NewFrustum(cam Camera) Frustum {
	fwd := cam.Forward.Normalize()
	right := cam.Right.Normalize()

	halfV := cam.ZFar * float32(math.Tan(float64(cam.FovY)/2))
	halfH := halfV * cam.Aspect
	frontFar := fwd.Mul(cam.ZFar)

	return Frustum{
		Near: coord.Plane{Point: cam.Eye.Add(fwd.Mul(cam.ZNear)), Normal: fwd},
		Far:  coord.Plane{Point: cam.Eye.Add(frontFar), Normal: fwd.Mul(-1)},
		Left: coord.Plane{
			Point:  cam.Eye,
			Normal: frontFar.Sub(right.Mul(halfH)).Cross(worldUp).Normalize(),
		},
		Right: coord.Plane{
			Point:  cam.Eye,
			Normal: worldUp.Cross(frontFar.Add(right.Mul(halfH))).Normalize(),
		},
	}
}

// Planes returns the four planes in test order.
func (f Frustum) Planes() [4]coord.Plane {
	return [4]coord.Plane{f.Far, f.Near, f.Left, f.Right}
}

// ChunkCorners returns the four horizontal corners of a chunk at y = 0.
func ChunkCorners(pos coord.ChunkPos) [4]mgl32.Vec3 {
	x0 := float32(pos.X * coord.ChunkSize)
	z0 := float32(pos.Z * coord.ChunkSize)
	x1 := x0 + coord.ChunkSize
	z1 := z0 + coord.ChunkSize
	return [4]mgl32.Vec3{{x0, 0, z0}, {x1, 0, z0}, {x0, 0, z1}, {x1, 0, z1}}
}

// ChunkVisible reports whether, for every plane, at least one chunk corner
// lies on or in front of it. The test is conservative: chunks straddling a
// plane are kept.
func (f Frustum) ChunkVisible(pos coord.ChunkPos) bool {
	corners := ChunkCorners(pos)
	for _, p := range f.Planes() {
		inside := false
		for _, c := range corners {
			if p.SignedDistance(c) >= 0 {
				inside = true
				break
			}
		}
		if !inside {
			return false
		}
	}
	return true
}
