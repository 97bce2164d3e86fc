package coord

import "github.com/go-gl/mathgl/mgl32"

// Plane is a half-space boundary described by a point on it and its normal.
type Plane struct {
	Point  mgl32.Vec3
	Normal mgl32.Vec3
}

// SignedDistance returns the distance from p to the plane along the normal.
// Positive values lie on the side the normal points to.
func (pl Plane) SignedDistance(p mgl32.Vec3) float32 {
	return p.Sub(pl.Point).Dot(pl.Normal)
}
