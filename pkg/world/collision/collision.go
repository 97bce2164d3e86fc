// Package collision provides axis-aligned boxes and ray picking against them.
package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Box is an axis-aligned bounding box.
type Box struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewBox creates a box at (x, y, z) with the given extents.
func NewBox(x, y, z, width, height, depth float32) Box {
	return Box{
		Min: mgl32.Vec3{x, y, z},
		Max: mgl32.Vec3{x + width, y + height, z + depth},
	}
}

// FromBlockPosition returns the unit cube whose minimum corner is (x, y, z).
func FromBlockPosition(x, y, z float32) Box {
	return NewBox(x, y, z, 1, 1, 1)
}

// Center returns the midpoint of the box.
func (b Box) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max.Sub(b.Min).Mul(0.5))
}

// ToBlockPosition returns the minimum corner, which is the block position for
// unit cubes.
func (b Box) ToBlockPosition() mgl32.Vec3 {
	return b.Min
}

// ContainsPoint reports whether p lies inside or on the box.
func (b Box) ContainsPoint(p mgl32.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// Intersects reports whether the two boxes overlap or touch.
func (b Box) Intersects(o Box) bool {
	return b.Min.X() <= o.Max.X() && b.Max.X() >= o.Min.X() &&
		b.Min.Y() <= o.Max.Y() && b.Max.Y() >= o.Min.Y() &&
		b.Min.Z() <= o.Max.Z() && b.Max.Z() >= o.Min.Z()
}

// Translate returns the box moved by d.
func (b Box) Translate(d mgl32.Vec3) Box {
	return Box{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Ray is a half-line starting at Origin.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// RayResult pairs a hit box with the entry and exit points on it.
type RayResult struct {
	Entry mgl32.Vec3
	Exit  mgl32.Vec3
	Box   Box
}

// IntersectsBox runs the slab test against b. It returns the entry and exit
// points, or false if the ray misses or the box is behind the origin. When
// the origin is inside the box the entry point is the origin itself.
func (r Ray) IntersectsBox(b Box) (entry, exit mgl32.Vec3, ok bool) {
	tmin := float32(math.Inf(-1))
	tmax := float32(math.Inf(1))
	for axis := 0; axis < 3; axis++ {
		lo, hi, hit := slab(r.Origin[axis], r.Direction[axis], b.Min[axis], b.Max[axis])
		if !hit {
			return entry, exit, false
		}
		tmin = max(tmin, lo)
		tmax = min(tmax, hi)
	}
	if tmax < 0 || tmin > tmax {
		return entry, exit, false
	}
	tmin = max(tmin, 0)
	return r.At(tmin), r.At(tmax), true
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// slab returns the parameter range where the ray lies between lo and hi on
// one axis. A ray parallel to the axis either spans all of t or misses.
func slab(origin, dir, lo, hi float32) (float32, float32, bool) {
	if dir == 0 {
		if origin < lo || origin > hi {
			return 0, 0, false
		}
		return float32(math.Inf(-1)), float32(math.Inf(1)), true
	}
	t0 := (lo - origin) / dir
	t1 := (hi - origin) / dir
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return t0, t1, true
}
