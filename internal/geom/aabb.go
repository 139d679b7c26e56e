package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Empty is the identity for Merge.
var Empty = AABB{
	Min: mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
	Max: mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
}

// FromCenter creates an AABB from a center point and half extents.
func FromCenter(center, half mgl64.Vec3) AABB {
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// FromPoints returns the tightest box enclosing every point.
func FromPoints(points ...mgl64.Vec3) AABB {
	b := Empty
	for _, p := range points {
		for i := 0; i < 3; i++ {
			b.Min[i] = math.Min(b.Min[i], p[i])
			b.Max[i] = math.Max(b.Max[i], p[i])
		}
	}
	return b
}

// Intersects reports whether the boxes overlap. Touching faces count as overlap.
func (a AABB) Intersects(b AABB) bool {
	return a.Min.X() <= b.Max.X() && a.Max.X() >= b.Min.X() &&
		a.Min.Y() <= b.Max.Y() && a.Max.Y() >= b.Min.Y() &&
		a.Min.Z() <= b.Max.Z() && a.Max.Z() >= b.Min.Z()
}

func (a AABB) Merge(b AABB) AABB {
	var out AABB
	for i := 0; i < 3; i++ {
		out.Min[i] = math.Min(a.Min[i], b.Min[i])
		out.Max[i] = math.Max(a.Max[i], b.Max[i])
	}
	return out
}

func (a AABB) Translate(offset mgl64.Vec3) AABB {
	return AABB{Min: a.Min.Add(offset), Max: a.Max.Add(offset)}
}

func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

func (a AABB) Size() mgl64.Vec3 {
	return a.Max.Sub(a.Min)
}

// IsEmpty reports whether the box encloses nothing (Min > Max on some axis).
func (a AABB) IsEmpty() bool {
	return a.Min.X() > a.Max.X() || a.Min.Y() > a.Max.Y() || a.Min.Z() > a.Max.Z()
}

// LongestAxis returns 0, 1 or 2 for x, y, z.
func (a AABB) LongestAxis() int {
	s := a.Size()
	axis := 0
	if s.Y() > s[axis] {
		axis = 1
	}
	if s.Z() > s[axis] {
		axis = 2
	}
	return axis
}
