package mathutil

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Rodrigues rotates v by angle radians about the unit axis k.
func Rodrigues(v, k mgl32.Vec3, angle float32) mgl32.Vec3 {
	s, c := math32.Sincos(angle)
	return v.Mul(c).
		Add(k.Cross(v).Mul(s)).
		Add(k.Mul(k.Dot(v) * (1 - c)))
}

// PerpendicularUp picks a world axis usable as "up" for a view direction.
// World Y is preferred; when dir is nearly parallel to it, world Z is used.
func PerpendicularUp(dir mgl32.Vec3) mgl32.Vec3 {
	if math32.Abs(dir.Dot(WorldY)) > 0.99 {
		return WorldZ
	}
	return WorldY
}

// QuatFromBasis returns the rotation taking the standard axes onto (u, v, w).
func QuatFromBasis(u, v, w mgl32.Vec3) mgl32.Quat {
	m := mgl32.Mat4FromCols(u.Vec4(0), v.Vec4(0), w.Vec4(0), mgl32.Vec4{0, 0, 0, 1})
	return mgl32.Mat4ToQuat(m).Normalize()
}

// Slerp interpolates between unit quaternions along the shortest arc.
func Slerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	// nearly identical rotations: QuatSlerp divides by sin(theta)
	if a.Dot(b) > 0.9995 {
		return mgl32.QuatNlerp(a, b, t)
	}
	return mgl32.QuatSlerp(a, b, t).Normalize()
}
