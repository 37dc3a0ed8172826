package mathutil

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the tolerance used for degenerate-length checks.
const Epsilon = 1e-6

// World axes.
var (
	WorldX = mgl32.Vec3{1, 0, 0}
	WorldY = mgl32.Vec3{0, 1, 0}
	WorldZ = mgl32.Vec3{0, 0, 1}
)

// Normalize returns v scaled to unit length, or fallback when v is (near) zero.
func Normalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < Epsilon || !IsFinite(l) {
		return fallback
	}
	return v.Mul(1 / l)
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// IsFiniteVec3 reports whether every component of v is finite.
func IsFiniteVec3(v mgl32.Vec3) bool {
	return IsFinite(v[0]) && IsFinite(v[1]) && IsFinite(v[2])
}

// IsFiniteMat4 reports whether every entry of m is finite.
func IsFiniteMat4(m mgl32.Mat4) bool {
	for _, f := range m {
		if !IsFinite(f) {
			return false
		}
	}
	return true
}

// Lerp3 linearly interpolates between a and b.
func Lerp3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float32) float32 {
	return deg * math32.Pi / 180
}

// Point transforms p by m with w=1.
func Point(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// Direction transforms d by m with w=0; translation is ignored.
func Direction(m mgl32.Mat4, d mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}

// NormalMatrix returns the inverse-transpose of m, used to carry normals.
// A singular m yields the identity.
func NormalMatrix(m mgl32.Mat4) mgl32.Mat4 {
	if m.Det() == 0 {
		return mgl32.Ident4()
	}
	return m.Inv().Transpose()
}
