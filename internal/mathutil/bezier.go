package mathutil

import "github.com/go-gl/mathgl/mgl32"

// BezierVec3 evaluates the cubic Bezier with control points p at t using
// de Casteljau's recursive blending.
func BezierVec3(p [4]mgl32.Vec3, t float32) mgl32.Vec3 {
	a := Lerp3(p[0], p[1], t)
	b := Lerp3(p[1], p[2], t)
	c := Lerp3(p[2], p[3], t)
	d := Lerp3(a, b, t)
	e := Lerp3(b, c, t)
	return Lerp3(d, e, t)
}

// BezierQuat blends four orientations with the same de Casteljau structure,
// replacing every linear step with a slerp.
func BezierQuat(q [4]mgl32.Quat, t float32) mgl32.Quat {
	a := Slerp(q[0], q[1], t)
	b := Slerp(q[1], q[2], t)
	c := Slerp(q[2], q[3], t)
	d := Slerp(a, b, t)
	e := Slerp(b, c, t)
	return Slerp(d, e, t)
}

// QuadBezier evaluates the quadratic Bezier (p0, p1, p2) at t.
func QuadBezier(p0, p1, p2 mgl32.Vec3, t float32) mgl32.Vec3 {
	return Lerp3(Lerp3(p0, p1, t), Lerp3(p1, p2, t), t)
}
