// Package camera derives view and projection matrices and animates the camera
// from input or a scripted path.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"scene-renderer/internal/mathutil"
	"scene-renderer/internal/scene"
)

// Camera is a perspective camera. Look and Up are unit length but not
// necessarily orthogonal; Basis orthogonalizes them on demand.
type Camera struct {
	Position mgl32.Vec3
	Look     mgl32.Vec3
	Up       mgl32.Vec3
	FovY     float32 // radians
	Near     float32
	Far      float32
	Aspect   float32
}

// New builds a camera from scene data and projection settings.
func New(data scene.CameraData, aspect, near, far float32) Camera {
	c := Camera{
		Position: data.Position,
		Look:     mathutil.Normalize(data.Look, mgl32.Vec3{0, 0, -1}),
		Up:       mathutil.Normalize(data.Up, mathutil.WorldY),
		FovY:     data.HeightAngle,
		Near:     near,
		Far:      far,
		Aspect:   aspect,
	}
	if c.FovY <= 0 {
		c.FovY = mathutil.Deg2Rad(45)
	}
	return c
}

// Basis returns the orthonormal camera frame: u right, v up, w backwards.
// When up is parallel to look another world axis stands in for it.
func (c *Camera) Basis() (u, v, w mgl32.Vec3) {
	w = mathutil.Normalize(c.Look.Mul(-1), mathutil.WorldZ)

	up := c.Up
	ortho := up.Sub(w.Mul(up.Dot(w)))
	if ortho.Len() < 1e-4 {
		up = mathutil.PerpendicularUp(w)
		ortho = up.Sub(w.Mul(up.Dot(w)))
		if ortho.Len() < 1e-4 {
			up = mathutil.WorldX
			ortho = up.Sub(w.Mul(up.Dot(w)))
		}
	}
	v = ortho.Normalize()
	u = v.Cross(w)
	return u, v, w
}

// ViewMatrix returns R(u, v, w) × T(-position).
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	u, v, w := c.Basis()
	r := mgl32.Mat4{
		u[0], v[0], w[0], 0,
		u[1], v[1], w[1], 0,
		u[2], v[2], w[2], 0,
		0, 0, 0, 1,
	}
	return r.Mul4(mgl32.Translate3D(-c.Position[0], -c.Position[1], -c.Position[2]))
}

// ProjectionMatrix maps view-space depth near→-1 and far→+1.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	near, far, aspect := c.Near, c.Far, c.Aspect
	if near <= 0 {
		near = 1e-4
	}
	// near == far is singular
	if far <= near {
		far = near + 1
	}
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(c.FovY, aspect, near, far)
}

// Right returns normalize(look × up), falling back to the basis when degenerate.
func (c *Camera) Right() mgl32.Vec3 {
	r := c.Look.Cross(c.Up)
	if r.Len() < mathutil.Epsilon {
		u, _, _ := c.Basis()
		return u
	}
	return r.Normalize()
}

// Movement is a translation direction relative to the camera.
type Movement int

const (
	Forward Movement = iota
	Backward
	Left
	Right
	Ascend
	Descend
)

// Move translates the camera by dist along m. Vertical moves use world Y.
func (c *Camera) Move(m Movement, dist float32) {
	var d mgl32.Vec3
	switch m {
	case Forward:
		d = c.Look
	case Backward:
		d = c.Look.Mul(-1)
	case Right:
		d = c.Right()
	case Left:
		d = c.Right().Mul(-1)
	case Ascend:
		d = mathutil.WorldY
	case Descend:
		d = mathutil.WorldY.Mul(-1)
	}
	c.Position = c.Position.Add(mathutil.Normalize(d, mgl32.Vec3{}).Mul(dist))
}

// Rotate yaws about world Y, then pitches about the camera's right axis.
// Look and Up are renormalized afterwards.
func (c *Camera) Rotate(yaw, pitch float32) {
	if yaw != 0 {
		c.Look = mathutil.Rodrigues(c.Look, mathutil.WorldY, yaw)
		c.Up = mathutil.Rodrigues(c.Up, mathutil.WorldY, yaw)
	}
	if pitch != 0 {
		right := c.Right()
		c.Look = mathutil.Rodrigues(c.Look, right, pitch)
		c.Up = mathutil.Rodrigues(c.Up, right, pitch)
	}
	c.Look = mathutil.Normalize(c.Look, mgl32.Vec3{0, 0, -1})
	c.Up = mathutil.Normalize(c.Up, mathutil.WorldY)
}

// LookAt turns the camera toward target; a target at the camera position is ignored.
func (c *Camera) LookAt(target mgl32.Vec3) {
	d := target.Sub(c.Position)
	if d.Len() < mathutil.Epsilon {
		return
	}
	c.Look = d.Normalize()
	if c.Look.Cross(c.Up).Len() < 1e-4 {
		c.Up = mathutil.PerpendicularUp(c.Look)
	}
}

// Orientation returns the camera-to-world rotation.
func (c *Camera) Orientation() mgl32.Quat {
	u, v, w := c.Basis()
	return mathutil.QuatFromBasis(u, v, w)
}

// Apply moves the camera to keyframe k.
func (c *Camera) Apply(k Keyframe) {
	c.Position = k.Position
	c.Look = mathutil.Normalize(k.Orientation.Rotate(mgl32.Vec3{0, 0, -1}), c.Look)
	c.Up = mathutil.Normalize(k.Orientation.Rotate(mathutil.WorldY), c.Up)
}

// Keyframe returns the current pose as a path keyframe.
func (c *Camera) Keyframe() Keyframe {
	return Keyframe{Position: c.Position, Orientation: c.Orientation()}
}
