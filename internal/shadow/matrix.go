// Package shadow derives light-space matrices and renders per-light depth maps
// for the main shading pass.
package shadow

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"scene-renderer/internal/mathutil"
	"scene-renderer/internal/scene"
	"scene-renderer/internal/scenegraph"
)

// MaxLights is the number of shadow slots.
const MaxLights = 8

// Spot light field-of-view limits.
var (
	MinSpotFov = mathutil.Deg2Rad(5)
	MaxSpotFov = mathutil.Deg2Rad(170)
)

// Options parameterizes light matrix derivation.
type Options struct {
	// Extent is the half-size of the directional ortho box when the scene has
	// no bounds.
	Extent float32
	// Near and Far bound spot light frusta.
	Near, Far float32
}

// DefaultOptions matches the config defaults.
func DefaultOptions() Options {
	return Options{Extent: 10, Near: 0.1, Far: 100}
}

// lookUp picks the look-at up vector for a light shining along dir.
func lookUp(dir mgl32.Vec3) mgl32.Vec3 {
	if math32.Abs(dir.Dot(mathutil.WorldY)) > 0.99 {
		return mathutil.WorldZ
	}
	return mathutil.WorldY
}

// SpotFov returns the perspective field of view for a spot cone.
func SpotFov(angle, penumbra float32) float32 {
	return mgl32.Clamp(2*(angle+penumbra), MinSpotFov, MaxSpotFov)
}

// LightMatrix returns projection × view for l. ok is false for light types
// that cast no shadow; their matrix is the identity.
func LightMatrix(l scenegraph.Light, b scenegraph.Bounds, o Options) (m mgl32.Mat4, ok bool) {
	switch l.Type {
	case scene.LightDirectional:
		return directional(l, b, o), true
	case scene.LightSpot:
		return spot(l, o), true
	}
	return mgl32.Ident4(), false
}

func directional(l scenegraph.Light, b scenegraph.Bounds, o Options) mgl32.Mat4 {
	dir := mathutil.Normalize(l.Direction, mgl32.Vec3{0, -1, 0})

	var center mgl32.Vec3
	r := o.Extent
	if b.Valid {
		center = b.Center()
		r = b.Radius()
	}
	if r < 1e-3 {
		r = 1e-3
	}

	// The bounding sphere sits between depth R and 3R from the eye.
	eye := center.Sub(dir.Mul(2 * r))
	view := mgl32.LookAtV(eye, center, lookUp(dir))
	proj := mgl32.Ortho(-r, r, -r, r, 0.5*r, 3.5*r)
	return proj.Mul4(view)
}

func spot(l scenegraph.Light, o Options) mgl32.Mat4 {
	dir := mathutil.Normalize(l.Direction, mgl32.Vec3{0, -1, 0})
	near, far := o.Near, o.Far
	if near <= 0 {
		near = 0.1
	}
	if far <= near {
		far = near + 100
	}
	view := mgl32.LookAtV(l.Position, l.Position.Add(dir), lookUp(dir))
	proj := mgl32.Perspective(SpotFov(l.Angle, l.Penumbra), 1, near, far)
	return proj.Mul4(view)
}
