package mathutil

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestRodriguesQuarterTurn(t *testing.T) {
	v := Rodrigues(WorldX, WorldY, math32.Pi/2)
	assert.InDelta(t, 0, v[0], 1e-6)
	assert.InDelta(t, 0, v[1], 1e-6)
	assert.InDelta(t, -1, v[2], 1e-6)
}

func TestRodriguesPreservesLength(t *testing.T) {
	v := mgl32.Vec3{1, 2, 3}
	k := mgl32.Vec3{1, 1, 0}.Normalize()
	r := Rodrigues(v, k, 0.7)
	assert.InDelta(t, v.Len(), r.Len(), 1e-5)
}

func TestNormalizeFallback(t *testing.T) {
	assert.Equal(t, WorldY, Normalize(mgl32.Vec3{}, WorldY))
	assert.InDelta(t, 1, Normalize(mgl32.Vec3{3, 4, 0}, WorldY).Len(), 1e-6)
}

func TestPerpendicularUp(t *testing.T) {
	assert.Equal(t, WorldZ, PerpendicularUp(mgl32.Vec3{0, -1, 0}))
	assert.Equal(t, WorldY, PerpendicularUp(mgl32.Vec3{1, -1, 0}.Normalize()))
}

func TestSlerpShortestArc(t *testing.T) {
	a := mgl32.QuatRotate(0.1, WorldY)
	b := mgl32.QuatRotate(0.3, WorldY).Scale(-1)
	mid := Slerp(a, b, 0.5)
	want := mgl32.QuatRotate(0.2, WorldY)
	assert.InDelta(t, 1, math32.Abs(mid.Dot(want)), 1e-5)
}

func TestBezierEndpoints(t *testing.T) {
	p := [4]mgl32.Vec3{{0, 0, 0}, {1, 2, 0}, {3, 2, 0}, {4, 0, 0}}
	assert.True(t, BezierVec3(p, 0).ApproxEqual(p[0]))
	assert.True(t, BezierVec3(p, 1).ApproxEqual(p[3]))
	mid := BezierVec3(p, 0.5)
	assert.InDelta(t, 2, mid[0], 1e-6)
	assert.InDelta(t, 1.5, mid[1], 1e-6)
}

func TestNormalMatrixOfNonUniformScale(t *testing.T) {
	m := mgl32.Scale3D(2, 1, 1)
	n := NormalMatrix(m)
	d := Direction(n, mgl32.Vec3{1, 1, 0})
	assert.InDelta(t, 0.5, d[0], 1e-6)
	assert.InDelta(t, 1, d[1], 1e-6)
	assert.Equal(t, mgl32.Ident4(), NormalMatrix(mgl32.Mat4{}))
}
