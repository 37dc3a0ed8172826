package camera

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-renderer/internal/mathutil"
	"scene-renderer/internal/scene"
)

func randomUnit(r *rand.Rand) mgl32.Vec3 {
	for {
		v := mgl32.Vec3{r.Float32()*2 - 1, r.Float32()*2 - 1, r.Float32()*2 - 1}
		if l := v.Len(); l > 0.1 && l <= 1 {
			return v.Mul(1 / l)
		}
	}
}

func assertOrthonormal(t *testing.T, u, v, w mgl32.Vec3) {
	t.Helper()
	const tol = 1e-5
	assert.InDelta(t, 1, u.Len(), tol)
	assert.InDelta(t, 1, v.Len(), tol)
	assert.InDelta(t, 1, w.Len(), tol)
	assert.InDelta(t, 0, u.Dot(v), tol)
	assert.InDelta(t, 0, u.Dot(w), tol)
	assert.InDelta(t, 0, v.Dot(w), tol)
	// right-handed
	assert.InDelta(t, 1, u.Cross(v).Dot(w), tol)
}

func TestBasisIsOrthonormal(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		look, up := randomUnit(r), randomUnit(r)
		if math32.Abs(look.Dot(up)) > 0.999 {
			continue
		}
		c := Camera{Look: look, Up: up}
		u, v, w := c.Basis()
		assertOrthonormal(t, u, v, w)
		assert.True(t, w.ApproxEqualThreshold(look.Mul(-1), 1e-5))
	}
}

func TestBasisWithParallelUpFallsBack(t *testing.T) {
	for _, look := range []mgl32.Vec3{{0, 1, 0}, {0, -1, 0}, {0, 0, 1}} {
		c := Camera{Look: look, Up: look}
		u, v, w := c.Basis()
		require.True(t, mathutil.IsFiniteVec3(u) && mathutil.IsFiniteVec3(v))
		assertOrthonormal(t, u, v, w)
	}
}

func TestViewMatrix(t *testing.T) {
	c := Camera{Position: mgl32.Vec3{1, 2, 3}, Look: mgl32.Vec3{0, 0, -1}, Up: mgl32.Vec3{0, 1, 0}}
	view := c.ViewMatrix()

	eye := mathutil.Point(view, c.Position)
	assert.True(t, eye.ApproxEqual(mgl32.Vec3{}), "got %v", eye)

	ahead := mathutil.Point(view, mgl32.Vec3{1, 2, -2})
	assert.True(t, ahead.ApproxEqual(mgl32.Vec3{0, 0, -5}), "got %v", ahead)

	want := mgl32.LookAtV(c.Position, c.Position.Add(c.Look), c.Up)
	assert.True(t, view.ApproxEqualThreshold(want, 1e-5))
}

func TestProjectionDepthRange(t *testing.T) {
	c := Camera{FovY: mathutil.Deg2Rad(60), Near: 0.5, Far: 50, Aspect: 1.5}
	proj := c.ProjectionMatrix()

	near := proj.Mul4x1(mgl32.Vec4{0, 0, -0.5, 1})
	far := proj.Mul4x1(mgl32.Vec4{0, 0, -50, 1})
	assert.InDelta(t, -1, near[2]/near[3], 1e-5)
	assert.InDelta(t, 1, far[2]/far[3], 1e-4)

	// near == far is clamped rather than producing a singular matrix
	c.Far = c.Near
	assert.NotZero(t, c.ProjectionMatrix().Det())
}

func TestMove(t *testing.T) {
	c := Camera{Look: mgl32.Vec3{0, 0, -1}, Up: mgl32.Vec3{0, 1, 0}}
	c.Move(Forward, 2)
	assert.True(t, c.Position.ApproxEqual(mgl32.Vec3{0, 0, -2}))
	c.Move(Right, 1)
	assert.True(t, c.Position.ApproxEqual(mgl32.Vec3{1, 0, -2}))
	c.Move(Ascend, 3)
	assert.True(t, c.Position.ApproxEqual(mgl32.Vec3{1, 3, -2}))
	c.Move(Backward, 2)
	c.Move(Left, 1)
	c.Move(Descend, 3)
	assert.True(t, c.Position.ApproxEqualThreshold(mgl32.Vec3{}, 1e-6))
}

func TestRotate(t *testing.T) {
	c := Camera{Look: mgl32.Vec3{0, 0, -1}, Up: mgl32.Vec3{0, 1, 0}}
	c.Rotate(math32.Pi/2, 0)
	assert.True(t, c.Look.ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, 1e-6), "got %v", c.Look)

	c.Rotate(0, math32.Pi/4)
	assert.InDelta(t, math32.Sqrt(0.5), c.Look[1], 1e-5)

	for i := 0; i < 10000; i++ {
		c.Rotate(0.013, -0.007)
	}
	assert.InDelta(t, 1, c.Look.Len(), 1e-5)
	assert.InDelta(t, 1, c.Up.Len(), 1e-5)
	assert.InDelta(t, 0, c.Look.Dot(c.Up), 1e-3)
}

func TestKeyframeRoundTrip(t *testing.T) {
	c := New(scene.CameraData{
		Position:    mgl32.Vec3{1, 2, 3},
		Look:        mgl32.Vec3{1, -1, -1},
		Up:          mgl32.Vec3{0, 1, 0},
		HeightAngle: 1,
	}, 1, 0.1, 100)

	var d Camera
	d.Apply(c.Keyframe())
	assert.True(t, d.Position.ApproxEqual(c.Position))
	assert.True(t, d.Look.ApproxEqualThreshold(c.Look, 1e-5), "got %v want %v", d.Look, c.Look)
	assert.InDelta(t, 0, d.Up.Dot(d.Look), 1e-5)
}

func TestLookAt(t *testing.T) {
	c := Camera{Position: mgl32.Vec3{0, 5, 0}, Look: mgl32.Vec3{0, 0, -1}, Up: mgl32.Vec3{0, 1, 0}}
	c.LookAt(mgl32.Vec3{})
	assert.True(t, c.Look.ApproxEqual(mgl32.Vec3{0, -1, 0}))
	u, v, w := c.Basis()
	assertOrthonormal(t, u, v, w)

	before := c.Look
	c.LookAt(c.Position)
	assert.Equal(t, before, c.Look)
}
