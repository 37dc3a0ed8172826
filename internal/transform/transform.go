// Package transform implements the node transformation algebra: a closed set of
// transformation variants and their composition into one 4×4 matrix.
package transform

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"scene-renderer/internal/mathutil"
)

// Transformation is one of Translate, Scale, Rotate or Matrix.
type Transformation interface {
	// Matrix returns the 4×4 form of the transformation.
	Matrix() mgl32.Mat4

	isTransformation()
}

// Translate moves by V.
type Translate struct {
	V mgl32.Vec3
}

// Scale scales each axis by V.
type Scale struct {
	V mgl32.Vec3
}

// Rotate rotates by Angle radians about Axis.
type Rotate struct {
	Axis  mgl32.Vec3
	Angle float32
}

// Matrix applies an arbitrary 4×4 matrix.
type Matrix struct {
	M mgl32.Mat4
}

func (t Translate) Matrix() mgl32.Mat4 { return mgl32.Translate3D(t.V[0], t.V[1], t.V[2]) }
func (s Scale) Matrix() mgl32.Mat4     { return mgl32.Scale3D(s.V[0], s.V[1], s.V[2]) }
func (m Matrix) Matrix() mgl32.Mat4    { return m.M }

// Matrix returns the rotation matrix; a zero axis yields the identity.
func (r Rotate) Matrix() mgl32.Mat4 {
	l := r.Axis.Len()
	if l < mathutil.Epsilon {
		return mgl32.Ident4()
	}
	return mgl32.HomogRotate3D(r.Angle, r.Axis.Mul(1/l))
}

func (Translate) isTransformation() {}
func (Scale) isTransformation()     {}
func (Rotate) isTransformation()    {}
func (Matrix) isTransformation()    {}

func (t Translate) String() string { return fmt.Sprintf("translate(%g, %g, %g)", t.V[0], t.V[1], t.V[2]) }
func (s Scale) String() string     { return fmt.Sprintf("scale(%g, %g, %g)", s.V[0], s.V[1], s.V[2]) }
func (m Matrix) String() string    { return "matrix" }
func (r Rotate) String() string {
	return fmt.Sprintf("rotate(%g°, [%g %g %g])", mgl32.RadToDeg(r.Angle), r.Axis[0], r.Axis[1], r.Axis[2])
}

// Compose folds ts into one matrix, multiplying on the right in declared order:
// Compose(a, b) = A × B, so b is applied to a point first.
func Compose(ts ...Transformation) mgl32.Mat4 {
	m := mgl32.Ident4()
	for _, t := range ts {
		m = m.Mul4(t.Matrix())
	}
	return m
}

// FromRowMajor builds a Matrix transformation from 16 row-major values.
func FromRowMajor(v [16]float32) Matrix {
	var m mgl32.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m.Set(r, c, v[r*4+c])
		}
	}
	return Matrix{M: m}
}
