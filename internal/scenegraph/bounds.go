package scenegraph

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"scene-renderer/internal/mathutil"
)

// Bounds is a world-space axis-aligned box. The zero value is empty.
type Bounds struct {
	Min, Max mgl32.Vec3
	Valid    bool
}

// Extend grows b to contain p.
func (b *Bounds) Extend(p mgl32.Vec3) {
	if !b.Valid {
		b.Min, b.Max, b.Valid = p, p, true
		return
	}
	for k := 0; k < 3; k++ {
		b.Min[k] = float32(math.Min(float64(b.Min[k]), float64(p[k])))
		b.Max[k] = float32(math.Max(float64(b.Max[k]), float64(p[k])))
	}
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Radius returns the radius of the sphere enclosing the box.
func (b Bounds) Radius() float32 {
	return b.Max.Sub(b.Min).Len() * 0.5
}

// localBox is the object-space box of every tessellated primitive.
var localBox = [2]mgl32.Vec3{{-0.5, -0.5, -0.5}, {0.5, 0.5, 0.5}}

// SceneBounds returns the world-space box around all shapes.
func SceneBounds(shapes []RenderShape) Bounds {
	var b Bounds
	for i := range shapes {
		rs := &shapes[i]
		lo, hi := localBox[0], localBox[1]
		if rs.Mesh != nil {
			var ok bool
			if lo, hi, ok = rs.Mesh.Bounds(); !ok {
				continue
			}
		}
		for c := 0; c < 8; c++ {
			corner := mgl32.Vec3{lo[0], lo[1], lo[2]}
			if c&1 != 0 {
				corner[0] = hi[0]
			}
			if c&2 != 0 {
				corner[1] = hi[1]
			}
			if c&4 != 0 {
				corner[2] = hi[2]
			}
			b.Extend(mathutil.Point(rs.CTM, corner))
		}
	}
	return b
}
