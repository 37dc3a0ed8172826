// Package mesh holds the interleaved, non-indexed triangle buffers consumed by the
// rasterizer.
package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Stride is the number of floats per vertex: position(3), normal(3), uv(2).
const Stride = 8

// Mesh is a triangle list with interleaved vertex attributes.
type Mesh struct {
	Name string
	Data []float32
}

// VertexCount returns the number of vertices in the buffer.
func (m *Mesh) VertexCount() int {
	return len(m.Data) / Stride
}

// TriangleCount returns the number of whole triangles in the buffer.
func (m *Mesh) TriangleCount() int {
	return m.VertexCount() / 3
}

// Position returns the position of vertex i.
func (m *Mesh) Position(i int) mgl32.Vec3 {
	o := i * Stride
	return mgl32.Vec3{m.Data[o], m.Data[o+1], m.Data[o+2]}
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i int) mgl32.Vec3 {
	o := i*Stride + 3
	return mgl32.Vec3{m.Data[o], m.Data[o+1], m.Data[o+2]}
}

// UV returns the texture coordinate of vertex i.
func (m *Mesh) UV(i int) mgl32.Vec2 {
	o := i*Stride + 6
	return mgl32.Vec2{m.Data[o], m.Data[o+1]}
}

// Append adds one vertex to the buffer.
func (m *Mesh) Append(p, n mgl32.Vec3, uv mgl32.Vec2) {
	m.Data = append(m.Data, p[0], p[1], p[2], n[0], n[1], n[2], uv[0], uv[1])
}

// Bounds returns the local axis-aligned bounding box. An empty mesh returns ok=false.
func (m *Mesh) Bounds() (min, max mgl32.Vec3, ok bool) {
	n := m.VertexCount()
	if n == 0 {
		return min, max, false
	}
	inf := float32(math.Inf(1))
	min = mgl32.Vec3{inf, inf, inf}
	max = mgl32.Vec3{-inf, -inf, -inf}
	for i := 0; i < n; i++ {
		p := m.Position(i)
		for k := 0; k < 3; k++ {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	return min, max, true
}
