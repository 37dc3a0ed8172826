package raster

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// CullMode selects which triangle faces are discarded.
type CullMode int

const (
	CullNone CullMode = iota
	CullBack
	CullFront
)

func (c CullMode) String() string {
	switch c {
	case CullBack:
		return "back"
	case CullFront:
		return "front"
	}
	return "none"
}

// Fragment is a covered pixel that passed the depth test. Attr holds the
// perspective-correct interpolated vertex attributes.
type Fragment struct {
	X, Y  int
	Depth float32
	Attr  [MaxAttrs]float32
}

// FragmentFunc shades one fragment. A nil FragmentFunc renders depth only.
type FragmentFunc func(f *Fragment)

// Stats counts rasterizer work.
type Stats struct {
	Triangles int // submitted
	Culled    int
	Clipped   int // entirely behind the near plane
	Fragments int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Triangles += o.Triangles
	s.Culled += o.Culled
	s.Clipped += o.Clipped
	s.Fragments += o.Fragments
}

type screenVertex struct {
	x, y, z float32
	invW    float32
	attr    [MaxAttrs]float32 // divided by w
}

func toScreen(v *Vertex, w, h int) screenVertex {
	invW := 1 / v.Clip[3]
	s := screenVertex{
		x:    (v.Clip[0]*invW*0.5 + 0.5) * float32(w),
		y:    (0.5 - v.Clip[1]*invW*0.5) * float32(h),
		z:    v.Clip[2]*invW*0.5 + 0.5,
		invW: invW,
	}
	for i := range v.Attr {
		s.attr[i] = v.Attr[i] * invW
	}
	return s
}

// DrawTriangle clips v against the near plane, culls by winding and fills the
// covered pixels of dt with a less-than depth test. Counter-clockwise triangles
// in normalized device coordinates are front facing. frag runs for every
// fragment that wins the depth test, after its depth has been written.
func DrawTriangle(dt *DepthTarget, v [3]Vertex, cull CullMode, frag FragmentFunc) Stats {
	st := Stats{Triangles: 1}

	var poly [4]Vertex
	n := clipNear(v, &poly)
	if n < 3 {
		st.Clipped = 1
		return st
	}

	var sv [4]screenVertex
	for i := 0; i < n; i++ {
		if poly[i].Clip[3] <= 1e-8 {
			st.Clipped = 1
			return st
		}
		sv[i] = toScreen(&poly[i], dt.Width, dt.Height)
	}

	// Screen y points down, so counter-clockwise in NDC has negative area here.
	var area float32
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += sv[i].x*sv[j].y - sv[j].x*sv[i].y
	}
	front := area < 0
	if (cull == CullBack && !front) || (cull == CullFront && front) {
		st.Culled = 1
		return st
	}

	for i := 1; i+1 < n; i++ {
		st.Fragments += fill(dt, &sv[0], &sv[i], &sv[i+1], frag)
	}
	return st
}

// fill rasterizes one screen-space triangle with pixel-center sampling.
func fill(dt *DepthTarget, a, b, c *screenVertex, frag FragmentFunc) int {
	x0, y0 := a.x, a.y
	x1, y1 := b.x, b.y
	x2, y2 := c.x, c.y

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if math32.Abs(det) < 1e-12 {
		return 0
	}
	invDet := 1 / det

	minX := clampInt(int(math32.Floor(min3(x0, x1, x2))), 0, dt.Width-1)
	maxX := clampInt(int(math32.Ceil(max3(x0, x1, x2))), 0, dt.Width-1)
	minY := clampInt(int(math32.Floor(min3(y0, y1, y2))), 0, dt.Height-1)
	maxY := clampInt(int(math32.Ceil(max3(y0, y1, y2))), 0, dt.Height-1)

	// Precompute edge deltas
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	var f Fragment
	count := 0
	for py := minY; py <= maxY; py++ {
		dsy := float32(py) + 0.5 - y2
		rowOff := py * dt.Width
		for px := minX; px <= maxX; px++ {
			dsx := float32(px) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*a.z + w1*b.z + w2*c.z
			idx := rowOff + px
			if z < 0 || z >= dt.Depth[idx] {
				continue
			}
			dt.Depth[idx] = z
			count++

			if frag == nil {
				continue
			}
			invW := w0*a.invW + w1*b.invW + w2*c.invW
			if invW == 0 {
				continue
			}
			wInv := 1 / invW
			f.X, f.Y, f.Depth = px, py, z
			for k := range f.Attr {
				f.Attr[k] = (w0*a.attr[k] + w1*b.attr[k] + w2*c.attr[k]) * wInv
			}
			frag(&f)
		}
	}
	return count
}

// DrawLine draws a depth-tested line between two clip-space points, blending
// colors ca and cb (alpha in the fourth component) over fb. Depth is not
// written. It returns the number of pixels touched.
func DrawLine(fb *FrameBuffer, a, b, ca, cb mgl32.Vec4) int {
	da, db := a[2]+a[3], b[2]+b[3]
	if da < 0 && db < 0 {
		return 0
	}
	if da < 0 {
		t := da / (da - db)
		a = a.Add(b.Sub(a).Mul(t))
		ca = ca.Add(cb.Sub(ca).Mul(t))
	} else if db < 0 {
		t := db / (db - da)
		b = b.Add(a.Sub(b).Mul(t))
		cb = cb.Add(ca.Sub(cb).Mul(t))
	}
	if a[3] <= 1e-8 || b[3] <= 1e-8 {
		return 0
	}

	va := toScreen(&Vertex{Clip: a}, fb.Width, fb.Height)
	vb := toScreen(&Vertex{Clip: b}, fb.Width, fb.Height)
	steps := int(math32.Ceil(math32.Max(math32.Abs(vb.x-va.x), math32.Abs(vb.y-va.y))))
	if steps < 1 {
		steps = 1
	}
	// cap pathological lines that cross the near plane almost edge-on
	if limit := 4 * (fb.Width + fb.Height); steps > limit {
		steps = limit
	}

	drawn := 0
	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps)
		x := int(va.x + (vb.x-va.x)*t)
		y := int(va.y + (vb.y-va.y)*t)
		if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
			continue
		}
		z := va.z + (vb.z-va.z)*t
		if z > fb.Depth[y*fb.Width+x]+1e-4 {
			continue
		}
		fb.BlendPixel(x, y, ca.Add(cb.Sub(ca).Mul(t)))
		drawn++
	}
	return drawn
}

func min3(a, b, c float32) float32 {
	return math32.Min(a, math32.Min(b, c))
}

func max3(a, b, c float32) float32 {
	return math32.Max(a, math32.Max(b, c))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
