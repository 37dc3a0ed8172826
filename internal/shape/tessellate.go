package shape

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"scene-renderer/internal/mesh"
)

// All solids are unit sized: radius 0.5, y in [-0.5, 0.5], centered at the origin.
const radius = 0.5

// Tessellate builds the triangle list for kind at resolution (p1, p2).
// Parameters below the minimum are clamped. Triangles wind counter-clockwise
// when seen from outside the solid.
func Tessellate(kind Kind, p1, p2 int) *mesh.Mesh {
	p1, p2 = Clamp(kind, p1, p2)
	m := &mesh.Mesh{Name: kind.String()}
	m.Data = make([]float32, 0, VertexCount(kind, p1, p2)*mesh.Stride)

	switch kind {
	case Cube:
		cube(m, p1)
	case Sphere:
		sphere(m, p1, p2)
	case Cylinder:
		cylinderSide(m, p1, p2)
		disc(m, p1, p2, radius, true)
		disc(m, p1, p2, -radius, false)
	case Cone:
		coneSide(m, p1, p2)
		disc(m, p1, p2, -radius, false)
	}
	return m
}

type vertex struct {
	p  mgl32.Vec3
	n  mgl32.Vec3
	uv mgl32.Vec2
}

func tri(m *mesh.Mesh, a, b, c vertex) {
	m.Append(a.p, a.n, a.uv)
	m.Append(b.p, b.n, b.uv)
	m.Append(c.p, c.n, c.uv)
}

// cubeFace spans one face: origin corner plus two unit edges with du×dv outward.
type cubeFace struct {
	origin, du, dv mgl32.Vec3
}

// +Z, -Z, +X, -X, +Y, -Y
var cubeFaces = [6]cubeFace{
	{mgl32.Vec3{-0.5, -0.5, 0.5}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0.5, -0.5, -0.5}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0.5, -0.5, 0.5}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{-0.5, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
}

func cube(m *mesh.Mesh, p1 int) {
	step := 1 / float32(p1)
	for _, f := range cubeFaces {
		at := func(i, j int) vertex {
			s, t := float32(i)*step, float32(j)*step
			return vertex{
				p:  f.origin.Add(f.du.Mul(s)).Add(f.dv.Mul(t)),
				uv: mgl32.Vec2{s, t},
			}
		}
		for i := 0; i < p1; i++ {
			for j := 0; j < p1; j++ {
				p00, p10, p11, p01 := at(i, j), at(i+1, j), at(i+1, j+1), at(i, j+1)
				// flat normal from the tile's edges
				n := p10.p.Sub(p00.p).Cross(p11.p.Sub(p00.p)).Normalize()
				p00.n, p10.n, p11.n, p01.n = n, n, n, n
				tri(m, p00, p10, p11)
				tri(m, p00, p11, p01)
			}
		}
	}
}

func sphere(m *mesh.Mesh, p1, p2 int) {
	at := func(i, j int) vertex {
		var p mgl32.Vec3
		switch i {
		case 0:
			p = mgl32.Vec3{0, radius, 0}
		case p1:
			p = mgl32.Vec3{0, -radius, 0}
		default:
			phi := math32.Pi * float32(i) / float32(p1)
			theta := 2 * math32.Pi * float32(j%p2) / float32(p2)
			sp, cp := math32.Sincos(phi)
			st, ct := math32.Sincos(theta)
			p = mgl32.Vec3{radius * sp * ct, radius * cp, -radius * sp * st}
		}
		return vertex{
			p:  p,
			n:  p.Mul(1 / radius),
			uv: mgl32.Vec2{float32(j) / float32(p2), float32(i) / float32(p1)},
		}
	}

	for i := 0; i < p1; i++ {
		for j := 0; j < p2; j++ {
			tl, bl, br, tr := at(i, j), at(i+1, j), at(i+1, j+1), at(i, j+1)
			if i != p1-1 {
				tri(m, tl, bl, br)
			}
			if i != 0 {
				tri(m, tl, br, tr)
			}
		}
	}
}

func ring(j, p2 int) (sin, cos float32) {
	theta := 2 * math32.Pi * float32(j%p2) / float32(p2)
	return math32.Sincos(theta)
}

func cylinderSide(m *mesh.Mesh, p1, p2 int) {
	at := func(j, k int) vertex {
		s, c := ring(j, p2)
		y := -radius + float32(k)/float32(p1)
		return vertex{
			p:  mgl32.Vec3{radius * c, y, radius * s},
			n:  mgl32.Vec3{c, 0, s},
			uv: mgl32.Vec2{1 - float32(j)/float32(p2), float32(k) / float32(p1)},
		}
	}

	for k := 0; k < p1; k++ {
		for j := 0; j < p2; j++ {
			a, b, c, d := at(j, k), at(j+1, k), at(j+1, k+1), at(j, k+1)
			tri(m, a, c, b)
			tri(m, a, d, c)
		}
	}
}

// coneNormal is the normalized gradient of x²+z² = ((0.5-y)/2)² at azimuth (s, c).
// It does not depend on height, which also defines it at the apex.
func coneNormal(s, c float32) mgl32.Vec3 {
	return mgl32.Vec3{c, 0.5, s}.Normalize()
}

func coneSide(m *mesh.Mesh, p1, p2 int) {
	at := func(j, k int) vertex {
		s, c := ring(j, p2)
		f := float32(k) / float32(p1)
		r := radius * (1 - f)
		return vertex{
			p:  mgl32.Vec3{r * c, -radius + f, r * s},
			n:  coneNormal(s, c),
			uv: mgl32.Vec2{1 - float32(j)/float32(p2), f},
		}
	}

	for k := 0; k < p1; k++ {
		for j := 0; j < p2; j++ {
			a, b, c, d := at(j, k), at(j+1, k), at(j+1, k+1), at(j, k+1)
			if k == p1-1 {
				// c is the apex: blend the normals of the two base vertices
				c.n = a.n.Add(b.n).Normalize()
				tri(m, a, c, b)
				continue
			}
			tri(m, a, c, b)
			tri(m, a, d, c)
		}
	}
}

// disc tessellates a disc at height y with p1 radial bands; top caps face +Y.
func disc(m *mesh.Mesh, p1, p2 int, y float32, top bool) {
	n := mgl32.Vec3{0, -1, 0}
	if top {
		n = mgl32.Vec3{0, 1, 0}
	}
	at := func(j, k int) vertex {
		s, c := ring(j, p2)
		r := radius * float32(k) / float32(p1)
		p := mgl32.Vec3{r * c, y, r * s}
		v := p[2] + 0.5
		if top {
			v = 0.5 - p[2]
		}
		return vertex{p: p, n: n, uv: mgl32.Vec2{p[0] + 0.5, v}}
	}

	for k := 0; k < p1; k++ {
		for j := 0; j < p2; j++ {
			// a,b on the inner ring, c,d on the outer ring
			a, b, c, d := at(j, k), at(j+1, k), at(j+1, k+1), at(j, k+1)
			switch {
			case top && k == 0:
				tri(m, a, c, d)
			case top:
				tri(m, a, b, c)
				tri(m, a, c, d)
			case k == 0:
				tri(m, a, d, c)
			default:
				tri(m, a, c, b)
				tri(m, a, d, c)
			}
		}
	}
}
