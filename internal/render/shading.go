package render

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"scene-renderer/internal/mathutil"
	"scene-renderer/internal/raster"
	"scene-renderer/internal/scene"
)

// Attenuation returns min(1, 1/(c1 + c2·d + c3·d²)) for fn = (c1, c2, c3).
func Attenuation(fn mgl32.Vec3, d float32) float32 {
	den := fn[0] + fn[1]*d + fn[2]*d*d
	if den <= 0 {
		return 1
	}
	return math32.Min(1, 1/den)
}

// SpotFalloff returns the cone intensity for a surface seen at toLight from a
// spot light with the given direction. Full intensity inside angle-penumbra,
// zero outside angle, smoothstep in between.
func SpotFalloff(dir, toLight mgl32.Vec3, angle, penumbra float32) float32 {
	x := math32.Acos(mgl32.Clamp(dir.Dot(toLight.Mul(-1)), -1, 1))
	inner := angle - penumbra
	if x <= inner {
		return 1
	}
	if x >= angle {
		return 0
	}
	t := (x - inner) / (angle - inner)
	return 1 - (-2*t*t*t + 3*t*t)
}

func mulv(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// surface shades the fragments of one render shape.
type surface struct {
	fc  *FrameContext
	mat scene.Material
	tex *image.NRGBA
}

func (s *surface) fragment(f *raster.Fragment) {
	p := mgl32.Vec3{f.Attr[0], f.Attr[1], f.Attr[2]}
	n := mgl32.Vec3{f.Attr[3], f.Attr[4], f.Attr[5]}
	uv := mgl32.Vec2{f.Attr[6], f.Attr[7]}
	s.fc.Target.SetPixel(f.X, f.Y, s.shade(p, n, uv).Vec4(1))
}

// shade evaluates the Phong model at world position p.
func (s *surface) shade(p, n mgl32.Vec3, uv mgl32.Vec2) mgl32.Vec3 {
	g := s.fc.Global
	m := &s.mat
	n = mathutil.Normalize(n, mathutil.WorldY)
	view := mathutil.Normalize(s.fc.Eye.Sub(p), n)

	diffuse := m.Diffuse.Mul(g.Kd)
	if s.tex != nil {
		tc := raster.SampleTexture(s.tex, uv[0]*m.Texture.RepeatU, uv[1]*m.Texture.RepeatV)
		diffuse = diffuse.Mul(1 - m.Blend).Add(tc.Vec3().Mul(m.Blend))
	}
	specular := m.Specular.Mul(g.Ks)

	c := m.Ambient.Mul(g.Ka)
	for i := range s.fc.Lights {
		l := &s.fc.Lights[i]

		var toLight mgl32.Vec3
		att := float32(1)
		if l.Type == scene.LightDirectional {
			toLight = l.Direction.Mul(-1)
		} else {
			d := l.Position.Sub(p)
			toLight = mathutil.Normalize(d, n)
			att = Attenuation(l.Function, d.Len())
			if l.Type == scene.LightSpot {
				att *= SpotFalloff(l.Direction, toLight, l.Angle, l.Penumbra)
			}
		}

		ndl := n.Dot(toLight)
		if att <= 0 || ndl <= 0 {
			continue
		}
		vis := s.fc.visibility(i, p)
		if vis <= 0 {
			continue
		}

		term := diffuse.Mul(ndl)
		r := n.Mul(2 * ndl).Sub(toLight)
		if rv := r.Dot(view); rv > 0 {
			term = term.Add(specular.Mul(math32.Pow(rv, m.Shininess)))
		}
		c = c.Add(mulv(l.Color.Mul(att*vis), term))
	}
	return c
}
