package raster

import "github.com/go-gl/mathgl/mgl32"

// MaxAttrs is the number of float attributes carried per vertex.
const MaxAttrs = 8

// Vertex is a clip-space position plus interpolated attributes.
type Vertex struct {
	Clip mgl32.Vec4
	Attr [MaxAttrs]float32
}

func lerpVertex(a, b *Vertex, t float32) Vertex {
	var v Vertex
	v.Clip = a.Clip.Add(b.Clip.Sub(a.Clip).Mul(t))
	for i := range v.Attr {
		v.Attr[i] = a.Attr[i] + (b.Attr[i]-a.Attr[i])*t
	}
	return v
}

// nearDist is the signed distance to the near plane z = -w; inside is >= 0.
func nearDist(v *Vertex) float32 {
	return v.Clip[2] + v.Clip[3]
}

// clipNear clips a triangle against the near plane and writes the resulting
// convex polygon (0, 3 or 4 vertices) into out. Winding is preserved.
func clipNear(in [3]Vertex, out *[4]Vertex) int {
	var d [3]float32
	inside := 0
	for i := range in {
		d[i] = nearDist(&in[i])
		if d[i] >= 0 {
			inside++
		}
	}
	switch inside {
	case 0:
		return 0
	case 3:
		out[0], out[1], out[2] = in[0], in[1], in[2]
		return 3
	}

	n := 0
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		a, b := &in[i], &in[j]
		if d[i] >= 0 {
			out[n] = *a
			n++
		}
		if (d[i] >= 0) != (d[j] >= 0) {
			out[n] = lerpVertex(a, b, d[i]/(d[i]-d[j]))
			n++
		}
	}
	return n
}
