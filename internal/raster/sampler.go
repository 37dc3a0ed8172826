package raster

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float32

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math32.Pow(float32(i)/255, 2.2)
	}
}

// SampleTexture performs bilinear filtering with repeat wrapping. v = 0 is the
// bottom row of the image. RGB is returned in linear space, alpha in [0, 1].
// Accesses tex.Pix directly for performance.
func SampleTexture(tex *image.NRGBA, u, v float32) mgl32.Vec4 {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return mgl32.Vec4{0, 0, 0, 0}
	}

	// Wrap UVs
	u -= math32.Floor(u)
	v -= math32.Floor(v)
	v = 1 - v

	fx := u * float32(w-1)
	fy := v * float32(h-1)
	x0 := clampInt(int(fx), 0, w-1)
	y0 := clampInt(int(fy), 0, h-1)
	x1 := (x0 + 1) % w
	y1 := (y0 + 1) % h
	dx := fx - float32(x0)
	dy := fy - float32(y0)

	stride := tex.Stride
	pix := tex.Pix

	// Four texels
	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var out mgl32.Vec4
	for c := 0; c < 3; c++ {
		out[c] = srgbToLinear[pix[i00+c]]*w00 + srgbToLinear[pix[i10+c]]*w10 +
			srgbToLinear[pix[i01+c]]*w01 + srgbToLinear[pix[i11+c]]*w11
	}
	out[3] = (float32(pix[i00+3])*w00 + float32(pix[i10+3])*w10 +
		float32(pix[i01+3])*w01 + float32(pix[i11+3])*w11) / 255
	return out
}
