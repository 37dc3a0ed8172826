package postprocess

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"

	"scene-renderer/internal/raster"
)

// bloomRange is the HDR excess mapped onto the 16-bit bright-pass image.
const bloomRange = 8

// Bloom adds a blurred copy of everything brighter than threshold back onto
// fb, scaled by strength. The blur is a chain of bilinear down- and upscales.
func Bloom(fb *raster.FrameBuffer, threshold, strength float32) {
	if strength <= 0 || fb.Width < 4 || fb.Height < 4 {
		return
	}

	bright := image.NewRGBA64(fb.Bounds())
	found := false
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.Pixel(x, y)
			px := color.RGBA64{
				R: excess(c[0], threshold),
				G: excess(c[1], threshold),
				B: excess(c[2], threshold),
				A: 0xffff,
			}
			if px.R|px.G|px.B != 0 {
				found = true
			}
			bright.SetRGBA64(x, y, px)
		}
	}
	if !found {
		return
	}

	// Downscale twice, then scale back up; each bilinear step widens the blur.
	chain := []image.Rectangle{
		image.Rect(0, 0, max(1, fb.Width/4), max(1, fb.Height/4)),
		image.Rect(0, 0, max(1, fb.Width/8), max(1, fb.Height/8)),
		image.Rect(0, 0, max(1, fb.Width/4), max(1, fb.Height/4)),
		fb.Bounds(),
	}
	var src image.Image = bright
	for _, r := range chain {
		dst := image.NewRGBA64(r)
		draw.BiLinear.Scale(dst, r, src, src.Bounds(), draw.Src, nil)
		src = dst
	}
	blurred := src.(*image.RGBA64)

	scale := strength * bloomRange / 0xffff
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			px := blurred.RGBA64At(x, y)
			i := (y*fb.Width + x) * 4
			fb.Color[i] += float32(px.R) * scale
			fb.Color[i+1] += float32(px.G) * scale
			fb.Color[i+2] += float32(px.B) * scale
		}
	}
}

func excess(v, threshold float32) uint16 {
	return uint16(mgl32.Clamp((v-threshold)/bloomRange, 0, 1) * 0xffff)
}
