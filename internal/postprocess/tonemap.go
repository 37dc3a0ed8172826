package postprocess

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"scene-renderer/internal/config"
	"scene-renderer/internal/raster"
)

// Options selects the HDR-to-display mapping.
type Options struct {
	Curve    string // config.TonemapExposure, config.TonemapACES or config.TonemapNone
	Exposure float32
	Gamma    float32
}

// ExposureTonemap maps linear radiance x to [0, 1) with 1 - e^(-x·exposure).
func ExposureTonemap(x, exposure float32) float32 {
	return 1 - math32.Exp(-x*exposure)
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float32) float32 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

func (o Options) curve(x float32) float32 {
	if x <= 0 {
		return 0
	}
	switch o.Curve {
	case config.TonemapACES:
		x = ACESTonemap(x * o.Exposure)
	case config.TonemapNone:
		x *= o.Exposure
	default:
		x = ExposureTonemap(x, o.Exposure)
	}
	return mgl32.Clamp(x, 0, 1)
}

// Tonemap converts fb to an 8-bit sRGB-encoded image.
func Tonemap(fb *raster.FrameBuffer, o Options) *image.NRGBA {
	if o.Exposure <= 0 {
		o.Exposure = 1
	}
	if o.Gamma <= 0 {
		o.Gamma = 2.2
	}
	invGamma := 1 / o.Gamma

	img := image.NewNRGBA(fb.Bounds())
	for i := 0; i < len(fb.Color); i += 4 {
		img.Pix[i] = clamp8(math32.Pow(o.curve(fb.Color[i]), invGamma) * 255)
		img.Pix[i+1] = clamp8(math32.Pow(o.curve(fb.Color[i+1]), invGamma) * 255)
		img.Pix[i+2] = clamp8(math32.Pow(o.curve(fb.Color[i+2]), invGamma) * 255)
		img.Pix[i+3] = clamp8(mgl32.Clamp(fb.Color[i+3], 0, 1) * 255)
	}
	return img
}
