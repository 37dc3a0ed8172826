package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"scene-renderer/internal/raster"
	"scene-renderer/internal/scene"
	"scene-renderer/internal/scenegraph"
	"scene-renderer/internal/shadow"
)

// FrameContext is everything the shading pass reads for one frame.
type FrameContext struct {
	View           mgl32.Mat4
	Projection     mgl32.Mat4
	ViewProjection mgl32.Mat4
	Eye            mgl32.Vec3

	Target *raster.FrameBuffer
	Global scene.GlobalData
	Lights []scenegraph.Light

	// Shadows is indexed like Lights; nil when shadowing is off.
	Shadows    []shadow.Map
	ShadowBias float32
	SoftShadow bool
}

// visibility returns the shadow term of light i at world position p.
func (fc *FrameContext) visibility(i int, p mgl32.Vec3) float32 {
	if i >= len(fc.Shadows) {
		return 1
	}
	return fc.Shadows[i].Visibility(p, fc.ShadowBias, fc.SoftShadow)
}
