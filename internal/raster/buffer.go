// Package raster is the software rasterizer: depth and color targets, near-plane
// clipping, face culling and perspective-correct triangle filling.
package raster

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// DepthTarget is a depth-only render target. Depth values are in [0, 1] and
// the target clears to 1 (far).
type DepthTarget struct {
	Width  int
	Height int
	Depth  []float32 // len = W*H, row-major, row 0 at the top
}

// NewDepthTarget allocates a cleared depth target.
func NewDepthTarget(w, h int) *DepthTarget {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	d := &DepthTarget{Width: w, Height: h, Depth: make([]float32, w*h)}
	d.Clear()
	return d
}

// Clear resets every depth value to 1.
func (d *DepthTarget) Clear() {
	for i := range d.Depth {
		d.Depth[i] = 1
	}
}

// At returns the stored depth at (x, y); out-of-range reads return 1.
func (d *DepthTarget) At(x, y int) float32 {
	if x < 0 || y < 0 || x >= d.Width || y >= d.Height {
		return 1
	}
	return d.Depth[y*d.Width+x]
}

// FrameBuffer is a linear HDR color target with its own depth buffer.
type FrameBuffer struct {
	DepthTarget
	Color []float32 // RGBA interleaved, len = W*H*4
}

// NewFrameBuffer allocates a frame buffer cleared to transparent black.
func NewFrameBuffer(w, h int) *FrameBuffer {
	fb := &FrameBuffer{DepthTarget: *NewDepthTarget(w, h)}
	fb.Color = make([]float32, fb.Width*fb.Height*4)
	return fb
}

// Clear fills the color buffer with bg and resets depth.
func (fb *FrameBuffer) Clear(bg mgl32.Vec4) {
	for i := 0; i < len(fb.Color); i += 4 {
		fb.Color[i] = bg[0]
		fb.Color[i+1] = bg[1]
		fb.Color[i+2] = bg[2]
		fb.Color[i+3] = bg[3]
	}
	fb.DepthTarget.Clear()
}

// Pixel returns the color at (x, y).
func (fb *FrameBuffer) Pixel(x, y int) mgl32.Vec4 {
	i := (y*fb.Width + x) * 4
	return mgl32.Vec4{fb.Color[i], fb.Color[i+1], fb.Color[i+2], fb.Color[i+3]}
}

// SetPixel stores c at (x, y).
func (fb *FrameBuffer) SetPixel(x, y int, c mgl32.Vec4) {
	i := (y*fb.Width + x) * 4
	fb.Color[i] = c[0]
	fb.Color[i+1] = c[1]
	fb.Color[i+2] = c[2]
	fb.Color[i+3] = c[3]
}

// BlendPixel composites c over the stored color using c's alpha.
func (fb *FrameBuffer) BlendPixel(x, y int, c mgl32.Vec4) {
	i := (y*fb.Width + x) * 4
	a := c[3]
	fb.Color[i] = fb.Color[i]*(1-a) + c[0]*a
	fb.Color[i+1] = fb.Color[i+1]*(1-a) + c[1]*a
	fb.Color[i+2] = fb.Color[i+2]*(1-a) + c[2]*a
	fb.Color[i+3] = fb.Color[i+3]*(1-a) + a
}

// Bounds returns the target rectangle.
func (fb *FrameBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}
