package batch

import (
	"errors"

	"scene-renderer/internal/camera"
	"scene-renderer/internal/render"
)

// ErrNoPath is returned when the scene defines no camera path.
var ErrNoPath = errors.New("batch: scene has no camera path")

// RenderPath renders n frames evenly spaced in time along the scene path,
// on the calling goroutine. The first frame shows the first keyframe and the
// last frame the last keyframe.
func RenderPath(r *render.Renderer, n int) ([]Frame, error) {
	if n < 2 {
		n = 2
	}
	// installs a pending snapshot
	if _, err := r.Frame(0, camera.Input{}); err != nil {
		return nil, err
	}
	if !r.StartPath() {
		return nil, ErrNoPath
	}

	dt := r.Path().Duration() / float32(n-1)
	frames := make([]Frame, 0, n)
	for i := 0; i < n; i++ {
		step := dt
		if i == 0 {
			step = 0
		}
		img, err := r.Frame(step, camera.Input{})
		if err != nil {
			return frames, err
		}
		frames = append(frames, Frame{
			Index:    i,
			Time:     float32(i) * dt,
			Position: r.Camera().Position,
			Image:    img,
		})
	}
	logger.Infof("rendered %d path frames over %.2fs", n, r.Path().Duration())
	return frames, nil
}
