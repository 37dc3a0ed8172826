package camera

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"scene-renderer/internal/mathutil"
	"scene-renderer/internal/scene"
)

// DefaultPathDuration is used when neither the scene nor the config sets one.
const DefaultPathDuration = 5

// Keyframe is a camera pose on a path.
type Keyframe struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// KeyframeFrom converts a position and look/up pair into a Keyframe.
func KeyframeFrom(position, look, up mgl32.Vec3) Keyframe {
	c := Camera{Position: position, Look: look, Up: up}
	return c.Keyframe()
}

// Path is a cubic Bezier flythrough over four keyframes, driven by a timer.
type Path struct {
	keys     [4]Keyframe
	duration float32
	elapsed  float32
	tween    *gween.Tween
	finished bool
}

// NewPath builds a path lasting duration seconds. easing shapes the progress
// curve; nil means linear.
func NewPath(keys [4]Keyframe, duration float32, easing ease.TweenFunc) *Path {
	if duration <= 0 {
		duration = DefaultPathDuration
	}
	if easing == nil {
		easing = ease.Linear
	}
	for i := range keys {
		keys[i].Orientation = keys[i].Orientation.Normalize()
	}
	return &Path{
		keys:     keys,
		duration: duration,
		tween:    gween.New(0, 1, duration, easing),
	}
}

// PathFromScene builds a path from scene keyframes. A zero scene duration
// falls back to defaultDuration.
func PathFromScene(p *scene.PathData, defaultDuration float32, easing ease.TweenFunc) *Path {
	var keys [4]Keyframe
	for i, k := range p.Keyframes {
		keys[i] = KeyframeFrom(k.Position, k.Look, k.Up)
	}
	d := p.Duration
	if d <= 0 {
		d = defaultDuration
	}
	return NewPath(keys, d, easing)
}

// Sample evaluates the path at normalized parameter t, clamped to [0, 1].
func (p *Path) Sample(t float32) Keyframe {
	t = mgl32.Clamp(t, 0, 1)
	var pos [4]mgl32.Vec3
	var rot [4]mgl32.Quat
	for i, k := range p.keys {
		pos[i] = k.Position
		rot[i] = k.Orientation
	}
	return Keyframe{
		Position:    mathutil.BezierVec3(pos, t),
		Orientation: mathutil.BezierQuat(rot, t),
	}
}

// Advance moves the timer by dt seconds, clamped to [0, duration], and returns
// the pose at the new time. finished is true once the timer reaches duration.
func (p *Path) Advance(dt float32) (k Keyframe, finished bool) {
	p.elapsed = mgl32.Clamp(p.elapsed+dt, 0, p.duration)
	t, done := p.tween.Set(p.elapsed)
	p.finished = done || p.elapsed >= p.duration
	return p.Sample(t), p.finished
}

// Reset rewinds the timer to the first keyframe.
func (p *Path) Reset() {
	p.elapsed = 0
	p.finished = false
	p.tween.Reset()
}

// Elapsed returns the timer value in seconds.
func (p *Path) Elapsed() float32 { return p.elapsed }

// Duration returns the path length in seconds.
func (p *Path) Duration() float32 { return p.duration }

// Finished reports whether the timer reached the end.
func (p *Path) Finished() bool { return p.finished }

// Keyframes returns the control keyframes.
func (p *Path) Keyframes() [4]Keyframe { return p.keys }

// Easing maps a config name to an easing curve; unknown names are linear.
func Easing(name string) ease.TweenFunc {
	switch name {
	case "in-out-sine":
		return ease.InOutSine
	case "in-out-cubic":
		return ease.InOutCubic
	case "in-out-quad":
		return ease.InOutQuad
	}
	return ease.Linear
}
