package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"scene-renderer/internal/mathutil"
)

// Trail records recent camera positions and fades them out with age.
type Trail struct {
	MinSegment float32 // distance the camera must travel before a node is added
	MaxAge     float32 // seconds a node stays visible

	nodes []trailNode
}

type trailNode struct {
	pos mgl32.Vec3
	age float32
}

// TrailPoint is a vertex of the smoothed trail polyline.
type TrailPoint struct {
	Position mgl32.Vec3
	Alpha    float32
}

// NewTrail creates an empty trail.
func NewTrail(minSegment, maxAge float32) *Trail {
	return &Trail{MinSegment: minSegment, MaxAge: maxAge}
}

// Update ages every node by dt, drops expired ones and records pos when the
// camera moved far enough from the newest node.
func (t *Trail) Update(pos mgl32.Vec3, dt float32) {
	kept := t.nodes[:0]
	for _, n := range t.nodes {
		n.age += dt
		if n.age < t.MaxAge {
			kept = append(kept, n)
		}
	}
	t.nodes = kept

	if len(t.nodes) == 0 || t.nodes[len(t.nodes)-1].pos.Sub(pos).Len() >= t.MinSegment {
		t.nodes = append(t.nodes, trailNode{pos: pos})
	}
}

// Len returns the number of recorded nodes.
func (t *Trail) Len() int {
	return len(t.nodes)
}

// Clear drops every node.
func (t *Trail) Clear() {
	t.nodes = t.nodes[:0]
}

func (t *Trail) alpha(age float32) float32 {
	if t.MaxAge <= 0 {
		return 0
	}
	return mgl32.Clamp(1-age/t.MaxAge, 0, 1)
}

// Polyline smooths the nodes with quadratic Bezier segments through the
// midpoints of consecutive nodes, samples points per segment.
func (t *Trail) Polyline(samples int) []TrailPoint {
	n := len(t.nodes)
	if n < 2 {
		return nil
	}
	if samples < 1 {
		samples = 1
	}

	out := []TrailPoint{{Position: t.nodes[0].pos, Alpha: t.alpha(t.nodes[0].age)}}
	prevPos, prevAge := t.nodes[0].pos, t.nodes[0].age
	for i := 1; i < n-1; i++ {
		ctrl := t.nodes[i]
		next := t.nodes[i+1]
		midPos := mathutil.Lerp3(ctrl.pos, next.pos, 0.5)
		midAge := (ctrl.age + next.age) / 2
		for s := 1; s <= samples; s++ {
			u := float32(s) / float32(samples)
			age := (1-u)*(1-u)*prevAge + 2*(1-u)*u*ctrl.age + u*u*midAge
			out = append(out, TrailPoint{
				Position: mathutil.QuadBezier(prevPos, ctrl.pos, midPos, u),
				Alpha:    t.alpha(age),
			})
		}
		prevPos, prevAge = midPos, midAge
	}
	last := t.nodes[n-1]
	out = append(out, TrailPoint{Position: last.pos, Alpha: t.alpha(last.age)})
	return out
}
