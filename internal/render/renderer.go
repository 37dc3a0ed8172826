// Package render owns the per-frame pipeline: camera update, shadow matrices,
// shadow depth passes, the Phong shading pass and post-processing.
package render

import (
	"errors"
	"image"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"scene-renderer/internal/camera"
	"scene-renderer/internal/config"
	"scene-renderer/internal/log"
	"scene-renderer/internal/postprocess"
	"scene-renderer/internal/raster"
	"scene-renderer/internal/scene"
	"scene-renderer/internal/scenegraph"
	"scene-renderer/internal/shadow"
	"scene-renderer/internal/shape"
)

var logger = log.New("render")

// ErrNoScene is returned by Frame before any scene has been submitted.
var ErrNoScene = errors.New("render: no scene loaded")

// trailColor is the HDR color of the camera trail overlay.
var trailColor = mgl32.Vec3{2, 1.1, 0.3}

// Renderer renders frames of the current scene snapshot. Every method except
// Load and Submit must be called from the render goroutine.
type Renderer struct {
	cfg config.Config

	pending atomic.Pointer[Snapshot]
	snap    *Snapshot

	tess     *shape.Cache
	resolver scenegraph.MeshResolver
	shadows  *shadow.Set
	fb       *raster.FrameBuffer

	cam   camera.Camera
	ctrl  *camera.Controller
	path  *camera.Path
	trail *camera.Trail

	frame int
	stats FrameStats
}

// New creates a renderer for a resolved config.
func New(cfg config.Config) *Renderer {
	tess := shape.NewCache()
	ss := cfg.Render.Supersample
	r := &Renderer{
		cfg:  cfg,
		tess: tess,
		resolver: scenegraph.MeshResolver{
			Cache:  tess,
			Param1: cfg.Tessellation.Param1,
			Param2: cfg.Tessellation.Param2,
		},
		shadows: shadow.NewSet(cfg.Shadows.Size, shadow.Options{
			Extent: cfg.Shadows.Extent,
			Near:   cfg.Render.Near,
			Far:    cfg.Render.Far,
		}),
		fb:    raster.NewFrameBuffer(cfg.Render.Width*ss, cfg.Render.Height*ss),
		trail: camera.NewTrail(cfg.Effects.TrailSegment, cfg.Effects.TrailMaxAge),
	}
	r.ctrl = camera.NewController(&r.cam, cfg.Camera.Speed, cfg.Camera.Sensitivity)
	r.ctrl.End = camera.ParsePathEnd(cfg.Camera.PathEnd)
	return r
}

// Load parses the scene at path and queues it for the next frame. On failure
// the current scene stays in place and the error is returned.
func (r *Renderer) Load(path string) error {
	sc, err := scene.Load(path)
	if err != nil {
		logger.Warningf("keeping current scene: %v", err)
		return err
	}
	r.Submit(sc)
	return nil
}

// Submit queues an already parsed scene for the next frame.
func (r *Renderer) Submit(sc *scene.Scene) {
	s := BuildSnapshot(sc)
	if old := r.pending.Swap(s); old != nil {
		logger.Debugf("dropping unswapped snapshot of %s", old.Scene.Source)
	}
	logger.Infof("%s: %d shapes, %d lights queued", sc.Source, len(s.List.Shapes), len(s.List.Lights))
}

// install makes s current and rebuilds everything derived from the old one.
func (r *Renderer) install(s *Snapshot) {
	r.snap = s
	r.tess.Purge()
	r.shadows.Rebuild(s.List.Lights)

	aspect := float32(r.cfg.Render.Width) / float32(r.cfg.Render.Height)
	r.cam = camera.New(s.Scene.Camera, aspect, r.cfg.Render.Near, r.cfg.Render.Far)
	r.ctrl.StopPath()

	r.path = nil
	if s.Scene.Path != nil {
		r.path = camera.PathFromScene(s.Scene.Path, r.cfg.Camera.PathDuration, camera.Easing(r.cfg.Camera.PathEasing))
	}
	r.trail.Clear()
	logger.Noticef("scene %s active", s.Scene.Source)
}

// Snapshot returns the snapshot used by the last frame.
func (r *Renderer) Snapshot() *Snapshot { return r.snap }

// Camera returns the live camera.
func (r *Renderer) Camera() *camera.Camera { return &r.cam }

// Controller returns the camera controller.
func (r *Renderer) Controller() *camera.Controller { return r.ctrl }

// Stats returns the statistics of the last frame.
func (r *Renderer) Stats() FrameStats { return r.stats }

// Config returns the renderer config.
func (r *Renderer) Config() config.Config { return r.cfg }

// Path returns the flythrough path of the current scene, or nil.
func (r *Renderer) Path() *camera.Path { return r.path }

// StartPath makes the camera follow the scene path from the beginning.
// It reports false when the scene has no path.
func (r *Renderer) StartPath() bool {
	if r.path == nil {
		return false
	}
	r.ctrl.FollowPath(r.path)
	return true
}

// ToggleBloom flips the bloom effect and returns the new state.
func (r *Renderer) ToggleBloom() bool {
	r.cfg.Effects.Bloom = !r.cfg.Effects.Bloom
	return r.cfg.Effects.Bloom
}

// ToggleTrail flips the trail overlay and returns the new state.
func (r *Renderer) ToggleTrail() bool {
	r.cfg.Effects.Trail = !r.cfg.Effects.Trail
	if !r.cfg.Effects.Trail {
		r.trail.Clear()
	}
	return r.cfg.Effects.Trail
}

// SetTessellation changes the primitive resolution. Cached tessellations are
// dropped so that both passes of the next frame use the new parameters.
func (r *Renderer) SetTessellation(p1, p2 int) {
	if p1 < 1 {
		p1 = 1
	}
	if p2 < 3 {
		p2 = 3
	}
	if p1 == r.resolver.Param1 && p2 == r.resolver.Param2 {
		return
	}
	r.tess.Purge()
	r.cfg.Tessellation.Param1, r.cfg.Tessellation.Param2 = p1, p2
	r.resolver.Param1, r.resolver.Param2 = p1, p2
	logger.Infof("tessellation %d x %d", p1, p2)
}

// Frame advances the scene by dt seconds under input in and renders it.
func (r *Renderer) Frame(dt float32, in camera.Input) (*image.NRGBA, error) {
	if s := r.pending.Swap(nil); s != nil {
		r.install(s)
	}
	if r.snap == nil {
		return nil, ErrNoScene
	}
	list := r.snap.List
	r.frame++
	st := FrameStats{
		Frame:  r.frame,
		Shapes: len(list.Shapes),
		Lights: len(list.Lights),
	}

	// (a) camera, path, trail
	t := time.Now()
	st.Mode = r.ctrl.Update(in, dt)
	if r.cfg.Effects.Trail {
		r.trail.Update(r.cam.Position, dt)
	}
	st.Update = time.Since(t)

	shadowsOn := r.cfg.ShadowsEnabled() && len(list.Lights) > 0

	// (b) light matrices
	t = time.Now()
	if shadowsOn {
		r.shadows.Update(list.Lights, list.Bounds)
		st.ShadowMaps = r.shadows.Active()
	}
	st.Matrices = time.Since(t)

	// (c) depth passes
	t = time.Now()
	if shadowsOn {
		st.Shadow = r.shadows.Render(list.Shapes, &r.resolver)
	}
	st.ShadowPass = time.Since(t)

	// (d) shading
	t = time.Now()
	fc := r.frameContext(shadowsOn)
	st.Main = r.mainPass(fc, list.Shapes)
	st.MainPass = time.Since(t)

	// (e) post-processing
	t = time.Now()
	img := r.post(fc)
	st.Post = time.Since(t)

	r.stats = st
	return img, nil
}

func (r *Renderer) frameContext(shadowsOn bool) *FrameContext {
	view := r.cam.ViewMatrix()
	proj := r.cam.ProjectionMatrix()
	fc := &FrameContext{
		View:           view,
		Projection:     proj,
		ViewProjection: proj.Mul4(view),
		Eye:            r.cam.Position,
		Target:         r.fb,
		Global:         r.snap.Scene.Global,
		Lights:         r.snap.List.Lights,
		ShadowBias:     r.cfg.Shadows.Bias,
		SoftShadow:     r.cfg.Shadows.Soft,
	}
	if shadowsOn {
		fc.Shadows = r.shadows.Maps()
	}
	return fc
}

func (r *Renderer) mainPass(fc *FrameContext, shapes []scenegraph.RenderShape) raster.Stats {
	bg := r.cfg.Render.Background
	fc.Target.Clear(mgl32.Vec4{bg[0], bg[1], bg[2], 1})

	var st raster.Stats
	var tri [3]raster.Vertex
	for i := range shapes {
		rs := &shapes[i]
		msh := r.resolver.MeshFor(rs)
		if msh == nil {
			continue
		}

		sf := &surface{fc: fc, mat: rs.Primitive.Material}
		if tm := rs.Primitive.Material.Texture; tm.Used() && r.snap.Textures != nil {
			sf.tex = r.snap.Textures.Resolve(tm.File)
		}

		mvp := fc.ViewProjection.Mul4(rs.CTM)
		n := msh.TriangleCount() * 3
		for v := 0; v < n; v += 3 {
			for k := 0; k < 3; k++ {
				p := msh.Position(v + k)
				wp := rs.CTM.Mul4x1(p.Vec4(1))
				wn := rs.NormalMatrix.Mul4x1(msh.Normal(v + k).Vec4(0))
				uv := msh.UV(v + k)
				tri[k].Clip = mvp.Mul4x1(p.Vec4(1))
				tri[k].Attr = [raster.MaxAttrs]float32{wp[0], wp[1], wp[2], wn[0], wn[1], wn[2], uv[0], uv[1]}
			}
			st.Add(raster.DrawTriangle(&fc.Target.DepthTarget, tri, raster.CullBack, sf.fragment))
		}
	}
	return st
}

func (r *Renderer) post(fc *FrameContext) *image.NRGBA {
	fx := r.cfg.Effects
	if fx.Trail {
		r.drawTrail(fc)
	}
	if fx.Bloom {
		postprocess.Bloom(fc.Target, fx.BloomThreshold, fx.BloomStrength)
	}
	img := postprocess.Tonemap(fc.Target, postprocess.Options{
		Curve:    r.cfg.Render.Tonemap,
		Exposure: r.cfg.Render.Exposure,
		Gamma:    r.cfg.Render.Gamma,
	})
	if r.cfg.Render.Supersample > 1 {
		img = postprocess.Downsample(img, r.cfg.Render.Width, r.cfg.Render.Height)
	}
	return img
}

func (r *Renderer) drawTrail(fc *FrameContext) {
	pts := r.trail.Polyline(4)
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		raster.DrawLine(fc.Target,
			fc.ViewProjection.Mul4x1(a.Position.Vec4(1)),
			fc.ViewProjection.Mul4x1(b.Position.Vec4(1)),
			trailColor.Vec4(a.Alpha),
			trailColor.Vec4(b.Alpha),
		)
	}
}
