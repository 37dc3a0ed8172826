package shadow

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"scene-renderer/internal/log"
	"scene-renderer/internal/mathutil"
	"scene-renderer/internal/mesh"
	"scene-renderer/internal/raster"
	"scene-renderer/internal/scenegraph"
)

var logger = log.New("shadow")

// MeshSource resolves the triangle buffer of a render shape.
type MeshSource interface {
	MeshFor(rs *scenegraph.RenderShape) *mesh.Mesh
}

// Map is the shadow slot of one light.
type Map struct {
	Light  scenegraph.Light
	Matrix mgl32.Mat4 // light projection × light view
	Active bool       // false for lights that cast no shadow
	Target *raster.DepthTarget
}

// Set owns the shadow slots of the current scene.
type Set struct {
	Size    int
	Options Options

	maps [MaxLights]Map
	n    int
}

// NewSet creates an empty set whose depth targets are size × size.
func NewSet(size int, opts Options) *Set {
	if size < 1 {
		size = 1
	}
	return &Set{Size: size, Options: opts}
}

// Rebuild drops every slot and allocates one depth target per shadow-casting
// light. Lights past MaxLights are ignored.
func (s *Set) Rebuild(lights []scenegraph.Light) {
	s.maps = [MaxLights]Map{}
	s.n = len(lights)
	if s.n > MaxLights {
		logger.Warningf("%d lights, shadowing the first %d", s.n, MaxLights)
		s.n = MaxLights
	}
	for i := 0; i < s.n; i++ {
		m := &s.maps[i]
		m.Light = lights[i]
		m.Matrix = mgl32.Ident4()
		if _, ok := LightMatrix(lights[i], scenegraph.Bounds{}, s.Options); ok {
			m.Target = raster.NewDepthTarget(s.Size, s.Size)
		}
	}
	logger.Debugf("rebuilt %d shadow slots (%dx%d)", s.n, s.Size, s.Size)
}

// Update recomputes every light matrix against the current scene bounds.
func (s *Set) Update(lights []scenegraph.Light, b scenegraph.Bounds) {
	n := s.n
	if len(lights) < n {
		n = len(lights)
	}
	for i := 0; i < n; i++ {
		m := &s.maps[i]
		m.Light = lights[i]
		m.Matrix, m.Active = LightMatrix(lights[i], b, s.Options)
		m.Active = m.Active && m.Target != nil && mathutil.IsFiniteMat4(m.Matrix)
	}
}

// Render clears each active depth target and draws every shape into it from
// the light's point of view. Front faces are culled.
func (s *Set) Render(shapes []scenegraph.RenderShape, meshes MeshSource) raster.Stats {
	var st raster.Stats
	for i := 0; i < s.n; i++ {
		m := &s.maps[i]
		if !m.Active {
			continue
		}
		m.Target.Clear()
		for j := range shapes {
			msh := meshes.MeshFor(&shapes[j])
			if msh == nil {
				continue
			}
			st.Add(drawDepth(m.Target, m.Matrix.Mul4(shapes[j].CTM), msh))
		}
	}
	return st
}

func drawDepth(dt *raster.DepthTarget, mvp mgl32.Mat4, msh *mesh.Mesh) raster.Stats {
	var st raster.Stats
	var tri [3]raster.Vertex
	n := msh.TriangleCount() * 3
	for i := 0; i < n; i += 3 {
		for k := 0; k < 3; k++ {
			tri[k].Clip = mvp.Mul4x1(msh.Position(i + k).Vec4(1))
		}
		st.Add(raster.DrawTriangle(dt, tri, raster.CullFront, nil))
	}
	return st
}

// Maps returns the slots of the current scene, in light order.
func (s *Set) Maps() []Map {
	return s.maps[:s.n]
}

// Active returns how many slots render a depth pass.
func (s *Set) Active() int {
	c := 0
	for i := 0; i < s.n; i++ {
		if s.maps[i].Active {
			c++
		}
	}
	return c
}

// Visibility returns how lit world is from the light, in [0, 1]. soft
// averages a 3×3 neighbourhood. Points outside the light frustum are lit.
func (m *Map) Visibility(world mgl32.Vec3, bias float32, soft bool) float32 {
	if !m.Active || m.Target == nil {
		return 1
	}
	clip := m.Matrix.Mul4x1(world.Vec4(1))
	if clip[3] <= 0 {
		return 1
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	if ndc[0] < -1 || ndc[0] > 1 || ndc[1] < -1 || ndc[1] > 1 || ndc[2] > 1 {
		return 1
	}

	depth := ndc[2]*0.5 + 0.5 - bias
	dt := m.Target
	x := int(math32.Floor((ndc[0]*0.5 + 0.5) * float32(dt.Width)))
	y := int(math32.Floor((0.5 - ndc[1]*0.5) * float32(dt.Height)))
	if !soft {
		return lit(dt, x, y, depth)
	}

	var sum float32
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			sum += lit(dt, x+dx, y+dy, depth)
		}
	}
	return sum / 9
}

func lit(dt *raster.DepthTarget, x, y int, depth float32) float32 {
	if depth <= dt.At(x, y) {
		return 1
	}
	return 0
}
