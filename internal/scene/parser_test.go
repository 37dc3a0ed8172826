package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-renderer/internal/transform"
)

const sampleScene = `
camera:
  position: [0, 2, 8]
  focus: [0, 2, 0]
  up: [0, 1, 0]
  height_angle: 60
global: {ka: 0.4, kd: 0.6, ks: 0.3}
path:
  duration: 4
  keyframes:
    - {position: [0, 2, 8], look: [0, 0, -1]}
    - {position: [4, 3, 6], look: [-1, 0, -1]}
    - {position: [6, 3, 0], look: [-1, 0, 0]}
    - {position: [0, 5, -6], look: [0, -0.5, 1]}
root:
  name: world
  lights:
    - {type: directional, color: [1, 1, 1], direction: [0, -1, 0]}
  children:
    - name: table
      transforms:
        - translate: [1, 0, 0]
        - rotate: {axis: [0, 1, 0], angle: 90}
        - scale: [2, 0.1, 2]
      primitives:
        - type: cube
          material:
            diffuse: [0.8, 0.5, 0.2]
            specular: [1, 1, 1, 1]
            shininess: 25
            texture: {file: wood.png}
    - name: lamp
      transforms:
        - matrix: [1, 0, 0, 0,  0, 1, 0, 3,  0, 0, 1, 0,  0, 0, 0, 1]
      lights:
        - {id: 7, type: spot, color: [1, 0.9, 0.8], attenuation: [1, 0.1, 0], direction: [0, -1, 0], angle: 30, penumbra: 5}
      primitives:
        - {type: mesh, mesh: models/lamp.obj}
`

func TestParseSample(t *testing.T) {
	sc, err := Parse([]byte(sampleScene), "sample.yaml")
	require.NoError(t, err)

	assert.True(t, sc.Camera.Look.ApproxEqual(mgl32.Vec3{0, 0, -1}))
	assert.InDelta(t, math32.Pi/3, sc.Camera.HeightAngle, 1e-6)
	assert.Equal(t, GlobalData{Ka: 0.4, Kd: 0.6, Ks: 0.3}, sc.Global)

	require.NotNil(t, sc.Path)
	assert.Equal(t, float32(4), sc.Path.Duration)
	assert.InDelta(t, 1, sc.Path.Keyframes[3].Look.Len(), 1e-6)

	root := sc.Root
	assert.Equal(t, "world", root.Name)
	require.Len(t, root.Lights, 1)
	assert.Equal(t, LightDirectional, root.Lights[0].Type)
	assert.Equal(t, -1, root.Lights[0].ID)
	require.Len(t, root.Children, 2)

	table := root.Children[0]
	require.Len(t, table.Transforms, 3)
	assert.IsType(t, transform.Translate{}, table.Transforms[0])
	rot := table.Transforms[1].(transform.Rotate)
	assert.InDelta(t, math32.Pi/2, rot.Angle, 1e-6)
	assert.IsType(t, transform.Scale{}, table.Transforms[2])
	require.Len(t, table.Primitives, 1)
	mat := table.Primitives[0].Material
	assert.Equal(t, PrimitiveCube, table.Primitives[0].Type)
	assert.Equal(t, float32(25), mat.Shininess)
	assert.True(t, mat.Texture.Used())
	assert.Equal(t, float32(1), mat.Texture.RepeatU)

	lamp := root.Children[1]
	m := lamp.Transforms[0].Matrix()
	assert.Equal(t, float32(3), m.At(1, 3))
	spot := lamp.Lights[0]
	assert.Equal(t, 7, spot.ID)
	assert.Equal(t, LightSpot, spot.Type)
	assert.InDelta(t, math32.Pi/6, spot.Angle, 1e-6)
	assert.Equal(t, "models/lamp.obj", lamp.Primitives[0].MeshFile)
}

func TestParseJSON(t *testing.T) {
	doc := `{"camera": {"position": [0,0,5], "look": [0,0,-1]}, "root": {"primitives": [{"type": "sphere"}]}}`
	sc, err := Parse([]byte(doc), "scene.json")
	require.NoError(t, err)
	assert.Equal(t, PrimitiveSphere, sc.Root.Primitives[0].Type)
	assert.Equal(t, GlobalData{Ka: 0.5, Kd: 0.5, Ks: 0.5}, sc.Global)
	assert.True(t, sc.Camera.Up.ApproxEqual(mgl32.Vec3{0, 1, 0}))
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		is   error
		msg  string
	}{
		{"no camera", "root: {}", ErrMissingCamera, ""},
		{"no look", "camera: {position: [0,0,0]}\nroot: {}", ErrMissingCamera, ""},
		{"no root", "camera: {position: [0,0,0], look: [0,0,-1]}", ErrNoRoot, ""},
		{"zero look", "camera: {position: [0,0,0], look: [0,0,0]}\nroot: {}", nil, "zero-length"},
		{"bad primitive", "camera: {position: [0,0,0], look: [0,0,-1]}\nroot:\n  primitives:\n    - type: torus\n", nil, "[p: 4]"},
		{"two-key transform", "camera: {position: [0,0,0], look: [0,0,-1]}\nroot:\n  transforms:\n    - {translate: [1,1,1], scale: [1,1,1]}\n", nil, "exactly one key"},
		{"short matrix", "camera: {position: [0,0,0], look: [0,0,-1]}\nroot:\n  transforms:\n    - matrix: [1, 2]\n", nil, "16 values"},
		{"spot without angle", "camera: {position: [0,0,0], look: [0,0,-1]}\nroot:\n  lights:\n    - {type: spot, direction: [0,-1,0]}\n", nil, "light.angle"},
		{"node typo", "camera: {position: [0,0,0], look: [0,0,-1]}\nroot:\n  trnsforms: [{translate: [1,2,3]}]\n", nil, `unknown node field "trnsforms"`},
		{"camera typo", "camera: {position: [0,0,0], look: [0,0,-1], hieght_angle: 30}\nroot: {}\n", nil, "hieght_angle"},
		{"material typo", "camera: {position: [0,0,0], look: [0,0,-1]}\nroot:\n  primitives:\n    - {type: cube, material: {difuse: [1,0,0]}}\n", nil, "line 4"},
		{"texture typo", "camera: {position: [0,0,0], look: [0,0,-1]}\nroot:\n  primitives:\n    - {type: cube, material: {texture: {fil: a.png}}}\n", nil, `unknown texture field "fil"`},
		{"light typo", "camera: {position: [0,0,0], look: [0,0,-1]}\nroot:\n  lights:\n    - {type: point, colour: [1,1,1]}\n", nil, `unknown light field "colour"`},
		{"keyframe typo", "camera: {position: [0,0,0], look: [0,0,-1]}\npath:\n  keyframes: [{positon: [0,0,0]}]\nroot: {}\n", nil, `unknown keyframe field "positon"`},
		{"rotate typo", "camera: {position: [0,0,0], look: [0,0,-1]}\nroot:\n  transforms:\n    - rotate: {axis: [0,1,0], angel: 90}\n", nil, `unknown rotate field "angel"`},
		{"global typo", "camera: {position: [0,0,0], look: [0,0,-1]}\nglobal: {kx: 1}\nroot: {}\n", nil, `unknown global field "kx"`},
		{"three keyframes", "camera: {position: [0,0,0], look: [0,0,-1]}\npath:\n  keyframes: [{position: [0,0,0], look: [0,0,-1]}]\nroot: {}\n", nil, "4 keyframes"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc), "p")
			require.Error(t, err)
			if tc.is != nil {
				assert.True(t, errors.Is(err, tc.is), "got %v", err)
			}
			if tc.msg != "" {
				assert.Contains(t, err.Error(), tc.msg)
			}
		})
	}
}

func TestParseTransformKeysIgnoreCase(t *testing.T) {
	doc := `
camera: {position: [0, 0, 0], look: [0, 0, -1]}
root:
  transforms:
    - Translate: [1, 2, 3]
    - SCALE: [2, 2, 2]
    - Rotate: {axis: [0, 1, 0], angle: 90}
    - MATRIX: [1, 0, 0, 4, 0, 1, 0, 5, 0, 0, 1, 6, 0, 0, 0, 1]
`
	sc, err := Parse([]byte(doc), "case.yaml")
	require.NoError(t, err)
	ts := sc.Root.Transforms
	require.Len(t, ts, 4)

	assert.Equal(t, transform.Translate{V: mgl32.Vec3{1, 2, 3}}, ts[0])
	assert.Equal(t, transform.Scale{V: mgl32.Vec3{2, 2, 2}}, ts[1])
	rot, ok := ts[2].(transform.Rotate)
	require.True(t, ok, "got %T", ts[2])
	assert.InDelta(t, math32.Pi/2, rot.Angle, 1e-6)
	m, ok := ts[3].(transform.Matrix)
	require.True(t, ok, "got %T", ts[3])
	assert.Equal(t, mgl32.Vec3{4, 5, 6}, m.M.Col(3).Vec3())
}

func TestLoadResolvesMeshPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleScene), 0o644))

	sc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "models", "lamp.obj"), sc.Root.Children[1].Primitives[0].MeshFile)
	assert.Equal(t, dir, sc.Dir)
}

func TestWalkIsPreOrder(t *testing.T) {
	sc, err := Parse([]byte(sampleScene), "sample.yaml")
	require.NoError(t, err)

	var names []string
	sc.Root.Walk(func(n *Node, depth int) { names = append(names, n.Name) })
	assert.Equal(t, []string{"world", "table", "lamp"}, names)
}
