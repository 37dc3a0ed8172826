package render

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-renderer/internal/camera"
	"scene-renderer/internal/config"
	"scene-renderer/internal/scene"
)

const boxScene = `
camera: {position: [0, 6, 6], focus: [0, 0, 0], up: [0, 1, 0], height_angle: 45}
global: {ka: 0.2, kd: 0.8, ks: 0.2}
path:
  duration: 1
  keyframes:
    - {position: [0, 6, 6], look: [0, -1, -1]}
    - {position: [3, 6, 3], look: [-1, -1, -1]}
    - {position: [6, 6, 0], look: [-1, -1, 0]}
    - {position: [6, 3, -6], look: [-1, -0.5, 1]}
root:
  lights:
    - {type: directional, color: [1, 1, 1], direction: [0, -1, 0]}
  children:
    - transforms: [{scale: [10, 0.2, 10]}]
      primitives:
        - type: cube
          material: {ambient: [1, 1, 1], diffuse: [1, 1, 1], specular: [1, 1, 1], shininess: 10}
    - transforms: [{translate: [0, 1, 0]}]
      primitives:
        - type: sphere
          material: {ambient: [0.2, 0, 0], diffuse: [1, 0, 0]}
`

func testConfig() config.Config {
	var cfg config.Config
	cfg.Render.Width = 64
	cfg.Render.Height = 48
	cfg.Shadows.Size = 128
	cfg.Tessellation.Param1 = 4
	cfg.Tessellation.Param2 = 8
	cfg.Resolve(config.Flags{Workers: 1})
	return cfg
}

func parse(t *testing.T, doc string) *scene.Scene {
	t.Helper()
	sc, err := scene.Parse([]byte(doc), "test.yaml")
	require.NoError(t, err)
	return sc
}

func brightness(img *image.NRGBA) int {
	sum := 0
	for i := 0; i < len(img.Pix); i += 4 {
		sum += int(img.Pix[i]) + int(img.Pix[i+1]) + int(img.Pix[i+2])
	}
	return sum
}

func TestFrameWithoutScene(t *testing.T) {
	r := New(testConfig())
	_, err := r.Frame(0.016, camera.Input{})
	assert.ErrorIs(t, err, ErrNoScene)
}

func TestFrameRendersScene(t *testing.T) {
	r := New(testConfig())
	r.Submit(parse(t, boxScene))

	img, err := r.Frame(0.016, camera.Input{})
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())

	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, img.NRGBAAt(0, 0))
	assert.Greater(t, img.NRGBAAt(32, 40).R, uint8(0))

	st := r.Stats()
	assert.Equal(t, 1, st.Frame)
	assert.Equal(t, 2, st.Shapes)
	assert.Equal(t, 1, st.Lights)
	assert.Equal(t, 1, st.ShadowMaps)
	assert.Greater(t, st.Shadow.Triangles, 0)
	assert.Greater(t, st.Shadow.Culled, 0)
	assert.Greater(t, st.Main.Fragments, 0)
	assert.Greater(t, st.Main.Culled, 0)
	assert.Contains(t, st.Table(), "shadow depth (1 maps)")
}

func TestShadowsDarkenTheGround(t *testing.T) {
	lit := New(testConfig())
	lit.Submit(parse(t, boxScene))
	withShadows, err := lit.Frame(0, camera.Input{})
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Resolve(config.Flags{NoShadows: true})
	unlit := New(cfg)
	unlit.Submit(parse(t, boxScene))
	without, err := unlit.Frame(0, camera.Input{})
	require.NoError(t, err)

	assert.Zero(t, unlit.Stats().ShadowMaps)
	assert.Less(t, brightness(withShadows), brightness(without))
}

func TestSupersampleKeepsOutputSize(t *testing.T) {
	cfg := testConfig()
	cfg.Render.Supersample = 2
	r := New(cfg)
	r.Submit(parse(t, boxScene))

	img, err := r.Frame(0, camera.Input{})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())
}

func writeScene(t *testing.T, path, doc string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
}

func TestReloadSwapsAtNextFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	writeScene(t, path, boxScene)

	r := New(testConfig())
	require.NoError(t, r.Load(path))
	_, err := r.Frame(0, camera.Input{})
	require.NoError(t, err)
	first := r.Snapshot()
	require.NotNil(t, first)
	builds := r.tess.Builds()
	oldMesh := r.resolver.MeshFor(&first.List.Shapes[0])
	require.NotNil(t, oldMesh)

	twoLights := strings.Replace(boxScene,
		"    - {type: directional, color: [1, 1, 1], direction: [0, -1, 0]}\n",
		"    - {type: directional, color: [1, 1, 1], direction: [0, -1, 0]}\n    - {type: spot, direction: [0, -1, 0], angle: 30}\n", 1)
	require.NotEqual(t, boxScene, twoLights)
	writeScene(t, path, twoLights)
	require.NoError(t, r.Load(path))
	assert.Same(t, first, r.Snapshot())

	_, err = r.Frame(0, camera.Input{})
	require.NoError(t, err)
	assert.NotSame(t, first, r.Snapshot())
	assert.Equal(t, 2, r.Stats().Lights)
	assert.Equal(t, 2, r.Stats().ShadowMaps)

	// tessellations of the old snapshot are not carried over
	assert.Equal(t, 2*builds, r.tess.Builds())
	assert.NotSame(t, oldMesh, r.resolver.MeshFor(&r.Snapshot().List.Shapes[0]))
}

func TestFailedReloadKeepsSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	writeScene(t, path, boxScene)

	r := New(testConfig())
	require.NoError(t, r.Load(path))
	_, err := r.Frame(0, camera.Input{})
	require.NoError(t, err)
	first := r.Snapshot()

	assert.Error(t, r.Load(filepath.Join(dir, "missing.yaml")))
	writeScene(t, path, "camera: [not, a, camera\n")
	assert.Error(t, r.Load(path))

	_, err = r.Frame(0, camera.Input{})
	require.NoError(t, err)
	assert.Same(t, first, r.Snapshot())
}

func TestPathAndEffects(t *testing.T) {
	r := New(testConfig())
	r.Submit(parse(t, boxScene))
	_, err := r.Frame(0, camera.Input{})
	require.NoError(t, err)

	assert.True(t, r.ToggleTrail())
	assert.True(t, r.ToggleBloom())
	require.True(t, r.StartPath())

	for i := 0; i < 12; i++ {
		_, err = r.Frame(0.1, camera.Input{})
		require.NoError(t, err)
		assert.Equal(t, camera.PathFollowing, r.Stats().Mode)
	}
	assert.True(t, r.Path().Finished())
	assert.True(t, r.Camera().Position.ApproxEqualThreshold(mgl32.Vec3{6, 3, -6}, 1e-4))

	r.Controller().StopPath()
	_, err = r.Frame(0.1, camera.Input{Forward: true})
	require.NoError(t, err)
	assert.Equal(t, camera.Translating, r.Stats().Mode)
}

func TestAttenuation(t *testing.T) {
	assert.Equal(t, float32(1), Attenuation(mgl32.Vec3{1, 0, 0}, 5))
	assert.InDelta(t, 0.25, Attenuation(mgl32.Vec3{0, 0, 1}, 2), 1e-6)
	assert.Equal(t, float32(1), Attenuation(mgl32.Vec3{0.5, 0, 0}, 0))
	assert.Equal(t, float32(1), Attenuation(mgl32.Vec3{}, 3))
}

func TestSpotFalloff(t *testing.T) {
	dir := mgl32.Vec3{0, -1, 0}
	at := func(theta float32) mgl32.Vec3 {
		// direction from the surface back to the light
		s, c := math32.Sincos(theta)
		return mgl32.Vec3{-s, c, 0}
	}
	assert.Equal(t, float32(1), SpotFalloff(dir, at(0), 0.5, 0.1))
	assert.Equal(t, float32(1), SpotFalloff(dir, at(0.39), 0.5, 0.1))
	assert.Equal(t, float32(0), SpotFalloff(dir, at(0.6), 0.5, 0.1))
	mid := SpotFalloff(dir, at(0.45), 0.5, 0.1)
	assert.InDelta(t, 0.5, mid, 1e-3)
}

func TestSetTessellationPurgesCache(t *testing.T) {
	r := New(testConfig())
	r.Submit(parse(t, boxScene))
	_, err := r.Frame(0, camera.Input{})
	require.NoError(t, err)
	before := r.Stats().Main.Triangles
	require.NotZero(t, r.tess.Len())

	tc := r.Config().Tessellation
	r.SetTessellation(tc.Param1+3, tc.Param2+3)
	assert.Zero(t, r.tess.Len())
	assert.Equal(t, tc.Param1+3, r.Config().Tessellation.Param1)

	_, err = r.Frame(0, camera.Input{})
	require.NoError(t, err)
	assert.Greater(t, r.Stats().Main.Triangles, before)
}
