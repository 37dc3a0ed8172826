package scenegraph

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-renderer/internal/mathutil"
	"scene-renderer/internal/mesh"
	"scene-renderer/internal/scene"
	"scene-renderer/internal/shape"
	"scene-renderer/internal/transform"
)

type fakeLoader map[string][]mesh.Mesh

func (f fakeLoader) Load(path string) ([]mesh.Mesh, error) {
	if m, ok := f[path]; ok {
		return m, nil
	}
	return nil, errors.New("no such mesh")
}

func tr(x, y, z float32) transform.Transformation {
	return transform.Translate{V: mgl32.Vec3{x, y, z}}
}

func TestNestedTranslationsAccumulate(t *testing.T) {
	spot := scene.LightData{ID: -1, Type: scene.LightSpot, Direction: mgl32.Vec3{0, -1, 0}, Angle: 0.5}
	root := &scene.Node{
		Transforms: []transform.Transformation{tr(1, 2, 3)},
		Children: []*scene.Node{{
			Transforms: []transform.Transformation{tr(10, 20, 30)},
			Lights:     []scene.LightData{spot},
		}},
	}

	_, lights := Traverse(root, nil)
	require.Len(t, lights, 1)
	assert.True(t, lights[0].Position.ApproxEqual(mgl32.Vec3{11, 22, 33}), "got %v", lights[0].Position)
	assert.True(t, lights[0].Direction.ApproxEqual(mgl32.Vec3{0, -1, 0}), "got %v", lights[0].Direction)
	assert.Equal(t, 0, lights[0].ID)
}

func TestLightDirectionFollowsRotationOnly(t *testing.T) {
	root := &scene.Node{
		Transforms: []transform.Transformation{
			tr(5, 5, 5),
			transform.Rotate{Axis: mgl32.Vec3{0, 0, 1}, Angle: math32.Pi / 2},
		},
		Lights: []scene.LightData{
			{ID: 3, Type: scene.LightDirectional, Direction: mgl32.Vec3{1, 0, 0}},
			{ID: -1, Type: scene.LightPoint},
		},
	}

	_, lights := Traverse(root, nil)
	require.Len(t, lights, 2)

	dir := lights[0]
	assert.Equal(t, 3, dir.ID)
	assert.True(t, dir.Direction.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-6), "got %v", dir.Direction)
	assert.Equal(t, mgl32.Vec3{}, dir.Position)

	point := lights[1]
	assert.Equal(t, 1, point.ID)
	assert.True(t, point.Position.ApproxEqual(mgl32.Vec3{5, 5, 5}))
	assert.Equal(t, mgl32.Vec3{}, point.Direction)
}

func TestSiblingsDoNotShareTransforms(t *testing.T) {
	cube := scene.Primitive{Type: scene.PrimitiveCube}
	root := &scene.Node{
		Children: []*scene.Node{
			{Name: "a", Transforms: []transform.Transformation{tr(1, 0, 0)}, Primitives: []scene.Primitive{cube}},
			{Name: "b", Transforms: []transform.Transformation{tr(0, 1, 0)}, Primitives: []scene.Primitive{cube}},
			{Name: "c", Primitives: []scene.Primitive{cube}},
		},
	}

	shapes, _ := Traverse(root, nil)
	require.Len(t, shapes, 3)
	assert.True(t, mathutil.Point(shapes[0].CTM, mgl32.Vec3{}).ApproxEqual(mgl32.Vec3{1, 0, 0}))
	assert.True(t, mathutil.Point(shapes[1].CTM, mgl32.Vec3{}).ApproxEqual(mgl32.Vec3{0, 1, 0}))
	assert.Equal(t, mgl32.Ident4(), shapes[2].CTM)
}

func TestNormalMatrixIsInverseTranspose(t *testing.T) {
	root := &scene.Node{
		Transforms: []transform.Transformation{transform.Scale{V: mgl32.Vec3{2, 1, 1}}},
		Primitives: []scene.Primitive{{Type: scene.PrimitiveSphere}},
	}
	shapes, _ := Traverse(root, nil)
	require.Len(t, shapes, 1)

	want := shapes[0].CTM.Inv().Transpose()
	assert.True(t, shapes[0].NormalMatrix.ApproxEqual(want))
}

func TestMeshPrimitivesExpandPerSubObject(t *testing.T) {
	loader := fakeLoader{"/m/two.obj": {{Name: "a"}, {Name: "b"}}}
	root := &scene.Node{
		Primitives: []scene.Primitive{
			{Type: scene.PrimitiveMesh, MeshFile: "/m/two.obj"},
			{Type: scene.PrimitiveMesh, MeshFile: "/m/missing.obj"},
			{Type: scene.PrimitiveCylinder},
		},
	}

	shapes, _ := Traverse(root, loader)
	require.Len(t, shapes, 3)
	assert.Equal(t, "a", shapes[0].Mesh.Name)
	assert.Equal(t, "b", shapes[1].Mesh.Name)
	assert.Nil(t, shapes[2].Mesh)
	assert.Equal(t, scene.PrimitiveCylinder, shapes[2].Primitive.Type)
}

func TestFlattenSingleCubeScene(t *testing.T) {
	sc := &scene.Scene{
		Source: "cube",
		Root: &scene.Node{
			Primitives: []scene.Primitive{{Type: scene.PrimitiveCube}},
			Lights:     []scene.LightData{{ID: -1, Type: scene.LightDirectional, Direction: mgl32.Vec3{0, -1, 0}}},
		},
	}

	rl := Flatten(sc, nil, 8)
	require.Len(t, rl.Shapes, 1)
	assert.Equal(t, mgl32.Ident4(), rl.Shapes[0].CTM)
	require.Len(t, rl.Lights, 1)
	require.True(t, rl.Bounds.Valid)
	assert.True(t, rl.Bounds.Min.ApproxEqual(mgl32.Vec3{-0.5, -0.5, -0.5}))
	assert.True(t, rl.Bounds.Max.ApproxEqual(mgl32.Vec3{0.5, 0.5, 0.5}))
}

func TestFlattenTruncatesLights(t *testing.T) {
	root := &scene.Node{}
	for i := 0; i < 11; i++ {
		root.Lights = append(root.Lights, scene.LightData{ID: -1, Type: scene.LightPoint})
	}
	rl := Flatten(&scene.Scene{Root: root}, nil, 8)
	require.Len(t, rl.Lights, 8)
	for i, l := range rl.Lights {
		assert.Equal(t, i, l.ID)
	}
}

func TestFlattenCountsDroppedMeshes(t *testing.T) {
	root := &scene.Node{Primitives: []scene.Primitive{{Type: scene.PrimitiveMesh, MeshFile: "gone.obj"}}}
	rl := Flatten(&scene.Scene{Root: root}, fakeLoader{}, 8)
	assert.Empty(t, rl.Shapes)
	assert.Equal(t, 1, rl.Dropped)
	assert.False(t, rl.Bounds.Valid)
}

func TestSceneBoundsUsesMeshExtent(t *testing.T) {
	var m mesh.Mesh
	m.Append(mgl32.Vec3{-2, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec2{})
	m.Append(mgl32.Vec3{2, 1, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec2{})
	m.Append(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{0, 1, 0}, mgl32.Vec2{})

	b := SceneBounds([]RenderShape{{Mesh: &m, CTM: mgl32.Translate3D(0, 10, 0)}})
	require.True(t, b.Valid)
	assert.True(t, b.Min.ApproxEqual(mgl32.Vec3{-2, 10, 0}))
	assert.True(t, b.Max.ApproxEqual(mgl32.Vec3{2, 11, 3}))
	assert.True(t, b.Center().ApproxEqual(mgl32.Vec3{0, 10.5, 1.5}))
}

func TestMeshResolver(t *testing.T) {
	r := &MeshResolver{Cache: shape.NewCache(), Param1: 2, Param2: 6}

	cube := RenderShape{Primitive: scene.Primitive{Type: scene.PrimitiveCube}}
	m := r.MeshFor(&cube)
	require.NotNil(t, m)
	assert.Equal(t, shape.VertexCount(shape.Cube, 2, 6), m.VertexCount())
	assert.Same(t, m, r.MeshFor(&cube))

	loaded := &mesh.Mesh{Name: "part"}
	ext := RenderShape{Primitive: scene.Primitive{Type: scene.PrimitiveMesh}, Mesh: loaded}
	assert.Same(t, loaded, r.MeshFor(&ext))

	ext.Mesh = nil
	assert.Nil(t, r.MeshFor(&ext))
}
