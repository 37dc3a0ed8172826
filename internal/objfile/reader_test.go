package objfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoObjects = `# two quads
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1

o front
f 1/1/1 2/2/1 3/3/1 4/4/1

g back
f -1 -2 -3
`

func TestParseSplitsObjects(t *testing.T) {
	meshes, err := Parse(strings.NewReader(twoObjects), "quads.obj")
	require.NoError(t, err)
	require.Len(t, meshes, 2)

	front := meshes[0]
	assert.Equal(t, "front", front.Name)
	assert.Equal(t, 6, front.VertexCount())
	assert.True(t, front.Normal(0).ApproxEqual(mgl32.Vec3{0, 0, 1}))
	assert.True(t, front.UV(2).ApproxEqual(mgl32.Vec2{1, 1}))

	back := meshes[1]
	assert.Equal(t, "back", back.Name)
	assert.Equal(t, 3, back.VertexCount())
	// negative indices count from the end; (4,3,2) winds clockwise seen from +Z
	assert.True(t, back.Position(0).ApproxEqual(mgl32.Vec3{0, 1, 0}))
	assert.True(t, back.Normal(0).ApproxEqual(mgl32.Vec3{0, 0, -1}))
}

func TestParseErrorsCarryLine(t *testing.T) {
	_, err := Parse(strings.NewReader("v 0 0 0\nv 1 0 0\nf 1 2 7\n"), "bad.obj")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[bad.obj: 3]")

	_, err = Parse(strings.NewReader("v 0 zero 0\n"), "nan.obj")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[nan.obj: 1]")
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader("# nothing\nv 0 0 0\n"), "empty.obj")
	assert.True(t, errors.Is(err, ErrNoGeometry))
}

func TestCacheLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quads.obj")
	require.NoError(t, os.WriteFile(path, []byte(twoObjects), 0o644))

	c := NewCache()
	a, err := c.Load(path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	b, err := c.Load(path)
	require.NoError(t, err)
	assert.Equal(t, len(a), len(b))
	assert.Equal(t, 1, c.Len())

	_, err = c.Load(filepath.Join(dir, "missing.obj"))
	assert.Error(t, err)
}
