// Package scenegraph flattens a scene tree into world-space render shapes and lights.
package scenegraph

import (
	"github.com/go-gl/mathgl/mgl32"

	"scene-renderer/internal/log"
	"scene-renderer/internal/mathutil"
	"scene-renderer/internal/mesh"
	"scene-renderer/internal/scene"
	"scene-renderer/internal/transform"
)

var logger = log.New("scenegraph")

// MeshLoader loads the sub-meshes of an external mesh file.
type MeshLoader interface {
	Load(path string) ([]mesh.Mesh, error)
}

// RenderShape is one flattened primitive instance.
type RenderShape struct {
	Node      string
	Primitive scene.Primitive

	// Mesh is set for sub-objects of external meshes. Tessellated primitives
	// resolve their mesh from the tessellation cache at draw time.
	Mesh *mesh.Mesh

	CTM          mgl32.Mat4
	NormalMatrix mgl32.Mat4 // inverse-transpose of CTM
}

// Light is a light in world space.
type Light struct {
	ID        int
	Type      scene.LightType
	Color     mgl32.Vec3
	Function  mgl32.Vec3
	Position  mgl32.Vec3 // zero for directional lights
	Direction mgl32.Vec3 // zero for point lights
	Angle     float32
	Penumbra  float32
}

type traversal struct {
	loader  MeshLoader
	shapes  []RenderShape
	lights  []Light
	dropped int
}

// Traverse walks the tree depth-first and returns every shape and light with
// its accumulated transform applied. Mesh primitives whose file cannot be
// loaded are dropped with a warning.
func Traverse(root *scene.Node, loader MeshLoader) ([]RenderShape, []Light) {
	t := &traversal{loader: loader}
	if root != nil {
		t.visit(root, mgl32.Ident4())
	}
	return t.shapes, t.lights
}

// visit receives the parent's CTM by value; siblings never see each other's transforms.
func (t *traversal) visit(n *scene.Node, parent mgl32.Mat4) {
	ctm := parent
	if len(n.Transforms) > 0 {
		ctm = parent.Mul4(transform.Compose(n.Transforms...))
	}
	normal := mathutil.NormalMatrix(ctm)

	for _, prim := range n.Primitives {
		if prim.Type != scene.PrimitiveMesh {
			t.shapes = append(t.shapes, RenderShape{
				Node:         n.Name,
				Primitive:    prim,
				CTM:          ctm,
				NormalMatrix: normal,
			})
			continue
		}
		t.emitMesh(n, prim, ctm, normal)
	}

	for _, ld := range n.Lights {
		t.lights = append(t.lights, t.worldLight(ld, ctm))
	}

	for _, c := range n.Children {
		t.visit(c, ctm)
	}
}

func (t *traversal) emitMesh(n *scene.Node, prim scene.Primitive, ctm, normal mgl32.Mat4) {
	if t.loader == nil {
		logger.Warningf("node %q: no mesh loader for %s; shape dropped", n.Name, prim.MeshFile)
		t.dropped++
		return
	}
	subs, err := t.loader.Load(prim.MeshFile)
	if err != nil {
		logger.Warningf("node %q: %v; shape dropped", n.Name, err)
		t.dropped++
		return
	}
	for i := range subs {
		t.shapes = append(t.shapes, RenderShape{
			Node:         n.Name,
			Primitive:    prim,
			Mesh:         &subs[i],
			CTM:          ctm,
			NormalMatrix: normal,
		})
	}
}

func (t *traversal) worldLight(ld scene.LightData, ctm mgl32.Mat4) Light {
	l := Light{
		ID:       ld.ID,
		Type:     ld.Type,
		Color:    ld.Color,
		Function: ld.Function,
		Angle:    ld.Angle,
		Penumbra: ld.Penumbra,
	}
	if l.ID < 0 {
		l.ID = len(t.lights)
	}
	if ld.Type != scene.LightDirectional {
		l.Position = mathutil.Point(ctm, mgl32.Vec3{})
	}
	if ld.Type != scene.LightPoint {
		l.Direction = mathutil.Normalize(mathutil.Direction(ctm, ld.Direction), mgl32.Vec3{0, -1, 0})
	}
	return l
}
