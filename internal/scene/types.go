// Package scene holds the parsed scene description: camera, global lighting
// coefficients, an optional flythrough path and the node tree.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"scene-renderer/internal/shape"
	"scene-renderer/internal/transform"
)

// Scene is a parsed scene file.
type Scene struct {
	Source string // file the scene was read from
	Dir    string // base directory for mesh and texture references

	Camera CameraData
	Global GlobalData
	Path   *PathData
	Root   *Node
}

// CameraData is the initial camera. HeightAngle is the vertical FOV in radians.
type CameraData struct {
	Position    mgl32.Vec3
	Look        mgl32.Vec3
	Up          mgl32.Vec3
	HeightAngle float32
}

// GlobalData holds the scene-wide Phong coefficients.
type GlobalData struct {
	Ka, Kd, Ks float32
}

// Keyframe is one control point of a flythrough.
type Keyframe struct {
	Position mgl32.Vec3
	Look     mgl32.Vec3
	Up       mgl32.Vec3
}

// PathData describes a cubic Bezier flythrough over four keyframes.
type PathData struct {
	Duration  float32 // seconds; zero means the configured default
	Keyframes [4]Keyframe
}

// Node is one scene-graph node. Children never reference their parents.
type Node struct {
	Name       string
	Transforms []transform.Transformation
	Primitives []Primitive
	Lights     []LightData
	Children   []*Node
}

// PrimitiveType selects a tessellated solid or an external mesh.
type PrimitiveType int

const (
	PrimitiveCube PrimitiveType = iota
	PrimitiveSphere
	PrimitiveCone
	PrimitiveCylinder
	PrimitiveMesh
)

func (t PrimitiveType) String() string {
	if t == PrimitiveMesh {
		return "mesh"
	}
	if k, ok := t.ShapeKind(); ok {
		return k.String()
	}
	return fmt.Sprintf("primitive(%d)", int(t))
}

// ShapeKind maps a tessellated primitive to its shape.Kind. Meshes report false.
func (t PrimitiveType) ShapeKind() (shape.Kind, bool) {
	switch t {
	case PrimitiveCube:
		return shape.Cube, true
	case PrimitiveSphere:
		return shape.Sphere, true
	case PrimitiveCone:
		return shape.Cone, true
	case PrimitiveCylinder:
		return shape.Cylinder, true
	}
	return 0, false
}

// Primitive is a shape instance with its material.
type Primitive struct {
	Type     PrimitiveType
	MeshFile string // absolute path for PrimitiveMesh
	Material Material
}

// Material holds Phong coefficients and an optional texture.
type Material struct {
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
	Shininess float32
	Blend     float32 // texture weight against the diffuse color
	Texture   TextureMap
}

// TextureMap references an image file with repeat factors.
type TextureMap struct {
	File    string
	RepeatU float32
	RepeatV float32
}

// Used reports whether the material references a texture.
func (t TextureMap) Used() bool {
	return t.File != ""
}

// LightType identifies a light model.
type LightType int

const (
	LightPoint LightType = iota
	LightDirectional
	LightSpot
)

var lightNames = [...]string{"point", "directional", "spot"}

func (t LightType) String() string {
	if t < 0 || int(t) >= len(lightNames) {
		return fmt.Sprintf("light(%d)", int(t))
	}
	return lightNames[t]
}

// LightData is a light in its node's local space. Angles are in radians.
// ID is negative when the file leaves it to traversal order.
type LightData struct {
	ID        int
	Type      LightType
	Color     mgl32.Vec3
	Function  mgl32.Vec3 // attenuation c1 + c2·d + c3·d²
	Direction mgl32.Vec3
	Angle     float32
	Penumbra  float32
}

// Walk visits n and its descendants depth-first, pre-order.
func (n *Node) Walk(fn func(node *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}
