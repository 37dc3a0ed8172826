package scenegraph

import (
	"github.com/go-gl/mathgl/mgl32"

	"scene-renderer/internal/scene"
)

// RenderList is the flattened, read-only render data of one scene load.
type RenderList struct {
	Scene   *scene.Scene
	Shapes  []RenderShape
	Lights  []Light
	Bounds  Bounds
	Dropped int // mesh primitives skipped because their file failed to load
}

// Flatten traverses sc and keeps at most maxLights lights, in traversal order.
func Flatten(sc *scene.Scene, loader MeshLoader, maxLights int) *RenderList {
	t := &traversal{loader: loader}
	if sc.Root != nil {
		t.visit(sc.Root, mgl32.Ident4())
	}

	lights := t.lights
	if maxLights >= 0 && len(lights) > maxLights {
		logger.Warningf("%s: %d lights defined, keeping the first %d", sc.Source, len(lights), maxLights)
		lights = lights[:maxLights]
	}

	return &RenderList{
		Scene:   sc,
		Shapes:  t.shapes,
		Lights:  lights,
		Bounds:  SceneBounds(t.shapes),
		Dropped: t.dropped,
	}
}
