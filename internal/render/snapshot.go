package render

import (
	"time"

	"scene-renderer/internal/objfile"
	"scene-renderer/internal/scene"
	"scene-renderer/internal/scenegraph"
	"scene-renderer/internal/shadow"
	"scene-renderer/internal/texture"
)

// Snapshot is the immutable render data of one scene load. A snapshot owns
// its mesh and texture caches, so a reload never mixes old and new assets.
type Snapshot struct {
	Scene    *scene.Scene
	List     *scenegraph.RenderList
	Textures texture.Resolver // nil when the scene has no base directory
	Built    time.Time
}

// BuildSnapshot flattens sc and prepares its asset caches. It does not touch
// any renderer state and may run on any goroutine.
func BuildSnapshot(sc *scene.Scene) *Snapshot {
	s := &Snapshot{
		Scene: sc,
		List:  scenegraph.Flatten(sc, objfile.NewCache(), shadow.MaxLights),
		Built: time.Now(),
	}
	if sc.Dir != "" {
		idx := texture.BuildIndex(sc.Dir)
		logger.Debugf("%s: %d textures indexed", sc.Source, idx.Len())
		s.Textures = texture.NewCache(idx)
	}
	return s
}
