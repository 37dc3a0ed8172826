package scenegraph

import (
	"scene-renderer/internal/mesh"
	"scene-renderer/internal/shape"
)

// MeshResolver maps render shapes to triangle buffers. Analytic primitives are
// tessellated through Cache with the current parameters.
type MeshResolver struct {
	Cache  *shape.Cache
	Param1 int
	Param2 int
}

// MeshFor returns the mesh of rs, or nil when it has none.
func (r *MeshResolver) MeshFor(rs *RenderShape) *mesh.Mesh {
	if rs.Mesh != nil {
		return rs.Mesh
	}
	kind, ok := rs.Primitive.Type.ShapeKind()
	if !ok || r.Cache == nil {
		return nil
	}
	return r.Cache.Get(kind, r.Param1, r.Param2)
}
