package objfile

import (
	"path/filepath"
	"sync"

	"scene-renderer/internal/mesh"
)

// Cache loads each OBJ file once and shares its sub-meshes by path.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
}

type cacheEntry struct {
	meshes []mesh.Mesh
	err    error
}

// NewCache creates an empty mesh cache.
func NewCache() *Cache {
	return &Cache{items: make(map[string]*cacheEntry)}
}

// Load returns the sub-meshes of the OBJ file at path. Failures are cached too,
// so a missing file is only reported once per cache lifetime.
func (c *Cache) Load(path string) ([]mesh.Mesh, error) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	// Fast path: read lock
	c.mu.RLock()
	if entry, ok := c.items[path]; ok {
		c.mu.RUnlock()
		return entry.meshes, entry.err
	}
	c.mu.RUnlock()

	meshes, err := Load(path)

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.items[path]; ok {
		return entry.meshes, entry.err
	}
	c.items[path] = &cacheEntry{meshes: meshes, err: err}
	return meshes, err
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
