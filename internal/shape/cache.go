package shape

import (
	"sync"

	"scene-renderer/internal/mesh"
)

// Key identifies one tessellation request after clamping.
type Key struct {
	Kind   Kind
	Param1 int
	Param2 int
}

// Cache shares one tessellated mesh between all requests with the same Key.
type Cache struct {
	mu     sync.RWMutex
	items  map[Key]*mesh.Mesh
	builds int
}

// NewCache creates an empty mesh cache.
func NewCache() *Cache {
	return &Cache{items: make(map[Key]*mesh.Mesh)}
}

// Get returns the mesh for (kind, p1, p2), tessellating it on first use.
func (c *Cache) Get(kind Kind, p1, p2 int) *mesh.Mesh {
	p1, p2 = Clamp(kind, p1, p2)
	key := Key{Kind: kind, Param1: p1, Param2: p2}

	// Fast path: read lock
	c.mu.RLock()
	if m, ok := c.items[key]; ok {
		c.mu.RUnlock()
		return m
	}
	c.mu.RUnlock()

	m := Tessellate(kind, p1, p2)

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.items[key]; ok {
		return existing
	}
	c.items[key] = m
	c.builds++
	return m
}

// Purge drops every cached mesh. Called on scene install and when the
// tessellation parameters change.
func (c *Cache) Purge() {
	c.mu.Lock()
	c.items = make(map[Key]*mesh.Mesh)
	c.mu.Unlock()
}

// Len returns the number of cached meshes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Builds returns how many tessellations the cache has performed.
func (c *Cache) Builds() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.builds
}
