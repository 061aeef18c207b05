package assets

import (
	"sync"

	"github.com/Faultbox/hexdelve/internal/mesh"
	"github.com/Faultbox/hexdelve/pkg/autotile"
)

// compositeKey names a composite mesh built from two shapes.
type compositeKey struct {
	a, b autotile.Shape
}

// Cache holds composite meshes so each pair is merged once.
type Cache struct {
	data map[compositeKey]*mesh.Mesh
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[compositeKey]*mesh.Mesh),
	}
}

// GetOrBuild returns the cached mesh for (a, b), building it with build on a miss.
// Build errors are not cached.
func (c *Cache) GetOrBuild(a, b autotile.Shape, build func() (*mesh.Mesh, error)) (*mesh.Mesh, error) {
	key := compositeKey{a, b}

	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.data[key]; ok {
		c.hits++
		return m, nil
	}
	c.misses++

	m, err := build()
	if err != nil {
		return nil, err
	}
	c.data[key] = m
	return m, nil
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[compositeKey]*mesh.Mesh)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
