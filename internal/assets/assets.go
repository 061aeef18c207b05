// Package assets supplies tile geometry for wall shapes: base meshes, the submesh layout
// of each shape, and composite meshes such as a wall with a door.
package assets

import (
	"errors"
	"fmt"

	"github.com/Faultbox/hexdelve/internal/mesh"
	"github.com/Faultbox/hexdelve/pkg/autotile"
)

// ErrUnknownShape means the provider has no geometry for a shape.
var ErrUnknownShape = errors.New("assets: unknown shape")

// Submesh layout of every wall asset.
const (
	VisibleSubmesh = 0
	BackingSubmesh = 1
)

// Provider supplies the geometry the level builder places.
type Provider interface {
	// Mesh returns the base mesh of a wall shape.
	Mesh(shape autotile.Shape) (*mesh.Mesh, error)
	// SubmeshIndices returns which submeshes of Mesh(shape) hold the visible and backing walls.
	SubmeshIndices(shape autotile.Shape) (visible, backing int, err error)
	// CombinedMesh returns a and b merged; submesh 0 is visible, 1 is backing.
	CombinedMesh(a, b autotile.Shape) (*mesh.Mesh, error)
	// FloorMesh returns the single-submesh floor tile.
	FloorMesh() *mesh.Mesh
	// TileSize returns the cell circumradius.
	TileSize() float32
}

// Library is a Provider that generates its meshes procedurally from Dimensions.
type Library struct {
	dims     Dimensions
	floor    *mesh.Mesh
	shapes   map[autotile.Shape]*mesh.Mesh
	disabled map[autotile.Shape]bool
	cache    *Cache
}

// NewLibrary builds the floor and every wall shape of table. Shapes listed in disabled
// are left out and report ErrUnknownShape.
func NewLibrary(dims Dimensions, table *autotile.Table, disabled ...autotile.Shape) (*Library, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}

	l := &Library{
		dims:     dims,
		floor:    buildFloor(dims),
		shapes:   make(map[autotile.Shape]*mesh.Mesh),
		disabled: make(map[autotile.Shape]bool),
		cache:    NewCache(),
	}
	for _, s := range disabled {
		l.disabled[s] = true
	}

	for _, s := range autotile.Shapes() {
		if l.disabled[s] {
			continue
		}
		if s == autotile.ShapeDoor {
			l.shapes[s] = buildDoor(dims)
			continue
		}
		base, ok := table.Base(s)
		if !ok {
			continue
		}
		l.shapes[s] = buildWalls(s.String(), base, dims)
	}
	return l, nil
}

// Mesh implements Provider.
func (l *Library) Mesh(shape autotile.Shape) (*mesh.Mesh, error) {
	m, ok := l.shapes[shape]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShape, shape)
	}
	return m, nil
}

// SubmeshIndices implements Provider.
func (l *Library) SubmeshIndices(shape autotile.Shape) (visible, backing int, err error) {
	if _, ok := l.shapes[shape]; !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnknownShape, shape)
	}
	return VisibleSubmesh, BackingSubmesh, nil
}

// CombinedMesh implements Provider.
func (l *Library) CombinedMesh(a, b autotile.Shape) (*mesh.Mesh, error) {
	return l.cache.GetOrBuild(a, b, func() (*mesh.Mesh, error) {
		ma, err := l.Mesh(a)
		if err != nil {
			return nil, err
		}
		mb, err := l.Mesh(b)
		if err != nil {
			return nil, err
		}
		return mesh.Merge(a.String()+"+"+b.String(), ma, mb)
	})
}

// FloorMesh implements Provider.
func (l *Library) FloorMesh() *mesh.Mesh { return l.floor }

// TileSize implements Provider.
func (l *Library) TileSize() float32 { return l.dims.TileSize }

// Dimensions returns the generation parameters.
func (l *Library) Dimensions() Dimensions { return l.dims }

// CacheStats returns composite cache hits and misses.
func (l *Library) CacheStats() (hits, misses int) { return l.cache.Stats() }

var _ Provider = (*Library)(nil)
