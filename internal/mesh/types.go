// Package mesh provides indexed triangle meshes with submeshes and instance batching.
package mesh

import (
	"github.com/Faultbox/hexdelve/pkg/math"
)

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Submesh is a contiguous index range drawn with one material.
type Submesh struct {
	StartIndex int32
	IndexCount int32
}

// Mesh holds vertex and index data split into submeshes.
type Mesh struct {
	Name      string
	Vertices  []Vertex
	Indices   []uint32
	Submeshes []Submesh
	Bounds    Bounds
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Instance is one placed piece of geometry to be merged into a combined mesh:
// submesh Submesh of Mesh, transformed by Transform.
type Instance struct {
	Mesh      *Mesh
	Transform math.Mat4
	Submesh   int
}

// NewInstance places submesh of m at transform.
func NewInstance(m *Mesh, transform math.Mat4, submesh int) Instance {
	return Instance{Mesh: m, Transform: transform, Submesh: submesh}
}

// emptyBounds is the starting point for bounds accumulation.
func emptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

// Empty reports whether the bounds never received a point.
func (b Bounds) Empty() bool {
	return b.Min[0] > b.Max[0]
}
