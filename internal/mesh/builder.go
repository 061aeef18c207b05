package mesh

import "fmt"

// Builder accumulates triangles per submesh and lays them out into a Mesh.
type Builder struct {
	name     string
	vertices []Vertex
	groups   [][]uint32
}

// NewBuilder returns a builder for a mesh with the given number of submeshes.
func NewBuilder(name string, submeshes int) *Builder {
	return &Builder{name: name, groups: make([][]uint32, submeshes)}
}

// AddTriangle appends one triangle to submesh.
func (b *Builder) AddTriangle(submesh int, v0, v1, v2 Vertex) {
	base := uint32(len(b.vertices))
	b.vertices = append(b.vertices, v0, v1, v2)
	b.groups[submesh] = append(b.groups[submesh], base, base+1, base+2)
}

// AddQuad appends a quad given in counter-clockwise order (seen from the normal side)
// as two triangles.
func (b *Builder) AddQuad(submesh int, v0, v1, v2, v3 Vertex) {
	base := uint32(len(b.vertices))
	b.vertices = append(b.vertices, v0, v1, v2, v3)
	b.groups[submesh] = append(b.groups[submesh],
		base, base+1, base+2,
		base, base+2, base+3,
	)
}

// Build lays out the index buffer submesh by submesh.
func (b *Builder) Build() *Mesh {
	m := &Mesh{
		Name:     b.name,
		Vertices: b.vertices,
		Bounds:   emptyBounds(),
	}
	for _, group := range b.groups {
		m.Submeshes = append(m.Submeshes, Submesh{
			StartIndex: int32(len(m.Indices)),
			IndexCount: int32(len(group)),
		})
		m.Indices = append(m.Indices, group...)
	}
	for _, v := range m.Vertices {
		updateBounds(&m.Bounds, v.Position)
	}
	return m
}

// String summarizes the mesh for logs.
func (m *Mesh) String() string {
	if m == nil {
		return "<nil mesh>"
	}
	return fmt.Sprintf("%s: %d verts, %d tris, %d submeshes", m.Name, len(m.Vertices), m.TriangleCount(), len(m.Submeshes))
}
