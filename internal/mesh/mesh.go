package mesh

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	gomath "math"
)

// ErrInvalidInstance means an instance cannot be combined.
var ErrInvalidInstance = errors.New("mesh: invalid instance")

// SubmeshCount returns the number of submeshes.
func (m *Mesh) SubmeshCount() int {
	if m == nil {
		return 0
	}
	return len(m.Submeshes)
}

// TriangleCount returns the number of triangles across all submeshes.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}

// SubmeshIndices returns the index slice of submesh i.
func (m *Mesh) SubmeshIndices(i int) []uint32 {
	sm := m.Submeshes[i]
	return m.Indices[sm.StartIndex : sm.StartIndex+sm.IndexCount]
}

// Extract copies submesh i into a standalone single-submesh mesh.
func (m *Mesh) Extract(i int) (*Mesh, error) {
	if m == nil || i < 0 || i >= len(m.Submeshes) {
		return nil, fmt.Errorf("%w: submesh %d out of range", ErrInvalidInstance, i)
	}
	return Combine(fmt.Sprintf("%s[%d]", m.Name, i), []Instance{{Mesh: m, Transform: identity, Submesh: i}}, true)
}

// Digest returns a sha256 content hash over vertices, indices and submesh layout.
// The name is not part of the digest.
func (m *Mesh) Digest() string {
	h := sha256.New()
	if m == nil {
		return hex.EncodeToString(h.Sum(nil))
	}

	var buf [4]byte
	putF := func(f float32) {
		binary.LittleEndian.PutUint32(buf[:], gomath.Float32bits(f))
		h.Write(buf[:])
	}
	putU := func(u uint32) {
		binary.LittleEndian.PutUint32(buf[:], u)
		h.Write(buf[:])
	}

	putU(uint32(len(m.Vertices)))
	for _, v := range m.Vertices {
		for _, f := range v.Position {
			putF(f)
		}
		for _, f := range v.Normal {
			putF(f)
		}
		putF(v.TexCoord[0])
		putF(v.TexCoord[1])
	}
	putU(uint32(len(m.Indices)))
	for _, idx := range m.Indices {
		putU(idx)
	}
	putU(uint32(len(m.Submeshes)))
	for _, sm := range m.Submeshes {
		putU(uint32(sm.StartIndex))
		putU(uint32(sm.IndexCount))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Merge concatenates meshes submesh by submesh: submesh i of the result holds submesh i
// of every input that has one. Used to build composite assets such as a wall with a door.
func Merge(name string, meshes ...*Mesh) (*Mesh, error) {
	slots := 0
	for _, m := range meshes {
		if m == nil {
			return nil, fmt.Errorf("%w: nil mesh in merge", ErrInvalidInstance)
		}
		slots = max(slots, m.SubmeshCount())
	}

	out := &Mesh{Name: name, Bounds: emptyBounds()}
	for slot := 0; slot < slots; slot++ {
		start := int32(len(out.Indices))
		for _, m := range meshes {
			if slot >= m.SubmeshCount() {
				continue
			}
			appendSubmesh(out, Instance{Mesh: m, Transform: identity, Submesh: slot})
		}
		out.Submeshes = append(out.Submeshes, Submesh{StartIndex: start, IndexCount: int32(len(out.Indices)) - start})
	}
	return out, nil
}
