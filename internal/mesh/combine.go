package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/hexdelve/pkg/math"
)

var identity = math.Identity()

// Combine bakes instances into a single mesh.
//
// With mergeSubmeshes every instance lands in one submesh. Otherwise each instance
// becomes its own submesh, in order, even when it contributes no triangles; this keeps
// fixed slot layouts stable.
//
// Invalid instances (nil mesh, submesh out of range) are skipped and reported in the
// returned error; the remaining instances are still combined.
func Combine(name string, instances []Instance, mergeSubmeshes bool) (*Mesh, error) {
	out := &Mesh{Name: name, Bounds: emptyBounds()}
	var errs []error

	if mergeSubmeshes {
		out.Submeshes = []Submesh{{}}
	}

	for i, inst := range instances {
		start := int32(len(out.Indices))
		if err := validate(inst); err != nil {
			errs = append(errs, fmt.Errorf("instance %d: %w", i, err))
		} else {
			appendSubmesh(out, inst)
		}
		if !mergeSubmeshes {
			out.Submeshes = append(out.Submeshes, Submesh{StartIndex: start, IndexCount: int32(len(out.Indices)) - start})
		}
	}

	if mergeSubmeshes {
		out.Submeshes[0].IndexCount = int32(len(out.Indices))
	}
	return out, errors.Join(errs...)
}

func validate(inst Instance) error {
	if inst.Mesh == nil {
		return fmt.Errorf("%w: nil mesh", ErrInvalidInstance)
	}
	if inst.Submesh < 0 || inst.Submesh >= len(inst.Mesh.Submeshes) {
		return fmt.Errorf("%w: submesh %d of %q (has %d)", ErrInvalidInstance, inst.Submesh, inst.Mesh.Name, len(inst.Mesh.Submeshes))
	}
	return nil
}

// appendSubmesh copies the vertices referenced by one submesh of inst into out, transformed.
func appendSubmesh(out *Mesh, inst Instance) {
	src := inst.Mesh
	remap := make(map[uint32]uint32)

	for _, idx := range src.SubmeshIndices(inst.Submesh) {
		dst, ok := remap[idx]
		if !ok {
			v := src.Vertices[idx]
			pos := inst.Transform.TransformPoint(v.Position)
			normal := math.FromArray(inst.Transform.TransformDirection(v.Normal)).Normalize()

			dst = uint32(len(out.Vertices))
			out.Vertices = append(out.Vertices, Vertex{
				Position: pos,
				Normal:   normal.Array(),
				TexCoord: v.TexCoord,
			})
			updateBounds(&out.Bounds, pos)
			remap[idx] = dst
		}
		out.Indices = append(out.Indices, dst)
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
