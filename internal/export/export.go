// Package export writes combined meshes as Wavefront OBJ, optionally zstd-compressed.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/Faultbox/hexdelve/internal/mesh"
	"github.com/Faultbox/hexdelve/pkg/math"
)

// CompressedExt selects zstd output in WriteFile.
const CompressedExt = ".zst"

// Object is one mesh placed in the exported scene.
type Object struct {
	Name   string
	Mesh   *mesh.Mesh
	Offset math.Vec3
}

// WriteOBJ writes objects to w. Each object becomes an "o" block whose submeshes are
// "g" groups named by groups; submeshes past the end of groups are named by index.
// Empty submeshes are omitted.
func WriteOBJ(w io.Writer, objects []Object, groups []string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "# hexdelve")
	base := 1
	for _, obj := range objects {
		if obj.Mesh == nil {
			return fmt.Errorf("object %q has no mesh", obj.Name)
		}
		writeObject(bw, obj, groups, base)
		base += len(obj.Mesh.Vertices)
	}
	return bw.Flush()
}

func writeObject(w *bufio.Writer, obj Object, groups []string, base int) {
	m := obj.Mesh
	fmt.Fprintf(w, "o %s\n", objectName(obj.Name))
	for _, v := range m.Vertices {
		p := math.FromArray(v.Position).Add(obj.Offset)
		fmt.Fprintf(w, "v %g %g %g\n", p.X, p.Y, p.Z)
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(w, "vt %g %g\n", v.TexCoord[0], v.TexCoord[1])
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(w, "vn %g %g %g\n", v.Normal[0], v.Normal[1], v.Normal[2])
	}

	for i := range m.Submeshes {
		idx := m.SubmeshIndices(i)
		if len(idx) == 0 {
			continue
		}
		fmt.Fprintf(w, "g %s\n", groupName(groups, i))
		for t := 0; t+2 < len(idx); t += 3 {
			a, b, c := base+int(idx[t]), base+int(idx[t+1]), base+int(idx[t+2])
			fmt.Fprintf(w, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		}
	}
}

// objectName keeps names on one OBJ token.
func objectName(name string) string {
	if name == "" {
		return "mesh"
	}
	return strings.Join(strings.Fields(name), "_")
}

func groupName(groups []string, i int) string {
	if i < len(groups) {
		return groups[i]
	}
	return fmt.Sprintf("submesh%d", i)
}

// WriteFile writes objects to path as OBJ, compressing with zstd when path ends in
// CompressedExt.
func WriteFile(path string, objects []Object, groups []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if !strings.HasSuffix(path, CompressedExt) {
		if err := WriteOBJ(f, objects, groups); err != nil {
			return err
		}
		return f.Close()
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := WriteOBJ(enc, objects, groups); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing zstd stream %s: %w", path, err)
	}
	return f.Close()
}
