package assets

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/hexdelve/internal/mesh"
	"github.com/Faultbox/hexdelve/pkg/autotile"
)

// Dimensions parameterizes the procedural tile meshes. Lengths are world units.
type Dimensions struct {
	TileSize      float32 `yaml:"tile_size" json:"tile_size"`           // cell circumradius
	WallHeight    float32 `yaml:"wall_height" json:"wall_height"`       // wall and door frame height
	WallThickness float32 `yaml:"wall_thickness" json:"wall_thickness"` // inset of the visible face
	DoorWidth     float32 `yaml:"door_width" json:"door_width"`
	DoorHeight    float32 `yaml:"door_height" json:"door_height"`
}

// DefaultDimensions returns the stock tile set dimensions.
func DefaultDimensions() Dimensions {
	return Dimensions{
		TileSize:      1,
		WallHeight:    2,
		WallThickness: 0.1,
		DoorWidth:     0.8,
		DoorHeight:    1.6,
	}
}

// Apothem returns the center-to-edge distance of a cell.
func (d Dimensions) Apothem() float32 {
	return d.TileSize * float32(gomath.Sqrt(3)) / 2
}

// Validate checks that the dimensions describe buildable geometry.
func (d Dimensions) Validate() error {
	switch {
	case d.TileSize <= 0:
		return fmt.Errorf("assets: tile_size must be positive, got %v", d.TileSize)
	case d.WallHeight <= 0:
		return fmt.Errorf("assets: wall_height must be positive, got %v", d.WallHeight)
	case d.WallThickness < 0 || d.WallThickness >= d.Apothem():
		return fmt.Errorf("assets: wall_thickness must be in [0, %v), got %v", d.Apothem(), d.WallThickness)
	case d.DoorWidth <= 0 || d.DoorWidth >= 2*d.Apothem():
		return fmt.Errorf("assets: door_width must be in (0, %v), got %v", 2*d.Apothem(), d.DoorWidth)
	case d.DoorHeight <= 0 || d.DoorHeight > d.WallHeight:
		return fmt.Errorf("assets: door_height must be in (0, wall_height], got %v", d.DoorHeight)
	}
	return nil
}

// corner returns hex corner k (0 = +X, counter-clockwise seen from above towards +Z).
func corner(k int, size float32) [3]float32 {
	a := float64(k) * gomath.Pi / 3
	return [3]float32{size * float32(gomath.Cos(a)), 0, size * float32(gomath.Sin(a))}
}

// edgeEnds returns the corners bounding edge i (0 = top, clockwise).
func edgeEnds(i int, size float32) (left, right [3]float32) {
	// Edge i spans the corners at 120-60i and 60-60i degrees.
	return corner(2-i, size), corner(1-i, size)
}

// edgeNormal returns the outward normal of edge i.
func edgeNormal(i int) [3]float32 {
	a := (90 - 60*float64(i)) * gomath.Pi / 180
	return [3]float32{float32(gomath.Cos(a)), 0, float32(gomath.Sin(a))}
}

func scale3(v [3]float32, s float32) [3]float32 {
	return [3]float32{v[0] * s, v[1] * s, v[2] * s}
}

func neg3(v [3]float32) [3]float32 {
	return [3]float32{-v[0], -v[1], -v[2]}
}

func lift(v [3]float32, y float32) [3]float32 {
	return [3]float32{v[0], y, v[2]}
}

// buildFloor returns a flat hexagon fan centered on the origin.
func buildFloor(d Dimensions) *mesh.Mesh {
	b := mesh.NewBuilder("FLOOR", 1)
	up := [3]float32{0, 1, 0}
	center := mesh.Vertex{Normal: up, TexCoord: [2]float32{0.5, 0.5}}

	uv := func(p [3]float32) [2]float32 {
		return [2]float32{0.5 + p[0]/(2*d.TileSize), 0.5 + p[2]/(2*d.TileSize)}
	}
	for k := 0; k < 6; k++ {
		p0 := corner(k, d.TileSize)
		p1 := corner(k+1, d.TileSize)
		b.AddTriangle(0, center,
			mesh.Vertex{Position: p1, Normal: up, TexCoord: uv(p1)},
			mesh.Vertex{Position: p0, Normal: up, TexCoord: uv(p0)},
		)
	}
	return b.Build()
}

// buildWalls returns one wall panel per walled edge of base: the inner face in the
// visible submesh and the outer face in the backing submesh.
func buildWalls(name string, base autotile.Pattern, d Dimensions) *mesh.Mesh {
	b := mesh.NewBuilder(name, 2)
	inset := (d.Apothem() - d.WallThickness) / d.Apothem()
	h := d.WallHeight

	for i, wall := range base {
		if !wall {
			continue
		}
		left, right := edgeEnds(i, d.TileSize)
		n := edgeNormal(i)

		il, ir := scale3(left, inset), scale3(right, inset)
		in := neg3(n)
		b.AddQuad(VisibleSubmesh,
			mesh.Vertex{Position: il, Normal: in, TexCoord: [2]float32{0, 0}},
			mesh.Vertex{Position: lift(il, h), Normal: in, TexCoord: [2]float32{0, 1}},
			mesh.Vertex{Position: lift(ir, h), Normal: in, TexCoord: [2]float32{1, 1}},
			mesh.Vertex{Position: ir, Normal: in, TexCoord: [2]float32{1, 0}},
		)
		b.AddQuad(BackingSubmesh,
			mesh.Vertex{Position: right, Normal: n, TexCoord: [2]float32{0, 0}},
			mesh.Vertex{Position: lift(right, h), Normal: n, TexCoord: [2]float32{0, 1}},
			mesh.Vertex{Position: lift(left, h), Normal: n, TexCoord: [2]float32{1, 1}},
			mesh.Vertex{Position: left, Normal: n, TexCoord: [2]float32{1, 0}},
		)
	}
	return b.Build()
}

// buildDoor returns a door frame across the cell on the X=0 plane, spanning the gap
// between the top and bottom walls of WALL2_P. Both faces are visible; the backing
// submesh is empty.
func buildDoor(d Dimensions) *mesh.Mesh {
	b := mesh.NewBuilder(autotile.ShapeDoor.String(), 2)
	ap := d.Apothem() - d.WallThickness
	half := d.DoorWidth / 2
	h, dh := d.WallHeight, d.DoorHeight

	panel := func(z0, z1, y0, y1 float32) {
		for _, nx := range []float32{1, -1} {
			n := [3]float32{nx, 0, 0}
			v := func(z, y float32) mesh.Vertex {
				return mesh.Vertex{
					Position: [3]float32{0, y, z},
					Normal:   n,
					TexCoord: [2]float32{(z + ap) / (2 * ap), y / h},
				}
			}
			if nx > 0 {
				b.AddQuad(VisibleSubmesh, v(z1, y0), v(z1, y1), v(z0, y1), v(z0, y0))
			} else {
				b.AddQuad(VisibleSubmesh, v(z0, y0), v(z0, y1), v(z1, y1), v(z1, y0))
			}
		}
	}

	panel(-ap, -half, 0, h) // jamb
	panel(half, ap, 0, h)   // jamb
	if dh < h {
		panel(-half, half, dh, h) // lintel
	}
	return b.Build()
}
