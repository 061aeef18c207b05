// Package hex provides cube coordinates for a flat-top hexagonal grid.
//
// A cell is addressed by the cube triple (X, Y, Z) with X+Y+Z == 0. The axial pair
// (q, r) maps to X = q and Z = r; Y is the redundant coordinate that keeps neighbor
// math symmetric.
package hex

import (
	"cmp"
	"fmt"
	gomath "math"

	"github.com/Faultbox/hexdelve/pkg/math"
)

// Coord is a cube coordinate. The zero value is the grid origin.
type Coord struct {
	X, Y, Z int
}

// New returns the cube coordinate for axial (q, r).
func New(q, r int) Coord {
	return Coord{X: q, Y: -q - r, Z: r}
}

// Q returns the axial column.
func (c Coord) Q() int { return c.X }

// R returns the axial row.
func (c Coord) R() int { return c.Z }

// Valid reports whether the cube invariant X+Y+Z == 0 holds.
func (c Coord) Valid() bool {
	return c.X+c.Y+c.Z == 0
}

// Add returns c + other.
func (c Coord) Add(other Coord) Coord {
	return Coord{c.X + other.X, c.Y + other.Y, c.Z + other.Z}
}

// Sub returns c - other.
func (c Coord) Sub(other Coord) Coord {
	return Coord{c.X - other.X, c.Y - other.Y, c.Z - other.Z}
}

// String formats the coordinate as (x, y, z).
func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// Compare orders coordinates by X, then Z. Y is implied by the other two.
func Compare(a, b Coord) int {
	if d := cmp.Compare(a.X, b.X); d != 0 {
		return d
	}
	return cmp.Compare(a.Z, b.Z)
}

// Direction indexes the six edges of a flat-top cell, clockwise from the top.
type Direction int

const (
	Top Direction = iota
	TopRight
	BottomRight
	Bottom
	BottomLeft
	TopLeft
)

// DirectionCount is the number of edges of a cell.
const DirectionCount = 6

var directionNames = [DirectionCount]string{
	"top", "top-right", "bottom-right", "bottom", "bottom-left", "top-left",
}

// String returns the direction name.
func (d Direction) String() string {
	if d < 0 || d >= DirectionCount {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Opposite returns the direction facing back across the shared edge.
func (d Direction) Opposite() Direction {
	return (d + 3) % DirectionCount
}

// Offset returns the cube offset to the neighbor in direction d.
func (d Direction) Offset() Coord {
	return directions[((int(d)%DirectionCount)+DirectionCount)%DirectionCount]
}

// directions holds the neighbor offsets, top first, clockwise.
// Top is +Z in world space, so the top neighbor has a smaller r.
var directions = [DirectionCount]Coord{
	{X: 0, Y: 1, Z: -1}, // top
	{X: 1, Y: 0, Z: -1}, // top-right
	{X: 1, Y: -1, Z: 0}, // bottom-right
	{X: 0, Y: -1, Z: 1}, // bottom
	{X: -1, Y: 0, Z: 1}, // bottom-left
	{X: -1, Y: 1, Z: 0}, // top-left
}

// Neighbor returns the adjacent cell in direction d.
func (c Coord) Neighbor(d Direction) Coord {
	return c.Add(d.Offset())
}

// Neighbors returns the six adjacent cells in direction order.
func (c Coord) Neighbors() [DirectionCount]Coord {
	var result [DirectionCount]Coord
	for i, dir := range directions {
		result[i] = c.Add(dir)
	}
	return result
}

// Distance returns the number of steps between a and b.
func Distance(a, b Coord) int {
	d := a.Sub(b)
	return max(absInt(d.X), absInt(d.Y), absInt(d.Z))
}

// ToWorld projects the cell center into world space.
// tileSize is the circumradius of a cell; elevation becomes the Y component.
func (c Coord) ToWorld(elevation, tileSize float32) math.Vec3 {
	q := float64(c.X)
	r := float64(c.Z)
	size := float64(tileSize)
	return math.Vec3{
		X: float32(size * 1.5 * q),
		Y: elevation,
		Z: float32(-size * gomath.Sqrt(3) * (r + q/2)),
	}
}

// Line returns the cells on the straight line from a to b, both ends included.
func Line(a, b Coord) []Coord {
	n := Distance(a, b)
	if n == 0 {
		return []Coord{a}
	}

	// Nudge off exact edge midpoints so rounding is stable.
	const eps = 1e-6
	ax, ay, az := float64(a.X)+eps, float64(a.Y)+eps, float64(a.Z)-2*eps
	bx, by, bz := float64(b.X)+eps, float64(b.Y)+eps, float64(b.Z)-2*eps

	line := make([]Coord, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		line = append(line, Round(ax+(bx-ax)*t, ay+(by-ay)*t, az+(bz-az)*t))
	}
	return line
}

// Round returns the cell containing the fractional cube coordinate (x, y, z).
func Round(x, y, z float64) Coord {
	rx, ry, rz := gomath.Round(x), gomath.Round(y), gomath.Round(z)
	dx, dy, dz := gomath.Abs(rx-x), gomath.Abs(ry-y), gomath.Abs(rz-z)

	switch {
	case dx > dy && dx > dz:
		rx = -ry - rz
	case dy > dz:
		ry = -rx - rz
	default:
		rz = -rx - ry
	}
	return Coord{X: int(rx), Y: int(ry), Z: int(rz)}
}

// Disk returns every cell within radius steps of center, in Compare order.
func Disk(center Coord, radius int) []Coord {
	if radius < 0 {
		return nil
	}
	cells := make([]Coord, 0, 1+3*radius*(radius+1))
	for x := -radius; x <= radius; x++ {
		for z := max(-radius, -x-radius); z <= min(radius, -x+radius); z++ {
			cells = append(cells, center.Add(Coord{X: x, Y: -x - z, Z: z}))
		}
	}
	return cells
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
