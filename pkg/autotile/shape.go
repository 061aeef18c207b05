package autotile

import "fmt"

// Shape identifies a physical wall geometry. Table shapes are named by wall count and
// arrangement: A = adjacent run, S = one-edge skip, P = parallel (opposite) edges,
// L/R = run plus a detached wall to the left/right, X = alternating.
type Shape uint8

const (
	ShapeNone           Shape = iota // WALL0: no geometry
	ShapeWall1                       // WALL1
	ShapeWall2Adjacent               // WALL2_A
	ShapeWall2Skip                   // WALL2_S
	ShapeWall2Parallel               // WALL2_P: door candidate
	ShapeWall3Adjacent               // WALL3_A
	ShapeWall3Left                   // WALL3_L
	ShapeWall3Right                  // WALL3_R
	ShapeWall3Alternate              // WALL3_X
	ShapeWall4Adjacent               // WALL4_A
	ShapeWall4Skip                   // WALL4_S
	ShapeWall4Parallel               // WALL4_P
	ShapeWall5                       // WALL5
	ShapeWall6                       // WALL6: fully enclosed
	ShapeDoor                        // DOOR: asset-only overlay, never in a Table

	shapeCount
)

// DoorShape is the two-wall shape that may carry a door.
const DoorShape = ShapeWall2Parallel

var shapeNames = [shapeCount]string{
	ShapeNone:           "WALL0",
	ShapeWall1:          "WALL1",
	ShapeWall2Adjacent:  "WALL2_A",
	ShapeWall2Skip:      "WALL2_S",
	ShapeWall2Parallel:  "WALL2_P",
	ShapeWall3Adjacent:  "WALL3_A",
	ShapeWall3Left:      "WALL3_L",
	ShapeWall3Right:     "WALL3_R",
	ShapeWall3Alternate: "WALL3_X",
	ShapeWall4Adjacent:  "WALL4_A",
	ShapeWall4Skip:      "WALL4_S",
	ShapeWall4Parallel:  "WALL4_P",
	ShapeWall5:          "WALL5",
	ShapeWall6:          "WALL6",
	ShapeDoor:           "DOOR",
}

// String returns the catalog name of the shape.
func (s Shape) String() string {
	if s < shapeCount {
		return shapeNames[s]
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}

// ParseShape returns the shape with the given catalog name.
func ParseShape(name string) (Shape, bool) {
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), true
		}
	}
	return 0, false
}

// Shapes returns every known shape, DOOR included.
func Shapes() []Shape {
	out := make([]Shape, 0, shapeCount)
	for s := ShapeNone; s < shapeCount; s++ {
		out = append(out, s)
	}
	return out
}

// DoorCandidate reports whether a cell resolved to s may be drawn with a door.
func DoorCandidate(s Shape) bool {
	return s == DoorShape
}

// Base is a canonical pattern: the shape's geometry at rotation 0.
type Base struct {
	Shape   Shape
	Pattern Pattern
}

func mustPattern(s string) Pattern {
	p, ok := ParsePattern(s)
	if !ok {
		panic("autotile: bad canonical pattern " + s)
	}
	return p
}

// CanonicalBases returns one base per rotation class of six-edge patterns.
// The set is closed under rotation: every one of the 64 patterns is a rotation of
// exactly one base.
func CanonicalBases() []Base {
	return []Base{
		{ShapeNone, mustPattern("000000")},
		{ShapeWall1, mustPattern("100000")},
		{ShapeWall2Adjacent, mustPattern("110000")},
		{ShapeWall2Skip, mustPattern("101000")},
		{ShapeWall2Parallel, mustPattern("100100")},
		{ShapeWall3Adjacent, mustPattern("111000")},
		{ShapeWall3Left, mustPattern("110010")},
		{ShapeWall3Right, mustPattern("110100")},
		{ShapeWall3Alternate, mustPattern("101010")},
		{ShapeWall4Adjacent, mustPattern("111100")},
		{ShapeWall4Skip, mustPattern("111010")},
		{ShapeWall4Parallel, mustPattern("110110")},
		{ShapeWall5, mustPattern("111110")},
		{ShapeWall6, mustPattern("111111")},
	}
}
