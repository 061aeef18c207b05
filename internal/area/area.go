package area

import (
	"slices"

	"github.com/Faultbox/hexdelve/internal/aggregate"
	"github.com/Faultbox/hexdelve/internal/mesh"
	"github.com/Faultbox/hexdelve/pkg/hex"
	"github.com/Faultbox/hexdelve/pkg/math"
)

// Kind distinguishes rooms from corridors.
type Kind uint8

const (
	KindRoom Kind = iota
	KindCorridor
)

func (k Kind) String() string {
	switch k {
	case KindRoom:
		return "room"
	case KindCorridor:
		return "corridor"
	default:
		return "unknown"
	}
}

// LoadTrigger marks where a corridor should cause its destination to be streamed in.
type LoadTrigger struct {
	Target   hex.Coord
	Position math.Vec3
}

// Summary counts what an area currently renders.
type Summary struct {
	Cells     int
	LinkCells int
	Walls     int
	Doors     int
	Pickups   int
	Triangles int
}

// Area is one room or corridor: its cells and the combined mesh they produce.
// The mesh is placed at Center; geometry inside it is relative to Center.
type Area struct {
	ID     int
	Name   string
	Kind   Kind
	Origin hex.Coord
	Center math.Vec3

	// Trigger is set on corridors only.
	Trigger *LoadTrigger

	registry  *Registry
	agg       *aggregate.Aggregator
	destroyed bool
}

// Mesh returns the combined mesh with submeshes floor, wall and backing.
func (a *Area) Mesh() *mesh.Mesh { return a.agg.Mesh() }

// Registry returns the area's cell registry.
func (a *Area) Registry() *Registry { return a.registry }

// Aggregator returns the area's mesh aggregator.
func (a *Area) Aggregator() *aggregate.Aggregator { return a.agg }

// Contains reports whether c belongs to the area.
func (a *Area) Contains(c hex.Coord) bool { return a.registry.Contains(c) }

// Coords returns the area's cells in hex.Compare order.
func (a *Area) Coords() []hex.Coord { return a.registry.Coords() }

// Destroyed reports whether Destroy has run.
func (a *Area) Destroyed() bool { return a.destroyed }

// Update recomputes the walls of the given cells after their surroundings changed and
// flushes the mesh. It returns how many cells changed.
func (a *Area) Update(coords []hex.Coord) (int, error) {
	n, err := a.registry.RecomputeBoundary(coords)
	a.agg.Flush()
	return n, err
}

// UpdateAll recomputes every cell's walls and flushes the mesh.
func (a *Area) UpdateAll() (int, error) {
	n, err := a.registry.RecomputeAll()
	a.agg.Flush()
	return n, err
}

// AddLinkCells registers link-only marker cells and flushes the mesh.
func (a *Area) AddLinkCells(coords []hex.Coord) error {
	err := a.registry.RegisterLinkCells(coords)
	a.agg.Flush()
	return err
}

// Destroy drops every cell and leaves the area with an empty mesh.
func (a *Area) Destroy() {
	if a.destroyed {
		return
	}
	a.registry.Remove(a.registry.Coords())
	a.agg.Flush()
	a.destroyed = true
}

// Summary returns current counts.
func (a *Area) Summary() Summary {
	s := Summary{Triangles: a.agg.Mesh().TriangleCount()}
	for _, rec := range a.registry.Cells() {
		s.Cells++
		if rec.LinkOnly {
			s.LinkCells++
		}
		if rec.HasWall {
			s.Walls++
		}
		if rec.DoorShown() {
			s.Doors++
		}
		if rec.HasPickup {
			s.Pickups++
		}
	}
	return s
}

func sortedAreas(set map[*Area][]hex.Coord) []*Area {
	out := make([]*Area, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	slices.SortFunc(out, func(x, y *Area) int { return x.ID - y.ID })
	return out
}
