// Package aggregate maintains the combined floor and wall meshes of one area.
//
// Per-cell contributions are upserted into keyed sets; Flush rebuilds only the groups
// that changed and then recombines them into one mesh with three fixed submesh slots.
package aggregate

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/hexdelve/internal/mesh"
	"github.com/Faultbox/hexdelve/pkg/hex"
	"github.com/Faultbox/hexdelve/pkg/math"
)

var identity = math.Identity()

// Slot indexes the submeshes of the combined mesh.
type Slot int

const (
	SlotFloor Slot = iota
	SlotWall
	SlotBacking

	SlotCount = 3
)

var slotNames = [SlotCount]string{"floor", "wall", "backing"}

// String returns the slot name.
func (s Slot) String() string {
	if s < 0 || s >= SlotCount {
		return fmt.Sprintf("Slot(%d)", int(s))
	}
	return slotNames[s]
}

// SlotNames returns the submesh names of the combined mesh, in slot order.
func SlotNames() []string {
	return slotNames[:]
}

// Stats counts contributions and rebuilds.
type Stats struct {
	Floors        int
	Walls         int
	Backings      int
	FloorBuilds   int
	WallBuilds    int
	CombineBuilds int
}

// Aggregator batches per-cell geometry. It is not safe for concurrent use.
type Aggregator struct {
	name string
	log  *zap.Logger

	floorOrder []hex.Coord
	floors     map[hex.Coord]mesh.Instance
	walls      map[hex.Coord]mesh.Instance
	backings   map[hex.Coord]mesh.Instance

	floorDirty bool
	wallsDirty bool

	floorMesh   *mesh.Mesh
	wallMesh    *mesh.Mesh
	backingMesh *mesh.Mesh
	combined    *mesh.Mesh

	stats Stats
}

// New returns an empty aggregator. name labels the produced meshes.
func New(name string, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Aggregator{
		name:     name,
		log:      log,
		floors:   make(map[hex.Coord]mesh.Instance),
		walls:    make(map[hex.Coord]mesh.Instance),
		backings: make(map[hex.Coord]mesh.Instance),
	}
	a.floorMesh = a.combine("Floor Mesh", nil, true)
	a.wallMesh = a.combine("Wall Mesh", nil, true)
	a.backingMesh = a.combine("Wall Mesh Void", nil, true)
	a.combined = &mesh.Mesh{Name: a.meshName("Main Mesh"), Submeshes: make([]mesh.Submesh, SlotCount)}
	return a
}

func (a *Aggregator) meshName(kind string) string {
	return fmt.Sprintf("%s %s", kind, a.name)
}

// SetFloor places the floor contribution of c. Floors are appended in placement order;
// placing c again supersedes its earlier contribution in place.
func (a *Aggregator) SetFloor(c hex.Coord, inst mesh.Instance) {
	if _, ok := a.floors[c]; !ok {
		a.floorOrder = append(a.floorOrder, c)
	}
	a.floors[c] = inst
	a.floorDirty = true
}

// RemoveFloor drops the floor contribution of c.
func (a *Aggregator) RemoveFloor(c hex.Coord) {
	if _, ok := a.floors[c]; !ok {
		return
	}
	delete(a.floors, c)
	a.floorOrder = slices.DeleteFunc(a.floorOrder, func(o hex.Coord) bool { return o == c })
	a.floorDirty = true
}

// SetWall upserts the visible and backing wall contributions of c.
func (a *Aggregator) SetWall(c hex.Coord, visible, backing mesh.Instance) {
	a.walls[c] = visible
	a.backings[c] = backing
	a.wallsDirty = true
}

// ClearWall removes both wall contributions of c. Clearing a cell without walls is a no-op.
func (a *Aggregator) ClearWall(c hex.Coord) {
	_, hasWall := a.walls[c]
	_, hasBacking := a.backings[c]
	if !hasWall && !hasBacking {
		return
	}
	delete(a.walls, c)
	delete(a.backings, c)
	a.wallsDirty = true
}

// HasWall reports whether c currently contributes wall geometry.
func (a *Aggregator) HasWall(c hex.Coord) bool {
	_, ok := a.walls[c]
	return ok
}

// Dirty reports whether a Flush would rebuild anything.
func (a *Aggregator) Dirty() bool {
	return a.floorDirty || a.wallsDirty
}

// Flush rebuilds the groups changed since the last flush and recombines the main mesh.
// It returns false when nothing was pending.
//
// Contribution errors (bad mesh or submesh references) are logged and the offending
// contributions are left out; they never abort the rebuild of the rest.
func (a *Aggregator) Flush() bool {
	if !a.Dirty() {
		return false
	}

	if a.floorDirty {
		instances := make([]mesh.Instance, 0, len(a.floorOrder))
		for _, c := range a.floorOrder {
			instances = append(instances, a.floors[c])
		}
		a.floorMesh = a.combine("Floor Mesh", instances, true)
		a.floorDirty = false
		a.stats.FloorBuilds++
	}

	if a.wallsDirty {
		a.wallMesh = a.combine("Wall Mesh", ordered(a.walls), true)
		a.backingMesh = a.combine("Wall Mesh Void", ordered(a.backings), true)
		a.wallsDirty = false
		a.stats.WallBuilds++
	}

	a.combined = a.combine("Main Mesh", []mesh.Instance{
		mesh.NewInstance(a.floorMesh, identity, 0),
		mesh.NewInstance(a.wallMesh, identity, 0),
		mesh.NewInstance(a.backingMesh, identity, 0),
	}, false)
	a.stats.CombineBuilds++

	a.log.Debug("aggregate flushed",
		zap.String("area", a.name),
		zap.Int("floors", len(a.floors)),
		zap.Int("walls", len(a.walls)),
		zap.Int("triangles", a.combined.TriangleCount()))
	return true
}

func (a *Aggregator) combine(kind string, instances []mesh.Instance, merge bool) *mesh.Mesh {
	m, err := mesh.Combine(a.meshName(kind), instances, merge)
	if err != nil {
		for _, e := range unwrapJoined(err) {
			a.log.Error("skipping contribution", zap.String("mesh", m.Name), zap.Error(e))
		}
	}
	return m
}

// Mesh returns the combined mesh with submeshes {floor, wall, backing}.
func (a *Aggregator) Mesh() *mesh.Mesh { return a.combined }

// FloorMesh returns the combined floor group.
func (a *Aggregator) FloorMesh() *mesh.Mesh { return a.floorMesh }

// WallMesh returns the combined visible-wall group.
func (a *Aggregator) WallMesh() *mesh.Mesh { return a.wallMesh }

// BackingMesh returns the combined backing-wall group.
func (a *Aggregator) BackingMesh() *mesh.Mesh { return a.backingMesh }

// Stats returns contribution and rebuild counters.
func (a *Aggregator) Stats() Stats {
	s := a.stats
	s.Floors = len(a.floors)
	s.Walls = len(a.walls)
	s.Backings = len(a.backings)
	return s
}

// ordered lists the instances of set in hex.Compare order so rebuilds are deterministic.
func ordered(set map[hex.Coord]mesh.Instance) []mesh.Instance {
	keys := slices.SortedFunc(maps.Keys(set), hex.Compare)
	out := make([]mesh.Instance, 0, len(keys))
	for _, k := range keys {
		out = append(out, set[k])
	}
	return out
}

func unwrapJoined(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
