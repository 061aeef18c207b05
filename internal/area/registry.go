package area

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/hexdelve/internal/aggregate"
	"github.com/Faultbox/hexdelve/internal/assets"
	"github.com/Faultbox/hexdelve/internal/logger"
	"github.com/Faultbox/hexdelve/internal/mesh"
	"github.com/Faultbox/hexdelve/pkg/autotile"
	"github.com/Faultbox/hexdelve/pkg/hex"
	"github.com/Faultbox/hexdelve/pkg/math"
)

// ErrUnknownShapeAsset means the asset provider has no geometry for a resolved shape.
var ErrUnknownShapeAsset = errors.New("area: unknown shape asset")

// ErrUnresolvedConnectivityPattern means the wall table has no entry for a cell's pattern.
var ErrUnresolvedConnectivityPattern = autotile.ErrUnresolvedPattern

// CellRecord is the state of one registered cell.
type CellRecord struct {
	Coord      hex.Coord
	Pattern    autotile.Pattern
	Position   math.Vec3
	Resolution autotile.Resolution

	// Drawn once at registration and never re-rolled.
	HasPickup bool
	HasDoor   bool

	// LinkOnly cells are markers without walls.
	LinkOnly bool
	// HasWall is set while the cell contributes wall geometry.
	HasWall bool
}

// DoorShown reports whether the cell currently renders a door.
func (r CellRecord) DoorShown() bool {
	return r.HasWall && r.HasDoor && autotile.DoorCandidate(r.Resolution.Shape)
}

// Registry owns the cells of one area and feeds their geometry to an aggregator.
// It is not safe for concurrent use.
type Registry struct {
	area   string
	origin math.Vec3
	opts   Options
	agg    *aggregate.Aggregator
	cells  map[hex.Coord]*CellRecord
}

// NewRegistry returns an empty registry. origin is the world position geometry is
// placed relative to. opts must already carry its collaborators.
func NewRegistry(area string, origin math.Vec3, agg *aggregate.Aggregator, opts Options) *Registry {
	return &Registry{
		area:   area,
		origin: origin,
		opts:   opts,
		agg:    agg,
		cells:  make(map[hex.Coord]*CellRecord),
	}
}

// RegisterCells adds coords to the area. Each new cell draws its pickup and door flags,
// resolves its walls and places its floor. Coordinates already registered are skipped.
//
// Per-cell failures are logged and joined into the returned error; they never stop the
// remaining cells from being registered.
func (r *Registry) RegisterCells(coords []hex.Coord) error {
	return r.register(coords, false)
}

// RegisterLinkCells adds link-only marker cells: floor only, never walls or pickups.
func (r *Registry) RegisterLinkCells(coords []hex.Coord) error {
	return r.register(coords, true)
}

func (r *Registry) register(coords []hex.Coord, linkOnly bool) error {
	var errs []error
	for _, c := range coords {
		if _, ok := r.cells[c]; ok {
			continue
		}

		rec := &CellRecord{
			Coord:    c,
			LinkOnly: linkOnly,
			Position: c.ToWorld(r.opts.FloorHeight, r.opts.Assets.TileSize()),
		}
		// Both draws happen for every cell so the random stream does not depend on kind.
		pickup := r.opts.Rand.Float64() < r.opts.PickupChance
		rec.HasDoor = r.opts.Rand.Float64() < r.opts.DoorChance
		rec.HasPickup = pickup && !linkOnly
		rec.Pattern = autotile.ComputeConnectivity(c, linkOnly, r.opts.Occupancy)

		r.cells[c] = rec
		r.placeFloor(rec)
		if err := r.placeWall(rec); err != nil {
			errs = append(errs, err)
		}
		if r.opts.Pickups != nil {
			r.opts.Pickups.PickupDecision(r.area, c, rec.Position, rec.HasPickup)
		}
	}
	return errors.Join(errs...)
}

// RecomputeBoundary re-derives the pattern of each given cell and regenerates the walls
// of those whose pattern changed. Unregistered coordinates are ignored. It returns the
// number of cells whose walls were regenerated.
func (r *Registry) RecomputeBoundary(coords []hex.Coord) (int, error) {
	type change struct {
		rec     *CellRecord
		pattern autotile.Pattern
	}

	// Collect first, then apply.
	var changes []change
	seen := make(map[hex.Coord]bool, len(coords))
	for _, c := range coords {
		rec, ok := r.cells[c]
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		p := autotile.ComputeConnectivity(c, rec.LinkOnly, r.opts.Occupancy)
		if p != rec.Pattern {
			changes = append(changes, change{rec: rec, pattern: p})
		}
	}

	var errs []error
	for _, ch := range changes {
		ch.rec.Pattern = ch.pattern
		if err := r.placeWall(ch.rec); err != nil {
			errs = append(errs, err)
		}
	}
	return len(changes), errors.Join(errs...)
}

// RecomputeAll runs RecomputeBoundary over every registered cell.
func (r *Registry) RecomputeAll() (int, error) {
	return r.RecomputeBoundary(r.Coords())
}

// Remove drops cells and their geometry.
func (r *Registry) Remove(coords []hex.Coord) {
	for _, c := range coords {
		if _, ok := r.cells[c]; !ok {
			continue
		}
		delete(r.cells, c)
		r.agg.RemoveFloor(c)
		r.agg.ClearWall(c)
	}
}

// Cell returns a copy of the record at c.
func (r *Registry) Cell(c hex.Coord) (CellRecord, bool) {
	rec, ok := r.cells[c]
	if !ok {
		return CellRecord{}, false
	}
	return *rec, true
}

// Contains reports whether c is registered.
func (r *Registry) Contains(c hex.Coord) bool {
	_, ok := r.cells[c]
	return ok
}

// Len returns the number of registered cells.
func (r *Registry) Len() int { return len(r.cells) }

// Coords returns the registered coordinates in hex.Compare order.
func (r *Registry) Coords() []hex.Coord {
	out := make([]hex.Coord, 0, len(r.cells))
	for c := range r.cells {
		out = append(out, c)
	}
	slices.SortFunc(out, hex.Compare)
	return out
}

// Cells returns copies of all records in hex.Compare order.
func (r *Registry) Cells() []CellRecord {
	coords := r.Coords()
	out := make([]CellRecord, 0, len(coords))
	for _, c := range coords {
		out = append(out, *r.cells[c])
	}
	return out
}

func (r *Registry) local(rec *CellRecord) math.Vec3 {
	return rec.Position.Sub(r.origin)
}

func (r *Registry) placeFloor(rec *CellRecord) {
	transform := math.TRS(r.local(rec), 0)
	r.agg.SetFloor(rec.Coord, mesh.NewInstance(r.opts.Assets.FloorMesh(), transform, 0))
}

// placeWall resolves the cell's pattern and upserts or clears its wall contributions.
// On any failure the cell falls back to having no wall.
func (r *Registry) placeWall(rec *CellRecord) error {
	res, err := r.opts.Table.Resolve(rec.Pattern)
	if err != nil {
		r.opts.Log.Error("wall type not found",
			zap.String("area", r.area),
			logger.Coord("coord", rec.Coord),
			zap.Stringer("pattern", rec.Pattern),
			zap.Error(err))
		r.clearWall(rec, autotile.Resolution{})
		return fmt.Errorf("cell %v: %w", rec.Coord, err)
	}

	if res.Shape == autotile.ShapeNone {
		r.clearWall(rec, res)
		return nil
	}

	var (
		src           *mesh.Mesh
		visible, back int
	)
	if autotile.DoorCandidate(res.Shape) && rec.HasDoor {
		src, err = r.opts.Assets.CombinedMesh(res.Shape, autotile.ShapeDoor)
		visible, back = assets.VisibleSubmesh, assets.BackingSubmesh
	} else {
		src, err = r.opts.Assets.Mesh(res.Shape)
		if err == nil {
			visible, back, err = r.opts.Assets.SubmeshIndices(res.Shape)
		}
	}
	if err != nil {
		r.opts.Log.Error("wall asset unavailable",
			zap.String("area", r.area),
			logger.Coord("coord", rec.Coord),
			zap.Stringer("shape", res.Shape),
			zap.Error(err))
		r.clearWall(rec, res)
		return fmt.Errorf("%w: cell %v shape %s: %w", ErrUnknownShapeAsset, rec.Coord, res.Shape, err)
	}

	transform := math.TRS(r.local(rec), res.Angle())
	r.agg.SetWall(rec.Coord,
		mesh.NewInstance(src, transform, visible),
		mesh.NewInstance(src, transform, back))
	rec.Resolution = res
	rec.HasWall = true
	return nil
}

func (r *Registry) clearWall(rec *CellRecord, res autotile.Resolution) {
	r.agg.ClearWall(rec.Coord)
	rec.Resolution = res
	rec.HasWall = false
}
