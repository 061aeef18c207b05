package area

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/hexdelve/internal/aggregate"
	"github.com/Faultbox/hexdelve/pkg/hex"
	"github.com/Faultbox/hexdelve/pkg/math"
)

// Builder creates areas from coordinate sets. It is not safe for concurrent use.
type Builder struct {
	opts   Options
	nextID int
}

// NewBuilder validates opts and fills defaults for the table, random source and logger.
func NewBuilder(opts Options) (*Builder, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Builder{opts: opts, nextID: 1}, nil
}

// BuildRoom creates a room named after its origin cell.
//
// The area is returned even when some cells failed; the error joins the per-cell
// failures and those cells keep their floor without walls.
func (b *Builder) BuildRoom(origin hex.Coord, coords []hex.Coord) (*Area, error) {
	center := origin.ToWorld(b.opts.FloorHeight, b.opts.Assets.TileSize())
	return b.build(KindRoom, fmt.Sprintf("Room %v", origin), origin, center, coords)
}

// BuildCorridor creates a corridor between two room origins and registers its load
// trigger at the destination.
func (b *Builder) BuildCorridor(from, to hex.Coord, coords []hex.Coord) (*Area, error) {
	size := b.opts.Assets.TileSize()
	start := from.ToWorld(b.opts.FloorHeight, size)
	end := to.ToWorld(b.opts.FloorHeight, size)

	a, err := b.build(KindCorridor, fmt.Sprintf("Hallway %v|%v", from, to), from, start.Lerp(end, 0.5), coords)
	a.Trigger = &LoadTrigger{Target: to, Position: end}
	if b.opts.Streamer != nil {
		b.opts.Streamer.RegisterLoadTrigger(a, *a.Trigger)
	}
	return a, err
}

func (b *Builder) build(kind Kind, name string, origin hex.Coord, center math.Vec3, coords []hex.Coord) (*Area, error) {
	log := b.opts.Log.With(zap.String("area", name))
	agg := aggregate.New(name, log)

	a := &Area{
		ID:       b.nextID,
		Name:     name,
		Kind:     kind,
		Origin:   origin,
		Center:   center,
		registry: NewRegistry(name, center, agg, b.opts),
		agg:      agg,
	}
	b.nextID++

	err := a.registry.RegisterCells(coords)
	a.agg.Flush()

	log.Info("area built",
		zap.Stringer("kind", kind),
		zap.Int("cells", a.registry.Len()),
		zap.Int("triangles", a.agg.Mesh().TriangleCount()))
	return a, err
}
