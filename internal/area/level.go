package area

import (
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/hexdelve/internal/logger"
	"github.com/Faultbox/hexdelve/pkg/hex"
)

// ErrAreaNotFound is returned when removing an area the level does not hold.
var ErrAreaNotFound = errors.New("area: not part of level")

// Level owns every area of a map and answers occupancy queries across them. Adding or
// removing an area recomputes and flushes the walls of neighboring areas before the
// call returns. A Level is safe for concurrent use.
type Level struct {
	mu      sync.Mutex
	builder *Builder
	owner   map[hex.Coord]*Area
	areas   []*Area
	log     *zap.Logger
}

// levelOccupancy reads the owner map without locking; it is only consulted while the
// level lock is held.
type levelOccupancy struct{ l *Level }

func (o levelOccupancy) IsCellOccupied(c hex.Coord) bool {
	_, ok := o.l.owner[c]
	return ok
}

// NewLevel returns an empty level. Any Occupancy in opts is replaced by the level's own.
func NewLevel(opts Options) (*Level, error) {
	l := &Level{owner: make(map[hex.Coord]*Area)}
	opts.Occupancy = levelOccupancy{l}
	b, err := NewBuilder(opts)
	if err != nil {
		return nil, err
	}
	l.builder = b
	l.log = b.opts.Log
	return l, nil
}

// IsCellOccupied reports whether any area holds c.
func (l *Level) IsCellOccupied(c hex.Coord) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.owner[c]
	return ok
}

// AreaAt returns the area holding c.
func (l *Level) AreaAt(c hex.Coord) (*Area, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.owner[c]
	return a, ok
}

// Areas returns the level's areas in creation order.
func (l *Level) Areas() []*Area {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.areas)
}

// AddRoom builds a room from coords. Cells already owned by another area are skipped.
func (l *Level) AddRoom(origin hex.Coord, coords []hex.Coord) (*Area, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	free := l.claimable(coords)
	l.claim(free, nil)
	a, err := l.builder.BuildRoom(origin, free)
	return a, l.attach(a, free, err)
}

// AddCorridor builds a corridor between two room origins. Cells already owned by another
// area are skipped.
func (l *Level) AddCorridor(from, to hex.Coord, coords []hex.Coord) (*Area, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	free := l.claimable(coords)
	l.claim(free, nil)
	a, err := l.builder.BuildCorridor(from, to, free)
	return a, l.attach(a, free, err)
}

// AddLinkCells registers link-only marker cells into a and refreshes every area around
// them, a included.
func (l *Level) AddLinkCells(a *Area, coords []hex.Coord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !slices.Contains(l.areas, a) {
		return ErrAreaNotFound
	}
	free := l.claimable(coords)
	l.claim(free, a)
	err := a.AddLinkCells(free)
	return errors.Join(err, l.refresh(free, nil))
}

// RemoveArea destroys a and regrows the walls of the areas it bordered.
func (l *Level) RemoveArea(a *Area) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.Index(l.areas, a)
	if i < 0 {
		return ErrAreaNotFound
	}
	coords := a.Coords()
	for _, c := range coords {
		delete(l.owner, c)
	}
	l.areas = slices.Delete(l.areas, i, i+1)
	a.Destroy()

	l.log.Info("area removed", zap.String("area", a.Name), zap.Int("cells", len(coords)))
	return l.refresh(coords, a)
}

func (l *Level) claimable(coords []hex.Coord) []hex.Coord {
	out := make([]hex.Coord, 0, len(coords))
	seen := make(map[hex.Coord]bool, len(coords))
	for _, c := range coords {
		if seen[c] {
			continue
		}
		seen[c] = true
		if owner, ok := l.owner[c]; ok {
			l.log.Warn("cell already owned", logger.Coord("coord", c), zap.String("owner", owner.Name))
			continue
		}
		out = append(out, c)
	}
	return out
}

// claim marks coords as occupied before the owning area exists so the area sees its
// whole footprint while registering. a is nil until the area has been built.
func (l *Level) claim(coords []hex.Coord, a *Area) {
	for _, c := range coords {
		l.owner[c] = a
	}
}

func (l *Level) attach(a *Area, coords []hex.Coord, buildErr error) error {
	l.claim(coords, a)
	l.areas = append(l.areas, a)
	return errors.Join(buildErr, l.refresh(coords, a))
}

// refresh recomputes the cells of other areas that neighbor changed.
func (l *Level) refresh(changed []hex.Coord, exclude *Area) error {
	affected := make(map[*Area][]hex.Coord)
	seen := make(map[hex.Coord]bool)
	for _, c := range changed {
		for _, n := range c.Neighbors() {
			owner, ok := l.owner[n]
			if !ok || owner == nil || owner == exclude || seen[n] {
				continue
			}
			seen[n] = true
			affected[owner] = append(affected[owner], n)
		}
	}

	var errs []error
	for _, a := range sortedAreas(affected) {
		n, err := a.Update(affected[a])
		if err != nil {
			errs = append(errs, err)
		}
		if n > 0 {
			l.log.Debug("neighbor walls updated", zap.String("area", a.Name), zap.Int("cells", n))
		}
	}
	return errors.Join(errs...)
}
