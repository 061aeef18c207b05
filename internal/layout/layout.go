// Package layout loads level fixtures: named hexagonal rooms joined by straight hallways.
package layout

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/Faultbox/hexdelve/internal/area"
	"github.com/Faultbox/hexdelve/internal/logger"
	"github.com/Faultbox/hexdelve/internal/yamldoc"
	"github.com/Faultbox/hexdelve/pkg/hex"
)

//go:embed layout.schema.json
var layoutSchemaSource string

var layoutSchema = yamldoc.NewSchema("layout.schema.json", layoutSchemaSource)

// Room is a disk of cells around an origin given as axial [q, r].
type Room struct {
	Name      string   `yaml:"name"`
	Origin    [2]int   `yaml:"origin"`
	Radius    int      `yaml:"radius"`
	LinkCells [][2]int `yaml:"link_cells,omitempty"`
}

// Hallway joins two rooms by name.
type Hallway struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Layout is a level fixture.
type Layout struct {
	Name     string    `yaml:"name"`
	Rooms    []Room    `yaml:"rooms"`
	Hallways []Hallway `yaml:"hallways,omitempty"`
}

// RoomPlan is a room expanded to cells.
type RoomPlan struct {
	Name      string
	Origin    hex.Coord
	Cells     []hex.Coord
	LinkCells []hex.Coord
}

// HallwayPlan is a hallway expanded to the cells between its rooms.
type HallwayPlan struct {
	From, To hex.Coord
	Cells    []hex.Coord
}

// Plan is a layout expanded to cells.
type Plan struct {
	Rooms    []RoomPlan
	Hallways []HallwayPlan
}

// Default returns the built-in demo layout.
func Default() *Layout {
	return &Layout{
		Name: "demo",
		Rooms: []Room{
			{Name: "hall", Origin: [2]int{0, 0}, Radius: 2},
			{Name: "vault", Origin: [2]int{7, -3}, Radius: 1, LinkCells: [][2]int{{8, -5}}},
			{Name: "crypt", Origin: [2]int{-3, 7}, Radius: 2},
			{Name: "cell", Origin: [2]int{-6, 0}, Radius: 0},
		},
		Hallways: []Hallway{
			{From: "hall", To: "vault"},
			{From: "hall", To: "crypt"},
			{From: "hall", To: "cell"},
		},
	}
}

// Load reads a YAML layout. Files ending in .zst are zstd-compressed.
func Load(path string) (*Layout, error) {
	data, err := yamldoc.ReadFile(path)
	if err != nil {
		return nil, err
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return l, nil
}

// Parse validates YAML layout data against the layout schema and decodes it.
func Parse(data []byte) (*Layout, error) {
	var l Layout
	if err := yamldoc.Decode(layoutSchema, data, &l); err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

func axial(c [2]int) hex.Coord { return hex.New(c[0], c[1]) }

// roomKey matches room names regardless of case, Unicode composition and surrounding space.
func roomKey(name string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}

// Validate checks references the schema cannot: unique room names and hallway ends.
func (l *Layout) Validate() error {
	names := make(map[string]bool, len(l.Rooms))
	for _, r := range l.Rooms {
		key := roomKey(r.Name)
		if key == "" {
			return errors.New("room with blank name")
		}
		if names[key] {
			return fmt.Errorf("duplicate room %q", r.Name)
		}
		if r.Radius < 0 {
			return fmt.Errorf("room %q: negative radius", r.Name)
		}
		names[key] = true
	}
	for i, h := range l.Hallways {
		from, to := roomKey(h.From), roomKey(h.To)
		if !names[from] || !names[to] {
			return fmt.Errorf("hallway %d: unknown room in %q -> %q", i, h.From, h.To)
		}
		if from == to {
			return fmt.Errorf("hallway %d: joins %q to itself", i, h.From)
		}
	}
	return nil
}

// Plan expands rooms to disks and hallways to the line between room origins, minus
// cells any room or earlier hallway already claims.
func (l *Layout) Plan() Plan {
	var p Plan
	taken := make(map[hex.Coord]bool)
	origins := make(map[string]hex.Coord, len(l.Rooms))

	for _, r := range l.Rooms {
		origin := axial(r.Origin)
		rp := RoomPlan{Name: r.Name, Origin: origin}
		for _, c := range hex.Disk(origin, r.Radius) {
			if !taken[c] {
				taken[c] = true
				rp.Cells = append(rp.Cells, c)
			}
		}
		for _, lc := range r.LinkCells {
			c := axial(lc)
			if !taken[c] {
				taken[c] = true
				rp.LinkCells = append(rp.LinkCells, c)
			}
		}
		origins[roomKey(r.Name)] = origin
		p.Rooms = append(p.Rooms, rp)
	}

	for _, h := range l.Hallways {
		hp := HallwayPlan{From: origins[roomKey(h.From)], To: origins[roomKey(h.To)]}
		for _, c := range hex.Line(hp.From, hp.To) {
			if !taken[c] {
				taken[c] = true
				hp.Cells = append(hp.Cells, c)
			}
		}
		p.Hallways = append(p.Hallways, hp)
	}
	return p
}

// Apply builds the layout into level: rooms with their link cells first, then hallways.
// A failing room or hallway is logged and the rest are still built.
func (l *Layout) Apply(level *area.Level) ([]*area.Area, error) {
	log := logger.Named("layout")
	plan := l.Plan()

	var (
		built []*area.Area
		errs  []error
	)
	note := func(a *area.Area, err error) {
		if a != nil {
			built = append(built, a)
		}
		if err != nil {
			log.Warn("area built with errors", zap.String("area", a.Name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", a.Name, err))
		}
	}

	for _, r := range plan.Rooms {
		a, err := level.AddRoom(r.Origin, r.Cells)
		if len(r.LinkCells) > 0 {
			err = errors.Join(err, level.AddLinkCells(a, r.LinkCells))
		}
		note(a, err)
	}
	for _, h := range plan.Hallways {
		if len(h.Cells) == 0 {
			log.Debug("hallway fully covered by rooms", logger.Coord("from", h.From), logger.Coord("to", h.To))
			continue
		}
		note(level.AddCorridor(h.From, h.To, h.Cells))
	}

	log.Info("layout applied", zap.String("layout", l.Name), zap.Int("areas", len(built)))
	return built, errors.Join(errs...)
}
