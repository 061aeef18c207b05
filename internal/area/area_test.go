package area

import (
	"errors"
	"math/rand/v2"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/hexdelve/internal/aggregate"
	"github.com/Faultbox/hexdelve/internal/assets"
	"github.com/Faultbox/hexdelve/pkg/autotile"
	"github.com/Faultbox/hexdelve/pkg/hex"
	"github.com/Faultbox/hexdelve/pkg/math"
)

type recorder struct {
	decisions map[hex.Coord]bool
	triggers  []LoadTrigger
}

func newRecorder() *recorder {
	return &recorder{decisions: make(map[hex.Coord]bool)}
}

func (r *recorder) PickupDecision(_ string, c hex.Coord, _ math.Vec3, wanted bool) {
	r.decisions[c] = wanted
}

func (r *recorder) RegisterLoadTrigger(_ *Area, t LoadTrigger) {
	r.triggers = append(r.triggers, t)
}

func testOptions(t *testing.T, occ autotile.Occupancy, disabled ...autotile.Shape) Options {
	t.Helper()
	lib, err := assets.NewLibrary(assets.DefaultDimensions(), autotile.Default(), disabled...)
	if err != nil {
		t.Fatalf("NewLibrary() error = %v", err)
	}
	opts := DefaultOptions()
	opts.Assets = lib
	opts.Occupancy = occ
	opts.Rand = rand.New(rand.NewPCG(1, 2))
	opts.Log = zap.NewNop()
	return opts
}

func buildRoom(t *testing.T, opts Options, coords []hex.Coord) (*Area, error) {
	t.Helper()
	b, err := NewBuilder(opts)
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	return b.BuildRoom(coords[0], coords)
}

func slotTriangles(a *Area, slot aggregate.Slot) int32 {
	return a.Mesh().Submeshes[slot].IndexCount / 3
}

func TestNewBuilderRequiresCollaborators(t *testing.T) {
	if _, err := NewBuilder(Options{}); err == nil {
		t.Error("NewBuilder() without assets should fail")
	}
	opts := testOptions(t, nil)
	if _, err := NewBuilder(opts); err == nil {
		t.Error("NewBuilder() without occupancy should fail")
	}
}

func TestIsolatedCellIsFullyWalled(t *testing.T) {
	c := hex.New(0, 0)
	a, err := buildRoom(t, testOptions(t, autotile.NewCellSet(c)), []hex.Coord{c})
	if err != nil {
		t.Fatalf("BuildRoom() error = %v", err)
	}

	rec, ok := a.Registry().Cell(c)
	if !ok {
		t.Fatal("cell not registered")
	}
	if rec.Pattern != autotile.Enclosed {
		t.Errorf("Pattern = %v, want %v", rec.Pattern, autotile.Enclosed)
	}
	if rec.Resolution.Shape != autotile.ShapeWall6 || !rec.HasWall {
		t.Errorf("Resolution = %v HasWall = %v, want WALL6 with wall", rec.Resolution, rec.HasWall)
	}

	if got := slotTriangles(a, aggregate.SlotFloor); got != 6 {
		t.Errorf("floor triangles = %d, want 6", got)
	}
	if got := slotTriangles(a, aggregate.SlotWall); got != 12 {
		t.Errorf("wall triangles = %d, want 12", got)
	}
	if got := slotTriangles(a, aggregate.SlotBacking); got != 12 {
		t.Errorf("backing triangles = %d, want 12", got)
	}
}

func TestSurroundedCellHasNoWalls(t *testing.T) {
	cells := hex.Disk(hex.Coord{}, 1)
	a, err := buildRoom(t, testOptions(t, autotile.NewCellSet(cells...)), cells)
	if err != nil {
		t.Fatalf("BuildRoom() error = %v", err)
	}

	center, _ := a.Registry().Cell(hex.Coord{})
	if center.Pattern != autotile.Open || center.HasWall {
		t.Errorf("center Pattern = %v HasWall = %v, want open without wall", center.Pattern, center.HasWall)
	}
	if a.Aggregator().HasWall(hex.Coord{}) {
		t.Error("aggregator holds a wall for the surrounded cell")
	}

	for _, rec := range a.Registry().Cells() {
		if rec.Coord == (hex.Coord{}) {
			continue
		}
		if rec.Pattern.Walls() != 3 || !rec.HasWall {
			t.Errorf("ring cell %v walls = %d HasWall = %v, want 3 walls", rec.Coord, rec.Pattern.Walls(), rec.HasWall)
		}
	}
}

func TestFloorCountMatchesCells(t *testing.T) {
	cells := hex.Disk(hex.New(2, -1), 2)
	a, err := buildRoom(t, testOptions(t, autotile.NewCellSet(cells...)), cells)
	if err != nil {
		t.Fatalf("BuildRoom() error = %v", err)
	}
	if a.Registry().Len() != len(cells) {
		t.Errorf("Len() = %d, want %d", a.Registry().Len(), len(cells))
	}
	if got, want := slotTriangles(a, aggregate.SlotFloor), int32(6*len(cells)); got != want {
		t.Errorf("floor triangles = %d, want %d", got, want)
	}
	if s := a.Aggregator().Stats(); s.Floors != len(cells) {
		t.Errorf("Stats().Floors = %d, want %d", s.Floors, len(cells))
	}
}

func TestRegisterCellsSkipsDuplicates(t *testing.T) {
	cells := hex.Disk(hex.Coord{}, 1)
	a, err := buildRoom(t, testOptions(t, autotile.NewCellSet(cells...)), cells)
	if err != nil {
		t.Fatalf("BuildRoom() error = %v", err)
	}
	before, _ := a.Registry().Cell(cells[1])
	if err := a.Registry().RegisterCells(cells); err != nil {
		t.Fatalf("RegisterCells() error = %v", err)
	}
	after, _ := a.Registry().Cell(cells[1])
	if a.Registry().Len() != len(cells) || before != after {
		t.Error("re-registering cells changed the registry")
	}
}

func TestLinkCellsHaveNoWallsOrPickups(t *testing.T) {
	c := hex.New(0, 0)
	sink := newRecorder()
	opts := testOptions(t, autotile.NewCellSet(c))
	opts.PickupChance = 1
	opts.Pickups = sink

	b, err := NewBuilder(opts)
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	a, err := b.BuildRoom(c, nil)
	if err != nil {
		t.Fatalf("BuildRoom() error = %v", err)
	}
	if err := a.AddLinkCells([]hex.Coord{c}); err != nil {
		t.Fatalf("AddLinkCells() error = %v", err)
	}

	rec, _ := a.Registry().Cell(c)
	if !rec.LinkOnly || rec.HasWall || rec.HasPickup {
		t.Errorf("link cell = %+v, want link-only without wall or pickup", rec)
	}
	if rec.Pattern != autotile.Open {
		t.Errorf("Pattern = %v, want open", rec.Pattern)
	}
	if wanted, ok := sink.decisions[c]; !ok || wanted {
		t.Errorf("pickup decision = %v (reported %v), want false", wanted, ok)
	}
	s := a.Summary()
	if s.LinkCells != 1 || s.Walls != 0 {
		t.Errorf("Summary() = %+v", s)
	}
}

func TestPickupDecisionsReported(t *testing.T) {
	cells := hex.Disk(hex.Coord{}, 2)
	sink := newRecorder()
	opts := testOptions(t, autotile.NewCellSet(cells...))
	opts.PickupChance = 1
	opts.Pickups = sink

	a, err := buildRoom(t, opts, cells)
	if err != nil {
		t.Fatalf("BuildRoom() error = %v", err)
	}
	if len(sink.decisions) != len(cells) {
		t.Fatalf("decisions = %d, want %d", len(sink.decisions), len(cells))
	}
	for c, wanted := range sink.decisions {
		if !wanted {
			t.Errorf("cell %v did not want a pickup with chance 1", c)
		}
	}
	if got := a.Summary().Pickups; got != len(cells) {
		t.Errorf("Summary().Pickups = %d, want %d", got, len(cells))
	}
}

func TestFlushIsIdempotent(t *testing.T) {
	cells := hex.Disk(hex.Coord{}, 2)
	a, err := buildRoom(t, testOptions(t, autotile.NewCellSet(cells...)), cells)
	if err != nil {
		t.Fatalf("BuildRoom() error = %v", err)
	}
	digest := a.Mesh().Digest()
	builds := a.Aggregator().Stats().CombineBuilds

	if a.Aggregator().Flush() {
		t.Error("Flush() after build should have nothing pending")
	}
	n, err := a.UpdateAll()
	if err != nil || n != 0 {
		t.Errorf("UpdateAll() = %d, %v, want 0, nil", n, err)
	}
	if a.Mesh().Digest() != digest {
		t.Error("mesh changed without any cell change")
	}
	if got := a.Aggregator().Stats().CombineBuilds; got != builds {
		t.Errorf("CombineBuilds = %d, want %d", got, builds)
	}
}

// doorway returns a cell whose only walls are Top and Bottom, plus its four side neighbors.
func doorway() (hex.Coord, []hex.Coord) {
	c := hex.New(0, 0)
	sides := []hex.Coord{
		c.Neighbor(hex.TopRight),
		c.Neighbor(hex.BottomRight),
		c.Neighbor(hex.BottomLeft),
		c.Neighbor(hex.TopLeft),
	}
	return c, sides
}

func TestDoorDrawSurvivesReResolution(t *testing.T) {
	c, sides := doorway()
	occ := autotile.NewCellSet(append([]hex.Coord{c}, sides...)...)

	noDoor := testOptions(t, occ)
	noDoor.DoorChance = 0
	plain, err := buildRoom(t, noDoor, []hex.Coord{c})
	if err != nil {
		t.Fatalf("BuildRoom() error = %v", err)
	}

	opts := testOptions(t, occ)
	opts.DoorChance = 1
	a, err := buildRoom(t, opts, []hex.Coord{c})
	if err != nil {
		t.Fatalf("BuildRoom() error = %v", err)
	}

	rec, _ := a.Registry().Cell(c)
	if rec.Resolution.Shape != autotile.DoorShape || !rec.DoorShown() {
		t.Fatalf("Resolution = %v DoorShown = %v, want a door", rec.Resolution, rec.DoorShown())
	}
	if slotTriangles(a, aggregate.SlotWall) <= slotTriangles(plain, aggregate.SlotWall) {
		t.Error("door composite should add wall triangles")
	}
	if got, want := slotTriangles(a, aggregate.SlotBacking), slotTriangles(plain, aggregate.SlotBacking); got != want {
		t.Errorf("backing triangles = %d, want %d", got, want)
	}

	occ.Remove(sides[0])
	if n, err := a.Update([]hex.Coord{c}); err != nil || n != 1 {
		t.Fatalf("Update() = %d, %v, want 1, nil", n, err)
	}
	rec, _ = a.Registry().Cell(c)
	if rec.DoorShown() || !rec.HasDoor {
		t.Errorf("after opening: DoorShown = %v HasDoor = %v, want hidden but kept", rec.DoorShown(), rec.HasDoor)
	}

	occ.Add(sides[0])
	if _, err := a.Update([]hex.Coord{c}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	rec, _ = a.Registry().Cell(c)
	if !rec.DoorShown() {
		t.Error("door should return once the shape is a door candidate again")
	}
}

func TestDeterministicDraws(t *testing.T) {
	cells := hex.Disk(hex.Coord{}, 3)
	build := func() *Area {
		opts := testOptions(t, autotile.NewCellSet(cells...))
		opts.PickupChance = 0.5
		opts.Rand = rand.New(rand.NewPCG(7, 7))
		a, err := buildRoom(t, opts, cells)
		if err != nil {
			t.Fatalf("BuildRoom() error = %v", err)
		}
		return a
	}

	a, b := build(), build()
	ra, rb := a.Registry().Cells(), b.Registry().Cells()
	for i := range ra {
		if ra[i] != rb[i] {
			t.Errorf("cell %v differs between runs: %+v vs %+v", ra[i].Coord, ra[i], rb[i])
		}
	}
	if a.Mesh().Digest() != b.Mesh().Digest() {
		t.Error("same seed produced different meshes")
	}
}

func TestUnknownShapeAssetKeepsFloor(t *testing.T) {
	c := hex.New(0, 0)
	core, logs := observer.New(zapcore.ErrorLevel)
	opts := testOptions(t, autotile.NewCellSet(c), autotile.ShapeWall6)
	opts.Log = zap.New(core)

	a, err := buildRoom(t, opts, []hex.Coord{c})
	if !errors.Is(err, ErrUnknownShapeAsset) {
		t.Fatalf("BuildRoom() error = %v, want ErrUnknownShapeAsset", err)
	}
	if !errors.Is(err, assets.ErrUnknownShape) {
		t.Errorf("error %v should wrap assets.ErrUnknownShape", err)
	}
	if got := logs.FilterMessage("wall asset unavailable").Len(); got != 1 {
		t.Errorf("logged %d asset errors, want 1", got)
	}

	rec, _ := a.Registry().Cell(c)
	if rec.HasWall {
		t.Error("cell without an asset should have no wall")
	}
	if got := slotTriangles(a, aggregate.SlotFloor); got != 6 {
		t.Errorf("floor triangles = %d, want 6", got)
	}
	if got := slotTriangles(a, aggregate.SlotWall); got != 0 {
		t.Errorf("wall triangles = %d, want 0", got)
	}
}

func TestUnresolvedPattern(t *testing.T) {
	var bases []autotile.Base
	for _, b := range autotile.CanonicalBases() {
		if b.Shape != autotile.ShapeWall6 {
			bases = append(bases, b)
		}
	}
	table, err := autotile.NewTable(bases)
	if !errors.Is(err, autotile.ErrIncompleteTable) {
		t.Fatalf("NewTable() error = %v, want ErrIncompleteTable", err)
	}

	c := hex.New(0, 0)
	core, logs := observer.New(zapcore.ErrorLevel)
	opts := testOptions(t, autotile.NewCellSet(c))
	opts.Table = table
	opts.Log = zap.New(core)

	a, err := buildRoom(t, opts, []hex.Coord{c})
	if !errors.Is(err, ErrUnresolvedConnectivityPattern) {
		t.Fatalf("BuildRoom() error = %v, want ErrUnresolvedConnectivityPattern", err)
	}
	if got := logs.FilterMessage("wall type not found").Len(); got != 1 {
		t.Errorf("logged %d resolution errors, want 1", got)
	}
	if a.Registry().Len() != 1 || slotTriangles(a, aggregate.SlotFloor) != 6 {
		t.Error("unresolved cell should still be registered with its floor")
	}
}

func TestWallsPlacedRelativeToCenter(t *testing.T) {
	origin := hex.New(4, -2)
	a, err := buildRoom(t, testOptions(t, autotile.NewCellSet(origin)), []hex.Coord{origin})
	if err != nil {
		t.Fatalf("BuildRoom() error = %v", err)
	}
	b := a.Mesh().Bounds
	size := assets.DefaultDimensions().TileSize
	for i := 0; i < 3; i += 2 {
		if b.Min[i] < -size-1e-4 || b.Max[i] > size+1e-4 {
			t.Errorf("bounds %v escape the origin cell", b)
		}
	}
	want := origin.ToWorld(0, size)
	if a.Center != want {
		t.Errorf("Center = %v, want %v", a.Center, want)
	}
}

func TestBuildCorridor(t *testing.T) {
	from, to := hex.New(0, 0), hex.New(4, 0)
	line := hex.Line(from, to)
	coords := line[1 : len(line)-1]

	sink := newRecorder()
	opts := testOptions(t, autotile.NewCellSet(line...))
	opts.Streamer = sink
	b, err := NewBuilder(opts)
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	a, err := b.BuildCorridor(from, to, coords)
	if err != nil {
		t.Fatalf("BuildCorridor() error = %v", err)
	}

	if a.Kind != KindCorridor {
		t.Errorf("Kind = %v, want corridor", a.Kind)
	}
	if want := "Hallway " + from.String() + "|" + to.String(); a.Name != want {
		t.Errorf("Name = %q, want %q", a.Name, want)
	}
	if a.Trigger == nil || a.Trigger.Target != to {
		t.Fatalf("Trigger = %+v, want target %v", a.Trigger, to)
	}
	if len(sink.triggers) != 1 || sink.triggers[0] != *a.Trigger {
		t.Errorf("streamer got %+v", sink.triggers)
	}
	for _, rec := range a.Registry().Cells() {
		if rec.Pattern.Walls() != 4 {
			t.Errorf("corridor cell %v walls = %d, want 4", rec.Coord, rec.Pattern.Walls())
		}
	}
}

func TestDestroyEmptiesMesh(t *testing.T) {
	cells := hex.Disk(hex.Coord{}, 1)
	a, err := buildRoom(t, testOptions(t, autotile.NewCellSet(cells...)), cells)
	if err != nil {
		t.Fatalf("BuildRoom() error = %v", err)
	}
	a.Destroy()
	if !a.Destroyed() || a.Registry().Len() != 0 {
		t.Error("Destroy() should drop every cell")
	}
	if got := a.Mesh().TriangleCount(); got != 0 {
		t.Errorf("TriangleCount() = %d, want 0", got)
	}
	if got := a.Mesh().SubmeshCount(); got != aggregate.SlotCount {
		t.Errorf("SubmeshCount() = %d, want %d", got, aggregate.SlotCount)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindRoom, "room"},
		{KindCorridor, "corridor"},
		{Kind(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
