// hexdelve builds hex-grid levels from layout fixtures and exports their meshes.
package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/hexdelve/internal/aggregate"
	"github.com/Faultbox/hexdelve/internal/area"
	"github.com/Faultbox/hexdelve/internal/config"
	"github.com/Faultbox/hexdelve/internal/export"
	"github.com/Faultbox/hexdelve/internal/layout"
	"github.com/Faultbox/hexdelve/internal/logger"
	"github.com/Faultbox/hexdelve/pkg/autotile"
	"github.com/Faultbox/hexdelve/pkg/hex"
	"github.com/Faultbox/hexdelve/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build", "b":
		cmdBuild(args)
	case "table", "t":
		cmdTable()
	case "layout":
		cmdLayout()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`hexdelve - hex-grid level builder

Usage:
  hexdelve <command> [options]

Commands:
  build [options]    Build a level and export its meshes
  table              Print the wall table for all 64 patterns
  layout             Print the built-in demo layout as YAML

Build options:
  -config <file>     Config file (default ./hexdelve.yaml or user config dir)
  -layout <file>     Layout fixture (.yaml or .yaml.zst)
  -catalog <file>    Asset catalog (.yaml or .yaml.zst)
  -out <file>        Output mesh (.obj or .obj.zst)
  -seed <n>          Seed for pickup and door draws
  -debug             Enable debug logging

Examples:
  hexdelve build -layout dungeon.yaml -out dungeon.obj.zst -seed 7
  hexdelve table`)
}

// pickupLog records pickup decisions; spawning is left to the engine.
type pickupLog struct {
	log    *zap.Logger
	wanted int
}

func (p *pickupLog) PickupDecision(areaName string, c hex.Coord, position math.Vec3, wanted bool) {
	if !wanted {
		return
	}
	p.wanted++
	p.log.Debug("pickup placed",
		zap.String("area", areaName),
		logger.Coord("coord", c),
		zap.Float32("x", position.X),
		zap.Float32("z", position.Z))
}

// triggerLog records corridor load triggers; streaming is left to the engine.
type triggerLog struct {
	log *zap.Logger
}

func (t triggerLog) RegisterLoadTrigger(a *area.Area, trigger area.LoadTrigger) {
	t.log.Debug("load trigger registered", zap.String("area", a.Name), logger.Coord("target", trigger.Target))
}

func cmdBuild(args []string) {
	if err := config.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.Named("build")
	logger.Sugar.Debugf("Config: %+v", cfg)

	catalog, err := cfg.Catalog()
	if err != nil {
		log.Fatal("failed to load catalog", zap.Error(err))
	}
	library, err := catalog.Library(autotile.Default())
	if err != nil {
		log.Fatal("failed to build asset library", zap.Error(err))
	}

	lay := layout.Default()
	if cfg.Layout.Path != "" {
		if lay, err = layout.Load(cfg.Layout.Path); err != nil {
			log.Fatal("failed to load layout", zap.Error(err))
		}
	}

	seed := cfg.Level.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	pickups := &pickupLog{log: log}

	opts := cfg.AreaOptions()
	opts.Assets = library
	opts.Rand = rand.New(rand.NewPCG(seed, seed))
	opts.Pickups = pickups
	opts.Streamer = triggerLog{log: log}

	level, err := area.NewLevel(opts)
	if err != nil {
		log.Fatal("failed to create level", zap.Error(err))
	}

	areas, err := lay.Apply(level)
	if err != nil {
		log.Warn("level built with errors", zap.Error(err))
	}

	printSummary(areas)
	fmt.Printf("\nSeed: %d  Pickups: %d\n", seed, pickups.wanted)

	objects := make([]export.Object, 0, len(areas))
	for _, a := range areas {
		objects = append(objects, export.Object{Name: a.Name, Mesh: a.Mesh(), Offset: a.Center})
	}
	if err := export.WriteFile(cfg.Export.Path, objects, aggregate.SlotNames()); err != nil {
		log.Fatal("failed to export level", zap.String("path", cfg.Export.Path), zap.Error(err))
	}
	log.Info("level exported", zap.String("path", cfg.Export.Path), zap.Int("areas", len(objects)))
}

func printSummary(areas []*area.Area) {
	fmt.Printf("%-32s %-9s %6s %6s %6s %6s %8s\n", "Area", "Kind", "Cells", "Walls", "Doors", "Links", "Tris")
	var total area.Summary
	for _, a := range areas {
		s := a.Summary()
		fmt.Printf("%-32s %-9s %6d %6d %6d %6d %8d\n", a.Name, a.Kind, s.Cells, s.Walls, s.Doors, s.LinkCells, s.Triangles)
		total.Cells += s.Cells
		total.Walls += s.Walls
		total.Doors += s.Doors
		total.LinkCells += s.LinkCells
		total.Triangles += s.Triangles
	}
	fmt.Printf("%-32s %-9s %6d %6d %6d %6d %8d\n", "Total", "", total.Cells, total.Walls, total.Doors, total.LinkCells, total.Triangles)
}

func cmdTable() {
	table := autotile.Default()
	fmt.Printf("%-4s %-8s %-8s %s\n", "Bits", "Pattern", "Shape", "Rotation")
	for b := 0; b < autotile.PatternCount; b++ {
		p := autotile.PatternFromBits(uint8(b))
		res, err := table.Resolve(p)
		if err != nil {
			fmt.Printf("%-4d %-8s %s\n", b, p, err)
			continue
		}
		fmt.Printf("%-4d %-8s %-8s %d\n", b, p, res.Shape, res.Rotation)
	}
}

func cmdLayout() {
	data, err := yaml.Marshal(layout.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}
