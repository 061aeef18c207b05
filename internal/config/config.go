// Package config handles hexdelve configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/hexdelve/internal/area"
	"github.com/Faultbox/hexdelve/internal/assets"
)

// Config holds all build settings.
type Config struct {
	Level   LevelConfig   `yaml:"level"`
	Assets  AssetsConfig  `yaml:"assets"`
	Layout  LayoutConfig  `yaml:"layout"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// LevelConfig holds per-cell placement settings.
type LevelConfig struct {
	FloorHeight  float32 `yaml:"floor_height"`
	PickupChance float64 `yaml:"pickup_chance"`
	DoorChance   float64 `yaml:"door_chance"`
	Seed         uint64  `yaml:"seed"` // 0 picks a random seed
}

// AssetsConfig selects the tile set. Without a catalog path the inline dimensions are used.
type AssetsConfig struct {
	Catalog           string `yaml:"catalog"`
	assets.Dimensions `yaml:",inline"`
}

// LayoutConfig holds the layout fixture path. Empty means the built-in demo.
type LayoutConfig struct {
	Path string `yaml:"path"`
}

// ExportConfig holds the mesh output path. A .zst suffix compresses the output.
type ExportConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Level: LevelConfig{
			FloorHeight:  0,
			PickupChance: area.DefaultPickupChance,
			DoorChance:   area.DefaultDoorChance,
		},
		Assets: AssetsConfig{
			Dimensions: assets.DefaultDimensions(),
		},
		Export: ExportConfig{
			Path: "level.obj",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Level.PickupChance < 0 || c.Level.PickupChance > 1 {
		return fmt.Errorf("level.pickup_chance %v outside [0, 1]", c.Level.PickupChance)
	}
	if c.Level.DoorChance < 0 || c.Level.DoorChance > 1 {
		return fmt.Errorf("level.door_chance %v outside [0, 1]", c.Level.DoorChance)
	}
	if c.Assets.Catalog == "" {
		if err := c.Assets.Dimensions.Validate(); err != nil {
			return fmt.Errorf("assets: %w", err)
		}
	}
	return nil
}

// Catalog returns the configured tile set: the catalog file when set, otherwise the
// inline dimensions.
func (c *Config) Catalog() (*assets.Catalog, error) {
	if c.Assets.Catalog != "" {
		return assets.LoadCatalog(c.Assets.Catalog)
	}
	cat := assets.DefaultCatalog()
	cat.Name = "config"
	cat.Dimensions = c.Assets.Dimensions
	return cat, nil
}

// AreaOptions returns builder options for the level settings. Collaborators are left
// for the caller to wire.
func (c *Config) AreaOptions() area.Options {
	opts := area.DefaultOptions()
	opts.FloorHeight = c.Level.FloorHeight
	opts.PickupChance = c.Level.PickupChance
	opts.DoorChance = c.Level.DoorChance
	return opts
}
