// Package area turns sets of hex cells into rooms and corridors with combined floor and
// wall meshes, and keeps neighboring areas' walls consistent as areas come and go.
package area

import (
	"errors"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/hexdelve/internal/assets"
	"github.com/Faultbox/hexdelve/internal/logger"
	"github.com/Faultbox/hexdelve/pkg/autotile"
	"github.com/Faultbox/hexdelve/pkg/hex"
	"github.com/Faultbox/hexdelve/pkg/math"
)

// Default draw chances.
const (
	DefaultPickupChance = 0.05
	DefaultDoorChance   = 0.5
)

// Rand is the source of the one-shot per-cell draws. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// PickupSink receives, for every registered cell, whether it wants a pickup.
// Creating the pickup object is up to the sink.
type PickupSink interface {
	PickupDecision(area string, c hex.Coord, position math.Vec3, wanted bool)
}

// Streamer receives the load trigger of each corridor.
type Streamer interface {
	RegisterLoadTrigger(a *Area, trigger LoadTrigger)
}

// Options wires the collaborators of a Builder.
type Options struct {
	Table     *autotile.Table
	Assets    assets.Provider
	Occupancy autotile.Occupancy
	Rand      Rand
	Pickups   PickupSink
	Streamer  Streamer
	Log       *zap.Logger

	FloorHeight  float32
	PickupChance float64
	DoorChance   float64
}

// DefaultOptions returns options with the default draw chances. Assets and Occupancy
// must still be set.
func DefaultOptions() Options {
	return Options{
		PickupChance: DefaultPickupChance,
		DoorChance:   DefaultDoorChance,
	}
}

// withDefaults fills unset collaborators.
func (o Options) withDefaults() (Options, error) {
	if o.Assets == nil {
		return o, errors.New("area: options need an asset provider")
	}
	if o.Occupancy == nil {
		return o, errors.New("area: options need an occupancy source")
	}
	if o.Table == nil {
		o.Table = autotile.Default()
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.Log == nil {
		o.Log = logger.Named("area")
	}
	return o, nil
}
