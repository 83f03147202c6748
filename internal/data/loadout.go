package data

import (
	"fmt"
	"math"

	"github.com/udisondev/angler/internal/game/fishing"
)

// Loadout names the tackle an angler fishes with.
type Loadout struct {
	Rod  string `yaml:"rod"`
	Line string `yaml:"line"`
	Reel string `yaml:"reel"`
	Hook string `yaml:"hook"`
}

// Gear resolves a loadout into the snapshot the fight derives from.
func (c *Catalog) Gear(l Loadout) (fishing.GearStats, error) {
	rod, err := c.Rod(l.Rod)
	if err != nil {
		return fishing.GearStats{}, fmt.Errorf("rod: %w", err)
	}
	line, err := c.Line(l.Line)
	if err != nil {
		return fishing.GearStats{}, fmt.Errorf("line: %w", err)
	}
	reel, err := c.Reel(l.Reel)
	if err != nil {
		return fishing.GearStats{}, fmt.Errorf("reel: %w", err)
	}
	hook, err := c.Hook(l.Hook)
	if err != nil {
		return fishing.GearStats{}, fmt.Errorf("hook: %w", err)
	}
	return fishing.GearStats{
		RodCapacityKg:  rod.CapacityKg,
		LineCapacityKg: line.CapacityKg,
		ReelBoost:      reel.PullBoost,
		HookControl:    hook.Control,
	}.WithDefaults(), nil
}

// Stats returns the fish at the given weight, clamped into the species' range.
func (s SpeciesTemplate) Stats(weightKg float64) fishing.FishStats {
	return fishing.FishStats{
		Species:    s.Name,
		WeightKg:   math.Min(math.Max(weightKg, s.MinWeightKg), s.MaxWeightKg),
		Aggression: s.Aggression,
		Burstiness: s.Burstiness,
		Endurance:  s.Endurance,
		Agility:    s.Agility,
	}.WithDefaults()
}

// RollWeight draws a weight uniformly from the species' range.
func (s SpeciesTemplate) RollWeight(r fishing.Rand) float64 {
	return s.MinWeightKg + r.Float64()*(s.MaxWeightKg-s.MinWeightKg)
}

// Environment returns the spot's conditions.
func (l LocationTemplate) Environment() fishing.Environment {
	return fishing.Environment{
		Current:    l.Current,
		Waves:      l.Waves,
		Vegetation: l.Vegetation,
	}.WithDefaults()
}

// RigDelta is the mismatch between the rig depth and the spot's water depth.
func (l LocationTemplate) RigDelta(rigDepthM float64) float64 {
	return math.Abs(rigDepthM - l.DepthM)
}
