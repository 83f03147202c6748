package fishing

import "math"

// Fallbacks substituted for missing, zero, negative or non-finite inputs.
const (
	DefaultWeightKg    = 0.5
	DefaultCapacityKg  = 1.0
	DefaultReelBoost   = 1.0
	DefaultHookControl = 1.0
	DefaultTrait       = 1.0
	DefaultDifficulty  = 0.5
)

// GearStats is the snapshot of the player's loadout taken when the fish bites.
type GearStats struct {
	RodCapacityKg  float64
	LineCapacityKg float64
	ReelBoost      float64 // pull speed multiplier
	HookControl    float64 // >1 holds the fish better
}

// FishStats describes the hooked fish. Weight is fixed at bite time.
type FishStats struct {
	Species    string
	WeightKg   float64
	Aggression float64
	Burstiness float64
	Endurance  float64
	Agility    float64
}

// Environment holds normalized (0..1) conditions at the fishing spot.
type Environment struct {
	Current    float64
	Waves      float64
	Vegetation float64
}

// NewFishStats returns a fish of the given species and weight with neutral traits.
func NewFishStats(species string, weightKg float64) FishStats {
	return FishStats{
		Species:    species,
		WeightKg:   weightKg,
		Aggression: DefaultTrait,
		Burstiness: DefaultTrait,
		Endurance:  DefaultTrait,
		Agility:    DefaultTrait,
	}.WithDefaults()
}

// WithDefaults replaces every unusable field with its documented fallback.
func (g GearStats) WithDefaults() GearStats {
	g.RodCapacityKg = positiveOr(g.RodCapacityKg, DefaultCapacityKg)
	g.LineCapacityKg = positiveOr(g.LineCapacityKg, DefaultCapacityKg)
	g.ReelBoost = positiveOr(g.ReelBoost, DefaultReelBoost)
	g.HookControl = positiveOr(g.HookControl, DefaultHookControl)
	return g
}

// WithDefaults replaces every unusable field with its documented fallback.
func (f FishStats) WithDefaults() FishStats {
	f.WeightKg = positiveOr(f.WeightKg, DefaultWeightKg)
	f.Aggression = positiveOr(f.Aggression, DefaultTrait)
	f.Burstiness = positiveOr(f.Burstiness, DefaultTrait)
	f.Endurance = positiveOr(f.Endurance, DefaultTrait)
	f.Agility = positiveOr(f.Agility, DefaultTrait)
	return f
}

// WithDefaults clamps every factor into [0, 1]; NaN becomes 0.
func (e Environment) WithDefaults() Environment {
	e.Current = clamp01(e.Current)
	e.Waves = clamp01(e.Waves)
	e.Vegetation = clamp01(e.Vegetation)
	return e
}

func positiveOr(v, fallback float64) float64 {
	if v > 0 && !math.IsInf(v, 0) {
		return v
	}
	return fallback
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return clamp(v, 0, 1)
}
