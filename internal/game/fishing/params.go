package fishing

import (
	"math"
	"time"
)

// Derived-value bounds that hold regardless of tuning.
const (
	MinEscapeWindowSec = 2.0
	minRatio           = 0.01
	maxRigPenalty      = 0.9
	minJerkMagnitude   = 2.0
	minJerkChance      = 0.05
	maxJerkChance      = 0.95
	minSlipChance      = 0.02
	maxSlipChance      = 0.45
	minHookControlDiv  = 0.25
	difficultySpread   = 0.2 // ±10% at difficulty 0 and 1
)

// FightParameters are derived once per bite and never change during the fight.
type FightParameters struct {
	RodFillRate  float64 // tension units/s while pulling
	LineFillRate float64
	DecayRate    float64 // tension units/s while slack

	PullSpeed    float64 // px/s
	FishSpeed    float64 // px/s, ≤ PullSpeed × FishCapRatio
	FishCapRatio float64

	EscapeWindow time.Duration

	Jerk       JerkParams
	SlipChance float64 // rolled once per jerk

	LateralFactor float64

	Loop FightTuning

	Diagnostics Diagnostics
}

// JerkParams describes the fish's burst events for one fight.
type JerkParams struct {
	Magnitude   float64 // tension added to both accumulators once per jerk
	MinDuration time.Duration
	MaxDuration time.Duration
	Chance      float64 // per second; the fight draws Chance×dt each tick
}

// Diagnostics are informational only; nothing in the fight reads them.
type Diagnostics struct {
	MeanRatio            float64
	RodRatio             float64
	LineRatio            float64
	EffectiveHookQuality float64
	RigPenalty           float64
	FishEnvMultiplier    float64
	PlayerEnvMultiplier  float64
}

// DeriveOption customizes a single Derive call.
type DeriveOption func(*deriveConfig)

type deriveConfig struct {
	tuning     Tuning
	env        Environment
	rigDeltaM  float64
	difficulty float64
}

// WithTuning replaces the stock tuning table.
func WithTuning(t Tuning) DeriveOption {
	return func(c *deriveConfig) { c.tuning = t }
}

// WithEnvironment sets the spot's conditions. Default is still water.
func WithEnvironment(env Environment) DeriveOption {
	return func(c *deriveConfig) { c.env = env }
}

// WithRigDelta sets the mismatch in meters between rig depth and water depth.
func WithRigDelta(meters float64) DeriveOption {
	return func(c *deriveConfig) { c.rigDeltaM = meters }
}

// WithDifficulty sets difficulty in [0, 1]. Default is DefaultDifficulty.
func WithDifficulty(d float64) DeriveOption {
	return func(c *deriveConfig) { c.difficulty = d }
}

// Derive computes the fight parameters for a hooked fish.
//
// The mean capacity ratio (fish weight over rod and line capacity, averaged)
// drives most terms:
//
//	fill(r)   = 100/fillTimeAt1 × max(r, 0.01)^alpha × (1 + 0.2×(difficulty−0.5))
//	pull      = base × reelBoost × (1 + bonus×effHQ) × vegetationMul
//	fish      = base × aggression × (1 + heav×(mean−1)) / max(0.25, hookControl) × waterMul
//	fish     ≤ pull × (capBase + (1−effHQ)×capByMiss)
//	escape    = max(2, base + q×effHQ + c×(hookControl−1) − m×(mean−1) − e×(endurance−1))
//
// Derive is pure and safe for concurrent use.
func Derive(gear GearStats, fish FishStats, hookQuality float64, opts ...DeriveOption) FightParameters {
	cfg := deriveConfig{
		tuning:     DefaultTuning(),
		difficulty: DefaultDifficulty,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	t := cfg.tuning
	gear = gear.WithDefaults()
	fish = fish.WithDefaults()
	env := cfg.env.WithDefaults()
	difficulty := clamp01(cfg.difficulty)

	rodRatio := fish.WeightKg / math.Max(0.001, gear.RodCapacityKg)
	lineRatio := fish.WeightKg / math.Max(0.001, gear.LineCapacityKg)
	meanRatio := (rodRatio + lineRatio) / 2

	rigDelta := cfg.rigDeltaM
	if math.IsNaN(rigDelta) {
		rigDelta = 0
	}
	rigPenalty := clamp(math.Abs(rigDelta)*t.Hook.PenaltyPerRigM, 0, maxRigPenalty)
	effHQ := clamp01(clamp01(hookQuality) - rigPenalty)

	diffScale := 1 + difficultySpread*(difficulty-0.5)
	fillRate := func(r float64) float64 {
		return 100 / math.Max(0.001, t.Tension.FillTimeAt1) *
			math.Pow(math.Max(r, minRatio), t.Tension.CurveAlpha) * diffScale
	}

	playerEnv := math.Max(0.05, 1+t.Env.VegetationToPlayer*env.Vegetation)
	fishEnv := math.Max(0.05, 1+t.Env.CurrentToFish*env.Current+t.Env.WavesToFish*env.Waves)

	pull := t.Speeds.PlayerBase * gear.ReelBoost * (1 + t.Speeds.HookQualityPullBonus*effHQ) * playerEnv
	pull = math.Max(pull, t.Speeds.PlayerMin)

	fishSpeed := t.Speeds.FishBase * fish.Aggression *
		(1 + t.Speeds.HeavinessFleeBonus*(meanRatio-1)) /
		math.Max(minHookControlDiv, gear.HookControl) * fishEnv
	fishSpeed = math.Max(fishSpeed, t.Speeds.FishMin)
	capRatio := t.Caps.FishCapBase + (1-effHQ)*t.Caps.FishCapByMiss
	fishSpeed = math.Min(fishSpeed, pull*capRatio)

	escape := t.Escape.BaseSec +
		t.Escape.ByHookQuality*effHQ +
		t.Escape.ByHookControl*(gear.HookControl-1) -
		t.Escape.ByMeanRatio*(meanRatio-1) -
		t.Escape.ByEndurance*(fish.Endurance-1)
	escape = math.Max(MinEscapeWindowSec, escape)

	heaviness := math.Min(t.Jerk.MaxAdd, t.Jerk.AddPerHeaviness*math.Max(0, meanRatio-0.3))
	magnitude := clamp(t.Jerk.BaseAdd+heaviness*clamp(fish.Burstiness, 0.5, 1.5), minJerkMagnitude, math.Max(minJerkMagnitude, t.Jerk.MaxAdd))
	chance := clamp(
		t.Jerk.BaseChance*(1+t.Jerk.BurstChanceScale*(fish.Burstiness-1))*(1+0.08*(meanRatio-1)),
		minJerkChance, maxJerkChance)
	minMs, maxMs := jerkDurationRange(t.Jerk.DurationMs)

	slip := clamp(
		t.Slip.Base+
			t.Slip.ByHookControl*(gear.HookControl-1)+
			t.Slip.ByHookQuality*(effHQ-0.5)*2+
			t.Slip.ByMeanRatio*(meanRatio-1),
		minSlipChance, maxSlipChance)

	return FightParameters{
		RodFillRate:  fillRate(rodRatio),
		LineFillRate: fillRate(lineRatio),
		DecayRate:    t.Tension.DecayPerSec,
		PullSpeed:    pull,
		FishSpeed:    fishSpeed,
		FishCapRatio: capRatio,
		EscapeWindow: secondsToDuration(escape),
		Jerk: JerkParams{
			Magnitude:   magnitude,
			MinDuration: time.Duration(minMs * float64(time.Millisecond)),
			MaxDuration: time.Duration(maxMs * float64(time.Millisecond)),
			Chance:      chance,
		},
		SlipChance:    slip,
		LateralFactor: t.Lateral.Base * clamp(fish.Agility, 0.6, 1.4),
		Loop:          t.Fight,
		Diagnostics: Diagnostics{
			MeanRatio:            meanRatio,
			RodRatio:             rodRatio,
			LineRatio:            lineRatio,
			EffectiveHookQuality: effHQ,
			RigPenalty:           rigPenalty,
			FishEnvMultiplier:    fishEnv,
			PlayerEnvMultiplier:  playerEnv,
		},
	}
}

// Validate reports whether every numeric field is finite.
func (p FightParameters) Validate() bool {
	for _, v := range []float64{
		p.RodFillRate, p.LineFillRate, p.DecayRate,
		p.PullSpeed, p.FishSpeed, p.FishCapRatio,
		p.Jerk.Magnitude, p.Jerk.Chance, p.SlipChance, p.LateralFactor,
		p.Loop.StartDistance, p.Loop.MaxDistance, p.Loop.FleeDrag,
		p.Loop.ForcedTensionPerSec, p.Loop.LateralAmplitude, p.Loop.LateralFreq,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return p.Jerk.MinDuration <= p.Jerk.MaxDuration && p.EscapeWindow > 0
}

func jerkDurationRange(ms []float64) (lo, hi float64) {
	if len(ms) < 2 {
		d := DefaultTuning().Jerk.DurationMs
		return d[0], d[1]
	}
	lo, hi = math.Max(0, ms[0]), math.Max(0, ms[1])
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
