package fishing

import (
	"fmt"
	"slices"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Tuning is the full table of constants the deriver and the fight loop read.
// Values are copied, never shared: overrides produce a new Tuning.
type Tuning struct {
	Tension TensionTuning `yaml:"tension"`
	Speeds  SpeedTuning   `yaml:"speeds"`
	Caps    CapTuning     `yaml:"caps"`
	Escape  EscapeTuning  `yaml:"escape"`
	Jerk    JerkTuning    `yaml:"jerk"`
	Env     EnvTuning     `yaml:"env"`
	Hook    HookTuning    `yaml:"hook"`
	Slip    SlipTuning    `yaml:"slip"`
	Lateral LateralTuning `yaml:"lateral"`
	Fight   FightTuning   `yaml:"fight"`
}

// TensionTuning shapes how fast tension builds under pull.
type TensionTuning struct {
	FillTimeAt1 float64 `yaml:"fill_time_at_1"` // seconds to fill 0→100 at ratio 1
	CurveAlpha  float64 `yaml:"curve_alpha"`
	DecayPerSec float64 `yaml:"decay_per_sec"`
}

// SpeedTuning holds base speeds in px/s.
type SpeedTuning struct {
	PlayerBase           float64 `yaml:"player_base"`
	FishBase             float64 `yaml:"fish_base"`
	PlayerMin            float64 `yaml:"player_min"`
	FishMin              float64 `yaml:"fish_min"`
	HookQualityPullBonus float64 `yaml:"hook_quality_pull_bonus"`
	HeavinessFleeBonus   float64 `yaml:"heaviness_flee_bonus"`
}

// CapTuning bounds the fish speed relative to the player's pull speed.
type CapTuning struct {
	FishCapBase   float64 `yaml:"fish_cap_base"`
	FishCapByMiss float64 `yaml:"fish_cap_by_miss"`
}

// EscapeTuning builds the no-input tolerance window in seconds.
type EscapeTuning struct {
	BaseSec       float64 `yaml:"base_sec"`
	ByHookQuality float64 `yaml:"by_hook_quality"`
	ByHookControl float64 `yaml:"by_hook_control"`
	ByMeanRatio   float64 `yaml:"by_mean_ratio"`
	ByEndurance   float64 `yaml:"by_endurance"`
}

// JerkTuning describes the fish's burst events.
type JerkTuning struct {
	DurationMs       []float64 `yaml:"duration_ms"` // [min, max]
	BaseAdd          float64   `yaml:"base_add"`
	AddPerHeaviness  float64   `yaml:"add_per_heaviness"`
	MaxAdd           float64   `yaml:"max_add"`
	BaseChance       float64   `yaml:"base_chance"` // per second
	BurstChanceScale float64   `yaml:"burst_chance_scale"`
}

// EnvTuning holds signed multipliers applied per unit of environment factor.
type EnvTuning struct {
	CurrentToFish      float64 `yaml:"current_to_fish"`
	WavesToFish        float64 `yaml:"waves_to_fish"`
	VegetationToPlayer float64 `yaml:"vegetation_to_player"`
}

// HookTuning penalizes rigs set at the wrong depth.
type HookTuning struct {
	PenaltyPerRigM float64 `yaml:"penalty_per_rig_m"`
}

// SlipTuning builds the per-jerk hook-pull chance.
type SlipTuning struct {
	Base          float64 `yaml:"base"`
	ByHookControl float64 `yaml:"by_hook_control"`
	ByHookQuality float64 `yaml:"by_hook_quality"`
	ByMeanRatio   float64 `yaml:"by_mean_ratio"`
}

// LateralTuning scales the fish's side-to-side wander.
type LateralTuning struct {
	Base float64 `yaml:"base"`
}

// FightTuning holds constants of the tick loop itself.
type FightTuning struct {
	StartDistance       float64 `yaml:"start_distance"` // px from the net
	MaxDistance         float64 `yaml:"max_distance"`
	FleeDrag            float64 `yaml:"flee_drag"` // share of fish speed that opposes reeling
	ForcedTensionPerSec float64 `yaml:"forced_tension_per_sec"`
	LateralAmplitude    float64 `yaml:"lateral_amplitude"` // px
	LateralFreq         float64 `yaml:"lateral_freq"`      // rad/s
}

// DefaultTuning returns the stock table.
func DefaultTuning() Tuning {
	return Tuning{
		Tension: TensionTuning{
			FillTimeAt1: 6.0,
			CurveAlpha:  1.2,
			DecayPerSec: 18.0,
		},
		Speeds: SpeedTuning{
			PlayerBase:           220,
			FishBase:             160,
			PlayerMin:            80,
			FishMin:              40,
			HookQualityPullBonus: 0.25,
			HeavinessFleeBonus:   0.35,
		},
		Caps: CapTuning{
			FishCapBase:   0.85,
			FishCapByMiss: 0.35,
		},
		Escape: EscapeTuning{
			BaseSec:       4.0,
			ByHookQuality: 2.0,
			ByHookControl: 1.5,
			ByMeanRatio:   1.2,
			ByEndurance:   1.0,
		},
		Jerk: JerkTuning{
			DurationMs:       []float64{250, 700},
			BaseAdd:          4,
			AddPerHeaviness:  10,
			MaxAdd:           18,
			BaseChance:       0.35,
			BurstChanceScale: 0.6,
		},
		Env: EnvTuning{
			CurrentToFish:      0.30,
			WavesToFish:        0.20,
			VegetationToPlayer: -0.25,
		},
		Hook: HookTuning{
			PenaltyPerRigM: 0.15,
		},
		Slip: SlipTuning{
			Base:          0.08,
			ByHookControl: -0.05,
			ByHookQuality: -0.06,
			ByMeanRatio:   0.05,
		},
		Lateral: LateralTuning{
			Base: 1.0,
		},
		Fight: FightTuning{
			StartDistance:       450,
			MaxDistance:         900,
			FleeDrag:            0.35,
			ForcedTensionPerSec: 45,
			LateralAmplitude:    60,
			LateralFreq:         1.6,
		},
	}
}

// Merge overlays the non-zero fields of override onto a copy of base.
// Nested groups merge field by field; a non-empty range replaces the whole range.
// Use MergeYAML when an override must set a value to zero.
func Merge(base, override Tuning) (Tuning, error) {
	out := base
	if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
		return base, fmt.Errorf("merging tuning: %w", err)
	}
	out.Jerk.DurationMs = slices.Clone(out.Jerk.DurationMs)
	return out, nil
}

// MergeYAML overlays a YAML document onto a copy of base. Only keys present
// in the document change; sequences replace the whole range.
func MergeYAML(base Tuning, data []byte) (Tuning, error) {
	out := base
	if err := yaml.Unmarshal(data, &out); err != nil {
		return base, fmt.Errorf("parsing tuning override: %w", err)
	}
	out.Jerk.DurationMs = slices.Clone(out.Jerk.DurationMs)
	return out, nil
}
