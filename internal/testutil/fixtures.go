package testutil

import (
	"time"

	"github.com/udisondev/angler/internal/game/fishing"
)

// Fixtures содержит типовые снасти и рыбу для тестов вне пакета fishing.
var Fixtures = struct {
	// Фидер с монолеской 5 кг против карпа на 2.4 кг
	Gear fishing.GearStats
	Fish fishing.FishStats

	// Контекст поклёвки
	Context fishing.CatchContext
}{
	Gear: fishing.GearStats{
		RodCapacityKg:  5,
		LineCapacityKg: 5,
		ReelBoost:      1,
		HookControl:    1,
	},
	Fish: fishing.FishStats{
		Species:    "carp",
		WeightKg:   2.4,
		Aggression: 1,
		Burstiness: 1,
		Endurance:  1,
		Agility:    1,
	},
	Context: fishing.CatchContext{
		AnglerID: 42,
		Bait:     "boilie",
		Location: "gravel pit",
		DepthM:   6,
		BittenAt: time.Date(2026, 6, 1, 5, 30, 0, 0, time.UTC),
	},
}

// CaughtOutcome возвращает исход с пойманной рыбой из Fixtures.
func CaughtOutcome() *fishing.Outcome {
	final := fishing.TickState{Phase: fishing.PhaseCaught, Elapsed: 2300 * time.Millisecond}
	diag := fishing.Diagnostics{MeanRatio: 0.48, EffectiveHookQuality: 0.7}
	return fishing.Resolve(final, fishing.CauseLanded, Fixtures.Fish, Fixtures.Gear, Fixtures.Context, diag)
}

// SnappedOutcome возвращает исход с оборванной леской.
func SnappedOutcome() *fishing.Outcome {
	final := fishing.TickState{Phase: fishing.PhaseSnapped, LineTension: fishing.MaxTension, Elapsed: time.Second}
	return fishing.Resolve(final, fishing.CauseLineBreak, Fixtures.Fish, Fixtures.Gear, Fixtures.Context, fishing.Diagnostics{})
}
