// Package fishing implements the angling fight: a hooked fish is fought by
// alternately reeling and easing off until it is landed, escapes, snaps the
// line or pulls the hook.
//
// Derive turns static gear, fish and environment attributes into
// FightParameters once per bite. A Fight consumes those parameters tick by
// tick, moving two bounded tension accumulators (rod and line) and the fish's
// distance from the net, injecting random jerks, and checking terminal
// conditions after every tick. TerminalResult resolves the finished fight into
// an Outcome for the collaborators (HUD, quest hooks, keepnet).
package fishing

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// MaxTension is the upper bound of both accumulators; reaching it is terminal.
const MaxTension = 100.0

// ErrInvalidParameters is returned by NewFight for non-finite parameters.
var ErrInvalidParameters = errors.New("invalid fight parameters")

// Phase is the position of a fight in its lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFighting
	PhaseCaught
	PhaseEscaped
	PhaseSnapped
	PhasePulledOut
)

var phaseNames = [...]string{
	PhaseIdle:      "idle",
	PhaseFighting:  "fighting",
	PhaseCaught:    "caught",
	PhaseEscaped:   "escaped",
	PhaseSnapped:   "snapped",
	PhasePulledOut: "pulled_out",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Terminal reports whether the fight is over.
func (p Phase) Terminal() bool {
	return p >= PhaseCaught
}

// Cause explains why a fight ended.
type Cause string

const (
	CauseNone        Cause = ""
	CauseLanded      Cause = "landed"
	CauseLineBreak   Cause = "line_break"
	CauseRodOverload Cause = "rod_overload"
	CauseSlip        Cause = "slip"
	CauseTimeout     Cause = "timeout"
	CauseAbandoned   Cause = "abandoned"
	CauseAnomaly     Cause = "anomaly"
)

// TickState is what the host sees after every tick.
type TickState struct {
	Phase         Phase         `json:"phase"`
	RodTension    float64       `json:"rod_tension"`
	LineTension   float64       `json:"line_tension"`
	Distance      float64       `json:"distance"`
	LateralX      float64       `json:"lateral_x"`
	SinceLastPull time.Duration `json:"since_last_pull"`
	Elapsed       time.Duration `json:"elapsed"`
	JerkActive    bool          `json:"jerk_active"`
	Jerks         int           `json:"jerks"`
}

// FightOptions configures a Fight at construction.
type FightOptions struct {
	Seed    uint64
	Rand    Rand          // used instead of Seed when set
	HardCap time.Duration // 0 disables the cap
	Context CatchContext
}

// Fight is one catch attempt. It is not safe for concurrent use; Session
// wraps it for a host loop running on another goroutine.
type Fight struct {
	params  FightParameters
	fish    FishStats
	gear    GearStats
	ctx     CatchContext
	rng     Rand
	seed    uint64
	hardCap float64

	phase Phase
	cause Cause

	rod, line     float64
	distance      float64
	lateralPhase  float64
	lateralX      float64
	sinceLastPull float64
	elapsed       float64
	jerkLeft      float64
	jerks         int
}

// NewFight starts a fight. The fish and gear are the snapshots the
// parameters were derived from; they travel into the Outcome.
func NewFight(fish FishStats, gear GearStats, params FightParameters, opts FightOptions) (*Fight, error) {
	if !params.Validate() {
		return nil, fmt.Errorf("creating fight for %q: %w", fish.Species, ErrInvalidParameters)
	}

	maxFish := params.PullSpeed * params.FishCapRatio
	if !invariant(params.FishSpeed <= maxFish*(1+1e-9), "fish speed above cap",
		"fish", params.FishSpeed, "cap", maxFish) {
		params.FishSpeed = maxFish
	}
	minEscape := secondsToDuration(MinEscapeWindowSec)
	if !invariant(params.EscapeWindow >= minEscape, "escape window below floor",
		"escape", params.EscapeWindow) {
		params.EscapeWindow = minEscape
	}

	rng := opts.Rand
	if rng == nil {
		rng = NewRand(opts.Seed)
	}

	return &Fight{
		params:   params,
		fish:     fish.WithDefaults(),
		gear:     gear.WithDefaults(),
		ctx:      opts.Context,
		rng:      rng,
		seed:     opts.Seed,
		hardCap:  math.Max(0, opts.HardCap.Seconds()),
		phase:    PhaseFighting,
		distance: math.Max(0, params.Loop.StartDistance),
	}, nil
}

// Params returns the parameters the fight runs on.
func (f *Fight) Params() FightParameters { return f.params }

// Seed returns the seed the fight's generator was built from.
func (f *Fight) Seed() uint64 { return f.seed }

// Fish returns the fish on the line.
func (f *Fight) Fish() FishStats { return f.fish }

// Phase returns the current phase.
func (f *Fight) Phase() Phase { return f.phase }

// Cause returns why the fight ended, or CauseNone while it runs.
func (f *Fight) Cause() Cause { return f.cause }

// State returns the current snapshot without advancing the fight.
func (f *Fight) State() TickState {
	return TickState{
		Phase:         f.phase,
		RodTension:    f.rod,
		LineTension:   f.line,
		Distance:      f.distance,
		LateralX:      f.lateralX,
		SinceLastPull: secondsToDuration(f.sinceLastPull),
		Elapsed:       secondsToDuration(f.elapsed),
		JerkActive:    f.jerkLeft > 0,
		Jerks:         f.jerks,
	}
}

// Tick advances the fight by dt. pulling is the player's intent this tick.
// Once the fight is over Tick changes nothing.
func (f *Fight) Tick(dt time.Duration, pulling bool) TickState {
	if f.phase != PhaseFighting {
		return f.State()
	}

	sec := dt.Seconds()
	if !(sec > 0) || math.IsInf(sec, 0) {
		sec = 0
	}
	p := &f.params
	f.elapsed += sec
	jerking := f.jerkLeft > 0

	if pulling {
		f.rod = clampTension(f.rod + p.RodFillRate*sec)
		f.line = clampTension(f.line + p.LineFillRate*sec)
		f.sinceLastPull = 0
		if !jerking {
			f.distance -= (p.PullSpeed - p.FishSpeed*p.Loop.FleeDrag) * sec
		}
	} else {
		f.rod = clampTension(f.rod - p.DecayRate*sec)
		f.line = clampTension(f.line - p.DecayRate*sec)
		f.sinceLastPull += sec
		f.distance += p.FishSpeed * sec
	}

	// The fish takes line unchecked once the player idles past the window.
	if f.sinceLastPull > p.EscapeWindow.Seconds() {
		forced := p.Loop.ForcedTensionPerSec * sec
		f.rod = clampTension(f.rod + forced)
		f.line = clampTension(f.line + forced)
	}

	if jerking {
		f.jerkLeft = math.Max(0, f.jerkLeft-sec)
	} else if sec > 0 && f.rng.Float64() < p.Jerk.Chance*sec {
		f.startJerk()
		if f.rng.Float64() < p.SlipChance {
			f.finish(PhasePulledOut, CauseSlip)
			return f.State()
		}
	}

	f.distance = clamp(f.distance, 0, math.Max(p.Loop.MaxDistance, p.Loop.StartDistance))
	f.lateralPhase += p.LateralFactor * p.Loop.LateralFreq * sec
	f.lateralX = math.Sin(f.lateralPhase) * p.Loop.LateralAmplitude * p.LateralFactor

	f.checkTerminal()
	return f.State()
}

// Abandon ends a running fight immediately as Escaped.
func (f *Fight) Abandon() {
	if f.phase == PhaseFighting {
		f.finish(PhaseEscaped, CauseAbandoned)
	}
}

// TerminalResult returns the resolved outcome, or nil while the fight runs.
func (f *Fight) TerminalResult() *Outcome {
	return Resolve(f.State(), f.cause, f.fish, f.gear, f.ctx, f.params.Diagnostics)
}

func (f *Fight) startJerk() {
	j := f.params.Jerk
	lo, hi := j.MinDuration.Seconds(), j.MaxDuration.Seconds()
	f.jerkLeft = lo + f.rng.Float64()*(hi-lo)
	f.jerks++
	f.rod = clampTension(f.rod + j.Magnitude)
	f.line = clampTension(f.line + j.Magnitude)
}

// checkTerminal applies the fixed priority: line, rod, net, hard cap.
func (f *Fight) checkTerminal() {
	if math.IsNaN(f.rod) || math.IsNaN(f.line) || math.IsNaN(f.distance) {
		invariant(false, "non-finite fight state", "rod", f.rod, "line", f.line, "distance", f.distance)
		f.finish(PhaseEscaped, CauseAnomaly)
		return
	}

	switch {
	case f.line >= MaxTension:
		f.finish(PhaseSnapped, CauseLineBreak)
	case f.rod >= MaxTension:
		f.finish(PhasePulledOut, CauseRodOverload)
	case f.distance <= 0:
		f.finish(PhaseCaught, CauseLanded)
	case f.hardCap > 0 && f.elapsed >= f.hardCap:
		f.finish(PhaseEscaped, CauseTimeout)
	}
}

func (f *Fight) finish(phase Phase, cause Cause) {
	f.phase = phase
	f.cause = cause
	f.jerkLeft = 0
	slog.Debug("fight ended",
		"species", f.fish.Species,
		"phase", phase,
		"cause", cause,
		"elapsed", secondsToDuration(f.elapsed),
		"rod", f.rod,
		"line", f.line)
}

func clampTension(v float64) float64 {
	return clamp(v, 0, MaxTension)
}
