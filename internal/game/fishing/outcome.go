package fishing

import "time"

// CatchContext is the bite-time information carried into the catch record.
type CatchContext struct {
	AnglerID int64
	Bait     string
	Location string
	DepthM   float64
	BittenAt time.Time
}

// CatchRecord is the landed fish as the quest and keepnet collaborators see it.
type CatchRecord struct {
	AnglerID             int64
	Species              string
	WeightKg             float64
	Bait                 string
	Location             string
	DepthM               float64
	BittenAt             time.Time
	Duration             time.Duration
	MeanRatio            float64
	EffectiveHookQuality float64
}

// Outcome is the resolved result of a finished fight. Catch is set only
// when Phase is PhaseCaught.
type Outcome struct {
	Phase       Phase
	Cause       Cause
	Fish        FishStats
	Gear        GearStats
	Context     CatchContext
	Elapsed     time.Duration
	Final       TickState
	Diagnostics Diagnostics
	Catch       *CatchRecord
}

// Caught reports whether the fish was landed.
func (o *Outcome) Caught() bool { return o.Phase == PhaseCaught }

// Resolve builds the outcome of a fight from its final state. It returns nil
// if the state is not terminal.
func Resolve(final TickState, cause Cause, fish FishStats, gear GearStats, ctx CatchContext, diag Diagnostics) *Outcome {
	if !final.Phase.Terminal() {
		return nil
	}

	o := &Outcome{
		Phase:       final.Phase,
		Cause:       cause,
		Fish:        fish,
		Gear:        gear,
		Context:     ctx,
		Elapsed:     final.Elapsed,
		Final:       final,
		Diagnostics: diag,
	}
	if final.Phase == PhaseCaught {
		o.Catch = &CatchRecord{
			AnglerID:             ctx.AnglerID,
			Species:              fish.Species,
			WeightKg:             fish.WeightKg,
			Bait:                 ctx.Bait,
			Location:             ctx.Location,
			DepthM:               ctx.DepthM,
			BittenAt:             ctx.BittenAt,
			Duration:             final.Elapsed,
			MeanRatio:            diag.MeanRatio,
			EffectiveHookQuality: diag.EffectiveHookQuality,
		}
	}
	return o
}

// OutcomeListener receives every finished fight.
type OutcomeListener interface {
	OnOutcome(o *Outcome)
}

// CatchListener receives landed fish only.
type CatchListener interface {
	OnCatch(rec CatchRecord)
}

// CatchListenerFunc adapts a function to CatchListener.
type CatchListenerFunc func(rec CatchRecord)

// OnCatch calls fn(rec).
func (fn CatchListenerFunc) OnCatch(rec CatchRecord) { fn(rec) }

// Dispatcher fans an outcome out to its listeners in registration order.
type Dispatcher struct {
	outcomes []OutcomeListener
	catches  []CatchListener
}

// AddOutcomeListener registers l for every outcome.
func (d *Dispatcher) AddOutcomeListener(l OutcomeListener) {
	d.outcomes = append(d.outcomes, l)
}

// AddCatchListener registers l for landed fish.
func (d *Dispatcher) AddCatchListener(l CatchListener) {
	d.catches = append(d.catches, l)
}

// OnOutcome dispatches o. nil outcomes are ignored.
func (d *Dispatcher) OnOutcome(o *Outcome) {
	if o == nil {
		return
	}
	for _, l := range d.outcomes {
		l.OnOutcome(o)
	}
	if o.Catch != nil {
		for _, l := range d.catches {
			l.OnCatch(*o.Catch)
		}
	}
}
