package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/udisondev/angler/internal/game/fishing"
)

const keepnetTimeout = 5 * time.Second

// CatchStore saves landed fish.
type CatchStore interface {
	Save(ctx context.Context, c fishing.CatchRecord) (int64, error)
}

// AttemptStore records finished fights.
type AttemptStore interface {
	Record(ctx context.Context, o *fishing.Outcome) error
}

// Keepnet is a fishing.OutcomeListener that persists every outcome.
// Storage errors are logged; the fight result is never affected.
type Keepnet struct {
	catches  CatchStore
	attempts AttemptStore
	timeout  time.Duration
}

// NewKeepnet creates a Keepnet. Either store may be nil.
func NewKeepnet(catches CatchStore, attempts AttemptStore) *Keepnet {
	return &Keepnet{catches: catches, attempts: attempts, timeout: keepnetTimeout}
}

// OnOutcome implements fishing.OutcomeListener.
func (k *Keepnet) OnOutcome(o *fishing.Outcome) {
	if o == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()

	if k.attempts != nil {
		if err := k.attempts.Record(ctx, o); err != nil {
			slog.Error("recording attempt", "anglerID", o.Context.AnglerID, "error", err)
		}
	}

	if o.Catch == nil || k.catches == nil {
		return
	}
	id, err := k.catches.Save(ctx, *o.Catch)
	if err != nil {
		slog.Error("saving catch",
			"anglerID", o.Catch.AnglerID,
			"species", o.Catch.Species,
			"error", err)
		return
	}
	slog.Info("fish in the keepnet",
		"anglerID", o.Catch.AnglerID,
		"species", o.Catch.Species,
		"weightKg", o.Catch.WeightKg,
		"catchID", id)
}
