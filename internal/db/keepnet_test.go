package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/angler/internal/db"
	"github.com/udisondev/angler/internal/game/fishing"
	"github.com/udisondev/angler/internal/testutil"
)

type fakeCatches struct {
	saved []fishing.CatchRecord
	err   error
}

func (f *fakeCatches) Save(_ context.Context, c fishing.CatchRecord) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.saved = append(f.saved, c)
	return int64(len(f.saved)), nil
}

type fakeAttempts struct {
	recorded []*fishing.Outcome
	err      error
}

func (f *fakeAttempts) Record(_ context.Context, o *fishing.Outcome) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, o)
	return nil
}

func TestKeepnet_CaughtSavesCatchAndAttempt(t *testing.T) {
	t.Parallel()

	catches, attempts := &fakeCatches{}, &fakeAttempts{}
	k := db.NewKeepnet(catches, attempts)

	k.OnOutcome(testutil.CaughtOutcome())

	require.Len(t, catches.saved, 1)
	assert.Equal(t, "carp", catches.saved[0].Species)
	assert.Equal(t, int64(42), catches.saved[0].AnglerID)
	require.Len(t, attempts.recorded, 1)
	assert.Equal(t, fishing.PhaseCaught, attempts.recorded[0].Phase)
}

func TestKeepnet_FailureRecordsAttemptOnly(t *testing.T) {
	t.Parallel()

	catches, attempts := &fakeCatches{}, &fakeAttempts{}
	k := db.NewKeepnet(catches, attempts)

	k.OnOutcome(testutil.SnappedOutcome())

	assert.Empty(t, catches.saved)
	require.Len(t, attempts.recorded, 1)
	assert.Equal(t, fishing.CauseLineBreak, attempts.recorded[0].Cause)
}

func TestKeepnet_StoreErrorsAreSwallowed(t *testing.T) {
	t.Parallel()

	catches := &fakeCatches{err: testutil.ErrSimulated}
	attempts := &fakeAttempts{err: testutil.ErrSimulated}
	k := db.NewKeepnet(catches, attempts)

	assert.NotPanics(t, func() { k.OnOutcome(testutil.CaughtOutcome()) })
	assert.Empty(t, catches.saved)
	assert.Empty(t, attempts.recorded)
}

func TestKeepnet_NilStoresAndOutcome(t *testing.T) {
	t.Parallel()

	k := db.NewKeepnet(nil, nil)
	assert.NotPanics(t, func() {
		k.OnOutcome(nil)
		k.OnOutcome(testutil.CaughtOutcome())
	})
}

func TestKeepnet_WiresIntoDispatcher(t *testing.T) {
	t.Parallel()

	catches := &fakeCatches{}
	var d fishing.Dispatcher
	d.AddOutcomeListener(db.NewKeepnet(catches, nil))

	d.OnOutcome(testutil.CaughtOutcome())
	assert.Len(t, catches.saved, 1)
}
