package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/angler/internal/db"
	"github.com/udisondev/angler/internal/game/fishing"
	"github.com/udisondev/angler/internal/testutil"
)

func TestRepositories(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	catches := db.NewCatchRepository(pool)
	attempts := db.NewAttemptRepository(pool)

	t.Run("save and list", func(t *testing.T) {
		testutil.TruncateKeepnet(t, pool)
		ctx := testutil.ContextWithTimeout(t, 10*time.Second)

		rec := *testutil.CaughtOutcome().Catch
		id, err := catches.Save(ctx, rec)
		require.NoError(t, err)
		assert.Positive(t, id)

		rows, err := catches.ListByAngler(ctx, rec.AnglerID, 10)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, id, rows[0].ID)
		assert.Equal(t, rec.Species, rows[0].Record.Species)
		assert.InDelta(t, rec.WeightKg, rows[0].Record.WeightKg, 1e-9)
		assert.Equal(t, rec.Duration, rows[0].Record.Duration)
		assert.True(t, rec.BittenAt.Equal(rows[0].Record.BittenAt))
		assert.False(t, rows[0].LandedAt.IsZero())

		other, err := catches.ListByAngler(ctx, rec.AnglerID+1, 10)
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("personal best", func(t *testing.T) {
		testutil.TruncateKeepnet(t, pool)
		ctx := testutil.ContextWithTimeout(t, 10*time.Second)

		best, err := catches.PersonalBest(ctx, 42, "carp")
		require.NoError(t, err)
		assert.Nil(t, best)

		for _, w := range []float64{2.4, 7.9, 5.1} {
			rec := *testutil.CaughtOutcome().Catch
			rec.WeightKg = w
			_, err := catches.Save(ctx, rec)
			require.NoError(t, err)
		}

		best, err = catches.PersonalBest(ctx, 42, "carp")
		require.NoError(t, err)
		require.NotNil(t, best)
		assert.InDelta(t, 7.9, best.Record.WeightKg, 1e-9)

		best, err = catches.PersonalBest(ctx, 42, "pike")
		require.NoError(t, err)
		assert.Nil(t, best)
	})

	t.Run("attempt counts", func(t *testing.T) {
		testutil.TruncateKeepnet(t, pool)
		ctx := testutil.ContextWithTimeout(t, 10*time.Second)

		require.NoError(t, attempts.Record(ctx, testutil.CaughtOutcome()))
		require.NoError(t, attempts.Record(ctx, testutil.SnappedOutcome()))
		require.NoError(t, attempts.Record(ctx, testutil.SnappedOutcome()))

		counts, err := attempts.CountByPhase(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{
			fishing.PhaseCaught.String():  1,
			fishing.PhaseSnapped.String(): 2,
		}, counts)
	})

	t.Run("keepnet end to end", func(t *testing.T) {
		testutil.TruncateKeepnet(t, pool)
		ctx := testutil.ContextWithTimeout(t, 10*time.Second)

		db.NewKeepnet(catches, attempts).OnOutcome(testutil.CaughtOutcome())

		rows, err := catches.ListByAngler(ctx, 42, 0)
		require.NoError(t, err)
		assert.Len(t, rows, 1)

		counts, err := attempts.CountByPhase(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, 1, counts["caught"])
	})
}
