package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/angler/internal/config"
	"github.com/udisondev/angler/internal/game/fishing"
)

func testEnv(t *testing.T) *env {
	t.Helper()

	cfg := config.DefaultAngler()
	cfg.Fight.TickRate = 200
	cfg.Fight.HardCap = 2 * time.Minute
	e, err := newEnv(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(e.close)
	return e
}

type outcomeRecorder struct {
	mu   sync.Mutex
	ends []*fishing.Outcome
}

func (r *outcomeRecorder) OnFightTick(int64, fishing.TickState) {}

func (r *outcomeRecorder) OnFightEnd(_ int64, o *fishing.Outcome) {
	r.mu.Lock()
	r.ends = append(r.ends, o)
	r.mu.Unlock()
}

func TestRun_Usage(t *testing.T) {
	t.Setenv("ANGLER_CONFIG", filepath.Join(t.TempDir(), "none.yaml"))

	require.ErrorIs(t, run(context.Background(), nil), errUsage)
	require.ErrorIs(t, run(context.Background(), []string{"fly"}), errUsage)
	require.ErrorIs(t, run(context.Background(), []string{"sim"}), errUsage, "species is required")
}

func TestRun_Sim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "angler.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: error\nfight:\n  tick_rate: 100\n  hard_cap: 1m\n"), 0o644))
	t.Setenv("ANGLER_CONFIG", path)

	err := run(context.Background(), []string{"sim", "-species", "roach", "-weight", "0.3", "-seed", "9"})
	require.NoError(t, err)

	err = run(context.Background(), []string{"sim", "-species", "shark"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown species")
}

func TestFightFlags_NewFight(t *testing.T) {
	t.Parallel()

	e := testEnv(t)
	ff := fightFlags{
		anglerID:    3,
		species:     "Perch",
		location:    "gravel pit",
		bait:        "worm",
		hookQuality: 0.8,
		difficulty:  0.5,
		seed:        11,
		rod:         "spinning rod",
		line:        "mono 0.18",
		reel:        "trail 2000",
		hook:        "barbed 12",
	}

	a, err := ff.newFight(e)
	require.NoError(t, err)
	b, err := ff.newFight(e)
	require.NoError(t, err)

	assert.Equal(t, "perch", a.Fish().Species)
	assert.Equal(t, a.Fish().WeightKg, b.Fish().WeightKg, "same seed rolls the same weight")
	assert.Equal(t, uint64(11), a.Seed())

	ff.rod = "broomstick"
	_, err = ff.newFight(e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rod:")
}

func TestBotLoop_RunsFights(t *testing.T) {
	t.Parallel()

	e := testEnv(t)
	var ff fightFlags
	ff.anglerID = 5
	ff.species = "roach"
	ff.hookQuality = 0.8
	ff.location = "mill pond"
	ff.bait = "maggot"
	ff.difficulty = 0.5
	ff.rod, ff.line, ff.reel, ff.hook = "carp rod", "braid 0.30", "baitrunner 4000", "wide gape 6"

	rec := &outcomeRecorder{}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, botLoop(ctx, e, ff, rec, 2, 0))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.ends, 2)
	for _, o := range rec.ends {
		assert.True(t, o.Phase.Terminal())
	}
}

func TestBotLoop_StopsOnCancel(t *testing.T) {
	t.Parallel()

	e := testEnv(t)
	ff := fightFlags{species: "catfish", weightKg: 40, location: "lowland river", bait: "live bait",
		hookQuality: 0.9, difficulty: 0.5, rod: "boat rod", line: "braid 0.30", reel: "multiplier 6500", hook: "circle 2/0"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &outcomeRecorder{}
	require.NoError(t, botLoop(ctx, e, ff, rec, 0, time.Hour))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.ends, 1)
	assert.Equal(t, fishing.CauseAbandoned, rec.ends[0].Cause)
}
