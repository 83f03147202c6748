package fishing

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockListener captures session events for test assertions.
type mockListener struct {
	mu      sync.Mutex
	ticks   []TickState
	outcome *Outcome
	ends    int
	endCh   chan struct{}
}

func newMockListener() *mockListener {
	return &mockListener{endCh: make(chan struct{})}
}

func (m *mockListener) OnFightTick(anglerID int64, state TickState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticks = append(m.ticks, state)
}

func (m *mockListener) OnFightEnd(anglerID int64, outcome *Outcome) {
	m.mu.Lock()
	m.outcome = outcome
	m.ends++
	m.mu.Unlock()
	close(m.endCh)
}

func (m *mockListener) waitEnd(t *testing.T, timeout time.Duration) *Outcome {
	t.Helper()
	select {
	case <-m.endCh:
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.outcome
	case <-time.After(timeout):
		t.Fatal("fight did not end within timeout")
		return nil
	}
}

func (m *mockListener) tickCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ticks)
}

func newTestSession(t *testing.T, fish FishStats, tickRate int, listener SessionListener, opts FightOptions) *Session {
	t.Helper()
	f := newTestFight(t, balancedGear(), fish, opts)
	return NewSession(7, f, tickRate, listener)
}

func TestSession_NewSession(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, NewFishStats("roach", 0.3), 0, nil, FightOptions{})
	assert.Equal(t, int64(7), s.AnglerID())
	assert.Equal(t, 50*time.Millisecond, s.Interval())
	assert.False(t, s.Pulling())
	assert.Nil(t, s.Outcome())

	s.SetPulling(true)
	assert.True(t, s.Pulling())
}

func TestSession_LandsWhilePulling(t *testing.T) {
	t.Parallel()

	listener := newMockListener()
	s := newTestSession(t, NewFishStats("bleak", 0.1), 200, listener, FightOptions{Rand: noJerks})
	s.SetPulling(true)
	s.Start()

	out := listener.waitEnd(t, 5*time.Second)
	require.NotNil(t, out)
	assert.Equal(t, PhaseCaught, out.Phase)
	require.NotNil(t, out.Catch)
	assert.Equal(t, "bleak", out.Catch.Species)
	assert.Greater(t, listener.tickCount(), 0)

	<-s.Done()
	assert.Equal(t, out, s.Outcome())
}

func TestSession_StopAbandons(t *testing.T) {
	t.Parallel()

	listener := newMockListener()
	s := newTestSession(t, NewFishStats("carp", 1.0), 100, listener, FightOptions{Rand: noJerks})
	s.Start()

	time.Sleep(50 * time.Millisecond)
	s.Stop()

	out := listener.waitEnd(t, 2*time.Second)
	require.NotNil(t, out)
	assert.Equal(t, PhaseEscaped, out.Phase)
	assert.Equal(t, CauseAbandoned, out.Cause)

	// A second Stop is a no-op and does not deliver another end event.
	s.Stop()
	listener.mu.Lock()
	assert.Equal(t, 1, listener.ends)
	listener.mu.Unlock()
}

func TestSession_StepAfterEnd(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, NewFishStats("pike", 2.0), 20, nil, FightOptions{Rand: stubRand{v: 0}})

	state, err := s.Step()
	require.NoError(t, err)
	assert.Equal(t, PhasePulledOut, state.Phase)

	_, err = s.Step()
	assert.ErrorIs(t, err, ErrSessionDone)

	select {
	case <-s.Done():
	default:
		t.Fatal("Done not closed after terminal step")
	}
}

func TestSession_RunWithAutopilot(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, NewFishStats("pike", 2.0), 20, nil, FightOptions{Rand: noJerks})
	s.SetController(NewAutopilot())

	out := s.Run()
	require.NotNil(t, out)
	assert.Equal(t, PhaseCaught, out.Phase)
	assert.Less(t, out.Final.LineTension, MaxTension)
}

func TestSession_RunReplaysWithSeed(t *testing.T) {
	t.Parallel()

	fish := FishStats{Species: "zander", WeightKg: 2.2, Aggression: 1.2, Burstiness: 1.4, Endurance: 1, Agility: 1}
	run := func() *Outcome {
		s := newTestSession(t, fish, 20, nil, FightOptions{Seed: 99, HardCap: 2 * time.Minute})
		s.SetController(NewAutopilot())
		return s.Run()
	}

	first := run()
	require.NotNil(t, first)
	for range 3 {
		assert.Equal(t, first, run())
	}
}

func TestSessionListeners_FanOut(t *testing.T) {
	t.Parallel()

	a, b := newMockListener(), newMockListener()
	s := newTestSession(t, NewFishStats("roach", 0.2), 50, SessionListeners{a, nil, b}, FightOptions{Rand: noJerks})
	s.SetPulling(true)

	out := s.Run()
	require.NotNil(t, out)
	assert.Equal(t, PhaseCaught, out.Phase)
	assert.Equal(t, a.tickCount(), b.tickCount())
	assert.Same(t, a.waitEnd(t, time.Second), b.waitEnd(t, time.Second))
}
