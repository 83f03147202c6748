package hud

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/angler/internal/game/fishing"
)

type fakeInput struct {
	mu      sync.Mutex
	pulling bool
	stopped int
}

func (f *fakeInput) SetPulling(p bool) { f.mu.Lock(); f.pulling = p; f.mu.Unlock() }
func (f *fakeInput) Pulling() bool     { f.mu.Lock(); defer f.mu.Unlock(); return f.pulling }
func (f *fakeInput) Stop()             { f.mu.Lock(); f.stopped++; f.mu.Unlock() }

func (f *fakeInput) stops() int { f.mu.Lock(); defer f.mu.Unlock(); return f.stopped }

func newTestHUD(t *testing.T) (*HUD, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	h, err := New(screen, fishing.NewFishStats("pike", 2.5), fishing.Derive(
		fishing.GearStats{RodCapacityKg: 5, LineCapacityKg: 5, ReelBoost: 1, HookControl: 1},
		fishing.NewFishStats("pike", 2.5), 0.6))
	require.NoError(t, err)
	screen.SetSize(80, 24)
	t.Cleanup(h.Close)
	return h, screen
}

func rowText(s tcell.SimulationScreen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := range w {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func TestHUD_DrawsTensionBars(t *testing.T) {
	h, screen := newTestHUD(t)

	h.OnFightTick(1, fishing.TickState{Phase: fishing.PhaseFighting, RodTension: 50, LineTension: 100, Distance: 450})

	assert.Contains(t, rowText(screen, 0), "pike  2.50 kg")
	rod := rowText(screen, 2)
	assert.Equal(t, barWidth/2, strings.Count(rod, "█"))
	assert.Contains(t, rod, " 50.0")
	line := rowText(screen, 3)
	assert.Equal(t, barWidth, strings.Count(line, "█"))

	_, _, style, _ := screen.GetContent(6, 3)
	assert.Equal(t, styleRisk, style)
}

func TestHUD_StatusLine(t *testing.T) {
	h, screen := newTestHUD(t)

	h.OnFightTick(1, fishing.TickState{Phase: fishing.PhaseFighting, JerkActive: true})
	assert.Contains(t, rowText(screen, 7), "JERK")

	h.OnFightTick(1, fishing.TickState{Phase: fishing.PhaseFighting, SinceLastPull: 1500 * time.Millisecond})
	assert.Contains(t, rowText(screen, 7), "slack 1.5s")

	h.OnFightEnd(1, &fishing.Outcome{
		Phase:   fishing.PhaseSnapped,
		Cause:   fishing.CauseLineBreak,
		Fish:    fishing.NewFishStats("pike", 2.5),
		Elapsed: 3 * time.Second,
	})
	assert.Contains(t, rowText(screen, 7), "line snapped (line_break after 3.0s)")
}

func TestHUD_KeysDriveInput(t *testing.T) {
	h, screen := newTestHUD(t)
	in := &fakeInput{}

	h.handleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), in)
	assert.True(t, in.Pulling())
	assert.Contains(t, rowText(screen, 7), "reeling")

	h.handleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), in)
	assert.False(t, in.Pulling())

	h.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), in)
	assert.Equal(t, 0, in.stops())

	h.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), in)
	h.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), in)
	assert.Equal(t, 2, in.stops())
}

func TestHUD_RunStopsOnCancel(t *testing.T) {
	h, _ := newTestHUD(t)
	in := &fakeInput{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	returned := make(chan struct{})
	go func() {
		h.Run(ctx, in, done)
		close(returned)
	}()

	cancel()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 1, in.stops())
	close(done)
}

func TestHUD_RunReturnsWhenFightEnds(t *testing.T) {
	h, _ := newTestHUD(t)
	in := &fakeInput{}

	done := make(chan struct{})
	close(done)

	returned := make(chan struct{})
	go func() {
		h.Run(context.Background(), in, done)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the fight ended")
	}
	assert.Equal(t, 0, in.stops())
}
