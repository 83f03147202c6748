package fishing

import (
	"testing"
	"time"
)

func TestAutopilot_Hysteresis(t *testing.T) {
	t.Parallel()

	a := NewAutopilot()
	params := FightParameters{EscapeWindow: 4 * time.Second}

	steps := []struct {
		tension float64
		since   time.Duration
		want    bool
	}{
		{0, 0, true},
		{60, 0, true},
		{85, 0, false},                      // above High: ease off
		{60, 100 * time.Millisecond, false}, // still easing between thresholds
		{35, 200 * time.Millisecond, true},  // under Low: reel again
		{70, 0, true},
		{90, 0, false},
		{70, 3 * time.Second, true}, // escape window nearly spent
	}
	for i, s := range steps {
		got := a.Pull(TickState{RodTension: s.tension, LineTension: s.tension / 2, SinceLastPull: s.since}, params)
		if got != s.want {
			t.Errorf("step %d: Pull(tension=%.0f, since=%v) = %v; want %v", i, s.tension, s.since, got, s.want)
		}
	}
}

func TestAutopilot_FinishesWhenHeadroomSuffices(t *testing.T) {
	t.Parallel()

	a := NewAutopilot()
	params := Derive(balancedGear(), NewFishStats("pike", 2.0), 1.0)

	if !a.Pull(TickState{RodTension: 0, LineTension: 0, Distance: 450}, params) {
		t.Error("Pull at rest with the fish in range = false; want true")
	}
	if !a.Pull(TickState{RodTension: 90, LineTension: 90, Distance: 5}, params) {
		t.Error("Pull above High with the fish at the net = false; want true")
	}
	if a.Pull(TickState{RodTension: 90, LineTension: 90, Distance: 400}, params) {
		t.Error("Pull above High with the fish far out = true; want false")
	}
}
