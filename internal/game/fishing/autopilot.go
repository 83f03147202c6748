package fishing

// Autopilot is a simple Controller for headless fights. It keeps reeling
// whenever the remaining tension headroom is enough to bring the fish to the
// net; otherwise it reels until the higher tension reaches High and eases off
// until it drops under Low, grabbing the reel before the escape window runs
// out.
type Autopilot struct {
	High   float64
	Low    float64
	Margin float64 // headroom held back for a jerk

	easing bool
}

// NewAutopilot returns an autopilot with the stock thresholds.
func NewAutopilot() *Autopilot {
	return &Autopilot{High: 80, Low: 40, Margin: 5}
}

// Pull implements Controller.
func (a *Autopilot) Pull(state TickState, params FightParameters) bool {
	tension := max(state.RodTension, state.LineTension)

	reel := params.PullSpeed - params.FishSpeed*params.Loop.FleeDrag
	fill := max(params.RodFillRate, params.LineFillRate)
	if reel > 0 && fill > 0 && !state.JerkActive {
		if (MaxTension-a.Margin-tension)/fill*reel >= state.Distance {
			a.easing = false
			return true
		}
	}

	switch {
	case tension >= a.High:
		a.easing = true
	case tension <= a.Low:
		a.easing = false
	}
	if a.easing && state.SinceLastPull >= params.EscapeWindow*3/4 {
		a.easing = false
	}
	return !a.easing
}
