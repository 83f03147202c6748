// Package hud renders a live fight in the terminal and maps keys to
// player intent.
package hud

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/udisondev/angler/internal/game/fishing"
)

const barWidth = 40

var (
	styleText  = tcell.StyleDefault
	styleDim   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSafe  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleWarn  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleRisk  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleWater = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleJerk  = tcell.StyleDefault.Foreground(tcell.ColorRed).Reverse(true)
)

// Input is the part of a session the keyboard drives.
type Input interface {
	SetPulling(pulling bool)
	Pulling() bool
	Stop()
}

// HUD draws fight state on a tcell screen. It implements
// fishing.SessionListener.
type HUD struct {
	mu     sync.Mutex
	screen tcell.Screen

	title       string
	maxDistance float64
	state       fishing.TickState
	pulling     bool
	outcome     *fishing.Outcome
}

// New initializes screen and returns a HUD for one fight.
func New(screen tcell.Screen, fish fishing.FishStats, params fishing.FightParameters) (*HUD, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	screen.Clear()

	return &HUD{
		screen:      screen,
		title:       fmt.Sprintf("%s  %.2f kg", fish.Species, fish.WeightKg),
		maxDistance: max(params.Loop.MaxDistance, params.Loop.StartDistance, 1),
		state:       fishing.TickState{Phase: fishing.PhaseFighting, Distance: params.Loop.StartDistance},
	}, nil
}

// Close restores the terminal.
func (h *HUD) Close() {
	h.screen.Fini()
}

// OnFightTick implements fishing.SessionListener.
func (h *HUD) OnFightTick(_ int64, state fishing.TickState) {
	h.mu.Lock()
	h.state = state
	h.mu.Unlock()
	h.Draw()
}

// OnFightEnd implements fishing.SessionListener.
func (h *HUD) OnFightEnd(_ int64, outcome *fishing.Outcome) {
	h.mu.Lock()
	h.outcome = outcome
	if outcome != nil {
		h.state = outcome.Final
	}
	h.mu.Unlock()
	h.Draw()
}

// Run feeds key presses into in until the fight ends or ctx is cancelled.
// Space toggles reeling; q or Esc abandons the fight.
func (h *HUD) Run(ctx context.Context, in Input, done <-chan struct{}) {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			in.Stop()
			return
		case <-done:
			return
		case ev := <-events:
			h.handleEvent(ev, in)
		}
	}
}

func (h *HUD) handleEvent(ev tcell.Event, in Input) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			in.Stop()
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			in.Stop()
		case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			pulling := !in.Pulling()
			in.SetPulling(pulling)
			h.mu.Lock()
			h.pulling = pulling
			h.mu.Unlock()
			h.Draw()
		}
	case *tcell.EventResize:
		h.screen.Sync()
		h.Draw()
	}
}

// Draw repaints the whole HUD.
func (h *HUD) Draw() {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.screen
	s.Clear()

	st := h.state
	drawText(s, 1, 0, styleText, h.title)
	drawText(s, 1, 2, styleText, "rod  ")
	drawBar(s, 6, 2, st.RodTension/fishing.MaxTension, tensionStyle(st.RodTension))
	drawText(s, 7+barWidth, 2, styleDim, fmt.Sprintf("%5.1f", st.RodTension))
	drawText(s, 1, 3, styleText, "line ")
	drawBar(s, 6, 3, st.LineTension/fishing.MaxTension, tensionStyle(st.LineTension))
	drawText(s, 7+barWidth, 3, styleDim, fmt.Sprintf("%5.1f", st.LineTension))
	drawText(s, 1, 5, styleText, "fish ")
	drawFish(s, 6, 5, st.Distance/h.maxDistance, st.LateralX)
	drawText(s, 7+barWidth, 5, styleDim, fmt.Sprintf("%5.0f", st.Distance))

	switch {
	case h.outcome != nil:
		drawText(s, 1, 7, outcomeStyle(h.outcome), outcomeText(h.outcome))
	case st.JerkActive:
		drawText(s, 1, 7, styleJerk, " JERK ")
	case h.pulling:
		drawText(s, 1, 7, styleSafe, "reeling")
	default:
		drawText(s, 1, 7, styleDim, fmt.Sprintf("slack %.1fs", st.SinceLastPull.Seconds()))
	}
	drawText(s, 1, 9, styleDim, "space: reel/ease   q: let it go")

	s.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func drawBar(s tcell.Screen, x, y int, frac float64, style tcell.Style) {
	filled := int(min(max(frac, 0), 1) * barWidth)
	for i := range barWidth {
		if i < filled {
			s.SetContent(x+i, y, '█', nil, style)
		} else {
			s.SetContent(x+i, y, '░', nil, styleDim)
		}
	}
}

// drawFish places the fish along the distance track; the net is at x.
func drawFish(s tcell.Screen, x, y int, frac, lateral float64) {
	s.SetContent(x, y, '|', nil, styleText)
	for i := 1; i < barWidth; i++ {
		s.SetContent(x+i, y, '~', nil, styleWater)
	}
	pos := int(min(max(frac, 0), 1) * float64(barWidth-1))
	glyph := '>'
	if lateral < 0 {
		glyph = '<'
	}
	s.SetContent(x+pos, y, glyph, nil, styleText.Bold(true))
}

func tensionStyle(t float64) tcell.Style {
	switch {
	case t >= 80:
		return styleRisk
	case t >= 50:
		return styleWarn
	default:
		return styleSafe
	}
}

func outcomeStyle(o *fishing.Outcome) tcell.Style {
	if o.Caught() {
		return styleSafe
	}
	return styleRisk
}

func outcomeText(o *fishing.Outcome) string {
	var b strings.Builder
	switch o.Phase {
	case fishing.PhaseCaught:
		fmt.Fprintf(&b, "landed %s %.2f kg", o.Fish.Species, o.Fish.WeightKg)
	case fishing.PhaseSnapped:
		b.WriteString("line snapped")
	case fishing.PhasePulledOut:
		b.WriteString("hook pulled out")
	default:
		b.WriteString("fish escaped")
	}
	fmt.Fprintf(&b, " (%s after %.1fs)", o.Cause, o.Elapsed.Seconds())
	return b.String()
}
