package fishing

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTickRate is the host loop frequency in Hz.
const DefaultTickRate = 20

// ErrSessionDone is returned by Step once the fight is over.
var ErrSessionDone = errors.New("fishing session is over")

// SessionListener receives fight events for rendering and dispatch.
// Callbacks run on the session goroutine and must not call back into the
// session.
type SessionListener interface {
	OnFightTick(anglerID int64, state TickState)
	OnFightEnd(anglerID int64, outcome *Outcome)
}

// SessionListeners fans session events out in order. nil entries are skipped.
type SessionListeners []SessionListener

// OnFightTick implements SessionListener.
func (ls SessionListeners) OnFightTick(anglerID int64, state TickState) {
	for _, l := range ls {
		if l != nil {
			l.OnFightTick(anglerID, state)
		}
	}
}

// OnFightEnd implements SessionListener.
func (ls SessionListeners) OnFightEnd(anglerID int64, outcome *Outcome) {
	for _, l := range ls {
		if l != nil {
			l.OnFightEnd(anglerID, outcome)
		}
	}
}

// Controller decides the player's intent each tick when no human drives
// the session.
type Controller interface {
	Pull(state TickState, params FightParameters) bool
}

// Session drives one Fight from a fixed-rate ticker goroutine. Player input
// arrives through SetPulling from any goroutine.
type Session struct {
	mu sync.Mutex

	anglerID int64
	fight    *Fight
	interval time.Duration

	controller Controller
	listener   SessionListener
	pulling    atomic.Bool

	done   atomic.Bool
	stopCh chan struct{}
	endCh  chan struct{}
}

// NewSession wraps fight. tickRate is in Hz; non-positive means
// DefaultTickRate. listener may be nil.
func NewSession(anglerID int64, fight *Fight, tickRate int, listener SessionListener) *Session {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	return &Session{
		anglerID: anglerID,
		fight:    fight,
		interval: time.Second / time.Duration(tickRate),
		listener: listener,
		stopCh:   make(chan struct{}),
		endCh:    make(chan struct{}),
	}
}

// SetController hands the pull decision to c. A nil controller returns
// control to SetPulling. Call before Start.
func (s *Session) SetController(c Controller) {
	s.mu.Lock()
	s.controller = c
	s.mu.Unlock()
}

// Start begins ticking. The goroutine exits when the fight ends or Stop is
// called.
func (s *Session) Start() {
	slog.Info("fight started",
		"angler", s.anglerID,
		"species", s.fight.fish.Species,
		"weight_kg", s.fight.fish.WeightKg,
		"seed", s.fight.Seed())
	go s.run()
}

// Stop abandons the fight. The listener still receives OnFightEnd.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done.Load() {
		return
	}
	s.fight.Abandon()
	s.finish()
}

// SetPulling sets the player's intent for the following ticks.
func (s *Session) SetPulling(pulling bool) { s.pulling.Store(pulling) }

// Pulling returns the current player intent.
func (s *Session) Pulling() bool { return s.pulling.Load() }

// AnglerID returns the angler the session belongs to.
func (s *Session) AnglerID() int64 { return s.anglerID }

// Interval returns the fixed tick step.
func (s *Session) Interval() time.Duration { return s.interval }

// Done is closed after OnFightEnd has been delivered.
func (s *Session) Done() <-chan struct{} { return s.endCh }

// State returns the current fight snapshot.
func (s *Session) State() TickState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fight.State()
}

// Outcome returns the resolved outcome, or nil while the fight runs.
func (s *Session) Outcome() *Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fight.TerminalResult()
}

// Step advances the fight by one fixed interval without the ticker.
// Headless runs and tests use it instead of Start.
func (s *Session) Step() (TickState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done.Load() {
		return s.fight.State(), ErrSessionDone
	}
	return s.tick(), nil
}

// Run steps the fight until it ends and returns the outcome.
func (s *Session) Run() *Outcome {
	for {
		if _, err := s.Step(); err != nil {
			return s.Outcome()
		}
	}
}

func (s *Session) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			if _, err := s.Step(); err != nil {
				return
			}
		}
	}
}

// tick advances one interval. Caller must hold s.mu.
func (s *Session) tick() TickState {
	pulling := s.pulling.Load()
	if s.controller != nil {
		pulling = s.controller.Pull(s.fight.State(), s.fight.params)
		s.pulling.Store(pulling)
	}

	state := s.fight.Tick(s.interval, pulling)
	if s.listener != nil {
		s.listener.OnFightTick(s.anglerID, state)
	}
	if state.Phase.Terminal() {
		s.finish()
	}
	return state
}

// finish ends the session. Caller must hold s.mu.
func (s *Session) finish() {
	if !s.done.CompareAndSwap(false, true) {
		return
	}
	close(s.stopCh)

	outcome := s.fight.TerminalResult()
	slog.Info("fight finished",
		"angler", s.anglerID,
		"species", s.fight.fish.Species,
		"phase", outcome.Phase,
		"cause", outcome.Cause,
		"elapsed", outcome.Elapsed)
	if s.listener != nil {
		s.listener.OnFightEnd(s.anglerID, outcome)
	}
	close(s.endCh)
}
