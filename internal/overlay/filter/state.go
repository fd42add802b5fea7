// Package filter holds the single active overlay filter mode.
package filter

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/events"
)

const defaultHistorySize = 64

// Transition records one mode switch.
type Transition struct {
	From      core.FilterMode
	To        core.FilterMode
	Timestamp time.Time
	Reason    string
}

// State tracks which filter mode is active. Exactly one mode is active at
// any time.
type State struct {
	mu             sync.RWMutex
	active         core.FilterMode
	history        []Transition
	maxHistorySize int
	publisher      events.Publisher
	sessionID      string
	logger         zerolog.Logger
}

// Option configures a State.
type Option func(*State)

// WithPublisher makes the state publish a ModeChangedEvent on every switch.
func WithPublisher(p events.Publisher, sessionID string) Option {
	return func(s *State) {
		s.publisher = p
		s.sessionID = sessionID
	}
}

// WithHistorySize bounds the transition history. Values below 1 are ignored.
func WithHistorySize(n int) Option {
	return func(s *State) {
		if n > 0 {
			s.maxHistorySize = n
		}
	}
}

// NewState starts in initial, or core.DefaultMode when initial is invalid.
func NewState(initial core.FilterMode, logger zerolog.Logger, opts ...Option) *State {
	if !initial.Valid() {
		initial = core.DefaultMode
	}
	s := &State{
		active:         initial,
		maxHistorySize: defaultHistorySize,
		logger:         logger.With().Str("component", "filter_state").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Active returns the current mode.
func (s *State) Active() core.FilterMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetActive switches to mode. Selecting the active mode again is a no-op and
// publishes nothing.
func (s *State) SetActive(mode core.FilterMode) error {
	return s.transition(mode, "set")
}

// ToggleStates reports every mode with exactly the active one set.
func (s *State) ToggleStates() map[core.FilterMode]bool {
	active := s.Active()
	out := make(map[core.FilterMode]bool, len(core.AllFilterModes()))
	for _, m := range core.AllFilterModes() {
		out[m] = m == active
	}
	return out
}

// OnFiltersChanged applies a toggle map from the legend filter UI. The first
// enabled mode in canonical order becomes active.
func (s *State) OnFiltersChanged(toggles map[core.FilterMode]bool) error {
	for _, m := range core.AllFilterModes() {
		if toggles[m] {
			return s.transition(m, "filters")
		}
	}
	return core.ErrNoActiveMode
}

// Cycle moves step modes forward (or backward when negative), wrapping.
func (s *State) Cycle(step int) core.FilterMode {
	modes := core.AllFilterModes()
	n := len(modes)
	next := modes[((int(s.Active())+step)%n+n)%n]
	// next is always valid, so the error is impossible.
	_ = s.transition(next, "cycle")
	return next
}

// History returns a copy of the recorded transitions, oldest first.
func (s *State) History() []Transition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := make([]Transition, len(s.history))
	copy(history, s.history)
	return history
}

func (s *State) transition(to core.FilterMode, reason string) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %s", core.ErrUnknownMode, to)
	}

	s.mu.Lock()
	from := s.active
	if from == to {
		s.mu.Unlock()
		return nil
	}
	s.active = to
	s.addToHistory(Transition{From: from, To: to, Timestamp: time.Now(), Reason: reason})
	s.mu.Unlock()

	s.logger.Info().
		Str("from_mode", from.String()).
		Str("to_mode", to.String()).
		Str("reason", reason).
		Msg("Filter mode changed")

	// Published outside the lock: receivers rebuild and read Active().
	if s.publisher != nil {
		s.publisher.Publish(events.NewModeChangedEvent(s.sessionID, from, to))
	}
	return nil
}

func (s *State) addToHistory(t Transition) {
	s.history = append(s.history, t)
	if len(s.history) > s.maxHistorySize {
		s.history = s.history[len(s.history)-s.maxHistorySize:]
	}
}
