// Package session drives a game.Table for a set of concurrent callers. It
// serializes every mutation behind one lock, advances streets when a betting
// round closes, and runs an action clock that acts for players who take too
// long.
package session

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokertable/internal/game"
)

// Option configures a Session.
type Option func(*Session)

// WithTimeout sets how long the player on the clock has to act. Zero disables
// the clock.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithClock sets the clock that drives action timeouts.
func WithClock(clock quartz.Clock) Option {
	return func(s *Session) { s.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithHandComplete registers a callback run after each hand finishes. It is
// called without the session lock held.
func WithHandComplete(fn func(*game.HandResult)) Option {
	return func(s *Session) { s.onComplete = fn }
}

// Session owns a table and is safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	table      *game.Table
	clock      quartz.Clock
	timeout    time.Duration
	logger     *log.Logger
	onComplete func(*game.HandResult)

	timer *quartz.Timer
	// turn increments every time the clock is re-armed so a timer that fired
	// while another caller held the lock can tell it is stale.
	turn     uint64
	timeouts int
	closed   bool
}

// New wraps table in a session.
func New(table *game.Table, opts ...Option) *Session {
	s := &Session{
		table:  table,
		clock:  quartz.NewReal(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartHand deals a new hand and starts the action clock.
func (s *Session) StartHand() error {
	result, err := s.update(func() error {
		if s.closed {
			return ErrClosed
		}
		return s.table.StartHand()
	})
	s.notify(result)
	return err
}

// Submit applies an action for seat. Streets are dealt and the hand is
// finished automatically once a betting round closes.
func (s *Session) Submit(seat int, action game.Action, amount int) (game.Outcome, error) {
	var out game.Outcome
	result, err := s.update(func() error {
		if s.closed {
			return ErrClosed
		}
		var err error
		out, err = s.table.ApplyAction(seat, action, amount)
		return err
	})
	s.notify(result)
	return out, err
}

// Sit seats a player. During a hand they wait for the next deal.
func (s *Session) Sit(seat int, name string, chips int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Sit(seat, name, chips)
}

// Leave removes a player, folding their hand if one is being played.
func (s *Session) Leave(seat int) error {
	result, err := s.update(func() error {
		return s.table.Leave(seat)
	})
	s.notify(result)
	return err
}

// Turn reports the seat on the clock and its legal actions. The seat is
// game.NoSeat between betting rounds and hands.
func (s *Session) Turn() (int, game.LegalActions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Actor(), s.table.ValidActions()
}

// Phase returns the current hand phase.
func (s *Session) Phase() game.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Phase()
}

// LastResult returns the result of the most recently completed hand.
func (s *Session) LastResult() *game.HandResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.LastResult()
}

// Timeouts returns how many actions the clock has forced.
func (s *Session) Timeouts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeouts
}

// View runs fn with the table while holding the session lock. fn must not
// retain the table or mutate it.
func (s *Session) View(fn func(*game.Table)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.table)
}

// Close stops the action clock. Further hands and actions are rejected.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopClock()
}

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session closed")

// update runs fn under the lock, then settles the table and re-arms the clock.
// It returns the hand result if fn finished a hand.
func (s *Session) update(fn func() error) (*game.HandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.table.LastResult()
	if err := fn(); err != nil {
		return nil, err
	}
	s.settle()
	s.armClock()

	if last := s.table.LastResult(); last != before {
		return last, nil
	}
	return nil, nil
}

// settle deals streets and finishes the hand while the round is closed.
func (s *Session) settle() {
	for s.table.Phase().IsBetting() && s.table.IsRoundComplete() {
		if err := s.table.AdvancePhase(); err != nil {
			// Unreachable: the round was just reported complete.
			panic(err)
		}
	}
}

func (s *Session) stopClock() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.turn++
}

// armClock starts the action clock for the seat on the clock, if any.
func (s *Session) armClock() {
	s.stopClock()
	if s.timeout <= 0 || s.closed {
		return
	}
	seat := s.table.Actor()
	if seat == game.NoSeat {
		return
	}
	turn := s.turn
	s.timer = s.clock.AfterFunc(s.timeout, func() { s.expire(turn, seat) }, "session", "action")
}

func (s *Session) expire(turn uint64, seat int) {
	result := func() *game.HandResult {
		s.mu.Lock()
		defer s.mu.Unlock()
		if turn != s.turn || s.table.Actor() != seat {
			return nil
		}

		name := ""
		if p := s.table.Player(seat); p != nil {
			name = p.Name
		}
		before := s.table.LastResult()
		out, err := s.table.ForceCheckOrFold()
		if err != nil {
			s.logger.Error("forced action failed", "seat", seat, "error", err)
			return nil
		}
		s.timeouts++
		s.logger.Warn("action timeout", "hand", s.table.HandID(), "seat", seat, "player", name,
			"action", out.Action, "timeout", s.timeout)

		s.settle()
		s.armClock()
		if last := s.table.LastResult(); last != before {
			return last
		}
		return nil
	}()
	s.notify(result)
}

func (s *Session) notify(result *game.HandResult) {
	if result == nil {
		return
	}
	s.logger.Info("hand complete", "hand", result.ID, "number", result.Number, "pot", result.Pot(), "uncontested", result.Uncontested)
	if s.onComplete != nil {
		s.onComplete(result)
	}
}
