// Package simulator plays self-play hands on many tables at once and checks
// that no chips are created or destroyed along the way.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/randutil"
	"github.com/lox/pokertable/internal/statistics"
)

// Config holds configuration for running simulations.
type Config struct {
	Tables     int // Tables played concurrently
	Hands      int // Hands per table
	Players    int // Players per table, 2 to 10
	Chips      int // Starting stack and rebuy amount
	SmallBlind int
	BigBlind   int
	BurnCards  bool
	Seed       int64
	Policy     string
	Logger     *log.Logger
	// OnHand, if set, is called after every hand from the table's
	// goroutine. An error stops the simulation.
	OnHand func(table int, res *game.HandResult) error
}

func (c *Config) setDefaults() {
	if c.Tables == 0 {
		c.Tables = 1
	}
	if c.Players == 0 {
		c.Players = 6
	}
	if c.SmallBlind == 0 {
		c.SmallBlind = 5
	}
	if c.BigBlind == 0 {
		c.BigBlind = 2 * c.SmallBlind
	}
	if c.Chips == 0 {
		c.Chips = 100 * c.BigBlind
	}
	if c.Policy == "" {
		c.Policy = "random"
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
}

func (c *Config) validate() error {
	switch {
	case c.Tables < 1:
		return fmt.Errorf("tables must be at least 1, got %d", c.Tables)
	case c.Hands < 0:
		return fmt.Errorf("hands must not be negative, got %d", c.Hands)
	case c.Players < 2 || c.Players > game.MaxSeats:
		return fmt.Errorf("players must be between 2 and %d, got %d", game.MaxSeats, c.Players)
	case c.SmallBlind <= 0 || c.BigBlind < c.SmallBlind:
		return fmt.Errorf("invalid blinds %d/%d", c.SmallBlind, c.BigBlind)
	case c.Chips <= 0:
		return fmt.Errorf("chips must be positive, got %d", c.Chips)
	}
	return nil
}

// TableResult describes one simulated table.
type TableResult struct {
	Table   int
	Hands   int
	Actions int
	Rebuys  int
	// Chips is the total on the table at the end, starting stacks plus rebuys.
	Chips int
	Stats *statistics.Statistics
}

// Result aggregates every table.
type Result struct {
	Tables   []TableResult
	Stats    *statistics.Statistics
	Duration time.Duration
}

// Actions returns the number of actions applied across all tables.
func (r *Result) Actions() int {
	n := 0
	for _, t := range r.Tables {
		n += t.Actions
	}
	return n
}

// maxActionsPerHand bounds a single hand so a policy that never closes the
// action is reported instead of spinning forever.
const maxActionsPerHand = 500

// ErrChipsChanged reports that a table's chip total moved during play.
var ErrChipsChanged = errors.New("chip total changed")

// Simulator runs poker hand simulations.
type Simulator struct {
	config Config
	policy Policy
}

// New creates a simulator. It fails on invalid configuration or an unknown
// policy name.
func New(config Config) (*Simulator, error) {
	config.setDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}
	policy, err := PolicyByName(config.Policy)
	if err != nil {
		return nil, err
	}
	return &Simulator{config: config, policy: policy}, nil
}

// WithPolicy replaces the policy used by every seat.
func (s *Simulator) WithPolicy(p Policy) *Simulator {
	s.policy = p
	return s
}

// Run plays every table concurrently and returns the combined result. The
// first table error cancels the rest.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	results := make([]TableResult, s.config.Tables)

	g, ctx := errgroup.WithContext(ctx)
	for i := range s.config.Tables {
		g.Go(func() error {
			r, err := s.runTable(ctx, i)
			if err != nil {
				return fmt.Errorf("table %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for i := range results {
		stats.Merge(results[i].Stats)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	return &Result{Tables: results, Stats: stats, Duration: time.Since(start)}, nil
}

// runTable plays the configured number of hands on one table. Engine
// invariant panics are converted to errors so one broken table does not take
// down the process.
func (s *Simulator) runTable(ctx context.Context, index int) (result TableResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			var ie *game.InvariantError
			if e, ok := r.(error); ok && errors.As(e, &ie) {
				err = ie
				return
			}
			panic(r)
		}
	}()

	rng := randutil.Stream(s.config.Seed, index)
	logger := s.config.Logger.With("table", index)
	table := game.NewTable(
		game.WithBlinds(s.config.SmallBlind, s.config.BigBlind),
		game.WithBurnCards(s.config.BurnCards),
		game.WithRNG(rng),
		game.WithLogger(logger),
	)

	seats := spreadSeats(s.config.Players)
	for n, seat := range seats {
		if err := table.Sit(seat, fmt.Sprintf("p%d", n+1), s.config.Chips); err != nil {
			return result, err
		}
	}

	result = TableResult{Table: index, Stats: &statistics.Statistics{}}
	bank := table.TotalChips()

	for hand := 0; hand < s.config.Hands; hand++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rebuys, err := s.rebuy(table)
		if err != nil {
			return result, err
		}
		result.Rebuys += rebuys
		bank += rebuys * s.config.Chips

		actions, err := s.playHand(table, rng, bank)
		result.Actions += actions
		if err != nil {
			return result, fmt.Errorf("hand %d: %w", table.HandNumber(), err)
		}

		last := table.LastResult()
		if s.config.OnHand != nil {
			if err := s.config.OnHand(index, last); err != nil {
				return result, fmt.Errorf("hand %d: %w", last.Number, err)
			}
		}
		result.Stats.Add(statistics.FromHand(last, s.config.BigBlind))
		result.Hands++
		logger.Debug("hand complete", "hand", last.ID, "number", last.Number, "pot", last.Pot(), "pots", len(last.Pots))
	}

	result.Chips = table.TotalChips()
	if result.Chips != bank {
		return result, fmt.Errorf("%w: %d at end, expected %d", ErrChipsChanged, result.Chips, bank)
	}
	return result, nil
}

// rebuy replaces every busted player with a fresh stack.
func (s *Simulator) rebuy(table *game.Table) (int, error) {
	n := 0
	for _, p := range table.Seats() {
		if p == nil || p.Chips > 0 {
			continue
		}
		if err := table.Leave(p.Seat); err != nil {
			return n, err
		}
		if err := table.Sit(p.Seat, p.Name, s.config.Chips); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// playHand plays one hand to completion, checking the chip total after every
// action.
func (s *Simulator) playHand(table *game.Table, rng *rand.Rand, bank int) (int, error) {
	if err := table.StartHand(); err != nil {
		return 0, err
	}

	actions := 0
	for table.Phase() != game.HandComplete {
		if table.IsRoundComplete() {
			if err := table.AdvancePhase(); err != nil {
				return actions, err
			}
			continue
		}
		if actions >= maxActionsPerHand {
			return actions, fmt.Errorf("no result after %d actions", actions)
		}

		seat := table.Actor()
		player := table.Player(seat)
		decision := s.policy.Decide(rng, player, table.ValidActions())
		if _, err := table.ApplyAction(seat, decision.Action, decision.Amount); err != nil {
			return actions, fmt.Errorf("seat %d %s %d: %w", seat, decision.Action, decision.Amount, err)
		}
		actions++

		if total := table.TotalChips(); total != bank {
			return actions, fmt.Errorf("%w: %d after seat %d %s, expected %d",
				ErrChipsChanged, total, seat, decision.Action, bank)
		}
	}
	return actions, nil
}

// spreadSeats places n players around the table with gaps between them.
func spreadSeats(n int) []int {
	seats := make([]int, n)
	for i := range seats {
		seats[i] = i * game.MaxSeats / n
	}
	return seats
}
