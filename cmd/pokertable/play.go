package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/pokertable/internal/config"
	"github.com/lox/pokertable/internal/display"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/ledger"
	"github.com/lox/pokertable/internal/phh"
	"github.com/lox/pokertable/internal/randutil"
	"github.com/lox/pokertable/internal/session"
	"github.com/lox/pokertable/internal/simulator"
)

// PlayCmd plays hands at one configured table through a session and prints
// each result.
type PlayCmd struct {
	Config  string `short:"c" default:"pokertable.hcl" help:"HCL configuration file (optional)"`
	Table   string `default:"main" help:"Table to play"`
	Hands   int    `default:"1" help:"Number of hands"`
	Policy  string `default:"calling" help:"Policy for every seat: random, calling or aggressive"`
	Seed    *int64 `help:"RNG seed (random if unset)"`
	History string `type:"path" help:"Write played hands to this PHH file"`
	Ledger  string `type:"path" help:"Record played hands in this SQLite ledger"`
}

func (c *PlayCmd) Run(logger *log.Logger, r *display.Renderer) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	tc := cfg.Table(c.Table)
	if tc == nil {
		return fmt.Errorf("table %q not found in %s", c.Table, c.Config)
	}
	timeout, err := tc.Timeout()
	if err != nil {
		return err
	}
	policy, err := simulator.PolicyByName(c.Policy)
	if err != nil {
		return err
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info("using seed", "seed", seed)

	table, err := tc.NewTable(
		game.WithRNG(randutil.Stream(seed, 0)),
		game.WithLogger(logger.WithPrefix(tc.Name)),
	)
	if err != nil {
		return err
	}

	names := make(map[int]string)
	for _, s := range tc.Seats {
		names[s.Index] = s.Name
	}

	var store *ledger.Store
	if c.Ledger != "" {
		if store, err = ledger.Open(c.Ledger); err != nil {
			return err
		}
		defer store.Close()
	}

	var (
		mu      sync.Mutex
		history []*phh.HandHistory
	)
	s := session.New(table,
		session.WithTimeout(timeout),
		session.WithLogger(logger),
		session.WithHandComplete(func(res *game.HandResult) {
			fmt.Println(r.HandResult(res, names))
			fmt.Println()
			if store != nil {
				if err := store.RecordHand(context.Background(), tc.Name, res); err != nil {
					logger.Warn("failed to record hand", "hand", res.ID, "error", err)
				}
			}
			if c.History != "" {
				mu.Lock()
				history = append(history, phh.FromHand(res, tc.Name))
				mu.Unlock()
			}
		}),
	)

	err = c.play(logger, s, policy, seed)
	s.Close()
	if c.History == "" {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	if werr := phh.WriteFile(c.History, history); werr != nil {
		return errors.Join(err, fmt.Errorf("write hand history: %w", werr))
	}
	logger.Info("hand history written", "file", c.History, "hands", len(history))
	return err
}

func (c *PlayCmd) play(logger *log.Logger, s *session.Session, policy simulator.Policy, seed int64) error {
	rng := randutil.Stream(seed, 1)
	for range c.Hands {
		if err := s.StartHand(); err != nil {
			if errors.Is(err, game.ErrNotEnoughPlayers) {
				var played int
				s.View(func(t *game.Table) { played = t.HandNumber() })
				logger.Warn("not enough players with chips", "hands", played)
				return nil
			}
			return err
		}
		for s.Phase() != game.HandComplete {
			seat, legal := s.Turn()
			if seat == game.NoSeat {
				continue
			}
			var player *game.Player
			s.View(func(t *game.Table) { player = t.Player(seat) })
			d := policy.Decide(rng, player, legal)
			if _, err := s.Submit(seat, d.Action, d.Amount); err != nil {
				return fmt.Errorf("seat %d %s: %w", seat, d.Action, err)
			}
		}
	}
	return nil
}
