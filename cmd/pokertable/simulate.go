package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/pokertable/internal/config"
	"github.com/lox/pokertable/internal/display"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/ledger"
	"github.com/lox/pokertable/internal/simulator"
)

// SimulateCmd runs the simulator. Flags left at zero fall back to the
// configuration file's simulation block.
type SimulateCmd struct {
	Config  string `short:"c" default:"pokertable.hcl" help:"HCL configuration file (optional)"`
	Table   string `default:"main" help:"Table whose blinds and burn setting to use"`
	Hands   int    `help:"Hands per table"`
	Tables  int    `help:"Tables to run concurrently"`
	Players int    `default:"6" help:"Players per table"`
	Chips   int    `help:"Starting stack (default 100 big blinds)"`
	Seed    *int64 `help:"Base RNG seed"`
	Policy  string `help:"Policy for every seat: random, calling or aggressive"`
	Timeout int    `help:"Give up after this many seconds (0 for no limit)"`
	Ledger  string `type:"path" help:"Record every hand in this SQLite ledger, one table per simulated table"`
}

func (c *SimulateCmd) Run(logger *log.Logger, r *display.Renderer) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	simCfg := simulator.Config{
		Tables:  cfg.Simulation.Workers,
		Hands:   cfg.Simulation.Hands,
		Players: c.Players,
		Chips:   c.Chips,
		Seed:    cfg.Simulation.Seed,
		Policy:  cfg.Simulation.Policy,
		Logger:  logger.WithPrefix("sim"),
	}
	if t := cfg.Table(c.Table); t != nil {
		simCfg.SmallBlind = t.SmallBlind
		simCfg.BigBlind = t.BigBlind
		simCfg.BurnCards = t.BurnCards
	}
	if c.Hands > 0 {
		simCfg.Hands = c.Hands
	}
	if c.Tables > 0 {
		simCfg.Tables = c.Tables
	}
	if c.Seed != nil {
		simCfg.Seed = *c.Seed
	}
	if c.Policy != "" {
		simCfg.Policy = c.Policy
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.Timeout)*time.Second)
		defer cancel()
	}

	if c.Ledger != "" {
		store, err := ledger.Open(c.Ledger)
		if err != nil {
			return err
		}
		defer store.Close()
		simCfg.OnHand = func(table int, res *game.HandResult) error {
			return store.RecordHand(ctx, fmt.Sprintf("sim-%d", table), res)
		}
	}

	sim, err := simulator.New(simCfg)
	if err != nil {
		return err
	}

	logger.Info("starting simulation", "tables", simCfg.Tables, "hands", simCfg.Hands,
		"players", simCfg.Players, "policy", simCfg.Policy, "seed", simCfg.Seed)
	result, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Println(r.Simulation(result))
	return nil
}
