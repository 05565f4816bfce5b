package main

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/pokertable/internal/config"
)

type ConfigCmd struct {
	Check ConfigCheckCmd `cmd:"" help:"Load and validate a configuration file"`
}

type ConfigCheckCmd struct {
	File string `arg:"" type:"existingfile" help:"HCL configuration file"`
}

func (c *ConfigCheckCmd) Run(logger *log.Logger) error {
	cfg, err := config.Load(c.File)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	for _, t := range cfg.Tables {
		timeout, _ := t.Timeout()
		logger.Info("table", "name", t.Name, "blinds", fmt.Sprintf("%d/%d", t.SmallBlind, t.BigBlind),
			"seats", len(t.Seats), "burn_cards", t.BurnCards, "action_timeout", timeout)
	}
	sim := cfg.Simulation
	logger.Info("simulation", "hands", sim.Hands, "seed", sim.Seed, "workers", sim.Workers, "policy", sim.Policy)
	fmt.Printf("%s: ok\n", c.File)
	return nil
}
