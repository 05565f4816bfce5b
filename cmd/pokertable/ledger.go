package main

import (
	"context"
	"fmt"

	"github.com/lox/pokertable/internal/display"
	"github.com/lox/pokertable/internal/ledger"
)

type LedgerCmd struct {
	Standings LedgerStandingsCmd `cmd:"" help:"Show net chips per player at a table"`
	Hands     LedgerHandsCmd     `cmd:"" help:"List the most recent hands at a table"`
}

type LedgerStandingsCmd struct {
	DB    string `arg:"" type:"existingfile" help:"SQLite ledger file"`
	Table string `default:"main" help:"Table name"`
}

func (c *LedgerStandingsCmd) Run(r *display.Renderer) error {
	store, err := ledger.Open(c.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	standings, err := store.Standings(context.Background(), c.Table)
	if err != nil {
		return err
	}
	fmt.Println(r.Standings(c.Table, standings))
	return nil
}

type LedgerHandsCmd struct {
	DB    string `arg:"" type:"existingfile" help:"SQLite ledger file"`
	Table string `default:"main" help:"Table name"`
	Limit int    `default:"20" help:"Number of hands to show"`
}

func (c *LedgerHandsCmd) Run(r *display.Renderer) error {
	store, err := ledger.Open(c.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	hands, err := store.RecentHands(context.Background(), c.Table, c.Limit)
	if err != nil {
		return err
	}
	fmt.Println(r.RecentHands(hands))
	return nil
}
