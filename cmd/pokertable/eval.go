package main

import (
	"fmt"
	"strings"

	"github.com/lox/pokertable/internal/display"
	"github.com/lox/pokertable/poker"
)

// EvalCmd evaluates a single hand.
type EvalCmd struct {
	Cards []string `arg:"" help:"Cards, e.g. 'Th 9h Kh Qh Jh 7c 3d' or AhKh"`
}

func (c *EvalCmd) Run(r *display.Renderer) error {
	cards, err := poker.ParseCards(strings.Join(c.Cards, " "))
	if err != nil {
		return err
	}
	hv, err := poker.Evaluate(cards...)
	if err != nil {
		return err
	}
	fmt.Println(r.HandValue(cards, hv))
	return nil
}

// NutsCmd finds the best possible hole cards on a board.
type NutsCmd struct {
	Board []string `arg:"" help:"Board of 3 to 5 cards"`
	Top   int      `default:"10" help:"Number of distinct hands to list"`
}

func (c *NutsCmd) Run(r *display.Renderer) error {
	board, err := poker.ParseCards(strings.Join(c.Board, " "))
	if err != nil {
		return err
	}
	nuts, value, err := poker.Nuts(board)
	if err != nil {
		return err
	}
	top, err := poker.TopDistinctHands(board, c.Top)
	if err != nil {
		return err
	}
	fmt.Println(r.Nuts(board, nuts, value, top))
	return nil
}
