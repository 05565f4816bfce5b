package poker

import (
	"fmt"
	"slices"
)

// HoleCards is a player's two private cards.
type HoleCards [2]Card

func (h HoleCards) String() string {
	return h[0].String() + " " + h[1].String()
}

// RankedHoleCards pairs a hole-card combination with its value on a board.
type RankedHoleCards struct {
	Hole  HoleCards
	Value HandValue
}

func checkBoard(board []Card) (CardSet, error) {
	if len(board) < 3 || len(board) > 5 {
		return 0, fmt.Errorf("board of %d cards: %w", len(board), ErrCardCount)
	}
	var set CardSet
	for _, c := range board {
		if !c.Valid() {
			return 0, fmt.Errorf("card %d out of range", c)
		}
		if set.Contains(c) {
			return 0, fmt.Errorf("card %s: %w", c, ErrDuplicateCard)
		}
		set = set.Add(c)
	}
	return set, nil
}

// RankHoleCards evaluates every two-card combination not on the board and
// returns them strongest first. Equal hands keep canonical deck order.
func RankHoleCards(board []Card) ([]RankedHoleCards, error) {
	used, err := checkBoard(board)
	if err != nil {
		return nil, err
	}

	remaining := make([]Card, 0, NumCards-len(board))
	for c := Card(0); c < NumCards; c++ {
		if !used.Contains(c) {
			remaining = append(remaining, c)
		}
	}

	out := make([]RankedHoleCards, 0, len(remaining)*(len(remaining)-1)/2)
	for i := 0; i < len(remaining); i++ {
		for j := i + 1; j < len(remaining); j++ {
			hole := HoleCards{remaining[i], remaining[j]}
			out = append(out, RankedHoleCards{
				Hole:  hole,
				Value: evaluateSet(used.Add(hole[0]).Add(hole[1])),
			})
		}
	}

	slices.SortStableFunc(out, func(a, b RankedHoleCards) int {
		return Compare(b.Value, a.Value)
	})
	return out, nil
}

// Nuts returns every hole-card pair that makes the best possible hand on the
// board, together with that hand's value.
func Nuts(board []Card) ([]HoleCards, HandValue, error) {
	ranked, err := RankHoleCards(board)
	if err != nil {
		return nil, HandValue{}, err
	}
	best := ranked[0].Value
	var nuts []HoleCards
	for _, r := range ranked {
		if Compare(r.Value, best) != 0 {
			break
		}
		nuts = append(nuts, r.Hole)
	}
	return nuts, best, nil
}

// TopDistinctHands returns one representative per distinct hand description,
// strongest first, at most n of them.
func TopDistinctHands(board []Card, n int) ([]RankedHoleCards, error) {
	ranked, err := RankHoleCards(board)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []RankedHoleCards
	for _, r := range ranked {
		if len(out) >= n {
			break
		}
		desc := r.Value.Description()
		if seen[desc] {
			continue
		}
		seen[desc] = true
		out = append(out, r)
	}
	return out, nil
}

// BestOption returns the index of the strongest hole-card option on the
// board. The earliest option wins ties.
func BestOption(board []Card, options []HoleCards) (int, error) {
	if len(options) == 0 {
		return -1, fmt.Errorf("no options: %w", ErrCardCount)
	}
	best, bestValue := -1, HandValue{}
	for i, hole := range options {
		cards := append(slices.Clone(board), hole[0], hole[1])
		v, err := Evaluate(cards...)
		if err != nil {
			return -1, fmt.Errorf("option %d: %w", i, err)
		}
		if best < 0 || Compare(v, bestValue) > 0 {
			best, bestValue = i, v
		}
	}
	return best, nil
}
