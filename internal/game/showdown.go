package game

import (
	"fmt"
	"slices"
	"time"

	"github.com/lox/pokertable/poker"
)

// ShownHand is a hand revealed at showdown.
type ShownHand struct {
	Seat  int
	Name  string
	Hole  poker.HoleCards
	Value poker.HandValue
}

// ShowdownResult is the outcome of resolving a hand.
type ShowdownResult struct {
	Pots   []Pot
	Hands  []ShownHand
	Awards []Award
	// Stacks is every seated player's chip count after the awards.
	Stacks map[int]int
}

// contributions snapshots per-seat hand totals and the set still in the hand.
func contributions(seats []*Player) (map[int]int, map[int]bool) {
	contrib := make(map[int]int)
	inHand := make(map[int]bool)
	for _, p := range seats {
		if p == nil {
			continue
		}
		if p.Hand.Contributed > 0 {
			contrib[p.Seat] = p.Hand.Contributed
		}
		if p.InHand() {
			inHand[p.Seat] = true
		}
	}
	return contrib, inHand
}

// ResolveShowdown evaluates every player still in the hand against the board,
// builds pots from hand contributions and pays them out. It does not modify
// seats.
func ResolveShowdown(seats []*Player, board []poker.Card, button int) (ShowdownResult, error) {
	contrib, inHand := contributions(seats)

	values := make(map[int]poker.HandValue)
	var shown []ShownHand
	for _, p := range seats {
		if p == nil || !inHand[p.Seat] {
			continue
		}
		cards := append(slices.Clone(board), p.Hand.Hole[0], p.Hand.Hole[1])
		hv, err := poker.Evaluate(cards...)
		if err != nil {
			return ShowdownResult{}, fmt.Errorf("evaluate seat %d: %w", p.Seat, err)
		}
		values[p.Seat] = hv
		shown = append(shown, ShownHand{Seat: p.Seat, Name: p.Name, Hole: p.Hand.Hole, Value: hv})
	}

	pots := BuildPots(contrib, inHand)
	awards := AwardPots(pots, values, button)
	return ShowdownResult{
		Pots:   pots,
		Hands:  shown,
		Awards: awards,
		Stacks: stacksAfter(seats, awards),
	}, nil
}

func stacksAfter(seats []*Player, awards []Award) map[int]int {
	won := Winnings(awards)
	stacks := make(map[int]int)
	for _, p := range seats {
		if p != nil {
			stacks[p.Seat] = p.Chips + won[p.Seat]
		}
	}
	return stacks
}

// HandResult summarises a finished hand.
type HandResult struct {
	ID     string
	Number int
	Button int
	// SmallBlind and BigBlind are the blind sizes the hand was played at.
	// Short stacks may have posted less; see Entrants.
	SmallBlind     int
	BigBlind       int
	SmallBlindSeat int
	BigBlindSeat   int
	Board          []poker.Card
	Pots           []Pot
	Awards         []Award
	// Shown is empty when the hand ended without a showdown.
	Shown       []ShownHand
	Uncontested bool
	Stacks      map[int]int
	Entrants    []Entrant
	// Actions is every voluntary action in order. Blinds are in Entrants.
	Actions []ActionRecord
	Started time.Time
	Ended   time.Time
}

// Entrant is a player dealt into a hand, as they started it.
type Entrant struct {
	Seat  int
	Name  string
	Chips int // Stack before blinds
	Hole  poker.HoleCards
	Blind int // Blind posted, zero if none
}

// ActionRecord is one applied action. Amount is the chips it added and Total
// the seat's commitment for the round afterwards.
type ActionRecord struct {
	Seat   int
	Phase  Phase
	Action Action
	Amount int
	Total  int
}

// Pot returns the total of all pots.
func (r *HandResult) Pot() int {
	return TotalPots(r.Pots)
}
