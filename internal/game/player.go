package game

import (
	"github.com/lox/pokertable/poker"
)

// MaxSeats is the fixed size of the seat array.
const MaxSeats = 10

// NoSeat marks the absence of a seat, e.g. no player on the clock.
const NoSeat = -1

// Status is a player's participation in the current hand.
type Status int

const (
	Active Status = iota
	Folded
	StatusAllIn
	Out
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Folded:
		return "folded"
	case StatusAllIn:
		return "all-in"
	case Out:
		return "out"
	default:
		return "unknown"
	}
}

// Player occupies a seat. Chips persist across hands; everything that only
// lives for one hand is in Hand and is replaced wholesale at every deal.
type Player struct {
	Seat  int
	Name  string
	Chips int
	Hand  PlayerHand
}

// PlayerHand is the per-hand record of a seated player.
type PlayerHand struct {
	Status     Status
	Hole       poker.HoleCards
	Dealt      bool
	Dealer     bool
	SmallBlind bool
	BigBlind   bool

	// Committed is the amount put in during the current betting round.
	Committed int
	// Contributed is the running total for the whole hand.
	Contributed int
	// Acted is set once the player acts voluntarily this round. Posting a
	// blind does not count.
	Acted      bool
	LastAction Action
}

// InHand reports whether the player still contests the pot.
func (p *Player) InHand() bool {
	return p.Hand.Status == Active || p.Hand.Status == StatusAllIn
}

// CanAct reports whether the player may still take actions this hand.
func (p *Player) CanAct() bool {
	return p.Hand.Status == Active
}

// clone returns a deep copy for snapshots.
func (p *Player) clone() *Player {
	c := *p
	return &c
}
