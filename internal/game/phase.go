package game

// Phase is the position of a table in the hand lifecycle.
type Phase int

const (
	Waiting Phase = iota
	Dealing
	Preflop
	Flop
	Turn
	River
	Showdown
	HandComplete
)

func (p Phase) String() string {
	switch p {
	case Waiting:
		return "waiting"
	case Dealing:
		return "dealing"
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	case HandComplete:
		return "hand complete"
	default:
		return "unknown"
	}
}

// IsBetting reports whether players act during the phase.
func (p Phase) IsBetting() bool {
	return p >= Preflop && p <= River
}

// communityCards is how many board cards are dealt on entering each street.
func (p Phase) communityCards() int {
	switch p {
	case Flop:
		return 3
	case Turn, River:
		return 1
	}
	return 0
}
