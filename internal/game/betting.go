package game

import "fmt"

// Action is a player decision.
type Action int

const (
	Fold Action = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

func (a Action) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Bet:
		return "bet"
	case Raise:
		return "raise"
	case AllIn:
		return "allin"
	default:
		return "unknown"
	}
}

// Describe renders an action for a table log. For Call amount is the chips
// added; for Bet, Raise and AllIn it is the new round total.
func (a Action) Describe(name string, amount int) string {
	switch a {
	case Fold:
		return name + " folds"
	case Check:
		return name + " checks"
	case Call:
		return fmt.Sprintf("%s calls %d", name, amount)
	case Bet:
		return fmt.Sprintf("%s bets %d", name, amount)
	case Raise:
		return fmt.Sprintf("%s raises to %d", name, amount)
	case AllIn:
		return fmt.Sprintf("%s is all-in for %d", name, amount)
	default:
		return name + " acts"
	}
}

// Round is the shared state of one betting round. Per-seat commitments and
// acted flags live on each player's Hand.
type Round struct {
	// CurrentBet is the highest total any player has committed this round.
	CurrentBet int
	// MinRaise is the size of the last full bet or raise, the big blind when
	// the round opens. A raise must add at least this much to CurrentBet.
	MinRaise int
	// LastAggressor is the seat that last increased CurrentBet.
	LastAggressor int
	// FullBet is the round total set by the last full bet or raise, or by
	// the blinds preflop. Short all-ins above it leave it unchanged.
	FullBet int
}

// MinRaiseTo is the smallest legal total for a bet or raise.
func (r Round) MinRaiseTo() int {
	return r.CurrentBet + r.MinRaise
}

// RaiseOpen reports whether p may still bet or raise. Once a seat has acted
// it may raise again only after a full raise above its commitment; a short
// all-in only lets it call or fold.
func (r Round) RaiseOpen(p *Player) bool {
	return !p.Hand.Acted || r.FullBet == 0 || p.Hand.Committed < r.FullBet
}

// Outcome is the effect of applying an action to one player.
type Outcome struct {
	// ChipChange is how many chips leave the player's stack.
	ChipChange int
	// Committed is the player's new total for the round.
	Committed int
	Status    Status
	// Action is what actually happened. Calls and raises the stack cannot
	// cover become AllIn.
	Action Action
}

// ProcessAction computes the effect of an action without validating it or
// touching any state. For Bet and Raise the amount is the new total committed
// this round, not the increment.
func ProcessAction(action Action, amount, stack, currentBet, committed int) Outcome {
	allIn := Outcome{
		ChipChange: stack,
		Committed:  committed + stack,
		Status:     StatusAllIn,
		Action:     AllIn,
	}
	stay := func(change int, a Action) Outcome {
		return Outcome{ChipChange: change, Committed: committed + change, Status: Active, Action: a}
	}

	switch action {
	case Fold:
		return Outcome{Committed: committed, Status: Folded, Action: Fold}
	case Check:
		return stay(0, Check)
	case Call:
		toCall := max(currentBet-committed, 0)
		if toCall >= stack {
			return allIn
		}
		return stay(toCall, Call)
	case Bet, Raise:
		inc := max(amount-committed, 0)
		if inc >= stack {
			return allIn
		}
		return stay(inc, action)
	default:
		return allIn
	}
}

// ValidateAction checks an action against the round and returns the action
// to apply. Bet and Raise are interchangeable on input and normalized by
// whether a bet is already outstanding. A bet or raise the stack cannot cover
// becomes AllIn even below the minimum raise.
func ValidateAction(p *Player, r Round, action Action, amount int) (Action, error) {
	if !p.CanAct() {
		return action, fmt.Errorf("seat %d is %s: %w", p.Seat, p.Hand.Status, ErrIllegalAction)
	}
	committed := p.Hand.Committed

	switch action {
	case Fold:
		return Fold, nil
	case Check:
		if committed < r.CurrentBet {
			return action, fmt.Errorf("check facing %d to call: %w", r.CurrentBet-committed, ErrIllegalAction)
		}
		return Check, nil
	case Call:
		if committed >= r.CurrentBet {
			return action, fmt.Errorf("nothing to call: %w", ErrIllegalAction)
		}
		return Call, nil
	case AllIn:
		if committed+p.Chips > r.CurrentBet && !r.RaiseOpen(p) {
			return action, fmt.Errorf("seat %d may not raise after a short all-in: %w", p.Seat, ErrIllegalAction)
		}
		return AllIn, nil
	case Bet, Raise:
		if amount-committed >= p.Chips {
			return ValidateAction(p, r, AllIn, 0)
		}
		if !r.RaiseOpen(p) {
			return action, fmt.Errorf("seat %d may not raise after a short all-in: %w", p.Seat, ErrIllegalAction)
		}
		if amount <= r.CurrentBet {
			return action, fmt.Errorf("%s to %d does not exceed current bet %d: %w", action, amount, r.CurrentBet, ErrIllegalAction)
		}
		if amount < r.MinRaiseTo() {
			return action, fmt.Errorf("%s to %d, minimum is %d: %w", action, amount, r.MinRaiseTo(), ErrRaiseTooSmall)
		}
		if r.CurrentBet == 0 {
			return Bet, nil
		}
		return Raise, nil
	default:
		return action, fmt.Errorf("unknown action %d: %w", action, ErrIllegalAction)
	}
}

// LegalActions describes what the player on the clock may do.
type LegalActions struct {
	Actions []Action
	// ToCall is the chips needed to call, capped at the stack.
	ToCall int
	// MinRaiseTo and MaxRaiseTo bound the total for Bet or Raise. Both are
	// zero when the stack only covers a short all-in or raising is closed.
	MinRaiseTo int
	MaxRaiseTo int
}

// Allows reports whether a is among the legal actions.
func (l LegalActions) Allows(a Action) bool {
	for _, x := range l.Actions {
		if x == a {
			return true
		}
	}
	return false
}

// ValidActions lists the legal actions for p in round r.
func ValidActions(p *Player, r Round) LegalActions {
	if !p.CanAct() {
		return LegalActions{}
	}
	committed := p.Hand.Committed
	toCall := max(r.CurrentBet-committed, 0)
	legal := LegalActions{Actions: []Action{Fold}, ToCall: min(toCall, p.Chips)}

	if toCall == 0 {
		legal.Actions = append(legal.Actions, Check)
	} else if toCall < p.Chips {
		legal.Actions = append(legal.Actions, Call)
	}

	open := r.RaiseOpen(p)
	maxTo := committed + p.Chips
	if open && maxTo > r.MinRaiseTo() {
		raise := Raise
		if r.CurrentBet == 0 {
			raise = Bet
		}
		legal.Actions = append(legal.Actions, raise)
		legal.MinRaiseTo = r.MinRaiseTo()
		legal.MaxRaiseTo = maxTo
	}
	if p.Chips > 0 && (open || maxTo <= r.CurrentBet) {
		legal.Actions = append(legal.Actions, AllIn)
	}
	return legal
}

// IsRoundComplete reports whether no further action is needed this round.
// It holds when at most one player is still in the hand, when nobody in the
// hand can act, when the only player who can act has matched the bet, or when
// every player who can act has acted and matched the bet.
func IsRoundComplete(seats []*Player, currentBet int) bool {
	live, canAct := 0, 0
	var last *Player
	for _, p := range seats {
		if p == nil || !p.InHand() {
			continue
		}
		live++
		if p.CanAct() {
			canAct++
			last = p
		}
	}

	switch {
	case live <= 1, canAct == 0:
		return true
	case canAct == 1 && last.Hand.Committed >= currentBet:
		return true
	}

	for _, p := range seats {
		if p == nil || !p.CanAct() {
			continue
		}
		if !p.Hand.Acted || p.Hand.Committed < currentBet {
			return false
		}
	}
	return true
}

// NextActor scans clockwise from the seat after current and returns the
// first player who can act and still owes action: either they have not acted
// this round or they have not matched currentBet. It returns NoSeat when the
// round is complete. Pass NoSeat as current to start the scan at seat zero.
func NextActor(seats []*Player, current, currentBet int) int {
	if IsRoundComplete(seats, currentBet) {
		return NoSeat
	}
	n := len(seats)
	for i := 1; i <= n; i++ {
		idx := ((current+i)%n + n) % n
		p := seats[idx]
		if p == nil || !p.CanAct() {
			continue
		}
		if !p.Hand.Acted || p.Hand.Committed < currentBet {
			return idx
		}
	}
	return NoSeat
}

// nextSeat returns the first seat clockwise after from that satisfies ok, or
// NoSeat.
func nextSeat(seats []*Player, from int, ok func(*Player) bool) int {
	n := len(seats)
	for i := 1; i <= n; i++ {
		idx := ((from+i)%n + n) % n
		if p := seats[idx]; p != nil && ok(p) {
			return idx
		}
	}
	return NoSeat
}
