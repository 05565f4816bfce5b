package simulator

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/poker"
)

// Decision is what a policy wants to do. Amount is the total bet for Bet and
// Raise and ignored otherwise.
type Decision struct {
	Action game.Action
	Amount int
}

// Policy chooses an action for the seat on the clock.
type Policy interface {
	Decide(rng *rand.Rand, p *game.Player, legal game.LegalActions) Decision
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func(rng *rand.Rand, p *game.Player, legal game.LegalActions) Decision

func (f PolicyFunc) Decide(rng *rand.Rand, p *game.Player, legal game.LegalActions) Decision {
	return f(rng, p, legal)
}

var policies = map[string]Policy{
	"random":     PolicyFunc(Random),
	"calling":    PolicyFunc(Calling),
	"aggressive": PolicyFunc(Aggressive),
}

// PolicyByName returns a built-in policy.
func PolicyByName(name string) (Policy, error) {
	p, ok := policies[name]
	if !ok {
		return nil, fmt.Errorf("unknown policy %q (valid: %v)", name, PolicyNames())
	}
	return p, nil
}

// PolicyNames lists the built-in policies.
func PolicyNames() []string {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Random picks a uniform legal action and, for bets and raises, a uniform
// total between the minimum and the stack.
func Random(rng *rand.Rand, _ *game.Player, legal game.LegalActions) Decision {
	if len(legal.Actions) == 0 {
		return Decision{Action: game.Fold}
	}
	action := legal.Actions[rng.IntN(len(legal.Actions))]
	amount := 0
	if action == game.Bet || action == game.Raise {
		amount = legal.MinRaiseTo
		if legal.MaxRaiseTo > legal.MinRaiseTo {
			amount += rng.IntN(legal.MaxRaiseTo - legal.MinRaiseTo + 1)
		}
	}
	return Decision{Action: action, Amount: amount}
}

// Calling checks when it can and calls otherwise, never folding.
func Calling(_ *rand.Rand, _ *game.Player, legal game.LegalActions) Decision {
	switch {
	case legal.Allows(game.Check):
		return Decision{Action: game.Check}
	case legal.Allows(game.Call):
		return Decision{Action: game.Call}
	case legal.Allows(game.AllIn):
		return Decision{Action: game.AllIn}
	}
	return Decision{Action: game.Fold}
}

// Aggressive raises its good starting hands, shoves its best, and plays the
// rest passively.
func Aggressive(rng *rand.Rand, p *game.Player, legal game.LegalActions) Decision {
	raise := func(to int) Decision {
		to = max(to, legal.MinRaiseTo)
		if to >= legal.MaxRaiseTo {
			return Decision{Action: game.AllIn}
		}
		if legal.Allows(game.Bet) {
			return Decision{Action: game.Bet, Amount: to}
		}
		return Decision{Action: game.Raise, Amount: to}
	}
	canRaise := legal.Allows(game.Bet) || legal.Allows(game.Raise)
	passive := func() Decision {
		if legal.Allows(game.Check) {
			return Decision{Action: game.Check}
		}
		return Decision{Action: game.Fold}
	}

	switch p.Hand.Hole.Categorize() {
	case poker.CategoryPremium:
		if legal.Allows(game.AllIn) && rng.Float64() < 0.3 {
			return Decision{Action: game.AllIn}
		}
		if canRaise {
			return raise(legal.MinRaiseTo + 2*legal.ToCall)
		}
		return Calling(rng, p, legal)
	case poker.CategoryStrong:
		if canRaise {
			return raise(legal.MinRaiseTo)
		}
		return Calling(rng, p, legal)
	case poker.CategoryMedium:
		if legal.Allows(game.Call) && legal.ToCall <= p.Chips/4 {
			return Decision{Action: game.Call}
		}
		return passive()
	default:
		if legal.Allows(game.Call) && rng.Float64() < 0.1 {
			return Decision{Action: game.Call}
		}
		return passive()
	}
}
