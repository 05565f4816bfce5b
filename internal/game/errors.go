package game

import (
	"errors"
	"fmt"
)

var (
	ErrNotYourTurn       = errors.New("not this seat's turn")
	ErrIllegalAction     = errors.New("illegal action")
	ErrRaiseTooSmall     = errors.New("amount below minimum raise")
	ErrNotEnoughPlayers  = errors.New("at least two players with chips required")
	ErrHandInProgress    = errors.New("hand in progress")
	ErrNoHandInProgress  = errors.New("no hand in progress")
	ErrRoundNotComplete  = errors.New("betting round not complete")
	ErrSeatOccupied      = errors.New("seat occupied")
	ErrSeatEmpty         = errors.New("seat empty")
	ErrInvalidSeat       = errors.New("invalid seat")
	ErrInvalidChipAmount = errors.New("invalid chip amount")
)

// InvariantError reports engine state that can only arise from a bug. It is
// raised with panic, never returned.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("game invariant violated in %s: %s", e.Op, e.Detail)
}

func invariant(op, format string, args ...any) {
	panic(&InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)})
}
