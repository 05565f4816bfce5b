package game

import (
	"slices"

	"github.com/lox/pokertable/poker"
)

// Pot is a main or side pot.
type Pot struct {
	Amount int
	// Eligible lists the seats that may win the pot, ascending.
	Eligible []int
}

// Award is a share of one pot paid to one seat.
type Award struct {
	Seat   int
	Pot    int
	Amount int
	// Hand describes the winning hand, or "All others folded".
	Hand string
}

// UncontestedHand is the description recorded for a pot won without a
// showdown.
const UncontestedHand = "All others folded"

// TotalPots sums pot amounts.
func TotalPots(pots []Pot) int {
	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	return total
}

// BuildPots splits hand contributions into a main pot and side pots. Each
// distinct contribution level of a seat still in the hand closes one pot;
// every seat pays into a pot up to that level, folded or not, but only seats
// in the hand that reached the level are eligible. Chips above the highest
// live level, which only folded seats can leave, go to the last pot. Empty
// pots are never produced and the pot total always equals the contribution
// total.
func BuildPots(contributions map[int]int, inHand map[int]bool) []Pot {
	total := 0
	var levels []int
	for seat, c := range contributions {
		total += c
		if inHand[seat] && c > 0 && !slices.Contains(levels, c) {
			levels = append(levels, c)
		}
	}
	if total == 0 {
		return nil
	}
	if len(levels) == 0 {
		return []Pot{{Amount: total}}
	}
	slices.Sort(levels)

	var pots []Pot
	prev, collected := 0, 0
	for _, level := range levels {
		pot := Pot{}
		for seat, c := range contributions {
			pot.Amount += min(c, level) - min(c, prev)
			if inHand[seat] && c >= level {
				pot.Eligible = append(pot.Eligible, seat)
			}
		}
		slices.Sort(pot.Eligible)
		if pot.Amount > 0 {
			pots = append(pots, pot)
			collected += pot.Amount
		}
		prev = level
	}
	pots[len(pots)-1].Amount += total - collected
	return pots
}

// clockwiseFrom orders seats by distance clockwise from the seat after
// button, so the first seat left of the button comes first.
func clockwiseFrom(button int, seats []int) []int {
	out := slices.Clone(seats)
	dist := func(s int) int { return ((s-button-1)%MaxSeats + MaxSeats) % MaxSeats }
	slices.SortFunc(out, func(a, b int) int { return dist(a) - dist(b) })
	return out
}

// AwardPots pays each pot to the best hand among its eligible seats. Ties
// split by integer division and the odd chips go to the first tied winner
// clockwise from the button. Seats without an entry in hands cannot win. A
// pot with no eligible hand is paid to nobody and reported with Seat NoSeat.
func AwardPots(pots []Pot, hands map[int]poker.HandValue, button int) []Award {
	var awards []Award
	for i, pot := range pots {
		var contenders []int
		var values []poker.HandValue
		for _, seat := range clockwiseFrom(button, pot.Eligible) {
			if hv, ok := hands[seat]; ok {
				contenders = append(contenders, seat)
				values = append(values, hv)
			}
		}
		if len(contenders) == 0 {
			awards = append(awards, Award{Seat: NoSeat, Pot: i, Amount: pot.Amount})
			continue
		}

		winners := poker.Winners(values)
		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		for j, w := range winners {
			amount := share
			if j == 0 {
				amount += remainder
			}
			awards = append(awards, Award{
				Seat:   contenders[w],
				Pot:    i,
				Amount: amount,
				Hand:   values[w].Description(),
			})
		}
	}
	return awards
}

// AwardUncontested pays every pot to seat without evaluating hands.
func AwardUncontested(pots []Pot, seat int) []Award {
	return []Award{{Seat: seat, Amount: TotalPots(pots), Hand: UncontestedHand}}
}

// Winnings totals awards per seat.
func Winnings(awards []Award) map[int]int {
	out := make(map[int]int)
	for _, a := range awards {
		if a.Seat != NoSeat {
			out[a.Seat] += a.Amount
		}
	}
	return out
}
