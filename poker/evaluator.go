package poker

import (
	"errors"
	"fmt"
	"math/bits"
)

var (
	// ErrCardCount is returned when a hand has too few or too many cards.
	ErrCardCount = errors.New("invalid number of cards")
	// ErrDuplicateCard is returned when the same card appears twice.
	ErrDuplicateCard = errors.New("duplicate card")
)

// Category is the class of a five-card hand, ordered weakest to strongest.
// A royal flush is the ace-high straight flush, not a separate category.
type Category uint8

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// NumCategories is the number of hand categories.
const NumCategories = 9

var categoryNames = [...]string{
	"High Card", "One Pair", "Two Pair", "Three of a Kind", "Straight",
	"Flush", "Full House", "Four of a Kind", "Straight Flush",
}

func (c Category) String() string {
	if int(c) >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[c]
}

// significant is how many tie-break ranks each category carries.
var significant = [NumCategories]int{5, 4, 3, 3, 1, 5, 2, 2, 1}

// HandValue is the evaluated strength of the best five cards in a hand.
// Values are totally ordered by Strength; equal Strength is a tie regardless
// of suits.
type HandValue struct {
	Category Category
	// Ranks holds the tie-break ranks, most significant first. Only the first
	// significant[Category] entries are meaningful; the rest are zero. For
	// straights the single entry is the top card, Five for the wheel.
	Ranks [5]Rank
	// Cards is the chosen five-card hand, ordered by significance.
	Cards [5]Card
	// Strength is the equivalence class, 1 (seven-high) through 7462 (royal
	// flush). Zero means the value was never evaluated.
	Strength uint16
}

// Evaluate finds the best five-card hand among 5 to 7 distinct cards.
func Evaluate(cards ...Card) (HandValue, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return HandValue{}, fmt.Errorf("evaluate %d cards: %w", len(cards), ErrCardCount)
	}
	var set CardSet
	for _, c := range cards {
		if !c.Valid() {
			return HandValue{}, fmt.Errorf("card %d out of range", c)
		}
		if set.Contains(c) {
			return HandValue{}, fmt.Errorf("card %s: %w", c, ErrDuplicateCard)
		}
		set = set.Add(c)
	}
	return evaluateSet(set), nil
}

// MustEvaluate is Evaluate that panics on invalid input. Intended for tests
// and callers that already validated their cards.
func MustEvaluate(cards ...Card) HandValue {
	hv, err := Evaluate(cards...)
	if err != nil {
		panic(err)
	}
	return hv
}

func evaluateSet(set CardSet) HandValue {
	var suitMasks [4]uint16
	var rankMask uint16
	for s := Clubs; s <= Spades; s++ {
		suitMasks[s] = set.SuitMask(s)
		rankMask |= suitMasks[s]
	}

	// With at most seven cards only one suit can hold five, and a flush
	// excludes quads and full houses, so it is safe to decide it first.
	for s, mask := range suitMasks {
		if bits.OnesCount16(mask) < 5 {
			continue
		}
		suit := Suit(s)
		if high, ok := straightHigh(mask); ok {
			return finish(StraightFlush, []Rank{high}, suitedCards(suit, straightRanks(high)))
		}
		top := topRanks(mask, 0, 5)
		return finish(Flush, top, suitedCards(suit, top))
	}

	var counts [13]int
	for r := Two; r <= Ace; r++ {
		for _, mask := range suitMasks {
			if mask&(1<<r) != 0 {
				counts[r]++
			}
		}
	}
	var quads, trips, pairs []Rank
	for r := int(Ace); r >= int(Two); r-- {
		switch counts[r] {
		case 4:
			quads = append(quads, Rank(r))
		case 3:
			trips = append(trips, Rank(r))
		case 2:
			pairs = append(pairs, Rank(r))
		}
	}

	pick := picker{set: set}

	if len(quads) > 0 {
		q := quads[0]
		k := topRanks(rankMask, 1<<q, 1)[0]
		return finish(FourOfAKind, []Rank{q, k}, pick.takeGroups([]Rank{q, k}, []int{4, 1}))
	}

	if len(trips) > 0 {
		t := trips[0]
		p, ok := Rank(0), false
		if len(trips) > 1 {
			p, ok = trips[1], true
		}
		if len(pairs) > 0 && (!ok || pairs[0] > p) {
			p, ok = pairs[0], true
		}
		if ok {
			return finish(FullHouse, []Rank{t, p}, pick.takeGroups([]Rank{t, p}, []int{3, 2}))
		}
	}

	if high, ok := straightHigh(rankMask); ok {
		var cards []Card
		for _, r := range straightRanks(high) {
			cards = append(cards, pick.take(r, 1)...)
		}
		return finish(Straight, []Rank{high}, cards)
	}

	if len(trips) > 0 {
		t := trips[0]
		ks := topRanks(rankMask, 1<<t, 2)
		return finish(ThreeOfAKind, []Rank{t, ks[0], ks[1]}, pick.takeGroups([]Rank{t, ks[0], ks[1]}, []int{3, 1, 1}))
	}

	if len(pairs) >= 2 {
		hi, lo := pairs[0], pairs[1]
		k := topRanks(rankMask, 1<<hi|1<<lo, 1)[0]
		return finish(TwoPair, []Rank{hi, lo, k}, pick.takeGroups([]Rank{hi, lo, k}, []int{2, 2, 1}))
	}

	if len(pairs) == 1 {
		p := pairs[0]
		ks := topRanks(rankMask, 1<<p, 3)
		return finish(OnePair, []Rank{p, ks[0], ks[1], ks[2]}, pick.takeGroups([]Rank{p, ks[0], ks[1], ks[2]}, []int{2, 1, 1, 1}))
	}

	top := topRanks(rankMask, 0, 5)
	var cards []Card
	for _, r := range top {
		cards = append(cards, pick.take(r, 1)...)
	}
	return finish(HighCard, top, cards)
}

func finish(cat Category, ranks []Rank, cards []Card) HandValue {
	hv := HandValue{Category: cat}
	copy(hv.Ranks[:], ranks)
	copy(hv.Cards[:], cards)
	hv.Strength = strengthOf(hv.key())
	return hv
}

// key packs category and tie-break ranks into an order-preserving integer.
func (h HandValue) key() uint32 {
	return classKey(h.Category, h.Ranks[:significant[h.Category]])
}

func classKey(cat Category, ranks []Rank) uint32 {
	k := uint32(cat) << 20
	for i, r := range ranks {
		k |= uint32(r) << (16 - 4*i)
	}
	return k
}

// picker hands out concrete cards of a rank, spades first, never twice.
type picker struct {
	set  CardSet
	used CardSet
}

// take returns n unused cards of rank r.
func (p *picker) take(r Rank, n int) []Card {
	var out []Card
	for s := int(Spades); s >= int(Clubs) && len(out) < n; s-- {
		c := NewCard(r, Suit(s))
		if p.set.Contains(c) && !p.used.Contains(c) {
			p.used = p.used.Add(c)
			out = append(out, c)
		}
	}
	return out
}

// takeGroups concatenates take over rank groups, e.g. trips then a pair.
func (p *picker) takeGroups(ranks []Rank, counts []int) []Card {
	var out []Card
	for i, r := range ranks {
		out = append(out, p.take(r, counts[i])...)
	}
	return out
}

func suitedCards(s Suit, ranks []Rank) []Card {
	out := make([]Card, len(ranks))
	for i, r := range ranks {
		out[i] = NewCard(r, s)
	}
	return out
}

// topRanks returns the n highest ranks in mask, skipping excluded bits.
func topRanks(mask, exclude uint16, n int) []Rank {
	available := mask &^ exclude
	out := make([]Rank, 0, n)
	for len(out) < n && available != 0 {
		top := Rank(bits.Len16(available) - 1)
		out = append(out, top)
		available &^= 1 << top
	}
	for len(out) < n {
		out = append(out, Two)
	}
	return out
}

const wheelMask = 1<<Ace | 1<<Two | 1<<Three | 1<<Four | 1<<Five

// straightHigh returns the top card of the best straight in a rank mask.
func straightHigh(mask uint16) (Rank, bool) {
	for high := Ace; high >= Six; high-- {
		run := uint16(0x1F) << (high - 4)
		if mask&run == run {
			return high, true
		}
	}
	if mask&wheelMask == wheelMask {
		return Five, true
	}
	return 0, false
}

// straightRanks lists the five ranks of a straight, top card first.
func straightRanks(high Rank) []Rank {
	if high == Five {
		return []Rank{Five, Four, Three, Two, Ace}
	}
	return []Rank{high, high - 1, high - 2, high - 3, high - 4}
}

// Compare returns 1 if h beats o, -1 if o beats h and 0 for a tie.
func (h HandValue) Compare(o HandValue) int {
	return Compare(h, o)
}

// Compare returns 1 if a wins, -1 if b wins and 0 for a tie.
func Compare(a, b HandValue) int {
	switch {
	case a.Strength > b.Strength:
		return 1
	case a.Strength < b.Strength:
		return -1
	}
	return 0
}

// Winners returns the indices of every hand tied for best, in input order.
func Winners(hands []HandValue) []int {
	var best []int
	for i, h := range hands {
		if len(best) == 0 {
			best = []int{i}
			continue
		}
		switch Compare(h, hands[best[0]]) {
		case 1:
			best = []int{i}
		case 0:
			best = append(best, i)
		}
	}
	return best
}

// Description returns a human-readable name such as "Full House, Kings over
// Fives" or "Straight, Five High".
func (h HandValue) Description() string {
	r := h.Ranks
	switch h.Category {
	case StraightFlush:
		if r[0] == Ace {
			return "Royal Flush"
		}
		return fmt.Sprintf("Straight Flush, %s High", r[0].Name())
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %s", r[0].Plural())
	case FullHouse:
		return fmt.Sprintf("Full House, %s over %s", r[0].Plural(), r[1].Plural())
	case Flush:
		return fmt.Sprintf("Flush, %s High", r[0].Name())
	case Straight:
		return fmt.Sprintf("Straight, %s High", r[0].Name())
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %s", r[0].Plural())
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", r[0].Plural(), r[1].Plural())
	case OnePair:
		return fmt.Sprintf("Pair of %s", r[0].Plural())
	default:
		return fmt.Sprintf("%s High", r[0].Name())
	}
}

func (h HandValue) String() string {
	return h.Description()
}
