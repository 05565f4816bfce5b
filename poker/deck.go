package poker

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrDeckExhausted is returned when more cards are requested than remain.
var ErrDeckExhausted = errors.New("deck exhausted")

// Source picks uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Deck is a 52-card deck consumed front to back by Deal and Burn.
type Deck struct {
	cards [NumCards]Card
	next  int
}

// NewDeck returns a full deck in canonical order: clubs, diamonds, hearts,
// spades, each deuce through ace.
func NewDeck() *Deck {
	d := &Deck{}
	for i := range d.cards {
		d.cards[i] = Card(i)
	}
	return d
}

// NewShuffledDeck returns a full deck shuffled with rng.
func NewShuffledDeck(rng Source) *Deck {
	d := NewDeck()
	d.Shuffle(rng)
	return d
}

// NewDeckFromCards returns a deck that deals the given cards in order. It is
// used to replay or script hands; the cards must be distinct.
func NewDeckFromCards(cards []Card) (*Deck, error) {
	if len(cards) > NumCards {
		return nil, fmt.Errorf("deck of %d cards: %w", len(cards), ErrCardCount)
	}
	var seen CardSet
	d := &Deck{next: NumCards - len(cards)}
	for i, c := range cards {
		if !c.Valid() {
			return nil, fmt.Errorf("card %d out of range", c)
		}
		if seen.Contains(c) {
			return nil, fmt.Errorf("card %s: %w", c, ErrDuplicateCard)
		}
		seen = seen.Add(c)
		d.cards[d.next+i] = c
	}
	return d, nil
}

// Shuffle applies a Fisher-Yates shuffle to the undealt cards. For n cards it
// performs exactly n-1 swaps, each with j drawn uniformly from [0, i].
func (d *Deck) Shuffle(rng Source) {
	rest := d.cards[d.next:]
	for i := len(rest) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		rest[i], rest[j] = rest[j], rest[i]
	}
}

// Shuffle returns a uniformly random permutation of cards without modifying
// the input.
func Shuffle(cards []Card, rng Source) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Deal removes and returns the next n cards.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 || d.next+n > len(d.cards) {
		return nil, fmt.Errorf("deal %d with %d remaining: %w", n, d.Remaining(), ErrDeckExhausted)
	}
	out := make([]Card, n)
	copy(out, d.cards[d.next:d.next+n])
	d.next += n
	return out, nil
}

// Burn discards the next card without exposing it.
func (d *Deck) Burn() error {
	if d.next >= len(d.cards) {
		return fmt.Errorf("burn: %w", ErrDeckExhausted)
	}
	d.next++
	return nil
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Cards returns a copy of the undealt cards in dealing order.
func (d *Deck) Cards() []Card {
	out := make([]Card, d.Remaining())
	copy(out, d.cards[d.next:])
	return out
}

// A compile-time check that the standard generator works as a Source.
var _ Source = (*rand.Rand)(nil)
