package poker

import (
	"fmt"
	"math/bits"
	"strings"
)

// Rank is a card rank, 0 (deuce) through 12 (ace).
type Rank uint8

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankChars = "23456789TJQKA"

var rankNames = [...]string{
	"Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Jack", "Queen", "King", "Ace",
}

// String returns the single-character rank ("2".."9", "T", "J", "Q", "K", "A").
func (r Rank) String() string {
	if r > Ace {
		return "?"
	}
	return string(rankChars[r])
}

// Name returns the English rank name, e.g. "Queen".
func (r Rank) Name() string {
	if r > Ace {
		return "Unknown"
	}
	return rankNames[r]
}

// Plural returns the plural rank name, e.g. "Sixes".
func (r Rank) Plural() string {
	if r == Six {
		return "Sixes"
	}
	return r.Name() + "s"
}

// Suit is a card suit.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

const suitChars = "cdhs"

var suitSymbols = [...]string{"♣", "♦", "♥", "♠"}

func (s Suit) String() string {
	if s > Spades {
		return "?"
	}
	return string(suitChars[s])
}

// Symbol returns the unicode suit symbol.
func (s Suit) Symbol() string {
	if s > Spades {
		return "?"
	}
	return suitSymbols[s]
}

// IsRed reports whether the suit is hearts or diamonds.
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Card is an immutable playing card packed as suit*13 + rank (0-51).
type Card uint8

// NumCards is the size of a standard deck.
const NumCards = 52

// NewCard creates a card from rank and suit.
func NewCard(r Rank, s Suit) Card {
	return Card(uint8(s)*13 + uint8(r))
}

// Rank returns the rank of the card.
func (c Card) Rank() Rank { return Rank(c % 13) }

// Suit returns the suit of the card.
func (c Card) Suit() Suit { return Suit(c / 13) }

// Valid reports whether the card is one of the 52 cards.
func (c Card) Valid() bool { return c < NumCards }

// String returns the compact form, e.g. "Ah", "Tc".
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank().String() + c.Suit().String()
}

// Pretty returns the rank followed by the suit symbol, e.g. "A♥".
func (c Card) Pretty() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank().String() + c.Suit().Symbol()
}

// ParseCard parses a card such as "As", "td", "10h" or "K♠".
func ParseCard(s string) (Card, error) {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) == 3 && runes[0] == '1' && runes[1] == '0' {
		runes = append([]rune{'T'}, runes[2:]...)
	}
	if len(runes) != 2 {
		return 0, fmt.Errorf("invalid card %q", s)
	}

	rank, ok := parseRank(runes[0])
	if !ok {
		return 0, fmt.Errorf("invalid rank %q in card %q", runes[0], s)
	}
	suit, ok := parseSuit(runes[1])
	if !ok {
		return 0, fmt.Errorf("invalid suit %q in card %q", runes[1], s)
	}
	return NewCard(rank, suit), nil
}

func parseRank(r rune) (Rank, bool) {
	switch r {
	case 't':
		return Ten, true
	case 'j':
		return Jack, true
	case 'q':
		return Queen, true
	case 'k':
		return King, true
	case 'a':
		return Ace, true
	}
	if i := strings.IndexRune(rankChars, r); i >= 0 {
		return Rank(i), true
	}
	return 0, false
}

func parseSuit(r rune) (Suit, bool) {
	switch r {
	case 'c', 'C', '♣', '♧':
		return Clubs, true
	case 'd', 'D', '♦', '♢':
		return Diamonds, true
	case 'h', 'H', '♥', '♡':
		return Hearts, true
	case 's', 'S', '♠', '♤':
		return Spades, true
	}
	return 0, false
}

// ParseCards parses whitespace or comma separated cards ("Ah Kh,Qh") as well
// as concatenated two-character cards ("AhKhQh").
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})

	var cards []Card
	for _, field := range fields {
		if c, err := ParseCard(field); err == nil {
			cards = append(cards, c)
			continue
		}
		runes := []rune(field)
		if len(runes)%2 != 0 {
			return nil, fmt.Errorf("invalid card string %q", field)
		}
		for i := 0; i < len(runes); i += 2 {
			c, err := ParseCard(string(runes[i : i+2]))
			if err != nil {
				return nil, err
			}
			cards = append(cards, c)
		}
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error. Intended for tests.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards %q: %v", s, err))
	}
	return cards
}

// FormatCards joins cards with spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// CardSet is a bitset of cards, one bit per card index.
type CardSet uint64

// NewCardSet builds a set from cards.
func NewCardSet(cards ...Card) CardSet {
	var s CardSet
	for _, c := range cards {
		s = s.Add(c)
	}
	return s
}

// Add returns the set with c included.
func (s CardSet) Add(c Card) CardSet { return s | 1<<c }

// Contains reports whether c is in the set.
func (s CardSet) Contains(c Card) bool { return s&(1<<c) != 0 }

// Len returns the number of cards in the set.
func (s CardSet) Len() int { return bits.OnesCount64(uint64(s)) }

// SuitMask returns the ranks present in suit as a 13-bit mask.
func (s CardSet) SuitMask(suit Suit) uint16 {
	return uint16(s>>(uint(suit)*13)) & 0x1FFF
}
