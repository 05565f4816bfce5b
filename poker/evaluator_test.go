package poker

import (
	"math/rand/v2"
	"testing"

	ph "github.com/paulhankin/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cards    string
		category Category
		desc     string
	}{
		{"royal flush", "As Ks Qs Js Ts", StraightFlush, "Royal Flush"},
		{"straight flush", "9h 8h 7h 6h 5h", StraightFlush, "Straight Flush, Nine High"},
		{"steel wheel", "5d 4d 3d 2d Ad", StraightFlush, "Straight Flush, Five High"},
		{"quads", "Kc Kd Kh Ks 2c", FourOfAKind, "Four of a Kind, Kings"},
		{"full house", "Qc Qd Qh 5s 5c", FullHouse, "Full House, Queens over Fives"},
		{"flush", "Ac Jc 9c 6c 2c", Flush, "Flush, Ace High"},
		{"straight", "Tc 9d 8h 7s 6c", Straight, "Straight, Ten High"},
		{"wheel", "5c 4d 3h 2s Ac", Straight, "Straight, Five High"},
		{"trips", "6c 6d 6h Ks 2c", ThreeOfAKind, "Three of a Kind, Sixes"},
		{"two pair", "Jc Jd 4h 4s Ac", TwoPair, "Two Pair, Jacks and Fours"},
		{"pair", "Tc Td 8h 4s 2c", OnePair, "Pair of Tens"},
		{"high card", "Ac Qd 8h 4s 2c", HighCard, "Ace High"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hv, err := Evaluate(MustParseCards(tt.cards)...)
			require.NoError(t, err)
			assert.Equal(t, tt.category, hv.Category)
			assert.Equal(t, tt.desc, hv.Description())
		})
	}
}

func TestEvaluateSevenCards(t *testing.T) {
	t.Parallel()

	t.Run("straight flush beats straight on same board", func(t *testing.T) {
		t.Parallel()
		hv := MustEvaluate(MustParseCards("Th 9h Kh Qh Jh 7c 3d")...)
		assert.Equal(t, StraightFlush, hv.Category)
		assert.Equal(t, "Straight Flush, King High", hv.Description())
		assert.ElementsMatch(t, MustParseCards("Kh Qh Jh Th 9h"), hv.Cards[:])
	})

	t.Run("best full house from two trips", func(t *testing.T) {
		t.Parallel()
		hv := MustEvaluate(MustParseCards("9c 9d 9h 4c 4d 4h Ac")...)
		assert.Equal(t, FullHouse, hv.Category)
		assert.Equal(t, "Full House, Nines over Fours", hv.Description())
	})

	t.Run("quads with best kicker", func(t *testing.T) {
		t.Parallel()
		hv := MustEvaluate(MustParseCards("7c 7d 7h 7s Kc Kd 2h")...)
		assert.Equal(t, FourOfAKind, hv.Category)
		assert.Equal(t, King, hv.Ranks[1])
	})

	t.Run("six card straight picks top", func(t *testing.T) {
		t.Parallel()
		hv := MustEvaluate(MustParseCards("2c 3d 4h 5s 6c 7d Kh")...)
		assert.Equal(t, Straight, hv.Category)
		assert.Equal(t, Seven, hv.Ranks[0])
	})

	t.Run("three pair keeps best kicker", func(t *testing.T) {
		t.Parallel()
		hv := MustEvaluate(MustParseCards("Ac Ad Kc Kd Qc Qd 2h")...)
		assert.Equal(t, TwoPair, hv.Category)
		assert.Equal(t, [5]Rank{Ace, King, Queen}, hv.Ranks)
	})
}

func TestCompareOrdering(t *testing.T) {
	t.Parallel()

	// Strictly increasing strength.
	hands := []string{
		"7c 5d 4h 3s 2c",
		"Ac Kd Qh Js 9c",
		"2c 2d 3h 4s 5c",
		"Ac Ad Kh Qs Jc",
		"2c 2d 3h 3s 4c",
		"2c 2d 2h 3s 4c",
		"5c 4d 3h 2s Ac",
		"6c 5d 4h 3s 2c",
		"Ac Kd Qh Js Tc",
		"7c 5c 4c 3c 2c",
		"2c 2d 2h 3s 3c",
		"2c 2d 2h 2s 3c",
		"5c 4c 3c 2c Ac",
		"As Ks Qs Js Ts",
	}

	for i := 1; i < len(hands); i++ {
		lo := MustEvaluate(MustParseCards(hands[i-1])...)
		hi := MustEvaluate(MustParseCards(hands[i])...)
		assert.Equal(t, 1, hi.Compare(lo), "%s should beat %s", hands[i], hands[i-1])
		assert.Equal(t, -1, Compare(lo, hi))
	}

	assert.Equal(t, uint16(1), MustEvaluate(MustParseCards(hands[0])...).Strength)
	assert.Equal(t, uint16(NumClasses), MustEvaluate(MustParseCards(hands[len(hands)-1])...).Strength)
}

func TestCompareTiesIgnoreSuits(t *testing.T) {
	t.Parallel()

	a := MustEvaluate(MustParseCards("Ac Kd Qh Js 9c")...)
	b := MustEvaluate(MustParseCards("Ad Kh Qs Jc 9d")...)
	assert.Equal(t, 0, Compare(a, b))

	board := MustParseCards("Ah Kh Qh Jh Th")
	p1 := MustEvaluate(append(board, MustParseCards("2c 3c")...)...)
	p2 := MustEvaluate(append(MustParseCards("Ah Kh Qh Jh Th"), MustParseCards("9d 8d")...)...)
	assert.Equal(t, 0, Compare(p1, p2))
	assert.Equal(t, []int{0, 1}, Winners([]HandValue{p1, p2}))
}

func TestEvaluateErrors(t *testing.T) {
	t.Parallel()

	_, err := Evaluate(MustParseCards("Ah Kh Qh Jh")...)
	assert.ErrorIs(t, err, ErrCardCount)

	_, err = Evaluate(MustParseCards("Ah Kh Qh Jh Th 9h 8h 7h")...)
	assert.ErrorIs(t, err, ErrCardCount)

	_, err = Evaluate(MustParseCards("Ah Ah Qh Jh Th")...)
	assert.ErrorIs(t, err, ErrDuplicateCard)
}

func TestWinners(t *testing.T) {
	t.Parallel()

	hands := []HandValue{
		MustEvaluate(MustParseCards("Ac Ad Kh Qs Jc")...),
		MustEvaluate(MustParseCards("2c 2d 3h 3s 4c")...),
		MustEvaluate(MustParseCards("2h 2s 3c 3d 4d")...),
	}
	assert.Equal(t, []int{1, 2}, Winners(hands))
	assert.Nil(t, Winners(nil))
}

func TestExhaustiveFiveCardCounts(t *testing.T) {
	if testing.Short() {
		t.Skip("exhaustive enumeration skipped in short mode")
	}
	t.Parallel()

	var counts [NumCategories]int
	strengths := make(map[uint16]bool, NumClasses)
	var hand [5]Card
	for a := Card(0); a < NumCards; a++ {
		hand[0] = a
		for b := a + 1; b < NumCards; b++ {
			hand[1] = b
			for c := b + 1; c < NumCards; c++ {
				hand[2] = c
				for d := c + 1; d < NumCards; d++ {
					hand[3] = d
					for e := d + 1; e < NumCards; e++ {
						hand[4] = e
						hv := evaluateSet(NewCardSet(hand[:]...))
						counts[hv.Category]++
						strengths[hv.Strength] = true
					}
				}
			}
		}
	}

	want := [NumCategories]int{
		HighCard:      1302540,
		OnePair:       1098240,
		TwoPair:       123552,
		ThreeOfAKind:  54912,
		Straight:      10200,
		Flush:         5108,
		FullHouse:     3744,
		FourOfAKind:   624,
		StraightFlush: 40,
	}
	assert.Equal(t, want, counts)
	assert.Len(t, strengths, NumClasses)
	assert.False(t, strengths[0])
}

// toOracle converts a card into the reference evaluator's representation,
// which ranks aces as 1.
func toOracle(t *testing.T, c Card) ph.Card {
	t.Helper()
	rank := int(c.Rank()) + 2
	if c.Rank() == Ace {
		rank = 1
	}
	suits := [...]ph.Suit{ph.Club, ph.Diamond, ph.Heart, ph.Spade}
	card, err := ph.MakeCard(suits[c.Suit()], ph.Rank(rank))
	require.NoError(t, err)
	return card
}

func TestEvaluateAgreesWithReference(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(2024, 10))
	const samples = 3000

	type sample struct {
		ours   HandValue
		oracle int16
	}
	hands := make([]sample, samples)
	for i := range hands {
		deck := NewShuffledDeck(rng)
		cards, err := deck.Deal(7)
		require.NoError(t, err)

		var seven [7]ph.Card
		for j, c := range cards {
			seven[j] = toOracle(t, c)
		}
		hands[i] = sample{ours: MustEvaluate(cards...), oracle: ph.Eval7(&seven)}
	}

	for i := 1; i < samples; i++ {
		a, b := hands[i-1], hands[i]
		want := 0
		switch {
		case a.oracle > b.oracle:
			want = 1
		case a.oracle < b.oracle:
			want = -1
		}
		assert.Equal(t, want, Compare(a.ours, b.ours), "sample %d: %s vs %s", i, a.ours, b.ours)
	}
}

func BenchmarkEvaluate7(b *testing.B) {
	cards := MustParseCards("Th 9h Kh Qh Jh 7c 3d")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = MustEvaluate(cards...)
	}
}
