package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/poker"
)

func TestBuildPots(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		contrib map[int]int
		inHand  map[int]bool
		want    []Pot
	}{
		{
			name:    "single pot",
			contrib: map[int]int{0: 100, 1: 100, 2: 100},
			inHand:  map[int]bool{0: true, 1: true, 2: true},
			want:    []Pot{{Amount: 300, Eligible: []int{0, 1, 2}}},
		},
		{
			name:    "two short all-ins and a large bet",
			contrib: map[int]int{0: 50, 1: 50, 2: 200},
			inHand:  map[int]bool{0: true, 1: true, 2: true},
			want: []Pot{
				{Amount: 150, Eligible: []int{0, 1, 2}},
				{Amount: 150, Eligible: []int{2}},
			},
		},
		{
			name:    "three levels",
			contrib: map[int]int{1: 25, 4: 75, 6: 150, 9: 150},
			inHand:  map[int]bool{1: true, 4: true, 6: true, 9: true},
			want: []Pot{
				{Amount: 100, Eligible: []int{1, 4, 6, 9}},
				{Amount: 150, Eligible: []int{4, 6, 9}},
				{Amount: 150, Eligible: []int{6, 9}},
			},
		},
		{
			name:    "folded chips count but are not eligible",
			contrib: map[int]int{0: 100, 1: 50, 2: 200},
			inHand:  map[int]bool{1: true, 2: true},
			want: []Pot{
				{Amount: 150, Eligible: []int{1, 2}},
				{Amount: 200, Eligible: []int{2}},
			},
		},
		{
			name:    "folded chips above every live level join the last pot",
			contrib: map[int]int{0: 300, 1: 100, 2: 100},
			inHand:  map[int]bool{1: true, 2: true},
			want:    []Pot{{Amount: 500, Eligible: []int{1, 2}}},
		},
		{
			name:    "blinds only",
			contrib: map[int]int{3: 5, 5: 10},
			inHand:  map[int]bool{5: true},
			want:    []Pot{{Amount: 15, Eligible: []int{5}}},
		},
		{
			name:    "nothing contributed",
			contrib: map[int]int{},
			inHand:  map[int]bool{0: true, 1: true},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pots := BuildPots(tt.contrib, tt.inHand)
			assert.Equal(t, tt.want, pots)

			total := 0
			for _, c := range tt.contrib {
				total += c
			}
			assert.Equal(t, total, TotalPots(pots))
			for _, p := range pots {
				assert.Positive(t, p.Amount)
			}
		})
	}
}

func mustValue(t *testing.T, cards string) poker.HandValue {
	t.Helper()
	hv, err := poker.Evaluate(poker.MustParseCards(cards)...)
	require.NoError(t, err)
	return hv
}

func TestAwardPots(t *testing.T) {
	t.Parallel()

	aces := mustValue(t, "As Ah 7c 8d 2h 3s 9c")
	kings := mustValue(t, "Ks Kh 7c 8d 2h 3s 9c")

	t.Run("side pot goes to the only eligible seat", func(t *testing.T) {
		t.Parallel()
		pots := []Pot{
			{Amount: 150, Eligible: []int{0, 1, 2}},
			{Amount: 150, Eligible: []int{2}},
		}
		hands := map[int]poker.HandValue{0: aces, 1: kings, 2: kings}
		awards := AwardPots(pots, hands, 0)

		assert.Equal(t, []Award{
			{Seat: 0, Pot: 0, Amount: 150, Hand: "Pair of Aces"},
			{Seat: 2, Pot: 1, Amount: 150, Hand: "Pair of Kings"},
		}, awards)
	})

	t.Run("odd chip goes to first winner left of the button", func(t *testing.T) {
		t.Parallel()
		pots := []Pot{{Amount: 101, Eligible: []int{3, 7}}}
		hands := map[int]poker.HandValue{3: aces, 7: aces}

		won := Winnings(AwardPots(pots, hands, 0))
		assert.Equal(t, map[int]int{3: 51, 7: 50}, won)

		won = Winnings(AwardPots(pots, hands, 5))
		assert.Equal(t, map[int]int{3: 50, 7: 51}, won)
	})

	t.Run("three way split conserves chips", func(t *testing.T) {
		t.Parallel()
		pots := []Pot{{Amount: 100, Eligible: []int{1, 2, 4}}}
		hands := map[int]poker.HandValue{1: aces, 2: aces, 4: aces}
		won := Winnings(AwardPots(pots, hands, 9))
		assert.Equal(t, map[int]int{1: 34, 2: 33, 4: 33}, won)
	})

	t.Run("seats without a hand cannot win", func(t *testing.T) {
		t.Parallel()
		pots := []Pot{{Amount: 60, Eligible: []int{0, 1}}}
		won := Winnings(AwardPots(pots, map[int]poker.HandValue{1: kings}, 0))
		assert.Equal(t, map[int]int{1: 60}, won)
	})
}

func TestAwardUncontested(t *testing.T) {
	t.Parallel()

	pots := BuildPots(map[int]int{0: 30, 1: 30}, map[int]bool{1: true})
	awards := AwardUncontested(pots, 1)
	require.Len(t, awards, 1)
	assert.Equal(t, Award{Seat: 1, Amount: 60, Hand: UncontestedHand}, awards[0])
}
