package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/poker"
)

func TestStatisticsEmpty(t *testing.T) {
	t.Parallel()

	var stats Statistics
	assert.Zero(t, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Zero(t, stats.StdDev())
	assert.Zero(t, stats.Median())
	assert.Zero(t, stats.Percentile(0.9))
	assert.Zero(t, stats.ShowdownRate())
	assert.NoError(t, stats.Validate())
}

func TestStatisticsAdd(t *testing.T) {
	t.Parallel()

	var stats Statistics
	stats.Add(HandResult{Pot: 15, BigBlind: 10, Pots: 1, Uncontested: true, Street: game.Preflop})
	stats.Add(HandResult{Pot: 40, BigBlind: 10, Pots: 1, Uncontested: false, Street: game.River})
	stats.Add(HandResult{Pot: 600, BigBlind: 10, Pots: 3, Uncontested: false, Street: game.River})

	require.NoError(t, stats.Validate())
	assert.Equal(t, 3, stats.Hands)
	assert.Equal(t, 2, stats.Showdowns)
	assert.Equal(t, 1, stats.Uncontested)
	assert.Equal(t, 2, stats.SidePots)
	assert.Equal(t, 600, stats.MaxPotChips)
	assert.InDelta(t, 60.0, stats.MaxPotBB, 1e-9)
	assert.Equal(t, 1, stats.BigPots)
	assert.Equal(t, map[game.Phase]int{game.Preflop: 1, game.River: 2}, stats.Streets)

	assert.InDelta(t, (1.5+4+60)/3, stats.Mean(), 1e-9)
	assert.InDelta(t, 4.0, stats.Median(), 1e-9)
	assert.InDelta(t, 1.5, stats.Percentile(0), 1e-9)
	assert.InDelta(t, 60.0, stats.Percentile(1), 1e-9)
	assert.InDelta(t, 2.75, stats.Percentile(0.25), 1e-9)
	assert.InDelta(t, 2.0/3, stats.ShowdownRate(), 1e-9)
	assert.Greater(t, stats.StdDev(), 0.0)
}

func TestStatisticsMerge(t *testing.T) {
	t.Parallel()

	var a, b, all Statistics
	hands := []HandResult{
		{Pot: 20, BigBlind: 10, Pots: 1, Uncontested: true, Street: game.Flop},
		{Pot: 90, BigBlind: 10, Pots: 2, Street: game.River},
		{Pot: 30, BigBlind: 10, Pots: 1, Street: game.Turn},
		{Pot: 700, BigBlind: 10, Pots: 1, Street: game.River},
	}
	for i, h := range hands {
		if i%2 == 0 {
			a.Add(h)
		} else {
			b.Add(h)
		}
		all.Add(h)
	}

	a.Merge(&b)
	require.NoError(t, a.Validate())
	assert.Equal(t, all.Hands, a.Hands)
	assert.Equal(t, all.Streets, a.Streets)
	assert.Equal(t, all.MaxPotChips, a.MaxPotChips)
	assert.InDelta(t, all.Mean(), a.Mean(), 1e-9)
	assert.InDelta(t, all.Variance(), a.Variance(), 1e-9)
	assert.InDelta(t, all.Median(), a.Median(), 1e-9)

	var empty Statistics
	empty.Merge(&Statistics{})
	assert.NoError(t, empty.Validate())
}

func TestStatisticsValidateDetectsMismatch(t *testing.T) {
	t.Parallel()

	stats := Statistics{Hands: 2, Showdowns: 1}
	assert.ErrorContains(t, stats.Validate(), "hand count mismatch")
}

func TestFromHand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		board  int
		street game.Phase
	}{
		{"preflop", 0, game.Preflop},
		{"flop", 3, game.Flop},
		{"turn", 4, game.Turn},
		{"river", 5, game.River},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := &game.HandResult{
				Board:       make([]poker.Card, tt.board),
				Pots:        []game.Pot{{Amount: 30, Eligible: []int{0}}, {Amount: 20, Eligible: []int{1}}},
				Uncontested: tt.board == 0,
			}
			h := FromHand(r, 10)
			assert.Equal(t, tt.street, h.Street)
			assert.Equal(t, 50, h.Pot)
			assert.Equal(t, 2, h.Pots)
			assert.InDelta(t, 5.0, h.PotBB(), 1e-9)
		})
	}
}
