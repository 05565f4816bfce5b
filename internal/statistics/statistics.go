package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/pokertable/internal/game"
)

// HandResult summarises one finished hand for aggregation.
type HandResult struct {
	Pot         int        // Total chips in all pots
	BigBlind    int        // Big blind the hand was played at
	Pots        int        // Number of pots built, 1 + side pots
	Uncontested bool       // Won without a showdown
	Street      game.Phase // Last street dealt before the hand ended
}

// FromHand converts an engine hand result.
func FromHand(r *game.HandResult, bigBlind int) HandResult {
	street := game.Preflop
	switch len(r.Board) {
	case 3:
		street = game.Flop
	case 4:
		street = game.Turn
	case 5:
		street = game.River
	}
	return HandResult{
		Pot:         r.Pot(),
		BigBlind:    bigBlind,
		Pots:        len(r.Pots),
		Uncontested: r.Uncontested,
		Street:      street,
	}
}

// PotBB returns the pot size in big blinds.
func (h HandResult) PotBB() float64 {
	if h.BigBlind <= 0 {
		return 0
	}
	return float64(h.Pot) / float64(h.BigBlind)
}

// Statistics accumulates hand results. The zero value is ready to use.
type Statistics struct {
	Hands       int
	Showdowns   int
	Uncontested int
	SidePots    int // Pots beyond the main pot, summed over hands
	SumBB       float64
	SumBB2      float64   // Sum of squares for variance calculation
	Values      []float64 // Pot sizes in bb, for median and percentiles

	// Hands that ended on each street
	Streets map[game.Phase]int

	MaxPotChips int
	MaxPotBB    float64
	BigPots     int // Pots of 50bb or more
}

// Add incorporates a hand.
func (s *Statistics) Add(result HandResult) {
	bb := result.PotBB()
	s.Hands++
	s.SumBB += bb
	s.SumBB2 += bb * bb
	s.Values = append(s.Values, bb)

	if result.Uncontested {
		s.Uncontested++
	} else {
		s.Showdowns++
	}
	if result.Pots > 1 {
		s.SidePots += result.Pots - 1
	}

	if s.Streets == nil {
		s.Streets = make(map[game.Phase]int)
	}
	s.Streets[result.Street]++

	if result.Pot > s.MaxPotChips {
		s.MaxPotChips = result.Pot
		s.MaxPotBB = bb
	}
	if bb >= 50 {
		s.BigPots++
	}
}

// Merge folds other into s.
func (s *Statistics) Merge(other *Statistics) {
	s.Hands += other.Hands
	s.Showdowns += other.Showdowns
	s.Uncontested += other.Uncontested
	s.SidePots += other.SidePots
	s.SumBB += other.SumBB
	s.SumBB2 += other.SumBB2
	s.Values = append(s.Values, other.Values...)
	if len(other.Streets) > 0 && s.Streets == nil {
		s.Streets = make(map[game.Phase]int)
	}
	for street, n := range other.Streets {
		s.Streets[street] += n
	}
	if other.MaxPotChips > s.MaxPotChips {
		s.MaxPotChips = other.MaxPotChips
		s.MaxPotBB = other.MaxPotBB
	}
	s.BigPots += other.BigPots
}

// Mean returns the average pot in big blinds.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance of pot sizes.
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation of pot sizes.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// Median returns the median pot in big blinds.
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the pot size at percentile p in [0, 1], interpolating
// between neighbouring values.
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// ShowdownRate returns the fraction of hands that reached a showdown.
func (s *Statistics) ShowdownRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Showdowns) / float64(s.Hands)
}

// Validate checks the counters agree with each other.
func (s *Statistics) Validate() error {
	if s.Showdowns+s.Uncontested != s.Hands {
		return fmt.Errorf("hand count mismatch: %d showdowns + %d uncontested != %d hands",
			s.Showdowns, s.Uncontested, s.Hands)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("value count mismatch: %d values for %d hands", len(s.Values), s.Hands)
	}
	streets := 0
	for _, n := range s.Streets {
		streets += n
	}
	if streets != s.Hands {
		return fmt.Errorf("street count mismatch: %d streets for %d hands", streets, s.Hands)
	}
	if math.IsNaN(s.SumBB) || math.IsInf(s.SumBB, 0) {
		return fmt.Errorf("invalid pot sum: %f", s.SumBB)
	}
	return nil
}
