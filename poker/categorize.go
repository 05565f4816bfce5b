package poker

// HoleCardCategory is a coarse preflop strength tier.
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "Premium"
	CategoryStrong  HoleCardCategory = "Strong"
	CategoryMedium  HoleCardCategory = "Medium"
	CategoryWeak    HoleCardCategory = "Weak"
	CategoryTrash   HoleCardCategory = "Trash"
	CategoryUnknown HoleCardCategory = "Unknown"
)

// Categorize gives a simple preflop tier for two hole cards.
// Premium: JJ+ and AK. Strong: TT, AQ, AJ. Medium: 77-99 and suited
// broadway. Weak: 22-66 and suited cards at most two ranks apart.
func (h HoleCards) Categorize() HoleCardCategory {
	if !h[0].Valid() || !h[1].Valid() || h[0] == h[1] {
		return CategoryUnknown
	}

	lo, hi := h[0].Rank(), h[1].Rank()
	if lo > hi {
		lo, hi = hi, lo
	}
	pair := lo == hi
	suited := h[0].Suit() == h[1].Suit()

	switch {
	case pair && lo >= Jack, lo == King && hi == Ace:
		return CategoryPremium
	case pair && lo == Ten, hi == Ace && (lo == Queen || lo == Jack):
		return CategoryStrong
	case pair && lo >= Seven, suited && lo >= Ten:
		return CategoryMedium
	case pair, suited && hi-lo <= 2:
		return CategoryWeak
	}
	return CategoryTrash
}
