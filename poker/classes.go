package poker

import "slices"

// NumClasses is the number of distinct five-card hand strengths.
const NumClasses = 7462

// classIndex maps a packed class key to its dense strength, 1..NumClasses.
var classIndex = buildClassIndex()

func strengthOf(key uint32) uint16 {
	return classIndex[key]
}

// buildClassIndex enumerates every rank pattern per category, sorts the
// packed keys and numbers them from weakest to strongest.
func buildClassIndex() map[uint32]uint16 {
	keys := make([]uint32, 0, NumClasses)
	add := func(cat Category, ranks ...Rank) {
		keys = append(keys, classKey(cat, ranks))
	}

	// Five distinct ranks: high card and flush, minus the straights.
	forEachDescending(13, 5, 0, func(r []Rank) {
		if _, ok := straightHigh(maskFromRanks(r)); ok {
			return
		}
		add(HighCard, r...)
		add(Flush, r...)
	})

	for high := Five; high <= Ace; high++ {
		add(Straight, high)
		add(StraightFlush, high)
	}

	for p := Two; p <= Ace; p++ {
		forEachDescending(13, 3, 1<<p, func(k []Rank) {
			add(OnePair, p, k[0], k[1], k[2])
		})
		forEachDescending(13, 2, 1<<p, func(k []Rank) {
			add(ThreeOfAKind, p, k[0], k[1])
		})
		for o := Two; o <= Ace; o++ {
			if o == p {
				continue
			}
			add(FullHouse, p, o)
			add(FourOfAKind, p, o)
		}
	}

	forEachDescending(13, 2, 0, func(pp []Rank) {
		forEachDescending(13, 1, 1<<pp[0]|1<<pp[1], func(k []Rank) {
			add(TwoPair, pp[0], pp[1], k[0])
		})
	})

	slices.Sort(keys)
	index := make(map[uint32]uint16, len(keys))
	for i, k := range keys {
		index[k] = uint16(i + 1)
	}
	return index
}

// forEachDescending calls fn with every set of k ranks below n, highest
// first, that avoids the excluded rank bits.
func forEachDescending(n, k int, exclude uint16, fn func([]Rank)) {
	buf := make([]Rank, k)
	var rec func(pos, below int)
	rec = func(pos, below int) {
		if pos == k {
			fn(buf)
			return
		}
		for r := below - 1; r >= k-pos-1; r-- {
			if exclude&(1<<r) != 0 {
				continue
			}
			buf[pos] = Rank(r)
			rec(pos+1, r)
		}
	}
	rec(0, n)
}

func maskFromRanks(ranks []Rank) uint16 {
	var mask uint16
	for _, r := range ranks {
		mask |= 1 << r
	}
	return mask
}
