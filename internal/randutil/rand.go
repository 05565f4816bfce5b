// Package randutil derives reproducible random generators from integer seeds.
package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Both PCG words are derived from the seed so nearby seeds still diverge.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Stream returns the generator for one of several independent streams that
// share a base seed, e.g. one per simulated table.
func Stream(seed int64, stream int) *rand.Rand {
	return New(int64(mix(uint64(seed) ^ mix(uint64(stream)+1))))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
