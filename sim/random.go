package sim

import "math/rand/v2"

// NewSource returns a deterministic random source for one robot. The same
// (seed, stream) pair always yields the same sequence of draws.
func NewSource(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// uniform draws from [lo, hi).
func uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// uniformInt draws from [lo, hi], both ends inclusive.
func uniformInt(r *rand.Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}
