package testenv

import (
	"math"
	"math/rand"
)

// RandSamples creates n samples spanning the full int32 range, including negative values.
func RandSamples(rng *rand.Rand, n int) []int32 {
	samples := make([]int32, n)
	for i := range samples {
		samples[i] = int32(rng.Uint32())
	}
	return samples
}

// RandSamplesIn creates n samples uniformly distributed in [lo, hi].
func RandSamplesIn(rng *rand.Rand, n int, lo, hi int32) []int32 {
	samples := make([]int32, n)
	span := int64(hi) - int64(lo) + 1
	for i := range samples {
		samples[i] = int32(int64(lo) + rng.Int63n(span))
	}
	return samples
}

// EdgeSamples returns samples at the boundaries of int32 and around zero.
func EdgeSamples() []int32 {
	return []int32{
		math.MinInt32, math.MinInt32 + 1, -65537, -65536, -257, -256, -9, -8, -7, -2, -1,
		0, 1, 2, 7, 8, 9, 256, 257, 65536, 65537, math.MaxInt32 - 1, math.MaxInt32,
	}
}

// NewRand creates a random source seeded from the global source.
// The seed is returned so that failures can be reproduced.
func NewRand() (rng *rand.Rand, seed int64) {
	seed = rand.Int63()
	return rand.New(rand.NewSource(seed)), seed
}
