// Package randutil centralises how seeded rngs are constructed so every
// call site gets reproducible shuffles from a single int64 seed.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from the provided int64.
// rand/v2's PCG wants two 64-bit seeds; both are derived here so callers
// only ever pass one.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// FromTime returns an rng seeded from the current wall clock, for callers
// that do not care about reproducibility.
func FromTime() *rand.Rand {
	return New(time.Now().UnixNano())
}

// splitmix64 finalizer
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
