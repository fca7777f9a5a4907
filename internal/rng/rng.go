// Package rng defines the uniform random source the evolution core consumes.
// Nothing here is cryptographic; the sources only need to be fair.
package rng

import (
	"math/rand"
	"time"
)

// Source is a uniform pseudo-random generator. *rand.Rand satisfies it.
// Implementations are not required to be safe for concurrent use.
type Source interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// Intn returns a value in [0, n). It panics if n <= 0.
	Intn(n int) int
	// Int63 returns a non-negative 63-bit integer.
	Int63() int64
}

// New returns a seeded source. A zero seed seeds from the wall clock.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Child derives an independent source from parent. Children derived in the
// same order from an identically seeded parent produce identical streams.
func Child(parent Source) *rand.Rand {
	return rand.New(rand.NewSource(parent.Int63()))
}
