package story

import "math/rand/v2"

// RandomSource is the randomness used for category fallback and technique
// shuffling. *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

type globalSource struct{}

func (globalSource) IntN(n int) int                      { return rand.IntN(n) }
func (globalSource) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// DefaultRandom returns a source backed by the goroutine-safe global generator.
func DefaultRandom() RandomSource {
	return globalSource{}
}
