package fishing

import "math/rand/v2"

// Rand is the randomness source of one fight. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a PCG generator seeded for one fight. Equal seeds replay
// equal fights.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
