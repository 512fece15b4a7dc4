package tree

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Source produces uniformly distributed floats in [0, 1). Trees draw every
// random decision from a Source so that builds can be replayed.
type Source interface {
	Float64() float64
}

// NewRandom returns a PCG generator keyed by seed. Equal seeds give equal
// sequences on every platform.
func NewRandom(seed string) *rand.Rand {
	hi := xxhash.Sum64String(seed)
	lo := xxhash.Sum64String("lodvec:" + seed)
	return rand.New(rand.NewPCG(hi, lo))
}

// NewSeed generates a fresh session seed.
func NewSeed() string {
	return uuid.NewString()
}
