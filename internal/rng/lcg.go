package rng

import "hash/fnv"

// knuth MMIX constants
const (
	lcgMultiplier = 6364136223846793005
	lcgIncrement  = 1442695040888963407
)

// LCG is a linear-congruential source seeded from a FNV-1a hash of the seed string
// It is reproducible, but it is not cryptographically secure
type LCG struct{}

// Name returns the algorithm identifier
func (LCG) Name() string {
	return "lcg-fnv1a"
}

// New returns a generator for the seed
func (LCG) New(seed string) Generator {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))

	return &lcgGenerator{state: h.Sum64()}
}

type lcgGenerator struct {
	state uint64
}

func (l *lcgGenerator) next() uint64 {
	l.state = l.state*lcgMultiplier + lcgIncrement

	// the low bits of a power-of-two LCG have short periods
	return l.state >> 33
}

// Intn will return a random number up to but not including n
func (l *lcgGenerator) Intn(n int) int {
	if n <= 0 {
		panic("invalid argument to Intn")
	}

	return int(l.next() % uint64(n))
}
