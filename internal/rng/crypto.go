package rng

import (
	"crypto/rand"
	"math/big"
)

// Crypto wraps the crypto/rand library
// The seed is ignored, so shuffles made with this source cannot be replayed
type Crypto struct{}

// Name returns the algorithm identifier
func (Crypto) Name() string {
	return "crypto"
}

// New returns the generator. The seed is not used
func (c Crypto) New(string) Generator {
	return c
}

// Intn returns a random number from 0 < n
func (c Crypto) Intn(n int) int {
	b, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(b.Int64())
}
