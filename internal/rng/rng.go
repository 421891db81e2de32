package rng

import "fmt"

// Generator provides a simple random number
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}

// Source turns a seed into a stream of random numbers
// Shuffling code only depends on this interface, so a stronger source can be swapped in
// without touching the deck
type Source interface {
	// Name identifies the algorithm so a shuffle can be replayed later
	Name() string

	// New returns a generator for the seed
	New(seed string) Generator
}

// Default is the source used when none is configured
var Default Source = LCG{}

var sources = map[string]Source{
	LCG{}.Name():    LCG{},
	Crypto{}.Name(): Crypto{},
}

// SourceByName returns the source registered under name
// An empty name returns Default
func SourceByName(name string) (Source, error) {
	if name == "" {
		return Default, nil
	}

	if src, ok := sources[name]; ok {
		return src, nil
	}

	return nil, fmt.Errorf("unknown shuffle algorithm: %s", name)
}
