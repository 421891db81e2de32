package table

import (
	"errors"
	"fmt"
	"time"

	"holdem-server/internal/rng"
	"holdem-server/pkg/poker/holdem"
)

// MinSeats is the smallest table that can be hosted
const MinSeats = 2

// Options configures a table
type Options struct {
	// ID is generated if empty
	ID     string
	Name   string
	HostID string

	MaxSeats      int
	SmallBlind    int
	BigBlind      int
	StartingStack int

	// RequireReady requires every seated player to signal ready before a hand starts
	RequireReady bool
	// Password is optional
	Password string

	// DisconnectGrace is how long a disconnected seat keeps its place in hands
	DisconnectGrace time.Duration
	// InterHandDelay is the pause after a hand before the next one starts
	InterHandDelay time.Duration
	// EmptyRetention is how long an empty table is kept around
	EmptyRetention time.Duration

	// Source shuffles the deck, rng.Default if nil
	Source rng.Source
}

// DefaultOptions returns a table configuration suitable for casual play
func DefaultOptions() Options {
	return Options{
		Name:            "Hold'em",
		MaxSeats:        holdem.MaxSeats,
		SmallBlind:      5,
		BigBlind:        10,
		StartingStack:   1000,
		DisconnectGrace: 30 * time.Second,
		InterHandDelay:  5 * time.Second,
		EmptyRetention:  5 * time.Minute,
	}
}

// Validate ensures the options can host a game
func (o Options) Validate() error {
	if o.MaxSeats < MinSeats || o.MaxSeats > holdem.MaxSeats {
		return fmt.Errorf("seats must be between %d and %d", MinSeats, holdem.MaxSeats)
	}

	if o.SmallBlind <= 0 {
		return errors.New("small blind must be greater than zero")
	}

	if o.BigBlind < o.SmallBlind {
		return errors.New("big blind must be at least the small blind")
	}

	if o.StartingStack < o.BigBlind {
		return errors.New("starting stack must cover the big blind")
	}

	if o.DisconnectGrace < 0 || o.InterHandDelay < 0 || o.EmptyRetention < 0 {
		return errors.New("durations cannot be negative")
	}

	return nil
}
