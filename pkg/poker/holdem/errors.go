package holdem

import (
	"fmt"

	"holdem-server/pkg/deck"
)

// Error is an error caused by a player
// The message is safe to show to the player
type Error string

func (e Error) Error() string {
	return string(e)
}

// errors returned by the engine
const (
	ErrIllegalAction    Error = "illegal action"
	ErrNotYourTurn      Error = "it is not your turn"
	ErrNotEligibleToAct Error = "you are not eligible to act"
	ErrHandNotActive    Error = "hand is not active"
)

// ErrEmptyDeck is returned when the deck runs out mid-hand
// The hand is aborted and all bets are returned
var ErrEmptyDeck = deck.ErrEmptyDeck

func illegalAction(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrIllegalAction, fmt.Sprintf(format, a...))
}

func notEligible(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotEligibleToAct, fmt.Sprintf(format, a...))
}
