package table

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"holdem-server/pkg/poker/holdem"
)

func TestCode(t *testing.T) {
	runTest := func(t *testing.T, err error, expected string) {
		t.Helper()
		assert.Equal(t, expected, Code(err))
	}

	runTest(t, nil, "")
	runTest(t, fmt.Errorf("%w: raise must be to at least ${20}", holdem.ErrIllegalAction), "illegal_action")
	runTest(t, holdem.ErrNotYourTurn, "not_your_turn")
	runTest(t, fmt.Errorf("%w: you are folded", holdem.ErrNotEligibleToAct), "not_eligible_to_act")
	runTest(t, holdem.ErrHandNotActive, "hand_not_active")
	runTest(t, fmt.Errorf("hand aborted: %w", holdem.ErrEmptyDeck), "empty_deck")
	runTest(t, ErrTableFull, "table_full")
	runTest(t, fmt.Errorf("%w: seat 3 is taken", ErrSeatUnavailable), "seat_unavailable")
	runTest(t, ErrNotEnoughPlayers, "not_enough_players")
	runTest(t, UserError("something else"), "bad_request")
	runTest(t, errors.New("boom"), "internal_error")
}

func TestIsUserError(t *testing.T) {
	a := assert.New(t)
	a.True(IsUserError(ErrTableFull))
	a.True(IsUserError(holdem.ErrNotYourTurn))
	a.False(IsUserError(holdem.ErrEmptyDeck))
	a.False(IsUserError(errors.New("boom")))
}
