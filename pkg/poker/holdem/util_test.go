package holdem

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdem-server/pkg/deck"
	"holdem-server/pkg/poker/action"
)

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func defaultTestOptions() Options {
	return Options{
		HandNumber: 1,
		DealerSeat: 0,
		SmallBlind: 5,
		BigBlind:   10,
		Seed:       "test-seed",
	}
}

// setupSeats seats p0, p1, ... at seats 0, 1, ...
func setupSeats(stacks ...int) []Seat {
	seats := make([]Seat, len(stacks))
	for i, stack := range stacks {
		seats[i] = Seat{
			PlayerID:  fmt.Sprintf("p%d", i),
			SeatIndex: i,
			Stack:     stack,
			Connected: true,
		}
	}

	return seats
}

func setupHand(t *testing.T, opts Options, stacks ...int) *Hand {
	t.Helper()

	h, err := NewHand(testLogger(), setupSeats(stacks...), opts)
	require.NoError(t, err)
	require.NotNil(t, h)
	return h
}

// rigCards replaces hole cards and the rest of the deck
// the deck is dealt as burn, three flop cards, burn, turn, burn, river
func rigCards(h *Hand, remainingDeck string, holeCards ...string) {
	for i, cards := range holeCards {
		h.order[i].cards = deck.CardsFromString(cards)
	}

	h.deck.Cards = deck.CardsFromString(remainingDeck)
}

func assertTurn(t *testing.T, h *Hand, playerID string, msgAndArgs ...interface{}) {
	t.Helper()

	turn, ok := h.CurrentTurn()
	assert.True(t, ok, msgAndArgs...)
	assert.Equal(t, playerID, turn, msgAndArgs...)
}

func assertSubmit(t *testing.T, h *Hand, playerID string, act action.Action, msgAndArgs ...interface{}) *Result {
	t.Helper()

	res, err := h.Submit(playerID, act)
	assert.NoError(t, err, msgAndArgs...)
	assert.NotNil(t, res, msgAndArgs...)
	return res
}

func assertSubmitFailed(t *testing.T, h *Hand, playerID string, act action.Action, expectedErr string, msgAndArgs ...interface{}) {
	t.Helper()

	res, err := h.Submit(playerID, act)
	assert.EqualError(t, err, expectedErr, msgAndArgs...)
	assert.Nil(t, res, msgAndArgs...)
}

func (h *Hand) participant(playerID string) *participant {
	return h.participants[playerID]
}

// totalChips is every chip in a stack or in the pot
func totalChips(h *Hand) int {
	total := 0
	for _, p := range h.order {
		total += p.stack
		if h.outcome == nil {
			total += p.totalBet
		}
	}

	return total
}
