package table

import (
	"errors"

	"holdem-server/pkg/poker/holdem"
)

// UserError is an error that is safe to return in a response
type UserError string

func (u UserError) Error() string {
	return string(u)
}

// table errors
const (
	ErrTableFull        UserError = "table is full"
	ErrSeatUnavailable  UserError = "seat is not available"
	ErrTableCompleted   UserError = "table is completed"
	ErrNotEnoughPlayers UserError = "not enough players"
	ErrHandInProgress   UserError = "a hand is already in progress"
	ErrNotSeated        UserError = "you are not seated"
	ErrAlreadySeated    UserError = "you are already seated"
	ErrInvalidPassword  UserError = "invalid password"
	ErrNotHost          UserError = "only the host can do that"
)

var codes = []struct {
	err  error
	code string
}{
	{holdem.ErrIllegalAction, "illegal_action"},
	{holdem.ErrNotYourTurn, "not_your_turn"},
	{holdem.ErrNotEligibleToAct, "not_eligible_to_act"},
	{holdem.ErrHandNotActive, "hand_not_active"},
	{holdem.ErrEmptyDeck, "empty_deck"},
	{ErrTableFull, "table_full"},
	{ErrSeatUnavailable, "seat_unavailable"},
	{ErrTableCompleted, "table_completed"},
	{ErrNotEnoughPlayers, "not_enough_players"},
	{ErrHandInProgress, "hand_in_progress"},
	{ErrNotSeated, "not_seated"},
	{ErrAlreadySeated, "already_seated"},
	{ErrInvalidPassword, "invalid_password"},
	{ErrNotHost, "not_host"},
}

// Code returns a stable identifier for the kind of error
// Clients use it to tell rejections apart without parsing messages
func Code(err error) string {
	if err == nil {
		return ""
	}

	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}

	var userErr UserError
	if errors.As(err, &userErr) {
		return "bad_request"
	}

	return "internal_error"
}

// IsUserError returns true if the error can be shown to the player as is
func IsUserError(err error) bool {
	var userErr UserError
	var handErr holdem.Error
	return errors.As(err, &userErr) || errors.As(err, &handErr)
}
