package holdem

import (
	"holdem-server/pkg/deck"
	"holdem-server/pkg/poker/handanalyzer"
)

// Status is the status of a player in the hand
type Status string

// status constants
const (
	StatusActive     Status = "active"
	StatusFolded     Status = "folded"
	StatusAllIn      Status = "all-in"
	StatusSittingOut Status = "sitting-out"
)

// Seat is a player taking part in a hand
type Seat struct {
	PlayerID  string `json:"playerId"`
	SeatIndex int    `json:"seatIndex"`
	Stack     int    `json:"stack"`
	Connected bool   `json:"connected"`
}

type participant struct {
	PlayerID      string
	seatIndex     int
	stack         int
	startingStack int
	cards         deck.Hand

	// bet is how much was put in during the current betting round
	bet int
	// totalBet is how much was put in during the whole hand
	totalBet int

	status    Status
	connected bool

	// acted is true if the participant acted since the last bet or raise
	acted bool
	// capped is true if a short all-in left the participant only calling or folding
	capped   bool
	revealed bool
	winnings int
}

func newParticipant(seat Seat) *participant {
	return &participant{
		PlayerID:      seat.PlayerID,
		seatIndex:     seat.SeatIndex,
		stack:         seat.Stack,
		startingStack: seat.Stack,
		cards:         make(deck.Hand, 0, 2),
		status:        StatusActive,
		connected:     seat.Connected,
	}
}

// commit moves chips from the stack to the bet, going all-in when the stack runs out
// returns the amount actually moved
func (p *participant) commit(amount int) int {
	if amount >= p.stack {
		amount = p.stack
		p.status = StatusAllIn
	}

	p.stack -= amount
	p.bet += amount
	p.totalBet += amount

	return amount
}

// isContesting returns true if the participant can still win the pot
func (p *participant) isContesting() bool {
	return p.status == StatusActive || p.status == StatusAllIn
}

// leave removes the participant from contention, hiding their cards
func (p *participant) leave(status Status) {
	p.status = status
	p.cards = nil
	p.revealed = false
}

func (p *participant) evaluate(community deck.Hand) *handanalyzer.Result {
	if len(p.cards) == 0 {
		return nil
	}

	cards := append(p.cards.Clone(), community...)
	return handanalyzer.Evaluate(cards)
}
