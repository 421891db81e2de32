package holdem

import (
	"holdem-server/pkg/deck"
	"holdem-server/pkg/poker/action"
	"holdem-server/pkg/poker/potmanager"
)

// PlayerState is a player as seen by a viewer
type PlayerState struct {
	PlayerID  string `json:"playerId"`
	SeatIndex int    `json:"seatIndex"`
	Stack     int    `json:"stack"`
	Bet       int    `json:"currentBet"`
	TotalBet  int    `json:"totalBet"`
	Status    Status `json:"status"`
	Connected bool   `json:"connected"`

	// Cards are only present for the viewer's own seat, or for hands shown at showdown
	Cards    deck.Hand `json:"cards"`
	Hand     string    `json:"hand,omitempty"`
	Winnings int       `json:"winnings"`
}

// Choices are the actions available to the player on the clock
type Choices struct {
	Actions    []action.Type `json:"actions"`
	CallAmount int           `json:"callAmount"`
	MinRaiseTo int           `json:"minRaiseTo"`
	MaxRaiseTo int           `json:"maxRaiseTo"`
}

// State is the state of a hand as seen by a viewer
type State struct {
	HandNumber     int             `json:"handNumber"`
	Phase          Phase           `json:"phase"`
	DealerSeat     int             `json:"dealerSeat"`
	SmallBlindSeat int             `json:"smallBlindSeat"`
	BigBlindSeat   int             `json:"bigBlindSeat"`
	SmallBlind     int             `json:"smallBlind"`
	BigBlind       int             `json:"bigBlind"`
	ActionPlayerID string          `json:"actionPlayerId"`
	TableBet       int             `json:"tableBet"`
	MinRaise       int             `json:"minRaise"`
	Pot            int             `json:"pot"`
	Pots           potmanager.Pots `json:"pots"`
	Community      deck.Hand       `json:"community"`
	Players        []*PlayerState  `json:"players"`
	LastAction     *ActionRecord   `json:"lastAction"`
	Choices        *Choices        `json:"choices,omitempty"`
	Outcome        *Outcome        `json:"outcome,omitempty"`
}

// State returns the hand as seen by viewerID
// Other players' hole cards are hidden until they are shown at showdown
func (h *Hand) State(viewerID string) *State {
	s := &State{
		HandNumber:     h.options.HandNumber,
		Phase:          h.phase,
		DealerSeat:     h.order[h.dealerIndex].seatIndex,
		SmallBlindSeat: h.order[h.smallBlindIndex].seatIndex,
		BigBlindSeat:   h.order[h.bigBlindIndex].seatIndex,
		SmallBlind:     h.options.SmallBlind,
		BigBlind:       h.options.BigBlind,
		TableBet:       h.tableBet,
		MinRaise:       h.minRaise,
		Community:      h.community.Clone(),
		Players:        make([]*PlayerState, len(h.order)),
		Outcome:        h.outcome,
	}

	if turn, ok := h.CurrentTurn(); ok {
		s.ActionPlayerID = turn
	}

	if n := len(h.actions); n > 0 {
		last := h.actions[n-1]
		s.LastAction = &last
	}

	if h.outcome != nil {
		s.Pots = h.outcome.Pots
	} else {
		s.Pots = potmanager.Calculate(h.contributions())
	}

	for i, p := range h.order {
		s.Pot += p.totalBet
		s.Players[i] = h.playerState(p, p.PlayerID == viewerID)
	}

	if h.outcome != nil && !h.outcome.Aborted {
		// chips have moved from the pot to the winners
		s.Pot = 0
	}

	if s.ActionPlayerID != "" && s.ActionPlayerID == viewerID {
		s.Choices = h.choices(h.participants[viewerID])
	}

	return s
}

func (h *Hand) playerState(p *participant, isViewer bool) *PlayerState {
	ps := &PlayerState{
		PlayerID:  p.PlayerID,
		SeatIndex: p.seatIndex,
		Stack:     p.stack,
		Bet:       p.bet,
		TotalBet:  p.totalBet,
		Status:    p.status,
		Connected: p.connected,
		Winnings:  p.winnings,
	}

	if (isViewer || p.revealed) && len(p.cards) > 0 {
		ps.Cards = p.cards.Clone()
		ps.Hand = p.evaluate(h.community).Description()
	}

	return ps
}

func (h *Hand) choices(p *participant) *Choices {
	c := &Choices{
		Actions:    []action.Type{action.TypeFold},
		MaxRaiseTo: p.bet + p.stack,
	}

	if p.bet == h.tableBet {
		c.Actions = append(c.Actions, action.TypeCheck)
	} else {
		c.Actions = append(c.Actions, action.TypeCall)
		c.CallAmount = min(h.tableBet-p.bet, p.stack)
	}

	if c.MaxRaiseTo > h.tableBet && !p.capped {
		c.MinRaiseTo = min(h.tableBet+h.minRaise, c.MaxRaiseTo)
		if h.tableBet == 0 {
			c.Actions = append(c.Actions, action.TypeBet)
		} else {
			c.Actions = append(c.Actions, action.TypeRaise)
		}
	}

	return c
}
