package holdem

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"holdem-server/pkg/poker/action"
)

// Origin is what caused an entry in the action log
type Origin string

// origin constants
const (
	OriginPlayer    Origin = "player"
	OriginForceFold Origin = "force-fold"
	OriginSitOut    Origin = "sit-out"
)

// ActionRecord is an entry in the action log
type ActionRecord struct {
	Seq      int    `json:"seq"`
	PlayerID string `json:"playerId"`
	Phase    Phase  `json:"phase"`
	Origin   Origin `json:"origin"`

	// Requested and RequestedAmount are what the player submitted
	Requested       action.Type `json:"requested"`
	RequestedAmount int         `json:"requestedAmount"`

	// Type is what the action counted as, i.e., an all-in for less than the bet is a call
	Type action.Type `json:"type"`
	// Total is the player's bet for the round after the action
	Total int `json:"total"`
	// Added is how many chips went in with this action
	Added int  `json:"added"`
	AllIn bool `json:"allIn"`
}

// Result is the outcome of a submitted action
type Result struct {
	Action   ActionRecord `json:"action"`
	Phase    Phase        `json:"phase"`
	Complete bool         `json:"complete"`
}

// plan is a validated action that has not been applied yet
type plan struct {
	typ action.Type
	// to is the participant's bet for the round once applied
	to int
	// fullRaise is true if the bet or raise was at least the minimum raise
	fullRaise bool
}

// Submit performs a player's action
// The action is either fully applied or rejected without changing anything
func (h *Hand) Submit(playerID string, act action.Action) (*Result, error) {
	if !h.phase.IsBettingRound() {
		return nil, ErrHandNotActive
	}

	p, ok := h.participants[playerID]
	if !ok {
		return nil, notEligible("you are not in this hand")
	}

	switch {
	case p.status != StatusActive:
		return nil, notEligible("you are %s", p.status)
	case !p.connected:
		return nil, notEligible("you are disconnected")
	case h.order[h.actionIndex] != p:
		return nil, ErrNotYourTurn
	}

	pl, err := h.validate(p, act)
	if err != nil {
		return nil, err
	}

	record := h.apply(p, pl, act)
	h.logger.WithFields(logrus.Fields{
		"player": p.PlayerID,
		"phase":  record.Phase.String(),
	}).Info(record.Type.LogMessage(record.Total))

	if err := h.proceed(h.actionIndex); err != nil {
		return nil, err
	}

	return &Result{
		Action:   record,
		Phase:    h.phase,
		Complete: h.IsComplete(),
	}, nil
}

func (h *Hand) validate(p *participant, act action.Action) (*plan, error) {
	switch act := act.(type) {
	case action.Fold:
		return &plan{typ: action.TypeFold, to: p.bet}, nil
	case action.Check:
		if p.bet != h.tableBet {
			return nil, illegalAction("you cannot check, the bet is ${%d}", h.tableBet)
		}

		return &plan{typ: action.TypeCheck, to: p.bet}, nil
	case action.Call:
		if p.bet >= h.tableBet {
			return nil, illegalAction("there is nothing to call")
		}

		return &plan{typ: action.TypeCall, to: min(h.tableBet, p.bet+p.stack)}, nil
	case action.Bet:
		if h.tableBet > 0 {
			return nil, illegalAction("you cannot bet, the bet is ${%d}", h.tableBet)
		}

		return h.validateRaise(p, action.TypeBet, act.To)
	case action.Raise:
		if h.tableBet == 0 {
			return nil, illegalAction("there is no bet to raise")
		}

		if p.capped {
			return nil, illegalAction("the short all-in did not reopen the raising, you can only call or fold")
		}

		return h.validateRaise(p, action.TypeRaise, act.To)
	case nil:
		return nil, illegalAction("no action")
	}

	return nil, illegalAction("unknown action %s", string(act.Type()))
}

func (h *Hand) validateRaise(p *participant, typ action.Type, to int) (*plan, error) {
	allIn := p.bet + p.stack
	if to > allIn {
		return nil, illegalAction("you only have ${%d}", allIn)
	}

	minTo := h.tableBet + h.minRaise
	if to == allIn {
		// a shove is always legal
		if to <= h.tableBet {
			return &plan{typ: action.TypeCall, to: to}, nil
		}

		return &plan{typ: typ, to: to, fullRaise: to >= minTo}, nil
	}

	if to <= h.tableBet {
		return nil, illegalAction("%s must be more than ${%d}", string(typ), h.tableBet)
	}

	if to < minTo {
		return nil, illegalAction("%s must be to at least ${%d}", string(typ), minTo)
	}

	return &plan{typ: typ, to: to, fullRaise: true}, nil
}

func (h *Hand) apply(p *participant, pl *plan, act action.Action) ActionRecord {
	record := ActionRecord{
		Seq:             len(h.actions),
		PlayerID:        p.PlayerID,
		Phase:           h.phase,
		Origin:          OriginPlayer,
		Requested:       act.Type(),
		RequestedAmount: act.Amount(),
		Type:            pl.typ,
	}

	p.acted = true
	switch pl.typ {
	case action.TypeFold:
		p.leave(StatusFolded)
	case action.TypeCheck:
	case action.TypeCall:
		record.Added = p.commit(pl.to - p.bet)
	case action.TypeBet, action.TypeRaise:
		// a short all-in over a bet only lets those who already acted call or fold
		reopened := pl.fullRaise || h.tableBet == 0
		if pl.fullRaise {
			h.minRaise = pl.to - h.tableBet
		}

		h.tableBet = pl.to
		record.Added = p.commit(pl.to - p.bet)

		// everyone else has to respond to the new bet
		for _, other := range h.order {
			if other == p {
				continue
			}

			if reopened {
				other.capped = false
			} else if other.acted {
				other.capped = true
			}

			other.acted = false
		}
	}

	record.Total = p.bet
	record.AllIn = p.status == StatusAllIn

	h.actions = append(h.actions, record)
	return record
}

// ForceFold folds a player out of turn, i.e., after they disconnected or left the table
// Players who are all-in keep their claim to the pot
func (h *Hand) ForceFold(playerID string) error {
	return h.remove(playerID, StatusFolded, OriginForceFold)
}

// SitOut removes a player from the hand and marks them as sitting out
func (h *Hand) SitOut(playerID string) error {
	return h.remove(playerID, StatusSittingOut, OriginSitOut)
}

func (h *Hand) remove(playerID string, status Status, origin Origin) error {
	if !h.phase.IsBettingRound() {
		return ErrHandNotActive
	}

	p, ok := h.participants[playerID]
	if !ok {
		return notEligible("player %s is not in this hand", playerID)
	}

	if p.status != StatusActive {
		return nil
	}

	wasTurn := h.order[h.actionIndex] == p
	p.leave(status)

	record := ActionRecord{
		Seq:       len(h.actions),
		PlayerID:  p.PlayerID,
		Phase:     h.phase,
		Origin:    origin,
		Requested: action.TypeFold,
		Type:      action.TypeFold,
		Total:     p.bet,
	}
	h.actions = append(h.actions, record)

	h.logger.WithFields(logrus.Fields{
		"player": p.PlayerID,
		"origin": string(origin),
	}).Info("removed from hand")

	if !wasTurn && len(h.contestants()) > 1 && !h.roundComplete() && h.needsAction(h.order[h.actionIndex], h.activeCount()) {
		// the player on the clock keeps the action
		return nil
	}

	from := h.actionIndex
	if !wasTurn {
		// start the search with the player on the clock
		from--
	}

	return h.proceed(from)
}

// SetConnected updates whether a player is connected
// Disconnected players cannot act
func (h *Hand) SetConnected(playerID string, connected bool) error {
	p, ok := h.participants[playerID]
	if !ok {
		return fmt.Errorf("player %s is not in this hand", playerID)
	}

	p.connected = connected
	return nil
}
