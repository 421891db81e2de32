package holdem

import (
	"github.com/sirupsen/logrus"

	"holdem-server/pkg/poker/potmanager"
)

// Outcome is how a completed hand ended
type Outcome struct {
	// Payouts is how much each winner collected from the pots
	Payouts map[string]int `json:"payouts"`
	// Net is each player's stack change over the hand
	Net     map[string]int     `json:"net"`
	Pots    potmanager.Pots    `json:"pots"`
	Awards  []potmanager.Award `json:"awards"`
	Winners []string           `json:"winners"`

	// Showdown is false when everyone else folded
	Showdown bool `json:"showdown"`
	// Hands describes the best hand of every player who showed
	Hands   map[string]string `json:"hands"`
	Aborted bool              `json:"aborted"`
}

// Outcome returns how the hand ended, or nil if it is still running
func (h *Hand) Outcome() *Outcome {
	return h.outcome
}

func (h *Hand) contributions() []potmanager.Contribution {
	c := make([]potmanager.Contribution, len(h.order))
	for i, p := range h.order {
		c[i] = potmanager.Contribution{
			PlayerID:   p.PlayerID,
			Amount:     p.totalBet,
			Contesting: p.isContesting(),
		}
	}

	return c
}

// finishUnopposed awards everything to the last player standing without showing cards
func (h *Hand) finishUnopposed() {
	winner := h.contestants()[0]
	pots := potmanager.Calculate(h.contributions())

	awards := make([]potmanager.Award, len(pots))
	for i, pot := range pots {
		awards[i] = potmanager.Award{
			PotIndex:    i,
			Amount:      pot.Amount,
			Winners:     []string{winner.PlayerID},
			Shares:      map[string]int{winner.PlayerID: pot.Amount},
			Uncontested: true,
		}
	}

	h.complete(pots, &potmanager.Distribution{
		Awards:  awards,
		Payouts: map[string]int{winner.PlayerID: pots.Total()},
	}, false)
}

// showdown compares every contestant's hand and pays each pot
func (h *Hand) showdown() error {
	strengths := make(map[string]int)
	for _, p := range h.contestants() {
		p.revealed = true
		strengths[p.PlayerID] = p.evaluate(h.community).Strength
	}

	pots := potmanager.Calculate(h.contributions())
	dist, err := potmanager.Distribute(pots, strengths, h.orderFromDealer())
	if err != nil {
		return h.abort(err)
	}

	h.complete(pots, dist, true)
	return nil
}

func (h *Hand) complete(pots potmanager.Pots, dist *potmanager.Distribution, showdown bool) {
	h.phase = PhaseHandComplete
	h.actionIndex = -1

	outcome := &Outcome{
		Payouts:  dist.Payouts,
		Net:      make(map[string]int, len(h.order)),
		Pots:     pots,
		Awards:   dist.Awards,
		Winners:  make([]string, 0, len(dist.Payouts)),
		Showdown: showdown,
		Hands:    make(map[string]string),
	}

	for _, p := range h.order {
		if amount, ok := dist.Payouts[p.PlayerID]; ok {
			p.stack += amount
			p.winnings = amount
			outcome.Winners = append(outcome.Winners, p.PlayerID)
		}

		outcome.Net[p.PlayerID] = p.stack - p.startingStack

		if p.revealed {
			outcome.Hands[p.PlayerID] = p.evaluate(h.community).Description()
		}
	}

	h.outcome = outcome
	h.logger.WithFields(logrus.Fields{
		"winners":  outcome.Winners,
		"pot":      pots.Total(),
		"showdown": showdown,
	}).Info("hand complete")
}
