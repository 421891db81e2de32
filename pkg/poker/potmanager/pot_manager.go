package potmanager

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNoEligibleStrength is returned when a contested pot has an eligible player without a hand strength
var ErrNoEligibleStrength = errors.New("eligible player has no hand strength")

// ErrNoContestants is returned when a pot cannot be awarded to anyone
var ErrNoContestants = errors.New("pot has no eligible players")

// Contribution is what a player put into the pot over the whole hand
type Contribution struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`

	// Contesting is false once the player folds
	Contesting bool `json:"contesting"`
}

// Calculate splits the contributions into a main pot and side pots
// Each distinct contribution level closes a pot. The pot is funded by the increment over the
// previous level from everyone who reached it, and only contesting players who reached it can win it.
// A pot nobody can win is merged into the pot below it.
func Calculate(contributions []Contribution) Pots {
	levels := make([]int, 0, len(contributions))
	seen := make(map[int]bool)
	for _, c := range contributions {
		if c.Amount > 0 && !seen[c.Amount] {
			seen[c.Amount] = true
			levels = append(levels, c.Amount)
		}
	}
	sort.Ints(levels)

	pots := make(Pots, 0, len(levels))
	processed := 0
	for _, level := range levels {
		pot := &Pot{Level: level, Eligible: []string{}}
		for _, c := range contributions {
			if c.Amount < level {
				continue
			}

			pot.Amount += level - processed
			if c.Contesting {
				pot.Eligible = append(pot.Eligible, c.PlayerID)
			}
		}

		pots = append(pots, pot)
		processed = level
	}

	for i := len(pots) - 1; i > 0; i-- {
		if len(pots[i].Eligible) == 0 {
			pots[i-1].Amount += pots[i].Amount
			pots[i-1].Level = pots[i].Level
			pots = append(pots[:i], pots[i+1:]...)
		}
	}

	return pots
}

// Award is the result of distributing a single pot
type Award struct {
	PotIndex int            `json:"potIndex"`
	Amount   int            `json:"amount"`
	Winners  []string       `json:"winners"`
	Shares   map[string]int `json:"shares"`

	// Uncontested is true when only one player was eligible and no hands were compared
	Uncontested bool `json:"uncontested"`
}

// Distribution is the result of distributing every pot
type Distribution struct {
	Awards  []Award        `json:"awards"`
	Payouts map[string]int `json:"payouts"`
}

// Distribute awards each pot to the strongest eligible hand(s)
// strengths maps a player to a comparable hand strength (higher wins).
// order is the seating order starting left of the dealer. Chips that cannot be split evenly
// are paid one at a time following that order.
func Distribute(pots Pots, strengths map[string]int, order []string) (*Distribution, error) {
	position := make(map[string]int, len(order))
	for i, id := range order {
		position[id] = i
	}

	d := &Distribution{
		Awards:  make([]Award, 0, len(pots)),
		Payouts: make(map[string]int),
	}

	for i, pot := range pots {
		if len(pot.Eligible) == 0 {
			return nil, fmt.Errorf("%w: pot %d", ErrNoContestants, i)
		}

		award := Award{
			PotIndex: i,
			Amount:   pot.Amount,
			Shares:   make(map[string]int),
		}

		if len(pot.Eligible) == 1 {
			award.Winners = []string{pot.Eligible[0]}
			award.Uncontested = true
		} else {
			winners, err := strongest(pot.Eligible, strengths)
			if err != nil {
				return nil, err
			}

			award.Winners = winners
		}

		sort.SliceStable(award.Winners, func(a, b int) bool {
			return seatPosition(position, award.Winners[a]) < seatPosition(position, award.Winners[b])
		})

		share := pot.Amount / len(award.Winners)
		remainder := pot.Amount % len(award.Winners)
		for j, winner := range award.Winners {
			amount := share
			if j < remainder {
				amount++
			}

			award.Shares[winner] = amount
			d.Payouts[winner] += amount
		}

		d.Awards = append(d.Awards, award)
	}

	return d, nil
}

func strongest(eligible []string, strengths map[string]int) ([]string, error) {
	best := -1
	winners := make([]string, 0, 1)
	for _, id := range eligible {
		strength, ok := strengths[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoEligibleStrength, id)
		}

		switch {
		case strength > best:
			best = strength
			winners = append(winners[:0], id)
		case strength == best:
			winners = append(winners, id)
		}
	}

	return winners, nil
}

// players missing from the seating order are paid last
func seatPosition(position map[string]int, id string) int {
	if pos, ok := position[id]; ok {
		return pos
	}

	return len(position)
}
