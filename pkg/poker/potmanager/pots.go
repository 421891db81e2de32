package potmanager

// Pot is a main or side pot
type Pot struct {
	Amount int `json:"amount"`

	// Level is the per-player contribution this pot is capped at
	Level int `json:"level"`

	// Eligible are the contesting players who can win the pot, in contribution order
	Eligible []string `json:"eligible"`
}

// IsEligible returns true if the player can win the pot
func (p *Pot) IsEligible(playerID string) bool {
	for _, id := range p.Eligible {
		if id == playerID {
			return true
		}
	}

	return false
}

// Pots is a collection of pots
// The main pot is always first
type Pots []*Pot

// Total returns the combined total of all pots
func (p Pots) Total() int {
	total := 0
	for _, pot := range p {
		total += pot.Amount
	}

	return total
}
