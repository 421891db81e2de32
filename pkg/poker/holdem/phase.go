package holdem

import (
	"encoding/json"
	"fmt"
)

// Phase is where the hand is
// Phases only ever move forward
type Phase int

// constants for Phase
const (
	PhasePreFlop Phase = iota
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
	PhaseHandComplete
)

func (p Phase) String() string {
	switch p {
	case PhasePreFlop:
		return "pre-flop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	case PhaseHandComplete:
		return "hand-complete"
	}

	return ""
}

// MarshalJSON encodes JSON
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(p),
		Name: p.String(),
	})
}

// UnmarshalJSON decodes the object written by MarshalJSON
func (p *Phase) UnmarshalJSON(b []byte) error {
	var obj struct {
		ID int `json:"id"`
	}

	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}

	if obj.ID < int(PhasePreFlop) || obj.ID > int(PhaseHandComplete) {
		return fmt.Errorf("unknown phase: %d", obj.ID)
	}

	*p = Phase(obj.ID)
	return nil
}

// IsBettingRound returns true if players can act in this phase
func (p Phase) IsBettingRound() bool {
	return p <= PhaseRiver
}

// communityCards is how many cards are revealed when entering the phase
func (p Phase) communityCards() int {
	switch p {
	case PhaseFlop:
		return 3
	case PhaseTurn, PhaseRiver:
		return 1
	}

	return 0
}
