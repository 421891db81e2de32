package holdem

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"holdem-server/internal/rng"
	"holdem-server/pkg/deck"
	"holdem-server/pkg/poker/action"
)

// Record is everything needed to replay a hand
type Record struct {
	HandNumber int               `json:"handNumber"`
	Seed       string            `json:"seed"`
	Algorithm  string            `json:"algorithm"`
	DealerSeat int               `json:"dealerSeat"`
	SmallBlind int               `json:"smallBlind"`
	BigBlind   int               `json:"bigBlind"`
	Seats      []Seat            `json:"seats"`
	Actions    []ActionRecord    `json:"actions"`
	Deals      []deck.DealRecord `json:"deals"`
	DeckHash   string            `json:"deckHash"`
	// Shown lists the players whose hole cards were revealed at showdown
	Shown []string `json:"shown,omitempty"`
	// Redacted is true if cards or the seed were removed for a viewer
	Redacted bool `json:"redacted,omitempty"`
}

// Record returns the audit record of the hand so far
func (h *Hand) Record() *Record {
	seats := make([]Seat, len(h.order))
	for i, p := range h.order {
		seats[i] = Seat{
			PlayerID:  p.PlayerID,
			SeatIndex: p.seatIndex,
			Stack:     p.startingStack,
			Connected: true,
		}
	}

	actions := make([]ActionRecord, len(h.actions))
	copy(actions, h.actions)

	var shown []string
	for _, p := range h.order {
		if p.revealed {
			shown = append(shown, p.PlayerID)
		}
	}

	return &Record{
		HandNumber: h.options.HandNumber,
		Seed:       h.deck.Seed(),
		Algorithm:  h.deck.Algorithm(),
		DealerSeat: h.options.DealerSeat,
		SmallBlind: h.options.SmallBlind,
		BigBlind:   h.options.BigBlind,
		Seats:      seats,
		Actions:    actions,
		Deals:      h.deck.DealHistory(),
		DeckHash:   h.deck.HashCode(),
		Shown:      shown,
	}
}

// Redacted returns the record as playerID may see it
// The seed and burn cards are removed, and so are the hole cards of everyone but the
// viewer who did not show them down. A redacted record cannot be replayed.
func (r *Record) Redacted(playerID string) *Record {
	shown := make(map[string]bool, len(r.Shown)+1)
	for _, id := range r.Shown {
		shown[id] = true
	}

	if playerID != "" {
		shown[playerID] = true
	}

	redacted := *r
	redacted.Seed = ""
	redacted.Redacted = true
	redacted.Deals = make([]deck.DealRecord, len(r.Deals))
	for i, d := range r.Deals {
		if d.Role == deck.RoleBurn || (d.Role == deck.RoleHole && !shown[d.Owner]) {
			d.Card = nil
		}

		redacted.Deals[i] = d
	}

	return &redacted
}

// Replay re-runs a recorded hand and verifies it deals the same cards
func Replay(logger logrus.FieldLogger, record *Record, source rng.Source) (*Hand, error) {
	if record.Redacted {
		return nil, errors.New("a redacted record cannot be replayed")
	}

	if source == nil {
		var err error
		if source, err = rng.SourceByName(record.Algorithm); err != nil {
			return nil, err
		}
	}

	if source.Name() != record.Algorithm {
		return nil, fmt.Errorf("record was shuffled with %s, not %s", record.Algorithm, source.Name())
	}

	h, err := NewHand(logger, record.Seats, Options{
		HandNumber: record.HandNumber,
		DealerSeat: record.DealerSeat,
		SmallBlind: record.SmallBlind,
		BigBlind:   record.BigBlind,
		Seed:       record.Seed,
		Source:     source,
	})
	if err != nil {
		return nil, err
	}

	for _, rec := range record.Actions {
		switch rec.Origin {
		case OriginForceFold:
			err = h.ForceFold(rec.PlayerID)
		case OriginSitOut:
			err = h.SitOut(rec.PlayerID)
		default:
			var act action.Action
			if act, err = action.New(rec.Requested, rec.RequestedAmount); err == nil {
				_, err = h.Submit(rec.PlayerID, act)
			}
		}

		if err != nil {
			return nil, fmt.Errorf("replay failed at action %d: %w", rec.Seq, err)
		}
	}

	deals := h.deck.DealHistory()
	if len(deals) != len(record.Deals) {
		return nil, fmt.Errorf("replay dealt %d cards, record has %d", len(deals), len(record.Deals))
	}

	for i, d := range deals {
		r := record.Deals[i]
		if r.Card == nil || !d.Card.Equal(r.Card) || d.Owner != r.Owner || d.Role != r.Role {
			return nil, fmt.Errorf("replay diverged at deal %d: %s != %s", i, d.Card, r.Card)
		}
	}

	return h, nil
}
