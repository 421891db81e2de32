package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/hex"
	"errors"
	"time"

	"holdem-server/internal/rng"
)

// ErrEmptyDeck is returned when Deal() is attempted and there are no more cards
var ErrEmptyDeck = errors.New("empty deck")

// Role is what a dealt card is used for
type Role string

// Role constants
const (
	RoleHole      Role = "hole"
	RoleCommunity Role = "community"
	RoleBurn      Role = "burn"
)

// ShuffleRecord is an entry in the shuffle history
type ShuffleRecord struct {
	Seed      string    `json:"seed"`
	Algorithm string    `json:"algorithm"`
	At        time.Time `json:"at"`
}

// DealRecord is an entry in the deal history
type DealRecord struct {
	Index int    `json:"index"`
	Owner string `json:"owner,omitempty"`
	Role  Role   `json:"role"`
	Card  *Card  `json:"card"`
}

// Deck represents a playing deck
type Deck struct {
	Cards []*Card `json:"cards"`

	source   rng.Source
	shuffles []ShuffleRecord
	deals    []DealRecord
	now      func() time.Time
}

// New returns a new deck of cards.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
// If source is nil, rng.Default is used
func New(source rng.Source) *Deck {
	if source == nil {
		source = rng.Default
	}

	d := &Deck{
		source: source,
		now:    time.Now,
	}

	d.buildDeck()
	return d
}

func (d *Deck) buildDeck() {
	cards := make([]*Card, 0, 52)
	for _, suit := range Suits {
		for rank := 2; rank <= Ace; rank++ {
			cards = append(cards, &Card{
				Rank: rank,
				Suit: suit,
			})
		}
	}

	d.Cards = cards
}

// Shuffle will shuffle the deck of cards using the seed
// The same seed with the same source always produces the same order
func (d *Deck) Shuffle(seed string) {
	// we always want to shuffle from an unshuffled deck
	d.buildDeck()
	d.deals = nil

	gen := d.source.New(seed)
	for j := len(d.Cards) - 1; j > 0; j-- {
		i := gen.Intn(j + 1)

		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}

	d.shuffles = append(d.shuffles, ShuffleRecord{
		Seed:      seed,
		Algorithm: d.source.Name(),
		At:        d.now(),
	})
}

// Reset restores the full, ordered deck and clears the deal history
// The shuffle history is kept
func (d *Deck) Reset() {
	d.buildDeck()
	d.deals = nil
}

// Deal will deal the next card
// If there are no more cards, an ErrEmptyDeck is returned along with a nil card.
func (d *Deck) Deal(role Role, owner string) (*Card, error) {
	if len(d.Cards) == 0 {
		return nil, ErrEmptyDeck
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]

	d.deals = append(d.deals, DealRecord{
		Index: len(d.deals),
		Owner: owner,
		Role:  role,
		Card:  card,
	})

	return card, nil
}

// Seed returns the seed of the most recent shuffle
func (d *Deck) Seed() string {
	if len(d.shuffles) == 0 {
		return ""
	}

	return d.shuffles[len(d.shuffles)-1].Seed
}

// Algorithm returns the name of the shuffle algorithm
func (d *Deck) Algorithm() string {
	return d.source.Name()
}

// ShuffleHistory returns a copy of the shuffle history
func (d *Deck) ShuffleHistory() []ShuffleRecord {
	h := make([]ShuffleRecord, len(d.shuffles))
	copy(h, d.shuffles)
	return h
}

// DealHistory returns a copy of the deal history
func (d *Deck) DealHistory() []DealRecord {
	h := make([]DealRecord, len(d.deals))
	copy(h, d.deals)
	return h
}

// HashCode returns a SHA1 hash code of the remaining cards.
func (d *Deck) HashCode() string {
	hash := sha1.New() // nolint:gosec
	for _, card := range d.Cards {
		_, _ = hash.Write([]byte(card.String()))
	}

	return hex.EncodeToString(hash.Sum(nil))
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return len(d.Cards) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}
