package holdem

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"holdem-server/internal/rng"
	"holdem-server/pkg/deck"
	"holdem-server/pkg/poker/potmanager"
)

// MaxSeats is the most players a hand can be dealt to
const MaxSeats = 9

// Options configures a single hand
type Options struct {
	HandNumber int
	DealerSeat int
	SmallBlind int
	BigBlind   int
	Seed       string

	// Source turns the seed into a shuffle, rng.Default if nil
	Source rng.Source
}

// Hand is a single hand of No-Limit Texas Hold'em
type Hand struct {
	logger  logrus.FieldLogger
	options Options
	deck    *deck.Deck

	participants map[string]*participant
	// order is the participants sorted by seat index
	order []*participant

	phase Phase

	// indexes into order
	dealerIndex     int
	smallBlindIndex int
	bigBlindIndex   int
	// actionIndex is who is on the clock, or -1
	actionIndex int

	tableBet int
	// minRaise is the smallest legal raise increment
	minRaise  int
	community deck.Hand

	actions []ActionRecord
	outcome *Outcome
}

// NewHand shuffles, posts the blinds and deals the hole cards
func NewHand(logger logrus.FieldLogger, seats []Seat, opts Options) (*Hand, error) {
	if err := validateSeats(seats, opts); err != nil {
		return nil, err
	}

	if opts.Source == nil {
		opts.Source = rng.Default
	}

	order := make([]*participant, len(seats))
	participants := make(map[string]*participant, len(seats))
	for i, seat := range seats {
		p := newParticipant(seat)
		order[i] = p
		participants[p.PlayerID] = p
	}

	sort.Slice(order, func(i, j int) bool {
		return order[i].seatIndex < order[j].seatIndex
	})

	h := &Hand{
		logger: logger.WithFields(logrus.Fields{
			"hand": opts.HandNumber,
		}),
		options:      opts,
		deck:         deck.New(opts.Source),
		participants: participants,
		order:        order,
		phase:        PhasePreFlop,
		actionIndex:  -1,
		minRaise:     opts.BigBlind,
		community:    make(deck.Hand, 0, 5),
		actions:      make([]ActionRecord, 0),
	}

	for i, p := range order {
		if p.seatIndex == opts.DealerSeat {
			h.dealerIndex = i
		}
	}

	h.deck.Shuffle(opts.Seed)

	if len(order) == 2 {
		// heads up, the dealer posts the small blind
		h.smallBlindIndex = h.dealerIndex
	} else {
		h.smallBlindIndex = h.next(h.dealerIndex)
	}
	h.bigBlindIndex = h.next(h.smallBlindIndex)

	h.order[h.smallBlindIndex].commit(opts.SmallBlind)
	h.order[h.bigBlindIndex].commit(opts.BigBlind)
	h.tableBet = opts.BigBlind

	if err := h.dealHoleCards(); err != nil {
		return nil, err
	}

	h.logger.WithFields(logrus.Fields{
		"players": len(order),
		"dealer":  opts.DealerSeat,
		"seed":    opts.Seed,
	}).Info("hand started")

	if err := h.proceed(h.bigBlindIndex); err != nil {
		return nil, err
	}

	return h, nil
}

func validateSeats(seats []Seat, opts Options) error {
	if len(seats) < 2 {
		return errors.New("there must be at least two players")
	}

	if len(seats) > MaxSeats {
		return fmt.Errorf("there can be at most %d players", MaxSeats)
	}

	if opts.SmallBlind <= 0 {
		return errors.New("small blind must be greater than zero")
	}

	if opts.BigBlind < opts.SmallBlind {
		return errors.New("big blind must be at least the small blind")
	}

	ids := make(map[string]bool)
	indexes := make(map[int]bool)
	foundDealer := false
	for _, seat := range seats {
		if seat.PlayerID == "" {
			return errors.New("player ID is required")
		}

		if ids[seat.PlayerID] {
			return fmt.Errorf("player %s is seated twice", seat.PlayerID)
		}

		if indexes[seat.SeatIndex] {
			return fmt.Errorf("seat %d is taken twice", seat.SeatIndex)
		}

		if seat.Stack <= 0 {
			return fmt.Errorf("player %s has no chips", seat.PlayerID)
		}

		ids[seat.PlayerID] = true
		indexes[seat.SeatIndex] = true
		foundDealer = foundDealer || seat.SeatIndex == opts.DealerSeat
	}

	if !foundDealer {
		return fmt.Errorf("dealer seat %d is not occupied", opts.DealerSeat)
	}

	return nil
}

// dealHoleCards deals two cards to everyone, clockwise from the small blind
func (h *Hand) dealHoleCards() error {
	n := len(h.order)
	for round := 0; round < 2; round++ {
		for i := 0; i < n; i++ {
			p := h.order[(h.smallBlindIndex+i)%n]
			card, err := h.deck.Deal(deck.RoleHole, p.PlayerID)
			if err != nil {
				return err
			}

			p.cards.AddCard(card)
		}
	}

	return nil
}

// next returns the index of the seat clockwise from i
func (h *Hand) next(i int) int {
	return (i + 1) % len(h.order)
}

// orderFromDealer returns the player IDs starting left of the dealer
func (h *Hand) orderFromDealer() []string {
	n := len(h.order)
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = h.order[(h.dealerIndex+1+i)%n].PlayerID
	}

	return ids
}

func (h *Hand) contestants() []*participant {
	c := make([]*participant, 0, len(h.order))
	for _, p := range h.order {
		if p.isContesting() {
			c = append(c, p)
		}
	}

	return c
}

func (h *Hand) activeCount() int {
	n := 0
	for _, p := range h.order {
		if p.status == StatusActive {
			n++
		}
	}

	return n
}

// needsAction returns true if the participant still has a decision this round
func (h *Hand) needsAction(p *participant, activeCount int) bool {
	if p.status != StatusActive {
		return false
	}

	if p.bet < h.tableBet {
		return true
	}

	return !p.acted && activeCount > 1
}

func (h *Hand) roundComplete() bool {
	activeCount := h.activeCount()
	for _, p := range h.order {
		if h.needsAction(p, activeCount) {
			return false
		}
	}

	return true
}

// proceed moves the hand along after a change
// from is the index the search for the next player to act starts after
func (h *Hand) proceed(from int) error {
	if len(h.contestants()) <= 1 {
		h.finishUnopposed()
		return nil
	}

	for h.roundComplete() {
		if err := h.nextPhase(); err != nil {
			return err
		}

		if h.phase == PhaseShowdown {
			return h.showdown()
		}

		from = h.dealerIndex
	}

	activeCount := h.activeCount()
	n := len(h.order)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if h.needsAction(h.order[idx], activeCount) {
			h.actionIndex = idx
			return nil
		}
	}

	panic("betting round is not complete, but nobody can act")
}

// nextPhase closes the betting round and reveals the next community cards
func (h *Hand) nextPhase() error {
	h.actionIndex = -1
	h.tableBet = 0
	h.minRaise = h.options.BigBlind
	for _, p := range h.order {
		p.bet = 0
		p.acted = false
		p.capped = false
	}

	h.phase++
	n := h.phase.communityCards()
	if n == 0 {
		return nil
	}

	if _, err := h.deck.Deal(deck.RoleBurn, ""); err != nil {
		return h.abort(err)
	}

	for i := 0; i < n; i++ {
		card, err := h.deck.Deal(deck.RoleCommunity, "")
		if err != nil {
			return h.abort(err)
		}

		h.community.AddCard(card)
	}

	h.logger.WithField("community", h.community.String()).Debugf("dealt the %s", h.phase)
	return nil
}

// abort ends the hand and returns every bet
func (h *Hand) abort(cause error) error {
	h.logger.WithError(cause).Error("aborting hand")

	h.phase = PhaseHandComplete
	h.actionIndex = -1
	for _, p := range h.order {
		p.stack += p.totalBet
	}

	h.outcome = &Outcome{
		Aborted: true,
		Payouts: map[string]int{},
		Pots:    potmanager.Pots{},
		Awards:  []potmanager.Award{},
		Hands:   map[string]string{},
		Winners: []string{},
	}

	return fmt.Errorf("hand aborted: %w", cause)
}

// Phase returns the current phase
func (h *Hand) Phase() Phase {
	return h.phase
}

// IsComplete returns true once the pot has been awarded (or the hand aborted)
func (h *Hand) IsComplete() bool {
	return h.phase == PhaseHandComplete
}

// CurrentTurn returns the player who is on the clock
func (h *Hand) CurrentTurn() (string, bool) {
	if h.actionIndex < 0 {
		return "", false
	}

	return h.order[h.actionIndex].PlayerID, true
}

// Status returns a player's status in the hand
func (h *Hand) Status(playerID string) (Status, bool) {
	p, ok := h.participants[playerID]
	if !ok {
		return "", false
	}

	return p.status, true
}

// Stacks returns every player's chip stack
func (h *Hand) Stacks() map[string]int {
	stacks := make(map[string]int, len(h.order))
	for _, p := range h.order {
		stacks[p.PlayerID] = p.stack
	}

	return stacks
}

// DealerSeat returns the seat index of the button
func (h *Hand) DealerSeat() int {
	return h.order[h.dealerIndex].seatIndex
}
