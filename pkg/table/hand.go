package table

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"holdem-server/pkg/poker/action"
	"holdem-server/pkg/poker/holdem"
)

// ActionResult is returned after a player acts
type ActionResult struct {
	*holdem.Result
	State *State `json:"state"`
}

// StartHand deals a new hand
func (t *Table) StartHand() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.startHand()
}

// startHand must be called with the lock held
func (t *Table) startHand() error {
	if t.status == StatusCompleted {
		return ErrTableCompleted
	}

	if t.hand != nil {
		return ErrHandInProgress
	}

	eligible := t.eligible()
	if len(eligible) < 2 {
		return ErrNotEnoughPlayers
	}

	if t.options.RequireReady {
		for _, s := range eligible {
			if !s.Ready {
				return fmt.Errorf("%w: waiting for %s to be ready", ErrNotEnoughPlayers, s.Name)
			}
		}
	}

	t.scheduler.Cancel(nextHandKey)

	dealer := eligible[0].SeatIndex
	for _, s := range eligible {
		if s.SeatIndex > t.dealerSeat {
			dealer = s.SeatIndex
			break
		}
	}

	seats := make([]holdem.Seat, len(eligible))
	for i, s := range eligible {
		seats[i] = holdem.Seat{
			PlayerID:  s.PlayerID,
			SeatIndex: s.SeatIndex,
			Stack:     s.Stack,
			Connected: s.Connected,
		}
	}

	number := t.handsPlayed + 1
	hand, err := holdem.NewHand(t.logger.WithField("hand", number), seats, holdem.Options{
		HandNumber: number,
		DealerSeat: dealer,
		SmallBlind: t.options.SmallBlind,
		BigBlind:   t.options.BigBlind,
		Seed:       uuid.New().String(),
		Source:     t.options.Source,
	})
	if err != nil {
		return err
	}

	for _, s := range eligible {
		s.Waiting = false
	}

	t.dealerSeat = dealer
	t.hand = hand
	t.awaitingRestart = false
	t.status = StatusInProgress

	// the blinds can put everybody all-in
	t.afterChange()
	return nil
}

// eligible returns the seats that can be dealt in, in seat order
func (t *Table) eligible() []*SeatInfo {
	seats := make([]*SeatInfo, 0, len(t.players))
	for _, s := range t.seats {
		if s != nil && s.Connected && !s.SittingOut && s.Stack > 0 {
			seats = append(seats, s)
		}
	}

	return seats
}

func (t *Table) inHand(playerID string) bool {
	if t.hand == nil {
		return false
	}

	_, ok := t.hand.Status(playerID)
	return ok
}

// SubmitAction performs an action in the live hand
func (t *Table) SubmitAction(playerID string, act action.Action) (*ActionResult, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.hand == nil {
		return nil, holdem.ErrHandNotActive
	}

	res, err := t.hand.Submit(playerID, act)
	if err != nil {
		if t.hand.IsComplete() {
			t.afterChange()
		}

		return nil, err
	}

	t.afterChange()
	return &ActionResult{
		Result: res,
		State:  t.state(playerID),
	}, nil
}

// afterChange settles the table after anything that can end a hand or change who can play
func (t *Table) afterChange() {
	if t.hand != nil {
		if !t.hand.IsComplete() {
			return
		}

		t.finishHand()
	}

	if t.status == StatusCompleted {
		return
	}

	if len(t.eligible()) < 2 {
		t.scheduler.Cancel(nextHandKey)
		t.status = StatusWaiting
	}
}

// finishHand moves the chips back to the seats and queues up the next hand
func (t *Table) finishHand() {
	hand := t.hand
	t.hand = nil
	t.lastHand = hand
	t.handsPlayed++

	t.records = append(t.records, hand.Record())
	if n := len(t.records); n > maxRecords {
		t.records = t.records[n-maxRecords:]
	}

	outcome := hand.Outcome()
	for id, stack := range hand.Stacks() {
		if s, ok := t.players[id]; ok {
			s.Stack = stack
			s.HandsPlayed++
		}
	}

	for _, id := range outcome.Winners {
		if s, ok := t.players[id]; ok {
			s.HandsWon++
		}
	}

	if outcome.Aborted {
		t.logger.WithField("hand", t.handsPlayed).Error("hand was aborted, waiting for a manual start")
		t.awaitingRestart = true
		if t.status != StatusCompleted {
			t.status = StatusWaiting
		}

		return
	}

	t.logger.WithFields(logrus.Fields{
		"hand":    t.handsPlayed,
		"winners": outcome.Winners,
	}).Info("hand finished")

	if t.status != StatusCompleted {
		t.scheduleNextHand()
	}
}

func (t *Table) scheduleNextHand() {
	if len(t.eligible()) < 2 {
		t.status = StatusWaiting
		return
	}

	t.status = StatusInProgress
	t.scheduler.Schedule(nextHandKey, t.options.InterHandDelay, func() {
		if err := t.startHand(); err != nil {
			t.logger.WithError(err).Info("could not start the next hand")
			if t.hand == nil && t.status != StatusCompleted {
				t.status = StatusWaiting
			}
		}

		t.notify()
	})
}

// Records returns the most recent hand records, oldest first
func (t *Table) Records() []*holdem.Record {
	t.lock.Lock()
	defer t.lock.Unlock()

	records := make([]*holdem.Record, len(t.records))
	copy(records, t.records)
	return records
}
