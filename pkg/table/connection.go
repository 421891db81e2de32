package table

import (
	"errors"

	"holdem-server/internal/util"
	"holdem-server/pkg/poker/holdem"
)

// MarkDisconnected freezes the player's seat and starts the grace timer
// If the player does not reconnect in time, they are folded and sit out until they return.
func (t *Table) MarkDisconnected(playerID string) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	s, ok := t.players[playerID]
	if !ok {
		if _, isSpectator := t.spectators[playerID]; isSpectator {
			return nil
		}

		return ErrNotSeated
	}

	if !s.Connected {
		return nil
	}

	s.Connected = false
	if t.inHand(playerID) {
		_ = t.hand.SetConnected(playerID, false)
	}

	seatIndex := s.SeatIndex
	t.scheduler.Schedule(graceKey(seatIndex), t.options.DisconnectGrace, func() {
		t.expireGrace(playerID, seatIndex)
	})

	t.logger.WithField("player", playerID).Info("player disconnected")
	return nil
}

// expireGrace runs from the scheduler with the lock held
func (t *Table) expireGrace(playerID string, seatIndex int) {
	s, ok := t.players[playerID]
	if !ok || s.SeatIndex != seatIndex || s.Connected {
		return
	}

	s.SittingOut = true
	t.logger.WithField("player", playerID).Info("disconnect grace expired, player is sitting out")

	if t.inHand(playerID) {
		if err := t.hand.SitOut(playerID); err != nil && !errors.Is(err, holdem.ErrHandNotActive) {
			t.logger.WithError(err).WithField("player", playerID).Error("could not sit out player")
		}
	}

	t.afterChange()
	t.notify()
}

// MarkReconnected restores a disconnected seat
// A pending grace timer is cancelled, and a player who was sitting out is dealt in again
func (t *Table) MarkReconnected(playerID string) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	s, ok := t.players[playerID]
	if !ok {
		if _, isSpectator := t.spectators[playerID]; isSpectator {
			return nil
		}

		return ErrNotSeated
	}

	t.scheduler.Cancel(graceKey(s.SeatIndex))
	s.Connected = true
	s.SittingOut = false
	if t.inHand(playerID) {
		_ = t.hand.SetConnected(playerID, true)
	}

	if t.hand == nil && t.handsPlayed > 0 && t.status == StatusWaiting && !t.awaitingRestart {
		// pick the game back up if this player was the one missing
		t.scheduleNextHand()
	}

	t.logger.WithField("player", playerID).Info("player reconnected")
	return nil
}

// AddSpectator lets a player watch the table
func (t *Table) AddSpectator(playerID, name string) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.status == StatusCompleted {
		return ErrTableCompleted
	}

	if _, ok := t.players[playerID]; ok {
		return ErrAlreadySeated
	}

	if name == "" {
		name = util.GetRandomName()
	}

	t.spectators[playerID] = name
	return nil
}

// RemoveSpectator stops a player from watching the table
func (t *Table) RemoveSpectator(playerID string) bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	if _, ok := t.spectators[playerID]; !ok {
		return false
	}

	delete(t.spectators, playerID)
	return true
}

// IsSpectator returns true if the player is watching the table
func (t *Table) IsSpectator(playerID string) bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	_, ok := t.spectators[playerID]
	return ok
}
