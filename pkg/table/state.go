package table

import (
	"sort"
	"time"

	"holdem-server/pkg/poker/holdem"
)

// Spectator is a player watching the table
type Spectator struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

// SeatState is a seat as shown to clients
type SeatState struct {
	*SeatInfo
	IsHost bool `json:"isHost"`
	// GraceUntil is set while a disconnected player can still return
	GraceUntil *time.Time `json:"graceUntil,omitempty"`
}

// State is the table as seen by a single player
type State struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	HostID      string        `json:"hostId"`
	MaxSeats    int           `json:"maxSeats"`
	SmallBlind  int           `json:"smallBlind"`
	BigBlind    int           `json:"bigBlind"`
	Seats       []*SeatState  `json:"seats"`
	Spectators  []*Spectator  `json:"spectators"`
	HandsPlayed int           `json:"handsPlayed"`
	NextHandAt  *time.Time    `json:"nextHandAt,omitempty"`
	Hand        *holdem.State `json:"hand,omitempty"`
}

// Summary describes a table in listings
type Summary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	InviteCode    string    `json:"inviteCode,omitempty"`
	Status        Status    `json:"status"`
	HostID        string    `json:"hostId"`
	Seated        int       `json:"seated"`
	Spectators    int       `json:"spectators"`
	MaxSeats      int       `json:"maxSeats"`
	SmallBlind    int       `json:"smallBlind"`
	BigBlind      int       `json:"bigBlind"`
	StartingStack int       `json:"startingStack"`
	RequireReady  bool      `json:"requireReady"`
	HasPassword   bool      `json:"hasPassword"`
	Created       time.Time `json:"created"`
}

// GetState returns the table as seen by playerID
// Hole cards are only included for the viewer, so spectators get the public view
func (t *Table) GetState(playerID string) *State {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.state(playerID)
}

// state must be called with the lock held
func (t *Table) state(playerID string) *State {
	s := &State{
		ID:          t.ID,
		Name:        t.Name,
		Status:      t.status,
		HostID:      t.hostID,
		MaxSeats:    t.options.MaxSeats,
		SmallBlind:  t.options.SmallBlind,
		BigBlind:    t.options.BigBlind,
		Seats:       make([]*SeatState, 0, len(t.players)),
		Spectators:  make([]*Spectator, 0, len(t.spectators)),
		HandsPlayed: t.handsPlayed,
	}

	for _, seat := range t.seats {
		if seat == nil {
			continue
		}

		ss := &SeatState{
			SeatInfo: seat.clone(),
			IsHost:   seat.PlayerID == t.hostID,
		}

		if at, ok := t.scheduler.Pending(graceKey(seat.SeatIndex)); ok {
			ss.GraceUntil = &at
		}

		s.Seats = append(s.Seats, ss)
	}

	for id, name := range t.spectators {
		s.Spectators = append(s.Spectators, &Spectator{PlayerID: id, Name: name})
	}

	sort.Slice(s.Spectators, func(i, j int) bool {
		return s.Spectators[i].PlayerID < s.Spectators[j].PlayerID
	})

	if at, ok := t.scheduler.Pending(nextHandKey); ok {
		s.NextHandAt = &at
	}

	viewer := ""
	if _, ok := t.players[playerID]; ok {
		viewer = playerID
	}

	if t.hand != nil {
		s.Hand = t.hand.State(viewer)
	} else if t.lastHand != nil {
		s.Hand = t.lastHand.State(viewer)
	}

	return s
}

// Summary returns the listing details of the table
func (t *Table) Summary() *Summary {
	t.lock.Lock()
	defer t.lock.Unlock()

	return &Summary{
		ID:            t.ID,
		Name:          t.Name,
		InviteCode:    t.InviteCode,
		Status:        t.status,
		HostID:        t.hostID,
		Seated:        len(t.players),
		Spectators:    len(t.spectators),
		MaxSeats:      t.options.MaxSeats,
		SmallBlind:    t.options.SmallBlind,
		BigBlind:      t.options.BigBlind,
		StartingStack: t.options.StartingStack,
		RequireReady:  t.options.RequireReady,
		HasPassword:   t.passwordHash != "",
		Created:       t.Created,
	}
}
