package table

import (
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdem-server/pkg/poker/action"
	"holdem-server/pkg/poker/holdem"
)

func TestNew(t *testing.T) {
	a := assert.New(t)

	f := setupTable(t, testOptions())
	a.Equal("test-table", f.ID)
	a.Equal("Test Table", f.Name)
	a.Len(f.InviteCode, 8)
	a.Equal(StatusWaiting, f.Status())
	a.Equal("", f.HostID())
	a.False(f.HasPassword())

	opts := testOptions()
	opts.ID = ""
	opts.MaxSeats = 12
	_, err := New(testLogger(), opts, nil)
	a.EqualError(err, "seats must be between 2 and 9")

	opts.MaxSeats = 4
	tbl, err := New(testLogger(), opts, nil)
	a.NoError(err)
	a.Len(tbl.ID, 36)
}

func TestTable_VerifyPassword(t *testing.T) {
	a := assert.New(t)

	f := setupTable(t, testOptions())
	a.NoError(f.VerifyPassword(""))
	a.NoError(f.VerifyPassword("anything"))

	opts := testOptions()
	opts.Password = "secret"
	f = setupTable(t, opts)
	a.True(f.HasPassword())
	a.NoError(f.VerifyPassword("secret"))
	a.ErrorIs(f.VerifyPassword("wrong"), ErrInvalidPassword)
	a.Empty(f.Options().Password)
}

func TestTable_Seat(t *testing.T) {
	a := assert.New(t)

	opts := testOptions()
	opts.MaxSeats = 2
	f := setupTable(t, opts)

	s, err := f.Seat("p0", "Alice", nil)
	a.NoError(err)
	a.Equal(0, s.SeatIndex)
	a.Equal("Alice", s.Name)
	a.Equal(1000, s.Stack)
	a.True(s.Connected)
	a.False(s.Waiting)
	a.Equal("p0", f.HostID())

	_, err = f.Seat("p1", "Bob", intPtr(0))
	a.ErrorIs(err, ErrSeatUnavailable)
	a.EqualError(err, "seat is not available: seat 0 is taken")

	_, err = f.Seat("p1", "Bob", intPtr(5))
	a.EqualError(err, "seat is not available: seat 5 does not exist")

	_, err = f.Seat("", "Nobody", nil)
	a.EqualError(err, "player ID is required")

	s, err = f.Seat("p1", "", nil)
	a.NoError(err)
	a.Equal(1, s.SeatIndex)
	a.NotEmpty(s.Name)

	_, err = f.Seat("p2", "Carol", nil)
	a.ErrorIs(err, ErrTableFull)
	a.Equal("table_full", Code(err))

	// seating again is a no-op
	s, err = f.Seat("p0", "", nil)
	a.NoError(err)
	a.Equal(0, s.SeatIndex)
	a.Equal("Alice", s.Name)

	_, err = f.Seat("p0", "", intPtr(1))
	a.ErrorIs(err, ErrAlreadySeated)

	// the returned seat is a copy
	s.Stack = 1
	a.Equal(1000, f.seat(t, "p0").Stack)
}

func TestTable_SeatDuringHand(t *testing.T) {
	a := assert.New(t)

	f := setupTable(t, testOptions(), "p0", "p1")
	require.NoError(t, f.StartHand())

	s, err := f.Seat("p2", "Late", nil)
	a.NoError(err)
	a.True(s.Waiting)

	state := f.GetState("p2")
	a.Len(state.Seats, 3)
	a.Len(state.Hand.Players, 2)

	res := assertAct(t, f, "p0", action.Fold{})
	a.True(res.Complete)

	f.advance(t, 5*time.Second)
	state = f.GetState("p2")
	a.Equal(2, state.Hand.HandNumber)
	a.Len(state.Hand.Players, 3)
	a.Equal(1, state.Hand.DealerSeat)
	a.False(f.seat(t, "p2").Waiting)
}

func TestTable_Spectators(t *testing.T) {
	a := assert.New(t)

	f := setupTable(t, testOptions(), "p0")
	a.NoError(f.AddSpectator("s0", "Watcher"))
	a.True(f.IsSpectator("s0"))
	a.ErrorIs(f.AddSpectator("p0", ""), ErrAlreadySeated)

	state := f.GetState("s0")
	a.Len(state.Spectators, 1)
	a.Equal("Watcher", state.Spectators[0].Name)

	// taking a seat stops spectating and keeps the name
	s, err := f.Seat("s0", "", nil)
	a.NoError(err)
	a.Equal("Watcher", s.Name)
	a.False(f.IsSpectator("s0"))
	a.True(f.IsSeated("s0"))

	a.NoError(f.AddSpectator("s1", ""))
	a.True(f.RemoveSpectator("s1"))
	a.False(f.RemoveSpectator("s1"))
	a.Empty(f.GetState("").Spectators)
}

func TestTable_Unseat(t *testing.T) {
	a := assert.New(t)

	f := setupTable(t, testOptions(), "p0", "p1", "p2")
	a.Equal("p0", f.HostID())

	a.NoError(f.Unseat("p0"))
	a.Equal("p1", f.HostID())
	a.False(f.IsSeated("p0"))

	a.NoError(f.Unseat("p2"))
	a.Equal("p1", f.HostID())
	a.ErrorIs(f.Unseat("p2"), ErrNotSeated)

	a.NoError(f.Unseat("p1"))
	a.Equal("", f.HostID())

	// host moves clockwise and wraps around
	opts := testOptions()
	opts.HostID = "p2"
	f = setupTable(t, opts, "p0", "p1", "p2")
	a.Equal("p2", f.HostID())
	a.NoError(f.Unseat("p2"))
	a.Equal("p0", f.HostID())

	state := f.GetState("")
	a.True(state.Seats[0].IsHost)
	a.False(state.Seats[1].IsHost)
}

func TestTable_UnseatDuringHand(t *testing.T) {
	a := assert.New(t)

	f := setupTable(t, testOptions(), "p0", "p1", "p2")
	require.NoError(t, f.StartHand())
	a.Equal("p0", f.turn())

	// the small blind leaves, p0 keeps the action
	a.NoError(f.Unseat("p1"))
	a.Equal("p0", f.turn())

	res := assertAct(t, f, "p0", action.Fold{})
	a.True(res.Complete)
	a.Equal(1000, f.seat(t, "p0").Stack)
	a.Equal(1005, f.seat(t, "p2").Stack)
	a.Equal(StatusInProgress, f.Status())
	a.NotNil(f.GetState("").NextHandAt)

	// leaving heads-up ends the game
	f = setupTable(t, testOptions(), "p0", "p1")
	require.NoError(t, f.StartHand())
	a.NoError(f.Unseat("p1"))
	a.Equal(StatusWaiting, f.Status())
	a.Equal(1010, f.seat(t, "p0").Stack)
	a.Nil(f.GetState("").NextHandAt)
	a.Len(f.Records(), 1)
}

func TestTable_StartHand(t *testing.T) {
	a := assert.New(t)

	f := setupTable(t, testOptions(), "p0")
	a.ErrorIs(f.StartHand(), ErrNotEnoughPlayers)

	_, err := f.Seat("p1", "", nil)
	require.NoError(t, err)
	a.NoError(f.StartHand())
	a.Equal(StatusInProgress, f.Status())
	a.ErrorIs(f.StartHand(), ErrHandInProgress)

	state := f.GetState("p0")
	a.Equal(1, state.Hand.HandNumber)
	a.Equal(0, state.Hand.DealerSeat)
	a.Equal(holdem.PhasePreFlop, state.Hand.Phase)

	// disconnected players are not dealt in
	f = setupTable(t, testOptions(), "p0", "p1")
	a.NoError(f.MarkDisconnected("p1"))
	a.ErrorIs(f.StartHand(), ErrNotEnoughPlayers)
}

func TestTable_RequireReady(t *testing.T) {
	a := assert.New(t)

	opts := testOptions()
	opts.RequireReady = true
	f := setupTable(t, opts)
	_, err := f.Seat("p0", "Alice", nil)
	require.NoError(t, err)
	_, err = f.Seat("p1", "Bob", nil)
	require.NoError(t, err)

	a.EqualError(f.StartHand(), "not enough players: waiting for Alice to be ready")

	s, err := f.SetReady("p0", true)
	a.NoError(err)
	a.True(s.Ready)
	a.EqualError(f.StartHand(), "not enough players: waiting for Bob to be ready")

	_, err = f.SetReady("nobody", true)
	a.ErrorIs(err, ErrNotSeated)

	_, err = f.SetReady("p1", true)
	a.NoError(err)
	a.NoError(f.StartHand())
}

func TestTable_SubmitAction(t *testing.T) {
	a := assert.New(t)

	f := setupTable(t, testOptions(), "p0", "p1", "p2")
	_, err := f.SubmitAction("p0", action.Check{})
	a.ErrorIs(err, holdem.ErrHandNotActive)
	a.Equal("hand_not_active", Code(err))

	require.NoError(t, f.StartHand())

	_, err = f.SubmitAction("p1", action.Call{})
	a.ErrorIs(err, holdem.ErrNotYourTurn)
	a.Equal("not_your_turn", Code(err))

	_, err = f.SubmitAction("p0", action.Check{})
	a.ErrorIs(err, holdem.ErrIllegalAction)
	a.Equal("illegal_action", Code(err))

	res := assertAct(t, f, "p0", action.Raise{To: 30})
	a.Equal(action.TypeRaise, res.Action.Type)
	a.False(res.Complete)
	a.Equal("p1", res.State.Hand.ActionPlayerID)
	a.NotNil(res.State.Hand.Players[0].Cards)
	a.Nil(res.State.Hand.Players[1].Cards)
}

func TestTable_InterHandDelay(t *testing.T) {
	a := assert.New(t)

	f := setupTable(t, testOptions(), "p0", "p1")
	var changes int32
	f.OnChange(func() {
		atomic.AddInt32(&changes, 1)
	})

	require.NoError(t, f.StartHand())
	// heads-up, the dealer posts the small blind and acts first
	a.Equal("p0", f.turn())

	res := assertAct(t, f, "p0", action.Fold{})
	a.True(res.Complete)

	state := f.GetState("p0")
	a.Equal(StatusInProgress, state.Status)
	a.Equal(1, state.HandsPlayed)
	a.NotNil(state.NextHandAt)
	a.Equal(995, f.seat(t, "p0").Stack)
	a.Equal(1005, f.seat(t, "p1").Stack)
	a.Equal(1, f.seat(t, "p1").HandsWon)
	a.Equal(0, f.seat(t, "p0").HandsWon)
	a.Equal(1, f.seat(t, "p0").HandsPlayed)
	a.Len(f.Records(), 1)

	// nothing is queued during the pause
	_, err := f.SubmitAction("p1", action.Check{})
	a.ErrorIs(err, holdem.ErrHandNotActive)

	f.advance(t, 4*time.Second)
	a.Equal(1, f.GetState("").Hand.HandNumber)

	f.advance(t, time.Second)
	state = f.GetState("p1")
	a.Equal(2, state.Hand.HandNumber)
	a.Equal(1, state.Hand.DealerSeat)
	a.Equal("p1", state.Hand.ActionPlayerID)
	a.Nil(state.NextHandAt)
	a.EqualValues(1, atomic.LoadInt32(&changes))
}

func TestTable_StartHandCancelsNextHand(t *testing.T) {
	a := assert.New(t)

	f := setupTable(t, testOptions(), "p0", "p1")
	require.NoError(t, f.StartHand())
	assertAct(t, f, "p0", action.Fold{})
	a.NotNil(f.GetState("").NextHandAt)

	a.NoError(f.StartHand())
	a.Nil(f.GetState("").NextHandAt)

	// the cancelled event never fires
	f.advance(t, 10*time.Second)
	a.Equal(2, f.GetState("").Hand.HandNumber)
}

func TestTable_ReconnectBeforeGrace(t *testing.T) {
	a := assert.New(t)

	f := setupTable(t, testOptions(), "p0", "p1", "p2")
	require.NoError(t, f.StartHand())
	a.Equal("p0", f.turn())

	a.NoError(f.MarkDisconnected("p0"))
	a.False(f.seat(t, "p0").Connected)
	a.NotNil(f.seat(t, "p0").GraceUntil)

	// frozen from acting
	_, err := f.SubmitAction("p0", action.Call{})
	a.ErrorIs(err, holdem.ErrNotEligibleToAct)

	f.advance(t, 20*time.Second)
	a.NoError(f.MarkReconnected("p0"))
	a.True(f.seat(t, "p0").Connected)
	a.Nil(f.seat(t, "p0").GraceUntil)

	f.advance(t, time.Minute)
	a.False(f.seat(t, "p0").SittingOut)
	a.False(f.logged("disconnect grace expired, player is sitting out"))

	assertAct(t, f, "p0", action.Call{})
	a.Equal("p1", f.turn())
}

func TestTable_GraceExpires(t *testing.T) {
	a := assert.New(t)

	f := setupTable(t, testOptions(), "p0", "p1", "p2")
	var changes int32
	f.OnChange(func() {
		atomic.AddInt32(&changes, 1)
	})

	require.NoError(t, f.StartHand())
	a.NoError(f.MarkDisconnected("p0"))
	// disconnecting twice does not restart the timer
	f.advance(t, 10*time.Second)
	a.NoError(f.MarkDisconnected("p0"))

	f.advance(t, 19*time.Second)
	a.False(f.seat(t, "p0").SittingOut)

	f.advance(t, time.Second)
	a.True(f.seat(t, "p0").SittingOut)
	a.True(f.logged("disconnect grace expired, player is sitting out"))
	a.EqualValues(1, atomic.LoadInt32(&changes))

	state := f.GetState("p1")
	a.Equal("p1", state.Hand.ActionPlayerID)
	a.Equal(holdem.StatusSittingOut, state.Hand.Players[0].Status)
	a.Nil(state.Hand.Players[0].Cards)

	// back for the next hand
	a.NoError(f.MarkReconnected("p0"))
	a.False(f.seat(t, "p0").SittingOut)
	a.Equal(holdem.StatusSittingOut, f.GetState("p0").Hand.Players[0].Status)

	a.ErrorIs(f.MarkDisconnected("nobody"), ErrNotSeated)
	a.ErrorIs(f.MarkReconnected("nobody"), ErrNotSeated)
}

func TestTable_DisconnectDuringPause(t *testing.T) {
	a := assert.New(t)

	f := setupTable(t, testOptions(), "p0", "p1")
	require.NoError(t, f.StartHand())
	assertAct(t, f, "p0", action.Fold{})
	a.NoError(f.MarkDisconnected("p0"))

	// the next hand cannot start without p0
	f.advance(t, 5*time.Second)
	state := f.GetState("")
	a.Equal(StatusWaiting, state.Status)
	a.Equal(1, state.Hand.HandNumber)
	a.Nil(state.NextHandAt)

	f.advance(t, 25*time.Second)
	a.True(f.seat(t, "p0").SittingOut)
	a.Equal(StatusWaiting, f.Status())

	a.NoError(f.MarkReconnected("p0"))
	a.Equal(StatusInProgress, f.Status())
	a.NotNil(f.GetState("").NextHandAt)

	f.advance(t, 5*time.Second)
	a.Equal(2, f.GetState("").Hand.HandNumber)
}

func TestTable_ReconnectAfterAbortedHand(t *testing.T) {
	a := assert.New(t)

	f := setupTable(t, testOptions(), "p0", "p1")
	require.NoError(t, f.StartHand())
	assertAct(t, f, "p0", action.Fold{})
	a.NoError(f.MarkDisconnected("p0"))
	f.advance(t, 5*time.Second)
	f.advance(t, 25*time.Second)
	a.True(f.seat(t, "p0").SittingOut)

	// as left behind by a hand that ran out of cards
	f.lock.Lock()
	f.awaitingRestart = true
	f.lock.Unlock()

	a.NoError(f.MarkReconnected("p0"))
	a.Equal(StatusWaiting, f.Status())
	a.Nil(f.GetState("").NextHandAt)

	f.advance(t, 5*time.Second)
	a.Equal(1, f.GetState("").Hand.HandNumber)

	// the host starts the game again
	require.NoError(t, f.StartHand())
	a.Equal(2, f.GetState("").Hand.HandNumber)
	f.lock.Lock()
	a.False(f.awaitingRestart)
	f.lock.Unlock()
}

func TestTable_CompleteFoldsOutEveryPlayer(t *testing.T) {
	a := assert.New(t)

	f := setupTable(t, testOptions(), "p0", "p1", "p2")
	require.NoError(t, f.StartHand())
	f.Complete()

	a.Equal(StatusCompleted, f.Status())
	a.False(f.logged("could not fold player when closing the table"))
	a.Equal(1, f.GetState("").HandsPlayed)
}

func TestTable_GetState(t *testing.T) {
	a := assert.New(t)

	f := setupTable(t, testOptions(), "p0", "p1")
	require.NoError(t, f.AddSpectator("s0", "Watcher"))
	require.NoError(t, f.StartHand())

	first := f.GetState("p0")
	second := f.GetState("p0")
	a.Equal(first, second)

	b1, err := json.Marshal(first)
	require.NoError(t, err)
	b2, err := json.Marshal(second)
	require.NoError(t, err)
	a.JSONEq(string(b1), string(b2))

	a.Len(first.Hand.Players[0].Cards, 2)
	a.Nil(first.Hand.Players[1].Cards)
	a.NotNil(first.Hand.Choices)

	for _, p := range f.GetState("s0").Hand.Players {
		a.Nil(p.Cards)
	}

	for _, p := range f.GetState("stranger").Hand.Players {
		a.Nil(p.Cards)
	}
}

func TestTable_Complete(t *testing.T) {
	a := assert.New(t)

	f := setupTable(t, testOptions(), "p0", "p1")
	require.NoError(t, f.StartHand())
	require.NoError(t, f.MarkDisconnected("p1"))

	f.Complete()
	state := f.GetState("")
	a.Equal(StatusCompleted, state.Status)
	a.Nil(state.NextHandAt)
	a.Nil(state.Seats[1].GraceUntil)
	a.Equal(holdem.PhaseHandComplete, state.Hand.Phase)
	a.Len(f.Records(), 1)
	a.True(f.EligibleForCleanup(f.clock.Now()))

	_, err := f.Seat("p2", "", nil)
	a.ErrorIs(err, ErrTableCompleted)
	a.ErrorIs(f.StartHand(), ErrTableCompleted)
	a.ErrorIs(f.AddSpectator("s0", ""), ErrTableCompleted)

	_, err = f.SubmitAction("p0", action.Fold{})
	a.ErrorIs(err, holdem.ErrHandNotActive)

	// nothing left to fire
	f.advance(t, time.Minute)
	a.Equal(StatusCompleted, f.Status())
}

func TestTable_EligibleForCleanup(t *testing.T) {
	a := assert.New(t)

	f := setupTable(t, testOptions())
	now := f.clock.Now()
	a.False(f.EligibleForCleanup(now))
	a.False(f.EligibleForCleanup(now.Add(59 * time.Second)))
	a.True(f.EligibleForCleanup(now.Add(time.Minute)))

	_, err := f.Seat("p0", "", nil)
	require.NoError(t, err)
	a.False(f.EligibleForCleanup(now.Add(time.Hour)))

	f.advance(t, 10*time.Minute)
	require.NoError(t, f.Unseat("p0"))
	now = f.clock.Now()
	a.False(f.EligibleForCleanup(now.Add(30 * time.Second)))
	a.True(f.EligibleForCleanup(now.Add(time.Minute)))
}
