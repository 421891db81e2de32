package table

import (
	"fmt"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/synacor/argon2id"

	"holdem-server/internal/schedule"
	"holdem-server/internal/util"
	"holdem-server/pkg/poker/holdem"
)

// Status is the lifecycle stage of a table
type Status string

// table statuses
const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// maxRecords is how many hand records a table keeps
const maxRecords = 20

const nextHandKey = "next-hand"

func graceKey(seatIndex int) string {
	return fmt.Sprintf("grace:%d", seatIndex)
}

// SeatInfo is a player sitting at the table
type SeatInfo struct {
	PlayerID   string `json:"playerId"`
	Name       string `json:"name"`
	SeatIndex  int    `json:"seatIndex"`
	Stack      int    `json:"stack"`
	Ready      bool   `json:"ready"`
	Connected  bool   `json:"connected"`
	SittingOut bool   `json:"sittingOut"`
	// Waiting is true for a player who sat down during a hand
	Waiting bool `json:"waiting"`

	HandsPlayed int `json:"handsPlayed"`
	HandsWon    int `json:"handsWon"`
}

func (s *SeatInfo) clone() *SeatInfo {
	c := *s
	return &c
}

// Table is a hosted Hold'em table
// All methods are safe for concurrent use
type Table struct {
	ID         string
	Name       string
	InviteCode string
	Created    time.Time

	logger  logrus.FieldLogger
	options Options
	clock   quartz.Clock

	lock      sync.Mutex
	scheduler *schedule.Scheduler

	passwordHash string
	hostID       string
	status       Status

	// seats is indexed by seat index, nil if the seat is open
	seats      []*SeatInfo
	players    map[string]*SeatInfo
	spectators map[string]string

	// hand is the live hand, lastHand is kept around for showing the result
	hand        *holdem.Hand
	lastHand    *holdem.Hand
	handsPlayed int
	dealerSeat  int
	records     []*holdem.Record
	// awaitingRestart is set after an aborted hand until a hand is started by hand
	awaitingRestart bool

	emptySince time.Time
	onChange   func()
}

// New returns a new table
// If clock is nil, the real clock is used
func New(logger logrus.FieldLogger, opts Options, clock quartz.Clock) (*Table, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if clock == nil {
		clock = quartz.NewReal()
	}

	id := opts.ID
	if id == "" {
		id = uuid.New().String()
	}

	t := &Table{
		ID:         id,
		Name:       opts.Name,
		InviteCode: util.InviteCode(),
		Created:    clock.Now(),
		logger:     logger.WithField("table", id),
		options:    opts,
		clock:      clock,
		hostID:     opts.HostID,
		status:     StatusWaiting,
		seats:      make([]*SeatInfo, opts.MaxSeats),
		players:    make(map[string]*SeatInfo),
		spectators: make(map[string]string),
		dealerSeat: -1,
	}

	t.scheduler = schedule.New(clock, &t.lock)
	t.emptySince = t.Created

	if opts.Password != "" {
		hash, err := argon2id.DefaultHashPassword(opts.Password)
		if err != nil {
			return nil, err
		}

		t.passwordHash = hash
	}

	return t, nil
}

// OnChange registers a function that is called when a timer changes the table
// fn is called while the table is locked, so it must not block or call back into the table
func (t *Table) OnChange(fn func()) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.onChange = fn
}

func (t *Table) notify() {
	if t.onChange != nil {
		t.onChange()
	}
}

// Options returns the table configuration
func (t *Table) Options() Options {
	opts := t.options
	opts.Password = ""
	return opts
}

// Status returns the lifecycle stage of the table
func (t *Table) Status() Status {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.status
}

// HostID returns the player with host privileges
func (t *Table) HostID() string {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.hostID
}

// HasPassword returns true if the table requires a password to join
func (t *Table) HasPassword() bool {
	return t.passwordHash != ""
}

// VerifyPassword checks the password to join the table
func (t *Table) VerifyPassword(password string) error {
	if t.passwordHash == "" {
		return nil
	}

	if err := argon2id.Compare(t.passwordHash, password); err != nil {
		return ErrInvalidPassword
	}

	return nil
}

// Seat sits the player down
// If seatIndex is nil, the first open seat is used. A player who sits down while a hand
// is running is dealt in from the next hand.
func (t *Table) Seat(playerID, name string, seatIndex *int) (*SeatInfo, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.status == StatusCompleted {
		return nil, ErrTableCompleted
	}

	if playerID == "" {
		return nil, UserError("player ID is required")
	}

	if s, ok := t.players[playerID]; ok {
		if seatIndex != nil && *seatIndex != s.SeatIndex {
			return nil, ErrAlreadySeated
		}

		return s.clone(), nil
	}

	idx, err := t.findSeat(seatIndex)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = t.spectators[playerID]
	}

	if name == "" {
		name = util.GetRandomName()
	}

	s := &SeatInfo{
		PlayerID:  playerID,
		Name:      name,
		SeatIndex: idx,
		Stack:     t.options.StartingStack,
		Connected: true,
		Waiting:   t.hand != nil,
	}

	t.seats[idx] = s
	t.players[playerID] = s
	delete(t.spectators, playerID)
	t.emptySince = time.Time{}

	if t.hostID == "" {
		t.hostID = playerID
	}

	t.logger.WithFields(logrus.Fields{
		"player": playerID,
		"seat":   idx,
	}).Info("player seated")

	return s.clone(), nil
}

func (t *Table) findSeat(seatIndex *int) (int, error) {
	if len(t.players) >= len(t.seats) {
		return 0, ErrTableFull
	}

	if seatIndex != nil {
		idx := *seatIndex
		if idx < 0 || idx >= len(t.seats) {
			return 0, fmt.Errorf("%w: seat %d does not exist", ErrSeatUnavailable, idx)
		}

		if t.seats[idx] != nil {
			return 0, fmt.Errorf("%w: seat %d is taken", ErrSeatUnavailable, idx)
		}

		return idx, nil
	}

	for i, s := range t.seats {
		if s == nil {
			return i, nil
		}
	}

	return 0, ErrTableFull
}

// Unseat removes the player from the table
// A player in the live hand is folded first. Host privileges pass to the next player clockwise.
func (t *Table) Unseat(playerID string) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	s, ok := t.players[playerID]
	if !ok {
		return ErrNotSeated
	}

	t.scheduler.Cancel(graceKey(s.SeatIndex))
	if t.inHand(playerID) {
		if err := t.hand.ForceFold(playerID); err != nil {
			t.logger.WithError(err).WithField("player", playerID).Warn("could not fold player leaving the table")
		}
	}

	t.seats[s.SeatIndex] = nil
	delete(t.players, playerID)

	if t.hostID == playerID {
		t.transferHost(s.SeatIndex)
	}

	if len(t.players) == 0 {
		t.emptySince = t.clock.Now()
	}

	t.logger.WithField("player", playerID).Info("player left the table")
	t.afterChange()
	return nil
}

// transferHost passes host privileges clockwise from the vacated seat
func (t *Table) transferHost(from int) {
	n := len(t.seats)
	for i := 1; i < n; i++ {
		if s := t.seats[(from+i)%n]; s != nil {
			t.hostID = s.PlayerID
			t.logger.WithField("host", s.PlayerID).Info("host transferred")
			return
		}
	}

	t.hostID = ""
}

// SetReady records whether the player is ready for the next hand
func (t *Table) SetReady(playerID string, ready bool) (*SeatInfo, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	s, ok := t.players[playerID]
	if !ok {
		return nil, ErrNotSeated
	}

	s.Ready = ready
	return s.clone(), nil
}

// IsSeated returns true if the player has a seat
func (t *Table) IsSeated(playerID string) bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	_, ok := t.players[playerID]
	return ok
}

// Complete ends the table
// A live hand is folded out before the table closes.
func (t *Table) Complete() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.status == StatusCompleted {
		return
	}

	t.status = StatusCompleted
	if t.hand != nil {
		for _, s := range t.seats {
			if t.hand.IsComplete() {
				break
			}

			if s != nil && t.inHand(s.PlayerID) {
				if err := t.hand.ForceFold(s.PlayerID); err != nil {
					t.logger.WithError(err).WithField("player", s.PlayerID).Warn("could not fold player when closing the table")
				}
			}
		}

		if t.hand.IsComplete() {
			t.finishHand()
		}
	}

	t.scheduler.CancelAll()
	t.logger.Info("table completed")
}

// EligibleForCleanup returns true if the table can be removed
func (t *Table) EligibleForCleanup(now time.Time) bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.status == StatusCompleted {
		return true
	}

	if len(t.players) > 0 || t.emptySince.IsZero() {
		return false
	}

	return now.Sub(t.emptySince) >= t.options.EmptyRetention
}
