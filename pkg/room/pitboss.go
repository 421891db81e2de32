package room

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"holdem-server/pkg/table"
)

// PitBoss keeps track of every table the server is hosting
type PitBoss struct {
	logger        logrus.FieldLogger
	clock         quartz.Clock
	sweepInterval time.Duration

	lock    sync.RWMutex
	dealers map[string]*Dealer
	// invites maps invite codes to table IDs
	invites map[string]string
}

// NewPitBoss returns a new registry
// If clock is nil, the real clock is used
func NewPitBoss(logger logrus.FieldLogger, clock quartz.Clock, sweepInterval time.Duration) *PitBoss {
	if clock == nil {
		clock = quartz.NewReal()
	}

	return &PitBoss{
		logger:        logger,
		clock:         clock,
		sweepInterval: sweepInterval,
		dealers:       make(map[string]*Dealer),
		invites:       make(map[string]string),
	}
}

// Host creates a new table and starts its dealer
func (p *PitBoss) Host(opts table.Options) (*Dealer, error) {
	tbl, err := table.New(p.logger, opts, p.clock)
	if err != nil {
		return nil, err
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	if _, exists := p.dealers[tbl.ID]; exists {
		return nil, table.UserError("a table with that ID already exists")
	}

	d := NewDealer(p.logger, p.clock, tbl)
	d.StartShift()

	p.dealers[tbl.ID] = d
	p.invites[tbl.InviteCode] = tbl.ID

	p.logger.WithFields(logrus.Fields{
		"table": tbl.ID,
		"host":  opts.HostID,
	}).Info("hosting table")

	return d, nil
}

// Get returns the dealer for the table
func (p *PitBoss) Get(id string) (*Dealer, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	d, ok := p.dealers[id]
	return d, ok
}

// GetByInviteCode returns the dealer for the table with the invite code
func (p *PitBoss) GetByInviteCode(code string) (*Dealer, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	id, ok := p.invites[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, false
	}

	d, ok := p.dealers[id]
	return d, ok
}

// List returns a summary of every table, oldest first
func (p *PitBoss) List() []*table.Summary {
	p.lock.RLock()
	summaries := make([]*table.Summary, 0, len(p.dealers))
	for _, d := range p.dealers {
		summaries = append(summaries, d.table.Summary())
	}
	p.lock.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Created.Equal(summaries[j].Created) {
			return summaries[i].ID < summaries[j].ID
		}

		return summaries[i].Created.Before(summaries[j].Created)
	})

	return summaries
}

// Remove closes the table and stops its dealer
func (p *PitBoss) Remove(id string) bool {
	p.lock.Lock()
	d, ok := p.dealers[id]
	if ok {
		delete(p.dealers, id)
		delete(p.invites, d.table.InviteCode)
	}
	p.lock.Unlock()

	if !ok {
		return false
	}

	d.table.Complete()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := d.EndShift(ctx); err != nil {
			p.logger.WithError(err).WithField("table", id).Error("dealer did not stop")
		}
	}()

	p.logger.WithField("table", id).Info("removed table")
	return true
}

// Sweep removes every table that is eligible for cleanup
// Returns the IDs of the removed tables
func (p *PitBoss) Sweep(now time.Time) []string {
	p.lock.RLock()
	ids := make([]string, 0)
	for id, d := range p.dealers {
		if d.table.EligibleForCleanup(now) {
			ids = append(ids, id)
		}
	}
	p.lock.RUnlock()

	sort.Strings(ids)
	for _, id := range ids {
		p.Remove(id)
	}

	return ids
}

// StartShift sweeps for abandoned tables until ctx is done
// Wait on the returned waiter to block until the sweep stops
func (p *PitBoss) StartShift(ctx context.Context) quartz.Waiter {
	return p.clock.TickerFunc(ctx, p.sweepInterval, func() error {
		if removed := p.Sweep(p.clock.Now()); len(removed) > 0 {
			p.logger.WithField("tables", removed).Info("swept tables")
		}

		return nil
	}, "pitboss", "sweep")
}

// Shutdown closes every table and waits for the dealers to stop
func (p *PitBoss) Shutdown(ctx context.Context) error {
	p.lock.Lock()
	dealers := make([]*Dealer, 0, len(p.dealers))
	for _, d := range p.dealers {
		dealers = append(dealers, d)
	}
	p.dealers = make(map[string]*Dealer)
	p.invites = make(map[string]string)
	p.lock.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, d := range dealers {
		d := d
		g.Go(func() error {
			d.table.Complete()
			return d.EndShift(ctx)
		})
	}

	return g.Wait()
}
