// Package schedule runs keyed, cancellable deferred events
package schedule

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

type event struct {
	timer *quartz.Timer
	at    time.Time
}

// Scheduler runs callbacks after a delay
// Every method must be called while holding the Locker passed to New. Callbacks run while
// holding it too, so an event cancelled under the lock never runs.
type Scheduler struct {
	clock  quartz.Clock
	lock   sync.Locker
	events map[string]*event
}

// New returns a new Scheduler
func New(clock quartz.Clock, lock sync.Locker) *Scheduler {
	return &Scheduler{
		clock:  clock,
		lock:   lock,
		events: make(map[string]*event),
	}
}

// Schedule runs fn after d, replacing any event with the same key
func (s *Scheduler) Schedule(key string, d time.Duration, fn func()) {
	s.Cancel(key)

	ev := &event{
		at: s.clock.Now().Add(d),
	}

	ev.timer = s.clock.AfterFunc(d, func() {
		s.lock.Lock()
		defer s.lock.Unlock()

		if s.events[key] != ev {
			// cancelled or replaced while waiting for the lock
			return
		}

		delete(s.events, key)
		fn()
	}, "schedule", key)

	s.events[key] = ev
}

// Cancel stops the event
// Returns false if there was nothing to cancel
func (s *Scheduler) Cancel(key string) bool {
	ev, ok := s.events[key]
	if !ok {
		return false
	}

	ev.timer.Stop()
	delete(s.events, key)
	return true
}

// CancelAll stops every event
func (s *Scheduler) CancelAll() {
	for key := range s.events {
		s.Cancel(key)
	}
}

// Pending returns when the event is due
func (s *Scheduler) Pending(key string) (time.Time, bool) {
	ev, ok := s.events[key]
	if !ok {
		return time.Time{}, false
	}

	return ev.at, true
}

// Len returns the number of pending events
func (s *Scheduler) Len() int {
	return len(s.events)
}
