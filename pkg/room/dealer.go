package room

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"

	"holdem-server/pkg/poker/action"
	"holdem-server/pkg/poker/holdem"
	"holdem-server/pkg/table"
)

// Dealer runs a single table
// Client messages are handled one at a time in the run loop, and every change is
// broadcast to all connected clients
type Dealer struct {
	logger logrus.FieldLogger
	clock  quartz.Clock
	table  *table.Table

	clients map[*Client]bool
	lock    sync.RWMutex

	// only touched from the run loop
	logMessages    []*LogMessage
	lastLoggedHand int

	execInRunLoop chan func()
	stateChanged  chan bool
	close         chan bool
	closeOnce     sync.Once
	done          chan bool
}

// NewDealer creates a new dealer object
func NewDealer(logger logrus.FieldLogger, clock quartz.Clock, tbl *table.Table) *Dealer {
	d := &Dealer{
		logger:        logger.WithField("table", tbl.ID),
		clock:         clock,
		table:         tbl,
		clients:       make(map[*Client]bool),
		execInRunLoop: make(chan func(), 256),
		stateChanged:  make(chan bool, 1),
		close:         make(chan bool),
		done:          make(chan bool),
	}

	tbl.OnChange(d.signalStateChanged)
	return d
}

// Table returns the table the dealer is running
func (d *Dealer) Table() *table.Table {
	return d.table
}

// signalStateChanged is called from table timers, so it must never block
func (d *Dealer) signalStateChanged() {
	select {
	case d.stateChanged <- true:
	default:
	}
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	defer close(d.done)

	d.logger.Debug("creating dealer run loop")
	for {
		select {
		case <-d.stateChanged:
			d.sendTableState()
		case fn := <-d.execInRunLoop:
			fn()
		case <-d.close:
			d.logger.Debug("terminating dealer run loop")
			return
		}
	}
}

// EndShift stops the run loop and disconnects every client
func (d *Dealer) EndShift(ctx context.Context) error {
	d.closeOnce.Do(func() {
		close(d.close)
	})

	for _, client := range d.Clients() {
		client.Disconnect("table closed")
	}

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// exec queues fn for the run loop, dropping it once the shift has ended
func (d *Dealer) exec(fn func()) {
	select {
	case d.execInRunLoop <- fn:
	case <-d.close:
	}
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	d.exec(func() {
		if err := d.table.MarkReconnected(client.PlayerID); err != nil && !errors.Is(err, table.ErrNotSeated) {
			d.logger.WithError(err).WithField("client", client.String()).Error("could not reconnect player")
		}

		if len(d.logMessages) > 0 {
			client.Send(&Response{
				Key:  "logs",
				Data: append([]*LogMessage{}, d.logMessages...),
			})
		}

		d.sendTableState()
	})
}

// RemoveClient removes a client
// The player is marked disconnected once their last connection is gone
// Returns true if no clients are left
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	stillConnected := false
	for c := range d.clients {
		if c.PlayerID == client.PlayerID {
			stillConnected = true
			break
		}
	}
	d.lock.Unlock()

	if !stillConnected {
		d.exec(func() {
			if err := d.table.MarkDisconnected(client.PlayerID); err != nil && !errors.Is(err, table.ErrNotSeated) {
				d.logger.WithError(err).WithField("client", client.String()).Error("could not disconnect player")
			}

			d.sendTableState()
		})
	}

	return nClients == 0
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendTableState() {
	if public := d.table.GetState(""); public.Hand != nil && public.Hand.Outcome != nil && public.Hand.HandNumber > d.lastLoggedHand {
		d.lastLoggedHand = public.Hand.HandNumber
		d.addLogMessages(outcomeLogMessages(d.clock.Now(), public.Hand)...)
	}

	for _, client := range d.Clients() {
		client.Send(&Response{
			Key:  "tableState",
			Data: d.table.GetState(client.PlayerID),
		})
	}
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *PayloadIn) {
	d.exec(func() {
		res, changed, err := d.dispatch(c, msg)
		if err != nil {
			log := d.logger.WithError(err).WithFields(logrus.Fields{
				"client": c.String(),
				"action": msg.Action,
			})
			if table.IsUserError(err) {
				log.Debug("rejected message")
			} else {
				log.Error("could not handle message")
			}

			c.Send(newErrorResponse(msg.Context, err))
			return
		}

		res.Context = msg.Context
		c.Send(res)

		if changed {
			d.sendTableState()
		}
	})
}

// dispatch performs the message
// NOTE: must only be called from the run loop
func (d *Dealer) dispatch(c *Client, msg *PayloadIn) (res *Response, changed bool, err error) {
	now := d.clock.Now()

	switch msg.Action {
	case "state":
		return &Response{Key: "tableState", Data: d.table.GetState(c.PlayerID)}, false, nil
	case "seat":
		name := msg.Name
		if name == "" {
			name = c.Name
		}

		seat, err := d.table.Seat(c.PlayerID, name, msg.SeatIndex)
		if err != nil {
			return nil, false, err
		}

		d.addLogMessages(newLogMessage(now, c.PlayerID, "sat down in seat %d", seat.SeatIndex+1))
		return &Response{Key: "seat", Data: seat}, true, nil
	case "unseat":
		if err := d.table.Unseat(c.PlayerID); err != nil {
			return nil, false, err
		}

		d.addLogMessages(newLogMessage(now, c.PlayerID, "left the table"))
		return OK(), true, nil
	case "ready":
		seat, err := d.table.SetReady(c.PlayerID, msg.Ready)
		if err != nil {
			return nil, false, err
		}

		return &Response{Key: "seat", Data: seat}, true, nil
	case "spectate":
		if err := d.table.AddSpectator(c.PlayerID, c.Name); err != nil {
			return nil, false, err
		}

		return OK(), true, nil
	case "start":
		if d.table.HostID() != c.PlayerID {
			return nil, false, table.ErrNotHost
		}

		if err := d.table.StartHand(); err != nil {
			return nil, false, err
		}

		return OK(), true, nil
	case "complete":
		if d.table.HostID() != c.PlayerID {
			return nil, false, table.ErrNotHost
		}

		d.table.Complete()
		d.addLogMessages(newLogMessage(now, c.PlayerID, "closed the table"))
		return OK(), true, nil
	}

	act, err := action.Parse(msg.Action, msg.Amount)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", holdem.ErrIllegalAction, err)
	}

	result, err := d.table.SubmitAction(c.PlayerID, act)
	if err != nil {
		return nil, false, err
	}

	d.addLogMessages(actionLogMessage(now, result.Action))
	return &Response{Key: "action", Data: result}, true, nil
}
