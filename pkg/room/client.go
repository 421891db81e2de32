package room

import (
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	dealer *Dealer

	PlayerID string
	Name     string
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, playerID, name string) *Client {
	return &Client{
		send:     make(chan interface{}, 256),
		Close:    make(chan string, 1),
		Conn:     conn,
		PlayerID: playerID,
		Name:     name,
	}
}

// Send send a message to the web client
// Returns false if the client is not keeping up and the message was dropped
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		logrus.WithField("client", c.String()).Warn("send buffer is full, dropping message")
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// Disconnect asks the write loop to close the connection
func (c *Client) Disconnect(reason string) {
	select {
	case c.Close <- reason:
	default:
	}
}

// String returns a traceable identifier for the player and table
func (c *Client) String() string {
	if c.dealer == nil {
		return c.PlayerID
	}

	return fmt.Sprintf("%s:%s", c.PlayerID, c.dealer.table.ID)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *PayloadIn) {
	if c.dealer == nil {
		logrus.WithField("msg", msg).Warn("received message, but dealer not found")
		return
	}

	c.dealer.ReceivedMessage(c, msg)
}
