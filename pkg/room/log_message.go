package room

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"holdem-server/pkg/poker/holdem"
)

const logMessageLimit = 25

// LogMessage is a line in the table's activity feed
// If PlayerIDs is empty, it's a general statement, otherwise the message reads like "{player} did X"
type LogMessage struct {
	UUID      string    `json:"uuid"`
	PlayerIDs []string  `json:"playerIds"`
	Message   string    `json:"message"`
	Time      time.Time `json:"time"`
}

func newLogMessage(now time.Time, playerID string, format string, a ...interface{}) *LogMessage {
	var playerIDs []string
	if playerID != "" {
		playerIDs = []string{playerID}
	}

	return &LogMessage{
		UUID:      uuid.New().String(),
		PlayerIDs: playerIDs,
		Message:   fmt.Sprintf(format, a...),
		Time:      now,
	}
}

func actionLogMessage(now time.Time, rec holdem.ActionRecord) *LogMessage {
	msg := rec.Type.LogMessage(rec.Total)
	if rec.Origin != holdem.OriginPlayer {
		msg += fmt.Sprintf(" (%s)", rec.Origin)
	}

	if rec.AllIn {
		msg += " and is all-in"
	}

	return newLogMessage(now, rec.PlayerID, "%s", msg)
}

func outcomeLogMessages(now time.Time, hand *holdem.State) []*LogMessage {
	outcome := hand.Outcome
	if outcome.Aborted {
		return []*LogMessage{newLogMessage(now, "", "hand #%d was cancelled and all bets were returned", hand.HandNumber)}
	}

	messages := make([]*LogMessage, 0, len(outcome.Winners))
	for _, id := range outcome.Winners {
		if desc, ok := outcome.Hands[id]; ok {
			messages = append(messages, newLogMessage(now, id, "won ${%d} with %s", outcome.Payouts[id], desc))
		} else {
			messages = append(messages, newLogMessage(now, id, "won ${%d}", outcome.Payouts[id]))
		}
	}

	return messages
}

// addLogMessages adds log messages and sends them to every client
// Note: this must only be called from within the run loop
func (d *Dealer) addLogMessages(messages ...*LogMessage) {
	if len(messages) == 0 {
		return
	}

	m := append(d.logMessages, messages...)
	count := len(m)
	if count > logMessageLimit {
		m = m[count-logMessageLimit:]
	}

	d.logMessages = m

	for _, client := range d.Clients() {
		client.Send(&Response{
			Key:  "logs",
			Data: messages,
		})
	}
}
