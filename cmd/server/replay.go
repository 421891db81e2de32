package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"holdem-server/pkg/poker/holdem"
)

// ReplayCmd re-runs a full hand record, e.g., one exported from Table.Records
// Redacted records served over HTTP cannot be replayed
type ReplayCmd struct {
	File string `arg:"" help:"Hand record in JSON" type:"existingfile"`
}

// Run replays the hand and prints the outcome
func (r *ReplayCmd) Run(logger logrus.FieldLogger) error {
	b, err := os.ReadFile(r.File)
	if err != nil {
		return err
	}

	var record holdem.Record
	if err := json.Unmarshal(b, &record); err != nil {
		return fmt.Errorf("could not decode %s: %w", r.File, err)
	}

	h, err := holdem.Replay(logger, &record, nil)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"hand":      record.HandNumber,
		"algorithm": record.Algorithm,
		"deckHash":  record.DeckHash,
	}).Info("replay matches the record")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(h.Outcome())
}
