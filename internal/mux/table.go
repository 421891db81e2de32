package mux

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"holdem-server/pkg/room"
	"holdem-server/pkg/table"
)

var wordChar = regexp.MustCompile(`\w`)

// summaryFor hides the invite code from everyone but the host
func summaryFor(tbl *table.Table, playerID string) *table.Summary {
	s := tbl.Summary()
	if playerID == "" || s.HostID != playerID {
		s.InviteCode = ""
	}

	return s
}

func (m *Mux) getTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries := m.pitBoss.List()
		for _, s := range summaries {
			s.InviteCode = ""
		}

		writeJSON(w, http.StatusOK, summaries)
	}
}

type postTablePayload struct {
	Name          string `json:"name"`
	MaxSeats      int    `json:"maxSeats"`
	SmallBlind    int    `json:"smallBlind"`
	BigBlind      int    `json:"bigBlind"`
	StartingStack int    `json:"startingStack"`
	Password      string `json:"password"`
	RequireReady  *bool  `json:"requireReady"`
}

// options fills in anything left out with the server defaults
func (p postTablePayload) options(defaults table.Options) table.Options {
	opts := defaults
	if p.Name != "" {
		opts.Name = p.Name
	}

	if p.MaxSeats != 0 {
		opts.MaxSeats = p.MaxSeats
	}

	if p.SmallBlind != 0 {
		opts.SmallBlind = p.SmallBlind
	}

	if p.BigBlind != 0 {
		opts.BigBlind = p.BigBlind
	}

	if p.StartingStack != 0 {
		opts.StartingStack = p.StartingStack
	}

	if p.RequireReady != nil {
		opts.RequireReady = *p.RequireReady
	}

	opts.Password = p.Password
	return opts
}

func (m *Mux) postTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postTablePayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		pp.Name = strings.TrimSpace(pp.Name)
		if pp.Name != "" && (!wordChar.MatchString(pp.Name) || len(pp.Name) < 3 || len(pp.Name) > 40) {
			writeJSONError(w, http.StatusBadRequest, errors.New("name must be 3-40 characters"))
			return
		}

		opts := pp.options(m.defaults)
		opts.HostID = r.Context().Value(ctxPlayerKey).(string)
		if err := opts.Validate(); err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		d, err := m.pitBoss.Host(opts)
		if err != nil {
			writeTableError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, d.Table().Summary())
	}
}

type postTableJoinPayload struct {
	InviteCode string `json:"inviteCode"`
	Password   string `json:"password"`
}

func (m *Mux) postTableJoin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postTableJoinPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		d, ok := m.pitBoss.GetByInviteCode(pp.InviteCode)
		if !ok {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		if err := d.Table().VerifyPassword(pp.Password); err != nil {
			writeTableError(w, err)
			return
		}

		// the invite code was already known
		writeJSON(w, http.StatusOK, d.Table().Summary())
	}
}

func (m *Mux) getTableID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := r.Context().Value(ctxDealerKey).(*room.Dealer)
		writeJSON(w, http.StatusOK, summaryFor(d.Table(), playerID(r)))
	}
}

func (m *Mux) getTableIDState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := r.Context().Value(ctxDealerKey).(*room.Dealer)
		writeJSON(w, http.StatusOK, d.Table().GetState(playerID(r)))
	}
}

// getTableIDRecord returns the audit record of the last finished hand
// Hole cards that were not shown down are only included for their owner
func (m *Mux) getTableIDRecord() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := r.Context().Value(ctxDealerKey).(*room.Dealer)
		records := d.Table().Records()
		if len(records) == 0 {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		writeJSON(w, http.StatusOK, records[len(records)-1].Redacted(playerID(r)))
	}
}
