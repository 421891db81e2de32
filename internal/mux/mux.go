package mux

import (
	"context"
	"net/http"
	"strings"

	gmux "github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"holdem-server/pkg/room"
	"holdem-server/pkg/table"
)

type ctxKey int

const (
	ctxPlayerKey ctxKey = iota
	ctxDealerKey
)

// playerHeader identifies the player making the request
// Authentication is handled upstream, so the value is trusted as-is
const playerHeader = "X-Player-ID"

// passwordHeader carries the password of a private table
const passwordHeader = "X-Table-Password"

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	logger   logrus.FieldLogger
	version  string
	pitBoss  *room.PitBoss
	defaults table.Options
}

// NewMux returns a new HTTP mux
// defaults are used for any table setting the host leaves out
func NewMux(logger logrus.FieldLogger, version string, pitBoss *room.PitBoss, defaults table.Options) *Mux {
	this := &Mux{
		Router:   gmux.NewRouter(),
		logger:   logger,
		version:  version,
		pitBoss:  pitBoss,
		defaults: defaults,
	}

	r := this.Router
	r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	r.Methods(http.MethodGet).Path("/table").Handler(this.getTable())

	// requires a player
	{
		pr := r.NewRoute().Subrouter()
		pr.Use(this.playerMiddleware)

		pr.Methods(http.MethodPost).Path("/table").Handler(this.postTable())
		pr.Methods(http.MethodPost).Path("/table/join").Handler(this.postTableJoin())
	}

	tr := r.PathPrefix("/table/{id}").Subrouter()
	tr.Use(this.tableMiddleware)

	tr.Methods(http.MethodGet).Path("").Handler(this.getTableID())

	// requires the password of a private table
	gr := tr.NewRoute().Subrouter()
	gr.Use(this.passwordMiddleware)

	gr.Methods(http.MethodGet).Path("/state").Handler(this.getTableIDState())
	gr.Methods(http.MethodGet).Path("/record").Handler(this.getTableIDRecord())

	wr := gr.NewRoute().Subrouter()
	wr.Use(this.playerMiddleware)
	wr.Methods(http.MethodGet).Path("/ws").Handler(this.getTableIDWS())

	return this
}

// playerID returns the player from the header, or from the query string for
// websocket clients that cannot set headers
func playerID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(playerHeader)); id != "" {
		return id
	}

	return strings.TrimSpace(r.URL.Query().Get("playerId"))
}

func (m *Mux) playerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := playerID(r)
		if id == "" {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxPlayerKey, id)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

func (m *Mux) tableMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d, ok := m.pitBoss.Get(gmux.Vars(r)["id"])
		if !ok {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxDealerKey, d)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

// passwordMiddleware requires tableMiddleware to execute first
// Seated players, spectators and the host already proved they know the password.
func (m *Mux) passwordMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tbl := r.Context().Value(ctxDealerKey).(*room.Dealer).Table()

		player := playerID(r)
		if player == "" || (!tbl.IsSeated(player) && !tbl.IsSpectator(player) && tbl.HostID() != player) {
			password := r.Header.Get(passwordHeader)
			if password == "" {
				password = r.URL.Query().Get("password")
			}

			if err := tbl.VerifyPassword(password); err != nil {
				writeTableError(w, err)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
