package mux

import (
	"context"
	"net/http"
	"time"

	gmux "github.com/gorilla/mux"

	"marias-server/internal/config"
	"marias-server/pkg/room"
)

type ctxKey int

const (
	ctxGameKey ctxKey = iota
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	settings settings
	version  string
	pitBoss  *room.PitBoss
}

type settings struct {
	// maxWait caps the wait a long poll may ask for
	maxWait time.Duration
}

// NewMux returns a new HTTP mux
func NewMux(version string, pitBoss *room.PitBoss) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		pitBoss: pitBoss,
		settings: settings{
			maxWait: time.Duration(config.Instance().Events.MaxWaitSeconds) * time.Second,
		},
	}

	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodPost).Path("/games").Handler(this.postGames())
		r.Methods(http.MethodGet).Path("/games").Handler(this.getGames())
	}

	{
		gr := this.Router.PathPrefix("/games/{id}").Subrouter()
		gr.Use(this.gameMiddleware)

		gr.Methods(http.MethodGet).Path("").Handler(this.getGame())
		gr.Methods(http.MethodDelete).Path("").Handler(this.deleteGame())
		gr.Methods(http.MethodPost).Path("/actions").Handler(this.postGameActions())
		gr.Methods(http.MethodGet).Path("/players/{playerId}/hand").Handler(this.getGamePlayerHand())
		gr.Methods(http.MethodGet).Path("/talon").Handler(this.getGameTalon())
		gr.Methods(http.MethodGet).Path("/bidding").Handler(this.getGameBidding())
		gr.Methods(http.MethodGet).Path("/log").Handler(this.getGameLog())
		gr.Methods(http.MethodGet).Path("/events").Handler(this.getGameEvents())
		gr.Methods(http.MethodGet).Path("/ws").Handler(this.getGameWS())
	}

	return this
}

// gameMiddleware responds with a 404 for unknown games
func (m *Mux) gameMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gameID := gmux.Vars(r)["id"]
		if _, err := m.pitBoss.Get(gameID); err != nil {
			writeRoomError(w, err)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxGameKey, gameID)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

func gameID(r *http.Request) string {
	return r.Context().Value(ctxGameKey).(string)
}
