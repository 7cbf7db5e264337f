package mux

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	gmux "github.com/gorilla/mux"

	"marias-server/internal/util"
	"marias-server/pkg/deck"
	"marias-server/pkg/marias"
	"marias-server/pkg/room"
)

type postGamesPayload struct {
	CreatorPlayerID   string `json:"creatorPlayerId"`
	CreatorPlayerName string `json:"creatorPlayerName"`
}

type postGamesResponse struct {
	GameID   string       `json:"gameId"`
	PlayerID string       `json:"playerId"`
	State    *marias.View `json:"state"`
}

func (m *Mux) postGames() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postGamesPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		if pp.CreatorPlayerID == "" {
			pp.CreatorPlayerID = util.RandomPlayerID()
		}

		if strings.TrimSpace(pp.CreatorPlayerName) == "" {
			pp.CreatorPlayerName = util.GetRandomName()
		}

		state, err := m.pitBoss.CreateGame(r.Context(), pp.CreatorPlayerID, pp.CreatorPlayerName)
		if err != nil {
			if errors.Is(err, marias.ErrPlayerIDRequired) || errors.Is(err, marias.ErrNameRequired) {
				writeJSONError(w, http.StatusBadRequest, err)
			} else {
				writeRoomError(w, err)
			}
			return
		}

		writeJSON(w, http.StatusCreated, postGamesResponse{
			GameID:   state.GameID,
			PlayerID: pp.CreatorPlayerID,
			State:    marias.ViewFor(state, pp.CreatorPlayerID),
		})
	}
}

type getGamesResponse struct {
	Games []room.Summary `json:"games"`
}

func (m *Mux) getGames() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, rows, err := parsePaginationOptions(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		games := m.pitBoss.List()
		if start > len(games) {
			start = len(games)
		}

		games = games[start:]
		if len(games) > rows {
			games = games[:rows]
		}

		writeJSON(w, http.StatusOK, getGamesResponse{Games: games})
	}
}

func (m *Mux) getGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := m.pitBoss.Get(gameID(r))
		if err != nil {
			writeRoomError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, marias.ViewFor(state, r.FormValue("playerId")))
	}
}

func (m *Mux) deleteGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.pitBoss.Delete(gameID(r)); err != nil {
			writeRoomError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type postGameActionsPayload struct {
	Action json.RawMessage `json:"action"`
}

type postGameActionsResponse struct {
	Success      bool         `json:"success"`
	State        *marias.View `json:"state"`
	ErrorMessage string       `json:"errorMessage,omitempty"`
}

func (m *Mux) postGameActions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postGameActionsPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		action, err := marias.DecodeAction(pp.Action)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		if join, ok := action.(marias.JoinGame); ok && strings.TrimSpace(join.PlayerName) == "" {
			join.PlayerName = util.GetRandomName()
			action = join
		}

		state, err := m.pitBoss.Submit(r.Context(), gameID(r), action)
		if err != nil {
			writeRoomError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, postGameActionsResponse{
			Success:      state.Error == "",
			State:        marias.ViewFor(state, action.Player()),
			ErrorMessage: state.Error,
		})
	}
}

type getGamePlayerHandResponse struct {
	PlayerID        string            `json:"playerId"`
	Hand            []deck.Card       `json:"hand"`
	ValidCards      []deck.Card       `json:"validCards"`
	PossibleActions []json.RawMessage `json:"possibleActions"`
}

func (m *Mux) getGamePlayerHand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := m.pitBoss.Get(gameID(r))
		if err != nil {
			writeRoomError(w, err)
			return
		}

		playerID := gmux.Vars(r)["playerId"]
		player, ok := state.Players[playerID]
		if !ok {
			writeJSONError(w, http.StatusNotFound, room.ErrPlayerNotInGame)
			return
		}

		possible := marias.PossibleActions(state, playerID)
		encoded := make([]json.RawMessage, 0, len(possible))
		for _, action := range possible {
			data, err := marias.EncodeAction(action)
			if err != nil {
				writeJSONError(w, http.StatusInternalServerError, err)
				return
			}

			encoded = append(encoded, data)
		}

		validCards := marias.ValidCards(state, playerID)
		if validCards == nil {
			validCards = []deck.Card{}
		}

		writeJSON(w, http.StatusOK, getGamePlayerHandResponse{
			PlayerID:        playerID,
			Hand:            deck.Clone(player.Hand),
			ValidCards:      validCards,
			PossibleActions: encoded,
		})
	}
}

type getGameTalonResponse struct {
	Cards []deck.Card `json:"cards"`
}

var errCannotViewTalon = errors.New("cannot view talon")

func (m *Mux) getGameTalon() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.FormValue("playerId")
		if playerID == "" {
			writeJSONError(w, http.StatusBadRequest, errors.New("missing playerId"))
			return
		}

		state, err := m.pitBoss.Get(gameID(r))
		if err != nil {
			writeRoomError(w, err)
			return
		}

		talon := marias.ViewFor(state, playerID).Talon
		if talon == nil {
			writeJSONError(w, http.StatusForbidden, errCannotViewTalon)
			return
		}

		writeJSON(w, http.StatusOK, getGameTalonResponse{Cards: talon})
	}
}

type getGameBiddingResponse struct {
	CurrentBid    marias.Contract   `json:"currentBid,omitempty"`
	CurrentBidder string            `json:"currentBidder,omitempty"`
	PassedPlayers []string          `json:"passedPlayers"`
	AvailableBids []marias.Contract `json:"availableBids"`
}

func (m *Mux) getGameBidding() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := m.pitBoss.Get(gameID(r))
		if err != nil {
			writeRoomError(w, err)
			return
		}

		res := getGameBiddingResponse{
			CurrentBid:    state.Bidding.CurrentBid,
			CurrentBidder: state.Bidding.BidderID,
			PassedPlayers: []string{},
			AvailableBids: []marias.Contract{},
		}

		for _, id := range state.PlayerOrder {
			if state.Bidding.PassedPlayers[id] {
				res.PassedPlayers = append(res.PassedPlayers, id)
			}
		}

		if state.Phase == marias.PhaseBidding {
			opts := state.Options()
			for _, contract := range opts.Ladder {
				if opts.Outranks(contract, state.Bidding.CurrentBid) {
					res.AvailableBids = append(res.AvailableBids, contract)
				}
			}
		}

		writeJSON(w, http.StatusOK, res)
	}
}

func (m *Mux) getGameLog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, err := m.pitBoss.Log(gameID(r))
		if err != nil {
			writeRoomError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, logs)
	}
}
