package marias

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marias-server/pkg/deck"
)

func mustReduce(t *testing.T, s *GameState, a Action) *GameState {
	t.Helper()

	next := Reduce(s, a)
	require.Empty(t, next.Error, "%T %+v", a, a)
	return next
}

func assertRejected(t *testing.T, s *GameState, a Action, expected error) *GameState {
	t.Helper()

	next := Reduce(s, a)
	assert.Equal(t, expected.Error(), next.Error, "%T", a)
	assert.Equal(t, s.Version+1, next.Version)
	return next
}

// joinedGame returns a game with p1, p2 and p3 seated (p1 deals the first round)
func joinedGame(t *testing.T) *GameState {
	t.Helper()

	s := NewGame("game-1", DefaultOptions())
	s = mustReduce(t, s, JoinGame{PlayerID: "p1", PlayerName: "Alice"})
	s = mustReduce(t, s, JoinGame{PlayerID: "p2", PlayerName: "Bob"})
	s = mustReduce(t, s, JoinGame{PlayerID: "p3", PlayerName: "Carol"})
	return s
}

func startedGame(t *testing.T) *GameState {
	t.Helper()
	return mustReduce(t, joinedGame(t), StartGame{PlayerID: "p1"})
}

// dealtGame deals the unshuffled deck
//
// single phase:
//
//	p1: Kd Ad 7h 8h 9h 10h Jh Qs Ks As
//	p2: 7c 8c 9c 10c Jc Qc Kc Ah 7s 8s
//	p3: Ac 7d 8d 9d 10d Jd Qd 9s 10s Js
//	talon: Qh Kh
//
// two phase:
//
//	p1: Jd Qd Kd Ad 7h 7s 8s 9s 10s Js
//	p2: 7c 8c 9c 10c Jc Qc Kc, pending Qs Ks As
//	p3: Ac 7d 8d 9d 10d 10h Jh Qh Kh Ah
//	talon: 8h 9h
func dealtGame(t *testing.T, twoPhase bool) *GameState {
	t.Helper()
	return mustReduce(t, startedGame(t), DealCards{PlayerID: "p1", TwoPhase: &twoPhase})
}

func hand(s *GameState, playerID string) []deck.Card {
	return s.Players[playerID].Hand
}

func cards(s string) []deck.Card {
	return deck.CardsFromString(s)
}

func card(s string) deck.Card {
	return deck.CardFromString(s)
}

// playingState seats p1 (dealer), p2 and p3 with the given hands and starts play with p2 leading
func playingState(hands [3]string, talon string, trump deck.Suit, contract Contract, declarerID string) *GameState {
	s := NewGame("game-1", DefaultOptions())
	s.PlayerOrder = []string{"p1", "p2", "p3"}
	for i, id := range s.PlayerOrder {
		s.Players[id] = PlayerState{
			PlayerID:  id,
			Name:      id,
			Hand:      deck.Sorted(cards(hands[i])),
			WonCards:  []deck.Card{},
			Marriages: []deck.Suit{},
			IsDealer:  i == 0,
			Seat:      i,
		}
	}

	s.Talon = cards(talon)
	s.Trump = trump
	s.GameType = contract
	s.DeclarerID = declarerID
	startPlay(s)
	return s
}

// playOut plays the first valid card for whoever is on turn until the round ends
func playOut(t *testing.T, s *GameState) *GameState {
	t.Helper()

	for i := 0; i < NumPlayers*HandSize && s.Phase == PhasePlaying; i++ {
		playerID := s.CurrentPlayerID()
		valid := ValidCards(s, playerID)
		require.NotEmpty(t, valid)
		s = mustReduce(t, s, PlayCard{PlayerID: playerID, Card: valid[0]})
	}

	return s
}

func allCards(s *GameState) []deck.Card {
	all := deck.Clone(s.Talon)
	all = append(all, s.Dealing.PendingCards...)
	for _, pc := range s.Trick.Cards {
		all = append(all, pc.Card)
	}

	for _, p := range s.Players {
		all = append(all, p.Hand...)
		all = append(all, p.WonCards...)
	}

	return all
}
