package marias

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"marias-server/pkg/deck"
)

func TestViewFor_redactsHiddenCards(t *testing.T) {
	a := assert.New(t)
	s := dealtGame(t, true)

	v := ViewFor(s, "p2")
	a.Equal("game-1", v.GameID)
	a.Equal(s.Version, v.Version)
	a.Equal("p1", v.DealerID)
	a.Equal("p2", v.CurrentPlayerID)
	a.Equal(3, v.PendingCards)
	a.Equal(2, v.TalonSize)
	a.Nil(v.Talon)
	a.Equal([]ActionType{ActionLeave, ActionReorderHand, ActionChooseTrump, ActionChooserPass}, v.Actions)

	for _, pv := range v.Players {
		if pv.PlayerID == "p2" {
			a.Equal(hand(s, "p2"), pv.Hand)
			a.Equal(7, pv.HandSize)
		} else {
			a.Nil(pv.Hand)
			a.Equal(10, pv.HandSize)
		}
	}

	data, err := json.Marshal(v)
	a.NoError(err)
	a.NotContains(string(data), `"deck"`)
	a.NotContains(string(data), `"pendingCards":[`)

	spectator := ViewFor(s, "")
	for _, pv := range spectator.Players {
		a.Nil(pv.Hand)
	}

	a.Empty(spectator.Actions)
}

func TestViewFor_talon(t *testing.T) {
	s := dealtGame(t, false)
	s = mustReduce(t, s, Pass{PlayerID: "p2"})
	s = mustReduce(t, s, Pass{PlayerID: "p3"})

	assert.Equal(t, cards("12h,13h"), ViewFor(s, "p1").Talon)
	assert.Nil(t, ViewFor(s, "p2").Talon)
	assert.Nil(t, ViewFor(s, "").Talon)

	s = playingState(slamHands, "13d,14d", deck.Clubs, ContractGame, "p2")
	s = playOut(t, s)
	v := ViewFor(s, "p3")
	assert.Equal(t, cards("13d,14d"), v.Talon)
	assert.NotNil(t, v.LastTrick)
	assert.Equal(t, 10, v.LastTrick.TrickNumber)
	assert.True(t, v.Result.Won)
	assert.Equal(t, []ActionType{ActionLeave, ActionReorderHand, ActionStartNewRound}, v.Actions)
}

func TestViewFor_validCards(t *testing.T) {
	s := playingState(slamHands, "13d,14d", deck.Clubs, ContractGame, "p2")
	s = mustReduce(t, s, PlayCard{PlayerID: "p2", Card: card("14c")})

	assert.Len(t, ViewFor(s, "p3").ValidCards, 10)
	assert.Empty(t, ViewFor(s, "p1").ValidCards)
	assert.Equal(t, "p2", ViewFor(s, "p1").Trick.LeadPlayerID)
}
