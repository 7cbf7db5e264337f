package marias

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"marias-server/pkg/deck"
)

// sampleActions has one action of every type
func sampleActions() map[ActionType]Action {
	twoPhase := true
	pattern := TwoPhasePattern(7)
	return map[ActionType]Action{
		ActionJoin:            JoinGame{PlayerID: "p4", PlayerName: "Dave"},
		ActionLeave:           LeaveGame{PlayerID: "p1"},
		ActionStart:           StartGame{PlayerID: "p1"},
		ActionDeal:            DealCards{PlayerID: "p1", Deck: deck.NewPiquet(), Pattern: &pattern, TwoPhase: &twoPhase},
		ActionChooseTrump:     ChooseTrump{PlayerID: "p2", Card: card("7c")},
		ActionChooserPass:     ChooserPass{PlayerID: "p2"},
		ActionBid:             PlaceBid{PlayerID: "p2", Contract: ContractSeven},
		ActionPass:            Pass{PlayerID: "p2"},
		ActionExchangeTalon:   ExchangeTalon{PlayerID: "p1", Cards: cards("7h,8h")},
		ActionSelectTrump:     SelectTrump{PlayerID: "p1", Suit: deck.Hearts},
		ActionPlayCard:        PlayCard{PlayerID: "p2", Card: card("7c")},
		ActionDeclareMarriage: DeclareMarriage{PlayerID: "p2", Suit: deck.Clubs},
		ActionStartNewRound:   StartNewRound{PlayerID: "p1"},
		ActionReorderHand:     ReorderHand{PlayerID: "p1", Cards: cards("7h,8h")},
	}
}

// every action type must be handled by the validator and the reducer in every phase
func TestActions_exhaustive(t *testing.T) {
	samples := sampleActions()
	assert.Len(t, samples, len(AllActionTypes()))

	states := []*GameState{
		NewGame("game-1", DefaultOptions()),
		joinedGame(t),
		startedGame(t),
		dealtGame(t, true),
		dealtGame(t, false),
		playingState(slamHands, "13d,14d", deck.Clubs, ContractGame, "p2"),
	}

	for _, actionType := range AllActionTypes() {
		a, ok := samples[actionType]
		if !assert.True(t, ok, "no sample for %s", actionType) {
			continue
		}

		assert.Equal(t, actionType, a.Type())
		for _, s := range states {
			assert.NotEqual(t, ErrUnknownAction, Validate(s, a), "%s in %s", actionType, s.Phase)
			assert.NotPanics(t, func() {
				next := Reduce(s, a)
				assert.Equal(t, s.Version+1, next.Version)
			}, "%s in %s", actionType, s.Phase)
		}
	}

	assert.Equal(t, ErrUnknownAction, Validate(joinedGame(t), nil))
}

func TestDecodeAction(t *testing.T) {
	a, err := DecodeAction([]byte(`{"type":"play","playerId":"p1","card":{"rank":14,"suit":"spades"}}`))
	assert.NoError(t, err)
	assert.Equal(t, PlayCard{PlayerID: "p1", Card: card("14s")}, a)

	a, err = DecodeAction([]byte(`{"type":"bid","playerId":"p2","contract":"HUNDRED"}`))
	assert.NoError(t, err)
	assert.Equal(t, PlaceBid{PlayerID: "p2", Contract: ContractHundred}, a)

	a, err = DecodeAction([]byte(`{"type":"deal","playerId":"p1","twoPhase":false}`))
	assert.NoError(t, err)
	deal := a.(DealCards)
	assert.NotNil(t, deal.TwoPhase)
	assert.False(t, *deal.TwoPhase)
	assert.Nil(t, deal.Pattern)

	a, err = DecodeAction([]byte(`{"type":"shuffle","playerId":"p1"}`))
	assert.EqualError(t, err, `unknown action type: "shuffle"`)
	assert.Nil(t, a)

	_, err = DecodeAction([]byte(`{"type":"play","card":"ace"}`))
	assert.Error(t, err)

	_, err = DecodeAction([]byte(`not json`))
	assert.Error(t, err)
}

func TestEncodeAction(t *testing.T) {
	for actionType, a := range sampleActions() {
		data, err := EncodeAction(a)
		if !assert.NoError(t, err) {
			continue
		}

		decoded, err := DecodeAction(data)
		assert.NoError(t, err)
		assert.Equal(t, a, decoded, "%s", actionType)
	}

	data, err := EncodeAction(Pass{PlayerID: "p3"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"type":"pass","playerId":"p3"}`, string(data))
}
