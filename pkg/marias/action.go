package marias

import (
	"encoding/json"
	"fmt"

	"marias-server/pkg/deck"
)

// ActionType is the discriminant tag of an action
type ActionType string

// action types
const (
	ActionJoin            ActionType = "join"
	ActionLeave           ActionType = "leave"
	ActionStart           ActionType = "start"
	ActionDeal            ActionType = "deal"
	ActionChooseTrump     ActionType = "choosetrump"
	ActionChooserPass     ActionType = "chooserpass"
	ActionBid             ActionType = "bid"
	ActionPass            ActionType = "pass"
	ActionExchangeTalon   ActionType = "exchange"
	ActionSelectTrump     ActionType = "trump"
	ActionPlayCard        ActionType = "play"
	ActionDeclareMarriage ActionType = "marriage"
	ActionStartNewRound   ActionType = "newround"
	ActionReorderHand     ActionType = "reorderhand"
)

// AllActionTypes returns every action type
func AllActionTypes() []ActionType {
	return []ActionType{
		ActionJoin,
		ActionLeave,
		ActionStart,
		ActionDeal,
		ActionChooseTrump,
		ActionChooserPass,
		ActionBid,
		ActionPass,
		ActionExchangeTalon,
		ActionSelectTrump,
		ActionPlayCard,
		ActionDeclareMarriage,
		ActionStartNewRound,
		ActionReorderHand,
	}
}

// Action is a player-initiated intent
// The set of actions is closed: only types in this package implement it.
type Action interface {
	Type() ActionType
	Player() string
	isAction()
}

// JoinGame seats a player
type JoinGame struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// LeaveGame removes a player from the game
type LeaveGame struct {
	PlayerID string `json:"playerId"`
}

// StartGame starts the game once three players are seated
type StartGame struct {
	PlayerID string `json:"playerId"`
}

// DealCards deals the deck
// An empty Deck deals the unshuffled piquet deck; the caller is expected to supply a shuffled one.
type DealCards struct {
	PlayerID string       `json:"playerId"`
	Deck     []deck.Card  `json:"deck,omitempty"`
	Pattern  *DealPattern `json:"pattern,omitempty"`
	TwoPhase *bool        `json:"twoPhase,omitempty"`
}

// ChooseTrump is the chooser naming trump by laying a card face down
type ChooseTrump struct {
	PlayerID string    `json:"playerId"`
	Card     deck.Card `json:"card"`
}

// ChooserPass is the chooser declining to name trump
type ChooserPass struct {
	PlayerID string `json:"playerId"`
}

// PlaceBid raises the bid
type PlaceBid struct {
	PlayerID string   `json:"playerId"`
	Contract Contract `json:"contract"`
}

// Pass drops out of bidding
type Pass struct {
	PlayerID string `json:"playerId"`
}

// ExchangeTalon discards two cards to the talon
type ExchangeTalon struct {
	PlayerID string      `json:"playerId"`
	Cards    []deck.Card `json:"cards"`
}

// SelectTrump names trump after the talon exchange
type SelectTrump struct {
	PlayerID string    `json:"playerId"`
	Suit     deck.Suit `json:"suit"`
}

// PlayCard plays a card into the current trick
type PlayCard struct {
	PlayerID string    `json:"playerId"`
	Card     deck.Card `json:"card"`
}

// DeclareMarriage announces a King and Queen of one suit
type DeclareMarriage struct {
	PlayerID string    `json:"playerId"`
	Suit     deck.Suit `json:"suit"`
}

// StartNewRound starts the next round after scoring
type StartNewRound struct {
	PlayerID string `json:"playerId"`
}

// ReorderHand changes the display order of a hand
type ReorderHand struct {
	PlayerID string      `json:"playerId"`
	Cards    []deck.Card `json:"cards"`
}

// Type is the action discriminant
func (JoinGame) Type() ActionType        { return ActionJoin }
func (LeaveGame) Type() ActionType       { return ActionLeave }
func (StartGame) Type() ActionType       { return ActionStart }
func (DealCards) Type() ActionType       { return ActionDeal }
func (ChooseTrump) Type() ActionType     { return ActionChooseTrump }
func (ChooserPass) Type() ActionType     { return ActionChooserPass }
func (PlaceBid) Type() ActionType        { return ActionBid }
func (Pass) Type() ActionType            { return ActionPass }
func (ExchangeTalon) Type() ActionType   { return ActionExchangeTalon }
func (SelectTrump) Type() ActionType     { return ActionSelectTrump }
func (PlayCard) Type() ActionType        { return ActionPlayCard }
func (DeclareMarriage) Type() ActionType { return ActionDeclareMarriage }
func (StartNewRound) Type() ActionType   { return ActionStartNewRound }
func (ReorderHand) Type() ActionType     { return ActionReorderHand }

// Player is the acting player
func (a JoinGame) Player() string        { return a.PlayerID }
func (a LeaveGame) Player() string       { return a.PlayerID }
func (a StartGame) Player() string       { return a.PlayerID }
func (a DealCards) Player() string       { return a.PlayerID }
func (a ChooseTrump) Player() string     { return a.PlayerID }
func (a ChooserPass) Player() string     { return a.PlayerID }
func (a PlaceBid) Player() string        { return a.PlayerID }
func (a Pass) Player() string            { return a.PlayerID }
func (a ExchangeTalon) Player() string   { return a.PlayerID }
func (a SelectTrump) Player() string     { return a.PlayerID }
func (a PlayCard) Player() string        { return a.PlayerID }
func (a DeclareMarriage) Player() string { return a.PlayerID }
func (a StartNewRound) Player() string   { return a.PlayerID }
func (a ReorderHand) Player() string     { return a.PlayerID }

func (JoinGame) isAction()        {}
func (LeaveGame) isAction()       {}
func (StartGame) isAction()       {}
func (DealCards) isAction()       {}
func (ChooseTrump) isAction()     {}
func (ChooserPass) isAction()     {}
func (PlaceBid) isAction()        {}
func (Pass) isAction()            {}
func (ExchangeTalon) isAction()   {}
func (SelectTrump) isAction()     {}
func (PlayCard) isAction()        {}
func (DeclareMarriage) isAction() {}
func (StartNewRound) isAction()   {}
func (ReorderHand) isAction()     {}

// DecodeAction decodes an action envelope of the form {"type": "...", "playerId": "...", ...}
func DecodeAction(data []byte) (Action, error) {
	var envelope struct {
		Type ActionType `json:"type"`
	}

	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}

	switch envelope.Type {
	case ActionJoin:
		return decodeAs[JoinGame](data)
	case ActionLeave:
		return decodeAs[LeaveGame](data)
	case ActionStart:
		return decodeAs[StartGame](data)
	case ActionDeal:
		return decodeAs[DealCards](data)
	case ActionChooseTrump:
		return decodeAs[ChooseTrump](data)
	case ActionChooserPass:
		return decodeAs[ChooserPass](data)
	case ActionBid:
		return decodeAs[PlaceBid](data)
	case ActionPass:
		return decodeAs[Pass](data)
	case ActionExchangeTalon:
		return decodeAs[ExchangeTalon](data)
	case ActionSelectTrump:
		return decodeAs[SelectTrump](data)
	case ActionPlayCard:
		return decodeAs[PlayCard](data)
	case ActionDeclareMarriage:
		return decodeAs[DeclareMarriage](data)
	case ActionStartNewRound:
		return decodeAs[StartNewRound](data)
	case ActionReorderHand:
		return decodeAs[ReorderHand](data)
	}

	return nil, fmt.Errorf("unknown action type: %q", envelope.Type)
}

func decodeAs[T Action](data []byte) (Action, error) {
	var a T
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}

	return a, nil
}

// EncodeAction encodes an action into its tagged envelope
func EncodeAction(a Action) ([]byte, error) {
	body, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}

	tag, _ := json.Marshal(a.Type())
	fields["type"] = tag
	return json.Marshal(fields)
}
