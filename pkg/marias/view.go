package marias

import (
	"marias-server/pkg/deck"
)

// PlayerView is a player as seen by another participant
type PlayerView struct {
	PlayerID  string      `json:"playerId"`
	Name      string      `json:"name"`
	HandSize  int         `json:"handSize"`
	Hand      []deck.Card `json:"hand,omitempty"`
	TricksWon int         `json:"tricksWon"`
	Marriages []deck.Suit `json:"marriages"`
	Score     int         `json:"score"`
	HasPassed bool        `json:"hasPassed"`
	IsDealer  bool        `json:"isDealer"`
	Seat      int         `json:"seat"`
}

// View is the state of a game as a single participant may see it
type View struct {
	GameID          string        `json:"gameId"`
	Version         int64         `json:"version"`
	Phase           Phase         `json:"phase"`
	PlayerOrder     []string      `json:"playerOrder"`
	Players         []PlayerView  `json:"players"`
	DealerID        string        `json:"dealerId"`
	CurrentPlayerID string        `json:"currentPlayerId"`
	TalonSize       int           `json:"talonSize"`
	Talon           []deck.Card   `json:"talon,omitempty"`
	Trump           deck.Suit     `json:"trump,omitempty"`
	TrumpCard       *deck.Card    `json:"trumpCard,omitempty"`
	GameType        Contract      `json:"gameType,omitempty"`
	DeclarerID      string        `json:"declarerId,omitempty"`
	DealingPhase    DealingPhase  `json:"dealingPhase"`
	PendingCards    int           `json:"pendingCards"`
	DecisionGate    *DecisionGate `json:"decisionGate,omitempty"`
	Bidding         BiddingState  `json:"bidding"`
	Trick           Trick         `json:"trick"`
	LastTrick       *Trick        `json:"lastTrick,omitempty"`
	TricksPlayed    int           `json:"tricksPlayed"`
	RoundNumber     int           `json:"roundNumber"`
	Result          *RoundResult  `json:"result,omitempty"`
	Error           string        `json:"error,omitempty"`
	ValidCards      []deck.Card   `json:"validCards,omitempty"`
	Actions         []ActionType  `json:"actions"`
}

// ViewFor returns the state as seen by playerID
// Only the viewer's own hand is shown. The talon is shown to the declarer while exchanging and to
// everyone once the round is scored. Pass an empty playerID for a spectator view.
func ViewFor(s *GameState, playerID string) *View {
	v := &View{
		GameID:          s.GameID,
		Version:         s.Version,
		Phase:           s.Phase,
		PlayerOrder:     append([]string{}, s.PlayerOrder...),
		Players:         make([]PlayerView, 0, len(s.PlayerOrder)),
		DealerID:        s.DealerID(),
		CurrentPlayerID: s.CurrentPlayerID(),
		TalonSize:       len(s.Talon),
		Trump:           s.Trump,
		TrumpCard:       s.TrumpCard,
		GameType:        s.GameType,
		DeclarerID:      s.DeclarerID,
		DealingPhase:    s.Dealing.Phase,
		PendingCards:    len(s.Dealing.PendingCards),
		DecisionGate:    s.Dealing.DecisionGate,
		Bidding:         s.Bidding.clone(),
		Trick:           s.Trick.clone(),
		TricksPlayed:    s.TricksPlayed,
		RoundNumber:     s.RoundNumber,
		Result:          s.Result,
		Error:           s.Error,
		Actions:         []ActionType{},
	}

	for _, id := range s.PlayerOrder {
		p := s.Players[id]
		pv := PlayerView{
			PlayerID:  p.PlayerID,
			Name:      p.Name,
			HandSize:  len(p.Hand),
			TricksWon: p.TricksWon,
			Marriages: append([]deck.Suit{}, p.Marriages...),
			Score:     p.Score,
			HasPassed: p.HasPassed,
			IsDealer:  p.IsDealer,
			Seat:      p.Seat,
		}

		if id == playerID {
			pv.Hand = deck.Clone(p.Hand)
		}

		v.Players = append(v.Players, pv)
	}

	if len(s.Tricks) > 0 {
		last := s.Tricks[len(s.Tricks)-1].clone()
		v.LastTrick = &last
	}

	if (s.Phase == PhaseTalonExchange && playerID != "" && playerID == s.DeclarerID) || s.Phase == PhaseScoring {
		v.Talon = deck.Clone(s.Talon)
	}

	if playerID == "" {
		return v
	}

	v.ValidCards = ValidCards(s, playerID)
	seen := make(map[ActionType]bool)
	for _, a := range PossibleActions(s, playerID) {
		if !seen[a.Type()] {
			seen[a.Type()] = true
			v.Actions = append(v.Actions, a.Type())
		}
	}

	return v
}
