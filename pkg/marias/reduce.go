package marias

import (
	"fmt"

	"marias-server/pkg/deck"
)

// Reduce applies the action and returns the next state
// The version always advances by one. A rejected action returns a copy of the state with only
// Version and Error changed.
func Reduce(s *GameState, action Action) *GameState {
	if err := Validate(s, action); err != nil {
		next := *s
		next.Version = s.Version + 1
		next.Error = err.Error()
		return &next
	}

	var next *GameState
	switch a := action.(type) {
	case JoinGame:
		next = reduceJoin(s, a)
	case LeaveGame:
		next = reduceLeave(s, a)
	case StartGame:
		next = reduceStart(s)
	case DealCards:
		next = reduceDeal(s, a)
	case ChooseTrump:
		next = reduceChooseTrump(s, a)
	case ChooserPass:
		next = reduceChooserPass(s, a)
	case PlaceBid:
		next = reducePlaceBid(s, a)
	case Pass:
		next = reducePass(s, a)
	case ExchangeTalon:
		next = reduceExchangeTalon(s, a)
	case SelectTrump:
		next = reduceSelectTrump(s, a)
	case PlayCard:
		next = reducePlayCard(s, a)
	case DeclareMarriage:
		next = reduceDeclareMarriage(s, a)
	case StartNewRound:
		next = reduceStartNewRound(s)
	case ReorderHand:
		next = reduceReorderHand(s, a)
	default:
		// Validate rejects every action it does not know, so this is a programming error
		panic(fmt.Sprintf("marias: no reducer for %T", action))
	}

	next.Version = s.Version + 1
	next.Error = ""
	return next
}

func reduceJoin(s *GameState, a JoinGame) *GameState {
	next := s.clone()
	next.Players[a.PlayerID] = PlayerState{
		PlayerID:  a.PlayerID,
		Name:      a.PlayerName,
		Hand:      []deck.Card{},
		WonCards:  []deck.Card{},
		Marriages: []deck.Suit{},
		Seat:      len(s.PlayerOrder),
	}

	next.PlayerOrder = append(next.PlayerOrder, a.PlayerID)
	return next
}

func reduceLeave(s *GameState, a LeaveGame) *GameState {
	next := s.clone()
	delete(next.Players, a.PlayerID)

	order := make([]string, 0, len(next.PlayerOrder))
	for _, id := range next.PlayerOrder {
		if id != a.PlayerID {
			order = append(order, id)
		}
	}

	next.PlayerOrder = order
	for i, id := range order {
		p := next.Players[id]
		p.Seat = i
		next.Players[id] = p
	}

	if len(order) <= 1 || s.Phase != PhaseWaitingForPlayers {
		next.Phase = PhaseFinished
	}

	if next.DealerIndex >= len(order) {
		next.DealerIndex = 0
	}

	if next.CurrentPlayerIndex >= len(order) {
		next.CurrentPlayerIndex = 0
	}

	return next
}

func reduceStart(s *GameState) *GameState {
	next := s.clone()
	for i, id := range next.PlayerOrder {
		p := next.Players[id]
		p.IsDealer = i == next.DealerIndex
		next.Players[id] = p
	}

	next.Phase = PhaseDealing
	next.Dealing = newDealingState()
	next.CurrentPlayerIndex = next.DealerIndex
	return next
}

func reduceExchangeTalon(s *GameState, a ExchangeTalon) *GameState {
	next := s.clone()
	p := next.Players[a.PlayerID]

	cards := append(p.Hand, next.Talon...)
	for _, card := range a.Cards {
		cards, _ = deck.Remove(cards, card)
	}

	p.Hand = cards
	next.Players[a.PlayerID] = p
	next.Talon = deck.Clone(a.Cards)

	spec, _ := s.options.Contract(s.GameType)
	if spec.RequiresTrump && next.Trump == "" {
		next.Phase = PhaseTrumpSelection
		next.CurrentPlayerIndex = next.indexOf(a.PlayerID)
		return next
	}

	startPlay(next)
	return next
}

func reduceSelectTrump(s *GameState, a SelectTrump) *GameState {
	next := s.clone()
	next.Trump = a.Suit
	startPlay(next)
	return next
}

func reduceStartNewRound(s *GameState) *GameState {
	next := s.clone()
	n := len(next.PlayerOrder)
	next.DealerIndex = (s.DealerIndex + 1) % n

	for i, id := range next.PlayerOrder {
		p := next.Players[id]
		p.Hand = []deck.Card{}
		p.WonCards = []deck.Card{}
		p.TricksWon = 0
		p.Marriages = []deck.Suit{}
		p.HasPassed = false
		p.IsDealer = i == next.DealerIndex
		next.Players[id] = p
	}

	next.Phase = PhaseDealing
	next.CurrentPlayerIndex = next.DealerIndex
	next.Talon = []deck.Card{}
	next.Trump = ""
	next.TrumpCard = nil
	next.GameType = ""
	next.DeclarerID = ""
	next.Dealing = newDealingState()
	next.Bidding = newBiddingState(nil)
	next.Trick = Trick{Cards: []PlayedCard{}}
	next.Tricks = []Trick{}
	next.TricksPlayed = 0
	next.Result = nil
	next.RoundNumber = s.RoundNumber + 1
	return next
}

func reduceReorderHand(s *GameState, a ReorderHand) *GameState {
	next := s.clone()
	p := next.Players[a.PlayerID]
	p.Hand = deck.Clone(a.Cards)
	next.Players[a.PlayerID] = p
	return next
}
