package marias

import (
	"marias-server/pkg/deck"
)

// PossibleActions returns the actions the player may take right now
// Every returned action passes Validate against the same state. Joining is never listed because
// it needs a player name.
func PossibleActions(s *GameState, playerID string) []Action {
	p, ok := s.Players[playerID]
	if !ok {
		return []Action{}
	}

	actions := []Action{
		LeaveGame{PlayerID: playerID},
		ReorderHand{PlayerID: playerID, Cards: deck.Clone(p.Hand)},
	}

	switch s.Phase {
	case PhaseWaitingForPlayers:
		if len(s.PlayerOrder) == NumPlayers {
			actions = append(actions, StartGame{PlayerID: playerID})
		}
	case PhaseDealing:
		if s.Dealing.Phase == DealingNotStarted {
			actions = append(actions, DealCards{PlayerID: playerID})
		}

		if gate := s.Dealing.DecisionGate; gate != nil && gate.PlayerID == playerID {
			if gate.IsAvailable(DecisionSelectTrump) {
				for _, card := range p.Hand {
					actions = append(actions, ChooseTrump{PlayerID: playerID, Card: card})
				}
			}

			if gate.IsAvailable(DecisionPass) {
				actions = append(actions, ChooserPass{PlayerID: playerID})
			}
		}
	case PhaseBidding:
		if s.CurrentPlayerID() == playerID && !s.Bidding.PassedPlayers[playerID] {
			actions = append(actions, Pass{PlayerID: playerID})
			for _, contract := range s.options.Ladder {
				if _, known := s.options.Contract(contract); known && s.options.Outranks(contract, s.Bidding.CurrentBid) {
					actions = append(actions, PlaceBid{PlayerID: playerID, Contract: contract})
				}
			}
		}
	case PhaseTalonExchange:
		if s.DeclarerID == playerID {
			if discards := suggestDiscards(s, p); discards != nil {
				actions = append(actions, ExchangeTalon{PlayerID: playerID, Cards: discards})
			}
		}
	case PhaseTrumpSelection:
		if s.DeclarerID == playerID {
			spec, _ := s.options.Contract(s.GameType)
			for _, suit := range deck.Suits() {
				if spec.Sevens > 0 && deck.Contains(s.Talon, deck.Card{Rank: deck.Seven, Suit: suit}) {
					continue
				}

				actions = append(actions, SelectTrump{PlayerID: playerID, Suit: suit})
			}
		}
	case PhasePlaying:
		if s.CurrentPlayerID() == playerID {
			for _, card := range ValidCards(s, playerID) {
				actions = append(actions, PlayCard{PlayerID: playerID, Card: card})
			}

			for _, suit := range deck.Suits() {
				if validateDeclareMarriage(s, DeclareMarriage{PlayerID: playerID, Suit: suit}) == nil {
					actions = append(actions, DeclareMarriage{PlayerID: playerID, Suit: suit})
				}
			}
		}
	case PhaseScoring:
		actions = append(actions, StartNewRound{PlayerID: playerID})
	}

	return actions
}

// suggestDiscards returns the first two cards of the hand and talon the contract allows to discard
func suggestDiscards(s *GameState, p PlayerState) []deck.Card {
	spec, _ := s.options.Contract(s.GameType)
	discards := make([]deck.Card, 0, TalonSize)
	for _, card := range append(deck.Clone(p.Hand), s.Talon...) {
		if spec.ForbidAceTenDiscard && (card.Rank == deck.Ace || card.Rank == deck.Ten) {
			continue
		}

		discards = append(discards, card)
		if len(discards) == TalonSize {
			return discards
		}
	}

	return nil
}
