package marias

import (
	"marias-server/pkg/deck"
)

// TrickWinner returns the player who won a complete trick
// The highest trump wins when trump was played, otherwise the highest card of the lead suit
func TrickWinner(trick Trick, trump deck.Suit) string {
	if len(trick.Cards) == 0 {
		return ""
	}

	suit := trick.LeadSuit()
	if trump != "" {
		for _, pc := range trick.Cards {
			if pc.Card.Suit == trump {
				suit = trump
				break
			}
		}
	}

	var winner *PlayedCard
	for i, pc := range trick.Cards {
		if pc.Card.Suit != suit {
			continue
		}

		if winner == nil || pc.Card.Strength() > winner.Card.Strength() {
			winner = &trick.Cards[i]
		}
	}

	return winner.PlayerID
}

// TrickPoints returns the sum of the point values of the cards played into the trick
func TrickPoints(trick Trick) int {
	points := 0
	for _, pc := range trick.Cards {
		points += pc.Card.Points()
	}

	return points
}

func trumpPlayed(trick Trick, trump deck.Suit) bool {
	if trump == "" {
		return false
	}

	for _, pc := range trick.Cards {
		if pc.Card.Suit == trump {
			return true
		}
	}

	return false
}

// ValidCards returns the cards the player may play right now
func ValidCards(s *GameState, playerID string) []deck.Card {
	if s.Phase != PhasePlaying || s.CurrentPlayerID() != playerID {
		return []deck.Card{}
	}

	p, ok := s.Players[playerID]
	if !ok {
		return []deck.Card{}
	}

	return playableCards(p.Hand, s.Trick, s.Trump)
}

func playableCards(hand []deck.Card, trick Trick, trump deck.Suit) []deck.Card {
	lead := trick.LeadSuit()
	if lead == "" {
		return deck.Clone(hand)
	}

	if following := deck.OfSuit(hand, lead); len(following) > 0 {
		return following
	}

	if trump != "" && !trumpPlayed(trick, trump) {
		if trumps := deck.OfSuit(hand, trump); len(trumps) > 0 {
			return trumps
		}
	}

	return deck.Clone(hand)
}

func startPlay(s *GameState) {
	lead := (s.DealerIndex + 1) % len(s.PlayerOrder)
	s.Phase = PhasePlaying
	s.CurrentPlayerIndex = lead
	s.Trick = Trick{
		Cards:        []PlayedCard{},
		LeadPlayerID: s.PlayerOrder[lead],
		TrickNumber:  1,
	}
}

func reducePlayCard(s *GameState, a PlayCard) *GameState {
	next := s.clone()

	p := next.Players[a.PlayerID]
	p.Hand, _ = deck.Remove(p.Hand, a.Card)
	next.Players[a.PlayerID] = p

	next.Trick.Cards = append(next.Trick.Cards, PlayedCard{PlayerID: a.PlayerID, Card: a.Card})
	if !next.Trick.IsComplete() {
		next.CurrentPlayerIndex = (s.CurrentPlayerIndex + 1) % len(s.PlayerOrder)
		return next
	}

	winnerID := TrickWinner(next.Trick, next.Trump)
	winner := next.Players[winnerID]
	for _, pc := range next.Trick.Cards {
		winner.WonCards = append(winner.WonCards, pc.Card)
	}

	winner.TricksWon++
	next.Players[winnerID] = winner

	next.Trick.WinnerID = winnerID
	next.Tricks = append(next.Tricks, next.Trick)
	next.TricksPlayed++

	if next.TricksPlayed == HandSize {
		next.Trick = Trick{Cards: []PlayedCard{}}
		finishRound(next)
		return next
	}

	next.Trick = Trick{
		Cards:        []PlayedCard{},
		LeadPlayerID: winnerID,
		TrickNumber:  next.TricksPlayed + 1,
	}
	next.CurrentPlayerIndex = next.indexOf(winnerID)
	return next
}

func reduceDeclareMarriage(s *GameState, a DeclareMarriage) *GameState {
	next := s.clone()
	p := next.Players[a.PlayerID]
	p.Marriages = append(p.Marriages, a.Suit)
	next.Players[a.PlayerID] = p
	return next
}

// HasMarriage returns true if the cards hold the King and Queen of the suit
func HasMarriage(cards []deck.Card, suit deck.Suit) bool {
	return deck.Contains(cards, deck.Card{Rank: deck.King, Suit: suit}) &&
		deck.Contains(cards, deck.Card{Rank: deck.Queen, Suit: suit})
}
