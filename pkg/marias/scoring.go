package marias

import (
	"marias-server/pkg/deck"
)

// RoundResult is the outcome of a played round
type RoundResult struct {
	DeclarerID       string   `json:"declarerId"`
	Contract         Contract `json:"contract"`
	DeclarerPoints   int      `json:"declarerPoints"`
	DefenderPoints   int      `json:"defenderPoints"`
	DeclarerTricks   int      `json:"declarerTricks"`
	DeclarerMarriage int      `json:"declarerMarriage"`
	DefenderMarriage int      `json:"defenderMarriage"`
	Won              bool     `json:"won"`
	Score            int      `json:"score"`
}

// CalculateScore returns the result of a round where all tricks have been played
func CalculateScore(s *GameState) RoundResult {
	declarer := s.Players[s.DeclarerID]
	spec, _ := s.options.Contract(s.GameType)

	res := RoundResult{
		DeclarerID:     s.DeclarerID,
		Contract:       s.GameType,
		DeclarerTricks: declarer.TricksWon,
	}

	for id, p := range s.Players {
		points := deck.SumPoints(p.WonCards)
		if id == s.DeclarerID {
			res.DeclarerPoints += points
		} else {
			res.DefenderPoints += points
		}
	}

	// the talon belongs to the declarer when a trump is played
	if spec.RequiresTrump {
		res.DeclarerPoints += deck.SumPoints(s.Talon)
	} else {
		res.DefenderPoints += deck.SumPoints(s.Talon)
	}

	if s.options.ScoreMarriages && spec.RequiresTrump {
		for id, p := range s.Players {
			bonus := marriageBonus(p.Marriages, s.Trump, s.options.MarriagePoints)
			if id == s.DeclarerID {
				res.DeclarerMarriage += bonus
			} else {
				res.DefenderMarriage += bonus
			}
		}

		res.DeclarerPoints += res.DeclarerMarriage
		res.DefenderPoints += res.DefenderMarriage
	}

	won := true
	switch spec.Goal {
	case GoalPoints:
		won = res.DeclarerPoints > deck.TotalPoints/2
	case GoalHundred:
		won = res.DeclarerPoints >= 100
	case GoalNoTricks:
		won = declarer.TricksWon == 0
	case GoalAllTricks:
		won = declarer.TricksWon == s.TricksPlayed
	}

	if spec.Sevens > 0 {
		won = won && wonWithSevens(s, spec.Sevens)
	}

	res.Won = won
	res.Score = spec.BaseValue
	if !won {
		res.Score = -spec.BaseValue
	}

	return res
}

func marriageBonus(suits []deck.Suit, trump deck.Suit, points int) int {
	bonus := 0
	for _, suit := range suits {
		if suit == trump {
			bonus += points * 2
		} else {
			bonus += points
		}
	}

	return bonus
}

// wonWithSevens checks the declarer took each of the last n tricks and took the final one with the trump seven
func wonWithSevens(s *GameState, n int) bool {
	if len(s.Tricks) < n || s.Trump == "" {
		return false
	}

	for _, t := range s.Tricks[len(s.Tricks)-n:] {
		if t.WinnerID != s.DeclarerID {
			return false
		}
	}

	seven := deck.Card{Rank: deck.Seven, Suit: s.Trump}
	for _, pc := range s.Tricks[len(s.Tricks)-1].Cards {
		if pc.PlayerID == s.DeclarerID && pc.Card == seven {
			return true
		}
	}

	return false
}

// finishRound scores the round and settles the score with every defender
func finishRound(s *GameState) {
	res := CalculateScore(s)
	s.Result = &res

	for id, p := range s.Players {
		if id == s.DeclarerID {
			p.Score += res.Score * (len(s.PlayerOrder) - 1)
		} else {
			p.Score -= res.Score
		}

		s.Players[id] = p
	}

	s.Phase = PhaseScoring
}
