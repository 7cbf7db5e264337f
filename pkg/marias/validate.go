package marias

import (
	"strings"

	"marias-server/pkg/deck"
)

// Validate returns the reason the action cannot be applied to the state, or nil
func Validate(s *GameState, action Action) error {
	if action == nil {
		return ErrUnknownAction
	}

	if _, isJoin := action.(JoinGame); !isJoin {
		if _, ok := s.Players[action.Player()]; !ok {
			return ErrNotInGame
		}
	}

	switch a := action.(type) {
	case JoinGame:
		return validateJoin(s, a)
	case LeaveGame:
		return nil
	case StartGame:
		return validateStart(s)
	case DealCards:
		return validateDeal(s, a)
	case ChooseTrump:
		return validateChooseTrump(s, a)
	case ChooserPass:
		return validateChooserPass(s, a)
	case PlaceBid:
		return validatePlaceBid(s, a)
	case Pass:
		return validateBiddingTurn(s, a.PlayerID)
	case ExchangeTalon:
		return validateExchangeTalon(s, a)
	case SelectTrump:
		return validateSelectTrump(s, a)
	case PlayCard:
		return validatePlayCard(s, a)
	case DeclareMarriage:
		return validateDeclareMarriage(s, a)
	case StartNewRound:
		if s.Phase != PhaseScoring {
			return ErrRoundNotFinished
		}

		return nil
	case ReorderHand:
		return validateReorderHand(s, a)
	}

	return ErrUnknownAction
}

func validateJoin(s *GameState, a JoinGame) error {
	switch {
	case s.Phase != PhaseWaitingForPlayers:
		return ErrGameAlreadyStarted
	case len(s.PlayerOrder) >= NumPlayers:
		return ErrGameFull
	case a.PlayerID == "":
		return ErrPlayerIDRequired
	}

	if _, ok := s.Players[a.PlayerID]; ok {
		return ErrAlreadyJoined
	}

	if strings.TrimSpace(a.PlayerName) == "" {
		return ErrNameRequired
	}

	return nil
}

func validateStart(s *GameState) error {
	if s.Phase != PhaseWaitingForPlayers {
		return ErrGameAlreadyStarted
	}

	if len(s.PlayerOrder) != NumPlayers {
		return ErrNeedThreePlayers
	}

	return nil
}

func validateDeal(s *GameState, a DealCards) error {
	if s.Phase != PhaseDealing {
		return ErrNotDealingPhase
	}

	if s.Dealing.Phase != DealingNotStarted {
		return ErrAlreadyDealing
	}

	if len(a.Deck) > 0 && !deck.IsPiquet(a.Deck) {
		return ErrInvalidDeck
	}

	_, pattern, _ := dealSetup(s, a)
	return pattern.Validate()
}

func validateGate(s *GameState, playerID string, decision Decision) error {
	if s.Phase != PhaseDealing {
		return ErrNotDealingPhase
	}

	gate := s.Dealing.DecisionGate
	if gate == nil {
		return ErrNoDecisionPending
	}

	if gate.PlayerID != playerID {
		return ErrNotChooser
	}

	if !gate.IsAvailable(decision) {
		if decision == DecisionPass {
			return ErrPassNotAvailable
		}

		return ErrTrumpSelectionNotAvailable
	}

	return nil
}

func validateChooseTrump(s *GameState, a ChooseTrump) error {
	if err := validateGate(s, a.PlayerID, DecisionSelectTrump); err != nil {
		return err
	}

	if !deck.Contains(s.Players[a.PlayerID].Hand, a.Card) {
		return ErrCardNotInHand
	}

	return nil
}

func validateChooserPass(s *GameState, a ChooserPass) error {
	return validateGate(s, a.PlayerID, DecisionPass)
}

func validateBiddingTurn(s *GameState, playerID string) error {
	if s.Phase != PhaseBidding {
		return ErrNotBiddingPhase
	}

	if s.CurrentPlayerID() != playerID {
		return ErrNotYourTurn
	}

	if s.Bidding.PassedPlayers[playerID] {
		return ErrAlreadyPassed
	}

	return nil
}

func validatePlaceBid(s *GameState, a PlaceBid) error {
	if err := validateBiddingTurn(s, a.PlayerID); err != nil {
		return err
	}

	if _, ok := s.options.Rank(a.Contract); !ok {
		return ErrUnknownContract
	}

	if _, ok := s.options.Contract(a.Contract); !ok {
		return ErrUnknownContract
	}

	if !s.options.Outranks(a.Contract, s.Bidding.CurrentBid) {
		return ErrBidTooLow
	}

	return nil
}

func validateExchangeTalon(s *GameState, a ExchangeTalon) error {
	if s.Phase != PhaseTalonExchange {
		return ErrNotExchangePhase
	}

	if a.PlayerID != s.DeclarerID {
		return ErrNotDeclarer
	}

	if len(a.Cards) != TalonSize {
		return ErrMustDiscardTwo
	}

	if a.Cards[0] == a.Cards[1] {
		return ErrDuplicateDiscard
	}

	available := append(deck.Clone(s.Players[a.PlayerID].Hand), s.Talon...)
	spec, _ := s.options.Contract(s.GameType)
	for _, card := range a.Cards {
		if !deck.Contains(available, card) {
			return ErrDiscardNotAvailable
		}

		if spec.ForbidAceTenDiscard && (card.Rank == deck.Ace || card.Rank == deck.Ten) {
			return ErrCannotDiscardAceOrTen
		}
	}

	return nil
}

func validateSelectTrump(s *GameState, a SelectTrump) error {
	if s.Phase != PhaseTrumpSelection {
		return ErrNotTrumpSelectionPhase
	}

	if a.PlayerID != s.DeclarerID {
		return ErrNotDeclarer
	}

	if !a.Suit.Valid() {
		return ErrInvalidSuit
	}

	spec, _ := s.options.Contract(s.GameType)
	if spec.Sevens > 0 && deck.Contains(s.Talon, deck.Card{Rank: deck.Seven, Suit: a.Suit}) {
		return ErrTrumpSevenInTalon
	}

	return nil
}

func validatePlayCard(s *GameState, a PlayCard) error {
	if s.Phase != PhasePlaying {
		return ErrNotPlayingPhase
	}

	if s.CurrentPlayerID() != a.PlayerID {
		return ErrNotYourTurn
	}

	hand := s.Players[a.PlayerID].Hand
	if !deck.Contains(hand, a.Card) {
		return ErrCardNotInHand
	}

	lead := s.Trick.LeadSuit()
	if lead == "" || a.Card.Suit == lead {
		return nil
	}

	if deck.HasSuit(hand, lead) {
		return ErrMustFollowSuit
	}

	if s.Trump != "" && a.Card.Suit != s.Trump && deck.HasSuit(hand, s.Trump) && !trumpPlayed(s.Trick, s.Trump) {
		return ErrMustTrump
	}

	return nil
}

func validateDeclareMarriage(s *GameState, a DeclareMarriage) error {
	if s.Phase != PhasePlaying {
		return ErrNotPlayingPhase
	}

	if s.CurrentPlayerID() != a.PlayerID {
		return ErrNotYourTurn
	}

	if !a.Suit.Valid() {
		return ErrInvalidSuit
	}

	if spec, _ := s.options.Contract(s.GameType); !spec.RequiresTrump {
		return ErrMarriageNotAllowed
	}

	p := s.Players[a.PlayerID]
	if !HasMarriage(p.Hand, a.Suit) {
		return ErrNoMarriage
	}

	for _, suit := range p.Marriages {
		if suit == a.Suit {
			return ErrMarriageAlreadyDeclared
		}
	}

	return nil
}

func validateReorderHand(s *GameState, a ReorderHand) error {
	hand := s.Players[a.PlayerID].Hand
	if len(a.Cards) != len(hand) {
		return ErrCardCountMismatch
	}

	if !deck.SameCards(a.Cards, hand) {
		return ErrCardsDoNotMatchHand
	}

	return nil
}
