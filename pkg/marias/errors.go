package marias

import (
	"errors"
)

// ErrUnknownAction is returned for an action type the engine does not handle
var ErrUnknownAction = errors.New("unknown action")

// ErrGameAlreadyStarted is returned when joining or starting a game that is underway
var ErrGameAlreadyStarted = errors.New("game already started")

// ErrGameFull is returned when a fourth player tries to join
var ErrGameFull = errors.New("game full")

// ErrAlreadyJoined is returned when a seated player joins again
var ErrAlreadyJoined = errors.New("already joined")

// ErrPlayerIDRequired is returned when joining without a player ID
var ErrPlayerIDRequired = errors.New("player ID required")

// ErrNameRequired is returned when joining with a blank name
var ErrNameRequired = errors.New("name required")

// ErrNotInGame is returned when the actor is not seated
var ErrNotInGame = errors.New("not in game")

// ErrNeedThreePlayers is returned when starting without a full table
var ErrNeedThreePlayers = errors.New("need 3 players")

// ErrNotDealingPhase is returned for dealing actions outside of DEALING
var ErrNotDealingPhase = errors.New("not dealing phase")

// ErrAlreadyDealing is returned when the deck has already been dealt
var ErrAlreadyDealing = errors.New("already dealing")

// ErrInvalidDeck is returned when a supplied deck is not the piquet deck
var ErrInvalidDeck = errors.New("deck must be the 32 card piquet deck")

// ErrPatternEmpty is returned for a deal pattern without steps
var ErrPatternEmpty = errors.New("pattern must have at least one step")

// ErrPatternCount is returned for a deal step that deals no cards
var ErrPatternCount = errors.New("card count must be positive")

// ErrPatternStepTooLarge is returned for a deal step that deals more cards than the deck holds
var ErrPatternStepTooLarge = errors.New("card count must not exceed the deck size")

// ErrNoDecisionPending is returned when no decision gate is open
var ErrNoDecisionPending = errors.New("no decision pending")

// ErrNotChooser is returned when someone other than the gate's player decides
var ErrNotChooser = errors.New("not chooser")

// ErrTrumpSelectionNotAvailable is returned when the gate does not offer trump selection
var ErrTrumpSelectionNotAvailable = errors.New("trump selection not available")

// ErrPassNotAvailable is returned when the gate does not offer a pass
var ErrPassNotAvailable = errors.New("pass not available")

// ErrCardNotInHand is returned when a player uses a card they do not hold
var ErrCardNotInHand = errors.New("card not in hand")

// ErrNotBiddingPhase is returned for bids outside of BIDDING
var ErrNotBiddingPhase = errors.New("not bidding phase")

// ErrNotYourTurn is returned when the actor is not the current player
var ErrNotYourTurn = errors.New("not your turn")

// ErrAlreadyPassed is returned when a passed player tries to bid or pass again
var ErrAlreadyPassed = errors.New("already passed")

// ErrUnknownContract is returned for a contract that is not on the ladder
var ErrUnknownContract = errors.New("unknown contract")

// ErrBidTooLow is returned when a bid does not outrank the current bid
var ErrBidTooLow = errors.New("bid too low")

// ErrNotExchangePhase is returned for talon exchanges outside of TALON_EXCHANGE
var ErrNotExchangePhase = errors.New("not exchange phase")

// ErrNotDeclarer is returned when someone other than the declarer acts for the declarer
var ErrNotDeclarer = errors.New("not declarer")

// ErrMustDiscardTwo is returned when the discard is not exactly two cards
var ErrMustDiscardTwo = errors.New("must discard 2 cards")

// ErrDuplicateDiscard is returned when the same card is discarded twice
var ErrDuplicateDiscard = errors.New("cannot discard the same card twice")

// ErrDiscardNotAvailable is returned when a discard is neither in the hand nor the talon
var ErrDiscardNotAvailable = errors.New("discarded card is not in hand or talon")

// ErrCannotDiscardAceOrTen is returned when the contract forbids discarding Aces and Tens
var ErrCannotDiscardAceOrTen = errors.New("cannot discard Ace or Ten to talon")

// ErrNotTrumpSelectionPhase is returned for trump selection outside of TRUMP_SELECTION
var ErrNotTrumpSelectionPhase = errors.New("not trump selection phase")

// ErrInvalidSuit is returned for an unknown suit
var ErrInvalidSuit = errors.New("invalid suit")

// ErrTrumpSevenInTalon is returned when a seven contract names a trump whose seven is in the talon
var ErrTrumpSevenInTalon = errors.New("cannot play a seven contract with the trump seven in the talon")

// ErrNotPlayingPhase is returned for card play outside of PLAYING
var ErrNotPlayingPhase = errors.New("not playing phase")

// ErrMustFollowSuit is returned when the player holds the lead suit and plays another
var ErrMustFollowSuit = errors.New("must follow suit")

// ErrMustTrump is returned when a player void in the lead suit holds back a trump
var ErrMustTrump = errors.New("must trump")

// ErrNoMarriage is returned when the player does not hold the King and Queen of the suit
var ErrNoMarriage = errors.New("no marriage")

// ErrMarriageAlreadyDeclared is returned when the suit's marriage was already declared
var ErrMarriageAlreadyDeclared = errors.New("marriage already declared")

// ErrMarriageNotAllowed is returned when the contract is played without trump
var ErrMarriageNotAllowed = errors.New("marriages are not played in this contract")

// ErrRoundNotFinished is returned when a new round is requested before scoring
var ErrRoundNotFinished = errors.New("round not finished")

// ErrCardCountMismatch is returned when a reorder has a different number of cards
var ErrCardCountMismatch = errors.New("card count mismatch")

// ErrCardsDoNotMatchHand is returned when a reorder substitutes a card
var ErrCardsDoNotMatchHand = errors.New("cards don't match current hand")
