package marias

import (
	"marias-server/pkg/deck"
)

// NumPlayers is the number of seats at a Mariáš table
const NumPlayers = 3

// HandSize is the number of cards each player holds after the deal
const HandSize = 10

// TalonSize is the number of cards set aside during the deal
const TalonSize = 2

// Phase is the phase of a game
type Phase string

// phases
const (
	PhaseWaitingForPlayers Phase = "WAITING_FOR_PLAYERS"
	PhaseDealing           Phase = "DEALING"
	PhaseBidding           Phase = "BIDDING"
	PhaseTalonExchange     Phase = "TALON_EXCHANGE"
	PhaseTrumpSelection    Phase = "TRUMP_SELECTION"
	PhasePlaying           Phase = "PLAYING"
	PhaseScoring           Phase = "SCORING"
	PhaseFinished          Phase = "FINISHED"
)

// Phases returns every phase in lifecycle order
func Phases() []Phase {
	return []Phase{
		PhaseWaitingForPlayers,
		PhaseDealing,
		PhaseBidding,
		PhaseTalonExchange,
		PhaseTrumpSelection,
		PhasePlaying,
		PhaseScoring,
		PhaseFinished,
	}
}

// GameState is the root aggregate of a game
// A GameState is never modified after it has been returned by NewGame or Reduce. Every transition
// produces a new value, so a state can be shared with any number of readers.
type GameState struct {
	GameID             string                 `json:"gameId"`
	Version            int64                  `json:"version"`
	Phase              Phase                  `json:"phase"`
	Players            map[string]PlayerState `json:"players"`
	PlayerOrder        []string               `json:"playerOrder"`
	DealerIndex        int                    `json:"dealerIndex"`
	CurrentPlayerIndex int                    `json:"currentPlayerIndex"`
	Talon              []deck.Card            `json:"talon"`
	Trump              deck.Suit              `json:"trump,omitempty"`
	// TrumpCard is only set when the chooser declared trump during the dealing pause
	TrumpCard    *deck.Card   `json:"trumpCard,omitempty"`
	GameType     Contract     `json:"gameType,omitempty"`
	DeclarerID   string       `json:"declarerId,omitempty"`
	Dealing      DealingState `json:"dealing"`
	Bidding      BiddingState `json:"bidding"`
	Trick        Trick        `json:"trick"`
	Tricks       []Trick      `json:"tricks"`
	TricksPlayed int          `json:"tricksPlayed"`
	RoundNumber  int          `json:"roundNumber"`
	Result       *RoundResult `json:"result,omitempty"`

	// Error is the reason the most recently dispatched action was rejected
	Error string `json:"error,omitempty"`

	options Options
}

// PlayerState is the state of a single seat
type PlayerState struct {
	PlayerID  string      `json:"playerId"`
	Name      string      `json:"name"`
	Hand      []deck.Card `json:"hand"`
	WonCards  []deck.Card `json:"wonCards"`
	TricksWon int         `json:"tricksWon"`
	Marriages []deck.Suit `json:"marriages"`
	Score     int         `json:"score"`
	HasPassed bool        `json:"hasPassed"`
	IsDealer  bool        `json:"isDealer"`
	Seat      int         `json:"seat"`
}

// BiddingState tracks the bid ladder
type BiddingState struct {
	CurrentBid    Contract        `json:"currentBid,omitempty"`
	BidderID      string          `json:"bidderId,omitempty"`
	PassedPlayers map[string]bool `json:"passedPlayers"`
	BiddingOrder  []string        `json:"biddingOrder"`
}

// PlayedCard is a card played into a trick
type PlayedCard struct {
	PlayerID string    `json:"playerId"`
	Card     deck.Card `json:"card"`
}

// Trick is one round of card plays
type Trick struct {
	Cards        []PlayedCard `json:"cardsPlayed"`
	LeadPlayerID string       `json:"leadPlayerId,omitempty"`
	TrickNumber  int          `json:"trickNumber"`
	WinnerID     string       `json:"winnerId,omitempty"`
}

// LeadSuit returns the suit of the first card played, or "" if the trick is empty
func (t Trick) LeadSuit() deck.Suit {
	if len(t.Cards) == 0 {
		return ""
	}

	return t.Cards[0].Card.Suit
}

// IsComplete returns true when every player has played into the trick
func (t Trick) IsComplete() bool {
	return len(t.Cards) == NumPlayers
}

// NewGame returns the initial state of a game
// Zero valued rule options fall back to the defaults.
func NewGame(gameID string, opts Options) *GameState {
	defaults := DefaultOptions()
	if len(opts.Contracts) == 0 {
		opts.Contracts = defaults.Contracts
	}

	if len(opts.Ladder) == 0 {
		opts.Ladder = defaults.Ladder
	}

	if opts.PreviewCards == 0 {
		opts.PreviewCards = defaults.PreviewCards
	}

	if opts.MarriagePoints == 0 {
		opts.MarriagePoints = defaults.MarriagePoints
	}

	return &GameState{
		GameID:      gameID,
		Phase:       PhaseWaitingForPlayers,
		Players:     make(map[string]PlayerState),
		PlayerOrder: []string{},
		Talon:       []deck.Card{},
		Dealing:     newDealingState(),
		Bidding:     newBiddingState(nil),
		Trick:       Trick{Cards: []PlayedCard{}},
		Tricks:      []Trick{},
		RoundNumber: 1,
		options:     opts,
	}
}

// Options returns the rule options the game was created with
func (s *GameState) Options() Options {
	return s.options
}

// ChooserID returns the player seated after the dealer
func (s *GameState) ChooserID() string {
	return s.seatFromDealer(1)
}

// DealerID returns the dealer
func (s *GameState) DealerID() string {
	return s.seatFromDealer(0)
}

// CurrentPlayerID returns the player whose turn it is, or "" if nobody is seated
func (s *GameState) CurrentPlayerID() string {
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.PlayerOrder) {
		return ""
	}

	return s.PlayerOrder[s.CurrentPlayerIndex]
}

func (s *GameState) seatFromDealer(offset int) string {
	n := len(s.PlayerOrder)
	if n == 0 {
		return ""
	}

	return s.PlayerOrder[(s.DealerIndex+offset)%n]
}

func (s *GameState) indexOf(playerID string) int {
	for i, id := range s.PlayerOrder {
		if id == playerID {
			return i
		}
	}

	return -1
}

// clone returns a deep copy of the state
func (s *GameState) clone() *GameState {
	next := *s

	next.Players = make(map[string]PlayerState, len(s.Players))
	for id, p := range s.Players {
		next.Players[id] = p.clone()
	}

	next.PlayerOrder = append([]string{}, s.PlayerOrder...)
	next.Talon = deck.Clone(s.Talon)
	if s.TrumpCard != nil {
		card := *s.TrumpCard
		next.TrumpCard = &card
	}

	next.Dealing = s.Dealing.clone()
	next.Bidding = s.Bidding.clone()
	next.Trick = s.Trick.clone()
	next.Tricks = make([]Trick, len(s.Tricks))
	for i, t := range s.Tricks {
		next.Tricks[i] = t.clone()
	}

	if s.Result != nil {
		res := *s.Result
		next.Result = &res
	}

	return &next
}

func (p PlayerState) clone() PlayerState {
	p.Hand = deck.Clone(p.Hand)
	p.WonCards = deck.Clone(p.WonCards)
	p.Marriages = append([]deck.Suit{}, p.Marriages...)
	return p
}

func (b BiddingState) clone() BiddingState {
	passed := make(map[string]bool, len(b.PassedPlayers))
	for id, v := range b.PassedPlayers {
		passed[id] = v
	}

	b.PassedPlayers = passed
	b.BiddingOrder = append([]string{}, b.BiddingOrder...)
	return b
}

func (t Trick) clone() Trick {
	t.Cards = append([]PlayedCard{}, t.Cards...)
	return t
}

func newBiddingState(order []string) BiddingState {
	return BiddingState{
		PassedPlayers: make(map[string]bool),
		BiddingOrder:  append([]string{}, order...),
	}
}
