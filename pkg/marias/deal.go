package marias

import (
	"fmt"

	"marias-server/pkg/deck"
)

// talonOffset is the DealStep offset that deals into the talon
const talonOffset = -1

// DealingPhase is the sub-phase of the deal
type DealingPhase string

// dealing phases
const (
	DealingNotStarted      DealingPhase = "NOT_STARTED"
	DealingWaitingForTrump DealingPhase = "WAITING_FOR_TRUMP"
	DealingComplete        DealingPhase = "COMPLETE"
)

// Decision is a choice available at a decision gate
type Decision string

// decisions
const (
	DecisionSelectTrump Decision = "SELECT_TRUMP"
	DecisionPass        Decision = "PASS"
	// DecisionTakeTalon is reserved, no gate offers it yet
	DecisionTakeTalon Decision = "TAKE_TALON"
)

// DecisionGate is a pause in the deal where one player must decide before dealing continues
type DecisionGate struct {
	PlayerID           string     `json:"playerId"`
	AvailableDecisions []Decision `json:"availableDecisions"`
	Mandatory          bool       `json:"mandatory"`
}

// IsAvailable returns true if the decision can be made at this gate
func (g *DecisionGate) IsAvailable(d Decision) bool {
	if g == nil {
		return false
	}

	for _, available := range g.AvailableDecisions {
		if available == d {
			return true
		}
	}

	return false
}

func trumpSelectionGate(playerID string) *DecisionGate {
	return &DecisionGate{
		PlayerID:           playerID,
		AvailableDecisions: []Decision{DecisionSelectTrump, DecisionPass},
		Mandatory:          true,
	}
}

// DealStep deals Count cards to the seat at Offset from the dealer (0 dealer, 1 chooser, 2 third seat)
// An Offset of -1 deals into the talon
type DealStep struct {
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// DealPattern is the sequence of chunks the deck is dealt in
type DealPattern struct {
	Name         string     `json:"name,omitempty"`
	Steps        []DealStep `json:"steps"`
	PreviewCards int        `json:"previewCards"`
}

// StandardPattern deals 7-7-7, two to the talon, then 3-3-3
func StandardPattern(preview int) DealPattern {
	return DealPattern{
		Name: "standard",
		Steps: []DealStep{
			{1, 7}, {2, 7}, {0, 7},
			{talonOffset, 2},
			{1, 3}, {2, 3}, {0, 3},
		},
		PreviewCards: preview,
	}
}

// TwoPhasePattern deals the chooser's first seven up front and the chooser's last three at the end
func TwoPhasePattern(preview int) DealPattern {
	return DealPattern{
		Name: "two-phase",
		Steps: []DealStep{
			{1, 7},
			{2, 5}, {0, 5},
			{talonOffset, 2},
			{2, 5}, {0, 5},
			{1, 3},
		},
		PreviewCards: preview,
	}
}

// OneByOnePattern deals single cards around the table
func OneByOnePattern(preview int) DealPattern {
	steps := make([]DealStep, 0, 31)
	for i := 0; i < 7; i++ {
		steps = append(steps, DealStep{1, 1}, DealStep{2, 1}, DealStep{0, 1})
	}

	steps = append(steps, DealStep{talonOffset, 2})
	for i := 0; i < 3; i++ {
		steps = append(steps, DealStep{1, 1}, DealStep{2, 1}, DealStep{0, 1})
	}

	return DealPattern{
		Name:         "one-by-one",
		Steps:        steps,
		PreviewCards: preview,
	}
}

// Validate checks that the pattern deals the whole deck correctly
func (p DealPattern) Validate() error {
	if p.PreviewCards < 1 || p.PreviewCards > HandSize {
		return fmt.Errorf("preview cards must be between 1 and %d", HandSize)
	}

	if len(p.Steps) == 0 {
		return ErrPatternEmpty
	}

	perSeat := make([]int, NumPlayers)
	talon := 0
	for _, step := range p.Steps {
		if step.Offset < talonOffset || step.Offset >= NumPlayers {
			return fmt.Errorf("invalid seat offset: %d", step.Offset)
		}

		if step.Count < 1 {
			return ErrPatternCount
		}

		if step.Count > deck.Size {
			return ErrPatternStepTooLarge
		}

		if step.Offset == talonOffset {
			talon += step.Count
		} else {
			perSeat[step.Offset] += step.Count
		}
	}

	total := talon
	for _, n := range perSeat {
		total += n
	}

	if total != deck.Size {
		return fmt.Errorf("pattern must deal %d cards, got %d", deck.Size, total)
	}

	for offset, n := range perSeat {
		if n != HandSize {
			return fmt.Errorf("seat %d must receive %d cards, got %d", offset, HandSize, n)
		}
	}

	if talon != TalonSize {
		return fmt.Errorf("talon must receive %d cards, got %d", TalonSize, talon)
	}

	if perSeat[1] < p.PreviewCards {
		return fmt.Errorf("chooser must receive at least %d cards, got %d", p.PreviewCards, perSeat[1])
	}

	return nil
}

// DealingState is the state of the deal
type DealingState struct {
	Phase        DealingPhase           `json:"phase"`
	Pattern      *DealPattern           `json:"pattern,omitempty"`
	DeckPosition int                    `json:"deckPosition"`
	Deck         []deck.Card            `json:"deck"`
	ChooserID    string                 `json:"chooserId,omitempty"`
	PendingCards []deck.Card            `json:"pendingCards"`
	DealOrder    map[string][]deck.Card `json:"dealOrder"`
	DecisionGate *DecisionGate          `json:"decisionGate,omitempty"`
}

func newDealingState() DealingState {
	return DealingState{
		Phase:        DealingNotStarted,
		Deck:         []deck.Card{},
		PendingCards: []deck.Card{},
		DealOrder:    make(map[string][]deck.Card),
	}
}

func (d DealingState) clone() DealingState {
	if d.Pattern != nil {
		p := *d.Pattern
		p.Steps = append([]DealStep{}, d.Pattern.Steps...)
		d.Pattern = &p
	}

	d.Deck = deck.Clone(d.Deck)
	d.PendingCards = deck.Clone(d.PendingCards)

	order := make(map[string][]deck.Card, len(d.DealOrder))
	for id, cards := range d.DealOrder {
		order[id] = deck.Clone(cards)
	}

	d.DealOrder = order
	if d.DecisionGate != nil {
		g := *d.DecisionGate
		g.AvailableDecisions = append([]Decision{}, d.DecisionGate.AvailableDecisions...)
		d.DecisionGate = &g
	}

	return d
}

// dealSetup resolves the deck, pattern and mode a DealCards action will use
func dealSetup(s *GameState, a DealCards) ([]deck.Card, DealPattern, bool) {
	cards := a.Deck
	if len(cards) == 0 {
		cards = deck.NewPiquet()
	}

	twoPhase := s.options.TwoPhaseDeal
	if a.TwoPhase != nil {
		twoPhase = *a.TwoPhase
	}

	preview := s.options.PreviewCards
	if preview == 0 {
		preview = 7
	}

	var pattern DealPattern
	switch {
	case a.Pattern != nil:
		pattern = *a.Pattern
		if pattern.PreviewCards == 0 {
			pattern.PreviewCards = preview
		}
	case twoPhase:
		pattern = TwoPhasePattern(preview)
	default:
		pattern = StandardPattern(preview)
	}

	return cards, pattern, twoPhase
}

func reduceDeal(s *GameState, a DealCards) *GameState {
	cards, pattern, twoPhase := dealSetup(s, a)
	next := s.clone()
	chooserID := s.ChooserID()

	hands := make(map[string][]deck.Card, len(s.PlayerOrder))
	dealOrder := make(map[string][]deck.Card, len(s.PlayerOrder))
	for _, id := range s.PlayerOrder {
		hands[id] = []deck.Card{}
		dealOrder[id] = []deck.Card{}
	}

	talon := make([]deck.Card, 0, TalonSize)
	pending := make([]deck.Card, 0)
	pos := 0
	chooserDealt := 0

	for _, step := range pattern.Steps {
		target := ""
		if step.Offset != talonOffset {
			target = s.seatFromDealer(step.Offset)
		}

		for i := 0; i < step.Count; i++ {
			card := cards[pos]
			pos++

			switch {
			case target == "":
				talon = append(talon, card)
			case twoPhase && target == chooserID:
				dealOrder[target] = append(dealOrder[target], card)
				if chooserDealt < pattern.PreviewCards {
					hands[target] = append(hands[target], card)
					chooserDealt++
				} else {
					pending = append(pending, card)
				}
			default:
				hands[target] = append(hands[target], card)
				dealOrder[target] = append(dealOrder[target], card)
			}
		}
	}

	for i, id := range s.PlayerOrder {
		p := next.Players[id]
		p.Hand = deck.Sorted(hands[id])
		p.IsDealer = i == s.DealerIndex
		next.Players[id] = p
	}

	next.Talon = talon
	next.Dealing = DealingState{
		Phase:        DealingComplete,
		Pattern:      &pattern,
		DeckPosition: pos,
		Deck:         deck.Clone(cards),
		ChooserID:    chooserID,
		PendingCards: []deck.Card{},
		DealOrder:    dealOrder,
	}

	if twoPhase && len(pending) > 0 {
		next.Dealing.Phase = DealingWaitingForTrump
		next.Dealing.PendingCards = pending
		next.Dealing.DecisionGate = trumpSelectionGate(chooserID)
		next.CurrentPlayerIndex = s.indexOf(chooserID)
		return next
	}

	startBidding(next)
	return next
}

func reduceChooseTrump(s *GameState, a ChooseTrump) *GameState {
	next := s.clone()
	chooser := next.Players[a.PlayerID]

	hand, _ := deck.Remove(chooser.Hand, a.Card)
	hand = append(hand, next.Dealing.PendingCards...)
	hand = append(hand, a.Card)
	chooser.Hand = hand
	next.Players[a.PlayerID] = chooser

	card := a.Card
	next.Trump = card.Suit
	next.TrumpCard = &card
	next.GameType = s.options.BaseContract()
	next.DeclarerID = a.PlayerID

	next.Dealing.Phase = DealingComplete
	next.Dealing.PendingCards = []deck.Card{}
	next.Dealing.DecisionGate = nil

	next.Phase = PhaseTalonExchange
	next.CurrentPlayerIndex = s.indexOf(a.PlayerID)
	return next
}

func reduceChooserPass(s *GameState, a ChooserPass) *GameState {
	next := s.clone()
	chooser := next.Players[a.PlayerID]
	chooser.Hand = deck.Sorted(append(chooser.Hand, next.Dealing.PendingCards...))
	next.Players[a.PlayerID] = chooser

	next.Dealing.Phase = DealingComplete
	next.Dealing.PendingCards = []deck.Card{}
	next.Dealing.DecisionGate = nil

	startBidding(next)
	return next
}
