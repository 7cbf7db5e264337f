package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/hex"

	"marias-server/internal/rng"
)

// Size is the number of cards in a piquet deck
const Size = 32

// TotalPoints is the sum of the point values of every card in the deck
const TotalPoints = 120

// NewPiquet returns the 32-card piquet deck (7 through Ace in each suit).
// Important! this deck is unshuffled: the order is suit-major (clubs, diamonds, hearts, spades)
// and rank-minor (7 to Ace), so tests can assert exact sequences
func NewPiquet() []Card {
	cards := make([]Card, 0, Size)
	for _, suit := range Suits() {
		for _, rank := range Ranks() {
			cards = append(cards, Card{
				Rank: rank,
				Suit: suit,
			})
		}
	}

	return cards
}

// Shuffle returns a shuffled copy of the cards using the supplied generator
func Shuffle(cards []Card, gen rng.Generator) []Card {
	shuffled := make([]Card, len(cards))
	copy(shuffled, cards)

	for j := len(shuffled) - 1; j > 0; j-- {
		i := gen.Intn(j + 1)

		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled
}

// NewShuffledPiquet returns a shuffled piquet deck
func NewShuffledPiquet(gen rng.Generator) []Card {
	return Shuffle(NewPiquet(), gen)
}

// IsPiquet returns true if the cards are a permutation of the piquet deck
func IsPiquet(cards []Card) bool {
	if len(cards) != Size {
		return false
	}

	return SameCards(cards, NewPiquet())
}

// HashCode returns a SHA1 hash code of the card order
func HashCode(cards []Card) string {
	hash := sha1.New() // nolint:gosec
	for _, card := range cards {
		_, _ = hash.Write([]byte(card.String()))
	}

	return hex.EncodeToString(hash.Sum(nil)[:])
}
