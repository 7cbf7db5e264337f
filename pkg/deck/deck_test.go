package deck

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

// zeroGenerator always picks the first index
type zeroGenerator struct{}

func (zeroGenerator) Intn(int) int {
	return 0
}

func TestNewPiquet(t *testing.T) {
	a := assert.New(t)
	cards := NewPiquet()

	a.Equal(Size, len(cards))
	a.Equal(Card{Rank: 7, Suit: Clubs}, cards[0])
	a.Equal(Card{Rank: 14, Suit: Clubs}, cards[7])
	a.Equal(Card{Rank: 7, Suit: Diamonds}, cards[8])
	a.Equal(Card{Rank: 14, Suit: Spades}, cards[31])
	a.Equal("738b755a8ef85ebf3f62486f0cc4676f181acefe", HashCode(cards))

	a.Equal(TotalPoints, SumPoints(cards))

	unique := make(map[Card]bool)
	for _, c := range cards {
		unique[c] = true
	}
	a.Equal(Size, len(unique))
}

func TestShuffle(t *testing.T) {
	a := assert.New(t)
	cards := NewPiquet()

	shuffled := Shuffle(cards, zeroGenerator{})
	a.Equal(CardFromString("8c"), shuffled[0])
	a.Equal(CardFromString("9c"), shuffled[1])
	a.Equal(CardFromString("7c"), shuffled[31])
	a.True(IsPiquet(shuffled))

	// the input is left untouched
	a.Equal(CardFromString("7c"), cards[0])
	a.Equal("738b755a8ef85ebf3f62486f0cc4676f181acefe", HashCode(cards))
}

func TestIsPiquet(t *testing.T) {
	a := assert.New(t)
	a.True(IsPiquet(NewPiquet()))

	cards := NewPiquet()
	cards[0] = cards[1]
	a.False(IsPiquet(cards))
	a.False(IsPiquet(NewPiquet()[1:]))
}
