package deck

import (
	"sort"
)

// Hand represents a collection of cards
type Hand []Card

func (h Hand) Len() int {
	return len(h)
}

// Less orders by suit (deck order), then by strength
func (h Hand) Less(i, j int) bool {
	if si, sj := suitIndex(h[i].Suit), suitIndex(h[j].Suit); si != sj {
		return si < sj
	}

	return h[i].Rank < h[j].Rank
}

func (h Hand) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func suitIndex(s Suit) int {
	for i, suit := range Suits() {
		if suit == s {
			return i
		}
	}

	return len(Suits())
}

// Sorted returns a sorted copy of the cards
func Sorted(cards []Card) []Card {
	h := Hand(Clone(cards))
	sort.Sort(h)
	return h
}

// Contains returns true if the card is in cards
func Contains(cards []Card, card Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}

	return false
}

// Remove returns a copy of cards without the first occurrence of card
// The second value is false if the card was not found
func Remove(cards []Card, card Card) ([]Card, bool) {
	out := make([]Card, 0, len(cards))
	found := false
	for _, c := range cards {
		if !found && c == card {
			found = true
			continue
		}

		out = append(out, c)
	}

	return out, found
}

// SameCards returns true if a and b hold the same multiset of cards
func SameCards(a, b []Card) bool {
	if len(a) != len(b) {
		return false
	}

	counts := make(map[Card]int, len(a))
	for _, c := range a {
		counts[c]++
	}

	for _, c := range b {
		counts[c]--
		if counts[c] < 0 {
			return false
		}
	}

	return true
}

// HasSuit returns true if any card is of the suit
func HasSuit(cards []Card, suit Suit) bool {
	for _, c := range cards {
		if c.Suit == suit {
			return true
		}
	}

	return false
}

// OfSuit returns the cards of the given suit
func OfSuit(cards []Card, suit Suit) []Card {
	out := make([]Card, 0)
	for _, c := range cards {
		if c.Suit == suit {
			out = append(out, c)
		}
	}

	return out
}

// SumPoints returns the total point value of the cards
func SumPoints(cards []Card) int {
	sum := 0
	for _, c := range cards {
		sum += c.Points()
	}

	return sum
}

// Clone returns a copy of the cards
// A nil slice is cloned into an empty slice so it serializes as []
func Clone(cards []Card) []Card {
	c := make([]Card, len(cards))
	copy(c, cards)

	return c
}

func (h Hand) String() string {
	return CardsToString(h)
}
