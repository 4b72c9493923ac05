package game

import (
	"strings"

	"github.com/lox/twentyone/internal/deck"
)

const (
	// BustLimit is the hand value above which a hand is busted.
	BustLimit = 21

	// DealerHitLimit is the value at or above which the dealer stands.
	DealerHitLimit = 17
)

// Hand is an ordered sequence of cards held by one participant. Cards are
// only ever appended, in deal order, so the first two cards are always the
// initial deal.
type Hand struct {
	cards []deck.Card
}

// NewHand creates a hand holding the given cards in order.
func NewHand(cards ...deck.Card) Hand {
	h := Hand{cards: make([]deck.Card, len(cards))}
	copy(h.cards, cards)
	return h
}

// Add appends a card to the hand.
func (h *Hand) Add(card deck.Card) {
	h.cards = append(h.cards, card)
}

// Cards returns a copy of the hand's cards in deal order.
func (h Hand) Cards() []deck.Card {
	out := make([]deck.Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Len returns the number of cards in the hand.
func (h Hand) Len() int {
	return len(h.cards)
}

// Value computes the hand's value. Ranks 2-10 count face value, face cards
// count 10, and aces count 11 until the total exceeds the bust limit, at
// which point aces are downgraded to 1 one at a time. Recomputed from the
// cards on every call; nothing is cached.
func (h Hand) Value() int {
	sum := 0
	aces := 0
	for _, c := range h.cards {
		switch {
		case c.Rank == deck.Ace:
			sum += 11
			aces++
		case c.Rank >= deck.Jack:
			sum += 10
		default:
			sum += int(c.Rank)
		}
	}

	for sum > BustLimit && aces > 0 {
		sum -= 10
		aces--
	}
	return sum
}

// Busted reports whether the hand's value exceeds the bust limit.
func (h Hand) Busted() bool {
	return h.Value() > BustLimit
}

// Blackjack reports whether the hand is a natural: exactly two cards
// totaling 21. Hands only grow, so two cards always means the initial deal;
// a hand that reaches 21 after a hit has three or more cards and is a
// win-by-value, not a blackjack.
func (h Hand) Blackjack() bool {
	return len(h.cards) == 2 && h.Value() == BustLimit
}

// String returns the hand as space-separated card codes, e.g. "As Th".
func (h Hand) String() string {
	codes := make([]string, len(h.cards))
	for i, c := range h.cards {
		codes[i] = c.String()
	}
	return strings.Join(codes, " ")
}
