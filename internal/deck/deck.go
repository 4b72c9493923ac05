// Package deck provides playing cards and a single 52-card deck with
// deterministic, caller-seeded shuffling.
package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

var (
	// ErrEmptyDeck indicates a draw from an exhausted deck. A normal round
	// never gets close to 52 draws, so hitting this means the round is
	// unrecoverable and must be abandoned.
	ErrEmptyDeck = errors.New("deck: empty")

	// ErrInvalidCard indicates a card outside the 52 valid suit×rank
	// combinations, typically from malformed persisted state.
	ErrInvalidCard = errors.New("deck: invalid card")
)

// Deck is an ordered sequence of cards. Draws remove from the tail and cards
// are never re-inserted, so a card drawn once cannot be drawn again.
type Deck struct {
	cards []Card
}

// New creates a full 52-card deck shuffled with the provided random source.
// The source is only used during construction; every permutation of the 52
// cards is equally likely under Fisher-Yates.
func New(rng *rand.Rand) *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
	return d
}

// Reconstruct rebuilds a deck whose remaining cards are exactly the given
// sequence in the given order, without reshuffling. It rejects invalid
// suit/rank combinations and duplicate cards, since both signal corrupted
// persisted state.
func Reconstruct(cards []Card) (*Deck, error) {
	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: suit %d rank %d", ErrInvalidCard, c.Suit, c.Rank)
		}
		if seen[c] {
			return nil, fmt.Errorf("%w: duplicate %s", ErrInvalidCard, c)
		}
		seen[c] = true
	}

	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d, nil
}

// Draw removes and returns the last card of the deck.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards in order. The copy keeps
// callers from mutating the deck through the returned slice.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
