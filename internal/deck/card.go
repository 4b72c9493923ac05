package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Suits lists all four suits in a stable order.
var Suits = []Suit{Clubs, Diamonds, Hearts, Spades}

// String returns the single-letter code for a suit ("c", "d", "h", "s")
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "c"
	case Diamonds:
		return "d"
	case Hearts:
		return "h"
	case Spades:
		return "s"
	default:
		return "?"
	}
}

// Name returns the display name of the suit
func (s Suit) Name() string {
	switch s {
	case Clubs:
		return "Clubs"
	case Diamonds:
		return "Diamonds"
	case Hearts:
		return "Hearts"
	case Spades:
		return "Spades"
	default:
		return "Unknown"
	}
}

// Symbol returns the suit glyph for display
func (s Suit) Symbol() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists all thirteen ranks from Two to Ace.
var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// String returns the single-character code for a rank ("2".."9", "T", "J", "Q", "K", "A")
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Nine:
		return string(rune('0' + int(r)))
	case r == Ten:
		return "T"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Name returns the display name of the rank ("2".."10", "Jack", ...)
func (r Rank) Name() string {
	switch {
	case r >= Two && r <= Ten:
		return fmt.Sprintf("%d", int(r))
	case r == Jack:
		return "Jack"
	case r == Queen:
		return "Queen"
	case r == King:
		return "King"
	case r == Ace:
		return "Ace"
	default:
		return "Unknown"
	}
}

// Card represents a playing card
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the two-character code of a card (e.g. "As", "Th")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Display returns the long form of a card (e.g. "Ace of Spades")
func (c Card) Display() string {
	return c.Rank.Name() + " of " + c.Suit.Name()
}

// Valid reports whether the card is one of the 52 suit×rank combinations.
func (c Card) Valid() bool {
	return c.Suit >= Clubs && c.Suit <= Spades && c.Rank >= Two && c.Rank <= Ace
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// ParseCard parses a two-character card code like "As" or "th".
// Ranks and suits are case insensitive.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	var rank Rank
	switch r := strings.ToUpper(s[:1]); r {
	case "2", "3", "4", "5", "6", "7", "8", "9":
		rank = Rank(int(r[0] - '0'))
	case "T":
		rank = Ten
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	case "A":
		rank = Ace
	default:
		return Card{}, fmt.Errorf("%w: unknown rank in %q", ErrInvalidCard, s)
	}

	var suit Suit
	switch strings.ToLower(s[1:]) {
	case "c":
		suit = Clubs
	case "d":
		suit = Diamonds
	case "h":
		suit = Hearts
	case "s":
		suit = Spades
	default:
		return Card{}, fmt.Errorf("%w: unknown suit in %q", ErrInvalidCard, s)
	}

	return Card{Suit: suit, Rank: rank}, nil
}

// ParseCards parses a slice of two-character card codes, rejecting the whole
// input on the first invalid entry.
func ParseCards(codes []string) ([]Card, error) {
	cards := make([]Card, 0, len(codes))
	for _, code := range codes {
		card, err := ParseCard(code)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MarshalText implements encoding.TextMarshaler using the two-character code.
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: suit %d rank %d", ErrInvalidCard, c.Suit, c.Rank)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Card) UnmarshalText(text []byte) error {
	card, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = card
	return nil
}
