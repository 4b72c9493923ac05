// Package game implements the twenty-one round state machine: deck and hand
// state, bet and phase tracking, dealer play, and winner determination.
package game

import (
	"errors"
	"fmt"

	"github.com/lox/twentyone/internal/deck"
)

var (
	// ErrInvalidBet indicates a non-positive bet amount.
	ErrInvalidBet = errors.New("game: invalid bet")

	// ErrIllegalTransition indicates an action attempted in the wrong phase.
	// Callers at the HTTP boundary map this to a redirect to the page for
	// the current phase rather than a hard failure.
	ErrIllegalTransition = errors.New("game: illegal transition")
)

// Phase is the stage a round is in. The only legal progression is
// bet → player_turn → dealer_turn → over, with player blackjack and player
// bust skipping straight to over.
type Phase int

const (
	PhaseBet Phase = iota
	PhasePlayerTurn
	PhaseDealerTurn
	PhaseOver
)

// String returns the wire name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseBet:
		return "bet"
	case PhasePlayerTurn:
		return "player_turn"
	case PhaseDealerTurn:
		return "dealer_turn"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// ParsePhase parses a wire phase name.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "bet":
		return PhaseBet, nil
	case "player_turn":
		return PhasePlayerTurn, nil
	case "dealer_turn":
		return PhaseDealerTurn, nil
	case "over":
		return PhaseOver, nil
	default:
		return 0, fmt.Errorf("game: unknown phase %q", s)
	}
}

// Round holds the complete state of one round of twenty-one. A Round is
// exclusively owned by one player's session; nothing here is safe for
// concurrent mutation.
type Round struct {
	deck   *deck.Deck
	player Hand
	dealer Hand
	bet    int
	phase  Phase

	// dealerHidden is true only while the dealer holds exactly one visible
	// card and one withheld hole card.
	dealerHidden bool
}

// Phase returns the round's current phase.
func (r *Round) Phase() Phase { return r.phase }

// Bet returns the bet placed for this round, 0 before the bet phase
// completes.
func (r *Round) Bet() int { return r.bet }

// Player returns the player's hand.
func (r *Round) Player() Hand { return r.player }

// Dealer returns the dealer's full hand, including the hole card. Display
// layers consult DealerHidden to decide what to show.
func (r *Round) Dealer() Hand { return r.dealer }

// DealerHidden reports whether the dealer's second card is still withheld.
func (r *Round) DealerHidden() bool { return r.dealerHidden }

// DealerVisible returns the dealer cards a player is allowed to see: the
// full hand once revealed, or just the first card while the hole card is
// hidden.
func (r *Round) DealerVisible() []deck.Card {
	cards := r.dealer.Cards()
	if r.dealerHidden && len(cards) == 2 {
		return cards[:1]
	}
	return cards
}

// Remaining returns the number of undrawn cards in the round's deck.
func (r *Round) Remaining() int {
	return r.deck.Remaining()
}
