package game

import (
	"encoding/json"
	"fmt"

	"github.com/lox/twentyone/internal/deck"
)

// roundBlob is the persisted wire form of a Round. Cards travel as their
// two-character codes via deck.Card's text marshalling.
type roundBlob struct {
	Phase        string      `json:"phase"`
	Bet          int         `json:"bet"`
	Deck         []deck.Card `json:"deck"`
	Player       []deck.Card `json:"player"`
	Dealer       []deck.Card `json:"dealer"`
	DealerHidden bool        `json:"dealer_hidden"`
}

// Serialize encodes the round for persistence in a session store. The
// encoding is lossless: phase, bet, remaining deck order, both hands in
// deal order, and the hidden-card flag all round-trip exactly.
func Serialize(r *Round) ([]byte, error) {
	return json.Marshal(roundBlob{
		Phase:        r.phase.String(),
		Bet:          r.bet,
		Deck:         r.deck.Cards(),
		Player:       r.player.Cards(),
		Dealer:       r.dealer.Cards(),
		DealerHidden: r.dealerHidden,
	})
}

// Deserialize rebuilds a round from its serialized form. This is the trust
// boundary for persisted state: malformed JSON, unknown phases, invalid or
// duplicated cards, and inconsistent flags are all rejected rather than
// re-tagged into live state.
func Deserialize(blob []byte) (*Round, error) {
	var b roundBlob
	if err := json.Unmarshal(blob, &b); err != nil {
		return nil, fmt.Errorf("game: decoding round: %w", err)
	}

	phase, err := ParsePhase(b.Phase)
	if err != nil {
		return nil, err
	}

	if b.Bet < 0 {
		return nil, fmt.Errorf("%w: negative bet %d", ErrInvalidBet, b.Bet)
	}
	if phase != PhaseBet && b.Bet == 0 {
		return nil, fmt.Errorf("%w: phase %s with no bet", ErrInvalidBet, phase)
	}

	// Reject any card appearing twice across the deck and both hands; one
	// physical deck backs the whole round.
	seen := make(map[deck.Card]bool, 52)
	for _, group := range [][]deck.Card{b.Deck, b.Player, b.Dealer} {
		for _, c := range group {
			if !c.Valid() {
				return nil, fmt.Errorf("%w: suit %d rank %d", deck.ErrInvalidCard, c.Suit, c.Rank)
			}
			if seen[c] {
				return nil, fmt.Errorf("%w: duplicate %s", deck.ErrInvalidCard, c)
			}
			seen[c] = true
		}
	}

	if b.DealerHidden && len(b.Dealer) != 2 {
		return nil, fmt.Errorf("%w: hidden card with %d dealer cards", deck.ErrInvalidCard, len(b.Dealer))
	}

	d, err := deck.Reconstruct(b.Deck)
	if err != nil {
		return nil, err
	}

	return &Round{
		deck:         d,
		player:       NewHand(b.Player...),
		dealer:       NewHand(b.Dealer...),
		bet:          b.Bet,
		phase:        phase,
		dealerHidden: b.DealerHidden,
	}, nil
}
