package game

import (
	"testing"

	"github.com/lox/twentyone/internal/deck"
	"github.com/lox/twentyone/internal/randutil"
)

// fixedRound builds a round in an arbitrary state for tests. The deck is
// rebuilt from the full 52-card set minus the cards already in hands, in a
// deterministic order, with wantNext (if any) placed on top so the next
// draws are known.
func fixedRound(t *testing.T, phase Phase, bet int, player, dealer Hand, hidden bool, wantNext ...deck.Card) *Round {
	t.Helper()

	used := make(map[deck.Card]bool)
	for _, c := range player.Cards() {
		used[c] = true
	}
	for _, c := range dealer.Cards() {
		used[c] = true
	}
	for _, c := range wantNext {
		if used[c] {
			t.Fatalf("card %s both in a hand and queued to draw", c)
		}
		used[c] = true
	}

	var rest []deck.Card
	for _, suit := range deck.Suits {
		for _, rank := range deck.Ranks {
			if c := deck.NewCard(suit, rank); !used[c] {
				rest = append(rest, c)
			}
		}
	}

	// Draws come from the tail, so the queued cards go last in reverse
	// order: wantNext[0] is drawn first.
	for i := len(wantNext) - 1; i >= 0; i-- {
		rest = append(rest, wantNext[i])
	}

	d, err := deck.Reconstruct(rest)
	if err != nil {
		t.Fatalf("building fixed deck: %v", err)
	}

	return &Round{
		deck:         d,
		player:       player,
		dealer:       dealer,
		bet:          bet,
		phase:        phase,
		dealerHidden: hidden,
	}
}

// newTestEngine returns an engine with a deterministic shuffle.
func newTestEngine(seed int64) *Engine {
	return NewEngine(randutil.New(seed))
}
