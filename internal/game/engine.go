package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/twentyone/internal/deck"
)

// Winner identifies who took a resolved round.
type Winner int

const (
	WinnerPush Winner = iota
	WinnerPlayer
	WinnerDealer
)

// String returns the wire name of the winner.
func (w Winner) String() string {
	switch w {
	case WinnerPlayer:
		return "player"
	case WinnerDealer:
		return "dealer"
	case WinnerPush:
		return "push"
	default:
		return "unknown"
	}
}

// Outcome is the result of a resolved round. The external ledger computes
// the purse delta from the bet and payout multiplier; the engine never
// touches storage.
type Outcome struct {
	Winner Winner

	// PayoutMultiplier is the multiple of the bet paid to the player:
	// 1.5 for a blackjack win, 1 for a plain win, 0 for a push or loss.
	PayoutMultiplier float64

	// Blackjack is true when the player won with a natural.
	Blackjack bool

	PlayerValue int
	DealerValue int
}

// Engine drives rounds through the phase machine. It owns the random source
// used to shuffle fresh decks; all other state lives in the Round it is
// given. Every operation either fully applies its transition or leaves the
// round unchanged.
type Engine struct {
	rng *rand.Rand
}

// NewEngine creates an engine that shuffles with the provided random
// source. Pass a seeded source for deterministic tests.
func NewEngine(rng *rand.Rand) *Engine {
	return &Engine{rng: rng}
}

// StartRound creates a fresh round: a newly shuffled 52-card deck, empty
// hands, and phase bet. Decks never carry over between rounds.
func (e *Engine) StartRound() *Round {
	return &Round{
		deck:  deck.New(e.rng),
		phase: PhaseBet,
	}
}

// PlaceBet places the round's bet and performs the opening deal: two cards
// each, alternating player/dealer/player/dealer, with the dealer's second
// card hidden. A player blackjack ends the round immediately, revealing the
// hole card and skipping the dealer turn.
func (e *Engine) PlaceBet(r *Round, amount int) error {
	if r.phase != PhaseBet {
		return fmt.Errorf("%w: cannot bet during %s", ErrIllegalTransition, r.phase)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBet, amount)
	}

	// A fresh 52-card deck cannot run out on a 4-card deal.
	for i := 0; i < 2; i++ {
		card, err := r.deck.Draw()
		if err != nil {
			return err
		}
		r.player.Add(card)

		card, err = r.deck.Draw()
		if err != nil {
			return err
		}
		r.dealer.Add(card)
	}

	r.bet = amount
	r.dealerHidden = true
	r.phase = PhasePlayerTurn

	if r.player.Blackjack() {
		r.dealerHidden = false
		r.phase = PhaseOver
	}
	return nil
}

// Hit draws one card into the player's hand. A bust ends the round,
// revealing the dealer's hole card; otherwise the player may act again.
func (e *Engine) Hit(r *Round) error {
	if r.phase != PhasePlayerTurn {
		return fmt.Errorf("%w: cannot hit during %s", ErrIllegalTransition, r.phase)
	}

	card, err := r.deck.Draw()
	if err != nil {
		return err
	}
	r.player.Add(card)

	if r.player.Busted() {
		r.dealerHidden = false
		r.phase = PhaseOver
	}
	return nil
}

// Stand ends the player's turn, revealing the dealer's hole card and
// passing play to the dealer.
func (e *Engine) Stand(r *Round) error {
	if r.phase != PhasePlayerTurn {
		return fmt.Errorf("%w: cannot stand during %s", ErrIllegalTransition, r.phase)
	}

	r.dealerHidden = false
	r.phase = PhaseDealerTurn
	return nil
}

// DealerStep advances the dealer's turn by at most one card: the dealer
// hits below the hit limit and stands at or above it. It returns true once
// the round has moved to over, either by dealer bust or dealer stand.
// Callers wanting the whole dealer turn at once use RunDealerTurn.
func (e *Engine) DealerStep(r *Round) (bool, error) {
	if r.phase != PhaseDealerTurn {
		return false, fmt.Errorf("%w: dealer cannot act during %s", ErrIllegalTransition, r.phase)
	}

	if r.dealer.Value() >= DealerHitLimit {
		r.phase = PhaseOver
		return true, nil
	}

	card, err := r.deck.Draw()
	if err != nil {
		return false, err
	}
	r.dealer.Add(card)

	if r.dealer.Busted() {
		r.phase = PhaseOver
		return true, nil
	}
	return false, nil
}

// RunDealerTurn plays the dealer's entire turn: hit until the hand reaches
// the hit limit or busts. The loop always terminates because every hit
// raises the hand value by at least one.
func (e *Engine) RunDealerTurn(r *Round) error {
	if r.phase != PhaseDealerTurn {
		return fmt.Errorf("%w: dealer cannot act during %s", ErrIllegalTransition, r.phase)
	}

	for {
		done, err := e.DealerStep(r)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Resolve determines the winner of a finished round. The order of checks
// matters: a busted player loses even if the dealer also busts, because the
// dealer never plays after a player bust.
func Resolve(r *Round) (Outcome, error) {
	if r.phase != PhaseOver {
		return Outcome{}, fmt.Errorf("%w: cannot resolve during %s", ErrIllegalTransition, r.phase)
	}

	out := Outcome{
		PlayerValue: r.player.Value(),
		DealerValue: r.dealer.Value(),
	}

	switch {
	case r.player.Busted():
		out.Winner = WinnerDealer
	case r.dealer.Busted():
		out.Winner = WinnerPlayer
	case out.PlayerValue > out.DealerValue:
		out.Winner = WinnerPlayer
	case out.PlayerValue < out.DealerValue:
		out.Winner = WinnerDealer
	default:
		out.Winner = WinnerPush
	}

	if out.Winner == WinnerPlayer {
		out.PayoutMultiplier = 1
		if r.player.Blackjack() && !r.dealer.Blackjack() {
			out.Blackjack = true
			out.PayoutMultiplier = 1.5
		}
	}
	return out, nil
}
