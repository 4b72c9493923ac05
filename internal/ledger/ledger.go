// Package ledger persists player purses, win/loss tallies, and the
// leaderboard. The game engine never touches it directly; the web layer
// applies resolved outcomes here.
package ledger

import (
	"context"
	"errors"

	"github.com/lox/twentyone/internal/game"
)

// ErrUnknownUser indicates an operation against a username with no account.
var ErrUnknownUser = errors.New("ledger: unknown user")

// Entry is one leaderboard row.
type Entry struct {
	Username string
	Purse    int
	Wins     int
	Losses   int
}

// Store abstracts purse persistence. Implementations can be swapped for
// testing (in-memory) or production (Postgres).
type Store interface {
	// Authenticate reports whether the username and password identify a
	// legitimate account. Unknown users authenticate as false, not as an
	// error.
	Authenticate(ctx context.Context, username, password string) (bool, error)

	// Purse returns the user's current balance.
	Purse(ctx context.Context, username string) (int, error)

	// Credit adds amount to the user's purse.
	Credit(ctx context.Context, username string, amount int) error

	// Debit subtracts amount from the user's purse.
	Debit(ctx context.Context, username string, amount int) error

	// RecordOutcome increments the user's win or loss tally for a resolved
	// round. Pushes record nothing.
	RecordOutcome(ctx context.Context, username string, winner game.Winner) error

	// Leaderboard returns all accounts ordered by purse, then wins, then
	// username.
	Leaderboard(ctx context.Context) ([]Entry, error)

	// Close releases any underlying resources.
	Close()
}

// ApplyOutcome settles a resolved round against a user's account: credit
// bet×multiplier on a win, debit the bet on a loss, return the bet
// untouched on a push, then tally the result. The blackjack premium
// truncates toward zero at this edge; the engine's multiplier itself is
// exact.
func ApplyOutcome(ctx context.Context, store Store, username string, bet int, out game.Outcome) (delta int, err error) {
	switch out.Winner {
	case game.WinnerPlayer:
		delta = int(float64(bet) * out.PayoutMultiplier)
		err = store.Credit(ctx, username, delta)
	case game.WinnerDealer:
		delta = -bet
		err = store.Debit(ctx, username, bet)
	}
	if err != nil {
		return 0, err
	}

	if out.Winner != game.WinnerPush {
		if err := store.RecordOutcome(ctx, username, out.Winner); err != nil {
			return 0, err
		}
	}
	return delta, nil
}
