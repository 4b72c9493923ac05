package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/twentyone/internal/deck"
)

func TestStartRound(t *testing.T) {
	t.Parallel()
	e := newTestEngine(1)
	r := e.StartRound()

	assert.Equal(t, PhaseBet, r.Phase())
	assert.Equal(t, 0, r.Bet())
	assert.Equal(t, 0, r.Player().Len())
	assert.Equal(t, 0, r.Dealer().Len())
	assert.Equal(t, 52, r.Remaining())
	assert.False(t, r.DealerHidden())
}

func TestPlaceBetDealsAlternating(t *testing.T) {
	t.Parallel()
	e := newTestEngine(1)
	r := fixedRound(t, PhaseBet, 0, Hand{}, Hand{}, false,
		cards(t, "2c", "3c", "4c", "5c")...)

	require.NoError(t, e.PlaceBet(r, 5))

	assert.Equal(t, PhasePlayerTurn, r.Phase())
	assert.Equal(t, 5, r.Bet())
	assert.Equal(t, cards(t, "2c", "4c"), r.Player().Cards(), "player gets 1st and 3rd cards")
	assert.Equal(t, cards(t, "3c", "5c"), r.Dealer().Cards(), "dealer gets 2nd and 4th cards")
	assert.True(t, r.DealerHidden())
	assert.Equal(t, 48, r.Remaining())
}

func TestPlaceBetRejectsBadAmounts(t *testing.T) {
	t.Parallel()
	e := newTestEngine(1)

	for _, amount := range []int{0, -1, -100} {
		r := e.StartRound()
		err := e.PlaceBet(r, amount)
		require.ErrorIs(t, err, ErrInvalidBet)

		// Failed bet leaves the round untouched.
		assert.Equal(t, PhaseBet, r.Phase())
		assert.Equal(t, 0, r.Player().Len())
		assert.Equal(t, 52, r.Remaining())
	}
}

func TestPlaceBetBlackjackShortCircuits(t *testing.T) {
	t.Parallel()
	e := newTestEngine(1)
	r := fixedRound(t, PhaseBet, 0, Hand{}, Hand{}, false,
		cards(t, "Tc", "5d", "Ah", "9s")...)

	require.NoError(t, e.PlaceBet(r, 10))

	assert.Equal(t, PhaseOver, r.Phase(), "blackjack skips straight to over")
	assert.False(t, r.DealerHidden(), "hole card revealed on the shortcut")

	out, err := Resolve(r)
	require.NoError(t, err)
	assert.Equal(t, WinnerPlayer, out.Winner)
	assert.True(t, out.Blackjack)
	assert.Equal(t, 1.5, out.PayoutMultiplier)
}

func TestPlayerBlackjackAgainstDealerBlackjackIsPush(t *testing.T) {
	t.Parallel()
	e := newTestEngine(1)
	r := fixedRound(t, PhaseBet, 0, Hand{}, Hand{}, false,
		cards(t, "Tc", "Ad", "Ah", "Ks")...)

	require.NoError(t, e.PlaceBet(r, 10))
	require.Equal(t, PhaseOver, r.Phase())

	out, err := Resolve(r)
	require.NoError(t, err)
	assert.Equal(t, WinnerPush, out.Winner)
	assert.False(t, out.Blackjack)
	assert.Equal(t, 0.0, out.PayoutMultiplier)
}

func TestHitKeepsTurnWhileUnderLimit(t *testing.T) {
	t.Parallel()
	e := newTestEngine(1)
	r := fixedRound(t, PhasePlayerTurn, 5,
		hand(t, "2c", "3d"), hand(t, "9h", "9s"), true,
		cards(t, "4c")...)

	require.NoError(t, e.Hit(r))
	assert.Equal(t, PhasePlayerTurn, r.Phase())
	assert.Equal(t, 9, r.Player().Value())
	assert.True(t, r.DealerHidden())
}

func TestHitBustEndsRound(t *testing.T) {
	t.Parallel()
	e := newTestEngine(1)
	r := fixedRound(t, PhasePlayerTurn, 5,
		hand(t, "5c", "7d"), hand(t, "9h", "9s"), true,
		cards(t, "Kh")...)

	require.NoError(t, e.Hit(r))

	assert.Equal(t, PhaseOver, r.Phase())
	assert.True(t, r.Player().Busted())
	assert.False(t, r.DealerHidden(), "bust reveals the hole card")

	out, err := Resolve(r)
	require.NoError(t, err)
	assert.Equal(t, WinnerDealer, out.Winner, "dealer wins on player bust regardless of dealer hand")
	assert.Equal(t, 0.0, out.PayoutMultiplier)
}

func TestStandPassesToDealer(t *testing.T) {
	t.Parallel()
	e := newTestEngine(1)
	r := fixedRound(t, PhasePlayerTurn, 5,
		hand(t, "Tc", "8d"), hand(t, "9h", "9s"), true)

	require.NoError(t, e.Stand(r))
	assert.Equal(t, PhaseDealerTurn, r.Phase())
	assert.False(t, r.DealerHidden())
}

func TestDealerDrawsToSeventeenAndStands(t *testing.T) {
	t.Parallel()
	e := newTestEngine(1)
	// Dealer starts on 12 and draws 2c then 5d to reach exactly 19.
	r := fixedRound(t, PhaseDealerTurn, 5,
		hand(t, "Tc", "8d"), hand(t, "9h", "3s"), false,
		cards(t, "2c", "5d")...)

	require.NoError(t, e.RunDealerTurn(r))

	assert.Equal(t, PhaseOver, r.Phase())
	assert.Equal(t, 19, r.Dealer().Value())
	assert.GreaterOrEqual(t, r.Dealer().Value(), DealerHitLimit)

	out, err := Resolve(r)
	require.NoError(t, err)
	assert.Equal(t, WinnerDealer, out.Winner, "dealer 19 beats player 18")
}

func TestDealerBustsPlayerWins(t *testing.T) {
	t.Parallel()
	e := newTestEngine(1)
	r := fixedRound(t, PhaseDealerTurn, 5,
		hand(t, "Tc", "8d"), hand(t, "9h", "7s"), false,
		cards(t, "6c")...)

	require.NoError(t, e.RunDealerTurn(r))

	assert.Equal(t, PhaseOver, r.Phase())
	assert.True(t, r.Dealer().Busted())

	out, err := Resolve(r)
	require.NoError(t, err)
	assert.Equal(t, WinnerPlayer, out.Winner)
	assert.Equal(t, 1.0, out.PayoutMultiplier)
	assert.False(t, out.Blackjack)
}

func TestDealerNeverHitsAtOrAboveLimit(t *testing.T) {
	t.Parallel()
	e := newTestEngine(1)
	r := fixedRound(t, PhaseDealerTurn, 5,
		hand(t, "Tc", "8d"), hand(t, "Th", "7s"), false)

	done, err := e.DealerStep(r)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 2, r.Dealer().Len(), "dealer stands on 17 without drawing")
	assert.Equal(t, PhaseOver, r.Phase())
}

func TestDealerStepAtATime(t *testing.T) {
	t.Parallel()
	e := newTestEngine(1)
	r := fixedRound(t, PhaseDealerTurn, 5,
		hand(t, "Tc", "9d"), hand(t, "2h", "3s"), false,
		cards(t, "4c", "5c", "6d")...)

	steps := 0
	for {
		done, err := e.DealerStep(r)
		require.NoError(t, err)
		steps++
		if done {
			break
		}
		assert.Equal(t, PhaseDealerTurn, r.Phase())
	}

	assert.Equal(t, PhaseOver, r.Phase())
	assert.GreaterOrEqual(t, r.Dealer().Value(), DealerHitLimit)
	assert.Equal(t, 20, r.Dealer().Value())
	assert.Equal(t, 4, steps, "three hits then the standing step")
}

func TestIllegalTransitions(t *testing.T) {
	t.Parallel()
	e := newTestEngine(1)

	tests := []struct {
		name  string
		phase Phase
		act   func(*Round) error
	}{
		{name: "bet during player turn", phase: PhasePlayerTurn, act: func(r *Round) error { return e.PlaceBet(r, 5) }},
		{name: "bet when over", phase: PhaseOver, act: func(r *Round) error { return e.PlaceBet(r, 5) }},
		{name: "hit during bet", phase: PhaseBet, act: e.Hit},
		{name: "hit during dealer turn", phase: PhaseDealerTurn, act: e.Hit},
		{name: "hit when over", phase: PhaseOver, act: e.Hit},
		{name: "stand during bet", phase: PhaseBet, act: e.Stand},
		{name: "stand when over", phase: PhaseOver, act: e.Stand},
		{name: "dealer turn during bet", phase: PhaseBet, act: e.RunDealerTurn},
		{name: "dealer turn during player turn", phase: PhasePlayerTurn, act: e.RunDealerTurn},
		{name: "dealer step when over", phase: PhaseOver, act: func(r *Round) error {
			_, err := e.DealerStep(r)
			return err
		}},
		{name: "resolve during player turn", phase: PhasePlayerTurn, act: func(r *Round) error {
			_, err := Resolve(r)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := fixedRound(t, tt.phase, 5, hand(t, "Tc", "8d"), hand(t, "9h", "9s"), false)
			playerBefore := r.Player().Cards()
			dealerBefore := r.Dealer().Cards()
			remainingBefore := r.Remaining()

			err := tt.act(r)
			require.ErrorIs(t, err, ErrIllegalTransition)

			// Rejected actions leave the round unchanged.
			assert.Equal(t, tt.phase, r.Phase())
			assert.Equal(t, playerBefore, r.Player().Cards())
			assert.Equal(t, dealerBefore, r.Dealer().Cards())
			assert.Equal(t, remainingBefore, r.Remaining())
		})
	}
}

func TestResolveMatrix(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		player Hand
		dealer Hand
		winner Winner
		payout float64
	}{
		{name: "player higher", player: hand(t, "Tc", "9d"), dealer: hand(t, "Th", "8s"), winner: WinnerPlayer, payout: 1},
		{name: "dealer higher", player: hand(t, "Tc", "7d"), dealer: hand(t, "Th", "9s"), winner: WinnerDealer, payout: 0},
		{name: "push", player: hand(t, "Tc", "8d"), dealer: hand(t, "Th", "8s"), winner: WinnerPush, payout: 0},
		{name: "player bust", player: hand(t, "Tc", "7d", "8h"), dealer: hand(t, "Th", "6s"), winner: WinnerDealer, payout: 0},
		{name: "dealer bust", player: hand(t, "Tc", "2d"), dealer: hand(t, "Th", "6s", "9c"), winner: WinnerPlayer, payout: 1},
		{name: "both bust favors dealer", player: hand(t, "Tc", "7d", "8h"), dealer: hand(t, "Th", "6s", "9c"), winner: WinnerDealer, payout: 0},
		{name: "blackjack premium", player: hand(t, "Tc", "Ad"), dealer: hand(t, "Th", "9s"), winner: WinnerPlayer, payout: 1.5},
		{name: "21 by value is no premium", player: hand(t, "7c", "7d", "7h"), dealer: hand(t, "Th", "9s"), winner: WinnerPlayer, payout: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := fixedRound(t, PhaseOver, 5, tt.player, tt.dealer, false)
			out, err := Resolve(r)
			require.NoError(t, err)
			assert.Equal(t, tt.winner, out.Winner)
			assert.Equal(t, tt.payout, out.PayoutMultiplier)
			assert.Equal(t, tt.player.Value(), out.PlayerValue)
			assert.Equal(t, tt.dealer.Value(), out.DealerValue)
		})
	}
}

// Full rounds never lose or duplicate a card: hands plus the remaining deck
// always total the 52-card set.
func TestCardConservationAcrossRounds(t *testing.T) {
	t.Parallel()

	for seed := range int64(25) {
		e := newTestEngine(seed)
		r := e.StartRound()
		require.NoError(t, e.PlaceBet(r, 1))

		// Hit until 17+ like a timid dealer, then stand.
		for r.Phase() == PhasePlayerTurn && r.Player().Value() < 17 {
			require.NoError(t, e.Hit(r))
		}
		if r.Phase() == PhasePlayerTurn {
			require.NoError(t, e.Stand(r))
		}
		if r.Phase() == PhaseDealerTurn {
			require.NoError(t, e.RunDealerTurn(r))
		}
		require.Equal(t, PhaseOver, r.Phase())

		seen := make(map[deck.Card]bool, 52)
		all := append(r.Player().Cards(), r.Dealer().Cards()...)
		all = append(all, r.deck.Cards()...)
		for _, c := range all {
			require.False(t, seen[c], "seed %d: card %s appears twice", seed, c)
			seen[c] = true
		}
		require.Len(t, seen, 52, "seed %d", seed)

		_, err := Resolve(r)
		require.NoError(t, err)
	}
}
