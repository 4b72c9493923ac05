package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/twentyone/internal/deck"
	"github.com/lox/twentyone/internal/randutil"
)

func TestSerializeRoundTrip(t *testing.T) {
	t.Parallel()
	e := newTestEngine(5)
	r := e.StartRound()
	require.NoError(t, e.PlaceBet(r, 25))
	if r.Phase() == PhasePlayerTurn {
		require.NoError(t, e.Hit(r))
	}

	blob, err := Serialize(r)
	require.NoError(t, err)

	restored, err := Deserialize(blob)
	require.NoError(t, err)

	assert.Equal(t, r.Phase(), restored.Phase())
	assert.Equal(t, r.Bet(), restored.Bet())
	assert.Equal(t, r.Player().Cards(), restored.Player().Cards())
	assert.Equal(t, r.Dealer().Cards(), restored.Dealer().Cards())
	assert.Equal(t, r.DealerHidden(), restored.DealerHidden())
	assert.Equal(t, r.Remaining(), restored.Remaining())

	// Serialization is idempotent: a second round trip produces the same
	// bytes.
	again, err := Serialize(restored)
	require.NoError(t, err)
	assert.JSONEq(t, string(blob), string(again))
}

func TestDeserializeContinuesPlay(t *testing.T) {
	t.Parallel()
	e := newTestEngine(8)
	r := fixedRound(t, PhasePlayerTurn, 5,
		hand(t, "Tc", "8d"), hand(t, "9h", "9s"), true,
		cards(t, "2c", "5d")...)

	blob, err := Serialize(r)
	require.NoError(t, err)
	restored, err := Deserialize(blob)
	require.NoError(t, err)

	// The restored round draws the same cards the original would have.
	require.NoError(t, e.Hit(restored))
	assert.Equal(t, cards(t, "Tc", "8d", "2c"), restored.Player().Cards())

	require.NoError(t, e.Stand(restored))
	require.NoError(t, e.RunDealerTurn(restored))
	assert.Equal(t, PhaseOver, restored.Phase())
}

func TestDeserializeRejectsMalformedState(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		blob string
	}{
		{name: "not json", blob: "{"},
		{name: "unknown phase", blob: `{"phase":"flop","bet":5,"deck":[],"player":[],"dealer":[]}`},
		{name: "invalid card code", blob: `{"phase":"player_turn","bet":5,"deck":["Zz"],"player":["Tc","8d"],"dealer":["9h","9s"]}`},
		{name: "duplicate across hands", blob: `{"phase":"player_turn","bet":5,"deck":[],"player":["Tc","8d"],"dealer":["Tc","9s"]}`},
		{name: "duplicate in deck", blob: `{"phase":"player_turn","bet":5,"deck":["2c","2c"],"player":["Tc","8d"],"dealer":["9h","9s"]}`},
		{name: "negative bet", blob: `{"phase":"player_turn","bet":-5,"deck":[],"player":["Tc","8d"],"dealer":["9h","9s"]}`},
		{name: "no bet after bet phase", blob: `{"phase":"over","bet":0,"deck":[],"player":["Tc","8d"],"dealer":["9h","9s"]}`},
		{name: "hidden card without two dealer cards", blob: `{"phase":"player_turn","bet":5,"deck":[],"player":["Tc","8d"],"dealer":["9h"],"dealer_hidden":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deserialize([]byte(tt.blob))
			require.Error(t, err)
		})
	}
}

func TestSerializedFormIsStable(t *testing.T) {
	t.Parallel()
	r := fixedRound(t, PhasePlayerTurn, 5,
		hand(t, "Tc", "8d"), hand(t, "9h", "9s"), true)

	blob, err := Serialize(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(blob, &decoded))
	assert.Equal(t, "player_turn", decoded["phase"])
	assert.Equal(t, float64(5), decoded["bet"])
	assert.Equal(t, []any{"Tc", "8d"}, decoded["player"])
	assert.Equal(t, []any{"9h", "9s"}, decoded["dealer"])
	assert.Equal(t, true, decoded["dealer_hidden"])
}

func TestDeserializeValidatesAgainstFullDeckSet(t *testing.T) {
	t.Parallel()
	// 53 cards total is impossible with one physical deck.
	full := deck.New(randutil.New(1)).Cards()
	blob, err := json.Marshal(map[string]any{
		"phase":  "player_turn",
		"bet":    5,
		"deck":   full,
		"player": []string{"Tc"},
		"dealer": []string{"9h"},
	})
	require.NoError(t, err)

	_, err = Deserialize(blob)
	require.ErrorIs(t, err, deck.ErrInvalidCard)
}
