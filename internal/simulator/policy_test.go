package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemtable/internal/game"
	"github.com/lox/holdemtable/internal/randutil"
	"github.com/lox/holdemtable/poker"
)

func preflopTurn(hole []poker.Card, call uint, valid ...game.Action) Turn {
	return Turn{
		Snapshot: game.GameSnapshot{
			Phase:  game.PreFlop,
			Blinds: game.Blinds{Small: 5, Big: 10},
		},
		Player:     game.GamePlayer{ID: "me", Chips: 1000, HoleCards: hole},
		Valid:      valid,
		CallAmount: call,
		MinRaise:   call + 10,
	}
}

func TestNewPolicy(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"random", "call", "fold", "sleepy", "tight"} {
		p, err := NewPolicy(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Name())
	}
	_, err := NewPolicy("mixed")
	assert.Error(t, err, "mixed is only valid per table")

	p, err := policyForSeat("mixed", 1)
	require.NoError(t, err)
	assert.Equal(t, mixedPolicies[1], p.Name())
}

func TestTightPolicyPreflop(t *testing.T) {
	t.Parallel()

	facingBet := []game.Action{game.Fold, game.Call, game.Raise, game.AllIn}

	d, ok := tightPolicy{}.Decide(preflopTurn(poker.MustParseCards("AS", "AH"), 10, facingBet...), nil)
	require.True(t, ok)
	assert.Equal(t, Decision{Action: game.Raise, Amount: 20}, d)

	d, _ = tightPolicy{}.Decide(preflopTurn(poker.MustParseCards("TS", "TH"), 30, facingBet...), nil)
	assert.Equal(t, game.Call, d.Action)

	d, _ = tightPolicy{}.Decide(preflopTurn(poker.MustParseCards("8S", "8H"), 30, facingBet...), nil)
	assert.Equal(t, game.Fold, d.Action, "medium hands do not call raises")

	d, _ = tightPolicy{}.Decide(preflopTurn(poker.MustParseCards("7S", "2H"), 0, game.Fold, game.Check, game.Raise, game.AllIn), nil)
	assert.Equal(t, game.Check, d.Action, "free check is never folded")
}

func TestTightPolicyPostflop(t *testing.T) {
	t.Parallel()

	turn := preflopTurn(poker.MustParseCards("KS", "7H"), 20, game.Fold, game.Call, game.Raise, game.AllIn)
	turn.Snapshot.Phase = game.Flop
	turn.Snapshot.CommunityCards = poker.MustParseCards("KD", "2C", "9H")

	d, _ := tightPolicy{}.Decide(turn, nil)
	assert.Equal(t, game.Call, d.Action, "top pair continues")

	turn.Snapshot.CommunityCards = poker.MustParseCards("QD", "2C", "2H")
	d, _ = tightPolicy{}.Decide(turn, nil)
	assert.Equal(t, game.Fold, d.Action, "board pair does not use a hole card")
}

func TestRandomPolicyRaisesWithinStack(t *testing.T) {
	t.Parallel()

	rng := randutil.New(5)
	turn := preflopTurn(poker.MustParseCards("2S", "3H"), 10, game.Raise)
	for range 200 {
		d, ok := randomPolicy{}.Decide(turn, rng)
		require.True(t, ok)
		require.Equal(t, game.Raise, d.Action)
		assert.GreaterOrEqual(t, d.Amount, turn.MinRaise)
		assert.LessOrEqual(t, d.Amount, turn.Player.Chips)
	}
}

func TestSimplePolicies(t *testing.T) {
	t.Parallel()

	free := preflopTurn(nil, 0, game.Fold, game.Check, game.Raise, game.AllIn)
	facing := preflopTurn(nil, 10, game.Fold, game.Call, game.Raise, game.AllIn)
	shortStack := preflopTurn(nil, 10, game.Fold, game.AllIn)

	tests := []struct {
		policy Policy
		turn   Turn
		want   game.Action
	}{
		{callPolicy{}, free, game.Check},
		{callPolicy{}, facing, game.Call},
		{callPolicy{}, shortStack, game.AllIn},
		{foldPolicy{}, free, game.Check},
		{foldPolicy{}, facing, game.Fold},
	}
	for _, tt := range tests {
		d, ok := tt.policy.Decide(tt.turn, nil)
		require.True(t, ok)
		assert.Equal(t, tt.want, d.Action, "%s", tt.policy.Name())
	}

	_, ok := sleepyPolicy{}.Decide(free, nil)
	assert.False(t, ok)
}
