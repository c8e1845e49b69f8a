package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePotsSidePotLadder(t *testing.T) {
	t.Parallel()

	pm := NewPotManager()
	pm.AddBet("a", 50)
	pm.AddBet("b", 100)
	pm.AddBet("c", 100)

	pots := pm.CalculatePots([]string{"a", "b", "c"})
	require.Len(t, pots, 2)

	assert.Equal(t, Pot{ID: "main", Amount: 150, EligiblePlayers: []string{"a", "b", "c"}, Type: MainPot}, pots[0])
	assert.Equal(t, Pot{ID: "side-1", Amount: 100, EligiblePlayers: []string{"b", "c"}, Type: SidePot}, pots[1])
	assert.Equal(t, uint(250), pm.Total())
	assert.NoError(t, pm.ValidatePots())
}

func TestCalculatePotsAccumulatesAcrossRounds(t *testing.T) {
	t.Parallel()

	pm := NewPotManager()
	pm.AddBet("a", 10)
	pm.AddBet("b", 10)
	pm.CalculatePots([]string{"a", "b"})
	pm.StartNewBettingRound()

	assert.Zero(t, pm.HighestBet())
	assert.Equal(t, uint(10), pm.Contribution("a"))

	pm.AddBet("a", 40)
	pm.AddBet("b", 40)
	pots := pm.CalculatePots([]string{"a", "b"})
	require.Len(t, pots, 1)
	assert.Equal(t, uint(100), pots[0].Amount)
}

func TestCalculatePotsFoldedMoney(t *testing.T) {
	t.Parallel()

	t.Run("folded chips join the pot they fall into", func(t *testing.T) {
		pm := NewPotManager()
		pm.AddBet("folder", 30)
		pm.AddBet("a", 100)
		pm.AddBet("b", 100)

		pots := pm.CalculatePots([]string{"a", "b"})
		require.Len(t, pots, 1, "layers with the same eligible players merge")
		assert.Equal(t, uint(230), pots[0].Amount)
		assert.Equal(t, []string{"a", "b"}, pots[0].EligiblePlayers)
	})

	t.Run("dead money above every live stack goes to the last pot", func(t *testing.T) {
		pm := NewPotManager()
		pm.AddBet("shorty", 20)
		pm.AddBet("a", 60)
		pm.AddBet("folder", 100)

		pots := pm.CalculatePots([]string{"shorty", "a"})
		require.Len(t, pots, 2)
		assert.Equal(t, uint(60), pots[0].Amount)
		assert.Equal(t, uint(120), pots[1].Amount)
		assert.Equal(t, []string{"a"}, pots[1].EligiblePlayers)
		assert.Equal(t, pm.Total(), pots[0].Amount+pots[1].Amount)
	})

	t.Run("live player with nothing in still collects", func(t *testing.T) {
		pm := NewPotManager()
		pm.AddBet("folder", 15)

		pots := pm.CalculatePots([]string{"a"})
		require.Len(t, pots, 1)
		assert.Equal(t, uint(15), pots[0].Amount)
		assert.Equal(t, []string{"a"}, pots[0].EligiblePlayers)
	})
}

func TestCallAmount(t *testing.T) {
	t.Parallel()

	pm := NewPotManager()
	pm.AddBet("sb", 5)
	pm.AddBet("bb", 10)

	assert.Equal(t, uint(5), pm.CallAmount("sb"))
	assert.Zero(t, pm.CallAmount("bb"))
	assert.Equal(t, uint(10), pm.CallAmount("utg"))
	assert.Equal(t, uint(10), pm.HighestBet())
	assert.Equal(t, uint(5), pm.CurrentBet("sb"))
}

func TestDistributePotsNoLeakage(t *testing.T) {
	t.Parallel()

	ids := []string{"a", "b", "c", "d", "e", "f", "g"}
	for _, amount := range []uint{1, 7, 100, 101, 333, 1000} {
		for n := 1; n <= len(ids); n++ {
			pm := NewPotManager()
			per := amount / uint(len(ids))
			rest := amount - per*uint(len(ids))
			for i, id := range ids {
				bet := per
				if i == 0 {
					bet += rest
				}
				pm.AddBet(id, bet)
			}
			pots := pm.CalculatePots(ids)

			winners := make(map[string][]string)
			for _, pot := range pots {
				w := pot.EligiblePlayers
				if len(w) > n {
					w = w[:n]
				}
				winners[pot.ID] = w
			}
			payouts, err := pm.DistributePots(winners)
			require.NoError(t, err)

			var paid uint
			for _, v := range payouts {
				paid += v
			}
			assert.Equal(t, amount, paid, "amount=%d winners=%d", amount, n)
		}
	}
}

func TestDistributePotsRemainderOrder(t *testing.T) {
	t.Parallel()

	pm := NewPotManager()
	pm.AddBet("a", 34)
	pm.AddBet("b", 33)
	pm.AddBet("c", 33)
	pm.CalculatePots([]string{"a", "b", "c"})

	payouts, err := pm.DistributePots(map[string][]string{
		"main":   {"c", "b"},
		"side-1": {"a"},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(50), payouts["c"], "odd chip goes to the first winner listed")
	assert.Equal(t, uint(49), payouts["b"])
	assert.Equal(t, uint(1), payouts["a"])
}

func TestDistributePotsErrors(t *testing.T) {
	t.Parallel()

	pm := NewPotManager()
	pm.AddBet("a", 50)
	pm.AddBet("b", 100)
	pm.CalculatePots([]string{"a", "b"})

	_, err := pm.DistributePots(map[string][]string{"side-9": {"a"}})
	assert.ErrorIs(t, err, ErrUnknownPot)

	_, err = pm.DistributePots(map[string][]string{"main": nil})
	assert.ErrorIs(t, err, ErrNoWinners)

	_, err = pm.DistributePots(map[string][]string{"side-1": {"a"}})
	assert.ErrorIs(t, err, ErrInvalidPot)

	payouts, err := pm.DistributePots(map[string][]string{"main": {"a", "a"}})
	require.NoError(t, err)
	assert.Equal(t, uint(100), payouts["a"], "duplicate winners are counted once")
}

func TestValidatePots(t *testing.T) {
	t.Parallel()

	pm := NewPotManager()
	assert.NoError(t, pm.ValidatePots())

	pm.pots = []Pot{{ID: "main", Amount: 10, EligiblePlayers: []string{"a"}}, {ID: "main", Amount: 5, EligiblePlayers: []string{"a"}}}
	assert.ErrorIs(t, pm.ValidatePots(), ErrInvalidPot)

	pm.pots = []Pot{{ID: "main", Amount: 0, EligiblePlayers: []string{"a"}}}
	assert.ErrorIs(t, pm.ValidatePots(), ErrInvalidPot)

	pm.pots = []Pot{{ID: "main", Amount: 10}}
	assert.ErrorIs(t, pm.ValidatePots(), ErrInvalidPot)
}

func TestPotManagerReset(t *testing.T) {
	t.Parallel()

	pm := NewPotManager()
	pm.AddBet("a", 10)
	pm.CalculatePots([]string{"a"})
	pm.Reset()

	assert.Zero(t, pm.Total())
	assert.Zero(t, pm.HighestBet())
	assert.Empty(t, pm.Pots())
	assert.Empty(t, pm.PreviewPots([]string{"a"}))
}
