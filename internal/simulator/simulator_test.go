package simulator

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemtable/internal/config"
	"github.com/lox/holdemtable/internal/game"
	"github.com/lox/holdemtable/internal/statistics"
	"github.com/lox/holdemtable/poker"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func tableConfig(name, policy string, players, hands int) config.TableConfig {
	return config.TableConfig{
		Name:          name,
		SmallBlind:    5,
		BigBlind:      10,
		StartingChips: 500,
		MaxPlayers:    6,
		ActionTimeout: "30s",
		Players:       players,
		Policy:        policy,
		Hands:         hands,
	}
}

func run(t *testing.T, seed int64, tables ...config.TableConfig) *Report {
	t.Helper()
	sim := New(Config{Tables: tables, Seed: seed, Logger: quietLogger()})
	report, err := sim.Run(t.Context())
	require.NoError(t, err)
	require.Len(t, report.Tables, len(tables))
	return report
}

func TestRunManyTables(t *testing.T) {
	t.Parallel()

	report := run(t, 12345,
		tableConfig("random", "random", 6, 200),
		tableConfig("mixed", "mixed", 5, 200),
		tableConfig("heads-up", "random", 2, 200),
	)

	hands := 0
	for _, tr := range report.Tables {
		assert.Positive(t, tr.Hands, tr.Name)
		assert.Len(t, tr.GameID, 26)
		require.NoError(t, tr.Stats.Validate(), tr.Name)

		var chips uint
		for _, c := range tr.FinalChips {
			chips += c
		}
		players := len(tr.FinalChips) + len(tr.Busted)
		assert.Equal(t, uint(players)*500, chips, "%s: chips are conserved across hands", tr.Name)
		hands += tr.Hands
	}
	assert.Equal(t, hands, report.Total.Hands)
	assert.NoError(t, report.Total.Validate())
}

func TestFoldPolicyNeverSeesAFlop(t *testing.T) {
	t.Parallel()

	report := run(t, 1, tableConfig("folders", "fold", 4, 50))
	stats := report.Tables[0].Stats

	assert.Equal(t, 50, stats.Hands)
	assert.Zero(t, stats.Showdowns)
	assert.Equal(t, 50, stats.Streets["pre_flop"])
	assert.InDelta(t, 1.5, stats.Mean(), 1e-9, "only the blinds are ever in the pot")
}

func TestCallPolicyAlwaysReachesShowdown(t *testing.T) {
	t.Parallel()

	report := run(t, 2, tableConfig("callers", "call", 3, 40))
	stats := report.Tables[0].Stats

	assert.Equal(t, stats.Hands, stats.Showdowns)
	assert.Equal(t, stats.Hands, stats.Streets["river"])
	assert.Zero(t, stats.Timeouts)

	wins := 0
	for _, n := range stats.WinningHand {
		wins += n
	}
	assert.Equal(t, stats.Showdowns, wins)
}

func TestSleepyPlayersAreFoldedByTheClock(t *testing.T) {
	t.Parallel()

	tc := tableConfig("sleepers", "sleepy", 3, 5)
	tc.ActionTimeout = "1ms"
	report := run(t, 3, tc)
	stats := report.Tables[0].Stats

	assert.Equal(t, 5, stats.Hands)
	assert.Equal(t, 10, stats.Timeouts, "two players time out every hand")
	assert.Zero(t, stats.Actions)
}

func TestRunIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	a := run(t, 99, tableConfig("t", "mixed", 6, 100))
	b := run(t, 99, tableConfig("t", "mixed", 6, 100))

	assert.Equal(t, a.Tables[0].FinalChips, b.Tables[0].FinalChips)
	assert.Equal(t, a.Tables[0].Busted, b.Tables[0].Busted)
	assert.Equal(t, a.Total.Values, b.Total.Values)
}

func TestRunReportsConfigErrors(t *testing.T) {
	t.Parallel()

	bad := tableConfig("bad", "random", 2, 1)
	bad.ActionTimeout = "whenever"
	_, err := New(Config{Tables: []config.TableConfig{bad}, Logger: quietLogger()}).Run(t.Context())
	assert.ErrorContains(t, err, "table bad")

	unknown := tableConfig("unknown", "gto", 2, 1)
	_, err = New(Config{Tables: []config.TableConfig{unknown}, Logger: quietLogger()}).Run(t.Context())
	assert.ErrorContains(t, err, "unknown policy")
}

func TestRunStopsWhenCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := New(Config{Tables: []config.TableConfig{tableConfig("t", "call", 2, 10)}, Logger: quietLogger()}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarise(t *testing.T) {
	t.Parallel()

	flush := poker.HandResult{Type: poker.Flush, PrimaryRank: poker.Ace}
	pair := poker.HandResult{Type: poker.OnePair, PrimaryRank: poker.Two}
	result := &game.GameResult{
		Showdown: true,
		Board:    poker.MustParseCards("2S", "3S", "9S", "KD", "QC"),
		Pots: []game.Pot{
			{ID: "main", Amount: 90, EligiblePlayers: []string{"a", "b", "c"}, Type: game.MainPot},
			{ID: "side-1", Amount: 40, EligiblePlayers: []string{"b", "c"}, Type: game.SidePot},
		},
		Winners: []game.Winner{
			{PlayerID: "a", Amount: 90, PotIDs: []string{"main"}, Hand: &pair},
			{PlayerID: "b", Amount: 40, PotIDs: []string{"side-1"}, Hand: &flush},
		},
	}
	history := []game.ActionRecord{
		{Kind: game.KindSmallBlind},
		{Kind: game.KindBigBlind},
		{Kind: game.KindAction},
		{Kind: game.KindTimeout},
		{Kind: game.KindAction},
	}

	got := summarise(result, history, 10)
	assert.Equal(t, statistics.HandResult{
		PotChips:    130,
		BigBlind:    10,
		Showdown:    true,
		Street:      "river",
		Pots:        2,
		Winners:     2,
		Timeouts:    1,
		Actions:     2,
		WinningHand: &flush.Type,
	}, got)
}

func TestSummariseCountsSplitsAndSidePotsPerPot(t *testing.T) {
	t.Parallel()

	// a shared main pot plus an uncalled excess returned to one player
	result := &game.GameResult{
		Showdown: true,
		Board:    poker.MustParseCards("2S", "3S", "9S", "KD", "QC"),
		Pots: []game.Pot{
			{ID: "main", Amount: 100, EligiblePlayers: []string{"a", "b"}, Type: game.MainPot},
			{ID: "side-1", Amount: 200, EligiblePlayers: []string{"a"}, Type: game.SidePot},
		},
		Winners: []game.Winner{
			{PlayerID: "a", Amount: 250, PotIDs: []string{"main", "side-1"}},
			{PlayerID: "b", Amount: 50, PotIDs: []string{"main"}},
		},
	}
	got := summarise(result, nil, 10)
	assert.True(t, got.Split)
	assert.Equal(t, 1, got.Pots)

	// two winners of separate pots, with the excess back to the raiser
	result = &game.GameResult{
		Showdown: true,
		Board:    poker.MustParseCards("2S", "3S", "9S", "KD", "QC"),
		Pots: []game.Pot{
			{ID: "main", Amount: 100, EligiblePlayers: []string{"a", "b"}, Type: game.MainPot},
			{ID: "side-1", Amount: 200, EligiblePlayers: []string{"a"}, Type: game.SidePot},
		},
		Winners: []game.Winner{
			{PlayerID: "b", Amount: 100, PotIDs: []string{"main"}},
			{PlayerID: "a", Amount: 200, PotIDs: []string{"side-1"}},
		},
	}
	got = summarise(result, nil, 10)
	assert.False(t, got.Split)
	assert.Equal(t, 1, got.Pots)
	assert.Equal(t, 2, got.Winners)
}

func TestOnHandSeesEverySettledHand(t *testing.T) {
	t.Parallel()

	var hands []int
	sim := New(Config{
		Tables: []config.TableConfig{tableConfig("watched", "tight", 4, 12)},
		Seed:   8,
		Logger: quietLogger(),
		OnHand: func(table string, snapshot game.GameSnapshot, result *game.GameResult) error {
			assert.Equal(t, "watched", table)
			assert.Equal(t, game.Finished, snapshot.Phase)
			assert.Equal(t, snapshot.HandNumber, result.HandNumber)
			assert.Equal(t, snapshot.GameID, result.GameID)
			hands = append(hands, result.HandNumber)
			return nil
		},
	})
	_, err := sim.Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, hands)
}

func TestOnHandErrorStopsTable(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	sim := New(Config{
		Tables: []config.TableConfig{tableConfig("t", "call", 2, 10)},
		Logger: quietLogger(),
		OnHand: func(string, game.GameSnapshot, *game.GameResult) error { return boom },
	})
	_, err := sim.Run(t.Context())
	assert.ErrorIs(t, err, boom)
}
