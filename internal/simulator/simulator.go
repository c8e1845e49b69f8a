package simulator

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/sanity-io/litter"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdemtable/internal/config"
	"github.com/lox/holdemtable/internal/game"
	"github.com/lox/holdemtable/internal/gameid"
	"github.com/lox/holdemtable/internal/randutil"
	"github.com/lox/holdemtable/internal/statistics"
	"github.com/lox/holdemtable/poker"
)

// ErrInvariant is returned when a table breaks chip or pot accounting.
var ErrInvariant = errors.New("invariant violated")

// Config holds configuration for running simulations
type Config struct {
	Tables []config.TableConfig
	Seed   int64
	Clock  quartz.Clock
	Logger *log.Logger

	// OnHand, if set, is called after every settled hand. Tables run
	// concurrently, so it must be safe for concurrent use. An error stops
	// the table.
	OnHand func(table string, snapshot game.GameSnapshot, result *game.GameResult) error
}

// TableReport is the outcome of one simulated table.
type TableReport struct {
	Name       string                 `json:"name"`
	GameID     string                 `json:"gameId"`
	Policy     string                 `json:"policy"`
	Hands      int                    `json:"hands"`
	Busted     []string               `json:"busted"`
	FinalChips map[string]uint        `json:"finalChips"`
	Stats      *statistics.Statistics `json:"stats"`
}

// Report aggregates every table of a run.
type Report struct {
	Tables []TableReport         `json:"tables"`
	Total  statistics.Statistics `json:"total"`
}

// Simulator plays scripted bots against each other, one goroutine per table.
type Simulator struct {
	config Config
	clock  quartz.Clock
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(cfg Config) *Simulator {
	clock := cfg.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Simulator{config: cfg, clock: clock, logger: logger.WithPrefix("simulator")}
}

// Run plays every configured table to completion. The first table to fail
// cancels the others.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	reports := make([]TableReport, len(s.config.Tables))

	g, ctx := errgroup.WithContext(ctx)
	for i, tc := range s.config.Tables {
		g.Go(func() error {
			report, err := s.runTable(ctx, i, tc)
			if err != nil {
				return fmt.Errorf("table %s: %w", tc.Name, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Tables: reports}
	for _, r := range reports {
		report.Total.Merge(r.Stats)
	}
	return report, nil
}

type table struct {
	name     string
	game     *game.GameState
	policies map[string]Policy
	logger   *log.Logger
	total    uint
}

func (s *Simulator) runTable(ctx context.Context, index int, tc config.TableConfig) (TableReport, error) {
	rng := randutil.New(s.config.Seed + int64(index))

	id, err := gameid.GenerateFrom(randutil.NewReader(rng))
	if err != nil {
		return TableReport{}, err
	}
	opts, err := tc.GameOptions()
	if err != nil {
		return TableReport{}, err
	}
	logger := s.logger.With("table", tc.Name)
	g, err := game.New(append(opts,
		game.WithGameID(id),
		game.WithRand(rng),
		game.WithClock(s.clock),
		game.WithLogger(logger),
	)...)
	if err != nil {
		return TableReport{}, err
	}

	t := &table{name: tc.Name, game: g, policies: make(map[string]Policy), logger: logger}
	for seat := range tc.Players {
		policy, err := policyForSeat(tc.Policy, seat)
		if err != nil {
			return TableReport{}, err
		}
		pid := fmt.Sprintf("%s-%d", policy.Name(), seat+1)
		if !g.AddPlayer(pid, pid, tc.StartingChips) || !g.SetPlayerReady(pid, true) {
			return TableReport{}, fmt.Errorf("could not seat %s", pid)
		}
		t.policies[pid] = policy
	}
	t.total = g.TotalChips()

	report := TableReport{
		Name:   tc.Name,
		GameID: id,
		Policy: tc.Policy,
		Stats:  &statistics.Statistics{},
	}

	start := time.Now()
	for report.Hands < tc.Hands && g.CanStartGame() {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		result, err := s.playHand(ctx, t, rng)
		if err != nil {
			return report, err
		}
		report.Stats.Add(result)
		report.Hands++

		g.Reset()
		for _, p := range g.Players() {
			if p.Chips == 0 {
				g.RemovePlayer(p.ID)
				report.Busted = append(report.Busted, p.ID)
				logger.Debug("player busted", "player", p.ID, "hand", report.Hands)
			}
		}
	}

	report.FinalChips = make(map[string]uint)
	for _, p := range g.Players() {
		report.FinalChips[p.ID] = p.Chips
	}
	logger.Info("table finished",
		"hands", report.Hands,
		"busted", len(report.Busted),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return report, nil
}

func (s *Simulator) playHand(ctx context.Context, t *table, rng *rand.Rand) (statistics.HandResult, error) {
	g := t.game
	if !g.StartNewHand() {
		return statistics.HandResult{}, fmt.Errorf("hand %d did not start", g.HandNumber()+1)
	}
	if err := t.checkChips(); err != nil {
		return statistics.HandResult{}, err
	}

	for g.Phase().IsBetting() {
		if err := s.takeTurn(ctx, t, rng); err != nil {
			return statistics.HandResult{}, err
		}
		if err := t.checkChips(); err != nil {
			return statistics.HandResult{}, err
		}
	}

	result := g.Result()
	if result == nil {
		return statistics.HandResult{}, t.violation("hand ended without a result")
	}
	var potTotal uint
	for _, pot := range result.Pots {
		potTotal += pot.Amount
	}
	if awarded := result.TotalAwarded(); awarded != potTotal {
		return statistics.HandResult{}, t.violation(fmt.Sprintf("awarded %d from pots totalling %d", awarded, potTotal))
	}

	snapshot := g.Snapshot()
	if s.config.OnHand != nil {
		if err := s.config.OnHand(t.name, snapshot, result); err != nil {
			return statistics.HandResult{}, err
		}
	}
	return summarise(result, g.History(), snapshot.Blinds.Big), nil
}

// takeTurn asks the current player's policy for a decision. A policy that
// does not answer is left to the action clock.
func (s *Simulator) takeTurn(ctx context.Context, t *table, rng *rand.Rand) error {
	g := t.game
	id := g.CurrentPlayerID()
	p, ok := g.Player(id)
	if !ok {
		return t.violation("no current player during a betting round")
	}

	turn := Turn{
		Snapshot:   g.SnapshotFor(id),
		Player:     p,
		Valid:      g.ValidActions(id),
		CallAmount: g.CallAmount(id),
		MinRaise:   g.MinRaiseAmount(id),
	}
	decision, ok := t.policies[id].Decide(turn, rng)
	if ok {
		if !g.ExecutePlayerAction(id, decision.Action, decision.Amount) {
			return fmt.Errorf("%s chose invalid action %s %d", id, decision.Action, decision.Amount)
		}
		return nil
	}

	if p.TimeoutAt == nil {
		return t.violation(fmt.Sprintf("%s has no action deadline", id))
	}
	if err := s.waitUntil(ctx, *p.TimeoutAt); err != nil {
		return err
	}
	if !g.HandleTimeout(id) {
		return fmt.Errorf("timeout for %s was not accepted", id)
	}
	return nil
}

func (s *Simulator) waitUntil(ctx context.Context, deadline time.Time) error {
	d := s.clock.Until(deadline)
	if d <= 0 {
		return nil
	}
	timer := s.clock.NewTimer(d, "simulator", "action")
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *table) checkChips() error {
	if total := t.game.TotalChips(); total != t.total {
		return t.violation(fmt.Sprintf("chip total %d, expected %d", total, t.total))
	}
	return nil
}

// violation logs the table state and returns an ErrInvariant error.
func (t *table) violation(reason string) error {
	t.logger.Error("invariant violated", "reason", reason, "hand", t.game.HandNumber())
	t.logger.Error(litter.Sdump(t.game.Snapshot()))
	return fmt.Errorf("%w: hand %d: %s", ErrInvariant, t.game.HandNumber(), reason)
}

// summarise converts a settled hand into a statistics record.
func summarise(result *game.GameResult, history []game.ActionRecord, bigBlind uint) statistics.HandResult {
	hr := statistics.HandResult{
		PotChips: result.TotalAwarded(),
		BigBlind: bigBlind,
		Showdown: result.Showdown,
		Street:   streetReached(len(result.Board)),
		Winners:  len(result.Winners),
	}
	shares := make(map[string]int, len(result.Pots))
	for _, w := range result.Winners {
		for _, id := range w.PotIDs {
			shares[id]++
		}
	}
	for _, pot := range result.Pots {
		// an uncalled excess comes back as a side pot with one eligible player
		if pot.Type == game.MainPot || len(pot.EligiblePlayers) > 1 {
			hr.Pots++
		}
		if shares[pot.ID] > 1 {
			hr.Split = true
		}
	}
	for _, rec := range history {
		switch rec.Kind {
		case game.KindAction:
			hr.Actions++
		case game.KindTimeout:
			hr.Timeouts++
		}
	}
	if result.Showdown {
		var best *poker.HandResult
		for _, w := range result.Winners {
			if w.Hand != nil && (best == nil || poker.CompareHands(*w.Hand, *best) > 0) {
				best = w.Hand
			}
		}
		if best != nil {
			hr.WinningHand = &best.Type
		}
	}
	return hr
}

func streetReached(boardCards int) string {
	switch {
	case boardCards >= 5:
		return game.River.String()
	case boardCards == 4:
		return game.Turn.String()
	case boardCards == 3:
		return game.Flop.String()
	default:
		return game.PreFlop.String()
	}
}
