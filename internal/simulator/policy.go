package simulator

import (
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/lox/holdemtable/internal/game"
	"github.com/lox/holdemtable/poker"
)

// Turn is what a policy sees when it is asked to act.
type Turn struct {
	Snapshot   game.GameSnapshot
	Player     game.GamePlayer
	Valid      []game.Action
	CallAmount uint
	MinRaise   uint
}

// Decision is a policy's chosen action. Amount only matters for raises.
type Decision struct {
	Action game.Action
	Amount uint
}

// Policy chooses actions for a simulated player. Returning false means the
// player does not respond and is left to the action clock.
type Policy interface {
	Name() string
	Decide(turn Turn, rng *rand.Rand) (Decision, bool)
}

// mixedPolicies is the rotation used by the "mixed" policy.
var mixedPolicies = []string{"tight", "random", "call", "tight", "fold"}

// NewPolicy returns the named policy.
func NewPolicy(name string) (Policy, error) {
	switch name {
	case "random":
		return randomPolicy{}, nil
	case "call":
		return callPolicy{}, nil
	case "fold":
		return foldPolicy{}, nil
	case "sleepy":
		return sleepyPolicy{}, nil
	case "tight":
		return tightPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown policy %q", name)
	}
}

// policyForSeat resolves a table policy for one seat, expanding "mixed".
func policyForSeat(name string, seat int) (Policy, error) {
	if name == "mixed" {
		name = mixedPolicies[seat%len(mixedPolicies)]
	}
	return NewPolicy(name)
}

func can(turn Turn, a game.Action) bool {
	return slices.Contains(turn.Valid, a)
}

// passive checks when free, otherwise falls back to the given action.
func passive(turn Turn, otherwise game.Action) Decision {
	if can(turn, game.Check) {
		return Decision{Action: game.Check}
	}
	return Decision{Action: otherwise}
}

// randomPolicy picks a uniform random legal action, raising a random amount.
type randomPolicy struct{}

func (randomPolicy) Name() string { return "random" }

func (randomPolicy) Decide(turn Turn, rng *rand.Rand) (Decision, bool) {
	if len(turn.Valid) == 0 {
		return Decision{Action: game.Fold}, true
	}
	action := turn.Valid[rng.IntN(len(turn.Valid))]
	d := Decision{Action: action}
	if action == game.Raise {
		span := turn.Player.Chips - turn.MinRaise
		d.Amount = turn.MinRaise + uint(rng.Uint64N(uint64(span)+1))
	}
	return d, true
}

// callPolicy never folds and never raises.
type callPolicy struct{}

func (callPolicy) Name() string { return "call" }

func (callPolicy) Decide(turn Turn, _ *rand.Rand) (Decision, bool) {
	return continueHand(turn), true
}

// foldPolicy checks when it can and folds otherwise.
type foldPolicy struct{}

func (foldPolicy) Name() string { return "fold" }

func (foldPolicy) Decide(turn Turn, _ *rand.Rand) (Decision, bool) {
	return passive(turn, game.Fold), true
}

// sleepyPolicy never answers and is folded by the action clock.
type sleepyPolicy struct{}

func (sleepyPolicy) Name() string { return "sleepy" }

func (sleepyPolicy) Decide(Turn, *rand.Rand) (Decision, bool) {
	return Decision{}, false
}

// tightPolicy plays strong starting hands and continues after the flop only
// with a pair or better that uses a hole card.
type tightPolicy struct{}

func (tightPolicy) Name() string { return "tight" }

func (tightPolicy) Decide(turn Turn, _ *rand.Rand) (Decision, bool) {
	hole := turn.Player.HoleCards
	if len(hole) != 2 {
		return passive(turn, game.Fold), true
	}
	bigBlind := turn.Snapshot.Blinds.Big

	if turn.Snapshot.Phase == game.PreFlop {
		switch poker.CategorizeHoleCards(hole[0], hole[1]) {
		case poker.CategoryPremium:
			if can(turn, game.Raise) {
				return Decision{Action: game.Raise, Amount: turn.MinRaise}, true
			}
			return continueHand(turn), true
		case poker.CategoryStrong:
			return continueHand(turn), true
		case poker.CategoryMedium:
			if turn.CallAmount <= bigBlind {
				return continueHand(turn), true
			}
		}
		return passive(turn, game.Fold), true
	}

	counts := poker.RankCounts(append(slices.Clone(hole), turn.Snapshot.CommunityCards...))
	if counts[hole[0].Rank] >= 2 || counts[hole[1].Rank] >= 2 {
		return continueHand(turn), true
	}
	return passive(turn, game.Fold), true
}

// continueHand checks, calls, or moves all in when the call is the whole stack.
func continueHand(turn Turn) Decision {
	switch {
	case can(turn, game.Check):
		return Decision{Action: game.Check}
	case can(turn, game.Call):
		return Decision{Action: game.Call}
	case can(turn, game.AllIn):
		return Decision{Action: game.AllIn}
	}
	return Decision{Action: game.Fold}
}
