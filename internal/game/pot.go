package game

import (
	"cmp"
	"fmt"
	"slices"
)

// Pot is a main or side pot and the players who can win it.
type Pot struct {
	ID              string   `json:"id"`
	Amount          uint     `json:"amount"`
	EligiblePlayers []string `json:"eligiblePlayers"`
	Type            PotType  `json:"type"`
}

// PotManager tracks contributions for one hand and layers them into pots.
// Round bets drive call amounts and are cleared every betting round;
// contributions accumulate for the whole hand and drive the pot ladder.
type PotManager struct {
	roundBets     map[string]uint
	contributions map[string]uint
	order         []string
	pots          []Pot
}

// NewPotManager returns an empty pot manager.
func NewPotManager() *PotManager {
	return &PotManager{
		roundBets:     make(map[string]uint),
		contributions: make(map[string]uint),
	}
}

// AddBet records chips a player put in during the current round.
func (pm *PotManager) AddBet(playerID string, amount uint) {
	if amount == 0 {
		return
	}
	if _, ok := pm.contributions[playerID]; !ok {
		pm.order = append(pm.order, playerID)
	}
	pm.roundBets[playerID] += amount
	pm.contributions[playerID] += amount
}

// CurrentBet returns the player's bet in the current round.
func (pm *PotManager) CurrentBet(playerID string) uint {
	return pm.roundBets[playerID]
}

// Contribution returns everything the player has put in this hand.
func (pm *PotManager) Contribution(playerID string) uint {
	return pm.contributions[playerID]
}

// HighestBet returns the largest bet of the current round.
func (pm *PotManager) HighestBet() uint {
	var highest uint
	for _, bet := range pm.roundBets {
		highest = max(highest, bet)
	}
	return highest
}

// CallAmount returns how much the player must add to match the highest bet.
func (pm *PotManager) CallAmount(playerID string) uint {
	highest, bet := pm.HighestBet(), pm.roundBets[playerID]
	if bet >= highest {
		return 0
	}
	return highest - bet
}

// Total returns every chip committed this hand.
func (pm *PotManager) Total() uint {
	var total uint
	for _, amount := range pm.contributions {
		total += amount
	}
	return total
}

// Pots returns a copy of the most recently calculated pots.
func (pm *PotManager) Pots() []Pot {
	return clonePots(pm.pots)
}

// CalculatePots rebuilds the pot ladder from this hand's contributions.
// Only players in active can be eligible; chips from anyone else still
// count towards the pot they fall into.
func (pm *PotManager) CalculatePots(active []string) []Pot {
	pm.pots = pm.buildPots(active)
	return clonePots(pm.pots)
}

// PreviewPots computes the pot ladder without storing it.
func (pm *PotManager) PreviewPots(active []string) []Pot {
	return pm.buildPots(active)
}

type contribution struct {
	playerID string
	amount   uint
}

func (pm *PotManager) buildPots(active []string) []Pot {
	entries := make([]contribution, 0, len(pm.order))
	for _, id := range pm.order {
		if amount := pm.contributions[id]; amount > 0 {
			entries = append(entries, contribution{id, amount})
		}
	}
	slices.SortStableFunc(entries, func(a, b contribution) int {
		return cmp.Compare(a.amount, b.amount)
	})

	var (
		pots  []Pot
		prev  uint
		carry uint
	)
	for i, e := range entries {
		if e.amount == prev {
			continue
		}
		level := e.amount
		layer := (level - prev) * uint(len(entries)-i)
		prev = level

		var eligible []string
		for _, id := range active {
			if pm.contributions[id] >= level {
				eligible = append(eligible, id)
			}
		}

		switch {
		case len(eligible) == 0 && len(pots) == 0:
			carry += layer
		case len(eligible) == 0:
			pots[len(pots)-1].Amount += layer
		case len(pots) > 0 && slices.Equal(pots[len(pots)-1].EligiblePlayers, eligible):
			pots[len(pots)-1].Amount += layer
		default:
			pots = append(pots, Pot{Amount: layer + carry, EligiblePlayers: eligible})
			carry = 0
		}
	}
	if carry > 0 && len(active) > 0 {
		pots = append(pots, Pot{Amount: carry, EligiblePlayers: slices.Clone(active)})
	}

	for i := range pots {
		if i == 0 {
			pots[i].ID, pots[i].Type = "main", MainPot
		} else {
			pots[i].ID, pots[i].Type = fmt.Sprintf("side-%d", i), SidePot
		}
	}
	return pots
}

// DistributePots splits each named pot among its winners. Integer
// remainders go one chip at a time to winners in the order given, so the
// payouts for a pot always sum to its amount. Nothing is recorded if any
// pot id or winner is invalid.
func (pm *PotManager) DistributePots(winners map[string][]string) (map[string]uint, error) {
	for potID, ids := range winners {
		idx := slices.IndexFunc(pm.pots, func(p Pot) bool { return p.ID == potID })
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPot, potID)
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoWinners, potID)
		}
		for _, id := range ids {
			if !slices.Contains(pm.pots[idx].EligiblePlayers, id) {
				return nil, fmt.Errorf("%w: %s is not eligible for %s", ErrInvalidPot, id, potID)
			}
		}
	}

	payouts := make(map[string]uint)
	for _, pot := range pm.pots {
		ids, ok := winners[pot.ID]
		if !ok {
			continue
		}
		ids = dedupe(ids)
		share := pot.Amount / uint(len(ids))
		remainder := pot.Amount % uint(len(ids))
		for i, id := range ids {
			payouts[id] += share
			if uint(i) < remainder {
				payouts[id]++
			}
		}
	}
	return payouts, nil
}

// StartNewBettingRound clears the round bets. Contributions and pots are kept.
func (pm *PotManager) StartNewBettingRound() {
	clear(pm.roundBets)
}

// ValidatePots checks the calculated pots for duplicate ids, empty pots and
// pots nobody can win.
func (pm *PotManager) ValidatePots() error {
	seen := make(map[string]struct{}, len(pm.pots))
	for _, pot := range pm.pots {
		if _, dup := seen[pot.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidPot, pot.ID)
		}
		seen[pot.ID] = struct{}{}
		if pot.Amount == 0 {
			return fmt.Errorf("%w: %s is empty", ErrInvalidPot, pot.ID)
		}
		if len(pot.EligiblePlayers) == 0 {
			return fmt.Errorf("%w: %s has no eligible players", ErrInvalidPot, pot.ID)
		}
	}
	return nil
}

// Reset clears all bets and pots for a new hand.
func (pm *PotManager) Reset() {
	clear(pm.roundBets)
	clear(pm.contributions)
	pm.order = pm.order[:0]
	pm.pots = nil
}

func clonePots(pots []Pot) []Pot {
	if pots == nil {
		return nil
	}
	out := make([]Pot, len(pots))
	for i, p := range pots {
		out[i] = p
		out[i].EligiblePlayers = slices.Clone(p.EligiblePlayers)
	}
	return out
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
