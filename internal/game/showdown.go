package game

import (
	"slices"

	"github.com/lox/holdemtable/poker"
)

// Winner is a player's share of the pots at the end of a hand.
type Winner struct {
	PlayerID string            `json:"playerId"`
	Amount   uint              `json:"amount"`
	PotIDs   []string          `json:"potIds"`
	Hand     *poker.HandResult `json:"hand,omitempty"`
}

// GameResult describes how a finished hand was settled.
type GameResult struct {
	GameID     string                      `json:"gameId"`
	HandNumber int                         `json:"handNumber"`
	Showdown   bool                        `json:"showdown"`
	Winners    []Winner                    `json:"winners"`
	Pots       []Pot                       `json:"pots"`
	Hands      map[string]poker.HandResult `json:"hands,omitempty"`
	Board      []poker.Card                `json:"board"`
}

// TotalAwarded sums every winner's payout.
func (r *GameResult) TotalAwarded() uint {
	var total uint
	for _, w := range r.Winners {
		total += w.Amount
	}
	return total
}

// showdown evaluates every remaining hand and awards each pot to the best
// hand among its eligible players.
func (g *GameState) showdown() {
	g.phase = Showdown
	contenders := g.inHandIDs()
	pots := g.pots.CalculatePots(contenders)

	hands := make(map[string]poker.HandResult, len(contenders))
	for _, id := range contenders {
		cards := append(slices.Clone(g.players[id].HoleCards), g.community...)
		hand, err := poker.EvaluateHand(cards)
		if err != nil {
			g.logger.Error("failed to evaluate hand", "player", id, "err", err)
			continue
		}
		hands[id] = hand
	}

	winners := make(map[string][]string, len(pots))
	for _, pot := range pots {
		var best []string
		for _, id := range pot.EligiblePlayers {
			hand, ok := hands[id]
			if !ok {
				continue
			}
			if len(best) == 0 {
				best = []string{id}
				continue
			}
			switch c := poker.CompareHands(hand, hands[best[0]]); {
			case c > 0:
				best = []string{id}
			case c == 0:
				best = append(best, id)
			}
		}
		if len(best) == 0 {
			// no hand could be ranked; split among everyone eligible
			g.logger.Error("no rankable hand for pot", "pot", pot.ID)
			best = slices.Clone(pot.EligiblePlayers)
		}
		winners[pot.ID] = best
	}

	g.settle(true, contenders, pots, winners, hands)
}

// finishUncontested awards everything to the last player standing.
func (g *GameState) finishUncontested() {
	contenders := g.inHandIDs()
	pots := g.pots.CalculatePots(contenders)
	winners := make(map[string][]string, len(pots))
	for _, pot := range pots {
		winners[pot.ID] = slices.Clone(pot.EligiblePlayers)
	}
	g.settle(false, contenders, pots, winners, nil)
}

func (g *GameState) settle(showdown bool, contenders []string, pots []Pot, winners map[string][]string, hands map[string]poker.HandResult) {
	payouts, err := g.pots.DistributePots(winners)
	if err != nil {
		g.logger.Error("failed to distribute pots, refunding contributions", "err", err)
		g.refundContributions()
		payouts = nil
	}

	result := &GameResult{
		GameID:     g.id,
		HandNumber: g.handNumber,
		Showdown:   showdown,
		Pots:       pots,
		Hands:      hands,
		Board:      slices.Clone(g.community),
	}
	for _, id := range contenders {
		amount, ok := payouts[id]
		if !ok {
			continue
		}
		w := Winner{PlayerID: id, Amount: amount}
		for _, pot := range pots {
			if slices.Contains(winners[pot.ID], id) {
				w.PotIDs = append(w.PotIDs, pot.ID)
			}
		}
		if hand, ok := hands[id]; ok {
			w.Hand = &hand
		}
		g.players[id].Chips += amount
		result.Winners = append(result.Winners, w)
		g.logger.Debug("pot awarded", "player", id, "amount", amount, "pots", w.PotIDs)
	}

	g.result = result
	g.currentPlayer = ""
	g.phase = Finished
	g.logger.Debug("hand finished", "hand", g.handNumber, "showdown", showdown, "winners", len(result.Winners))
}
