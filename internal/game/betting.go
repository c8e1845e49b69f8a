package game

import (
	"slices"

	"github.com/lox/holdemtable/poker"
)

// ExecutePlayerAction applies an action for the player whose turn it is.
// For Raise, amount is the number of chips added to the player's bet and
// must cover the call plus at least one big blind. amount is ignored for
// other actions. It returns false, changing nothing, if the action is not
// allowed.
func (g *GameState) ExecutePlayerAction(id string, action Action, amount uint) bool {
	if reason := g.rejectReason(id, action, amount); reason != "" {
		g.logger.Debug("rejected action", "player", id, "action", action, "amount", amount, "reason", reason)
		return false
	}
	g.apply(g.players[id], action, amount, KindAction)
	return true
}

// HandleTimeout folds the current player once their deadline has passed.
// It returns false if it is not that player's turn or the deadline is
// still in the future.
func (g *GameState) HandleTimeout(id string) bool {
	if !g.phase.IsBetting() || id == "" || id != g.currentPlayer {
		return false
	}
	p := g.players[id]
	if p == nil || p.TimeoutAt == nil || g.clock.Now().Before(*p.TimeoutAt) {
		return false
	}
	g.logger.Debug("player timed out", "player", id, "deadline", *p.TimeoutAt)
	g.apply(p, Fold, 0, KindTimeout)
	return true
}

func (g *GameState) rejectReason(id string, action Action, amount uint) string {
	if !g.phase.IsBetting() {
		return "no betting round"
	}
	if id != g.currentPlayer {
		return "not your turn"
	}
	p := g.players[id]
	if p == nil || p.Status != StatusActive {
		return "player not active"
	}

	call := g.pots.CallAmount(id)
	switch action {
	case Fold:
		return ""
	case Check:
		if call > 0 {
			return "cannot check facing a bet"
		}
	case Call:
		if call == 0 {
			return "nothing to call"
		}
		if p.Chips < call {
			return "not enough chips to call"
		}
	case Raise:
		if amount < call+g.positions.Blinds().Big {
			return "raise below minimum"
		}
		if p.Chips < amount {
			return "not enough chips to raise"
		}
	case AllIn:
		if p.Chips == 0 {
			return "no chips"
		}
	default:
		return "unknown action"
	}
	return ""
}

func (g *GameState) apply(p *GamePlayer, action Action, amount uint, kind RecordKind) {
	var paid uint
	switch action {
	case Fold:
		p.Status = StatusFolded
	case Check:
	case Call:
		paid = g.commit(p, g.pots.CallAmount(p.ID))
	case Raise:
		paid = g.commit(p, amount)
	case AllIn:
		paid = g.commit(p, p.Chips)
	}
	p.HasActed = true
	p.LastAction = &action
	p.TimeoutAt = nil
	g.record(kind, p.ID, action, paid)
	g.logger.Debug("player acted", "player", p.ID, "action", action, "amount", paid, "phase", g.phase)

	order := g.actingOrder()
	g.currentPlayer = ""
	g.advance(order, p.ID)
}

// advance moves play on after a turn: finish the hand if one player is
// left, close the round if it is complete, otherwise hand the turn to the
// next player after the given seat.
func (g *GameState) advance(order []string, after string) {
	if g.liveCount() <= 1 {
		g.finishUncontested()
		return
	}
	if g.roundComplete() {
		g.nextPhase()
		return
	}
	next := g.nextToAct(order, after)
	if next == "" {
		g.nextPhase()
		return
	}
	g.setCurrent(next)
}

// roundComplete reports whether every active player has acted and matched
// the highest bet. All-in players are exempt. Blinds do not count as
// acting, so the big blind keeps its option when nobody raises.
func (g *GameState) roundComplete() bool {
	active := g.activePlayers()
	highest := g.pots.HighestBet()
	switch len(active) {
	case 0:
		return true
	case 1:
		return active[0].CurrentBet >= highest
	}
	for _, p := range active {
		if !p.HasActed || p.CurrentBet < highest {
			return false
		}
	}
	return true
}

// nextToAct scans order starting after the given seat for an active player
// who has not acted or is below the highest bet.
func (g *GameState) nextToAct(order []string, after string) string {
	if len(order) == 0 {
		return ""
	}
	highest := g.pots.HighestBet()
	start := slices.Index(order, after)
	for i := 1; i <= len(order); i++ {
		p := g.players[order[(start+i)%len(order)]]
		if p == nil || p.Status != StatusActive {
			continue
		}
		if !p.HasActed || p.CurrentBet < highest {
			return p.ID
		}
	}
	return ""
}

func (g *GameState) actingOrder() []string {
	if g.phase == PreFlop {
		return g.positions.PreflopBettingOrder()
	}
	return g.positions.BettingOrder()
}

// nextPhase closes the current betting round and deals the next street.
// While fewer than two players can still bet, streets are dealt without
// betting until showdown.
func (g *GameState) nextPhase() {
	for {
		g.pots.CalculatePots(g.inHandIDs())
		for _, id := range g.positions.Seats() {
			if p := g.players[id]; p != nil {
				p.HasActed = false
				p.CurrentBet = 0
				p.TimeoutAt = nil
			}
		}
		g.pots.StartNewBettingRound()

		switch g.phase {
		case PreFlop:
			g.dealCommunity(3)
			g.phase = Flop
		case Flop:
			g.dealCommunity(1)
			g.phase = Turn
		case Turn:
			g.dealCommunity(1)
			g.phase = River
		default:
			g.showdown()
			return
		}
		g.logger.Debug("phase changed", "phase", g.phase, "board", poker.FormatCards(g.community))

		if len(g.activePlayers()) >= 2 {
			if next := g.nextToAct(g.actingOrder(), ""); next != "" {
				g.setCurrent(next)
				return
			}
		}
	}
}

func (g *GameState) dealCommunity(n int) {
	g.deck.Burn()
	cards := g.deck.DealCards(n)
	if len(cards) < n {
		g.logger.Error("deck exhausted dealing board", "want", n, "got", len(cards))
	}
	g.community = append(g.community, cards...)
}

// CallAmount returns what the player must add to call.
func (g *GameState) CallAmount(id string) uint {
	return g.pots.CallAmount(id)
}

// MinRaiseAmount returns the fewest chips the player may add with a raise.
func (g *GameState) MinRaiseAmount(id string) uint {
	return g.pots.CallAmount(id) + g.positions.Blinds().Big
}

// ValidActions lists the actions the player may take right now. It is
// empty unless it is their turn.
func (g *GameState) ValidActions(id string) []Action {
	var actions []Action
	for _, a := range []Action{Fold, Check, Call, Raise, AllIn} {
		amount := uint(0)
		if a == Raise {
			amount = g.MinRaiseAmount(id)
		}
		if g.rejectReason(id, a, amount) == "" {
			actions = append(actions, a)
		}
	}
	return actions
}
