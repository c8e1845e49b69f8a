package game

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdemtable/internal/gameid"
	"github.com/lox/holdemtable/internal/randutil"
	"github.com/lox/holdemtable/poker"
)

// GameState is the state machine for one table. It is not safe for
// concurrent use.
type GameState struct {
	id     string
	cfg    gameConfig
	clock  quartz.Clock
	logger *log.Logger

	players map[string]*GamePlayer
	seating []string

	positions *PositionManager
	pots      *PotManager
	deck      *poker.Deck

	phase         Phase
	handNumber    int
	community     []poker.Card
	currentPlayer string
	history       []ActionRecord
	result        *GameResult
	prevDealer    string
}

// New creates a table in the Waiting phase.
func New(opts ...Option) (*GameState, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.maxPlayers < 2 {
		return nil, fmt.Errorf("%w: max players %d", ErrNotEnoughSeats, cfg.maxPlayers)
	}
	if cfg.maxPlayers > MaxSeats {
		return nil, fmt.Errorf("%w: max players %d, limit %d", ErrTooManySeats, cfg.maxPlayers, MaxSeats)
	}
	if cfg.actionTimeout <= 0 {
		return nil, fmt.Errorf("action timeout must be positive, got %s", cfg.actionTimeout)
	}
	positions, err := NewPositionManager(cfg.smallBlind, cfg.bigBlind)
	if err != nil {
		return nil, err
	}
	if cfg.clock == nil {
		cfg.clock = quartz.NewReal()
	}
	if cfg.rng == nil {
		cfg.rng = randutil.NewSecure()
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger()
	}
	if cfg.gameID == "" {
		cfg.gameID = gameid.Generate()
	}

	return &GameState{
		id:        cfg.gameID,
		cfg:       cfg,
		clock:     cfg.clock,
		logger:    cfg.logger.WithPrefix("game").With("game", cfg.gameID),
		players:   make(map[string]*GamePlayer),
		positions: positions,
		pots:      NewPotManager(),
		deck:      poker.NewDeck(cfg.rng),
		phase:     Waiting,
	}, nil
}

// AddPlayer seats a player. Only allowed while Waiting.
func (g *GameState) AddPlayer(id, name string, chips uint) bool {
	switch {
	case g.phase != Waiting:
		g.logger.Debug("rejected join", "player", id, "reason", "hand in progress")
		return false
	case id == "":
		return false
	case g.players[id] != nil:
		g.logger.Debug("rejected join", "player", id, "reason", "already seated")
		return false
	case len(g.players) >= g.cfg.maxPlayers:
		g.logger.Debug("rejected join", "player", id, "reason", "table full")
		return false
	}

	p := &GamePlayer{ID: id, Name: name, Chips: chips}
	p.resetForHand()
	g.players[id] = p
	g.seating = append(g.seating, id)
	g.logger.Debug("player joined", "player", id, "chips", chips)
	return true
}

// RemovePlayer unseats a player at any time. Mid-hand the player's chips
// already in the pot stay there and the hand carries on without them.
func (g *GameState) RemovePlayer(id string) bool {
	p := g.players[id]
	if p == nil {
		return false
	}

	inHand := g.phase.IsBetting() && slices.Contains(g.positions.Seats(), id)
	wasCurrent := inHand && g.currentPlayer == id
	order := g.actingOrder()

	if inHand && p.InHand() {
		g.record(KindLeave, id, Fold, 0)
	}
	g.positions.RemovePlayer(id)
	delete(g.players, id)
	g.seating = slices.DeleteFunc(g.seating, func(s string) bool { return s == id })
	g.logger.Debug("player left", "player", id, "chips", p.Chips, "mid_hand", inHand)

	if !inHand {
		return true
	}
	switch {
	case g.liveCount() <= 1:
		g.finishUncontested()
	case wasCurrent:
		g.currentPlayer = ""
		if g.roundComplete() {
			g.nextPhase()
		} else if next := g.nextToAct(order, id); next != "" {
			g.setCurrent(next)
		} else {
			g.nextPhase()
		}
	}
	return true
}

// SetPlayerReady marks a player ready (or not) for the next hand.
func (g *GameState) SetPlayerReady(id string, ready bool) bool {
	p := g.players[id]
	if p == nil {
		return false
	}
	p.IsReady = ready
	return true
}

// UpdateBlinds changes the blinds between hands.
func (g *GameState) UpdateBlinds(small, big uint) error {
	if g.phase.IsBetting() {
		return ErrHandInProgress
	}
	return g.positions.UpdateBlindAmounts(small, big)
}

// CanStartGame reports whether a hand can be dealt: the table is Waiting
// and at least two ready players have chips.
func (g *GameState) CanStartGame() bool {
	return g.phase == Waiting && len(g.participants()) >= 2
}

func (g *GameState) participants() []string {
	var ids []string
	for _, id := range g.seating {
		if p := g.players[id]; p.IsReady && p.Chips > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// StartNewHand rotates the button, shuffles, deals hole cards, posts the
// blinds and gives the first player their turn.
func (g *GameState) StartNewHand() bool {
	if !g.CanStartGame() {
		return false
	}
	ids := g.participants()

	for _, p := range g.players {
		p.resetForHand()
		if !slices.Contains(ids, p.ID) {
			p.Status = StatusSittingOut
		}
	}

	if err := g.seatHand(ids); err != nil {
		g.logger.Error("failed to seat hand", "err", err)
		return false
	}

	g.pots.Reset()
	g.deck.Reset()
	g.deck.Shuffle()
	g.community = nil
	g.history = nil
	g.result = nil
	g.currentPlayer = ""
	g.handNumber++
	g.phase = PreFlop

	order := g.positions.BettingOrder()
	for range 2 {
		for _, id := range order {
			card, ok := g.deck.Deal()
			if !ok {
				g.logger.Error("deck exhausted dealing hole cards", "hand", g.handNumber)
				g.Reset()
				return false
			}
			g.players[id].HoleCards = append(g.players[id].HoleCards, card)
		}
	}

	blinds := g.positions.Blinds()
	g.forceBet(g.players[g.positions.SmallBlindPlayer()], blinds.Small, KindSmallBlind)
	g.forceBet(g.players[g.positions.BigBlindPlayer()], blinds.Big, KindBigBlind)

	g.logger.Debug("hand started",
		"hand", g.handNumber,
		"dealer", g.positions.Dealer(),
		"players", len(ids))

	g.advance(g.actingOrder(), "")
	return true
}

// seatHand seeds the position manager for the next hand. With the same
// players as last hand the button moves one seat; otherwise it goes to the
// first participant seated after the previous dealer.
func (g *GameState) seatHand(ids []string) error {
	if g.handNumber > 0 && slices.Equal(g.positions.Seats(), ids) {
		g.positions.NextHand()
		g.prevDealer = g.positions.Dealer()
		return nil
	}

	dealer := 0
	if prev := slices.Index(g.seating, g.prevDealer); prev >= 0 {
		for k := 1; k <= len(g.seating); k++ {
			if i := slices.Index(ids, g.seating[(prev+k)%len(g.seating)]); i >= 0 {
				dealer = i
				break
			}
		}
	} else if i := slices.Index(ids, g.positions.Dealer()); i >= 0 {
		// previous dealer left; the button already passed to this seat
		dealer = i
	}

	if err := g.positions.SetPlayers(ids, dealer); err != nil {
		return err
	}
	g.prevDealer = g.positions.Dealer()
	return nil
}

// Reset returns the table to Waiting. A hand in progress is abandoned and
// every seated player gets back what they put in. Chips left behind by
// players who quit the hand are shared among the seated contributors.
func (g *GameState) Reset() {
	if g.phase.IsBetting() {
		g.refundContributions()
	}
	for _, p := range g.players {
		p.resetForHand()
	}
	g.pots.Reset()
	g.community = nil
	g.history = nil
	g.currentPlayer = ""
	g.result = nil
	g.phase = Waiting
	g.logger.Debug("table reset")
}

// refundContributions returns every committed chip to a seated player.
// Dead money from departed players is split evenly among seated players
// who contributed, or all seated players if none did, with odd chips going
// one at a time in seating order.
func (g *GameState) refundContributions() {
	var (
		dead       = g.pots.Total()
		recipients []string
	)
	for _, id := range g.seating {
		contributed := g.pots.Contribution(id)
		if contributed == 0 {
			continue
		}
		g.players[id].Chips += contributed
		dead -= contributed
		recipients = append(recipients, id)
	}
	if dead == 0 {
		return
	}
	if len(recipients) == 0 {
		recipients = g.seating
	}
	if len(recipients) == 0 {
		g.logger.Warn("dead money with no seated players", "chips", dead)
		return
	}
	share := dead / uint(len(recipients))
	remainder := dead % uint(len(recipients))
	for i, id := range recipients {
		g.players[id].Chips += share
		if uint(i) < remainder {
			g.players[id].Chips++
		}
	}
	g.logger.Debug("dead money returned", "chips", dead, "players", recipients)
}

// TotalChips returns every chip on the table: stacks plus chips committed
// to the current hand.
func (g *GameState) TotalChips() uint {
	var total uint
	for _, p := range g.players {
		total += p.Chips
	}
	if g.phase.IsBetting() {
		total += g.pots.Total()
	}
	return total
}

func (g *GameState) forceBet(p *GamePlayer, amount uint, kind RecordKind) {
	paid := g.commit(p, amount)
	g.record(kind, p.ID, Call, paid)
}

// commit moves up to amount chips from the player's stack into the pot.
func (g *GameState) commit(p *GamePlayer, amount uint) uint {
	amount = min(amount, p.Chips)
	p.Chips -= amount
	p.CurrentBet += amount
	p.TotalBet += amount
	g.pots.AddBet(p.ID, amount)
	if p.Chips == 0 && p.Status == StatusActive {
		p.Status = StatusAllIn
	}
	return amount
}

func (g *GameState) record(kind RecordKind, id string, action Action, amount uint) {
	g.history = append(g.history, ActionRecord{
		Kind:     kind,
		PlayerID: id,
		Action:   action,
		Amount:   amount,
		Phase:    g.phase,
		At:       g.clock.Now(),
	})
}

func (g *GameState) setCurrent(id string) {
	g.currentPlayer = id
	deadline := g.clock.Now().Add(g.cfg.actionTimeout)
	g.players[id].TimeoutAt = &deadline
}

// inHandIDs returns the players still contesting the pot, in post-flop
// betting order.
func (g *GameState) inHandIDs() []string {
	var ids []string
	for _, id := range g.positions.BettingOrder() {
		if p := g.players[id]; p != nil && p.InHand() {
			ids = append(ids, id)
		}
	}
	return ids
}

func (g *GameState) liveCount() int {
	return len(g.inHandIDs())
}

func (g *GameState) activePlayers() []*GamePlayer {
	var out []*GamePlayer
	for _, id := range g.positions.Seats() {
		if p := g.players[id]; p != nil && p.Status == StatusActive {
			out = append(out, p)
		}
	}
	return out
}
