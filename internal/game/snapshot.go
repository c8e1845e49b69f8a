package game

import (
	"maps"
	"slices"

	"github.com/lox/holdemtable/poker"
)

// GameSnapshot is a point-in-time copy of the table, safe to hand to other
// goroutines or serialize.
type GameSnapshot struct {
	GameID           string           `json:"gameId"`
	HandNumber       int              `json:"handNumber"`
	Phase            Phase            `json:"phase"`
	Players          []GamePlayer     `json:"players"`
	CommunityCards   []poker.Card     `json:"communityCards"`
	Pots             []Pot            `json:"pots"`
	CurrentPlayerID  string           `json:"currentPlayerId,omitempty"`
	ActionHistory    []ActionRecord   `json:"actionHistory"`
	IsHandInProgress bool             `json:"isHandInProgress"`
	Positions        []PlayerPosition `json:"positions"`
	Blinds           Blinds           `json:"blinds"`
	CurrentBet       uint             `json:"currentBet"`
}

// Snapshot returns the full table state, including every hole card.
func (g *GameState) Snapshot() GameSnapshot {
	s := GameSnapshot{
		GameID:           g.id,
		HandNumber:       g.handNumber,
		Phase:            g.phase,
		Players:          g.Players(),
		CommunityCards:   slices.Clone(g.community),
		CurrentPlayerID:  g.currentPlayer,
		ActionHistory:    slices.Clone(g.history),
		IsHandInProgress: g.phase.IsBetting(),
		Blinds:           g.positions.Blinds(),
	}
	if g.phase.IsBetting() {
		s.Pots = g.pots.PreviewPots(g.inHandIDs())
		s.Positions = g.positions.Positions()
		s.CurrentBet = g.pots.HighestBet()
	} else if g.result != nil {
		s.Pots = clonePots(g.result.Pots)
		s.Positions = g.positions.Positions()
	}
	return s
}

// SnapshotFor returns the table as seen by one player: other players' hole
// cards are hidden unless they were shown at showdown.
func (g *GameState) SnapshotFor(viewerID string) GameSnapshot {
	s := g.Snapshot()
	for i := range s.Players {
		p := &s.Players[i]
		if p.ID == viewerID || p.HoleCards == nil {
			continue
		}
		if g.phase == Finished && g.result != nil && g.result.Showdown {
			if _, shown := g.result.Hands[p.ID]; shown {
				continue
			}
		}
		p.HoleCards = nil
	}
	return s
}

// Result returns the settlement of the last finished hand, or nil.
func (g *GameState) Result() *GameResult {
	if g.result == nil {
		return nil
	}
	r := *g.result
	r.Winners = slices.Clone(g.result.Winners)
	r.Pots = clonePots(g.result.Pots)
	r.Board = slices.Clone(g.result.Board)
	r.Hands = maps.Clone(g.result.Hands)
	return &r
}

// ID returns the game id.
func (g *GameState) ID() string {
	return g.id
}

// Phase returns the current phase.
func (g *GameState) Phase() Phase {
	return g.phase
}

// HandNumber returns how many hands have been dealt.
func (g *GameState) HandNumber() int {
	return g.handNumber
}

// CurrentPlayerID returns whose turn it is, or "" outside a betting round.
func (g *GameState) CurrentPlayerID() string {
	return g.currentPlayer
}

// CommunityCards returns the board.
func (g *GameState) CommunityCards() []poker.Card {
	return slices.Clone(g.community)
}

// Player returns a copy of one player.
func (g *GameState) Player(id string) (GamePlayer, bool) {
	p := g.players[id]
	if p == nil {
		return GamePlayer{}, false
	}
	return p.clone(), true
}

// Players returns copies of every seated player in seat order.
func (g *GameState) Players() []GamePlayer {
	out := make([]GamePlayer, 0, len(g.seating))
	for _, id := range g.seating {
		out = append(out, g.players[id].clone())
	}
	return out
}

// Positions returns the dealer and blind seats for the current hand.
func (g *GameState) Positions() []PlayerPosition {
	return g.positions.Positions()
}

// History returns the action history of the current hand.
func (g *GameState) History() []ActionRecord {
	return slices.Clone(g.history)
}
