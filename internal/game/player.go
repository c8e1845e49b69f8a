package game

import (
	"time"

	"github.com/lox/holdemtable/poker"
)

// GamePlayer is a seated player. It is owned by GameState; callers receive
// copies through Player, Players and snapshots.
type GamePlayer struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Chips      uint         `json:"chips"`
	Status     PlayerStatus `json:"status"`
	HoleCards  []poker.Card `json:"holeCards"`
	CurrentBet uint         `json:"currentBet"`
	TotalBet   uint         `json:"totalBet"`
	HasActed   bool         `json:"hasActed"`
	IsReady    bool         `json:"isReady"`
	LastAction *Action      `json:"lastAction,omitempty"`
	TimeoutAt  *time.Time   `json:"timeoutAt,omitempty"`
}

// InHand reports whether the player still contests the pot.
func (p *GamePlayer) InHand() bool {
	return p.Status == StatusActive || p.Status == StatusAllIn
}

func (p *GamePlayer) resetForHand() {
	p.HoleCards = nil
	p.CurrentBet = 0
	p.TotalBet = 0
	p.HasActed = false
	p.LastAction = nil
	p.TimeoutAt = nil
	if p.Chips == 0 {
		p.Status = StatusSittingOut
	} else {
		p.Status = StatusActive
	}
}

func (p *GamePlayer) clone() GamePlayer {
	c := *p
	if p.HoleCards != nil {
		c.HoleCards = append([]poker.Card(nil), p.HoleCards...)
	}
	if p.LastAction != nil {
		a := *p.LastAction
		c.LastAction = &a
	}
	if p.TimeoutAt != nil {
		t := *p.TimeoutAt
		c.TimeoutAt = &t
	}
	return c
}
