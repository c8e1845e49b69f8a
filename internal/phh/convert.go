package phh

import (
	"errors"
	"fmt"

	"github.com/lox/holdemtable/internal/game"
	"github.com/lox/holdemtable/poker"
)

// ErrHandNotFinished is returned when converting a hand that has not settled.
var ErrHandNotFinished = errors.New("phh: hand is not finished")

// FromHand builds a hand history from the unredacted snapshot of a finished
// hand and its result.
func FromHand(table string, s game.GameSnapshot, res *game.GameResult) (*HandHistory, error) {
	if res == nil || s.Phase != game.Finished {
		return nil, ErrHandNotFinished
	}
	order := seatOrder(s.Positions)
	if len(order) < 2 {
		return nil, fmt.Errorf("phh: hand %d has %d seats", s.HandNumber, len(order))
	}

	players := make(map[string]game.GamePlayer, len(s.Players))
	for _, p := range s.Players {
		players[p.ID] = p
	}
	won := make(map[string]uint, len(res.Winners))
	for _, w := range res.Winners {
		won[w.PlayerID] += w.Amount
	}

	n := len(order)
	hh := &HandHistory{
		Variant:           "NT",
		Table:             table,
		SeatCount:         n,
		Seats:             make([]int, n),
		Antes:             make([]uint, n),
		BlindsOrStraddles: make([]uint, n),
		MinBet:            s.Blinds.Big,
		StartingStacks:    make([]uint, n),
		FinishingStacks:   make([]uint, n),
		Winnings:          make([]uint, n),
		Players:           make([]string, n),
		HandID:            fmt.Sprintf("%s-%05d", s.GameID, s.HandNumber),
	}
	hh.BlindsOrStraddles[0] = s.Blinds.Small
	hh.BlindsOrStraddles[1] = s.Blinds.Big

	seat := make(map[string]int, n)
	for i, id := range order {
		seat[id] = i
		p := players[id]
		hh.Seats[i] = i + 1
		hh.Players[i] = p.Name
		hh.FinishingStacks[i] = p.Chips
		hh.Winnings[i] = won[id]
		hh.StartingStacks[i] = p.Chips + p.TotalBet - won[id]
		if len(p.HoleCards) > 0 {
			hh.Actions = append(hh.Actions, fmt.Sprintf("d dh p%d %s", i+1, FormatCards(p.HoleCards)))
		}
	}

	b := &boardDealer{board: res.Board}
	phase := game.PreFlop
	streetBet := make(map[string]uint)
	var highest uint
	for _, rec := range s.ActionHistory {
		if rec.Phase != phase && rec.Phase.IsBetting() {
			for ph := phase + 1; ph <= rec.Phase; ph++ {
				hh.Actions = b.dealTo(hh.Actions, boardSize(ph))
			}
			phase = rec.Phase
			clear(streetBet)
			highest = 0
		}

		i, seated := seat[rec.PlayerID]
		switch rec.Kind {
		case game.KindSmallBlind, game.KindBigBlind:
			streetBet[rec.PlayerID] += rec.Amount
			highest = max(highest, streetBet[rec.PlayerID])
			continue
		case game.KindTimeout, game.KindLeave:
			if seated {
				hh.Actions = append(hh.Actions, FormatAction(i, game.Fold, 0, false))
			} else {
				hh.Actions = append(hh.Actions, fmt.Sprintf("# %s left", rec.PlayerID))
			}
			continue
		}
		if !seated {
			continue
		}
		streetBet[rec.PlayerID] += rec.Amount
		bet := streetBet[rec.PlayerID]
		raised := bet > highest
		highest = max(highest, bet)
		hh.Actions = append(hh.Actions, FormatAction(i, rec.Action, bet, raised))
	}
	for _, size := range []int{3, 4, 5} {
		hh.Actions = b.dealTo(hh.Actions, size)
	}

	if res.Showdown {
		for i, id := range order {
			if _, shown := res.Hands[id]; shown {
				hh.Actions = append(hh.Actions, fmt.Sprintf("p%d sm %s", i+1, FormatCards(players[id].HoleCards)))
			}
		}
	}

	if len(s.ActionHistory) > 0 {
		at := s.ActionHistory[len(s.ActionHistory)-1].At.UTC()
		hh.Time = at.Format("15:04:05")
		hh.TimeZone = "UTC"
		hh.Day, hh.Month, hh.Year = at.Day(), int(at.Month()), at.Year()
	}
	return hh, nil
}

// seatOrder lists the seated players starting from the small blind.
func seatOrder(positions []game.PlayerPosition) []string {
	start := -1
	for i, p := range positions {
		if p.IsSmallBlind {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}
	order := make([]string, 0, len(positions))
	for i := range positions {
		order = append(order, positions[(start+i)%len(positions)].PlayerID)
	}
	return order
}

func boardSize(ph game.Phase) int {
	switch ph {
	case game.Flop:
		return 3
	case game.Turn:
		return 4
	case game.River:
		return 5
	}
	return 0
}

type boardDealer struct {
	board []poker.Card
	dealt int
}

func (b *boardDealer) dealTo(actions []string, n int) []string {
	if n <= b.dealt || n > len(b.board) {
		return actions
	}
	actions = append(actions, "d db "+FormatCards(b.board[b.dealt:n]))
	b.dealt = n
	return actions
}
