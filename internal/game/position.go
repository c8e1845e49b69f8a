package game

import (
	"fmt"
	"slices"
)

// Blinds holds the forced bet amounts.
type Blinds struct {
	Small uint `json:"small"`
	Big   uint `json:"big"`
}

// PlayerPosition is a derived view of one seat.
type PlayerPosition struct {
	PlayerID     string `json:"playerId"`
	SeatIndex    int    `json:"seatIndex"`
	IsDealer     bool   `json:"isDealer"`
	IsSmallBlind bool   `json:"isSmallBlind"`
	IsBigBlind   bool   `json:"isBigBlind"`
}

// PositionManager tracks seat order and derives the dealer, blinds and
// betting order from it. It knows nothing about chips.
type PositionManager struct {
	seats  []string
	dealer int
	blinds Blinds
}

// NewPositionManager returns an empty manager with the given blinds.
func NewPositionManager(small, big uint) (*PositionManager, error) {
	pm := &PositionManager{}
	if err := pm.UpdateBlindAmounts(small, big); err != nil {
		return nil, err
	}
	return pm, nil
}

// SetPlayers replaces the seat order. The dealer index is clamped into range.
func (pm *PositionManager) SetPlayers(ids []string, dealer int) error {
	if len(ids) < 2 {
		return fmt.Errorf("%w: got %d", ErrNotEnoughSeats, len(ids))
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateSeat, id)
		}
		seen[id] = struct{}{}
	}
	pm.seats = slices.Clone(ids)
	pm.dealer = min(max(dealer, 0), len(ids)-1)
	return nil
}

// NextHand moves the dealer one seat clockwise.
func (pm *PositionManager) NextHand() {
	if len(pm.seats) == 0 {
		return
	}
	pm.dealer = (pm.dealer + 1) % len(pm.seats)
}

// Seats returns a copy of the seat order.
func (pm *PositionManager) Seats() []string {
	return slices.Clone(pm.seats)
}

// DealerIndex returns the dealer's seat index.
func (pm *PositionManager) DealerIndex() int {
	return pm.dealer
}

func (pm *PositionManager) smallBlindIndex() int {
	if len(pm.seats) < 3 {
		return pm.dealer
	}
	return (pm.dealer + 1) % len(pm.seats)
}

func (pm *PositionManager) bigBlindIndex() int {
	if len(pm.seats) == 0 {
		return 0
	}
	return (pm.smallBlindIndex() + 1) % len(pm.seats)
}

func (pm *PositionManager) seatAt(i int) string {
	if len(pm.seats) == 0 {
		return ""
	}
	return pm.seats[i]
}

// Dealer returns the dealer's player id, or "" with no seats.
func (pm *PositionManager) Dealer() string {
	return pm.seatAt(pm.dealer)
}

// SmallBlindPlayer returns the small blind's player id.
func (pm *PositionManager) SmallBlindPlayer() string {
	return pm.seatAt(pm.smallBlindIndex())
}

// BigBlindPlayer returns the big blind's player id.
func (pm *PositionManager) BigBlindPlayer() string {
	return pm.seatAt(pm.bigBlindIndex())
}

// BettingOrder returns the seats clockwise from the small blind, skipping
// excluded ids. Used for every post-flop round.
func (pm *PositionManager) BettingOrder(exclude ...string) []string {
	return pm.orderFrom(pm.smallBlindIndex(), exclude)
}

// PreflopBettingOrder returns the seats clockwise from the seat after the
// big blind, so the big blind acts last.
func (pm *PositionManager) PreflopBettingOrder(exclude ...string) []string {
	if len(pm.seats) == 0 {
		return nil
	}
	return pm.orderFrom((pm.bigBlindIndex()+1)%len(pm.seats), exclude)
}

func (pm *PositionManager) orderFrom(start int, exclude []string) []string {
	n := len(pm.seats)
	order := make([]string, 0, n)
	for i := range n {
		id := pm.seats[(start+i)%n]
		if slices.Contains(exclude, id) {
			continue
		}
		order = append(order, id)
	}
	return order
}

// AddPlayer inserts a seat at index (clamped to the seat count). Inserting
// at or before the dealer keeps the same player on the button.
func (pm *PositionManager) AddPlayer(id string, index int) error {
	if slices.Contains(pm.seats, id) {
		return fmt.Errorf("%w: %s", ErrDuplicateSeat, id)
	}
	index = min(max(index, 0), len(pm.seats))
	if len(pm.seats) > 0 && index <= pm.dealer {
		pm.dealer++
	}
	pm.seats = slices.Insert(pm.seats, index, id)
	return nil
}

// RemovePlayer removes a seat. Removing the dealer passes the button to
// the next occupant.
func (pm *PositionManager) RemovePlayer(id string) bool {
	idx := slices.Index(pm.seats, id)
	if idx < 0 {
		return false
	}
	pm.seats = slices.Delete(pm.seats, idx, idx+1)
	switch {
	case len(pm.seats) == 0:
		pm.dealer = 0
	case idx < pm.dealer:
		pm.dealer--
	case pm.dealer >= len(pm.seats):
		pm.dealer = 0
	}
	return true
}

// Blinds returns the current blind amounts.
func (pm *PositionManager) Blinds() Blinds {
	return pm.blinds
}

// UpdateBlindAmounts sets new blinds. Both must be positive and the big
// blind must exceed the small blind.
func (pm *PositionManager) UpdateBlindAmounts(small, big uint) error {
	if small == 0 || big == 0 {
		return fmt.Errorf("%w: blinds must be positive (small=%d big=%d)", ErrInvalidBlinds, small, big)
	}
	if big <= small {
		return fmt.Errorf("%w: big blind %d must exceed small blind %d", ErrInvalidBlinds, big, small)
	}
	pm.blinds = Blinds{Small: small, Big: big}
	return nil
}

// Validate checks the manager's internal consistency.
func (pm *PositionManager) Validate() error {
	if len(pm.seats) == 1 {
		return fmt.Errorf("%w: got 1", ErrNotEnoughSeats)
	}
	if len(pm.seats) > 0 && (pm.dealer < 0 || pm.dealer >= len(pm.seats)) {
		return fmt.Errorf("%w: %d of %d", ErrDealerOutOfRange, pm.dealer, len(pm.seats))
	}
	seen := make(map[string]struct{}, len(pm.seats))
	for _, id := range pm.seats {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateSeat, id)
		}
		seen[id] = struct{}{}
	}
	if pm.blinds.Small == 0 || pm.blinds.Big <= pm.blinds.Small {
		return fmt.Errorf("%w: small=%d big=%d", ErrInvalidBlinds, pm.blinds.Small, pm.blinds.Big)
	}
	return nil
}

// Positions returns a view of every seat with its role flags.
func (pm *PositionManager) Positions() []PlayerPosition {
	if len(pm.seats) == 0 {
		return nil
	}
	sb, bb := pm.smallBlindIndex(), pm.bigBlindIndex()
	out := make([]PlayerPosition, len(pm.seats))
	for i, id := range pm.seats {
		out[i] = PlayerPosition{
			PlayerID:     id,
			SeatIndex:    i,
			IsDealer:     i == pm.dealer,
			IsSmallBlind: i == sb,
			IsBigBlind:   i == bb,
		}
	}
	return out
}
