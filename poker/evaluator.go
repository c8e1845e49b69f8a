package poker

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
	"strings"
)

// ErrInvalidHandSize is returned when EvaluateHand is not given exactly seven cards.
var ErrInvalidHandSize = errors.New("hand evaluation requires exactly 7 cards")

// HandType enumerates the categories of poker hands ordered from weakest to strongest.
type HandType uint8

const (
	HighCard HandType = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var handTypeNames = [...]string{
	"High Card",
	"One Pair",
	"Two Pair",
	"Three of a Kind",
	"Straight",
	"Flush",
	"Full House",
	"Four of a Kind",
	"Straight Flush",
}

// String returns a human-readable hand description.
func (t HandType) String() string {
	if int(t) >= len(handTypeNames) {
		return "Unknown"
	}
	return handTypeNames[t]
}

// MarshalText encodes the hand type as snake case, e.g. "full_house".
func (t HandType) MarshalText() ([]byte, error) {
	return []byte(strings.ReplaceAll(strings.ToLower(t.String()), " ", "_")), nil
}

// HandResult is the evaluation of a best five-card hand.
//
// PrimaryRank is the rank that defines the category: the quad, trips or pair
// rank, or the high card of a straight or flush. SecondaryRank is set only for
// full houses (the pair) and two pair (the lower pair). Kickers hold the
// remaining ranks in descending order.
type HandResult struct {
	Type          HandType `json:"type"`
	PrimaryRank   Rank     `json:"primaryRank"`
	SecondaryRank *Rank    `json:"secondaryRank,omitempty"`
	Kickers       []Rank   `json:"kickers"`
	Cards         [5]Card  `json:"cards"`
}

func (h HandResult) String() string {
	switch h.Type {
	case FullHouse:
		return fmt.Sprintf("%s, %s over %s", h.Type, h.PrimaryRank, h.secondary())
	case TwoPair:
		return fmt.Sprintf("%s, %s and %s", h.Type, h.PrimaryRank, h.secondary())
	default:
		return fmt.Sprintf("%s, %s high", h.Type, h.PrimaryRank)
	}
}

func (h HandResult) secondary() Rank {
	if h.SecondaryRank == nil {
		return 0
	}
	return *h.SecondaryRank
}

// EvaluateHand finds the best five-card hand out of exactly seven cards by
// scoring each of the 21 five-card subsets.
func EvaluateHand(cards []Card) (HandResult, error) {
	if len(cards) != 7 {
		return HandResult{}, fmt.Errorf("%w: got %d", ErrInvalidHandSize, len(cards))
	}
	for _, c := range cards {
		if !c.Valid() {
			return HandResult{}, fmt.Errorf("%w: %v", ErrInvalidCard, c)
		}
	}

	var best HandResult
	first := true
	for a := 0; a < 3; a++ {
		for b := a + 1; b < 4; b++ {
			for c := b + 1; c < 5; c++ {
				for d := c + 1; d < 6; d++ {
					for e := d + 1; e < 7; e++ {
						hand := Evaluate5Cards([5]Card{cards[a], cards[b], cards[c], cards[d], cards[e]})
						if first || CompareHands(hand, best) > 0 {
							best = hand
							first = false
						}
					}
				}
			}
		}
	}
	return best, nil
}

// RankCounts returns how many cards of each rank are present, indexed by rank.
func RankCounts(cards []Card) [Ace + 1]uint8 {
	var counts [Ace + 1]uint8
	for _, c := range cards {
		if c.Rank.Valid() {
			counts[c.Rank]++
		}
	}
	return counts
}

const wheelMask = 1<<Ace | 1<<Five | 1<<Four | 1<<Three | 1<<Two

// group is a run of cards sharing a rank.
type group struct {
	rank  Rank
	count uint8
}

// Evaluate5Cards categorises exactly five cards.
func Evaluate5Cards(cards [5]Card) HandResult {
	counts := RankCounts(cards[:])

	var rankMask uint16
	flush := true
	for _, c := range cards {
		rankMask |= 1 << c.Rank
		if c.Suit != cards[0].Suit {
			flush = false
		}
	}

	// Groups ordered by multiplicity, then rank, both descending.
	groups := make([]group, 0, 5)
	for r := Ace; r >= Two; r-- {
		if counts[r] > 0 {
			groups = append(groups, group{rank: r, count: counts[r]})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].count > groups[j].count
	})

	result := HandResult{Cards: orderCards(cards, groups)}

	straightHigh := straightHighRank(rankMask)
	switch {
	case straightHigh > 0 && flush:
		result.Type = StraightFlush
		result.PrimaryRank = straightHigh
	case groups[0].count == 4:
		result.Type = FourOfAKind
		result.PrimaryRank = groups[0].rank
		result.Kickers = kickers(groups[1:])
	case groups[0].count == 3 && groups[1].count == 2:
		result.Type = FullHouse
		result.PrimaryRank = groups[0].rank
		result.SecondaryRank = rankPtr(groups[1].rank)
	case flush:
		result.Type = Flush
		result.PrimaryRank = groups[0].rank
		result.Kickers = kickers(groups[1:])
	case straightHigh > 0:
		result.Type = Straight
		result.PrimaryRank = straightHigh
	case groups[0].count == 3:
		result.Type = ThreeOfAKind
		result.PrimaryRank = groups[0].rank
		result.Kickers = kickers(groups[1:])
	case groups[0].count == 2 && groups[1].count == 2:
		result.Type = TwoPair
		result.PrimaryRank = groups[0].rank
		result.SecondaryRank = rankPtr(groups[1].rank)
		result.Kickers = kickers(groups[2:])
	case groups[0].count == 2:
		result.Type = OnePair
		result.PrimaryRank = groups[0].rank
		result.Kickers = kickers(groups[1:])
	default:
		result.Type = HighCard
		result.PrimaryRank = groups[0].rank
		result.Kickers = kickers(groups[1:])
	}

	if result.Kickers == nil {
		result.Kickers = []Rank{}
	}
	return result
}

// straightHighRank returns the top rank of a five-distinct-rank straight, or 0.
// The wheel (A-2-3-4-5) plays as a five-high straight.
func straightHighRank(rankMask uint16) Rank {
	if bits.OnesCount16(rankMask) != 5 {
		return 0
	}
	if rankMask == wheelMask {
		return Five
	}
	high := bits.Len16(rankMask) - 1
	low := bits.TrailingZeros16(rankMask)
	if high-low == 4 {
		return Rank(high)
	}
	return 0
}

func kickers(groups []group) []Rank {
	out := make([]Rank, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.rank)
	}
	return out
}

func rankPtr(r Rank) *Rank {
	return &r
}

// orderCards arranges the five cards so the defining groups come first.
func orderCards(cards [5]Card, groups []group) [5]Card {
	var out [5]Card
	i := 0
	for _, g := range groups {
		for _, c := range cards {
			if c.Rank == g.rank {
				out[i] = c
				i++
			}
		}
	}
	return out
}

// CompareHands orders two evaluated hands. It returns a positive number when a
// beats b, a negative number when b beats a, and 0 for a split.
func CompareHands(a, b HandResult) int {
	if a.Type != b.Type {
		return cmpRank(Rank(a.Type), Rank(b.Type))
	}
	if a.PrimaryRank != b.PrimaryRank {
		return cmpRank(a.PrimaryRank, b.PrimaryRank)
	}
	if a.SecondaryRank != nil && b.SecondaryRank != nil && *a.SecondaryRank != *b.SecondaryRank {
		return cmpRank(*a.SecondaryRank, *b.SecondaryRank)
	}
	n := max(len(a.Kickers), len(b.Kickers))
	for i := range n {
		var ka, kb Rank
		if i < len(a.Kickers) {
			ka = a.Kickers[i]
		}
		if i < len(b.Kickers) {
			kb = b.Kickers[i]
		}
		if ka != kb {
			return cmpRank(ka, kb)
		}
	}
	return 0
}

func cmpRank(a, b Rank) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}
