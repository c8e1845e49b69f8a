package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/holdemtable/poker"
)

// BigPotBB is the pot size, in big blinds, at which a hand counts as a big pot.
const BigPotBB = 50

// HandResult summarises one finished hand at a simulated table.
type HandResult struct {
	PotChips    uint            // Chips awarded at the end of the hand
	BigBlind    uint            // Big blind in effect for the hand
	Showdown    bool            // Did the hand reach showdown?
	Street      string          // Furthest street dealt (pre_flop, flop, turn, river)
	Pots        int             // Main pot plus side pots contested by two or more players
	Winners     int             // Distinct players paid
	Split       bool            // Was any single pot shared between tied winners?
	Timeouts    int             // Players folded by the action clock
	Actions     int             // Voluntary actions taken
	WinningHand *poker.HandType // Best hand at showdown, nil otherwise
}

// Statistics aggregates results over many hands. Pot sizes are tracked in
// big blinds so tables with different stakes can be combined.
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64   // Sum of squares for variance calculation
	Values []float64 // Pot sizes in bb for median/percentile calculation

	Showdowns   int
	Uncontested int
	SplitPots   int // Hands where a pot was shared between tied winners
	SidePots    int // Hands settled with at least one side pot
	Timeouts    int
	Actions     int

	Streets     map[string]int
	WinningHand [poker.StraightFlush + 1]int

	MaxPotChips uint
	MaxPotBB    float64
	BigPots     int
}

// Mean returns the mean pot size in big blinds.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance of pot sizes.
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation of pot sizes.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// ShowdownRate returns the fraction of hands that reached showdown.
func (s *Statistics) ShowdownRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Showdowns) / float64(s.Hands)
}

// Add incorporates a new hand result into the statistics
func (s *Statistics) Add(result HandResult) {
	var potBB float64
	if result.BigBlind > 0 {
		potBB = float64(result.PotChips) / float64(result.BigBlind)
	}

	s.Hands++
	s.SumBB += potBB
	s.SumBB2 += potBB * potBB
	s.Values = append(s.Values, potBB)

	if result.Showdown {
		s.Showdowns++
	} else {
		s.Uncontested++
	}
	if result.Split {
		s.SplitPots++
	}
	if result.Pots > 1 {
		s.SidePots++
	}
	s.Timeouts += result.Timeouts
	s.Actions += result.Actions

	if s.Streets == nil {
		s.Streets = make(map[string]int)
	}
	s.Streets[result.Street]++

	if result.WinningHand != nil && *result.WinningHand <= poker.StraightFlush {
		s.WinningHand[*result.WinningHand]++
	}

	if result.PotChips > s.MaxPotChips {
		s.MaxPotChips = result.PotChips
		s.MaxPotBB = potBB
	}
	if potBB >= BigPotBB {
		s.BigPots++
	}
}

// Merge folds another set of statistics into s.
func (s *Statistics) Merge(other *Statistics) {
	s.Hands += other.Hands
	s.SumBB += other.SumBB
	s.SumBB2 += other.SumBB2
	s.Values = append(s.Values, other.Values...)
	s.Showdowns += other.Showdowns
	s.Uncontested += other.Uncontested
	s.SplitPots += other.SplitPots
	s.SidePots += other.SidePots
	s.Timeouts += other.Timeouts
	s.Actions += other.Actions
	if len(other.Streets) > 0 && s.Streets == nil {
		s.Streets = make(map[string]int, len(other.Streets))
	}
	for street, n := range other.Streets {
		s.Streets[street] += n
	}
	for i, n := range other.WinningHand {
		s.WinningHand[i] += n
	}
	if other.MaxPotChips > s.MaxPotChips {
		s.MaxPotChips = other.MaxPotChips
		s.MaxPotBB = other.MaxPotBB
	}
	s.BigPots += other.BigPots
}

// Median returns the median pot size in big blinds.
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate performs consistency checks on the aggregated counters.
func (s *Statistics) Validate() error {
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}

	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)",
			len(s.Values), s.Hands)
	}

	if s.Showdowns+s.Uncontested != s.Hands {
		return fmt.Errorf("showdowns (%d) + uncontested (%d) does not match hands (%d)",
			s.Showdowns, s.Uncontested, s.Hands)
	}

	streets := 0
	for _, n := range s.Streets {
		streets += n
	}
	if streets != s.Hands {
		return fmt.Errorf("street total (%d) does not match hands (%d)", streets, s.Hands)
	}

	wins := 0
	for _, n := range s.WinningHand {
		wins += n
	}
	if wins > s.Showdowns {
		return fmt.Errorf("winning hands (%d) exceed showdowns (%d)", wins, s.Showdowns)
	}

	return nil
}
