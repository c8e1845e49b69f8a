// Package display renders table snapshots, hand results and simulation
// reports for the terminal.
package display

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/lox/holdemtable/internal/game"
	"github.com/lox/holdemtable/internal/simulator"
	"github.com/lox/holdemtable/internal/statistics"
	"github.com/lox/holdemtable/poker"
)

const separator = "═══════════════════════════════════════════════"

// Renderer writes styled output to a writer.
type Renderer struct {
	w      io.Writer
	styles *Styles
}

// NewRenderer creates a renderer that writes to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w, styles: NewStyles()}
}

// Card renders a single card in its suit colour.
func (r *Renderer) Card(c poker.Card) string {
	if c.Suit.IsRed() {
		return r.styles.CardRed.Render(c.Pretty())
	}
	return r.styles.CardBlack.Render(c.Pretty())
}

// Cards renders cards as a bracketed list, e.g. "[A♠ K♥]".
func (r *Renderer) Cards(cards []poker.Card) string {
	if len(cards) == 0 {
		return "[]"
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = r.Card(c)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Snapshot writes the seats, board and pots of a table.
func (r *Renderer) Snapshot(s game.GameSnapshot) {
	fmt.Fprintln(r.w, r.styles.Header.Render(fmt.Sprintf("Hand #%d • %s", s.HandNumber, s.Phase)))
	fmt.Fprintf(r.w, "Blinds %d/%d • %d players\n", s.Blinds.Small, s.Blinds.Big, len(s.Players))

	markers := make(map[string][]string)
	for _, pos := range s.Positions {
		if pos.IsDealer {
			markers[pos.PlayerID] = append(markers[pos.PlayerID], "BTN")
		}
		if pos.IsSmallBlind {
			markers[pos.PlayerID] = append(markers[pos.PlayerID], "SB")
		}
		if pos.IsBigBlind {
			markers[pos.PlayerID] = append(markers[pos.PlayerID], "BB")
		}
	}

	for i, p := range s.Players {
		line := fmt.Sprintf("Seat %d: %s - %d", i+1, p.Name, p.Chips)
		if m := markers[p.ID]; len(m) > 0 {
			line += " " + r.styles.Label.Render(strings.Join(m, "/"))
		}
		if p.CurrentBet > 0 {
			line += fmt.Sprintf(" (bet %d)", p.CurrentBet)
		}
		if p.Status != game.StatusActive {
			line += " " + r.styles.Muted.Render(p.Status.String())
		}
		if len(p.HoleCards) > 0 {
			line += " " + r.Cards(p.HoleCards)
		}
		if p.ID == s.CurrentPlayerID {
			line += " " + r.styles.Action.Render("← to act")
		}
		fmt.Fprintln(r.w, line)
	}

	if len(s.CommunityCards) > 0 {
		fmt.Fprintf(r.w, "Board: %s\n", r.Cards(s.CommunityCards))
	}
	for _, pot := range s.Pots {
		fmt.Fprintf(r.w, "%s: %s\n", potName(pot), r.styles.Pot.Render(fmt.Sprintf("%d", pot.Amount)))
	}
}

// Result writes the outcome of a settled hand.
func (r *Renderer) Result(res *game.GameResult) {
	if res == nil {
		return
	}
	fmt.Fprintln(r.w, r.styles.Separator.Render(separator))
	fmt.Fprintf(r.w, "Hand #%d complete\n", res.HandNumber)
	if len(res.Board) > 0 {
		fmt.Fprintf(r.w, "Final Board: %s\n", r.Cards(res.Board))
	}

	if res.Showdown {
		ids := slices.Sorted(maps.Keys(res.Hands))
		for _, id := range ids {
			hand := res.Hands[id]
			fmt.Fprintf(r.w, "%s shows %s (%s)\n", id, r.Cards(hand.Cards[:]), hand)
		}
	}

	for _, w := range res.Winners {
		line := fmt.Sprintf("%s wins %d", r.styles.Winner.Render(w.PlayerID), w.Amount)
		if len(w.PotIDs) > 0 {
			line += " from " + strings.Join(w.PotIDs, ", ")
		}
		if w.Hand != nil {
			line += " with " + w.Hand.String()
		} else if !res.Showdown {
			line += " (all others folded)"
		}
		fmt.Fprintln(r.w, line)
	}
	fmt.Fprintln(r.w, r.styles.Separator.Render(separator))
}

// Report writes a per-table summary followed by the aggregate statistics.
func (r *Renderer) Report(rep *simulator.Report) {
	fmt.Fprintln(r.w, r.styles.Header.Render("Simulation results"))

	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tPOLICY\tHANDS\tSHOWDOWN\tMEAN POT (BB)\tBUSTED\tCHIP LEADER")
	for _, t := range rep.Tables {
		leader, chips := chipLeader(t.FinalChips)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f%%\t%.2f\t%d\t%s (%d)\n",
			t.Name, t.Policy, t.Hands, t.Stats.ShowdownRate()*100, t.Stats.Mean(), len(t.Busted), leader, chips)
	}
	tw.Flush()

	fmt.Fprintln(r.w)
	r.Statistics(&rep.Total)
}

// Statistics writes the pot distribution and street breakdown of a run.
func (r *Renderer) Statistics(s *statistics.Statistics) {
	fmt.Fprintln(r.w, r.styles.SubHeader.Render("=== POT SIZE ANALYSIS ==="))
	if s.Hands == 0 {
		fmt.Fprintln(r.w, r.styles.Muted.Render("No hands played"))
		return
	}
	low, high := s.ConfidenceInterval95()
	fmt.Fprintf(r.w, "Hands played: %d\n", s.Hands)
	fmt.Fprintf(r.w, "Mean: %.4f bb/hand (95%% CI [%.4f, %.4f])\n", s.Mean(), low, high)
	fmt.Fprintf(r.w, "Median: %.4f bb, Std Dev: %.4f bb\n", s.Median(), s.StdDev())
	fmt.Fprintf(r.w, "Percentiles: P5=%.2f, P25=%.2f, P75=%.2f, P95=%.2f\n",
		s.Percentile(0.05), s.Percentile(0.25), s.Percentile(0.75), s.Percentile(0.95))
	fmt.Fprintf(r.w, "Max pot observed: %d chips (%.1f bb)\n", s.MaxPotChips, s.MaxPotBB)
	fmt.Fprintf(r.w, "Big pots (>=%dbb): %d hands (%.1f%%)\n",
		statistics.BigPotBB, s.BigPots, percent(s.BigPots, s.Hands))

	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.styles.SubHeader.Render("=== HAND FLOW ==="))
	fmt.Fprintf(r.w, "Showdowns: %d (%.1f%%), uncontested: %d\n", s.Showdowns, s.ShowdownRate()*100, s.Uncontested)
	fmt.Fprintf(r.w, "Split pots: %d, side pots: %d\n", s.SplitPots, s.SidePots)
	fmt.Fprintf(r.w, "Actions: %d, timeouts: %d\n", s.Actions, s.Timeouts)
	for _, phase := range []game.Phase{game.PreFlop, game.Flop, game.Turn, game.River} {
		name := phase.String()
		fmt.Fprintf(r.w, "  ended on %-8s %d (%.1f%%)\n", name, s.Streets[name], percent(s.Streets[name], s.Hands))
	}

	if s.Showdowns == 0 {
		return
	}
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.styles.SubHeader.Render("=== WINNING HANDS ==="))
	for t := poker.StraightFlush; ; t-- {
		if n := s.WinningHand[t]; n > 0 {
			fmt.Fprintf(r.w, "  %-16s %d\n", t, n)
		}
		if t == poker.HighCard {
			break
		}
	}
}

// Error writes an error line.
func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.w, r.styles.Error.Render("Error: "+err.Error()))
}

func potName(p game.Pot) string {
	if p.Type == game.MainPot {
		return "Main pot"
	}
	return fmt.Sprintf("Side pot (%s)", strings.Join(p.EligiblePlayers, ", "))
}

func chipLeader(chips map[string]uint) (string, uint) {
	var leader string
	var most uint
	for id, c := range chips {
		if c > most || (c == most && (leader == "" || id < leader)) {
			leader, most = id, c
		}
	}
	return leader, most
}

func percent(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return float64(n) / float64(of) * 100
}
