package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/holdemtable/internal/display"
	"github.com/lox/holdemtable/internal/randutil"
	"github.com/lox/holdemtable/poker"
)

type CLI struct {
	Hands      []string `arg:"" help:"Player hole cards, e.g. 'AsKd' 'QhJs'" required:"true"`
	Board      string   `short:"b" help:"Community cards, e.g. 'Td7s8h'"`
	Iterations int      `short:"i" help:"Monte Carlo iterations when the board is incomplete" default:"20000"`
	Seed       *int64   `help:"Random seed for reproducible results"`
	NoColor    bool     `help:"Disable colored output"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("handeval"),
		kong.Description("Evaluate Hold'em hands against a board."),
	)
	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	hands, err := parseHands(cli.Hands)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing hands: %v\n", err)
		ctx.Exit(1)
	}

	var board []poker.Card
	if cli.Board != "" {
		board, err = poker.ParseCards(cli.Board)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing board: %v\n", err)
			ctx.Exit(1)
		}
		if len(board) > 5 {
			fmt.Fprintln(os.Stderr, "Board cannot have more than 5 cards")
			ctx.Exit(1)
		}
	}

	if err := validateNoDuplicates(hands, board); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}

	out := display.NewRenderer(os.Stdout)
	fmt.Println(headerStyle.Render("Hands"))
	for i, hand := range hands {
		fmt.Printf("  %d. %s %s\n", i+1, out.Cards(hand),
			categoryStyle.Render(string(poker.CategorizeHoleCards(hand[0], hand[1]))))
	}
	if len(board) > 0 {
		fmt.Printf("Board: %s\n", out.Cards(board))
	}
	fmt.Println()

	if len(board) == 5 {
		showShowdown(out, hands, board)
		ctx.Exit(0)
	}

	seed := time.Now().UnixNano()
	if cli.Seed != nil {
		seed = *cli.Seed
	}
	results := equity(hands, board, cli.Iterations, seed)
	showEquity(out, results, cli.Iterations)
	ctx.Exit(0)
}

func parseHands(handStrings []string) ([][]poker.Card, error) {
	hands := make([][]poker.Card, 0, len(handStrings))
	for i, s := range handStrings {
		hand, err := poker.ParseCards(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i+1, err)
		}
		if len(hand) != 2 {
			return nil, fmt.Errorf("hand %d: must contain exactly 2 cards, got %d", i+1, len(hand))
		}
		hands = append(hands, hand)
	}
	return hands, nil
}

func validateNoDuplicates(hands [][]poker.Card, board []poker.Card) error {
	seen := make(map[poker.Card]bool)
	for _, c := range board {
		if seen[c] {
			return fmt.Errorf("duplicate card found: %s", c)
		}
		seen[c] = true
	}
	for i, hand := range hands {
		for _, c := range hand {
			if seen[c] {
				return fmt.Errorf("duplicate card found in hand %d: %s", i+1, c)
			}
			seen[c] = true
		}
	}
	return nil
}

// bestHands evaluates every hand on a complete board and returns the
// results with the indexes of the winning hands.
func bestHands(hands [][]poker.Card, board []poker.Card) ([]poker.HandResult, []int) {
	results := make([]poker.HandResult, len(hands))
	var winners []int
	for i, hand := range hands {
		res, err := poker.EvaluateHand(append(append([]poker.Card{}, hand...), board...))
		if err != nil {
			panic(err)
		}
		results[i] = res
		if len(winners) == 0 {
			winners = []int{i}
			continue
		}
		switch c := poker.CompareHands(res, results[winners[0]]); {
		case c > 0:
			winners = []int{i}
		case c == 0:
			winners = append(winners, i)
		}
	}
	return results, winners
}

func showShowdown(out *display.Renderer, hands [][]poker.Card, board []poker.Card) {
	results, winners := bestHands(hands, board)
	won := make(map[int]bool)
	for _, w := range winners {
		won[w] = true
	}
	for i, res := range results {
		line := fmt.Sprintf("  %d. %s %s", i+1, out.Cards(res.Cards[:]), res)
		if won[i] {
			label := "wins"
			if len(winners) > 1 {
				label = "splits"
			}
			line += " " + winStyle.Render(label)
		}
		fmt.Println(line)
	}
}

type equityResult struct {
	Hand []poker.Card
	Wins int
	Ties int
}

func equity(hands [][]poker.Card, board []poker.Card, iterations int, seed int64) []equityResult {
	results := make([]equityResult, len(hands))
	for i := range results {
		results[i].Hand = hands[i]
	}

	used := make(map[poker.Card]bool)
	for _, c := range board {
		used[c] = true
	}
	for _, hand := range hands {
		for _, c := range hand {
			used[c] = true
		}
	}

	rng := randutil.New(seed)
	deck := poker.NewDeck(rng)
	need := 5 - len(board)
	for range iterations {
		deck.Reset()
		deck.Shuffle()
		full := append([]poker.Card{}, board...)
		for len(full) < 5 {
			c, ok := deck.Deal()
			if !ok {
				break
			}
			if !used[c] {
				full = append(full, c)
			}
		}
		if len(full)-len(board) != need {
			continue
		}
		_, winners := bestHands(hands, full)
		for _, w := range winners {
			if len(winners) == 1 {
				results[w].Wins++
			} else {
				results[w].Ties++
			}
		}
	}
	return results
}

func showEquity(out *display.Renderer, results []equityResult, iterations int) {
	fmt.Println(headerStyle.Render(fmt.Sprintf("Equity over %d runouts", iterations)))
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "HAND\tWIN\tTIE")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%.2f%%\n", out.Cards(r.Hand),
			winStyle.Render(fmt.Sprintf("%.2f%%", pct(r.Wins, iterations))), pct(r.Ties, iterations))
	}
	tw.Flush()
}

func pct(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return float64(n) / float64(of) * 100
}
