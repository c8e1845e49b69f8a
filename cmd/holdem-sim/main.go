package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/holdemtable/internal/config"
	"github.com/lox/holdemtable/internal/display"
	"github.com/lox/holdemtable/internal/fileutil"
	"github.com/lox/holdemtable/internal/game"
	"github.com/lox/holdemtable/internal/phh"
	"github.com/lox/holdemtable/internal/simulator"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

type CLI struct {
	Config    string  `short:"c" help:"Path to HCL table configuration" default:"holdem.hcl" type:"path"`
	Seed      *int64  `help:"RNG seed for reproducible runs (overrides the config)"`
	Table     string  `short:"t" help:"Only run the named table"`
	Hands     *int    `help:"Override the hand count of every table"`
	LogLevel  *string `help:"Log level (debug, info, warn, error), overrides the config"`
	ShowHands bool    `help:"Print every settled hand"`
	PHHDir    string  `name:"phh-dir" help:"Write every settled hand to this directory in PHH format" type:"path"`
	JSON      string  `name:"json" help:"Write the report as JSON to this file" type:"path"`
	NoColor   bool    `help:"Disable colored output"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem-sim"),
		kong.Description("Play scripted bots against each other on the Hold'em rules engine."),
	)

	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	if err := run(cli); err != nil {
		log.Error("Simulation failed", "error", err)
		ctx.Exit(1)
	}
	ctx.Exit(0)
}

func run(cli CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if cli.Seed != nil {
		cfg.Seed = *cli.Seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cli.LogLevel != nil {
		cfg.LogLevel = *cli.LogLevel
	}
	if cli.Hands != nil {
		for i := range cfg.Tables {
			cfg.Tables[i].Hands = *cli.Hands
		}
	}
	if cli.Table != "" {
		tc, ok := cfg.Table(cli.Table)
		if !ok {
			return fmt.Errorf("no table named %q in %s", cli.Table, cli.Config)
		}
		cfg.Tables = []config.TableConfig{tc}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})

	out := display.NewRenderer(os.Stdout)
	simCfg := simulator.Config{
		Tables: cfg.Tables,
		Seed:   cfg.Seed,
		Logger: logger,
	}
	if cli.PHHDir != "" {
		if err := phh.EnsureDir(cli.PHHDir); err != nil {
			return err
		}
	}
	if cli.ShowHands || cli.PHHDir != "" {
		var mu sync.Mutex
		simCfg.OnHand = func(table string, snapshot game.GameSnapshot, result *game.GameResult) error {
			if cli.PHHDir != "" {
				hh, err := phh.FromHand(table, snapshot, result)
				if err != nil {
					return err
				}
				path, err := phh.WriteFile(cli.PHHDir, hh)
				if err != nil {
					return err
				}
				logger.Debug("wrote hand history", "path", path)
			}
			if cli.ShowHands {
				mu.Lock()
				defer mu.Unlock()
				fmt.Printf("[%s]\n", table)
				out.Snapshot(snapshot)
				out.Result(result)
			}
			return nil
		}
	}

	fmt.Println(titleStyle.Render(" ♠ ♥ Hold'em simulator ♦ ♣ "))
	fmt.Printf("%d table(s), seed %d\n\n", len(cfg.Tables), cfg.Seed)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	report, err := simulator.New(simCfg).Run(sigCtx)
	if err != nil {
		out.Error(err)
		return err
	}

	out.Report(report)
	if cli.JSON != "" {
		if err := fileutil.WriteJSONAtomic(cli.JSON, report, 0o644); err != nil {
			return err
		}
		fmt.Printf("\nReport written to %s\n", cli.JSON)
	}
	elapsed := time.Since(start)
	if report.Total.Hands > 0 {
		fmt.Printf("\nPerformance: %.1f hands/sec over %v\n",
			float64(report.Total.Hands)/elapsed.Seconds(), elapsed.Round(time.Millisecond))
	}
	return report.Total.Validate()
}
