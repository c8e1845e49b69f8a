// Package config loads simulator table definitions from HCL files.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdemtable/internal/game"
)

// Policies lists the bot policies a table may use. "mixed" assigns them to
// seats in turn.
var Policies = []string{"random", "call", "fold", "sleepy", "tight", "mixed"}

// Config is the complete simulator configuration.
type Config struct {
	LogLevel string        `hcl:"log_level,optional"`
	Seed     int64         `hcl:"seed,optional"`
	Tables   []TableConfig `hcl:"table,block"`
}

// TableConfig defines one simulated table.
type TableConfig struct {
	Name          string `hcl:"name,label"`
	SmallBlind    uint   `hcl:"small_blind"`
	BigBlind      uint   `hcl:"big_blind"`
	StartingChips uint   `hcl:"starting_chips,optional"`
	MaxPlayers    int    `hcl:"max_players,optional"`
	ActionTimeout string `hcl:"action_timeout,optional"`
	Players       int    `hcl:"players,optional"`
	Policy        string `hcl:"policy,optional"`
	Hands         int    `hcl:"hands,optional"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{
		LogLevel: "info",
		Tables: []TableConfig{{
			Name:       "main",
			SmallBlind: game.DefaultSmallBlind,
			BigBlind:   game.DefaultBigBlind,
		}},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from an HCL file, returning defaults if the
// file does not exist.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	for i := range c.Tables {
		t := &c.Tables[i]
		if t.StartingChips == 0 {
			t.StartingChips = t.BigBlind * 100
		}
		if t.MaxPlayers == 0 {
			t.MaxPlayers = 6
		}
		if t.ActionTimeout == "" {
			t.ActionTimeout = game.DefaultActionTimeout.String()
		}
		if t.Players == 0 {
			t.Players = t.MaxPlayers
		}
		if t.Policy == "" {
			t.Policy = "random"
		}
		if t.Hands == 0 {
			t.Hands = 100
		}
	}
}

// Validate checks the configuration for values the engine would reject.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	seen := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if seen[t.Name] {
			return fmt.Errorf("table %s: defined more than once", t.Name)
		}
		seen[t.Name] = true

		if t.SmallBlind == 0 {
			return fmt.Errorf("table %s: small blind must be positive", t.Name)
		}
		if t.BigBlind <= t.SmallBlind {
			return fmt.Errorf("table %s: big blind must be greater than small blind", t.Name)
		}
		if t.MaxPlayers < 2 || t.MaxPlayers > 10 {
			return fmt.Errorf("table %s: max players must be between 2 and 10", t.Name)
		}
		if t.Players < 2 || t.Players > t.MaxPlayers {
			return fmt.Errorf("table %s: players must be between 2 and %d", t.Name, t.MaxPlayers)
		}
		if t.StartingChips == 0 {
			return fmt.Errorf("table %s: starting chips must be positive", t.Name)
		}
		if t.Hands < 1 {
			return fmt.Errorf("table %s: hands must be positive", t.Name)
		}
		if _, err := t.Timeout(); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
		if !slices.Contains(Policies, t.Policy) {
			return fmt.Errorf("table %s: invalid policy %s", t.Name, t.Policy)
		}
	}
	return nil
}

// Timeout parses the table's action timeout.
func (t TableConfig) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(t.ActionTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid action timeout %q: %w", t.ActionTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("action timeout must be positive, got %s", d)
	}
	return d, nil
}

// GameOptions converts the table settings into engine options.
func (t TableConfig) GameOptions() ([]game.Option, error) {
	timeout, err := t.Timeout()
	if err != nil {
		return nil, err
	}
	return []game.Option{
		game.WithBlinds(t.SmallBlind, t.BigBlind),
		game.WithMaxPlayers(t.MaxPlayers),
		game.WithActionTimeout(timeout),
	}, nil
}

// Table returns a table configuration by name.
func (c *Config) Table(name string) (TableConfig, bool) {
	for _, t := range c.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableConfig{}, false
}
