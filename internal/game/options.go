package game

import (
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Defaults applied by New when no option overrides them.
const (
	DefaultSmallBlind    uint = 5
	DefaultBigBlind      uint = 10
	DefaultActionTimeout      = 30 * time.Second
	DefaultMaxPlayers         = MaxSeats
)

// MaxSeats is the largest table one deck can deal a full hand to.
const MaxSeats = 10

// Option configures a GameState during creation.
type Option func(*gameConfig)

type gameConfig struct {
	smallBlind    uint
	bigBlind      uint
	actionTimeout time.Duration
	maxPlayers    int
	clock         quartz.Clock
	rng           *rand.Rand
	logger        *log.Logger
	gameID        string
}

func defaultConfig() gameConfig {
	return gameConfig{
		smallBlind:    DefaultSmallBlind,
		bigBlind:      DefaultBigBlind,
		actionTimeout: DefaultActionTimeout,
		maxPlayers:    DefaultMaxPlayers,
	}
}

// WithBlinds sets the small and big blind.
func WithBlinds(small, big uint) Option {
	return func(c *gameConfig) {
		c.smallBlind = small
		c.bigBlind = big
	}
}

// WithActionTimeout sets how long a player has to act before HandleTimeout
// may fold them.
func WithActionTimeout(d time.Duration) Option {
	return func(c *gameConfig) {
		c.actionTimeout = d
	}
}

// WithMaxPlayers caps the number of seated players.
func WithMaxPlayers(n int) Option {
	return func(c *gameConfig) {
		c.maxPlayers = n
	}
}

// WithClock sets the clock used for action deadlines. Tests pass a
// quartz mock.
func WithClock(clock quartz.Clock) Option {
	return func(c *gameConfig) {
		c.clock = clock
	}
}

// WithRand sets the generator used to shuffle. Without it a crypto-backed
// generator is used.
func WithRand(rng *rand.Rand) Option {
	return func(c *gameConfig) {
		c.rng = rng
	}
}

// WithLogger sets the logger. Without it nothing is logged.
func WithLogger(logger *log.Logger) Option {
	return func(c *gameConfig) {
		c.logger = logger
	}
}

// WithGameID fixes the game id instead of generating one.
func WithGameID(id string) Option {
	return func(c *gameConfig) {
		c.gameID = id
	}
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
