// Package game implements the rules engine for a single Texas Hold'em table.
//
// The main type is GameState, a synchronous state machine that owns the
// players, the deck, a PositionManager and a PotManager for one table. It
// moves through Waiting, PreFlop, Flop, Turn, River, Showdown and Finished,
// jumping straight to Finished when only one player is left in the hand.
//
// # Basic Usage
//
//	g, err := game.New(game.WithBlinds(5, 10), game.WithRand(randutil.New(42)))
//	g.AddPlayer("alice", "Alice", 1000)
//	g.AddPlayer("bob", "Bob", 1000)
//	g.SetPlayerReady("alice", true)
//	g.SetPlayerReady("bob", true)
//	g.StartNewHand()
//	g.ExecutePlayerAction(g.CurrentPlayerID(), game.Call, 0)
//
// # Failure Modes
//
// Malformed static input (bad blind amounts, fewer than two seats, unknown
// pot ids) returns an error. Rule violations during play (acting out of turn,
// checking facing a bet, raising below the minimum) return false and leave
// the state untouched.
//
// # Concurrency
//
// GameState performs no I/O and no locking. Each instance must be driven by
// one owner at a time, for example a goroutine per table. Action deadlines
// are recorded on the player whose turn it is; the owner is expected to call
// HandleTimeout once the deadline has passed.
package game
