package game

import (
	"fmt"
	"time"
)

// Phase is a stage of the hand lifecycle.
type Phase uint8

const (
	Waiting Phase = iota
	PreFlop
	Flop
	Turn
	River
	Showdown
	Finished
)

func (p Phase) String() string {
	switch p {
	case Waiting:
		return "waiting"
	case PreFlop:
		return "pre_flop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// IsBetting reports whether players act during this phase.
func (p Phase) IsBetting() bool {
	return p >= PreFlop && p <= River
}

// Action is a player decision.
type Action uint8

const (
	Fold Action = iota
	Check
	Call
	Raise
	AllIn
)

func (a Action) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Raise:
		return "raise"
	case AllIn:
		return "allin"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// ParseAction converts an action name to an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise":
		return Raise, nil
	case "allin", "all_in":
		return AllIn, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// PlayerStatus describes a player's participation in the current hand.
type PlayerStatus uint8

const (
	StatusActive PlayerStatus = iota
	StatusFolded
	StatusAllIn
	StatusSittingOut
)

func (s PlayerStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusFolded:
		return "folded"
	case StatusAllIn:
		return "all_in"
	case StatusSittingOut:
		return "sitting_out"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s PlayerStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// PotType distinguishes the main pot from side pots.
type PotType uint8

const (
	MainPot PotType = iota
	SidePot
)

func (t PotType) String() string {
	if t == MainPot {
		return "main"
	}
	return "side"
}

// MarshalText implements encoding.TextMarshaler.
func (t PotType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// RecordKind tags an entry in the action history.
type RecordKind uint8

const (
	KindAction RecordKind = iota
	KindSmallBlind
	KindBigBlind
	KindTimeout
	KindLeave
)

func (k RecordKind) String() string {
	switch k {
	case KindAction:
		return "action"
	case KindSmallBlind:
		return "small_blind"
	case KindBigBlind:
		return "big_blind"
	case KindTimeout:
		return "timeout"
	case KindLeave:
		return "leave"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k RecordKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ActionRecord is one entry of a hand's action history.
type ActionRecord struct {
	Kind     RecordKind `json:"kind"`
	PlayerID string     `json:"playerId"`
	Action   Action     `json:"action"`
	Amount   uint       `json:"amount"`
	Phase    Phase      `json:"phase"`
	At       time.Time  `json:"at"`
}
