package phh

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/lox/holdemtable/internal/fileutil"
	"github.com/lox/holdemtable/internal/game"
)

// Encode writes the hand history to w in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeToBytes encodes and returns the result as bytes.
func EncodeToBytes(hand *HandHistory) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes the hand into dir as "<hand id>.phh" and returns the path.
func WriteFile(dir string, hand *HandHistory) (string, error) {
	data, err := EncodeToBytes(hand)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, hand.HandID+".phh")
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// EnsureDir creates the export directory if it does not exist.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// FormatAction converts an engine action to a PHH action string. raiseTo is
// the player's total bet on the street after a raise. Calls and checks are
// both "cc"; an all-in that does not raise is a call.
func FormatAction(seat int, action game.Action, raiseTo uint, raised bool) string {
	player := fmt.Sprintf("p%d", seat+1)
	switch action {
	case game.Fold:
		return player + " f"
	case game.Check, game.Call:
		return player + " cc"
	case game.Raise, game.AllIn:
		if !raised {
			return player + " cc"
		}
		return fmt.Sprintf("%s cbr %d", player, raiseTo)
	default:
		return fmt.Sprintf("# %s %s", player, action)
	}
}
