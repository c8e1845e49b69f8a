package phh

import (
	"strings"

	"github.com/lox/holdemtable/poker"
)

// FormatCard renders a card in PHH notation, e.g. "Th" or "As".
func FormatCard(c poker.Card) string {
	if !c.Valid() {
		return "??"
	}
	return string([]byte{c.Rank.Letter(), c.Suit.Letter() | 0x20})
}

// FormatCards concatenates cards without separators, e.g. "AhKh".
func FormatCards(cards []poker.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(FormatCard(c))
	}
	return b.String()
}
