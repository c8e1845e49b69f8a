package poker

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCard is returned when a card token cannot be parsed.
var ErrInvalidCard = errors.New("invalid card")

// Suit is one of the four card suits.
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists every suit in canonical order.
var Suits = [...]Suit{Spades, Hearts, Diamonds, Clubs}

func (s Suit) String() string {
	switch s {
	case Spades:
		return "spades"
	case Hearts:
		return "hearts"
	case Diamonds:
		return "diamonds"
	case Clubs:
		return "clubs"
	default:
		return "unknown"
	}
}

// Letter returns the single upper-case letter used in card tokens.
func (s Suit) Letter() byte {
	if s > Clubs {
		return '?'
	}
	return "SHDC"[s]
}

// Symbol returns the unicode suit symbol.
func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed reports whether the suit is hearts or diamonds.
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank is a card rank in the range 2..14, where 14 is the ace.
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankLetters = "23456789TJQKA"

// Valid reports whether r is between Two and Ace.
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

// Letter returns the single character used in card tokens.
func (r Rank) Letter() byte {
	if !r.Valid() {
		return '?'
	}
	return rankLetters[r-Two]
}

func (r Rank) String() string {
	return string(r.Letter())
}

// Card is an immutable playing card. The zero value is not a valid card.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// NewCard creates a card from a rank and suit.
func NewCard(rank Rank, suit Suit) Card {
	return Card{Suit: suit, Rank: rank}
}

// Valid reports whether the card has a known rank and suit.
func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit <= Clubs
}

// ShortString returns the two character token for the card, e.g. "AS" or "TD".
func (c Card) ShortString() string {
	if !c.Valid() {
		return "??"
	}
	return string([]byte{c.Rank.Letter(), c.Suit.Letter()})
}

func (c Card) String() string {
	return c.ShortString()
}

// Pretty returns the card with a suit symbol, e.g. "A♠".
func (c Card) Pretty() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank.String() + c.Suit.Symbol()
}

// MarshalText encodes the card as its short token.
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: rank %d suit %d", ErrInvalidCard, c.Rank, c.Suit)
	}
	return []byte(c.ShortString()), nil
}

// UnmarshalText decodes a short token such as "AS".
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses a two character token like "AS", "td" or "2H".
// Rank letters are 2-9, T, J, Q, K, A; suit letters are S, H, D, C.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("%w: %q must be exactly 2 characters", ErrInvalidCard, s)
	}

	idx := strings.IndexByte(rankLetters, upper(s[0]))
	if idx < 0 {
		return Card{}, fmt.Errorf("%w: unknown rank %q in %q", ErrInvalidCard, s[0], s)
	}

	var suit Suit
	switch upper(s[1]) {
	case 'S':
		suit = Spades
	case 'H':
		suit = Hearts
	case 'D':
		suit = Diamonds
	case 'C':
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("%w: unknown suit %q in %q", ErrInvalidCard, s[1], s)
	}

	return NewCard(Two+Rank(idx), suit), nil
}

// ParseCards parses a list of cards. Tokens may be separated by whitespace or
// concatenated ("AsKd" and "As Kd" are equivalent).
func ParseCards(s string) ([]Card, error) {
	compact := strings.Join(strings.Fields(s), "")
	if len(compact)%2 != 0 {
		return nil, fmt.Errorf("%w: %q has an odd number of characters", ErrInvalidCard, s)
	}

	cards := make([]Card, 0, len(compact)/2)
	for i := 0; i < len(compact); i += 2 {
		c, err := ParseCard(compact[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCard is like ParseCard but panics on malformed input. It is
// intended for static tables and tests.
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

// MustParseCards parses each token with MustParseCard.
func MustParseCards(tokens ...string) []Card {
	cards := make([]Card, len(tokens))
	for i, tok := range tokens {
		cards[i] = MustParseCard(tok)
	}
	return cards
}

// FormatCards joins the short tokens of cards with spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.ShortString()
	}
	return strings.Join(parts, " ")
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
