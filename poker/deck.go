package poker

import (
	rand "math/rand/v2"

	"github.com/lox/holdemtable/internal/randutil"
)

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

// Deck represents a standard 52-card deck. Cards are dealt from the top,
// which is the end of the backing slice.
type Deck struct {
	cards []Card
	rng   *rand.Rand // Random source for shuffling
}

// NewDeck creates a new shuffled deck with an explicit RNG. A nil rng selects
// a crypto-backed generator.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = randutil.NewSecure()
	}
	d := &Deck{
		cards: make([]Card, 0, DeckSize),
		rng:   rng,
	}
	d.Reset()
	d.Shuffle()
	return d
}

// Reset rebuilds the deck with all 52 cards in canonical order.
func (d *Deck) Reset() {
	d.cards = d.cards[:0]
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
}

// Shuffle shuffles the remaining cards in place using Fisher-Yates.
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top card. The boolean is false once the deck
// is empty.
func (d *Deck) Deal() (Card, bool) {
	n := len(d.cards)
	if n == 0 {
		return Card{}, false
	}
	c := d.cards[n-1]
	d.cards = d.cards[:n-1]
	return c, true
}

// DealCards deals up to n cards, fewer if the deck runs out.
func (d *Deck) DealCards(n int) []Card {
	if n <= 0 {
		return nil
	}
	n = min(n, len(d.cards))
	cards := make([]Card, 0, n)
	for range n {
		c, _ := d.Deal()
		cards = append(cards, c)
	}
	return cards
}

// Burn discards the top card without exposing it to players.
func (d *Deck) Burn() (Card, bool) {
	return d.Deal()
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Contains reports whether c is still in the deck.
func (d *Deck) Contains(c Card) bool {
	for _, dc := range d.cards {
		if dc == c {
			return true
		}
	}
	return false
}
