package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemtable/internal/randutil"
)

func TestNewDeckHasAllCards(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(1))
	require.Equal(t, DeckSize, d.Remaining())

	seen := make(map[Card]bool)
	for {
		c, ok := d.Deal()
		if !ok {
			break
		}
		require.True(t, c.Valid())
		require.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, DeckSize)
	assert.Equal(t, 0, d.Remaining())
}

func TestDealEmptyDeck(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(2))
	d.DealCards(DeckSize)

	_, ok := d.Deal()
	assert.False(t, ok)
	_, ok = d.Burn()
	assert.False(t, ok)
	assert.Empty(t, d.DealCards(3))
}

func TestDealCardsReturnsFewerWhenExhausted(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(3))
	d.DealCards(50)
	cards := d.DealCards(5)
	assert.Len(t, cards, 2)
	assert.Nil(t, d.DealCards(0))
}

func TestBurnRemovesCard(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(4))
	burned, ok := d.Burn()
	require.True(t, ok)
	assert.False(t, d.Contains(burned))
	assert.Equal(t, DeckSize-1, d.Remaining())
}

func TestResetRestoresFullDeck(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(5))
	d.DealCards(20)
	d.Reset()
	assert.Equal(t, DeckSize, d.Remaining())
	assert.True(t, d.Contains(NewCard(Ace, Spades)))
	assert.True(t, d.Contains(NewCard(Two, Clubs)))
}

func TestShuffleIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	a := NewDeck(randutil.New(42)).DealCards(DeckSize)
	b := NewDeck(randutil.New(42)).DealCards(DeckSize)
	c := NewDeck(randutil.New(43)).DealCards(DeckSize)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestShuffleKeepsCardSet(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(6))
	d.DealCards(10)
	d.Shuffle()
	assert.Equal(t, DeckSize-10, d.Remaining())
}

func TestNilRNGUsesSecureSource(t *testing.T) {
	t.Parallel()

	d := NewDeck(nil)
	assert.Equal(t, DeckSize, d.Remaining())
}
