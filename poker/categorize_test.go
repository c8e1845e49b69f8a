package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeHoleCards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cards []string
		want  HoleCardCategory
	}{
		{[]string{"AS", "AH"}, CategoryPremium},
		{[]string{"JS", "JD"}, CategoryPremium},
		{[]string{"AS", "KD"}, CategoryPremium},
		{[]string{"TS", "TD"}, CategoryStrong},
		{[]string{"AS", "QD"}, CategoryStrong},
		{[]string{"8S", "8D"}, CategoryMedium},
		{[]string{"KH", "QH"}, CategoryMedium},
		{[]string{"3S", "3D"}, CategoryWeak},
		{[]string{"7H", "6H"}, CategoryWeak},
		{[]string{"7H", "2C"}, CategoryTrash},
		{[]string{"7H"}, CategoryUnknown},
		{[]string{"7H", "ZZ"}, CategoryUnknown},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, CategorizeHoleCardsFromStrings(tc.cards), "%v", tc.cards)
	}
}
