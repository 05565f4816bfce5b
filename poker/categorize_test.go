package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cards string
		want  HoleCardCategory
	}{
		{"pocket aces", "As Ah", CategoryPremium},
		{"pocket jacks", "Jh Jd", CategoryPremium},
		{"ace king offsuit", "Ac Kh", CategoryPremium},
		{"pocket tens", "Tc Th", CategoryStrong},
		{"ace queen offsuit", "Ac Qh", CategoryStrong},
		{"ace jack suited", "As Js", CategoryStrong},
		{"pocket nines", "9c 9h", CategoryMedium},
		{"pocket sevens", "7h 7c", CategoryMedium},
		{"king queen suited", "Ks Qs", CategoryMedium},
		{"queen jack suited", "Qd Jd", CategoryMedium},
		{"pocket deuces", "2c 2h", CategoryWeak},
		{"seven six suited", "7h 6h", CategoryWeak},
		{"five three suited", "5d 3d", CategoryWeak},
		{"seven deuce offsuit", "7c 2h", CategoryTrash},
		{"king queen offsuit", "Kc Qh", CategoryTrash},
		{"jack four offsuit", "Jh 4c", CategoryTrash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cards := MustParseCards(tt.cards)
			assert.Equal(t, tt.want, HoleCards{cards[0], cards[1]}.Categorize())
		})
	}
}

func TestCategorizeRejectsInvalid(t *testing.T) {
	t.Parallel()

	ah := NewCard(Ace, Hearts)
	assert.Equal(t, CategoryUnknown, HoleCards{ah, ah}.Categorize())
	assert.Equal(t, CategoryUnknown, HoleCards{ah, Card(60)}.Categorize())
}
