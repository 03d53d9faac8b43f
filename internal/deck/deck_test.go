package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redkinggame/redking/internal/randutil"
)

func TestPointValues(t *testing.T) {
	tests := []struct {
		name string
		card Card
		want int
	}{
		{"joker scores zero", NewJoker(1), 0},
		{"ace scores one", NewCard(Spades, Ace), 1},
		{"number card scores face", NewCard(Hearts, Seven), 7},
		{"ten scores ten", NewCard(Clubs, Ten), 10},
		{"jack scores ten", NewCard(Diamonds, Jack), 10},
		{"queen scores ten", NewCard(Spades, Queen), 10},
		{"king of hearts scores minus one", NewCard(Hearts, King), -1},
		{"king of diamonds scores minus one", NewCard(Diamonds, King), -1},
		{"king of clubs scores ten", NewCard(Clubs, King), 10},
		{"king of spades scores ten", NewCard(Spades, King), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.card.PointValue())
		})
	}
}

func TestRuleClassification(t *testing.T) {
	tests := []struct {
		name string
		card Card
		want RuleKind
	}{
		{"seven peeks own", NewCard(Hearts, Seven), RulePeekOwn},
		{"eight peeks own", NewCard(Clubs, Eight), RulePeekOwn},
		{"nine peeks other", NewCard(Spades, Nine), RulePeekOther},
		{"ten peeks other", NewCard(Diamonds, Ten), RulePeekOther},
		{"jack blind-switches", NewCard(Hearts, Jack), RuleBlindSwitch},
		{"queen blind-switches", NewCard(Spades, Queen), RuleBlindSwitch},
		{"black king peeks then switches", NewCard(Clubs, King), RuleBlackKing},
		{"red king has no rule", NewCard(Hearts, King), RuleNone},
		{"ace has no rule", NewCard(Clubs, Ace), RuleNone},
		{"joker has no rule", NewJoker(2), RuleNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.card.RuleType())
			assert.Equal(t, tt.want != RuleNone, tt.card.HasRule())
		})
	}
}

func TestRuleKindWireNames(t *testing.T) {
	assert.Equal(t, "peek-own", RulePeekOwn.String())
	assert.Equal(t, "peek-other", RulePeekOther.String())
	assert.Equal(t, "blind-switch", RuleBlindSwitch.String())
	assert.Equal(t, "black-king", RuleBlackKing.String())
	assert.Equal(t, "none", RuleNone.String())
}

func TestIsRedKing(t *testing.T) {
	assert.True(t, NewCard(Hearts, King).IsRedKing())
	assert.True(t, NewCard(Diamonds, King).IsRedKing())
	assert.False(t, NewCard(Clubs, King).IsRedKing())
	assert.False(t, NewCard(Hearts, Queen).IsRedKing())
}

func TestNewDeckHas54UniqueCards(t *testing.T) {
	d := New(randutil.New(1))
	require.Equal(t, Size, d.Len())

	seen := make(map[string]bool, Size)
	for _, card := range d.Cards() {
		assert.False(t, seen[card.ID], "duplicate card id %s", card.ID)
		seen[card.ID] = true
	}
	assert.Len(t, seen, Size)
	assert.True(t, seen["joker-1"])
	assert.True(t, seen["joker-2"])
	assert.True(t, seen["hearts-K"])
}

func TestDrawPopsUntilEmpty(t *testing.T) {
	d := New(randutil.New(7))

	for i := 0; i < Size; i++ {
		_, err := d.Draw()
		require.NoError(t, err)
	}
	assert.True(t, d.IsEmpty())

	_, err := d.Draw()
	assert.ErrorIs(t, err, ErrEmptyDeck)
}

func TestShuffleIsSeedDeterministic(t *testing.T) {
	a := New(randutil.New(42))
	b := New(randutil.New(42))
	assert.Equal(t, a.Cards(), b.Cards())

	c := New(randutil.New(43))
	assert.NotEqual(t, a.Cards(), c.Cards())
}
