package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redkinggame/redking/internal/deck"
)

// playState builds a two-player game already in the play phase.
func playState(t *testing.T) *State {
	t.Helper()
	s := newTestState(t, "p0", "p1")
	s.BeginPlay()
	return s
}

func drainDeck(t *testing.T, s *State) {
	t.Helper()
	for !s.Deck.IsEmpty() {
		_, err := s.Deck.Draw()
		require.NoError(t, err)
	}
}

func TestCanDrawGuards(t *testing.T) {
	s := playState(t)
	require.Equal(t, "p1", s.CurrentTurn())

	assert.True(t, s.CanDraw("p1"))
	assert.False(t, s.CanDraw("p0"), "not p0's turn")

	_, err := s.DrawCard("p1")
	require.NoError(t, err)
	assert.False(t, s.CanDraw("p1"), "second draw in one turn refused")

	s.Phase = PhasePeek
	assert.False(t, s.CanDraw("p1"), "no drawing outside play/redemption")
}

func TestKeepDrawnSwapsAndDiscards(t *testing.T) {
	s := playState(t)
	old, _ := s.Hands["p1"].CardAt(2)

	drawn, err := s.DrawCard("p1")
	require.NoError(t, err)

	discarded, ok := s.KeepDrawn("p1", 2)
	require.True(t, ok)
	assert.Equal(t, old.ID, discarded.ID)

	kept, _ := s.Hands["p1"].CardAt(2)
	assert.Equal(t, drawn.ID, kept.ID)

	top, ok := s.TopDiscard()
	require.True(t, ok)
	assert.Equal(t, old.ID, top.ID)
	assert.Nil(t, s.DrawnCard)
}

func TestKeepDrawnGuards(t *testing.T) {
	s := playState(t)

	_, ok := s.KeepDrawn("p1", 0)
	assert.False(t, ok, "nothing drawn yet")

	_, err := s.DrawCard("p1")
	require.NoError(t, err)
	_, ok = s.KeepDrawn("p0", 0)
	assert.False(t, ok, "only the drawer can keep")
}

func TestDiscardDrawnReportsRule(t *testing.T) {
	s := playState(t)

	_, err := s.DrawCard("p1")
	require.NoError(t, err)
	s.DrawnCard = &deck.Card{ID: "clubs-8", Suit: deck.Clubs, Rank: deck.Eight}

	card, rule, ok := s.DiscardDrawn("p1")
	require.True(t, ok)
	assert.Equal(t, deck.RulePeekOwn, rule)

	top, _ := s.TopDiscard()
	assert.Equal(t, card.ID, top.ID)
	assert.Nil(t, s.DrawnCard)
}

func TestPeeksRespectProtection(t *testing.T) {
	s := playState(t)

	_, ok := s.PeekOwn("p1", 0)
	assert.True(t, ok)

	_, ok = s.PeekOther("p1", "p0", 0)
	assert.True(t, ok)

	_, ok = s.PeekOther("p1", "p1", 0)
	assert.False(t, ok, "peek-other cannot target self")

	s.RedKingCaller = "p0"
	_, ok = s.PeekOther("p1", "p0", 0)
	assert.False(t, ok, "protected caller cannot be peeked")
}

func TestBlindSwitchRoundTrip(t *testing.T) {
	s := playState(t)
	a, _ := s.Hands["p1"].CardAt(1)
	b, _ := s.Hands["p0"].CardAt(3)

	require.True(t, s.BlindSwitch("p1", 1, "p0", 3))
	gotA, _ := s.Hands["p1"].CardAt(1)
	gotB, _ := s.Hands["p0"].CardAt(3)
	assert.Equal(t, b.ID, gotA.ID)
	assert.Equal(t, a.ID, gotB.ID)

	// Switching back restores the original hands.
	require.True(t, s.BlindSwitch("p0", 3, "p1", 1))
	gotA, _ = s.Hands["p1"].CardAt(1)
	assert.Equal(t, a.ID, gotA.ID)

	s.RedKingCaller = "p0"
	assert.False(t, s.BlindSwitch("p1", 1, "p0", 3), "protected hand cannot be switched")
}

func TestBlackKingPeekRevealsBoth(t *testing.T) {
	s := playState(t)
	want1, _ := s.Hands["p1"].CardAt(0)
	want2, _ := s.Hands["p0"].CardAt(2)

	c1, c2, ok := s.BlackKingPeek("p1", 0, "p0", 2)
	require.True(t, ok)
	assert.Equal(t, want1.ID, c1.ID)
	assert.Equal(t, want2.ID, c2.ID)

	_, _, ok = s.BlackKingPeek("p1", 0, "p0", 9)
	assert.False(t, ok, "gap or out-of-range slot refused")
}

func TestMatchOwnSuccessLeavesGap(t *testing.T) {
	s := playState(t)
	s.Hands["p0"] = dealtHand(
		deck.NewCard(deck.Hearts, deck.Five),
		deck.NewCard(deck.Spades, deck.Five),
		deck.NewCard(deck.Clubs, deck.Two),
		deck.NewCard(deck.Clubs, deck.Three),
	)
	s.Discard(deck.NewCard(deck.Diamonds, deck.Five))

	out, ok := s.MatchOwn("p0", 1)
	require.True(t, ok)
	assert.True(t, out.Success)
	assert.Equal(t, 1, out.TargetSlot)

	assert.Equal(t, []bool{true, false, true, true}, s.Hands["p0"].Layout())
	top, _ := s.TopDiscard()
	assert.Equal(t, "spades-5", top.ID)
}

func TestMatchOwnPenaltyFillsGap(t *testing.T) {
	s := playState(t)
	hand := dealtHand(
		deck.NewCard(deck.Hearts, deck.Five),
		deck.NewCard(deck.Spades, deck.Nine),
		deck.NewCard(deck.Clubs, deck.Two),
		deck.NewCard(deck.Clubs, deck.Three),
	)
	hand.RemoveAt(2)
	s.Hands["p0"] = hand
	s.Discard(deck.NewCard(deck.Diamonds, deck.Five))

	out, ok := s.MatchOwn("p0", 1)
	require.True(t, ok)
	assert.False(t, out.Success)
	require.NotNil(t, out.PenaltyCard)
	assert.Equal(t, 2, out.PenaltySlot, "penalty prefers the existing gap")
	assert.Equal(t, 4, hand.Len())
	assert.Equal(t, 4, hand.Count())
}

func TestMatchOwnPenaltySkippedOnEmptyDeck(t *testing.T) {
	s := playState(t)
	s.Hands["p0"] = dealtHand(
		deck.NewCard(deck.Hearts, deck.Five),
		deck.NewCard(deck.Spades, deck.Nine),
	)
	s.Discard(deck.NewCard(deck.Diamonds, deck.Five))
	drainDeck(t, s)

	out, ok := s.MatchOwn("p0", 1)
	require.True(t, ok)
	assert.False(t, out.Success)
	assert.Nil(t, out.PenaltyCard)
	assert.Equal(t, 2, s.Hands["p0"].Count(), "no penalty without a deck")
}

func TestMatchOwnGuards(t *testing.T) {
	s := playState(t)

	_, ok := s.MatchOwn("p0", 0)
	assert.False(t, ok, "no discard pile yet")

	s.Discard(deck.NewCard(deck.Diamonds, deck.Five))
	s.RedKingCaller = "p0"
	_, ok = s.MatchOwn("p0", 0)
	assert.False(t, ok, "protected caller cannot match")
}

func TestMatchOtherOpensGiveThenCompletes(t *testing.T) {
	s := playState(t)
	s.Hands["p0"] = dealtHand(
		deck.NewCard(deck.Hearts, deck.Five),
		deck.NewCard(deck.Clubs, deck.Two),
	)
	s.Hands["p1"] = dealtHand(
		deck.NewCard(deck.Spades, deck.Five),
		deck.NewCard(deck.Clubs, deck.Nine),
	)
	s.Discard(deck.NewCard(deck.Diamonds, deck.Five))

	out, ok := s.MatchOther("p0", "p1", 0)
	require.True(t, ok)
	require.True(t, out.Success)

	// Nothing moves until the give completes.
	require.NotNil(t, s.Give)
	assert.Equal(t, 2, s.Hands["p1"].Count())

	matched, given, givenSlot, ok := s.GiveAfterMatch("p0", 1, "p1", 0)
	require.True(t, ok)
	assert.Equal(t, "spades-5", matched.ID)
	assert.Equal(t, "clubs-2", given.ID)
	assert.Equal(t, 0, givenSlot, "given card fills the freed gap")
	assert.Nil(t, s.Give)

	top, _ := s.TopDiscard()
	assert.Equal(t, "spades-5", top.ID)
	assert.Equal(t, 1, s.Hands["p0"].Count())
	assert.Equal(t, 2, s.Hands["p1"].Count())
}

func TestMatchOtherFailurePenalisesCaller(t *testing.T) {
	s := playState(t)
	s.Hands["p0"] = dealtHand(deck.NewCard(deck.Hearts, deck.Five))
	s.Hands["p1"] = dealtHand(deck.NewCard(deck.Clubs, deck.Nine))
	s.Discard(deck.NewCard(deck.Diamonds, deck.Five))

	out, ok := s.MatchOther("p0", "p1", 0)
	require.True(t, ok)
	assert.False(t, out.Success)
	require.NotNil(t, out.PenaltyCard)

	assert.Equal(t, 2, s.Hands["p0"].Count(), "penalty lands on the caller")
	assert.Equal(t, 1, s.Hands["p1"].Count())
	assert.Nil(t, s.Give)
}

func TestPendingGiveExpiresOnTurnAdvance(t *testing.T) {
	s := playState(t)
	s.Hands["p0"] = dealtHand(deck.NewCard(deck.Hearts, deck.Five), deck.NewCard(deck.Clubs, deck.Two))
	s.Hands["p1"] = dealtHand(deck.NewCard(deck.Spades, deck.Five))
	s.Discard(deck.NewCard(deck.Diamonds, deck.Five))

	out, ok := s.MatchOther("p0", "p1", 0)
	require.True(t, ok)
	require.True(t, out.Success)
	require.NotNil(t, s.Give)

	// The claim lapses with the turn; the target keeps the matched card.
	s.AdvanceTurn()
	assert.Nil(t, s.Give)
	_, _, _, ok = s.GiveAfterMatch("p0", 1, "p1", 0)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Hands["p1"].Count())
	assert.True(t, s.CanDraw(s.CurrentTurn()), "next player is not blocked")
}

func TestGiveAfterMatchValidatesPending(t *testing.T) {
	s := playState(t)
	s.Hands["p0"] = dealtHand(deck.NewCard(deck.Hearts, deck.Five), deck.NewCard(deck.Clubs, deck.Two))
	s.Hands["p1"] = dealtHand(deck.NewCard(deck.Spades, deck.Five))
	s.Discard(deck.NewCard(deck.Diamonds, deck.Five))

	_, _, _, ok := s.GiveAfterMatch("p0", 1, "p1", 0)
	assert.False(t, ok, "no pending give")

	out, matched := s.MatchOther("p0", "p1", 0)
	require.True(t, matched)
	require.True(t, out.Success)

	_, _, _, ok = s.GiveAfterMatch("p1", 0, "p1", 0)
	assert.False(t, ok, "wrong caller")
	_, _, _, ok = s.GiveAfterMatch("p0", 1, "p1", 3)
	assert.False(t, ok, "wrong target slot")

	_, _, _, ok = s.GiveAfterMatch("p0", 1, "p1", 0)
	assert.True(t, ok)
}
