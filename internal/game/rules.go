package game

import (
	"github.com/redkinggame/redking/internal/deck"
)

// Rule engine: every operation validates its guards and returns ok=false
// as a no-op when they fail. The caller decides whether to surface the
// refusal; the wire protocol drops it silently.

// DrawCard draws from the deck for the current turn player. A second draw
// in the same turn is refused.
func (s *State) DrawCard(pid string) (deck.Card, error) {
	card, err := s.Deck.Draw()
	if err != nil {
		return deck.Card{}, err
	}
	s.DrawnCard = &card
	s.DrawnBy = pid
	return card, nil
}

// CanDraw reports whether pid may draw right now.
func (s *State) CanDraw(pid string) bool {
	return s.InPlayablePhase() && s.CurrentTurn() == pid && s.DrawnCard == nil && s.Give == nil
}

// KeepDrawn swaps the drawn card into the given hand slot and discards the
// old occupant. Returns the discarded card.
func (s *State) KeepDrawn(pid string, slot int) (deck.Card, bool) {
	if s.DrawnCard == nil || s.DrawnBy != pid {
		return deck.Card{}, false
	}
	hand, ok := s.Hands[pid]
	if !ok {
		return deck.Card{}, false
	}
	old, ok := hand.ReplaceAt(slot, *s.DrawnCard)
	if !ok {
		return deck.Card{}, false
	}
	s.Discard(old)
	s.DrawnCard = nil
	s.DrawnBy = ""
	return old, true
}

// DiscardDrawn pushes the drawn card onto the discard pile and reports the
// rule it triggers. The caller advances the turn only when the rule is
// RuleNone; otherwise the discarder owes a rule decision first.
func (s *State) DiscardDrawn(pid string) (deck.Card, deck.RuleKind, bool) {
	if s.DrawnCard == nil || s.DrawnBy != pid {
		return deck.Card{}, deck.RuleNone, false
	}
	card := *s.DrawnCard
	s.Discard(card)
	s.DrawnCard = nil
	s.DrawnBy = ""
	return card, card.RuleType(), true
}

// PeekOwn privately reveals one of the caller's own cards. Does not
// advance the turn; the caller signals finish-peek explicitly.
func (s *State) PeekOwn(pid string, slot int) (deck.Card, bool) {
	if !s.InPlayablePhase() {
		return deck.Card{}, false
	}
	hand, ok := s.Hands[pid]
	if !ok {
		return deck.Card{}, false
	}
	return hand.CardAt(slot)
}

// PeekOther privately reveals a card from another player's hand. The
// protected Red King caller cannot be targeted.
func (s *State) PeekOther(caller, target string, slot int) (deck.Card, bool) {
	if !s.InPlayablePhase() || target == caller || s.Protected(target) {
		return deck.Card{}, false
	}
	hand, ok := s.Hands[target]
	if !ok {
		return deck.Card{}, false
	}
	return hand.CardAt(slot)
}

// BlindSwitch exchanges two cards between hands without revealing either.
// Neither side may be the protected caller.
func (s *State) BlindSwitch(aID string, aSlot int, bID string, bSlot int) bool {
	if !s.InPlayablePhase() || s.Protected(aID) || s.Protected(bID) {
		return false
	}
	a, ok := s.Hands[aID]
	if !ok {
		return false
	}
	b, ok := s.Hands[bID]
	if !ok {
		return false
	}
	return SwapBetween(a, aSlot, b, bSlot)
}

// BlackKingPeek privately reveals two cards from any hands to the caller.
// The switch-or-skip decision follows as a separate command, so the turn
// does not advance here.
func (s *State) BlackKingPeek(t1 string, i1 int, t2 string, i2 int) (deck.Card, deck.Card, bool) {
	if !s.InPlayablePhase() || s.Protected(t1) || s.Protected(t2) {
		return deck.Card{}, deck.Card{}, false
	}
	h1, ok := s.Hands[t1]
	if !ok {
		return deck.Card{}, deck.Card{}, false
	}
	h2, ok := s.Hands[t2]
	if !ok {
		return deck.Card{}, deck.Card{}, false
	}
	c1, ok := h1.CardAt(i1)
	if !ok {
		return deck.Card{}, deck.Card{}, false
	}
	c2, ok := h2.CardAt(i2)
	if !ok {
		return deck.Card{}, deck.Card{}, false
	}
	return c1, c2, true
}

// MatchOutcome is the result of a match attempt. Matching never advances
// the turn, and a wrong match penalises the caller, not the turn player.
type MatchOutcome struct {
	Card        deck.Card
	Success     bool
	TargetSlot  int
	PenaltyCard *deck.Card
	PenaltySlot int
}

// MatchOwn claims that the caller's card at slot matches the top of the
// discard pile by rank. On success the slot becomes a gap and the card
// moves to the discard pile; on failure the caller draws a penalty card.
func (s *State) MatchOwn(caller string, slot int) (MatchOutcome, bool) {
	if !s.InPlayablePhase() || s.Protected(caller) {
		return MatchOutcome{}, false
	}
	hand, ok := s.Hands[caller]
	if !ok {
		return MatchOutcome{}, false
	}
	card, ok := hand.CardAt(slot)
	if !ok {
		return MatchOutcome{}, false
	}
	top, ok := s.TopDiscard()
	if !ok {
		return MatchOutcome{}, false
	}

	if card.Rank == top.Rank {
		hand.RemoveAt(slot)
		s.Discard(card)
		return MatchOutcome{Card: card, Success: true, TargetSlot: slot}, true
	}

	outcome := MatchOutcome{Card: card, Success: false, TargetSlot: slot, PenaltySlot: -1}
	if penalty, err := s.Deck.Draw(); err == nil {
		outcome.PenaltySlot = hand.AddCard(penalty)
		outcome.PenaltyCard = &penalty
	}
	return outcome, true
}

// MatchOther claims a rank match against another player's card. Success
// mutates nothing yet: it opens the give-card sub-protocol and the caller
// must follow up with GiveAfterMatch. Failure penalises the caller.
func (s *State) MatchOther(caller, target string, slot int) (MatchOutcome, bool) {
	if !s.InPlayablePhase() || s.Protected(target) || s.Protected(caller) || caller == target {
		return MatchOutcome{}, false
	}
	callerHand, ok := s.Hands[caller]
	if !ok {
		return MatchOutcome{}, false
	}
	targetHand, ok := s.Hands[target]
	if !ok {
		return MatchOutcome{}, false
	}
	card, ok := targetHand.CardAt(slot)
	if !ok {
		return MatchOutcome{}, false
	}
	top, ok := s.TopDiscard()
	if !ok {
		return MatchOutcome{}, false
	}

	if card.Rank == top.Rank {
		s.Give = &PendingGive{CallerID: caller, TargetID: target, TargetSlot: slot}
		return MatchOutcome{Card: card, Success: true, TargetSlot: slot}, true
	}

	outcome := MatchOutcome{Card: card, Success: false, TargetSlot: slot, PenaltySlot: -1}
	if penalty, err := s.Deck.Draw(); err == nil {
		outcome.PenaltySlot = callerHand.AddCard(penalty)
		outcome.PenaltyCard = &penalty
	}
	return outcome, true
}

// GiveAfterMatch completes a successful match-other: the matched card
// leaves the target's hand for the discard pile, and the caller hands one
// of their own cards into the freed gap.
func (s *State) GiveAfterMatch(caller string, ownSlot int, target string, targetSlot int) (matched deck.Card, given deck.Card, givenSlot int, ok bool) {
	if s.Give == nil || s.Give.CallerID != caller || s.Give.TargetID != target || s.Give.TargetSlot != targetSlot {
		return deck.Card{}, deck.Card{}, 0, false
	}
	callerHand, okC := s.Hands[caller]
	targetHand, okT := s.Hands[target]
	if !okC || !okT {
		return deck.Card{}, deck.Card{}, 0, false
	}
	if _, ok := callerHand.CardAt(ownSlot); !ok {
		return deck.Card{}, deck.Card{}, 0, false
	}

	matched, ok = targetHand.RemoveAt(targetSlot)
	if !ok {
		return deck.Card{}, deck.Card{}, 0, false
	}
	s.Discard(matched)

	given, _ = callerHand.RemoveAt(ownSlot)
	givenSlot = targetHand.AddCard(given)
	s.Give = nil
	return matched, given, givenSlot, true
}
