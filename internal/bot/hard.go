package bot

import (
	"github.com/redkinggame/redking/internal/deck"
)

// Hard plays with full information. The server drives its bots in-process,
// so the driver keeps a hard bot's memory synced with the actual hands;
// every "known" value below is exact. Decisions are made only when they
// are net-positive on real point values.
type Hard struct{}

// ShouldCallRedKing calls on a real score of five or less.
func (Hard) ShouldCallRedKing(v *View) bool {
	hand := v.Hand()
	if hand == nil || len(v.unknownSlots()) > 0 {
		return false
	}
	return hand.Score() <= 5
}

// DecideKeepOrDiscard keeps any draw that beats the worst card actually
// held.
func (Hard) DecideKeepOrDiscard(v *View, drawn deck.Card) DrawDecision {
	slot, worst, ok := v.worstKnown()
	if ok && drawn.PointValue() < worst.PointValue() {
		return DrawDecision{Keep: true, Slot: slot}
	}
	return DrawDecision{}
}

// DecideRuleUsage skips peeks (it already knows every card) and switches
// only when the exchange strictly lowers its score.
func (Hard) DecideRuleUsage(v *View, rule deck.RuleKind) RuleDecision {
	switch rule {
	case deck.RulePeekOwn, deck.RulePeekOther:
		return RuleDecision{}

	case deck.RuleBlindSwitch:
		ownSlot, own, ok := v.worstKnown()
		if !ok {
			return RuleDecision{}
		}
		target, targetSlot, best, okT := bestOpponentCard(v)
		if !okT || best.PointValue() >= own.PointValue() {
			return RuleDecision{}
		}
		return RuleDecision{Use: true, AID: v.Self, ASlot: ownSlot, BID: target, BSlot: targetSlot}

	case deck.RuleBlackKing:
		ownSlot, own, ok := v.worstKnown()
		if !ok {
			return RuleDecision{}
		}
		target, targetSlot, best, okT := bestOpponentCard(v)
		if !okT {
			return RuleDecision{}
		}
		// Peek confirms what full information already knows; switch only
		// when it helps.
		doSwitch := best.PointValue() < own.PointValue()
		return RuleDecision{Use: true, AID: v.Self, ASlot: ownSlot, BID: target, BSlot: targetSlot, DoSwitch: doSwitch}
	}
	return RuleDecision{}
}

// ShouldMatchOwn matches on exact rank equality.
func (Hard) ShouldMatchOwn(v *View, slot int, known deck.Card, top deck.Card) bool {
	return known.Rank == top.Rank
}

// bestOpponentCard finds the lowest-value card across all targetable
// opponent hands.
func bestOpponentCard(v *View) (targetID string, slot int, card deck.Card, ok bool) {
	for _, opp := range v.Opponents() {
		hand := v.Game.Hands[opp.ID]
		for i, filled := range hand.Layout() {
			if !filled {
				continue
			}
			c, _ := hand.CardAt(i)
			if !ok || c.PointValue() < card.PointValue() {
				targetID, slot, card, ok = opp.ID, i, c, true
			}
		}
	}
	return targetID, slot, card, ok
}
