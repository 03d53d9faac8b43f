package bot

import (
	"github.com/redkinggame/redking/internal/deck"
)

// Medium plays from memory with a conservative heuristic: slots it has not
// seen are priced at unknownValue. It peeks to fill gaps in its knowledge,
// swaps away its worst known card, and matches whenever memory says a rank
// lines up.
type Medium struct{}

// ShouldCallRedKing requires at least two known slots, a known sum of five
// or less, and an estimate of eight or less.
func (Medium) ShouldCallRedKing(v *View) bool {
	known := v.knownOwn()
	if len(known) < 2 {
		return false
	}
	knownSum := 0
	for _, card := range known {
		knownSum += card.PointValue()
	}
	return knownSum <= 5 && v.estimate() <= 8
}

// DecideKeepOrDiscard keeps the draw when it beats the worst known card.
func (Medium) DecideKeepOrDiscard(v *View, drawn deck.Card) DrawDecision {
	slot, worst, ok := v.worstKnown()
	if ok && drawn.PointValue() < worst.PointValue() {
		return DrawDecision{Keep: true, Slot: slot}
	}
	return DrawDecision{}
}

// DecideRuleUsage peeks its first unknown slot, peeks a random opponent
// card, or blind-switches its worst known card for a random opponent card.
// Black-king follows the blind-switch line after peeking.
func (Medium) DecideRuleUsage(v *View, rule deck.RuleKind) RuleDecision {
	switch rule {
	case deck.RulePeekOwn:
		unknown := v.unknownSlots()
		if len(unknown) == 0 {
			return RuleDecision{}
		}
		return RuleDecision{Use: true, OwnSlot: unknown[0]}

	case deck.RulePeekOther:
		target, slot, ok := randomOpponentSlot(v)
		if !ok {
			return RuleDecision{}
		}
		return RuleDecision{Use: true, TargetID: target, TargetSlot: slot}

	case deck.RuleBlindSwitch:
		slot, worst, ok := v.worstKnown()
		if !ok || worst.PointValue() <= unknownValue {
			// Nothing known bad enough to be worth gambling away.
			return RuleDecision{}
		}
		target, targetSlot, okT := randomOpponentSlot(v)
		if !okT {
			return RuleDecision{}
		}
		return RuleDecision{Use: true, AID: v.Self, ASlot: slot, BID: target, BSlot: targetSlot}

	case deck.RuleBlackKing:
		slot, worst, ok := v.worstKnown()
		if !ok {
			unknown := v.unknownSlots()
			if len(unknown) == 0 {
				return RuleDecision{}
			}
			slot = unknown[0]
			worst = deck.Card{}
		}
		target, targetSlot, okT := randomOpponentSlot(v)
		if !okT {
			return RuleDecision{}
		}
		// Peek own worst against an opponent card; the driver decides
		// the switch from the revealed values.
		doSwitch := worst.PointValue() > unknownValue
		return RuleDecision{Use: true, AID: v.Self, ASlot: slot, BID: target, BSlot: targetSlot, DoSwitch: doSwitch}
	}
	return RuleDecision{}
}

// ShouldMatchOwn matches exactly when memory says the ranks are equal.
func (Medium) ShouldMatchOwn(v *View, slot int, known deck.Card, top deck.Card) bool {
	return known.Rank == top.Rank
}
