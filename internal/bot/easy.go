package bot

import (
	"github.com/redkinggame/redking/internal/deck"
)

// Easy plays mostly at random: it keeps 40% of draws into a random slot,
// uses half the rules it triggers, coin-flips Red King calls once its
// estimated score looks low, and never matches out of turn.
type Easy struct{}

// ShouldCallRedKing coin-flips once the estimate drops under 10.
func (Easy) ShouldCallRedKing(v *View) bool {
	return v.estimate() < 10 && v.Rng.IntN(2) == 0
}

// DecideKeepOrDiscard keeps 40% of draws into a random occupied slot.
func (Easy) DecideKeepOrDiscard(v *View, drawn deck.Card) DrawDecision {
	if v.Rng.IntN(100) >= 40 {
		return DrawDecision{}
	}
	slot, ok := randomOccupiedSlot(v.Hand(), v.Rng)
	if !ok {
		return DrawDecision{}
	}
	return DrawDecision{Keep: true, Slot: slot}
}

// DecideRuleUsage uses a triggered rule half the time, always with random
// targets. Black-king peeks are never followed by a switch.
func (Easy) DecideRuleUsage(v *View, rule deck.RuleKind) RuleDecision {
	if v.Rng.IntN(2) == 0 {
		return RuleDecision{}
	}

	switch rule {
	case deck.RulePeekOwn:
		slot, ok := randomOccupiedSlot(v.Hand(), v.Rng)
		if !ok {
			return RuleDecision{}
		}
		return RuleDecision{Use: true, OwnSlot: slot}

	case deck.RulePeekOther:
		target, slot, ok := randomOpponentSlot(v)
		if !ok {
			return RuleDecision{}
		}
		return RuleDecision{Use: true, TargetID: target, TargetSlot: slot}

	case deck.RuleBlindSwitch:
		ownSlot, ok := randomOccupiedSlot(v.Hand(), v.Rng)
		if !ok {
			return RuleDecision{}
		}
		target, targetSlot, ok := randomOpponentSlot(v)
		if !ok {
			return RuleDecision{}
		}
		return RuleDecision{Use: true, AID: v.Self, ASlot: ownSlot, BID: target, BSlot: targetSlot}

	case deck.RuleBlackKing:
		target, targetSlot, ok := randomOpponentSlot(v)
		if !ok {
			return RuleDecision{}
		}
		ownSlot, ok := randomOccupiedSlot(v.Hand(), v.Rng)
		if !ok {
			return RuleDecision{}
		}
		return RuleDecision{Use: true, AID: v.Self, ASlot: ownSlot, BID: target, BSlot: targetSlot, DoSwitch: false}
	}
	return RuleDecision{}
}

// ShouldMatchOwn never matches; easy bots don't watch the discard pile.
func (Easy) ShouldMatchOwn(v *View, slot int, known deck.Card, top deck.Card) bool {
	return false
}

// randomOpponentSlot picks a random occupied slot from a random opponent.
func randomOpponentSlot(v *View) (string, int, bool) {
	opps := v.Opponents()
	if len(opps) == 0 {
		return "", 0, false
	}
	target := opps[v.Rng.IntN(len(opps))]
	slot, ok := randomOccupiedSlot(v.Game.Hands[target.ID], v.Rng)
	if !ok {
		return "", 0, false
	}
	return target.ID, slot, true
}
