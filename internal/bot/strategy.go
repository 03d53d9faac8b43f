// Package bot contains the CPU player strategies. Strategies are pure
// decision functions over a read-only view of the room; the server's bot
// driver owns scheduling and feeds decisions back through the same rule
// engine as human commands.
package bot

import (
	rand "math/rand/v2"

	"github.com/redkinggame/redking/internal/deck"
	"github.com/redkinggame/redking/internal/game"
	"github.com/redkinggame/redking/internal/room"
)

// unknownValue is the score assumed for a slot the bot has not seen.
// Slightly above the deck mean, so unseen cards are treated with caution.
const unknownValue = 6

// View is the read-only slice of room state a strategy sees. It is only
// valid while the registry lock is held.
type View struct {
	Self   string
	Room   *room.Room
	Game   *game.State
	Memory *Memory
	Rng    *rand.Rand
}

// DrawDecision says what to do with a freshly drawn card.
type DrawDecision struct {
	Keep bool
	Slot int // slot to replace when keeping
}

// RuleDecision says whether and how to use a triggered rule. The fields
// used depend on the rule kind: OwnSlot for peek-own, Target*/TargetSlot
// for peek-other, the A/B endpoints for blind-switch and black-king.
// DoSwitch is the black-king second-step decision.
type RuleDecision struct {
	Use bool

	OwnSlot    int
	TargetID   string
	TargetSlot int

	AID   string
	ASlot int
	BID   string
	BSlot int

	DoSwitch bool
}

// Strategy is the capability set of a CPU player. Implementations must not
// mutate anything reachable from the view.
type Strategy interface {
	ShouldCallRedKing(v *View) bool
	DecideKeepOrDiscard(v *View, drawn deck.Card) DrawDecision
	DecideRuleUsage(v *View, rule deck.RuleKind) RuleDecision
	ShouldMatchOwn(v *View, slot int, known deck.Card, top deck.Card) bool
}

// ForDifficulty maps a difficulty name to a built-in strategy. Unknown
// difficulties fall back to medium.
func ForDifficulty(difficulty string) Strategy {
	switch difficulty {
	case "easy":
		return Easy{}
	case "hard":
		return Hard{}
	default:
		return Medium{}
	}
}

// Hand returns the bot's own hand, or nil when it is not in the game.
func (v *View) Hand() *game.Hand {
	return v.Game.Hands[v.Self]
}

// Opponents returns every other player still holding a hand, excluding the
// protected Red King caller.
func (v *View) Opponents() []*room.Player {
	var opps []*room.Player
	for _, p := range v.Room.Players {
		if p.ID == v.Self || v.Game.Protected(p.ID) {
			continue
		}
		if _, ok := v.Game.Hands[p.ID]; ok {
			opps = append(opps, p)
		}
	}
	return opps
}

// unknownSlots lists the bot's occupied slots it has no memory of.
func (v *View) unknownSlots() []int {
	hand := v.Hand()
	if hand == nil {
		return nil
	}
	var slots []int
	for i, occupied := range hand.Layout() {
		if !occupied {
			continue
		}
		if _, known := v.Memory.Recall(v.Self, i); !known {
			slots = append(slots, i)
		}
	}
	return slots
}

// knownOwn returns the bot's remembered own cards by slot.
func (v *View) knownOwn() map[int]deck.Card {
	hand := v.Hand()
	if hand == nil {
		return nil
	}
	known := make(map[int]deck.Card)
	for i, occupied := range hand.Layout() {
		if !occupied {
			continue
		}
		if card, ok := v.Memory.Recall(v.Self, i); ok {
			known[i] = card
		}
	}
	return known
}

// estimate scores the bot's hand from memory, pricing unknown slots at
// unknownValue.
func (v *View) estimate() int {
	hand := v.Hand()
	if hand == nil {
		return 0
	}
	total := 0
	for i, occupied := range hand.Layout() {
		if !occupied {
			continue
		}
		if card, ok := v.Memory.Recall(v.Self, i); ok {
			total += card.PointValue()
		} else {
			total += unknownValue
		}
	}
	return total
}

// worstKnown returns the remembered own slot with the highest point value.
func (v *View) worstKnown() (slot int, card deck.Card, ok bool) {
	slot = -1
	for i, c := range v.knownOwn() {
		if slot == -1 || c.PointValue() > card.PointValue() {
			slot, card, ok = i, c, true
		}
	}
	return slot, card, ok
}

// randomOccupiedSlot picks a uniformly random occupied slot of the hand.
func randomOccupiedSlot(hand *game.Hand, rng *rand.Rand) (int, bool) {
	var occupied []int
	for i, filled := range hand.Layout() {
		if filled {
			occupied = append(occupied, i)
		}
	}
	if len(occupied) == 0 {
		return 0, false
	}
	return occupied[rng.IntN(len(occupied))], true
}
