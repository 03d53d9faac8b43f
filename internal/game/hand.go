package game

import (
	"github.com/redkinggame/redking/internal/deck"
)

// InitialHandSize is the number of slots dealt to every player.
const InitialHandSize = 4

// Hand is an ordered sequence of slots. A slot holds a card or a gap (nil).
// Gaps are produced by successful matches and are preserved so slot
// positions stay stable for the life of the hand. Penalty cards refill the
// first gap before the hand is allowed to grow past its dealt size.
type Hand struct {
	slots []*deck.Card
}

// NewHand creates an empty hand.
func NewHand() *Hand {
	return &Hand{slots: make([]*deck.Card, 0, InitialHandSize)}
}

// Deal appends a card as a fresh slot during the initial deal.
func (h *Hand) Deal(c deck.Card) {
	card := c
	h.slots = append(h.slots, &card)
}

// AddCard writes the card into the first gap; if no gap exists the hand
// grows by one slot. Returns the slot index used.
func (h *Hand) AddCard(c deck.Card) int {
	card := c
	for i, slot := range h.slots {
		if slot == nil {
			h.slots[i] = &card
			return i
		}
	}
	h.slots = append(h.slots, &card)
	return len(h.slots) - 1
}

// RemoveAt empties slot i, leaving a gap in place. Returns the removed card.
func (h *Hand) RemoveAt(i int) (deck.Card, bool) {
	if i < 0 || i >= len(h.slots) || h.slots[i] == nil {
		return deck.Card{}, false
	}
	card := *h.slots[i]
	h.slots[i] = nil
	return card, true
}

// CardAt returns the card at slot i, if the slot is occupied.
func (h *Hand) CardAt(i int) (deck.Card, bool) {
	if i < 0 || i >= len(h.slots) || h.slots[i] == nil {
		return deck.Card{}, false
	}
	return *h.slots[i], true
}

// ReplaceAt swaps the card at slot i for the given card and returns the old
// one. The slot must be occupied.
func (h *Hand) ReplaceAt(i int, c deck.Card) (deck.Card, bool) {
	if i < 0 || i >= len(h.slots) || h.slots[i] == nil {
		return deck.Card{}, false
	}
	old := *h.slots[i]
	card := c
	h.slots[i] = &card
	return old, true
}

// SwapBetween exchanges the cards at a.slots[ia] and b.slots[ib]. Both
// slots must be occupied; a and b may be the same hand.
func SwapBetween(a *Hand, ia int, b *Hand, ib int) bool {
	if ia < 0 || ia >= len(a.slots) || a.slots[ia] == nil {
		return false
	}
	if ib < 0 || ib >= len(b.slots) || b.slots[ib] == nil {
		return false
	}
	a.slots[ia], b.slots[ib] = b.slots[ib], a.slots[ia]
	return true
}

// Layout returns one boolean per slot, true where the slot is occupied.
// Clients use this to reserve grid space without learning card identity.
func (h *Hand) Layout() []bool {
	layout := make([]bool, len(h.slots))
	for i, slot := range h.slots {
		layout[i] = slot != nil
	}
	return layout
}

// Slots returns the hand as dealt, gaps included (nil entries). The result
// marshals with explicit nulls so clients keep positional identity.
func (h *Hand) Slots() []*deck.Card {
	return h.slots
}

// Cards returns the occupied cards in slot order.
func (h *Hand) Cards() []deck.Card {
	cards := make([]deck.Card, 0, len(h.slots))
	for _, slot := range h.slots {
		if slot != nil {
			cards = append(cards, *slot)
		}
	}
	return cards
}

// Count returns the number of occupied slots.
func (h *Hand) Count() int {
	n := 0
	for _, slot := range h.slots {
		if slot != nil {
			n++
		}
	}
	return n
}

// Len returns the total slot count, gaps included.
func (h *Hand) Len() int {
	return len(h.slots)
}

// Score sums the point values of the occupied slots.
func (h *Hand) Score() int {
	score := 0
	for _, slot := range h.slots {
		if slot != nil {
			score += slot.PointValue()
		}
	}
	return score
}
