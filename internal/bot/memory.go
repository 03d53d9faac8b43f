package bot

import (
	"github.com/redkinggame/redking/internal/deck"
)

// SlotKey addresses a single hand slot: the bot's own slots use the bot's
// id, opponent slots the opponent's.
type SlotKey struct {
	PlayerID string
	Slot     int
}

// Memory is what a bot believes about card positions. It is updated from
// the same private events a human would see (initial peek, rule peeks,
// kept cards, penalty cards) and invalidated when someone else switches a
// card into a remembered slot.
type Memory struct {
	cards map[SlotKey]deck.Card
}

// NewMemory returns an empty memory.
func NewMemory() *Memory {
	return &Memory{cards: make(map[SlotKey]deck.Card)}
}

// Remember records a card at a slot.
func (m *Memory) Remember(playerID string, slot int, card deck.Card) {
	m.cards[SlotKey{PlayerID: playerID, Slot: slot}] = card
}

// Recall returns the remembered card for a slot, if any.
func (m *Memory) Recall(playerID string, slot int) (deck.Card, bool) {
	card, ok := m.cards[SlotKey{PlayerID: playerID, Slot: slot}]
	return card, ok
}

// Forget drops the memory of a single slot.
func (m *Memory) Forget(playerID string, slot int) {
	delete(m.cards, SlotKey{PlayerID: playerID, Slot: slot})
}

// ForgetPlayer drops everything remembered about one player's hand.
func (m *Memory) ForgetPlayer(playerID string) {
	for key := range m.cards {
		if key.PlayerID == playerID {
			delete(m.cards, key)
		}
	}
}

// Known returns a copy of every remembered slot.
func (m *Memory) Known() map[SlotKey]deck.Card {
	out := make(map[SlotKey]deck.Card, len(m.cards))
	for k, v := range m.cards {
		out[k] = v
	}
	return out
}

// Len returns the number of remembered slots.
func (m *Memory) Len() int {
	return len(m.cards)
}
