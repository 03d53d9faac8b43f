package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrEmptyDeck is returned by Draw when no cards remain. Callers are
// expected to advance the turn without drawing.
var ErrEmptyDeck = errors.New("deck is empty")

// Size is the full Red King deck: 52 standard cards plus two jokers.
const Size = 54

// Deck represents the ordered draw pile. The top of the deck is the last
// element, so Draw pops from the end.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

var suits = []Suit{Hearts, Diamonds, Clubs, Spades}

var ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// New creates a shuffled 54-card deck using the provided rng.
func New(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, Size),
		rng:   rng,
	}

	for _, suit := range suits {
		for _, rank := range ranks {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	d.cards = append(d.cards, NewJoker(1), NewJoker(2))

	d.Shuffle()
	return d
}

// Shuffle randomizes the order of cards with a Fisher-Yates pass.
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

// Len returns the number of cards remaining.
func (d *Deck) Len() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Cards returns the remaining cards in draw order. The slice is the deck's
// own backing store; callers must not mutate it.
func (d *Deck) Cards() []Card {
	return d.cards
}
