package deck

import "fmt"

// Suit represents a card suit. Jokers carry their own pseudo-suit so that
// every card in the 54-card deck has a stable identity.
type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
	Jokers   Suit = "joker"
)

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Joker Rank = "Joker"
)

// Card represents a playing card. ID is stable for the life of a game and
// distinguishes the two jokers from each other.
type Card struct {
	ID   string `json:"id"`
	Suit Suit   `json:"suit"`
	Rank Rank   `json:"rank"`
}

// NewCard creates a new card with a suit-rank derived ID.
func NewCard(suit Suit, rank Rank) Card {
	return Card{
		ID:   fmt.Sprintf("%s-%s", suit, rank),
		Suit: suit,
		Rank: rank,
	}
}

// NewJoker creates one of the two jokers; n disambiguates them.
func NewJoker(n int) Card {
	return Card{
		ID:   fmt.Sprintf("joker-%d", n),
		Suit: Jokers,
		Rank: Joker,
	}
}

// String returns the string representation of a card (e.g., "K♥")
func (c Card) String() string {
	if c.Rank == Joker {
		return "Joker"
	}
	var glyph string
	switch c.Suit {
	case Hearts:
		glyph = "♥"
	case Diamonds:
		glyph = "♦"
	case Clubs:
		glyph = "♣"
	case Spades:
		glyph = "♠"
	default:
		glyph = "?"
	}
	return fmt.Sprintf("%s%s", c.Rank, glyph)
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// IsRedKing returns true for the two negative-value kings.
func (c Card) IsRedKing() bool {
	return c.Rank == King && c.Suit.IsRed()
}

// PointValue returns the scoring value of the card. Red kings are the only
// negative card in the game.
func (c Card) PointValue() int {
	switch c.Rank {
	case Joker:
		return 0
	case Ace:
		return 1
	case Two:
		return 2
	case Three:
		return 3
	case Four:
		return 4
	case Five:
		return 5
	case Six:
		return 6
	case Seven:
		return 7
	case Eight:
		return 8
	case Nine:
		return 9
	case Ten, Jack, Queen:
		return 10
	case King:
		if c.Suit.IsRed() {
			return -1
		}
		return 10
	default:
		return 0
	}
}

// RuleKind classifies the rule a card triggers when discarded straight from
// a draw.
type RuleKind int

const (
	RuleNone RuleKind = iota
	RulePeekOwn
	RulePeekOther
	RuleBlindSwitch
	RuleBlackKing
)

// String returns the wire identifier for the rule kind.
func (r RuleKind) String() string {
	switch r {
	case RulePeekOwn:
		return "peek-own"
	case RulePeekOther:
		return "peek-other"
	case RuleBlindSwitch:
		return "blind-switch"
	case RuleBlackKing:
		return "black-king"
	default:
		return "none"
	}
}

// RuleType returns the rule the card carries. Red kings carry no rule.
func (c Card) RuleType() RuleKind {
	switch c.Rank {
	case Seven, Eight:
		return RulePeekOwn
	case Nine, Ten:
		return RulePeekOther
	case Jack, Queen:
		return RuleBlindSwitch
	case King:
		if c.Suit.IsRed() {
			return RuleNone
		}
		return RuleBlackKing
	default:
		return RuleNone
	}
}

// HasRule reports whether discarding the card triggers a rule.
func (c Card) HasRule() bool {
	return c.RuleType() != RuleNone
}
