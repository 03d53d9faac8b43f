package game

import (
	rand "math/rand/v2"

	"github.com/redkinggame/redking/internal/deck"
)

// Phase is the stage a running game is in. The lobby ("waiting") is room
// state, not game state; a State only exists while a game is running.
type Phase string

const (
	PhasePeek       Phase = "peek"
	PhasePlay       Phase = "play"
	PhaseRedemption Phase = "redemption"
	PhaseReveal     Phase = "reveal"
)

// PendingGive tracks a successful match-other waiting for the caller to
// choose which of their own cards to give away.
type PendingGive struct {
	CallerID   string
	TargetID   string
	TargetSlot int
}

// RuleStage tracks where a discarder is inside a triggered rule. It gates
// which rule commands are accepted next.
type RuleStage int

const (
	// RuleStageNone: no rule in flight.
	RuleStageNone RuleStage = iota
	// RuleStageChoose: a rule card was discarded; waiting for use-* or
	// skip-rule.
	RuleStageChoose
	// RuleStageFinishPeek: a peek was shown; waiting for finish-peek.
	RuleStageFinishPeek
	// RuleStageBlackKingSwitch: black-king cards were peeked; waiting for
	// switch or skip.
	RuleStageBlackKingSwitch
)

// State is the canonical state of one running game. All mutation happens
// under the room registry's lock; nothing here is safe for concurrent use.
type State struct {
	Deck        *deck.Deck
	Hands       map[string]*Hand
	DiscardPile []deck.Card

	Phase    Phase
	PeekDone map[string]bool

	// TurnOrder is the room's player list rotated by one, so the player
	// after the host acts first. TurnIndex only has meaning during play.
	TurnOrder []string
	TurnIndex int

	DrawnCard *deck.Card
	DrawnBy   string

	RedKingCaller   string
	RedemptionOrder []string
	RedemptionIndex int

	Give *PendingGive

	// Stage, PendingRule and RuleBy track a discarded rule card whose
	// effect has not resolved yet. The turn cannot advance past them.
	Stage       RuleStage
	PendingRule deck.RuleKind
	RuleBy      string

	// PendingBotTurn guards against arming a second bot timer while one
	// is already scheduled for this room.
	PendingBotTurn bool
}

// NewState creates a fresh game for the given players: shuffled 54-card
// deck, four cards dealt to each hand, peek phase, turn order rotated by
// one from room insertion order.
func NewState(playerIDs []string, rng *rand.Rand) *State {
	s := &State{
		Deck:      deck.New(rng),
		Hands:     make(map[string]*Hand, len(playerIDs)),
		Phase:     PhasePeek,
		PeekDone:  make(map[string]bool),
		TurnOrder: rotateByOne(playerIDs),
	}

	for _, pid := range playerIDs {
		hand := NewHand()
		for i := 0; i < InitialHandSize; i++ {
			card, err := s.Deck.Draw()
			if err != nil {
				break
			}
			hand.Deal(card)
		}
		s.Hands[pid] = hand
	}

	return s
}

func rotateByOne(ids []string) []string {
	if len(ids) <= 1 {
		return append([]string(nil), ids...)
	}
	rotated := make([]string, 0, len(ids))
	rotated = append(rotated, ids[1:]...)
	rotated = append(rotated, ids[0])
	return rotated
}

// TopDiscard returns the top of the discard pile, if any.
func (s *State) TopDiscard() (deck.Card, bool) {
	if len(s.DiscardPile) == 0 {
		return deck.Card{}, false
	}
	return s.DiscardPile[len(s.DiscardPile)-1], true
}

// Discard pushes a card onto the discard pile.
func (s *State) Discard(c deck.Card) {
	s.DiscardPile = append(s.DiscardPile, c)
}

// CurrentTurn returns the player whose turn it is, or "" outside of the
// play and redemption phases.
func (s *State) CurrentTurn() string {
	switch s.Phase {
	case PhasePlay:
		if len(s.TurnOrder) == 0 {
			return ""
		}
		return s.TurnOrder[s.TurnIndex]
	case PhaseRedemption:
		if s.RedemptionIndex >= len(s.RedemptionOrder) {
			return ""
		}
		return s.RedemptionOrder[s.RedemptionIndex]
	default:
		return ""
	}
}

// InPlayablePhase reports whether rule-engine mutations are allowed at all.
func (s *State) InPlayablePhase() bool {
	return s.Phase == PhasePlay || s.Phase == PhaseRedemption
}

// Protected reports whether the player's hand is shielded from mutation.
// The Red King caller's hand is locked from the moment they call until the
// game ends.
func (s *State) Protected(pid string) bool {
	return s.RedKingCaller != "" && pid == s.RedKingCaller
}

// AdvanceTurn moves to the next turn, clearing any in-flight drawn card.
// During redemption the last advance flips the phase to reveal.
func (s *State) AdvanceTurn() {
	s.DrawnCard = nil
	s.DrawnBy = ""
	s.Give = nil
	s.ClearRule()

	switch s.Phase {
	case PhasePlay:
		if len(s.TurnOrder) > 0 {
			s.TurnIndex = (s.TurnIndex + 1) % len(s.TurnOrder)
		}
	case PhaseRedemption:
		s.RedemptionIndex++
		if s.RedemptionIndex >= len(s.RedemptionOrder) {
			s.Phase = PhaseReveal
		}
	}
}

// BeginRule arms a triggered rule owed by pid. The next accepted command
// from pid must resolve it.
func (s *State) BeginRule(pid string, rule deck.RuleKind) {
	s.Stage = RuleStageChoose
	s.PendingRule = rule
	s.RuleBy = pid
}

// RuleOwedBy reports whether pid owes a decision for the given rule at the
// given stage.
func (s *State) RuleOwedBy(pid string, rule deck.RuleKind, stage RuleStage) bool {
	return s.Stage == stage && s.RuleBy == pid && s.PendingRule == rule
}

// ClearRule resets the in-flight rule sub-state.
func (s *State) ClearRule() {
	s.Stage = RuleStageNone
	s.PendingRule = deck.RuleNone
	s.RuleBy = ""
}

// MarkPeekDone records the player's initial peek. Returns false if they
// had already finished peeking.
func (s *State) MarkPeekDone(pid string) bool {
	if s.Phase != PhasePeek || s.PeekDone[pid] {
		return false
	}
	s.PeekDone[pid] = true
	return true
}

// AllPeeked reports whether every listed player has finished the initial
// peek. Checked on peek-done and whenever a player leaves mid-peek.
func (s *State) AllPeeked(playerIDs []string) bool {
	for _, pid := range playerIDs {
		if !s.PeekDone[pid] {
			return false
		}
	}
	return true
}

// BeginPlay transitions peek -> play. The first turn is TurnOrder[0], the
// player after the host.
func (s *State) BeginPlay() {
	s.Phase = PhasePlay
	s.TurnIndex = 0
}

// CallRedKing transitions play -> redemption. Every non-caller gets one
// turn, starting from the player after the caller in turn order.
func (s *State) CallRedKing(pid string) bool {
	if s.Phase != PhasePlay || s.CurrentTurn() != pid || s.DrawnCard != nil {
		return false
	}

	callerIdx := -1
	for i, id := range s.TurnOrder {
		if id == pid {
			callerIdx = i
			break
		}
	}
	if callerIdx == -1 {
		return false
	}

	s.RedKingCaller = pid
	s.Phase = PhaseRedemption
	s.RedemptionOrder = make([]string, 0, len(s.TurnOrder)-1)
	s.RedemptionOrder = append(s.RedemptionOrder, s.TurnOrder[callerIdx+1:]...)
	s.RedemptionOrder = append(s.RedemptionOrder, s.TurnOrder[:callerIdx]...)
	s.RedemptionIndex = 0
	if len(s.RedemptionOrder) == 0 {
		// A solo caller has nobody to redeem against.
		s.Phase = PhaseReveal
	}
	return true
}

// RemovePlayer prunes a departed player from the running game: hand, peek
// consent, and position in the turn orders. Indices are clamped so the
// next CurrentTurn call stays valid.
func (s *State) RemovePlayer(pid string) {
	delete(s.Hands, pid)
	delete(s.PeekDone, pid)

	if s.DrawnBy == pid {
		// The in-flight card leaves with the player's turn; it goes to
		// the discard pile so conservation holds for the remaining set.
		if s.DrawnCard != nil {
			s.Discard(*s.DrawnCard)
		}
		s.DrawnCard = nil
		s.DrawnBy = ""
	}
	if s.Give != nil && (s.Give.CallerID == pid || s.Give.TargetID == pid) {
		s.Give = nil
	}
	if s.RuleBy == pid {
		s.ClearRule()
	}

	s.TurnOrder = removeID(s.TurnOrder, pid)
	if s.TurnIndex >= len(s.TurnOrder) {
		s.TurnIndex = 0
	}
	s.RedemptionOrder = removeID(s.RedemptionOrder, pid)
	if s.RedemptionIndex >= len(s.RedemptionOrder) && s.Phase == PhaseRedemption {
		s.Phase = PhaseReveal
	}
}

func removeID(ids []string, pid string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != pid {
			out = append(out, id)
		}
	}
	return out
}

// Scores returns each player's hand score.
func (s *State) Scores() map[string]int {
	scores := make(map[string]int, len(s.Hands))
	for pid, hand := range s.Hands {
		scores[pid] = hand.Score()
	}
	return scores
}

// Winner picks the lowest score. The Red King caller loses ties; among
// tied non-callers the first in turn order wins.
func (s *State) Winner() string {
	scores := s.Scores()

	best := 0
	first := true
	for _, score := range scores {
		if first || score < best {
			best = score
			first = false
		}
	}

	winner := ""
	for _, pid := range s.TurnOrder {
		if scores[pid] != best {
			continue
		}
		if pid != s.RedKingCaller {
			return pid
		}
		winner = pid
	}
	return winner
}
