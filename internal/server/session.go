package server

import (
	"encoding/json"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/redkinggame/redking/internal/deck"
	"github.com/redkinggame/redking/internal/game"
	"github.com/redkinggame/redking/internal/room"
)

// Sender delivers an event to a single player. Ids without a live
// connection (CPU players, just-disconnected humans) are dropped without
// error.
type Sender interface {
	SendToPlayer(playerID string, msg *Message) error
}

// Controller dispatches inbound commands against the room registry and
// fans out the resulting events. Every public entry point takes the
// registry lock; everything below it assumes the lock is held. Invalid
// commands are dropped silently so stale clients cannot diverge state.
type Controller struct {
	registry *room.Registry
	sender   Sender
	bots     *BotDriver
	logger   *log.Logger
	rng      *rand.Rand
}

// NewController creates a controller over the given registry. The rng
// seeds game decks; it is only touched under the registry lock.
func NewController(registry *room.Registry, sender Sender, rng *rand.Rand, logger *log.Logger) *Controller {
	return &Controller{
		registry: registry,
		sender:   sender,
		logger:   logger.WithPrefix("session"),
		rng:      rng,
	}
}

// SetBots wires the bot driver. Must be called before Handle.
func (c *Controller) SetBots(bots *BotDriver) {
	c.bots = bots
}

// Handle processes one command from a connection. It serializes against
// every other command and every bot timer via the registry lock.
func (c *Controller) Handle(playerID, event string, data json.RawMessage) {
	c.registry.Lock()
	defer c.registry.Unlock()

	c.logger.Debug("Command", "event", event, "player", playerID)

	switch event {
	case CmdHostGame:
		var d HostGameData
		if c.decode(data, &d) {
			c.handleHostGame(playerID, d)
		}
	case CmdJoinGame:
		var d JoinGameData
		if c.decode(data, &d) {
			c.handleJoinGame(playerID, d)
		}
	case CmdListRooms:
		c.handleListRooms(playerID)
	case CmdAddCpuPlayer:
		var d AddCpuData
		if c.decode(data, &d) {
			c.handleAddCpu(playerID, d)
		}
	case CmdStartGame:
		c.handleStartGame(playerID)
	case CmdEndGame:
		c.handleEndGame(playerID)
	case CmdLeaveRoom:
		c.leave(playerID, true)
	case CmdPeekDone:
		c.handlePeekDone(playerID)
	case CmdDrawCard:
		c.handleDrawCard(playerID)
	case CmdKeepCard:
		var d SlotData
		if c.decode(data, &d) {
			c.handleKeepCard(playerID, d)
		}
	case CmdDiscardCard:
		c.handleDiscardCard(playerID)
	case CmdSkipRule:
		c.handleSkipRule(playerID)
	case CmdUsePeekOwn:
		var d SlotData
		if c.decode(data, &d) {
			c.handleUsePeekOwn(playerID, d)
		}
	case CmdUsePeekOther:
		var d TargetSlotData
		if c.decode(data, &d) {
			c.handleUsePeekOther(playerID, d)
		}
	case CmdFinishPeek:
		c.handleFinishPeek(playerID)
	case CmdUseBlindSwitch:
		var d SwitchData
		if c.decode(data, &d) {
			c.handleUseBlindSwitch(playerID, d)
		}
	case CmdUseBlackKingPeek:
		var d SwitchData
		if c.decode(data, &d) {
			c.handleBlackKingPeek(playerID, d)
		}
	case CmdUseBlackKingSwitch:
		var d SwitchData
		if c.decode(data, &d) {
			c.handleBlackKingSwitch(playerID, d)
		}
	case CmdUseBlackKingSkip:
		c.handleBlackKingSkip(playerID)
	case CmdCallMatchOwn:
		var d SlotData
		if c.decode(data, &d) {
			c.handleMatchOwn(playerID, d)
		}
	case CmdCallMatchOther:
		var d TargetSlotData
		if c.decode(data, &d) {
			c.handleMatchOther(playerID, d)
		}
	case CmdGiveCardAfterMatch:
		var d GiveCardData
		if c.decode(data, &d) {
			c.handleGiveCard(playerID, d)
		}
	case CmdCallRedKing:
		c.handleCallRedKing(playerID)
	default:
		c.logger.Debug("Unknown command", "event", event, "player", playerID)
	}
}

// Disconnect treats a dropped connection as a leave-room.
func (c *Controller) Disconnect(playerID string) {
	c.registry.Lock()
	defer c.registry.Unlock()
	c.leave(playerID, false)
}

func (c *Controller) decode(data json.RawMessage, v any) bool {
	if len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		c.logger.Debug("Malformed command payload", "error", err)
		return false
	}
	return true
}

// Lobby commands.

func (c *Controller) handleHostGame(pid string, d HostGameData) {
	name, ok := validName(d.Name)
	if !ok {
		return
	}
	r, err := c.registry.Create(pid, name)
	if err != nil {
		c.joinError(pid, err)
		return
	}
	c.logger.Info("Room created", "code", r.Code, "host", pid)
	c.sendTo(pid, EventRoomCreated, RoomInfoData{Code: r.Code, Players: r.Players, Self: r.Player(pid)})
}

func (c *Controller) handleJoinGame(pid string, d JoinGameData) {
	name, ok := validName(d.Name)
	if !ok {
		return
	}
	r, err := c.registry.Join(d.Code, pid, name)
	if err != nil {
		c.joinError(pid, err)
		return
	}
	c.logger.Info("Player joined", "code", r.Code, "player", pid, "name", name)
	c.sendTo(pid, EventRoomJoined, RoomInfoData{Code: r.Code, Players: r.Players, Self: r.Player(pid)})
	c.broadcastExcept(r, pid, EventPlayerListUpdated, PlayerListData{Players: r.Players})
}

func (c *Controller) handleListRooms(pid string) {
	rooms := c.registry.Rooms()
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Code < rooms[j].Code })

	summaries := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		summaries = append(summaries, RoomSummary{
			Code:        r.Code,
			PlayerCount: len(r.Players),
			State:       string(r.State),
		})
	}
	c.sendTo(pid, EventRoomList, RoomListData{Rooms: summaries})
}

func (c *Controller) handleAddCpu(pid string, d AddCpuData) {
	r, ok := c.registry.RoomFor(pid)
	if !ok || r.HostID != pid || r.State != room.StateWaiting {
		return
	}

	difficulty := d.Difficulty
	switch difficulty {
	case "easy", "medium", "hard":
	default:
		difficulty = "medium"
	}

	name := ""
	for i := 1; ; i++ {
		name = fmt.Sprintf("CPU %d", i)
		if !r.HasName(name) {
			break
		}
	}

	p, err := c.registry.AddBot(r, name, difficulty)
	if err != nil {
		return
	}
	c.bots.BotAdded(r, p)
	c.broadcast(r, EventPlayerListUpdated, PlayerListData{Players: r.Players})
}

func (c *Controller) handleStartGame(pid string) {
	r, ok := c.registry.RoomFor(pid)
	if !ok || r.HostID != pid || r.State != room.StateWaiting || len(r.Players) < 1 {
		return
	}

	r.State = room.StatePlaying
	r.Game = game.NewState(r.PlayerIDs(), c.rng)
	c.logger.Info("Game started", "code", r.Code, "players", len(r.Players))

	c.broadcast(r, EventGameStarted, GameStartedData{Phase: string(game.PhasePeek)})
	for _, p := range r.Players {
		hand := r.Game.Hands[p.ID]
		if hand == nil || p.IsCpu {
			continue
		}
		c.sendTo(p.ID, EventCardsDealt, CardsDealtData{
			Hand:      hand.Slots(),
			Phase:     string(game.PhasePeek),
			DeckCount: r.Game.Deck.Len(),
			Opponents: c.opponentInfo(r, p.ID),
		})
	}

	// Bots remember their bottom two cards and consent immediately.
	for _, p := range r.Players {
		if !p.IsCpu {
			continue
		}
		c.bots.InitGame(r, p)
		r.Game.MarkPeekDone(p.ID)
		c.broadcast(r, EventPlayerPeekDone, PlayerPeekDoneData{PlayerID: p.ID})
	}
	c.maybeBeginPlay(r)
}

func (c *Controller) handleEndGame(pid string) {
	r, ok := c.registry.RoomFor(pid)
	if !ok || r.HostID != pid || r.Game == nil {
		return
	}
	r.Game = nil
	r.State = room.StateWaiting
	c.bots.GameEnded(r)
	c.logger.Info("Game ended", "code", r.Code)
	c.broadcast(r, EventGameEnded, GameEndedData{Players: r.Players})
}

// leave handles both explicit leave-room and connection drops. Assumes
// the lock is held.
func (c *Controller) leave(pid string, notify bool) {
	before, hadRoom := c.registry.RoomFor(pid)
	phaseBefore := game.Phase("")
	if hadRoom && before.Game != nil {
		phaseBefore = before.Game.Phase
	}

	res, ok := c.registry.Leave(pid)
	if !ok {
		return
	}
	if notify {
		c.sendTo(pid, EventYouLeft, nil)
	}
	c.bots.PlayerLeft(res)
	if res.RoomDeleted {
		c.logger.Info("Room deleted", "code", res.Room.Code)
		return
	}

	r := res.Room
	c.broadcast(r, EventPlayerListUpdated, PlayerListData{Players: r.Players})
	if res.NewHostID != "" {
		c.broadcast(r, EventHostChanged, HostChangedData{HostID: res.NewHostID})
	}

	g := r.Game
	if g == nil {
		return
	}

	// A game cannot continue with a single hand.
	if len(r.Players) < 2 {
		r.Game = nil
		r.State = room.StateWaiting
		c.bots.GameEnded(r)
		c.broadcast(r, EventGameEnded, GameEndedData{Players: r.Players})
		return
	}

	switch g.Phase {
	case game.PhasePeek:
		// The leaver's consent is no longer required.
		c.maybeBeginPlay(r)
	case game.PhaseReveal:
		if phaseBefore != game.PhaseReveal {
			// Removing the leaver exhausted the redemption order.
			c.finishGame(r)
		}
	default:
		c.turnUpdate(r)
		c.bots.ScheduleTurn(r)
	}
}

// Game commands.

func (c *Controller) handlePeekDone(pid string) {
	r, g, ok := c.gameFor(pid)
	if !ok || !g.MarkPeekDone(pid) {
		return
	}
	c.broadcast(r, EventPlayerPeekDone, PlayerPeekDoneData{PlayerID: pid})
	c.maybeBeginPlay(r)
}

func (c *Controller) handleDrawCard(pid string) {
	r, g, ok := c.gameFor(pid)
	if !ok || !g.CanDraw(pid) || g.Stage != game.RuleStageNone {
		return
	}
	card, err := g.DrawCard(pid)
	if err != nil {
		// Deck ran dry; the turn passes without a draw.
		c.advanceTurn(r)
		return
	}
	c.sendTo(pid, EventCardDrawn, CardDrawnData{
		Card:     card,
		HasRule:  card.HasRule(),
		RuleType: card.RuleType().String(),
	})
	if p := r.Player(pid); p != nil {
		c.broadcastExcept(r, pid, EventOpponentDrew, OpponentDrewData{
			PlayerID:  pid,
			Name:      p.Name,
			DeckCount: g.Deck.Len(),
		})
	}
}

func (c *Controller) handleKeepCard(pid string, d SlotData) {
	r, g, ok := c.gameFor(pid)
	if !ok {
		return
	}
	old, ok := g.KeepDrawn(pid, d.SlotIndex)
	if !ok {
		return
	}
	c.bots.CardReplaced(r, pid, d.SlotIndex)
	c.sendHand(r, pid)
	c.broadcast(r, EventCardDiscarded, CardDiscardedData{PlayerID: pid, Card: old, Action: "keep"})
	c.advanceTurn(r)
	c.bots.ScanMatches(r)
}

func (c *Controller) handleDiscardCard(pid string) {
	r, g, ok := c.gameFor(pid)
	if !ok {
		return
	}
	card, rule, ok := g.DiscardDrawn(pid)
	if !ok {
		return
	}
	c.broadcast(r, EventCardDiscarded, CardDiscardedData{PlayerID: pid, Card: card, Action: "discard"})

	if rule != deck.RuleNone {
		// The discarder owes a rule decision before the turn moves on.
		g.BeginRule(pid, rule)
		c.sendTo(pid, EventExecuteRule, ExecuteRuleData{RuleType: rule.String(), Card: card})
		c.bots.ScanMatches(r)
		return
	}
	c.advanceTurn(r)
	c.bots.ScanMatches(r)
}

func (c *Controller) handleSkipRule(pid string) {
	r, g, ok := c.gameFor(pid)
	if !ok || g.Stage != game.RuleStageChoose || g.RuleBy != pid {
		return
	}
	g.ClearRule()
	c.advanceTurn(r)
}

func (c *Controller) handleUsePeekOwn(pid string, d SlotData) {
	_, g, ok := c.gameFor(pid)
	if !ok || !g.RuleOwedBy(pid, deck.RulePeekOwn, game.RuleStageChoose) {
		return
	}
	card, ok := g.PeekOwn(pid, d.SlotIndex)
	if !ok {
		return
	}
	g.Stage = game.RuleStageFinishPeek
	c.sendTo(pid, EventPeekResult, PeekResultData{Card: card, SlotIndex: d.SlotIndex})
}

func (c *Controller) handleUsePeekOther(pid string, d TargetSlotData) {
	_, g, ok := c.gameFor(pid)
	if !ok || !g.RuleOwedBy(pid, deck.RulePeekOther, game.RuleStageChoose) {
		return
	}
	card, ok := g.PeekOther(pid, d.TargetID, d.SlotIndex)
	if !ok {
		return
	}
	g.Stage = game.RuleStageFinishPeek
	// Only the peeker learns anything; the target gets no event.
	c.sendTo(pid, EventPeekResult, PeekResultData{Card: card, SlotIndex: d.SlotIndex, TargetID: d.TargetID})
}

func (c *Controller) handleFinishPeek(pid string) {
	r, g, ok := c.gameFor(pid)
	if !ok || g.Stage != game.RuleStageFinishPeek || g.RuleBy != pid {
		return
	}
	g.ClearRule()
	c.advanceTurn(r)
}

func (c *Controller) handleUseBlindSwitch(pid string, d SwitchData) {
	r, g, ok := c.gameFor(pid)
	if !ok || !g.RuleOwedBy(pid, deck.RuleBlindSwitch, game.RuleStageChoose) {
		return
	}
	if !c.execSwitch(r, d) {
		return
	}
	g.ClearRule()
	c.advanceTurn(r)
}

func (c *Controller) handleBlackKingPeek(pid string, d SwitchData) {
	_, g, ok := c.gameFor(pid)
	if !ok || !g.RuleOwedBy(pid, deck.RuleBlackKing, game.RuleStageChoose) {
		return
	}
	cardA, cardB, ok := g.BlackKingPeek(d.PlayerA, d.SlotA, d.PlayerB, d.SlotB)
	if !ok {
		return
	}
	g.Stage = game.RuleStageBlackKingSwitch
	c.sendTo(pid, EventBlackKingPeekResult, BlackKingPeekResultData{
		CardA: cardA, SlotA: d.SlotA, TargetA: d.PlayerA,
		CardB: cardB, SlotB: d.SlotB, TargetB: d.PlayerB,
	})
}

func (c *Controller) handleBlackKingSwitch(pid string, d SwitchData) {
	r, g, ok := c.gameFor(pid)
	if !ok || g.Stage != game.RuleStageBlackKingSwitch || g.RuleBy != pid {
		return
	}
	if !c.execSwitch(r, d) {
		return
	}
	g.ClearRule()
	c.advanceTurn(r)
}

func (c *Controller) handleBlackKingSkip(pid string) {
	r, g, ok := c.gameFor(pid)
	if !ok || g.Stage != game.RuleStageBlackKingSwitch || g.RuleBy != pid {
		return
	}
	g.ClearRule()
	c.advanceTurn(r)
}

func (c *Controller) handleMatchOwn(pid string, d SlotData) {
	r, g, ok := c.gameFor(pid)
	if !ok {
		return
	}
	out, ok := g.MatchOwn(pid, d.SlotIndex)
	if !ok {
		return
	}
	c.finishMatchOwn(r, pid, out)
	c.bots.ScanMatches(r)
}

func (c *Controller) handleMatchOther(pid string, d TargetSlotData) {
	r, g, ok := c.gameFor(pid)
	if !ok {
		return
	}
	out, ok := g.MatchOther(pid, d.TargetID, d.SlotIndex)
	if !ok {
		return
	}
	c.finishMatchOther(r, pid, d.TargetID, out)
}

func (c *Controller) handleGiveCard(pid string, d GiveCardData) {
	r, g, ok := c.gameFor(pid)
	if !ok {
		return
	}
	matched, _, givenSlot, ok := g.GiveAfterMatch(pid, d.OwnSlot, d.TargetID, d.TargetSlot)
	if !ok {
		return
	}
	c.bots.CardRemoved(r, d.TargetID, d.TargetSlot)
	c.bots.CardMoved(r, pid, d.OwnSlot, d.TargetID, givenSlot)
	c.broadcast(r, EventCardDiscarded, CardDiscardedData{PlayerID: d.TargetID, Card: matched, Action: "match"})
	c.broadcast(r, EventCardsHighlighted, CardsHighlightedData{
		Cards: []HighlightedCard{{PlayerID: pid, SlotIndex: d.OwnSlot}, {PlayerID: d.TargetID, SlotIndex: givenSlot}},
		Kind:  "swap",
	})
	c.sendHand(r, pid)
	c.sendHand(r, d.TargetID)
	c.broadcast(r, EventHandLayoutsUpdated, c.layouts(g))
	c.bots.ScanMatches(r)
}

func (c *Controller) handleCallRedKing(pid string) {
	r, _, ok := c.gameFor(pid)
	if !ok {
		return
	}
	c.execCallRedKing(r, pid)
}

// Internals shared with the bot driver. All assume the lock is held.

func (c *Controller) execCallRedKing(r *room.Room, pid string) bool {
	g := r.Game
	if !g.CallRedKing(pid) {
		return false
	}
	c.logger.Info("Red King called", "code", r.Code, "player", pid)
	c.broadcast(r, EventPhaseChanged, PhaseChangedData{
		Phase:       string(g.Phase),
		CurrentTurn: g.CurrentTurn(),
		TopDiscard:  topPtr(g),
	})
	if g.Phase == game.PhaseReveal {
		c.finishGame(r)
		return true
	}
	c.bots.ScheduleTurn(r)
	return true
}

func (c *Controller) execSwitch(r *room.Room, d SwitchData) bool {
	g := r.Game
	if !g.BlindSwitch(d.PlayerA, d.SlotA, d.PlayerB, d.SlotB) {
		return false
	}
	c.bots.CardsSwitched(r, d.PlayerA, d.SlotA, d.PlayerB, d.SlotB)
	c.broadcast(r, EventCardsHighlighted, CardsHighlightedData{
		Cards: []HighlightedCard{{PlayerID: d.PlayerA, SlotIndex: d.SlotA}, {PlayerID: d.PlayerB, SlotIndex: d.SlotB}},
		Kind:  "switch",
	})
	c.sendHand(r, d.PlayerA)
	c.sendHand(r, d.PlayerB)
	return true
}

// execMatchOwn is the bot driver's entry for an opportunistic match. The
// driver loops over candidates itself, so no rescan happens here.
func (c *Controller) execMatchOwn(r *room.Room, caller string, slot int) (game.MatchOutcome, bool) {
	out, ok := r.Game.MatchOwn(caller, slot)
	if !ok {
		return game.MatchOutcome{}, false
	}
	c.finishMatchOwn(r, caller, out)
	return out, true
}

func (c *Controller) finishMatchOwn(r *room.Room, caller string, out game.MatchOutcome) {
	g := r.Game
	c.broadcast(r, EventMatchResult, MatchResultData{
		CallerID: caller,
		Card:     out.Card,
		Success:  out.Success,
		Type:     "own",
	})

	if out.Success {
		c.bots.CardRemoved(r, caller, out.TargetSlot)
		c.broadcast(r, EventCardDiscarded, CardDiscardedData{PlayerID: caller, Card: out.Card, Action: "match"})
		c.sendHand(r, caller)
		c.broadcast(r, EventHandLayoutsUpdated, c.layouts(g))
		return
	}

	// The failed attempt revealed the card to the whole room.
	c.bots.CardSeen(r, caller, out.TargetSlot, out.Card)
	if out.PenaltyCard != nil {
		c.sendHand(r, caller)
		c.broadcast(r, EventHandLayoutsUpdated, c.layouts(g))
	}
}

func (c *Controller) finishMatchOther(r *room.Room, caller, target string, out game.MatchOutcome) {
	g := r.Game
	c.broadcast(r, EventMatchResult, MatchResultData{
		CallerID: caller,
		TargetID: target,
		Card:     out.Card,
		Success:  out.Success,
		Type:     "other",
	})

	if out.Success {
		// Nothing moves until the caller gives a card.
		c.bots.CardSeen(r, target, out.TargetSlot, out.Card)
		c.broadcast(r, EventCardsHighlighted, CardsHighlightedData{
			Cards: []HighlightedCard{{PlayerID: target, SlotIndex: out.TargetSlot}},
			Kind:  "match",
		})
		return
	}

	c.bots.CardSeen(r, target, out.TargetSlot, out.Card)
	if out.PenaltyCard != nil {
		c.sendHand(r, caller)
		c.broadcast(r, EventHandLayoutsUpdated, c.layouts(g))
	}
}

func (c *Controller) maybeBeginPlay(r *room.Room) {
	g := r.Game
	if g == nil || g.Phase != game.PhasePeek || !g.AllPeeked(r.PlayerIDs()) {
		return
	}
	g.BeginPlay()
	c.broadcast(r, EventPhaseChanged, PhaseChangedData{
		Phase:       string(g.Phase),
		CurrentTurn: g.CurrentTurn(),
		TopDiscard:  topPtr(g),
	})
	c.bots.ScheduleTurn(r)
}

// advanceTurn moves the turn and notifies the room, ending the game when
// the redemption order runs out.
func (c *Controller) advanceTurn(r *room.Room) {
	g := r.Game
	g.AdvanceTurn()
	if g.Phase == game.PhaseReveal {
		c.finishGame(r)
		return
	}
	c.turnUpdate(r)
	c.bots.ScheduleTurn(r)
}

func (c *Controller) turnUpdate(r *room.Room) {
	g := r.Game
	c.broadcast(r, EventTurnUpdate, TurnUpdateData{
		CurrentTurn: g.CurrentTurn(),
		DeckCount:   g.Deck.Len(),
		TopDiscard:  topPtr(g),
	})
}

func (c *Controller) finishGame(r *room.Room) {
	g := r.Game
	scores := g.Scores()
	winner := g.Winner()

	results := make([]PlayerResult, 0, len(g.TurnOrder))
	for _, pid := range g.TurnOrder {
		p := r.Player(pid)
		if p == nil {
			continue
		}
		hand := g.Hands[pid]
		if hand == nil {
			continue
		}
		results = append(results, PlayerResult{
			PlayerID: pid,
			Name:     p.Name,
			Score:    scores[pid],
			Hand:     hand.Slots(),
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score < results[j].Score })

	c.logger.Info("Game finished", "code", r.Code, "winner", winner)
	c.broadcast(r, EventGameResults, GameResultsData{
		Results:  results,
		WinnerID: winner,
		CallerID: g.RedKingCaller,
	})
}

// Fan-out helpers.

func (c *Controller) sendTo(pid, event string, data any) {
	msg, err := NewMessage(event, data)
	if err != nil {
		c.logger.Error("Failed to encode event", "event", event, "error", err)
		return
	}
	if err := c.sender.SendToPlayer(pid, msg); err != nil {
		c.logger.Debug("Failed to send event", "event", event, "player", pid, "error", err)
	}
}

func (c *Controller) broadcast(r *room.Room, event string, data any) {
	for _, p := range r.Players {
		if p.IsCpu {
			continue
		}
		c.sendTo(p.ID, event, data)
	}
}

func (c *Controller) broadcastExcept(r *room.Room, except, event string, data any) {
	for _, p := range r.Players {
		if p.IsCpu || p.ID == except {
			continue
		}
		c.sendTo(p.ID, event, data)
	}
}

func (c *Controller) sendHand(r *room.Room, pid string) {
	p := r.Player(pid)
	if p == nil || p.IsCpu || r.Game == nil {
		return
	}
	hand := r.Game.Hands[pid]
	if hand == nil {
		return
	}
	c.sendTo(pid, EventHandUpdated, HandUpdatedData{Hand: hand.Slots()})
}

func (c *Controller) gameFor(pid string) (*room.Room, *game.State, bool) {
	r, ok := c.registry.RoomFor(pid)
	if !ok || r.Game == nil {
		return nil, nil, false
	}
	return r, r.Game, true
}

func (c *Controller) opponentInfo(r *room.Room, selfID string) []OpponentInfo {
	opps := make([]OpponentInfo, 0, len(r.Players)-1)
	for _, p := range r.Players {
		if p.ID == selfID {
			continue
		}
		count := 0
		if hand := r.Game.Hands[p.ID]; hand != nil {
			count = hand.Count()
		}
		opps = append(opps, OpponentInfo{ID: p.ID, Name: p.Name, CardCount: count})
	}
	return opps
}

func (c *Controller) layouts(g *game.State) HandLayoutsData {
	layouts := make(map[string][]bool, len(g.Hands))
	for pid, hand := range g.Hands {
		layouts[pid] = hand.Layout()
	}
	return HandLayoutsData{Layouts: layouts}
}

func (c *Controller) joinError(pid string, err error) {
	var je room.JoinError
	if !errors.As(err, &je) {
		c.logger.Error("Unexpected join failure", "error", err)
		return
	}
	c.sendTo(pid, EventJoinError, JoinErrorData{Error: string(je), Message: je.Message()})
}

func validName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > room.MaxNameLength {
		return "", false
	}
	return name, true
}

func topPtr(g *game.State) *deck.Card {
	if top, ok := g.TopDiscard(); ok {
		return &top
	}
	return nil
}
