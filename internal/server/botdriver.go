package server

import (
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/redkinggame/redking/internal/bot"
	"github.com/redkinggame/redking/internal/deck"
	"github.com/redkinggame/redking/internal/game"
	"github.com/redkinggame/redking/internal/room"
)

// DefaultBotDelay is how long a bot "thinks" before taking its turn.
const DefaultBotDelay = 1500 * time.Millisecond

// botKey addresses one CPU player. Bot ids are only unique per room.
type botKey struct {
	Room string
	Bot  string
}

// BotDriver runs CPU players through the same controller internals as
// human commands. Timers fire on the quartz clock and re-enter under the
// registry lock, so bot actions never interleave with human ones.
type BotDriver struct {
	registry *room.Registry
	ctrl     *Controller
	clock    quartz.Clock
	delay    time.Duration
	logger   *log.Logger
	rng      *rand.Rand

	strategies map[botKey]bot.Strategy
	memories   map[botKey]*bot.Memory
	scanning   bool
}

// NewBotDriver creates a driver. The rng is shared with the controller
// and only used under the registry lock.
func NewBotDriver(registry *room.Registry, clock quartz.Clock, delay time.Duration, rng *rand.Rand, logger *log.Logger) *BotDriver {
	if delay <= 0 {
		delay = DefaultBotDelay
	}
	return &BotDriver{
		registry:   registry,
		clock:      clock,
		delay:      delay,
		logger:     logger.WithPrefix("bots"),
		rng:        rng,
		strategies: make(map[botKey]bot.Strategy),
		memories:   make(map[botKey]*bot.Memory),
	}
}

// SetController wires the controller. Must be called before any bot is
// added.
func (d *BotDriver) SetController(ctrl *Controller) {
	d.ctrl = ctrl
}

// BotAdded registers a strategy for a freshly created CPU player.
func (d *BotDriver) BotAdded(r *room.Room, p *room.Player) {
	d.strategies[botKey{Room: r.Code, Bot: p.ID}] = bot.ForDifficulty(p.Difficulty)
}

// PlayerLeft drops driver state for a departed player or a deleted room.
func (d *BotDriver) PlayerLeft(res room.LeaveResult) {
	if res.RoomDeleted {
		for key := range d.strategies {
			if key.Room == res.Room.Code {
				delete(d.strategies, key)
				delete(d.memories, key)
			}
		}
		return
	}
	if res.Player != nil && res.Player.IsCpu {
		key := botKey{Room: res.Room.Code, Bot: res.Player.ID}
		delete(d.strategies, key)
		delete(d.memories, key)
	}
}

// InitGame seeds a bot's memory at game start: it peeks its bottom two
// slots, same as the initial peek a human gets.
func (d *BotDriver) InitGame(r *room.Room, p *room.Player) {
	key := botKey{Room: r.Code, Bot: p.ID}
	mem := bot.NewMemory()
	d.memories[key] = mem

	hand := r.Game.Hands[p.ID]
	if hand == nil {
		return
	}
	for _, slot := range []int{2, 3} {
		if card, ok := hand.CardAt(slot); ok {
			mem.Remember(p.ID, slot, card)
		}
	}
}

// GameEnded clears per-game memories for the room's bots.
func (d *BotDriver) GameEnded(r *room.Room) {
	for key := range d.memories {
		if key.Room == r.Code {
			delete(d.memories, key)
		}
	}
}

// ScheduleTurn arms the turn timer when the current turn belongs to a
// bot. The pending guard stops stacked timers when several events
// schedule in quick succession.
func (d *BotDriver) ScheduleTurn(r *room.Room) {
	g := r.Game
	if g == nil || !g.InPlayablePhase() || g.PendingBotTurn {
		return
	}
	p := r.Player(g.CurrentTurn())
	if p == nil || !p.IsCpu {
		return
	}

	g.PendingBotTurn = true
	code := r.Code
	d.clock.AfterFunc(d.delay, func() {
		d.runTurn(code)
	})
}

// runTurn executes one full bot turn. It re-checks everything on fire:
// the room, the game and the turn may all have changed while the timer
// was pending.
func (d *BotDriver) runTurn(code string) {
	d.registry.Lock()
	defer d.registry.Unlock()

	r, ok := d.registry.Get(code)
	if !ok || r.Game == nil {
		return
	}
	g := r.Game
	g.PendingBotTurn = false
	if !g.InPlayablePhase() {
		return
	}

	pid := g.CurrentTurn()
	p := r.Player(pid)
	if p == nil || !p.IsCpu {
		return
	}

	key := botKey{Room: code, Bot: pid}
	strat := d.strategy(key)
	mem := d.memory(key, r, p)
	v := &bot.View{Self: pid, Room: r, Game: g, Memory: mem, Rng: d.rng}

	if g.Phase == game.PhasePlay && strat.ShouldCallRedKing(v) {
		if d.ctrl.execCallRedKing(r, pid) {
			return
		}
	}

	if !g.CanDraw(pid) {
		return
	}
	drawn, err := g.DrawCard(pid)
	if err != nil {
		// Deck ran dry; same as the human path, the turn just passes.
		d.ctrl.advanceTurn(r)
		return
	}
	d.ctrl.broadcastExcept(r, pid, EventOpponentDrew, OpponentDrewData{
		PlayerID:  pid,
		Name:      p.Name,
		DeckCount: g.Deck.Len(),
	})

	if dec := strat.DecideKeepOrDiscard(v, drawn); dec.Keep {
		if old, kept := g.KeepDrawn(pid, dec.Slot); kept {
			d.CardReplaced(r, pid, dec.Slot)
			mem.Remember(pid, dec.Slot, drawn)
			d.ctrl.broadcast(r, EventCardDiscarded, CardDiscardedData{PlayerID: pid, Card: old, Action: "keep"})
			d.ctrl.advanceTurn(r)
			d.ScanMatches(r)
			return
		}
	}

	discarded, rule, ok := g.DiscardDrawn(pid)
	if !ok {
		return
	}
	d.ctrl.broadcast(r, EventCardDiscarded, CardDiscardedData{PlayerID: pid, Card: discarded, Action: "discard"})
	if rule != deck.RuleNone {
		d.applyRule(r, pid, strat, mem, v, rule)
	}
	d.ctrl.advanceTurn(r)
	d.ScanMatches(r)
}

// applyRule resolves a triggered rule synchronously within the bot's
// turn. Peeks only touch memory; switches go through the controller so
// the room sees the same events a human switch produces.
func (d *BotDriver) applyRule(r *room.Room, pid string, strat bot.Strategy, mem *bot.Memory, v *bot.View, rule deck.RuleKind) {
	g := r.Game
	rd := strat.DecideRuleUsage(v, rule)
	if !rd.Use {
		return
	}

	switch rule {
	case deck.RulePeekOwn:
		if card, ok := g.PeekOwn(pid, rd.OwnSlot); ok {
			mem.Remember(pid, rd.OwnSlot, card)
		}

	case deck.RulePeekOther:
		if card, ok := g.PeekOther(pid, rd.TargetID, rd.TargetSlot); ok {
			mem.Remember(rd.TargetID, rd.TargetSlot, card)
		}

	case deck.RuleBlindSwitch:
		d.ctrl.execSwitch(r, SwitchData{PlayerA: rd.AID, SlotA: rd.ASlot, PlayerB: rd.BID, SlotB: rd.BSlot})

	case deck.RuleBlackKing:
		cardA, cardB, ok := g.BlackKingPeek(rd.AID, rd.ASlot, rd.BID, rd.BSlot)
		if !ok {
			return
		}
		mem.Remember(rd.AID, rd.ASlot, cardA)
		mem.Remember(rd.BID, rd.BSlot, cardB)

		// The peek settles the switch: with one of its own slots in the
		// pair, the bot switches exactly when the other card is better.
		doSwitch := rd.DoSwitch
		switch pid {
		case rd.AID:
			doSwitch = cardB.PointValue() < cardA.PointValue()
		case rd.BID:
			doSwitch = cardA.PointValue() < cardB.PointValue()
		}
		if doSwitch {
			d.ctrl.execSwitch(r, SwitchData{PlayerA: rd.AID, SlotA: rd.ASlot, PlayerB: rd.BID, SlotB: rd.BSlot})
		}
	}
}

// ScanMatches gives every bot one shot at matching the current top of
// the discard pile. Called after any event that changes the top; at most
// one attempt per bot per call, successful or not.
func (d *BotDriver) ScanMatches(r *room.Room) {
	if d.scanning {
		return
	}
	d.scanning = true
	defer func() { d.scanning = false }()

	g := r.Game
	if g == nil || !g.InPlayablePhase() {
		return
	}
	top, ok := g.TopDiscard()
	if !ok {
		return
	}

	for _, p := range r.Players {
		if !p.IsCpu || g.Protected(p.ID) {
			continue
		}
		hand := g.Hands[p.ID]
		if hand == nil {
			continue
		}

		key := botKey{Room: r.Code, Bot: p.ID}
		strat := d.strategy(key)
		mem := d.memory(key, r, p)
		v := &bot.View{Self: p.ID, Room: r, Game: g, Memory: mem, Rng: d.rng}

		for i, filled := range hand.Layout() {
			if !filled {
				continue
			}
			known, remembered := mem.Recall(p.ID, i)
			if !remembered || known.Rank != top.Rank {
				continue
			}
			if !strat.ShouldMatchOwn(v, i, known, top) {
				continue
			}
			if _, matched := d.ctrl.execMatchOwn(r, p.ID, i); matched {
				d.logger.Debug("Bot matched", "room", r.Code, "bot", p.ID, "slot", i)
			}
			break
		}

		// A successful match changed the top; later bots see the new one.
		if top, ok = g.TopDiscard(); !ok {
			return
		}
	}
}

// Memory hooks: keep every bot's beliefs in sync with public events.

// CardReplaced invalidates all beliefs about a slot whose occupant was
// exchanged for an unseen card.
func (d *BotDriver) CardReplaced(r *room.Room, pid string, slot int) {
	d.eachMemory(r, func(mem *bot.Memory) {
		mem.Forget(pid, slot)
	})
}

// CardRemoved invalidates beliefs about a slot that became a gap.
func (d *BotDriver) CardRemoved(r *room.Room, pid string, slot int) {
	d.eachMemory(r, func(mem *bot.Memory) {
		mem.Forget(pid, slot)
	})
}

// CardsSwitched moves beliefs along with the cards.
func (d *BotDriver) CardsSwitched(r *room.Room, a string, ia int, b string, ib int) {
	d.eachMemory(r, func(mem *bot.Memory) {
		cardA, okA := mem.Recall(a, ia)
		cardB, okB := mem.Recall(b, ib)
		mem.Forget(a, ia)
		mem.Forget(b, ib)
		if okA {
			mem.Remember(b, ib, cardA)
		}
		if okB {
			mem.Remember(a, ia, cardB)
		}
	})
}

// CardMoved transfers beliefs about one card to its new position.
func (d *BotDriver) CardMoved(r *room.Room, from string, fromSlot int, to string, toSlot int) {
	d.eachMemory(r, func(mem *bot.Memory) {
		card, ok := mem.Recall(from, fromSlot)
		mem.Forget(from, fromSlot)
		if ok {
			mem.Remember(to, toSlot, card)
		}
	})
}

// CardSeen records a publicly revealed card (a match attempt shows the
// card to the whole room).
func (d *BotDriver) CardSeen(r *room.Room, pid string, slot int, card deck.Card) {
	d.eachMemory(r, func(mem *bot.Memory) {
		mem.Remember(pid, slot, card)
	})
}

func (d *BotDriver) eachMemory(r *room.Room, fn func(*bot.Memory)) {
	for _, p := range r.Players {
		if !p.IsCpu {
			continue
		}
		if mem, ok := d.memories[botKey{Room: r.Code, Bot: p.ID}]; ok {
			fn(mem)
		}
	}
}

func (d *BotDriver) strategy(key botKey) bot.Strategy {
	if strat, ok := d.strategies[key]; ok {
		return strat
	}
	return bot.Medium{}
}

// memory returns the bot's memory, rebuilding a hard bot's from the
// actual hands first. Hard bots play with full information.
func (d *BotDriver) memory(key botKey, r *room.Room, p *room.Player) *bot.Memory {
	mem, ok := d.memories[key]
	if !ok {
		mem = bot.NewMemory()
		d.memories[key] = mem
	}
	if p.Difficulty != "hard" || r.Game == nil {
		return mem
	}

	mem = bot.NewMemory()
	d.memories[key] = mem
	for pid, hand := range r.Game.Hands {
		for i, filled := range hand.Layout() {
			if !filled {
				continue
			}
			if card, cardOK := hand.CardAt(i); cardOK {
				mem.Remember(pid, i, card)
			}
		}
	}
	return mem
}
