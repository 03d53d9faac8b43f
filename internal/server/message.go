package server

import (
	"encoding/json"

	"github.com/redkinggame/redking/internal/deck"
	"github.com/redkinggame/redking/internal/room"
)

// Message is the wire frame: an event name and a structured payload.
// Commands (client -> server) and events (server -> client) share the
// shape.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewMessage builds a message, marshalling the payload.
func NewMessage(event string, data any) (*Message, error) {
	if data == nil {
		return &Message{Event: event}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{Event: event, Data: raw}, nil
}

// Client -> server command names.
const (
	CmdHostGame           = "host-game"
	CmdJoinGame           = "join-game"
	CmdStartGame          = "start-game"
	CmdEndGame            = "end-game"
	CmdLeaveRoom          = "leave-room"
	CmdListRooms          = "list-rooms"
	CmdPeekDone           = "peek-done"
	CmdDrawCard           = "draw-card"
	CmdKeepCard           = "keep-card"
	CmdDiscardCard        = "discard-card"
	CmdSkipRule           = "skip-rule"
	CmdUsePeekOwn         = "use-peek-own"
	CmdUsePeekOther       = "use-peek-other"
	CmdFinishPeek         = "finish-peek"
	CmdUseBlindSwitch     = "use-blind-switch"
	CmdUseBlackKingPeek   = "use-black-king-peek"
	CmdUseBlackKingSwitch = "use-black-king-switch"
	CmdUseBlackKingSkip   = "use-black-king-skip"
	CmdCallMatchOwn       = "call-match-own"
	CmdCallMatchOther     = "call-match-other"
	CmdGiveCardAfterMatch = "give-card-after-match"
	CmdCallRedKing        = "call-red-king"
	CmdAddCpuPlayer       = "add-cpu-player"
)

// Server -> client event names.
const (
	EventRoomCreated         = "room-created"
	EventRoomJoined          = "room-joined"
	EventRoomList            = "room-list"
	EventPlayerListUpdated   = "player-list-updated"
	EventHostChanged         = "host-changed"
	EventGameStarted         = "game-started"
	EventCardsDealt          = "cards-dealt"
	EventPlayerPeekDone      = "player-peek-done"
	EventPhaseChanged        = "phase-changed"
	EventCardDrawn           = "card-drawn"
	EventOpponentDrew        = "opponent-drew"
	EventHandUpdated         = "hand-updated"
	EventCardDiscarded       = "card-discarded"
	EventTurnUpdate          = "turn-update"
	EventExecuteRule         = "execute-rule"
	EventPeekResult          = "peek-result"
	EventBlackKingPeekResult = "black-king-peek-result"
	EventCardsHighlighted    = "cards-highlighted"
	EventMatchResult         = "match-result"
	EventHandLayoutsUpdated  = "hand-layouts-updated"
	EventGameResults         = "game-results"
	EventGameEnded           = "game-ended"
	EventYouLeft             = "you-left"
	EventJoinError           = "join-error"
)

// Command payloads.

type HostGameData struct {
	Name string `json:"name"`
}

type JoinGameData struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type SlotData struct {
	SlotIndex int `json:"slotIndex"`
}

type TargetSlotData struct {
	TargetID  string `json:"targetId"`
	SlotIndex int    `json:"slotIndex"`
}

// SwitchData names two slots in two hands for blind-switch and the
// black-king peek/switch pair.
type SwitchData struct {
	PlayerA string `json:"playerA"`
	SlotA   int    `json:"slotA"`
	PlayerB string `json:"playerB"`
	SlotB   int    `json:"slotB"`
}

type GiveCardData struct {
	OwnSlot    int    `json:"ownSlot"`
	TargetID   string `json:"targetId"`
	TargetSlot int    `json:"targetSlot"`
}

type AddCpuData struct {
	Difficulty string `json:"difficulty"`
}

// Event payloads. Field names are part of the deployed protocol; a client
// already speaks these.

type RoomInfoData struct {
	Code    string         `json:"code"`
	Players []*room.Player `json:"players"`
	Self    *room.Player   `json:"self"`
}

type RoomSummary struct {
	Code        string `json:"code"`
	PlayerCount int    `json:"playerCount"`
	State       string `json:"state"`
}

type RoomListData struct {
	Rooms []RoomSummary `json:"rooms"`
}

type PlayerListData struct {
	Players []*room.Player `json:"players"`
}

type HostChangedData struct {
	HostID string `json:"hostId"`
}

type GameStartedData struct {
	Phase string `json:"phase"`
}

// OpponentInfo carries counts only; opponents never see cards.
type OpponentInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CardCount int    `json:"cardCount"`
}

type CardsDealtData struct {
	Hand      []*deck.Card   `json:"hand"`
	Phase     string         `json:"phase"`
	DeckCount int            `json:"deckCount"`
	Opponents []OpponentInfo `json:"opponents"`
}

type PlayerPeekDoneData struct {
	PlayerID string `json:"playerId"`
}

type PhaseChangedData struct {
	Phase       string     `json:"phase"`
	CurrentTurn string     `json:"currentTurn"`
	TopDiscard  *deck.Card `json:"topDiscard"`
}

type CardDrawnData struct {
	Card     deck.Card `json:"card"`
	HasRule  bool      `json:"hasRule"`
	RuleType string    `json:"ruleType"`
}

type OpponentDrewData struct {
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
	DeckCount int    `json:"deckCount"`
}

type HandUpdatedData struct {
	Hand []*deck.Card `json:"hand"`
}

type CardDiscardedData struct {
	PlayerID string    `json:"playerId"`
	Card     deck.Card `json:"card"`
	Action   string    `json:"action"`
}

type TurnUpdateData struct {
	CurrentTurn string     `json:"currentTurn"`
	DeckCount   int        `json:"deckCount"`
	TopDiscard  *deck.Card `json:"topDiscard"`
}

type ExecuteRuleData struct {
	RuleType string    `json:"ruleType"`
	Card     deck.Card `json:"card"`
}

type PeekResultData struct {
	Card      deck.Card `json:"card"`
	SlotIndex int       `json:"slotIndex"`
	TargetID  string    `json:"targetId,omitempty"`
}

type BlackKingPeekResultData struct {
	CardA   deck.Card `json:"cardA"`
	SlotA   int       `json:"slotA"`
	TargetA string    `json:"targetA"`
	CardB   deck.Card `json:"cardB"`
	SlotB   int       `json:"slotB"`
	TargetB string    `json:"targetB"`
}

type HighlightedCard struct {
	PlayerID  string `json:"playerId"`
	SlotIndex int    `json:"slotIndex"`
}

type CardsHighlightedData struct {
	Cards []HighlightedCard `json:"cards"`
	Kind  string            `json:"kind"` // swap, switch or match
}

type MatchResultData struct {
	CallerID string    `json:"callerId"`
	TargetID string    `json:"targetId,omitempty"`
	Card     deck.Card `json:"card"`
	Success  bool      `json:"success"`
	Type     string    `json:"type"` // own or other
}

type HandLayoutsData struct {
	Layouts map[string][]bool `json:"layouts"`
}

type PlayerResult struct {
	PlayerID string       `json:"playerId"`
	Name     string       `json:"name"`
	Score    int          `json:"score"`
	Hand     []*deck.Card `json:"hand"`
}

type GameResultsData struct {
	Results  []PlayerResult `json:"results"`
	WinnerID string         `json:"winnerId"`
	CallerID string         `json:"callerId,omitempty"`
}

type GameEndedData struct {
	Players []*room.Player `json:"players"`
}

type JoinErrorData struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
