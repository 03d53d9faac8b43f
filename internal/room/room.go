package room

import (
	"fmt"

	"github.com/redkinggame/redking/internal/game"
)

// MaxPlayers is the room capacity; CPU players count toward it.
const MaxPlayers = 8

// MaxNameLength bounds a trimmed player name.
const MaxNameLength = 20

// RoomState is the lobby-level state of a room.
type RoomState string

const (
	StateWaiting RoomState = "waiting"
	StatePlaying RoomState = "playing"
)

// Player is a room member. ID is the connection identity for humans and
// "bot-<n>" for CPU players.
type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsHost     bool   `json:"isHost"`
	IsCpu      bool   `json:"isCpu"`
	Difficulty string `json:"difficulty,omitempty"`
}

// Room is one game room. Player insertion order matters: it defines turn
// order when a game starts.
type Room struct {
	Code    string
	HostID  string
	Players []*Player
	State   RoomState
	Game    *game.State

	botSeq int
}

// Player returns the member with the given id, if present.
func (r *Room) Player(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// HasName reports whether a member already uses the name (case-sensitive
// exact match).
func (r *Room) HasName(name string) bool {
	for _, p := range r.Players {
		if p.Name == name {
			return true
		}
	}
	return false
}

// PlayerIDs returns member ids in insertion order.
func (r *Room) PlayerIDs() []string {
	ids := make([]string, len(r.Players))
	for i, p := range r.Players {
		ids[i] = p.ID
	}
	return ids
}

// NextBotID allocates the next bot identity for this room.
func (r *Room) NextBotID() string {
	r.botSeq++
	return botID(r.botSeq)
}

func botID(n int) string {
	return fmt.Sprintf("bot-%d", n)
}

// IsFull reports whether the room is at capacity.
func (r *Room) IsFull() bool {
	return len(r.Players) >= MaxPlayers
}
