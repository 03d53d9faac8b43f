package room

import (
	rand "math/rand/v2"
	"strings"
	"sync"
)

// Code alphabet omits the visually ambiguous I, O, 0 and 1.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the length of a room code.
const CodeLength = 4

// JoinError is the kind of a refused join. Exactly these five reach the
// client as a join-error event.
type JoinError string

const (
	ErrRoomNotFound   JoinError = "RoomNotFound"
	ErrGameInProgress JoinError = "GameInProgress"
	ErrRoomFull       JoinError = "RoomFull"
	ErrNameTaken      JoinError = "NameTaken"
	ErrAlreadyInRoom  JoinError = "AlreadyInRoom"
)

// Error implements the error interface.
func (e JoinError) Error() string {
	return string(e)
}

// Message returns the human-readable text sent with a join-error event.
func (e JoinError) Message() string {
	switch e {
	case ErrRoomNotFound:
		return "Room not found"
	case ErrGameInProgress:
		return "Game already in progress"
	case ErrRoomFull:
		return "Room is full"
	case ErrNameTaken:
		return "That name is already taken"
	case ErrAlreadyInRoom:
		return "You are already in this room"
	default:
		return "Unable to join room"
	}
}

// Registry owns every live room. It keeps two lookups, code -> room and
// connection -> code, both mutated together under one mutex. The same
// mutex serializes all game mutation: callers take Lock around command
// handling so bot timers and player commands cannot interleave.
type Registry struct {
	mu      sync.Mutex
	rooms   map[string]*Room
	members map[string]string // playerID -> room code
	rng     *rand.Rand
}

// NewRegistry creates an empty registry using the given rng for code
// allocation.
func NewRegistry(rng *rand.Rand) *Registry {
	return &Registry{
		rooms:   make(map[string]*Room),
		members: make(map[string]string),
		rng:     rng,
	}
}

// Lock takes the registry's serialization lock. Every command handler and
// every bot timer runs inside Lock/Unlock.
func (reg *Registry) Lock() { reg.mu.Lock() }

// Unlock releases the serialization lock.
func (reg *Registry) Unlock() { reg.mu.Unlock() }

// The methods below assume the caller holds the lock.

// Create allocates a room with a fresh code and the creator as host.
func (reg *Registry) Create(hostID, hostName string) (*Room, error) {
	if _, ok := reg.members[hostID]; ok {
		return nil, ErrAlreadyInRoom
	}

	code := reg.newCode()
	r := &Room{
		Code:   code,
		HostID: hostID,
		State:  StateWaiting,
		Players: []*Player{
			{ID: hostID, Name: hostName, IsHost: true},
		},
	}
	reg.rooms[code] = r
	reg.members[hostID] = code
	return r, nil
}

// newCode samples codes until one misses the live set. The space is
// 32^4 = ~1M so collisions are re-rolled rather than handled.
func (reg *Registry) newCode() string {
	for {
		var b strings.Builder
		for i := 0; i < CodeLength; i++ {
			b.WriteByte(codeAlphabet[reg.rng.IntN(len(codeAlphabet))])
		}
		code := b.String()
		if _, taken := reg.rooms[code]; !taken {
			return code
		}
	}
}

// Get returns the room for a code, normalising case on input.
func (reg *Registry) Get(code string) (*Room, bool) {
	r, ok := reg.rooms[strings.ToUpper(code)]
	return r, ok
}

// RoomFor returns the room a player currently belongs to.
func (reg *Registry) RoomFor(playerID string) (*Room, bool) {
	code, ok := reg.members[playerID]
	if !ok {
		return nil, false
	}
	r, ok := reg.rooms[code]
	return r, ok
}

// Join adds a player to the room with the given code.
func (reg *Registry) Join(code, playerID, name string) (*Room, error) {
	if _, ok := reg.members[playerID]; ok {
		return nil, ErrAlreadyInRoom
	}
	r, ok := reg.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	if r.State == StatePlaying {
		return nil, ErrGameInProgress
	}
	if r.IsFull() {
		return nil, ErrRoomFull
	}
	if r.HasName(name) {
		return nil, ErrNameTaken
	}

	r.Players = append(r.Players, &Player{ID: playerID, Name: name})
	reg.members[playerID] = r.Code
	return r, nil
}

// AddBot appends a CPU player to the room. Bots are not tracked in the
// members map; they have no connection.
func (reg *Registry) AddBot(r *Room, name, difficulty string) (*Player, error) {
	if r.IsFull() {
		return nil, ErrRoomFull
	}
	if r.HasName(name) {
		return nil, ErrNameTaken
	}
	bot := &Player{
		ID:         r.NextBotID(),
		Name:       name,
		IsCpu:      true,
		Difficulty: difficulty,
	}
	r.Players = append(r.Players, bot)
	return bot, nil
}

// LeaveResult describes what changed when a player left.
type LeaveResult struct {
	Room        *Room
	Player      *Player
	NewHostID   string // set when host was reassigned
	RoomDeleted bool
}

// Leave removes a player from their room. The host role passes to the new
// first player; a room with no players left is deleted. Mid-game state is
// pruned so the remaining players can continue.
func (reg *Registry) Leave(playerID string) (LeaveResult, bool) {
	r, ok := reg.RoomFor(playerID)
	if !ok {
		return LeaveResult{}, false
	}
	return reg.remove(r, playerID), true
}

// RemoveBot removes a CPU player from a room, with the same pruning as a
// human leave.
func (reg *Registry) RemoveBot(r *Room, botID string) (LeaveResult, bool) {
	p := r.Player(botID)
	if p == nil || !p.IsCpu {
		return LeaveResult{}, false
	}
	return reg.remove(r, botID), true
}

func (reg *Registry) remove(r *Room, playerID string) LeaveResult {
	res := LeaveResult{Room: r}

	kept := r.Players[:0]
	for _, p := range r.Players {
		if p.ID == playerID {
			res.Player = p
			continue
		}
		kept = append(kept, p)
	}
	r.Players = kept
	delete(reg.members, playerID)

	if r.Game != nil {
		r.Game.RemovePlayer(playerID)
	}

	humans := 0
	for _, p := range r.Players {
		if !p.IsCpu {
			humans++
		}
	}
	if humans == 0 {
		// A room full of bots cannot act; bots only exist while a human
		// hosts them.
		for _, p := range r.Players {
			delete(reg.members, p.ID)
		}
		delete(reg.rooms, r.Code)
		res.RoomDeleted = true
		return res
	}

	if r.HostID == playerID {
		for _, p := range r.Players {
			if !p.IsCpu {
				r.HostID = p.ID
				p.IsHost = true
				res.NewHostID = p.ID
				break
			}
		}
	}
	return res
}

// Rooms returns a snapshot of all live rooms.
func (reg *Registry) Rooms() []*Room {
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}

// Count returns the number of live rooms.
func (reg *Registry) Count() int {
	return len(reg.rooms)
}
