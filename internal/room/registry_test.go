package room

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redkinggame/redking/internal/randutil"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(randutil.New(1))
}

func TestCreateAllocatesCode(t *testing.T) {
	reg := newTestRegistry(t)

	r, err := reg.Create("conn-1", "Alice")
	require.NoError(t, err)
	require.Len(t, r.Code, CodeLength)
	for _, ch := range r.Code {
		assert.Contains(t, codeAlphabet, string(ch))
	}

	assert.Equal(t, "conn-1", r.HostID)
	require.Len(t, r.Players, 1)
	assert.True(t, r.Players[0].IsHost)

	got, ok := reg.Get(strings.ToLower(r.Code))
	require.True(t, ok, "lookup is case-insensitive")
	assert.Same(t, r, got)

	byMember, ok := reg.RoomFor("conn-1")
	require.True(t, ok)
	assert.Same(t, r, byMember)
}

func TestCreateRefusesSecondRoom(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := reg.Create("conn-1", "Alice")
	require.NoError(t, err)

	_, err = reg.Create("conn-1", "Alice2")
	assert.ErrorIs(t, err, ErrAlreadyInRoom)
}

func TestJoinFailureKinds(t *testing.T) {
	reg := newTestRegistry(t)
	r, err := reg.Create("host", "Alice")
	require.NoError(t, err)

	_, err = reg.Join("XXXX", "conn-2", "Bob")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = reg.Join(r.Code, "conn-2", "Alice")
	assert.ErrorIs(t, err, ErrNameTaken)

	// Name comparison is case-sensitive; "alice" is a different name.
	_, err = reg.Join(r.Code, "conn-2", "alice")
	require.NoError(t, err)

	_, err = reg.Join(r.Code, "conn-2", "Bob")
	assert.ErrorIs(t, err, ErrAlreadyInRoom)

	for i := 0; len(r.Players) < MaxPlayers; i++ {
		_, err = reg.Join(r.Code, "filler-"+string(rune('a'+i)), "Filler"+string(rune('a'+i)))
		require.NoError(t, err)
	}
	_, err = reg.Join(r.Code, "conn-9", "Late")
	assert.ErrorIs(t, err, ErrRoomFull)

	r.State = StatePlaying
	_, err = reg.Join(r.Code, "conn-10", "Later")
	assert.ErrorIs(t, err, ErrGameInProgress)
}

func TestJoinErrorMessages(t *testing.T) {
	for _, kind := range []JoinError{ErrRoomNotFound, ErrGameInProgress, ErrRoomFull, ErrNameTaken, ErrAlreadyInRoom} {
		assert.NotEmpty(t, kind.Message())
		assert.NotEqual(t, "Unable to join room", kind.Message())
	}
}

func TestLeaveReassignsHost(t *testing.T) {
	reg := newTestRegistry(t)
	r, _ := reg.Create("host", "Alice")
	_, err := reg.Join(r.Code, "conn-2", "Bob")
	require.NoError(t, err)

	res, ok := reg.Leave("host")
	require.True(t, ok)
	assert.False(t, res.RoomDeleted)
	assert.Equal(t, "conn-2", res.NewHostID)
	assert.Equal(t, "conn-2", r.HostID)
	require.Len(t, r.Players, 1)
	assert.True(t, r.Players[0].IsHost)

	_, ok = reg.RoomFor("host")
	assert.False(t, ok)
}

func TestLeaveDeletesEmptyRoom(t *testing.T) {
	reg := newTestRegistry(t)
	r, _ := reg.Create("host", "Alice")
	code := r.Code

	res, ok := reg.Leave("host")
	require.True(t, ok)
	assert.True(t, res.RoomDeleted)

	_, ok = reg.Get(code)
	assert.False(t, ok)
	assert.Zero(t, reg.Count())
}

func TestBotsEvictedWithLastHuman(t *testing.T) {
	reg := newTestRegistry(t)
	r, _ := reg.Create("host", "Alice")

	bot, err := reg.AddBot(r, "CPU 1", "medium")
	require.NoError(t, err)
	assert.Equal(t, "bot-1", bot.ID)
	assert.True(t, bot.IsCpu)

	res, ok := reg.Leave("host")
	require.True(t, ok)
	assert.True(t, res.RoomDeleted, "a room of only bots is deleted")
}

func TestHostNeverPassesToBot(t *testing.T) {
	reg := newTestRegistry(t)
	r, _ := reg.Create("host", "Alice")
	_, err := reg.AddBot(r, "CPU 1", "easy")
	require.NoError(t, err)
	_, err = reg.Join(r.Code, "conn-2", "Bob")
	require.NoError(t, err)

	res, ok := reg.Leave("host")
	require.True(t, ok)
	assert.Equal(t, "conn-2", res.NewHostID)
}

func TestRemoveBot(t *testing.T) {
	reg := newTestRegistry(t)
	r, _ := reg.Create("host", "Alice")
	bot, err := reg.AddBot(r, "CPU 1", "hard")
	require.NoError(t, err)

	_, ok := reg.RemoveBot(r, "host")
	assert.False(t, ok, "humans cannot be removed as bots")

	res, ok := reg.RemoveBot(r, bot.ID)
	require.True(t, ok)
	assert.Equal(t, bot.ID, res.Player.ID)
	require.Len(t, r.Players, 1)
}

func TestBotIDsIncrementPerRoom(t *testing.T) {
	reg := newTestRegistry(t)
	r, _ := reg.Create("host", "Alice")

	b1, err := reg.AddBot(r, "CPU 1", "easy")
	require.NoError(t, err)
	b2, err := reg.AddBot(r, "CPU 2", "easy")
	require.NoError(t, err)
	assert.Equal(t, "bot-1", b1.ID)
	assert.Equal(t, "bot-2", b2.ID)

	// Ids are not reused after removal.
	_, ok := reg.RemoveBot(r, b2.ID)
	require.True(t, ok)
	b3, err := reg.AddBot(r, "CPU 3", "easy")
	require.NoError(t, err)
	assert.Equal(t, "bot-3", b3.ID)
}
