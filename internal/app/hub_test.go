package app

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mafia/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHub() *RoomHub {
	// Sweeper disabled; tests control lifecycle explicitly
	return NewRoomHub(testLogger(), WithStaleRoomTimeout(0))
}

func TestRoomHub_CreateRoom(t *testing.T) {
	hub := newTestHub()
	defer hub.Close()

	session, err := hub.CreateRoom("gus-conn", "Gus", nil)
	require.NoError(t, err)

	assert.Len(t, session.RoomCode(), DefaultRoomCodeLength)
	assert.Equal(t, 1, session.PlayerCount())
	assert.Equal(t, domain.PhaseLobby, session.Phase())
	assert.Equal(t, 1, hub.RoomCount())
	assert.Equal(t, 1, hub.PlayerCount())
}

func TestRoomHub_CreateRoom_CodesAreUnique(t *testing.T) {
	hub := newTestHub()
	defer hub.Close()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session, err := hub.CreateRoom(fmt.Sprintf("conn-%d", i), "Host", nil)
		require.NoError(t, err)
		assert.False(t, seen[session.RoomCode()])
		seen[session.RoomCode()] = true
	}
}

func TestRoomHub_CreateRoom_RejectsSecondRoomPerConnection(t *testing.T) {
	hub := newTestHub()
	defer hub.Close()

	_, err := hub.CreateRoom("gus-conn", "Gus", nil)
	require.NoError(t, err)

	_, err = hub.CreateRoom("gus-conn", "Gus", nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyJoined)
}

func TestRoomHub_GetSession_NotFound(t *testing.T) {
	hub := newTestHub()
	defer hub.Close()

	_, err := hub.GetSession("ZZZZ")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRoomHub_JoinRoom(t *testing.T) {
	hub := newTestHub()
	defer hub.Close()

	created, err := hub.CreateRoom("gus-conn", "Gus", nil)
	require.NoError(t, err)

	joined, err := hub.JoinRoom(created.RoomCode(), "mia-conn", "Mia", nil)
	require.NoError(t, err)

	assert.Same(t, created, joined)
	assert.Equal(t, 2, joined.PlayerCount())
	assert.Equal(t, 2, hub.PlayerCount())
}

func TestRoomHub_JoinRoom_UnknownRoom(t *testing.T) {
	hub := newTestHub()
	defer hub.Close()

	_, err := hub.JoinRoom("ZZZZ", "mia-conn", "Mia", nil)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRoomHub_JoinRoom_RejectsDoubleJoin(t *testing.T) {
	hub := newTestHub()
	defer hub.Close()

	session, err := hub.CreateRoom("gus-conn", "Gus", nil)
	require.NoError(t, err)

	_, err = hub.JoinRoom(session.RoomCode(), "mia-conn", "Mia", nil)
	require.NoError(t, err)

	_, err = hub.JoinRoom(session.RoomCode(), "mia-conn", "Mia", nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyJoined)
}

func TestRoomHub_LeaveRoom_DeletesEmptyRoom(t *testing.T) {
	hub := newTestHub()
	defer hub.Close()

	session, err := hub.CreateRoom("gus-conn", "Gus", nil)
	require.NoError(t, err)
	code := session.RoomCode()

	hub.LeaveRoom("gus-conn")

	_, err = hub.GetSession(code)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	assert.Equal(t, 0, hub.RoomCount())
	assert.Equal(t, 0, hub.PlayerCount())
}

func TestRoomHub_Disconnect_PromotesEarliestJoined(t *testing.T) {
	hub := newTestHub()
	defer hub.Close()

	session, err := hub.CreateRoom("gus-conn", "Gus", nil)
	require.NoError(t, err)
	_, err = hub.JoinRoom(session.RoomCode(), "mia-conn", "Mia", nil)
	require.NoError(t, err)
	_, err = hub.JoinRoom(session.RoomCode(), "sam-conn", "Sam", nil)
	require.NoError(t, err)

	hub.Disconnect("gus-conn")

	session, err = hub.GetSession(session.RoomCode())
	require.NoError(t, err)
	assert.Equal(t, 2, session.PlayerCount())
	assert.Equal(t, "mia-conn", session.room.HostID)
}

func TestRoomHub_Disconnect_UnknownConnectionIsNoOp(t *testing.T) {
	hub := newTestHub()
	defer hub.Close()

	hub.Disconnect("nobody")

	assert.Equal(t, 0, hub.RoomCount())
}

func TestRoomHub_Disconnect_Idempotent(t *testing.T) {
	hub := newTestHub()
	defer hub.Close()

	session, err := hub.CreateRoom("gus-conn", "Gus", nil)
	require.NoError(t, err)
	_, err = hub.JoinRoom(session.RoomCode(), "mia-conn", "Mia", nil)
	require.NoError(t, err)

	hub.Disconnect("mia-conn")
	hub.Disconnect("mia-conn")

	assert.Equal(t, 1, session.PlayerCount())
}

func TestRoomHub_Close(t *testing.T) {
	hub := newTestHub()

	_, err := hub.CreateRoom("gus-conn", "Gus", nil)
	require.NoError(t, err)

	hub.Close()

	assert.Equal(t, 0, hub.RoomCount())
	assert.Equal(t, 0, hub.PlayerCount())
}
