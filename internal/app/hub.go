package app

import (
	"crypto/rand"
	"log/slog"
	"sync"
	"time"

	"mafia/internal/domain"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 4

	// DefaultStaleRoomTimeout is how long an idle room survives before
	// the sweeper closes it. Zero disables the sweeper.
	DefaultStaleRoomTimeout = 2 * time.Hour

	// codeGenAttempts bounds the collision-retry loop
	codeGenAttempts = 10
)

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RoomHub owns the registry of active rooms plus the connection->room
// index, so a disconnect never scans every room.
type RoomHub struct {
	sessions       map[string]*RoomSession // room code -> session
	connRooms      map[string]string       // connection id -> room code
	mu             sync.RWMutex
	roomCodeLength int
	staleTimeout   time.Duration
	logger         *slog.Logger
	done           chan struct{}
	closeOnce      sync.Once
}

// HubOption configures a RoomHub
type HubOption func(*RoomHub)

// WithRoomCodeLength overrides the room code length
func WithRoomCodeLength(n int) HubOption {
	return func(h *RoomHub) { h.roomCodeLength = n }
}

// WithStaleRoomTimeout overrides the idle-room timeout; zero disables it
func WithStaleRoomTimeout(d time.Duration) HubOption {
	return func(h *RoomHub) { h.staleTimeout = d }
}

// NewRoomHub creates a new hub and starts its stale-room sweeper
func NewRoomHub(logger *slog.Logger, opts ...HubOption) *RoomHub {
	hub := &RoomHub{
		sessions:       make(map[string]*RoomSession),
		connRooms:      make(map[string]string),
		roomCodeLength: DefaultRoomCodeLength,
		staleTimeout:   DefaultStaleRoomTimeout,
		logger:         logger,
		done:           make(chan struct{}),
	}

	if hub.staleTimeout > 0 {
		go hub.sweepLoop()
	}

	return hub
}

// CreateRoom creates a new room with the caller as host and returns its
// session. The caller must not already belong to a room.
func (h *RoomHub) CreateRoom(hostID, nickname string, client ClientConnection) (*RoomSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, joined := h.connRooms[hostID]; joined {
		return nil, domain.ErrAlreadyJoined
	}

	var code string
	for attempts := 0; attempts < codeGenAttempts; attempts++ {
		code = h.generateRoomCode()
		if _, exists := h.sessions[code]; !exists {
			break
		}
	}
	if _, exists := h.sessions[code]; exists {
		return nil, domain.ErrCodeExhausted
	}

	room := domain.NewRoom(code, hostID, nickname)
	session := NewRoomSession(room, h.logger)
	if client != nil {
		session.RegisterClient(hostID, client)
	}
	h.sessions[code] = session
	h.connRooms[hostID] = code

	h.logger.Info("room created", "roomCode", code, "hostID", hostID)

	return session, nil
}

// GetSession returns a room session by code
func (h *RoomHub) GetSession(roomCode string) (*RoomSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[roomCode]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	return session, nil
}

// JoinRoom adds a connection to an existing room. The client is
// registered first so the membership broadcast reaches the joiner.
func (h *RoomHub) JoinRoom(roomCode, playerID, nickname string, client ClientConnection) (*RoomSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	session, ok := h.sessions[roomCode]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	// One room per connection
	if _, joined := h.connRooms[playerID]; joined {
		return nil, domain.ErrAlreadyJoined
	}

	if client != nil {
		session.RegisterClient(playerID, client)
	}

	if err := session.Join(playerID, nickname); err != nil {
		session.UnregisterClient(playerID)
		return nil, err
	}

	h.connRooms[playerID] = roomCode

	return session, nil
}

// LeaveRoom removes a connection from its room, deleting the room when it
// empties. Idempotent: unknown connections are a no-op.
func (h *RoomHub) LeaveRoom(playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(playerID)
}

// Disconnect handles an abrupt connection loss; same semantics as leaving
func (h *RoomHub) Disconnect(playerID string) {
	h.LeaveRoom(playerID)
}

// removeLocked removes a connection from its room; caller must hold the lock
func (h *RoomHub) removeLocked(playerID string) {
	roomCode, ok := h.connRooms[playerID]
	if !ok {
		return
	}
	delete(h.connRooms, playerID)

	session, ok := h.sessions[roomCode]
	if !ok {
		return
	}

	if empty := session.Leave(playerID); empty {
		session.Close()
		delete(h.sessions, roomCode)
		h.logger.Info("room deleted", "roomCode", roomCode)
	}
}

// RoomFor returns the session a connection currently belongs to
func (h *RoomHub) RoomFor(playerID string) (*RoomSession, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomCode, ok := h.connRooms[playerID]
	if !ok {
		return nil, false
	}
	session, ok := h.sessions[roomCode]
	return session, ok
}

// RoomCount returns the number of active rooms
func (h *RoomHub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// PlayerCount returns the total number of players across all rooms
func (h *RoomHub) PlayerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connRooms)
}

// Close shuts down the hub and all sessions
func (h *RoomHub) Close() {
	h.closeOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, session := range h.sessions {
		session.Close()
	}
	h.sessions = make(map[string]*RoomSession)
	h.connRooms = make(map[string]string)
}

// generateRoomCode generates a random room code; caller must hold the lock
func (h *RoomHub) generateRoomCode() string {
	b := make([]byte, h.roomCodeLength)
	rand.Read(b)

	code := make([]byte, h.roomCodeLength)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}

	return string(code)
}

// sweepLoop periodically closes rooms that have been idle too long
func (h *RoomHub) sweepLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.sweepStaleRooms()
		}
	}
}

// sweepStaleRooms removes rooms whose last command is older than the
// stale timeout. Delete-on-empty handles the common case; this catches
// abandoned rooms whose connections never said goodbye.
func (h *RoomHub) sweepStaleRooms() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	for roomCode, session := range h.sessions {
		if now.Sub(session.LastActive()) <= h.staleTimeout {
			continue
		}

		session.Close()
		delete(h.sessions, roomCode)
		for playerID, code := range h.connRooms {
			if code == roomCode {
				delete(h.connRooms, playerID)
			}
		}
		h.logger.Info("stale room cleaned up", "roomCode", roomCode)
	}
}
