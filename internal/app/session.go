package app

import (
	"log/slog"
	"sync"
	"time"

	"mafia/internal/domain"
)

// RoomSession wraps a room with concurrency control and client fan-out.
// Each command handler holds the session lock for its full duration,
// broadcasts included, so commands against the same room never interleave.
type RoomSession struct {
	room        *domain.Room
	mu          sync.Mutex
	broadcaster *Broadcaster
	logger      *slog.Logger
	lastActive  time.Time
}

// NewRoomSession creates a session for the given room
func NewRoomSession(room *domain.Room, logger *slog.Logger) *RoomSession {
	return &RoomSession{
		room:        room,
		broadcaster: NewBroadcaster(logger),
		logger:      logger,
		lastActive:  time.Now(),
	}
}

// RoomCode returns the room's code
func (s *RoomSession) RoomCode() string {
	return s.room.Code
}

// CreatedAt returns when the room was created
func (s *RoomSession) CreatedAt() time.Time {
	return s.room.CreatedAt
}

// LastActive returns when the room last processed a command
func (s *RoomSession) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// PlayerCount returns the number of players in the room
func (s *RoomSession) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.room.Players)
}

// Phase returns the room's current phase
func (s *RoomSession) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Status
}

// CanJoin reports whether a new player may join (lobby only)
func (s *RoomSession) CanJoin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Status == domain.PhaseLobby
}

// RegisterClient registers a client connection for a player
func (s *RoomSession) RegisterClient(playerID string, client ClientConnection) {
	s.broadcaster.Register(playerID, client)
}

// UnregisterClient removes a client connection
func (s *RoomSession) UnregisterClient(playerID string) {
	s.broadcaster.Unregister(playerID)
}

// touch records command activity; caller must hold the lock
func (s *RoomSession) touch() {
	s.lastActive = time.Now()
}

// memberIDs returns the ids of all players; caller must hold the lock
func (s *RoomSession) memberIDs() []string {
	ids := make([]string, 0, len(s.room.Players))
	for _, p := range s.room.Players {
		ids = append(ids, p.ID)
	}
	return ids
}

// emit dispatches an event synchronously; caller must hold the lock
func (s *RoomSession) emit(event *domain.RoomEvent) {
	s.broadcaster.Dispatch(event, s.memberIDs(), s.room.HostID)
}

// Join adds a player to the room and broadcasts the updated roster
func (s *RoomSession) Join(playerID, nickname string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if _, err := s.room.AddPlayer(playerID, nickname); err != nil {
		return err
	}

	s.broadcastLobbyUpdate(domain.EventPlayerJoined)

	s.logger.Info("player joined", "roomCode", s.room.Code, "playerID", playerID, "nickname", nickname)

	return nil
}

// Leave removes a player (host promotion included) and reports whether
// the room is now empty. Safe to call for players already gone.
func (s *RoomSession) Leave(playerID string) (empty bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.room.RemovePlayer(playerID)
	s.broadcaster.Unregister(playerID)

	if s.room.IsEmpty() {
		return true
	}

	s.broadcastLobbyUpdate(domain.EventPlayerLeft)

	return false
}

// broadcastLobbyUpdate sends the redacted roster room-wide; caller must
// hold the lock
func (s *RoomSession) broadcastLobbyUpdate(eventType domain.EventType) {
	payload := &domain.LobbyUpdatePayload{
		Players: s.room.RosterInfo(),
		HostID:  s.room.HostID,
	}
	s.emit(domain.NewRoomEvent(eventType, s.room.Code, payload))
}

// StartGame assigns roles and moves LOBBY -> DAY (host only)
func (s *RoomSession) StartGame(callerID string, roles []domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.room.IsHost(callerID) {
		return domain.ErrNotHost
	}

	for _, r := range roles {
		if !r.IsValid() {
			return domain.ErrUnknownRole
		}
	}

	if err := s.room.AssignRoles(roles); err != nil {
		return err
	}

	// Private role reveal: each player sees their own role and the
	// redacted roster. The host's copy carries no role.
	roster := s.room.RosterInfo()
	for _, p := range s.room.Players {
		payload := &domain.RoleAssignedPayload{
			Role:    p.Role,
			Players: roster,
		}
		s.emit(domain.NewPlayerEvent(domain.EventRoleAssigned, s.room.Code, p.ID, payload))
	}

	s.broadcastPhaseChange("")

	s.logger.Info("game started", "roomCode", s.room.Code, "players", len(s.room.Players))

	return nil
}

// StartNight moves DAY -> NIGHT and sends the initial night-control
// snapshot to the host (host only)
func (s *RoomSession) StartNight(callerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.room.IsHost(callerID) {
		return domain.ErrNotHost
	}

	if err := s.room.StartNight(); err != nil {
		return err
	}

	s.broadcastPhaseChange("")
	s.sendGMUpdate()

	s.logger.Info("night started", "roomCode", s.room.Code, "dayNumber", s.room.DayNumber)

	return nil
}

// NextRole logs the current wake slot's targets and advances the cursor
// (host only)
func (s *RoomSession) NextRole(callerID string, targetIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.room.IsHost(callerID) {
		return domain.ErrNotHost
	}

	if err := s.room.AdvanceNightRole(targetIDs); err != nil {
		return err
	}

	s.sendGMUpdate()

	return nil
}

// EndNight resolves deaths and moves NIGHT -> DAY (host only)
func (s *RoomSession) EndNight(callerID string, killedIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.room.IsHost(callerID) {
		return domain.ErrNotHost
	}

	report, err := s.room.EndNight(killedIDs)
	if err != nil {
		return err
	}

	s.broadcastPhaseChange(report)
	s.sendGMUpdate()

	s.logger.Info("day started", "roomCode", s.room.Code, "dayNumber", s.room.DayNumber)

	return nil
}

// RequestGMControl re-emits the night-control snapshot to the host
// (host only)
func (s *RoomSession) RequestGMControl(callerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.room.IsHost(callerID) {
		return domain.ErrNotHost
	}

	s.sendGMUpdate()

	return nil
}

// broadcastPhaseChange sends the phase transition to every player with a
// per-recipient roster; caller must hold the lock
func (s *RoomSession) broadcastPhaseChange(report string) {
	for _, p := range s.room.Players {
		payload := &domain.PhaseChangePayload{
			Phase:     s.room.Status,
			DayNumber: s.room.DayNumber,
			Report:    report,
			Players:   s.room.RosterFor(p.ID),
		}
		s.emit(domain.NewPlayerEvent(domain.EventPhaseChanged, s.room.Code, p.ID, payload))
	}
}

// sendGMUpdate emits the host-only night-control snapshot; caller must
// hold the lock. Outside NIGHT the current role degenerates to nil.
func (s *RoomSession) sendGMUpdate() {
	payload := &domain.GMControlPayload{
		CurrentRole:  s.room.CurrentNightRole(),
		NightActions: s.room.NightActions,
	}
	s.emit(domain.NewHostEvent(domain.EventGMControl, s.room.Code, payload))
}

// Close shuts down the session and all its client connections
func (s *RoomSession) Close() {
	s.broadcaster.CloseAll()
}
