package domain

import "time"

// EventType represents the type of room event
type EventType string

const (
	EventPlayerJoined EventType = "PLAYER_JOINED"
	EventPlayerLeft   EventType = "PLAYER_LEFT"
	EventGameStarted  EventType = "GAME_STARTED"
	EventRoleAssigned EventType = "ROLE_ASSIGNED"
	EventPhaseChanged EventType = "PHASE_CHANGED"
	EventGMControl    EventType = "GM_CONTROL"
	EventError        EventType = "ERROR"
)

// Audience selects which connections a room event is delivered to
type Audience int

const (
	AudienceRoom   Audience = iota // every connection in the room
	AudienceHost                   // the game master only
	AudiencePlayer                 // one specific player
)

// RoomEvent is an outbound effect produced by a command handler
type RoomEvent struct {
	Type      EventType   `json:"type"`
	RoomCode  string      `json:"roomCode"`
	Audience  Audience    `json:"-"`
	PlayerID  string      `json:"playerId,omitempty"` // Set when Audience is AudiencePlayer
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewRoomEvent creates an event addressed to the whole room
func NewRoomEvent(eventType EventType, roomCode string, payload interface{}) *RoomEvent {
	return &RoomEvent{
		Type:      eventType,
		RoomCode:  roomCode,
		Audience:  AudienceRoom,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewHostEvent creates an event addressed to the game master only
func NewHostEvent(eventType EventType, roomCode string, payload interface{}) *RoomEvent {
	return &RoomEvent{
		Type:      eventType,
		RoomCode:  roomCode,
		Audience:  AudienceHost,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewPlayerEvent creates an event addressed to a single player
func NewPlayerEvent(eventType EventType, roomCode, playerID string, payload interface{}) *RoomEvent {
	return &RoomEvent{
		Type:      eventType,
		RoomCode:  roomCode,
		Audience:  AudiencePlayer,
		PlayerID:  playerID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for different events

// LobbyUpdatePayload is sent room-wide when membership changes
type LobbyUpdatePayload struct {
	Players []PlayerInfo `json:"players"`
	HostID  string       `json:"hostId"`
}

// RoleAssignedPayload is sent privately to each player at game start
type RoleAssignedPayload struct {
	Role    Role         `json:"role,omitempty"` // Empty for the host
	Players []PlayerInfo `json:"players"`
}

// PhaseChangePayload carries a phase transition. Players is computed per
// recipient; roles appear only in the host's copy and on one's own entry.
type PhaseChangePayload struct {
	Phase     Phase        `json:"phase"`
	DayNumber int          `json:"dayNumber"`
	Report    string       `json:"report,omitempty"`
	Players   []PlayerView `json:"players"`
}

// GMControlPayload is the host-only night control snapshot
type GMControlPayload struct {
	CurrentRole  *NightRole `json:"currentRole"`
	NightActions []string   `json:"nightActions"`
}

// ErrorPayload is sent when a command is rejected
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
