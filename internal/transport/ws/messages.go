package ws

import (
	"encoding/json"
	"time"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgCreateRoom     MessageType = "create_room"
	MsgJoinRoom       MessageType = "join_room"
	MsgLeaveRoom      MessageType = "leave_room"
	MsgStartGame      MessageType = "start_game"
	MsgStartNight     MessageType = "gm_start_night"
	MsgNextRole       MessageType = "gm_next_role"
	MsgProcessPhase   MessageType = "process_game_phase"
	MsgRequestControl MessageType = "request_gm_control_state"
	MsgPing           MessageType = "ping"
)

// Server → Client message types
const (
	MsgRoomCreated   MessageType = "room_created"
	MsgRoomJoined    MessageType = "room_joined"
	MsgLobbyUpdate   MessageType = "lobby_update"
	MsgRoleAssigned  MessageType = "role_assigned"
	MsgPhaseChange   MessageType = "phase_change"
	MsgGMControl     MessageType = "gm_control_update"
	MsgError         MessageType = "error"
	MsgPong          MessageType = "pong"
)

// ClientMessage represents a message from client to server. The payload
// is decoded per message type.
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// CreateRoomPayload is the payload for create_room
type CreateRoomPayload struct {
	Nickname string `json:"nickname"`
}

// JoinRoomPayload is the payload for join_room
type JoinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	Nickname string `json:"nickname"`
}

// StartGamePayload is the payload for start_game
type StartGamePayload struct {
	Roles []string `json:"roles"`
}

// NextRolePayload is the payload for gm_next_role
type NextRolePayload struct {
	TargetPlayerIDs []string `json:"targetPlayerIds"`
}

// ProcessPhasePayload is the payload for process_game_phase
type ProcessPhasePayload struct {
	Phase         string   `json:"phase"`
	PlayersKilled []string `json:"playersKilled"`
}

// Server message payloads

// RoomCreatedPayload is the payload for room_created
type RoomCreatedPayload struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

// RoomJoinedPayload is the payload for room_joined
type RoomJoinedPayload struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

// ErrorPayload is the payload for error messages
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage    = "INVALID_MESSAGE"
	ErrCodeRoomNotFound      = "ROOM_NOT_FOUND"
	ErrCodeAlreadyJoined     = "ALREADY_JOINED"
	ErrCodeNotHost           = "NOT_HOST"
	ErrCodeInvalidPhase      = "INVALID_PHASE"
	ErrCodeRoleCountMismatch = "ROLE_COUNT_MISMATCH"
	ErrCodeUnknownRole       = "UNKNOWN_ROLE"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)
