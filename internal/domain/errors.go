package domain

import "errors"

// Domain errors
var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrAlreadyJoined     = errors.New("already joined this room")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrNotHost           = errors.New("only the game master can perform this action")
	ErrInvalidPhase      = errors.New("invalid action for current phase")
	ErrRoleCountMismatch = errors.New("role count must equal non-host player count")
	ErrUnknownRole       = errors.New("unknown role name")
	ErrCodeExhausted     = errors.New("failed to generate unique room code")
)
