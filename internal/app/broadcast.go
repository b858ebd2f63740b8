package app

import (
	"log/slog"
	"sync"

	"mafia/internal/domain"
)

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message interface{}) error
	GetPlayerID() string
	Close() error
}

// Broadcaster fans room events out to client connections. It supports the
// three addressing modes: whole room, host only, and single player.
type Broadcaster struct {
	clients map[string]ClientConnection // playerID -> client
	mu      sync.RWMutex
	logger  *slog.Logger
}

// NewBroadcaster creates an empty broadcaster
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		clients: make(map[string]ClientConnection),
		logger:  logger,
	}
}

// Register associates a client connection with a player ID
func (b *Broadcaster) Register(playerID string, client ClientConnection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[playerID] = client
}

// Unregister removes a client connection
func (b *Broadcaster) Unregister(playerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.clients, playerID)
}

// ToPlayer delivers a message to a single player's connection, if present
func (b *Broadcaster) ToPlayer(playerID string, message interface{}) {
	b.mu.RLock()
	client, ok := b.clients[playerID]
	b.mu.RUnlock()

	if !ok {
		return
	}
	if err := client.Send(message); err != nil {
		b.logger.Debug("failed to send to client", "playerID", playerID, "error", err)
	}
}

// ToPlayers delivers a message to each of the given players
func (b *Broadcaster) ToPlayers(playerIDs []string, message interface{}) {
	for _, id := range playerIDs {
		b.ToPlayer(id, message)
	}
}

// Dispatch routes a room event according to its audience. The caller
// supplies the room's current membership and host.
func (b *Broadcaster) Dispatch(event *domain.RoomEvent, memberIDs []string, hostID string) {
	switch event.Audience {
	case domain.AudienceHost:
		b.ToPlayer(hostID, event)
	case domain.AudiencePlayer:
		b.ToPlayer(event.PlayerID, event)
	default:
		b.ToPlayers(memberIDs, event)
	}
}

// CloseAll closes and forgets every registered connection
func (b *Broadcaster) CloseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, client := range b.clients {
		client.Close()
	}
	b.clients = make(map[string]ClientConnection)
}
