package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"mafia/internal/app"
	"mafia/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection. A client starts
// unattached; create_room or join_room binds it to a room session.
type Client struct {
	conn     *websocket.Conn
	hub      *app.RoomHub
	playerID string
	session  *app.RoomSession
	send     chan []byte
	done     chan struct{}
	logger   *slog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, hub *app.RoomHub, playerID string, logger *slog.Logger) *Client {
	return &Client{
		conn:     conn,
		hub:      hub,
		playerID: playerID,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// GetPlayerID returns the player ID for this client
func (c *Client) GetPlayerID() string {
	return c.playerID
}

// Send implements app.ClientConnection
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped", "playerID", c.playerID)
		return nil
	}
}

// Close implements app.ClientConnection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c.playerID)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgCreateRoom:
		c.handleCreateRoom(msg.Payload)
	case MsgJoinRoom:
		c.handleJoinRoom(msg.Payload)
	case MsgLeaveRoom:
		c.handleLeaveRoom()
	case MsgStartGame:
		c.handleStartGame(msg.Payload)
	case MsgStartNight:
		c.handleStartNight()
	case MsgNextRole:
		c.handleNextRole(msg.Payload)
	case MsgProcessPhase:
		c.handleProcessPhase(msg.Payload)
	case MsgRequestControl:
		c.handleRequestControl()
	case MsgPing:
		c.sendPong()
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleCreateRoom handles a create_room message
func (c *Client) handleCreateRoom(raw json.RawMessage) {
	var payload CreateRoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil || strings.TrimSpace(payload.Nickname) == "" {
		c.sendError(ErrCodeInvalidMessage, "Nickname is required")
		return
	}

	session, err := c.hub.CreateRoom(c.playerID, strings.TrimSpace(payload.Nickname), c)
	if err != nil {
		c.sendCommandError(err)
		return
	}

	c.session = session

	c.Send(NewServerMessage(MsgRoomCreated, &RoomCreatedPayload{
		RoomCode: session.RoomCode(),
		PlayerID: c.playerID,
	}))
}

// handleJoinRoom handles a join_room message
func (c *Client) handleJoinRoom(raw json.RawMessage) {
	var payload JoinRoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	roomCode := strings.ToUpper(strings.TrimSpace(payload.RoomCode))
	nickname := strings.TrimSpace(payload.Nickname)
	if roomCode == "" || nickname == "" {
		c.sendError(ErrCodeInvalidMessage, "Room code and nickname are required")
		return
	}

	session, err := c.hub.JoinRoom(roomCode, c.playerID, nickname, c)
	if err != nil {
		c.sendCommandError(err)
		return
	}

	c.session = session

	c.Send(NewServerMessage(MsgRoomJoined, &RoomJoinedPayload{
		RoomCode: session.RoomCode(),
		PlayerID: c.playerID,
	}))
}

// handleLeaveRoom handles a leave_room message
func (c *Client) handleLeaveRoom() {
	c.hub.LeaveRoom(c.playerID)
	c.session = nil
}

// handleStartGame handles a start_game message
func (c *Client) handleStartGame(raw json.RawMessage) {
	session := c.session
	if session == nil {
		c.sendError(ErrCodeRoomNotFound, "Not in a room")
		return
	}

	var payload StartGamePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	roles := make([]domain.Role, 0, len(payload.Roles))
	for _, name := range payload.Roles {
		roles = append(roles, domain.Role(name))
	}

	if err := session.StartGame(c.playerID, roles); err != nil {
		c.sendCommandError(err)
	}
}

// handleStartNight handles a gm_start_night message
func (c *Client) handleStartNight() {
	session := c.session
	if session == nil {
		c.sendError(ErrCodeRoomNotFound, "Not in a room")
		return
	}

	if err := session.StartNight(c.playerID); err != nil {
		c.sendCommandError(err)
	}
}

// handleNextRole handles a gm_next_role message
func (c *Client) handleNextRole(raw json.RawMessage) {
	session := c.session
	if session == nil {
		c.sendError(ErrCodeRoomNotFound, "Not in a room")
		return
	}

	var payload NextRolePayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			c.sendError(ErrCodeInvalidMessage, "Invalid payload")
			return
		}
	}

	if err := session.NextRole(c.playerID, payload.TargetPlayerIDs); err != nil {
		c.sendCommandError(err)
	}
}

// handleProcessPhase handles a process_game_phase message
func (c *Client) handleProcessPhase(raw json.RawMessage) {
	session := c.session
	if session == nil {
		c.sendError(ErrCodeRoomNotFound, "Not in a room")
		return
	}

	var payload ProcessPhasePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	if payload.Phase != domain.PhaseDay.String() {
		c.sendError(ErrCodeInvalidPhase, "Only the DAY phase can be processed")
		return
	}

	if err := session.EndNight(c.playerID, payload.PlayersKilled); err != nil {
		c.sendCommandError(err)
	}
}

// handleRequestControl handles a request_gm_control_state message
func (c *Client) handleRequestControl() {
	session := c.session
	if session == nil {
		c.sendError(ErrCodeRoomNotFound, "Not in a room")
		return
	}

	if err := session.RequestGMControl(c.playerID); err != nil {
		c.sendCommandError(err)
	}
}

// sendCommandError maps a domain error onto the wire taxonomy
func (c *Client) sendCommandError(err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		c.sendError(ErrCodeRoomNotFound, "Room not found")
	case errors.Is(err, domain.ErrAlreadyJoined):
		c.sendError(ErrCodeAlreadyJoined, "You are already in a room")
	case errors.Is(err, domain.ErrNotHost):
		c.sendError(ErrCodeNotHost, "Only the game master can do that")
	case errors.Is(err, domain.ErrInvalidPhase):
		c.sendError(ErrCodeInvalidPhase, "That action is not valid right now")
	case errors.Is(err, domain.ErrRoleCountMismatch):
		c.sendError(ErrCodeRoleCountMismatch, "Role count must match the number of non-host players")
	case errors.Is(err, domain.ErrUnknownRole):
		c.sendError(ErrCodeUnknownRole, "Unknown role in role list")
	default:
		c.sendError(ErrCodeInternalError, err.Error())
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	payload := &ErrorPayload{
		Code:    code,
		Message: message,
	}

	c.Send(NewServerMessage(MsgError, payload))
}

// sendPong sends a pong message in response to ping
func (c *Client) sendPong() {
	c.Send(NewServerMessage(MsgPong, nil))
}
