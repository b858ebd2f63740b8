package domain

import "time"

// Player represents a participant in a room. The ID is the connection
// handle and does not survive reconnects.
type Player struct {
	ID       string    `json:"id"`
	Nickname string    `json:"nickname"`
	IsHost   bool      `json:"isHost"`
	Role     Role      `json:"role,omitempty"`
	IsAlive  bool      `json:"isAlive"`
	Target   string    `json:"target,omitempty"`
	JoinedAt time.Time `json:"joinedAt"`
}

// NewPlayer creates a new non-host player with the given ID and nickname
func NewPlayer(id, nickname string) *Player {
	return &Player{
		ID:       id,
		Nickname: nickname,
		IsHost:   false,
		Role:     "",
		IsAlive:  true,
		JoinedAt: time.Now(),
	}
}

// NewHost creates the room's initial host player. The host acts as Game
// Master and never receives a role.
func NewHost(id, nickname string) *Player {
	p := NewPlayer(id, nickname)
	p.IsHost = true
	return p
}

// PlayerInfo is a safe view of player data (hides the role)
type PlayerInfo struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	IsHost   bool   `json:"isHost"`
	IsAlive  bool   `json:"isAlive"`
}

// ToInfo converts a Player to PlayerInfo (without role)
func (p *Player) ToInfo() PlayerInfo {
	return PlayerInfo{
		ID:       p.ID,
		Nickname: p.Nickname,
		IsHost:   p.IsHost,
		IsAlive:  p.IsAlive,
	}
}

// PlayerView is a per-recipient view of a player. Role is populated only
// when the recipient is allowed to see it.
type PlayerView struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	IsHost   bool   `json:"isHost"`
	IsAlive  bool   `json:"isAlive"`
	Role     Role   `json:"role,omitempty"`
}

// ViewFor builds the view of p visible to the given recipient. Only the
// host and the player themselves may see the role.
func (p *Player) ViewFor(viewerID, hostID string) PlayerView {
	v := PlayerView{
		ID:       p.ID,
		Nickname: p.Nickname,
		IsHost:   p.IsHost,
		IsAlive:  p.IsAlive,
	}
	if viewerID == hostID || viewerID == p.ID {
		v.Role = p.Role
	}
	return v
}
