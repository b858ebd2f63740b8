package domain

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// NoDeathReport is announced when a night passes without casualties
const NoDeathReport = "The town awakes to find that everyone survived the night."

// unknownTarget is the label used when a target id does not resolve to a player
const unknownTarget = "an unknown player"

// NightRole is one wake slot as shown to the GM. WakeUp is false when no
// living player holds the role.
type NightRole struct {
	Role   Role `json:"role"`
	WakeUp bool `json:"wakeUp"`
}

// Room represents a single game session. Player order is insertion order;
// host reassignment never reorders.
type Room struct {
	Code                  string    `json:"code"`
	HostID                string    `json:"hostId"`
	Status                Phase     `json:"status"`
	Roles                 []Role    `json:"roles"`
	Players               []*Player `json:"players"`
	DayNumber             int       `json:"dayNumber"`
	NightCycleRoles       []Role    `json:"nightCycleRoles"`
	CurrentNightRoleIndex int       `json:"currentNightRoleIndex"`
	NightActions          []string  `json:"nightActions"`
	CreatedAt             time.Time `json:"createdAt"`
}

// NewRoom creates a new room in the lobby phase with the creator as host
func NewRoom(code, hostID, hostNickname string) *Room {
	return &Room{
		Code:      code,
		HostID:    hostID,
		Status:    PhaseLobby,
		Roles:     make([]Role, 0),
		Players:   []*Player{NewHost(hostID, hostNickname)},
		DayNumber: 0,
		CreatedAt: time.Now(),
	}
}

// AddPlayer appends a new non-host player to the room
func (r *Room) AddPlayer(playerID, nickname string) (*Player, error) {
	if r.GetPlayer(playerID) != nil {
		return nil, ErrAlreadyJoined
	}

	player := NewPlayer(playerID, nickname)
	r.Players = append(r.Players, player)

	return player, nil
}

// RemovePlayer removes a player from the room. If the removed player was
// host and others remain, the first remaining player (by current order)
// is promoted. Removal of an absent player is a no-op.
func (r *Room) RemovePlayer(playerID string) {
	idx := -1
	for i, p := range r.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	wasHost := r.Players[idx].IsHost
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)

	if wasHost && len(r.Players) > 0 {
		next := r.Players[0]
		next.IsHost = true
		next.Role = ""
		r.HostID = next.ID
	}
}

// GetPlayer returns the player with the given id, or nil
func (r *Room) GetPlayer(playerID string) *Player {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// NonHostPlayers returns all players except the host, in room order
func (r *Room) NonHostPlayers() []*Player {
	players := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if !p.IsHost {
			players = append(players, p)
		}
	}
	return players
}

// IsEmpty reports whether the room has no players left
func (r *Room) IsEmpty() bool {
	return len(r.Players) == 0
}

// IsHost checks if the given player is the room's game master
func (r *Room) IsHost(playerID string) bool {
	return r.HostID == playerID
}

// AssignRoles shuffles the configured role list onto the non-host players
// and starts the game. The role count must already match the non-host
// player count. One-shot: only valid while in the lobby.
func (r *Room) AssignRoles(roles []Role) error {
	if r.Status != PhaseLobby {
		return ErrInvalidPhase
	}

	nonHost := r.NonHostPlayers()
	if len(roles) != len(nonHost) {
		return ErrRoleCountMismatch
	}

	r.Roles = make([]Role, len(roles))
	copy(r.Roles, roles)

	shuffled := make([]Role, len(roles))
	copy(shuffled, roles)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for i, p := range nonHost {
		p.Role = shuffled[i]
		p.IsAlive = true
		p.Target = ""
	}

	r.Status = PhaseDay
	r.DayNumber = 1
	r.CurrentNightRoleIndex = 0

	return nil
}

// StartNight transitions DAY -> NIGHT: rebuilds the wake order from the
// configured roles, resets the cursor and clears the action log.
func (r *Room) StartNight() error {
	if r.Status != PhaseDay {
		return ErrInvalidPhase
	}

	r.NightCycleRoles = NightWakeOrder(r.Roles)
	r.CurrentNightRoleIndex = 0
	r.NightActions = make([]string, 0)
	r.Status = PhaseNight

	return nil
}

// CurrentNightRole returns the wake slot under the cursor, or nil once
// the cycle is complete (or the cursor is otherwise out of range).
func (r *Room) CurrentNightRole() *NightRole {
	if r.CurrentNightRoleIndex < 0 || r.CurrentNightRoleIndex >= len(r.NightCycleRoles) {
		return nil
	}

	role := r.NightCycleRoles[r.CurrentNightRoleIndex]

	return &NightRole{Role: role, WakeUp: r.firstLivingWithRole(role) != nil}
}

// AdvanceNightRole logs the current role's targets (if any) and moves the
// cursor forward by one. An empty target list advances without logging;
// that is how "no action" slots are skipped.
func (r *Room) AdvanceNightRole(targetIDs []string) error {
	if r.Status != PhaseNight {
		return ErrInvalidPhase
	}

	if len(targetIDs) > 0 {
		if current := r.CurrentNightRole(); current != nil {
			r.logNightAction(current.Role, targetIDs)
		}
	}

	r.CurrentNightRoleIndex++

	return nil
}

// logNightAction appends one formatted entry to the night log. The actor
// is the first living holder of the role; its Target field is updated as
// bookkeeping, the core does not interpret it further.
func (r *Room) logNightAction(role Role, targetIDs []string) {
	actorName := unknownTarget
	if actor := r.firstLivingWithRole(role); actor != nil {
		actorName = actor.Nickname
		actor.Target = strings.Join(targetIDs, ",")
	}

	targets := make([]string, 0, len(targetIDs))
	for _, id := range targetIDs {
		if p := r.GetPlayer(id); p != nil {
			targets = append(targets, p.Nickname)
		} else {
			targets = append(targets, unknownTarget)
		}
	}

	entry := fmt.Sprintf("%s (%s) targeted %s.", actorName, role, strings.Join(targets, ", "))
	r.NightActions = append(r.NightActions, entry)
}

// firstLivingWithRole returns the first living non-host player holding
// the given role, or nil
func (r *Room) firstLivingWithRole(role Role) *Player {
	for _, p := range r.Players {
		if !p.IsHost && p.Role == role && p.IsAlive {
			return p
		}
	}
	return nil
}

// EndNight transitions NIGHT -> DAY: marks the given players dead,
// increments the day counter, tears down the night cycle, and returns the
// morning report. Unknown ids are ignored.
func (r *Room) EndNight(killedIDs []string) (string, error) {
	if r.Status != PhaseNight {
		return "", ErrInvalidPhase
	}

	killed := make([]string, 0, len(killedIDs))
	for _, id := range killedIDs {
		if p := r.GetPlayer(id); p != nil {
			p.IsAlive = false
			killed = append(killed, p.Nickname)
		}
	}

	r.Status = PhaseDay
	r.DayNumber++
	r.CurrentNightRoleIndex = 0
	r.NightCycleRoles = nil

	return nightReport(killed), nil
}

// nightReport formats the morning announcement with was/were agreement
func nightReport(killed []string) string {
	if len(killed) == 0 {
		return NoDeathReport
	}

	names := make([]string, len(killed))
	for i, n := range killed {
		names[i] = "**" + n + "**"
	}

	verb := "was"
	list := names[0]
	if len(names) > 1 {
		verb = "were"
		list = strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}

	return fmt.Sprintf("The town awakes to find that %s %s killed overnight.", list, verb)
}

// RosterInfo returns the redacted roster (no roles), in room order
func (r *Room) RosterInfo() []PlayerInfo {
	roster := make([]PlayerInfo, 0, len(r.Players))
	for _, p := range r.Players {
		roster = append(roster, p.ToInfo())
	}
	return roster
}

// RosterFor returns the roster as visible to the given recipient: roles
// are included only for the host's view and for the recipient's own entry.
func (r *Room) RosterFor(viewerID string) []PlayerView {
	roster := make([]PlayerView, 0, len(r.Players))
	for _, p := range r.Players {
		roster = append(roster, p.ViewFor(viewerID, r.HostID))
	}
	return roster
}
