package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoom() *Room {
	return NewRoom("ABCD", "host-conn", "Gus")
}

// startedRoom returns a room in DAY phase with the given roles assigned
// to that many non-host players
func startedRoom(t *testing.T, roles []Role) *Room {
	t.Helper()

	room := newTestRoom()
	for i := range roles {
		_, err := room.AddPlayer(fmt.Sprintf("conn-%d", i), fmt.Sprintf("Player%d", i))
		require.NoError(t, err)
	}
	require.NoError(t, room.AssignRoles(roles))
	return room
}

func assertSingleHost(t *testing.T, room *Room) {
	t.Helper()

	hosts := 0
	for _, p := range room.Players {
		if p.IsHost {
			hosts++
			assert.Equal(t, p.ID, room.HostID)
		}
	}
	assert.Equal(t, 1, hosts)
}

func TestNewRoom_CreatorIsHost(t *testing.T) {
	room := newTestRoom()

	assert.Equal(t, "ABCD", room.Code)
	assert.Equal(t, PhaseLobby, room.Status)
	require.Len(t, room.Players, 1)
	assert.Equal(t, "Gus", room.Players[0].Nickname)
	assert.True(t, room.Players[0].IsHost)
	assertSingleHost(t, room)
}

func TestRoom_AddPlayer(t *testing.T) {
	room := newTestRoom()

	p, err := room.AddPlayer("mia-conn", "Mia")
	require.NoError(t, err)

	assert.False(t, p.IsHost)
	assert.True(t, p.IsAlive)
	assert.Empty(t, p.Role)
	require.Len(t, room.Players, 2)
	assert.Equal(t, "Mia", room.Players[1].Nickname)
	assertSingleHost(t, room)
}

func TestRoom_AddPlayer_RejectsDuplicateConnection(t *testing.T) {
	room := newTestRoom()

	_, err := room.AddPlayer("mia-conn", "Mia")
	require.NoError(t, err)

	_, err = room.AddPlayer("mia-conn", "Mia2")
	assert.ErrorIs(t, err, ErrAlreadyJoined)
	assert.Len(t, room.Players, 2)
}

func TestRoom_RemovePlayer_PromotesFirstRemaining(t *testing.T) {
	room := newTestRoom()
	room.AddPlayer("mia-conn", "Mia")
	room.AddPlayer("sam-conn", "Sam")

	room.RemovePlayer("host-conn")

	require.Len(t, room.Players, 2)
	assert.Equal(t, "mia-conn", room.HostID)
	assert.True(t, room.Players[0].IsHost)
	assert.Equal(t, "Mia", room.Players[0].Nickname)
	// Promotion must not reorder
	assert.Equal(t, "Sam", room.Players[1].Nickname)
	assertSingleHost(t, room)
}

func TestRoom_RemovePlayer_PromotedHostLosesRole(t *testing.T) {
	room := startedRoom(t, []Role{RoleDoctor, RoleMafioso})

	room.RemovePlayer("host-conn")

	// The host never carries a role
	assert.Empty(t, room.Players[0].Role)
	assertSingleHost(t, room)
}

func TestRoom_RemovePlayer_LastPlayerEmptiesRoom(t *testing.T) {
	room := newTestRoom()

	room.RemovePlayer("host-conn")

	assert.True(t, room.IsEmpty())
}

func TestRoom_RemovePlayer_AbsentPlayerIsNoOp(t *testing.T) {
	room := newTestRoom()

	room.RemovePlayer("nobody")

	assert.Len(t, room.Players, 1)
	assertSingleHost(t, room)
}

func TestRoom_HostInvariantAcrossChurn(t *testing.T) {
	room := newTestRoom()
	for i := 0; i < 5; i++ {
		room.AddPlayer(fmt.Sprintf("conn-%d", i), fmt.Sprintf("P%d", i))
		assertSingleHost(t, room)
	}
	for _, id := range []string{"conn-2", "host-conn", "conn-0", "conn-4"} {
		room.RemovePlayer(id)
		assertSingleHost(t, room)
	}
}

func TestRoom_AssignRoles_IsBijection(t *testing.T) {
	roles := []Role{RoleDoctor, RoleMafioso, RoleSheriff, RoleDoctor}
	room := startedRoom(t, roles)

	want := map[Role]int{RoleDoctor: 2, RoleMafioso: 1, RoleSheriff: 1}
	got := make(map[Role]int)
	for _, p := range room.NonHostPlayers() {
		got[p.Role]++
		assert.True(t, p.IsAlive)
		assert.Empty(t, p.Target)
	}

	assert.Equal(t, want, got)
	assert.Empty(t, room.GetPlayer("host-conn").Role)
	assert.Equal(t, PhaseDay, room.Status)
	assert.Equal(t, 1, room.DayNumber)
	assert.Equal(t, 0, room.CurrentNightRoleIndex)
}

func TestRoom_AssignRoles_TwoPlayersGetDistinctRoles(t *testing.T) {
	room := startedRoom(t, []Role{RoleDoctor, RoleMafioso})

	nonHost := room.NonHostPlayers()
	require.Len(t, nonHost, 2)
	assert.NotEqual(t, nonHost[0].Role, nonHost[1].Role)
}

func TestRoom_AssignRoles_CountMismatch(t *testing.T) {
	room := newTestRoom()
	room.AddPlayer("mia-conn", "Mia")

	err := room.AssignRoles([]Role{RoleDoctor, RoleMafioso})
	assert.ErrorIs(t, err, ErrRoleCountMismatch)
	assert.Equal(t, PhaseLobby, room.Status)
}

func TestRoom_AssignRoles_OutsideLobby(t *testing.T) {
	room := startedRoom(t, []Role{RoleDoctor})

	err := room.AssignRoles([]Role{RoleDoctor})
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestRoom_StartNight_BuildsCycleAndResetsState(t *testing.T) {
	room := startedRoom(t, []Role{RoleSheriff, RoleDoctor, RoleMafioso})

	require.NoError(t, room.StartNight())

	assert.Equal(t, PhaseNight, room.Status)
	assert.Equal(t, []Role{RoleDoctor, RoleMafioso, RoleSheriff}, room.NightCycleRoles)
	assert.Equal(t, 0, room.CurrentNightRoleIndex)
	assert.Empty(t, room.NightActions)
}

func TestRoom_StartNight_RequiresDay(t *testing.T) {
	room := newTestRoom()

	assert.ErrorIs(t, room.StartNight(), ErrInvalidPhase)
}

func TestRoom_CurrentNightRole(t *testing.T) {
	room := startedRoom(t, []Role{RoleDoctor, RoleMafioso})
	require.NoError(t, room.StartNight())

	current := room.CurrentNightRole()
	require.NotNil(t, current)
	assert.Equal(t, RoleDoctor, current.Role)
	assert.True(t, current.WakeUp)
}

func TestRoom_CurrentNightRole_DeadHolderDoesNotWake(t *testing.T) {
	room := startedRoom(t, []Role{RoleDoctor, RoleMafioso})
	require.NoError(t, room.StartNight())

	for _, p := range room.NonHostPlayers() {
		if p.Role == RoleDoctor {
			p.IsAlive = false
		}
	}

	current := room.CurrentNightRole()
	require.NotNil(t, current)
	assert.Equal(t, RoleDoctor, current.Role)
	assert.False(t, current.WakeUp)
}

func TestRoom_CurrentNightRole_OutOfRangeIsNil(t *testing.T) {
	room := startedRoom(t, []Role{RoleDoctor})
	require.NoError(t, room.StartNight())

	room.CurrentNightRoleIndex = 1
	assert.Nil(t, room.CurrentNightRole())

	room.CurrentNightRoleIndex = -1
	assert.Nil(t, room.CurrentNightRole())
}

func TestRoom_AdvanceNightRole_LogsAndAdvances(t *testing.T) {
	room := newTestRoom()
	room.AddPlayer("mia-conn", "Mia")
	require.NoError(t, room.AssignRoles([]Role{RoleDoctor}))
	require.NoError(t, room.StartNight())

	require.NoError(t, room.AdvanceNightRole([]string{"host-conn"}))

	require.Len(t, room.NightActions, 1)
	assert.Equal(t, "Mia (Doctor) targeted Gus.", room.NightActions[0])
	assert.Equal(t, 1, room.CurrentNightRoleIndex)
}

func TestRoom_AdvanceNightRole_EmptyTargetsSkipLogging(t *testing.T) {
	room := startedRoom(t, []Role{RoleDoctor, RoleMafioso})
	require.NoError(t, room.StartNight())

	require.NoError(t, room.AdvanceNightRole(nil))
	require.NoError(t, room.AdvanceNightRole([]string{}))

	assert.Empty(t, room.NightActions)
	assert.Equal(t, 2, room.CurrentNightRoleIndex)
}

func TestRoom_AdvanceNightRole_MultipleTargets(t *testing.T) {
	room := newTestRoom()
	room.AddPlayer("mia-conn", "Mia")
	room.AddPlayer("sam-conn", "Sam")
	require.NoError(t, room.AssignRoles([]Role{RoleTransporter, RoleTransporter}))
	require.NoError(t, room.StartNight())

	require.NoError(t, room.AdvanceNightRole([]string{"sam-conn", "host-conn"}))

	require.Len(t, room.NightActions, 1)
	assert.Equal(t, "Mia (Transporter) targeted Sam, Gus.", room.NightActions[0])
}

func TestRoom_AdvanceNightRole_UnknownTargetGetsPlaceholder(t *testing.T) {
	room := newTestRoom()
	room.AddPlayer("mia-conn", "Mia")
	require.NoError(t, room.AssignRoles([]Role{RoleDoctor}))
	require.NoError(t, room.StartNight())

	require.NoError(t, room.AdvanceNightRole([]string{"ghost-conn"}))

	require.Len(t, room.NightActions, 1)
	assert.Equal(t, "Mia (Doctor) targeted an unknown player.", room.NightActions[0])
}

func TestRoom_AdvanceNightRole_MonotonicWithinNight(t *testing.T) {
	room := startedRoom(t, []Role{RoleDoctor, RoleSheriff, RoleMafioso})
	require.NoError(t, room.StartNight())

	prev := room.CurrentNightRoleIndex
	for i := 0; i < 5; i++ {
		require.NoError(t, room.AdvanceNightRole(nil))
		assert.Greater(t, room.CurrentNightRoleIndex, prev)
		prev = room.CurrentNightRoleIndex
	}
	// Past the end of the cycle means night actions are complete
	assert.Nil(t, room.CurrentNightRole())
}

func TestRoom_AdvanceNightRole_RequiresNight(t *testing.T) {
	room := startedRoom(t, []Role{RoleDoctor})

	assert.ErrorIs(t, room.AdvanceNightRole(nil), ErrInvalidPhase)
}

func TestRoom_EndNight_SingleDeath(t *testing.T) {
	room := newTestRoom()
	room.AddPlayer("mia-conn", "Mia")
	require.NoError(t, room.AssignRoles([]Role{RoleMafioso}))
	require.NoError(t, room.StartNight())

	report, err := room.EndNight([]string{"host-conn"})
	require.NoError(t, err)

	assert.Equal(t, "The town awakes to find that **Gus** was killed overnight.", report)
	assert.False(t, room.GetPlayer("host-conn").IsAlive)
	assert.Equal(t, PhaseDay, room.Status)
	assert.Equal(t, 2, room.DayNumber)
	assert.Equal(t, 0, room.CurrentNightRoleIndex)
	assert.Empty(t, room.NightCycleRoles)
}

func TestRoom_EndNight_MultipleDeaths(t *testing.T) {
	room := newTestRoom()
	room.AddPlayer("mia-conn", "Mia")
	room.AddPlayer("sam-conn", "Sam")
	require.NoError(t, room.AssignRoles([]Role{RoleDoctor, RoleMafioso}))
	require.NoError(t, room.StartNight())

	report, err := room.EndNight([]string{"mia-conn", "sam-conn"})
	require.NoError(t, err)

	assert.Equal(t, "The town awakes to find that **Mia** and **Sam** were killed overnight.", report)
}

func TestRoom_EndNight_NoDeaths(t *testing.T) {
	room := startedRoom(t, []Role{RoleDoctor})
	require.NoError(t, room.StartNight())

	report, err := room.EndNight(nil)
	require.NoError(t, err)

	assert.Equal(t, NoDeathReport, report)
}

func TestRoom_EndNight_UnknownIDsIgnored(t *testing.T) {
	room := startedRoom(t, []Role{RoleDoctor})
	require.NoError(t, room.StartNight())

	report, err := room.EndNight([]string{"ghost-conn"})
	require.NoError(t, err)

	assert.Equal(t, NoDeathReport, report)
	for _, p := range room.Players {
		assert.True(t, p.IsAlive)
	}
}

func TestRoom_EndNight_RequiresNight(t *testing.T) {
	room := startedRoom(t, []Role{RoleDoctor})

	_, err := room.EndNight(nil)
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestRoom_NightCycleRebuiltEachNight(t *testing.T) {
	room := startedRoom(t, []Role{RoleDoctor, RoleSheriff})

	require.NoError(t, room.StartNight())
	require.NoError(t, room.AdvanceNightRole(nil))
	_, err := room.EndNight(nil)
	require.NoError(t, err)

	require.NoError(t, room.StartNight())
	assert.Equal(t, []Role{RoleDoctor, RoleSheriff}, room.NightCycleRoles)
	assert.Equal(t, 0, room.CurrentNightRoleIndex)
	assert.Empty(t, room.NightActions)
}

func TestRoom_RosterFor_HidesOtherRolesFromNonHost(t *testing.T) {
	room := startedRoom(t, []Role{RoleDoctor, RoleMafioso})
	nonHost := room.NonHostPlayers()
	viewer := nonHost[0]

	roster := room.RosterFor(viewer.ID)

	require.Len(t, roster, 3)
	for _, v := range roster {
		switch v.ID {
		case viewer.ID:
			assert.Equal(t, viewer.Role, v.Role)
		default:
			assert.Empty(t, v.Role, "role of %s leaked to non-host viewer", v.Nickname)
		}
	}
}

func TestRoom_RosterFor_HostSeesEverything(t *testing.T) {
	room := startedRoom(t, []Role{RoleDoctor, RoleMafioso})

	roster := room.RosterFor("host-conn")

	for _, v := range roster {
		if !v.IsHost {
			assert.NotEmpty(t, v.Role)
		}
	}
}

func TestRoom_RosterInfo_NeverCarriesRoles(t *testing.T) {
	room := startedRoom(t, []Role{RoleDoctor, RoleMafioso})

	for _, info := range room.RosterInfo() {
		assert.NotEmpty(t, info.ID)
		assert.NotEmpty(t, info.Nickname)
	}
}
