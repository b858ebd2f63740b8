package domain

// Role represents a player's secret role
type Role string

const (
	RoleMayor          Role = "Mayor"
	RoleEscort         Role = "Escort"
	RoleTransporter    Role = "Transporter"
	RoleMedium         Role = "Medium"
	RoleRetributionist Role = "Retributionist"
	RoleLookout        Role = "Lookout"
	RoleSheriff        Role = "Sheriff"
	RoleVeteran        Role = "Veteran"
	RoleVigilante      Role = "Vigilante"
	RoleBodyguard      Role = "Bodyguard"
	RoleDoctor         Role = "Doctor"
	RoleConsigliere    Role = "Consigliere"
	RoleConsort        Role = "Consort"
	RoleFramer         Role = "Framer"
	RoleBlackmailer    Role = "Blackmailer"
	RoleGodfather      Role = "Godfather"
	RoleMafioso        Role = "Mafioso"
	RoleExecutioner    Role = "Executioner"
	RoleJester         Role = "Jester"
	RoleSurvivor       Role = "Survivor"
	RoleAmnesiac       Role = "Amnesiac"
	RoleSerialKiller   Role = "Serial Killer"
	RoleWerewolf       Role = "Werewolf"
)

// AllRoles lists every role the GM can add to a room's configuration
var AllRoles = []Role{
	RoleMayor, RoleEscort, RoleTransporter, RoleMedium, RoleRetributionist,
	RoleLookout, RoleSheriff, RoleVeteran, RoleVigilante, RoleBodyguard,
	RoleDoctor, RoleConsigliere, RoleConsort, RoleFramer, RoleBlackmailer,
	RoleGodfather, RoleMafioso, RoleExecutioner, RoleJester, RoleSurvivor,
	RoleAmnesiac, RoleSerialKiller, RoleWerewolf,
}

// wakeOrder is the fixed night priority table. Roles absent from this
// list (Mayor, Executioner, Jester) never get a wake slot.
var wakeOrder = []Role{
	RoleTransporter,
	RoleEscort,
	RoleConsort,
	RoleVeteran,
	RoleDoctor,
	RoleBodyguard,
	RoleVigilante,
	RoleGodfather,
	RoleMafioso,
	RoleSerialKiller,
	RoleWerewolf,
	RoleFramer,
	RoleBlackmailer,
	RoleConsigliere,
	RoleSheriff,
	RoleLookout,
	RoleMedium,
	RoleRetributionist,
	RoleAmnesiac,
	RoleSurvivor,
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// NightWakeOrder returns the distinct roles from the given multiset that
// have a wake slot, ordered by the fixed priority table. The multiset
// order is irrelevant; only presence matters.
func NightWakeOrder(roles []Role) []Role {
	present := make(map[Role]bool, len(roles))
	for _, r := range roles {
		present[r] = true
	}

	cycle := make([]Role, 0, len(present))
	for _, r := range wakeOrder {
		if present[r] {
			cycle = append(cycle, r)
		}
	}
	return cycle
}
