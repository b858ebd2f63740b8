package domain

// Phase represents the current phase of a room
type Phase string

const (
	PhaseLobby    Phase = "LOBBY"     // Waiting for players, GM configuring roles
	PhaseDay      Phase = "DAY"       // Open discussion
	PhaseNight    Phase = "NIGHT"     // GM cycling through wake slots
	PhaseGameOver Phase = "GAME_OVER" // Game finished
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo checks if a transition from current phase to target phase is valid
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseLobby: {PhaseDay},
		PhaseDay:   {PhaseNight, PhaseGameOver},
		PhaseNight: {PhaseDay, PhaseGameOver},
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}
