package pacman

// GhostName identifies an opponent. Its value is the ghost's slot in State.
type GhostName int

const (
	Blinky GhostName = iota
	Pinky
	Inky
	Clyde
)

// NumGhosts is the fixed number of opponent slots in a State.
const NumGhosts = 4

var ghostNames = [NumGhosts]string{"Blinky", "Pinky", "Inky", "Clyde"}

func (g GhostName) String() string {
	if g < 0 || int(g) >= NumGhosts {
		return "Unknown"
	}
	return ghostNames[g]
}

// GhostMode is the behavioural mode of a ghost.
type GhostMode int

const (
	// ModeNone marks an empty slot
	ModeNone GhostMode = iota
	Scatter
	Chase
	Freight
	Spawn
)

func (m GhostMode) String() string {
	switch m {
	case ModeNone:
		return "None"
	case Scatter:
		return "Scatter"
	case Chase:
		return "Chase"
	case Freight:
		return "Freight"
	case Spawn:
		return "Spawn"
	}
	return "Unknown"
}

// Threatening is true for the modes in which touching the ghost eliminates the agent.
func (m GhostMode) Threatening() bool {
	return m == Scatter || m == Chase
}
