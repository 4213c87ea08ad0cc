package pacman

// EventKind enumerates the discrete happenings the simulation reports.
type EventKind int

const (
	PelletEaten EventKind = iota
	PowerPelletEaten
	GhostEaten
	Eliminated
	LevelComplete
)

func (k EventKind) String() string {
	switch k {
	case PelletEaten:
		return "PelletEaten"
	case PowerPelletEaten:
		return "PowerPelletEaten"
	case GhostEaten:
		return "GhostEaten"
	case Eliminated:
		return "Eliminated"
	case LevelComplete:
		return "LevelComplete"
	}
	return "Unknown"
}

// Terminal events end the agent's ability to collect further reward from
// the current branch.
func (k EventKind) Terminal() bool {
	return k == Eliminated || k == LevelComplete
}

type Event struct {
	Kind EventKind
	// Ghost is set for GhostEaten
	Ghost GhostName
}
