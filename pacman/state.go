package pacman

import (
	"fmt"
	"strings"
)

// State is the discrete descriptor the Q-table is indexed by. It is a
// fixed-shape value type, so two States are equal exactly when all their
// fields are, and it can be used directly as a map key.
type State struct {
	Node   Point
	Modes  [NumGhosts]GhostMode
	Pellet Point
	Ghosts [NumGhosts]Point
}

// Hash is a stable, human readable form of the state.
func (s State) Hash() string {
	var b strings.Builder
	fmt.Fprintf(&b, "n(%d,%d)|p(%d,%d)", s.Node.X, s.Node.Y, s.Pellet.X, s.Pellet.Y)
	for i := 0; i < NumGhosts; i++ {
		fmt.Fprintf(&b, "|%s:%s(%d,%d)", GhostName(i), s.Modes[i], s.Ghosts[i].X, s.Ghosts[i].Y)
	}
	return b.String()
}

func (s State) String() string {
	return s.Hash()
}
