// Package policies holds the tabular value store and the action selection
// rules that read from it.
package policies

import (
	"errors"

	"github.com/zeu5/pacman-rl/pacman"
)

// ErrNoActions is returned when a selector is asked to choose from an empty
// action set. The simulation must always offer at least one action at a node.
var ErrNoActions = errors.New("no legal actions to choose from")

// Selector picks the next action for a state from its legal actions.
type Selector interface {
	SelectAction(pacman.State, []pacman.Action) (pacman.Action, error)
	// Decay lowers the amount of exploration. Called once per finished episode.
	Decay()
	Exploration() float64
	SetExploration(float64)
}

// DecayConfig is shared by the selectors: after every episode the
// exploration parameter is multiplied by Factor and clamped to Floor.
type DecayConfig struct {
	Factor float64
	Floor  float64
}

func (d DecayConfig) apply(val float64) float64 {
	if val <= d.Floor {
		return val
	}
	val *= d.Factor
	if val < d.Floor {
		return d.Floor
	}
	return val
}
