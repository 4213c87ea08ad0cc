package types

import "github.com/zeu5/pacman-rl/pacman"

// Environment is the simulation the agent plays in.
type Environment interface {
	// Reset starts a new episode and returns the first observation
	Reset() (*pacman.Observation, error)
	// Step applies the action for dt seconds. It returns the new observation,
	// the events that happened during the step and whether the episode is over.
	Step(pacman.Action, float64) (*pacman.Observation, []pacman.Event, bool, error)
}
