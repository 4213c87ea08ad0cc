package types

import "github.com/zeu5/pacman-rl/pacman"

// RewardAccumulator collects reward between two learning updates.
type RewardAccumulator struct {
	pending float64
}

func NewRewardAccumulator() *RewardAccumulator {
	return &RewardAccumulator{}
}

func (r *RewardAccumulator) Add(delta float64) {
	r.pending += delta
}

// Drain returns everything collected since the last Drain and resets to 0.
func (r *RewardAccumulator) Drain() float64 {
	val := r.pending
	r.pending = 0
	return val
}

func (r *RewardAccumulator) Pending() float64 {
	return r.pending
}

// RewardScheme is the shaping applied to simulation events
type RewardScheme struct {
	Pellet        float64 `yaml:"pellet"`
	PowerPellet   float64 `yaml:"power_pellet"`
	GhostEaten    float64 `yaml:"ghost_eaten"`
	Eliminated    float64 `yaml:"eliminated"`
	LevelComplete float64 `yaml:"level_complete"`
	// Step is charged every time the agent reaches a node after moving
	Step float64 `yaml:"step"`
}

func DefaultRewardScheme() RewardScheme {
	return RewardScheme{
		Pellet:        10,
		PowerPellet:   50,
		GhostEaten:    100,
		Eliminated:    -500,
		LevelComplete: 500,
		Step:          -1,
	}
}

// For returns the reward for a simulation event.
func (s RewardScheme) For(kind pacman.EventKind) float64 {
	switch kind {
	case pacman.PelletEaten:
		return s.Pellet
	case pacman.PowerPelletEaten:
		return s.PowerPellet
	case pacman.GhostEaten:
		return s.GhostEaten
	case pacman.Eliminated:
		return s.Eliminated
	case pacman.LevelComplete:
		return s.LevelComplete
	}
	return 0
}
