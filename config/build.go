package config

import (
	"fmt"

	"github.com/zeu5/pacman-rl/grid"
	"github.com/zeu5/pacman-rl/policies"
	"github.com/zeu5/pacman-rl/store"
	"github.com/zeu5/pacman-rl/types"
)

// AgentConfig converts the learning and reward sections.
func (c *Config) AgentConfig() *types.AgentConfig {
	return &types.AgentConfig{
		Controller: types.ControllerConfig{
			LearningRate: c.Learning.LearningRate,
			Discount:     c.Learning.Discount,
			StepPenalty:  c.Rewards.Step,
			Learning:     true,
		},
		Rewards: c.Rewards,
	}
}

// NewSelector builds the configured selector reading from qTable.
func (c *Config) NewSelector(qTable *policies.QTable) (policies.Selector, error) {
	decay := policies.DecayConfig{Factor: c.Learning.DecayFactor, Floor: c.Learning.ExplorationMin}
	switch c.Learning.Selector {
	case EpsilonGreedy:
		return policies.NewEpsilonGreedy(qTable, c.Learning.Exploration, decay, c.Learning.Seed), nil
	case SoftMax:
		return policies.NewSoftMax(qTable, c.Learning.Exploration, decay, c.Learning.Seed), nil
	}
	return nil, invalid("learning.selector", c.Learning.Selector)
}

// NewAgent builds an agent around qTable.
func (c *Config) NewAgent(qTable *policies.QTable) (*types.Agent, error) {
	selector, err := c.NewSelector(qTable)
	if err != nil {
		return nil, err
	}
	return types.NewAgent(c.AgentConfig(), qTable, selector), nil
}

func (c *Config) NewEnvironment() (*grid.Environment, error) {
	return grid.NewEnvironment(c.Game)
}

// OpenStore opens the configured backend. It returns the store, the name
// policies are saved under and a function releasing the connection. The
// store is nil for the none backend.
func (c *Config) OpenStore() (store.Store, string, func() error, error) {
	noop := func() error { return nil }
	s := c.Store
	switch s.Backend {
	case BackendNone:
		return nil, "", noop, nil
	case BackendFile:
		return store.NewFileStore(), s.Path, noop, nil
	case BackendRedis:
		r, err := store.NewRedisStore(s.Redis)
		if err != nil {
			return nil, "", noop, err
		}
		return r, s.Name, r.Close, nil
	case BackendSQLite:
		db, err := store.OpenSQLite(s.Path)
		if err != nil {
			return nil, "", noop, err
		}
		return db, s.Name, db.Close, nil
	}
	return nil, "", noop, fmt.Errorf("%w: store.backend = %s", ErrInvalid, s.Backend)
}
