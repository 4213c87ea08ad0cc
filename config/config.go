// Package config holds the settings of a training or evaluation run. Files
// are YAML; every field missing from a file keeps its default value.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeu5/pacman-rl/grid"
	"github.com/zeu5/pacman-rl/logging"
	"github.com/zeu5/pacman-rl/store"
	"github.com/zeu5/pacman-rl/types"
)

var (
	ErrInvalid  = errors.New("config: invalid value")
	ErrNotFound = errors.New("config: file not found")
)

// Selector names.
const (
	EpsilonGreedy = "epsilon-greedy"
	SoftMax       = "softmax"
)

// Store backends.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

type Config struct {
	Learning  LearningConfig     `yaml:"learning"`
	Rewards   types.RewardScheme `yaml:"rewards"`
	Training  TrainingConfig     `yaml:"training"`
	Game      grid.Config        `yaml:"game"`
	Store     StoreConfig        `yaml:"store"`
	Logging   logging.Config     `yaml:"logging"`
	Dashboard DashboardConfig    `yaml:"dashboard"`
}

type LearningConfig struct {
	Selector     string  `yaml:"selector"`
	LearningRate float64 `yaml:"learning_rate"`
	Discount     float64 `yaml:"discount"`
	// Exploration is epsilon for epsilon-greedy and the temperature for softmax
	Exploration    float64 `yaml:"exploration"`
	ExplorationMin float64 `yaml:"exploration_min"`
	DecayFactor    float64 `yaml:"decay_factor"`
	Seed           uint64  `yaml:"seed"`
}

type TrainingConfig struct {
	Name        string  `yaml:"name"`
	Episodes    int     `yaml:"episodes"`
	Horizon     int     `yaml:"horizon"`
	TickSeconds float64 `yaml:"tick_seconds"`
	RecordPath  string  `yaml:"record_path"`
	PlotPath    string  `yaml:"plot_path"`
	// Window of the moving average in plots and of the recent mean in summaries
	Window int `yaml:"window"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"`
	// Path is the policy file for the file backend and the database for sqlite
	Path string `yaml:"path"`
	// Name identifies the policy in redis and sqlite
	Name            string            `yaml:"name"`
	CheckpointEvery int               `yaml:"checkpoint_every"`
	Redis           store.RedisConfig `yaml:"redis"`
}

type DashboardConfig struct {
	Address string `yaml:"address"`
	// Keep is the number of most recent episodes held for /episodes
	Keep int `yaml:"keep"`
}

func Default() *Config {
	return &Config{
		Learning: LearningConfig{
			Selector:       EpsilonGreedy,
			LearningRate:   0.1,
			Discount:       0.9,
			Exploration:    0.9,
			ExplorationMin: 0.1,
			DecayFactor:    0.99,
			Seed:           0,
		},
		Rewards: types.DefaultRewardScheme(),
		Training: TrainingConfig{
			Name:        "pacman",
			Episodes:    1000,
			Horizon:     6000,
			TickSeconds: 1.0 / 60,
			RecordPath:  "results",
			PlotPath:    "results",
			Window:      50,
		},
		Game: grid.DefaultConfig(),
		Store: StoreConfig{
			Backend:         BackendFile,
			Path:            "policies/pacman.qtable",
			Name:            "pacman",
			CheckpointEvery: 100,
			Redis:           store.DefaultRedisConfig(),
		},
		Logging: logging.DefaultConfig(),
		Dashboard: DashboardConfig{
			Address: ":8080",
			Keep:    500,
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func invalid(field string, val any) error {
	return fmt.Errorf("%w: %s = %v", ErrInvalid, field, val)
}

// Validate checks every value is within its range.
func (c *Config) Validate() error {
	l := c.Learning
	switch l.Selector {
	case EpsilonGreedy, SoftMax:
	default:
		return invalid("learning.selector", l.Selector)
	}
	if l.LearningRate <= 0 || l.LearningRate > 1 {
		return invalid("learning.learning_rate", l.LearningRate)
	}
	if l.Discount < 0 || l.Discount > 1 {
		return invalid("learning.discount", l.Discount)
	}
	if l.Exploration < 0 || (l.Selector == EpsilonGreedy && l.Exploration > 1) {
		return invalid("learning.exploration", l.Exploration)
	}
	if l.ExplorationMin < 0 || l.ExplorationMin > l.Exploration {
		return invalid("learning.exploration_min", l.ExplorationMin)
	}
	if l.Selector == SoftMax && l.ExplorationMin <= 0 {
		return invalid("learning.exploration_min", l.ExplorationMin)
	}
	if l.DecayFactor <= 0 || l.DecayFactor > 1 {
		return invalid("learning.decay_factor", l.DecayFactor)
	}

	t := c.Training
	if t.Episodes < 1 {
		return invalid("training.episodes", t.Episodes)
	}
	if t.Horizon < 1 {
		return invalid("training.horizon", t.Horizon)
	}
	if t.TickSeconds <= 0 {
		return invalid("training.tick_seconds", t.TickSeconds)
	}
	if t.Window < 1 {
		return invalid("training.window", t.Window)
	}

	g := c.Game
	if g.PacmanSpeed <= 0 || g.GhostSpeed <= 0 {
		return invalid("game speed", fmt.Sprintf("%v/%v", g.PacmanSpeed, g.GhostSpeed))
	}
	if g.Lives < 1 {
		return invalid("game.lives", g.Lives)
	}

	s := c.Store
	switch s.Backend {
	case BackendNone:
	case BackendFile, BackendSQLite:
		if s.Path == "" {
			return invalid("store.path", s.Path)
		}
	case BackendRedis:
		if s.Redis.Address == "" {
			return invalid("store.redis.address", s.Redis.Address)
		}
	default:
		return invalid("store.backend", s.Backend)
	}
	if s.CheckpointEvery < 0 {
		return invalid("store.checkpoint_every", s.CheckpointEvery)
	}
	if s.Redis.DialTimeout < 0 || s.Redis.DialTimeout > time.Minute {
		return invalid("store.redis.dial_timeout", s.Redis.DialTimeout)
	}
	return nil
}
