package store

import (
	"context"
	"fmt"

	"github.com/zeu5/pacman-rl/logging"
	"github.com/zeu5/pacman-rl/policies"
	"github.com/zeu5/pacman-rl/types"
)

// Checkpointer saves the table through a Store every Every episodes.
type Checkpointer struct {
	store Store
	name  string
	every int
	saved int
}

var _ types.Checkpointer = &Checkpointer{}

func NewCheckpointer(store Store, name string, every int) *Checkpointer {
	return &Checkpointer{store: store, name: name, every: every}
}

// Checkpoint is called after every episode. Non-positive intervals
// disable checkpoints.
func (c *Checkpointer) Checkpoint(ctx context.Context, episode int, table *policies.QTable) error {
	if c.every <= 0 || episode%c.every != 0 {
		return nil
	}
	if err := c.store.Save(ctx, c.name, table); err != nil {
		return fmt.Errorf("checkpoint at episode %d: %w", episode, err)
	}
	c.saved++
	logging.Debug().
		Add(logging.Component("store")).
		Add(logging.Episode(episode)).
		Add(logging.Str("policy", c.name)).
		Add(logging.TableSize(table.Len())).
		Msg("checkpoint saved")
	return nil
}

// Saved is the number of checkpoints written so far.
func (c *Checkpointer) Saved() int {
	return c.saved
}
