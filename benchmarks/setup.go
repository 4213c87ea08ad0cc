package benchmarks

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/zeu5/pacman-rl/config"
	"github.com/zeu5/pacman-rl/logging"
	"github.com/zeu5/pacman-rl/policies"
	"github.com/zeu5/pacman-rl/store"
)

// loadConfig reads the configuration file, if any, and applies the flags
// that were set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		c = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("episodes") {
		c.Training.Episodes = episodes
	}
	if flags.Changed("horizon") {
		c.Training.Horizon = horizon
	}
	if flags.Changed("save") {
		c.Training.RecordPath = saveFile
		c.Training.PlotPath = saveFile
	}
	if flags.Changed("seed") {
		c.Learning.Seed = seed
		c.Game.Seed = seed
	}
	if flags.Changed("log-level") {
		c.Logging.Level = logLevel
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	logging.Init(c.Logging)
	return c, nil
}

// interruptContext is cancelled on the first interrupt. The returned
// function releases the signal handler.
func interruptContext() (context.Context, func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	doneCh := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
			logging.Warn().Add(logging.Component("cli")).Msg("interrupted, finishing the current episode")
		case <-doneCh:
		}
		cancel()
	}()
	return ctx, func() {
		signal.Stop(sigCh)
		close(doneCh)
	}
}

// loadTable restores the saved policy. A missing policy yields an empty
// table; any other failure is returned.
func loadTable(ctx context.Context, s store.Store, name string) (*policies.QTable, error) {
	table := policies.NewQTable()
	if s == nil {
		return table, nil
	}
	err := s.Load(ctx, name, table)
	switch {
	case err == nil:
		logging.Info().
			Add(logging.Component("cli")).
			Add(logging.Str("policy", name)).
			Add(logging.TableSize(table.Len())).
			Msg("policy loaded")
	case errors.Is(err, store.ErrNotFound):
		logging.Info().Add(logging.Component("cli")).Add(logging.Str("policy", name)).Msg("no saved policy, starting from an empty table")
	default:
		return nil, err
	}
	return table, nil
}
