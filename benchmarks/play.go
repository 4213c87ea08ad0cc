package benchmarks

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zeu5/pacman-rl/config"
	"github.com/zeu5/pacman-rl/logging"
	"github.com/zeu5/pacman-rl/types"
)

// Play evaluates the saved policy: learning is disabled and the agent
// always exploits.
func Play(ctx context.Context, c *config.Config, quiet bool) ([]types.EpisodeResult, error) {
	s, policyName, closeStore, err := c.OpenStore()
	if err != nil {
		return nil, err
	}
	defer closeStore()

	table, err := loadTable(ctx, s, policyName)
	if err != nil {
		return nil, err
	}
	agent, err := c.NewAgent(table)
	if err != nil {
		return nil, err
	}
	agent.SetLearning(false)
	agent.SetExploration(0)

	env, err := c.NewEnvironment()
	if err != nil {
		return nil, err
	}
	entries := table.Len()
	exp := types.NewExperiment(c.Training.Name+"_play", agent, env, types.ExperimentConfig{
		Episodes:    c.Training.Episodes,
		Horizon:     c.Training.Horizon,
		TickSeconds: c.Training.TickSeconds,
		RecordPath:  c.Training.RecordPath,
		Quiet:       quiet,
	})
	results, err := exp.Run(ctx)

	summary := types.Summarize(results, c.Training.Window)
	logging.Info().
		Add(logging.Component("cli")).
		Add(logging.Int("episodes", summary.Episodes)).
		Add(logging.Float64("mean_return", summary.MeanReturn)).
		Add(logging.Float64("std_return", summary.StdReturn)).
		Add(logging.Float64("win_rate", summary.WinRate)).
		Add(logging.Int("unseen_entries", table.Len()-entries)).
		Msg("evaluation finished")
	return results, err
}

func PlayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Evaluate the saved policy without learning",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("episodes") && configPath == "" {
				c.Training.Episodes = 10
			}
			ctx, stop := interruptContext()
			defer stop()

			results, err := Play(ctx, c, quiet)
			if errors.Is(err, context.Canceled) {
				err = nil
			}
			if err != nil {
				return err
			}
			wins := 0
			for _, r := range results {
				if r.Won {
					wins++
				}
			}
			fmt.Printf("Played %d episodes, won %d\n", len(results), wins)
			return nil
		},
	}
}
