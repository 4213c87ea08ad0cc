package benchmarks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeu5/pacman-rl/config"
	"github.com/zeu5/pacman-rl/grid"
	"github.com/zeu5/pacman-rl/logging"
	"github.com/zeu5/pacman-rl/policies"
	"github.com/zeu5/pacman-rl/store"
	"github.com/zeu5/pacman-rl/types"
	"github.com/zeu5/pacman-rl/util"
)

// TrainOptions are the knobs of a training session that are not part of
// the configuration file.
type TrainOptions struct {
	Runs int
	// Parallel runs every run in its own goroutine, each with its own table
	Parallel bool
	// Fresh ignores any saved policy
	Fresh     bool
	NoPlots   bool
	Quiet     bool
	Observers []types.Observer
}

type runResult struct {
	name    string
	results []types.EpisodeResult
	visits  *grid.VisitDataSet
	err     error
}

// Train runs the configured experiment Runs times. Every run starts from
// the saved policy (or an empty table); the first run is checkpointed and
// saved when it finishes.
func Train(ctx context.Context, c *config.Config, opts TrainOptions) ([][]types.EpisodeResult, error) {
	if opts.Runs < 1 {
		opts.Runs = 1
	}
	s, policyName, closeStore, err := c.OpenStore()
	if err != nil {
		return nil, err
	}
	defer closeStore()

	initial := policies.NewQTable()
	if !opts.Fresh {
		if initial, err = loadTable(ctx, s, policyName); err != nil {
			return nil, err
		}
	}

	outcomes := make([]runResult, opts.Runs)
	if opts.Parallel && opts.Runs > 1 {
		outputs := make([]*types.ParallelOutput, opts.Runs)
		for i := range outputs {
			outputs[i] = types.NewParallelOutput()
		}
		var printer *types.TerminalPrinter
		if !opts.Quiet {
			printer = types.NewTerminalPrinter(ctx, outputs, time.Second)
			printer.Start()
		}

		wg := new(sync.WaitGroup)
		for run := 0; run < opts.Runs; run++ {
			wg.Add(1)
			go func(run int) {
				defer wg.Done()
				outcomes[run] = trainRun(ctx, c, run, initial.Clone(), s, policyName, opts, outputs[run])
			}(run)
		}
		wg.Wait()
		if printer != nil {
			printer.Stop()
		}
	} else {
		for run := 0; run < opts.Runs; run++ {
			outcomes[run] = trainRun(ctx, c, run, initial.Clone(), s, policyName, opts, nil)
			if outcomes[run].err != nil {
				outcomes = outcomes[:run+1]
				break
			}
		}
	}

	names := make([]string, 0, len(outcomes))
	results := make([][]types.EpisodeResult, 0, len(outcomes))
	var visits *grid.VisitDataSet
	var runErr error
	for _, r := range outcomes {
		names = append(names, r.name)
		results = append(results, r.results)
		if r.visits != nil {
			if visits == nil {
				visits = r.visits
			} else {
				visits.Merge(r.visits)
			}
		}
		if r.err != nil && runErr == nil {
			runErr = r.err
		}
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return results, runErr
	}

	if err := report(c, names, results); err != nil {
		return results, err
	}
	if !opts.NoPlots && visits != nil && len(results[0]) > 0 {
		if err := grid.PlotVisits(c.Training.PlotPath, c.Training.Name, visits); err != nil {
			return results, err
		}
		if err := types.PlotLearningCurves(c.Training.PlotPath, c.Training.Name, names, results, c.Training.Window); err != nil {
			return results, err
		}
		if err := types.PlotExploration(c.Training.PlotPath, c.Training.Name, results[0]); err != nil {
			return results, err
		}
	}
	return results, runErr
}

// trainRun plays one run on table. Run 0 owns the store: it is
// checkpointed and its table is saved at the end, even when interrupted.
func trainRun(ctx context.Context, c *config.Config, run int, table *policies.QTable, s store.Store, policyName string, opts TrainOptions, output *types.ParallelOutput) runResult {
	runConfig := *c
	runConfig.Learning.Seed = c.Learning.Seed + uint64(run)
	runConfig.Game.Seed = c.Game.Seed + uint64(run)

	name := c.Training.Name
	if opts.Runs > 1 {
		name = fmt.Sprintf("%s_%d", c.Training.Name, run)
	}
	result := runResult{name: name}

	agent, err := runConfig.NewAgent(table)
	if err != nil {
		result.err = err
		return result
	}
	env, err := runConfig.NewEnvironment()
	if err != nil {
		result.err = err
		return result
	}

	expConfig := types.ExperimentConfig{
		Episodes:    c.Training.Episodes,
		Horizon:     c.Training.Horizon,
		TickSeconds: c.Training.TickSeconds,
		RecordPath:  c.Training.RecordPath,
		Observers:   opts.Observers,
		Quiet:       opts.Quiet,
		Output:      output,
	}
	if run == 0 && s != nil {
		expConfig.Checkpointer = store.NewCheckpointer(s, policyName, c.Store.CheckpointEvery)
	}

	exp := types.NewExperiment(name, agent, env, expConfig)
	result.results, result.err = exp.Run(ctx)
	result.visits = grid.NewVisitDataSet(env.Maze(), env.Visits())

	if c.Training.RecordPath != "" {
		graphPath := path.Join(c.Training.RecordPath, name+"_graph.json")
		if err := exp.Graph().Record(graphPath); err != nil {
			logging.Warn().Add(logging.Path(graphPath)).Add(logging.ErrorField(err)).Msg("could not write state graph")
		}
	}

	if run == 0 && s != nil {
		if err := s.Save(context.Background(), policyName, table); err != nil {
			result.err = fmt.Errorf("saving policy: %w", err)
			return result
		}
		logging.Info().
			Add(logging.Component("cli")).
			Add(logging.Str("policy", policyName)).
			Add(logging.TableSize(table.Len())).
			Msg("policy saved")
	}
	return result
}

// report logs the summary of every run and writes them to
// <record path>/<name>_summary.json.
func report(c *config.Config, names []string, results [][]types.EpisodeResult) error {
	summaries := make(map[string]types.Summary, len(names))
	for i, name := range names {
		summary := types.Summarize(results[i], c.Training.Window)
		summaries[name] = summary
		logging.Info().
			Add(logging.Component("cli")).
			Add(logging.Str("experiment", name)).
			Add(logging.Int("episodes", summary.Episodes)).
			Add(logging.Float64("mean_return", summary.MeanReturn)).
			Add(logging.Float64("recent_mean_return", summary.RecentMeanReturn)).
			Add(logging.Float64("win_rate", summary.WinRate)).
			Add(logging.TableSize(summary.FinalTableSize)).
			Msg("experiment summary")
	}
	if c.Training.RecordPath == "" {
		return nil
	}
	bs, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return err
	}
	return util.WriteToFile(path.Join(c.Training.RecordPath, c.Training.Name+"_summary.json"), string(bs))
}

func TrainCommand() *cobra.Command {
	var fresh bool
	var noPlots bool
	var parallel bool

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the agent and save its policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := interruptContext()
			defer stop()

			stopProfiling, err := startProfiling(c.Training.RecordPath)
			if err != nil {
				return err
			}
			defer stopProfiling()

			_, err = Train(ctx, c, TrainOptions{Runs: runs, Parallel: parallel, Fresh: fresh, NoPlots: noPlots, Quiet: quiet})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.PersistentFlags().BoolVar(&fresh, "fresh", false, "Start from an empty table even if a policy is saved")
	cmd.PersistentFlags().BoolVar(&parallel, "parallel", false, "Run the runs concurrently")
	cmd.PersistentFlags().BoolVar(&noPlots, "no-plots", false, "Do not draw plots")
	cmd.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write a CPU profile to this file in the save folder")
	cmd.PersistentFlags().StringVar(&memprofile, "memprofile", "", "Write a heap profile to this file in the save folder")
	return cmd
}
