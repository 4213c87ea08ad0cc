package benchmarks

import "github.com/spf13/cobra"

var (
	configPath string
	episodes   int
	horizon    int
	saveFile   string
	runs       int
	seed       uint64
	logLevel   string
	quiet      bool
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "pacman-rl",
		Short:         "Train and evaluate a tabular Q-learning Pac-Man agent",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCommand.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 1000, "Number of episodes to run")
	rootCommand.PersistentFlags().IntVar(&horizon, "horizon", 6000, "Maximum number of ticks of each episode")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().IntVar(&runs, "runs", 1, "Number of experiment runs")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 0, "Seed of the selector and the simulation")
	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCommand.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the progress line")
	// adding the subcommands here
	rootCommand.AddCommand(TrainCommand())
	rootCommand.AddCommand(PlayCommand())
	rootCommand.AddCommand(InspectCommand())
	rootCommand.AddCommand(ServeCommand())
	return rootCommand
}
