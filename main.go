package main

import (
	"os"

	"github.com/zeu5/pacman-rl/benchmarks"
	"github.com/zeu5/pacman-rl/logging"
)

// main entry point to all the commands
func main() {
	rootCommand := benchmarks.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		logging.Error().Add(logging.ErrorField(err)).Msg("command failed")
		os.Exit(1)
	}
}
