package benchmarks

import (
	"os"
	"path"
	"runtime"
	"runtime/pprof"

	"github.com/zeu5/pacman-rl/logging"
	"github.com/zeu5/pacman-rl/util"
)

var (
	cpuprofile string
	memprofile string
)

// startProfiling starts the CPU profile if requested. The returned function
// stops it and writes the heap profile.
func startProfiling(folder string) (func(), error) {
	if err := util.EnsureDir(folder); err != nil {
		return nil, err
	}
	stopCPU := func() {}
	if cpuprofile != "" {
		cpuProfPath := path.Join(folder, cpuprofile)
		f, err := os.Create(cpuProfPath)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, err
		}
		logging.Info().Add(logging.Component("profiling")).Add(logging.Path(cpuProfPath)).Msg("profiling CPU")
		stopCPU = func() {
			pprof.StopCPUProfile()
			f.Close()
		}
	}

	return func() {
		stopCPU()
		if memprofile == "" {
			return
		}
		memProfPath := path.Join(folder, memprofile)
		f, err := os.Create(memProfPath)
		if err != nil {
			logging.Error().Add(logging.Path(memProfPath)).Add(logging.ErrorField(err)).Msg("could not create memory profile")
			return
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			logging.Error().Add(logging.Path(memProfPath)).Add(logging.ErrorField(err)).Msg("could not write memory profile")
		}
	}, nil
}
