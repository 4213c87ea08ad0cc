package benchmarks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/zeu5/pacman-rl/config"
	"github.com/zeu5/pacman-rl/logging"
	"github.com/zeu5/pacman-rl/pacman"
	"github.com/zeu5/pacman-rl/policies"
	"github.com/zeu5/pacman-rl/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	c := config.Default()
	c.Training.Episodes = 3
	c.Training.Horizon = 300
	c.Training.RecordPath = filepath.Join(dir, "results")
	c.Training.PlotPath = filepath.Join(dir, "results")
	c.Training.Window = 2
	c.Store.Backend = config.BackendFile
	c.Store.Path = filepath.Join(dir, "policies", "agent.qtable")
	c.Store.CheckpointEvery = 2
	c.Logging.Format = "json"
	c.Logging.Output = discard{}
	logging.Init(c.Logging)
	return c
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestTrainSavesPolicy(t *testing.T) {
	c := testConfig(t)
	ctx := context.Background()

	results, err := Train(ctx, c, TrainOptions{Runs: 2, NoPlots: true, Quiet: true})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if len(results) != 2 || len(results[0]) != 3 || len(results[1]) != 3 {
		t.Fatalf("results shape = %d runs", len(results))
	}

	table := policies.NewQTable()
	if err := store.NewFileStore().Load(ctx, c.Store.Path, table); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.Len() != results[0][2].TableSize {
		t.Errorf("saved %d entries, run ended with %d", table.Len(), results[0][2].TableSize)
	}
	if _, err := os.Stat(filepath.Join(c.Training.RecordPath, "pacman_summary.json")); err != nil {
		t.Errorf("summary not written: %v", err)
	}
}

func TestPlayDoesNotLearn(t *testing.T) {
	c := testConfig(t)
	ctx := context.Background()
	if _, err := Train(ctx, c, TrainOptions{Runs: 1, NoPlots: true, Quiet: true}); err != nil {
		t.Fatalf("Train: %v", err)
	}
	before := policies.NewQTable()
	store.NewFileStore().Load(ctx, c.Store.Path, before)

	c.Training.Episodes = 2
	results, err := Play(ctx, c, true)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	for _, r := range results {
		if r.Updates != 0 {
			t.Errorf("episode %d made %d updates", r.Episode, r.Updates)
		}
		if r.Exploration != 0 {
			t.Errorf("exploration = %v", r.Exploration)
		}
	}

	after := policies.NewQTable()
	store.NewFileStore().Load(ctx, c.Store.Path, after)
	if after.Len() != before.Len() {
		t.Errorf("play changed the saved policy")
	}
}

func TestInspect(t *testing.T) {
	table := policies.NewQTable()
	s1 := pacman.State{Node: pacman.Point{X: 1, Y: 1}}
	s2 := pacman.State{Node: pacman.Point{X: 2, Y: 1}}
	table.Set(s1, pacman.Left, 5)
	table.Set(s1, pacman.Right, -3)
	table.Set(s2, pacman.Left, 9)

	stats := Inspect(table, 2)
	if stats.Entries != 3 || stats.States != 2 {
		t.Errorf("entries = %d, states = %d", stats.Entries, stats.States)
	}
	if stats.Min != -3 || stats.Max != 9 {
		t.Errorf("min = %v, max = %v", stats.Min, stats.Max)
	}
	if stats.Actions[pacman.Left] != 2 || stats.Actions[pacman.Right] != 1 {
		t.Errorf("actions = %v", stats.Actions)
	}
	if len(stats.Top) != 2 || stats.Top[0].State != s2 || stats.TopVals[1] != 5 {
		t.Errorf("top = %v %v", stats.Top, stats.TopVals)
	}
}

func TestTrainParallelRuns(t *testing.T) {
	c := testConfig(t)
	results, err := Train(context.Background(), c, TrainOptions{Runs: 3, Parallel: true, NoPlots: true, Quiet: true})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("runs = %d", len(results))
	}
	for i, r := range results {
		if len(r) != c.Training.Episodes {
			t.Errorf("run %d played %d episodes", i, len(r))
		}
	}
	for _, name := range []string{"pacman_0_graph.json", "pacman_2_graph.json"} {
		if _, err := os.Stat(filepath.Join(c.Training.RecordPath, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}
