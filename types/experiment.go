package types

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/google/uuid"

	"github.com/zeu5/pacman-rl/logging"
	"github.com/zeu5/pacman-rl/pacman"
	"github.com/zeu5/pacman-rl/policies"
	"github.com/zeu5/pacman-rl/util"
)

// EpisodeResult is the record of one episode of an experiment.
type EpisodeResult struct {
	EpisodeSummary
	RunID        string `json:"run_id"`
	Experiment   string `json:"experiment"`
	Ticks        int    `json:"ticks"`
	Pellets      int    `json:"pellets"`
	GhostsEaten  int    `json:"ghosts_eaten"`
	Eliminations int    `json:"eliminations"`
	Won          bool   `json:"won"`
	// NewStates is the number of states first reached in this episode
	NewStates    int    `json:"new_states"`
	// Coverage is the number of distinct states reached so far
	Coverage     int    `json:"coverage"`
}

// Observer receives every episode result as soon as it is available.
type Observer interface {
	Observe(EpisodeResult)
}

// Checkpointer persists the table while an experiment is running.
type Checkpointer interface {
	Checkpoint(ctx context.Context, episode int, table *policies.QTable) error
}

type ExperimentConfig struct {
	Episodes int
	// Horizon is the maximum number of ticks per episode
	Horizon     int
	TickSeconds float64
	// RecordPath is a folder where episode records are appended as JSON
	// lines. Empty disables recording.
	RecordPath   string
	Observers    []Observer
	Checkpointer Checkpointer
	// Quiet disables the progress line
	Quiet bool
	// Output receives the progress line instead of the terminal when set
	Output *ParallelOutput
}

// Experiment runs an agent against an environment for a number of episodes
type Experiment struct {
	Name        string
	RunID       string
	agent       *Agent
	environment Environment
	config      ExperimentConfig
	graph       *VisitGraph
}

func NewExperiment(name string, agent *Agent, environment Environment, config ExperimentConfig) *Experiment {
	return &Experiment{
		Name:        name,
		RunID:       uuid.NewString(),
		agent:       agent,
		environment: environment,
		config:      config,
		graph:       NewVisitGraph(),
	}
}

// Graph is the state graph of every transition traced so far.
func (e *Experiment) Graph() *VisitGraph {
	return e.graph
}

func (e *Experiment) recordResult(result EpisodeResult) {
	bs, err := json.Marshal(result)
	if err != nil {
		logging.Warn().Add(logging.ErrorField(err)).Msg("could not encode episode record")
		return
	}
	recordFile := path.Join(e.config.RecordPath, e.Name+"_"+e.RunID+".jsonl")
	if err := util.AppendToFile(recordFile, string(bs)); err != nil {
		logging.Warn().Add(logging.Path(recordFile)).Add(logging.ErrorField(err)).Msg("could not write episode record")
	}
}

// Run executes the configured number of episodes. Cancellation is checked
// between episodes; an episode in progress always completes.
func (e *Experiment) Run(ctx context.Context) ([]EpisodeResult, error) {
	results := make([]EpisodeResult, 0, e.config.Episodes)
	logging.Info().
		Add(logging.Component("experiment")).
		Add(logging.Str("experiment", e.Name)).
		Add(logging.RunID(e.RunID)).
		Add(logging.Int("episodes", e.config.Episodes)).
		Add(logging.Bool("learning", e.agent.Learning())).
		Msg("starting experiment")

	for i := 0; i < e.config.Episodes; i++ {
		select {
		case <-ctx.Done():
			e.finish()
			return results, ctx.Err()
		default:
		}

		result, err := e.runEpisode()
		if err != nil {
			e.finish()
			return results, fmt.Errorf("episode %d: %w", i+1, err)
		}
		results = append(results, result)

		if e.config.RecordPath != "" {
			e.recordResult(result)
		}
		for _, o := range e.config.Observers {
			o.Observe(result)
		}
		if e.config.Checkpointer != nil {
			if err := e.config.Checkpointer.Checkpoint(ctx, result.Episode, e.agent.QTable()); err != nil {
				logging.Error().Add(logging.Episode(result.Episode)).Add(logging.ErrorField(err)).Msg("checkpoint failed")
			}
		}
		e.progress(i+1, result)
	}
	e.finish()
	return results, nil
}

func (e *Experiment) progress(episode int, result EpisodeResult) {
	if e.config.Quiet {
		return
	}
	line := fmt.Sprintf("Exp: %s, Episode: %d/%d, Return: %8.1f, Eps: %.3f, States: %d",
		e.Name, episode, e.config.Episodes, result.Return, result.Exploration, result.TableSize)
	if e.config.Output != nil {
		// the last line must not be lost to a concurrent redraw
		if episode == e.config.Episodes {
			e.config.Output.Set(line)
		} else {
			e.config.Output.TrySet(line)
		}
		return
	}
	fmt.Printf("\r%s", line)
}

func (e *Experiment) finish() {
	if !e.config.Quiet && e.config.Output == nil {
		fmt.Println("")
	}
}

// runEpisode plays a single episode to completion or to the horizon.
func (e *Experiment) runEpisode() (EpisodeResult, error) {
	result := EpisodeResult{RunID: e.RunID, Experiment: e.Name}

	obs, err := e.environment.Reset()
	if err != nil {
		return result, fmt.Errorf("reset: %w", err)
	}

	dt := e.config.TickSeconds
	for tick := 0; tick < e.config.Horizon; tick++ {
		action, err := e.agent.Update(dt, obs)
		if err != nil {
			return result, err
		}
		next, events, done, err := e.environment.Step(action, dt)
		if err != nil {
			return result, fmt.Errorf("step: %w", err)
		}
		result.Ticks++
		for _, ev := range events {
			e.agent.Notify(ev)
			switch ev.Kind {
			case pacman.PelletEaten, pacman.PowerPelletEaten:
				result.Pellets++
			case pacman.GhostEaten:
				result.GhostsEaten++
			case pacman.Eliminated:
				result.Eliminations++
			case pacman.LevelComplete:
				result.Won = true
			}
		}
		obs = next
		if done {
			break
		}
	}
	// EndEpisode starts a fresh trace, the finished one stays readable
	trace := e.agent.Controller().Trace()
	result.EpisodeSummary = e.agent.EndEpisode()
	result.NewStates = e.graph.AddTrace(trace)
	result.Coverage = e.graph.Len()
	return result, nil
}
