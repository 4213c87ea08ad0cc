package types

import (
	"fmt"

	"github.com/zeu5/pacman-rl/logging"
	"github.com/zeu5/pacman-rl/pacman"
	"github.com/zeu5/pacman-rl/policies"
)

type AgentConfig struct {
	Controller ControllerConfig
	Rewards    RewardScheme
}

// Agent is the learning character. The simulation calls Update every tick
// and Notify for every event; EndEpisode closes an episode.
type Agent struct {
	encoder    *pacman.Encoder
	qTable     *policies.QTable
	selector   policies.Selector
	controller *Controller
	rewards    RewardScheme

	direction pacman.Action
	elapsed   float64
	episodes  int
	decisions int
	// updates performed by the controller before the current episode
	updatesBefore int
}

// NewAgent wires an agent around an owned Q-table and selector. The
// selector is expected to read from the same table.
func NewAgent(config *AgentConfig, qTable *policies.QTable, selector policies.Selector) *Agent {
	return &Agent{
		encoder:    pacman.NewEncoder(),
		qTable:     qTable,
		selector:   selector,
		controller: NewController(qTable, config.Controller),
		rewards:    config.Rewards,
	}
}

// Update is called once per simulation tick with the elapsed time and the
// current observation, and returns the direction to move in. Between
// nodes the current direction is kept.
func (a *Agent) Update(dt float64, obs *pacman.Observation) (pacman.Action, error) {
	a.elapsed += dt
	if !obs.AtNode {
		return a.direction, nil
	}
	if len(obs.Actions) == 0 {
		return pacman.Stop, fmt.Errorf("decision at %v: %w", obs.Node, policies.ErrNoActions)
	}

	state := a.encoder.Encode(obs)
	a.controller.Transition(state, obs.Actions)

	action, err := a.selector.SelectAction(state, obs.Actions)
	if err != nil {
		return pacman.Stop, err
	}
	a.controller.Commit(state, action)
	a.direction = action
	a.decisions++
	return action, nil
}

// Notify maps a simulation event to its reward. Terminal events also
// trigger the terminal update.
func (a *Agent) Notify(ev pacman.Event) {
	a.controller.Reward(a.rewards.For(ev.Kind))
	if ev.Kind.Terminal() {
		a.controller.Terminal()
		a.direction = pacman.Stop
	}
}

// EndEpisode performs any outstanding terminal update, decays exploration
// and returns the summary of the finished episode. Per-episode state is
// cleared for the next one.
func (a *Agent) EndEpisode() EpisodeSummary {
	a.controller.Terminal()
	a.selector.Decay()
	a.episodes++

	summary := EpisodeSummary{
		Episode:     a.episodes,
		Return:      a.controller.EpisodeReturn(),
		Decisions:   a.decisions,
		Transitions: a.controller.Trace().Len(),
		Updates:     a.controller.Updates() - a.updatesBefore,
		Exploration: a.selector.Exploration(),
		TableSize:   a.qTable.Len(),
		Duration:    a.elapsed,
	}
	logging.Debug().
		Add(logging.Component("agent")).
		Add(logging.Episode(summary.Episode)).
		Add(logging.Reward(summary.Return)).
		Add(logging.Exploration(summary.Exploration)).
		Add(logging.TableSize(summary.TableSize)).
		Msg("episode finished")

	a.updatesBefore = a.controller.Updates()
	a.controller.Reset()
	a.direction = pacman.Stop
	a.elapsed = 0
	a.decisions = 0
	return summary
}

func (a *Agent) Direction() pacman.Action {
	return a.direction
}

func (a *Agent) Exploration() float64 {
	return a.selector.Exploration()
}

func (a *Agent) SetExploration(v float64) {
	a.selector.SetExploration(v)
}

func (a *Agent) SetLearning(enabled bool) {
	a.controller.SetLearning(enabled)
}

func (a *Agent) Learning() bool {
	return a.controller.Learning()
}

func (a *Agent) QTable() *policies.QTable {
	return a.qTable
}

func (a *Agent) Controller() *Controller {
	return a.controller
}

// Episodes is the number of completed episodes.
func (a *Agent) Episodes() int {
	return a.episodes
}

// EpisodeSummary describes one finished episode.
type EpisodeSummary struct {
	Episode     int     `json:"episode"`
	Return      float64 `json:"return"`
	Decisions   int     `json:"decisions"`
	Transitions int     `json:"transitions"`
	Updates     int     `json:"updates"`
	Exploration float64 `json:"exploration"`
	TableSize   int     `json:"table_size"`
	Duration    float64 `json:"duration_s"`
}
