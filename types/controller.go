package types

import (
	"github.com/zeu5/pacman-rl/logging"
	"github.com/zeu5/pacman-rl/pacman"
	"github.com/zeu5/pacman-rl/policies"
)

// Phase of the learning controller within an episode.
type Phase int

const (
	// AwaitingFirstDecision: no previous state/action recorded yet
	AwaitingFirstDecision Phase = iota
	// Tracking: a previous state/action exists and updates can fire
	Tracking
)

func (p Phase) String() string {
	if p == Tracking {
		return "Tracking"
	}
	return "AwaitingFirstDecision"
}

type ControllerConfig struct {
	LearningRate float64
	Discount     float64
	// StepPenalty is added to the pending reward each time the agent
	// reaches a node after moving
	StepPenalty float64
	Learning    bool
}

// Controller performs the temporal-difference updates. It owns the
// transition bookkeeping and the pending reward of the current episode.
type Controller struct {
	qTable  *policies.QTable
	rewards *RewardAccumulator
	config  ControllerConfig

	phase      Phase
	prevState  pacman.State
	prevAction pacman.Action

	trace         *Trace
	updates       int
	episodeReturn float64
}

func NewController(qTable *policies.QTable, config ControllerConfig) *Controller {
	return &Controller{
		qTable:  qTable,
		rewards: NewRewardAccumulator(),
		config:  config,
		phase:   AwaitingFirstDecision,
		trace:   NewTrace(),
	}
}

// Reward adds a contribution to the pending reward.
func (c *Controller) Reward(delta float64) {
	c.rewards.Add(delta)
	c.episodeReturn += delta
}

// Transition is called when the agent reaches a decision point in state
// next, where legal are the actions available. It returns true if the
// Q-table was updated.
//
// An update fires only if the state changed and the action that led here
// was a movement. Otherwise the pending reward keeps accumulating and is
// attributed to the next update.
func (c *Controller) Transition(next pacman.State, legal []pacman.Action) bool {
	if c.phase != Tracking {
		return false
	}
	if c.prevAction != pacman.Stop {
		c.Reward(c.config.StepPenalty)
	}
	if next == c.prevState || c.prevAction == pacman.Stop {
		return false
	}

	reward := c.rewards.Drain()
	c.trace.Append(Transition{
		State:  c.prevState,
		Action: c.prevAction,
		Reward: reward,
		Next:   next,
	})
	if !c.config.Learning {
		return false
	}
	c.update(reward, c.qTable.Max(next, legal))
	return true
}

// Commit records the action chosen in state.
func (c *Controller) Commit(state pacman.State, action pacman.Action) {
	c.prevState = state
	c.prevAction = action
	c.phase = Tracking
}

// Terminal performs the final update of a branch with no future value and
// returns the controller to AwaitingFirstDecision. It returns true if the
// Q-table was updated.
func (c *Controller) Terminal() bool {
	reward := c.rewards.Drain()
	if c.phase != Tracking {
		return false
	}
	c.phase = AwaitingFirstDecision

	c.trace.Append(Transition{
		State:    c.prevState,
		Action:   c.prevAction,
		Reward:   reward,
		Terminal: true,
	})
	if !c.config.Learning {
		return false
	}
	c.update(reward, 0)
	return true
}

func (c *Controller) update(reward, future float64) {
	cur := c.qTable.Get(c.prevState, c.prevAction)
	target := reward + c.config.Discount*future
	next := cur + c.config.LearningRate*(target-cur)
	c.qTable.Set(c.prevState, c.prevAction, next)
	c.updates++

	logging.Trace().
		Add(logging.Component("controller")).
		Add(logging.State(c.prevState)).
		Add(logging.Action(c.prevAction)).
		Add(logging.Reward(reward)).
		Add(logging.Float64("value", next)).
		Msg("q update")
}

// Reset clears the per-episode state: bookkeeping, pending reward and trace.
func (c *Controller) Reset() {
	c.phase = AwaitingFirstDecision
	c.prevState = pacman.State{}
	c.prevAction = pacman.Stop
	c.rewards.Drain()
	c.trace = NewTrace()
	c.episodeReturn = 0
}

func (c *Controller) SetLearning(enabled bool) {
	c.config.Learning = enabled
}

func (c *Controller) Learning() bool {
	return c.config.Learning
}

func (c *Controller) Phase() Phase {
	return c.phase
}

// Previous returns the recorded state and action, and false before the
// first decision of an episode.
func (c *Controller) Previous() (pacman.State, pacman.Action, bool) {
	if c.phase != Tracking {
		return pacman.State{}, pacman.Stop, false
	}
	return c.prevState, c.prevAction, true
}

func (c *Controller) Pending() float64 {
	return c.rewards.Pending()
}

func (c *Controller) Trace() *Trace {
	return c.trace
}

// Updates counts table writes over the controller's lifetime.
func (c *Controller) Updates() int {
	return c.updates
}

// EpisodeReturn is the sum of every reward contribution since the last Reset.
func (c *Controller) EpisodeReturn() float64 {
	return c.episodeReturn
}
