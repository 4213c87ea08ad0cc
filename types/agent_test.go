package types

import (
	"errors"
	"testing"

	"github.com/zeu5/pacman-rl/pacman"
	"github.com/zeu5/pacman-rl/policies"
)

func newTestAgent(epsilon float64) *Agent {
	q := policies.NewQTable()
	sel := policies.NewEpsilonGreedy(q, epsilon, policies.DecayConfig{Factor: 0.5, Floor: 0.1}, 1)
	return NewAgent(&AgentConfig{
		Controller: ControllerConfig{LearningRate: 0.1, Discount: 0.9, StepPenalty: -1, Learning: true},
		Rewards:    DefaultRewardScheme(),
	}, q, sel)
}

func atNode(x float64, actions ...pacman.Action) *pacman.Observation {
	return &pacman.Observation{
		AtNode:  true,
		Node:    pacman.Vector{X: x, Y: 16},
		Actions: actions,
	}
}

func TestAgentKeepsDirectionBetweenNodes(t *testing.T) {
	a := newTestAgent(0)
	first, err := a.Update(0.1, atNode(16, pacman.Right))
	if err != nil || first != pacman.Right {
		t.Fatalf("Update = %v, %v", first, err)
	}
	between := &pacman.Observation{Node: pacman.Vector{X: 16, Y: 16}}
	for i := 0; i < 3; i++ {
		got, err := a.Update(0.1, between)
		if err != nil || got != pacman.Right {
			t.Errorf("Update between nodes = %v, %v", got, err)
		}
	}
	if a.Controller().Trace().Len() != 0 {
		t.Error("update fired between nodes")
	}
}

func TestAgentNoActions(t *testing.T) {
	a := newTestAgent(0)
	if _, err := a.Update(0.1, atNode(16)); !errors.Is(err, policies.ErrNoActions) {
		t.Errorf("err = %v, want ErrNoActions", err)
	}
}

func TestAgentEpisode(t *testing.T) {
	a := newTestAgent(0.8)

	a.Update(0.1, atNode(16, pacman.Right))
	a.Notify(pacman.Event{Kind: pacman.PelletEaten})
	a.Update(0.1, atNode(32, pacman.Left, pacman.Right))
	a.Notify(pacman.Event{Kind: pacman.Eliminated, Ghost: pacman.Blinky})

	if a.Direction() != pacman.Stop {
		t.Errorf("direction = %v after elimination", a.Direction())
	}
	if a.Controller().Phase() != AwaitingFirstDecision {
		t.Error("terminal event did not close the branch")
	}

	summary := a.EndEpisode()
	if summary.Episode != 1 || a.Episodes() != 1 {
		t.Errorf("episode = %d", summary.Episode)
	}
	if summary.Decisions != 2 {
		t.Errorf("decisions = %d", summary.Decisions)
	}
	// pellet 10, one step -1, eliminated -500
	if summary.Return != -491 {
		t.Errorf("return = %v", summary.Return)
	}
	if summary.Updates != 2 || summary.Transitions != 2 {
		t.Errorf("updates = %d, transitions = %d", summary.Updates, summary.Transitions)
	}
	if summary.Exploration != 0.4 || a.Exploration() != 0.4 {
		t.Errorf("exploration = %v", summary.Exploration)
	}
	if summary.TableSize == 0 {
		t.Error("table is empty")
	}

	next := a.EndEpisode()
	if next.Updates != 0 || next.Return != 0 || next.Decisions != 0 {
		t.Errorf("second summary = %+v", next)
	}
	if next.Exploration != 0.2 {
		t.Errorf("exploration = %v", next.Exploration)
	}
}

func TestAgentExplorationControls(t *testing.T) {
	a := newTestAgent(0.5)
	a.SetExploration(0)
	a.SetLearning(false)
	if a.Exploration() != 0 || a.Learning() {
		t.Errorf("exploration = %v, learning = %v", a.Exploration(), a.Learning())
	}
}
