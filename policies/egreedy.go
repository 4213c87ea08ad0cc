package policies

import (
	"golang.org/x/exp/rand"

	"github.com/zeu5/pacman-rl/pacman"
)

// EpsilonGreedy explores with probability epsilon and otherwise picks a
// best valued action, breaking ties uniformly at random.
type EpsilonGreedy struct {
	qTable  *QTable
	epsilon float64
	decay   DecayConfig
	rand    *rand.Rand
}

var _ Selector = &EpsilonGreedy{}

func NewEpsilonGreedy(qTable *QTable, epsilon float64, decay DecayConfig, seed uint64) *EpsilonGreedy {
	return &EpsilonGreedy{
		qTable:  qTable,
		epsilon: epsilon,
		decay:   decay,
		rand:    rand.New(rand.NewSource(seed)),
	}
}

func (e *EpsilonGreedy) SelectAction(state pacman.State, actions []pacman.Action) (pacman.Action, error) {
	if len(actions) == 0 {
		return pacman.Stop, ErrNoActions
	}

	if e.rand.Float64() < e.epsilon {
		return actions[e.rand.Intn(len(actions))], nil
	}

	vals := e.qTable.Values(state, actions)
	maxVal := vals[0]
	for _, v := range vals[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	best := make([]pacman.Action, 0, len(actions))
	for i, v := range vals {
		if v == maxVal {
			best = append(best, actions[i])
		}
	}
	return best[e.rand.Intn(len(best))], nil
}

func (e *EpsilonGreedy) Decay() {
	e.epsilon = e.decay.apply(e.epsilon)
}

func (e *EpsilonGreedy) Exploration() float64 {
	return e.epsilon
}

func (e *EpsilonGreedy) SetExploration(epsilon float64) {
	e.epsilon = epsilon
}
