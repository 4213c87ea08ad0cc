package types

import "github.com/zeu5/pacman-rl/pacman"

// Transition is one learning update: from State via Action, collecting
// Reward, landing in Next. Terminal updates have no Next.
type Transition struct {
	State    pacman.State
	Action   pacman.Action
	Reward   float64
	Next     pacman.State
	Terminal bool
}

// Trace of an episode as the sequence of updates the controller performed
type Trace struct {
	transitions []Transition
}

func NewTrace() *Trace {
	return &Trace{
		transitions: make([]Transition, 0),
	}
}

func (t *Trace) Append(tr Transition) {
	t.transitions = append(t.transitions, tr)
}

func (t *Trace) Len() int {
	return len(t.transitions)
}

func (t *Trace) Get(i int) (Transition, bool) {
	if i < 0 || i >= len(t.transitions) {
		return Transition{}, false
	}
	return t.transitions[i], true
}

func (t *Trace) Last() (Transition, bool) {
	return t.Get(len(t.transitions) - 1)
}

// Return is the undiscounted sum of rewards in the trace.
func (t *Trace) Return() float64 {
	sum := 0.0
	for _, tr := range t.transitions {
		sum += tr.Reward
	}
	return sum
}

func (t *Trace) Reset() {
	t.transitions = t.transitions[:0]
}
