package policies

import (
	"math"

	"github.com/zeu5/pacman-rl/pacman"
)

// StateAction is the key of the QTable
type StateAction struct {
	State  pacman.State
	Action pacman.Action
}

// QTable is a sparse mapping from (state, action) to value. Entries that
// were never written read as 0 and are stored on first read.
type QTable struct {
	table map[StateAction]float64
}

func NewQTable() *QTable {
	return &QTable{
		table: make(map[StateAction]float64),
	}
}

func (q *QTable) Get(state pacman.State, action pacman.Action) float64 {
	key := StateAction{state, action}
	val, ok := q.table[key]
	if !ok {
		q.table[key] = 0
	}
	return val
}

func (q *QTable) Set(state pacman.State, action pacman.Action, val float64) {
	q.table[StateAction{state, action}] = val
}

// Has reports whether the pair has an entry, without creating one.
func (q *QTable) Has(state pacman.State, action pacman.Action) bool {
	_, ok := q.table[StateAction{state, action}]
	return ok
}

// Values reads the value of every action, in order.
func (q *QTable) Values(state pacman.State, actions []pacman.Action) []float64 {
	vals := make([]float64, len(actions))
	for i, a := range actions {
		vals[i] = q.Get(state, a)
	}
	return vals
}

// Max returns the largest value among the given actions, or 0 when there
// are none.
func (q *QTable) Max(state pacman.State, actions []pacman.Action) float64 {
	if len(actions) == 0 {
		return 0
	}
	maxVal := math.Inf(-1)
	for _, a := range actions {
		if val := q.Get(state, a); val > maxVal {
			maxVal = val
		}
	}
	return maxVal
}

func (q *QTable) Len() int {
	return len(q.table)
}

// Range calls fn for every entry until fn returns false. Order is unspecified.
func (q *QTable) Range(fn func(StateAction, float64) bool) {
	for k, v := range q.table {
		if !fn(k, v) {
			return
		}
	}
}

// Replace makes q hold exactly the entries of other.
func (q *QTable) Replace(other *QTable) {
	q.table = other.table
}

func (q *QTable) Clone() *QTable {
	c := &QTable{table: make(map[StateAction]float64, len(q.table))}
	for k, v := range q.table {
		c.table[k] = v
	}
	return c
}

// Reset drops every entry
func (q *QTable) Reset() {
	q.table = make(map[StateAction]float64)
}
