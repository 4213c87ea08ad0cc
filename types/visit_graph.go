package types

import (
	"encoding/json"

	"github.com/zeu5/pacman-rl/pacman"
	"github.com/zeu5/pacman-rl/util"
)

// VisitGraph is the graph of encoded states connected by the transitions
// the controller traced, accumulated over episodes.
type VisitGraph struct {
	Nodes map[string]*Node `json:"nodes"`
}

func NewVisitGraph() *VisitGraph {
	return &VisitGraph{
		Nodes: make(map[string]*Node),
	}
}

// Update records a transition and returns true if from was never seen.
func (v *VisitGraph) Update(from pacman.State, action pacman.Action, to pacman.State) bool {
	fromKey := from.Hash()
	toKey := to.Hash()
	new := false
	if _, ok := v.Nodes[fromKey]; !ok {
		v.Nodes[fromKey] = NewNode(from)
		new = true
	}
	if _, ok := v.Nodes[toKey]; !ok {
		v.Nodes[toKey] = NewNode(to)
	}
	v.Nodes[fromKey].Visits += 1
	v.Nodes[fromKey].AddNext(action.String(), toKey)
	v.Nodes[toKey].AddPrev(action.String(), fromKey)
	return new
}

// AddTrace records every non-terminal transition of trace and returns the
// number of states seen for the first time.
func (v *VisitGraph) AddTrace(trace *Trace) int {
	before := len(v.Nodes)
	for i := 0; i < trace.Len(); i++ {
		tr, _ := trace.Get(i)
		if tr.Terminal {
			if _, ok := v.Nodes[tr.State.Hash()]; !ok {
				v.Nodes[tr.State.Hash()] = NewNode(tr.State)
			}
			v.Nodes[tr.State.Hash()].Visits += 1
			continue
		}
		v.Update(tr.State, tr.Action, tr.Next)
	}
	return len(v.Nodes) - before
}

func (v *VisitGraph) Len() int {
	return len(v.Nodes)
}

func (v *VisitGraph) GetVisits() map[string]int {
	results := make(map[string]int)
	for k, n := range v.Nodes {
		results[k] = n.Visits
	}
	return results
}

// Record writes the graph as JSON to filePath.
func (v *VisitGraph) Record(filePath string) error {
	bs, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return util.WriteToFile(filePath, string(bs))
}

type Node struct {
	Key    string `json:"key"`
	Visits int    `json:"visits"`
	// Next, Prev: each action can lead to many states
	Next map[string]map[string]bool `json:"next"`
	Prev map[string]map[string]bool `json:"prev"`
}

func NewNode(s pacman.State) *Node {
	return &Node{
		Key:    s.Hash(),
		Visits: 0,
		Next:   make(map[string]map[string]bool),
		Prev:   make(map[string]map[string]bool),
	}
}

func (n *Node) AddPrev(a, prev string) {
	if _, ok := n.Prev[a]; !ok {
		n.Prev[a] = make(map[string]bool)
	}
	n.Prev[a][prev] = true
}

func (n *Node) AddNext(a, next string) {
	if _, ok := n.Next[a]; !ok {
		n.Next[a] = make(map[string]bool)
	}
	n.Next[a][next] = true
}
