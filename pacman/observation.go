package pacman

import "math"

// Vector is a raw simulation coordinate.
type Vector struct {
	X float64
	Y float64
}

func (v Vector) Add(o Vector) Vector {
	return Vector{v.X + o.X, v.Y + o.Y}
}

func (v Vector) Sub(o Vector) Vector {
	return Vector{v.X - o.X, v.Y - o.Y}
}

func (v Vector) Scale(k float64) Vector {
	return Vector{v.X * k, v.Y * k}
}

// MagnitudeSquared avoids the square root; it is all distance comparisons need.
func (v Vector) MagnitudeSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Round quantizes the vector to integer coordinates.
func (v Vector) Round() Point {
	return Point{X: int(math.Round(v.X)), Y: int(math.Round(v.Y))}
}

// Point is a rounded coordinate.
type Point struct {
	X int
	Y int
}

// Placeholder stands in for coordinates that must not enter the state:
// ghosts in their holding area, absent ghosts, and the nearest pellet once
// none are left.
var Placeholder = Point{X: -1, Y: -1}

// PelletKind separates regular pellets from power pellets.
type PelletKind int

const (
	NormalPellet PelletKind = iota
	PowerPellet
)

type Pellet struct {
	Position Vector
	Kind     PelletKind
}

type GhostObservation struct {
	Name     GhostName
	Position Vector
	Mode     GhostMode
	// Holding is set while the ghost sits in its pen and cannot interact
	Holding bool
}

// Observation is what the simulation reports to the agent every tick.
type Observation struct {
	// AtNode is true when the agent has just arrived at a graph node and
	// must choose its next direction.
	AtNode bool
	// Node is the position of the current (or last reached) node.
	Node    Vector
	Actions []Action
	Ghosts  []GhostObservation
	Pellets []Pellet
}

// Legal reports whether a is among the observation's available actions.
func (o *Observation) Legal(a Action) bool {
	for _, b := range o.Actions {
		if a == b {
			return true
		}
	}
	return false
}
