// Package pacman holds the game-facing types the learning agent observes
// and acts upon: directions, ghosts, observations and the discrete State
// built from them.
package pacman

// Action is a movement direction. The zero value is Stop.
type Action int

const (
	Stop Action = iota
	Up
	Down
	Left
	Right
)

// AllActions in a fixed order
var AllActions = []Action{Stop, Up, Down, Left, Right}

func (a Action) String() string {
	switch a {
	case Stop:
		return "Stop"
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	}
	return "Unknown"
}

// Hash mirrors String so actions can be used wherever a stable key is needed.
func (a Action) Hash() string {
	return a.String()
}

// Valid reports whether a is one of the known directions.
func (a Action) Valid() bool {
	return a >= Stop && a <= Right
}

// Opposite returns the reverse direction. Stop is its own opposite.
func (a Action) Opposite() Action {
	switch a {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return Stop
}

// Delta is the unit grid offset of the direction, with Y growing downwards.
func (a Action) Delta() Point {
	switch a {
	case Up:
		return Point{0, -1}
	case Down:
		return Point{0, 1}
	case Left:
		return Point{-1, 0}
	case Right:
		return Point{1, 0}
	}
	return Point{}
}

// ParseAction is the inverse of String.
func ParseAction(s string) (Action, bool) {
	for _, a := range AllActions {
		if a.String() == s {
			return a, true
		}
	}
	return Stop, false
}
