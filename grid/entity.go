package grid

import "github.com/zeu5/pacman-rl/pacman"

// mover travels between neighbouring tiles at a constant speed.
type mover struct {
	node      pacman.Point
	target    pacman.Point
	direction pacman.Action
	position  pacman.Vector
	speed     float64
}

func newMover(start pacman.Point, speed float64) mover {
	return mover{
		node:     start,
		target:   start,
		position: ToVector(start),
		speed:    speed,
	}
}

// atNode is true while the mover rests on its node.
func (m *mover) atNode() bool {
	return m.target == m.node
}

// head starts moving from the current node in direction a.
func (m *mover) head(a pacman.Action) {
	m.direction = a
	if a == pacman.Stop {
		m.target = m.node
		return
	}
	d := a.Delta()
	m.target = pacman.Point{X: m.node.X + d.X, Y: m.node.Y + d.Y}
}

// advance moves for dt seconds and returns true when the target node was
// reached. Overshoot is discarded: the mover stops on the node.
func (m *mover) advance(dt float64) bool {
	if m.atNode() {
		return false
	}
	goal := ToVector(m.target)
	remaining := goal.Sub(m.position).MagnitudeSquared()
	step := m.speed * dt
	if step*step >= remaining {
		m.position = goal
		m.node = m.target
		return true
	}
	d := m.direction.Delta()
	m.position = m.position.Add(pacman.Vector{X: float64(d.X), Y: float64(d.Y)}.Scale(step))
	return false
}

func (m *mover) place(p pacman.Point) {
	m.node = p
	m.target = p
	m.direction = pacman.Stop
	m.position = ToVector(p)
}

func collide(a, b pacman.Vector, radius float64) bool {
	return a.Sub(b).MagnitudeSquared() <= radius*radius
}
