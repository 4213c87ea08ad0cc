package grid

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/zeu5/pacman-rl/pacman"
	"github.com/zeu5/pacman-rl/types"
)

var (
	ErrGameOver    = errors.New("game is over, reset first")
	ErrInvalidTick = errors.New("tick duration must be positive")
)

// Config of the simulation. Speeds are in units per second, durations in
// seconds.
type Config struct {
	Layout         string  `yaml:"layout"`
	PacmanSpeed    float64 `yaml:"pacman_speed"`
	GhostSpeed     float64 `yaml:"ghost_speed"`
	Lives          int     `yaml:"lives"`
	ScatterSeconds float64 `yaml:"scatter_seconds"`
	ChaseSeconds   float64 `yaml:"chase_seconds"`
	FreightSeconds float64 `yaml:"freight_seconds"`
	SpawnSeconds   float64 `yaml:"spawn_seconds"`
	// ReleaseSeconds separates the release of consecutive ghosts from the pen
	ReleaseSeconds float64 `yaml:"release_seconds"`
	CollideRadius  float64 `yaml:"collide_radius"`
	Seed           uint64  `yaml:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Layout:         DefaultLayout,
		PacmanSpeed:    100,
		GhostSpeed:     80,
		Lives:          3,
		ScatterSeconds: 7,
		ChaseSeconds:   20,
		FreightSeconds: 7,
		SpawnSeconds:   3,
		ReleaseSeconds: 2,
		CollideRadius:  TileSize / 2,
		Seed:           0,
	}
}

type ghost struct {
	mover
	name    pacman.GhostName
	mode    pacman.GhostMode
	holding bool
	// releaseAt is the clock value at which a holding ghost leaves the pen
	releaseAt float64
	freight   float64
}

// Environment is a headless Pac-Man game on a tile maze.
type Environment struct {
	config Config
	maze   *Maze
	rand   *rand.Rand

	pacman  mover
	ghosts  []*ghost
	pellets []pacman.Pellet
	lives   int
	clock   float64
	// main mode cycles between Scatter and Chase
	mainMode  pacman.GhostMode
	modeClock float64
	done      bool

	visits map[pacman.Point]int
}

var _ types.Environment = &Environment{}

func NewEnvironment(config Config) (*Environment, error) {
	maze, err := ParseMaze(config.Layout)
	if err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}
	if config.Lives < 1 {
		config.Lives = 1
	}
	return &Environment{
		config: config,
		maze:   maze,
		rand:   rand.New(rand.NewSource(config.Seed)),
		visits: make(map[pacman.Point]int),
		done:   true,
	}, nil
}

func (e *Environment) Maze() *Maze {
	return e.maze
}

func (e *Environment) Lives() int {
	return e.lives
}

// Remaining is the number of pellets left on the board.
func (e *Environment) Remaining() int {
	return len(e.pellets)
}

// Visits counts the decisions taken on every node across all episodes.
func (e *Environment) Visits() map[pacman.Point]int {
	return e.visits
}

func (e *Environment) Reset() (*pacman.Observation, error) {
	e.pellets = e.maze.Pellets()
	e.lives = e.config.Lives
	e.clock = 0
	e.mainMode = pacman.Scatter
	e.modeClock = 0
	e.done = false
	e.pacman = newMover(e.maze.Start, e.config.PacmanSpeed)
	e.ghosts = make([]*ghost, pacman.NumGhosts)
	for i := 0; i < pacman.NumGhosts; i++ {
		e.ghosts[i] = &ghost{name: pacman.GhostName(i)}
	}
	e.penGhosts()
	return e.observe(), nil
}

// penGhosts puts every ghost back into the pen and staggers their release.
func (e *Environment) penGhosts() {
	for i, g := range e.ghosts {
		g.mover = newMover(e.maze.Pen[i%len(e.maze.Pen)], e.config.GhostSpeed)
		g.mode = e.mainMode
		g.holding = true
		g.freight = 0
		g.releaseAt = e.clock + float64(i+1)*e.config.ReleaseSeconds
	}
}

// Step moves the agent in direction a for dt seconds. The direction is
// only taken into account when the agent is resting on a node.
func (e *Environment) Step(a pacman.Action, dt float64) (*pacman.Observation, []pacman.Event, bool, error) {
	if e.done {
		return nil, nil, true, ErrGameOver
	}
	if dt <= 0 {
		return nil, nil, false, ErrInvalidTick
	}
	e.clock += dt
	events := make([]pacman.Event, 0)

	if e.pacman.atNode() {
		e.visits[e.pacman.node]++
		e.pacman.head(e.legal(a))
	}
	e.pacman.advance(dt)

	events = append(events, e.eat()...)
	if len(e.pellets) == 0 {
		events = append(events, pacman.Event{Kind: pacman.LevelComplete})
		e.done = true
		return e.observe(), events, true, nil
	}

	e.tickModes(dt)
	for _, g := range e.ghosts {
		e.moveGhost(g, dt)
	}
	events = append(events, e.collisions()...)
	return e.observe(), events, e.done, nil
}

func (e *Environment) legal(a pacman.Action) pacman.Action {
	for _, m := range e.maze.Moves(e.pacman.node, false) {
		if m == a {
			return a
		}
	}
	return pacman.Stop
}

func (e *Environment) eat() []pacman.Event {
	events := make([]pacman.Event, 0)
	radius := TileSize / 4
	remaining := e.pellets[:0]
	for _, p := range e.pellets {
		if !collide(e.pacman.position, p.Position, radius) {
			remaining = append(remaining, p)
			continue
		}
		if p.Kind == pacman.PowerPellet {
			events = append(events, pacman.Event{Kind: pacman.PowerPelletEaten})
			e.frighten()
		} else {
			events = append(events, pacman.Event{Kind: pacman.PelletEaten})
		}
	}
	e.pellets = remaining
	return events
}

func (e *Environment) frighten() {
	for _, g := range e.ghosts {
		if g.holding {
			continue
		}
		g.mode = pacman.Freight
		g.freight = e.config.FreightSeconds
	}
}

func (e *Environment) tickModes(dt float64) {
	e.modeClock += dt
	limit := e.config.ScatterSeconds
	if e.mainMode == pacman.Chase {
		limit = e.config.ChaseSeconds
	}
	if e.modeClock >= limit {
		e.modeClock = 0
		if e.mainMode == pacman.Scatter {
			e.mainMode = pacman.Chase
		} else {
			e.mainMode = pacman.Scatter
		}
	}

	for _, g := range e.ghosts {
		switch {
		case g.holding:
			if e.clock >= g.releaseAt {
				g.holding = false
				g.mode = e.mainMode
			}
		case g.mode == pacman.Freight:
			g.freight -= dt
			if g.freight <= 0 {
				g.freight = 0
				g.mode = e.mainMode
			}
		default:
			g.mode = e.mainMode
		}
	}
}

func (e *Environment) moveGhost(g *ghost, dt float64) {
	if g.holding {
		return
	}
	if g.atNode() {
		g.head(e.ghostDirection(g))
	}
	g.advance(dt)
}

// ghostDirection leaves the pen if possible, chases the agent in Chase
// mode and wanders otherwise. Reversing is avoided unless it is the only
// way out.
func (e *Environment) ghostDirection(g *ghost) pacman.Action {
	moves := e.maze.Moves(g.node, true)
	if len(moves) == 0 {
		return pacman.Stop
	}
	candidates := make([]pacman.Action, 0, len(moves))
	if e.maze.InPen(g.node) {
		for _, m := range moves {
			d := m.Delta()
			if !e.maze.InPen(pacman.Point{X: g.node.X + d.X, Y: g.node.Y + d.Y}) {
				candidates = append(candidates, m)
			}
		}
	}
	if len(candidates) == 0 {
		for _, m := range moves {
			if g.direction != pacman.Stop && m == g.direction.Opposite() {
				continue
			}
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		candidates = moves
	}

	if g.mode == pacman.Chase && !e.maze.InPen(g.node) {
		best := candidates[0]
		bestDist := -1.0
		target := ToVector(e.pacman.node)
		for _, m := range candidates {
			d := m.Delta()
			next := ToVector(pacman.Point{X: g.node.X + d.X, Y: g.node.Y + d.Y})
			dist := next.Sub(target).MagnitudeSquared()
			if bestDist < 0 || dist < bestDist {
				best, bestDist = m, dist
			}
		}
		return best
	}
	return candidates[e.rand.Intn(len(candidates))]
}

// collisions resolves contacts between the agent and the ghosts. At most
// one elimination happens per step.
func (e *Environment) collisions() []pacman.Event {
	events := make([]pacman.Event, 0)
	for _, g := range e.ghosts {
		if g.holding || !collide(e.pacman.position, g.position, e.config.CollideRadius) {
			continue
		}
		if g.mode == pacman.Freight {
			events = append(events, pacman.Event{Kind: pacman.GhostEaten, Ghost: g.name})
			g.place(e.maze.Pen[int(g.name)%len(e.maze.Pen)])
			g.mode = pacman.Spawn
			g.holding = true
			g.freight = 0
			g.releaseAt = e.clock + e.config.SpawnSeconds
			continue
		}
		if g.mode.Threatening() {
			events = append(events, pacman.Event{Kind: pacman.Eliminated, Ghost: g.name})
			e.lives--
			if e.lives <= 0 {
				e.done = true
			} else {
				e.pacman = newMover(e.maze.Start, e.config.PacmanSpeed)
				e.penGhosts()
			}
			return events
		}
	}
	return events
}

func (e *Environment) observe() *pacman.Observation {
	obs := &pacman.Observation{
		AtNode:  e.pacman.atNode(),
		Node:    ToVector(e.pacman.node),
		Ghosts:  make([]pacman.GhostObservation, 0, len(e.ghosts)),
		Pellets: append([]pacman.Pellet(nil), e.pellets...),
	}
	if obs.AtNode {
		obs.Actions = e.maze.Moves(e.pacman.node, false)
		if len(obs.Actions) == 0 {
			obs.Actions = []pacman.Action{pacman.Stop}
		}
	}
	for _, g := range e.ghosts {
		obs.Ghosts = append(obs.Ghosts, pacman.GhostObservation{
			Name:     g.name,
			Position: g.position,
			Mode:     g.mode,
			Holding:  g.holding,
		})
	}
	return obs
}
