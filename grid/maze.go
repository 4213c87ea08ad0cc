// Package grid is a headless tile maze the agent can be trained in. Every
// open tile is a graph node; the agent and the ghosts move between
// neighbouring nodes.
package grid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zeu5/pacman-rl/pacman"
)

// TileSize is the distance in simulation units between two neighbouring nodes.
const TileSize = 16.0

// Layout legend:
//
//	#  wall
//	.  pellet
//	o  power pellet
//	   (space) open tile
//	P  agent start
//	G  ghost pen, closed to the agent
const DefaultLayout = `
###########
#o...#...o#
#.##.#.##.#
#.........#
#.##GGG##.#
#....P....#
#.##.#.##.#
#o...#...o#
###########
`

var (
	ErrEmptyLayout = errors.New("layout is empty")
	ErrNoStart     = errors.New("layout has no agent start")
	ErrNoPen       = errors.New("layout has no ghost pen")
)

type Maze struct {
	Width  int
	Height int
	cells  [][]byte
	Start  pacman.Point
	Pen    []pacman.Point
}

// ParseMaze reads a layout. Rows shorter than the widest one are padded
// with walls.
func ParseMaze(layout string) (*Maze, error) {
	rows := make([]string, 0)
	for _, line := range strings.Split(layout, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, line)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyLayout
	}

	m := &Maze{Height: len(rows), Start: pacman.Placeholder}
	for _, r := range rows {
		if len(r) > m.Width {
			m.Width = len(r)
		}
	}
	m.cells = make([][]byte, m.Height)
	for y, r := range rows {
		m.cells[y] = make([]byte, m.Width)
		for x := 0; x < m.Width; x++ {
			c := byte('#')
			if x < len(r) {
				c = r[x]
			}
			switch c {
			case '#', '.', 'o', ' ', 'G':
			case 'P':
				m.Start = pacman.Point{X: x, Y: y}
			default:
				return nil, fmt.Errorf("unknown tile %q at (%d,%d)", c, x, y)
			}
			if c == 'G' {
				m.Pen = append(m.Pen, pacman.Point{X: x, Y: y})
			}
			m.cells[y][x] = c
		}
	}
	if m.Start == pacman.Placeholder {
		return nil, ErrNoStart
	}
	if len(m.Pen) == 0 {
		return nil, ErrNoPen
	}
	return m, nil
}

func (m *Maze) at(p pacman.Point) byte {
	if p.X < 0 || p.Y < 0 || p.X >= m.Width || p.Y >= m.Height {
		return '#'
	}
	return m.cells[p.Y][p.X]
}

func (m *Maze) InPen(p pacman.Point) bool {
	return m.at(p) == 'G'
}

// Moves lists the directions leading out of a tile. The agent never enters
// the pen; ghosts only move within it or out of it.
func (m *Maze) Moves(p pacman.Point, ghost bool) []pacman.Action {
	moves := make([]pacman.Action, 0, 4)
	for _, a := range []pacman.Action{pacman.Up, pacman.Down, pacman.Left, pacman.Right} {
		d := a.Delta()
		n := pacman.Point{X: p.X + d.X, Y: p.Y + d.Y}
		c := m.at(n)
		if c == '#' {
			continue
		}
		if c == 'G' && (!ghost || !m.InPen(p)) {
			continue
		}
		moves = append(moves, a)
	}
	return moves
}

// Pellets in scan order, regular pellets before power pellets.
func (m *Maze) Pellets() []pacman.Pellet {
	normal := make([]pacman.Pellet, 0)
	power := make([]pacman.Pellet, 0)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			pos := ToVector(pacman.Point{X: x, Y: y})
			switch m.cells[y][x] {
			case '.':
				normal = append(normal, pacman.Pellet{Position: pos, Kind: pacman.NormalPellet})
			case 'o':
				power = append(power, pacman.Pellet{Position: pos, Kind: pacman.PowerPellet})
			}
		}
	}
	return append(normal, power...)
}

// ToVector converts a tile to simulation coordinates.
func ToVector(p pacman.Point) pacman.Vector {
	return pacman.Vector{X: float64(p.X) * TileSize, Y: float64(p.Y) * TileSize}
}
