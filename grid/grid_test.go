package grid

import (
	"errors"
	"testing"

	"github.com/zeu5/pacman-rl/pacman"
)

const corridor = `
#####
#P.o#
#####
#GGG#
#####
`

func TestParseMazeDefault(t *testing.T) {
	m, err := ParseMaze(DefaultLayout)
	if err != nil {
		t.Fatalf("ParseMaze: %v", err)
	}
	if m.Width != 11 || m.Height != 9 {
		t.Errorf("dims = %dx%d, want 11x9", m.Width, m.Height)
	}
	if m.Start != (pacman.Point{X: 5, Y: 5}) {
		t.Errorf("start = %v", m.Start)
	}
	if len(m.Pen) != 3 {
		t.Errorf("pen size = %d, want 3", len(m.Pen))
	}
	power := 0
	for _, p := range m.Pellets() {
		if p.Kind == pacman.PowerPellet {
			power++
		}
	}
	if power != 4 {
		t.Errorf("power pellets = %d, want 4", power)
	}
}

func TestParseMazeErrors(t *testing.T) {
	cases := []struct {
		layout string
		want   error
	}{
		{"", ErrEmptyLayout},
		{"###\n#.#\n###", ErrNoStart},
		{"###\n#P#\n###", ErrNoPen},
	}
	for _, c := range cases {
		if _, err := ParseMaze(c.layout); !errors.Is(err, c.want) {
			t.Errorf("ParseMaze(%q) = %v, want %v", c.layout, err, c.want)
		}
	}
	if _, err := ParseMaze("#X#"); err == nil {
		t.Error("unknown tile accepted")
	}
}

func TestMovesKeepAgentOutOfPen(t *testing.T) {
	m, _ := ParseMaze(DefaultLayout)
	for _, a := range m.Moves(pacman.Point{X: 5, Y: 5}, false) {
		if a == pacman.Up {
			t.Error("agent may move into the pen")
		}
	}
	ghostMoves := m.Moves(pacman.Point{X: 5, Y: 4}, true)
	if len(ghostMoves) != 4 {
		t.Errorf("ghost moves from pen centre = %v", ghostMoves)
	}
	for _, a := range m.Moves(pacman.Point{X: 5, Y: 3}, true) {
		if a == pacman.Down {
			t.Error("ghost outside the pen may re-enter it")
		}
	}
}

func TestResetObservation(t *testing.T) {
	env, err := NewEnvironment(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	obs, err := env.Reset()
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if !obs.AtNode {
		t.Error("agent should start on a node")
	}
	if obs.Node != ToVector(env.Maze().Start) {
		t.Errorf("node = %v", obs.Node)
	}
	if len(obs.Ghosts) != pacman.NumGhosts {
		t.Fatalf("ghosts = %d", len(obs.Ghosts))
	}
	for _, g := range obs.Ghosts {
		if !g.Holding {
			t.Errorf("%s is not holding at reset", g.Name)
		}
	}
	if len(obs.Actions) == 0 || obs.Legal(pacman.Up) {
		t.Errorf("actions = %v", obs.Actions)
	}
	if env.Lives() != 3 {
		t.Errorf("lives = %d", env.Lives())
	}
}

func TestStepRequiresReset(t *testing.T) {
	env, _ := NewEnvironment(DefaultConfig())
	if _, _, _, err := env.Step(pacman.Left, 0.1); !errors.Is(err, ErrGameOver) {
		t.Errorf("err = %v, want ErrGameOver", err)
	}
	env.Reset()
	if _, _, _, err := env.Step(pacman.Left, 0); !errors.Is(err, ErrInvalidTick) {
		t.Errorf("err = %v, want ErrInvalidTick", err)
	}
}

func TestCorridorLevelComplete(t *testing.T) {
	config := DefaultConfig()
	config.Layout = corridor
	config.ReleaseSeconds = 1000
	env, err := NewEnvironment(config)
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	obs, _ := env.Reset()
	if !obs.Legal(pacman.Right) || obs.Legal(pacman.Down) {
		t.Fatalf("actions = %v", obs.Actions)
	}

	kinds := make([]pacman.EventKind, 0)
	done := false
	for i := 0; i < 200 && !done; i++ {
		var events []pacman.Event
		obs, events, done, err = env.Step(pacman.Right, 0.05)
		if err != nil {
			t.Fatalf("Step: %v", err)
		}
		for _, ev := range events {
			kinds = append(kinds, ev.Kind)
		}
	}
	want := []pacman.EventKind{pacman.PelletEaten, pacman.PowerPelletEaten, pacman.LevelComplete}
	if !done {
		t.Fatal("level was not completed")
	}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, kinds[i], want[i])
		}
	}
	if env.Remaining() != 0 {
		t.Errorf("remaining = %d", env.Remaining())
	}
}

func TestAgentStopsBetweenNodesOnlyAtNodes(t *testing.T) {
	config := DefaultConfig()
	config.Layout = corridor
	config.ReleaseSeconds = 1000
	env, _ := NewEnvironment(config)
	env.Reset()

	// 100 units/s for 0.05s is 5 units: not yet at the next node
	obs, _, _, _ := env.Step(pacman.Right, 0.05)
	if obs.AtNode {
		t.Fatal("agent should be between nodes")
	}
	if len(obs.Actions) != 0 {
		t.Errorf("actions offered between nodes: %v", obs.Actions)
	}
	// direction is ignored between nodes
	obs, _, _, _ = env.Step(pacman.Left, 0.2)
	if !obs.AtNode || obs.Node != ToVector(pacman.Point{X: 2, Y: 1}) {
		t.Errorf("node = %v, at node = %v", obs.Node, obs.AtNode)
	}
}

func TestSeededEnvironmentsAgree(t *testing.T) {
	config := DefaultConfig()
	config.Seed = 7
	a, _ := NewEnvironment(config)
	b, _ := NewEnvironment(config)
	a.Reset()
	b.Reset()
	actions := []pacman.Action{pacman.Left, pacman.Right, pacman.Down, pacman.Up}
	for i := 0; i < 300; i++ {
		act := actions[(i/20)%len(actions)]
		oa, _, da, errA := a.Step(act, 1.0/30)
		ob, _, db, errB := b.Step(act, 1.0/30)
		if errA != nil || errB != nil {
			if !errors.Is(errA, ErrGameOver) || !errors.Is(errB, ErrGameOver) {
				t.Fatalf("errors diverged: %v, %v", errA, errB)
			}
			return
		}
		if da != db || oa.Node != ob.Node {
			t.Fatalf("tick %d diverged", i)
		}
		for j := range oa.Ghosts {
			if oa.Ghosts[j] != ob.Ghosts[j] {
				t.Fatalf("tick %d ghost %d diverged", i, j)
			}
		}
	}
}

func TestVisitDataSet(t *testing.T) {
	m, _ := ParseMaze(DefaultLayout)
	d := NewVisitDataSet(m, map[pacman.Point]int{
		{X: 1, Y: 1}: 3,
		{X: 5, Y: 5}: 7,
	})
	if c, r := d.Dims(); c != 11 || r != 9 {
		t.Errorf("dims = %d,%d", c, r)
	}
	if d.Max() != 7 {
		t.Errorf("max = %v", d.Max())
	}
	// row 1 from the top is row 7 from the bottom
	if d.Z(1, 7) != 3 {
		t.Errorf("Z(1,7) = %v", d.Z(1, 7))
	}
	d.Merge(NewVisitDataSet(m, map[pacman.Point]int{{X: 5, Y: 5}: 1}))
	if d.Max() != 8 {
		t.Errorf("merged max = %v", d.Max())
	}
}
