package pacman

// Encoder turns raw observations into States. Positions are rounded to
// integers so that sub-pixel jitter and timer phase never split a state.
type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode is a pure function of obs.
func (e *Encoder) Encode(obs *Observation) State {
	s := State{
		Node:   obs.Node.Round(),
		Pellet: e.nearestPellet(obs.Node, obs.Pellets),
	}
	for i := 0; i < NumGhosts; i++ {
		s.Ghosts[i] = Placeholder
	}
	for _, g := range obs.Ghosts {
		if g.Name < 0 || int(g.Name) >= NumGhosts {
			continue
		}
		s.Modes[g.Name] = g.Mode
		if g.Holding {
			continue
		}
		s.Ghosts[g.Name] = g.Position.Round()
	}
	return s
}

// nearestPellet returns the rounded position of the closest pellet. The
// first pellet at the minimum distance wins.
func (e *Encoder) nearestPellet(from Vector, pellets []Pellet) Point {
	if len(pellets) == 0 {
		return Placeholder
	}
	best := 0
	bestDist := pellets[0].Position.Sub(from).MagnitudeSquared()
	for i := 1; i < len(pellets); i++ {
		d := pellets[i].Position.Sub(from).MagnitudeSquared()
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return pellets[best].Position.Round()
}
