package grid

import (
	"encoding/json"
	"path"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/zeu5/pacman-rl/pacman"
	"github.com/zeu5/pacman-rl/util"
)

// VisitDataSet is the number of decisions taken on every tile of a maze.
type VisitDataSet struct {
	Visits map[int]map[int]int `json:"visits"`
	Height int                 `json:"height"`
	Width  int                 `json:"width"`
}

var _ plotter.GridXYZ = &VisitDataSet{}

func NewVisitDataSet(maze *Maze, visits map[pacman.Point]int) *VisitDataSet {
	d := &VisitDataSet{
		Visits: make(map[int]map[int]int),
		Height: maze.Height,
		Width:  maze.Width,
	}
	for p, count := range visits {
		if _, ok := d.Visits[p.Y]; !ok {
			d.Visits[p.Y] = make(map[int]int)
		}
		d.Visits[p.Y][p.X] += count
	}
	return d
}

func (d *VisitDataSet) Dims() (int, int) {
	return d.Width, d.Height
}

// Z flips rows so that the top of the maze is drawn at the top.
func (d *VisitDataSet) Z(c, r int) float64 {
	return float64(d.Visits[d.Height-1-r][c])
}

func (d *VisitDataSet) X(c int) float64 {
	return float64(c)
}

func (d *VisitDataSet) Y(r int) float64 {
	return float64(r)
}

func (d *VisitDataSet) Min() float64 {
	return 0.0
}

func (d *VisitDataSet) Max() float64 {
	max := 0
	for _, vals := range d.Visits {
		for _, count := range vals {
			if count > max {
				max = count
			}
		}
	}
	return float64(max)
}

// Merge adds the visits of other into d.
func (d *VisitDataSet) Merge(other *VisitDataSet) {
	if other.Height > d.Height {
		d.Height = other.Height
	}
	if other.Width > d.Width {
		d.Width = other.Width
	}
	for i, vals := range other.Visits {
		if _, ok := d.Visits[i]; !ok {
			d.Visits[i] = make(map[int]int)
		}
		for j, visits := range vals {
			d.Visits[i][j] += visits
		}
	}
}

// PlotVisits writes the heatmap to plotPath/<name>_visits.png and the raw
// counts to plotPath/<name>_visits.json.
func PlotVisits(plotPath, name string, d *VisitDataSet) error {
	bs, err := json.Marshal(d)
	if err != nil {
		return err
	}
	if err := util.WriteToFile(path.Join(plotPath, name+"_visits.json"), string(bs)); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = name
	p.Add(plotter.NewHeatMap(d, palette.Heat(20, 1)))
	return p.Save(6*vg.Inch, 5*vg.Inch, path.Join(plotPath, name+"_visits.png"))
}
