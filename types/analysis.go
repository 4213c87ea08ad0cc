package types

import (
	"fmt"
	"path"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/zeu5/pacman-rl/util"
)

// Summary aggregates the results of an experiment.
type Summary struct {
	Episodes         int     `json:"episodes"`
	MeanReturn       float64 `json:"mean_return"`
	StdReturn        float64 `json:"std_return"`
	BestReturn       float64 `json:"best_return"`
	RecentMeanReturn float64 `json:"recent_mean_return"`
	WinRate          float64 `json:"win_rate"`
	MeanPellets      float64 `json:"mean_pellets"`
	FinalExploration float64 `json:"final_exploration"`
	FinalTableSize   int     `json:"final_table_size"`
}

// Summarize computes the summary; recent is the window of last episodes
// used for RecentMeanReturn.
func Summarize(results []EpisodeResult, recent int) Summary {
	s := Summary{Episodes: len(results)}
	if len(results) == 0 {
		return s
	}
	returns := Returns(results)
	pellets := make([]float64, len(results))
	wins := 0
	for i, r := range results {
		pellets[i] = float64(r.Pellets)
		if r.Won {
			wins++
		}
	}
	s.MeanReturn = stat.Mean(returns, nil)
	if len(returns) > 1 {
		s.StdReturn = stat.StdDev(returns, nil)
	}
	s.BestReturn = floats.Max(returns)
	if recent <= 0 || recent > len(returns) {
		recent = len(returns)
	}
	s.RecentMeanReturn = stat.Mean(returns[len(returns)-recent:], nil)
	s.WinRate = float64(wins) / float64(len(results))
	s.MeanPellets = stat.Mean(pellets, nil)
	last := results[len(results)-1]
	s.FinalExploration = last.Exploration
	s.FinalTableSize = last.TableSize
	return s
}

func Returns(results []EpisodeResult) []float64 {
	returns := make([]float64, len(results))
	for i, r := range results {
		returns[i] = r.Return
	}
	return returns
}

// MovingAverage over a trailing window. The first points average over
// what is available.
func MovingAverage(vals []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(vals))
	sum := 0.0
	for i, v := range vals {
		sum += v
		if i >= window {
			sum -= vals[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

func seriesXYs(vals []float64) plotter.XYs {
	points := make(plotter.XYs, len(vals))
	for i, v := range vals {
		points[i] = plotter.XY{X: float64(i + 1), Y: v}
	}
	return points
}

// PlotLearningCurves draws the smoothed return of every named experiment
// into one chart at plotPath/<prefix>_returns.png.
func PlotLearningCurves(plotPath, prefix string, names []string, results [][]EpisodeResult, window int) error {
	if err := util.EnsureDir(plotPath); err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = "Learning curve"
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = fmt.Sprintf("Return (moving average, %d)", window)
	for i := range names {
		line, err := plotter.NewLine(seriesXYs(MovingAverage(Returns(results[i]), window)))
		if err != nil {
			continue
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(names[i], line)
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, path.Join(plotPath, prefix+"_returns.png"))
}

// PlotExploration draws the exploration parameter and table size per
// episode at plotPath/<prefix>_exploration.png and <prefix>_states.png.
func PlotExploration(plotPath, prefix string, results []EpisodeResult) error {
	if err := util.EnsureDir(plotPath); err != nil {
		return err
	}
	exploration := make([]float64, len(results))
	states := make([]float64, len(results))
	for i, r := range results {
		exploration[i] = r.Exploration
		states[i] = float64(r.TableSize)
	}

	charts := []struct {
		file  string
		title string
		label string
		vals  []float64
	}{
		{prefix + "_exploration.png", "Exploration", "Exploration rate", exploration},
		{prefix + "_states.png", "Table growth", "Q-table entries", states},
	}
	for _, c := range charts {
		p := plot.New()
		p.Title.Text = c.title
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = c.label
		line, err := plotter.NewLine(seriesXYs(c.vals))
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(0)
		p.Add(line)
		if err := p.Save(8*vg.Inch, 5*vg.Inch, path.Join(plotPath, c.file)); err != nil {
			return err
		}
	}
	return nil
}
