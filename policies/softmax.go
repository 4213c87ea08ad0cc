package policies

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/zeu5/pacman-rl/pacman"
)

// SoftMax samples actions with probability proportional to exp(Q/temperature).
// Exploration is the temperature.
type SoftMax struct {
	qTable      *QTable
	temperature float64
	decay       DecayConfig
	src         rand.Source
}

var _ Selector = &SoftMax{}

func NewSoftMax(qTable *QTable, temperature float64, decay DecayConfig, seed uint64) *SoftMax {
	return &SoftMax{
		qTable:      qTable,
		temperature: temperature,
		decay:       decay,
		src:         rand.NewSource(seed),
	}
}

func (s *SoftMax) SelectAction(state pacman.State, actions []pacman.Action) (pacman.Action, error) {
	if len(actions) == 0 {
		return pacman.Stop, ErrNoActions
	}

	vals := s.qTable.Values(state, actions)
	temp := s.temperature
	if temp <= 0 {
		temp = math.SmallestNonzeroFloat64
	}
	maxVal := vals[0]
	for _, v := range vals[1:] {
		if v > maxVal {
			maxVal = v
		}
	}

	// shifted by the max so exp never overflows
	weights := make([]float64, len(vals))
	for i, v := range vals {
		weights[i] = math.Exp((v - maxVal) / temp)
	}
	i, ok := sampleuv.NewWeighted(weights, s.src).Take()
	if !ok {
		return actions[0], nil
	}
	return actions[i], nil
}

func (s *SoftMax) Decay() {
	s.temperature = s.decay.apply(s.temperature)
}

func (s *SoftMax) Exploration() float64 {
	return s.temperature
}

func (s *SoftMax) SetExploration(temperature float64) {
	s.temperature = temperature
}
