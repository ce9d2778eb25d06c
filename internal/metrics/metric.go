package metrics

import "github.com/Pandicon/snails-of-pursuit/internal/pursuit"

// Metric accumulates a scalar over the states of a run.
type Metric interface {
	Name() string
	Observe(s *pursuit.State, t float64)
	Value() float64
	Reset()
}

// Defaults returns the metrics reported by a batch run.
func Defaults() []Metric {
	return []Metric{
		NewPathLength(0),
		NewMeanRadius(),
		NewSymmetry(),
		NewCaptureTime(),
	}
}
