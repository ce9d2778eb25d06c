package metrics

import (
	"github.com/Pandicon/snails-of-pursuit/internal/pursuit"
	"gonum.org/v1/gonum/spatial/r2"
)

// MeanRadius is the mean distance of the bodies from the origin at the
// latest observation.
type MeanRadius struct {
	value float64
}

func NewMeanRadius() *MeanRadius {
	return &MeanRadius{}
}

func (m *MeanRadius) Name() string { return "mean_radius" }

func (m *MeanRadius) Observe(s *pursuit.State, t float64) {
	if len(s.Positions) == 0 {
		return
	}
	sum := 0.0
	for _, p := range s.Positions {
		sum += r2.Norm(p)
	}
	m.value = sum / float64(len(s.Positions))
}

func (m *MeanRadius) Value() float64 { return m.value }

func (m *MeanRadius) Reset() { m.value = 0 }

// CaptureTime records the time of the latest observation.
type CaptureTime struct {
	t float64
}

func NewCaptureTime() *CaptureTime {
	return &CaptureTime{}
}

func (c *CaptureTime) Name() string                        { return "capture_time" }
func (c *CaptureTime) Observe(s *pursuit.State, t float64) { c.t = t }
func (c *CaptureTime) Value() float64                      { return c.t }
func (c *CaptureTime) Reset()                              { c.t = 0 }
