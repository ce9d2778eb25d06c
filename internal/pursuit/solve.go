package pursuit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// MaxSamples bounds the number of closed-form samples per body.
const MaxSamples = 1 << 22

// minInwardRatio is the smallest cos(β) for which the spiral reaches the
// centre in finite time. A single body chasing itself has cos(β) = 0.
const minInwardRatio = 1e-9

// SpiralParams describes the symmetric pursuit spiral for a configuration.
type SpiralParams struct {
	// Beta is the angle between each velocity and the inward radial direction.
	Beta            float64
	InwardSpeed     float64
	TangentialSpeed float64
	// CaptureTime is the time for every body to reach the centre. It is +Inf
	// when the bodies never get closer.
	CaptureTime float64
}

// Spiral returns the analytic parameters of the pursuit spiral.
func Spiral(cfg Config) SpiralParams {
	n := float64(cfg.BodyCount)
	beta := math.Pi/2 - math.Pi/n
	sin, cos := math.Sincos(beta)

	p := SpiralParams{
		Beta:            beta,
		InwardSpeed:     cfg.Speed * cos,
		TangentialSpeed: cfg.Speed * sin,
		CaptureTime:     math.Inf(1),
	}
	if cos >= minInwardRatio && p.InwardSpeed > 0 {
		p.CaptureTime = cfg.Radius / p.InwardSpeed
	}
	return p
}

// PathLength is the distance each body travels before capture, R / sin(π/n).
func PathLength(cfg Config) float64 {
	return cfg.Speed * Spiral(cfg).CaptureTime
}

// SampleCount returns the number of closed-form samples per body,
// ceil(T/Δt), or zero when the trajectory is degenerate. A NaN or infinite
// radius is rejected with ErrInvalidConfiguration.
func SampleCount(cfg Config) (int, error) {
	if !validSpeed(cfg.Speed) {
		return 0, fmt.Errorf("%w: got %g", ErrInvalidSpeed, cfg.Speed)
	}
	if math.IsNaN(cfg.Radius) || math.IsInf(cfg.Radius, 0) {
		return 0, fmt.Errorf("%w: radius %g", ErrInvalidConfiguration, cfg.Radius)
	}
	sp := Spiral(cfg)
	if math.IsInf(sp.CaptureTime, 1) || cfg.Radius <= 0 {
		return 0, nil
	}

	samples := math.Ceil(sp.CaptureTime / cfg.Clamp().Timestep)
	if samples > MaxSamples {
		return 0, fmt.Errorf("%w: %.0f samples per body (max %d)", ErrSampleLimit, samples, MaxSamples)
	}
	return int(samples), nil
}

// Solve replaces every history with the analytic logarithmic spiral
//
//	r(t) = R - v cos(β) t
//	θ(t) = θ₀ + tan(β) (ln r(t) - ln R)
//
// sampled at t = 0, Δt, 2Δt, ... while t < T. Each position becomes the last
// sampled point. A body whose sequence is empty keeps its current position as
// its only history entry.
//
// The state is left unchanged when the call is rejected.
func Solve(s *State, cfg Config) error {
	if !validSpeed(cfg.Speed) {
		return fmt.Errorf("%w: got %g", ErrInvalidSpeed, cfg.Speed)
	}
	if err := s.Validate(); err != nil {
		return err
	}

	n := len(s.Positions)
	cfg.BodyCount = n
	samples, err := SampleCount(cfg)
	if err != nil {
		return err
	}
	dt := cfg.Clamp().Timestep
	sp := Spiral(cfg)
	R := cfg.Radius

	history := make([][]r2.Vec, n)
	for i := range history {
		path := make([]r2.Vec, 0, samples)
		theta0 := startAngle(i, n)
		for k := 0; k < samples; k++ {
			t := float64(k) * dt
			if t >= sp.CaptureTime {
				break
			}
			r := R - sp.InwardSpeed*t
			if r <= 0 {
				break
			}
			theta := theta0 + sp.TangentialSpeed/sp.InwardSpeed*(math.Log(r)-math.Log(R))
			sin, cos := math.Sincos(theta)
			path = append(path, r2.Vec{X: r * cos, Y: r * sin})
		}
		if len(path) == 0 {
			path = append(path, s.Positions[i])
		}
		history[i] = path
	}

	positions := make([]r2.Vec, n)
	for i, path := range history {
		positions[i] = path[len(path)-1]
	}
	s.History = history
	s.Positions = positions
	return nil
}
