package pursuit

import (
	"fmt"
	"math"
)

const (
	DefaultBodyCount = 5
	DefaultRadius    = 10.0
	DefaultSpeed     = 1.0
	DefaultTimestep  = 0.01

	// MinTimestep replaces a submitted timestep that is zero or negative.
	MinTimestep = 1e-4
)

// Config holds the externally editable simulation parameters.
type Config struct {
	BodyCount int
	Radius    float64
	Speed     float64
	Timestep  float64
}

func DefaultConfig() Config {
	return Config{
		BodyCount: DefaultBodyCount,
		Radius:    DefaultRadius,
		Speed:     DefaultSpeed,
		Timestep:  DefaultTimestep,
	}
}

// Clamp pulls runtime edits back into the accepted range: at least one body,
// a non-negative radius and a finite positive timestep.
func (c Config) Clamp() Config {
	if c.BodyCount < 1 {
		c.BodyCount = 1
	}
	if math.IsNaN(c.Radius) || c.Radius < 0 {
		c.Radius = 0
	}
	if math.IsNaN(c.Timestep) || math.IsInf(c.Timestep, 1) || c.Timestep <= 0 {
		c.Timestep = MinTimestep
	}
	return c
}

// Validate reports the first parameter that Reinitialize would reject.
func (c Config) Validate() error {
	if c.BodyCount < 1 {
		return fmt.Errorf("%w: body count %d < 1", ErrInvalidConfiguration, c.BodyCount)
	}
	if math.IsNaN(c.Radius) || math.IsInf(c.Radius, 0) || c.Radius < 0 {
		return fmt.Errorf("%w: radius %g", ErrInvalidConfiguration, c.Radius)
	}
	if math.IsNaN(c.Timestep) || math.IsInf(c.Timestep, 1) || c.Timestep <= 0 {
		return fmt.Errorf("%w: timestep %g", ErrInvalidConfiguration, c.Timestep)
	}
	return nil
}

// StopDistance is the distance one body covers in one step. A body closer
// than this to the origin has arrived.
func (c Config) StopDistance() float64 {
	return c.Speed * c.Clamp().Timestep
}

func validSpeed(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
