package pursuit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// State is the per-body trajectory state shared by both engines.
type State struct {
	Positions []r2.Vec
	History   [][]r2.Vec
	Running   bool
}

// Segment is a straight edge between two points.
type Segment struct {
	From, To r2.Vec
}

// Reinitialize places bodyCount bodies evenly on a circle of the given
// radius, counter-clockwise from angle 0, and seeds every history with the
// starting position.
func Reinitialize(bodyCount int, radius float64) (*State, error) {
	cfg := Config{BodyCount: bodyCount, Radius: radius, Timestep: DefaultTimestep}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	positions := StartPositions(bodyCount, radius)
	history := make([][]r2.Vec, bodyCount)
	for i, p := range positions {
		history[i] = []r2.Vec{p}
	}

	return &State{Positions: positions, History: history}, nil
}

// StartPositions returns n points on a circle of the given radius at angles 2πi/n.
func StartPositions(n int, radius float64) []r2.Vec {
	positions := make([]r2.Vec, n)
	for i := range positions {
		sin, cos := math.Sincos(startAngle(i, n))
		positions[i] = r2.Vec{X: radius * cos, Y: radius * sin}
	}
	return positions
}

func startAngle(i, n int) float64 {
	return 2 * math.Pi * float64(i) / float64(n)
}

// Predecessor returns the index of the body that body i pursues.
func Predecessor(i, n int) int {
	return (i - 1 + n) % n
}

func (s *State) BodyCount() int {
	return len(s.Positions)
}

// Trajectory returns the recorded positions of body i.
func (s *State) Trajectory(i int) []r2.Vec {
	return s.History[i]
}

// Edges returns the sides of the initial polygon: for each body, the segment
// from its first recorded position to its predecessor's.
func (s *State) Edges() []Segment {
	n := len(s.History)
	edges := make([]Segment, 0, n)
	for i := range s.History {
		j := Predecessor(i, n)
		if len(s.History[i]) == 0 || len(s.History[j]) == 0 {
			continue
		}
		edges = append(edges, Segment{From: s.History[i][0], To: s.History[j][0]})
	}
	return edges
}

// Validate checks the shape invariants: one non-empty history per body whose
// last element is the body's current position.
func (s *State) Validate() error {
	if len(s.Positions) == 0 {
		return fmt.Errorf("%w: no bodies", ErrInvalidConfiguration)
	}
	if len(s.Positions) != len(s.History) {
		return fmt.Errorf("%w: %d positions, %d histories", ErrShapeMismatch, len(s.Positions), len(s.History))
	}
	for i, h := range s.History {
		if len(h) == 0 {
			return &BodyError{Body: i, Wrapped: fmt.Errorf("%w: empty history for body %d", ErrShapeMismatch, i)}
		}
		if h[len(h)-1] != s.Positions[i] {
			return &BodyError{Body: i, Wrapped: fmt.Errorf("%w: body %d position is not its last history entry", ErrShapeMismatch, i)}
		}
	}
	return nil
}

func (s *State) Clone() *State {
	c := &State{
		Positions: make([]r2.Vec, len(s.Positions)),
		History:   make([][]r2.Vec, len(s.History)),
		Running:   s.Running,
	}
	copy(c.Positions, s.Positions)
	for i, h := range s.History {
		c.History[i] = make([]r2.Vec, len(h))
		copy(c.History[i], h)
	}
	return c
}
