package pursuit

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func assertInvariants(t *testing.T, s *State, n int) {
	t.Helper()
	if len(s.Positions) != n || len(s.History) != n {
		t.Fatalf("expected %d positions and histories, got %d and %d", n, len(s.Positions), len(s.History))
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("invariant violated: %v", err)
	}
}

func TestReinitialize(t *testing.T) {
	s, err := Reinitialize(5, 10)
	if err != nil {
		t.Fatalf("reinitialize failed: %v", err)
	}
	assertInvariants(t, s, 5)

	for i, p := range s.Positions {
		if math.Abs(r2.Norm(p)-10) > 1e-12 {
			t.Errorf("body %d: expected radius 10, got %f", i, r2.Norm(p))
		}
		if len(s.History[i]) != 1 {
			t.Errorf("body %d: expected single-element history, got %d", i, len(s.History[i]))
		}
	}

	if s.Positions[0] != (r2.Vec{X: 10, Y: 0}) {
		t.Errorf("expected body 0 at (10, 0), got %v", s.Positions[0])
	}
	if s.Positions[1].Y <= 0 {
		t.Errorf("expected counter-clockwise placement, body 1 at %v", s.Positions[1])
	}
	if s.Running {
		t.Error("fresh state should not be running")
	}
}

func TestReinitializeIdempotent(t *testing.T) {
	a, err := Reinitialize(5, 10.0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Reinitialize(5, 10.0)
	if err != nil {
		t.Fatal(err)
	}

	for i := range a.Positions {
		if a.Positions[i] != b.Positions[i] {
			t.Errorf("body %d: %v != %v", i, a.Positions[i], b.Positions[i])
		}
		if len(a.History[i]) != 1 || len(b.History[i]) != 1 || a.History[i][0] != b.History[i][0] {
			t.Errorf("body %d: histories differ", i)
		}
	}
}

func TestStartPositionsSymmetry(t *testing.T) {
	for _, n := range []int{2, 3, 5, 8, 13} {
		positions := StartPositions(n, 7.5)
		step := 2 * math.Pi / float64(n)
		for i := 0; i < n-1; i++ {
			rotated := r2.Rotate(positions[i], step, r2.Vec{})
			if r2.Norm(r2.Sub(rotated, positions[i+1])) > 1e-9 {
				t.Errorf("n=%d: body %d rotated is %v, body %d is %v", n, i, rotated, i+1, positions[i+1])
			}
		}
	}
}

func TestReinitializeInvalid(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		radius float64
	}{
		{"zero bodies", 0, 10},
		{"negative bodies", -3, 10},
		{"negative radius", 3, -1},
		{"NaN radius", 3, math.NaN()},
		{"infinite radius", 3, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Reinitialize(tt.n, tt.radius)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
			if s != nil {
				t.Error("expected nil state on error")
			}
		})
	}
}

func TestPredecessor(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 5, 4},
		{1, 5, 0},
		{4, 5, 3},
		{0, 1, 0},
	}
	for _, tt := range tests {
		if got := Predecessor(tt.i, tt.n); got != tt.want {
			t.Errorf("Predecessor(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestEdges(t *testing.T) {
	s, _ := Reinitialize(4, 1)
	cfg := Config{BodyCount: 4, Radius: 1, Speed: 1, Timestep: 0.1}
	if _, err := Step(s, cfg); err != nil {
		t.Fatal(err)
	}

	edges := s.Edges()
	if len(edges) != 4 {
		t.Fatalf("expected 4 edges, got %d", len(edges))
	}
	for i, e := range edges {
		if e.From != s.History[i][0] || e.To != s.History[Predecessor(i, 4)][0] {
			t.Errorf("edge %d does not join the starting points", i)
		}
		if math.Abs(r2.Norm(r2.Sub(e.From, e.To))-math.Sqrt2) > 1e-12 {
			t.Errorf("edge %d: expected square side sqrt(2), got %f", i, r2.Norm(r2.Sub(e.From, e.To)))
		}
	}
}

func TestValidateShape(t *testing.T) {
	s, _ := Reinitialize(3, 1)

	broken := s.Clone()
	broken.History = broken.History[:2]
	if err := broken.Validate(); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch for short history, got %v", err)
	}

	broken = s.Clone()
	broken.Positions[1] = r2.Vec{X: 42}
	err := broken.Validate()
	var be *BodyError
	if !errors.As(err, &be) || be.Body != 1 {
		t.Errorf("expected BodyError for body 1, got %v", err)
	}

	broken = s.Clone()
	broken.History[2] = nil
	if err := broken.Validate(); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch for empty history, got %v", err)
	}
}

func TestCloneIndependent(t *testing.T) {
	s, _ := Reinitialize(3, 2)
	c := s.Clone()
	c.Positions[0] = r2.Vec{X: -1}
	c.History[0][0] = r2.Vec{X: -1}

	if s.Positions[0] == c.Positions[0] || s.History[0][0] == c.History[0][0] {
		t.Error("Clone did not create independent copy")
	}
}
