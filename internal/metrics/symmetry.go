package metrics

import (
	"math"

	"github.com/Pandicon/snails-of-pursuit/internal/pursuit"
	"gonum.org/v1/gonum/spatial/r2"
)

// Symmetry tracks the worst deviation from n-fold rotational symmetry: the
// largest distance between body i rotated by 2π/n and body i+1.
type Symmetry struct {
	worst float64
}

func NewSymmetry() *Symmetry {
	return &Symmetry{}
}

func (s *Symmetry) Name() string { return "symmetry_error" }

func (s *Symmetry) Observe(st *pursuit.State, t float64) {
	n := len(st.Positions)
	if n < 2 {
		return
	}
	step := 2 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		rotated := r2.Rotate(st.Positions[i], step, r2.Vec{})
		next := st.Positions[(i+1)%n]
		s.worst = math.Max(s.worst, r2.Norm(r2.Sub(rotated, next)))
	}
}

func (s *Symmetry) Value() float64 { return s.worst }

func (s *Symmetry) Reset() { s.worst = 0 }
