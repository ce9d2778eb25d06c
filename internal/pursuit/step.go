package pursuit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// stallFraction is the smallest inward progress, relative to the stop
// distance, that still counts as approaching the centre.
const stallFraction = 1e-9

// Outcome classifies the result of one iterative step.
type Outcome int

const (
	// Advanced means at least one body moved closer to the centre.
	Advanced Outcome = iota
	// Converged means every body was already inside its stop distance.
	Converged
	// Stalled means no body made measurable inward progress.
	Stalled
)

func (o Outcome) String() string {
	switch o {
	case Advanced:
		return "advanced"
	case Converged:
		return "converged"
	case Stalled:
		return "stalled"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// StepReport summarizes one call to Step.
type StepReport struct {
	Outcome    Outcome
	Moved      int
	Arrived    int
	Degenerate int
	// Errors holds one BodyError per body skipped for a degenerate direction.
	Errors []error
}

// Complete reports whether further steps would change nothing useful.
func (r StepReport) Complete() bool {
	return r.Outcome != Advanced
}

// Step advances every body by one timestep toward the position its
// predecessor held at the start of the step. Bodies within
// speed*timestep of the origin have arrived and are left untouched.
//
// The state is only modified after every candidate position has been
// computed. A non-positive speed is rejected with ErrInvalidSpeed.
func Step(s *State, cfg Config) (StepReport, error) {
	if !validSpeed(cfg.Speed) {
		return StepReport{}, fmt.Errorf("%w: got %g", ErrInvalidSpeed, cfg.Speed)
	}
	if err := s.Validate(); err != nil {
		return StepReport{}, err
	}

	n := len(s.Positions)
	stop := cfg.StopDistance()

	var report StepReport
	next := make([]r2.Vec, n)
	moved := make([]bool, n)

	for i, p := range s.Positions {
		if r2.Norm(p) < stop {
			report.Arrived++
			continue
		}
		dir, ok := Direction(p, s.Positions[Predecessor(i, n)])
		if !ok {
			report.Degenerate++
			report.Errors = append(report.Errors, &BodyError{Body: i, Wrapped: ErrDegenerateDirection})
			continue
		}
		next[i] = r2.Add(p, r2.Scale(stop, dir))
		moved[i] = true
	}

	if report.Arrived == n {
		report.Outcome = Converged
		return report, nil
	}

	progress := math.Inf(-1)
	for i := range next {
		if !moved[i] {
			continue
		}
		progress = math.Max(progress, r2.Norm(s.Positions[i])-r2.Norm(next[i]))
		s.History[i] = append(s.History[i], next[i])
		s.Positions[i] = next[i]
		report.Moved++
	}

	if report.Moved == 0 || progress <= stallFraction*stop {
		report.Outcome = Stalled
	}
	return report, nil
}
