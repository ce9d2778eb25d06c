package session

import (
	"context"
	"fmt"

	"github.com/Pandicon/snails-of-pursuit/internal/pursuit"
)

// Observer is notified with the state after every step of a batch run.
type Observer interface {
	Observe(s *pursuit.State, t float64)
}

// Summary describes a finished batch run.
type Summary struct {
	Steps   int
	Time    float64
	Outcome pursuit.Outcome
}

// RunToCompletion steps the session until the engine reports completion,
// the context is canceled, or maxSteps steps were taken. Observers see the
// initial state and the state after each step.
func (s *Session) RunToCompletion(ctx context.Context, maxSteps int, observers ...Observer) (Summary, error) {
	if _, err := s.Apply(Run{}); err != nil {
		return Summary{}, err
	}
	for _, o := range observers {
		o.Observe(s.state, s.time)
	}

	summary := Summary{Outcome: pursuit.Advanced}
	for i := 0; i < maxSteps; i++ {
		select {
		case <-ctx.Done():
			s.pause()
			summary.Steps, summary.Time = s.steps, s.time
			return summary, ctx.Err()
		default:
		}

		res, err := s.Apply(Step{})
		if err != nil {
			summary.Steps, summary.Time = s.steps, s.time
			return summary, err
		}
		for _, o := range observers {
			o.Observe(s.state, s.time)
		}
		if res.Complete {
			return Summary{Steps: s.steps, Time: s.time, Outcome: res.Report.Outcome}, nil
		}
	}

	s.pause()
	summary.Steps, summary.Time = s.steps, s.time
	return summary, fmt.Errorf("%w: %d steps", ErrStepBudget, maxSteps)
}
