// Package sweep runs independent pursuit simulations concurrently over a
// range of body counts.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/Pandicon/snails-of-pursuit/internal/metrics"
	"github.com/Pandicon/snails-of-pursuit/internal/pursuit"
	"github.com/Pandicon/snails-of-pursuit/internal/session"
)

var ErrEmptyRange = errors.New("sweep: empty body range")

// Result is the outcome of one iterative run.
type Result struct {
	Bodies     int
	Outcome    pursuit.Outcome
	Steps      int
	Time       float64
	PathLength float64
	MeanRadius float64
	// CaptureTime is the closed-form meeting time, +Inf when the bodies
	// never meet.
	CaptureTime float64
	// Budget is set when the run hit the step limit before completing.
	Budget bool
}

// Ensemble runs one session per body count. Each run owns its session, so
// runs share nothing.
type Ensemble struct {
	base     pursuit.Config
	maxSteps int
	workers  int
	run      func(ctx context.Context, cfg pursuit.Config) (Result, error)
}

func NewEnsemble(base pursuit.Config, maxSteps int) *Ensemble {
	e := &Ensemble{base: base, maxSteps: maxSteps, workers: runtime.NumCPU()}
	e.run = e.runOne
	return e
}

// WithWorkers bounds the number of concurrent runs.
func (e *Ensemble) WithWorkers(n int) *Ensemble {
	e.workers = max(n, 1)
	return e
}

// Run steps every body count in [from, to] to completion. Results are
// ordered by body count. At most workers runs are in flight; the first error
// cancels the remaining runs and stops queuing new ones.
func (e *Ensemble) Run(ctx context.Context, from, to int) ([]Result, error) {
	from = max(from, 1)
	if to < from {
		return nil, fmt.Errorf("%w: %d..%d", ErrEmptyRange, from, to)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	n := to - from + 1
	results := make([]Result, n)
	sem := make(chan struct{}, e.workers)

	var (
		wg    sync.WaitGroup
		once  sync.Once
		first error
	)
	fail := func(err error) {
		once.Do(func() {
			first = err
			cancel()
		})
	}

queue:
	for i := 0; i < n; i++ {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			fail(ctx.Err())
			break queue
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			cfg := e.base
			cfg.BodyCount = from + idx
			res, err := e.run(ctx, cfg)
			if err != nil {
				fail(err)
				return
			}
			results[idx] = res
		}(i)
	}

	wg.Wait()

	if first != nil {
		return nil, first
	}
	return results, nil
}

func (e *Ensemble) runOne(ctx context.Context, cfg pursuit.Config) (Result, error) {
	s, err := session.New(cfg)
	if err != nil {
		return Result{}, err
	}

	path := metrics.NewPathLength(0)
	radius := metrics.NewMeanRadius()
	sum, err := s.RunToCompletion(ctx, e.maxSteps, path, radius)

	res := Result{
		Bodies:      cfg.BodyCount,
		Outcome:     sum.Outcome,
		Steps:       sum.Steps,
		Time:        sum.Time,
		PathLength:  path.Value(),
		MeanRadius:  radius.Value(),
		CaptureTime: pursuit.Spiral(s.Config()).CaptureTime,
	}
	switch {
	case errors.Is(err, session.ErrStepBudget):
		res.Budget = true
	case err != nil:
		return Result{}, fmt.Errorf("sweep: %d bodies: %w", cfg.BodyCount, err)
	}
	return res, nil
}

// TimeError is the relative gap between the stepped meeting time and the
// closed-form capture time, NaN when either is undefined.
func (r Result) TimeError() float64 {
	if r.Outcome != pursuit.Converged || math.IsInf(r.CaptureTime, 0) || r.CaptureTime == 0 {
		return math.NaN()
	}
	return math.Abs(r.Time-r.CaptureTime) / r.CaptureTime
}
