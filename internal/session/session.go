package session

import (
	"fmt"
	"math"

	"github.com/Pandicon/snails-of-pursuit/internal/logging"
	"github.com/Pandicon/snails-of-pursuit/internal/pursuit"
	"github.com/charmbracelet/log"
)

// Result describes what a command did.
type Result struct {
	// Steps is the number of engine steps performed.
	Steps         int
	Reinitialized bool
	Solved        bool
	// Complete is set when stepping finished and the session went idle.
	Complete bool
	// Report is the report of the last engine step.
	Report pursuit.StepReport
}

type Session struct {
	cfg           pursuit.Config
	state         *pursuit.State
	mode          Mode
	phase         Phase
	stepsPerFrame int
	steps         int
	time          float64
	logger        *log.Logger
}

type Option func(*Session)

func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func WithMode(m Mode) Option {
	return func(s *Session) { s.mode = m }
}

func WithStepsPerFrame(n int) Option {
	return func(s *Session) { s.stepsPerFrame = max(n, 1) }
}

// New creates a session with an initialized state. In closed-form mode the
// spiral is solved immediately. A body count below one or an invalid radius
// is rejected; a non-positive timestep is clamped.
func New(cfg pursuit.Config, opts ...Option) (*Session, error) {
	cfg.Timestep = cfg.Clamp().Timestep
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:           cfg,
		stepsPerFrame: 1,
		logger:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := s.rebuild(false); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) Config() pursuit.Config { return s.cfg }
func (s *Session) Mode() Mode             { return s.mode }
func (s *Session) Phase() Phase           { return s.phase }
func (s *Session) Running() bool          { return s.state.Running }
func (s *Session) StepsPerFrame() int     { return s.stepsPerFrame }

// Steps returns the number of steps since the last re-initialization.
func (s *Session) Steps() int { return s.steps }

// Time returns the simulated time since the last re-initialization.
func (s *Session) Time() float64 { return s.time }

// State returns the live state. Callers must treat it as read-only and must
// not hold on to it across commands.
func (s *Session) State() *pursuit.State { return s.state }

// Snapshot returns a deep copy of the state.
func (s *Session) Snapshot() *pursuit.State { return s.state.Clone() }

// Apply is the single entry point for changing the session.
func (s *Session) Apply(cmd Command) (Result, error) {
	switch c := cmd.(type) {
	case SetBodyCount:
		n := max(c.N, 1)
		if n == s.cfg.BodyCount {
			return Result{}, nil
		}
		s.cfg.BodyCount = n
		return s.rebuild(false)

	case SetRadius:
		r := c.Radius
		if math.IsInf(r, 0) {
			return Result{}, fmt.Errorf("%w: radius %g", pursuit.ErrInvalidConfiguration, r)
		}
		if math.IsNaN(r) || r < 0 {
			r = 0
		}
		if r == s.cfg.Radius {
			return Result{}, nil
		}
		s.cfg.Radius = r
		return s.rebuild(false)

	case SetSpeed:
		s.cfg.Speed = c.Speed
		return s.parameterChanged()

	case SetTimestep:
		s.cfg.Timestep = c.Timestep
		s.cfg = s.cfg.Clamp()
		return s.parameterChanged()

	case SetStepsPerFrame:
		s.stepsPerFrame = max(c.N, 1)
		return Result{}, nil

	case SetMode:
		if c.Mode == s.mode {
			return Result{}, nil
		}
		s.mode = c.Mode
		s.state.Running = false
		s.logger.Debug("mode changed", "mode", s.mode)
		return s.rebuild(false)

	case Run:
		return s.run()

	case Pause:
		s.pause()
		return Result{}, nil

	case Toggle:
		if s.state.Running {
			s.pause()
			return Result{}, nil
		}
		return s.run()

	case Step:
		if s.mode == ClosedForm {
			return Result{}, ErrClosedFormMode
		}
		res, err := s.leaveSolved()
		if err != nil {
			return res, err
		}
		return s.advance(1, res)

	case Tick:
		if !s.state.Running {
			return Result{}, nil
		}
		return s.advance(s.stepsPerFrame, Result{})

	case Solve:
		if err := s.solve(s.state); err != nil {
			return Result{}, err
		}
		s.state.Running = false
		s.phase = Solved
		return Result{Solved: true}, nil

	case Reset:
		return s.rebuild(false)

	default:
		return Result{}, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
}

func (s *Session) run() (Result, error) {
	if s.mode == ClosedForm {
		return Result{}, ErrClosedFormMode
	}
	res, err := s.leaveSolved()
	if err != nil {
		return res, err
	}
	s.state.Running = true
	s.phase = Stepping
	return res, nil
}

func (s *Session) pause() {
	s.state.Running = false
	if s.phase == Stepping {
		s.phase = Idle
	}
}

// leaveSolved discards a closed-form trajectory before iterative stepping
// continues from the starting circle.
func (s *Session) leaveSolved() (Result, error) {
	if s.phase != Solved {
		return Result{}, nil
	}
	return s.rebuild(false)
}

func (s *Session) advance(n int, res Result) (Result, error) {
	for i := 0; i < n; i++ {
		rep, err := pursuit.Step(s.state, s.cfg)
		if err != nil {
			s.pause()
			s.logger.Warn("step rejected", "err", err)
			return res, err
		}
		res.Steps++
		res.Report = rep
		if rep.Moved > 0 {
			s.steps++
			s.time += s.cfg.Timestep
		}
		if rep.Degenerate > 0 {
			s.logger.Debug("skipped degenerate bodies", "count", rep.Degenerate, "step", s.steps)
		}
		if rep.Complete() {
			s.pause()
			res.Complete = true
			s.logger.Info("simulation complete", "outcome", rep.Outcome, "steps", s.steps, "time", s.time)
			break
		}
	}
	return res, nil
}

// parameterChanged handles edits that keep the state's shape. In closed-form
// mode the spiral is recomputed; a rejected solve keeps the old trajectory.
func (s *Session) parameterChanged() (Result, error) {
	if s.mode != ClosedForm {
		return Result{}, nil
	}
	return s.rebuild(true)
}

// rebuild re-initializes the state and, in closed-form mode, solves it. With
// keepOnReject a failed solve leaves the current state in place.
func (s *Session) rebuild(keepOnReject bool) (Result, error) {
	st, err := pursuit.Reinitialize(s.cfg.BodyCount, s.cfg.Radius)
	if err != nil {
		return Result{}, err
	}
	if s.state != nil && s.mode == Iterative {
		st.Running = s.state.Running
	}

	res := Result{Reinitialized: true}
	var solveErr error
	if s.mode == ClosedForm {
		solveErr = s.solve(st)
		if solveErr != nil && keepOnReject && s.state != nil {
			return Result{}, solveErr
		}
		res.Solved = solveErr == nil
	}

	s.state = st
	s.steps = 0
	s.time = 0
	switch {
	case res.Solved:
		s.phase = Solved
	case st.Running:
		s.phase = Stepping
	default:
		s.phase = Idle
	}
	s.logger.Debug("reinitialized", "bodies", s.cfg.BodyCount, "radius", s.cfg.Radius, "phase", s.phase)
	return res, solveErr
}

func (s *Session) solve(st *pursuit.State) error {
	if err := pursuit.Solve(st, s.cfg); err != nil {
		s.logger.Warn("solve rejected", "speed", s.cfg.Speed, "err", err)
		return err
	}
	s.logger.Debug("solved", "bodies", s.cfg.BodyCount, "samples", len(st.History[0]))
	return nil
}
