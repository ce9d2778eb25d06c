package session

import (
	"fmt"
	"strings"
)

// Mode selects how the trajectory is produced.
type Mode int

const (
	// Iterative advances the bodies one timestep per Step.
	Iterative Mode = iota
	// ClosedForm recomputes the analytic spiral whenever a parameter changes.
	ClosedForm
)

func (m Mode) String() string {
	switch m {
	case Iterative:
		return "iterative"
	case ClosedForm:
		return "closed_form"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts "iterative" or "closed_form" (also "closed-form", "analytic").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "iterative", "step", "stepped":
		return Iterative, nil
	case "closed_form", "closed-form", "closedform", "analytic":
		return ClosedForm, nil
	default:
		return Iterative, fmt.Errorf("session: unknown mode %q", s)
	}
}

// Phase is the engine-level state of a session.
type Phase int

const (
	Idle Phase = iota
	Stepping
	Solved
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Stepping:
		return "stepping"
	case Solved:
		return "solved"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Command is an intent applied through Session.Apply.
type Command interface {
	command()
}

// SetBodyCount changes the number of pursuers. Values below one are raised
// to one. A change re-initializes the state.
type SetBodyCount struct{ N int }

// SetRadius changes the starting circle. Negative or NaN radii become zero.
// A change re-initializes the state.
type SetRadius struct{ Radius float64 }

type SetSpeed struct{ Speed float64 }

// SetTimestep changes the step length. Non-positive values are replaced by
// pursuit.MinTimestep.
type SetTimestep struct{ Timestep float64 }

// SetStepsPerFrame changes how many steps a Tick performs.
type SetStepsPerFrame struct{ N int }

type SetMode struct{ Mode Mode }

// Run starts iterative stepping.
type Run struct{}

// Pause stops iterative stepping.
type Pause struct{}

// Toggle flips between Run and Pause.
type Toggle struct{}

// Step advances the simulation by exactly one timestep.
type Step struct{}

// Tick is one rendering frame: while running it performs up to
// steps-per-frame steps.
type Tick struct{}

// Solve computes the closed-form trajectory.
type Solve struct{}

// Reset re-initializes the state with the current parameters.
type Reset struct{}

func (SetBodyCount) command()     {}
func (SetRadius) command()        {}
func (SetSpeed) command()         {}
func (SetTimestep) command()      {}
func (SetStepsPerFrame) command() {}
func (SetMode) command()          {}
func (Run) command()              {}
func (Pause) command()            {}
func (Toggle) command()           {}
func (Step) command()             {}
func (Tick) command()             {}
func (Solve) command()            {}
func (Reset) command()            {}
