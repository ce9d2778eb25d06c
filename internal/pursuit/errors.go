package pursuit

import "errors"

// Domain errors for pursuit operations.
var (
	// ErrDegenerateDirection indicates a pursuer and its target coincide.
	ErrDegenerateDirection = errors.New("pursuit: degenerate direction (coincident points)")

	// ErrInvalidSpeed indicates a non-positive or non-finite speed.
	ErrInvalidSpeed = errors.New("pursuit: speed must be positive")

	// ErrInvalidConfiguration indicates a body count or radius outside the accepted range.
	ErrInvalidConfiguration = errors.New("pursuit: invalid configuration")

	// ErrSampleLimit indicates the closed-form trajectory would be too long to sample.
	ErrSampleLimit = errors.New("pursuit: closed-form sample limit exceeded")

	// ErrShapeMismatch indicates positions and histories disagree in length.
	ErrShapeMismatch = errors.New("pursuit: state shape mismatch")
)

// BodyError wraps an error with the index of the body it concerns.
type BodyError struct {
	Body    int
	Wrapped error
}

func (e *BodyError) Error() string {
	return e.Wrapped.Error()
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}
