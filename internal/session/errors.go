package session

import "errors"

var (
	// ErrClosedFormMode indicates a stepping command issued in closed-form mode.
	ErrClosedFormMode = errors.New("session: stepping is not available in closed-form mode")

	// ErrStepBudget indicates a run hit its step limit before completing.
	ErrStepBudget = errors.New("session: step budget exhausted before completion")

	// ErrUnknownCommand indicates a nil or foreign command.
	ErrUnknownCommand = errors.New("session: unknown command")
)
