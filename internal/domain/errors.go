package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoActiveSession = errors.New("no active session")
	ErrStaleAnswer     = errors.New("stale answer")
	ErrNoVocabulary    = errors.New("no vocabulary available")
	ErrUpstream        = errors.New("upstream failure")
)

// OpError attaches the failed operation and learner to an error
type OpError struct {
	Op      string
	Learner string
	Err     error
}

func (e *OpError) Error() string {
	if e.Learner == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s (learner %q): %v", e.Op, e.Learner, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// NewOpError wraps err unless it is nil
func NewOpError(op, learner string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Learner: learner, Err: err}
}

// Upstream marks a collaborator failure while keeping the original cause
func Upstream(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstream, what, err)
}
