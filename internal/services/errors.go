package services

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOp   = errors.New("unknown op")
	ErrNotLastStep = errors.New("registration can only be completed from the last step")
	ErrMissingKey  = errors.New("handoff key is missing")
)

// InvalidActionError reports which replayed action was rejected.
type InvalidActionError struct {
	Index int
	Op    string
	Err   error
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("action %d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *InvalidActionError) Unwrap() error {
	return e.Err
}
