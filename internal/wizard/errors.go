package wizard

import "fmt"

// InvalidStepError is returned by JumpTo for a step outside 1..Max.
type InvalidStepError struct {
	Step int
	Max  int
}

func (e *InvalidStepError) Error() string {
	return fmt.Sprintf("invalid step %d: must be between 1 and %d", e.Step, e.Max)
}

// ExternalWriteError wraps a failure from the profile persistence collaborator.
type ExternalWriteError struct {
	OwnerID string
	Err     error
}

func (e *ExternalWriteError) Error() string {
	return fmt.Sprintf("failed to save profile for %s: %v", e.OwnerID, e.Err)
}

func (e *ExternalWriteError) Unwrap() error {
	return e.Err
}
