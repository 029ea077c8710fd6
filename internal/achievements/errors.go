package achievements

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCategory  = errors.New("unknown category")
	ErrCategoryMismatch = errors.New("entry does not belong to category")
	ErrIndexOutOfRange  = errors.New("entry index out of range")
	ErrEntryNotFound    = errors.New("entry not found")
	ErrUnknownField     = errors.New("unknown field")
)

// MissingOwnerError is returned by Submit when no owner identifier is given.
type MissingOwnerError struct{}

func (e *MissingOwnerError) Error() string {
	return "user ID is missing: register or log in first"
}

// ExternalWriteError wraps a failure reported by the document store.
type ExternalWriteError struct {
	Collection string
	Key        string
	Err        error
}

func (e *ExternalWriteError) Error() string {
	return fmt.Sprintf("failed to save %s/%s: %v", e.Collection, e.Key, e.Err)
}

func (e *ExternalWriteError) Unwrap() error {
	return e.Err
}
