package application

import "errors"

// ErrNotFound is returned by services when a repository lookup comes back empty.
var ErrNotFound = errors.New("not found")

// ValidationError marks bad input supplied by the caller.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Invalid builds a ValidationError.
func Invalid(msg string) error { return &ValidationError{Msg: msg} }
