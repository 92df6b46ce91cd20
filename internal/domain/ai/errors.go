package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// InferenceError wraps a failed call to the model provider.
type InferenceError struct {
	Op  string // e.g. "analyze sentiment"
	Err error
}

func (e *InferenceError) Error() string {
	return "failed to " + e.Op + ": " + e.Err.Error()
}

func (e *InferenceError) Unwrap() error { return e.Err }
