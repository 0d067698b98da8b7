package domain

import (
	"errors"
	"fmt"
)

// SourceError reports that every content provider in the chain failed.
type SourceError struct {
	Provider string
	Cause    error
}

func (e *SourceError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("content source %s failed", e.Provider)
	}
	return fmt.Sprintf("content source %s failed: %v", e.Provider, e.Cause)
}

func (e *SourceError) Unwrap() error { return e.Cause }

// ScoringError reports a failed scoring provider call.
type ScoringError struct {
	Cause error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring failed: %v", e.Cause)
}

func (e *ScoringError) Unwrap() error { return e.Cause }

// ValidationError reports missing or malformed input, such as an absent user.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StateError marks an operation on an uninitialized profile. The store treats it as a no-op.
type StateError struct {
	Op string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: profile not initialized", e.Op)
}

// ErrEmptyResult is the cause recorded when a provider returns nothing.
var ErrEmptyResult = errors.New("provider returned no items")

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
