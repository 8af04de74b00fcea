package errors

import (
	"errors"
	"fmt"
)

// Kind is the short machine-checkable category of a batch-level failure.
type Kind string

const (
	KindNoJobs        Kind = "no_jobs"
	KindNoCandidates  Kind = "no_candidates"
	KindInternalError Kind = "internal_error"
)

// Sentinel errors for common error conditions
var (
	// ErrNoJobs is returned when no usable job survives normalization
	ErrNoJobs = errors.New("no usable jobs")

	// ErrNoCandidates is returned when the candidate collection is empty
	ErrNoCandidates = errors.New("no candidates")

	// ErrInternal is returned when feature extraction or scoring fails unexpectedly
	ErrInternal = errors.New("internal error")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// MatchError is the structured failure handed to the caller of the matching pipeline.
// Detail is human readable and never carries internal state.
type MatchError struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *MatchError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return string(e.Kind)
}

func (e *MatchError) Is(target error) bool {
	switch e.Kind {
	case KindNoJobs:
		return target == ErrNoJobs
	case KindNoCandidates:
		return target == ErrNoCandidates
	case KindInternalError:
		return target == ErrInternal
	}
	return false
}

func (e *MatchError) Unwrap() error {
	return e.Err
}

// NewNoJobsError creates a MatchError of kind no_jobs
func NewNoJobsError(detail string) *MatchError {
	return &MatchError{Kind: KindNoJobs, Detail: detail}
}

// NewNoCandidatesError creates a MatchError of kind no_candidates
func NewNoCandidatesError(detail string) *MatchError {
	return &MatchError{Kind: KindNoCandidates, Detail: detail}
}

// NewInternalError wraps cause into a MatchError of kind internal_error.
func NewInternalError(operation string, cause error) *MatchError {
	detail := operation
	if cause != nil {
		detail = fmt.Sprintf("%s failed: %v", operation, cause)
	}
	return &MatchError{Kind: KindInternalError, Detail: detail, Err: cause}
}

// AsMatchError finds the first MatchError in err's chain.
func AsMatchError(err error) (*MatchError, bool) {
	var matchErr *MatchError
	if errors.As(err, &matchErr) {
		return matchErr, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or internal_error for anything that is not a MatchError.
func KindOf(err error) Kind {
	if matchErr, ok := AsMatchError(err); ok {
		return matchErr.Kind
	}
	return KindInternalError
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
