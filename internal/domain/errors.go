package domain

import (
	"errors"
	"fmt"
)

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}

// ErrUniqueConflict is surfaced when the store rejects an insert because of
// the (email, phone, linked_id) unique index. One retry from a fresh
// snapshot is allowed; a second occurrence is a hard error.
type ErrUniqueConflict struct {
	Constraint string
	Err        error
}

func (e *ErrUniqueConflict) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("unique conflict on %s", e.Constraint)
	}
	return "unique conflict on contact identity"
}

func (e *ErrUniqueConflict) Unwrap() error {
	return e.Err
}

// ErrSerialization is surfaced when the store aborts a transaction because
// of a conflicting interleaving. Retryable once, like ErrUniqueConflict.
type ErrSerialization struct {
	Err error
}

func (e *ErrSerialization) Error() string {
	return fmt.Sprintf("transaction aborted by the store: %v", e.Err)
}

func (e *ErrSerialization) Unwrap() error {
	return e.Err
}

// ErrTxTimeout is surfaced when a transaction exceeded its wait-for-start or
// total-runtime bound.
type ErrTxTimeout struct {
	Phase string // "begin" or "run"
	Err   error
}

func (e *ErrTxTimeout) Error() string {
	return fmt.Sprintf("transaction timed out during %s: %v", e.Phase, e.Err)
}

func (e *ErrTxTimeout) Unwrap() error {
	return e.Err
}

// ErrInvariantBroken reports a corrupted identity graph: a dangling
// linked_id, a secondary referencing a non-primary, or a primary carrying a
// linked_id. Never retried.
type ErrInvariantBroken struct {
	Reason string
}

func (e *ErrInvariantBroken) Error() string {
	return fmt.Sprintf("identity graph invariant broken: %s", e.Reason)
}

// ErrStoreUnavailable reports a transport or connectivity failure talking to
// the store.
type ErrStoreUnavailable struct {
	Err error
}

func (e *ErrStoreUnavailable) Error() string {
	return fmt.Sprintf("store unavailable: %v", e.Err)
}

func (e *ErrStoreUnavailable) Unwrap() error {
	return e.Err
}

// IsRetryable returns true for errors that warrant one full re-run of the
// reconciliation from a fresh snapshot.
func IsRetryable(err error) bool {
	var unique *ErrUniqueConflict
	if errors.As(err, &unique) {
		return true
	}
	var serialization *ErrSerialization
	return errors.As(err, &serialization)
}
