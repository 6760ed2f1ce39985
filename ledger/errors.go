/*
errors.go - Centralized error types for the ledger

ERROR CATEGORIES:
  1. Validation errors - input fails a business rule, checked before any write
  2. Storage errors    - the persistence layer rejected or could not perform
                         an operation; terminal for that operation, no retries

A commission lookup that resolves to a zero payout is NOT an error anywhere in
this system; unknown professionals and services default to zero.
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the sentinel wrapped by every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrStorage is the sentinel wrapped by every StorageError.
	ErrStorage = errors.New("storage failure")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError reports which field failed and why. It is always raised
// before any store mutation, so a failed operation leaves no partial writes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// StorageError wraps a driver-level failure. The message is surfaced verbatim
// to the operator.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return ErrStorage }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation reports whether err is (or wraps) a validation failure.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsStorage reports whether err is (or wraps) a storage failure.
func IsStorage(err error) bool { return errors.Is(err, ErrStorage) }
