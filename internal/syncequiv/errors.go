package syncequiv

import (
	"errors"
	"fmt"
)

// CheckError describes why a core-equivalence check failed.
//
// Failures include:
//   - No capability: the class declares neither direction
//   - Unsynchronizable: an item (or the core) could not reach the common time
//   - Mismatch: the synchronized values differ
//   - Consumed: the checker already ran
//   - Cancelled: the context ended before the pass completed
type CheckError struct {
	// Code identifies the failure category.
	Code CheckErrorCode

	// Message is a human-readable description.
	Message string

	// Index is the 0-based position of the failing item in the sequence,
	// or -1 when the failure is not tied to an item.
	Index int

	// Direction is the direction the check was taking.
	Direction Direction

	// Want and Got hold the compared values for mismatches:
	// the core and the synchronized item (cosync), or the item and the
	// synchronized core (sync).
	Want any
	Got  any

	// Err is the underlying cause, if any.
	Err error
}

// CheckErrorCode categorizes check failures.
type CheckErrorCode string

const (
	// ErrCodeNoCapability indicates neither direction is declared.
	ErrCodeNoCapability CheckErrorCode = "NO_CAPABILITY"

	// ErrCodeUnsynchronizable indicates a synchronize call returned nothing.
	ErrCodeUnsynchronizable CheckErrorCode = "UNSYNCHRONIZABLE"

	// ErrCodeMismatch indicates the synchronized values are not equal.
	ErrCodeMismatch CheckErrorCode = "MISMATCH"

	// ErrCodeConsumed indicates the checker's sequence was already consumed.
	ErrCodeConsumed CheckErrorCode = "CONSUMED"

	// ErrCodeCancelled indicates the context ended mid-pass.
	ErrCodeCancelled CheckErrorCode = "CANCELLED"
)

// Error implements the error interface.
func (e *CheckError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: %s (item=%d, direction=%s)", e.Code, e.Message, e.Index, e.Direction)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *CheckError) Unwrap() error {
	return e.Err
}

// IsMismatch returns true if err is a mismatch failure.
func IsMismatch(err error) bool {
	return hasCode(err, ErrCodeMismatch)
}

// IsUnsynchronizable returns true if err is an unsynchronizable failure.
func IsUnsynchronizable(err error) bool {
	return hasCode(err, ErrCodeUnsynchronizable)
}

// IsCancelled returns true if err is a cancellation failure.
func IsCancelled(err error) bool {
	return hasCode(err, ErrCodeCancelled)
}

// IsConsumed returns true if err reports a spent checker.
func IsConsumed(err error) bool {
	return hasCode(err, ErrCodeConsumed)
}

func hasCode(err error, code CheckErrorCode) bool {
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

func newNoCapabilityError() *CheckError {
	return &CheckError{
		Code:    ErrCodeNoCapability,
		Message: "class declares neither synchronizable nor cosynchronizable",
		Index:   -1,
	}
}

func newConsumedError() *CheckError {
	return &CheckError{
		Code:    ErrCodeConsumed,
		Message: "sequence already consumed; build a new checker over a fresh sequence",
		Index:   -1,
	}
}

func newUnsynchronizableError(index int, dir Direction) *CheckError {
	msg := "item cannot be synchronized to the core's time"
	if dir == DirectionSync {
		msg = "core cannot be synchronized to the item's time"
	}
	return &CheckError{
		Code:      ErrCodeUnsynchronizable,
		Message:   msg,
		Index:     index,
		Direction: dir,
	}
}

func newMismatchError(index int, dir Direction, want, got any) *CheckError {
	return &CheckError{
		Code:      ErrCodeMismatch,
		Message:   "item is not equivalent to the core",
		Index:     index,
		Direction: dir,
		Want:      want,
		Got:       got,
	}
}

func newCancelledError(index int, dir Direction, cause error) *CheckError {
	return &CheckError{
		Code:      ErrCodeCancelled,
		Message:   "check cancelled",
		Index:     index,
		Direction: dir,
		Err:       cause,
	}
}
