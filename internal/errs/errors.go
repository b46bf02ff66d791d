package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("order not found")

	// ErrOwnershipMismatch means the record exists but the supplied email or
	// identity does not match the owner. Presented to end users with the same
	// wording as ErrNotFound; kept distinct for logging and tests.
	ErrOwnershipMismatch = errors.New("ownership mismatch")
)

// ValidationError carries field-scoped messages for recoverable input errors.
// No state is committed when one is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validation builds a single-field ValidationError.
func Validation(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// AsValidation unwraps err into a ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// PreconditionError means the operation was invoked in a state that does not
// satisfy its precondition (empty cart, duplicate in-flight submission).
// Retrying once the precondition holds is safe.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition failed: " + e.Reason
}

// Precondition builds a PreconditionError.
func Precondition(reason string) *PreconditionError {
	return &PreconditionError{Reason: reason}
}

// IsPrecondition reports whether err is a PreconditionError.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// PersistenceError means the durable store failed. It is fatal for the
// current operation only; in-memory state is left unchanged so a retry
// is safe.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// Persistence wraps a store failure with the operation that hit it.
func Persistence(op string, cause error) *PersistenceError {
	return &PersistenceError{Op: op, Cause: cause}
}

// IsPersistence reports whether err is a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
