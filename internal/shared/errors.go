// Package shared contains common error types and utilities.
package shared

import (
	"context"
	"errors"
	"fmt"
)

// Common errors shared by the adapters, the solver and the CLI.
var (
	// ErrNotFound indicates that an instance file or other input does not exist
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates that input validation failed
	ErrValidation = errors.New("validation failed")

	// ErrInvariantViolated indicates that a computed schedule broke a scheduling rule
	ErrInvariantViolated = errors.New("invariant violated")

	// ErrInternal indicates an unexpected internal failure
	ErrInternal = errors.New("internal error")
)

// Kind represents a category of error for easier classification and handling.
type Kind int

const (
	// KindUnknown represents an unclassified error
	KindUnknown Kind = iota
	// KindNotFound represents missing input errors
	KindNotFound
	// KindValidation represents input validation errors
	KindValidation
	// KindInvariantViolated represents broken scheduling rules
	KindInvariantViolated
	// KindInternal represents internal errors
	KindInternal
	// KindCanceled represents context cancellation
	KindCanceled
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindValidation:
		return "Validation"
	case KindInvariantViolated:
		return "InvariantViolated"
	case KindInternal:
		return "Internal"
	case KindCanceled:
		return "Canceled"
	default:
		return "Unknown"
	}
}

// kindToSentinel maps error kinds to their corresponding sentinel errors.
var kindToSentinel = map[Kind]error{
	KindNotFound:          ErrNotFound,
	KindValidation:        ErrValidation,
	KindInvariantViolated: ErrInvariantViolated,
	KindInternal:          ErrInternal,
}

// kindPriorities defines the deterministic order for error classification.
// Higher priority (lower index) kinds are checked first in KindOf.
var kindPriorities = []struct {
	kind Kind
	err  error
}{
	{KindCanceled, nil},
	{KindNotFound, ErrNotFound},
	{KindValidation, ErrValidation},
	{KindInternal, ErrInternal},
	{KindInvariantViolated, ErrInvariantViolated},
}

// KindOf returns the Kind of the given error by checking against known sentinel errors.
// It traverses the error chain using a deterministic priority order:
// KindCanceled, KindNotFound, KindValidation, KindInternal, KindInvariantViolated.
// For errors created with errors.Join, the first matching kind in priority order is returned.
// Returns KindUnknown for nil and unrecognized errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	for _, priority := range kindPriorities {
		if priority.kind == KindCanceled {
			if IsCanceled(err) {
				return KindCanceled
			}
			continue
		}
		if errors.Is(err, priority.err) {
			return priority.kind
		}
	}

	return KindUnknown
}

// ErrorOf returns the sentinel error for the given Kind.
// For KindUnknown and KindCanceled, it returns nil.
func ErrorOf(kind Kind) error {
	return kindToSentinel[kind]
}

// MarkKind wraps an error with the sentinel error for the given kind,
// preserving the original error through error wrapping.
// If err is nil, returns the sentinel error for the kind (or nil for unsupported kinds).
// If kind has no sentinel or err already has that kind, err is returned unchanged.
//
//	if errors.Is(err, fs.ErrNotExist) {
//	    return shared.MarkKind(err, shared.KindNotFound)
//	}
func MarkKind(err error, kind Kind) error {
	sentinel := ErrorOf(kind)
	if err == nil {
		return sentinel
	}
	if sentinel == nil || KindOf(err) == kind {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// Wrap wraps an error with additional context.
// It returns a new error that formats as "context: err".
// If err is nil, Wrap returns nil.
// If context is empty, returns the original error.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	if context == "" {
		return err
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Invariant checks a condition and returns an error if it's false.
func Invariant(condition bool, message string) error {
	if condition {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvariantViolated, message)
}

// InvariantF checks a condition and returns a formatted error if it's false.
func InvariantF(condition bool, format string, args ...any) error {
	if condition {
		return nil
	}
	return Invariant(false, fmt.Sprintf(format, args...))
}

// Validationf returns a formatted error wrapping ErrValidation.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IsCanceled reports whether the error indicates a canceled context.
func IsCanceled(err error) bool {
	return err != nil && errors.Is(err, context.Canceled)
}

// IsNotFound reports whether the error indicates missing input.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether the error indicates input validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvariantViolated reports whether the error indicates a broken scheduling rule.
func IsInvariantViolated(err error) bool {
	return errors.Is(err, ErrInvariantViolated)
}

// ExitCode maps an error to a process exit status.
func ExitCode(err error) int {
	switch KindOf(err) {
	case KindUnknown:
		if err == nil {
			return 0
		}
		return 1
	case KindValidation:
		return 2
	case KindNotFound:
		return 3
	case KindInvariantViolated:
		return 4
	case KindCanceled:
		return 130
	default:
		return 1
	}
}
