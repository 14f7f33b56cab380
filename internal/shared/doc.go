// Package shared contains common error types and utilities for error handling
// across the application without domain-specific logic.
//
// # Error Types and Classification
//
//   - ErrNotFound: an input file does not exist
//   - ErrValidation: input validation failed (malformed instance, bad config)
//   - ErrInvariantViolated: a computed schedule broke a scheduling rule
//   - ErrInternal: unexpected internal failure
//
// Use KindOf() to classify errors, or the predicate functions:
//
//	switch shared.KindOf(err) {
//	case shared.KindNotFound:
//	    // missing file
//	case shared.KindValidation:
//	    // bad input
//	}
//
// # Kind Priority Table
//
//	Priority | Kind                  | Description
//	---------|-----------------------|--------------------
//	1        | KindCanceled          | Context cancellation (highest)
//	2        | KindNotFound          | Missing input
//	3        | KindValidation        | Input validation failures
//	4        | KindInternal          | Internal errors
//	5        | KindInvariantViolated | Scheduling rule violations (lowest)
//
// # Error Wrapping and Context
//
//	if err := parse(f); err != nil {
//	    return shared.Wrapf(err, "load %s", path)
//	}
//
// # Exit Codes
//
// The CLI maps kinds to exit codes with ExitCode: validation 2, not found 3,
// invariant violation 4, cancellation 130, anything else 1.
//
// # Error Message Style Guide
//
// - Use lowercase messages: "job count mismatch" not "Job count mismatch"
// - Avoid punctuation
// - Keep messages composable: they will often be wrapped with additional context
package shared
