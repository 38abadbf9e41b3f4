// Package errors provides error handling for proctor.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing messages
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "set PROCTOR_OPENROUTER_API_KEY")
//
//	// Check errors
//	if errors.Is(err, errors.ErrInvalidRequest) {
//	    // handle without retrying
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is         = crdb.Is
	IsAny      = crdb.IsAny
	As         = crdb.As
	Unwrap     = crdb.Unwrap
	UnwrapOnce = crdb.UnwrapOnce
	UnwrapAll  = crdb.UnwrapAll
)

// Sentinel errors forming the proctor failure taxonomy.
// Use these with errors.Is() for type-safe error checking.
// Wrap them with errors.Wrap() to add context while preserving the class.
var (
	// ErrNotFound indicates the requested resource does not exist
	// (e.g., an unknown technique name in the registry).
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates malformed or missing required input.
	// Never retried; surfaced immediately with no network attempt.
	ErrInvalidRequest = New("invalid request")

	// ErrDependencyUnavailable indicates an optional capability (typically
	// the embedding provider) is not configured or unreachable. Callers may
	// fall back to non-semantic selection.
	ErrDependencyUnavailable = New("dependency unavailable")

	// ErrRetrieval indicates embedding computation failed while ranking
	// examples. The underlying cause is attached via wrapping.
	ErrRetrieval = New("retrieval failed")

	// ErrTransient indicates a retryable backend failure: rate limiting,
	// timeouts, 5xx-class service errors.
	ErrTransient = New("transient failure")

	// ErrPermanent indicates a non-retryable backend failure: bad
	// credentials, malformed request, 4xx-class client errors other than
	// rate limits.
	ErrPermanent = New("permanent failure")

	// ErrRetryExhausted indicates the retry budget ran out while the
	// failure was still transient.
	ErrRetryExhausted = New("retries exhausted")
)

// IsNotFound checks if an error is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequest checks if an error is or wraps ErrInvalidRequest.
func IsInvalidRequest(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// IsDependencyUnavailable checks if an error is or wraps ErrDependencyUnavailable.
func IsDependencyUnavailable(err error) bool {
	return err != nil && Is(err, ErrDependencyUnavailable)
}

// IsRetrieval checks if an error is or wraps ErrRetrieval.
func IsRetrieval(err error) bool {
	return err != nil && Is(err, ErrRetrieval)
}

// IsTransient checks if an error is or wraps ErrTransient.
func IsTransient(err error) bool {
	return err != nil && Is(err, ErrTransient)
}

// IsPermanent checks if an error is or wraps ErrPermanent.
func IsPermanent(err error) bool {
	return err != nil && Is(err, ErrPermanent)
}

// IsRetryExhausted checks if an error is or wraps ErrRetryExhausted.
func IsRetryExhausted(err error) bool {
	return err != nil && Is(err, ErrRetryExhausted)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message.
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}

// NewNotFoundError creates a not-found error with a formatted message.
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// MarkTransient wraps an error as transient while preserving the cause.
func MarkTransient(err error, context string) error {
	return Wrap(WithSecondaryError(ErrTransient, err), context)
}

// MarkPermanent wraps an error as permanent while preserving the cause.
func MarkPermanent(err error, context string) error {
	return Wrap(WithSecondaryError(ErrPermanent, err), context)
}
