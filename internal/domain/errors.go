package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common error conditions.
var (
	// ErrNotFound indicates that a source has no record for the requested
	// identifier. It is an answer, not a failure.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that the input data is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAllSourcesFailed indicates that no source could produce a usable
	// answer for an aggregated call.
	ErrAllSourcesFailed = errors.New("no source returned results")
)

// NotFoundError provides details about a not found entity.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		Entity: entity,
		ID:     id,
	}
}

// SourceError is a failure scoped to one adapter's one call: a non-2xx
// status, a transport timeout, a network failure, or an unparseable
// top-level response. Adapters always convert raw transport and parsing
// failures into a SourceError; they never propagate them as-is.
type SourceError struct {
	// Source is the adapter tag (e.g. "crossref").
	Source string
	// StatusCode is the HTTP status, or zero for transport-level failures.
	StatusCode int
	// Message is a short diagnostic: a truncated response body, "timeout",
	// or "network error".
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *SourceError) Unwrap() error {
	return e.Cause
}

// NewSourceError creates a new SourceError.
func NewSourceError(source string, statusCode int, message string, cause error) *SourceError {
	return &SourceError{
		Source:     source,
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
	}
}

// AggregationError is the failure of a whole orchestrated call. It is
// raised only when no adapter could answer at all; individual source
// diagnostics are carried for operational logging and never shown to end
// users.
type AggregationError struct {
	// Op names the failed operation ("search" or "lookup").
	Op string
	// Diagnostics holds one short entry per failed source.
	Diagnostics []string
}

// Error implements the error interface.
func (e *AggregationError) Error() string {
	if len(e.Diagnostics) == 0 {
		return fmt.Sprintf("%s: no source returned results", e.Op)
	}
	return fmt.Sprintf("%s: no source returned results: %s", e.Op, strings.Join(e.Diagnostics, "; "))
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *AggregationError) Unwrap() error {
	return ErrAllSourcesFailed
}

// NewAggregationError creates a new AggregationError.
func NewAggregationError(op string, diagnostics []string) *AggregationError {
	return &AggregationError{
		Op:          op,
		Diagnostics: diagnostics,
	}
}
