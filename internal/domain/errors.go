package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when required search parameters are missing.
	ErrValidation = errors.New("invalid search parameters")
	// ErrAuthentication is returned when the credential exchange fails.
	ErrAuthentication = errors.New("failed to authenticate with flight provider")
	// ErrSearch is returned when the provider rejects a flight search.
	ErrSearch = errors.New("flight search failed")
	// ErrTransformation is returned by a strict transform on malformed offers.
	ErrTransformation = errors.New("malformed flight offer")
)

// ValidationError names the missing parameter. It matches ErrValidation.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required search parameter: %s", e.Field)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// SearchError carries the provider detail message when one was sent.
// It matches ErrSearch.
type SearchError struct {
	Status int    // HTTP status from the provider, 0 on transport failure
	Detail string // provider detail, or a generic message
	Err    error  // underlying cause, if any
}

func (e *SearchError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "Flight search failed"
}

func (e *SearchError) Is(target error) bool { return target == ErrSearch }

func (e *SearchError) Unwrap() error { return e.Err }

// Message is the text shown to a user for a failed search. Provider
// details and validation messages pass through; internal causes do not.
func Message(err error) string {
	var (
		ve *ValidationError
		se *SearchError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &se):
		return se.Error()
	case errors.Is(err, ErrAuthentication):
		return "Failed to authenticate with flight provider"
	case errors.Is(err, ErrTransformation):
		return "Received malformed flight data"
	case errors.Is(err, context.DeadlineExceeded):
		return "Flight search timed out"
	default:
		return "Flight search failed"
	}
}
