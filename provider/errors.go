package provider

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials signals a provider constructor was given no API key.
var ErrMissingCredentials = errors.New("provider: missing vendor credentials")

// RequestError wraps a failure to submit a screening request. The record is
// expected to be marked failed by the caller; no adverse action follows from
// a request-level failure.
type RequestError struct {
	Provider string
	Kind     Kind
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("provider %s: %s request: %v", e.Provider, e.Kind, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ResultError wraps a failure to retrieve a result after the provider accepted
// the request.
type ResultError struct {
	Provider string
	Kind     Kind
	Err      error
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("provider %s: %s result: %v", e.Provider, e.Kind, e.Err)
}

func (e *ResultError) Unwrap() error { return e.Err }
