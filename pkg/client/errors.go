package client

import (
	"errors"
	"fmt"
	"net/url"
)

// Common errors returned by the client.
var (
	// ErrTransport marks a transport-level failure (network error,
	// timeout). Only these failures are retried; application-level HTTP
	// status codes are returned to the caller as-is.
	ErrTransport = errors.New("transport failure")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")
)

// ConnectionError reports that every attempt against an endpoint failed
// at the transport level. It names the endpoint and the payloads that
// were attempted.
type ConnectionError struct {
	Endpoint string
	Body     any
	Query    url.Values
	Attempts int
	Err      error // last transport failure
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %s failed after %d attempts (query=%v, body=%v): %v",
		e.Endpoint, e.Attempts, e.Query, e.Body, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// shouldRetry reports whether an attempt failure is transient. HTTP
// error statuses never reach here: the transport returns them as
// responses, not errors.
func shouldRetry(err error) bool {
	return errors.Is(err, ErrTransport)
}
