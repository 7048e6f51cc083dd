package domain

import (
	"errors"
	"fmt"
)

// Sentinel outcomes that are normal, non-exceptional "absent result" cases.
// They allow the batch to continue regardless of the failure policy.
var (
	// ErrNoResult means every geocoding strategy was exhausted.
	ErrNoResult = errors.New("no geocoding result")

	// ErrNoStation means the catalog held no open station with coordinates.
	ErrNoStation = errors.New("no eligible station")

	// ErrNoOrderID means the provider accepted the order submission but the
	// response carried no order identifier, so the file cannot be fetched.
	ErrNoOrderID = errors.New("order response carried no identifier")
)

// ValidationError reports malformed input detected before any I/O.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// TransportError reports a connection, timeout, or TLS failure reaching a
// provider. TLS failures are flagged separately so callers can surface the
// diagnostics hint.
type TransportError struct {
	Op  string
	TLS bool
	Err error
}

func (e *TransportError) Error() string {
	if e.TLS {
		return fmt.Sprintf("%s: TLS certificate verification failed (INSECURE_SKIP_VERIFY=true bypasses verification, diagnostics only): %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError reports a non-2xx provider response, keeping the status and
// body for diagnostics.
type UpstreamError struct {
	Op     string
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream status %d: %s", e.Op, e.Status, e.Body)
}

// DecodeError reports a response that was expected to be JSON but was not,
// or did not have the expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// CatalogError marks the station catalog as unavailable for a department.
// It is fatal for the current location record only.
type CatalogError struct {
	Department string
	Err        error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("station catalog unavailable for department %s: %v", e.Department, e.Err)
}

func (e *CatalogError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is one of the normal absent-result
// outcomes, as opposed to a real failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoResult) || errors.Is(err, ErrNoStation)
}
