package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a lookup that completed but produced no result.
var ErrNotFound = errors.New("not found")

// InvalidCoordinateError reports malformed, missing, non-numeric or out-of-range
// coordinate input. It is fatal to a single normalization call only.
type InvalidCoordinateError struct {
	Reason string
}

func (e *InvalidCoordinateError) Error() string {
	return "invalid coordinate: " + e.Reason
}

// GeocodingError reports a place name that could not be resolved.
type GeocodingError struct {
	Query string
	Err   error
}

func (e *GeocodingError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("geocode %q: unresolved", e.Query)
	}
	return fmt.Sprintf("geocode %q: %v", e.Query, e.Err)
}

func (e *GeocodingError) Unwrap() error { return e.Err }

// ProviderError wraps a network, timeout, status or decoding failure from an
// external collaborator (routing, traffic, incidents, POI search).
type ProviderError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
