package tasks

import (
	"fmt"

	"github.com/desertthunder/statsdash/internal/shared"
)

// NetworkError is a transport-level failure for one request.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-2xx response for one request.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

// Unwrap lets callers match any HTTP failure with [shared.ErrAPIRequest].
func (e *HTTPError) Unwrap() error {
	return shared.ErrAPIRequest
}

// BatchFailure is the first per-request failure of a load, attributed to its endpoint.
type BatchFailure struct {
	Endpoint string
	Err      error
}

func (e *BatchFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *BatchFailure) Unwrap() error {
	return e.Err
}
