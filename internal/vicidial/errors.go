package vicidial

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork matches connection failures and timeouts.
	ErrNetwork = errors.New("vicidial: network error")
	// ErrAPI matches every APIError.
	ErrAPI = errors.New("vicidial: api error")
	// ErrInterrupted is returned when the caller's context is canceled mid-request.
	ErrInterrupted = errors.New("vicidial: request interrupted")
)

// NetworkError wraps a transport failure for a single function call.
type NetworkError struct {
	Function string
	Timeout  bool
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("vicidial: %s timed out: %v", e.Function, e.Err)
	}
	return fmt.Sprintf("vicidial: %s: %v", e.Function, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNetwork) match.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// APIError is a rejected request: either a non-200 status or a 200 body
// carrying the API's in-band ERROR: marker.
type APIError struct {
	Function   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("vicidial: %s failed (status=%d): %s", e.Function, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("vicidial: %s failed with http status %d", e.Function, e.StatusCode)
}

// Is lets errors.Is(err, ErrAPI) match.
func (e *APIError) Is(target error) bool { return target == ErrAPI }
