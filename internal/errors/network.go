package errors

import (
	stdErrors "errors"
	"fmt"
)

// NetworkError represents a transport failure that survived the client's
// retry budget. Transient failures are retried before one of these escapes.
type NetworkError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("request to %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
	}
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError wraps err as a NetworkError for the given URL and attempt count.
func NewNetworkError(url string, attempts int, err error) *NetworkError {
	return &NetworkError{URL: url, Attempts: attempts, Err: err}
}

// IsNetworkError reports whether err is a NetworkError (even when wrapped).
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return stdErrors.As(err, &netErr)
}
