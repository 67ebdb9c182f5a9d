// apiclient/errors.go
package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingCSRFToken is returned when no csrftoken cookie could be obtained
// before a state-changing request.
var ErrMissingCSRFToken = errors.New("csrf token cookie is missing")

// APIError is a non-2xx response from the upstream server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// StatusCode returns the upstream status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
