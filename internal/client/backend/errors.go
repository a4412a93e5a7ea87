package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrTransport marks failures where no response was received from the API.
var ErrTransport = errors.New("backend unreachable")

// APIError is a non-2xx envelope returned by the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend %d %s: %s", e.Status, e.Code, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

func IsForbidden(err error) bool {
	return StatusOf(err) == http.StatusForbidden
}
