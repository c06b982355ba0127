package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/alexanderramin/incidentboard/internal/service"
)

var (
	// ErrUnavailable indicates the API server could not be reached.
	ErrUnavailable = errors.New("incident api unavailable")

	// ErrTimeout indicates a request exceeded the configured timeout.
	ErrTimeout = errors.New("incident api request timed out")

	// ErrBadResponse marks a 2xx response whose body could not be read or
	// decoded. Retrying does not help.
	ErrBadResponse = errors.New("incident api returned a malformed response")

	// ErrNotFound matches 404 responses.
	ErrNotFound = service.ErrNotFound
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned status %d", e.Code)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Code, e.Body)
}

// Is lets errors.Is(err, ErrNotFound) match a 404.
func (e *StatusError) Is(target error) bool {
	return e.Code == http.StatusNotFound && target == ErrNotFound
}

// retryable reports whether a GET that failed this way may be tried again.
func retryable(err error) bool {
	if errors.Is(err, ErrBadResponse) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == http.StatusTooManyRequests
	}
	return true
}

func errorCode(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrBadResponse):
		return "BAD_RESPONSE"
	case errors.As(err, &se):
		return fmt.Sprintf("HTTP_%d", se.Code)
	default:
		return "UNKNOWN"
	}
}
