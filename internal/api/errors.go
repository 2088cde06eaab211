package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel markers for the error classes the remote API produces. Callers
// classify with errors.Is; the full detail travels in *Error.
var (
	ErrAuth        = errors.New("invalid credentials")
	ErrRateLimited = errors.New("rate limited, retry later")
	ErrBadRequest  = errors.New("bad request")
	ErrNotFound    = errors.New("not found")
)

// Error is a normalized remote API failure. StatusCode is zero when the
// request never produced an HTTP response.
type Error struct {
	StatusCode int
	Endpoint   string
	Message    string
	kind       error
}

func (e *Error) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("camb api: %s: http %d: %s", e.Endpoint, e.StatusCode, msg)
	}
	return fmt.Sprintf("camb api: %s: %s", e.Endpoint, msg)
}

func (e *Error) Unwrap() error {
	return e.kind
}

// classifyStatus maps a non-2xx HTTP status to the error taxonomy.
func classifyStatus(endpoint string, status int, message string) *Error {
	err := &Error{StatusCode: status, Endpoint: endpoint, Message: message}
	switch status {
	case http.StatusUnauthorized:
		err.kind = ErrAuth
		err.Message = "invalid credentials"
	case http.StatusTooManyRequests:
		err.kind = ErrRateLimited
		err.Message = "rate limited, retry later"
	case http.StatusBadRequest:
		err.kind = ErrBadRequest
	case http.StatusNotFound:
		err.kind = ErrNotFound
	}
	return err
}

// IsNotFound reports whether err is a 404 from the remote API. The task
// poller uses it to tolerate the propagation delay between task creation
// and the status record becoming queryable.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ErrorType returns a short label for the error class, used as a metrics
// dimension.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrRateLimited):
		return "rate_limit"
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "generic"
	}
}
