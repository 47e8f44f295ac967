package backend

import (
	"errors"
	"fmt"
)

// Failure kinds of a chat round trip. Callers match them with errors.Is.
var (
	ErrTransport       = errors.New("backend transport failure")
	ErrStatus          = errors.New("backend returned non-success status")
	ErrMalformedBody   = errors.New("backend response is not a JSON object")
	ErrUnexpectedShape = errors.New("backend response has neither flights nor reply")
)

// StatusError carries the status code and the start of the body of a
// non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend status %d", e.Code)
	}
	return fmt.Sprintf("backend status %d: %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// Kind names the failure class of err for logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrMalformedBody):
		return "malformed_body"
	case errors.Is(err, ErrUnexpectedShape):
		return "unexpected_shape"
	default:
		return "unknown"
	}
}
