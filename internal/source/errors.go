package source

import (
	"errors"
	"fmt"
)

// errUnsuccessful is the cause carried by a DecodeError when the backend
// answered with {"success": false}.
var errUnsuccessful = errors.New("unsuccessful envelope")

// HTTPStatusError is returned when the backend answers with a non-2xx status.
type HTTPStatusError struct {
	Code       int
	StatusText string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http status %d %s", e.Code, e.StatusText)
}

// NetworkError wraps a transport failure: DNS, refused connection, timeout
// or cancellation.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string { return "network error: " + e.Cause.Error() }
func (e *NetworkError) Unwrap() error { return e.Cause }

// DecodeError wraps a body that is not the JSON the caller expected.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string { return "decode error: " + e.Cause.Error() }
func (e *DecodeError) Unwrap() error { return e.Cause }

// IsUnsuccessful reports whether err is a DecodeError for a
// {"success": false} envelope.
func IsUnsuccessful(err error) bool {
	return errors.Is(err, errUnsuccessful)
}

// Failure reasons reported by FailureReason.
const (
	ReasonUnsuccessful = "unsuccessful"
	ReasonHTTPStatus   = "http_status"
	ReasonNetwork      = "network"
	ReasonDecode       = "decode"
	ReasonOther        = "other"
)

// FailureReason names the class of a fetch error for logs.
func FailureReason(err error) string {
	var statusErr *HTTPStatusError
	var netErr *NetworkError
	var decodeErr *DecodeError
	switch {
	case IsUnsuccessful(err):
		return ReasonUnsuccessful
	case errors.As(err, &statusErr):
		return ReasonHTTPStatus
	case errors.As(err, &netErr):
		return ReasonNetwork
	case errors.As(err, &decodeErr):
		return ReasonDecode
	default:
		return ReasonOther
	}
}
