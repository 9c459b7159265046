package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrUnavailable is returned while the circuit breaker is open and calls are
// short-circuited without touching the network.
var ErrUnavailable = errors.New("backend temporarily unavailable")

// RequestError wraps transport-level failures: the request never produced an
// HTTP response (DNS, dial, TLS, timeout, canceled context).
type RequestError struct {
	Op  string
	URL string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Timeout reports whether the underlying failure was a deadline, either from
// the per-client timeout or the caller's context.
func (e *RequestError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// StatusError is a non-2xx HTTP response. Body carries the raw server
// payload for diagnostics.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d, body: %s", e.URL, e.StatusCode, e.Body)
}

// OperationError is a domain-level failure: the server answered 200 but
// flagged success=false in the payload.
type OperationError struct {
	URL     string
	Message string
}

func (e *OperationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: operation rejected by server", e.URL)
	}
	return fmt.Sprintf("%s: %s", e.URL, e.Message)
}

// IsTimeout reports whether err is a transport failure caused by a deadline.
func IsTimeout(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Timeout()
}

// IsStatus reports whether err is an HTTP error with the given status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// IsClientError reports whether err is an HTTP 4xx response.
func IsClientError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500
}

// IsUnavailable reports whether err means the breaker refused the call.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
