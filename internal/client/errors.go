// ABOUTME: Closed error taxonomy for API client failures
// ABOUTME: Separates transport/parsing faults from server-reported status codes

package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind classifies an API failure
type ErrorKind int

const (
	// KindConnection means the server could not be reached
	KindConnection ErrorKind = iota + 1
	// KindDeserialization means the response body did not match the expected shape
	KindDeserialization
	// KindGeneric is any other transport-level fault
	KindGeneric
	// KindResponse means the server answered with a non-success status
	KindResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindDeserialization:
		return "deserialization"
	case KindGeneric:
		return "generic"
	case KindResponse:
		return "response"
	default:
		return "unknown"
	}
}

// Error is returned by every Client operation that fails
type Error struct {
	Kind       ErrorKind
	StatusCode int // only set for KindResponse
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindResponse:
		return fmt.Sprintf("api returned status %d", e.StatusCode)
	case KindConnection:
		return fmt.Sprintf("cannot connect to api: %v", e.Err)
	case KindDeserialization:
		return fmt.Sprintf("invalid response from api: %v", e.Err)
	default:
		if e.Err != nil {
			return fmt.Sprintf("api request failed: %v", e.Err)
		}
		return "api request failed"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Internal reports whether the failure happened before a status existed
func (e *Error) Internal() bool {
	return e.Kind != KindResponse
}

// StatusCode returns the HTTP status of a response error
func StatusCode(err error) (int, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Kind == KindResponse {
		return apiErr.StatusCode, true
	}
	return 0, false
}

// IsUnauthorized reports whether err is a 401 from the API
func IsUnauthorized(err error) bool {
	code, ok := StatusCode(err)
	return ok && code == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	code, ok := StatusCode(err)
	return ok && code == http.StatusNotFound
}

// classifyTransportError maps an error from http.Client.Do to the taxonomy
func classifyTransportError(ctx context.Context, err error) *Error {
	if ctx.Err() != nil {
		return &Error{Kind: KindGeneric, Err: ctx.Err()}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &Error{Kind: KindConnection, Err: err}
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{Kind: KindConnection, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindConnection, Err: err}
	}
	return &Error{Kind: KindGeneric, Err: err}
}

func responseError(status int) *Error {
	return &Error{Kind: KindResponse, StatusCode: status}
}
