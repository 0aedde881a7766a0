package beeper

import (
	"errors"
	"fmt"
)

// Reasons carried by ConfigError for the statuses that are never decoded.
const (
	ReasonUnauthorized = "unauthorized"
	ReasonNotFound     = "resource not found"
	ReasonRateLimited  = "rate limit exceeded"
)

var (
	// ErrUnauthorized is returned for 401 responses. The body is never read.
	ErrUnauthorized = &ConfigError{Reason: ReasonUnauthorized}
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = &ConfigError{Reason: ReasonNotFound}
	// ErrRateLimited is returned for 429 responses.
	ErrRateLimited = &ConfigError{Reason: ReasonRateLimited}
)

// NotReachableError means no connection could be established to the API,
// which almost always means Beeper Desktop is not running or the API is off.
type NotReachableError struct {
	URL string
	Err error
}

func (e *NotReachableError) Error() string {
	return fmt.Sprintf("Beeper API is not reachable at %s. Make sure Beeper Desktop is running and the API is enabled", e.URL)
}

func (e *NotReachableError) Unwrap() error { return e.Err }

// ConfigError reports a local configuration problem or one of the statuses
// that point at one (401, 404, 429).
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}

// Is matches any ConfigError with the same reason, so callers can write
// errors.Is(err, beeper.ErrUnauthorized).
func (e *ConfigError) Is(target error) bool {
	var other *ConfigError
	if !errors.As(target, &other) {
		return false
	}
	return other.Reason == e.Reason
}

// APIError is an application-level failure reported by the server. For 400
// and 403 it carries the decoded {code, message} body; for unrecognized
// statuses Code is the numeric status and Message the raw body text.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s (code: %s)", e.Message, e.Code)
}

// RequestError wraps a transport failure that is not a connection failure:
// timeouts, TLS problems, cancelled contexts, truncated bodies.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return "HTTP request failed: " + e.Err.Error()
}

func (e *RequestError) Unwrap() error { return e.Err }

// SerializationError means a body could not be encoded, or a response body did
// not match the expected shape.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return "serialization error: " + e.Err.Error()
}

func (e *SerializationError) Unwrap() error { return e.Err }

// MissingFieldError is returned before any request is sent when a required
// input is empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing required field: " + e.Field
}

func missing(field string) error {
	return &MissingFieldError{Field: field}
}
