// Package pluginerr defines the error taxonomy surfaced across the
// plugin boundary. Every failure carries a stable machine-readable code
// plus a human-readable message, and wraps its root cause so callers can
// use errors.Is / errors.As.
package pluginerr

import (
	"errors"
	"fmt"
)

// Codes attached to argument errors.
const (
	CodeQueryArgumentError = "QUERY_ARGUMENT_ERROR"
	CodeRequestURLEmpty    = "REQUEST_URL_EMPTY"
	CodeInvalidRequestURL  = "INVALID_REQUEST_URL"
	CodeInvalidContentType = "INVALID_CONTENT_TYPE"
	CodeInvalidJSONBody    = "INVALID_JSON_BODY"
)

// Codes attached to execution errors.
const (
	CodeQueryExecutionError     = "QUERY_EXECUTION_ERROR"
	CodeReachRedirectLimit      = "REACH_REDIRECT_LIMIT"
	CodeRestAPIExecutionError   = "REST_API_EXECUTION_ERROR"
	CodeInvalidJSONFromResponse = "INVALID_JSON_FROM_RESPONSE"
)

// Codes attached to timeout and header-serialization errors.
const (
	CodeQueryExecutionTimeout = "QUERY_EXECUTION_TIMEOUT"
	CodeJSONParseError        = "JSON_PARSE_ERROR"
)

// ArgumentError reports invalid caller-supplied configuration. It is
// never retried and surfaces immediately.
type ArgumentError struct {
	Code    string
	Message string
	Cause   error
}

func (e *ArgumentError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ArgumentError) Unwrap() error { return e.Cause }

// NewArgumentError builds an ArgumentError with a formatted message.
func NewArgumentError(code, format string, args ...any) *ArgumentError {
	return &ArgumentError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapArgumentError attaches a root cause.
func WrapArgumentError(code string, cause error, format string, args ...any) *ArgumentError {
	return &ArgumentError{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// ExecutionError reports a failure during network interaction,
// redirect-limit exhaustion, digest-challenge parsing, or response body
// parsing. Not retried beyond the bounded redirect/digest loop.
type ExecutionError struct {
	Code    string
	Message string
	Cause   error
}

func (e *ExecutionError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ExecutionError) Unwrap() error { return e.Cause }

// NewExecutionError builds an ExecutionError with a formatted message.
func NewExecutionError(code, format string, args ...any) *ExecutionError {
	return &ExecutionError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapExecutionError attaches a root cause.
func WrapExecutionError(code string, cause error, format string, args ...any) *ExecutionError {
	return &ExecutionError{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// TimeoutError reports a transport-level timeout, kept distinct from
// ExecutionError so callers can apply timeout-specific messaging.
type TimeoutError struct {
	Message string
	Cause   error
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return CodeQueryExecutionTimeout
	}
	return fmt.Sprintf("%s: %s", CodeQueryExecutionTimeout, e.Message)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

// NewTimeoutError wraps a transport timeout.
func NewTimeoutError(cause error) *TimeoutError {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &TimeoutError{Message: msg, Cause: cause}
}

// JSONParseError reports a failure converting response headers into a
// structured tree. Fatal to the call, not retried.
type JSONParseError struct {
	Message string
	Cause   error
}

func (e *JSONParseError) Error() string {
	if e.Message == "" {
		return CodeJSONParseError
	}
	return fmt.Sprintf("%s: %s", CodeJSONParseError, e.Message)
}

func (e *JSONParseError) Unwrap() error { return e.Cause }

// CodeOf returns the stable code of any error in this taxonomy, or the
// empty string for foreign errors.
func CodeOf(err error) string {
	var argErr *ArgumentError
	if errors.As(err, &argErr) {
		return argErr.Code
	}
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Code
	}
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return CodeQueryExecutionTimeout
	}
	var jsonErr *JSONParseError
	if errors.As(err, &jsonErr) {
		return CodeJSONParseError
	}
	return ""
}
