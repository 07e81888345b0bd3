package engine

import (
	"encoding/json"

	"github.com/datalink-dev/restquery/packages/pluginerr"
)

// ResponseDataType tags how a response body was decoded.
type ResponseDataType string

const (
	DataTypeJSON   ResponseDataType = "JSON"
	DataTypeImage  ResponseDataType = "IMAGE"
	DataTypeBinary ResponseDataType = "BINARY"
	DataTypeText   ResponseDataType = "TEXT"
)

// ResponseDataTypeHeader is the marker key injected into the serialized
// response headers so downstream consumers can recover how the body was
// encoded without re-inspecting the content type.
const ResponseDataTypeHeader = "X-RESTQUERY-RESPONSE-DATA-TYPE"

// ExecutionResult is the outcome of one query invocation. Exactly one of
// Body/Error carries the payload: a failed invocation has Error set and
// no body.
type ExecutionResult struct {
	StatusCode int                 `json:"status"`
	Headers    map[string][]string `json:"headers,omitempty"`
	// Body is a decoded JSON tree (any), trimmed UTF-8 text (string), or
	// base64 text (string) depending on the data-type marker.
	Body  any   `json:"body,omitempty"`
	Error error `json:"error,omitempty"`
}

// ErrorResult wraps a pipeline failure into a result.
func ErrorResult(err error) *ExecutionResult {
	return &ExecutionResult{Error: err}
}

// Success reports whether the invocation produced a response.
func (r *ExecutionResult) Success() bool {
	return r.Error == nil
}

// DataType returns the marker value injected during classification, or
// the empty string when the response carried no body.
func (r *ExecutionResult) DataType() ResponseDataType {
	if vals, ok := r.Headers[ResponseDataTypeHeader]; ok && len(vals) > 0 {
		return ResponseDataType(vals[0])
	}
	return ""
}

// MarshalHeaders serializes the structured response headers to JSON. A
// marshal failure surfaces as a JSONParseError.
func (r *ExecutionResult) MarshalHeaders() ([]byte, error) {
	data, err := json.Marshal(r.Headers)
	if err != nil {
		return nil, &pluginerr.JSONParseError{Message: err.Error(), Cause: err}
	}
	return data, nil
}
