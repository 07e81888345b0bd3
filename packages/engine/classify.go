package engine

import (
	"encoding/base64"
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/datalink-dev/restquery/packages/pluginerr"
)

var imageContentTypes = map[string]struct{}{
	"image/gif":  {},
	"image/jpeg": {},
	"image/png":  {},
}

var binaryContentTypes = map[string]struct{}{
	"application/zip":          {},
	"application/octet-stream": {},
	"application/pdf":          {},
	"application/pkcs8":        {},
	"application/x-binary":     {},
}

// Classify inspects the response content type, decodes the body
// accordingly, and annotates the serialized headers with the chosen
// data-type marker. An absent body yields status and headers only, with
// no marker.
func Classify(status int, header http.Header, body []byte) (*ExecutionResult, error) {
	headers := make(map[string][]string, len(header)+1)
	for key, values := range header {
		headers[key] = append([]string(nil), values...)
	}

	if len(body) == 0 {
		return &ExecutionResult{StatusCode: status, Headers: headers}, nil
	}

	// Absent or unparsable content types classify as plain text.
	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "text/plain"
	}

	dataType, decoded, err := decodeBody(mediaType, body)
	if err != nil {
		return nil, err
	}

	headers[ResponseDataTypeHeader] = []string{string(dataType)}
	return &ExecutionResult{StatusCode: status, Headers: headers, Body: decoded}, nil
}

func decodeBody(mediaType string, body []byte) (ResponseDataType, any, error) {
	if includesJSON(mediaType) {
		var tree any
		if err := json.Unmarshal(body, &tree); err != nil {
			return "", nil, pluginerr.WrapExecutionError(pluginerr.CodeInvalidJSONFromResponse, err,
				"response body is not valid JSON")
		}
		return DataTypeJSON, tree, nil
	}

	if _, ok := imageContentTypes[mediaType]; ok {
		return DataTypeImage, base64.StdEncoding.EncodeToString(body), nil
	}
	if _, ok := binaryContentTypes[mediaType]; ok {
		return DataTypeBinary, base64.StdEncoding.EncodeToString(body), nil
	}

	return DataTypeText, strings.TrimSpace(string(body)), nil
}

// includesJSON applies MIME inclusion rather than exact matching:
// wildcards and +json structured syntax suffixes count as JSON.
func includesJSON(mediaType string) bool {
	if mediaType == "*/*" || mediaType == "application/*" || mediaType == "application/json" {
		return true
	}
	return strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json")
}
