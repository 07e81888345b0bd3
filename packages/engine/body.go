package engine

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/datalink-dev/restquery/packages/pluginerr"
	"github.com/datalink-dev/restquery/packages/property"
)

// Content types with dedicated body encodings.
const (
	ContentTypeJSON           = "application/json"
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
	ContentTypeMultipartForm  = "multipart/form-data"
)

var jsonContentTypes = map[string]struct{}{
	ContentTypeJSON:                          {},
	"application/json;charset=utf-8":         {},
	"application/problem+json":               {},
	"application/problem+json;charset=utf-8": {},
}

// IsJSONContentType reports whether the resolved content type is one of
// the JSON variants that take the JSON body encoding (and the JSON-aware
// template rendering).
func IsJSONContentType(contentType string) bool {
	normalized := strings.ReplaceAll(strings.ToLower(contentType), " ", "")
	_, ok := jsonContentTypes[normalized]
	return ok
}

// EncodedBody is the wire form of a logical request body. ContentType
// differs from the resolved one only for multipart, which carries the
// generated boundary.
type EncodedBody struct {
	Bytes       []byte
	ContentType string
}

// EncodeBody converts the logical body into wire bytes based on the
// resolved content type. First matching rule wins: GET and blank content
// types send no body; JSON variants are parsed and re-serialized; form
// content types encode the merged form fields; anything else goes out as
// raw UTF-8 text.
func EncodeBody(method, contentType, body string, formData []property.Property, encodeParams bool) (*EncodedBody, error) {
	if method == http.MethodGet || strings.TrimSpace(contentType) == "" {
		return &EncodedBody{ContentType: contentType}, nil
	}

	if IsJSONContentType(contentType) {
		compacted, err := reserializeJSON(body)
		if err != nil {
			return nil, pluginerr.WrapArgumentError(pluginerr.CodeInvalidJSONBody, err, "request body is not valid JSON")
		}
		return &EncodedBody{Bytes: compacted, ContentType: contentType}, nil
	}

	switch contentType {
	case ContentTypeFormURLEncoded:
		return &EncodedBody{Bytes: []byte(encodeFormURLEncoded(formData, encodeParams)), ContentType: contentType}, nil
	case ContentTypeMultipartForm:
		return encodeMultipart(formData)
	}

	return &EncodedBody{Bytes: []byte(body), ContentType: contentType}, nil
}

func reserializeJSON(body string) ([]byte, error) {
	var tree any
	if err := json.Unmarshal([]byte(body), &tree); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(body)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeFormURLEncoded(formData []property.Property, encodeParams bool) string {
	pairs := make([]string, 0, len(formData))
	for _, field := range formData {
		if encodeParams {
			pairs = append(pairs, url.QueryEscape(field.Key)+"="+url.QueryEscape(field.Value))
		} else {
			pairs = append(pairs, field.Key+"="+field.Value)
		}
	}
	return strings.Join(pairs, "&")
}

func encodeMultipart(formData []property.Property) (*EncodedBody, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, field := range formData {
		if err := writer.WriteField(field.Key, field.Value); err != nil {
			return nil, pluginerr.WrapArgumentError(pluginerr.CodeQueryArgumentError, err, "encode multipart field %q", field.Key)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, pluginerr.WrapArgumentError(pluginerr.CodeQueryArgumentError, err, "finalize multipart body")
	}
	return &EncodedBody{Bytes: buf.Bytes(), ContentType: writer.FormDataContentType()}, nil
}
