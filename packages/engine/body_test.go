package engine

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalink-dev/restquery/packages/pluginerr"
	"github.com/datalink-dev/restquery/packages/property"
)

func TestEncodeBody_GETSendsNoBody(t *testing.T) {
	encoded, err := EncodeBody(http.MethodGet, ContentTypeJSON, `{"ok":true}`, nil, true)

	require.NoError(t, err)
	assert.Empty(t, encoded.Bytes)
}

func TestEncodeBody_BlankContentTypeSendsNoBody(t *testing.T) {
	encoded, err := EncodeBody(http.MethodPost, "", "payload", nil, true)

	require.NoError(t, err)
	assert.Empty(t, encoded.Bytes)
}

func TestEncodeBody_JSONReserialized(t *testing.T) {
	encoded, err := EncodeBody(http.MethodPost, ContentTypeJSON, "{ \"name\": \"Bob\" }\n", nil, true)

	require.NoError(t, err)
	assert.Equal(t, `{"name":"Bob"}`, string(encoded.Bytes))
}

func TestEncodeBody_InvalidJSONFails(t *testing.T) {
	_, err := EncodeBody(http.MethodPost, ContentTypeJSON, `{"name":`, nil, true)

	var argErr *pluginerr.ArgumentError
	require.True(t, errors.As(err, &argErr))
	assert.Equal(t, pluginerr.CodeInvalidJSONBody, argErr.Code)
}

func TestEncodeBody_FormURLEncodedRoundTrip(t *testing.T) {
	fields := []property.Property{
		{Key: "name", Value: "Bob Smith"},
		{Key: "role", Value: "a&b"},
	}

	encoded, err := EncodeBody(http.MethodPost, ContentTypeFormURLEncoded, "", fields, true)
	require.NoError(t, err)

	decoded, err := url.ParseQuery(string(encoded.Bytes))
	require.NoError(t, err)
	assert.Equal(t, "Bob Smith", decoded.Get("name"))
	assert.Equal(t, "a&b", decoded.Get("role"))
}

func TestEncodeBody_Multipart(t *testing.T) {
	fields := []property.Property{{Key: "name", Value: "Bob"}}

	encoded, err := EncodeBody(http.MethodPost, ContentTypeMultipartForm, "", fields, true)
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(encoded.ContentType)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeMultipartForm, mediaType)

	reader := multipart.NewReader(strings.NewReader(string(encoded.Bytes)), params["boundary"])
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob"}, form.Value["name"])
}

func TestEncodeBody_FallsBackToRawText(t *testing.T) {
	encoded, err := EncodeBody(http.MethodPost, "text/plain", "hello world", nil, true)

	require.NoError(t, err)
	assert.Equal(t, "hello world", string(encoded.Bytes))
}

func TestIsJSONContentType(t *testing.T) {
	assert.True(t, IsJSONContentType("application/json"))
	assert.True(t, IsJSONContentType("application/json;charset=utf-8"))
	assert.True(t, IsJSONContentType("application/json; charset=UTF-8"))
	assert.True(t, IsJSONContentType("application/problem+json"))
	assert.False(t, IsJSONContentType("text/json"))
	assert.False(t, IsJSONContentType(""))
}
