package engine

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalink-dev/restquery/packages/config"
	"github.com/datalink-dev/restquery/packages/pluginerr"
	"github.com/datalink-dev/restquery/packages/property"
)

func TestBasicAuthMutation(t *testing.T) {
	header := http.Header{}
	basicAuthMutation("alice", "secret")(header)

	// base64("alice:secret")
	assert.Equal(t, "Basic YWxpY2U6c2VjcmV0", header.Get("Authorization"))
}

func TestInitialMutations_DigestNotEager(t *testing.T) {
	assert.Empty(t, initialMutations(config.AuthConfig{Type: config.AuthDigest, Username: "u", Password: "p"}))
	assert.Len(t, initialMutations(config.AuthConfig{Type: config.AuthBasic, Username: "u", Password: "p"}), 1)
}

func TestIsDigestChallenge(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusUnauthorized, Header: http.Header{}}
	resp.Header.Set("WWW-Authenticate", `Digest realm="r", nonce="n"`)
	assert.True(t, isDigestChallenge(resp))

	resp.Header.Set("WWW-Authenticate", `Bearer realm="r"`)
	assert.False(t, isDigestChallenge(resp))

	ok := &http.Response{StatusCode: http.StatusOK, Header: http.Header{}}
	assert.False(t, isDigestChallenge(ok))
}

func TestInjectInheritedCredentials_MergesParamsAndHeaders(t *testing.T) {
	rc := &RequestContext{
		Auth:      config.AuthConfig{Type: config.AuthOAuth2InheritFromLogin},
		URLParams: map[string]string{"existing": "1"},
		Headers:   map[string]string{"x-app": "demo"},
		TokenProvider: func(ctx context.Context) ([]property.Property, error) {
			return []property.Property{
				{Key: "access_token", Value: "tok", Type: property.KindParam},
				{Key: "Authorization", Value: "Bearer tok", Type: property.KindHeader},
			}, nil
		},
	}

	require.NoError(t, InjectInheritedCredentials(context.Background(), rc))

	assert.Equal(t, "tok", rc.URLParams["access_token"])
	assert.Equal(t, "1", rc.URLParams["existing"])
	assert.Equal(t, "Bearer tok", rc.Headers["authorization"])
	assert.Equal(t, "demo", rc.Headers["x-app"])
}

func TestInjectInheritedCredentials_EmptyCredentialList(t *testing.T) {
	rc := &RequestContext{
		Auth: config.AuthConfig{Type: config.AuthOAuth2InheritFromLogin},
		TokenProvider: func(ctx context.Context) ([]property.Property, error) {
			return nil, nil
		},
	}

	err := InjectInheritedCredentials(context.Background(), rc)

	var execErr *pluginerr.ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, pluginerr.CodeRestAPIExecutionError, execErr.Code)
	assert.Contains(t, execErr.Message, "$ACCESS_TOKEN parameter missing")
}

func TestInjectInheritedCredentials_FetchFailureWrapsCause(t *testing.T) {
	cause := errors.New("login session expired")
	rc := &RequestContext{
		Auth: config.AuthConfig{Type: config.AuthOAuth2InheritFromLogin},
		TokenProvider: func(ctx context.Context) ([]property.Property, error) {
			return nil, cause
		},
	}

	err := InjectInheritedCredentials(context.Background(), rc)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "get access token error")
}

func TestInjectInheritedCredentials_SkipsOtherAuthTypes(t *testing.T) {
	rc := &RequestContext{Auth: config.AuthConfig{Type: config.AuthBasic}}
	assert.NoError(t, InjectInheritedCredentials(context.Background(), rc))
}
