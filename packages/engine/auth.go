package engine

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/datalink-dev/restquery/packages/config"
	"github.com/datalink-dev/restquery/packages/pluginerr"
	"github.com/datalink-dev/restquery/packages/property"
)

// HeaderMutation adjusts the headers of one request attempt. The
// executor keeps an ordered list of mutations and applies them when
// building each attempt, instead of composing closures onto each other.
type HeaderMutation func(header http.Header)

// basicAuthMutation attaches the eager Basic credentials.
func basicAuthMutation(username, password string) HeaderMutation {
	encoded := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return func(header http.Header) {
		header.Set("Authorization", "Basic "+encoded)
	}
}

// initialMutations returns the header mutations applied before the first
// send. Digest is deliberately absent: it only reacts to a challenge.
func initialMutations(auth config.AuthConfig) []HeaderMutation {
	if auth.Type == config.AuthBasic {
		return []HeaderMutation{basicAuthMutation(auth.Username, auth.Password)}
	}
	return nil
}

// isDigestChallenge reports whether a response demands digest
// renegotiation.
func isDigestChallenge(resp *http.Response) bool {
	if resp.StatusCode != http.StatusUnauthorized {
		return false
	}
	return strings.HasPrefix(resp.Header.Get("WWW-Authenticate"), "Digest")
}

// digestMutation parses the challenge carried by resp and computes the
// Authorization header for the retry.
func digestMutation(auth config.AuthConfig, resp *http.Response, method, requestPath string) (HeaderMutation, error) {
	challenge, err := parseDigestChallenge(resp.Header.Get("WWW-Authenticate"))
	if err != nil {
		return nil, err
	}
	authorization, err := buildDigestAuthorization(auth.Username, auth.Password, method, requestPath, challenge)
	if err != nil {
		return nil, err
	}
	return func(header http.Header) {
		header.Set("Authorization", authorization)
	}, nil
}

// InjectInheritedCredentials resolves OAuth2-inherit-from-login before
// URI and body construction: the caller's credential list is fetched and
// merged into the context's URL-param and header maps, later entries
// overriding earlier ones. A missing or empty credential list fails the
// invocation.
func InjectInheritedCredentials(ctx context.Context, rc *RequestContext) error {
	if rc.Auth.Type != config.AuthOAuth2InheritFromLogin {
		return nil
	}
	if rc.TokenProvider == nil {
		return pluginerr.NewExecutionError(pluginerr.CodeRestAPIExecutionError, "$ACCESS_TOKEN parameter missing.")
	}

	credentials, err := rc.TokenProvider(ctx)
	if err != nil {
		return pluginerr.WrapExecutionError(pluginerr.CodeRestAPIExecutionError, err, "get access token error: %s", err.Error())
	}
	if len(credentials) == 0 {
		return pluginerr.NewExecutionError(pluginerr.CodeRestAPIExecutionError, "$ACCESS_TOKEN parameter missing.")
	}

	params, headers := property.Partition(credentials)
	for _, p := range params {
		rc.URLParams[p.Key] = p.Value
	}
	for _, p := range headers {
		rc.Headers[strings.ToLower(strings.TrimSpace(p.Key))] = p.Value
	}
	return nil
}
