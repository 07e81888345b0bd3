package engine

import (
	"context"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/datalink-dev/restquery/packages/config"
	"github.com/datalink-dev/restquery/packages/pluginerr"
	"github.com/datalink-dev/restquery/packages/property"
	"github.com/datalink-dev/restquery/packages/template"
)

// TokenProvider supplies the caller's login-session credentials for
// OAuth2-inherit-from-login. Each entry carries a property kind telling
// whether it merges into the URL params or the headers.
type TokenProvider func(ctx context.Context) ([]property.Property, error)

// Session carries per-caller state handed in by the plugin host: the
// cookies the caller currently holds and the credential provider.
type Session struct {
	Cookies       []*http.Cookie
	TokenProvider TokenProvider
}

// RequestContext is the merged, fully rendered view of one query
// invocation. It is built once per call and never mutated by the
// executor; retry attempts derive fresh requests from it.
type RequestContext struct {
	Method       string
	URL          string
	Headers      map[string]string
	ContentType  string
	URLParams    map[string]string
	BodyFormData []property.Property
	Body         string
	EncodeParams bool

	ForwardCookies    []string
	ForwardAllCookies bool
	Cookies           []*http.Cookie

	Auth          config.AuthConfig
	TokenProvider TokenProvider
}

// BuildContext merges the datasource defaults with the query overrides,
// applies template rendering against the runtime parameters, normalizes
// the URL, and resolves and validates the effective content type.
func BuildContext(
	ds *config.DatasourceConfig,
	query *config.QueryConfig,
	params map[string]any,
	session *Session,
	renderer template.Renderer,
) (*RequestContext, error) {
	if renderer == nil {
		renderer = template.Default{}
	}

	renderedPath := renderer.Render(strings.TrimSpace(query.Path), params)
	normalizedURL, err := normalizeURL(strings.TrimSpace(ds.URL), renderedPath, params, renderer)
	if err != nil {
		return nil, err
	}

	queryHeaders := template.RenderProperties(renderer, query.Headers, params)
	queryParams := template.RenderProperties(renderer, query.Params, params)
	queryFormData := template.RenderProperties(renderer, query.BodyFormData, params)

	headers := property.MergeHeaders(ds.Headers, queryHeaders)
	contentType := strings.ToLower(headers["content-type"])
	if err := validateContentType(contentType); err != nil {
		return nil, err
	}

	queryBody := strings.TrimSpace(query.Body)
	var renderedBody string
	if IsJSONContentType(contentType) {
		renderedBody = renderer.RenderJSON(queryBody, params)
	} else {
		renderedBody = renderer.Render(queryBody, params)
	}
	// Blank rendered body falls back to the datasource default, taken
	// verbatim rather than rendered a second time.
	if strings.TrimSpace(renderedBody) == "" {
		renderedBody = ds.Body
	}

	rc := &RequestContext{
		Method:            query.HTTPMethod,
		URL:               normalizedURL,
		Headers:           headers,
		ContentType:       contentType,
		URLParams:         property.MergeParams(ds.Params, queryParams),
		BodyFormData:      property.MergeFormData(ds.BodyFormData, queryFormData),
		Body:              renderedBody,
		EncodeParams:      !query.DisableEncodingParams,
		ForwardCookies:    ds.ForwardCookies,
		ForwardAllCookies: ds.ForwardAllCookies,
		Auth:              ds.Auth,
	}
	if session != nil {
		rc.Cookies = session.Cookies
		rc.TokenProvider = session.TokenProvider
	}
	return rc, nil
}

// normalizeURL joins base URL and rendered path, renders the combined
// string once more, and resolves dot segments.
func normalizeURL(base, renderedPath string, params map[string]any, renderer template.Renderer) (string, error) {
	joined := base + renderedPath
	if joined == "" {
		return "", pluginerr.NewArgumentError(pluginerr.CodeRequestURLEmpty, "request url is empty")
	}

	rendered := renderer.Render(joined, params)
	u, err := url.Parse(rendered)
	if err != nil {
		return "", pluginerr.WrapArgumentError(pluginerr.CodeInvalidRequestURL, err, "invalid request url %q", rendered)
	}
	if u.Path != "" {
		trailingSlash := strings.HasSuffix(u.Path, "/")
		u.Path = path.Clean(u.Path)
		if u.Path == "." {
			u.Path = ""
		} else if trailingSlash && !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
	}
	return u.String(), nil
}

func validateContentType(contentType string) error {
	if contentType == "" {
		return nil
	}
	if _, _, err := mime.ParseMediaType(contentType); err != nil {
		return pluginerr.WrapArgumentError(pluginerr.CodeInvalidContentType, err, "invalid content type %q", contentType)
	}
	return nil
}
