package engine

import (
	"net/url"
	"sort"
	"strings"

	"github.com/datalink-dev/restquery/packages/pluginerr"
)

// BuildURI turns the merged URL and URL-parameter map into the final
// request URI. A missing scheme defaults to http, runs of slashes not
// directly after the scheme are collapsed, and parameters are appended
// with percent-encoding applied exactly once when encode is true. The
// base URL string itself is never re-encoded.
func BuildURI(rawURL string, params map[string]string, encode bool) (*url.URL, error) {
	withScheme := addSchemeWhenMissing(rawURL)
	collapsed := collapseSlashes(withScheme)

	u, err := url.Parse(collapsed)
	if err != nil {
		return nil, pluginerr.WrapArgumentError(pluginerr.CodeQueryArgumentError, err, "invalid request uri %q", collapsed)
	}

	if len(params) == 0 {
		return u, nil
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(params))
	for _, k := range keys {
		v := params[k]
		if encode {
			pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(v))
		} else {
			pairs = append(pairs, k+"="+v)
		}
	}

	query := strings.Join(pairs, "&")
	if u.RawQuery != "" {
		u.RawQuery += "&" + query
	} else {
		u.RawQuery = query
	}
	return u, nil
}

func addSchemeWhenMissing(rawURL string) string {
	if rawURL == "" || strings.HasPrefix(strings.ToLower(rawURL), "http") || strings.Contains(rawURL, "://") {
		return rawURL
	}
	return "http://" + rawURL
}

// collapseSlashes reduces any run of two or more slashes to a single
// slash, except for the pair that follows "http:" or "https:".
func collapseSlashes(rawURL string) string {
	rest := rawURL
	prefix := ""
	if idx := strings.Index(rawURL, "://"); idx != -1 {
		prefix = rawURL[:idx+3]
		rest = rawURL[idx+3:]
	}

	var b strings.Builder
	b.Grow(len(rest))
	prevSlash := false
	for _, r := range rest {
		if r == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteRune(r)
	}
	return prefix + b.String()
}
