package engine

import "net/http"

// ForwardedCookies selects which caller-held cookies travel to the
// remote server. With forwardAll set every cookie is forwarded;
// otherwise only those whose names appear in the forward list.
func ForwardedCookies(forwardAll bool, forwardNames []string, held []*http.Cookie) []*http.Cookie {
	if len(held) == 0 {
		return nil
	}
	if forwardAll {
		return held
	}
	if len(forwardNames) == 0 {
		return nil
	}

	allowed := make(map[string]struct{}, len(forwardNames))
	for _, name := range forwardNames {
		allowed[name] = struct{}{}
	}

	var forwarded []*http.Cookie
	for _, cookie := range held {
		if _, ok := allowed[cookie.Name]; ok {
			forwarded = append(forwarded, cookie)
		}
	}
	return forwarded
}
