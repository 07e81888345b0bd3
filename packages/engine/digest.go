package engine

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/datalink-dev/restquery/packages/pluginerr"
)

// digestChallenge holds the parameters of a WWW-Authenticate: Digest
// challenge, valid only for the retry chain of a single invocation.
type digestChallenge struct {
	Realm     string
	Nonce     string
	Qop       string
	Opaque    string
	Algorithm string
}

// parseDigestChallenge extracts the challenge parameters from a
// WWW-Authenticate header value.
func parseDigestChallenge(header string) (*digestChallenge, error) {
	if !strings.HasPrefix(header, "Digest") {
		return nil, pluginerr.NewExecutionError(pluginerr.CodeQueryExecutionError,
			"unsupported authenticate challenge %q", header)
	}

	params := make(map[string]string)
	for _, part := range strings.Split(strings.TrimPrefix(header, "Digest"), ",") {
		part = strings.TrimSpace(part)
		idx := strings.Index(part, "=")
		if idx == -1 {
			continue
		}
		key := strings.TrimSpace(part[:idx])
		value := strings.Trim(strings.TrimSpace(part[idx+1:]), `"`)
		params[key] = value
	}

	challenge := &digestChallenge{
		Realm:     params["realm"],
		Nonce:     params["nonce"],
		Qop:       params["qop"],
		Opaque:    params["opaque"],
		Algorithm: params["algorithm"],
	}
	if challenge.Nonce == "" {
		return nil, pluginerr.NewExecutionError(pluginerr.CodeQueryExecutionError,
			"digest challenge missing nonce: %q", header)
	}
	return challenge, nil
}

// buildDigestAuthorization computes the Authorization header for a
// digest challenge per RFC 2617/7616, using the request method and path.
func buildDigestAuthorization(username, password, method, uri string, challenge *digestChallenge) (string, error) {
	qop := challenge.Qop
	if strings.Contains(qop, "auth") {
		qop = "auth"
	}

	ha1 := md5Hex(fmt.Sprintf("%s:%s:%s", username, challenge.Realm, password))
	var cnonce, nc string
	if qop != "" {
		nc = "00000001"
		var err error
		cnonce, err = generateCnonce()
		if err != nil {
			return "", pluginerr.WrapExecutionError(pluginerr.CodeQueryExecutionError, err, "generate digest cnonce")
		}
	}
	if strings.EqualFold(challenge.Algorithm, "MD5-sess") {
		ha1 = md5Hex(fmt.Sprintf("%s:%s:%s", ha1, challenge.Nonce, cnonce))
	}

	ha2 := md5Hex(fmt.Sprintf("%s:%s", method, uri))

	var response string
	if qop != "" {
		response = md5Hex(fmt.Sprintf("%s:%s:%s:%s:%s:%s", ha1, challenge.Nonce, nc, cnonce, qop, ha2))
	} else {
		response = md5Hex(fmt.Sprintf("%s:%s:%s", ha1, challenge.Nonce, ha2))
	}

	parts := []string{
		fmt.Sprintf(`username="%s"`, username),
		fmt.Sprintf(`realm="%s"`, challenge.Realm),
		fmt.Sprintf(`nonce="%s"`, challenge.Nonce),
		fmt.Sprintf(`uri="%s"`, uri),
		fmt.Sprintf(`response="%s"`, response),
	}
	if qop != "" {
		parts = append(parts,
			fmt.Sprintf(`qop=%s`, qop),
			fmt.Sprintf(`nc=%s`, nc),
			fmt.Sprintf(`cnonce="%s"`, cnonce))
	}
	if challenge.Opaque != "" {
		parts = append(parts, fmt.Sprintf(`opaque="%s"`, challenge.Opaque))
	}
	if challenge.Algorithm != "" {
		parts = append(parts, fmt.Sprintf(`algorithm=%s`, challenge.Algorithm))
	}

	return "Digest " + strings.Join(parts, ", "), nil
}

func generateCnonce() (string, error) {
	b := make([]byte, 8)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
