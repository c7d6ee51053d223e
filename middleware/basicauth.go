package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/funnelhttp/funnel/router"
	"github.com/funnelhttp/funnel/web"
)

// BasicAuthConfig configures the BasicAuth middleware.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc7617
type BasicAuthConfig struct {
	// Realm is the authentication realm sent in the WWW-Authenticate header.
	// Defaults to "Restricted" when empty.
	Realm string

	// ValidateFunc is called to validate credentials dynamically.
	// Takes priority over Credentials when both are set.
	ValidateFunc func(username, password string) bool

	// Credentials is a static map of username -> password pairs.
	// Compared using SHA-256 hashed constant-time comparison to prevent
	// timing attacks, including length-based leaks.
	Credentials map[string]string
}

// BasicAuth returns middleware that implements HTTP Basic Authentication per
// RFC 7617. Requests with missing or invalid credentials receive a 401 with
// the WWW-Authenticate challenge.
//
// At least one of ValidateFunc or Credentials must be set; with neither, the
// middleware rejects every request.
func BasicAuth(cfg BasicAuthConfig) router.Middleware {
	realm := cfg.Realm
	if realm == "" {
		realm = "Restricted"
	}
	challenge := fmt.Sprintf("Basic realm=%q", realm)

	validate := cfg.ValidateFunc
	if validate == nil {
		validate = func(username, password string) bool {
			expected, ok := cfg.Credentials[username]
			if !ok {
				// Compare anyway to keep the timing uniform for unknown users.
				expected = ""
			}
			got := sha256.Sum256([]byte(password))
			want := sha256.Sum256([]byte(expected))
			return ok && subtle.ConstantTimeCompare(got[:], want[:]) == 1
		}
	}

	return func(next router.Handler) router.Handler {
		return func(c *router.Context) (any, error) {
			username, password, ok := parseBasicAuth(c.Request.Header.Get("Authorization"))
			if !ok || !validate(username, password) {
				resp := web.Text(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
				resp.Header.Set("WWW-Authenticate", challenge)
				return resp, nil
			}

			return next(c)
		}
	}
}

// parseBasicAuth decodes the Basic scheme credentials from an Authorization
// header value.
func parseBasicAuth(header string) (username, password string, ok bool) {
	const prefix = "Basic "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}

	username, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", "", false
	}
	return username, password, true
}
