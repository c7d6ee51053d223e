// Package cors holds the CORS policy snapshot applied by the dispatch core.
//
// The policy is built once during the server's configuration phase and
// shared read-only afterwards: preflight requests short-circuit into
// Preflight before route matching, and every processed response passes
// through Apply.
package cors

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/funnelhttp/funnel/web"
)

// Config is an immutable CORS policy snapshot.
type Config struct {
	// AllowedOrigins is the list advertised in Access-Control-Allow-Origin.
	// Defaults to the "*" wildcard.
	AllowedOrigins []string

	// AllowedMethods is the list advertised in Access-Control-Allow-Methods.
	AllowedMethods []string

	// AllowedHeaders is the list advertised in Access-Control-Allow-Headers.
	AllowedHeaders []string

	// AllowCredentials sets Access-Control-Allow-Credentials: true.
	AllowCredentials bool

	// MaxAge is the number of seconds a preflight result may be cached.
	// Zero omits the header.
	MaxAge int
}

// Default returns the permissive default policy: any origin, the common
// methods and headers, credentials allowed, preflight cached for a day.
func Default() *Config {
	return &Config{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodPatch, http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Content-Type", "Authorization", "X-Requested-With", "Accept",
		},
		AllowCredentials: true,
		MaxAge:           86400,
	}
}

// Apply writes the policy's headers into resp and returns resp.
func (c *Config) Apply(resp *web.Response) *web.Response {
	if len(c.AllowedOrigins) > 0 {
		resp.Header.Set("Access-Control-Allow-Origin", strings.Join(c.AllowedOrigins, ", "))
	}
	if len(c.AllowedMethods) > 0 {
		resp.Header.Set("Access-Control-Allow-Methods", strings.Join(c.AllowedMethods, ", "))
	}
	if len(c.AllowedHeaders) > 0 {
		resp.Header.Set("Access-Control-Allow-Headers", strings.Join(c.AllowedHeaders, ", "))
	}
	if c.AllowCredentials {
		resp.Header.Set("Access-Control-Allow-Credentials", "true")
	}
	if c.MaxAge > 0 {
		resp.Header.Set("Access-Control-Max-Age", strconv.Itoa(c.MaxAge))
	}
	return resp
}

// Preflight returns the no-content response answering a CORS preflight
// request, carrying the policy's headers.
func (c *Config) Preflight() *web.Response {
	return c.Apply(web.NewResponse(http.StatusNoContent))
}
