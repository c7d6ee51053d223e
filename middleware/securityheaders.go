package middleware

import (
	"fmt"

	"github.com/funnelhttp/funnel/router"
	"github.com/funnelhttp/funnel/web"
)

// SecurityHeadersConfig configures the SecurityHeaders middleware.
type SecurityHeadersConfig struct {
	// DisableContentTypeNosniff disables the X-Content-Type-Options: nosniff
	// header. The header is set by default (when false).
	DisableContentTypeNosniff bool

	// FrameOption sets the X-Frame-Options header value. Defaults to "DENY";
	// set to "-" to skip the header.
	FrameOption string

	// ReferrerPolicy sets the Referrer-Policy header value.
	// Defaults to "strict-origin-when-cross-origin".
	ReferrerPolicy string

	// HSTSMaxAge sets the max-age directive for the Strict-Transport-Security
	// header in seconds. When zero, the header is not set.
	HSTSMaxAge int

	// ContentSecurityPolicy sets the Content-Security-Policy header.
	// When empty, the header is not set.
	ContentSecurityPolicy string
}

// SecurityHeaders returns middleware that sets common security response
// headers on every response produced below it.
func SecurityHeaders(cfg SecurityHeadersConfig) router.Middleware {
	if cfg.FrameOption == "" {
		cfg.FrameOption = "DENY"
	}
	if cfg.ReferrerPolicy == "" {
		cfg.ReferrerPolicy = "strict-origin-when-cross-origin"
	}

	var hstsValue string
	if cfg.HSTSMaxAge > 0 {
		hstsValue = fmt.Sprintf("max-age=%d", cfg.HSTSMaxAge)
	}

	return func(next router.Handler) router.Handler {
		return func(c *router.Context) (any, error) {
			result, err := next(c)
			if err != nil {
				return nil, err
			}

			resp, err := web.ToResponse(result)
			if err != nil {
				return nil, err
			}

			if !cfg.DisableContentTypeNosniff {
				resp.Header.Set("X-Content-Type-Options", "nosniff")
			}
			if cfg.FrameOption != "-" {
				resp.Header.Set("X-Frame-Options", cfg.FrameOption)
			}
			resp.Header.Set("Referrer-Policy", cfg.ReferrerPolicy)
			if hstsValue != "" {
				resp.Header.Set("Strict-Transport-Security", hstsValue)
			}
			if cfg.ContentSecurityPolicy != "" {
				resp.Header.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}

			return resp, nil
		}
	}
}
