package middleware

import (
	"github.com/google/uuid"

	"github.com/funnelhttp/funnel/router"
	"github.com/funnelhttp/funnel/web"
)

// requestIDAttr is the request attribute carrying the request ID.
const requestIDAttr = "middleware.request_id"

// RequestIDFrom returns the request ID attached by RequestID, or an empty
// string when the middleware is not installed.
func RequestIDFrom(req *web.Request) string {
	if id, ok := req.Get(requestIDAttr); ok {
		return id.(string)
	}
	return ""
}

// RequestIDConfig configures the RequestID middleware.
type RequestIDConfig struct {
	// HeaderName overrides the header used to propagate the request ID.
	// Defaults to "X-Request-ID" when empty.
	HeaderName string

	// TrustIncoming, when true, reuses an existing request ID from the
	// incoming request header instead of generating a new one.
	TrustIncoming bool
}

// RequestID returns middleware that attaches a unique ID to every request
// and echoes it on the response. Downstream handlers read it with
// RequestIDFrom.
func RequestID(cfg RequestIDConfig) router.Middleware {
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = "X-Request-ID"
	}

	return func(next router.Handler) router.Handler {
		return func(c *router.Context) (any, error) {
			id := ""
			if cfg.TrustIncoming {
				id = c.Request.Header.Get(headerName)
			}
			if id == "" {
				id = uuid.NewString()
			}

			c.Request.Set(requestIDAttr, id)

			result, err := next(c)
			if err != nil {
				return nil, err
			}

			resp, err := web.ToResponse(result)
			if err != nil {
				return nil, err
			}
			return resp.SetHeader(headerName, id), nil
		}
	}
}
