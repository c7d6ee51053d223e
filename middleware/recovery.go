package middleware

import (
	"log/slog"
	"net/http"

	"github.com/funnelhttp/funnel/router"
	"github.com/funnelhttp/funnel/web"
)

// RecoveryConfig configures the Recovery middleware.
type RecoveryConfig struct {
	// Logger receives recovered panics. Defaults to slog.Default.
	Logger *slog.Logger
}

// Recovery returns middleware that recovers from panics in downstream
// handlers, logs the recovered value, and turns the request into a 500
// response instead of tearing down the processor.
func Recovery(cfg RecoveryConfig) router.Middleware {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return func(next router.Handler) router.Handler {
		return func(c *router.Context) (result any, err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("handler_panic", "method", c.Request.Method, "uri", c.Request.URI, "panic", r)
					result = web.Text(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
					err = nil
				}
			}()

			return next(c)
		}
	}
}
