package server

import (
	"context"
	"net/http"

	"github.com/funnelhttp/funnel/cors"
	"github.com/funnelhttp/funnel/router"
	"github.com/funnelhttp/funnel/web"
)

// processRequest is the transient message carrying one matched request from
// the I/O domain to the processing domain. It has a single producer (the
// bridge that built it) and a single consumer (the processor); the reply
// channel is used exactly once.
type processRequest struct {
	req      *web.Request
	match    *router.Match
	reply    chan *web.Response
	cors     *cors.Config
	catchers map[int]Catcher
}

// processLoop is the response processor: the single consumer that drains the
// submission channel and performs all handler, middleware, and catcher
// invocation. Requests are served strictly FIFO in submission order.
// Shutdown is checked every iteration; messages still queued when it fires
// are abandoned, and their bridges observe the closed procDone channel.
func (s *Server) processLoop(ctx context.Context) {
	defer close(s.procDone)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case pr := <-s.submit:
			s.metrics.Dequeued()
			resp := s.process(pr)

			// A bridge that already gave up leaves the reply undelivered;
			// the buffered channel makes this send non-blocking either way.
			select {
			case pr.reply <- resp:
			default:
			}
		}
	}
}

// process invokes the matched handler through its middleware chain, converts
// the result, and post-processes the response: session cookie, CORS headers,
// catcher substitution, in that order.
func (s *Server) process(pr *processRequest) *web.Response {
	c := &router.Context{
		Request: pr.req,
		Params:  pr.match.Params,
		App:     s.appData,
	}

	resp := s.invoke(pr.match.Handler, c)

	if pr.req.Session != nil && s.sessions != nil {
		resp.SetSessionCookie(pr.req.Session, s.sessions)
	}
	if pr.cors != nil {
		pr.cors.Apply(resp)
	}

	return applyCatcher(pr.req, resp, pr.catchers)
}

// invoke runs the handler and normalizes its outcome. A validation failure
// yields 400, any other handler error 500, both carrying the error text as
// the body; an unconvertible result is treated as a handler failure.
func (s *Server) invoke(h router.Handler, c *router.Context) *web.Response {
	result, err := h(c)
	if err != nil {
		status := http.StatusInternalServerError
		if web.IsValidation(err) {
			status = http.StatusBadRequest
		}
		return web.Text(status, err.Error())
	}

	resp, err := web.ToResponse(result)
	if err != nil {
		s.log.Warn("response_conversion_failed", "method", c.Request.Method, "uri", c.Request.URI, "error", err)
		return web.Text(http.StatusInternalServerError, err.Error())
	}
	return resp
}

// applyCatcher substitutes the response through the catcher registered for
// its status, if any. A catcher that fails, or whose result does not convert
// to a valid response, leaves the original response intact.
func applyCatcher(req *web.Request, resp *web.Response, catchers map[int]Catcher) *web.Response {
	c, ok := catchers[resp.Status]
	if !ok {
		return resp
	}

	result, err := c(req, resp)
	if err != nil {
		return resp
	}

	replacement, err := web.ToResponse(result)
	if err != nil {
		return resp
	}
	return replacement
}
