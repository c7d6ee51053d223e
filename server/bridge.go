package server

import (
	"net/http"
	"time"

	"github.com/funnelhttp/funnel/form"
	"github.com/funnelhttp/funnel/router"
	"github.com/funnelhttp/funnel/web"
)

// dispatch runs the bridge for one request and records the outcome.
func (s *Server) dispatch(req *web.Request) *web.Response {
	start := time.Now()
	resp := s.bridge(req)
	s.metrics.ObserveRequest(req.Method, resp.Status, time.Since(start))
	return resp
}

// bridge translates one internal request into a response: it resolves the
// session, decodes form bodies, short-circuits CORS preflights, matches the
// request against the attached routers, and funnels matched work through the
// submission channel. It runs on the connection goroutine.
func (s *Server) bridge(req *web.Request) *web.Response {
	if req.Method == http.MethodOptions && s.cors != nil {
		return s.cors.Preflight()
	}

	if s.sessions != nil {
		id, _ := req.Cookie(s.sessions.CookieName())
		sess, err := s.sessions.GetSession(id)
		if err != nil {
			s.log.Warn("session_resolve_failed", "error", err)
			return web.Text(http.StatusInternalServerError, "session unavailable")
		}
		req.Session = sess
	}

	if contentType := req.Header.Get("Content-Type"); len(req.Body) > 0 && form.Supported(contentType) {
		decoded, err := form.Parse(contentType, req.Body)
		if err != nil {
			return web.Text(http.StatusBadRequest, err.Error())
		}
		req.Form = decoded.Fields
		if len(decoded.Files) > 0 {
			req.Files = decoded.Files
		}
	}

	for _, rt := range s.routers {
		if match, ok := rt.Find(req.Method, req.URI); ok {
			return s.submitAndWait(req, match)
		}
	}

	return s.notFound(req)
}

// notFound synthesizes the no-match response without touching the submission
// channel. CORS headers and a registered 404 catcher still apply.
func (s *Server) notFound(req *web.Request) *web.Response {
	resp := web.Text(http.StatusNotFound, "not found")
	if s.cors != nil {
		s.cors.Apply(resp)
	}
	return applyCatcher(req, resp, s.catchers)
}

// submitAndWait hands the matched request to the response processor and
// blocks until exactly one reply arrives. Sending blocks while the
// submission channel is full; that suspension is the backpressure point. A
// processor that has shut down degrades the request to a generic error
// response.
func (s *Server) submitAndWait(req *web.Request, match *router.Match) *web.Response {
	reply := make(chan *web.Response, s.channelCapacity)
	pr := &processRequest{
		req:      req,
		match:    match,
		reply:    reply,
		cors:     s.cors,
		catchers: s.catchers,
	}

	s.metrics.Enqueued()

	select {
	case s.submit <- pr:
	case <-s.procDone:
		s.metrics.Dequeued()
		return web.Text(http.StatusInternalServerError, "server is shutting down")
	}

	select {
	case resp := <-reply:
		return resp
	case <-s.procDone:
		// The processor exited; it may still have replied before doing so.
		select {
		case resp := <-reply:
			return resp
		default:
			return web.Text(http.StatusInternalServerError, "request was not processed")
		}
	}
}
