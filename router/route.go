package router

import (
	"strconv"

	"github.com/funnelhttp/funnel/web"
)

// Handler processes one matched request and returns a result that is
// normalized with the conversion rules of package web.
type Handler func(c *Context) (any, error)

// Middleware wraps a handler with additional behaviour. It receives the next
// handler in the chain and returns the wrapping handler.
type Middleware func(next Handler) Handler

// Route is one method + path template + handler binding. Routes are
// immutable after registration and shared read-only by every in-flight
// request that matched them.
type Route struct {
	// Method is the HTTP method the route answers, uppercase.
	Method string

	// Path is the full path template, base path included.
	Path string

	handler Handler
}

// Handler returns the raw route handler, without middleware applied.
func (r *Route) Handler() Handler {
	return r.handler
}

// Params holds the path parameters captured while matching a route.
type Params map[string]string

// Get returns the value captured for the named parameter, or "".
func (p Params) Get(name string) string {
	return p[name]
}

// Match is the result of a successful route lookup: the route, its handler
// with the router's middleware chain applied, and the captured parameters.
type Match struct {
	Route   *Route
	Handler Handler
	Params  Params
}

// Context carries one request through handler and middleware invocation.
type Context struct {
	// Request is the request being processed.
	Request *web.Request

	// Params holds the path parameters captured by route matching.
	Params Params

	// App is the server-wide application value, nil unless configured.
	App any
}

// Param returns the named path parameter, or "".
func (c *Context) Param(name string) string {
	return c.Params.Get(name)
}

// ParamInt returns the named path parameter parsed as an integer.
func (c *Context) ParamInt(name string) (int, error) {
	return strconv.Atoi(c.Params.Get(name))
}
