package router

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// ConflictError is returned from Build when a route claims a path+method
// pair that is already taken by an incompatible pattern.
type ConflictError struct {
	Route  *Route
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("router: conflicting route %s %s: %s", e.Route.Method, e.Route.Path, e.Reason)
}

// Builder accumulates routes, middleware, and nested services during the
// build phase. Build freezes it into an immutable Router; the Builder must
// not be used for registration afterwards.
type Builder struct {
	basePath    string
	routes      []*Route
	middlewares []Middleware
	services    []*Builder
	err         error
}

// New returns a Builder whose routes are registered under basePath. An empty
// basePath registers routes at the root.
func New(basePath string) *Builder {
	return &Builder{basePath: basePath}
}

// Use appends middleware to the router's chain. Middleware wraps every route
// of this router and of nested services, in registration order: the first
// registered runs outermost.
func (b *Builder) Use(mw ...Middleware) *Builder {
	b.middlewares = append(b.middlewares, mw...)
	return b
}

// Handle registers a handler for the given method and path template.
func (b *Builder) Handle(method, path string, h Handler) *Builder {
	if b.err == nil && h == nil {
		b.err = fmt.Errorf("router: nil handler for %s %s", method, path)
		return b
	}
	b.routes = append(b.routes, &Route{
		Method:  strings.ToUpper(method),
		Path:    path,
		handler: h,
	})
	return b
}

// Get registers a GET route.
func (b *Builder) Get(path string, h Handler) *Builder {
	return b.Handle(http.MethodGet, path, h)
}

// Post registers a POST route.
func (b *Builder) Post(path string, h Handler) *Builder {
	return b.Handle(http.MethodPost, path, h)
}

// Put registers a PUT route.
func (b *Builder) Put(path string, h Handler) *Builder {
	return b.Handle(http.MethodPut, path, h)
}

// Delete registers a DELETE route.
func (b *Builder) Delete(path string, h Handler) *Builder {
	return b.Handle(http.MethodDelete, path, h)
}

// Patch registers a PATCH route.
func (b *Builder) Patch(path string, h Handler) *Builder {
	return b.Handle(http.MethodPatch, path, h)
}

// Head registers a HEAD route.
func (b *Builder) Head(path string, h Handler) *Builder {
	return b.Handle(http.MethodHead, path, h)
}

// Options registers an OPTIONS route.
func (b *Builder) Options(path string, h Handler) *Builder {
	return b.Handle(http.MethodOptions, path, h)
}

// Service nests another builder under this one. The child's routes are
// registered below this router's base path with this router's middleware
// applied outside the child's own.
func (b *Builder) Service(child *Builder) *Builder {
	b.services = append(b.services, child)
	return b
}

// Build freezes the builder into an immutable Router. It returns the first
// registration error, including ConflictError for incompatible patterns.
func (b *Builder) Build() (*Router, error) {
	r := &Router{
		basePath: b.basePath,
		trees:    make(map[string]*node),
	}
	if err := b.register(r, "", nil); err != nil {
		return nil, err
	}
	return r, nil
}

// register inserts this builder's routes into r, prefixed and wrapped by the
// ancestors' accumulated state, then recurses into nested services.
func (b *Builder) register(r *Router, prefix string, outer []Middleware) error {
	if b.err != nil {
		return b.err
	}

	chain := append(slices.Clone(outer), b.middlewares...)

	for _, pending := range b.routes {
		route := &Route{
			Method:  pending.Method,
			Path:    joinPath(prefix, b.basePath, pending.Path),
			handler: pending.handler,
		}

		tree, ok := r.trees[route.Method]
		if !ok {
			tree = newNode()
			r.trees[route.Method] = tree
		}

		if err := tree.insert(splitPath(route.Path), route, compose(chain, route.handler)); err != nil {
			return err
		}
		r.routes = append(r.routes, route)
	}

	childPrefix := joinPath(prefix, b.basePath)
	for _, svc := range b.services {
		if err := svc.register(r, childPrefix, chain); err != nil {
			return err
		}
	}

	return nil
}

// compose folds the middleware list over h from last to first, so the last
// registered middleware ends up closest to the handler.
func compose(mws []Middleware, h Handler) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Router is the immutable routing table produced by Build. It is safe for
// concurrent lookup without locking because it is never mutated after Build.
type Router struct {
	basePath string
	trees    map[string]*node
	routes   []*Route
}

// BasePath returns the base path the router was built with.
func (r *Router) BasePath() string {
	return r.basePath
}

// Routes returns the registered routes with their full path templates.
func (r *Router) Routes() []*Route {
	return slices.Clone(r.routes)
}

// Find looks up the route matching the given method and request target. Any
// query component of uri is ignored. It returns the match with captured
// parameters, or false when no route matches.
func (r *Router) Find(method, uri string) (*Match, bool) {
	path := uri
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}

	tree, ok := r.trees[strings.ToUpper(method)]
	if !ok {
		return nil, false
	}

	params := make(Params)
	n := tree.match(splitPath(path), params)
	if n == nil {
		return nil, false
	}

	return &Match{Route: n.route, Handler: n.handler, Params: params}, true
}

// joinPath joins path fragments with single slash separators, collapsing
// empty segments, so base "/api/" plus "/items" yields "/api/items".
func joinPath(parts ...string) string {
	var segments []string
	for _, part := range parts {
		for _, seg := range strings.Split(part, "/") {
			if seg != "" {
				segments = append(segments, seg)
			}
		}
	}
	return "/" + strings.Join(segments, "/")
}

// splitPath splits a request path into its non-empty segments.
func splitPath(path string) []string {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}
