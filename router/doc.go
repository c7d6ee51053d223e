// Package router implements method-keyed path trie routing for the dispatch
// core.
//
// Routes are registered on a Builder during the build phase and frozen into
// an immutable Router with Build. The Router is shared read-only across all
// connection goroutines; because no mutation happens after Build, lookups
// need no locking.
//
// # Path templates
//
// A path template is a sequence of slash-separated segments:
//
//	/users                  literal segments
//	/users/{id}             named parameter, matches any non-empty segment
//	/users/{id:int}         typed parameter, matches digit segments only
//	/static/{*path}         trailing wildcard, matches the remainder
//
// Literal segments take precedence over parameters at the same depth; a
// wildcard is tried last. Registering two patterns that claim the same
// method and position incompatibly fails with a conflict error at Build.
//
// # Middleware
//
// Middleware registered with Use wraps every route of the router. The chain
// is composed once at Build: the first middleware registered is the
// outermost wrapper, the last registered is closest to the handler.
package router
