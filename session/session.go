// Package session provides session store collaborators for the dispatch
// core: an in-memory store for single-process deployments and a Redis-backed
// store for shared state. Both implement web.SessionStore.
package session

import (
	"net/http"
	"sync"
)

// DefaultCookieName is the session cookie name used when Options.CookieName
// is empty.
const DefaultCookieName = "session_id"

// Options configures the cookie a store emits for its sessions.
type Options struct {
	// CookieName is the cookie carrying the session identifier.
	// Defaults to DefaultCookieName.
	CookieName string

	// Path is the cookie path. Defaults to "/".
	Path string

	// MaxAge is the cookie lifetime in seconds. Zero emits a session
	// cookie without Max-Age.
	MaxAge int

	// Secure marks the cookie Secure.
	Secure bool

	// SameSite is the cookie SameSite mode. Defaults to Lax.
	SameSite http.SameSite
}

func (o Options) withDefaults() Options {
	if o.CookieName == "" {
		o.CookieName = DefaultCookieName
	}
	if o.Path == "" {
		o.Path = "/"
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	return o
}

// cookie serializes the Set-Cookie header value for a session id. Session
// cookies are always HttpOnly.
func (o Options) cookie(id string) string {
	c := &http.Cookie{
		Name:     o.CookieName,
		Value:    id,
		Path:     o.Path,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: true,
		SameSite: o.SameSite,
	}
	return c.String()
}

// Session is the in-memory value map both stores hand to requests. It is
// safe for concurrent use; stores that persist externally attach a persist
// hook invoked after every mutation.
type Session struct {
	id string

	mu      sync.RWMutex
	values  map[string]any
	persist func(*Session)
}

func newSession(id string, values map[string]any) *Session {
	if values == nil {
		values = make(map[string]any)
	}
	return &Session{id: id, values: values}
}

// ID returns the opaque session identifier.
func (s *Session) ID() string {
	return s.id
}

// Get returns the value stored under key and whether it exists.
func (s *Session) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value under key.
func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()

	if s.persist != nil {
		s.persist(s)
	}
}

// Delete removes the value stored under key.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()

	if s.persist != nil {
		s.persist(s)
	}
}

// snapshot returns a copy of the session values.
func (s *Session) snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
