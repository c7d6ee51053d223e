package web

// Session is the per-client state handle attached to a Request when the
// server is configured with a session store. Implementations define their own
// concurrency contract.
type Session interface {
	// ID returns the opaque session identifier carried in the cookie.
	ID() string

	// Get returns the value stored under key and whether it exists.
	Get(key string) (any, bool)

	// Set stores a value under key.
	Set(key string, value any)

	// Delete removes the value stored under key.
	Delete(key string)
}

// SessionStore resolves and persists sessions. The dispatch core only knows
// this narrow contract; persistence is the store's concern.
type SessionStore interface {
	// GetSession resolves the session with the given identifier, allocating
	// a fresh session when id is empty or unknown.
	GetSession(id string) (Session, error)

	// CookieName returns the name of the cookie carrying the session
	// identifier.
	CookieName() string

	// Cookie returns the full Set-Cookie header value for s.
	Cookie(s Session) string
}
