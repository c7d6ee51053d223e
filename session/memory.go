package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/funnelhttp/funnel/web"
)

// MemoryStore keeps sessions in process memory. Sessions live until the
// process exits; it is meant for development and single-instance servers.
type MemoryStore struct {
	opts Options

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore(opts Options) *MemoryStore {
	return &MemoryStore{
		opts:     opts.withDefaults(),
		sessions: make(map[string]*Session),
	}
}

// GetSession returns the session with the given identifier, or a freshly
// allocated one when id is empty or unknown.
func (m *MemoryStore) GetSession(id string) (web.Session, error) {
	if id != "" {
		m.mu.RLock()
		s, ok := m.sessions[id]
		m.mu.RUnlock()
		if ok {
			return s, nil
		}
	}

	s := newSession(uuid.NewString(), nil)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	return s, nil
}

// CookieName returns the name of the session cookie.
func (m *MemoryStore) CookieName() string {
	return m.opts.CookieName
}

// Cookie returns the Set-Cookie header value for s.
func (m *MemoryStore) Cookie(s web.Session) string {
	return m.opts.cookie(s.ID())
}

// Len returns the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
