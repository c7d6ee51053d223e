package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/funnelhttp/funnel/web"
)

// redisKeyPrefix namespaces session keys in the keyspace.
const redisKeyPrefix = "funnel:session:"

// RedisStore persists sessions in Redis so multiple server instances can
// share them. Session values must be JSON-serializable.
type RedisStore struct {
	client redis.UniversalClient
	opts   Options
	ttl    time.Duration
	log    *slog.Logger
}

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	// Cookie configures the session cookie.
	Cookie Options

	// TTL is the Redis key expiry for stored sessions. Zero falls back to
	// the cookie Max-Age, or 24h when that is unset too.
	TTL time.Duration

	// Logger receives persistence failures. Defaults to slog.Default.
	Logger *slog.Logger
}

// NewRedisStore returns a session store backed by the given Redis client.
func NewRedisStore(client redis.UniversalClient, cfg RedisConfig) *RedisStore {
	ttl := cfg.TTL
	if ttl == 0 && cfg.Cookie.MaxAge > 0 {
		ttl = time.Duration(cfg.Cookie.MaxAge) * time.Second
	}
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &RedisStore{
		client: client,
		opts:   cfg.Cookie.withDefaults(),
		ttl:    ttl,
		log:    log,
	}
}

// GetSession loads the session with the given identifier from Redis, or
// allocates a fresh one when id is empty or expired. Mutations write through
// to Redis.
func (r *RedisStore) GetSession(id string) (web.Session, error) {
	var values map[string]any

	if id != "" {
		data, err := r.client.Get(context.Background(), redisKeyPrefix+id).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			id = ""
		case err != nil:
			return nil, fmt.Errorf("session: load %q: %w", id, err)
		default:
			if err := json.Unmarshal(data, &values); err != nil {
				return nil, fmt.Errorf("session: decode %q: %w", id, err)
			}
		}
	}

	if id == "" {
		id = uuid.NewString()
	}

	s := newSession(id, values)
	s.persist = r.save
	return s, nil
}

// save writes the session values back to Redis, refreshing the TTL.
// Failures are logged rather than propagated since mutation has no error
// path; the session stays usable for the rest of the request.
func (r *RedisStore) save(s *Session) {
	data, err := json.Marshal(s.snapshot())
	if err != nil {
		r.log.Warn("session_encode_failed", "session", s.id, "error", err)
		return
	}

	if err := r.client.Set(context.Background(), redisKeyPrefix+s.id, data, r.ttl).Err(); err != nil {
		r.log.Warn("session_persist_failed", "session", s.id, "error", err)
	}
}

// CookieName returns the name of the session cookie.
func (r *RedisStore) CookieName() string {
	return r.opts.CookieName
}

// Cookie returns the Set-Cookie header value for s.
func (r *RedisStore) Cookie(s web.Session) string {
	return r.opts.cookie(s.ID())
}
