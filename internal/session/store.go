// Package session owns the bearer token handed back by the OAuth callback.
// It is the single writer of authentication state: the token changes only
// through SetToken (login), Clear (logout or an authorization failure seen
// by the gateway), never by ad hoc assignment.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sess:admin:"

// Store holds one bearer token per session ID.
type Store interface {
	// SetToken records the token delivered by the OAuth callback.
	SetToken(ctx context.Context, sid, token string) error
	// Token returns the held token, or "" when the session is anonymous.
	Token(ctx context.Context, sid string) (string, error)
	// Clear drops the token. Idempotent.
	Clear(ctx context.Context, sid string) error
}

// Usable reports whether a held token is still worth presenting to the
// backend. Tokens are opaque to us, but when one happens to be a JWT with
// an expiry in the past there is no point issuing the identity check; it
// is treated the same as an absent token. The parse is unverified on
// purpose: signature validation belongs to the backend.
func Usable(token string) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Not a JWT; let the backend decide.
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.After(time.Now())
}

// RedisStore persists tokens so a session survives process restarts, the
// way the browser client kept its token across page reloads.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) SetToken(ctx context.Context, sid, token string) error {
	return s.rdb.Set(ctx, keyPrefix+sid, token, s.ttl).Err()
}

func (s *RedisStore) Token(ctx context.Context, sid string) (string, error) {
	v, err := s.rdb.Get(ctx, keyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, keyPrefix+sid).Err()
}

// MemoryStore keeps tokens in process. Used when REDIS_ADDR is not
// configured and in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	ttl    time.Duration
	tokens map[string]memoryEntry
}

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:    ttl,
		tokens: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) SetToken(_ context.Context, sid, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[sid] = memoryEntry{token: token, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Token(_ context.Context, sid string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.tokens[sid]
	if !ok || time.Now().After(e.expiresAt) {
		return "", nil
	}
	return e.token, nil
}

func (s *MemoryStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, sid)
	return nil
}
