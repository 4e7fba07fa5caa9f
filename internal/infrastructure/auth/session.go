package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vellap/portal/internal/domain/identity"
)

// NewSessionID returns a random 256-bit session id in hex
func NewSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

const sessionKeyPrefix = "portal:session:"

// RedisSessionStore keeps sessions as JSON values that expire with the
// session.
type RedisSessionStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisSessionStore creates a session store on an existing client
func NewRedisSessionStore(client redis.UniversalClient) *RedisSessionStore {
	return &RedisSessionStore{client: client, keyPrefix: sessionKeyPrefix}
}

func (s *RedisSessionStore) key(sid string) string {
	return s.keyPrefix + sid
}

// Save stores the session until it expires
func (s *RedisSessionStore) Save(ctx context.Context, session *identity.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Get returns a live session or identity.ErrSessionNotFound
func (s *RedisSessionStore) Get(ctx context.Context, sid string) (*identity.Session, error) {
	if sid == "" {
		return nil, identity.ErrSessionNotFound
	}
	data, err := s.client.Get(ctx, s.key(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, identity.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session identity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if session.IsExpired(time.Now()) {
		return nil, identity.ErrSessionNotFound
	}
	return &session, nil
}

// Delete removes a session
func (s *RedisSessionStore) Delete(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

// InMemorySessionStore keeps sessions in process memory. Used when Redis is
// disabled and in tests.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*identity.Session
	now      func() time.Time
}

// NewInMemorySessionStore creates an empty in-memory session store
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[string]*identity.Session),
		now:      time.Now,
	}
}

// Save stores a copy of the session
func (s *InMemorySessionStore) Save(_ context.Context, session *identity.Session) error {
	cp := *session
	cp.Roles = append([]string(nil), session.Roles...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = &cp
	s.evictExpiredLocked()
	return nil
}

// Get returns a copy of a live session
func (s *InMemorySessionStore) Get(_ context.Context, sid string) (*identity.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[sid]
	s.mu.RUnlock()

	if !ok || session.IsExpired(s.now()) {
		return nil, identity.ErrSessionNotFound
	}
	cp := *session
	cp.Roles = append([]string(nil), session.Roles...)
	return &cp, nil
}

// Delete removes a session
func (s *InMemorySessionStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}

// Close drops all sessions
func (s *InMemorySessionStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.sessions)
	return nil
}

// Len returns the number of stored sessions, including expired ones not yet evicted
func (s *InMemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *InMemorySessionStore) evictExpiredLocked() {
	now := s.now()
	for sid, session := range s.sessions {
		if session.IsExpired(now) {
			delete(s.sessions, sid)
		}
	}
}

var (
	_ identity.SessionStore = (*RedisSessionStore)(nil)
	_ identity.SessionStore = (*InMemorySessionStore)(nil)
)
