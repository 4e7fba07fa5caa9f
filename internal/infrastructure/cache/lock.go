package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/vellap/portal/internal/domain/shared"
)

const lockKeyPrefix = "portal:lock:"

// RedisLocker implements shared.Locker with bsm/redislock
type RedisLocker struct {
	client *redislock.Client
}

// NewRedisLocker creates a locker on an existing Redis client
func NewRedisLocker(client redis.UniversalClient) *RedisLocker {
	return &RedisLocker{client: redislock.New(client)}
}

// Obtain takes the lock once, without retrying
func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (shared.Lock, error) {
	lock, err := l.client.Obtain(ctx, lockKeyPrefix+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, shared.ErrLockNotObtained
	}
	if err != nil {
		return nil, err
	}
	return &redisLock{lock: lock}, nil
}

type redisLock struct {
	lock *redislock.Lock
}

func (l *redisLock) Release(ctx context.Context) error {
	err := l.lock.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		return nil
	}
	return err
}

// InMemoryLocker implements shared.Locker within one process
type InMemoryLocker struct {
	mu    sync.Mutex
	held  map[string]inMemoryEntry
	now   func() time.Time
	token uint64
}

type inMemoryEntry struct {
	token     uint64
	expiresAt time.Time
}

// NewInMemoryLocker creates an empty in-memory locker
func NewInMemoryLocker() *InMemoryLocker {
	return &InMemoryLocker{
		held: make(map[string]inMemoryEntry),
		now:  time.Now,
	}
}

// Obtain takes the lock if it is free or its holder's ttl has passed
func (l *InMemoryLocker) Obtain(_ context.Context, key string, ttl time.Duration) (shared.Lock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if entry, ok := l.held[key]; ok && now.Before(entry.expiresAt) {
		return nil, shared.ErrLockNotObtained
	}
	l.token++
	l.held[key] = inMemoryEntry{token: l.token, expiresAt: now.Add(ttl)}
	return &inMemoryLock{locker: l, key: key, token: l.token}, nil
}

type inMemoryLock struct {
	locker *InMemoryLocker
	key    string
	token  uint64
}

func (l *inMemoryLock) Release(context.Context) error {
	l.locker.mu.Lock()
	defer l.locker.mu.Unlock()

	// a lock that expired and was taken over belongs to the new holder
	if entry, ok := l.locker.held[l.key]; ok && entry.token == l.token {
		delete(l.locker.held, l.key)
	}
	return nil
}

var (
	_ shared.Locker = (*RedisLocker)(nil)
	_ shared.Locker = (*InMemoryLocker)(nil)
)
