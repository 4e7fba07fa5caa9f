package shared

import (
	"context"
	"time"
)

// ErrLockNotObtained is returned when a lock is held by someone else
var ErrLockNotObtained = NewDomainError("LOCK_NOT_OBTAINED", "Resource is locked by another operation")

// Lock is a held lock
type Lock interface {
	// Release gives the lock up. Releasing an expired lock is not an error.
	Release(ctx context.Context) error
}

// Locker hands out short-lived exclusive locks by key
type Locker interface {
	// Obtain takes the lock for key without waiting.
	// Returns ErrLockNotObtained if it is already held.
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}
