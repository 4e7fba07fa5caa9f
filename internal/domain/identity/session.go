package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vellap/portal/internal/domain/shared"
)

// ErrSessionNotFound is returned for unknown or expired session ids
var ErrSessionNotFound = shared.NewDomainError("SESSION_NOT_FOUND", "Session not found or expired")

// Session is an authenticated browser or API session
type Session struct {
	ID        string    `json:"sid"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSession creates a session for a user with the given lifetime
func NewSession(sid string, user *User, now time.Time, ttl time.Duration) *Session {
	roles := make([]string, len(user.Roles))
	copy(roles, user.Roles)
	return &Session{
		ID:        sid,
		UserID:    user.ID,
		Email:     user.Email,
		Roles:     roles,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the session is past its expiry
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionStore persists sessions by id
type SessionStore interface {
	// Save stores the session until its expiry
	Save(ctx context.Context, session *Session) error

	// Get returns a live session or ErrSessionNotFound
	Get(ctx context.Context, sid string) (*Session, error)

	// Delete removes a session; deleting an unknown id is not an error
	Delete(ctx context.Context, sid string) error

	// Close releases resources
	Close() error
}
