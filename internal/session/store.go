package session

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidSession = errors.New("session: invalid session")

// Session represents an authenticated user session.
// It stores only identity pointers; callers treat it as opaque.
type Session struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"` // references users.id
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"` // absolute expiry time
}

// Subject returns the authenticated principal.
func (s *Session) Subject() string {
	return s.UserID
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store defines how sessions are stored and retrieved.
// Get returns (nil, nil) when the session does not exist.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID string) error
}
